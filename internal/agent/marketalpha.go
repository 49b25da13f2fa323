package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/tmc/langchaingo/llms"

	"github.com/aelys/aelys/internal/classify"
	"github.com/aelys/aelys/internal/models"
)

// marketAlphaCapabilities is the planning set honored by the market insight
// agent: the five insight endpoints plus the collection, NFT and
// marketplace capabilities its planner may reach for. Narrower than the
// full market dispatch table by collection_metadata and
// marketplace_washtrade, which belong to the copilot cascade.
var marketAlphaCapabilities = []string{
	"analytics", "holders", "scores", "traders", "washtrade",
	"collection_whales", "floor_price", "nft_analytics", "nft_listings",
	"token_balance", "marketplace_metadata", "marketplace_analytics",
}

const marketAlphaErrorAnswer = "I apologize, but I encountered an error processing your market analytics request. Please try again."

const marketAnalystSystem = "You are a helpful NFT market analyst. Provide VERY BRIEF, conversational insights about market data. Keep responses under 120 words. Focus on key trends only. Include brief chart conclusion when chart data is available."

// MarketAlpha serves market-level insight queries. Educational questions
// short-circuit to a conversational answer; everything else goes through a
// JSON-mode planning call, sequential endpoint execution, and a brief
// synthesis round. The chart of the first successful call is the one
// attached to the response, in the plan's original order.
func (a *Agents) MarketAlpha(ctx context.Context, query string, history []models.ChatMessage) *models.AgentResponse {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "agent.market_alpha")
	defer span.End()

	if classify.IsGeneralQuery(query) {
		answer, tokens, err := complete(ctx, a.llm,
			buildMessages(marketAlphaGeneralPrompt, history, query),
			llms.WithTemperature(0.7), llms.WithMaxTokens(1500))
		if err != nil {
			a.logger.Error().Err(err).Msg("market alpha general completion failed")
			return finish(start, &models.AgentResponse{Answer: marketAlphaErrorAnswer, Error: err.Error()})
		}
		return finish(start, &models.AgentResponse{
			Answer:   answer,
			Metadata: models.ResponseMetadata{TokensUsed: tokens},
		})
	}

	reply, tokens, err := complete(ctx, a.llm,
		buildMessages(marketAlphaSystemPrompt, history, query),
		llms.WithJSONMode(), llms.WithTemperature(0.3), llms.WithMaxTokens(1500))
	if err != nil {
		a.logger.Error().Err(err).Msg("market alpha planning failed")
		return finish(start, &models.AgentResponse{Answer: marketAlphaErrorAnswer, Error: err.Error()})
	}

	plan, ok := parsePlan(reply, marketAlphaCapabilities)
	if !ok {
		// The prompt demands JSON, so this path is unexpected for insight
		// queries. The raw reply is still prose, so surface it.
		a.logger.Warn().Str("query", query).Msg("market alpha reply was not an action plan")
		return finish(start, &models.AgentResponse{
			Answer:   reply,
			Metadata: models.ResponseMetadata{TokensUsed: tokens},
		})
	}

	var (
		results  []models.EndpointResult
		chart    *models.ChartSeries
		table    *models.TableData
		hasValid bool
	)
	for _, call := range plan.Calls {
		raw, err := a.api.CallMarket(ctx, call.Capability, call.Params)
		if err != nil {
			a.logger.Warn().Err(err).Str("capability", call.Capability).Msg("market insight call failed")
			results = append(results, models.EndpointResult{Capability: call.Capability, Err: err.Error()})
			continue
		}
		if !hasData(raw) {
			results = append(results, models.EndpointResult{
				Capability: call.Capability,
				Err:        "No data available for the specified parameters",
			})
			continue
		}
		results = append(results, models.EndpointResult{Capability: call.Capability, Data: raw, Success: true})
		hasValid = true
		if chart == nil {
			chart = extractChartSeries(raw, call.Capability)
		}
		if table == nil && call.Capability == "collection_whales" {
			table = buildWhaleTable(raw)
		}
	}

	if !hasValid {
		first := plan.Calls[0]
		return finish(start, &models.AgentResponse{
			Answer: noDataAnswer(first.Capability,
				paramString(first.Params, "blockchain", "Ethereum"),
				paramString(first.Params, "time_range", "24h")),
			Metadata: models.ResponseMetadata{TokensUsed: tokens, NoDataAvailable: true},
		})
	}

	analysisPrompt := fmt.Sprintf(`You are a market analyst. Analyze the following NFT market data and provide BRIEF insights in simple, conversational language.

User Query: %s

Market Data: %s

Provide a concise analysis under 120 words that includes:
1. Key trends and patterns in the data
2. Notable changes or movements
3. Brief chart conclusion if visualization data is available

Write in a friendly, direct tone. Be factual and concise.`, query, models.ToJSON(results))

	answer, analysisTokens, err := complete(ctx, a.llm,
		buildMessages(marketAnalystSystem, nil, analysisPrompt),
		llms.WithTemperature(0.7), llms.WithMaxTokens(500))
	if err != nil {
		a.logger.Error().Err(err).Msg("market alpha analysis failed")
		return finish(start, &models.AgentResponse{
			Answer:   marketAlphaErrorAnswer,
			Error:    err.Error(),
			Metadata: models.ResponseMetadata{TokensUsed: tokens},
		})
	}

	return finish(start, &models.AgentResponse{
		Answer:     answer,
		ChartData:  chart,
		VisualData: table,
		Endpoints:  callNames(plan.Calls),
		Metadata:   models.ResponseMetadata{TokensUsed: tokens + analysisTokens},
	})
}

// noDataAnswer explains an empty insight result. Washtrade, scores and
// holders get endpoint-specific guidance, the rest share a generic line.
func noDataAnswer(capability, blockchain, timeRange string) string {
	switch capability {
	case "washtrade":
		return fmt.Sprintf("I attempted to fetch wash trade detection data for %s NFTs over the last %s, but no data is currently available from the API endpoint. This could be due to:\n\n• No wash trading activity detected in the specified time period\n• Temporary data availability issues\n• The blockchain or time range parameters may not have sufficient data\n\nWash trade detection typically monitors:\n- Suspect sales and transactions\n- Unusual trading patterns\n- Volume anomalies\n- Wallet behavior analysis\n\nYou might want to try a different time range (like 7d or 30d) or check back later when more data becomes available.", blockchain, timeRange)
	case "scores":
		return fmt.Sprintf("I attempted to fetch market scores and sentiment data for %s NFTs over the last %s, but no data is currently available from the API endpoint. This could be due to:\n\n• Temporary data processing delays\n• Insufficient market activity for score calculation\n• The specified parameters may not have available data\n\nMarket scores typically include:\n- Market cap trends\n- Market state indicators\n- NFT fear & greed index\n- Overall market sentiment\n\nPlease try again with a different time range or check back later.", blockchain, timeRange)
	case "holders":
		return fmt.Sprintf("I attempted to fetch holder insights for %s NFTs over the last %s, but no data is currently available from the API endpoint. This could be due to:\n\n• Limited holder activity in the specified period\n• Data processing delays\n• The blockchain or time range may not have sufficient holder data\n\nHolder insights typically track:\n- Volume and sales trends\n- Transaction patterns\n- Transfer activities\n- Holder behavior changes\n\nConsider trying a longer time range like 7d or 30d for more comprehensive data.", blockchain, timeRange)
	default:
		return fmt.Sprintf("I attempted to fetch %s data for %s over the last %s, but no data is currently available from the API endpoint. This might be temporary - please try again later or with different parameters.", capability, blockchain, timeRange)
	}
}
