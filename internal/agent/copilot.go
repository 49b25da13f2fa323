package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/aelys/aelys/internal/classify"
	"github.com/aelys/aelys/internal/models"
	"github.com/aelys/aelys/internal/unleash"
)

// Copilot answers wallet and portfolio questions. The query walks an
// ordered cascade of classifiers; the first match wins and several keyword
// sets deliberately overlap, so the order here is load-bearing. Queries
// that fall through every deterministic branch go to the language model
// for planning against the portfolio capability set.
func (a *Agents) Copilot(ctx context.Context, query, wallet string, history []models.ChatMessage) *models.AgentResponse {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "agent.copilot")
	defer span.End()

	switch {
	case classify.IsWalletMetricsQuery(query):
		return a.copilotWalletMetrics(ctx, start, query, wallet)
	case classify.IsWashtradeQuery(query):
		return a.copilotWashtrade(ctx, start, query, wallet)
	case classify.IsCollectionMetadataQuery(query):
		return a.copilotCollectionMetadata(ctx, start, query)
	case classify.IsFloorPriceQuery(query):
		return a.copilotFloorPrice(ctx, start, query)
	case classify.IsNftAnalyticsQuery(query):
		return a.copilotNftAnalytics(ctx, start, query)
	case classify.IsMarketplaceQuery(query):
		return a.copilotMarketplace(ctx, start, query)
	}

	if classify.IsGeneralQuery(query) {
		answer, tokens, err := complete(ctx, a.llm,
			buildMessages(copilotGeneralPrompt, history, query),
			llms.WithTemperature(0.7), llms.WithMaxTokens(1500))
		if err != nil {
			a.logger.Error().Err(err).Msg("copilot general completion failed")
			return finish(start, &models.AgentResponse{Answer: fallbackErrorAnswer, Error: err.Error()})
		}
		return finish(start, &models.AgentResponse{
			Answer:   answer,
			Metadata: models.ResponseMetadata{TokensUsed: tokens},
		})
	}

	lower := strings.ToLower(query)
	if wallet == "" &&
		(strings.Contains(lower, "my wallet") ||
			strings.Contains(lower, "my portfolio") ||
			strings.Contains(lower, "my holdings")) {
		return finish(start, &models.AgentResponse{
			Answer:   connectWalletAnswer,
			Metadata: models.ResponseMetadata{RequiresWallet: true},
		})
	}

	planningInput := fmt.Sprintf("Wallet Address: %s\nQuery: %s", wallet, query)
	reply, tokens, err := complete(ctx, a.llm,
		buildMessages(copilotSystemPrompt, history, planningInput),
		llms.WithTemperature(0.3), llms.WithMaxTokens(1500))
	if err != nil {
		a.logger.Error().Err(err).Msg("copilot planning failed")
		return finish(start, &models.AgentResponse{Answer: fallbackErrorAnswer, Error: err.Error()})
	}

	plan, ok := parsePlan(reply, unleash.PortfolioCapabilities)
	if !ok {
		if classify.IsMarketInsightQuery(query) {
			return a.MarketAlpha(ctx, query, history)
		}
		if classify.IsMarketLevelQuery(query) {
			answer, marketTokens, err := complete(ctx, a.llm,
				buildMessages(copilotMarketPrompt, history, query),
				llms.WithTemperature(0.7), llms.WithMaxTokens(1500))
			if err != nil {
				a.logger.Error().Err(err).Msg("copilot market completion failed")
				return finish(start, &models.AgentResponse{Answer: fallbackErrorAnswer, Error: err.Error()})
			}
			return finish(start, &models.AgentResponse{
				Answer:   answer,
				Metadata: models.ResponseMetadata{TokensUsed: marketTokens},
			})
		}
		if wallet != "" {
			plan = keywordFallbackPlan(query)
		}
		if plan == nil {
			return finish(start, &models.AgentResponse{
				Answer:   reply,
				Metadata: models.ResponseMetadata{TokensUsed: tokens},
			})
		}
	}

	results := make([]models.EndpointResult, 0, len(plan.Calls))
	var failed []string
	successes := 0
	for _, call := range plan.Calls {
		data, err := a.api.CallPortfolio(ctx, call.Capability, wallet, models.DefaultBlockchain, query)
		if err != nil {
			a.logger.Warn().Err(err).Str("capability", call.Capability).Msg("portfolio call failed")
			results = append(results, models.EndpointResult{Capability: call.Capability, Err: err.Error()})
			failed = append(failed, call.Capability)
			continue
		}
		results = append(results, models.EndpointResult{Capability: call.Capability, Data: data, Success: true})
		successes++
	}

	if successes == 0 {
		return finish(start, &models.AgentResponse{
			Answer: portfolioUnavailableAnswer(wallet),
			Metadata: models.ResponseMetadata{
				TokensUsed:      tokens,
				FailedEndpoints: strings.Join(failed, ", "),
			},
		})
	}

	answer, analysisTokens, err := a.analyze(ctx,
		"You are a helpful crypto portfolio analyst. Provide BRIEF, concise analysis in paragraph format. Keep responses under 120 words. Focus on key insights only, not raw data. Be direct and factual.",
		portfolioAnalysisPrompt(query, wallet, results, failed, classify.IsDetailedQuery(query)),
		500, 0.7)
	if err != nil {
		a.logger.Error().Err(err).Msg("copilot analysis failed")
		return finish(start, &models.AgentResponse{
			Answer:   "I was able to fetch some of your portfolio data, but encountered issues analyzing it. Please try asking a more specific question.",
			Error:    err.Error(),
			Metadata: models.ResponseMetadata{TokensUsed: tokens},
		})
	}

	return finish(start, &models.AgentResponse{
		Answer: answer,
		Metadata: models.ResponseMetadata{
			TokensUsed:          tokens + analysisTokens,
			SuccessfulEndpoints: successes,
			FailedEndpoints:     strings.Join(failed, ", "),
		},
	})
}

// analyze runs a single system+user completion for the data branches.
func (a *Agents) analyze(ctx context.Context, system, prompt string, maxTokens int, temperature float64) (string, int, error) {
	messages := []llms.MessageContent{
		llms.TextParts(schema.ChatMessageTypeSystem, system),
		llms.TextParts(schema.ChatMessageTypeHuman, prompt),
	}
	return complete(ctx, a.llm, messages,
		llms.WithTemperature(temperature), llms.WithMaxTokens(maxTokens))
}

// branchError turns an analytics failure into a user-facing answer.
// Validation failures carry presentable text and surface verbatim, anything
// else gets the branch's templated apology.
func branchError(start time.Time, err error, fallback string) *models.AgentResponse {
	if unleash.IsValidationError(err) {
		return finish(start, &models.AgentResponse{Answer: err.Error()})
	}
	return finish(start, &models.AgentResponse{Answer: fallback})
}

func (a *Agents) copilotWalletMetrics(ctx context.Context, start time.Time, query, wallet string) *models.AgentResponse {
	queryWallet := classify.ExtractWalletAddress(query)
	blockchain := classify.ExtractBlockchain(query)

	if !models.IsSupportedChain(blockchain, models.WalletMetricsChains) {
		return finish(start, &models.AgentResponse{
			Answer: fmt.Sprintf("Sorry, I can only fetch wallet metrics for Ethereum, Polygon, Linea, or Avalanche. You requested %s.", capitalize(blockchain)),
		})
	}

	target := queryWallet
	if target == "" {
		target = wallet
	}
	if target == "" {
		return finish(start, &models.AgentResponse{Answer: needWalletForMetricsAnswer})
	}

	raw, err := a.api.GetWalletMetrics(ctx, target, blockchain, "all")
	if err != nil {
		return branchError(start, err,
			fmt.Sprintf("I encountered an error fetching wallet metrics for %s on %s. This could be due to API issues or the wallet might not have sufficient data. Please try again later.", target, capitalize(blockchain)))
	}

	answer, tokens, err := a.analyze(ctx,
		"You are a crypto wallet analyst. Provide VERY BRIEF, concise responses in paragraph format. Keep responses under 100 words. Never use # tags or bullet points anywhere. Never show raw JSON. Write in flowing, natural paragraphs. Use **bold text** for key metrics only.",
		walletMetricsPrompt(query, target, blockchain, raw, classify.IsDetailedQuery(query)),
		400, 0.3)
	if err != nil {
		a.logger.Error().Err(err).Msg("wallet metrics analysis failed")
		return finish(start, &models.AgentResponse{
			Answer: "I was able to fetch the wallet metrics but encountered issues analyzing the data.",
			Error:  err.Error(),
		})
	}

	return finish(start, &models.AgentResponse{
		Answer:   answer,
		Metadata: models.ResponseMetadata{TokensUsed: tokens},
	})
}

func walletMetricsPrompt(query, wallet, blockchain string, data json.RawMessage, detailed bool) string {
	if detailed {
		return fmt.Sprintf(`Provide a detailed analysis of the following wallet metrics data, including comprehensive insights.

Wallet: %s
Blockchain: %s
User Query: %q

Wallet Metrics Data: %s

Include deep analysis, all metrics, trends, and recommendations. Use # headings and provide comprehensive breakdowns.`, wallet, capitalize(blockchain), query, data)
	}
	return fmt.Sprintf(`Generate a VERY CONCISE wallet metrics summary. NO verbose explanations, NO recommendations, NO filler text.

Wallet: %s
Blockchain: %s
User Query: %q

Wallet Metrics Data: %s

Format EXACTLY like this (use actual data from JSON):

Here's a brief summary of the wallet metrics for %s on %s. The total value of your wallet is $X.XX USD, with an ETH balance of X.XXXXX ETH ($XX.XX). You have X tokens in your account.

This wallet first became active on Month Day, Year and was last active on Month Day, Year. In total, there have been X transactions with X incoming and X outgoing. The inflow was X.XX ETH from X addresses totaling $X,XXX.XX, while the outflow accounted for X.XX ETH to X addresses totaling $X,XXX.XX.

Your wallet has been active for X days and has an age of X days. Fortunately, there is no illicit volume detected, showcasing that your wallet activities are legitimate and secure. This concise summary provides the essential insights about your wallet's current status.

Keep it factual, brief, and do NOT use # tags anywhere. NO extra commentary or explanations.`,
		wallet, capitalize(blockchain), query, data, shortAddress(wallet), capitalize(blockchain))
}

func (a *Agents) copilotWashtrade(ctx context.Context, start time.Time, query, wallet string) *models.AgentResponse {
	queryWallet := classify.ExtractWalletAddress(query)
	blockchain := classify.ExtractBlockchain(query)
	sortBy := classify.DetectSortBy(query, "nft_washtrade")

	// Market keywords dominate over a merely connected wallet. An address
	// embedded in the query is the only thing that forces the wallet view.
	if queryWallet == "" || classify.IsWashtradeMarketLevel(query) {
		raw, err := a.api.GetNftWalletWashtrade(ctx, "", blockchain, "24h", sortBy)
		if err != nil {
			return branchError(start, err,
				fmt.Sprintf("I encountered an error fetching washtrade data for %s. This could be due to API issues or insufficient data for the specified blockchain. Please try again later or try a different blockchain.", capitalize(blockchain)))
		}

		prompt := fmt.Sprintf(`Analyze the following NFT washtrade market data and provide a brief paragraph summary focusing on key washtrade metrics:

Blockchain: %s
User Query: %q

Washtrade Market Data: %s

Provide a natural language summary focusing on:
- washtrade_volume
- washtrade_suspect_sales
- washtrade_suspect_sales_change
- washtrade_volume_change

Format as a conversational paragraph explaining recent washtrade trends in the %s NFT market. Use bullet points only if essential for clarity.`, capitalize(blockchain), query, raw, blockchain)

		answer, tokens, err := a.analyze(ctx,
			"You are a crypto market analyst specializing in fraud detection. Provide BRIEF, concise explanations about washtrade patterns. Keep responses under 80 words. Be direct and factual.",
			prompt, 300, 0.3)
		if err != nil {
			a.logger.Error().Err(err).Msg("market washtrade analysis failed")
			return finish(start, &models.AgentResponse{
				Answer: "I was able to fetch washtrade market data but encountered issues analyzing it.",
				Error:  err.Error(),
			})
		}
		return finish(start, &models.AgentResponse{
			Answer:   answer,
			Metadata: models.ResponseMetadata{TokensUsed: tokens},
		})
	}

	target := queryWallet
	if target == "" {
		target = wallet
	}
	raw, err := a.api.GetNftWalletWashtrade(ctx, target, blockchain, "24h", sortBy)
	if err != nil {
		return branchError(start, err,
			fmt.Sprintf("I encountered an error fetching washtrade data for wallet %s on %s. This could be due to API issues or the wallet might not have sufficient data. Please try again later.", target, capitalize(blockchain)))
	}

	prompt := fmt.Sprintf(`Analyze the following wallet-specific NFT washtrade data and provide a brief paragraph summary:

Wallet: %s
Blockchain: %s
User Query: %q

Wallet Washtrade Data: %s

Provide a natural language summary focusing on key washtrade metrics for this specific wallet. Use bullet points only if essential for clarity.`, target, capitalize(blockchain), query, raw)

	answer, tokens, err := a.analyze(ctx,
		"You are a crypto wallet analyst specializing in fraud detection. Provide clear, conversational explanations about wallet-specific washtrade patterns.",
		prompt, 600, 0.3)
	if err != nil {
		a.logger.Error().Err(err).Msg("wallet washtrade analysis failed")
		return finish(start, &models.AgentResponse{
			Answer: "I was able to fetch wallet washtrade data but encountered issues analyzing it.",
			Error:  err.Error(),
		})
	}
	return finish(start, &models.AgentResponse{
		Answer:   answer,
		Metadata: models.ResponseMetadata{TokensUsed: tokens},
	})
}

func (a *Agents) copilotCollectionMetadata(ctx context.Context, start time.Time, query string) *models.AgentResponse {
	contracts := classify.ExtractContractAddresses(query)
	slugs := classify.ExtractSlugNames(query)
	blockchain := classify.ExtractBlockchain(query)

	if len(contracts) == 0 && len(slugs) == 0 {
		return finish(start, &models.AgentResponse{Answer: needCollectionIdentifierAnswer})
	}

	raw, err := a.api.GetCollectionMetadata(ctx, blockchain, contracts, slugs)
	if err != nil {
		var apiErr *unleash.APIError
		if errors.As(err, &apiErr) {
			return finish(start, &models.AgentResponse{Answer: apiErr.Message})
		}
		return finish(start, &models.AgentResponse{
			Answer: "I encountered an error fetching the collection metadata. Please try again later.",
		})
	}

	prompt := fmt.Sprintf(`Analyze the following NFT collection metadata and provide a brief, conversational summary:

User Query: %q
Blockchain: %s

Collection Metadata: %s

Provide a natural language summary about the collection including:
- Collection name and description
- Key characteristics
- Blockchain information
- Contract addresses (if available)
- Any notable features

Keep the response conversational and informative, like explaining to someone who asked about this specific collection.`, query, capitalize(blockchain), raw)

	answer, tokens, err := a.analyze(ctx,
		"You are an NFT expert. Provide clear, conversational explanations about NFT collections. Keep responses informative but concise, around 100-150 words. Be friendly and helpful.",
		prompt, 400, 0.3)
	if err != nil {
		a.logger.Error().Err(err).Msg("collection metadata analysis failed")
		return finish(start, &models.AgentResponse{
			Answer: "I was able to fetch the collection metadata but encountered issues analyzing it.",
			Error:  err.Error(),
		})
	}
	return finish(start, &models.AgentResponse{
		Answer:   answer,
		Metadata: models.ResponseMetadata{TokensUsed: tokens},
	})
}

func (a *Agents) copilotFloorPrice(ctx context.Context, start time.Time, query string) *models.AgentResponse {
	contracts := classify.ExtractContractAddresses(query)
	blockchain := classify.ExtractBlockchain(query)

	raw, err := a.api.GetNftFloorPrice(ctx, blockchain, contracts)
	if err != nil {
		return branchError(start, err,
			fmt.Sprintf("I encountered an error fetching floor price data for %s. Please try again later.", capitalize(blockchain)))
	}

	prompt := fmt.Sprintf(`Analyze the following floor price data and provide a brief summary:

User Query: %q
Blockchain: %s

Floor Price Data: %s

Provide a conversational summary of the floor prices, including collection names, prices in USD and native currency, and marketplaces. Keep it brief and informative.`, query, capitalize(blockchain), raw)

	answer, tokens, err := a.analyze(ctx,
		"You are an NFT market analyst. Provide brief, clear summaries of floor price data. Keep responses under 100 words. Focus on key price insights.",
		prompt, 300, 0.3)
	if err != nil {
		a.logger.Error().Err(err).Msg("floor price analysis failed")
		return finish(start, &models.AgentResponse{
			Answer: "I was able to fetch floor price data but encountered issues analyzing it.",
			Error:  err.Error(),
		})
	}
	return finish(start, &models.AgentResponse{
		Answer:   answer,
		Metadata: models.ResponseMetadata{TokensUsed: tokens},
	})
}

func (a *Agents) copilotNftAnalytics(ctx context.Context, start time.Time, query string) *models.AgentResponse {
	contracts := classify.ExtractContractAddresses(query)
	tokenIDs := classify.ExtractTokenIDs(query)
	blockchain := classify.ExtractBlockchain(query)

	if len(contracts) == 0 {
		return finish(start, &models.AgentResponse{Answer: needContractForAnalyticsAnswer})
	}

	raw, err := a.api.GetNftAnalytics(ctx, contracts, blockchain, "24h", tokenIDs, "")
	if err != nil {
		return branchError(start, err,
			fmt.Sprintf("I encountered an error fetching NFT analytics data for %s. Please try again later.", capitalize(blockchain)))
	}

	prompt := fmt.Sprintf(`Analyze the following NFT analytics data and provide a brief summary:

User Query: %q
Blockchain: %s

NFT Analytics Data: %s

Provide a conversational summary focusing on key performance metrics like sales, volume, transactions, and trends. Keep it brief and informative.`, query, capitalize(blockchain), raw)

	answer, tokens, err := a.analyze(ctx,
		"You are an NFT analyst. Provide brief, clear summaries of NFT performance data. Keep responses under 100 words. Focus on key metrics and trends.",
		prompt, 300, 0.3)
	if err != nil {
		a.logger.Error().Err(err).Msg("nft analytics analysis failed")
		return finish(start, &models.AgentResponse{
			Answer: "I was able to fetch NFT analytics data but encountered issues analyzing it.",
			Error:  err.Error(),
		})
	}
	return finish(start, &models.AgentResponse{
		Answer:   answer,
		Metadata: models.ResponseMetadata{TokensUsed: tokens},
	})
}

func (a *Agents) copilotMarketplace(ctx context.Context, start time.Time, query string) *models.AgentResponse {
	blockchain := classify.ExtractBlockchain(query)
	lower := strings.ToLower(query)

	var (
		raw json.RawMessage
		err error
	)
	switch {
	case strings.Contains(lower, "washtrade") || strings.Contains(lower, "wash"):
		raw, err = a.api.GetNftMarketplaceWashtrade(ctx, blockchain, "24h", nil)
	case strings.Contains(lower, "metadata"):
		raw, err = a.api.GetNftMarketplaceMetadata(ctx)
	default:
		raw, err = a.api.GetNftMarketplaceAnalytics(ctx, blockchain, "24h", nil)
	}
	if err != nil {
		return branchError(start, err,
			fmt.Sprintf("I encountered an error fetching marketplace data for %s. Please try again later.", capitalize(blockchain)))
	}

	prompt := fmt.Sprintf(`Analyze the following marketplace data and provide a brief summary:

User Query: %q
Blockchain: %s

Marketplace Data: %s

Provide a conversational summary of the marketplace insights, focusing on key metrics like volume, sales, and marketplace performance. Keep it brief and informative.`, query, capitalize(blockchain), raw)

	answer, tokens, err := a.analyze(ctx,
		"You are a marketplace analyst. Provide brief, clear summaries of marketplace data. Keep responses under 100 words. Focus on key marketplace insights.",
		prompt, 300, 0.3)
	if err != nil {
		a.logger.Error().Err(err).Msg("marketplace analysis failed")
		return finish(start, &models.AgentResponse{
			Answer: "I was able to fetch marketplace data but encountered issues analyzing it.",
			Error:  err.Error(),
		})
	}
	return finish(start, &models.AgentResponse{
		Answer:   answer,
		Metadata: models.ResponseMetadata{TokensUsed: tokens},
	})
}

// keywordFallbackPlan forces portfolio calls when the model declined to
// plan but the query is explicitly about the caller's own wallet. Returns
// nil when the query is not personal enough to justify a fetch.
func keywordFallbackPlan(query string) *models.ActionPlan {
	lower := strings.ToLower(query)

	explicitlyPersonal := strings.Contains(lower, "my wallet") ||
		strings.Contains(lower, "my portfolio") ||
		strings.Contains(lower, "my holdings") ||
		strings.Contains(lower, "my balance") ||
		strings.Contains(lower, "my nfts") ||
		strings.Contains(lower, "my tokens") ||
		strings.Contains(lower, "my defi") ||
		strings.Contains(lower, "my score") ||
		classify.ExtractWalletAddress(query) != ""
	if !explicitlyPersonal {
		return nil
	}

	single := func(capability, explanation string) *models.ActionPlan {
		return &models.ActionPlan{
			Action:      "api_calls",
			Calls:       []models.EndpointCall{{Capability: capability, Params: map[string]any{}}},
			Explanation: explanation,
		}
	}

	switch {
	case strings.Contains(lower, "score") || strings.Contains(lower, "risk"):
		return single("wallet_score", "Fetching wallet score data")
	case strings.Contains(lower, "defi") || strings.Contains(lower, "protocol"):
		return single("defi_balance", "Fetching DeFi portfolio data")
	case strings.Contains(lower, "nft") || strings.Contains(lower, "collection"):
		return single("nft_balance", "Fetching NFT portfolio data")
	case strings.Contains(lower, "token") || strings.Contains(lower, "balance"):
		return single("token_balance", "Fetching token balance data")
	case strings.Contains(lower, "portfolio") || strings.Contains(lower, "holding"):
		return &models.ActionPlan{
			Action: "api_calls",
			Calls: []models.EndpointCall{
				{Capability: "defi_balance", Params: map[string]any{}},
				{Capability: "nft_balance", Params: map[string]any{}},
				{Capability: "token_balance", Params: map[string]any{}},
				{Capability: "wallet_score", Params: map[string]any{}},
			},
			Explanation: "Fetching comprehensive portfolio data",
		}
	case strings.Contains(lower, "trading") || strings.Contains(lower, "performance"):
		return single("nft_analytics", "Fetching trading performance data")
	}
	return nil
}

// portfolioUnavailableAnswer is returned when every planned portfolio call
// failed. It keeps the conversation going rather than surfacing raw errors.
func portfolioUnavailableAnswer(wallet string) string {
	return fmt.Sprintf("I apologize, but I'm currently unable to fetch your portfolio data from our analytics service. This might be due to:\n\n• **Temporary service issues** - The data provider might be experiencing downtime\n• **API rate limits** - Too many requests in a short time\n• **Wallet data unavailability** - Your wallet might not have sufficient transaction history\n\n**What you can try:**\n✅ Wait a few minutes and ask again\n✅ Try a different question about general NFT or crypto topics\n✅ Check if your wallet address is correct (%s)\n\nI'm still here to help with general questions about NFTs, DeFi, trading strategies, and market insights!", shortAddress(wallet))
}

// portfolioAnalysisPrompt renders fetched portfolio data for the synthesis
// round. Large payloads are truncated per endpoint so the prompt stays
// bounded.
func portfolioAnalysisPrompt(query, wallet string, results []models.EndpointResult, failed []string, detailed bool) string {
	var b strings.Builder
	for _, r := range results {
		if !r.Success {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		data := string(r.Data)
		if len(data) > 500 {
			data = data[:500] + "..."
		}
		fmt.Fprintf(&b, "**%s**: %s", r.Capability, data)
	}

	failedNote := ""
	if len(failed) > 0 {
		failedNote = fmt.Sprintf("\nNote: Some data sources were unavailable: %s\n", strings.Join(failed, ", "))
	}

	if detailed {
		return fmt.Sprintf(`Provide a comprehensive analysis of this wallet data for address %s:

%s

User query: %q
%s
Provide a detailed, thorough analysis with deep insights, trends, recommendations, and all relevant data points. Include comprehensive breakdowns and actionable advice.`, wallet, b.String(), query, failedNote)
	}
	return fmt.Sprintf(`Provide a concise analysis of this wallet data for address %s:

%s

User query: %q
%s
Focus on key metrics and essential insights only. Keep it brief and highlight the most important findings without unnecessary elaboration. Use bullet points when appropriate.`, wallet, b.String(), query, failedNote)
}
