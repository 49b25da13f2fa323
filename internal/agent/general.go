package agent

import (
	"context"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/aelys/aelys/internal/models"
	"github.com/aelys/aelys/internal/unleash"
)

// General answers open NFT and Web3 questions. One completion decides
// between a direct answer and an action plan; planned calls run against the
// market endpoints and a second completion synthesizes the results.
func (a *Agents) General(ctx context.Context, query string, history []models.ChatMessage) *models.AgentResponse {
	start := time.Now()
	ctx, span := a.tracer.Start(ctx, "agent.general")
	defer span.End()

	messages := buildMessages(generalSystemPrompt, history, query)
	reply, tokens, err := complete(ctx, a.llm, messages,
		llms.WithTemperature(0.3), llms.WithMaxTokens(1500))
	if err != nil {
		a.logger.Error().Err(err).Msg("general agent completion failed")
		return finish(start, &models.AgentResponse{
			Answer: fallbackErrorAnswer,
			Error:  err.Error(),
		})
	}

	plan, ok := parsePlan(reply, unleash.MarketCapabilities)
	if !ok {
		return finish(start, &models.AgentResponse{
			Answer:   reply,
			Metadata: models.ResponseMetadata{TokensUsed: tokens},
		})
	}

	results := a.executeMarketCalls(ctx, plan.Calls)

	// Second round: the fetched data goes back as an assistant turn so the
	// model answers with the full conversation in view.
	analysisMessages := buildMessages(generalSystemPrompt, history, query)
	analysisMessages = append(analysisMessages,
		llms.TextParts(schema.ChatMessageTypeAI,
			"I've fetched the following data: "+models.ToJSON(results)+". Let me analyze this and provide insights."),
		llms.TextParts(schema.ChatMessageTypeHuman,
			"Please analyze this data and provide a comprehensive response with insights, trends, and any relevant visualizations."),
	)
	answer, analysisTokens, err := complete(ctx, a.llm, analysisMessages,
		llms.WithTemperature(0.7), llms.WithMaxTokens(2000))
	if err != nil {
		a.logger.Error().Err(err).Msg("general agent analysis failed")
		return finish(start, &models.AgentResponse{
			Answer:   fallbackErrorAnswer,
			Error:    err.Error(),
			Metadata: models.ResponseMetadata{TokensUsed: tokens},
		})
	}

	return finish(start, &models.AgentResponse{
		Answer:    answer,
		Endpoints: callNames(plan.Calls),
		Metadata:  models.ResponseMetadata{TokensUsed: tokens + analysisTokens},
	})
}

// executeMarketCalls runs planned calls in order. Failures become per-call
// error entries rather than aborting the batch.
func (a *Agents) executeMarketCalls(ctx context.Context, calls []models.EndpointCall) []models.EndpointResult {
	results := make([]models.EndpointResult, 0, len(calls))
	for _, call := range calls {
		data, err := a.api.CallMarket(ctx, call.Capability, call.Params)
		if err != nil {
			a.logger.Warn().Err(err).Str("capability", call.Capability).Msg("planned market call failed")
			results = append(results, models.EndpointResult{
				Capability: call.Capability,
				Err:        err.Error(),
			})
			continue
		}
		results = append(results, models.EndpointResult{
			Capability: call.Capability,
			Data:       data,
			Success:    true,
		})
	}
	return results
}
