package agent

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/aelys/aelys/internal/models"
	"github.com/aelys/aelys/internal/unleash"
)

// Agents holds the three orchestrators' shared collaborators. The language
// model and analytics client are fixed at construction and shared read-only
// across concurrent requests.
type Agents struct {
	llm    llms.Model
	api    *unleash.Client
	logger zerolog.Logger
	tracer trace.Tracer
}

// New creates the orchestrator set. Tracing goes through the global otel
// provider, a noop unless the host configures an exporter.
func New(llm llms.Model, api *unleash.Client, logger zerolog.Logger) *Agents {
	return &Agents{
		llm:    llm,
		api:    api,
		logger: logger,
		tracer: otel.Tracer("aelys/agent"),
	}
}

const fallbackErrorAnswer = "I apologize, but I encountered an error processing your request. Please try again."

// finish stamps the wall-clock duration and returns the response. Every
// orchestrator exit path goes through here so executionTime is always set.
func finish(start time.Time, resp *models.AgentResponse) *models.AgentResponse {
	resp.Metadata.ExecutionTime = time.Since(start).Milliseconds()
	return resp
}

// callNames lists the capabilities of a plan for the endpoints field.
func callNames(calls []models.EndpointCall) []string {
	names := make([]string, len(calls))
	for i, call := range calls {
		names[i] = call.Capability
	}
	return names
}

// paramString reads an optional string parameter from an LLM plan call,
// falling back when absent or mistyped.
func paramString(params map[string]any, key, fallback string) string {
	if params != nil {
		if s, ok := params[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}
