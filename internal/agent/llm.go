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

	"github.com/aelys/aelys/internal/models"
	"github.com/aelys/aelys/internal/unleash"
)

// llmTimeout bounds every completion call. Exceeding it surfaces the same
// way as any other provider failure.
const llmTimeout = 60 * time.Second

// buildMessages assembles the ordered message list: system prompt, caller
// supplied history verbatim, then the user turn.
func buildMessages(system string, history []models.ChatMessage, user string) []llms.MessageContent {
	messages := make([]llms.MessageContent, 0, len(history)+2)
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeSystem, system))
	for _, turn := range history {
		role := schema.ChatMessageTypeHuman
		switch turn.Role {
		case models.RoleAssistant:
			role = schema.ChatMessageTypeAI
		case models.RoleSystem:
			role = schema.ChatMessageTypeSystem
		}
		messages = append(messages, llms.TextParts(role, turn.Content))
	}
	messages = append(messages, llms.TextParts(schema.ChatMessageTypeHuman, user))
	return messages
}

// complete performs one bounded chat completion and returns the reply text
// with the provider's token count.
func complete(ctx context.Context, model llms.Model, messages []llms.MessageContent, options ...llms.CallOption) (string, int, error) {
	ctx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	resp, err := model.GenerateContent(ctx, messages, options...)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", 0, fmt.Errorf("language model timed out after %s: %w", llmTimeout, err)
		}
		return "", 0, fmt.Errorf("language model call failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", 0, errors.New("no response from language model")
	}
	return resp.Choices[0].Content, totalTokens(resp), nil
}

// totalTokens reads the usage counters the OpenAI backend attaches to the
// first choice. Backends that report nothing count as zero.
func totalTokens(resp *llms.ContentResponse) int {
	if resp == nil || len(resp.Choices) == 0 {
		return 0
	}
	info := resp.Choices[0].GenerationInfo
	if info == nil {
		return 0
	}
	if total := asInt(info["TotalTokens"]); total > 0 {
		return total
	}
	return asInt(info["PromptTokens"]) + asInt(info["CompletionTokens"])
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return 0
}

// parsePlan interprets an LLM reply as a structured action plan. The plan
// is untrusted input: anything that is not JSON, does not carry the
// api_calls action, or names a capability outside the known set is treated
// as a direct answer instead.
func parsePlan(reply string, knownCapabilities []string) (*models.ActionPlan, bool) {
	var plan models.ActionPlan
	if err := json.Unmarshal([]byte(strings.TrimSpace(reply)), &plan); err != nil {
		return nil, false
	}
	if plan.Action != "api_calls" || len(plan.Calls) == 0 {
		return nil, false
	}
	for _, call := range plan.Calls {
		if !unleash.IsKnownCapability(call.Capability, knownCapabilities) {
			return nil, false
		}
	}
	return &plan, true
}

// capitalize uppercases the first byte for chain names in user-facing
// text ("ethereum" -> "Ethereum").
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// shortAddress renders a wallet address as 0xabcd...1234 for prose.
func shortAddress(addr string) string {
	if len(addr) < 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
