package agent

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"

	"github.com/aelys/aelys/internal/models"
	"github.com/aelys/aelys/internal/unleash"
)

const testWallet = "0x742d35Cc6634C0532925a3b844Bc454e4438f44e"

// fakeModel returns scripted replies in order. Every call records its
// message list so tests can inspect what the orchestrator sent.
type fakeModel struct {
	replies []string
	calls   [][]llms.MessageContent
}

func (m *fakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.calls = append(m.calls, messages)
	if len(m.calls) > len(m.replies) {
		return nil, errors.New("no scripted reply left")
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:        m.replies[len(m.calls)-1],
			GenerationInfo: map[string]any{"TotalTokens": 10},
		}},
	}, nil
}

func (m *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return "", errors.New("legacy completion path not used")
}

// apiRecorder serves canned analytics responses and remembers every request.
type apiRecorder struct {
	requests []*http.Request
	handler  http.HandlerFunc
}

func (rec *apiRecorder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec.requests = append(rec.requests, r)
	if rec.handler != nil {
		rec.handler(w, r)
		return
	}
	w.Write([]byte(`{"data":[{"metric":1}]}`))
}

func newTestAgents(t *testing.T, rec *apiRecorder, replies ...string) (*Agents, *fakeModel) {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	model := &fakeModel{replies: replies}
	client := unleash.NewClient(srv.URL, "test-key", nil, zerolog.Nop())
	return New(model, client, zerolog.Nop()), model
}

// messageText flattens one message's text parts for substring assertions.
func messageText(mc llms.MessageContent) string {
	var out string
	for _, part := range mc.Parts {
		if tc, ok := part.(llms.TextContent); ok {
			out += tc.Text
		}
	}
	return out
}

func TestParsePlan(t *testing.T) {
	tests := []struct {
		name  string
		reply string
		ok    bool
	}{
		{
			name:  "valid plan",
			reply: `{"action":"api_calls","calls":[{"function":"analytics","params":{"blockchain":"ethereum"}}]}`,
			ok:    true,
		},
		{
			name:  "leading whitespace tolerated",
			reply: "\n  {\"action\":\"api_calls\",\"calls\":[{\"function\":\"holders\",\"params\":{}}]}",
			ok:    true,
		},
		{
			name:  "prose reply",
			reply: "NFTs are unique digital assets recorded on a blockchain.",
			ok:    false,
		},
		{
			name:  "wrong action",
			reply: `{"action":"direct_answer","calls":[{"function":"analytics","params":{}}]}`,
			ok:    false,
		},
		{
			name:  "empty call list",
			reply: `{"action":"api_calls","calls":[]}`,
			ok:    false,
		},
		{
			name:  "unknown capability",
			reply: `{"action":"api_calls","calls":[{"function":"teleport","params":{}}]}`,
			ok:    false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, ok := parsePlan(tt.reply, unleash.MarketCapabilities)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				require.NotNil(t, plan)
				assert.NotEmpty(t, plan.Calls)
			} else {
				assert.Nil(t, plan)
			}
		})
	}
}

func TestBuildMessages(t *testing.T) {
	history := []models.ChatMessage{
		{Role: models.RoleUser, Content: "first question"},
		{Role: models.RoleAssistant, Content: "first answer"},
	}
	messages := buildMessages("system prompt", history, "second question")

	require.Len(t, messages, 4)
	assert.Equal(t, schema.ChatMessageTypeSystem, messages[0].Role)
	assert.Equal(t, "system prompt", messageText(messages[0]))
	assert.Equal(t, schema.ChatMessageTypeHuman, messages[1].Role)
	assert.Equal(t, schema.ChatMessageTypeAI, messages[2].Role)
	assert.Equal(t, schema.ChatMessageTypeHuman, messages[3].Role)
	assert.Equal(t, "second question", messageText(messages[3]))
}

func TestTotalTokens(t *testing.T) {
	assert.Equal(t, 0, totalTokens(nil))
	assert.Equal(t, 0, totalTokens(&llms.ContentResponse{}))

	withTotal := &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		GenerationInfo: map[string]any{"TotalTokens": 42},
	}}}
	assert.Equal(t, 42, totalTokens(withTotal))

	split := &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		GenerationInfo: map[string]any{"PromptTokens": 30, "CompletionTokens": float64(12)},
	}}}
	assert.Equal(t, 42, totalTokens(split))

	noInfo := &llms.ContentResponse{Choices: []*llms.ContentChoice{{Content: "hi"}}}
	assert.Equal(t, 0, totalTokens(noInfo))
}

func TestShortAddress(t *testing.T) {
	assert.Equal(t, "0x742d...f44e", shortAddress(testWallet))
	assert.Equal(t, "0x123", shortAddress("0x123"))
	assert.Equal(t, "", shortAddress(""))
}

func TestCapitalize(t *testing.T) {
	assert.Equal(t, "Ethereum", capitalize("ethereum"))
	assert.Equal(t, "Polygon", capitalize("Polygon"))
	assert.Equal(t, "", capitalize(""))
}

func TestParamString(t *testing.T) {
	params := map[string]any{"blockchain": "polygon", "limit": 5}
	assert.Equal(t, "polygon", paramString(params, "blockchain", "ethereum"))
	assert.Equal(t, "24h", paramString(params, "time_range", "24h"))
	assert.Equal(t, "24h", paramString(params, "limit", "24h"))
	assert.Equal(t, "ethereum", paramString(nil, "blockchain", "ethereum"))
}

func TestCallNames(t *testing.T) {
	calls := []models.EndpointCall{
		{Capability: "analytics"},
		{Capability: "collection_whales"},
	}
	assert.Equal(t, []string{"analytics", "collection_whales"}, callNames(calls))
}
