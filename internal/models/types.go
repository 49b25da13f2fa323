package models

import (
	"encoding/json"
	"regexp"
)

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatMessage is one turn of conversation history, supplied by the caller
// and passed through to the language model unmodified.
type ChatMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// AgentType selects which orchestrator handles a request.
type AgentType string

const (
	AgentGeneral        AgentType = ""
	AgentCopilot        AgentType = "copilot"
	AgentMarketInsights AgentType = "market-insights"
)

// AgentRequest is the inbound request body of the /api/v1/agent endpoint.
type AgentRequest struct {
	Query           string        `json:"query"`
	History         []ChatMessage `json:"history,omitempty"`
	AgentType       AgentType     `json:"agentType,omitempty"`
	WalletAddress   string        `json:"walletAddress,omitempty"`
	ConnectedWallet string        `json:"connectedWallet,omitempty"`
}

// ResponseMetadata carries accounting info attached to every response.
type ResponseMetadata struct {
	TokensUsed          int    `json:"tokensUsed"`
	ExecutionTime       int64  `json:"executionTime"`
	RequiresWallet      bool   `json:"requiresWallet,omitempty"`
	NoDataAvailable     bool   `json:"noDataAvailable,omitempty"`
	SuccessfulEndpoints int    `json:"successfulEndpoints,omitempty"`
	FailedEndpoints     string `json:"failedEndpoints,omitempty"`
}

// AgentResponse is the sole output contract of every orchestrator. The
// Answer field is always populated with prose, never raw JSON.
type AgentResponse struct {
	Answer     string           `json:"answer"`
	VisualData *TableData       `json:"visualData,omitempty"`
	ChartData  *ChartSeries     `json:"chartData,omitempty"`
	Endpoints  []string         `json:"endpoints,omitempty"`
	Metadata   ResponseMetadata `json:"metadata"`
	Error      string           `json:"error,omitempty"`
}

// ChartDataset is one series of a chart, aligned to the shared date axis.
type ChartDataset struct {
	Label string    `json:"label"`
	Data  []float64 `json:"data"`
	Color string    `json:"color"`
}

// ChartSeries is trend data extracted from a provider response. Every
// dataset's Data has the same length as BlockDates.
type ChartSeries struct {
	BlockDates []string       `json:"block_dates"`
	Datasets   []ChartDataset `json:"datasets"`
}

// TableData is tabular data attached to a response. Every row has exactly
// len(Headers) cells.
type TableData struct {
	Title   string     `json:"title"`
	Headers []string   `json:"headers"`
	Rows    [][]string `json:"rows"`
}

// EndpointCall is the unit of work dispatched to the analytics provider,
// produced either by LLM planning or by deterministic fallback rules.
type EndpointCall struct {
	Capability string         `json:"function"`
	Params     map[string]any `json:"params"`
}

// EndpointResult is the outcome of one EndpointCall. A batch of these forms
// the evidence set fed to the synthesis step.
type EndpointResult struct {
	Capability string          `json:"function"`
	Data       json.RawMessage `json:"data,omitempty"`
	Err        string          `json:"error,omitempty"`
	Success    bool            `json:"success"`
}

// ActionPlan is the structured payload an LLM planning call may return.
// Anything that does not parse into this shape is treated as a direct
// answer.
type ActionPlan struct {
	Action      string         `json:"action"`
	Calls       []EndpointCall `json:"calls"`
	Explanation string         `json:"explanation,omitempty"`
}

// WalletAddressPattern matches 0x-prefixed 40-hex-digit addresses anywhere
// in free text. Shared by the classifiers and the HTTP boundary.
var WalletAddressPattern = regexp.MustCompile(`0x[a-fA-F0-9]{40}`)

// AllChains is the full blockchain set accepted by most NFT, collection and
// market endpoints.
var AllChains = []string{
	"avalanche", "binance", "bitcoin", "ethereum", "linea", "polygon",
	"root", "solana", "soneium", "unichain", "unichain_sepolia",
}

// WalletMetricsChains is the reduced set supported by the wallet metrics
// endpoint family.
var WalletMetricsChains = []string{"ethereum", "polygon", "linea", "avalanche"}

// DefaultBlockchain applies whenever a query names no recognized chain.
const DefaultBlockchain = "ethereum"

// IsSupportedChain reports whether name is in the given whitelist.
func IsSupportedChain(name string, whitelist []string) bool {
	for _, c := range whitelist {
		if c == name {
			return true
		}
	}
	return false
}

// ToJSON renders v as indented JSON for prompt interpolation. Returns "{}"
// on marshal failure so prompts never carry Go error text.
func ToJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
