package agent

import (
	"context"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarketAlphaGeneralShortCircuit(t *testing.T) {
	rec := &apiRecorder{}
	agents, model := newTestAgents(t, rec,
		"An NFT is a unique token recorded on a blockchain.")

	resp := agents.MarketAlpha(context.Background(), "What is an NFT?", nil)

	assert.Equal(t, "An NFT is a unique token recorded on a blockchain.", resp.Answer)
	assert.Len(t, model.calls, 1)
	assert.Empty(t, rec.requests)
	assert.Nil(t, resp.ChartData)
}

func TestMarketAlphaEducationalInsightShortCircuit(t *testing.T) {
	rec := &apiRecorder{}
	agents, model := newTestAgents(t, rec,
		"Ethereum market trends reflect shifting collector demand.")

	// Educational phrasing wins even when the query also carries insight
	// keywords: one conversational completion, no planning, no endpoints.
	resp := agents.MarketAlpha(context.Background(), "Tell me about ethereum market trends", nil)

	assert.Equal(t, "Ethereum market trends reflect shifting collector demand.", resp.Answer)
	assert.Len(t, model.calls, 1)
	assert.Empty(t, rec.requests)
	assert.Nil(t, resp.ChartData)
	assert.Empty(t, resp.Endpoints)
}

func TestMarketAlphaFloorPricePlan(t *testing.T) {
	rec := &apiRecorder{}
	agents, _ := newTestAgents(t, rec,
		`{"action":"api_calls","calls":[{"function":"floor_price","params":{"blockchain":"ethereum","contract_address":"0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"}}]}`,
		"Floor prices held steady across marketplaces.")

	resp := agents.MarketAlpha(context.Background(), "Compare ethereum floor price levels", nil)

	assert.Equal(t, "Floor prices held steady across marketplaces.", resp.Answer)
	assert.Equal(t, []string{"floor_price"}, resp.Endpoints)
	require.Len(t, rec.requests, 1)
	assert.Equal(t, "/nft/floor_price", rec.requests[0].URL.Path)
}

func TestMarketAlphaSurfacesNonPlanReply(t *testing.T) {
	rec := &apiRecorder{}
	agents, _ := newTestAgents(t, rec,
		"Could you narrow down which metric you mean?")

	resp := agents.MarketAlpha(context.Background(), "Show me ethereum market analytics", nil)

	assert.Equal(t, "Could you narrow down which metric you mean?", resp.Answer)
	assert.Empty(t, rec.requests)
}

func TestMarketAlphaNoData(t *testing.T) {
	rec := &apiRecorder{handler: func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}}
	agents, model := newTestAgents(t, rec,
		`{"action":"api_calls","calls":[{"function":"washtrade","params":{"blockchain":"Polygon","time_range":"7d"}}]}`)

	resp := agents.MarketAlpha(context.Background(), "Show me polygon washtrade market analytics", nil)

	assert.Contains(t, resp.Answer, "wash trade detection data for Polygon NFTs over the last 7d")
	assert.True(t, resp.Metadata.NoDataAvailable)
	assert.Len(t, model.calls, 1, "no synthesis round without data")
	assert.Len(t, rec.requests, 1)
}

func TestMarketAlphaNoDataDefaults(t *testing.T) {
	rec := &apiRecorder{handler: func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":[]}`))
	}}
	agents, _ := newTestAgents(t, rec,
		`{"action":"api_calls","calls":[{"function":"traders","params":{}}]}`)

	resp := agents.MarketAlpha(context.Background(), "Show me trader analytics", nil)

	// The generic template with the defaults applied.
	assert.Contains(t, resp.Answer, "traders data for Ethereum over the last 24h")
	assert.True(t, resp.Metadata.NoDataAvailable)
}

func TestMarketAlphaChartTableAndSynthesis(t *testing.T) {
	rec := &apiRecorder{handler: func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/nft/market-insights/analytics":
			w.Write([]byte(`{"data":[{"block_dates":["2026-08-28","2026-08-29"],"volume_trend":[10,20],"sales_trend":[1,2]}]}`))
		case "/nft/collection/whales":
			w.Write([]byte(`{"data":[{"name":"Bored Apes","whales":4,"nft_count":20,"buy_volume":9.5,"sell_volume":3.25}]}`))
		default:
			http.NotFound(w, r)
		}
	}}
	agents, model := newTestAgents(t, rec,
		`{"action":"api_calls","calls":[{"function":"analytics","params":{"blockchain":"ethereum"}},{"function":"collection_whales","params":{"blockchain":"ethereum"}}]}`,
		"Volume doubled day over day and whales are accumulating.")

	resp := agents.MarketAlpha(context.Background(), "Show me ethereum market analytics and whales", nil)

	assert.Equal(t, "Volume doubled day over day and whales are accumulating.", resp.Answer)
	assert.Equal(t, []string{"analytics", "collection_whales"}, resp.Endpoints)

	// The chart comes from the first successful call.
	require.NotNil(t, resp.ChartData)
	require.Len(t, resp.ChartData.Datasets, 2)
	assert.Equal(t, "Volume", resp.ChartData.Datasets[0].Label)

	require.NotNil(t, resp.VisualData)
	require.Len(t, resp.VisualData.Rows, 1)
	assert.Equal(t, "Bored Apes", resp.VisualData.Rows[0][0])

	assert.Len(t, rec.requests, 2)
	require.Len(t, model.calls, 2)

	// The synthesis prompt carries the fetched results.
	var sawData bool
	for _, mc := range model.calls[1] {
		if strings.Contains(messageText(mc), "Market Data:") {
			sawData = true
		}
	}
	assert.True(t, sawData)
}

func TestMarketAlphaSkipsFailedCallsForChart(t *testing.T) {
	rec := &apiRecorder{handler: func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/nft/market-insights/analytics":
			http.Error(w, "down", http.StatusInternalServerError)
		case "/nft/market-insights/holders":
			w.Write([]byte(`{"data":[{"block_dates":["2026-08-29"],"volume_trend":[5]}]}`))
		default:
			http.NotFound(w, r)
		}
	}}
	agents, _ := newTestAgents(t, rec,
		`{"action":"api_calls","calls":[{"function":"analytics","params":{}},{"function":"holders","params":{}}]}`,
		"Holder volume held steady.")

	resp := agents.MarketAlpha(context.Background(), "Show me market analytics", nil)

	assert.Equal(t, "Holder volume held steady.", resp.Answer)
	require.NotNil(t, resp.ChartData, "the chart falls through to the first call that succeeded")
	assert.Equal(t, []float64{5}, resp.ChartData.Datasets[0].Data)
}

func TestNoDataAnswerTemplates(t *testing.T) {
	assert.Contains(t, noDataAnswer("washtrade", "Ethereum", "24h"), "wash trade detection data for Ethereum NFTs")
	assert.Contains(t, noDataAnswer("scores", "Ethereum", "24h"), "market scores and sentiment data")
	assert.Contains(t, noDataAnswer("holders", "Polygon", "7d"), "holder insights for Polygon NFTs over the last 7d")
	assert.Contains(t, noDataAnswer("analytics", "Ethereum", "24h"), "analytics data for Ethereum over the last 24h")
}
