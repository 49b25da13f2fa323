package agent

import (
	"encoding/json"
	"strconv"

	"github.com/dustin/go-humanize"

	"github.com/aelys/aelys/internal/models"
)

// trendField maps one provider trend array to a chart dataset.
type trendField struct {
	key   string
	label string
	color string
}

// chartFields lists, per capability, the trend arrays worth charting and
// the order they are probed in. Absent fields are skipped, present fields
// keep this ordering.
var chartFields = map[string][]trendField{
	"analytics": {
		{"volume_trend", "Volume", "var(--chart-1)"},
		{"sales_trend", "Sales", "var(--chart-2)"},
		{"transactions_trend", "Transactions", "var(--chart-3)"},
		{"transfers_trend", "Transfers", "var(--chart-4)"},
	},
	"holders": {
		{"volume_trend", "Volume", "var(--chart-1)"},
		{"sales_trend", "Sales", "var(--chart-2)"},
		{"transactions_trend", "Transactions", "var(--chart-3)"},
	},
	"traders": {
		{"traders_trend", "Total Traders", "var(--chart-1)"},
		{"traders_buyers_trend", "Buyers", "var(--chart-2)"},
		{"traders_sellers_trend", "Sellers", "var(--chart-3)"},
	},
	"scores": {
		{"market_cap_trend", "Market Cap", "var(--chart-1)"},
		{"marketstate_trend", "Market State", "var(--chart-2)"},
	},
	"washtrade": {
		{"washtrade_volume_trend", "Washtrade Volume", "var(--chart-1)"},
		{"washtrade_suspect_sales_trend", "Suspect Sales", "var(--chart-2)"},
		{"washtrade_assets_trend", "Washtrade Assets", "var(--chart-3)"},
		{"washtrade_suspect_transactions_trend", "Suspect Transactions", "var(--chart-4)"},
		{"washtrade_wallets_trend", "Washtrade Wallets", "var(--chart-5)"},
	},
}

// dataEnvelope is the common provider response shape: a data array whose
// first element carries the metrics.
type dataEnvelope struct {
	Data []map[string]json.RawMessage `json:"data"`
}

// hasData reports whether a provider payload carries at least one record.
// Empty arrays and bare objects count as no data.
func hasData(raw json.RawMessage) bool {
	if len(raw) == 0 {
		return false
	}
	var env dataEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return false
	}
	return len(env.Data) > 0
}

// extractChartSeries pulls the trend arrays a capability is known to carry
// out of a provider payload. Every returned dataset is padded or truncated
// to the block_dates length. Returns nil when the payload has no record,
// no date axis, or none of the capability's trend fields.
func extractChartSeries(raw json.RawMessage, capability string) *models.ChartSeries {
	fields, ok := chartFields[capability]
	if !ok {
		return nil
	}
	var env dataEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Data) == 0 {
		return nil
	}
	record := env.Data[0]

	var blockDates []string
	if err := json.Unmarshal(record["block_dates"], &blockDates); err != nil || len(blockDates) == 0 {
		return nil
	}

	series := &models.ChartSeries{BlockDates: blockDates}
	for _, f := range fields {
		rawTrend, ok := record[f.key]
		if !ok {
			continue
		}
		points := numberSlice(rawTrend)
		if points == nil {
			continue
		}
		series.Datasets = append(series.Datasets, models.ChartDataset{
			Label: f.label,
			Data:  alignToAxis(points, len(blockDates)),
			Color: f.color,
		})
	}
	if len(series.Datasets) == 0 {
		return nil
	}
	return series
}

// numberSlice decodes a trend array tolerantly. The provider emits numbers,
// but some endpoints quote them as strings.
func numberSlice(raw json.RawMessage) []float64 {
	var values []any
	if err := json.Unmarshal(raw, &values); err != nil {
		return nil
	}
	out := make([]float64, 0, len(values))
	for _, v := range values {
		switch n := v.(type) {
		case float64:
			out = append(out, n)
		case string:
			f, err := strconv.ParseFloat(n, 64)
			if err != nil {
				out = append(out, 0)
				continue
			}
			out = append(out, f)
		default:
			out = append(out, 0)
		}
	}
	return out
}

// alignToAxis pads with zeros or truncates so the series matches the date
// axis length.
func alignToAxis(points []float64, n int) []float64 {
	if len(points) == n {
		return points
	}
	out := make([]float64, n)
	copy(out, points)
	return out
}

// whaleColumns defines the collection whales table. Count columns get
// thousands separators, volume columns get two decimals.
var whaleColumns = []struct {
	key    string
	header string
	volume bool
}{
	{"name", "Collection", false},
	{"whales", "Whales", false},
	{"nft_count", "NFT Count", false},
	{"buy_volume", "Buy Volume", true},
	{"sell_volume", "Sell Volume", true},
}

// buildWhaleTable renders a collection_whales payload as tabular data.
// Returns nil when the payload has no records.
func buildWhaleTable(raw json.RawMessage) *models.TableData {
	var env dataEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || len(env.Data) == 0 {
		return nil
	}

	table := &models.TableData{Title: "Collection Whales"}
	for _, col := range whaleColumns {
		table.Headers = append(table.Headers, col.header)
	}
	for _, record := range env.Data {
		row := make([]string, 0, len(whaleColumns))
		for _, col := range whaleColumns {
			row = append(row, formatCell(record[col.key], col.volume))
		}
		table.Rows = append(table.Rows, row)
	}
	return table
}

// formatCell renders one whale metric for display. Numeric values are
// humanized, anything else passes through as text, absent values show a
// dash.
func formatCell(raw json.RawMessage, volume bool) string {
	if len(raw) == 0 {
		return "-"
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return "-"
	}
	switch n := v.(type) {
	case string:
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return formatNumber(f, volume)
		}
		if n == "" {
			return "-"
		}
		return n
	case float64:
		return formatNumber(n, volume)
	case nil:
		return "-"
	default:
		return "-"
	}
}

func formatNumber(f float64, volume bool) string {
	if volume {
		return humanize.CommafWithDigits(f, 2)
	}
	return humanize.Comma(int64(f))
}
