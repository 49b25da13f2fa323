package agent

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasData(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want bool
	}{
		{"empty payload", "", false},
		{"bare object", `{}`, false},
		{"empty data array", `{"data":[]}`, false},
		{"not json", "oops", false},
		{"one record", `{"data":[{"volume":1}]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, hasData(json.RawMessage(tt.raw)))
		})
	}
}

func TestExtractChartSeries(t *testing.T) {
	payload := json.RawMessage(`{"data":[{
		"block_dates":["2026-08-27","2026-08-28","2026-08-29"],
		"volume_trend":[1.5,2.5],
		"sales_trend":["3","4","oops"],
		"transfers_trend":[7,8,9]
	}]}`)

	series := extractChartSeries(payload, "analytics")
	require.NotNil(t, series)
	assert.Equal(t, []string{"2026-08-27", "2026-08-28", "2026-08-29"}, series.BlockDates)

	// Fields keep the capability's declared order; the absent
	// transactions_trend is skipped without leaving a gap.
	require.Len(t, series.Datasets, 3)
	assert.Equal(t, "Volume", series.Datasets[0].Label)
	assert.Equal(t, "Sales", series.Datasets[1].Label)
	assert.Equal(t, "Transfers", series.Datasets[2].Label)
	assert.Equal(t, "var(--chart-1)", series.Datasets[0].Color)
	assert.Equal(t, "var(--chart-4)", series.Datasets[2].Color)

	// Short series pad with zeros, quoted numbers parse, junk becomes zero.
	assert.Equal(t, []float64{1.5, 2.5, 0}, series.Datasets[0].Data)
	assert.Equal(t, []float64{3, 4, 0}, series.Datasets[1].Data)
	assert.Equal(t, []float64{7, 8, 9}, series.Datasets[2].Data)

	for _, ds := range series.Datasets {
		assert.Len(t, ds.Data, len(series.BlockDates))
	}
}

func TestExtractChartSeriesNoMatch(t *testing.T) {
	withDates := json.RawMessage(`{"data":[{"block_dates":["2026-08-29"],"volume_trend":[1]}]}`)

	assert.Nil(t, extractChartSeries(withDates, "collection_whales"), "capability without chart fields")
	assert.Nil(t, extractChartSeries(json.RawMessage(`{"data":[{"volume_trend":[1]}]}`), "analytics"), "missing date axis")
	assert.Nil(t, extractChartSeries(json.RawMessage(`{"data":[{"block_dates":["2026-08-29"]}]}`), "analytics"), "no trend fields present")
	assert.Nil(t, extractChartSeries(json.RawMessage(`{"data":[]}`), "analytics"), "empty data")
	assert.Nil(t, extractChartSeries(json.RawMessage(`garbage`), "analytics"), "unparsable payload")
}

func TestExtractChartSeriesTruncatesLongSeries(t *testing.T) {
	payload := json.RawMessage(`{"data":[{
		"block_dates":["2026-08-28","2026-08-29"],
		"washtrade_volume_trend":[1,2,3,4]
	}]}`)

	series := extractChartSeries(payload, "washtrade")
	require.NotNil(t, series)
	require.Len(t, series.Datasets, 1)
	assert.Equal(t, "Washtrade Volume", series.Datasets[0].Label)
	assert.Equal(t, []float64{1, 2}, series.Datasets[0].Data)
}

func TestBuildWhaleTable(t *testing.T) {
	payload := json.RawMessage(`{"data":[
		{"name":"Bored Apes","whales":12,"nft_count":3456,"buy_volume":12345.678,"sell_volume":"2345.1"},
		{"name":"","whales":null}
	]}`)

	table := buildWhaleTable(payload)
	require.NotNil(t, table)
	assert.Equal(t, "Collection Whales", table.Title)
	assert.Equal(t, []string{"Collection", "Whales", "NFT Count", "Buy Volume", "Sell Volume"}, table.Headers)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"Bored Apes", "12", "3,456", "12,345.68", "2,345.1"}, table.Rows[0])

	// Empty strings, nulls and absent keys all render as a dash.
	assert.Equal(t, []string{"-", "-", "-", "-", "-"}, table.Rows[1])

	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Headers))
	}
}

func TestBuildWhaleTableEmpty(t *testing.T) {
	assert.Nil(t, buildWhaleTable(json.RawMessage(`{"data":[]}`)))
	assert.Nil(t, buildWhaleTable(json.RawMessage(`not json`)))
}
