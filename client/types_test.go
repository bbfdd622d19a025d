package client

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGammaMarketDecoding(t *testing.T) {
	// gamma nests the token ids and outcome prices as JSON arrays inside
	// JSON strings
	payload := `{
		"id": "501234",
		"slug": "will-it-rain",
		"question": "Will it rain?",
		"active": true,
		"closed": false,
		"acceptingOrders": true,
		"volume": "12345.67",
		"outcomePrices": "[\"0.62\", \"0.38\"]",
		"clobTokenIds": "[\"111\", \"222\"]",
		"negRisk": false,
		"endDateIso": "2026-12-31T00:00:00Z"
	}`

	var m GammaMarket
	require.NoError(t, json.Unmarshal([]byte(payload), &m))

	assert.Equal(t, []string{"111", "222"}, []string(m.ClobTokenIds))
	assert.Equal(t, []string{"0.62", "0.38"}, []string(m.OutcomePrices))
	assert.InDelta(t, 12345.67, float64(m.Volume), 1e-9)
	assert.False(t, m.EndDateISO.Time().IsZero())
}

func TestStringFloat64Null(t *testing.T) {
	var v struct {
		Price StringFloat64 `json:"price"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"price": null}`), &v))
	assert.Zero(t, float64(v.Price))

	require.NoError(t, json.Unmarshal([]byte(`{"price": "0.55"}`), &v))
	assert.InDelta(t, 0.55, float64(v.Price), 1e-9)
}

func TestBookResponseRules(t *testing.T) {
	payload := `{
		"market": "0xcond",
		"asset_id": "111",
		"tick_size": "0.001",
		"min_order_size": "5",
		"neg_risk": true,
		"bids": [{"price": "0.40", "size": "100"}],
		"asks": [{"price": "0.42", "size": "50"}]
	}`

	var book BookResponse
	require.NoError(t, json.Unmarshal([]byte(payload), &book))

	assert.InDelta(t, 0.001, float64(book.TickSize), 1e-12)
	assert.True(t, book.NegRisk)
	require.Len(t, book.Bids, 1)
	assert.InDelta(t, 0.40, float64(book.Bids[0].Price), 1e-9)
}
