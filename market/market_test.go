package market

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysniper/client"
)

func gammaFixture(t *testing.T) client.GammaMarket {
	t.Helper()
	payload := `{
		"id": "42",
		"conditionId": "0xcond",
		"slug": "will-it-rain",
		"question": "Will it rain?",
		"active": true,
		"closed": false,
		"acceptingOrders": true,
		"outcomePrices": "[\"0.62\", \"0.38\"]",
		"clobTokenIds": "[\"111\", \"222\"]",
		"negRisk": true,
		"endDateIso": "2030-01-01T00:00:00Z"
	}`
	var g client.GammaMarket
	require.NoError(t, json.Unmarshal([]byte(payload), &g))
	return g
}

func TestFromGamma(t *testing.T) {
	m, err := FromGamma(gammaFixture(t))
	require.NoError(t, err)

	assert.Equal(t, "111", m.YesTokenID)
	assert.Equal(t, "222", m.NoTokenID)
	assert.InDelta(t, 0.62, m.YesPrice, 1e-9)
	assert.InDelta(t, 0.38, m.NoPrice, 1e-9)
	assert.True(t, m.NegRisk)
	assert.True(t, m.Tradeable())
}

func TestFromGammaRejectsMalformedPrices(t *testing.T) {
	g := gammaFixture(t)
	g.OutcomePrices = []string{"0.62", "not-a-number"}
	_, err := FromGamma(g)
	assert.Error(t, err)

	g.OutcomePrices = []string{"garbage", "0.38"}
	_, err = FromGamma(g)
	assert.Error(t, err)
}

func TestFromGammaRejectsNonBinary(t *testing.T) {
	g := gammaFixture(t)
	g.ClobTokenIds = []string{"111"}
	_, err := FromGamma(g)
	assert.Error(t, err)
}

func TestTokenFor(t *testing.T) {
	m, err := FromGamma(gammaFixture(t))
	require.NoError(t, err)

	yes, err := m.TokenFor("yes")
	require.NoError(t, err)
	assert.Equal(t, "111", yes)

	no, err := m.TokenFor("NO")
	require.NoError(t, err)
	assert.Equal(t, "222", no)

	_, err = m.TokenFor("maybe")
	assert.Error(t, err)
}

func TestTradeableGates(t *testing.T) {
	g := gammaFixture(t)
	g.Closed = true
	m, err := FromGamma(g)
	require.NoError(t, err)
	assert.False(t, m.Tradeable())
}
