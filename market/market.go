package market

import (
	"fmt"
	"strconv"
	"time"

	"polysniper/client"
)

// Market is the trading-side view of a gamma market: a binary pair of clob
// token ids plus the metadata needed to decide whether it is tradeable.
type Market struct {
	ID          string
	ConditionID string
	Question    string
	Slug        string
	YesTokenID  string
	NoTokenID   string
	YesPrice    float64
	NoPrice     float64
	NegRisk     bool
	EndDate     time.Time
	Active      bool
}

// FromGamma converts the raw gamma payload. Markets without exactly two clob
// tokens are malformed for binary trading and rejected here rather than
// surfacing later as an order error.
func FromGamma(g client.GammaMarket) (*Market, error) {
	if len(g.ClobTokenIds) != 2 {
		return nil, fmt.Errorf("market %s: expected 2 clob tokens, got %d", g.Slug, len(g.ClobTokenIds))
	}

	m := &Market{
		ID:          g.ID,
		ConditionID: g.ConditionID,
		Question:    g.Question,
		Slug:        g.Slug,
		YesTokenID:  g.ClobTokenIds[0],
		NoTokenID:   g.ClobTokenIds[1],
		NegRisk:     g.NegRisk,
		EndDate:     g.EndDateISO.Time(),
		Active:      g.Active && !g.Closed && g.AcceptingOrds,
	}

	if len(g.OutcomePrices) == 2 {
		var err error
		m.YesPrice, err = strconv.ParseFloat(g.OutcomePrices[0], 64)
		if err != nil {
			return nil, fmt.Errorf("market %s: parse yes price %q: %w", g.Slug, g.OutcomePrices[0], err)
		}
		m.NoPrice, err = strconv.ParseFloat(g.OutcomePrices[1], 64)
		if err != nil {
			return nil, fmt.Errorf("market %s: parse no price %q: %w", g.Slug, g.OutcomePrices[1], err)
		}
	}

	return m, nil
}

// TokenFor picks the token id for an outcome label, "yes" or "no".
func (m *Market) TokenFor(outcome string) (string, error) {
	switch outcome {
	case "yes", "YES", "Yes":
		return m.YesTokenID, nil
	case "no", "NO", "No":
		return m.NoTokenID, nil
	}
	return "", fmt.Errorf("unknown outcome %q", outcome)
}

func (m *Market) Tradeable() bool {
	return m.Active && (m.EndDate.IsZero() || m.EndDate.After(time.Now()))
}
