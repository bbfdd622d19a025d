package client

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// The gamma and CLOB APIs serialize most numbers as strings and nest the
// clob token ids as a JSON array inside a JSON string. These wrapper types
// hide that at the decoding boundary.

type StringFloat64 float64
type EscapedArray []string
type TimeRFC3339 time.Time

// =============================
// Gamma (market discovery)
// =============================

type GammaMarket struct {
	ID            string        `json:"id"`
	ConditionID   string        `json:"conditionId"`
	Question      string        `json:"question"`
	Description   string        `json:"description"`
	Slug          string        `json:"slug"`
	Active        bool          `json:"active"`
	Closed        bool          `json:"closed"`
	AcceptingOrds bool          `json:"acceptingOrders"`
	Volume        StringFloat64 `json:"volume"`
	OutcomePrices EscapedArray  `json:"outcomePrices"`
	ClobTokenIds  EscapedArray  `json:"clobTokenIds"`
	NegRisk       bool          `json:"negRisk"`
	EndDateISO    TimeRFC3339   `json:"endDateIso"`
}

// =============================
// CLOB (trading)
// =============================

type FeeRateResponse struct {
	FeeRateBps int64 `json:"base_fee"`
}

type PriceResponse struct {
	Price string `json:"price"`
}

type OrderSummary struct {
	Price StringFloat64 `json:"price"`
	Size  StringFloat64 `json:"size"`
}

type BookResponse struct {
	Market         string         `json:"market"`
	AssetID        string         `json:"asset_id"`
	Timestamp      string         `json:"timestamp"`
	Hash           string         `json:"hash"`
	Bids           []OrderSummary `json:"bids"`
	Asks           []OrderSummary `json:"asks"`
	MinOrderSize   string         `json:"min_order_size"`
	TickSize       StringFloat64  `json:"tick_size"`
	NegRisk        bool           `json:"neg_risk"`
	LastTradePrice string         `json:"last_trade_price"`
}

type APIKeyResponse struct {
	APIKey     string `json:"apiKey"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}

type OrderStatus string

const (
	OrderStatusLive      OrderStatus = "live"
	OrderStatusMatched   OrderStatus = "matched"
	OrderStatusDelayed   OrderStatus = "delayed"
	OrderStatusUnmatched OrderStatus = "unmatched"
)

type OrderResponse struct {
	Success     bool        `json:"success"`
	ErrorMsg    string      `json:"errorMsg"`
	OrderID     string      `json:"orderId"`
	OrderHashes []string    `json:"orderHashes"`
	Status      OrderStatus `json:"status"`
}

type CancelResponse struct {
	Success  bool   `json:"success"`
	ErrorMsg string `json:"errorMsg"`
	Status   string `json:"status"`
}

type BalanceAllowanceResponse struct {
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

// =============================
// WebSocket (market channel)
// =============================

type marketSubscribeMessage struct {
	Type   string   `json:"type"`
	Assets []string `json:"assets_ids"`
}

type LastTradePriceMessage struct {
	EventType string        `json:"event_type"`
	AssetID   string        `json:"asset_id"`
	Market    string        `json:"market"`
	Price     StringFloat64 `json:"price"`
	Side      string        `json:"side"` // "BUY" or "SELL"
	Size      StringFloat64 `json:"size"`
	Timestamp string        `json:"timestamp"`
}

type TickSizeChangeMessage struct {
	EventType   string        `json:"event_type"`
	AssetID     string        `json:"asset_id"`
	Market      string        `json:"market"`
	OldTickSize StringFloat64 `json:"old_tick_size"`
	NewTickSize StringFloat64 `json:"new_tick_size"`
	Timestamp   string        `json:"timestamp"`
}

// =============================
// WebSocket (user channel)
// =============================

type SubscriptionAuth struct {
	APIKey     string `json:"apiKey"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}

type SubscriptionMessage struct {
	Type    string            `json:"type"` // "user" or "market"
	Markets []string          `json:"markets"`
	Auth    *SubscriptionAuth `json:"auth,omitempty"`
}

type MakerOrder struct {
	AssetID       string        `json:"asset_id"`
	MatchedAmount StringFloat64 `json:"matched_amount"`
	OrderID       string        `json:"order_id"`
	Outcome       string        `json:"outcome"`
	Owner         string        `json:"owner"`
	Price         StringFloat64 `json:"price"`
}

type UserTradeMessage struct {
	AssetID      string        `json:"asset_id"`
	EventType    string        `json:"event_type"`
	ID           string        `json:"id"`
	MakerOrders  []MakerOrder  `json:"maker_orders"`
	Market       string        `json:"market"`
	Outcome      string        `json:"outcome"`
	Owner        string        `json:"owner"`
	Price        StringFloat64 `json:"price"`
	Side         string        `json:"side"`
	Size         StringFloat64 `json:"size"`
	Status       string        `json:"status"`
	TakerOrderID string        `json:"taker_order_id"`
	Timestamp    string        `json:"timestamp"`
	Type         string        `json:"type"`
}

type UserOrderMessage struct {
	AssetID      string        `json:"asset_id"`
	EventType    string        `json:"event_type"`
	ID           string        `json:"id"`
	Market       string        `json:"market"`
	OriginalSize StringFloat64 `json:"original_size"`
	Outcome      string        `json:"outcome"`
	Owner        string        `json:"owner"`
	Price        StringFloat64 `json:"price"`
	Side         string        `json:"side"`
	SizeMatched  StringFloat64 `json:"size_matched"`
	Timestamp    string        `json:"timestamp"`
	Type         string        `json:"type"` // PLACEMENT, UPDATE, CANCELLATION
}

// =============================
// JSON decoding
// =============================

func (sf *StringFloat64) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		*sf = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*sf = StringFloat64(f)
	return nil
}

func (e *EscapedArray) UnmarshalJSON(data []byte) error {
	s := string(data)
	if s == "null" {
		return nil
	}
	s = strings.Trim(s, `"`)
	s = strings.ReplaceAll(s, `\\\"`, `"`)
	s = strings.ReplaceAll(s, `\"`, `"`)

	var parsed []string
	if err := json.Unmarshal([]byte(s), &parsed); err != nil {
		return err
	}
	*e = EscapedArray(parsed)
	return nil
}

func (t *TimeRFC3339) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "null" || s == "" {
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return err
	}
	*t = TimeRFC3339(parsed)
	return nil
}

func (t TimeRFC3339) Time() time.Time {
	return time.Time(t)
}
