package engine

import (
	"errors"
	"time"

	"polysniper/order"
)

var ErrOrderNotExist = errors.New("order does not exist")

// Request is what strategy code asks the engine to do. Price and Size are
// human units; the order package handles quantization when the request
// reaches a live exchange.
type Request struct {
	TokenID string
	Side    order.Side
	Price   float64
	Size    float64
	Maker   bool // rest on the book instead of crossing
}

type PendingOrder struct {
	ID         string
	Request    Request
	PlacedAt   time.Time
	Filled     bool
	FilledQty  float64
	FillPrice  float64 // effective price including taker fees
	Cancelling bool
}

// IncomingOrder is a trade observed on the market feed, used by the paper
// engine to decide whether a resting order would have crossed.
type IncomingOrder struct {
	TokenID string
	Side    order.Side
	Price   float64
	Size    float64
}

type FillResult struct {
	Filled       bool
	FilledQty    float64
	TotalFilled  float64
	RemainingQty float64
	FullyFilled  bool
	FillPrice    float64
}
