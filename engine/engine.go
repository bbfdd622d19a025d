package engine

import "context"

// ExecutionEngine is the seam between strategy code and the exchange. The
// live engine signs and transmits real orders; the paper engine simulates
// fills against observed market flow. Both share market-data caching via
// BaseEngine.
type ExecutionEngine interface {
	Name() string

	PlaceOrder(ctx context.Context, req Request) (PendingOrder, error)
	CancelOrder(ctx context.Context, orderID string) error

	CheckFill(orderID string, incoming IncomingOrder) *FillResult

	GetBalance(ctx context.Context) (float64, error)

	Run(ctx context.Context) error
}
