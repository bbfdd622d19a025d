package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"polysniper/logger"
	"polysniper/order"
	"polysniper/utils"
)

const defaultPaperBalance = 100.0

// PaperEngine simulates execution without touching the exchange. Taker
// orders fill immediately at a fee-adjusted price; maker orders rest until
// observed market flow crosses them via CheckFill.
type PaperEngine struct {
	*BaseEngine
	mu            sync.RWMutex
	log           logger.Logger
	feeAddress    string
	pendingOrders map[string]*PendingOrder
	balance       float64
}

func NewPaperEngine(feeAddress string, log logger.Logger) *PaperEngine {
	return &PaperEngine{
		BaseEngine:    NewBaseEngine(log),
		log:           log,
		feeAddress:    feeAddress,
		pendingOrders: make(map[string]*PendingOrder),
		balance:       defaultPaperBalance,
	}
}

func (e *PaperEngine) Name() string { return "paper" }

func (e *PaperEngine) GetBalance(context.Context) (float64, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.balance, nil
}

func (e *PaperEngine) PlaceOrder(ctx context.Context, req Request) (PendingOrder, error) {
	po := &PendingOrder{
		ID:       uuid.NewString(),
		Request:  req,
		PlacedAt: time.Now(),
	}

	if !req.Maker {
		// Taker orders fill at once. The simulated fill price folds the
		// taker fee into the per-share cost so PnL accounting downstream
		// sees what a live fill would have cost.
		feeBps := e.FeeRateBps(ctx, e.feeAddress)
		feeUSDC := utils.CalculateTakerFeeUSDC(req.Price, req.Size, feeBps)
		feePerShare := feeUSDC / req.Size

		po.Filled = true
		po.FilledQty = req.Size
		if req.Side == order.Buy {
			po.FillPrice = req.Price + feePerShare
		} else {
			po.FillPrice = req.Price - feePerShare
		}
		return *po, nil
	}

	e.log.Info("paper_order_resting", "token", req.TokenID,
		"side", req.Side.String(), "price", req.Price, "size", req.Size)

	e.mu.Lock()
	e.pendingOrders[po.ID] = po
	e.mu.Unlock()

	return *po, nil
}

func (e *PaperEngine) CancelOrder(_ context.Context, orderID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.pendingOrders[orderID]; !ok {
		return ErrOrderNotExist
	}

	e.log.Info("paper_order_cancelled", "order_id", orderID)
	delete(e.pendingOrders, orderID)
	return nil
}

func (e *PaperEngine) Run(context.Context) error { return nil }

// CheckFill matches a resting paper order against one observed trade. A buy
// crosses a sell at or below its limit, a sell crosses a buy at or above.
// Fills happen at the resting order's limit price, the maker's view.
func (e *PaperEngine) CheckFill(orderID string, incoming IncomingOrder) *FillResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	pending, ok := e.pendingOrders[orderID]
	if !ok {
		return nil
	}

	req := pending.Request
	if req.TokenID != incoming.TokenID {
		return nil
	}

	var crosses bool
	switch {
	case req.Side == order.Buy && incoming.Side == order.Sell:
		crosses = req.Price >= incoming.Price
	case req.Side == order.Sell && incoming.Side == order.Buy:
		crosses = req.Price <= incoming.Price
	default:
		return nil
	}
	if !crosses {
		return nil
	}

	remaining := req.Size - pending.FilledQty
	fillQty := min(remaining, incoming.Size)

	pending.FilledQty += fillQty
	fullyFilled := pending.FilledQty >= req.Size
	if fullyFilled {
		pending.Filled = true
		delete(e.pendingOrders, orderID)
	}

	return &FillResult{
		Filled:       true,
		FilledQty:    fillQty,
		TotalFilled:  pending.FilledQty,
		RemainingQty: remaining,
		FullyFilled:  fullyFilled,
		FillPrice:    req.Price,
	}
}
