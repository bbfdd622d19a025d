package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"polysniper/client"
	"polysniper/config"
	"polysniper/logger"
	"polysniper/order"
	"polysniper/utils"
)

// LiveEngine signs real orders and submits them to the CLOB. With dryRun set
// it runs the identical construction and signing pipeline but logs the final
// envelope instead of transmitting it.
type LiveEngine struct {
	*BaseEngine
	mu     sync.RWMutex
	log    logger.Logger
	creds  *config.Credentials
	signer order.Signer
	trade  *client.TradeClient
	stream *client.UserStream
	dryRun bool

	pendingOrders map[string]*PendingOrder
	onFill        func(*PendingOrder)
}

func NewLiveEngine(creds *config.Credentials, dryRun bool, log logger.Logger) (*LiveEngine, error) {
	signer, err := order.NewPrivateKeySigner(creds.PrivateKey)
	if err != nil {
		return nil, fmt.Errorf("load signing key: %w", err)
	}
	if signer.Address() != creds.SignerAddress {
		return nil, fmt.Errorf("private key derives %s, configured wallet is %s",
			signer.Address().Hex(), creds.SignerAddress.Hex())
	}

	auth := &client.L2Auth{
		Address:    strings.ToLower(creds.FundingAddress().Hex()),
		APIKey:     creds.APIKey,
		Secret:     creds.APISecret,
		Passphrase: creds.Passphrase,
	}

	return &LiveEngine{
		BaseEngine:    NewBaseEngine(log),
		log:           log,
		creds:         creds,
		signer:        signer,
		trade:         client.NewTradeClient(auth),
		stream:        client.NewUserStream(creds.APIKey, creds.APISecret, creds.Passphrase, log),
		dryRun:        dryRun,
		pendingOrders: make(map[string]*PendingOrder),
	}, nil
}

func (e *LiveEngine) Name() string {
	if e.dryRun {
		return "live (dry run)"
	}
	return "live"
}

func (e *LiveEngine) GetBalance(ctx context.Context) (float64, error) {
	return e.trade.GetBalance(ctx, e.creds.Topology.SignatureType())
}

func (e *LiveEngine) SetOnFill(cb func(*PendingOrder)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onFill = cb
}

// buildEnvelope runs the full order pipeline for one request: market rules,
// tick alignment, fee lookup, quantization, EIP-712 signing, envelope.
func (e *LiveEngine) buildEnvelope(ctx context.Context, req *Request) (order.Envelope, error) {
	rules, err := e.Rules(ctx, req.TokenID)
	if err != nil {
		return order.Envelope{}, err
	}

	if req.Size < rules.MinSize {
		return order.Envelope{}, fmt.Errorf("order size below market minimum: %g < %g", req.Size, rules.MinSize)
	}
	if rules.TickSize > 0 {
		req.Price = utils.RoundToTick(req.Price, rules.TickSize)
	}

	funder := e.creds.FundingAddress()
	feeRateBps := e.FeeRateBps(ctx, strings.ToLower(funder.Hex()))

	variant := order.Standard
	if rules.NegRisk {
		variant = order.NegRisk
	}

	orderType := order.FOK
	if req.Maker {
		orderType = order.GTC
	}

	return order.BuildSigned(order.Params{
		Maker:         funder,
		Signer:        e.creds.SignerAddress,
		TokenID:       req.TokenID,
		Side:          req.Side,
		Price:         req.Price,
		Size:          req.Size,
		FeeRateBps:    feeRateBps,
		TickSize:      rules.TickSize,
		SignatureType: e.creds.Topology.SignatureType(),
	}, e.signer, variant, e.creds.APIKey, orderType)
}

func (e *LiveEngine) PlaceOrder(ctx context.Context, req Request) (PendingOrder, error) {
	env, err := e.buildEnvelope(ctx, &req)
	if err != nil {
		e.log.Error("order_preparation_failed", "token", req.TokenID, "err", err)
		return PendingOrder{}, err
	}

	if e.dryRun {
		payload, err := json.Marshal(env)
		if err != nil {
			return PendingOrder{}, err
		}
		e.log.Info("dry_run_order",
			"token", req.TokenID,
			"side", req.Side.String(),
			"price", req.Price,
			"size", req.Size,
			"envelope", string(payload))
		return PendingOrder{
			ID:       "dry-" + uuid.NewString(),
			Request:  req,
			PlacedAt: time.Now(),
		}, nil
	}

	resp, err := e.trade.PlaceOrder(ctx, env)
	if err != nil {
		e.log.Error("place_order_failed", "token", req.TokenID, "err", err)
		return PendingOrder{}, err
	}

	po := PendingOrder{
		ID:       resp.OrderID,
		Request:  req,
		PlacedAt: time.Now(),
	}

	switch resp.Status {
	case client.OrderStatusMatched:
		po.Filled = true
		po.FilledQty = req.Size
		po.FillPrice = req.Price
		e.log.Info("order_matched", "order_id", resp.OrderID, "price", req.Price, "size", req.Size)
		if e.onFill != nil {
			e.onFill(&po)
		}
		return po, nil

	case client.OrderStatusLive:
		e.log.Info("order_live", "order_id", resp.OrderID)

	case client.OrderStatusDelayed:
		e.log.Warn("order_delayed", "order_id", resp.OrderID, "msg", "marketable but subject to matching delay")

	case client.OrderStatusUnmatched:
		e.log.Warn("order_unmatched", "order_id", resp.OrderID, "msg", "placement succeeded, match delayed")

	default:
		e.log.Info("order_placed", "order_id", resp.OrderID, "status", string(resp.Status))
	}

	e.mu.Lock()
	e.pendingOrders[po.ID] = &po
	e.mu.Unlock()

	return po, nil
}

func (e *LiveEngine) CancelOrder(ctx context.Context, orderID string) error {
	if e.dryRun {
		e.log.Info("dry_run_cancel", "order_id", orderID)
		return nil
	}

	if _, err := e.trade.CancelOrder(ctx, orderID); err != nil {
		e.log.Error("cancel_order_failed", "order_id", orderID, "err", err)
		return err
	}

	e.mu.Lock()
	if po, ok := e.pendingOrders[orderID]; ok {
		po.Cancelling = true
		e.log.Info("order_cancellation_requested", "order_id", orderID)
	}
	e.mu.Unlock()
	return nil
}

// CheckFill is a no-op for the live engine: real fills arrive on the user
// websocket, not from strategy-side book simulation.
func (e *LiveEngine) CheckFill(string, IncomingOrder) *FillResult {
	return nil
}

// Run connects the user channel and keeps pending orders in sync with fill
// and cancellation events. In dry-run mode there is nothing to track.
func (e *LiveEngine) Run(ctx context.Context) error {
	if e.dryRun {
		return nil
	}

	e.stream.OnTrade(e.handleTrade)
	e.stream.OnOrder(e.handleOrderEvent)

	if err := e.stream.Connect(nil); err != nil {
		e.log.Error("user_stream_connect_failed", "err", err)
		return err
	}

	go func() {
		if err := e.stream.Listen(ctx); err != nil && ctx.Err() == nil {
			e.log.Error("user_stream_listen_failed", "err", err)
		}
	}()

	return nil
}

func (e *LiveEngine) handleTrade(t client.UserTradeMessage) {
	e.log.Info("trade_event",
		"trade_id", t.ID,
		"taker_order_id", t.TakerOrderID,
		"side", t.Side,
		"size", t.Size,
		"price", t.Price,
		"status", t.Status)

	if t.Status != "MATCHED" && t.Status != "MINED" && t.Status != "CONFIRMED" {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if po, ok := e.pendingOrders[t.TakerOrderID]; ok {
		e.applyFill(po, float64(t.Size), float64(t.Price), true)
	}
	for _, maker := range t.MakerOrders {
		if po, ok := e.pendingOrders[maker.OrderID]; ok {
			e.applyFill(po, float64(maker.MatchedAmount), float64(maker.Price), false)
		}
	}
}

// applyFill must run under e.mu. Taker fills report cumulative size, maker
// fills report the increment.
func (e *LiveEngine) applyFill(po *PendingOrder, size, price float64, cumulative bool) {
	before := po.FilledQty
	if cumulative {
		po.FilledQty = size
	} else {
		po.FilledQty += size
	}
	po.FillPrice = price
	po.Filled = po.FilledQty >= po.Request.Size

	if po.Filled {
		delete(e.pendingOrders, po.ID)
	}
	if po.FilledQty > before && e.onFill != nil {
		e.onFill(po)
	}
}

func (e *LiveEngine) handleOrderEvent(o client.UserOrderMessage) {
	e.log.Info("order_event",
		"order_id", o.ID,
		"type", o.Type,
		"side", o.Side,
		"price", o.Price,
		"size_matched", o.SizeMatched)

	if o.Type != "CANCELLATION" {
		return
	}

	e.mu.Lock()
	if _, ok := e.pendingOrders[o.ID]; ok {
		delete(e.pendingOrders, o.ID)
		e.log.Info("order_cancelled", "order_id", o.ID)
	}
	e.mu.Unlock()
}
