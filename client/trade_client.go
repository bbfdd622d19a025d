package client

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"polysniper/order"
)

// TradeClient handles the authenticated CLOB order endpoints. Every request
// carries L2 HMAC headers; POST bodies are covered by the signature.
type TradeClient struct {
	*Client
	auth *L2Auth
}

func NewTradeClient(auth *L2Auth) *TradeClient {
	c := NewClient(clobBaseURL)
	c.SetAuth(auth)
	return &TradeClient{Client: c, auth: auth}
}

// PlaceOrder transmits a signed order envelope. This is the single live
// network side effect of the order pipeline; it is never retried here, since
// re-posting a signed order risks a duplicate fill.
func (tc *TradeClient) PlaceOrder(ctx context.Context, env order.Envelope) (*OrderResponse, error) {
	if tc.auth == nil {
		return nil, errors.New("auth required: missing L2 credentials")
	}

	var resp OrderResponse
	if err := tc.post(ctx, "/order", env, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return &resp, fmt.Errorf("order placement failed: %s", resp.ErrorMsg)
	}
	return &resp, nil
}

func (tc *TradeClient) CancelOrder(ctx context.Context, orderID string) (*CancelResponse, error) {
	if tc.auth == nil {
		return nil, errors.New("auth required: missing L2 credentials")
	}

	var resp CancelResponse
	if err := tc.delete(ctx, "/order/"+orderID, &resp); err != nil {
		return nil, err
	}

	if !resp.Success {
		return &resp, fmt.Errorf("cancel failed: %s", resp.ErrorMsg)
	}
	return &resp, nil
}

// GetBalance returns the available USDC collateral in whole dollars. The API
// reports raw 6-decimal base units.
func (tc *TradeClient) GetBalance(ctx context.Context, signatureType order.SignatureType) (float64, error) {
	if tc.auth == nil {
		return 0, errors.New("auth required: missing L2 credentials")
	}

	params := url.Values{}
	params.Set("asset_type", "COLLATERAL")
	params.Set("signature_type", strconv.Itoa(int(signatureType)))

	var resp BalanceAllowanceResponse
	if err := tc.get(ctx, "/balance-allowance", params, &resp); err != nil {
		return 0, fmt.Errorf("balance request failed: %w", err)
	}

	raw, err := strconv.ParseFloat(resp.Balance, 64)
	if err != nil {
		return 0, fmt.Errorf("parse balance %q: %w", resp.Balance, err)
	}
	return raw / 1_000_000, nil
}
