package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"polysniper/order"
)

const clobBaseURL = "https://clob.polymarket.com"

// ClobClient covers the unauthenticated CLOB endpoints: market rules, prices,
// books, fee rates, and API-key derivation (which signs its own headers).
type ClobClient struct {
	*Client
}

func NewClobClient() *ClobClient {
	return &ClobClient{Client: NewClient(clobBaseURL)}
}

// GetFeeRateBps returns the fee in basis points charged to the given funding
// address. Callers degrade a failed lookup to fee 0 rather than aborting the
// order attempt.
func (c *ClobClient) GetFeeRateBps(ctx context.Context, address string) (int64, error) {
	params := url.Values{}
	params.Set("address", address)

	var resp FeeRateResponse
	if err := c.get(ctx, "/fee-rate", params, &resp); err != nil {
		return 0, err
	}
	return resp.FeeRateBps, nil
}

func (c *ClobClient) GetPrice(ctx context.Context, tokenID, side string) (float64, error) {
	params := url.Values{}
	params.Set("token_id", tokenID)
	params.Set("side", side)

	var resp PriceResponse
	if err := c.get(ctx, "/price", params, &resp); err != nil {
		return 0, err
	}

	price, err := strconv.ParseFloat(resp.Price, 64)
	if err != nil {
		return 0, fmt.Errorf("parse price %q: %w", resp.Price, err)
	}
	return price, nil
}

func (c *ClobClient) GetBook(ctx context.Context, tokenID string) (*BookResponse, error) {
	params := url.Values{}
	params.Set("token_id", tokenID)

	resp := &BookResponse{}
	if err := c.get(ctx, "/book", params, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// MarketRules are the per-token order constraints the pipeline needs: the
// tick size, the minimum order size, and which exchange contract verifies
// signatures for this market.
type MarketRules struct {
	TickSize float64
	MinSize  float64
	NegRisk  bool
}

// GetMarketRules fetches the book and extracts the order constraints.
func (c *ClobClient) GetMarketRules(ctx context.Context, tokenID string) (MarketRules, error) {
	book, err := c.GetBook(ctx, tokenID)
	if err != nil {
		return MarketRules{}, err
	}

	rules := MarketRules{
		TickSize: float64(book.TickSize),
		NegRisk:  book.NegRisk,
	}
	if book.MinOrderSize != "" {
		minSize, err := strconv.ParseFloat(book.MinOrderSize, 64)
		if err != nil {
			return rules, fmt.Errorf("parse min order size %q: %w", book.MinOrderSize, err)
		}
		rules.MinSize = minSize
	}
	return rules, nil
}

// CreateOrDeriveAPIKey exchanges a level-1 wallet signature for level-2 API
// credentials. Idempotent: the same wallet always derives the same key.
func (c *ClobClient) CreateOrDeriveAPIKey(ctx context.Context, signer order.Signer) (*APIKeyResponse, error) {
	timestamp := time.Now().Unix()
	nonce := 0

	signature, err := BuildL1AuthSignature(signer, timestamp, nonce)
	if err != nil {
		return nil, fmt.Errorf("build L1 signature: %w", err)
	}

	headers := map[string]string{
		"POLY_ADDRESS":   signer.Address().Hex(),
		"POLY_SIGNATURE": signature,
		"POLY_TIMESTAMP": strconv.FormatInt(timestamp, 10),
		"POLY_NONCE":     strconv.Itoa(nonce),
	}

	resp := &APIKeyResponse{}
	if err := c.getWithHeaders(ctx, "/auth/derive-api-key", headers, resp); err != nil {
		return nil, err
	}
	return resp, nil
}
