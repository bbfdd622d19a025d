package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

const gammaBaseURL = "https://gamma-api.polymarket.com"

// GammaClient queries the public gamma API for market metadata. No auth.
type GammaClient struct {
	*Client
}

func NewGammaClient() *GammaClient {
	return &GammaClient{Client: NewClient(gammaBaseURL)}
}

// GetMarkets lists active markets, optionally filtered by tag.
func (gc *GammaClient) GetMarkets(ctx context.Context, tagID int, limit int) ([]GammaMarket, error) {
	params := url.Values{}
	params.Set("active", "true")
	params.Set("closed", "false")
	params.Set("limit", strconv.Itoa(limit))
	if tagID > 0 {
		params.Set("tag_id", strconv.Itoa(tagID))
	}

	var markets []GammaMarket
	if err := gc.get(ctx, "/markets", params, &markets); err != nil {
		return nil, fmt.Errorf("fetch markets: %w", err)
	}
	return markets, nil
}

// GetMarketBySlug resolves a single market by its URL slug.
func (gc *GammaClient) GetMarketBySlug(ctx context.Context, slug string) (*GammaMarket, error) {
	params := url.Values{}
	params.Set("slug", slug)

	var markets []GammaMarket
	if err := gc.get(ctx, "/markets", params, &markets); err != nil {
		return nil, fmt.Errorf("fetch market %s: %w", slug, err)
	}
	if len(markets) == 0 {
		return nil, fmt.Errorf("no market found for slug %s", slug)
	}
	return &markets[0], nil
}
