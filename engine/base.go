package engine

import (
	"context"
	"sync"

	"polysniper/client"
	"polysniper/logger"
)

// BaseEngine caches per-token market rules and per-account fee rates so that
// a burst of orders on the same market costs one metadata round trip, not
// one per order.
type BaseEngine struct {
	mu         sync.RWMutex
	clobClient *client.ClobClient
	rulesCache map[string]client.MarketRules
	feeCache   map[string]int64
	log        logger.Logger
}

func NewBaseEngine(log logger.Logger) *BaseEngine {
	return &BaseEngine{
		clobClient: client.NewClobClient(),
		rulesCache: make(map[string]client.MarketRules),
		feeCache:   make(map[string]int64),
		log:        log,
	}
}

// Rules returns the tick size, minimum size and neg-risk flag for a token,
// fetching and caching on first use. Rules never change mid-session for a
// given token, so the cache has no expiry.
func (b *BaseEngine) Rules(ctx context.Context, tokenID string) (client.MarketRules, error) {
	b.mu.RLock()
	if rules, ok := b.rulesCache[tokenID]; ok {
		b.mu.RUnlock()
		return rules, nil
	}
	b.mu.RUnlock()

	rules, err := b.clobClient.GetMarketRules(ctx, tokenID)
	if err != nil {
		b.log.Error("market_rules_fetch_failed", "token", tokenID, "err", err)
		return client.MarketRules{}, err
	}

	b.mu.Lock()
	b.rulesCache[tokenID] = rules
	b.mu.Unlock()

	return rules, nil
}

// FeeRateBps returns the account's fee rate. The fee endpoint is keyed by the
// funding address, not by token. A lookup failure degrades to zero with a
// log line: a zero fee field still signs and the exchange applies the real
// rate server side.
func (b *BaseEngine) FeeRateBps(ctx context.Context, address string) int64 {
	b.mu.RLock()
	if fee, ok := b.feeCache[address]; ok {
		b.mu.RUnlock()
		return fee
	}
	b.mu.RUnlock()

	fee, err := b.clobClient.GetFeeRateBps(ctx, address)
	if err != nil {
		b.log.Error("fee_fetch_failed", "address", address, "err", err)
		return 0
	}

	b.mu.Lock()
	b.feeCache[address] = fee
	b.mu.Unlock()

	return fee
}

func (b *BaseEngine) UpdateMarketData(tokenID string, rules client.MarketRules) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rulesCache[tokenID] = rules
	b.log.Info("market_data_updated", "token", tokenID,
		"tick_size", rules.TickSize, "min_size", rules.MinSize, "neg_risk", rules.NegRisk)
}

// PreloadMarketData warms the rules cache for a known token set before
// trading starts, so the first order is not delayed by metadata fetches.
func (b *BaseEngine) PreloadMarketData(ctx context.Context, tokenIDs []string) error {
	for _, tokenID := range tokenIDs {
		rules, err := b.clobClient.GetMarketRules(ctx, tokenID)
		if err != nil {
			b.log.Error("market_data_preload_failed", "token", tokenID, "err", err)
			return err
		}

		b.mu.Lock()
		b.rulesCache[tokenID] = rules
		b.mu.Unlock()

		b.log.Info("market_data_preloaded", "token", tokenID,
			"tick_size", rules.TickSize, "min_size", rules.MinSize, "neg_risk", rules.NegRisk)
	}
	return nil
}
