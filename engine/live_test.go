package engine

import (
	"context"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysniper/client"
	"polysniper/config"
	"polysniper/logger"
	"polysniper/order"
)

func newDryRunEngine(t *testing.T) *LiveEngine {
	t.Helper()

	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	addr := crypto.PubkeyToAddress(key.PublicKey)

	creds := &config.Credentials{
		PrivateKey:    hex.EncodeToString(crypto.FromECDSA(key)),
		SignerAddress: addr,
		Topology:      order.WalletTopology{Kind: order.TopologyDirect},
		APIKey:        "api-key-id",
		APISecret:     "c2VjcmV0",
		Passphrase:    "pass",
	}

	e, err := NewLiveEngine(creds, true, logger.NewNop())
	require.NoError(t, err)

	// prime the caches so no request leaves the process
	e.rulesCache["111"] = client.MarketRules{TickSize: 0.01, MinSize: 5, NegRisk: false}
	e.feeCache[strings.ToLower(creds.FundingAddress().Hex())] = 0
	return e
}

func TestLiveEngineRejectsMismatchedKey(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	other, err := crypto.GenerateKey()
	require.NoError(t, err)

	creds := &config.Credentials{
		PrivateKey:    hex.EncodeToString(crypto.FromECDSA(key)),
		SignerAddress: crypto.PubkeyToAddress(other.PublicKey),
		Topology:      order.WalletTopology{Kind: order.TopologyDirect},
		APIKey:        "k",
	}
	_, err = NewLiveEngine(creds, true, logger.NewNop())
	assert.Error(t, err)
}

func TestDryRunPlaceOrderDoesNotTrack(t *testing.T) {
	e := newDryRunEngine(t)

	po, err := e.PlaceOrder(context.Background(), Request{
		TokenID: "111",
		Side:    order.Buy,
		Price:   0.97,
		Size:    10.456,
	})
	require.NoError(t, err)

	assert.Contains(t, po.ID, "dry-")
	assert.False(t, po.Filled)
	assert.Empty(t, e.pendingOrders)
	assert.Equal(t, "live (dry run)", e.Name())
}

func TestDryRunStillValidates(t *testing.T) {
	e := newDryRunEngine(t)
	ctx := context.Background()

	// below market minimum size
	_, err := e.PlaceOrder(ctx, Request{TokenID: "111", Side: order.Buy, Price: 0.50, Size: 2})
	assert.Error(t, err)

	// below exchange notional minimum
	_, err = e.PlaceOrder(ctx, Request{TokenID: "111", Side: order.Buy, Price: 0.05, Size: 5})
	assert.ErrorIs(t, err, order.ErrTradeTooSmall)
}

func TestDryRunCancelIsNoop(t *testing.T) {
	e := newDryRunEngine(t)
	assert.NoError(t, e.CancelOrder(context.Background(), "any-id"))
}

func TestDryRunPriceSnapsToTick(t *testing.T) {
	e := newDryRunEngine(t)

	po, err := e.PlaceOrder(context.Background(), Request{
		TokenID: "111",
		Side:    order.Sell,
		Price:   0.9712, // finer than the 0.01 tick
		Size:    10,
	})
	require.NoError(t, err)
	assert.InDelta(t, 0.97, po.Request.Price, 1e-12)
}
