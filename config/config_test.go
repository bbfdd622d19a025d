package config

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"polysniper/order"
)

const (
	testWallet = "0x56687BF447db6fFA42eF4eB4cBf7D1A4F91fA8c3"
	testProxy  = "0x1234567890AbcdEF1234567890aBcdef12345678"
)

func setBaseEnv(t *testing.T) {
	t.Setenv("POLY_PRIVATE_KEY", "deadbeef")
	t.Setenv("POLY_WALLET_ADDRESS", testWallet)
	t.Setenv("POLY_API_KEY", "key-id")
	t.Setenv("POLY_API_SECRET", "c2VjcmV0")
	t.Setenv("POLY_PASSPHRASE", "pass")
}

func TestLoadDefaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "paper", cfg.EngineMode)
	assert.False(t, cfg.DryRun)
}

func TestCredentialsDirectTopology(t *testing.T) {
	setBaseEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	creds, err := cfg.Credentials()
	require.NoError(t, err)

	assert.Equal(t, order.TopologyDirect, creds.Topology.Kind)
	assert.Equal(t, order.SignatureEOA, creds.Topology.SignatureType())
	assert.Equal(t, common.HexToAddress(testWallet), creds.FundingAddress())
}

func TestCredentialsProxyTopology(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("POLY_PROXY_WALLET", testProxy)

	cfg, err := Load()
	require.NoError(t, err)
	creds, err := cfg.Credentials()
	require.NoError(t, err)

	assert.Equal(t, order.TopologyProxy, creds.Topology.Kind)
	assert.Equal(t, order.SignatureProxy, creds.Topology.SignatureType())
	assert.Equal(t, common.HexToAddress(testProxy), creds.FundingAddress())
	assert.NotEqual(t, creds.SignerAddress, creds.FundingAddress())
}

func TestCredentialsMissingValues(t *testing.T) {
	cases := []struct{ clear string }{
		{"POLY_PRIVATE_KEY"},
		{"POLY_WALLET_ADDRESS"},
		{"POLY_API_KEY"},
	}
	for _, tc := range cases {
		t.Run(tc.clear, func(t *testing.T) {
			setBaseEnv(t)
			t.Setenv(tc.clear, "")

			cfg, err := Load()
			require.NoError(t, err)
			_, err = cfg.Credentials()
			assert.Error(t, err)
		})
	}
}

func TestCredentialsRejectsMalformedAddresses(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("POLY_WALLET_ADDRESS", "not-an-address")

	cfg, err := Load()
	require.NoError(t, err)
	_, err = cfg.Credentials()
	assert.Error(t, err)

	setBaseEnv(t)
	t.Setenv("POLY_PROXY_WALLET", "0x123")
	cfg, err = Load()
	require.NoError(t, err)
	_, err = cfg.Credentials()
	assert.Error(t, err)
}
