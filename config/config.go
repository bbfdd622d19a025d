package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/ethereum/go-ethereum/common"

	"polysniper/order"
)

// Config is the raw process environment. Nothing here is validated beyond
// type conversion; Credentials() does the hard checks so that a read-only
// command can still run without a full wallet setup.
type Config struct {
	PrivateKey    string `env:"POLY_PRIVATE_KEY"`
	WalletAddress string `env:"POLY_WALLET_ADDRESS"`
	ProxyWallet   string `env:"POLY_PROXY_WALLET"`

	APIKey     string `env:"POLY_API_KEY"`
	APISecret  string `env:"POLY_API_SECRET"`
	Passphrase string `env:"POLY_PASSPHRASE"`

	EngineMode string `env:"ENGINE_MODE" envDefault:"paper"`
	DryRun     bool   `env:"DRY_RUN" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return cfg, nil
}

// Credentials is the validated wallet/key material the order pipeline needs,
// resolved once at startup and passed in explicitly. The pipeline never reads
// the environment itself.
type Credentials struct {
	PrivateKey    string
	SignerAddress common.Address
	Topology      order.WalletTopology

	APIKey     string
	APISecret  string
	Passphrase string
}

// Credentials validates the wallet material. Any missing or malformed value
// is a hard error, raised before any network activity.
func (c *Config) Credentials() (*Credentials, error) {
	if c.PrivateKey == "" {
		return nil, fmt.Errorf("POLY_PRIVATE_KEY not set")
	}
	if c.WalletAddress == "" {
		return nil, fmt.Errorf("POLY_WALLET_ADDRESS not set")
	}
	if !common.IsHexAddress(c.WalletAddress) {
		return nil, fmt.Errorf("POLY_WALLET_ADDRESS is not a valid address: %q", c.WalletAddress)
	}
	if c.APIKey == "" {
		return nil, fmt.Errorf("POLY_API_KEY not set")
	}

	topology := order.WalletTopology{Kind: order.TopologyDirect}
	if c.ProxyWallet != "" {
		if !common.IsHexAddress(c.ProxyWallet) {
			return nil, fmt.Errorf("POLY_PROXY_WALLET is not a valid address: %q", c.ProxyWallet)
		}
		topology = order.WalletTopology{
			Kind:   order.TopologyProxy,
			Funder: common.HexToAddress(c.ProxyWallet),
		}
	}

	return &Credentials{
		PrivateKey:    c.PrivateKey,
		SignerAddress: common.HexToAddress(c.WalletAddress),
		Topology:      topology,
		APIKey:        c.APIKey,
		APISecret:     c.APISecret,
		Passphrase:    c.Passphrase,
	}, nil
}

// FundingAddress is the account the exchange debits for this credential set.
func (c *Credentials) FundingAddress() common.Address {
	return c.Topology.FundingAddress(c.SignerAddress)
}
