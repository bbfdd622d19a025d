package order

import "github.com/ethereum/go-ethereum/common"

// TopologyKind distinguishes the two supported wallet setups.
type TopologyKind int

const (
	// TopologyDirect: one EOA both holds the funds and signs.
	TopologyDirect TopologyKind = iota
	// TopologyProxy: a Polymarket proxy wallet holds the funds, the EOA
	// only signs.
	TopologyProxy
)

// WalletTopology is resolved once at configuration time and threaded into
// order construction, so the signature type can never drift from the address
// pair actually used.
type WalletTopology struct {
	Kind   TopologyKind
	Funder common.Address // proxy wallet, set only for TopologyProxy
}

// SignatureType returns the signing scheme the exchange expects for this
// topology.
func (t WalletTopology) SignatureType() SignatureType {
	if t.Kind == TopologyProxy {
		return SignatureProxy
	}
	return SignatureEOA
}

// FundingAddress returns the account whose balance the exchange debits: the
// proxy wallet if one exists, otherwise the signing EOA itself.
func (t WalletTopology) FundingAddress(signer common.Address) common.Address {
	if t.Kind == TopologyProxy {
		return t.Funder
	}
	return signer
}
