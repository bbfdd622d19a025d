package order

import (
	"fmt"
	"math/big"
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Side is the order direction. The numeric values are part of the signed
// struct and must not change.
type Side uint8

const (
	Buy  Side = 0
	Sell Side = 1
)

func (s Side) String() string {
	if s == Sell {
		return "SELL"
	}
	return "BUY"
}

// SignatureType encodes which EIP-712 signing scheme the exchange should
// verify the order against.
type SignatureType int

const (
	// SignatureEOA: the maker signs directly with its own key.
	SignatureEOA SignatureType = 0
	// SignatureProxy: a proxy wallet holds the funds, an EOA signs on its
	// behalf.
	SignatureProxy SignatureType = 1
)

// Order mirrors the CTF Exchange contract's Order struct. It is built fresh
// for every trade attempt, signed once, serialized once, and discarded.
type Order struct {
	Salt          *big.Int
	Maker         common.Address
	Signer        common.Address
	Taker         common.Address
	TokenID       *big.Int
	MakerAmount   *big.Int
	TakerAmount   *big.Int
	Expiration    *big.Int
	Nonce         *big.Int
	FeeRateBps    *big.Int
	Side          Side
	SignatureType SignatureType
}

// Params carries everything needed to assemble an order. Maker is the account
// whose funds move; Signer is the account whose key signs. They coincide for
// direct EOA trading and differ for proxy-wallet trading.
type Params struct {
	Maker         common.Address
	Signer        common.Address
	TokenID       string
	Side          Side
	Price         float64
	Size          float64
	FeeRateBps    int64
	TickSize      float64
	SignatureType SignatureType
}

// New assembles a good-til-cancelled open order: taker is the zero address,
// expiration and nonce are zero. The signature type must be consistent with
// the maker/signer pair or the exchange will reject the signature without a
// useful error.
func New(p Params) (*Order, error) {
	tokenID, ok := new(big.Int).SetString(p.TokenID, 10)
	if !ok || tokenID.Sign() < 0 {
		return nil, fmt.Errorf("%w: %q", ErrTokenID, p.TokenID)
	}

	switch p.SignatureType {
	case SignatureEOA:
		if p.Maker != p.Signer {
			return nil, fmt.Errorf("%w: EOA orders require maker == signer (maker=%s signer=%s)",
				ErrTopologyMismatch, p.Maker.Hex(), p.Signer.Hex())
		}
	case SignatureProxy:
		if p.Maker == (common.Address{}) || p.Maker == p.Signer {
			return nil, fmt.Errorf("%w: proxy orders require a distinct funder address (maker=%s signer=%s)",
				ErrTopologyMismatch, p.Maker.Hex(), p.Signer.Hex())
		}
	default:
		return nil, fmt.Errorf("%w: unsupported signature type %d", ErrTopologyMismatch, p.SignatureType)
	}

	amounts, err := Quantize(p.Price, p.Size, p.TickSize)
	if err != nil {
		return nil, err
	}

	var makerAmount, takerAmount *big.Int
	if p.Side == Buy {
		makerAmount, takerAmount = amounts.USDC, amounts.Shares
	} else {
		makerAmount, takerAmount = amounts.Shares, amounts.USDC
	}

	return &Order{
		Salt:          newSalt(),
		Maker:         p.Maker,
		Signer:        p.Signer,
		Taker:         common.Address{},
		TokenID:       tokenID,
		MakerAmount:   makerAmount,
		TakerAmount:   takerAmount,
		Expiration:    big.NewInt(0),
		Nonce:         big.NewInt(0),
		FeeRateBps:    big.NewInt(p.FeeRateBps),
		Side:          p.Side,
		SignatureType: p.SignatureType,
	}, nil
}

// newSalt scales the current unix timestamp by a random fraction, the scheme
// py_order_utils uses. Uniqueness across near-simultaneous orders is
// probabilistic, not guaranteed; the salt only differentiates otherwise
// identical order hashes.
func newSalt() *big.Int {
	now := float64(time.Now().UTC().Unix())
	return big.NewInt(int64(now * rand.Float64()))
}
