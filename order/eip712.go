package order

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// Verifying contracts on Polygon. Standard binary markets settle through the
// CTF Exchange; negative-risk markets through their own exchange contract.
const (
	ExchangeAddress        = "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E"
	NegRiskExchangeAddress = "0xC5d563A36AE78145C45a50134d48A1215220f80a"
)

const (
	domainName    = "Polymarket CTF Exchange"
	domainVersion = "1"
	// Polygon mainnet. The exchange contracts exist nowhere else.
	chainID = 137
)

// ExchangeVariant selects which contract verifies the signature. An order
// signed against the wrong variant is syntactically valid but rejected by the
// exchange with no in-band hint, so callers must track the neg_risk flag per
// market (the /book response carries it).
type ExchangeVariant int

const (
	Standard ExchangeVariant = iota
	NegRisk
)

func (v ExchangeVariant) VerifyingContract() common.Address {
	if v == NegRisk {
		return common.HexToAddress(NegRiskExchangeAddress)
	}
	return common.HexToAddress(ExchangeAddress)
}

func (v ExchangeVariant) String() string {
	if v == NegRisk {
		return "neg_risk"
	}
	return "standard"
}

// orderTypes is the EIP-712 schema of the exchange's Order struct. Field
// order matters: it is hashed in declaration order.
var orderTypes = apitypes.Types{
	"EIP712Domain": []apitypes.Type{
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	"Order": []apitypes.Type{
		{Name: "salt", Type: "uint256"},
		{Name: "maker", Type: "address"},
		{Name: "signer", Type: "address"},
		{Name: "taker", Type: "address"},
		{Name: "tokenId", Type: "uint256"},
		{Name: "makerAmount", Type: "uint256"},
		{Name: "takerAmount", Type: "uint256"},
		{Name: "expiration", Type: "uint256"},
		{Name: "nonce", Type: "uint256"},
		{Name: "feeRateBps", Type: "uint256"},
		{Name: "side", Type: "uint8"},
		{Name: "signatureType", Type: "uint8"},
	},
}

func domain(variant ExchangeVariant) apitypes.TypedDataDomain {
	return apitypes.TypedDataDomain{
		Name:              domainName,
		Version:           domainVersion,
		ChainId:           math.NewHexOrDecimal256(chainID),
		VerifyingContract: variant.VerifyingContract().Hex(),
	}
}

// DomainSeparator returns the EIP-712 domain hash for the given exchange
// variant. Constant per variant; differs between Standard and NegRisk.
func DomainSeparator(variant ExchangeVariant) (common.Hash, error) {
	td := apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: "Order",
		Domain:      domain(variant),
	}
	sep, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash domain: %w", err)
	}
	return common.BytesToHash(sep), nil
}

func (o *Order) typedData(variant ExchangeVariant) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       orderTypes,
		PrimaryType: "Order",
		Domain:      domain(variant),
		Message: apitypes.TypedDataMessage{
			"salt":          o.Salt.String(),
			"maker":         strings.ToLower(o.Maker.Hex()),
			"signer":        strings.ToLower(o.Signer.Hex()),
			"taker":         strings.ToLower(o.Taker.Hex()),
			"tokenId":       o.TokenID.String(),
			"makerAmount":   o.MakerAmount.String(),
			"takerAmount":   o.TakerAmount.String(),
			"expiration":    o.Expiration.String(),
			"nonce":         o.Nonce.String(),
			"feeRateBps":    o.FeeRateBps.String(),
			"side":          strconv.Itoa(int(o.Side)),
			"signatureType": strconv.Itoa(int(o.SignatureType)),
		},
	}
}

// Digest computes the signable typed-data hash:
// keccak256(0x19 0x01 || domainSeparator || structHash).
func (o *Order) Digest(variant ExchangeVariant) (common.Hash, error) {
	td := o.typedData(variant)

	domainSeparator, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash domain: %w", err)
	}

	structHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return common.Hash{}, fmt.Errorf("hash order: %w", err)
	}

	raw := make([]byte, 0, 66)
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator...)
	raw = append(raw, structHash...)
	return crypto.Keccak256Hash(raw), nil
}
