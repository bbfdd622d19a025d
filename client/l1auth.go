package client

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"polysniper/order"
)

const clobAuthChainID = 137

// attestation is the fixed message Polymarket expects inside the ClobAuth
// struct. Changing a single byte invalidates the signature.
const attestation = "This message attests that I control the given wallet"

// BuildL1AuthSignature signs the ClobAuth typed-data message used to create
// or derive an API key. Level-1 auth proves control of the wallet itself;
// the derived key is then used for level-2 HMAC auth on trading endpoints.
func BuildL1AuthSignature(signer order.Signer, timestamp int64, nonce int) (string, error) {
	typedData := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": []apitypes.Type{
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
			},
			"ClobAuth": []apitypes.Type{
				{Name: "address", Type: "address"},
				{Name: "timestamp", Type: "string"},
				{Name: "nonce", Type: "uint256"},
				{Name: "message", Type: "string"},
			},
		},
		PrimaryType: "ClobAuth",
		Domain: apitypes.TypedDataDomain{
			Name:    "ClobAuthDomain",
			Version: "1",
			ChainId: math.NewHexOrDecimal256(clobAuthChainID),
		},
		Message: apitypes.TypedDataMessage{
			"address":   signer.Address().Hex(),
			"timestamp": strconv.FormatInt(timestamp, 10),
			"nonce":     math.NewHexOrDecimal256(int64(nonce)),
			"message":   attestation,
		},
	}

	domainSeparator, err := typedData.HashStruct("EIP712Domain", typedData.Domain.Map())
	if err != nil {
		return "", fmt.Errorf("hash domain: %w", err)
	}

	messageHash, err := typedData.HashStruct("ClobAuth", typedData.Message)
	if err != nil {
		return "", fmt.Errorf("hash message: %w", err)
	}

	raw := make([]byte, 0, 66)
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator...)
	raw = append(raw, messageHash...)
	digest := crypto.Keccak256Hash(raw)

	signature, err := signer.Sign(digest.Bytes())
	if err != nil {
		return "", fmt.Errorf("sign auth message: %w", err)
	}
	if len(signature) != 65 {
		return "", fmt.Errorf("unexpected signature length %d", len(signature))
	}

	out := make([]byte, 65)
	copy(out, signature)
	if out[64] < 27 {
		out[64] += 27
	}
	return "0x" + hex.EncodeToString(out), nil
}
