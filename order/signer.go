package order

import (
	"crypto/ecdsa"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// Signer produces recoverable secp256k1 signatures over 32-byte digests.
// Anything that can sign a digest satisfies it; live trading uses
// PrivateKeySigner, tests use throwaway generated keys.
type Signer interface {
	// Sign returns a 65-byte signature r||s||v with v in {0, 1}.
	Sign(digest []byte) ([]byte, error)
	Address() common.Address
}

// PrivateKeySigner signs with an in-process private key.
type PrivateKeySigner struct {
	privateKey *ecdsa.PrivateKey
	address    common.Address
}

func NewPrivateKeySigner(privateKeyHex string) (*PrivateKeySigner, error) {
	privateKeyHex = strings.TrimPrefix(privateKeyHex, "0x")
	key, err := crypto.HexToECDSA(privateKeyHex)
	if err != nil {
		return nil, fmt.Errorf("invalid private key: %w", err)
	}
	return &PrivateKeySigner{
		privateKey: key,
		address:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

func (s *PrivateKeySigner) Address() common.Address {
	return s.address
}

func (s *PrivateKeySigner) Sign(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, fmt.Errorf("digest must be 32 bytes, got %d", len(digest))
	}
	return crypto.Sign(digest, s.privateKey)
}

// Sign hashes the order against the chosen exchange contract and returns the
// 65-byte r||s||v signature hex-encoded with a 0x prefix. v is shifted into
// the legacy Ethereum {27, 28} range the exchange expects.
func (o *Order) Sign(signer Signer, variant ExchangeVariant) (string, error) {
	digest, err := o.Digest(variant)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSigning, err)
	}

	sig, err := signer.Sign(digest.Bytes())
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrSigning, err)
	}
	if len(sig) != 65 {
		return "", fmt.Errorf("%w: unexpected signature length %d", ErrSigning, len(sig))
	}

	out := make([]byte, 65)
	copy(out, sig)
	if out[64] < 27 {
		out[64] += 27
	}
	return "0x" + hex.EncodeToString(out), nil
}

// RecoverAddress returns the address whose key produced the signature over
// the digest. Accepts v in either {0, 1} or {27, 28}.
func RecoverAddress(digest []byte, signature []byte) (common.Address, error) {
	if len(signature) != 65 {
		return common.Address{}, fmt.Errorf("invalid signature length: %d", len(signature))
	}
	if len(digest) != 32 {
		return common.Address{}, fmt.Errorf("invalid digest length: %d", len(digest))
	}

	sig := make([]byte, 65)
	copy(sig, signature)
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	pub, err := crypto.SigToPub(digest, sig)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}
