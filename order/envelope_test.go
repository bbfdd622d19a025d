package order

import (
	"crypto/ecdsa"
	"encoding/hex"
	"encoding/json"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signerFromKey(t *testing.T, key *ecdsa.PrivateKey) *PrivateKeySigner {
	t.Helper()
	signer, err := NewPrivateKeySigner(hex.EncodeToString(crypto.FromECDSA(key)))
	require.NoError(t, err)
	return signer
}

func TestEnvelopeWireShape(t *testing.T) {
	o, err := New(validParams())
	require.NoError(t, err)

	env := NewEnvelope(o, "0xsig", "api-key-id", GTC)
	payload, err := json.Marshal(env)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(payload, &decoded))

	assert.Equal(t, "api-key-id", decoded["owner"])
	assert.Equal(t, "GTC", decoded["orderType"])
	assert.Equal(t, false, decoded["postOnly"])

	inner, ok := decoded["order"].(map[string]any)
	require.True(t, ok)

	// salt is the one numeric field; every other integer is a string
	_, saltIsNumber := inner["salt"].(float64)
	assert.True(t, saltIsNumber, "salt must serialize as a JSON number")
	assert.IsType(t, "", inner["makerAmount"])
	assert.IsType(t, "", inner["takerAmount"])
	assert.IsType(t, "", inner["feeRateBps"])
	assert.IsType(t, "", inner["nonce"])
	assert.IsType(t, "", inner["expiration"])

	assert.Equal(t, "BUY", inner["side"])
	assert.Equal(t, float64(0), inner["signatureType"])
	assert.Equal(t, "10136500", inner["makerAmount"])
	assert.Equal(t, "10450000", inner["takerAmount"])
	assert.Equal(t, "123456", inner["tokenId"])
	assert.Equal(t, "0x0000000000000000000000000000000000000000", inner["taker"])
}

func TestEnvelopeAddressesLowercased(t *testing.T) {
	o, err := New(validParams())
	require.NoError(t, err)

	env := NewEnvelope(o, "0xsig", "owner", FOK)
	assert.Equal(t, "0x56687bf447db6ffa42ef4eb4cbf7d1a4f91fa8c3", env.Order.Maker)
	assert.Equal(t, env.Order.Maker, env.Order.Signer)
}

func TestBuildSignedPipeline(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := signerFromKey(t, key)

	p := validParams()
	p.Maker = signer.Address()
	p.Signer = signer.Address()

	env, err := BuildSigned(p, signer, Standard, "owner-key", FAK)
	require.NoError(t, err)

	assert.Equal(t, "owner-key", env.Owner)
	assert.Equal(t, FAK, env.OrderType)
	assert.Len(t, env.Order.Signature, 132)
	assert.False(t, env.PostOnly)
}

func TestBuildSignedPropagatesQuantizeErrors(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	signer := signerFromKey(t, key)

	p := validParams()
	p.Maker = signer.Address()
	p.Signer = signer.Address()
	p.Price = 0.05
	p.Size = 5.0 // $0.25 notional

	_, err = BuildSigned(p, signer, Standard, "owner", GTC)
	assert.ErrorIs(t, err, ErrTradeTooSmall)
}
