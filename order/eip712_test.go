package order

import (
	"encoding/hex"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainSeparatorStable(t *testing.T) {
	a, err := DomainSeparator(Standard)
	require.NoError(t, err)
	b, err := DomainSeparator(Standard)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDomainSeparatorDiffersByVariant(t *testing.T) {
	std, err := DomainSeparator(Standard)
	require.NoError(t, err)
	neg, err := DomainSeparator(NegRisk)
	require.NoError(t, err)
	assert.NotEqual(t, std, neg)
}

func TestDigestDeterministic(t *testing.T) {
	o, err := New(validParams())
	require.NoError(t, err)

	d1, err := o.Digest(Standard)
	require.NoError(t, err)
	d2, err := o.Digest(Standard)
	require.NoError(t, err)
	assert.Equal(t, d1, d2)

	dn, err := o.Digest(NegRisk)
	require.NoError(t, err)
	assert.NotEqual(t, d1, dn)
}

func TestSignAndRecover(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	hexKey := hex.EncodeToString(crypto.FromECDSA(key))

	signer, err := NewPrivateKeySigner(hexKey)
	require.NoError(t, err)

	p := validParams()
	p.Maker = signer.Address()
	p.Signer = signer.Address()
	o, err := New(p)
	require.NoError(t, err)

	sig, err := o.Sign(signer, Standard)
	require.NoError(t, err)

	// 0x prefix plus 65 bytes of hex
	assert.Len(t, sig, 132)

	// v must be in legacy form
	v := sig[len(sig)-2:]
	assert.Contains(t, []string{"1b", "1c"}, v)

	digest, err := o.Digest(Standard)
	require.NoError(t, err)

	raw, err := hex.DecodeString(sig[2:])
	require.NoError(t, err)
	require.Len(t, raw, 65)

	recovered, err := RecoverAddress(digest[:], raw)
	require.NoError(t, err)
	assert.Equal(t, signer.Address(), recovered)
}

func TestSignerRejectsBadKey(t *testing.T) {
	_, err := NewPrivateKeySigner("not-a-key")
	assert.Error(t, err)
}
