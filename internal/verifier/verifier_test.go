package verifier

import (
	"bytes"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Well-known development key, address 0x70997970C51812dc3A010C7d01b50e0d17dc79C8.
const devKey = "59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d"

func sampleMessage() *InboundMessage {
	m := &InboundMessage{
		DestinationChainID: 7565164,
		OriginChainID:      1,
		OriginTxHash:       bytes.Repeat([]byte{0x11}, 32),
		Nonce:              1,
		OriginalOwner:      bytes.Repeat([]byte{0xAA}, 20),
		URI:                "ipfs://bafy/1.json",
		Name:               "Bridge Ape",
		Symbol:             "BAPE",
	}
	m.Recipient[0] = 9
	return m
}

func TestSignerFromHexAddress(t *testing.T) {
	s, err := SignerFromHex("0x" + devKey)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"), s.Address())
}

func TestVerifyRoundTrip(t *testing.T) {
	s, err := SignerFromHex(devKey)
	require.NoError(t, err)

	hash := sampleMessage().Hash()
	sig, err := s.Sign(hash)
	require.NoError(t, err)
	require.Len(t, sig, SignatureLength)

	assert.True(t, Verify(hash, sig, s.Address()))

	raw := append([]byte(nil), sig...)
	raw[64] -= 27
	assert.True(t, Verify(hash, raw, s.Address()), "v in {0,1} accepted")

	other, err := GenerateSigner()
	require.NoError(t, err)
	assert.False(t, Verify(hash, sig, other.Address()))
	assert.False(t, Verify(hash, sig, common.Address{}))
}

func TestVerifyRejectsEverySignatureBitFlip(t *testing.T) {
	s, err := SignerFromHex(devKey)
	require.NoError(t, err)
	hash := sampleMessage().Hash()
	sig, err := s.Sign(hash)
	require.NoError(t, err)

	for i := 0; i < len(sig)*8; i++ {
		flipped := append([]byte(nil), sig...)
		flipped[i/8] ^= 1 << (i % 8)
		assert.False(t, Verify(hash, flipped, s.Address()), "bit %d", i)
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	s, err := GenerateSigner()
	require.NoError(t, err)
	hash := sampleMessage().Hash()

	assert.NotPanics(t, func() {
		assert.False(t, Verify(hash, nil, s.Address()))
		assert.False(t, Verify(hash, make([]byte, 64), s.Address()))
		assert.False(t, Verify(hash, make([]byte, 66), s.Address()))
		assert.False(t, Verify(hash, make([]byte, 65), s.Address()))
		assert.False(t, Verify(hash, bytes.Repeat([]byte{0xFF}, 65), s.Address()))
	})
}

func TestInboundHashBindsEveryField(t *testing.T) {
	base := sampleMessage().Hash()

	mutations := []func(m *InboundMessage){
		func(m *InboundMessage) { m.DestinationChainID++ },
		func(m *InboundMessage) { m.OriginChainID++ },
		func(m *InboundMessage) { m.OriginTxHash[0] ^= 1 },
		func(m *InboundMessage) { m.Nonce++ },
		func(m *InboundMessage) { m.Recipient[31] ^= 1 },
		func(m *InboundMessage) { m.ReturningMint[0] = 1 },
		func(m *InboundMessage) { m.OriginalOwner[19] ^= 1 },
		func(m *InboundMessage) { m.URI += "x" },
		func(m *InboundMessage) { m.Name = "Bridge Apf" },
		func(m *InboundMessage) { m.Symbol = "BAPF" },
	}
	for i, mutate := range mutations {
		m := sampleMessage()
		mutate(m)
		assert.NotEqual(t, base, m.Hash(), "mutation %d", i)
	}
}

func TestInboundEncodingSeparatesVariableFields(t *testing.T) {
	a := sampleMessage()
	a.Name, a.Symbol = "AB", "C"
	b := sampleMessage()
	b.Name, b.Symbol = "A", "BC"
	assert.NotEqual(t, a.Hash(), b.Hash())
}

func TestConfirmationHash(t *testing.T) {
	m := &ConfirmationMessage{HomeChainID: 7565164, Nonce: 1, DestinationChainID: 1, Recipient: bytes.Repeat([]byte{0xAA}, 20)}
	h := m.Hash()
	m.Nonce = 2
	assert.NotEqual(t, h, m.Hash())
}
