package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateRecipientEVMLength(t *testing.T) {
	r := NewChainRegistry(DefaultChains()...)

	for _, n := range []int{18, 19, 21, 32} {
		err := r.ValidateRecipient(1, bytes.Repeat([]byte{0xAA}, n))
		assert.ErrorIs(t, err, ErrInvalidAddressLength, "len %d", n)
	}
	assert.NoError(t, r.ValidateRecipient(1, bytes.Repeat([]byte{0xAA}, 20)))
}

func TestValidateRecipientPerFamily(t *testing.T) {
	r := NewChainRegistry(DefaultChains()...)

	tron := append([]byte{0x41}, bytes.Repeat([]byte{0x01}, 20)...)
	assert.NoError(t, r.ValidateRecipient(728126428, tron))

	badPrefix := append([]byte{0x42}, bytes.Repeat([]byte{0x01}, 20)...)
	assert.ErrorIs(t, r.ValidateRecipient(728126428, badPrefix), ErrInvalidAddressFormat)

	assert.NoError(t, r.ValidateRecipient(SolanaChainID, bytes.Repeat([]byte{0x02}, 32)))
	assert.ErrorIs(t, r.ValidateRecipient(SolanaChainID, bytes.Repeat([]byte{0x02}, 20)), ErrInvalidAddressLength)

	assert.ErrorIs(t, r.ValidateRecipient(1, make([]byte, 20)), ErrZeroAddress)
	assert.ErrorIs(t, r.ValidateRecipient(424242, bytes.Repeat([]byte{0x01}, 20)), ErrUnknownChain)
}

func TestRegisterChain(t *testing.T) {
	r := NewChainRegistry()
	require.Error(t, r.Register(&ChainInfo{ChainID: 5}))
	require.NoError(t, r.Register(&ChainInfo{ChainID: 5, Name: "Goerli", Family: FamilyEVM}))

	assert.True(t, r.IsEVMCompatible(5))
	assert.Len(t, r.GetAllChains(), 1)
}

func TestDecodeAndFormatAddress(t *testing.T) {
	r := NewChainRegistry(DefaultChains()...)

	raw, err := r.DecodeAddress(1, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	require.NoError(t, err)
	assert.Len(t, raw, 20)
	assert.Equal(t, "0x70997970C51812dc3A010C7d01b50e0d17dc79C8", r.FormatAddress(1, raw))

	_, err = r.DecodeAddress(1, "0x1234")
	assert.ErrorIs(t, err, ErrInvalidAddressLength)

	tronText, err := EvmToTronAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	require.NoError(t, err)
	assert.True(t, IsTronAddress(tronText))

	tronRaw, err := r.DecodeAddress(728126428, tronText)
	require.NoError(t, err)
	assert.Equal(t, byte(0x41), tronRaw[0])
	assert.Equal(t, raw, tronRaw[1:])
	assert.Equal(t, tronText, r.FormatAddress(728126428, tronRaw))

	corrupted := []byte(tronText)
	corrupted[len(corrupted)-1] ^= 1
	_, err = TronToBytes(string(corrupted))
	assert.Error(t, err)
}

func TestComputeBudget(t *testing.T) {
	b := ComputeBudget{UnitLimit: 250_000, MaxAccountSize: 100}
	assert.NoError(t, b.Charge(OpMint))
	assert.ErrorIs(t, b.Charge(OpReceiveCrossChain), ErrBudgetExceeded)
	assert.ErrorIs(t, b.CheckAccountSize(101), ErrBudgetExceeded)

	assert.NoError(t, ComputeBudget{}.Charge(OpReceiveCrossChain))
	assert.Equal(t, DefaultComputeUnits, OperationCost(OpConfirmTransfer))
}
