package models

import (
	"testing"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramConfigEncoding(t *testing.T) {
	cfg := ProgramConfig{
		Authority:       ledger.Derive(ledger.ZeroAddress, []byte("authority")),
		Gateway:         ledger.Derive(ledger.ZeroAddress, []byte("gateway")),
		TssAuthority:    common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8"),
		HomeChainID:     7565164,
		TotalMinted:     3,
		MintSequence:    2,
		SupportedChains: []uint64{1, 56},
	}
	data, err := cfg.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, ProgramConfigBaseSize+16)
	assert.Equal(t, KindProgramConfig, AccountKind(data))

	var decoded ProgramConfig
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, cfg, decoded)
	assert.True(t, decoded.SupportsChain(56))
	assert.False(t, decoded.SupportsChain(137))
}

func TestProgramConfigRejectsTooManyChains(t *testing.T) {
	cfg := ProgramConfig{SupportedChains: make([]uint64, MaxSupportedChains+1)}
	_, err := cfg.MarshalBinary()
	assert.ErrorIs(t, err, ErrFieldTooLong)
}

func TestNftRecordFitsCapacity(t *testing.T) {
	rec := NftRecord{
		URI:    string(make([]byte, MaxURILength)),
		Name:   string(make([]byte, MaxNameLength)),
		Symbol: string(make([]byte, MaxSymbolLength)),
	}
	data, err := rec.MarshalBinary()
	require.NoError(t, err)
	assert.Len(t, data, NftRecordMaxSize)

	rec.Symbol = "TOOLONGSYMBOL"
	_, err = rec.MarshalBinary()
	assert.ErrorIs(t, err, ErrFieldTooLong)
}

func TestDecodeRejectsWrongKind(t *testing.T) {
	transfer := OutboundTransfer{Recipient: make([]byte, 20), Nonce: 1}
	data, err := transfer.MarshalBinary()
	require.NoError(t, err)

	var rec NftRecord
	assert.ErrorIs(t, rec.UnmarshalBinary(data), ErrWrongDiscriminator)

	var receipt InboundReceipt
	assert.ErrorIs(t, receipt.UnmarshalBinary(data), ErrWrongDiscriminator)
}

func TestDecodeRejectsTruncatedData(t *testing.T) {
	receipt := InboundReceipt{OriginTxHash: []byte{1, 2, 3}, OriginalOwner: make([]byte, 20)}
	data, err := receipt.MarshalBinary()
	require.NoError(t, err)

	var decoded InboundReceipt
	assert.ErrorIs(t, decoded.UnmarshalBinary(data[:len(data)-1]), ErrShortBuffer)
	assert.ErrorIs(t, decoded.UnmarshalBinary(append(data, 0)), ErrTrailingBytes)
	require.NoError(t, decoded.UnmarshalBinary(data))
	assert.Equal(t, receipt, decoded)
}

func TestAccountKindUnknown(t *testing.T) {
	assert.Equal(t, "unknown", AccountKind([]byte{1, 2}))
	assert.Equal(t, "unknown", AccountKind(make([]byte, 16)))
}
