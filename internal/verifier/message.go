package verifier

import (
	"encoding/binary"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

const (
	inboundDomain      = "universal-nft/inbound/v1"
	confirmationDomain = "universal-nft/confirm/v1"
)

// InboundMessage fields of a relay-delivered transfer into the home chain.
// ReturningMint is zero when the NFT is new to the home chain.
type InboundMessage struct {
	DestinationChainID uint64
	OriginChainID      uint64
	OriginTxHash       []byte
	Nonce              uint64
	Recipient          [32]byte
	ReturningMint      [32]byte
	OriginalOwner      []byte
	URI                string
	Name               string
	Symbol             string
}

// Hash keccak256 over the canonical encoding. Integers are little-endian
// u64, variable fields carry a u32 little-endian length prefix.
func (m *InboundMessage) Hash() common.Hash {
	return crypto.Keccak256Hash(m.Encode())
}

func (m *InboundMessage) Encode() []byte {
	b := make([]byte, 0, 256)
	b = append(b, inboundDomain...)
	b = putU64(b, m.DestinationChainID)
	b = putU64(b, m.OriginChainID)
	b = putBytes(b, m.OriginTxHash)
	b = putU64(b, m.Nonce)
	b = append(b, m.Recipient[:]...)
	b = append(b, m.ReturningMint[:]...)
	b = putBytes(b, m.OriginalOwner)
	b = putBytes(b, []byte(m.URI))
	b = putBytes(b, []byte(m.Name))
	b = putBytes(b, []byte(m.Symbol))
	return b
}

// ConfirmationMessage relay attestation that an outbound transfer landed.
type ConfirmationMessage struct {
	HomeChainID        uint64
	Mint               [32]byte
	Nonce              uint64
	DestinationChainID uint64
	Recipient          []byte
}

func (m *ConfirmationMessage) Hash() common.Hash {
	return crypto.Keccak256Hash(m.Encode())
}

func (m *ConfirmationMessage) Encode() []byte {
	b := make([]byte, 0, 128)
	b = append(b, confirmationDomain...)
	b = putU64(b, m.HomeChainID)
	b = append(b, m.Mint[:]...)
	b = putU64(b, m.Nonce)
	b = putU64(b, m.DestinationChainID)
	b = putBytes(b, m.Recipient)
	return b
}

func putU64(b []byte, v uint64) []byte {
	return binary.LittleEndian.AppendUint64(b, v)
}

func putBytes(b []byte, v []byte) []byte {
	b = binary.LittleEndian.AppendUint32(b, uint32(len(v)))
	return append(b, v...)
}
