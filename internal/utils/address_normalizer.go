package utils

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/mr-tron/base58"
)

// IsTronAddress base58 form, "T" followed by 33 characters
func IsTronAddress(address string) bool {
	return address != "" && strings.HasPrefix(address, "T") && len(address) == 34
}

// IsEvmAddress 0x-prefixed or bare 40 hex chars
func IsEvmAddress(address string) bool {
	return common.IsHexAddress(address)
}

// DecodeAddress parses the text form used on chainID into raw bytes and
// validates them. EVM chains take hex, Tron takes base58check ("T...") or
// hex with the 41 prefix, Solana takes base58.
func (r *ChainRegistry) DecodeAddress(chainID uint64, text string) ([]byte, error) {
	info, ok := r.Get(chainID)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}
	raw, err := decodeForFamily(info.Family, strings.TrimSpace(text))
	if err != nil {
		return nil, err
	}
	if err := info.Family.ValidateAddress(raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// FormatAddress renders raw bytes in the chain's native text form.
func (r *ChainRegistry) FormatAddress(chainID uint64, raw []byte) string {
	info, ok := r.Get(chainID)
	if !ok {
		return "0x" + hex.EncodeToString(raw)
	}
	switch info.Family {
	case FamilyEVM:
		if len(raw) == common.AddressLength {
			return common.BytesToAddress(raw).Hex()
		}
	case FamilyTron:
		if len(raw) == 21 {
			return tronBase58Check(raw)
		}
	case FamilySolana:
		return base58.Encode(raw)
	}
	return "0x" + hex.EncodeToString(raw)
}

func decodeForFamily(f ChainFamily, text string) ([]byte, error) {
	switch f {
	case FamilyEVM:
		if !IsEvmAddress(text) {
			return decodeHex(text)
		}
		return common.HexToAddress(text).Bytes(), nil
	case FamilyTron:
		if IsTronAddress(text) {
			return TronToBytes(text)
		}
		return decodeHex(text)
	case FamilySolana:
		raw, err := base58.Decode(text)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidAddressFormat, err)
		}
		return raw, nil
	default:
		return nil, fmt.Errorf("%w: family %d", ErrUnknownChain, f)
	}
}

func decodeHex(text string) ([]byte, error) {
	raw, err := hex.DecodeString(strings.TrimPrefix(strings.TrimPrefix(text, "0x"), "0X"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddressFormat, err)
	}
	return raw, nil
}

// TronToBytes decodes a base58check Tron address into its 21-byte form.
func TronToBytes(tronAddress string) ([]byte, error) {
	decoded, err := base58.Decode(tronAddress)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAddressFormat, err)
	}
	if len(decoded) != 25 {
		return nil, fmt.Errorf("%w: tron address decodes to %d bytes", ErrInvalidAddressLength, len(decoded))
	}
	payload, checksum := decoded[:21], decoded[21:]
	if !bytes.Equal(tronChecksum(payload), checksum) {
		return nil, fmt.Errorf("%w: tron checksum mismatch", ErrInvalidAddressFormat)
	}
	return payload, nil
}

// EvmToTronAddress maps a 20-byte EVM address to the Tron text form.
func EvmToTronAddress(evmAddress string) (string, error) {
	if !IsEvmAddress(evmAddress) {
		return "", fmt.Errorf("%w: %s", ErrInvalidAddressFormat, evmAddress)
	}
	raw := append([]byte{tronAddressPrefix}, common.HexToAddress(evmAddress).Bytes()...)
	return tronBase58Check(raw), nil
}

func tronBase58Check(raw []byte) string {
	return base58.Encode(append(append([]byte(nil), raw...), tronChecksum(raw)...))
}

func tronChecksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:4]
}
