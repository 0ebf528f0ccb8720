// Package ledger stores bridge accounts at deterministically derived
// addresses. Every entity is located by re-deriving its address from the
// seeds that identify it; nothing holds a handle to another account.
package ledger

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/sha3"
)

// AddressLength is the byte length of a host-chain address.
const AddressLength = 32

const deriveDomain = "universal-nft/derived-address"

// Address identifies an account or a host-chain principal.
type Address [AddressLength]byte

// ZeroAddress is never a valid account.
var ZeroAddress Address

var ErrInvalidAddress = errors.New("invalid ledger address")

// Derive computes the address for the entity identified by seeds under
// programID. It is a pure function: the same seeds always map to the same
// address. Each seed is length-prefixed so ("ab","c") and ("a","bc") differ.
func Derive(programID Address, seeds ...[]byte) Address {
	h := sha3.New256()
	var lenBuf [4]byte
	for _, seed := range seeds {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(seed)))
		h.Write(lenBuf[:])
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(deriveDomain))

	var out Address
	copy(out[:], h.Sum(nil))
	return out
}

// U64Seed encodes a counter or nonce the way seeds carry integers.
func U64Seed(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// AddressFromBytes copies a 32-byte slice into an Address.
func AddressFromBytes(b []byte) (Address, error) {
	var a Address
	if len(b) != AddressLength {
		return a, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidAddress, AddressLength, len(b))
	}
	copy(a[:], b)
	return a, nil
}

// ParseAddress decodes the base58 text form.
func ParseAddress(s string) (Address, error) {
	b, err := base58.Decode(s)
	if err != nil {
		return ZeroAddress, fmt.Errorf("%w: %v", ErrInvalidAddress, err)
	}
	return AddressFromBytes(b)
}

func (a Address) String() string {
	return base58.Encode(a[:])
}

func (a Address) Bytes() []byte {
	return append([]byte(nil), a[:]...)
}

func (a Address) IsZero() bool {
	return a == ZeroAddress
}

func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *Address) UnmarshalText(text []byte) error {
	parsed, err := ParseAddress(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
