package models

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"golang.org/x/crypto/sha3"
)

// Account kinds, also used as the discriminator seed.
const (
	KindProgramConfig    = "ProgramConfig"
	KindNftRecord        = "NftRecord"
	KindOutboundTransfer = "OutboundTransfer"
	KindInboundReceipt   = "InboundReceipt"
)

// Field caps.
const (
	MaxURILength          = 200
	MaxNameLength         = 32
	MaxSymbolLength       = 10
	MaxOriginTxHashLength = 64
	MaxOwnerLength        = 64
	MaxRecipientLength    = 64
	MaxSupportedChains    = 16
	SignatureLength       = 65
)

const discriminatorLength = 8

var (
	ErrShortBuffer        = errors.New("account data truncated")
	ErrWrongDiscriminator = errors.New("account discriminator mismatch")
	ErrTrailingBytes      = errors.New("trailing bytes after account data")
	ErrFieldTooLong       = errors.New("field exceeds capacity")
)

var discriminators = map[string][discriminatorLength]byte{}

func init() {
	for _, kind := range []string{KindProgramConfig, KindNftRecord, KindOutboundTransfer, KindInboundReceipt} {
		discriminators[kind] = computeDiscriminator(kind)
	}
}

func computeDiscriminator(kind string) [discriminatorLength]byte {
	sum := sha3.Sum256([]byte("account:" + kind))
	var d [discriminatorLength]byte
	copy(d[:], sum[:discriminatorLength])
	return d
}

// AccountKind identifies the entity type of raw account data, or "unknown".
func AccountKind(data []byte) string {
	if len(data) < discriminatorLength {
		return "unknown"
	}
	for kind, d := range discriminators {
		if string(data[:discriminatorLength]) == string(d[:]) {
			return kind
		}
	}
	return "unknown"
}

func appendHeader(b []byte, kind string) []byte {
	d := discriminators[kind]
	return append(b, d[:]...)
}

func appendU64le(b []byte, v uint64) []byte {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendU32le(b []byte, v uint32) []byte {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	return append(b, tmp[:]...)
}

func appendBool(b []byte, v bool) []byte {
	if v {
		return append(b, 1)
	}
	return append(b, 0)
}

func appendBytes(b []byte, v []byte, max int) ([]byte, error) {
	if len(v) > max {
		return nil, fmt.Errorf("%w: %d > %d", ErrFieldTooLong, len(v), max)
	}
	b = appendU32le(b, uint32(len(v)))
	return append(b, v...), nil
}

func appendString(b []byte, s string, max int) ([]byte, error) {
	return appendBytes(b, []byte(s), max)
}

func readHeader(b []byte, off *int, kind string) error {
	raw, err := readFixed(b, off, discriminatorLength)
	if err != nil {
		return err
	}
	d := discriminators[kind]
	if string(raw) != string(d[:]) {
		return fmt.Errorf("%w: want %s", ErrWrongDiscriminator, kind)
	}
	return nil
}

func readFixed(b []byte, off *int, n int) ([]byte, error) {
	if *off < 0 || len(b)-*off < n {
		return nil, ErrShortBuffer
	}
	v := b[*off : *off+n]
	*off += n
	return v, nil
}

func readU64le(b []byte, off *int) (uint64, error) {
	raw, err := readFixed(b, off, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(raw), nil
}

func readU32le(b []byte, off *int) (uint32, error) {
	raw, err := readFixed(b, off, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(raw), nil
}

func readI64le(b []byte, off *int) (int64, error) {
	v, err := readU64le(b, off)
	return int64(v), err
}

func readU8(b []byte, off *int) (uint8, error) {
	raw, err := readFixed(b, off, 1)
	if err != nil {
		return 0, err
	}
	return raw[0], nil
}

func readBool(b []byte, off *int) (bool, error) {
	v, err := readU8(b, off)
	return v != 0, err
}

func readAddress(b []byte, off *int) (ledger.Address, error) {
	var a ledger.Address
	raw, err := readFixed(b, off, ledger.AddressLength)
	if err != nil {
		return a, err
	}
	copy(a[:], raw)
	return a, nil
}

func readBytes(b []byte, off *int, max int) ([]byte, error) {
	size, err := readU32le(b, off)
	if err != nil {
		return nil, err
	}
	n := int(size)
	if n > max {
		return nil, fmt.Errorf("%w: %d > %d", ErrFieldTooLong, n, max)
	}
	v, err := readFixed(b, off, n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), v...), nil
}

func readString(b []byte, off *int, max int) (string, error) {
	v, err := readBytes(b, off, max)
	return string(v), err
}

func checkConsumed(b []byte, off int) error {
	if off != len(b) {
		return ErrTrailingBytes
	}
	return nil
}
