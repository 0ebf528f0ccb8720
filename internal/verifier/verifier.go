// Package verifier checks relay authority signatures. Messages are hashed
// from a fixed field order so signer and verifier agree byte for byte.
package verifier

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// SignatureLength r || s || v
const SignatureLength = crypto.SignatureLength

// Recover returns the address that produced sig over hash. v may be 0/1 or
// 27/28; high-s signatures are rejected.
func Recover(hash common.Hash, sig []byte) (common.Address, error) {
	if len(sig) != SignatureLength {
		return common.Address{}, fmt.Errorf("signature must be %d bytes, got %d", SignatureLength, len(sig))
	}
	normalized := make([]byte, SignatureLength)
	copy(normalized, sig)
	if normalized[64] >= 27 {
		normalized[64] -= 27
	}
	r := new(big.Int).SetBytes(normalized[:32])
	s := new(big.Int).SetBytes(normalized[32:64])
	if !crypto.ValidateSignatureValues(normalized[64], r, s, true) {
		return common.Address{}, fmt.Errorf("signature values out of range")
	}
	pub, err := crypto.SigToPub(hash.Bytes(), normalized)
	if err != nil {
		return common.Address{}, fmt.Errorf("recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub), nil
}

// Verify reports whether sig over hash was produced by expected. It never
// panics; malformed input yields false.
func Verify(hash common.Hash, sig []byte, expected common.Address) bool {
	if expected == (common.Address{}) {
		return false
	}
	recovered, err := Recover(hash, sig)
	if err != nil {
		return false
	}
	return recovered == expected
}

// Signer produces authority signatures. Used by the relay simulator and
// tests; the bridge itself only verifies.
type Signer struct {
	key *ecdsa.PrivateKey
}

func NewSigner(key *ecdsa.PrivateKey) *Signer {
	return &Signer{key: key}
}

// SignerFromHex loads a secp256k1 key from hex, with or without 0x.
func SignerFromHex(hexKey string) (*Signer, error) {
	if len(hexKey) > 1 && hexKey[:2] == "0x" {
		hexKey = hexKey[2:]
	}
	key, err := crypto.HexToECDSA(hexKey)
	if err != nil {
		return nil, fmt.Errorf("parse signer key: %w", err)
	}
	return &Signer{key: key}, nil
}

func GenerateSigner() (*Signer, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return nil, err
	}
	return &Signer{key: key}, nil
}

func (s *Signer) Address() common.Address {
	return crypto.PubkeyToAddress(s.key.PublicKey)
}

// Sign returns a 65-byte signature with v in {27, 28}.
func (s *Signer) Sign(hash common.Hash) ([]byte, error) {
	sig, err := crypto.Sign(hash.Bytes(), s.key)
	if err != nil {
		return nil, err
	}
	sig[64] += 27
	return sig, nil
}
