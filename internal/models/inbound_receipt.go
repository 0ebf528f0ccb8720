package models

import (
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
)

const InboundReceiptMaxSize = discriminatorLength +
	8 + // origin chain
	4 + MaxOriginTxHashLength +
	8 + // nonce
	2*ledger.AddressLength + // mint, recipient
	4 + MaxOwnerLength +
	SignatureLength +
	8 // processed at

// InboundReceipt audit record of one applied inbound message. Its existence
// at the address derived from (origin tx hash, nonce) is the replay guard.
type InboundReceipt struct {
	OriginChainID uint64
	OriginTxHash  []byte
	Nonce         uint64
	Mint          ledger.Address
	Recipient     ledger.Address
	OriginalOwner []byte
	Signature     [SignatureLength]byte
	ProcessedAt   int64
}

func (r *InboundReceipt) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, InboundReceiptMaxSize)
	b = appendHeader(b, KindInboundReceipt)
	b = appendU64le(b, r.OriginChainID)
	var err error
	if b, err = appendBytes(b, r.OriginTxHash, MaxOriginTxHashLength); err != nil {
		return nil, err
	}
	b = appendU64le(b, r.Nonce)
	b = append(b, r.Mint[:]...)
	b = append(b, r.Recipient[:]...)
	if b, err = appendBytes(b, r.OriginalOwner, MaxOwnerLength); err != nil {
		return nil, err
	}
	b = append(b, r.Signature[:]...)
	b = appendU64le(b, uint64(r.ProcessedAt))
	return b, nil
}

func (r *InboundReceipt) UnmarshalBinary(data []byte) error {
	off := 0
	if err := readHeader(data, &off, KindInboundReceipt); err != nil {
		return err
	}
	var err error
	if r.OriginChainID, err = readU64le(data, &off); err != nil {
		return err
	}
	if r.OriginTxHash, err = readBytes(data, &off, MaxOriginTxHashLength); err != nil {
		return err
	}
	if r.Nonce, err = readU64le(data, &off); err != nil {
		return err
	}
	if r.Mint, err = readAddress(data, &off); err != nil {
		return err
	}
	if r.Recipient, err = readAddress(data, &off); err != nil {
		return err
	}
	if r.OriginalOwner, err = readBytes(data, &off, MaxOwnerLength); err != nil {
		return err
	}
	sig, err := readFixed(data, &off, SignatureLength)
	if err != nil {
		return err
	}
	copy(r.Signature[:], sig)
	if r.ProcessedAt, err = readI64le(data, &off); err != nil {
		return err
	}
	return checkConsumed(data, off)
}
