package models

import (
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
)

const OutboundTransferMaxSize = discriminatorLength +
	2*ledger.AddressLength + // mint, sender
	8 + // destination chain
	4 + MaxRecipientLength +
	8 + // nonce
	1 + // status
	8 + 8 // created, updated

// OutboundTransfer records one send of a local NFT to another chain.
// Only Status and UpdatedAt change after creation.
type OutboundTransfer struct {
	Mint               ledger.Address
	Sender             ledger.Address
	DestinationChainID uint64
	Recipient          []byte
	Nonce              uint64
	Status             TransferStatus
	CreatedAt          int64
	UpdatedAt          int64
}

func (t *OutboundTransfer) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, OutboundTransferMaxSize)
	b = appendHeader(b, KindOutboundTransfer)
	b = append(b, t.Mint[:]...)
	b = append(b, t.Sender[:]...)
	b = appendU64le(b, t.DestinationChainID)
	var err error
	if b, err = appendBytes(b, t.Recipient, MaxRecipientLength); err != nil {
		return nil, err
	}
	b = appendU64le(b, t.Nonce)
	b = append(b, byte(t.Status))
	b = appendU64le(b, uint64(t.CreatedAt))
	b = appendU64le(b, uint64(t.UpdatedAt))
	return b, nil
}

func (t *OutboundTransfer) UnmarshalBinary(data []byte) error {
	off := 0
	if err := readHeader(data, &off, KindOutboundTransfer); err != nil {
		return err
	}
	var err error
	if t.Mint, err = readAddress(data, &off); err != nil {
		return err
	}
	if t.Sender, err = readAddress(data, &off); err != nil {
		return err
	}
	if t.DestinationChainID, err = readU64le(data, &off); err != nil {
		return err
	}
	if t.Recipient, err = readBytes(data, &off, MaxRecipientLength); err != nil {
		return err
	}
	if t.Nonce, err = readU64le(data, &off); err != nil {
		return err
	}
	status, err := readU8(data, &off)
	if err != nil {
		return err
	}
	t.Status = TransferStatus(status)
	if t.CreatedAt, err = readI64le(data, &off); err != nil {
		return err
	}
	if t.UpdatedAt, err = readI64le(data, &off); err != nil {
		return err
	}
	return checkConsumed(data, off)
}
