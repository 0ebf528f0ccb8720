package models

import (
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
)

// NftRecordMaxSize is the capacity of an NFT account.
const NftRecordMaxSize = discriminatorLength +
	3*ledger.AddressLength + // mint, original owner, current owner
	4 + MaxURILength +
	4 + MaxNameLength +
	4 + MaxSymbolLength +
	1 + 1 + // cross-chain enabled, locked
	8 + // origin chain id
	8 + // last outbound nonce
	8 // created at

// NftRecord ownership and lock state of one NFT.
type NftRecord struct {
	Mint              ledger.Address
	OriginalOwner     ledger.Address
	CurrentOwner      ledger.Address
	URI               string
	Name              string
	Symbol            string
	CrossChainEnabled bool
	Locked            bool
	OriginChainID     uint64
	LastNonce         uint64 // highest outbound nonce used
	CreatedAt         int64
}

func (r *NftRecord) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, NftRecordMaxSize)
	b = appendHeader(b, KindNftRecord)
	b = append(b, r.Mint[:]...)
	b = append(b, r.OriginalOwner[:]...)
	b = append(b, r.CurrentOwner[:]...)
	var err error
	if b, err = appendString(b, r.URI, MaxURILength); err != nil {
		return nil, err
	}
	if b, err = appendString(b, r.Name, MaxNameLength); err != nil {
		return nil, err
	}
	if b, err = appendString(b, r.Symbol, MaxSymbolLength); err != nil {
		return nil, err
	}
	b = appendBool(b, r.CrossChainEnabled)
	b = appendBool(b, r.Locked)
	b = appendU64le(b, r.OriginChainID)
	b = appendU64le(b, r.LastNonce)
	b = appendU64le(b, uint64(r.CreatedAt))
	return b, nil
}

func (r *NftRecord) UnmarshalBinary(data []byte) error {
	off := 0
	if err := readHeader(data, &off, KindNftRecord); err != nil {
		return err
	}
	var err error
	for _, dst := range []*ledger.Address{&r.Mint, &r.OriginalOwner, &r.CurrentOwner} {
		if *dst, err = readAddress(data, &off); err != nil {
			return err
		}
	}
	if r.URI, err = readString(data, &off, MaxURILength); err != nil {
		return err
	}
	if r.Name, err = readString(data, &off, MaxNameLength); err != nil {
		return err
	}
	if r.Symbol, err = readString(data, &off, MaxSymbolLength); err != nil {
		return err
	}
	if r.CrossChainEnabled, err = readBool(data, &off); err != nil {
		return err
	}
	if r.Locked, err = readBool(data, &off); err != nil {
		return err
	}
	if r.OriginChainID, err = readU64le(data, &off); err != nil {
		return err
	}
	if r.LastNonce, err = readU64le(data, &off); err != nil {
		return err
	}
	if r.CreatedAt, err = readI64le(data, &off); err != nil {
		return err
	}
	return checkConsumed(data, off)
}
