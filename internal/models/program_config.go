package models

import (
	"fmt"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/ethereum/go-ethereum/common"
)

// ProgramConfigBaseSize is the encoded size with an empty chain list.
const ProgramConfigBaseSize = discriminatorLength + // discriminator
	ledger.AddressLength + // authority
	ledger.AddressLength + // gateway
	common.AddressLength + // tss authority
	8 + // home chain id
	1 + // paused
	8*5 + // counters and initialized_at
	4 // chain list length

// ProgramConfigMaxSize is the capacity of the config account.
const ProgramConfigMaxSize = ProgramConfigBaseSize + 8*MaxSupportedChains

// ProgramConfig is the singleton bridge configuration.
type ProgramConfig struct {
	Authority       ledger.Address
	Gateway         ledger.Address
	TssAuthority    common.Address
	HomeChainID     uint64
	Paused          bool
	TotalMinted     uint64 // local mints plus new inbound mints
	MintSequence    uint64 // seeds local mint addresses
	TransferCount   uint64
	ReceiveCount    uint64
	InitializedAt   int64
	SupportedChains []uint64
}

// SupportsChain reports whether outbound transfers to chainID are enabled.
func (c *ProgramConfig) SupportsChain(chainID uint64) bool {
	for _, id := range c.SupportedChains {
		if id == chainID {
			return true
		}
	}
	return false
}

func (c *ProgramConfig) MarshalBinary() ([]byte, error) {
	if len(c.SupportedChains) > MaxSupportedChains {
		return nil, fmt.Errorf("%w: %d supported chains", ErrFieldTooLong, len(c.SupportedChains))
	}
	b := make([]byte, 0, ProgramConfigBaseSize+8*len(c.SupportedChains))
	b = appendHeader(b, KindProgramConfig)
	b = append(b, c.Authority[:]...)
	b = append(b, c.Gateway[:]...)
	b = append(b, c.TssAuthority[:]...)
	b = appendU64le(b, c.HomeChainID)
	b = appendBool(b, c.Paused)
	b = appendU64le(b, c.TotalMinted)
	b = appendU64le(b, c.MintSequence)
	b = appendU64le(b, c.TransferCount)
	b = appendU64le(b, c.ReceiveCount)
	b = appendU64le(b, uint64(c.InitializedAt))
	b = appendU32le(b, uint32(len(c.SupportedChains)))
	for _, id := range c.SupportedChains {
		b = appendU64le(b, id)
	}
	return b, nil
}

func (c *ProgramConfig) UnmarshalBinary(data []byte) error {
	off := 0
	if err := readHeader(data, &off, KindProgramConfig); err != nil {
		return err
	}
	var err error
	if c.Authority, err = readAddress(data, &off); err != nil {
		return err
	}
	if c.Gateway, err = readAddress(data, &off); err != nil {
		return err
	}
	tss, err := readFixed(data, &off, common.AddressLength)
	if err != nil {
		return err
	}
	c.TssAuthority = common.BytesToAddress(tss)
	if c.HomeChainID, err = readU64le(data, &off); err != nil {
		return err
	}
	if c.Paused, err = readBool(data, &off); err != nil {
		return err
	}
	for _, dst := range []*uint64{&c.TotalMinted, &c.MintSequence, &c.TransferCount, &c.ReceiveCount} {
		if *dst, err = readU64le(data, &off); err != nil {
			return err
		}
	}
	if c.InitializedAt, err = readI64le(data, &off); err != nil {
		return err
	}
	count, err := readU32le(data, &off)
	if err != nil {
		return err
	}
	n := int(count)
	if n > MaxSupportedChains {
		return fmt.Errorf("%w: %d supported chains", ErrFieldTooLong, n)
	}
	c.SupportedChains = make([]uint64, 0, n)
	for i := 0; i < n; i++ {
		id, err := readU64le(data, &off)
		if err != nil {
			return err
		}
		c.SupportedChains = append(c.SupportedChains, id)
	}
	return checkConsumed(data, off)
}
