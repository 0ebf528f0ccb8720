package utils

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ChainFamily groups chains that share an address format.
type ChainFamily uint8

const (
	FamilyEVM    ChainFamily = iota + 1 // 20-byte account addresses
	FamilySolana                        // 32-byte public keys, the host family
	FamilyTron                          // 21 bytes, 0x41 network prefix
)

const tronAddressPrefix = 0x41

var (
	ErrUnknownChain         = errors.New("unknown chain")
	ErrInvalidAddressLength = errors.New("invalid address length")
	ErrInvalidAddressFormat = errors.New("invalid address format")
	ErrZeroAddress          = errors.New("zero address")
)

func (f ChainFamily) String() string {
	switch f {
	case FamilyEVM:
		return "evm"
	case FamilySolana:
		return "solana"
	case FamilyTron:
		return "tron"
	default:
		return "unknown"
	}
}

// AddressLength number of bytes a recipient on this family must have.
func (f ChainFamily) AddressLength() int {
	switch f {
	case FamilyEVM:
		return 20
	case FamilySolana:
		return 32
	case FamilyTron:
		return 21
	default:
		return 0
	}
}

// ValidateAddress checks raw recipient bytes against the family's rules.
func (f ChainFamily) ValidateAddress(addr []byte) error {
	want := f.AddressLength()
	if want == 0 {
		return fmt.Errorf("%w: family %d", ErrUnknownChain, f)
	}
	if len(addr) != want {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrInvalidAddressLength, f, want, len(addr))
	}
	if f == FamilyTron && addr[0] != tronAddressPrefix {
		return fmt.Errorf("%w: tron address must start with 0x41", ErrInvalidAddressFormat)
	}
	payload := addr
	if f == FamilyTron {
		payload = addr[1:]
	}
	for _, b := range payload {
		if b != 0 {
			return nil
		}
	}
	return ErrZeroAddress
}

// ChainInfo one chain the bridge can talk to
type ChainInfo struct {
	ChainID     uint64      `json:"chain_id" yaml:"chainId"`
	Name        string      `json:"name" yaml:"name"`
	Symbol      string      `json:"symbol" yaml:"symbol"`
	Family      ChainFamily `json:"family" yaml:"-"`
	Testnet     bool        `json:"testnet" yaml:"testnet"`
	ExplorerURL string      `json:"explorer_url" yaml:"explorerUrl"`
}

// ChainRegistry chain id to address rules
type ChainRegistry struct {
	mu   sync.RWMutex
	byID map[uint64]*ChainInfo
}

// SolanaChainID is the ZetaChain-assigned id of Solana mainnet.
const SolanaChainID uint64 = 7565164

// DefaultChains chains known without configuration.
func DefaultChains() []*ChainInfo {
	return []*ChainInfo{
		{ChainID: 1, Name: "Ethereum", Symbol: "ETH", Family: FamilyEVM, ExplorerURL: "https://etherscan.io"},
		{ChainID: 11155111, Name: "Sepolia", Symbol: "ETH", Family: FamilyEVM, Testnet: true, ExplorerURL: "https://sepolia.etherscan.io"},
		{ChainID: 56, Name: "BSC", Symbol: "BNB", Family: FamilyEVM, ExplorerURL: "https://bscscan.com"},
		{ChainID: 97, Name: "BSC Testnet", Symbol: "tBNB", Family: FamilyEVM, Testnet: true, ExplorerURL: "https://testnet.bscscan.com"},
		{ChainID: 137, Name: "Polygon", Symbol: "MATIC", Family: FamilyEVM, ExplorerURL: "https://polygonscan.com"},
		{ChainID: 8453, Name: "Base", Symbol: "ETH", Family: FamilyEVM, ExplorerURL: "https://basescan.org"},
		{ChainID: 42161, Name: "Arbitrum", Symbol: "ETH", Family: FamilyEVM, ExplorerURL: "https://arbiscan.io"},
		{ChainID: 7000, Name: "ZetaChain", Symbol: "ZETA", Family: FamilyEVM, ExplorerURL: "https://explorer.zetachain.com"},
		{ChainID: 7001, Name: "ZetaChain Athens", Symbol: "aZETA", Family: FamilyEVM, Testnet: true, ExplorerURL: "https://athens.explorer.zetachain.com"},
		{ChainID: 728126428, Name: "Tron", Symbol: "TRX", Family: FamilyTron, ExplorerURL: "https://tronscan.org"},
		{ChainID: SolanaChainID, Name: "Solana", Symbol: "SOL", Family: FamilySolana, ExplorerURL: "https://explorer.solana.com"},
		{ChainID: 901, Name: "Solana Devnet", Symbol: "SOL", Family: FamilySolana, Testnet: true, ExplorerURL: "https://explorer.solana.com/?cluster=devnet"},
	}
}

// GlobalChainRegistry registry with the default chains
var GlobalChainRegistry = NewChainRegistry(DefaultChains()...)

func NewChainRegistry(chains ...*ChainInfo) *ChainRegistry {
	r := &ChainRegistry{byID: make(map[uint64]*ChainInfo, len(chains))}
	for _, chain := range chains {
		r.byID[chain.ChainID] = chain
	}
	return r
}

// Register adds or replaces a chain.
func (r *ChainRegistry) Register(info *ChainInfo) error {
	if info == nil || info.ChainID == 0 {
		return fmt.Errorf("chain id required")
	}
	if info.Family.AddressLength() == 0 {
		return fmt.Errorf("%w: chain %d has no address family", ErrUnknownChain, info.ChainID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[info.ChainID] = info
	return nil
}

// Get looks a chain up by id
func (r *ChainRegistry) Get(chainID uint64) (*ChainInfo, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	info, ok := r.byID[chainID]
	return info, ok
}

// ValidateRecipient checks recipient bytes for chainID.
func (r *ChainRegistry) ValidateRecipient(chainID uint64, recipient []byte) error {
	info, ok := r.Get(chainID)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownChain, chainID)
	}
	return info.Family.ValidateAddress(recipient)
}

// GetAllChains sorted by chain id
func (r *ChainRegistry) GetAllChains() []*ChainInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()
	chains := make([]*ChainInfo, 0, len(r.byID))
	for _, info := range r.byID {
		chains = append(chains, info)
	}
	sort.Slice(chains, func(i, j int) bool { return chains[i].ChainID < chains[j].ChainID })
	return chains
}

func (r *ChainRegistry) IsEVMCompatible(chainID uint64) bool {
	info, ok := r.Get(chainID)
	return ok && info.Family == FamilyEVM
}

// ParseChainFamily parses the config spelling of a family.
func ParseChainFamily(s string) (ChainFamily, error) {
	switch s {
	case "evm":
		return FamilyEVM, nil
	case "solana":
		return FamilySolana, nil
	case "tron":
		return FamilyTron, nil
	default:
		return 0, fmt.Errorf("%w: family %q", ErrUnknownChain, s)
	}
}
