package types

// InitializeRequest POST /api/program/initialize. The caller becomes the
// program authority.
type InitializeRequest struct {
	Gateway         string   `json:"gateway" binding:"required"`       // base58
	TssAuthority    string   `json:"tss_authority" binding:"required"` // 0x EVM address
	HomeChainID     uint64   `json:"home_chain_id" binding:"required"`
	SupportedChains []uint64 `json:"supported_chains"`
}

// MintRequest POST /api/nfts
type MintRequest struct {
	URI               string `json:"uri" binding:"required"`
	Name              string `json:"name" binding:"required"`
	Symbol            string `json:"symbol"`
	CrossChainEnabled bool   `json:"cross_chain_enabled"`
	Recipient         string `json:"recipient" binding:"required"` // base58
}

// TransferRequest POST /api/nfts/:mint/transfers
type TransferRequest struct {
	DestinationChainID uint64 `json:"destination_chain_id" binding:"required"`
	Recipient          string `json:"recipient" binding:"required"` // native format of the destination chain
	Nonce              uint64 `json:"nonce" binding:"required"`
}

// ConfirmRequest POST /api/nfts/:mint/transfers/:nonce/confirm
type ConfirmRequest struct {
	Signature string `json:"signature" binding:"required"` // 0x hex, 65 bytes
}

// ReceiveRequest POST /api/inbound, submitted by the relay.
type ReceiveRequest struct {
	OriginChainID uint64 `json:"origin_chain_id" binding:"required"`
	OriginTxHash  string `json:"origin_tx_hash" binding:"required"` // 0x hex
	URI           string `json:"uri"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	OriginalOwner string `json:"original_owner" binding:"required"` // native format of the origin chain
	Recipient     string `json:"recipient" binding:"required"`      // base58
	Mint          string `json:"mint"`                              // base58, set for returning NFTs
	Signature     string `json:"signature" binding:"required"`      // 0x hex, 65 bytes
	Nonce         uint64 `json:"nonce"`
}

// PauseRequest POST /api/program/pause
type PauseRequest struct {
	Paused bool `json:"paused"`
}

// AddChainRequest POST /api/program/chains
type AddChainRequest struct {
	ChainID uint64 `json:"chain_id" binding:"required"`
}
