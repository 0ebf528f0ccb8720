package dto

import (
	"encoding/hex"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/models"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/utils"
)

// ProgramConfigResponse GET /api/program/config
type ProgramConfigResponse struct {
	Authority       string    `json:"authority"`
	Gateway         string    `json:"gateway"`
	TssAuthority    string    `json:"tss_authority"`
	HomeChainID     uint64    `json:"home_chain_id"`
	Paused          bool      `json:"paused"`
	TotalMinted     uint64    `json:"total_minted"`
	TransferCount   uint64    `json:"transfer_count"`
	ReceiveCount    uint64    `json:"receive_count"`
	SupportedChains []uint64  `json:"supported_chains"`
	InitializedAt   time.Time `json:"initialized_at"`
}

func NewProgramConfigResponse(cfg *models.ProgramConfig) ProgramConfigResponse {
	return ProgramConfigResponse{
		Authority:       cfg.Authority.String(),
		Gateway:         cfg.Gateway.String(),
		TssAuthority:    cfg.TssAuthority.Hex(),
		HomeChainID:     cfg.HomeChainID,
		Paused:          cfg.Paused,
		TotalMinted:     cfg.TotalMinted,
		TransferCount:   cfg.TransferCount,
		ReceiveCount:    cfg.ReceiveCount,
		SupportedChains: cfg.SupportedChains,
		InitializedAt:   time.Unix(cfg.InitializedAt, 0).UTC(),
	}
}

// NftResponse NFT record
type NftResponse struct {
	Mint              string    `json:"mint"`
	OriginalOwner     string    `json:"original_owner"`
	CurrentOwner      string    `json:"current_owner"`
	URI               string    `json:"uri"`
	Name              string    `json:"name"`
	Symbol            string    `json:"symbol"`
	CrossChainEnabled bool      `json:"cross_chain_enabled"`
	Locked            bool      `json:"locked"`
	OriginChainID     uint64    `json:"origin_chain_id"`
	LastNonce         uint64    `json:"last_nonce"`
	CreatedAt         time.Time `json:"created_at"`
}

func NewNftResponse(rec *models.NftRecord) NftResponse {
	return NftResponse{
		Mint:              rec.Mint.String(),
		OriginalOwner:     rec.OriginalOwner.String(),
		CurrentOwner:      rec.CurrentOwner.String(),
		URI:               rec.URI,
		Name:              rec.Name,
		Symbol:            rec.Symbol,
		CrossChainEnabled: rec.CrossChainEnabled,
		Locked:            rec.Locked,
		OriginChainID:     rec.OriginChainID,
		LastNonce:         rec.LastNonce,
		CreatedAt:         time.Unix(rec.CreatedAt, 0).UTC(),
	}
}

// TransferResponse outbound transfer record
type TransferResponse struct {
	Mint               string    `json:"mint"`
	Sender             string    `json:"sender"`
	DestinationChainID uint64    `json:"destination_chain_id"`
	Recipient          string    `json:"recipient"`
	Nonce              uint64    `json:"nonce"`
	Status             string    `json:"status"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func NewTransferResponse(rec *models.OutboundTransfer, registry *utils.ChainRegistry) TransferResponse {
	return TransferResponse{
		Mint:               rec.Mint.String(),
		Sender:             rec.Sender.String(),
		DestinationChainID: rec.DestinationChainID,
		Recipient:          registry.FormatAddress(rec.DestinationChainID, rec.Recipient),
		Nonce:              rec.Nonce,
		Status:             rec.Status.String(),
		CreatedAt:          time.Unix(rec.CreatedAt, 0).UTC(),
		UpdatedAt:          time.Unix(rec.UpdatedAt, 0).UTC(),
	}
}

// ReceiptResponse inbound receipt
type ReceiptResponse struct {
	OriginChainID uint64    `json:"origin_chain_id"`
	OriginTxHash  string    `json:"origin_tx_hash"`
	Nonce         uint64    `json:"nonce"`
	Mint          string    `json:"mint"`
	Recipient     string    `json:"recipient"`
	OriginalOwner string    `json:"original_owner"`
	Signature     string    `json:"signature"`
	ProcessedAt   time.Time `json:"processed_at"`
}

func NewReceiptResponse(rec *models.InboundReceipt, registry *utils.ChainRegistry) ReceiptResponse {
	return ReceiptResponse{
		OriginChainID: rec.OriginChainID,
		OriginTxHash:  "0x" + hex.EncodeToString(rec.OriginTxHash),
		Nonce:         rec.Nonce,
		Mint:          rec.Mint.String(),
		Recipient:     rec.Recipient.String(),
		OriginalOwner: registry.FormatAddress(rec.OriginChainID, rec.OriginalOwner),
		Signature:     "0x" + hex.EncodeToString(rec.Signature[:]),
		ProcessedAt:   time.Unix(rec.ProcessedAt, 0).UTC(),
	}
}

// ReceiveResponse POST /api/inbound
type ReceiveResponse struct {
	Mint    string      `json:"mint"`
	Receipt string      `json:"receipt"`
	NewMint bool        `json:"new_mint"`
	Nft     NftResponse `json:"nft"`
}

// OwnershipResponse GET /api/nfts/:mint/ownership
type OwnershipResponse struct {
	Mint              string `json:"mint"`
	Owner             string `json:"owner"`
	OriginalOwner     string `json:"original_owner"`
	IsOwner           bool   `json:"is_owner"`
	Locked            bool   `json:"locked"`
	CrossChainEnabled bool   `json:"cross_chain_enabled"`
	Transferable      bool   `json:"transferable"`
	OriginChainID     uint64 `json:"origin_chain_id"`
	LastNonce         uint64 `json:"last_nonce"`
}

// ChainResponse registry entry
type ChainResponse struct {
	ChainID     uint64 `json:"chain_id"`
	Name        string `json:"name"`
	Symbol      string `json:"symbol"`
	Family      string `json:"family"`
	AddressSize int    `json:"address_size"`
	Testnet     bool   `json:"testnet"`
	ExplorerURL string `json:"explorer_url,omitempty"`
	Supported   bool   `json:"supported"`
}
