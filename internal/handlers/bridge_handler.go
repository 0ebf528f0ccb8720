package handlers

import (
	"net/http"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/dto"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/services"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BridgeHandler exposes the bridge operations over HTTP. Mutating routes
// behind auth act as the JWT subject.
type BridgeHandler struct {
	bridge *services.BridgeService
	logger *logrus.Logger
}

func NewBridgeHandler(bridge *services.BridgeService, logger *logrus.Logger) *BridgeHandler {
	return &BridgeHandler{bridge: bridge, logger: logger}
}

// InitializeHandler POST /api/program/initialize
func (h *BridgeHandler) InitializeHandler(c *gin.Context) {
	signer, _ := signerFrom(c)
	var req types.InitializeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	gateway, err := ledger.ParseAddress(req.Gateway)
	if err != nil {
		badRequest(c, "invalid gateway address")
		return
	}
	if !common.IsHexAddress(req.TssAuthority) {
		badRequest(c, "invalid tss authority address")
		return
	}

	cfg, err := h.bridge.Initialize(c.Request.Context(), signer, services.InitializeParams{
		Gateway:         gateway,
		TssAuthority:    common.HexToAddress(req.TssAuthority),
		HomeChainID:     req.HomeChainID,
		SupportedChains: req.SupportedChains,
	})
	if err != nil {
		respondWithBridgeError(c, h.logger, "initialize", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "config": dto.NewProgramConfigResponse(cfg)})
}

// GetConfigHandler GET /api/program/config
func (h *BridgeHandler) GetConfigHandler(c *gin.Context) {
	cfg, err := h.bridge.Config(c.Request.Context())
	if err != nil {
		respondWithBridgeError(c, h.logger, "config", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "config": dto.NewProgramConfigResponse(cfg)})
}

// SetPausedHandler POST /api/program/pause
func (h *BridgeHandler) SetPausedHandler(c *gin.Context) {
	signer, _ := signerFrom(c)
	var req types.PauseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.bridge.SetPaused(c.Request.Context(), signer, req.Paused); err != nil {
		respondWithBridgeError(c, h.logger, "set_paused", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "paused": req.Paused})
}

// AddSupportedChainHandler POST /api/program/chains
func (h *BridgeHandler) AddSupportedChainHandler(c *gin.Context) {
	signer, _ := signerFrom(c)
	var req types.AddChainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if err := h.bridge.AddSupportedChain(c.Request.Context(), signer, req.ChainID); err != nil {
		respondWithBridgeError(c, h.logger, "add_supported_chain", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "chain_id": req.ChainID})
}

// MintHandler POST /api/nfts
func (h *BridgeHandler) MintHandler(c *gin.Context) {
	signer, _ := signerFrom(c)
	var req types.MintRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	recipient, err := ledger.ParseAddress(req.Recipient)
	if err != nil {
		respondWithError(c, http.StatusUnprocessableEntity, string(types.ErrInvalidRecipientAddress), "recipient must be a base58 address")
		return
	}

	rec, err := h.bridge.MintNFT(c.Request.Context(), signer, services.MintParams{
		URI:               req.URI,
		Name:              req.Name,
		Symbol:            req.Symbol,
		CrossChainEnabled: req.CrossChainEnabled,
		Recipient:         recipient,
	})
	if err != nil {
		respondWithBridgeError(c, h.logger, "mint_nft", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "nft": dto.NewNftResponse(rec)})
}

// GetNftHandler GET /api/nfts/:mint
func (h *BridgeHandler) GetNftHandler(c *gin.Context) {
	mint, ok := mintParam(c)
	if !ok {
		return
	}
	rec, err := h.bridge.Nft(c.Request.Context(), mint)
	if err != nil {
		respondWithBridgeError(c, h.logger, "get_nft", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "nft": dto.NewNftResponse(rec)})
}

// VerifyOwnershipHandler GET /api/nfts/:mint/ownership?claimant=
func (h *BridgeHandler) VerifyOwnershipHandler(c *gin.Context) {
	mint, ok := mintParam(c)
	if !ok {
		return
	}
	var claimant *ledger.Address
	if text := c.Query("claimant"); text != "" {
		addr, err := ledger.ParseAddress(text)
		if err != nil {
			badRequest(c, "invalid claimant address")
			return
		}
		claimant = &addr
	}

	report, err := h.bridge.VerifyOwnership(c.Request.Context(), mint, claimant)
	if err != nil {
		respondWithBridgeError(c, h.logger, "verify_ownership", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "ownership": dto.OwnershipResponse{
		Mint:              report.Mint.String(),
		Owner:             report.Owner.String(),
		OriginalOwner:     report.OriginalOwner.String(),
		IsOwner:           report.IsOwner,
		Locked:            report.Locked,
		CrossChainEnabled: report.CrossChainEnabled,
		Transferable:      report.Transferable,
		OriginChainID:     report.OriginChainID,
		LastNonce:         report.LastNonce,
	}})
}

// TransferHandler POST /api/nfts/:mint/transfers
func (h *BridgeHandler) TransferHandler(c *gin.Context) {
	signer, _ := signerFrom(c)
	mint, ok := mintParam(c)
	if !ok {
		return
	}
	var req types.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	recipient, err := decodeChainAddress(h.bridge.Registry(), req.DestinationChainID, req.Recipient)
	if err != nil {
		respondWithBridgeError(c, h.logger, "cross_chain_transfer", err)
		return
	}

	rec, err := h.bridge.CrossChainTransfer(c.Request.Context(), signer, services.TransferParams{
		Mint:               mint,
		DestinationChainID: req.DestinationChainID,
		Recipient:          recipient,
		Nonce:              req.Nonce,
	})
	if err != nil {
		respondWithBridgeError(c, h.logger, "cross_chain_transfer", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "transfer": dto.NewTransferResponse(rec, h.bridge.Registry())})
}

// GetTransferHandler GET /api/nfts/:mint/transfers/:nonce
func (h *BridgeHandler) GetTransferHandler(c *gin.Context) {
	mint, ok := mintParam(c)
	if !ok {
		return
	}
	nonce, ok := nonceParam(c)
	if !ok {
		return
	}
	rec, err := h.bridge.Transfer(c.Request.Context(), mint, nonce)
	if err != nil {
		respondWithBridgeError(c, h.logger, "get_transfer", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transfer": dto.NewTransferResponse(rec, h.bridge.Registry())})
}

// ConfirmTransferHandler POST /api/nfts/:mint/transfers/:nonce/confirm
func (h *BridgeHandler) ConfirmTransferHandler(c *gin.Context) {
	mint, ok := mintParam(c)
	if !ok {
		return
	}
	nonce, ok := nonceParam(c)
	if !ok {
		return
	}
	var req types.ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	sig, err := decodeHexField("signature", req.Signature)
	if err != nil {
		respondWithBridgeError(c, h.logger, "confirm_transfer", err)
		return
	}

	rec, err := h.bridge.ConfirmTransfer(c.Request.Context(), services.ConfirmParams{Mint: mint, Nonce: nonce, Signature: sig})
	if err != nil {
		respondWithBridgeError(c, h.logger, "confirm_transfer", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transfer": dto.NewTransferResponse(rec, h.bridge.Registry())})
}

// RevertTransferHandler POST /api/nfts/:mint/transfers/:nonce/revert
func (h *BridgeHandler) RevertTransferHandler(c *gin.Context) {
	signer, _ := signerFrom(c)
	mint, ok := mintParam(c)
	if !ok {
		return
	}
	nonce, ok := nonceParam(c)
	if !ok {
		return
	}
	rec, err := h.bridge.RevertTransfer(c.Request.Context(), signer, mint, nonce)
	if err != nil {
		respondWithBridgeError(c, h.logger, "revert_transfer", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "transfer": dto.NewTransferResponse(rec, h.bridge.Registry())})
}

// ReceiveHandler POST /api/inbound. The TSS signature in the body is the
// only authorization.
func (h *BridgeHandler) ReceiveHandler(c *gin.Context) {
	var req types.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	params, err := h.receiveParams(&req)
	if err != nil {
		respondWithBridgeError(c, h.logger, "receive_cross_chain", err)
		return
	}

	res, err := h.bridge.ReceiveCrossChain(c.Request.Context(), *params)
	if err != nil {
		respondWithBridgeError(c, h.logger, "receive_cross_chain", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "result": dto.ReceiveResponse{
		Mint:    res.Mint.String(),
		Receipt: res.Receipt.String(),
		NewMint: res.NewMint,
		Nft:     dto.NewNftResponse(res.Record),
	}})
}

func (h *BridgeHandler) receiveParams(req *types.ReceiveRequest) (*services.ReceiveParams, error) {
	txHash, err := decodeHexField("origin_tx_hash", req.OriginTxHash)
	if err != nil {
		return nil, err
	}
	sig, err := decodeHexField("signature", req.Signature)
	if err != nil {
		return nil, err
	}
	owner, err := decodeChainAddress(h.bridge.Registry(), req.OriginChainID, req.OriginalOwner)
	if err != nil {
		return nil, err
	}
	recipient, err := ledger.ParseAddress(req.Recipient)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidRecipientAddress, "recipient must be a base58 address")
	}
	var mint ledger.Address
	if req.Mint != "" {
		if mint, err = ledger.ParseAddress(req.Mint); err != nil {
			return nil, types.NewError(types.ErrNotFound, "invalid mint address")
		}
	}
	return &services.ReceiveParams{
		OriginChainID: req.OriginChainID,
		OriginTxHash:  txHash,
		URI:           req.URI,
		Name:          req.Name,
		Symbol:        req.Symbol,
		OriginalOwner: owner,
		Recipient:     recipient,
		Mint:          mint,
		Signature:     sig,
		Nonce:         req.Nonce,
	}, nil
}

// GetReceiptHandler GET /api/inbound/:tx_hash/:nonce
func (h *BridgeHandler) GetReceiptHandler(c *gin.Context) {
	txHash, err := decodeHexField("tx_hash", c.Param("tx_hash"))
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	nonce, ok := nonceParam(c)
	if !ok {
		return
	}
	rec, err := h.bridge.Receipt(c.Request.Context(), txHash, nonce)
	if err != nil {
		respondWithBridgeError(c, h.logger, "get_receipt", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "receipt": dto.NewReceiptResponse(rec, h.bridge.Registry())})
}
