package services

import (
	"context"
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/events"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/metrics"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/models"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/utils"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/verifier"

	"github.com/sirupsen/logrus"
)

// ReceiveParams a relay-delivered inbound message. Mint is zero for an NFT
// new to this chain and names the local NFT when it is coming back.
type ReceiveParams struct {
	OriginChainID uint64
	OriginTxHash  []byte
	URI           string
	Name          string
	Symbol        string
	OriginalOwner []byte
	Recipient     ledger.Address
	Mint          ledger.Address
	Signature     []byte
	Nonce         uint64
}

// ReceiveResult outcome of an applied inbound message.
type ReceiveResult struct {
	Mint    ledger.Address
	Receipt ledger.Address
	NewMint bool
	Record  *models.NftRecord
}

// Message is the canonical form the TSS network signs for p, delivered to
// homeChainID.
func (p *ReceiveParams) Message(homeChainID uint64) *verifier.InboundMessage {
	return &verifier.InboundMessage{
		DestinationChainID: homeChainID,
		OriginChainID:      p.OriginChainID,
		OriginTxHash:       p.OriginTxHash,
		Nonce:              p.Nonce,
		Recipient:          p.Recipient,
		ReturningMint:      p.Mint,
		OriginalOwner:      p.OriginalOwner,
		URI:                p.URI,
		Name:               p.Name,
		Symbol:             p.Symbol,
	}
}

func validateInboundShape(p *ReceiveParams) error {
	if err := validateMetadata(p.URI, p.Name, p.Symbol, false); err != nil {
		return err
	}
	if len(p.OriginTxHash) == 0 || len(p.OriginTxHash) > models.MaxOriginTxHashLength {
		return types.NewError(types.ErrInvalidMetadata, "origin tx hash must be 1..%d bytes", models.MaxOriginTxHashLength)
	}
	if len(p.OriginalOwner) == 0 || len(p.OriginalOwner) > models.MaxOwnerLength {
		return types.NewError(types.ErrInvalidMetadata, "original owner must be 1..%d bytes", models.MaxOwnerLength)
	}
	return nil
}

// ReceiveCrossChain applies an inbound message at most once. The order is
// fixed: shape checks, signature, receipt creation, then state changes.
// Any failure aborts the transaction, including the receipt.
func (s *BridgeService) ReceiveCrossChain(ctx context.Context, p ReceiveParams) (*ReceiveResult, error) {
	var result *ReceiveResult
	fields := logrus.Fields{
		"origin_chain_id": p.OriginChainID,
		"origin_tx_hash":  hex.EncodeToString(p.OriginTxHash),
		"nonce":           p.Nonce,
		"recipient":       p.Recipient.String(),
	}

	err := s.run(ctx, utils.OpReceiveCrossChain, fields, func(o *operation) error {
		cfg, err := o.config()
		if err != nil {
			return err
		}
		if cfg.Paused {
			return types.NewError(types.ErrPaused, "cross-chain receives are paused")
		}
		if err := validateInboundShape(&p); err != nil {
			return err
		}

		hash := p.Message(cfg.HomeChainID).Hash()
		if !verifier.Verify(hash, p.Signature, cfg.TssAuthority) {
			metrics.SignatureRejected.Inc()
			return types.NewError(types.ErrInvalidSignature, "message not signed by tss authority")
		}

		receiptAddr := ReceiptAddress(s.programID, p.OriginTxHash, p.Nonce)
		newMint := p.Mint.IsZero()
		mint := p.Mint
		if newMint {
			mint = InboundMintAddress(s.programID, receiptAddr)
		}
		receipt := &models.InboundReceipt{
			OriginChainID: p.OriginChainID,
			OriginTxHash:  append([]byte(nil), p.OriginTxHash...),
			Nonce:         p.Nonce,
			Mint:          mint,
			Recipient:     p.Recipient,
			OriginalOwner: append([]byte(nil), p.OriginalOwner...),
			ProcessedAt:   o.now,
		}
		copy(receipt.Signature[:], p.Signature)
		if err := o.create(receiptAddr, receipt); err != nil {
			if errors.Is(err, ledger.ErrAccountExists) {
				metrics.ReplayRejected.Inc()
				return types.NewError(types.ErrInvalidNonce, "message (%x, %d) already processed", p.OriginTxHash, p.Nonce)
			}
			return err
		}

		if p.OriginChainID == cfg.HomeChainID {
			return types.NewError(types.ErrUnsupportedChain, "origin chain %d is the home chain", p.OriginChainID)
		}
		if err := s.registry.ValidateRecipient(p.OriginChainID, p.OriginalOwner); err != nil {
			if errors.Is(err, utils.ErrUnknownChain) {
				return types.NewError(types.ErrUnsupportedChain, "%v", err)
			}
			return types.NewError(types.ErrInvalidRecipientAddress, "original owner: %v", err)
		}
		if p.Recipient.IsZero() {
			return types.NewError(types.ErrInvalidRecipientAddress, "recipient required")
		}

		var rec *models.NftRecord
		if newMint {
			rec, err = o.mintInbound(cfg, &p, mint)
		} else {
			rec, err = o.returnLocked(&p)
		}
		if err != nil {
			return err
		}
		if err := increment(&cfg.ReceiveCount, "receive count"); err != nil {
			return err
		}
		if err := o.saveConfig(cfg); err != nil {
			return err
		}

		o.emit(events.Event{
			Type:      events.CrossChainReceive,
			Mint:      mint.String(),
			Owner:     p.Recipient.String(),
			ChainID:   p.OriginChainID,
			Nonce:     p.Nonce,
			Recipient: p.Recipient.String(),
			Data: map[string]interface{}{
				"origin_tx_hash": hex.EncodeToString(p.OriginTxHash),
				"original_owner": s.registry.FormatAddress(p.OriginChainID, p.OriginalOwner),
				"new_mint":       newMint,
			},
		})
		result = &ReceiveResult{Mint: mint, Receipt: receiptAddr, NewMint: newMint, Record: rec}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result.NewMint {
		metrics.NFTsMinted.WithLabelValues("inbound").Inc()
	}
	metrics.TransfersByChain.WithLabelValues("inbound", strconv.FormatUint(p.OriginChainID, 10)).Inc()
	return result, nil
}

// mintInbound records an NFT that has never been on this chain.
func (o *operation) mintInbound(cfg *models.ProgramConfig, p *ReceiveParams, mint ledger.Address) (*models.NftRecord, error) {
	if err := increment(&cfg.TotalMinted, "total minted"); err != nil {
		return nil, err
	}
	rec := &models.NftRecord{
		Mint:              mint,
		OriginalOwner:     p.Recipient,
		CurrentOwner:      p.Recipient,
		URI:               p.URI,
		Name:              p.Name,
		Symbol:            p.Symbol,
		CrossChainEnabled: true,
		OriginChainID:     p.OriginChainID,
		CreatedAt:         o.now,
	}
	if err := o.create(NftAddress(o.svc.programID, mint), rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// returnLocked unlocks a local NFT whose outbound transfer came back. The
// transfer it left with is finalized if the relay never confirmed it.
func (o *operation) returnLocked(p *ReceiveParams) (*models.NftRecord, error) {
	rec, err := o.nft(p.Mint)
	if err != nil {
		return nil, err
	}
	if !rec.Locked {
		return nil, types.NewError(types.ErrInvalidTransferState, "nft %s is not locked", p.Mint)
	}
	out, err := o.transfer(p.Mint, rec.LastNonce)
	if err != nil {
		return nil, err
	}
	if out.DestinationChainID != p.OriginChainID {
		return nil, types.NewError(types.ErrInvalidTransferState,
			"nft %s was sent to chain %d, message is from %d", p.Mint, out.DestinationChainID, p.OriginChainID)
	}
	if out.Status == models.TransferReverted {
		return nil, types.NewError(types.ErrInvalidTransferState, "transfer %d was reverted", out.Nonce)
	}
	if out.Status == models.TransferPending {
		out.Status = models.TransferFinalized
		out.UpdatedAt = o.now
		if err := o.put(TransferAddress(o.svc.programID, p.Mint, out.Nonce), out); err != nil {
			return nil, err
		}
	}

	rec.Locked = false
	rec.CurrentOwner = p.Recipient
	if p.URI != "" {
		rec.URI, rec.Name, rec.Symbol = p.URI, p.Name, p.Symbol
	}
	if err := o.put(NftAddress(o.svc.programID, p.Mint), rec); err != nil {
		return nil, err
	}
	return rec, nil
}
