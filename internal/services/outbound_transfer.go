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

// TransferParams inputs of CrossChainTransfer.
type TransferParams struct {
	Mint               ledger.Address
	DestinationChainID uint64
	Recipient          []byte
	Nonce              uint64
}

// ConfirmParams relay confirmation of a delivered transfer.
type ConfirmParams struct {
	Mint      ledger.Address
	Nonce     uint64
	Signature []byte
}

// CrossChainTransfer locks an NFT and records the send. Nonces of one NFT
// must increase strictly across its transfers.
func (s *BridgeService) CrossChainTransfer(ctx context.Context, signer ledger.Address, p TransferParams) (*models.OutboundTransfer, error) {
	var created *models.OutboundTransfer
	fields := logrus.Fields{
		"signer":               signer.String(),
		"mint":                 p.Mint.String(),
		"destination_chain_id": p.DestinationChainID,
		"nonce":                p.Nonce,
	}

	err := s.run(ctx, utils.OpCrossChainTransfer, fields, func(o *operation) error {
		cfg, err := o.config()
		if err != nil {
			return err
		}
		if cfg.Paused {
			return types.NewError(types.ErrPaused, "cross-chain transfers are paused")
		}
		nft, err := o.nft(p.Mint)
		if err != nil {
			return err
		}
		if signer.IsZero() || signer != nft.CurrentOwner {
			return types.NewError(types.ErrUnauthorized, "signer %s does not own %s", signer, p.Mint)
		}
		if !nft.CrossChainEnabled {
			return types.NewError(types.ErrCrossChainNotEnabled, "nft %s is not cross-chain enabled", p.Mint)
		}
		if nft.Locked {
			return types.NewError(types.ErrAlreadyLocked, "nft %s is locked", p.Mint)
		}
		if p.DestinationChainID == cfg.HomeChainID || !cfg.SupportsChain(p.DestinationChainID) {
			return types.NewError(types.ErrUnsupportedChain, "destination chain %d not supported", p.DestinationChainID)
		}
		if err := s.registry.ValidateRecipient(p.DestinationChainID, p.Recipient); err != nil {
			if errors.Is(err, utils.ErrUnknownChain) {
				return types.NewError(types.ErrUnsupportedChain, "%v", err)
			}
			return types.NewError(types.ErrInvalidRecipientAddress, "%v", err)
		}
		if p.Nonce <= nft.LastNonce {
			return types.NewError(types.ErrInvalidNonce, "nonce %d not above last nonce %d", p.Nonce, nft.LastNonce)
		}
		if err := increment(&cfg.TransferCount, "transfer count"); err != nil {
			return err
		}

		rec := &models.OutboundTransfer{
			Mint:               p.Mint,
			Sender:             signer,
			DestinationChainID: p.DestinationChainID,
			Recipient:          append([]byte(nil), p.Recipient...),
			Nonce:              p.Nonce,
			Status:             models.TransferPending,
			CreatedAt:          o.now,
			UpdatedAt:          o.now,
		}
		if err := o.create(TransferAddress(s.programID, p.Mint, p.Nonce), rec); err != nil {
			if errors.Is(err, ledger.ErrAccountExists) {
				return types.NewError(types.ErrInvalidNonce, "transfer %d already recorded", p.Nonce)
			}
			return err
		}

		nft.Locked = true
		nft.LastNonce = p.Nonce
		if err := o.put(NftAddress(s.programID, p.Mint), nft); err != nil {
			return err
		}
		if err := o.saveConfig(cfg); err != nil {
			return err
		}

		o.emit(events.Event{
			Type:      events.CrossChainTransfer,
			Mint:      p.Mint.String(),
			Owner:     signer.String(),
			ChainID:   p.DestinationChainID,
			Nonce:     p.Nonce,
			Recipient: s.registry.FormatAddress(p.DestinationChainID, p.Recipient),
			Data: map[string]interface{}{
				"recipient_hex":   hex.EncodeToString(p.Recipient),
				"origin_chain_id": cfg.HomeChainID,
				"uri":             nft.URI,
				"name":            nft.Name,
				"symbol":          nft.Symbol,
			},
		})
		created = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.TransfersByChain.WithLabelValues("outbound", strconv.FormatUint(p.DestinationChainID, 10)).Inc()
	return created, nil
}

// ConfirmTransfer marks a pending transfer delivered. The confirmation must
// carry the TSS authority's signature; the NFT stays locked here because
// custody has moved to the destination chain.
func (s *BridgeService) ConfirmTransfer(ctx context.Context, p ConfirmParams) (*models.OutboundTransfer, error) {
	var updated *models.OutboundTransfer
	fields := logrus.Fields{"mint": p.Mint.String(), "nonce": p.Nonce}

	err := s.run(ctx, utils.OpConfirmTransfer, fields, func(o *operation) error {
		cfg, err := o.config()
		if err != nil {
			return err
		}
		rec, err := o.transfer(p.Mint, p.Nonce)
		if err != nil {
			return err
		}
		msg := verifier.ConfirmationMessage{
			HomeChainID:        cfg.HomeChainID,
			Mint:               p.Mint,
			Nonce:              p.Nonce,
			DestinationChainID: rec.DestinationChainID,
			Recipient:          rec.Recipient,
		}
		if !verifier.Verify(msg.Hash(), p.Signature, cfg.TssAuthority) {
			metrics.SignatureRejected.Inc()
			return types.NewError(types.ErrInvalidSignature, "confirmation not signed by tss authority")
		}
		if rec.Status != models.TransferPending {
			return types.NewError(types.ErrInvalidTransferState, "transfer is %s", rec.Status)
		}

		rec.Status = models.TransferFinalized
		rec.UpdatedAt = o.now
		if err := o.put(TransferAddress(s.programID, p.Mint, p.Nonce), rec); err != nil {
			return err
		}
		o.emit(events.Event{
			Type:    events.CrossChainTransferFinal,
			Mint:    p.Mint.String(),
			ChainID: rec.DestinationChainID,
			Nonce:   p.Nonce,
		})
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RevertTransfer is the authority's recovery path for a transfer the relay
// never delivered: the record becomes Reverted and the NFT is unlocked for
// its owner.
func (s *BridgeService) RevertTransfer(ctx context.Context, signer ledger.Address, mint ledger.Address, nonce uint64) (*models.OutboundTransfer, error) {
	var updated *models.OutboundTransfer
	fields := logrus.Fields{"signer": signer.String(), "mint": mint.String(), "nonce": nonce}

	err := s.run(ctx, utils.OpRevertTransfer, fields, func(o *operation) error {
		cfg, err := o.config()
		if err != nil {
			return err
		}
		if err := requireAuthority(cfg, signer); err != nil {
			return err
		}
		rec, err := o.transfer(mint, nonce)
		if err != nil {
			return err
		}
		if rec.Status != models.TransferPending {
			return types.NewError(types.ErrInvalidTransferState, "transfer is %s", rec.Status)
		}
		nft, err := o.nft(mint)
		if err != nil {
			return err
		}
		if !nft.Locked || nft.LastNonce != nonce {
			return types.NewError(types.ErrInvalidTransferState, "nft %s is not locked by transfer %d", mint, nonce)
		}

		rec.Status = models.TransferReverted
		rec.UpdatedAt = o.now
		if err := o.put(TransferAddress(s.programID, mint, nonce), rec); err != nil {
			return err
		}
		nft.Locked = false
		if err := o.put(NftAddress(s.programID, mint), nft); err != nil {
			return err
		}
		o.emit(events.Event{
			Type:    events.CrossChainTransferRevert,
			Mint:    mint.String(),
			Owner:   nft.CurrentOwner.String(),
			ChainID: rec.DestinationChainID,
			Nonce:   nonce,
		})
		updated = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
