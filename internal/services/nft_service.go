package services

import (
	"context"
	"unicode/utf8"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/events"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/metrics"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/models"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/utils"

	"github.com/sirupsen/logrus"
)

// MintParams inputs of MintNFT.
type MintParams struct {
	URI               string
	Name              string
	Symbol            string
	CrossChainEnabled bool
	Recipient         ledger.Address
}

// OwnershipReport answer of VerifyOwnership.
type OwnershipReport struct {
	Mint              ledger.Address
	Owner             ledger.Address
	OriginalOwner     ledger.Address
	IsOwner           bool // claimant matches Owner; false when no claimant given
	Locked            bool
	CrossChainEnabled bool
	Transferable      bool
	OriginChainID     uint64
	LastNonce         uint64
}

func validateMetadata(uri, name, symbol string, requireContent bool) error {
	if requireContent && (uri == "" || name == "") {
		return types.NewError(types.ErrInvalidMetadata, "uri and name required")
	}
	if len(uri) > models.MaxURILength {
		return types.NewError(types.ErrInvalidMetadata, "uri longer than %d bytes", models.MaxURILength)
	}
	if len(name) > models.MaxNameLength {
		return types.NewError(types.ErrInvalidMetadata, "name longer than %d bytes", models.MaxNameLength)
	}
	if len(symbol) > models.MaxSymbolLength {
		return types.NewError(types.ErrInvalidMetadata, "symbol longer than %d bytes", models.MaxSymbolLength)
	}
	return nil
}

// MintNFT creates a new NFT owned by p.Recipient. Only the program
// authority may mint.
func (s *BridgeService) MintNFT(ctx context.Context, signer ledger.Address, p MintParams) (*models.NftRecord, error) {
	var minted *models.NftRecord
	fields := logrus.Fields{"signer": signer.String(), "recipient": p.Recipient.String()}

	err := s.run(ctx, utils.OpMint, fields, func(o *operation) error {
		cfg, err := o.config()
		if err != nil {
			return err
		}
		if err := requireAuthority(cfg, signer); err != nil {
			return err
		}
		if err := validateMetadata(p.URI, p.Name, p.Symbol, true); err != nil {
			return err
		}
		if !utf8.ValidString(p.URI) || !utf8.ValidString(p.Name) || !utf8.ValidString(p.Symbol) {
			return types.NewError(types.ErrInvalidMetadata, "metadata must be valid utf-8")
		}
		if p.Recipient.IsZero() {
			return types.NewError(types.ErrInvalidRecipientAddress, "recipient required")
		}

		if err := increment(&cfg.MintSequence, "mint sequence"); err != nil {
			return err
		}
		if err := increment(&cfg.TotalMinted, "total minted"); err != nil {
			return err
		}
		mint := LocalMintAddress(s.programID, cfg.MintSequence)
		rec := &models.NftRecord{
			Mint:              mint,
			OriginalOwner:     p.Recipient,
			CurrentOwner:      p.Recipient,
			URI:               p.URI,
			Name:              p.Name,
			Symbol:            p.Symbol,
			CrossChainEnabled: p.CrossChainEnabled,
			OriginChainID:     cfg.HomeChainID,
			CreatedAt:         o.now,
		}
		if err := o.create(NftAddress(s.programID, mint), rec); err != nil {
			return err
		}
		if err := o.saveConfig(cfg); err != nil {
			return err
		}

		o.emit(events.Event{
			Type:    events.NftMinted,
			Mint:    mint.String(),
			Owner:   p.Recipient.String(),
			ChainID: cfg.HomeChainID,
			Data: map[string]interface{}{
				"uri":                 p.URI,
				"name":                p.Name,
				"symbol":              p.Symbol,
				"cross_chain_enabled": p.CrossChainEnabled,
			},
		})
		minted = rec
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.NFTsMinted.WithLabelValues("local").Inc()
	return minted, nil
}

// VerifyOwnership reports the owner and lock state of mint. claimant is
// optional. The ledger is not modified.
func (s *BridgeService) VerifyOwnership(ctx context.Context, mint ledger.Address, claimant *ledger.Address) (*OwnershipReport, error) {
	var report *OwnershipReport
	err := s.view(ctx, func(o *operation) error {
		rec, err := o.nft(mint)
		if err != nil {
			return err
		}
		report = &OwnershipReport{
			Mint:              rec.Mint,
			Owner:             rec.CurrentOwner,
			OriginalOwner:     rec.OriginalOwner,
			Locked:            rec.Locked,
			CrossChainEnabled: rec.CrossChainEnabled,
			Transferable:      rec.CrossChainEnabled && !rec.Locked,
			OriginChainID:     rec.OriginChainID,
			LastNonce:         rec.LastNonce,
		}
		if claimant != nil {
			report.IsOwner = *claimant == rec.CurrentOwner
		}
		return nil
	})

	result := "ok"
	if err != nil {
		result = "aborted"
		if code, ok := types.CodeOf(err); ok {
			metrics.OperationErrors.WithLabelValues(utils.OpVerifyOwnership, string(code)).Inc()
		}
	}
	metrics.OperationsTotal.WithLabelValues(utils.OpVerifyOwnership, result).Inc()
	if err != nil {
		return nil, err
	}

	evt := events.Event{
		Type:  events.OwnershipVerified,
		Mint:  mint.String(),
		Owner: report.Owner.String(),
		Data: map[string]interface{}{
			"locked":       report.Locked,
			"transferable": report.Transferable,
		},
	}
	if claimant != nil {
		evt.Data["claimant"] = claimant.String()
		evt.Data["is_owner"] = report.IsOwner
	}
	s.publish(ctx, evt)
	return report, nil
}

// publish emits an event outside of a ledger transaction.
func (s *BridgeService) publish(ctx context.Context, evt events.Event) {
	o := &operation{svc: s, now: s.clock().Unix()}
	o.emit(evt)
	if err := s.emitter.Emit(ctx, o.events[0]); err != nil {
		s.logger.WithError(err).Warn("Event emission failed")
	}
}
