package services

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/events"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/metrics"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/models"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// BridgeOptions collaborators of BridgeService. Zero values get defaults.
type BridgeOptions struct {
	ProgramID ledger.Address
	Registry  *utils.ChainRegistry
	Budget    utils.ComputeBudget
	Emitter   events.Emitter
	Logger    *logrus.Logger
	Clock     func() time.Time
}

// BridgeService custody core of the bridge. Every mutating operation runs
// in one ledger Update: it commits all of its writes or none of them.
type BridgeService struct {
	store     ledger.Store
	programID ledger.Address
	registry  *utils.ChainRegistry
	budget    utils.ComputeBudget
	emitter   events.Emitter
	logger    *logrus.Logger
	clock     func() time.Time
}

func NewBridgeService(store ledger.Store, opts BridgeOptions) *BridgeService {
	if opts.Registry == nil {
		opts.Registry = utils.GlobalChainRegistry
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	if opts.Emitter == nil {
		opts.Emitter = events.NewLogEmitter(opts.Logger)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	return &BridgeService{
		store:     store,
		programID: opts.ProgramID,
		registry:  opts.Registry,
		budget:    opts.Budget,
		emitter:   opts.Emitter,
		logger:    opts.Logger,
		clock:     opts.Clock,
	}
}

func (s *BridgeService) ProgramID() ledger.Address {
	return s.programID
}

func (s *BridgeService) Registry() *utils.ChainRegistry {
	return s.registry
}

// operation is the state of one call while its ledger transaction is open.
type operation struct {
	svc    *BridgeService
	tx     ledger.Tx
	now    int64
	events []events.Event
}

// run executes fn inside one ledger transaction, then publishes the events
// fn queued. Events are dropped when the transaction aborts.
func (s *BridgeService) run(ctx context.Context, op string, fields logrus.Fields, fn func(o *operation) error) error {
	start := time.Now()
	var queued []events.Event

	err := s.budget.Charge(op)
	if err != nil {
		err = types.NewError(types.ErrResourceExhausted, "%v", err)
	} else {
		err = s.store.Update(ctx, func(tx ledger.Tx) error {
			o := &operation{svc: s, tx: tx, now: s.clock().Unix()}
			if err := fn(o); err != nil {
				return err
			}
			queued = o.events
			return nil
		})
	}

	s.observe(op, start, fields, err)
	if err != nil {
		return err
	}
	for _, evt := range queued {
		if emitErr := s.emitter.Emit(ctx, evt); emitErr != nil {
			s.logger.WithFields(logrus.Fields{
				"operation":  op,
				"event_type": evt.Type,
				"error":      emitErr.Error(),
			}).Warn("Event emission failed")
		}
	}
	return nil
}

// view runs a read-only query.
func (s *BridgeService) view(ctx context.Context, fn func(o *operation) error) error {
	return s.store.View(ctx, func(tx ledger.Tx) error {
		return fn(&operation{svc: s, tx: tx, now: s.clock().Unix()})
	})
}

func (s *BridgeService) observe(op string, start time.Time, fields logrus.Fields, err error) {
	metrics.OperationDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	entry := s.logger.WithFields(fields).WithField("operation", op)
	if err == nil {
		metrics.OperationsTotal.WithLabelValues(op, "ok").Inc()
		entry.Info("Operation committed")
		return
	}
	metrics.OperationsTotal.WithLabelValues(op, "aborted").Inc()
	if code, ok := types.CodeOf(err); ok {
		metrics.OperationErrors.WithLabelValues(op, string(code)).Inc()
		entry.WithFields(logrus.Fields{"code": code, "error": err.Error()}).Warn("Operation aborted")
		return
	}
	metrics.OperationErrors.WithLabelValues(op, "INTERNAL").Inc()
	entry.WithError(err).Error("Operation failed")
}

func (o *operation) emit(evt events.Event) {
	evt.ID = uuid.New().String()
	evt.Timestamp = time.Unix(o.now, 0).UTC()
	o.events = append(o.events, evt)
}

// load decodes the account at addr into v.
func (o *operation) load(addr ledger.Address, v encoding.BinaryUnmarshaler) error {
	data, err := o.tx.Get(addr)
	if err != nil {
		return err
	}
	if err := v.UnmarshalBinary(data); err != nil {
		return fmt.Errorf("decode account %s: %w", addr, err)
	}
	return nil
}

func (o *operation) encode(v encoding.BinaryMarshaler) ([]byte, error) {
	data, err := v.MarshalBinary()
	if err != nil {
		if errors.Is(err, models.ErrFieldTooLong) {
			return nil, types.NewError(types.ErrResourceExhausted, "%v", err)
		}
		return nil, err
	}
	if err := o.svc.budget.CheckAccountSize(len(data)); err != nil {
		return nil, types.NewError(types.ErrResourceExhausted, "%v", err)
	}
	return data, nil
}

// create initializes a new account. ledger.ErrAccountExists is passed
// through for the caller to translate.
func (o *operation) create(addr ledger.Address, v encoding.BinaryMarshaler) error {
	data, err := o.encode(v)
	if err != nil {
		return err
	}
	return o.tx.Create(addr, data)
}

func (o *operation) put(addr ledger.Address, v encoding.BinaryMarshaler) error {
	data, err := o.encode(v)
	if err != nil {
		return err
	}
	return o.tx.Put(addr, data)
}

func (o *operation) config() (*models.ProgramConfig, error) {
	var cfg models.ProgramConfig
	err := o.load(ConfigAddress(o.svc.programID), &cfg)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, types.NewError(types.ErrProgramNotInitialized, "program config missing")
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (o *operation) saveConfig(cfg *models.ProgramConfig) error {
	return o.put(ConfigAddress(o.svc.programID), cfg)
}

func (o *operation) nft(mint ledger.Address) (*models.NftRecord, error) {
	var rec models.NftRecord
	err := o.load(NftAddress(o.svc.programID, mint), &rec)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, types.NewError(types.ErrNotFound, "nft %s", mint)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (o *operation) transfer(mint ledger.Address, nonce uint64) (*models.OutboundTransfer, error) {
	var rec models.OutboundTransfer
	err := o.load(TransferAddress(o.svc.programID, mint, nonce), &rec)
	if errors.Is(err, ledger.ErrAccountNotFound) {
		return nil, types.NewError(types.ErrNotFound, "transfer %s/%d", mint, nonce)
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func requireAuthority(cfg *models.ProgramConfig, signer ledger.Address) error {
	if signer.IsZero() || signer != cfg.Authority {
		return types.NewError(types.ErrUnauthorized, "signer %s is not the program authority", signer)
	}
	return nil
}

func increment(v *uint64, what string) error {
	if *v == math.MaxUint64 {
		return types.NewError(types.ErrArithmeticOverflow, "%s overflow", what)
	}
	*v++
	return nil
}

// InitializeParams inputs of Initialize.
type InitializeParams struct {
	Gateway         ledger.Address
	TssAuthority    common.Address
	HomeChainID     uint64
	SupportedChains []uint64 // empty selects every registered chain except home
}

// Initialize creates the ProgramConfig. The signer becomes the authority.
func (s *BridgeService) Initialize(ctx context.Context, signer ledger.Address, p InitializeParams) (*models.ProgramConfig, error) {
	var created *models.ProgramConfig
	fields := logrus.Fields{"signer": signer.String(), "home_chain_id": p.HomeChainID}

	err := s.run(ctx, utils.OpInitialize, fields, func(o *operation) error {
		addr := ConfigAddress(s.programID)
		exists, err := ledger.Exists(o.tx, addr)
		if err != nil {
			return err
		}
		if exists {
			return types.NewError(types.ErrAlreadyInitialized, "program already initialized")
		}

		if signer.IsZero() {
			return types.NewError(types.ErrUnauthorized, "authority required")
		}
		if p.Gateway.IsZero() {
			return types.NewError(types.ErrInvalidAuthority, "gateway address required")
		}
		if p.TssAuthority == (common.Address{}) {
			return types.NewError(types.ErrInvalidAuthority, "tss authority required")
		}
		if _, ok := s.registry.Get(p.HomeChainID); !ok {
			return types.NewError(types.ErrUnsupportedChain, "home chain %d not registered", p.HomeChainID)
		}
		chains, err := s.supportedChains(p.HomeChainID, p.SupportedChains)
		if err != nil {
			return err
		}

		cfg := &models.ProgramConfig{
			Authority:       signer,
			Gateway:         p.Gateway,
			TssAuthority:    p.TssAuthority,
			HomeChainID:     p.HomeChainID,
			InitializedAt:   o.now,
			SupportedChains: chains,
		}
		if err := o.create(addr, cfg); err != nil {
			if errors.Is(err, ledger.ErrAccountExists) {
				return types.NewError(types.ErrAlreadyInitialized, "program already initialized")
			}
			return err
		}

		o.emit(events.Event{
			Type:    events.ProgramInitialized,
			Owner:   signer.String(),
			ChainID: p.HomeChainID,
			Data: map[string]interface{}{
				"gateway":          p.Gateway.String(),
				"tss_authority":    p.TssAuthority.Hex(),
				"supported_chains": chains,
			},
		})
		created = cfg
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *BridgeService) supportedChains(home uint64, requested []uint64) ([]uint64, error) {
	if len(requested) == 0 {
		for _, info := range s.registry.GetAllChains() {
			if info.ChainID != home {
				requested = append(requested, info.ChainID)
			}
		}
	}
	seen := make(map[uint64]bool, len(requested))
	chains := make([]uint64, 0, len(requested))
	for _, id := range requested {
		if id == home {
			return nil, types.NewError(types.ErrUnsupportedChain, "home chain %d cannot be a destination", id)
		}
		if _, ok := s.registry.Get(id); !ok {
			return nil, types.NewError(types.ErrUnsupportedChain, "chain %d not registered", id)
		}
		if !seen[id] {
			seen[id] = true
			chains = append(chains, id)
		}
	}
	if len(chains) > models.MaxSupportedChains {
		return nil, types.NewError(types.ErrResourceExhausted, "%d supported chains, capacity %d", len(chains), models.MaxSupportedChains)
	}
	return chains, nil
}

// SetPaused stops or resumes cross-chain traffic in both directions.
func (s *BridgeService) SetPaused(ctx context.Context, signer ledger.Address, paused bool) error {
	fields := logrus.Fields{"signer": signer.String(), "paused": paused}
	return s.run(ctx, utils.OpSetPaused, fields, func(o *operation) error {
		cfg, err := o.config()
		if err != nil {
			return err
		}
		if err := requireAuthority(cfg, signer); err != nil {
			return err
		}
		if cfg.Paused == paused {
			return nil
		}
		cfg.Paused = paused
		if err := o.saveConfig(cfg); err != nil {
			return err
		}
		o.emit(events.Event{Type: events.ProgramPaused, Data: map[string]interface{}{"paused": paused}})
		return nil
	})
}

// AddSupportedChain enables outbound transfers to a registered chain.
func (s *BridgeService) AddSupportedChain(ctx context.Context, signer ledger.Address, chainID uint64) error {
	fields := logrus.Fields{"signer": signer.String(), "chain_id": chainID}
	return s.run(ctx, utils.OpAddSupportedChain, fields, func(o *operation) error {
		cfg, err := o.config()
		if err != nil {
			return err
		}
		if err := requireAuthority(cfg, signer); err != nil {
			return err
		}
		if cfg.SupportsChain(chainID) {
			return nil
		}
		chains, err := s.supportedChains(cfg.HomeChainID, append(append([]uint64(nil), cfg.SupportedChains...), chainID))
		if err != nil {
			return err
		}
		cfg.SupportedChains = chains
		if err := o.saveConfig(cfg); err != nil {
			return err
		}
		o.emit(events.Event{Type: events.ChainSupported, ChainID: chainID})
		return nil
	})
}

// Config returns the current ProgramConfig.
func (s *BridgeService) Config(ctx context.Context) (*models.ProgramConfig, error) {
	var cfg *models.ProgramConfig
	err := s.view(ctx, func(o *operation) error {
		var err error
		cfg, err = o.config()
		return err
	})
	return cfg, err
}

// Nft returns the record of mint.
func (s *BridgeService) Nft(ctx context.Context, mint ledger.Address) (*models.NftRecord, error) {
	var rec *models.NftRecord
	err := s.view(ctx, func(o *operation) error {
		var err error
		rec, err = o.nft(mint)
		return err
	})
	return rec, err
}

// Transfer returns the outbound record of (mint, nonce).
func (s *BridgeService) Transfer(ctx context.Context, mint ledger.Address, nonce uint64) (*models.OutboundTransfer, error) {
	var rec *models.OutboundTransfer
	err := s.view(ctx, func(o *operation) error {
		var err error
		rec, err = o.transfer(mint, nonce)
		return err
	})
	return rec, err
}

// Receipt returns the inbound receipt of (origin tx hash, nonce).
func (s *BridgeService) Receipt(ctx context.Context, originTxHash []byte, nonce uint64) (*models.InboundReceipt, error) {
	var rec models.InboundReceipt
	err := s.view(ctx, func(o *operation) error {
		err := o.load(ReceiptAddress(s.programID, originTxHash, nonce), &rec)
		if errors.Is(err, ledger.ErrAccountNotFound) {
			return types.NewError(types.ErrNotFound, "receipt not found")
		}
		return err
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
