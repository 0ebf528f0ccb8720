package services

import (
	"bytes"
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/events"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/models"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/utils"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/verifier"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	evmChain    uint64 = 1
	tronChain   uint64 = 728126428
	devnetChain uint64 = 901
)

type harness struct {
	ctx       context.Context
	svc       *BridgeService
	authority ledger.Address
	gateway   ledger.Address
	tss       *verifier.Signer
	recorder  *events.Recorder
	home      uint64
}

func addr(tag string) ledger.Address {
	return ledger.Derive(ledger.ZeroAddress, []byte("test"), []byte(tag))
}

func newHarness(t *testing.T, home uint64, budget utils.ComputeBudget) *harness {
	t.Helper()
	store, err := ledger.OpenBolt(filepath.Join(t.TempDir(), "ledger.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	tss, err := verifier.GenerateSigner()
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	recorder := &events.Recorder{}

	h := &harness{
		ctx:       context.Background(),
		authority: addr("authority"),
		gateway:   addr("gateway"),
		tss:       tss,
		recorder:  recorder,
		home:      home,
	}
	h.svc = NewBridgeService(store, BridgeOptions{
		ProgramID: addr("program-" + t.Name()),
		Registry:  utils.NewChainRegistry(utils.DefaultChains()...),
		Budget:    budget,
		Emitter:   recorder,
		Logger:    logger,
		Clock:     func() time.Time { return time.Unix(1_700_000_000, 0) },
	})
	return h
}

func newInitializedHarness(t *testing.T) *harness {
	h := newHarness(t, utils.SolanaChainID, utils.ComputeBudget{})
	_, err := h.svc.Initialize(h.ctx, h.authority, InitializeParams{
		Gateway:      h.gateway,
		TssAuthority: h.tss.Address(),
		HomeChainID:  h.home,
	})
	require.NoError(t, err)
	return h
}

func (h *harness) mint(t *testing.T, owner ledger.Address, crossChain bool) ledger.Address {
	t.Helper()
	rec, err := h.svc.MintNFT(h.ctx, h.authority, MintParams{
		URI:               "ipfs://bafy/ape.json",
		Name:              "Bridge Ape",
		Symbol:            "BAPE",
		CrossChainEnabled: crossChain,
		Recipient:         owner,
	})
	require.NoError(t, err)
	return rec.Mint
}

func (h *harness) inbound(originTx byte, nonce uint64, recipient ledger.Address) ReceiveParams {
	return ReceiveParams{
		OriginChainID: evmChain,
		OriginTxHash:  bytes.Repeat([]byte{originTx}, 32),
		URI:           "ipfs://bafy/remote.json",
		Name:          "Remote Punk",
		Symbol:        "RPUNK",
		OriginalOwner: bytes.Repeat([]byte{0xAA}, 20),
		Recipient:     recipient,
		Nonce:         nonce,
	}
}

func (h *harness) sign(t *testing.T, p ReceiveParams) ReceiveParams {
	t.Helper()
	sig, err := h.tss.Sign(p.Message(h.home).Hash())
	require.NoError(t, err)
	p.Signature = sig
	return p
}

func (h *harness) config(t *testing.T) *models.ProgramConfig {
	t.Helper()
	cfg, err := h.svc.Config(h.ctx)
	require.NoError(t, err)
	return cfg
}

func requireCode(t *testing.T, err error, code types.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	got, ok := types.CodeOf(err)
	require.True(t, ok, "untyped error: %v", err)
	assert.Equal(t, code, got, err.Error())
}

func TestInitializeCreatesConfig(t *testing.T) {
	h := newInitializedHarness(t)
	cfg := h.config(t)

	assert.Equal(t, h.authority, cfg.Authority)
	assert.Equal(t, h.gateway, cfg.Gateway)
	assert.Equal(t, h.tss.Address(), cfg.TssAuthority)
	assert.Equal(t, utils.SolanaChainID, cfg.HomeChainID)
	assert.True(t, cfg.SupportsChain(evmChain))
	assert.False(t, cfg.SupportsChain(utils.SolanaChainID))
	assert.Len(t, h.recorder.OfType(events.ProgramInitialized), 1)
}

func TestInitializeTwiceFailsAndKeepsConfig(t *testing.T) {
	h := newInitializedHarness(t)
	before := h.config(t)

	other, err := verifier.GenerateSigner()
	require.NoError(t, err)
	_, err = h.svc.Initialize(h.ctx, addr("intruder"), InitializeParams{
		Gateway:      addr("other-gateway"),
		TssAuthority: other.Address(),
		HomeChainID:  h.home,
	})
	requireCode(t, err, types.ErrAlreadyInitialized)
	assert.Equal(t, before, h.config(t))
	assert.Len(t, h.recorder.OfType(events.ProgramInitialized), 1)
}

func TestInitializeValidatesInputs(t *testing.T) {
	h := newHarness(t, utils.SolanaChainID, utils.ComputeBudget{})

	_, err := h.svc.Initialize(h.ctx, h.authority, InitializeParams{Gateway: h.gateway, HomeChainID: h.home})
	requireCode(t, err, types.ErrInvalidAuthority)

	_, err = h.svc.Initialize(h.ctx, h.authority, InitializeParams{Gateway: h.gateway, TssAuthority: h.tss.Address(), HomeChainID: 424242})
	requireCode(t, err, types.ErrUnsupportedChain)

	_, err = h.svc.Initialize(h.ctx, h.authority, InitializeParams{
		Gateway: h.gateway, TssAuthority: h.tss.Address(), HomeChainID: h.home,
		SupportedChains: []uint64{evmChain, h.home},
	})
	requireCode(t, err, types.ErrUnsupportedChain)

	_, err = h.svc.Config(h.ctx)
	requireCode(t, err, types.ErrProgramNotInitialized)
}

func TestOperationsRequireInitialization(t *testing.T) {
	h := newHarness(t, utils.SolanaChainID, utils.ComputeBudget{})
	_, err := h.svc.MintNFT(h.ctx, h.authority, MintParams{URI: "u", Name: "n", Recipient: addr("a")})
	requireCode(t, err, types.ErrProgramNotInitialized)
}

func TestMintRequiresAuthority(t *testing.T) {
	h := newInitializedHarness(t)
	_, err := h.svc.MintNFT(h.ctx, addr("mallory"), MintParams{URI: "u", Name: "n", Recipient: addr("a")})
	requireCode(t, err, types.ErrUnauthorized)
	assert.Zero(t, h.config(t).TotalMinted)
}

func TestMintValidatesMetadata(t *testing.T) {
	h := newInitializedHarness(t)
	owner := addr("alice")

	cases := []MintParams{
		{URI: "", Name: "n", Recipient: owner},
		{URI: string(make([]byte, models.MaxURILength+1)), Name: "n", Recipient: owner},
		{URI: "u", Name: string(make([]byte, models.MaxNameLength+1)), Recipient: owner},
		{URI: "u", Name: "n", Symbol: "ELEVENCHARS", Recipient: owner},
		{URI: "u", Name: "\xff", Recipient: owner},
	}
	for _, p := range cases {
		_, err := h.svc.MintNFT(h.ctx, h.authority, p)
		requireCode(t, err, types.ErrInvalidMetadata)
	}

	_, err := h.svc.MintNFT(h.ctx, h.authority, MintParams{URI: "u", Name: "n"})
	requireCode(t, err, types.ErrInvalidRecipientAddress)
}

func TestMintAssignsSequentialMints(t *testing.T) {
	h := newInitializedHarness(t)
	owner := addr("alice")

	first := h.mint(t, owner, true)
	second := h.mint(t, owner, true)
	assert.NotEqual(t, first, second)
	assert.Equal(t, LocalMintAddress(h.svc.ProgramID(), 1), first)

	cfg := h.config(t)
	assert.Equal(t, uint64(2), cfg.TotalMinted)
	assert.Equal(t, uint64(2), cfg.MintSequence)

	report, err := h.svc.VerifyOwnership(h.ctx, first, &owner)
	require.NoError(t, err)
	assert.True(t, report.IsOwner)
	assert.True(t, report.Transferable)
	assert.Equal(t, utils.SolanaChainID, report.OriginChainID)
}

func TestTransferRecipientLengthEnforced(t *testing.T) {
	h := newInitializedHarness(t)
	owner := addr("alice")
	mint := h.mint(t, owner, true)

	for _, n := range []int{18, 21} {
		_, err := h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{
			Mint: mint, DestinationChainID: evmChain, Recipient: bytes.Repeat([]byte{0xAA}, n), Nonce: 1,
		})
		requireCode(t, err, types.ErrInvalidRecipientAddress)
	}

	rec, err := h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{
		Mint: mint, DestinationChainID: evmChain, Recipient: bytes.Repeat([]byte{0xAA}, 20), Nonce: 1,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TransferPending, rec.Status)
}

func TestTransferToTronNeedsPrefixedAddress(t *testing.T) {
	h := newInitializedHarness(t)
	owner := addr("alice")
	mint := h.mint(t, owner, true)

	_, err := h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{
		Mint: mint, DestinationChainID: tronChain, Recipient: bytes.Repeat([]byte{0xAA}, 20), Nonce: 1,
	})
	requireCode(t, err, types.ErrInvalidRecipientAddress)

	recipient := append([]byte{0x41}, bytes.Repeat([]byte{0xAA}, 20)...)
	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{
		Mint: mint, DestinationChainID: tronChain, Recipient: recipient, Nonce: 1,
	})
	require.NoError(t, err)
}

func TestTransferPreconditions(t *testing.T) {
	h := newInitializedHarness(t)
	owner := addr("alice")
	mint := h.mint(t, owner, true)
	local := h.mint(t, owner, false)
	recipient := bytes.Repeat([]byte{0xAA}, 20)

	_, err := h.svc.CrossChainTransfer(h.ctx, addr("bob"), TransferParams{Mint: mint, DestinationChainID: evmChain, Recipient: recipient, Nonce: 1})
	requireCode(t, err, types.ErrUnauthorized)

	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: local, DestinationChainID: evmChain, Recipient: recipient, Nonce: 1})
	requireCode(t, err, types.ErrCrossChainNotEnabled)

	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: h.home, Recipient: recipient, Nonce: 1})
	requireCode(t, err, types.ErrUnsupportedChain)

	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: 424242, Recipient: recipient, Nonce: 1})
	requireCode(t, err, types.ErrUnsupportedChain)

	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: evmChain, Recipient: recipient, Nonce: 0})
	requireCode(t, err, types.ErrInvalidNonce)

	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: addr("ghost"), DestinationChainID: evmChain, Recipient: recipient, Nonce: 1})
	requireCode(t, err, types.ErrNotFound)

	assert.Zero(t, h.config(t).TransferCount)
	assert.Empty(t, h.recorder.OfType(events.CrossChainTransfer))
}

func TestLockExclusivity(t *testing.T) {
	h := newInitializedHarness(t)
	owner := addr("alice")
	mint := h.mint(t, owner, true)
	recipient := bytes.Repeat([]byte{0xAA}, 20)

	_, err := h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: evmChain, Recipient: recipient, Nonce: 1})
	require.NoError(t, err)

	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: 56, Recipient: recipient, Nonce: 2})
	requireCode(t, err, types.ErrAlreadyLocked)

	report, err := h.svc.VerifyOwnership(h.ctx, mint, nil)
	require.NoError(t, err)
	assert.True(t, report.Locked)
	assert.False(t, report.Transferable)
	assert.False(t, report.IsOwner)
	assert.Equal(t, uint64(1), report.LastNonce)
	assert.Equal(t, uint64(1), h.config(t).TransferCount)
}

func TestRevertUnlocksAndNoncesKeepIncreasing(t *testing.T) {
	h := newInitializedHarness(t)
	owner := addr("alice")
	mint := h.mint(t, owner, true)
	recipient := bytes.Repeat([]byte{0xAA}, 20)

	_, err := h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: evmChain, Recipient: recipient, Nonce: 5})
	require.NoError(t, err)

	_, err = h.svc.RevertTransfer(h.ctx, owner, mint, 5)
	requireCode(t, err, types.ErrUnauthorized)

	rec, err := h.svc.RevertTransfer(h.ctx, h.authority, mint, 5)
	require.NoError(t, err)
	assert.Equal(t, models.TransferReverted, rec.Status)

	_, err = h.svc.RevertTransfer(h.ctx, h.authority, mint, 5)
	requireCode(t, err, types.ErrInvalidTransferState)

	report, err := h.svc.VerifyOwnership(h.ctx, mint, &owner)
	require.NoError(t, err)
	assert.False(t, report.Locked)
	assert.True(t, report.IsOwner)

	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: evmChain, Recipient: recipient, Nonce: 5})
	requireCode(t, err, types.ErrInvalidNonce)

	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: evmChain, Recipient: recipient, Nonce: 6})
	require.NoError(t, err)
}

func TestConfirmTransfer(t *testing.T) {
	h := newInitializedHarness(t)
	owner := addr("alice")
	mint := h.mint(t, owner, true)
	recipient := bytes.Repeat([]byte{0xAA}, 20)

	_, err := h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: evmChain, Recipient: recipient, Nonce: 1})
	require.NoError(t, err)

	msg := verifier.ConfirmationMessage{HomeChainID: h.home, Mint: mint, Nonce: 1, DestinationChainID: evmChain, Recipient: recipient}
	forger, err := verifier.GenerateSigner()
	require.NoError(t, err)
	forged, err := forger.Sign(msg.Hash())
	require.NoError(t, err)
	_, err = h.svc.ConfirmTransfer(h.ctx, ConfirmParams{Mint: mint, Nonce: 1, Signature: forged})
	requireCode(t, err, types.ErrInvalidSignature)

	sig, err := h.tss.Sign(msg.Hash())
	require.NoError(t, err)
	rec, err := h.svc.ConfirmTransfer(h.ctx, ConfirmParams{Mint: mint, Nonce: 1, Signature: sig})
	require.NoError(t, err)
	assert.Equal(t, models.TransferFinalized, rec.Status)

	_, err = h.svc.ConfirmTransfer(h.ctx, ConfirmParams{Mint: mint, Nonce: 1, Signature: sig})
	requireCode(t, err, types.ErrInvalidTransferState)

	_, err = h.svc.RevertTransfer(h.ctx, h.authority, mint, 1)
	requireCode(t, err, types.ErrInvalidTransferState)

	report, err := h.svc.VerifyOwnership(h.ctx, mint, nil)
	require.NoError(t, err)
	assert.True(t, report.Locked, "custody moved to the destination chain")
}

func TestReceiveMintsOnceAndRejectsReplay(t *testing.T) {
	h := newInitializedHarness(t)
	bob := addr("bob")
	p := h.sign(t, h.inbound(0x11, 1, bob))

	res, err := h.svc.ReceiveCrossChain(h.ctx, p)
	require.NoError(t, err)
	assert.True(t, res.NewMint)
	assert.Equal(t, bob, res.Record.CurrentOwner)
	assert.False(t, res.Record.Locked)
	assert.Equal(t, evmChain, res.Record.OriginChainID)

	_, err = h.svc.ReceiveCrossChain(h.ctx, p)
	requireCode(t, err, types.ErrInvalidNonce)

	cfg := h.config(t)
	assert.Equal(t, uint64(1), cfg.TotalMinted)
	assert.Equal(t, uint64(1), cfg.ReceiveCount)
	assert.Len(t, h.recorder.OfType(events.CrossChainReceive), 1)

	receipt, err := h.svc.Receipt(h.ctx, p.OriginTxHash, 1)
	require.NoError(t, err)
	assert.Equal(t, res.Mint, receipt.Mint)
	assert.Equal(t, p.Signature, receipt.Signature[:])

	// Same tx hash with another nonce is a different message.
	_, err = h.svc.ReceiveCrossChain(h.ctx, h.sign(t, h.inbound(0x11, 2, bob)))
	require.NoError(t, err)
	assert.Equal(t, uint64(2), h.config(t).TotalMinted)
}

func TestReceiveConcurrentReplayAppliesOnce(t *testing.T) {
	h := newInitializedHarness(t)
	p := h.sign(t, h.inbound(0x22, 7, addr("bob")))

	const workers = 8
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = h.svc.ReceiveCrossChain(h.ctx, p)
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		requireCode(t, err, types.ErrInvalidNonce)
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, uint64(1), h.config(t).TotalMinted)
}

func TestReceiveSignatureIntegrity(t *testing.T) {
	h := newInitializedHarness(t)
	valid := h.sign(t, h.inbound(0x33, 1, addr("bob")))

	var tampered []ReceiveParams
	for i := 0; i < len(valid.Signature)*8; i += 13 {
		p := valid
		p.Signature = append([]byte(nil), valid.Signature...)
		p.Signature[i/8] ^= 1 << (i % 8)
		tampered = append(tampered, p)
	}
	flip := func(mutate func(p *ReceiveParams)) {
		p := valid
		p.OriginTxHash = append([]byte(nil), valid.OriginTxHash...)
		p.OriginalOwner = append([]byte(nil), valid.OriginalOwner...)
		mutate(&p)
		tampered = append(tampered, p)
	}
	flip(func(p *ReceiveParams) { p.OriginChainID ^= 1 << 40 })
	flip(func(p *ReceiveParams) { p.OriginTxHash[5] ^= 0x01 })
	flip(func(p *ReceiveParams) { p.URI = "ipfs://bafy/remote.jsoo" })
	flip(func(p *ReceiveParams) { p.Name = "Remote Puok" })
	flip(func(p *ReceiveParams) { p.Symbol = "RPUNJ" })
	flip(func(p *ReceiveParams) { p.OriginalOwner[0] ^= 0x80 })
	flip(func(p *ReceiveParams) { p.Nonce ^= 1 << 3 })
	flip(func(p *ReceiveParams) { p.Recipient[31] ^= 1 })
	flip(func(p *ReceiveParams) { p.Mint[0] ^= 1 })
	flip(func(p *ReceiveParams) { p.Signature = p.Signature[:64] })

	for _, p := range tampered {
		_, err := h.svc.ReceiveCrossChain(h.ctx, p)
		requireCode(t, err, types.ErrInvalidSignature)

		_, err = h.svc.Receipt(h.ctx, p.OriginTxHash, p.Nonce)
		requireCode(t, err, types.ErrNotFound)
	}

	cfg := h.config(t)
	assert.Zero(t, cfg.TotalMinted)
	assert.Zero(t, cfg.ReceiveCount)
	assert.Empty(t, h.recorder.OfType(events.CrossChainReceive))

	_, err := h.svc.ReceiveCrossChain(h.ctx, valid)
	require.NoError(t, err)
}

func TestReceiveFailureAfterReceiptLeavesNoTrace(t *testing.T) {
	h := newInitializedHarness(t)

	p := h.inbound(0x44, 1, addr("bob"))
	p.OriginChainID = 424242
	p = h.sign(t, p)
	_, err := h.svc.ReceiveCrossChain(h.ctx, p)
	requireCode(t, err, types.ErrUnsupportedChain)

	p = h.inbound(0x44, 1, addr("bob"))
	p.OriginalOwner = bytes.Repeat([]byte{0xAA}, 32)
	p = h.sign(t, p)
	_, err = h.svc.ReceiveCrossChain(h.ctx, p)
	requireCode(t, err, types.ErrInvalidRecipientAddress)

	p = h.sign(t, h.inbound(0x44, 1, ledger.ZeroAddress))
	_, err = h.svc.ReceiveCrossChain(h.ctx, p)
	requireCode(t, err, types.ErrInvalidRecipientAddress)

	_, err = h.svc.Receipt(h.ctx, p.OriginTxHash, 1)
	requireCode(t, err, types.ErrNotFound)

	// The rolled-back receipt does not block a corrected message.
	_, err = h.svc.ReceiveCrossChain(h.ctx, h.sign(t, h.inbound(0x44, 1, addr("bob"))))
	require.NoError(t, err)
}

func TestReceiveValidatesShapeBeforeSignature(t *testing.T) {
	h := newInitializedHarness(t)

	p := h.inbound(0x55, 1, addr("bob"))
	p.OriginTxHash = nil
	_, err := h.svc.ReceiveCrossChain(h.ctx, h.sign(t, p))
	requireCode(t, err, types.ErrInvalidMetadata)

	p = h.inbound(0x55, 1, addr("bob"))
	p.URI = string(make([]byte, models.MaxURILength+1))
	_, err = h.svc.ReceiveCrossChain(h.ctx, h.sign(t, p))
	requireCode(t, err, types.ErrInvalidMetadata)
}

func TestReturningNftUnlocks(t *testing.T) {
	h := newInitializedHarness(t)
	alice, bob := addr("alice"), addr("bob")
	mint := h.mint(t, alice, true)

	_, err := h.svc.CrossChainTransfer(h.ctx, alice, TransferParams{
		Mint: mint, DestinationChainID: evmChain, Recipient: bytes.Repeat([]byte{0xAA}, 20), Nonce: 1,
	})
	require.NoError(t, err)

	back := h.inbound(0x66, 1, bob)
	back.Mint = mint

	wrongChain := back
	wrongChain.OriginChainID = 56
	_, err = h.svc.ReceiveCrossChain(h.ctx, h.sign(t, wrongChain))
	requireCode(t, err, types.ErrInvalidTransferState)

	res, err := h.svc.ReceiveCrossChain(h.ctx, h.sign(t, back))
	require.NoError(t, err)
	assert.False(t, res.NewMint)
	assert.Equal(t, mint, res.Mint)

	report, err := h.svc.VerifyOwnership(h.ctx, mint, &bob)
	require.NoError(t, err)
	assert.True(t, report.IsOwner)
	assert.False(t, report.Locked)
	assert.Equal(t, alice, report.OriginalOwner)

	out, err := h.svc.Transfer(h.ctx, mint, 1)
	require.NoError(t, err)
	assert.Equal(t, models.TransferFinalized, out.Status)

	cfg := h.config(t)
	assert.Equal(t, uint64(1), cfg.TotalMinted, "returning NFT is not a new mint")
	assert.Equal(t, uint64(1), cfg.ReceiveCount)

	// Not locked any more, so a second return is rejected.
	again := h.inbound(0x67, 1, bob)
	again.Mint = mint
	_, err = h.svc.ReceiveCrossChain(h.ctx, h.sign(t, again))
	requireCode(t, err, types.ErrInvalidTransferState)
}

func TestPauseBlocksCrossChainTraffic(t *testing.T) {
	h := newInitializedHarness(t)
	owner := addr("alice")
	mint := h.mint(t, owner, true)

	requireCode(t, h.svc.SetPaused(h.ctx, owner, true), types.ErrUnauthorized)
	require.NoError(t, h.svc.SetPaused(h.ctx, h.authority, true))

	_, err := h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{
		Mint: mint, DestinationChainID: evmChain, Recipient: bytes.Repeat([]byte{0xAA}, 20), Nonce: 1,
	})
	requireCode(t, err, types.ErrPaused)

	_, err = h.svc.ReceiveCrossChain(h.ctx, h.sign(t, h.inbound(0x77, 1, owner)))
	requireCode(t, err, types.ErrPaused)

	require.NoError(t, h.svc.SetPaused(h.ctx, h.authority, false))
	_, err = h.svc.ReceiveCrossChain(h.ctx, h.sign(t, h.inbound(0x77, 1, owner)))
	require.NoError(t, err)
	assert.Len(t, h.recorder.OfType(events.ProgramPaused), 2)
}

func TestAddSupportedChain(t *testing.T) {
	h := newHarness(t, utils.SolanaChainID, utils.ComputeBudget{})
	_, err := h.svc.Initialize(h.ctx, h.authority, InitializeParams{
		Gateway: h.gateway, TssAuthority: h.tss.Address(), HomeChainID: h.home,
		SupportedChains: []uint64{evmChain},
	})
	require.NoError(t, err)
	owner := addr("alice")
	mint := h.mint(t, owner, true)
	recipient := bytes.Repeat([]byte{0xAA}, 20)

	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: 56, Recipient: recipient, Nonce: 1})
	requireCode(t, err, types.ErrUnsupportedChain)

	requireCode(t, h.svc.AddSupportedChain(h.ctx, owner, 56), types.ErrUnauthorized)
	requireCode(t, h.svc.AddSupportedChain(h.ctx, h.authority, 424242), types.ErrUnsupportedChain)
	require.NoError(t, h.svc.AddSupportedChain(h.ctx, h.authority, 56))
	require.NoError(t, h.svc.AddSupportedChain(h.ctx, h.authority, 56))
	assert.Equal(t, []uint64{evmChain, 56}, h.config(t).SupportedChains)

	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{Mint: mint, DestinationChainID: 56, Recipient: recipient, Nonce: 1})
	require.NoError(t, err)
}

func TestComputeBudgetExhaustion(t *testing.T) {
	h := newHarness(t, utils.SolanaChainID, utils.ComputeBudget{UnitLimit: 250_000})
	_, err := h.svc.Initialize(h.ctx, h.authority, InitializeParams{Gateway: h.gateway, TssAuthority: h.tss.Address(), HomeChainID: h.home})
	require.NoError(t, err)

	owner := addr("alice")
	mint := h.mint(t, owner, true)
	_, err = h.svc.CrossChainTransfer(h.ctx, owner, TransferParams{
		Mint: mint, DestinationChainID: evmChain, Recipient: bytes.Repeat([]byte{0xAA}, 20), Nonce: 1,
	})
	requireCode(t, err, types.ErrResourceExhausted)

	_, err = h.svc.ReceiveCrossChain(h.ctx, h.sign(t, h.inbound(0x88, 1, owner)))
	requireCode(t, err, types.ErrResourceExhausted)

	report, err := h.svc.VerifyOwnership(h.ctx, mint, nil)
	require.NoError(t, err)
	assert.False(t, report.Locked)
}

func TestAccountSizeExhaustion(t *testing.T) {
	h := newHarness(t, utils.SolanaChainID, utils.ComputeBudget{MaxAccountSize: models.ProgramConfigMaxSize})
	_, err := h.svc.Initialize(h.ctx, h.authority, InitializeParams{Gateway: h.gateway, TssAuthority: h.tss.Address(), HomeChainID: h.home})
	require.NoError(t, err)

	_, err = h.svc.MintNFT(h.ctx, h.authority, MintParams{
		URI: string(bytes.Repeat([]byte("u"), models.MaxURILength)), Name: "n", Recipient: addr("alice"),
	})
	requireCode(t, err, types.ErrResourceExhausted)
	assert.Zero(t, h.config(t).TotalMinted)
}

func TestVerifyOwnershipUnknownMint(t *testing.T) {
	h := newInitializedHarness(t)
	_, err := h.svc.VerifyOwnership(h.ctx, addr("ghost"), nil)
	requireCode(t, err, types.ErrNotFound)
}

func TestEndToEndTransferAndDelivery(t *testing.T) {
	src := newInitializedHarness(t)
	alice := addr("alice")
	mint := src.mint(t, alice, true)

	recipient := bytes.Repeat([]byte{0xAA}, 20)
	_, err := src.svc.CrossChainTransfer(src.ctx, alice, TransferParams{
		Mint: mint, DestinationChainID: evmChain, Recipient: recipient, Nonce: 1,
	})
	require.NoError(t, err)

	report, err := src.svc.VerifyOwnership(src.ctx, mint, &alice)
	require.NoError(t, err)
	assert.True(t, report.Locked)

	initiated := src.recorder.OfType(events.CrossChainTransfer)
	require.Len(t, initiated, 1)
	assert.Equal(t, common.BytesToAddress(recipient).Hex(), initiated[0].Recipient)

	// A second deployment plays the destination ledger; the relay signs
	// with the TSS key that deployment trusts.
	dst := newHarness(t, devnetChain, utils.ComputeBudget{})
	dst.tss = src.tss
	_, err = dst.svc.Initialize(dst.ctx, dst.authority, InitializeParams{
		Gateway: dst.gateway, TssAuthority: dst.tss.Address(), HomeChainID: dst.home,
	})
	require.NoError(t, err)

	msg := dst.inbound(0x99, 1, addr("carol"))
	msg.URI, msg.Name, msg.Symbol = "ipfs://bafy/ape.json", "Bridge Ape", "BAPE"
	msg = dst.sign(t, msg)

	res, err := dst.svc.ReceiveCrossChain(dst.ctx, msg)
	require.NoError(t, err)
	assert.True(t, res.NewMint)

	_, err = dst.svc.ReceiveCrossChain(dst.ctx, msg)
	requireCode(t, err, types.ErrInvalidNonce)
	assert.Equal(t, uint64(1), dst.config(t).TotalMinted)

	// A message signed for another home chain does not verify here.
	foreign := src.sign(t, src.inbound(0x9A, 1, addr("carol")))
	_, err = dst.svc.ReceiveCrossChain(dst.ctx, foreign)
	requireCode(t, err, types.ErrInvalidSignature)
}
