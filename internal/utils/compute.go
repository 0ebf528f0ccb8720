package utils

import (
	"errors"
	"fmt"
)

// Operation names, shared by the budget table, metrics and logs.
const (
	OpInitialize         = "initialize"
	OpMint               = "mint_nft"
	OpCrossChainTransfer = "cross_chain_transfer"
	OpReceiveCrossChain  = "receive_cross_chain"
	OpVerifyOwnership    = "verify_ownership"
	OpConfirmTransfer    = "confirm_transfer"
	OpRevertTransfer     = "revert_transfer"
	OpSetPaused          = "set_paused"
	OpAddSupportedChain  = "add_supported_chain"
)

// DefaultComputeUnits flat cost charged when an operation has no entry.
const DefaultComputeUnits uint64 = 100_000

var operationCosts = map[string]uint64{
	OpMint:               200_000,
	OpCrossChainTransfer: 300_000,
	OpReceiveCrossChain:  400_000,
	OpVerifyOwnership:    50_000,
}

var ErrBudgetExceeded = errors.New("budget exceeded")

// OperationCost compute units an operation consumes.
func OperationCost(op string) uint64 {
	if cost, ok := operationCosts[op]; ok {
		return cost
	}
	return DefaultComputeUnits
}

// ComputeBudget per-call resource limits. A zero field disables that limit.
type ComputeBudget struct {
	UnitLimit      uint64
	MaxAccountSize int
}

// Charge fails when op costs more than the per-call unit limit.
func (b ComputeBudget) Charge(op string) error {
	cost := OperationCost(op)
	if b.UnitLimit > 0 && cost > b.UnitLimit {
		return fmt.Errorf("%w: %s needs %d units, limit %d", ErrBudgetExceeded, op, cost, b.UnitLimit)
	}
	return nil
}

// CheckAccountSize fails when an account would exceed the size limit.
func (b ComputeBudget) CheckAccountSize(size int) error {
	if b.MaxAccountSize > 0 && size > b.MaxAccountSize {
		return fmt.Errorf("%w: account of %d bytes, limit %d", ErrBudgetExceeded, size, b.MaxAccountSize)
	}
	return nil
}
