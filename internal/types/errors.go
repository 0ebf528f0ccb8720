package types

import (
	"errors"
	"fmt"
)

// ErrorCode names the precondition an operation failed on.
type ErrorCode string

const (
	ErrUnauthorized            ErrorCode = "UNAUTHORIZED"
	ErrInvalidSignature        ErrorCode = "INVALID_SIGNATURE"
	ErrInvalidNonce            ErrorCode = "INVALID_NONCE"
	ErrInvalidRecipientAddress ErrorCode = "INVALID_RECIPIENT_ADDRESS"
	ErrAlreadyLocked           ErrorCode = "ALREADY_LOCKED"
	ErrAlreadyInitialized      ErrorCode = "ALREADY_INITIALIZED"
	ErrResourceExhausted       ErrorCode = "RESOURCE_EXHAUSTED"

	ErrProgramNotInitialized ErrorCode = "PROGRAM_NOT_INITIALIZED"
	ErrPaused                ErrorCode = "PAUSED"
	ErrCrossChainNotEnabled  ErrorCode = "CROSS_CHAIN_NOT_ENABLED"
	ErrUnsupportedChain      ErrorCode = "UNSUPPORTED_CHAIN"
	ErrInvalidMetadata       ErrorCode = "INVALID_METADATA"
	ErrInvalidAuthority      ErrorCode = "INVALID_AUTHORITY"
	ErrInvalidTransferState  ErrorCode = "INVALID_TRANSFER_STATE"
	ErrNotFound              ErrorCode = "NOT_FOUND"
	ErrArithmeticOverflow    ErrorCode = "ARITHMETIC_OVERFLOW"
)

// BridgeError is returned by every bridge operation that aborts on a
// precondition. errors.Is matches on Code alone.
type BridgeError struct {
	Code ErrorCode
	Msg  string
}

func (e *BridgeError) Error() string {
	if e.Msg == "" {
		return string(e.Code)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *BridgeError) Is(target error) bool {
	var other *BridgeError
	if !errors.As(target, &other) {
		return false
	}
	return other.Code == e.Code
}

func NewError(code ErrorCode, format string, args ...interface{}) *BridgeError {
	return &BridgeError{Code: code, Msg: fmt.Sprintf(format, args...)}
}

// Sentinel returns a message-less error usable as an errors.Is target.
func Sentinel(code ErrorCode) *BridgeError {
	return &BridgeError{Code: code}
}

// CodeOf extracts the code of a BridgeError anywhere in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var be *BridgeError
	if errors.As(err, &be) {
		return be.Code, true
	}
	return "", false
}
