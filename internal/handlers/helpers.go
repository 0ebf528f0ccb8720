package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/utils"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SignerContextKey is where the auth middleware stores the caller address.
const SignerContextKey = "signer"

// statusForCode maps bridge error codes onto HTTP statuses.
func statusForCode(code types.ErrorCode) int {
	switch code {
	case types.ErrUnauthorized:
		return http.StatusForbidden
	case types.ErrInvalidSignature:
		return http.StatusUnauthorized
	case types.ErrNotFound, types.ErrProgramNotInitialized:
		return http.StatusNotFound
	case types.ErrInvalidNonce, types.ErrAlreadyLocked, types.ErrAlreadyInitialized, types.ErrInvalidTransferState:
		return http.StatusConflict
	case types.ErrResourceExhausted:
		return http.StatusTooManyRequests
	case types.ErrPaused:
		return http.StatusServiceUnavailable
	case types.ErrArithmeticOverflow:
		return http.StatusInternalServerError
	default:
		return http.StatusUnprocessableEntity
	}
}

// respondWithError unified error response function
func respondWithError(c *gin.Context, statusCode int, errorType, message string) {
	c.JSON(statusCode, gin.H{
		"success": false,
		"error":   errorType,
		"message": message,
	})
}

// respondWithBridgeError writes err with the status of its code. Untyped
// errors are logged and reported as internal.
func respondWithBridgeError(c *gin.Context, logger *logrus.Logger, operation string, err error) {
	code, ok := types.CodeOf(err)
	if !ok {
		logger.WithFields(logrus.Fields{
			"operation": operation,
			"path":      c.Request.URL.Path,
			"error":     err.Error(),
		}).Error("Request failed")
		respondWithError(c, http.StatusInternalServerError, "INTERNAL", "internal error")
		return
	}
	respondWithError(c, statusForCode(code), string(code), err.Error())
}

func badRequest(c *gin.Context, message string) {
	respondWithError(c, http.StatusBadRequest, "BAD_REQUEST", message)
}

// signerFrom returns the authenticated caller set by the auth middleware.
func signerFrom(c *gin.Context) (ledger.Address, bool) {
	v, ok := c.Get(SignerContextKey)
	if !ok {
		return ledger.Address{}, false
	}
	addr, ok := v.(ledger.Address)
	return addr, ok
}

func mintParam(c *gin.Context) (ledger.Address, bool) {
	mint, err := ledger.ParseAddress(c.Param("mint"))
	if err != nil {
		badRequest(c, "invalid mint address")
		return ledger.Address{}, false
	}
	return mint, true
}

func nonceParam(c *gin.Context) (uint64, bool) {
	nonce, err := strconv.ParseUint(c.Param("nonce"), 10, 64)
	if err != nil {
		badRequest(c, "invalid nonce")
		return 0, false
	}
	return nonce, true
}

func decodeHexField(name, value string) ([]byte, error) {
	raw, err := hexutil.Decode(value)
	if err != nil {
		return nil, types.NewError(types.ErrInvalidMetadata, "%s: %v", name, err)
	}
	return raw, nil
}

// decodeChainAddress reads a foreign address. 0x hex passes through as raw
// bytes and is validated by the bridge; any other text is parsed in the
// chain's native format.
func decodeChainAddress(registry *utils.ChainRegistry, chainID uint64, text string) ([]byte, error) {
	if strings.HasPrefix(text, "0x") || strings.HasPrefix(text, "0X") {
		raw, err := hexutil.Decode("0x" + text[2:])
		if err != nil {
			return nil, types.NewError(types.ErrInvalidRecipientAddress, "%v", err)
		}
		return raw, nil
	}
	raw, err := registry.DecodeAddress(chainID, text)
	if errors.Is(err, utils.ErrUnknownChain) {
		return nil, types.NewError(types.ErrUnsupportedChain, "%v", err)
	}
	if err != nil {
		return nil, types.NewError(types.ErrInvalidRecipientAddress, "%v", err)
	}
	return raw, nil
}
