package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusForCode(t *testing.T) {
	cases := map[types.ErrorCode]int{
		types.ErrUnauthorized:            http.StatusForbidden,
		types.ErrInvalidSignature:        http.StatusUnauthorized,
		types.ErrNotFound:                http.StatusNotFound,
		types.ErrProgramNotInitialized:   http.StatusNotFound,
		types.ErrInvalidNonce:            http.StatusConflict,
		types.ErrAlreadyLocked:           http.StatusConflict,
		types.ErrAlreadyInitialized:      http.StatusConflict,
		types.ErrResourceExhausted:       http.StatusTooManyRequests,
		types.ErrPaused:                  http.StatusServiceUnavailable,
		types.ErrInvalidRecipientAddress: http.StatusUnprocessableEntity,
		types.ErrInvalidMetadata:         http.StatusUnprocessableEntity,
	}
	for code, want := range cases {
		assert.Equal(t, want, statusForCode(code), string(code))
	}
}

func TestRespondWithBridgeErrorHidesUntypedErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	respondWithBridgeError(c, logger, "test", errors.New("disk on fire"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "disk on fire")

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/x", nil)
	respondWithBridgeError(c, logger, "test", types.NewError(types.ErrAlreadyLocked, "locked"))
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "ALREADY_LOCKED")
}

func TestDecodeChainAddress(t *testing.T) {
	registry := utils.NewChainRegistry(utils.DefaultChains()...)
	evm := bytes.Repeat([]byte{0x11}, 20)

	raw, err := decodeChainAddress(registry, 1, "0x1111111111111111111111111111111111111111")
	require.NoError(t, err)
	assert.Equal(t, evm, raw)

	tron := append([]byte{0x41}, evm...)
	raw, err = decodeChainAddress(registry, 728126428, registry.FormatAddress(728126428, tron))
	require.NoError(t, err)
	assert.Equal(t, tron, raw)

	_, err = decodeChainAddress(registry, 424242, "not-hex")
	code, _ := types.CodeOf(err)
	assert.Equal(t, types.ErrUnsupportedChain, code)

	_, err = decodeChainAddress(registry, utils.SolanaChainID, "0OIl")
	code, _ = types.CodeOf(err)
	assert.Equal(t, types.ErrInvalidRecipientAddress, code)

	_, err = decodeChainAddress(registry, 1, "0xzz")
	code, _ = types.CodeOf(err)
	assert.Equal(t, types.ErrInvalidRecipientAddress, code)
}
