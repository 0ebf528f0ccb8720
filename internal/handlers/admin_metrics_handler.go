package handlers

import (
	"net/http"
	"strconv"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/dto"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/repository"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/services"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// AdminMetricsHandler operator view of the bridge state.
type AdminMetricsHandler struct {
	bridge   *services.BridgeService
	push     *services.WebSocketPushService
	accounts repository.AccountRepository // nil on the bolt backend
	logger   *logrus.Logger
}

func NewAdminMetricsHandler(bridge *services.BridgeService, push *services.WebSocketPushService, accounts repository.AccountRepository, logger *logrus.Logger) *AdminMetricsHandler {
	return &AdminMetricsHandler{bridge: bridge, push: push, accounts: accounts, logger: logger}
}

// StatsHandler GET /api/admin/stats
func (h *AdminMetricsHandler) StatsHandler(c *gin.Context) {
	resp := gin.H{
		"success":               true,
		"websocket_connections": h.push.GetActiveConnections(),
	}

	cfg, err := h.bridge.Config(c.Request.Context())
	switch code, _ := types.CodeOf(err); {
	case err == nil:
		resp["program"] = dto.NewProgramConfigResponse(cfg)
	case code == types.ErrProgramNotInitialized:
		resp["program"] = nil
	default:
		respondWithBridgeError(c, h.logger, "admin_stats", err)
		return
	}

	if h.accounts != nil {
		counts, err := h.accounts.CountByKind(c.Request.Context())
		if err != nil {
			respondWithBridgeError(c, h.logger, "admin_stats", err)
			return
		}
		resp["accounts"] = counts
	}
	c.JSON(http.StatusOK, resp)
}

// ListAccountsHandler GET /api/admin/accounts?kind=NftRecord&limit=50&offset=0
func (h *AdminMetricsHandler) ListAccountsHandler(c *gin.Context) {
	if h.accounts == nil {
		respondWithError(c, http.StatusNotImplemented, "NOT_SUPPORTED", "account listing needs the postgres ledger backend")
		return
	}
	kind := c.Query("kind")
	if kind == "" {
		badRequest(c, "kind is required")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 500 {
		badRequest(c, "limit must be 1..500")
		return
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		badRequest(c, "invalid offset")
		return
	}

	accounts, err := h.accounts.ListByKind(c.Request.Context(), kind, limit, offset)
	if err != nil {
		respondWithBridgeError(c, h.logger, "admin_accounts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"accounts": accounts,
		"total":    len(accounts),
	})
}
