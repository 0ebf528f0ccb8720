package handlers

import (
	"net/http"
	"strconv"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/dto"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/models"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/services"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/utils"

	"github.com/gin-gonic/gin"
)

// ChainConfigHandler lists the chain registry.
type ChainConfigHandler struct {
	bridge *services.BridgeService
}

// NewChainConfigHandler creates a new ChainConfigHandler instance
func NewChainConfigHandler(bridge *services.BridgeService) *ChainConfigHandler {
	return &ChainConfigHandler{bridge: bridge}
}

// ListChainsHandler GET /api/chains
func (h *ChainConfigHandler) ListChainsHandler(c *gin.Context) {
	cfg, _ := h.bridge.Config(c.Request.Context())

	chains := h.bridge.Registry().GetAllChains()
	resp := make([]dto.ChainResponse, 0, len(chains))
	for _, info := range chains {
		resp = append(resp, chainResponse(info, cfg))
	}
	c.JSON(http.StatusOK, gin.H{
		"chains": resp,
		"total":  len(resp),
	})
}

// GetChainHandler GET /api/chains/:chain_id
func (h *ChainConfigHandler) GetChainHandler(c *gin.Context) {
	chainID, err := strconv.ParseUint(c.Param("chain_id"), 10, 64)
	if err != nil {
		badRequest(c, "invalid chain id")
		return
	}
	info, ok := h.bridge.Registry().Get(chainID)
	if !ok {
		respondWithError(c, http.StatusNotFound, "NOT_FOUND", "chain not registered")
		return
	}
	cfg, _ := h.bridge.Config(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"chain": chainResponse(info, cfg)})
}

// cfg is nil before initialize; nothing is supported then.
func chainResponse(info *utils.ChainInfo, cfg *models.ProgramConfig) dto.ChainResponse {
	return dto.ChainResponse{
		ChainID:     info.ChainID,
		Name:        info.Name,
		Symbol:      info.Symbol,
		Family:      info.Family.String(),
		AddressSize: info.Family.AddressLength(),
		Testnet:     info.Testnet,
		ExplorerURL: info.ExplorerURL,
		Supported:   cfg != nil && cfg.SupportsChain(info.ChainID),
	}
}
