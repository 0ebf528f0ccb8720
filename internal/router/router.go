package router

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/config"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/handlers"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Handlers everything the router mounts.
type Handlers struct {
	Bridge    *handlers.BridgeHandler
	Auth      *handlers.AuthHandler
	AdminAuth *handlers.AdminAuthHandler
	Admin     *handlers.AdminMetricsHandler
	Chains    *handlers.ChainConfigHandler
	WebSocket *handlers.WebSocketHandler
}

// corsMiddleware CORS middleware. An empty or "*" origin list allows all.
func corsMiddleware(cfg config.CORSConfig) gin.HandlerFunc {
	allowAll := len(cfg.AllowedOrigins) == 0
	allowed := make(map[string]bool, len(cfg.AllowedOrigins))
	for _, o := range cfg.AllowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}
	maxAge := cfg.MaxAge
	if maxAge <= 0 {
		maxAge = 3600
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		switch {
		case allowAll:
			c.Header("Access-Control-Allow-Origin", "*")
		case origin != "" && allowed[origin]:
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Vary", "Origin")
		case origin != "":
			logrus.WithFields(logrus.Fields{
				"request_origin": origin,
				"path":           c.Request.URL.Path,
				"method":         c.Request.Method,
			}).Warn("CORS: Origin not in whitelist")
		}

		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization, Cache-Control, Accept, X-Request-ID")
		if cfg.AllowCredentials && !allowAll {
			c.Header("Access-Control-Allow-Credentials", "true")
		}
		c.Header("Access-Control-Expose-Headers", "Content-Length, Content-Type, X-Request-ID")
		c.Header("Access-Control-Max-Age", strconv.Itoa(maxAge))

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func SetupRouter(cfg *config.Config, h Handlers, logger *logrus.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestMetrics(logger))
	r.Use(corsMiddleware(cfg.CORS))

	auth := middleware.NewAuthMiddleware(logger, h.Auth)
	adminAuth := middleware.NewAdminAuthMiddleware(logger, h.AdminAuth)
	allowlist := middleware.NewIPAllowlist(logger, cfg.Admin.AllowedIPs)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	r.GET("/health", handlers.HealthCheckHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ============ Event stream ============
	r.GET("/ws/events", h.WebSocket.HandleWebSocket)
	r.GET("/ws/status", h.WebSocket.GetConnectionStatus)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		authGroup.GET("/nonce", h.Auth.GenerateNonceHandler)
		authGroup.POST("/login", h.Auth.AuthenticateHandler)

		program := api.Group("/program")
		program.GET("/config", h.Bridge.GetConfigHandler)
		program.POST("/initialize", auth.RequireAuth(), h.Bridge.InitializeHandler)
		program.POST("/pause", auth.RequireAuth(), h.Bridge.SetPausedHandler)
		program.POST("/chains", auth.RequireAuth(), h.Bridge.AddSupportedChainHandler)

		api.GET("/chains", h.Chains.ListChainsHandler)
		api.GET("/chains/:chain_id", h.Chains.GetChainHandler)

		nfts := api.Group("/nfts")
		nfts.POST("", auth.RequireAuth(), h.Bridge.MintHandler)
		nfts.GET("/:mint", h.Bridge.GetNftHandler)
		nfts.GET("/:mint/ownership", h.Bridge.VerifyOwnershipHandler)
		nfts.POST("/:mint/transfers", auth.RequireAuth(), h.Bridge.TransferHandler)
		nfts.GET("/:mint/transfers/:nonce", h.Bridge.GetTransferHandler)
		nfts.POST("/:mint/transfers/:nonce/confirm", h.Bridge.ConfirmTransferHandler)
		nfts.POST("/:mint/transfers/:nonce/revert", auth.RequireAuth(), h.Bridge.RevertTransferHandler)

		inbound := api.Group("/inbound")
		inbound.POST("", h.Bridge.ReceiveHandler)
		inbound.GET("/:tx_hash/:nonce", h.Bridge.GetReceiptHandler)

		admin := api.Group("/admin", allowlist.Restrict())
		admin.POST("/login", h.AdminAuth.AdminLoginHandler)
		admin.GET("/totp/generate", h.AdminAuth.GenerateTOTPSecretHandler)
		admin.GET("/stats", adminAuth.RequireAdminAuth(), h.Admin.StatsHandler)
		admin.GET("/accounts", adminAuth.RequireAdminAuth(), h.Admin.ListAccountsHandler)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   "NOT_FOUND",
			"message": "Endpoint not found",
			"path":    c.Request.URL.Path,
		})
	})

	return r
}
