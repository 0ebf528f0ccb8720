package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/clients"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/config"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/db"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/events"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/handlers"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/ledger"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/repository"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/router"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/services"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/utils"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ServiceContainer wires the bridge node together.
type ServiceContainer struct {
	Config *config.Config
	Logger *logrus.Logger

	// Ledger
	Store    ledger.Store
	Accounts repository.AccountRepository // set on the postgres backend

	Registry *utils.ChainRegistry
	Bridge   *services.BridgeService

	// Event fan-out
	Emitter     *events.MultiEmitter
	PushService *services.WebSocketPushService
	NATSClient  *clients.NATSClient

	Monitoring *services.MonitoringService
}

// InitializeContainer opens the ledger and builds every service. NATS is
// optional: a connection failure is logged and events go to the other
// emitters.
func InitializeContainer(cfg *config.Config, logger *logrus.Logger) (*ServiceContainer, error) {
	c := &ServiceContainer{Config: cfg, Logger: logger}

	if err := c.initRegistry(); err != nil {
		return nil, fmt.Errorf("failed to initialize chain registry: %w", err)
	}
	if err := c.initStore(); err != nil {
		return nil, fmt.Errorf("failed to initialize ledger: %w", err)
	}
	c.initEmitters()

	programID, err := ledger.ParseAddress(cfg.Program.ProgramID)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("program.programId: %w", err)
	}
	c.Bridge = services.NewBridgeService(c.Store, services.BridgeOptions{
		ProgramID: programID,
		Registry:  c.Registry,
		Budget: utils.ComputeBudget{
			UnitLimit:      cfg.Budget.ComputeUnitLimit,
			MaxAccountSize: cfg.Budget.MaxAccountSize,
		},
		Emitter: c.Emitter,
		Logger:  logger,
	})

	var nats services.ConnectionChecker
	if c.NATSClient != nil {
		nats = c.NATSClient
	}
	c.Monitoring = services.NewMonitoringService(c.Bridge, db.DB, nats, logger)

	logger.WithFields(logrus.Fields{
		"program_id": programID.String(),
		"ledger":     cfg.Ledger.Backend,
		"chains":     len(c.Registry.GetAllChains()),
	}).Info("Service container initialized")
	return c, nil
}

func (c *ServiceContainer) initRegistry() error {
	c.Registry = utils.NewChainRegistry(utils.DefaultChains()...)
	for _, chain := range c.Config.Chains {
		family, err := utils.ParseChainFamily(chain.Family)
		if err != nil {
			return fmt.Errorf("chain %d: %w", chain.ChainID, err)
		}
		err = c.Registry.Register(&utils.ChainInfo{
			ChainID:     chain.ChainID,
			Name:        chain.Name,
			Symbol:      chain.Symbol,
			Family:      family,
			Testnet:     chain.Testnet,
			ExplorerURL: chain.ExplorerURL,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (c *ServiceContainer) initStore() error {
	switch c.Config.Ledger.Backend {
	case "", "bolt":
		store, err := ledger.OpenBolt(c.Config.Ledger.Path)
		if err != nil {
			return err
		}
		c.Store = store
	case "postgres":
		if err := db.InitDB(c.Config.Database, c.Logger); err != nil {
			return err
		}
		c.Accounts = repository.NewAccountRepository(db.DB)
		c.Store = c.Accounts
	default:
		return fmt.Errorf("unknown ledger backend %q", c.Config.Ledger.Backend)
	}
	return nil
}

func (c *ServiceContainer) initEmitters() {
	c.PushService = services.NewWebSocketPushService(c.Logger)
	c.Emitter = events.NewMultiEmitter(c.Logger, events.NewLogEmitter(c.Logger), c.PushService)

	if c.Config.NATS.URL == "" {
		c.Logger.Info("NATS not configured, relay events are not published")
		return
	}
	natsClient, err := clients.NewNATSClient(c.Config.NATS, c.Logger)
	if err != nil {
		c.Logger.WithError(err).Warn("NATS unavailable, relay events are not published")
		return
	}
	emitter := events.NewNATSEmitter(natsClient, c.Config.NATS.SubjectPrefix)
	if c.Config.NATS.EnableJetStream {
		if err := natsClient.EnsureStream(c.Config.NATS.StreamName, emitter.Subjects()); err != nil {
			c.Logger.WithError(err).Warn("JetStream stream setup failed")
		}
	}
	c.NATSClient = natsClient
	c.Emitter.Add(emitter)
}

// Bootstrap initializes the program from config when it has not been
// initialized yet. It does nothing if authority, gateway or TSS address
// are left unset.
func (c *ServiceContainer) Bootstrap(ctx context.Context) error {
	p := c.Config.Program
	if p.Authority == "" || p.Gateway == "" || p.TSSAddress == "" {
		return nil
	}
	authority, err := ledger.ParseAddress(p.Authority)
	if err != nil {
		return fmt.Errorf("program.authority: %w", err)
	}
	gateway, err := ledger.ParseAddress(p.Gateway)
	if err != nil {
		return fmt.Errorf("program.gateway: %w", err)
	}
	if !common.IsHexAddress(p.TSSAddress) {
		return fmt.Errorf("program.tssAddress: not an EVM address")
	}

	_, err = c.Bridge.Initialize(ctx, authority, services.InitializeParams{
		Gateway:         gateway,
		TssAuthority:    common.HexToAddress(p.TSSAddress),
		HomeChainID:     p.HomeChainID,
		SupportedChains: p.SupportedChains,
	})
	if errors.Is(err, types.Sentinel(types.ErrAlreadyInitialized)) {
		c.Logger.Info("Program already initialized")
		return nil
	}
	return err
}

// Router builds the HTTP API on top of the container's services.
func (c *ServiceContainer) Router() *gin.Engine {
	return router.SetupRouter(c.Config, router.Handlers{
		Bridge:    handlers.NewBridgeHandler(c.Bridge, c.Logger),
		Auth:      handlers.NewAuthHandler(c.Config.Auth, c.Logger),
		AdminAuth: handlers.NewAdminAuthHandler(c.Config.Admin, c.Config.Auth, c.Logger),
		Admin:     handlers.NewAdminMetricsHandler(c.Bridge, c.PushService, c.Accounts, c.Logger),
		Chains:    handlers.NewChainConfigHandler(c.Bridge),
		WebSocket: handlers.NewWebSocketHandler(c.PushService),
	}, c.Logger)
}

// Cleanup releases connections. Safe to call more than once.
func (c *ServiceContainer) Cleanup() {
	if c.Monitoring != nil {
		c.Monitoring.Stop()
	}
	if c.NATSClient != nil {
		c.NATSClient.Close()
		c.NATSClient = nil
	}
	if c.Store != nil {
		if err := c.Store.Close(); err != nil {
			c.Logger.WithError(err).Warn("Ledger close failed")
		}
		c.Store = nil
	}
}
