package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/metrics"
	"github.com/devsyrem/zetachain-crosschain-NFT-project-sub000/internal/types"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ConnectionChecker is satisfied by the NATS client.
type ConnectionChecker interface {
	IsConnected() bool
}

// MonitoringService periodically refreshes the gauges that are not driven
// by operations: database pool health, NATS connectivity and the program
// configuration counters.
type MonitoringService struct {
	bridge   *BridgeService
	db       *gorm.DB // nil on the bolt backend
	nats     ConnectionChecker
	logger   *logrus.Logger
	interval time.Duration

	stopCh chan struct{}
	wg     sync.WaitGroup
	once   sync.Once
}

func NewMonitoringService(bridge *BridgeService, db *gorm.DB, nats ConnectionChecker, logger *logrus.Logger) *MonitoringService {
	return &MonitoringService{
		bridge:   bridge,
		db:       db,
		nats:     nats,
		logger:   logger,
		interval: 15 * time.Second,
		stopCh:   make(chan struct{}),
	}
}

// Start refreshes once, then keeps refreshing until Stop.
func (m *MonitoringService) Start() {
	m.logger.WithField("interval", m.interval).Info("🚀 Starting monitoring service")
	m.Refresh(context.Background())

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-m.stopCh:
				return
			case <-ticker.C:
				m.Refresh(context.Background())
			}
		}
	}()
}

func (m *MonitoringService) Stop() {
	m.once.Do(func() {
		close(m.stopCh)
		m.wg.Wait()
		m.logger.Info("Monitoring service stopped")
	})
}

// Refresh updates every gauge once.
func (m *MonitoringService) Refresh(ctx context.Context) {
	m.updateDatabaseMetrics(ctx)
	if m.nats != nil {
		if m.nats.IsConnected() {
			metrics.NATSConnectionStatus.Set(1)
		} else {
			metrics.NATSConnectionStatus.Set(0)
		}
	}
	m.updateProgramMetrics(ctx)
}

func (m *MonitoringService) updateDatabaseMetrics(ctx context.Context) {
	if m.db == nil {
		return
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		metrics.DBConnectionStatus.Set(0)
		return
	}

	stats := sqlDB.Stats()
	metrics.DBConnectionPoolSize.Set(float64(stats.MaxOpenConnections))
	metrics.DBConnectionActive.Set(float64(stats.InUse))
	metrics.DBConnectionIdle.Set(float64(stats.Idle))

	if err := sqlDB.PingContext(ctx); err != nil {
		m.logger.WithError(err).Warn("Ledger database ping failed")
		metrics.DBConnectionStatus.Set(0)
	} else {
		metrics.DBConnectionStatus.Set(1)
	}
}

func (m *MonitoringService) updateProgramMetrics(ctx context.Context) {
	cfg, err := m.bridge.Config(ctx)
	if err != nil {
		if !errors.Is(err, types.Sentinel(types.ErrProgramNotInitialized)) {
			m.logger.WithError(err).Warn("Failed to read program config")
		}
		return
	}
	metrics.ProgramTotalMinted.Set(float64(cfg.TotalMinted))
	metrics.ProgramTransferCount.Set(float64(cfg.TransferCount))
	if cfg.Paused {
		metrics.ProgramPaused.Set(1)
	} else {
		metrics.ProgramPaused.Set(0)
	}
}
