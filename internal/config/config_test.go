package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
server:
  port: 9090
ledger:
  backend: bolt
  path: /tmp/bridge/ledger.db
program:
  programId: "11111111111111111111111111111111"
  tssAddress: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
  homeChainId: 7565164
  supportedChains: [1, 56]
chains:
  - chainId: 10
    name: Optimism
    family: evm
nats:
  url: nats://localhost:4222
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadAppliesDefaultsAndFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, []uint64{1, 56}, cfg.Program.SupportedChains)
	assert.Equal(t, "universal-nft", cfg.NATS.SubjectPrefix)
	require.Len(t, cfg.Chains, 1)
	assert.Equal(t, "evm", cfg.Chains[0].Family)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "7070")
	t.Setenv("TSS_ADDRESS", "0x0000000000000000000000000000000000000001")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "0x0000000000000000000000000000000000000001", cfg.Program.TSSAddress)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORS.AllowedOrigins)
}

func TestLoadRejectsInvalidBackend(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")
	t.Setenv("LEDGER_BACKEND", "")
	_, err := Load(writeConfig(t, "ledger:\n  backend: redis\nprogram:\n  programId: x\n"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "ledger:\n  backend: postgres\nprogram:\n  programId: x\n"))
	assert.ErrorContains(t, err, "database.dsn")
}

func TestLoadConfigSetsAppConfig(t *testing.T) {
	AppConfig = nil
	require.NoError(t, LoadConfig(writeConfig(t, sampleYAML)))
	require.NotNil(t, AppConfig)
	assert.Equal(t, uint64(7565164), AppConfig.Program.HomeChainID)
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger := NewLogger(LogConfig{Level: "nonsense"})
	assert.Equal(t, logrus.InfoLevel, logger.GetLevel())

	logger = NewLogger(LogConfig{Level: "debug", Format: "json"})
	assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	assert.IsType(t, &logrus.JSONFormatter{}, logger.Formatter)
}
