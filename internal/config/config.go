package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config bridge node configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
	Ledger   LedgerConfig   `yaml:"ledger"`
	Database DatabaseConfig `yaml:"database"`
	NATS     NATSConfig     `yaml:"nats"`
	Program  ProgramConfig  `yaml:"program"`
	Budget   BudgetConfig   `yaml:"budget"`
	Chains   []ChainConfig  `yaml:"chains"` // registered on top of the built-in chains
	Auth     AuthConfig     `yaml:"auth"`
	Admin    AdminConfig    `yaml:"admin"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig server configuration
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// LogConfig logrus level and format
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text | json
}

// LedgerConfig selects the account store backend
type LedgerConfig struct {
	Backend string `yaml:"backend"` // bolt | postgres
	Path    string `yaml:"path"`    // bolt file
}

// DatabaseConfig Database configuration
type DatabaseConfig struct {
	DSN    string `yaml:"dsn"`
	Driver string `yaml:"driver"`
}

// NATSConfig event publishing
type NATSConfig struct {
	URL             string `yaml:"url"`
	Timeout         int    `yaml:"timeout"`
	ReconnectWait   int    `yaml:"reconnect_wait"`
	MaxReconnects   int    `yaml:"max_reconnects"`
	EnableJetStream bool   `yaml:"enable_jetstream"`
	StreamName      string `yaml:"stream_name"`
	SubjectPrefix   string `yaml:"subject_prefix"`
}

// ProgramConfig identity of this bridge deployment
type ProgramConfig struct {
	ProgramID       string   `yaml:"programId"`       // base58, seeds every derived address
	Authority       string   `yaml:"authority"`       // base58 host address allowed to mint and administer
	Gateway         string   `yaml:"gateway"`         // base58 gateway program address
	TSSAddress      string   `yaml:"tssAddress"`      // 0x EVM address of the relay TSS key
	HomeChainID     uint64   `yaml:"homeChainId"`
	SupportedChains []uint64 `yaml:"supportedChains"` // empty means every registered chain
}

// BudgetConfig per-call resource limits
type BudgetConfig struct {
	ComputeUnitLimit uint64 `yaml:"computeUnitLimit"`
	MaxAccountSize   int    `yaml:"maxAccountSize"`
}

// ChainConfig extra registry entry
type ChainConfig struct {
	ChainID     uint64 `yaml:"chainId"`
	Name        string `yaml:"name"`
	Symbol      string `yaml:"symbol"`
	Family      string `yaml:"family"` // evm | solana | tron
	Testnet     bool   `yaml:"testnet"`
	ExplorerURL string `yaml:"explorerUrl"`
}

// AuthConfig caller JWTs
type AuthConfig struct {
	JWTSecret     string `yaml:"jwtSecret"`
	TokenTTLHours int    `yaml:"tokenTtlHours"`
	Issuer        string `yaml:"issuer"`
}

// AdminConfig admin login
type AdminConfig struct {
	Username   string   `yaml:"username"`
	Password   string   `yaml:"password"`
	TOTPSecret string   `yaml:"totpSecret"`
	AllowedIPs []string `yaml:"allowedIPs"`
}

// CORSConfig CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string `yaml:"allowedOrigins"`
	AllowCredentials bool     `yaml:"allowCredentials"`
	MaxAge           int      `yaml:"maxAge"`
}

var AppConfig *Config

// Default values used when the file leaves a field empty.
func Default() Config {
	return Config{
		Server: ServerConfig{Host: "0.0.0.0", Port: 8080},
		Log:    LogConfig{Level: "info", Format: "text"},
		Ledger: LedgerConfig{Backend: "bolt", Path: "data/ledger.db"},
		NATS: NATSConfig{
			Timeout:       10,
			ReconnectWait: 5,
			MaxReconnects: -1,
			StreamName:    "UNIVERSAL_NFT",
			SubjectPrefix: "universal-nft",
		},
		Program: ProgramConfig{HomeChainID: 7565164},
		Budget: BudgetConfig{
			ComputeUnitLimit: 1_400_000,
			MaxAccountSize:   10 * 1024,
		},
		Auth: AuthConfig{TokenTTLHours: 24, Issuer: "universal-nft-bridge"},
	}
}

// Load reads a config file without touching AppConfig.
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
		if _, err := os.Stat("config.local.yaml"); err == nil {
			configPath = "config.local.yaml"
		}
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	overrideFromEnv(&config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"path":           configPath,
		"ledger_backend": config.Ledger.Backend,
		"home_chain_id":  config.Program.HomeChainID,
		"extra_chains":   len(config.Chains),
	}).Info("Configuration loaded")
	return &config, nil
}

// LoadConfig Load configuration file into AppConfig
func LoadConfig(configPath string) error {
	config, err := Load(configPath)
	if err != nil {
		return err
	}
	AppConfig = config
	return nil
}

// Validate rejects settings the node cannot start with.
func (c *Config) Validate() error {
	switch c.Ledger.Backend {
	case "bolt":
		if c.Ledger.Path == "" {
			return fmt.Errorf("ledger.path required for bolt backend")
		}
	case "postgres":
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn required for postgres backend")
		}
	default:
		return fmt.Errorf("unknown ledger backend %q", c.Ledger.Backend)
	}
	if c.Program.ProgramID == "" {
		return fmt.Errorf("program.programId required")
	}
	if c.Program.HomeChainID == 0 {
		return fmt.Errorf("program.homeChainId required")
	}
	for _, chain := range c.Chains {
		if chain.ChainID == 0 {
			return fmt.Errorf("chains: chainId required")
		}
	}
	return nil
}

// overrideFromEnv Override configuration from environment
func overrideFromEnv(config *Config) {
	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		config.Database.DSN = dsn
	}

	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}

	if backend := os.Getenv("LEDGER_BACKEND"); backend != "" {
		config.Ledger.Backend = backend
	}
	if path := os.Getenv("LEDGER_PATH"); path != "" {
		config.Ledger.Path = path
	}

	if natsURL := os.Getenv("NATS_URL"); natsURL != "" {
		config.NATS.URL = natsURL
	}
	if natsTimeout := os.Getenv("NATS_TIMEOUT"); natsTimeout != "" {
		if t, err := strconv.Atoi(natsTimeout); err == nil {
			config.NATS.Timeout = t
		}
	}

	if tss := os.Getenv("TSS_ADDRESS"); tss != "" {
		config.Program.TSSAddress = tss
	}
	if authority := os.Getenv("PROGRAM_AUTHORITY"); authority != "" {
		config.Program.Authority = authority
	}

	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		config.Auth.JWTSecret = secret
	}
	if secret := os.Getenv("ADMIN_TOTP_SECRET"); secret != "" {
		config.Admin.TOTPSecret = secret
	}
	if password := os.Getenv("ADMIN_PASSWORD"); password != "" {
		config.Admin.Password = password
	}

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.CORS.AllowedOrigins = nil
		for _, o := range strings.Split(origins, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				config.CORS.AllowedOrigins = append(config.CORS.AllowedOrigins, trimmed)
			}
		}
	}
}

// NewLogger builds the process logger from LogConfig.
func NewLogger(cfg LogConfig) *logrus.Logger {
	logger := logrus.New()
	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)
	if cfg.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}
