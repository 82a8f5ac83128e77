package config

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	MES     MESConfig
	Session SessionConfig
	Mongo   MongoConfig
}

// MESConfig describes the remote MES endpoints and the fixed login constants.
type MESConfig struct {
	BaseURL      string `env:"MES_BASE_URL,      default=https://qf3.qfactory.biz:8000"`
	Origin       string `env:"MES_ORIGIN,        default=https://qf3.qfactory.biz"`
	CompanyCode  string `env:"MES_COMPANY_CODE,  default=BWC40601"`
	LanguageCode string `env:"MES_LANGUAGE_CODE, default=KO"`

	// FetchLimit is the page size of every bulk fetch. A full page is
	// reported as truncated.
	FetchLimit   int           `env:"MES_FETCH_LIMIT,   default=9999"`
	LoginTimeout time.Duration `env:"MES_LOGIN_TIMEOUT, default=10s"`
	FetchTimeout time.Duration `env:"MES_FETCH_TIMEOUT, default=15s"`

	InsecureSkipVerify bool `env:"MES_INSECURE_SKIP_VERIFY, default=false"`
}

type SessionConfig struct {
	IDScheme string `env:"SESSION_ID_SCHEME, default=userkey"`
	Secret   string `env:"SESSION_SECRET"`
}

// MongoConfig enables the query audit trail when URI is set.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=mes_helper"`
	// AuditWorkers is the number of goroutines writing audit entries.
	AuditWorkers int `env:"AUDIT_WORKERS, default=2"`
}

// AuditEnabled reports whether a Mongo audit store is configured.
func (c *Config) AuditEnabled() bool {
	return c.Mongo.URI != ""
}

// IsDevelopment reports whether human-friendly log output should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return cfg
}

// LoadFrom processes configuration from the given lookuper and validates it.
func LoadFrom(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: l,
	}); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.MES.BaseURL == "" {
		return errors.New("MES_BASE_URL must not be empty")
	}
	if c.MES.FetchLimit <= 0 {
		return fmt.Errorf("MES_FETCH_LIMIT must be positive, got %d", c.MES.FetchLimit)
	}
	if c.MES.LoginTimeout <= 0 || c.MES.FetchTimeout <= 0 {
		return errors.New("MES timeouts must be positive")
	}
	switch c.Session.IDScheme {
	case "userkey":
	case "signed":
		if c.Session.Secret == "" {
			return errors.New("SESSION_SECRET is required when SESSION_ID_SCHEME=signed")
		}
	default:
		return fmt.Errorf("unknown SESSION_ID_SCHEME %q", c.Session.IDScheme)
	}
	return nil
}
