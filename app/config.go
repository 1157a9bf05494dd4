package app

import (
	"math/big"
	"os"
	"strings"

	"github.com/bosagora/custody/errors"
	"github.com/caarlos0/env/v11"
	"github.com/tendermint/tendermint/libs/log"
)

// Config is the runtime configuration of a ledger host, read from the
// environment.
type Config struct {
	// ChainID is the decimal chain id used when the store holds none yet
	// and no genesis is loaded.
	ChainID string `env:"CUSTODY_CHAIN_ID"`
	// DataDir is where the store is persisted. Empty keeps everything in
	// memory.
	DataDir   string `env:"CUSTODY_DATA_DIR"`
	LogLevel  string `env:"CUSTODY_LOG_LEVEL" envDefault:"info"`
	CacheSize int    `env:"CUSTODY_CACHE_SIZE" envDefault:"10000"`
	// MaxCallDepth limits how deep contracts may call each other.
	MaxCallDepth int `env:"CUSTODY_MAX_CALL_DEPTH" envDefault:"64"`
}

// LoadConfig reads the configuration from the process environment.
func LoadConfig() (Config, error) {
	return loadConfig(envMap(os.Environ()))
}

func loadConfig(environ map[string]string) (Config, error) {
	var c Config
	if err := env.ParseWithOptions(&c, env.Options{Environment: environ}); err != nil {
		return c, errors.Wrapf(errors.ErrInput, "config: %s", err)
	}
	if c.ChainID != "" {
		if _, err := ParseChainID(c.ChainID); err != nil {
			return c, err
		}
	}
	if c.CacheSize <= 0 {
		return c, errors.Wrap(errors.ErrInput, "cache size must be positive")
	}
	if c.MaxCallDepth <= 0 {
		return c, errors.Wrap(errors.ErrInput, "max call depth must be positive")
	}
	return c, nil
}

func envMap(environ []string) map[string]string {
	m := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			m[k] = v
		}
	}
	return m
}

// ChainIDValue returns the configured chain id or nil if none is set.
func (c Config) ChainIDValue() *big.Int {
	if c.ChainID == "" {
		return nil
	}
	id, err := ParseChainID(c.ChainID)
	if err != nil {
		return nil
	}
	return id
}

// Logger returns a logger writing to stdout, filtered to the configured
// level.
func (c Config) Logger() (log.Logger, error) {
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	opt, err := log.AllowLevel(c.LogLevel)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrInput, "log level: %s", err)
	}
	return log.NewFilter(logger, opt), nil
}
