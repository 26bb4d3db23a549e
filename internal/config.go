package internal

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"lin/internal/registry"
)

// Scoping selects how blocks and calls see surrounding bindings
type Scoping string

const (
	// ScopeSnapshot runs every block on a copy of the current frame and
	// discards it on exit. Calls start from a frame holding only the parameters.
	ScopeSnapshot Scoping = "snapshot"
	// ScopeLexical chains frames to their parent and gives functions closures.
	ScopeLexical Scoping = "lexical"
)

// ParseScoping validates a scoping mode name. Empty means ScopeSnapshot.
func ParseScoping(name string) (Scoping, error) {
	switch Scoping(name) {
	case "", ScopeSnapshot:
		return ScopeSnapshot, nil
	case ScopeLexical:
		return ScopeLexical, nil
	}
	return "", fmt.Errorf("%w: %s", errUnknownScoping, name)
}

// Defaults used when neither flags nor environment override them
const (
	DefaultLockPath     = "rusticle.lock"
	DefaultTempLockPath = "rusticle.temp.lock"
	DefaultRegistryURL  = "http://127.0.0.1:8080"
)

// PackageFetcher fetches a package in its published form
type PackageFetcher interface {
	Fetch(name string) (*registry.Package, error)
}

// Config holds everything a run, an install or a contribute needs
type Config struct {
	LockPath     string
	TempLockPath string
	RegistryURL  string
	Dialect      string
	Scoping      Scoping

	DumpTokens     bool
	DumpAST        bool
	DumpStatements bool

	Logger *logrus.Logger
	// Fetcher defaults to a registry client for RegistryURL
	Fetcher PackageFetcher
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LockPath:     DefaultLockPath,
		TempLockPath: DefaultTempLockPath,
		RegistryURL:  DefaultRegistryURL,
		Dialect:      DialectLin,
		Scoping:      ScopeSnapshot,
		Logger:       logrus.StandardLogger(),
	}
}

// FromEnv applies LIN_* environment variables on top of DefaultConfig
func FromEnv() (*Config, error) {
	cfg := DefaultConfig()
	if v, ok := os.LookupEnv("LIN_LOCK"); ok {
		cfg.LockPath = v
	}
	if v, ok := os.LookupEnv("LIN_TEMP_LOCK"); ok {
		cfg.TempLockPath = v
	}
	if v, ok := os.LookupEnv("LIN_REGISTRY"); ok {
		cfg.RegistryURL = v
	}
	if v, ok := os.LookupEnv("LIN_DIALECT"); ok {
		if _, err := keywordsFor(v); err != nil {
			return nil, err
		}
		cfg.Dialect = v
	}
	if v, ok := os.LookupEnv("LIN_SCOPING"); ok {
		scoping, err := ParseScoping(v)
		if err != nil {
			return nil, err
		}
		cfg.Scoping = scoping
	}
	return cfg, nil
}

func (c *Config) logger() *logrus.Logger {
	if c.Logger == nil {
		return logrus.StandardLogger()
	}
	return c.Logger
}

func (c *Config) fetcher() PackageFetcher {
	if c.Fetcher == nil {
		c.Fetcher = registry.NewClient(c.RegistryURL, nil)
	}
	return c.Fetcher
}
