package engine

import (
	"errors"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config carries engine defaults sourced from the environment, so embedding
// applications can flip policies or tune buffers without code changes.
type Config struct {
	SubmitPolicy string `env:"STATEKIT_SUBMIT_POLICY" envDefault:"strict"`
	FaultPolicy  string `env:"STATEKIT_FAULT_POLICY" envDefault:"strict"`
	WatchBuffer  int    `env:"STATEKIT_WATCH_BUFFER" envDefault:"16"`
	LeakCheck    bool   `env:"STATEKIT_LEAK_CHECK" envDefault:"false"`
}

var defaultEnvLoaded sync.Once

// LoadConfig parses engine configuration from environment variables,
// loading a .env file first if one exists.
func LoadConfig() (Config, error) {
	defaultEnvLoaded.Do(func() {
		// The .env file is optional; a missing file is not an error.
		_ = godotenv.Load()
	})

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, errors.Join(ErrParsingConfig, err)
	}
	return cfg, nil
}

// Options converts the configuration into engine options. Policy names are
// validated when the options are applied, so New surfaces a bad value as
// ErrInvalidPolicy.
func (c Config) Options() []Option {
	opts := []Option{
		func(e *Engine) error {
			p, err := ParsePolicy(c.SubmitPolicy)
			if err != nil {
				return err
			}
			return WithSubmitPolicy(p)(e)
		},
		func(e *Engine) error {
			p, err := ParsePolicy(c.FaultPolicy)
			if err != nil {
				return err
			}
			return WithFaultPolicy(p)(e)
		},
		WithWatchBuffer(c.WatchBuffer),
	}
	if c.LeakCheck {
		opts = append(opts, WithLeakCheck())
	}
	return opts
}
