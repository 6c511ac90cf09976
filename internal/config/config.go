// Package config loads the YAML configuration file shared by all four
// binaries: each binary's go-flags parser supplies the --config path, a
// strict YAML decoder fills the struct.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cedbanana/dds25-2/internal/logging"
)

// Redis configures the shared KV store connection.
type Redis struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// Peers configures the gRPC addresses of the Stock and Payment services,
// as seen by each other and by Order.
type Peers struct {
	Stock   string `yaml:"stock"`
	Payment string `yaml:"payment"`
	Order   string `yaml:"order"`
}

// Replica identifies this process among a service's replica set, used to
// derive a stable stream consumer id and to size CheckSnapshotReady's
// expected count.
type Replica struct {
	Index int `yaml:"index"`
	Count int `yaml:"count"`
}

// Saga tunes the checkout orchestrator's and reconciliation processor's
// timing constants.
type Saga struct {
	RPCTimeout        time.Duration `yaml:"rpc_timeout"`
	VibeCheckRetries  int           `yaml:"vibe_check_retries"`
	VibeCheckInterval time.Duration `yaml:"vibe_check_interval"`
	JitterMin         time.Duration `yaml:"jitter_min"`
	JitterMax         time.Duration `yaml:"jitter_max"`
}

func (s *Saga) setDefaults() {
	if s.RPCTimeout == 0 {
		s.RPCTimeout = 2 * time.Second
	}
	if s.VibeCheckRetries == 0 {
		s.VibeCheckRetries = 10
	}
	if s.VibeCheckInterval == 0 {
		s.VibeCheckInterval = 500 * time.Millisecond
	}
	if s.JitterMin == 0 {
		s.JitterMin = 10 * time.Millisecond
	}
	if s.JitterMax == 0 {
		s.JitterMax = 100 * time.Millisecond
	}
}

// Config is the top-level configuration shared across binaries. Each
// binary loads it with Load and takes its own listen address as a flag.
type Config struct {
	Log     logging.Config `yaml:"log"`
	Redis   Redis          `yaml:"redis"`
	Etcd    []string       `yaml:"etcd"`
	Peers   Peers          `yaml:"peers"`
	Replica Replica        `yaml:"replica"`
	Saga    Saga           `yaml:"saga"`
}

// Load reads and strictly decodes the YAML file at path.
func Load(path string) (Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	cfg.Saga.setDefaults()
	if cfg.Replica.Count == 0 {
		cfg.Replica.Count = 1
	}
	return cfg, nil
}
