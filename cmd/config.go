package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// RunConfig is the file form of the run flags, for environments that keep
// the target and fault-injection commands in a checked-in YAML file.
// Explicit command-line flags take precedence over file values.
type RunConfig struct {
	ServerURI    string `yaml:"server_uri"`
	TestCase     string `yaml:"test_case,omitempty"`
	UnrouteCmd   string `yaml:"unroute_cmd"`
	BlackholeCmd string `yaml:"blackhole_cmd"`
	Credentials  string `yaml:"credentials,omitempty"`
}

// LoadRunConfig reads and strictly decodes a YAML run config.
func LoadRunConfig(path string) (*RunConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading run config: %w", err)
	}
	var cfg RunConfig
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing run config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every field a run needs is present.
func (c *RunConfig) Validate() error {
	if c.ServerURI == "" {
		return fmt.Errorf("server URI required")
	}
	if c.TestCase == "" {
		return fmt.Errorf("test case required")
	}
	if c.UnrouteCmd == "" {
		return fmt.Errorf("unroute command required")
	}
	if c.BlackholeCmd == "" {
		return fmt.Errorf("blackhole command required")
	}
	return nil
}
