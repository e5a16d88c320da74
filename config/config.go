// Package config loads process-wide settings. Everything here is fixed for
// the lifetime of the process once Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"example.com/ledgerseal/hash"
	"example.com/ledgerseal/keyenc"
	"example.com/ledgerseal/logging"
	"example.com/ledgerseal/merkle"
	"example.com/ledgerseal/signature"
	"example.com/ledgerseal/symmetric"
)

const (
	defaultDifficulty  = 5
	defaultBatchSize   = 5
	defaultPoolPath    = "pool.db"
	defaultPoolTimeout = "1s"
)

// Config is the full set of options.
type Config struct {
	// Difficulty is the number of leading zeros a block hash must carry.
	Difficulty int `yaml:"difficulty"`
	// BatchSize is how many of the earliest pooled transactions go into one block.
	BatchSize int `yaml:"batch_size"`

	Hash        string `yaml:"hash"`
	Cipher      string `yaml:"cipher"`
	Signature   string `yaml:"signature"`
	KeyEncoding string `yaml:"key_encoding"`

	// VerifySignatures makes the sealer check every transaction signature
	// before computing the root.
	VerifySignatures bool `yaml:"verify_signatures"`

	Merkle MerkleConfig    `yaml:"merkle"`
	Pool   PoolConfig      `yaml:"pool"`
	Log    logging.Options `yaml:"log"`
}

type MerkleConfig struct {
	// OddPolicy is "duplicate" or "drop". Use "drop" to reproduce roots of
	// the original chain.
	OddPolicy string `yaml:"odd_policy"`
}

type PoolConfig struct {
	Path    string `yaml:"path"`
	Timeout string `yaml:"timeout"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Difficulty:       defaultDifficulty,
		BatchSize:        defaultBatchSize,
		Hash:             hash.SM3,
		Cipher:           symmetric.SM4GCM,
		Signature:        signature.SM2,
		KeyEncoding:      keyenc.Base64,
		VerifySignatures: true,
		Merkle:           MerkleConfig{OddPolicy: merkle.Duplicate.String()},
		Pool:             PoolConfig{Path: defaultPoolPath, Timeout: defaultPoolTimeout},
		Log:              logging.DefaultOptions(),
	}
}

// Load reads the YAML file at path over the defaults and validates the
// result. An empty path returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.Difficulty < 0 {
		errs = append(errs, fmt.Errorf("difficulty %d is negative", c.Difficulty))
	}
	if c.BatchSize < 1 {
		errs = append(errs, fmt.Errorf("batch_size %d must be at least 1", c.BatchSize))
	}
	if !slices.Contains(hash.Names(), c.Hash) {
		errs = append(errs, fmt.Errorf("hash %q is not one of %v", c.Hash, hash.Names()))
	}
	if !slices.Contains(symmetric.Names(), c.Cipher) {
		errs = append(errs, fmt.Errorf("cipher %q is not one of %v", c.Cipher, symmetric.Names()))
	}
	if !slices.Contains(signature.Names(), c.Signature) {
		errs = append(errs, fmt.Errorf("signature %q is not one of %v", c.Signature, signature.Names()))
	}
	if _, err := keyenc.New(c.KeyEncoding); err != nil {
		errs = append(errs, err)
	}
	if _, err := merkle.ParseOddPolicy(c.Merkle.OddPolicy); err != nil {
		errs = append(errs, err)
	}
	if _, err := c.PoolTimeout(); err != nil {
		errs = append(errs, err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

// PoolTimeout parses Pool.Timeout. An empty value means no timeout.
func (c *Config) PoolTimeout() (time.Duration, error) {
	if c.Pool.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Pool.Timeout)
	if err != nil {
		return 0, fmt.Errorf("pool.timeout: %w", err)
	}
	return d, nil
}
