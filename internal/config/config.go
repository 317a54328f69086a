package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the main configuration for dircmp. Every field has a
// usable default, so the tool works with no config file at all.
type Config struct {
	HostID     string           `toml:"host_id"`
	BaseDir    string           `toml:"base_dir"`
	LogDir     string           `toml:"log_dir"`
	Digest     DigestConfig     `toml:"digest"`
	Filesystem FilesystemConfig `toml:"filesystem"`
	Catalog    CatalogConfig    `toml:"catalog"`
	Vault      VaultConfig      `toml:"vault"`
	Encryption EncryptionConfig `toml:"encryption"`
}

// DigestConfig selects the algorithm used when building new records and
// how many files are hashed concurrently.
type DigestConfig struct {
	Algorithm string `toml:"algorithm"` // "sha256" (default) or "xxh3"
	Workers   int    `toml:"workers"`   // concurrent hashing while recording; 1 = sequential
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Ignore     []string `toml:"ignore"`
	IgnoreFile string   `toml:"ignore_file,omitempty"` // extra patterns, one per line
}

// CatalogConfig represents configuration for the run catalog.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type CatalogConfig struct {
	Type    string `toml:"type"`               // "sqlite" (default), "memory", or "none"
	DataDir string `toml:"data_dir,omitempty"` // only used for type=sqlite
}

// VaultConfig represents configuration for a vault backend.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type VaultConfig struct {
	Type string `toml:"type"` // "none" (default), "filesystem", "s3", or "memory"
	Name string `toml:"name"`

	// S3-specific fields (only used when Type == "s3")
	S3Bucket          string `toml:"s3_bucket,omitempty"`
	S3Prefix          string `toml:"s3_prefix,omitempty"`
	S3Region          string `toml:"s3_region,omitempty"`
	S3AccessKeyID     string `toml:"s3_access_key_id,omitempty"`     // optional; default AWS chain otherwise
	S3SecretAccessKey string `toml:"s3_secret_access_key,omitempty"` // optional; default AWS chain otherwise

	// FileSystem-specific fields (only used when Type == "filesystem")
	FSVaultRoot string `toml:"fs_vault_root,omitempty"`
}

// EncryptionConfig holds paths to the age key pair used for record encryption.
type EncryptionConfig struct {
	PublicKeyPath  string `toml:"public_key_path"`
	PrivateKeyPath string `toml:"private_key_path"`
}

// NewConfig creates a new Config with the provided values and all defaults
// filled in.
func NewConfig(hostID, baseDir string) *Config {
	cfg := &Config{HostID: hostID, BaseDir: baseDir}
	cfg.Normalize(baseDir)
	return cfg
}

// Normalize fills unset fields with their defaults, deriving paths from
// BaseDir. baseDir is used when the config itself does not set one. A
// config decoded from a partial file is fully usable afterwards.
func (c *Config) Normalize(baseDir string) {
	if c.BaseDir == "" {
		c.BaseDir = baseDir
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(c.BaseDir, "log")
	}
	if c.Digest.Algorithm == "" {
		c.Digest.Algorithm = "sha256"
	}
	if c.Digest.Workers < 1 {
		c.Digest.Workers = 1
	}
	if c.Catalog.Type == "" {
		c.Catalog.Type = "sqlite"
	}
	if c.Catalog.DataDir == "" {
		c.Catalog.DataDir = filepath.Join(c.BaseDir, "catalog")
	}
	if c.Vault.Type == "" {
		c.Vault.Type = "none"
	}
	if c.Encryption.PublicKeyPath == "" {
		c.Encryption.PublicKeyPath = filepath.Join(c.BaseDir, "keys", "dircmp.pub")
	}
	if c.Encryption.PrivateKeyPath == "" {
		c.Encryption.PrivateKeyPath = filepath.Join(c.BaseDir, "keys", "dircmp.key")
	}
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path. The decoded
// config is raw; callers normalize it against their default base dir.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
// This is an internal helper and should not be exported.
func writeToFile(path string, cfg *Config) error {
	// Ensure the directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init initializes a new config file at the specified path with the provided Config.
func Init(path string, cfg *Config) error {
	// Check if config already exists
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
