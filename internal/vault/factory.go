package vault

import (
	"fmt"

	"dircmp-go/internal/config"
	"dircmp-go/internal/dircmp"
)

// NewVaultFromConfig creates a Vault implementation based on the vault
// config type. A config of type "none" is the caller's problem: commands
// that need a vault check for it before calling here.
func NewVaultFromConfig(cfg config.VaultConfig) (dircmp.Vault, error) {
	switch cfg.Type {
	case "filesystem":
		if cfg.FSVaultRoot == "" {
			return nil, fmt.Errorf("fs_vault_root required for filesystem vault")
		}
		return NewFilesystemVault(cfg.Name, cfg.FSVaultRoot)
	case "s3":
		return NewS3Vault(cfg.Name, S3Options{
			Bucket:          cfg.S3Bucket,
			Prefix:          cfg.S3Prefix,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
	case "memory":
		return NewMemoryVault(cfg.Name), nil
	default:
		return nil, fmt.Errorf("unknown vault type: %s", cfg.Type)
	}
}
