package vault

import (
	"strings"
	"testing"

	"dircmp-go/internal/config"
)

func TestNewVaultFromConfig(t *testing.T) {
	t.Run("filesystem vault", func(t *testing.T) {
		cfg := config.VaultConfig{
			Name:        "local",
			Type:        "filesystem",
			FSVaultRoot: t.TempDir(),
		}

		v, err := NewVaultFromConfig(cfg)
		if err != nil {
			t.Fatalf("NewVaultFromConfig() error = %v", err)
		}
		if _, ok := v.(*FilesystemVault); !ok {
			t.Errorf("vault type = %T, want *FilesystemVault", v)
		}
	})

	t.Run("filesystem vault requires root", func(t *testing.T) {
		cfg := config.VaultConfig{
			Name: "local",
			Type: "filesystem",
		}

		_, err := NewVaultFromConfig(cfg)
		if err == nil {
			t.Fatal("NewVaultFromConfig() expected error for missing fs_vault_root")
		}
		if !strings.Contains(err.Error(), "fs_vault_root") {
			t.Errorf("error = %v, want error mentioning fs_vault_root", err)
		}
	})

	t.Run("memory vault", func(t *testing.T) {
		cfg := config.VaultConfig{
			Name: "mem",
			Type: "memory",
		}

		v, err := NewVaultFromConfig(cfg)
		if err != nil {
			t.Fatalf("NewVaultFromConfig() error = %v", err)
		}
		if _, ok := v.(*MemoryVault); !ok {
			t.Errorf("vault type = %T, want *MemoryVault", v)
		}
	})

	t.Run("s3 vault requires bucket", func(t *testing.T) {
		cfg := config.VaultConfig{
			Name: "remote",
			Type: "s3",
		}

		_, err := NewVaultFromConfig(cfg)
		if err == nil {
			t.Fatal("NewVaultFromConfig() expected error for missing bucket")
		}
	})

	t.Run("unknown vault type", func(t *testing.T) {
		cfg := config.VaultConfig{
			Name: "weird",
			Type: "carrier-pigeon",
		}

		_, err := NewVaultFromConfig(cfg)
		if err == nil {
			t.Fatal("NewVaultFromConfig() expected error for unknown type")
		}
		if !strings.Contains(err.Error(), "unknown vault type") {
			t.Errorf("error = %v, want error containing 'unknown vault type'", err)
		}
	})
}
