package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"dircmp-go/internal/config"
	"dircmp-go/internal/testutil"
)

func TestNewCatalogFromConfig(t *testing.T) {
	clock := testutil.FixedClock()

	t.Run("sqlite creates catalog file", func(t *testing.T) {
		dataDir := filepath.Join(t.TempDir(), "catalog")
		c, err := NewCatalogFromConfig(config.CatalogConfig{Type: "sqlite", DataDir: dataDir}, clock)
		if err != nil {
			t.Fatalf("NewCatalogFromConfig() error = %v", err)
		}
		defer c.Close()

		if _, err := os.Stat(filepath.Join(dataDir, "catalog.db")); err != nil {
			t.Errorf("catalog file not created: %v", err)
		}
	})

	t.Run("sqlite requires data_dir", func(t *testing.T) {
		_, err := NewCatalogFromConfig(config.CatalogConfig{Type: "sqlite"}, clock)
		if err == nil {
			t.Error("expected error for missing data_dir")
		}
	})

	t.Run("memory", func(t *testing.T) {
		c, err := NewCatalogFromConfig(config.CatalogConfig{Type: "memory"}, clock)
		if err != nil {
			t.Fatalf("NewCatalogFromConfig() error = %v", err)
		}
		defer c.Close()

		if _, err := c.StartRun("record", "/x", "/x.rec"); err != nil {
			t.Errorf("StartRun() on memory catalog error = %v", err)
		}
	})

	t.Run("none returns nil catalog", func(t *testing.T) {
		c, err := NewCatalogFromConfig(config.CatalogConfig{Type: "none"}, clock)
		if err != nil {
			t.Fatalf("NewCatalogFromConfig() error = %v", err)
		}
		if c != nil {
			t.Errorf("catalog = %v, want nil", c)
		}
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := NewCatalogFromConfig(config.CatalogConfig{Type: "postgres"}, clock)
		if err == nil {
			t.Error("expected error for unknown type")
		}
	})
}
