package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"dircmp-go/internal/config"
	"dircmp-go/internal/dircmp"
)

// NewCatalogFromConfig creates a Catalog implementation based on the
// catalog config type. Returns nil (and no error) when the catalog is
// disabled.
func NewCatalogFromConfig(cfg config.CatalogConfig, clock dircmp.Clock) (Catalog, error) {
	switch cfg.Type {
	case "none":
		return nil, nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite catalog")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating catalog directory: %w", err)
		}
		return NewSQLiteCatalog(filepath.Join(cfg.DataDir, "catalog.db"), clock)
	case "memory":
		return NewSQLiteCatalog(":memory:", clock)
	default:
		return nil, fmt.Errorf("unknown catalog type: %s", cfg.Type)
	}
}
