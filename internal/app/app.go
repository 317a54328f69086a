package app

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"dircmp-go/internal/catalog"
	"dircmp-go/internal/config"
	"dircmp-go/internal/digest"
	"dircmp-go/internal/dircmp"
	"dircmp-go/internal/encryption"
	"dircmp-go/internal/fs"
	"dircmp-go/internal/record"
	"dircmp-go/internal/vault"
)

// App is the application layer between the CLI and the comparison service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw string paths, and finalizes run bookkeeping on Close.
type App struct {
	cfg       *config.Config
	operation string
	encryptor dircmp.Encryptor
	service   *dircmp.Service
	catalog   catalog.Catalog
	run       *catalog.Run
	logger    *slog.Logger
	logFile   *os.File
}

// LoadConfig reads the config file from its default location. A missing
// config file is not an error: the tool runs on defaults until the user
// writes one with 'config init'.
func LoadConfig() (*config.Config, error) {
	defaults, err := GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if errors.Is(err, os.ErrNotExist) {
		return config.NewConfig("", defaults["base_dir"]), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg.Normalize(defaults["base_dir"])
	return cfg, nil
}

// New creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "record", "compare")
// and labels catalog runs and log lines. encrypt makes saved records
// encrypted with the configured public key.
// The caller must call Close when done.
func New(cfg *config.Config, operation string, encrypt bool) (*App, error) {
	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	ignore := append([]string{}, cfg.Filesystem.Ignore...)
	if cfg.Filesystem.IgnoreFile != "" {
		extra, err := fs.ParseIgnoreFile(cfg.Filesystem.IgnoreFile)
		if err != nil {
			logFile.Close()
			return nil, fmt.Errorf("reading ignore file: %w", err)
		}
		ignore = append(ignore, extra...)
	}
	files := fs.NewTreeSource(ignore)

	encryptor := encryption.NewAgeEncryptor(cfg.Encryption)
	store := record.NewFileStore(record.Options{
		Encryptor: encryptor,
		Encrypt:   encrypt,
		Unlock:    unlockWithPassphrase(encryptor),
	})

	svc := dircmp.NewService(files, store, digest.Registry{},
		cfg.Digest.Algorithm, cfg.Digest.Workers, &slogAdapter{l: logger})

	// The catalog is bookkeeping. A broken one must never block the
	// actual operation.
	cat, err := catalog.NewCatalogFromConfig(cfg.Catalog, dircmp.RealClock{})
	if err != nil {
		logger.Warn("catalog unavailable", "error", err)
		cat = nil
	}

	return &App{
		cfg:       cfg,
		operation: operation,
		encryptor: encryptor,
		service:   svc,
		catalog:   cat,
		logger:    logger,
		logFile:   logFile,
	}, nil
}

// Config returns the effective configuration the app was built from.
func (a *App) Config() *config.Config {
	return a.cfg
}

// unlockWithPassphrase returns an unlock hook that prompts for the
// passphrase the first time an encrypted record has to be read.
func unlockWithPassphrase(enc dircmp.Encryptor) record.UnlockFunc {
	return func() (dircmp.DecryptionContext, error) {
		if !enc.IsConfigured() {
			return nil, fmt.Errorf("encryption keys not set up: run 'dircmp config keygen' first")
		}
		pass, err := readPassphrase(false)
		if err != nil {
			return nil, err
		}
		return enc.Unlock(pass)
	}
}

// beginRun opens a catalog run for the current operation. Catalog failures
// degrade to a warning.
func (a *App) beginRun(root, recordPath string) {
	if a.catalog == nil {
		return
	}
	run, err := a.catalog.StartRun(a.operation, root, recordPath)
	if err != nil {
		a.logger.Warn("starting catalog run", "error", err)
		return
	}
	a.run = run
}

// failRun marks the current run failed so Close finalizes it as an error.
func (a *App) failRun() {
	if a.run != nil {
		a.run.Status = catalog.StatusError
	}
}

// Record snapshots the directory at rawDir and writes a record file at
// recordPath. Returns the number of files recorded and the path actually
// written.
func (a *App) Record(rawDir, recordPath string) (int, string, error) {
	root, err := filepath.Abs(rawDir)
	if err != nil {
		return 0, "", fmt.Errorf("resolving path: %w", err)
	}

	a.beginRun(root, recordPath)

	snap, written, err := a.service.Record(root, recordPath)
	if err != nil {
		a.failRun()
		return 0, "", err
	}

	if a.run != nil {
		a.run.FilesSeen = int64(snap.Len())
	}
	return snap.Len(), written, nil
}

// Compare reconciles the directory at rawDir against the record at
// recordPath, calling emit once per difference as it is found.
func (a *App) Compare(rawDir, recordPath string, emit func(dircmp.Change)) (dircmp.CompareStats, error) {
	root, err := filepath.Abs(rawDir)
	if err != nil {
		return dircmp.CompareStats{}, fmt.Errorf("resolving path: %w", err)
	}

	a.beginRun(root, recordPath)

	stats, err := a.service.Compare(root, recordPath, emit)
	if err != nil {
		a.failRun()
		return stats, err
	}

	if a.run != nil {
		a.run.FilesSeen = int64(stats.FilesSeen)
		a.run.OnlyInDirectory = int64(stats.OnlyInDirectory)
		a.run.OnlyInRecord = int64(stats.OnlyInRecord)
		a.run.Differs = int64(stats.Differs)
	}
	return stats, nil
}

// List loads the record at recordPath for display.
func (a *App) List(recordPath string) (*dircmp.Snapshot, error) {
	return a.service.List(recordPath)
}

// openVault constructs the configured vault backend. Commands that need a
// vault call this lazily, so local-only use never touches vault config.
func (a *App) openVault() (dircmp.Vault, error) {
	if a.cfg.Vault.Type == "" || a.cfg.Vault.Type == "none" {
		return nil, fmt.Errorf("no vault configured: set [vault] in the config file")
	}
	v, err := vault.NewVaultFromConfig(a.cfg.Vault)
	if err != nil {
		return nil, fmt.Errorf("creating vault: %w", err)
	}
	return v, nil
}

// Push uploads the record at recordPath to the configured vault under its
// base filename. Returns the name it was stored under. Files that are not
// valid records are refused rather than published.
func (a *App) Push(recordPath string) (string, error) {
	v, err := a.openVault()
	if err != nil {
		return "", err
	}

	if err := record.Validate(recordPath); err != nil {
		return "", err
	}

	f, err := os.Open(recordPath)
	if err != nil {
		return "", fmt.Errorf("opening record: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat record: %w", err)
	}

	name := filepath.Base(recordPath)
	if err := v.Put(name, f, info.Size()); err != nil {
		return "", fmt.Errorf("uploading record: %w", err)
	}

	a.logger.Info("record pushed", "name", name, "size", info.Size())
	return name, nil
}

// Pull downloads the named record from the vault to dest. An empty dest
// writes the record under its vault name in the current directory.
func (a *App) Pull(name, dest string) (string, error) {
	v, err := a.openVault()
	if err != nil {
		return "", err
	}

	if dest == "" {
		dest = name
	}

	// Download into a temp file next to dest so a failed transfer never
	// leaves a truncated record behind.
	tmp, err := os.CreateTemp(filepath.Dir(dest), ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			os.Remove(tmpPath)
		}
	}()

	if err := v.Get(name, tmp); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, dest); err != nil {
		return "", fmt.Errorf("renaming temp file: %w", err)
	}

	success = true
	a.logger.Info("record pulled", "name", name, "dest", dest)
	return dest, nil
}

// History returns the most recent cataloged runs.
func (a *App) History(limit int) ([]*catalog.Run, error) {
	if a.catalog == nil {
		return nil, fmt.Errorf("catalog is disabled")
	}
	return a.catalog.RecentRuns(limit)
}

// Keygen generates the encryption key pair, prompting twice for the
// passphrase that locks the private key. Refuses to overwrite existing keys.
func (a *App) Keygen() error {
	if a.encryptor.IsConfigured() {
		return fmt.Errorf("encryption keys already exist at %s", a.cfg.Encryption.PrivateKeyPath)
	}

	pass, err := readPassphrase(true)
	if err != nil {
		return err
	}
	if err := a.encryptor.Setup(pass); err != nil {
		return fmt.Errorf("generating keys: %w", err)
	}

	a.logger.Info("encryption keys generated", "public_key", a.cfg.Encryption.PublicKeyPath)
	return nil
}

// Close finalizes the catalog run and releases resources.
func (a *App) Close() error {
	var firstErr error

	if a.run != nil && a.catalog != nil {
		if a.run.Status == catalog.StatusRunning {
			a.run.Status = catalog.StatusOK
		}
		if err := a.catalog.FinishRun(a.run); err != nil {
			firstErr = fmt.Errorf("finishing catalog run: %w", err)
		}
	}

	if a.catalog != nil {
		if err := a.catalog.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing catalog: %w", err)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
