package main

import (
	"fmt"
	"os"
	"time"

	"dircmp-go/internal/app"
	"dircmp-go/internal/config"
	"dircmp-go/internal/dircmp"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer app.Close().
// operation identifies the CLI command being run (e.g. "record", "compare").
func newApp(operation string, encrypt bool) (*app.App, error) {
	cfg, err := app.LoadConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.New(cfg, operation, encrypt)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "dircmp",
	Short: "Compare complete directories by hashing all files",
}

// Change tags, colorized when stdout is a terminal.
var (
	dirTag = color.New(color.FgGreen).SprintFunc()
	recTag = color.New(color.FgRed).SprintFunc()
	difTag = color.New(color.FgYellow).SprintFunc()
)

func printChange(c dircmp.Change) {
	switch c.Kind {
	case dircmp.OnlyInDirectory:
		fmt.Printf("%s %s\n", dirTag("[dir]"), c.Path)
	case dircmp.OnlyInRecord:
		fmt.Printf("%s %s\n", recTag("[rec]"), c.Path)
	case dircmp.Differs:
		fmt.Printf("%s %s\n", difTag("[dif]"), c.Path)
	}
}

// record command
var recordCmd = &cobra.Command{
	Use:   "record DIRECTORY RECORD_PATH",
	Short: "Snapshot a directory into a record file",
	Long: `Record walks DIRECTORY, hashes the content of every regular file, and
writes the result to RECORD_PATH (extension normalized to .rec). A later
'dircmp compare' checks a directory against that record.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		encrypt, _ := cmd.Flags().GetBool("encrypt")

		a, err := newApp("record", encrypt)
		if err != nil {
			return err
		}
		defer a.Close()

		count, written, err := a.Record(args[0], args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Recorded %d file(s) to %s\n", count, written)
		return nil
	},
}

// compare command
var compareCmd = &cobra.Command{
	Use:   "compare DIRECTORY RECORD_PATH",
	Short: "Compare a directory against a record",
	Long: `Compare walks DIRECTORY and checks it against the record at RECORD_PATH,
printing one line per difference:

  [dir] path    only in directory (not in the record)
  [rec] path    only in record (missing from the directory)
  [dif] path    present in both, content differs

Unchanged files print nothing. Finding differences is not an error; the
command fails only when a file cannot be read or the record cannot be
loaded.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("compare", false)
		if err != nil {
			return err
		}
		defer a.Close()

		stats, err := a.Compare(args[0], args[1], printChange)
		if err != nil {
			return err
		}

		if stats.Clean() {
			fmt.Printf("Compared %d file(s): no differences\n", stats.FilesSeen)
		} else {
			fmt.Printf("Compared %d file(s): %d only in directory, %d only in record, %d differ\n",
				stats.FilesSeen, stats.OnlyInDirectory, stats.OnlyInRecord, stats.Differs)
		}
		return nil
	},
}

// list command
var listCmd = &cobra.Command{
	Use:   "list RECORD_PATH",
	Short: "List the contents of a record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("list", false)
		if err != nil {
			return err
		}
		defer a.Close()

		snap, err := a.List(args[0])
		if err != nil {
			return err
		}

		for _, p := range snap.Paths() {
			digest, _ := snap.Digest(p)
			fmt.Printf("%s -> %s\n", p, digest)
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent record and compare runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("history", false)
		if err != nil {
			return err
		}
		defer a.Close()

		runs, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(runs) == 0 {
			fmt.Println("No runs recorded.")
			return nil
		}

		for _, run := range runs {
			duration := ""
			if run.FinishedAt.Valid {
				d := run.FinishedAt.Time.Sub(run.StartedAt)
				duration = d.Truncate(time.Millisecond).String()
			}
			fmt.Printf("#%d  %-8s  %s  %-7s  %8s  files=%d dir=%d rec=%d dif=%d  %s\n",
				run.ID,
				run.Operation,
				run.StartedAt.Format("2006-01-02 15:04:05"),
				run.Status,
				duration,
				run.FilesSeen,
				run.OnlyInDirectory,
				run.OnlyInRecord,
				run.Differs,
				run.Root,
			)
		}
		return nil
	},
}

// push command
var pushCmd = &cobra.Command{
	Use:   "push RECORD_PATH",
	Short: "Upload a record to the configured vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("push", false)
		if err != nil {
			return err
		}
		defer a.Close()

		name, err := a.Push(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Pushed %s to vault\n", name)
		return nil
	},
}

// pull command
var pullCmd = &cobra.Command{
	Use:   "pull NAME [DEST]",
	Short: "Download a record from the configured vault",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("pull", false)
		if err != nil {
			return err
		}
		defer a.Close()

		dest := ""
		if len(args) > 1 {
			dest = args[1]
		}

		written, err := a.Pull(args[0], dest)
		if err != nil {
			return err
		}

		fmt.Printf("Pulled %s from vault to %s\n", args[0], written)
		return nil
	},
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		hostID := uuid.New().String()
		cfg := config.NewConfig(hostID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Host ID: %s\n", hostID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := app.LoadConfig()
		if err != nil {
			return err
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Host ID:    %s\n", cfg.HostID)
		fmt.Printf("Base Dir:   %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:    %s\n", cfg.LogDir)
		fmt.Printf("Digest:     %s (workers: %d)\n", cfg.Digest.Algorithm, cfg.Digest.Workers)
		fmt.Printf("Catalog:    %s (%s)\n", cfg.Catalog.Type, cfg.Catalog.DataDir)
		fmt.Printf("Vault:      %s\n", cfg.Vault.Type)
		fmt.Printf("Public Key: %s\n", cfg.Encryption.PublicKeyPath)
		return nil
	},
}

var configKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate the record encryption key pair",
	Long: `Keygen generates an X25519 key pair for record encryption. The public key
is stored in plaintext and used by 'record --encrypt'; the private key is
encrypted with the passphrase you choose and is only needed to read
encrypted records.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("keygen", false)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.Keygen(); err != nil {
			return err
		}

		cfg := a.Config()
		fmt.Printf("Public key:  %s\n", cfg.Encryption.PublicKeyPath)
		fmt.Printf("Private key: %s (passphrase protected)\n", cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

func init() {
	recordCmd.Flags().Bool("encrypt", false, "Encrypt the record with the configured public key")
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of runs to show")

	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configKeygenCmd)

	rootCmd.AddCommand(recordCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(pushCmd)
	rootCmd.AddCommand(pullCmd)
	rootCmd.AddCommand(configCmd)
}
