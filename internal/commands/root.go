package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/wallet-dev/wallet/internal/buildinfo"
	"github.com/wallet-dev/wallet/internal/config"
	"github.com/wallet-dev/wallet/internal/logger"
	"github.com/wallet-dev/wallet/internal/parser"
	"github.com/wallet-dev/wallet/internal/store"
	"github.com/wallet-dev/wallet/internal/wallet"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "wallet",
		Short:   "Family wallet: bank statement import and household ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newImportCommand())
	rootCmd.AddCommand(newAccountCommand())

	return rootCmd
}

// openService loads config and wires up the service with its store,
// parser registry and logger.
func openService(configPath string) (*wallet.Service, *store.DB, *config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, err
	}
	db, err := store.Open(resolveDBPath(configPath, cfg.Database.Path))
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(cfg.Log.Level)
	return wallet.NewService(db, parser.DefaultRegistry(), log), db, cfg, nil
}

// resolveDBPath anchors a relative database path at the config file's
// directory so commands work from anywhere.
func resolveDBPath(configPath, dbPath string) string {
	if filepath.IsAbs(dbPath) {
		return dbPath
	}
	return filepath.Join(filepath.Dir(configPath), dbPath)
}
