package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/piwi3910/ShipPack/internal/catalog"
	"github.com/piwi3910/ShipPack/internal/config"
)

var (
	cfgFile     string
	catalogFile string
	verbose     bool
	jsonLog     bool

	settings config.Settings
	cat      catalog.Catalog
	logger   *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "shippack",
	Short: "3D bin packing and shipping cost optimizer",
	Long: `ShipPack packs order items into stocked transport boxes, prices the
result with every configured carrier, and picks the cheapest feasible
shipment.

Configuration lives in ~/.shippack/config.yaml (SHIPPACK_* environment
variables override it), the product, box and carrier catalog in
~/.shippack/catalog.json. Both are created with defaults on first run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.shippack/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&catalogFile, "catalog", "", "catalog file (default ~/.shippack/catalog.json)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&jsonLog, "json-log", false, "write logs as JSON")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		logger = newLogger()
		slog.SetDefault(logger)

		var err error
		settings, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		path := catalogFile
		if path == "" {
			path = catalog.DefaultCatalogPath(config.DefaultConfigDir())
		}
		cat, err = catalog.Load(path)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", path, err)
		}
		return nil
	}
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if jsonLog {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
