package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/cognicore/supplynotes/pkg/supplynotes"
	"github.com/cognicore/supplynotes/pkg/supplynotes/config"
	"github.com/cognicore/supplynotes/pkg/supplynotes/store/sqlite"
)

const (
	envDB        = "SUPPLYNOTES_DB"
	envConfigDir = "SUPPLYNOTES_CONFIG_DIR"
	defaultDB    = "supplynotes.db"
)

var (
	verbose   bool
	dbPath    string
	configDir string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "supplynotes",
	Short: "Ingest supplier performance notes into attributed, sentiment-scored records",
	Long: `supplynotes reads a free-text supplier notes export, splits it into supplier
sections and notes, scores each note against a sentiment lexicon and resolves
supplier names to stable identities. Results can be printed or stored in SQLite.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}

		opts := &slog.HandlerOptions{
			Level: level,
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, opts))
		slog.SetDefault(logger)

		if dbPath == "" {
			dbPath = envOr(envDB, defaultDB)
		}
		if configDir == "" {
			configDir = os.Getenv(envConfigDir)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (env "+envDB+", default "+defaultDB+")")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "Directory with lexicon.yaml, aliases.yaml, layout.yaml (env "+envConfigDir+")")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadComponents builds the ingestion components from the config directory,
// or the built-in defaults when none is set.
func loadComponents() (*config.Components, error) {
	loader := config.Loader{}
	if configDir != "" {
		loader = config.FromDir(configDir)
		slog.Debug("using config directory", "dir", configDir,
			"lexicon", loader.LexiconPath, "aliases", loader.AliasesPath, "layout", loader.LayoutPath)
	}
	return loader.Load()
}

// openService opens the database and wires a Service around it.
func openService(ctx context.Context) (*supplynotes.Service, error) {
	comp, err := loadComponents()
	if err != nil {
		return nil, err
	}

	st, err := sqlite.OpenSQLite(ctx, dbPath)
	if err != nil {
		return nil, err
	}

	pipeline := comp.Pipeline()
	pipeline.SetLogger(slog.Default())

	return supplynotes.New(supplynotes.Options{
		Store:    st,
		Pipeline: pipeline,
		Logger:   slog.Default(),
	}), nil
}
