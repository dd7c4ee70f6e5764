package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/worksheetgen/internal/config"
	"github.com/abhisek/worksheetgen/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "worksheetgen",
	Short: "Generate printable practice worksheets with an LLM",
	Long: `worksheetgen asks a large language model for quiz questions on a topic,
cleans up its output while it streams, and renders a student worksheet and an
answer key as self-contained HTML documents.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Path to YAML config file (default ~/.config/worksheetgen/config.yaml)")
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite usage log (overrides WORKSHEETGEN_DB env var)")
	rootCmd.PersistentFlags().String("provider", "", "LLM provider: openai, anthropic, gemini, openrouter or mock")
	rootCmd.PersistentFlags().String("log-mode", "", "Log output: development or production")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and environment, then applies the
// persistent flags on top.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path, os.Getenv)
	if err != nil {
		return nil, err
	}

	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.Store.Path = p
	}
	if p, _ := cmd.Flags().GetString("provider"); p != "" {
		cfg.LLM.Provider = p
	}
	if m, _ := cmd.Flags().GetString("log-mode"); m != "" {
		cfg.Log.Mode = m
	}
	return cfg, nil
}

// resolveDBPath returns the configured database path, falling back to the
// default XDG location.
func resolveDBPath(cfg *config.Config) (string, error) {
	if cfg.Store.Path != "" {
		return cfg.Store.Path, store.EnsureDir(cfg.Store.Path)
	}
	return store.DefaultDBPath()
}

// openStoreForRead opens the usage log for the llm inspection commands.
func openStoreForRead(cmd *cobra.Command) (*store.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbPath, err := resolveDBPath(cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	s, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return s, nil
}
