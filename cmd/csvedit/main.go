// Package main provides the csvedit launcher.
package main

import (
	"fmt"
	"os"

	"csvedit/internal/config"
	"csvedit/internal/csvio"
	"csvedit/internal/editor"
	"csvedit/internal/logger"
	"csvedit/internal/services"
	"csvedit/internal/tui"

	"github.com/spf13/cobra"
)

const (
	AppName    = "csvedit"
	AppID      = "io.github.csvedit"
	AppVersion = "1.0.0"
)

var (
	useTUI    bool
	logLevel  string
	logFormat string
	envFile   string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "csvedit [file.csv]",
		Short: "View and edit CSV files",
		Long: `csvedit opens a CSV file in an editable grid, tracks unsaved changes
and writes the grid back. Fields are quoted with | by default.`,
		Args:          cobra.MaximumNArgs(1),
		Version:       AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	rootCmd.Flags().BoolVar(&useTUI, "tui", false, "Run the terminal interface instead of the window")
	rootCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error (overrides CSVEDIT_LOG_LEVEL)")
	rootCmd.Flags().StringVar(&logFormat, "log-format", "", "Log format: text or json (overrides CSVEDIT_LOG_FORMAT)")
	rootCmd.Flags().StringVar(&envFile, "env-file", ".env", "Optional dotenv file with CSVEDIT_* settings")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "csvedit:", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := logger.NewStderr(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}

	path := ""
	if len(args) == 1 {
		path = args[0]
	}

	ed, svc, err := newEditor(cfg, log)
	if err != nil {
		return err
	}
	defer logTimings(log, svc)

	log.Info("Launcher", "starting", map[string]interface{}{
		"version": AppVersion,
		"tui":     useTUI,
		"file":    path,
		"session": ed.SessionID(),
	})

	if useTUI {
		if path == "" {
			return fmt.Errorf("--tui needs a file to open")
		}
		return tui.Run(ed, path, cfg.IO.Timeout)
	}

	application, err := NewApplication(cfg, ed, log)
	if err != nil {
		return fmt.Errorf("application initialization failed: %w", err)
	}
	return application.Run(path)
}

// loadConfig reads the environment, then applies command line overrides
func loadConfig() (*config.Config, error) {
	cfg, err := config.Read(envFile)
	if err != nil {
		return nil, err
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFormat != "" {
		cfg.Logging.Format = logFormat
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newEditor(cfg *config.Config, log logger.Logger) (*editor.Editor, *services.DocumentService, error) {
	policy, err := csvio.ParseRaggedPolicy(cfg.CSV.RaggedPolicy)
	if err != nil {
		return nil, nil, err
	}

	dialect := csvio.Dialect{
		Comma:  cfg.CSV.DelimiterRune(),
		Quote:  cfg.CSV.QuoteRune(),
		Ragged: policy,
	}
	if err := dialect.Validate(); err != nil {
		return nil, nil, err
	}

	svc := services.NewDocumentService(dialect, log)
	return editor.New(svc, log), svc, nil
}

// logTimings reports the file operations of the session on exit
func logTimings(log logger.Logger, svc *services.DocumentService) {
	for _, s := range svc.Timings().All() {
		log.Debug("Launcher", "operation timings", map[string]interface{}{
			"operation":  s.Operation,
			"count":      s.Count,
			"average_ms": s.Average().Milliseconds(),
			"max_ms":     s.Max.Milliseconds(),
		})
	}
}
