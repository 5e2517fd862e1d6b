package cli

import (
	"fmt"

	"github.com/existflow/notepado/internal/config"
	"github.com/existflow/notepado/internal/logger"
	"github.com/existflow/notepado/internal/tui"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

var (
	logLevel   string
	logFile    string
	logConsole bool
)

// Set by the root PersistentPreRunE for every command
var (
	appConfig *config.Config
	appLog    = logger.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "notepado",
	Short: "Notepado - Rich text notes in the terminal",
	Long: `Notepado keeps a drag-ordered list of rich text notes on this machine,
with search, sorting, color tags, bulk export and per-note undo.

Run 'notepado' without arguments to launch the interactive TUI.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		cfg, err := config.Load()
		if err != nil {
			logger.Warn("Failed to load config, using defaults", logger.F("error", err))
			dir, _ := config.Dir()
			cfg = config.DefaultConfig(dir)
		}

		// Override with CLI flags if provided
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			cfg.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			cfg.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			cfg.LogConsole = logConsole
			configChanged = true
		}

		// Save config if changed via CLI flags
		if configChanged {
			if err := cfg.Save(); err != nil {
				logger.Warn("Failed to save config", logger.F("error", err))
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(cfg.LogLevel),
			FilePath:   cfg.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    cfg.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		appConfig = cfg
		appLog = logger.WithFields(logger.F("session", uuid.NewString()))
		appLog.Info("Notepado started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		// Launch TUI
		ctx := cmd.Context()
		notices := tui.NewNotices(16)
		a, err := openApp(ctx, appOptions{Notifier: notices, KeepOnLoadError: true})
		if err != nil {
			return err
		}
		defer func() {
			if err := a.close(ctx); err != nil {
				appLog.Error("Failed to save notes on exit", logger.F("error", err))
			}
		}()

		appLog.Info("Launching TUI")
		err = tui.Run(ctx, tui.Options{
			Notes:    a.notes,
			Prefs:    a.prefs,
			Ads:      a.ads,
			Notices:  notices,
			Confirm:  a.cfg.ConfirmDelete,
			Language: a.language,
			Logger:   appLog,
		})
		if err != nil {
			appLog.Error("TUI error", logger.F("error", err))
			return err
		}

		appLog.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		appLog.Info("Notepado exiting", logger.F("command", cmd.Name()))
		_ = logger.Close()
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Add subcommands
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(colorCmd)
	rootCmd.AddCommand(todoCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(clearCmd)
	rootCmd.AddCommand(moveCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(copyCmd)
	rootCmd.AddCommand(sortCmd)
	rootCmd.AddCommand(langCmd)
}
