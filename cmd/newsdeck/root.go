// ABOUTME: Root Cobra command and global flags for the newsdeck CLI.
// ABOUTME: Loads config, applies flag overrides, sets up logging, and builds the API client.
package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/2389-research/newsdeck/internal/api"
	"github.com/2389-research/newsdeck/internal/config"
	"github.com/2389-research/newsdeck/internal/feed"
	"github.com/2389-research/newsdeck/internal/logging"
)

var globalConfig *config.Config
var globalClient *api.Client
var globalController *feed.Controller
var globalLogCloser io.Closer

// Flags
var (
	flagAPIURL   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "newsdeck",
	Short: "Browse an AI news aggregator from the terminal",
	Long: `
███╗   ██╗███████╗██╗    ██╗███████╗██████╗ ███████╗ ██████╗██╗  ██╗
████╗  ██║██╔════╝██║    ██║██╔════╝██╔══██╗██╔════╝██╔════╝██║ ██╔╝
██╔██╗ ██║█████╗  ██║ █╗ ██║███████╗██║  ██║█████╗  ██║     █████╔╝
██║╚██╗██║██╔══╝  ██║███╗██║╚════██║██║  ██║██╔══╝  ██║     ██╔═██╗
██║ ╚████║███████╗╚███╔███╔╝███████║██████╔╝███████╗╚██████╗██║  ██╗
╚═╝  ╚═══╝╚══════╝ ╚══╝╚══╝ ╚══════╝╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝

News cards from your aggregator API: search, filter by provider and
type, and keep the feed fresh on an interval.`,
	SilenceUsage: true,
	RunE:         runBrowse,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "help" || cmd.Name() == "version" || cmd.Name() == "setup" {
			return nil
		}

		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if flagAPIURL != "" {
			cfg.API.BaseURL = flagAPIURL
		}
		if flagLogLevel != "" {
			cfg.Log.Level = flagLogLevel
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		globalConfig = cfg

		// The interactive browser owns the terminal, so its logs go to a file.
		logFile, err := cfg.GetLogFile(ownsTerminal(cmd))
		if err != nil {
			return fmt.Errorf("failed to resolve log file: %w", err)
		}
		closer, err := logging.Setup(cfg.Log.Level, logFile)
		if err != nil {
			return err
		}
		globalLogCloser = closer

		globalClient = api.NewClient(cfg.API.BaseURL, cfg.API.APIKey, cfg.API.Timeout)
		globalController = feed.NewController(globalClient)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalLogCloser != nil {
			_ = globalLogCloser.Close()
			globalLogCloser = nil
		}
		return nil
	},
}

func ownsTerminal(cmd *cobra.Command) bool {
	return !cmd.HasParent() || cmd.Name() == "browse"
}

func init() {
	rootCmd.Version = version
	rootCmd.PersistentFlags().StringVar(&flagAPIURL, "api-url", "", "Aggregator API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}
