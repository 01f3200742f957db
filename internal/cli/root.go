// Package cli provides the upscale command-line client.
package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"video-upscaler-backend/internal/apiclient"
	"video-upscaler-backend/internal/config"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	verbose bool

	cfg    *config.ClientConfig
	client *apiclient.Client
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "upscale",
	Short: "AI video upscaling client",
	Long: `Upscale submits videos to the upscaler API, follows each job until it
finishes and records the outcome in your history.

Configuration is read from the environment (or a .env file):
  UPSCALE_API_URL  API base URL (default http://localhost:8080)
  UPSCALE_TOKEN    bearer token for the history endpoints`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.LoadClient()
		if err != nil {
			return err
		}

		level := config.ParseLogLevel(cfg.LogLevel)
		if verbose {
			level = slog.LevelDebug
		}
		logger = config.NewConsoleLogger(os.Stderr, cfg.LogFormat, level)
		client = apiclient.NewClient(cfg.APIURL, cfg.Token)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(enhanceCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(cancelCmd)
	rootCmd.AddCommand(historyCmd)
}

func exitWithError(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}
