// Package cli is the storefront command line. Every command restores the
// persisted session first, so a login survives between invocations.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marketplace/storefront/internal/app"
	"github.com/marketplace/storefront/internal/core/domain"
	"github.com/marketplace/storefront/internal/pkg/config"
	"github.com/marketplace/storefront/pkg/logger"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitBackend = 2
)

var (
	apiURL     string
	jsonOutput bool
)

var rootCmd = &cobra.Command{
	Use:   "storefront",
	Short: "Shop from the terminal",
	Long: `storefront is a command-line client for the marketplace storefront API.

Environment Variables:
  STOREFRONT_API_URL       Backend API URL (default: http://localhost:8080)
  STOREFRONT_STORAGE       Session storage: file, redis or memory (default: file)
  STOREFRONT_SESSION_FILE  Session file path (default: $XDG_CONFIG_HOME/storefront/session.json)
  LOG_LEVEL                trace, debug, info, warn or error (default: warn)`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides STOREFRONT_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
}

// run wraps a command body with signal handling and turns its result into
// the process exit code.
func run(fn func(ctx context.Context, w io.Writer) int) func(*cobra.Command, []string) {
	return func(cmd *cobra.Command, _ []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if code := fn(ctx, cmd.OutOrStdout()); code != exitOK {
			cancel()
			os.Exit(code)
		}
	}
}

// loadConfig reads the environment and applies the --api-url override.
func loadConfig(ctx context.Context) (*config.Config, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}
	if apiURL != "" {
		cfg.API.BaseURL = apiURL
	}
	return cfg, nil
}

func initLogger(cfg *config.Config) {
	logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty, Service: "storefront"})
}

// openApp builds the service graph for one invocation. On failure it has
// already reported the error and returns the exit code to use.
func openApp(ctx context.Context, w io.Writer) (*app.App, int) {
	cfg, err := loadConfig(ctx)
	if err != nil {
		printError(w, err)
		return nil, exitFailure
	}
	initLogger(cfg)

	a, err := app.New(ctx, cfg, logger.Get())
	if err != nil {
		printError(w, err)
		return nil, exitBackend
	}
	return a, exitOK
}

// fail reports err and picks the exit code: backend outages are told apart
// from rejected requests.
func fail(w io.Writer, err error) int {
	printError(w, err)
	if errors.Is(err, domain.ErrTransport) {
		return exitBackend
	}
	return exitFailure
}

func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "%s %v\n", errorStyle.Render("Error:"), err)
}
