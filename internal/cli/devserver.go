package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/marketplace/storefront/internal/devserver"
	"github.com/marketplace/storefront/pkg/logger"
)

var devPort string

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run an in-memory storefront backend for local development",
	Long: `Run an in-memory storefront backend. State is lost on exit. With DEV_SEED=true
(the default) a demo catalog and an "admin" account are created; the admin
password comes from DEV_ADMIN_PASSWORD.`,
	Args: cobra.NoArgs,
	Run:  run(runDevServer),
}

func init() {
	devserverCmd.Flags().StringVar(&devPort, "port", "", "Listen port (overrides PORT)")
	rootCmd.AddCommand(devserverCmd)
}

func runDevServer(ctx context.Context, w io.Writer) int {
	cfg, err := loadConfig(ctx)
	if err != nil {
		printError(w, err)
		return exitFailure
	}
	if devPort != "" {
		cfg.DevServer.Port = devPort
	}
	initLogger(cfg)

	srv, err := devserver.New(ctx, cfg.DevServer, logger.Component("devserver"))
	if err != nil {
		printError(w, err)
		return exitFailure
	}
	fmt.Fprintf(w, "%s dev server on %s %s\n", okStyle.Render("▶"), srv.Addr(), mutedStyle.Render("(Ctrl+C to stop)"))

	if err := srv.Run(ctx); err != nil {
		printError(w, err)
		return exitFailure
	}
	return exitOK
}
