package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/arnet007/StockSentimentPro/internal/config"
	"github.com/arnet007/StockSentimentPro/internal/util"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const defaultConfigPath = "config/dashboard.yaml"

type serveFlags struct {
	configPath string
	host       string
	port       int
}

func newRootCmd() *cobra.Command {
	var flags serveFlags
	root := &cobra.Command{
		Use:           "stock-dashboard",
		Short:         "Serve the stock price and sentiment dashboard",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags.configPath)
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "loading config: %v\n", err)
				return err
			}
			if err := applyFlags(cmd, cfg, flags); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "%v\n", err)
				return err
			}
			return serve(cmd.Context(), cfg)
		},
	}
	root.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "config file (default $DASHBOARD_CONFIG or "+defaultConfigPath+")")
	root.Flags().StringVar(&flags.host, "host", "", "listen host (overrides server.host)")
	root.Flags().IntVar(&flags.port, "port", 0, "listen port (overrides server.port)")

	root.AddCommand(newQuoteCmd())
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "stock-dashboard %s (%s %s/%s)\n", version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		},
	})
	return root
}

// loadConfig reads .env, then the config file named by the flag or
// DASHBOARD_CONFIG. Without either, the default path is used when it
// exists and the built-in defaults otherwise.
func loadConfig(path string) (*config.Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("reading .env: %w", err)
	}
	if path == "" {
		path = os.Getenv("DASHBOARD_CONFIG")
	}
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); errors.Is(err, fs.ErrNotExist) {
			return config.FromEnv()
		}
		path = defaultConfigPath
	}
	return config.Load(path)
}

// applyFlags lets explicitly set --host and --port win over the file.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags serveFlags) error {
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = flags.host
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = flags.port
	}
	return cfg.Validate()
}

func serve(ctx context.Context, cfg *config.Config) error {
	if ctx == nil {
		ctx = context.Background()
	}
	logger := util.NewLogger(cfg.Logging.Level, cfg.Logging.Format)
	util.SetDefault(logger)

	srv, err := buildServer(cfg, logger)
	if err != nil {
		logger.Error("building server", "error", err)
		return err
	}

	httpServer := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	errc := make(chan error, 1)
	go func() {
		logger.Info("dashboard listening", "addr", httpServer.Addr, "version", version)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		if err != nil {
			logger.Error("HTTP server error", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}
	logger.Info("shutting down dashboard")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", "error", err)
		return err
	}
	slog.Info("dashboard stopped")
	return nil
}
