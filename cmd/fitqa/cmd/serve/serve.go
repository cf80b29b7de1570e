package serve

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"fitqa/internal/app"
	"fitqa/internal/app/logging"
	"fitqa/internal/app/storage"
	"fitqa/internal/config"
	"fitqa/web"
)

var (
	storePath  string
	backend    string
	addr       string
	configPath string
)

func init() {
	Cmd.Flags().StringVarP(&storePath, "store", "d", "",
		"Store path to query (file for flat, directory for indexed, DSN for postgres)")
	Cmd.Flags().StringVarP(&backend, "backend", "b", "",
		"Store backend: flat, indexed or postgres (default from config)")
	Cmd.Flags().StringVarP(&addr, "addr", "a", ":8080",
		"Listen address for the demo server")
	Cmd.Flags().StringVarP(&configPath, "config", "c", "",
		"Optional YAML config file")

	Cmd.MarkFlagRequired("store")
}

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the Q&A demo UI and JSON API over an ingested store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAppConfig(configPath)
		if err != nil {
			return err
		}
		if backend == "" {
			backend = cfg.Store.Backend
		}

		keys, err := config.GetAPIKeys()
		if err != nil {
			return err
		}
		if err := config.RequireAPIKeys(keys); err != nil {
			return err
		}

		logger := logging.MustNewLogger(false)
		defer logger.Sync()

		store, err := storage.Open(backend, storePath)
		if err != nil {
			return err
		}

		ctx := context.Background()
		service, err := app.InitializeAskService(ctx, cfg, keys, store, logger)
		if err != nil {
			store.Close()
			return err
		}
		defer service.Close()

		server := web.NewServer(service, logger, addr)

		errCh := make(chan error, 1)
		go func() {
			errCh <- server.Start()
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case sig := <-quit:
			logger.Info("shutting down", zap.String("signal", sig.String()))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		}
	},
}
