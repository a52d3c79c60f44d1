// Serve command for the locker CLI.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lockerhq/locker/internal/api"
	"github.com/lockerhq/locker/internal/sqlite"
	"github.com/lockerhq/locker/pkg/types"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the locker HTTP server",
	Long: `Serve attaches the storage backend and serves the HTTP API until
interrupted. SIGINT and SIGTERM trigger a graceful shutdown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		storeCfg, err := storeConfig()
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			storeCfg.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			storeCfg.Port = servePort
		}

		logger := newLogger(storeCfg.LogLevel)

		backend := sqlite.NewBackend()
		if err := backend.Attach(storeCfg); err != nil {
			fmt.Fprintln(os.Stderr, "serve:", err)
			os.Exit(exitSysError)
		}
		defer backend.Detach()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := api.New(storeCfg, backend, logger)
		logger.Info("serving", "addr", fmt.Sprintf("%s:%d", storeCfg.Host, storeCfg.Port), "data_dir", storeCfg.DataDir)
		if err := srv.Start(ctx); err != nil {
			fmt.Fprintln(os.Stderr, "serve:", err)
			os.Exit(exitSysError)
		}

		logger.Info("stopped")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", types.DefaultHost, "listen host")
	serveCmd.Flags().IntVar(&servePort, "port", types.DefaultPort, "listen port")
}
