package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/docdeck/internal/server"
)

var (
	serverPort int
	serverOpen bool
)

var serverCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Serve the docs with live slide decks",
	Long: `Starts an HTTP server that renders Markdown pages on request. Each open
page holds a deck session over a websocket: segmentation, navigation,
layout and the annotation surface all run server-side.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		lib, err := newLibrary(cfg, logger)
		if err != nil {
			return err
		}

		port := cfg.Server.Port
		if cmd.Flags().Changed("port") {
			port = serverPort
		}

		srv, err := server.New(server.Config{
			Port:        port,
			ProjectName: cfg.ProjectName,
			AllowAll:    cfg.Server.AllowAllOrigins,
			Session:     cfg.SessionConfig(),
		}, lib, logger)
		if err != nil {
			return fmt.Errorf("creating server: %w", err)
		}

		// Graceful shutdown.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go func() {
			<-ctx.Done()
			logger.Info("shutting down server")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Warn("shutdown", "error", err)
			}
		}()

		url := fmt.Sprintf("http://localhost:%d/", port)
		fmt.Fprintf(os.Stderr, "docdeck %s serving %s at %s\n", Version, cfg.DocsDir, url)
		if serverOpen {
			go openBrowser(url)
		}

		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	},
}

func init() {
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "port to listen on (overrides server.port)")
	serverCmd.Flags().BoolVar(&serverOpen, "open", false, "open the browser once listening")
	rootCmd.AddCommand(serverCmd)
}
