package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pevans/ussdcodes/api"
	"github.com/pevans/ussdcodes/dataset"
	"github.com/pevans/ussdcodes/internal/logger"
	"github.com/spf13/cobra"
)

var (
	serveAddr   string
	serveOutDir string
)

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "address to listen on (default localhost:8080)")
	serveCmd.Flags().StringVarP(&serveOutDir, "out-dir", "o", "", "directory holding the datasets")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve exported datasets over a read-only HTTP API.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		overrides := make(map[string]any)
		if cmd.Flags().Changed("addr") {
			overrides["server.addr"] = serveAddr
		}
		if cmd.Flags().Changed("out-dir") {
			overrides["output.dir"] = serveOutDir
		}

		cfg, err := loadConfig(cmd, overrides)
		if err != nil {
			return err
		}

		registry, err := loadProfiles(cfg)
		if err != nil {
			return err
		}

		store, err := dataset.NewStore(cfg.Output.Dir)
		if err != nil {
			return err
		}

		if cfg.Log.Level != "debug" {
			gin.SetMode(gin.ReleaseMode)
		}

		srv := &http.Server{
			Addr:              cfg.Server.Addr,
			Handler:           api.NewServer(store, registry).SetupRouter(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		return listen(cmd.Context(), srv)
	},
}

// listen serves until ctx is cancelled and then shuts the server down.
func listen(ctx context.Context, srv *http.Server) error {
	log := logger.New("api").WithField("addr", srv.Addr)

	errc := make(chan error, 1)
	go func() {
		log.Infof("serving datasets on http://%s/api/v1/countries", srv.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	log.Info("server stopped")
	return nil
}
