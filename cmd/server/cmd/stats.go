package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gatherly/server/internal/api/middleware"
	"github.com/gatherly/server/internal/config"
	"github.com/gatherly/server/internal/metrics"
	"github.com/gatherly/server/internal/stats"
	"github.com/gatherly/server/internal/storage/postgres"
	"github.com/spf13/cobra"
)

var statsPort int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Start the view-counter collector",
	Long: `Start the companion collector that records endpoint hits and serves
aggregated view counts.

Endpoints:
  POST /hit    record one endpoint hit (app, uri, ip, timestamp)
  GET  /stats  aggregate hits per uri over a window, optionally unique by ip

The main server points at this service through STATS_URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStats()
	},
}

func init() {
	statsCmd.Flags().IntVar(&statsPort, "port", 0, "collector port (default: 9090)")
}

func runStats() error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if statsPort != 0 {
		cfg.Stats.Port = statsPort
	}

	logger := config.NewLogger(cfg.Logging)
	logger.Info().Msg("starting view-counter collector")

	pool, err := newPool(cfg)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo, err := postgres.NewRepository(pool)
	if err != nil {
		return fmt.Errorf("repository init failed: %w", err)
	}

	statsAPI := stats.NewAPI(stats.NewService(repo.Stats()), cfg.Environment)

	var handler http.Handler = statsAPI.Routes()
	handler = metrics.HTTPMiddleware(handler)
	handler = middleware.RequestLogging(logger)(handler)
	handler = middleware.CorrelationID(logger)(handler)

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Stats.Port),
		Handler:           handler,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server error")
		}
	}()

	return gracefulShutdown(server, cfg.Server.ShutdownTimeout, logger)
}
