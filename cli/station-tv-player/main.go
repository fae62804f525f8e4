package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/rs/zerolog/log"
	"github.com/terrycain/station-tv-server/pkg/coordinator"
	"github.com/terrycain/station-tv-server/pkg/metrics"
	"github.com/terrycain/station-tv-server/pkg/player"
	"github.com/terrycain/station-tv-server/pkg/scheduler"
	"github.com/terrycain/station-tv-server/pkg/utils/logging"
)

var cli struct {
	Config   string `env:"STATIONTV_CONFIG" help:"Player config file, defaults to player.yaml in /etc/station-tv or the working directory"`
	LogLevel string `help:"Override the configured log level (debug, info, warn, error)"`
}

func main() {
	kong.Parse(&cli)

	cfg, err := player.LoadConfig(cli.Config)
	if err != nil {
		logging.SetupLogging(cli.LogLevel, true)
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if cli.LogLevel != "" {
		cfg.Logging.Level = cli.LogLevel
	}
	logging.SetupLogging(cfg.Logging.Level, cfg.Logging.Console)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := player.OpenCacheStore(cfg.Cache)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Cache.Backend).Msg("Failed to open cache store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close cache store")
		}
	}()

	// Validate has already accepted the policy
	policy, _ := coordinator.ParsePrecachePolicy(cfg.Precache)
	origin := cfg.OriginURL()
	coord, err := coordinator.New(ctx, store, coordinator.Options{
		Origin:   origin,
		Version:  cfg.Cache.Version,
		Precache: policy,
		Next:     http.DefaultTransport.(*http.Transport).Clone(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to start cache coordinator")
	}

	client := &http.Client{Transport: coord, Timeout: 30 * time.Second}
	doc := player.LoadDisplay(ctx, client, origin, cfg.TVID)
	log.Info().Int64("tv_id", cfg.TVID).Int("items", len(doc.Items)).Msg("Display loaded")

	replies := make(chan coordinator.Message, 1)
	coord.Post(coordinator.Message{Type: coordinator.MessagePrecacheTV, TVID: cfg.TVID}, replies)
	go func() {
		select {
		case reply := <-replies:
			log.Info().Int64("tv_id", reply.TVID).Int("count", reply.Count).Msg("Precache finished")
		case <-ctx.Done():
		}
	}()

	mpv := player.NewMPV(cfg.Player, "http://"+cfg.Listen)
	sched := scheduler.New(mpv, scheduler.Options{
		Items:       doc.Items,
		Transition:  player.Transition(doc, time.Duration(cfg.TransitionFallbackMs)*time.Millisecond),
		Preferences: store,
	})
	mpv.Attach(sched)

	withMetrics := cfg.MetricsListen != ""
	if withMetrics {
		go metrics.Server(ctx, cfg.MetricsListen)
	}

	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           player.Router(sched, coord.Proxy(origin), withMetrics),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Msgf("Listening on %s", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Failed HTTP server loop")
			stop()
		}
	}()

	if err = mpv.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start player")
	}
	defer mpv.Close()

	if err = sched.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Msg("Scheduler stopped")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
	coord.Wait()
	log.Info().Msg("Shut down")
}
