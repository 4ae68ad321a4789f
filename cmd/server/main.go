// Synthrec - Synthetic Interaction Data and Neural Recommendation Pipeline
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/synthrec

package main

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/tomtom215/synthrec/internal/api"
	"github.com/tomtom215/synthrec/internal/cli"
	"github.com/tomtom215/synthrec/internal/config"
	"github.com/tomtom215/synthrec/internal/logging"
	"github.com/tomtom215/synthrec/internal/recommend"
	"github.com/tomtom215/synthrec/internal/recommend/storage"
	"github.com/tomtom215/synthrec/internal/supervisor"
	"github.com/tomtom215/synthrec/internal/supervisor/services"
)

func main() {
	cli.Main("server", run)
}

func run(ctx context.Context, args []string, _ io.Writer) error {
	cmd := cli.New("server", map[string]string{
		"host":            "server.host",
		"port":            "server.port",
		"store-path":      "precompute.store_path",
		"reload-interval": "server.reload_interval",
	})
	cmd.Flags.String("host", "0.0.0.0", "listen host")
	cmd.Flags.Int("port", 8080, "listen port")
	cmd.Flags.String("store-path", "data/recommendations.badger", "badger store written by precompute")
	cmd.Flags.Duration("reload-interval", time.Minute, "how often to poll for new checkpoints")
	if err := cmd.Load(args); err != nil {
		return err
	}
	cfg := cmd.Config

	logging.Info().
		Str("addr", cfg.Server.Addr()).
		Str("data_dir", cfg.Paths.DataDir).
		Str("model_dir", cfg.Paths.ModelDir).
		Str("output_dir", cfg.Paths.OutputDir).
		Msg("Starting synthrec API server")

	checkpoints, err := storage.NewCheckpointStore(cfg.Paths.ModelDir, cfg.Train.KeepVersions, logging.Logger())
	if err != nil {
		return err
	}
	registry := api.NewModelRegistry(checkpoints, logging.Component("models"))

	// The store is optional: without it the stored-list route answers 503.
	var reader api.RecommendationReader
	store, err := storage.OpenRecommendationStore(cfg.Precompute.StorePath)
	if err != nil {
		logging.Warn().Err(err).Str("path", cfg.Precompute.StorePath).
			Msg("Recommendation store unavailable, serving without it")
	} else {
		reader = store
		defer func() {
			if cerr := store.Close(); cerr != nil {
				logging.Error().Err(cerr).Msg("Error closing recommendation store")
			}
		}()
	}

	handler := api.NewHandler(api.HandlerConfig{
		DataDir:        cfg.Paths.DataDir,
		OutputDir:      cfg.Paths.OutputDir,
		Limits:         &recommend.Config{DefaultTopK: cfg.Precompute.TopK, MaxTopK: recommend.DefaultConfig().MaxTopK},
		RequestTimeout: cfg.Server.Timeout,
	}, reader, registry)
	defer handler.Close()

	router := api.NewRouter(handler, middlewareConfig(&cfg.Server))
	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       60 * time.Second,
	}

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.TreeConfig{
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	})
	if err != nil {
		return err
	}
	tree.AddModelService(services.NewModelReloadService(registry, services.ModelReloadConfig{
		ReloadOnStartup: true,
		Interval:        cfg.Server.ReloadInterval,
	}, logging.Logger()))
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout, logging.Logger()))

	logging.Info().Msg("Starting supervisor tree")
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	if unstopped, _ := tree.UnstoppedServiceReport(); len(unstopped) > 0 {
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop within timeout")
		}
	}
	logging.Info().Msg("Server stopped")
	return cmd.Finish()
}

func middlewareConfig(s *config.ServerConfig) *api.ChiMiddlewareConfig {
	mw := api.DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = s.CORSOrigins
	mw.RateLimitRequests = s.RateLimitRequests
	mw.RateLimitWindow = s.RateLimitWindow
	mw.RateLimitDisabled = s.RateLimitDisabled
	return mw
}
