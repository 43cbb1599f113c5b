package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/skyroutex/surveyplanner/core"
	"github.com/skyroutex/surveyplanner/internal/api"
	"github.com/skyroutex/surveyplanner/internal/config"
	"github.com/skyroutex/surveyplanner/internal/logging"
	"github.com/skyroutex/surveyplanner/internal/observability"
	"github.com/skyroutex/surveyplanner/missionstore"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML server config; defaults and PLANNER_* env vars apply on top")
	flag.Parse()

	ctx := context.Background()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.NewFromEnv().Error(ctx, "failed to load config",
			logging.String("path", *configPath),
			logging.String("error", err.Error()),
		)
		os.Exit(1)
	}

	log := logging.New(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: true,
	})

	shutdownTracing, err := observability.InitTracing(ctx, observability.TracingConfigFromEnv(), log)
	if err != nil {
		log.Error(ctx, "failed to initialise tracing", logging.String("error", err.Error()))
		os.Exit(1)
	}
	defer observability.ShutdownWithTimeout(ctx, shutdownTracing, log)

	apiMetrics, err := observability.NewAPICollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise api metrics", logging.String("error", err.Error()))
		os.Exit(1)
	}
	planMetrics, err := observability.NewPlannerCollector(nil)
	if err != nil {
		log.Error(ctx, "failed to initialise planner metrics", logging.String("error", err.Error()))
		os.Exit(1)
	}

	store := missionstore.NewStore()
	store.Subscribe(func(missionstore.Event) {
		apiMetrics.SetStoredMissions(store.Len())
	})

	planner := core.NewPlanner()
	planner.Stats = core.StatsConfig{
		CruiseSpeedMPS:        cfg.Planner.CruiseSpeedMPS,
		BatteryDrainPerSecond: cfg.Planner.BatteryDrainPerSecond,
	}
	planner.WaypointLimit = cfg.Planner.WaypointLimit

	server, err := api.NewServer(api.Options{
		ListenAddr:     cfg.Server.ListenAddr,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		Logger:         log,
		Planner:        planner,
		Store:          store,
		APIMetrics:     apiMetrics,
		PlannerMetrics: planMetrics,
	})
	if err != nil {
		log.Error(ctx, "failed to build server", logging.String("error", err.Error()))
		os.Exit(1)
	}

	go func() {
		if err := server.Start(); err != nil {
			log.Error(ctx, "http server exited", logging.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stopCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-stopCtx.Done()

	log.Info(ctx, "shutting down planner server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn(ctx, "server shutdown failed", logging.String("error", err.Error()))
	}
}
