package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"newsreel/internal/app"
	"newsreel/internal/config"
	"newsreel/internal/dashboard"
	"newsreel/internal/fetcher"
	"newsreel/internal/history"
	"newsreel/internal/instagram"
	"newsreel/internal/logger"
	"newsreel/internal/scheduler"
	"newsreel/internal/scrape"
	"newsreel/internal/slides"
	"newsreel/internal/state"
)

func main() {
	godotenv.Load()
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	store := history.New(cfg.HistoryFilePath, cfg.HistoryRetention, cfg.SimilarityThreshold)
	if err := store.Load(); err != nil {
		logger.Error("failed to load history", "error", err)
		os.Exit(1)
	}
	logger.Info("history loaded", "records", store.Len())

	sources, err := fetcher.LoadSources(cfg.SourcesConfigPath)
	if err != nil {
		logger.Warn("sources config unavailable, using defaults", "path", cfg.SourcesConfigPath, "error", err)
		sources = fetcher.DefaultSources()
	}

	renderer, err := slides.NewRenderer(cfg.SlidesDir, cfg.RequestTimeout)
	if err != nil {
		logger.Error("failed to initialize renderer", "error", err)
		os.Exit(1)
	}

	auth := &instagram.Auth{
		Username:    cfg.InstagramUsername,
		Password:    cfg.InstagramPassword,
		SessionFile: cfg.SessionFilePath,
	}

	pipeline := app.NewPipeline(
		fetcher.New(cfg.NewsAPIKey, cfg.NewsCountry, sources, store, cfg.MaxHeadlines, cfg.RequestTimeout),
		scrape.NewExtractor(cfg.RequestTimeout),
		renderer,
		instagram.NewPublisher(auth, cfg.RetryAttempts, cfg.RetryDelay),
	)

	flag := state.NewFile(cfg.StateFilePath)

	sched := scheduler.New(pipeline, store, flag)
	if err := sched.Start(cfg.PostCronSpec, cfg.ResetCronSpec); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		os.Exit(1)
	}
	logger.Info("next post scheduled", "at", sched.NextRun())

	server := dashboard.NewServer(flag, sched, cfg.HealthToken)
	go func() {
		if err := server.Run(cfg.DashboardPort, cfg.AdminUser, cfg.AdminPassword); err != nil {
			logger.Error("dashboard server failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	sched.Stop()
}
