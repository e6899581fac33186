package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/clipcutter/clipcutter/internal/analysis"
	"github.com/clipcutter/clipcutter/internal/api"
	"github.com/clipcutter/clipcutter/internal/clipper"
	"github.com/clipcutter/clipcutter/internal/config"
	"github.com/clipcutter/clipcutter/internal/db"
	"github.com/clipcutter/clipcutter/internal/ffmpeg"
	"github.com/clipcutter/clipcutter/internal/gemini"
	"github.com/clipcutter/clipcutter/internal/jobs"
	"github.com/clipcutter/clipcutter/internal/repository"
	"github.com/clipcutter/clipcutter/internal/scheduler"
	"github.com/clipcutter/clipcutter/internal/storage"
	"github.com/clipcutter/clipcutter/internal/version"
	"github.com/clipcutter/clipcutter/internal/watcher"
)

func main() {
	cfg := config.Load()
	log := config.NewLogger(cfg.LogLevel)
	log.Infof("clipcutter %s starting", version.Version)

	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		log.WithError(err).Fatal("database connection failed")
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		log.WithError(err).Fatal("migration failed")
	}
	userRepo := repository.NewUserRepository(database.DB)
	videoRepo := repository.NewVideoRepository(database.DB)
	analysisRepo := repository.NewAnalysisRepository(database.DB)
	settingsRepo := repository.NewSettingsRepository(database.DB)

	if values, err := settingsRepo.Snapshot(); err != nil {
		log.WithError(err).Warn("could not load stored settings")
	} else {
		cfg.ApplyOverrides(values)
	}

	prober := ffmpeg.NewFFprobe(cfg.FFprobePath)
	cutter := ffmpeg.NewFFmpeg(cfg.FFmpegPath)

	pipelineCfg := analysis.DefaultConfig()
	pipelineCfg.MaxUploadBytes = cfg.MaxUploadBytes
	pipelineCfg.TargetSegmentBytes = cfg.TargetSegBytes
	pipelineCfg.MinConfidence = cfg.MinConfidence
	pipelineCfg.AcceptedAngle = cfg.AcceptedAngle
	pipelineCfg.Verify = cfg.EnableVerify
	pipelineCfg.DefaultPadding = cfg.DefaultPadding
	pipelineCfg.MaxPadding = cfg.MaxPadding
	pipelineCfg.WorkDir = cfg.DataDir

	var remote analysis.RemoteClient
	if cfg.GeminiConfigured() {
		remote, err = gemini.NewClient(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiRPM, log)
		if err != nil {
			log.WithError(err).Fatal("gemini client init failed")
		}
	} else {
		log.Warn("GOOGLE_API_KEY not set, analysis endpoints disabled")
	}

	extractor := clipper.NewExtractor(cutter, cfg.DataDir, log)
	pipeline := analysis.NewPipeline(prober, cutter, remote, extractor, pipelineCfg, log)
	manager := jobs.NewManager(pipeline, analysisRepo, log)

	var store storage.Store
	if cfg.StorageEnabled() {
		store = storage.NewSupabase(cfg.StorageURL, cfg.StorageKey, cfg.StorageBucket, log)
		manager.SetStore(store)
	}

	srv := api.NewServer(cfg, userRepo, videoRepo, analysisRepo, settingsRepo, manager, prober, store, log)

	sched := scheduler.New(analysisRepo, cfg.RetentionHours, log)
	if err := sched.Start(cfg.CleanupSchedule); err != nil {
		log.WithError(err).Fatal("scheduler start failed")
	}
	defer sched.Stop()

	if cfg.InboxDir != "" {
		inbox, err := watcher.New(cfg.InboxDir, func(path string) {
			if _, err := srv.RegisterLocalVideo(path); err != nil {
				log.WithError(err).WithField("path", path).Warn("could not register inbox video")
			}
		}, log)
		if err != nil {
			log.WithError(err).Fatal("inbox watcher init failed")
		}
		if err := inbox.Start(); err != nil {
			log.WithError(err).Fatal("inbox watcher start failed")
		}
		defer inbox.Stop()
	}

	httpServer := &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.Port),
		Handler:      srv.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("listening on :%d", cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	httpServer.Shutdown(ctx)
}
