// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/backend"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/config"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/handler/api"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/imaging"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/logging"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/media"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/middleware"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/scheduler"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/session"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/store"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/upload"
	"github.com/SE02-SAD-Group-Project2025/Tour-Nexus-sub000/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func buildInfo() version.Info {
	return version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
}

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Tour Nexus - listing form service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TN_SERVER_PORT         Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TN_BACKEND_PROVIDER    Listing backend: sqlite|rest (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TN_UPLOAD_PROVIDER     Image storage: local|http (default: local)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  TN_DB_PATH             SQLite database path (default: ./data/tournexus.db)\n")
	}
	flag.Parse()

	if *showVersion {
		_, _ = fmt.Println(buildInfo())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	slog.SetDefault(slog.New(textHandler))

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	// Warnings and errors also go to the event log.
	logger := slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)

	uploader, err := upload.New(upload.Config{
		Provider:      cfg.UploadProvider,
		Dir:           cfg.UploadsDir,
		PublicBaseURL: cfg.PublicBaseURL,
		Endpoint:      cfg.UploadEndpoint,
		APIKey:        cfg.UploadAPIKey,
		Folder:        cfg.UploadFolder,
		Timeout:       cfg.RequestTimeout,
	})
	if err != nil {
		return fmt.Errorf("initializing uploads: %w", err)
	}

	listings, err := backend.New(backend.Config{
		Provider: cfg.BackendProvider,
		BaseURL:  cfg.BackendURL,
		Token:    cfg.BackendToken,
		Timeout:  cfg.RequestTimeout,
		DB:       db,
	})
	if err != nil {
		return fmt.Errorf("initializing backend: %w", err)
	}
	slog.Info("listing backend ready", "provider", cfg.BackendProvider)

	previews, err := imaging.NewPreviews(cfg.PreviewDir)
	if err != nil {
		return fmt.Errorf("initializing previews: %w", err)
	}

	sessions := session.NewRegistry(logger)
	defer sessions.CloseAll()

	sched := scheduler.New(logger)
	if err := sched.Add(scheduler.SessionSweepJob(cfg.SweepSchedule, sessions, cfg.SessionIdleTTL)); err != nil {
		return fmt.Errorf("scheduling session sweep: %w", err)
	}
	if err := sched.Add(scheduler.EventPruneJob(store.New(db), cfg.EventRetention, logger)); err != nil {
		return fmt.Errorf("scheduling event prune: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	var uploadsDir string
	if cfg.UploadProvider == upload.ProviderLocal {
		uploadsDir = cfg.UploadsDir
	}
	apiHandler, err := api.NewHandler(api.Config{
		Sessions: sessions,
		Backend:  listings,
		NewArena: func() *media.Arena {
			return media.NewArena(uploader,
				media.WithMaxSize(cfg.MaxImageSize),
				media.WithConcurrency(cfg.UploadWorkers),
				media.WithPreviews(previews),
				media.WithLogger(logger),
			)
		},
		Previews:    previews,
		UploadsDir:  uploadsDir,
		RateLimiter: middleware.NewRateLimiter(cfg.UploadRateLimit, cfg.UploadRateBurst),
		AdminToken:  cfg.AdminToken,
		Version:     buildInfo(),
		Logger:      logger,
	})
	if err != nil {
		return fmt.Errorf("initializing api: %w", err)
	}

	if apiHandler.ReviewEnabled() {
		slog.Info("listing review routes enabled")
	} else if cfg.BackendProvider == backend.ProviderSQLite {
		slog.Warn("TN_ADMIN_TOKEN is not set; listings cannot be approved and stay locked for editing")
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders(cfg.IsDevelopment()))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Mount("/", apiHandler.Routes())

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       30 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
