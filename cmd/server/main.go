package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/iliyamo/event-entry/internal/config"
	"github.com/iliyamo/event-entry/internal/database"
	"github.com/iliyamo/event-entry/internal/entrypass"
	"github.com/iliyamo/event-entry/internal/handler"
	"github.com/iliyamo/event-entry/internal/middleware"
	"github.com/iliyamo/event-entry/internal/queue"
	"github.com/iliyamo/event-entry/internal/repository"
	"github.com/iliyamo/event-entry/internal/router"
	"github.com/iliyamo/event-entry/internal/scanner"
	"github.com/iliyamo/event-entry/internal/schedule"
	"github.com/iliyamo/event-entry/internal/service"
	"github.com/iliyamo/event-entry/internal/upstream"
)

func main() {
	log := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load() // Load environment config
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if cfg.IsDev() {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.Open(ctx, cfg.DB.User, cfg.DB.Pass, cfg.DB.Host, cfg.DB.Port, cfg.DB.Name)
	if err != nil {
		log.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()
	if err := database.Migrate(ctx, db, log); err != nil {
		log.Fatal().Err(err).Msg("migrate database")
	}

	// Without Redis the gateway keeps sessions in process memory, which
	// only works for a single instance.
	rdb := config.NewRedisClient(ctx, cfg.Redis)
	var (
		passes   entrypass.Store
		sessions scanner.SessionStore
	)
	if rdb != nil {
		defer rdb.Close()
		passes = entrypass.NewRedisStore(rdb, "entrypass", cfg.EntryPass.SnapshotTTL)
		sessions = scanner.NewRedisSessionStore(rdb, "scan", cfg.Scanner.SessionTTL)
	} else {
		log.Warn().Str("addr", cfg.Redis.Address()).Msg("redis unreachable, using in-memory stores")
		passes = entrypass.NewMemoryStore(cfg.EntryPass.SnapshotTTL)
		sessions = scanner.NewMemorySessionStore()
	}

	policy, err := schedule.ParseTimePolicy(cfg.Schedule.TimePolicy)
	if err != nil {
		log.Fatal().Err(err).Msg("SHOW_TIME_POLICY")
	}
	loc, err := cfg.Schedule.Location()
	if err != nil {
		log.Fatal().Err(err).Msg("resolve timezone")
	}

	platform := upstream.New(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, log)
	publisher := service.NewPublisher(cfg.RabbitMQURL, log)
	defer publisher.Close()

	scanLogs := repository.NewScanLogRepo(db)
	attendance := repository.NewAttendanceRepo(db)

	drafts := schedule.NewDrafts(repository.NewShowDraftRepo(db), platform, schedule.RandomIDs{}, policy, loc, log)
	passManager := entrypass.NewManager(platform, passes, publisher, log, entrypass.Options{
		Rate:         cfg.EntryPass.Rate,
		PaymentDelay: cfg.EntryPass.PaymentDelay,
	})
	scan := scanner.New(platform, sessions, scanLogs, publisher, log, scanner.Options{
		EnrichConcurrency: cfg.Scanner.EnrichConcurrency,
	})

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.HidePort = true
	e.Use(echomw.Recover())
	e.Use(middleware.RequestID(log))
	e.Use(middleware.RequestLogger())

	router.RegisterRoutes(e, &handler.HealthHandler{DB: db, Redis: rdb})
	router.RegisterShared(e,
		handler.NewScheduleHandler(drafts),
		&handler.EventHandler{Events: platform, Policy: policy, Loc: loc},
		cfg.JWTSecret,
		middleware.NewRedisCache(cfg.Cache, rdb, log))
	router.RegisterOrganizer(e, handler.NewScheduleHandler(drafts), cfg.JWTSecret)
	router.RegisterCustomer(e, handler.NewEntryPassHandler(passManager), cfg.JWTSecret)
	router.RegisterStaff(e,
		&handler.ScannerHandler{Scanner: scan, Logs: scanLogs, Attendance: attendance},
		cfg.JWTSecret,
		middleware.NewTokenBucket(cfg.RateLimit, rdb, log))

	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		if err := queue.StartAttendanceConsumer(ctx, cfg.RabbitMQURL, attendance, log); err != nil && !errors.Is(err, context.Canceled) {
			log.Error().Err(err).Msg("attendance consumer stopped")
		}
	}()

	addr := ":" + cfg.Port
	go func() {
		log.Info().Str("addr", addr).Str("env", cfg.Env).Msg("listening")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("shutdown server")
	}
	<-consumerDone
	log.Info().Msg("shutdown complete")
}
