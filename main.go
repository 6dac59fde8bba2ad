package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"github.com/gofiber/utils"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"edudash_backend/internals/configs"
	database "edudash_backend/internals/databases"
	"edudash_backend/internals/features/principal_hub/repository"
	"edudash_backend/internals/features/principal_hub/service"
	helper "edudash_backend/internals/helpers"
	"edudash_backend/internals/helpers/dbtime"
	middlewares "edudash_backend/internals/middlewares"
	routes "edudash_backend/internals/route"
)

func main() {
	cfg, err := configs.LoadEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("❌ config error")
	}
	logger := configs.InitLogger(cfg.AppEnv)

	app := fiber.New(fiber.Config{
		// 🚀 fast JSON
		JSONEncoder:           sonic.Marshal,
		JSONDecoder:           sonic.Unmarshal,
		DisableStartupMessage: true,
		ErrorHandler:          helper.FromFiberError,
		ProxyHeader:           fiber.HeaderXForwardedFor,
	})

	// ⚙️ base middleware + performance
	app.Use(compress.New(compress.Config{Level: compress.LevelDefault})) // gzip
	app.Use(etag.New())                                                  // 304 caching

	// 🔎 Request-ID + timing
	app.Use(requestContext(logger))

	middlewares.SetupMiddlewares(app, cfg.AllowedOrigins, cfg.SchoolTimezone, logger)

	// 🔌 DB connect + pool + warm-up
	if err := database.ConnectDB(cfg, logger); err != nil {
		logger.Fatal().Err(err).Msg("❌ failed to connect to database")
	}
	database.TunePool(logger)
	database.WarmUpQueries(logger)

	// 📊 principal hub
	store, closeStore := snapshotStore(cfg, logger)
	defer closeStore()

	aggregator := service.NewAggregator(
		repository.NewGormSource(database.DB),
		service.AggregatorOptions{
			TeacherWorkers: cfg.HubTeacherWorkers,
			Now:            dbtime.SchoolClock(dbtime.LoadSchoolLocation(cfg.SchoolTimezone)),
		},
		logger,
	)
	hub := service.NewHub(aggregator, service.HubOptions{
		DedupWindow:  cfg.HubDedupWindow,
		FetchTimeout: cfg.HubFetchTimeout,
		Store:        store,
	}, logger)

	// ⏱ reaper after the hub exists
	reaper, err := service.StartHubReaper(hub, cfg.HubReaperSpec, cfg.HubEntryTTL, logger)
	if err != nil {
		logger.Fatal().Err(err).Str("spec", cfg.HubReaperSpec).Msg("❌ invalid reaper schedule")
	}

	// ✅ Routes
	routes.SetupRoutes(app, routes.Deps{Config: cfg, DB: database.DB, Hub: hub, Logger: logger})

	// 🔒 Keep-Alive & server timeouts
	app.Server().ReadTimeout = 15 * time.Second
	app.Server().WriteTimeout = 30 * time.Second
	app.Server().IdleTimeout = 90 * time.Second

	// Start server non-blocking
	go func() {
		logger.Info().Str("port", cfg.Port).Msg("✅ Listening")
		if err := app.Listen("0.0.0.0:" + cfg.Port); err != nil {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	// graceful shutdown: stop reaper, drain HTTP, close DB pool
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("🛑 shutting down")

	<-reaper.Stop().Done()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = app.ShutdownWithContext(ctx)
	database.Close()
}

// requestContext tags each request with an id and bounds it with a timeout
// aligned to the DB statement_timeout.
func requestContext(logger zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get("X-Request-ID")
		if id == "" {
			id = utils.UUID()
		}
		c.Set("X-Request-ID", id)
		c.Locals("reqid", id)
		start := time.Now()

		ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
		defer cancel()
		c.SetUserContext(logger.With().Str("request_id", id).Logger().WithContext(ctx))

		err := c.Next()
		logger.Debug().
			Str("request_id", id).
			Str("method", c.Method()).
			Str("url", c.OriginalURL()).
			Int("status", c.Response().StatusCode()).
			Dur("dur", time.Since(start)).
			Msg("[REQ]")
		return err
	}
}

// snapshotStore shares last good dashboards through Redis when REDIS_URL is
// set and falls back to process memory otherwise.
func snapshotStore(cfg configs.AppConfig, logger zerolog.Logger) (service.SnapshotStore, func()) {
	if cfg.RedisURL == "" {
		logger.Info().Msg("🧠 principal hub snapshots kept in memory")
		return service.NewMemorySnapshotStore(cfg.HubEntryTTL), func() {}
	}
	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Warn().Err(err).Msg("⚠️ invalid REDIS_URL, snapshots kept in memory")
		return service.NewMemorySnapshotStore(cfg.HubEntryTTL), func() {}
	}
	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn().Err(err).Msg("⚠️ redis unreachable, snapshots kept in memory")
		_ = client.Close()
		return service.NewMemorySnapshotStore(cfg.HubEntryTTL), func() {}
	}
	logger.Info().Msg("✅ principal hub snapshots shared via redis")
	return service.NewRedisSnapshotStore(client, cfg.HubEntryTTL), func() { _ = client.Close() }
}
