package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/courierdash/backend/docs"

	shippingapp "github.com/courierdash/backend/internal/application/shipping"
	"github.com/courierdash/backend/internal/infrastructure/cache"
	"github.com/courierdash/backend/internal/infrastructure/config"
	"github.com/courierdash/backend/internal/infrastructure/logger"
	"github.com/courierdash/backend/internal/infrastructure/migration"
	"github.com/courierdash/backend/internal/infrastructure/persistence"
	"github.com/courierdash/backend/internal/infrastructure/scheduler"
	"github.com/courierdash/backend/internal/infrastructure/telemetry"
	"github.com/courierdash/backend/internal/interfaces/http/handler"
	"github.com/courierdash/backend/internal/interfaces/http/middleware"
	"github.com/courierdash/backend/internal/interfaces/http/router"
	"github.com/courierdash/backend/migrations"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

//	@title			Courier Rates API
//	@version		1.0
//	@description	Compares shipping quotes from FedEx, Delhivery and Shiprocket
//	@BasePath		/api/v1

func main() {
	// A missing .env is fine; real environments set variables directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Output:  cfg.Log.Output,
		Service: cfg.App.Name,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting courier rate service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.MetricsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ExportInterval:    cfg.Telemetry.MetricsInterval,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	loggerProvider, err := telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Enabled:           cfg.Telemetry.LogsEnabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		ServiceVersion:    version,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	log = loggerProvider.Bridge(log)

	profiler, err := telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         cfg.Telemetry.ProfilingEnabled,
		ServerAddress:   cfg.Telemetry.ProfilerAddress,
		ApplicationName: cfg.Telemetry.ServiceName,
		ProfileTypes:    cfg.Telemetry.ProfileTypes,
	}, log)
	if err != nil {
		log.Fatal("Failed to start profiler", zap.Error(err))
	}
	tracerProvider.EnableSpanProfiles(profiler)

	rateMetrics, err := telemetry.NewRateMetrics(meterProvider.Meter("courier-rates"))
	if err != nil {
		log.Fatal("Failed to register rate metrics", zap.Error(err))
	}

	// Provider tokens
	tokens, err := cache.NewTokenStore(cfg.TokenCache.Driver, cache.RedisConfig{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, cfg.TokenCache.KeyPrefix)
	if err != nil {
		log.Fatal("Failed to initialize token cache", zap.Error(err))
	}
	defer func() {
		if err := tokens.Close(); err != nil {
			log.Error("Error closing token cache", zap.Error(err))
		}
	}()

	providers, err := buildProviders(cfg, tokens, log)
	if err != nil {
		log.Fatal("Invalid courier configuration", zap.Error(err))
	}
	if len(providers.summary) == 0 {
		log.Warn("No courier providers configured, every quote will return no rates")
	}

	aggregator := shippingapp.NewRateAggregator(providers.summary, providers.detailed,
		shippingapp.WithProviderTimeout(cfg.Aggregator.ProviderTimeout),
		shippingapp.WithAggregatorLogger(log),
		shippingapp.WithRateMetrics(rateMetrics),
	)

	serviceOpts := []shippingapp.ServiceOption{shippingapp.WithServiceLogger(log)}
	systemOpts := []handler.SystemOption{handler.WithProviders(providers.Codes())}
	if pinger, ok := tokens.(handler.Pinger); ok {
		systemOpts = append(systemOpts, handler.WithHealthCheck("token_cache", pinger))
	}

	// Quote history is optional
	var retention *scheduler.RetentionScheduler
	if cfg.Database.Enabled {
		db, err := persistence.NewDatabase(&cfg.Database, log)
		if err != nil {
			log.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer func() {
			if err := db.Close(); err != nil {
				log.Error("Error closing database", zap.Error(err))
			}
		}()

		if err := telemetry.RegisterDBTracing(db.DB, telemetry.DBTracingConfig{
			Enabled: cfg.Telemetry.Enabled,
			DBName:  cfg.Database.DBName,
		}, log); err != nil {
			log.Fatal("Failed to register database tracing", zap.Error(err))
		}
		if cfg.Database.AutoMigrate {
			if err := migration.Apply(cfg.Database.DSN(), migrations.FS, log); err != nil {
				log.Fatal("Failed to migrate database", zap.Error(err))
			}
		}

		quotes := persistence.NewGormQuoteRepository(db.DB)
		serviceOpts = append(serviceOpts, shippingapp.WithQuoteRecorder(quotes), shippingapp.WithQuoteHistory(quotes))
		systemOpts = append(systemOpts, handler.WithHealthCheck("database", db))
		log.Info("Quote history enabled", zap.String("database", cfg.Database.DBName))

		retention, err = scheduler.NewRetentionScheduler(quotes, log, scheduler.RetentionSchedulerConfig{
			Enabled:        cfg.Database.HistoryRetention > 0,
			Retention:      cfg.Database.HistoryRetention,
			CleanupHour:    cfg.Database.RetentionHour,
			CleanupTimeout: scheduler.DefaultRetentionSchedulerConfig().CleanupTimeout,
		})
		if err != nil {
			log.Fatal("Invalid quote history retention", zap.Error(err))
		}
		if err := retention.Start(ctx); err != nil {
			log.Fatal("Failed to start quote history retention", zap.Error(err))
		}
	}

	rateService := shippingapp.NewRateCalculationService(aggregator, serviceOpts...)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.TracingAttributeInjector())
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		Enabled:       cfg.Telemetry.MetricsEnabled,
	}))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.HTTP.CORSAllowOrigins,
		AllowMethods: cfg.HTTP.CORSAllowMethods,
		AllowHeaders: cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders: []string{
			middleware.RequestIDHeader,
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
		},
		MaxAge: middleware.DefaultCORSConfig().MaxAge,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	var rateMiddleware []gin.HandlerFunc
	if cfg.HTTP.ClientRateLimit > 0 {
		limiter := middleware.NewRateLimiter(cfg.HTTP.ClientRateLimit, cfg.HTTP.ClientRateBurst)
		defer limiter.Stop()
		rateMiddleware = append(rateMiddleware, middleware.RateLimit(limiter))
		log.Info("Client rate limiting enabled",
			zap.Float64("per_second", cfg.HTTP.ClientRateLimit),
			zap.Int("burst", cfg.HTTP.ClientRateBurst),
		)
	}

	systemHandler := handler.NewSystemHandler(cfg.App.Name, version, systemOpts...)
	routerOpts := []router.RouterOption{router.WithHealthHandler(systemHandler.Health)}
	if cfg.Swagger.Enabled {
		routerOpts = append(routerOpts, router.WithSwagger(ginSwagger.WrapHandler(swaggerFiles.Handler)))
	}
	routes := router.NewRouter(engine, routerOpts...).
		Register(router.NewRatesGroup(handler.NewRateHandler(rateService), rateMiddleware...)).
		Register(router.NewSystemGroup(systemHandler)).
		Setup()
	for _, r := range routes {
		log.Debug("Route registered", zap.String("method", r.Method), zap.String("path", r.Path))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}
	if retention != nil {
		if err := retention.Stop(shutdownCtx); err != nil {
			log.Error("Error stopping quote history retention", zap.Error(err))
		}
	}
	if err := meterProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down meter provider", zap.Error(err))
	}
	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down tracer provider", zap.Error(err))
	}
	if err := profiler.Stop(); err != nil {
		log.Error("Error stopping profiler", zap.Error(err))
	}

	log.Info("Server exited gracefully")
	if err := loggerProvider.Shutdown(shutdownCtx); err != nil {
		log.Error("Error shutting down logger provider", zap.Error(err))
	}
}
