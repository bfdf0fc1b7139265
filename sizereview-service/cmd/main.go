package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"codeitmall/pkg/logger"
	"codeitmall/sizereview-service/internal/app/sizereviews/config"
	"codeitmall/sizereview-service/internal/app/sizereviews/handler"
	"codeitmall/sizereview-service/internal/app/sizereviews/infrastructure"
	"codeitmall/sizereview-service/internal/app/sizereviews/infrastructure/cache"
	cataloghttp "codeitmall/sizereview-service/internal/app/sizereviews/infrastructure/http"
	"codeitmall/sizereview-service/internal/app/sizereviews/infrastructure/messaging"
	"codeitmall/sizereview-service/internal/app/sizereviews/processor"
	"codeitmall/sizereview-service/internal/app/sizereviews/repository"
	"codeitmall/sizereview-service/internal/app/sizereviews/service"
)

const serviceName = "sizereview-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(serviceName, cfg.Log.Level)

	if cfg.Log.LogstashAddr != "" {
		if err := logger.InitLogstash(cfg.Log.LogstashAddr, serviceName, cfg.Log.Level); err != nil {
			logger.Warn().Err(err).Msg("Failed to connect to Logstash, using stdout only")
		} else {
			logger.Info().Str("logstash_addr", cfg.Log.LogstashAddr).Msg("Connected to Logstash")
		}
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	sizeReviewRepo, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.Store.Driver).Msg("Failed to open size review store")
	}
	defer closeStore()
	logger.Info().Str("driver", cfg.Store.Driver).Msg("Size review store ready")

	// кеш и Kafka необязательны: без них сервис пересчитывает агрегат на каждый запрос
	var aggregateCache infrastructure.AggregateCache
	if cfg.Redis.Enabled() {
		redisClient, err := cache.NewRedisClient(ctx, cfg.Redis.Address(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn().Err(err).Str("address", cfg.Redis.Address()).Msg("Redis unavailable, aggregate cache disabled")
		} else {
			redisCache := cache.NewRedisAggregateCache(redisClient, cfg.Redis.TTL)
			defer redisCache.Close()
			aggregateCache = redisCache
			logger.Info().Str("address", cfg.Redis.Address()).Msg("Connected to Redis")
		}
	}

	var publisher infrastructure.MessagePublisher
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaProducer := messaging.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		defer kafkaProducer.Close()
		publisher = kafkaProducer
		logger.Info().
			Strs("brokers", cfg.Kafka.Brokers).
			Str("topic", cfg.Kafka.Topic).
			Msg("Initialized Kafka producer")
	}

	catalogClient := cataloghttp.NewCatalogClient(cfg.Catalog.URL, cfg.Catalog.Timeout)
	if cfg.Catalog.Token != "" {
		catalogClient.SetAuthToken(cfg.Catalog.Token)
	}

	validator := service.NewReviewValidator(catalogClient)
	feedService := service.NewFeedService(sizeReviewRepo, validator, aggregateCache, publisher, cfg.Store.Timeout)
	catalogService := service.NewCatalogService(catalogClient)

	var scheduler *processor.CronScheduler
	if aggregateCache != nil && cfg.Reconcile.Schedule != "" {
		scheduler = processor.NewCronScheduler(feedService)
		if err := scheduler.Start(ctx, cfg.Reconcile.Schedule); err != nil {
			logger.Fatal().Err(err).Str("schedule", cfg.Reconcile.Schedule).Msg("Failed to start cron scheduler")
		}
	}

	router := handler.SetupRoutes(
		handler.NewSizeReviewHandler(feedService),
		handler.NewProductHandler(catalogService),
		handler.NewHealthHandler(feedService),
	)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("Starting Size Review Service")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down Size Review Service...")

	if scheduler != nil {
		scheduler.Stop()
	}
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Size Review Service stopped gracefully")
}

// openStore открывает хранилище по STORE_DRIVER и возвращает функцию закрытия
func openStore(ctx context.Context, cfg *config.Config) (repository.SizeReviewRepository, func(), error) {
	switch cfg.Store.Driver {
	case repository.DriverMemory:
		logger.Warn().Msg("Using in-memory size review store, data is lost on restart")
		return repository.NewMemorySizeReviewRepository(), func() {}, nil

	case repository.DriverPostgres:
		pool, err := connectPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, err
		}
		db, err := gorm.Open(postgres.New(postgres.Config{Conn: stdlib.OpenDBFromPool(pool)}), &gorm.Config{
			Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		})
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("failed to open gorm: %w", err)
		}
		if err := repository.MigratePostgres(db); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repository.NewPostgresSizeReviewRepository(db), pool.Close, nil

	default:
		client, err := connectMongoDB(ctx, cfg.MongoDB)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				logger.Error().Err(err).Msg("Error disconnecting from MongoDB")
			}
		}
		return repository.NewMongoSizeReviewRepository(client.Database(cfg.MongoDB.Database)), closeFn, nil
	}
}

// connectMongoDB подключается к MongoDB с 10 попытками, пока контейнер поднимается
func connectMongoDB(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, error) {
	clientOptions := options.Client().ApplyURI(cfg.URI)

	var err error
	for i := 0; i < 10; i++ {
		var client *mongo.Client
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		client, err = mongo.Connect(connectCtx, clientOptions)
		if err == nil {
			err = client.Ping(connectCtx, nil)
			if err == nil {
				cancel()
				logger.Info().Str("database", cfg.Database).Msg("Connected to MongoDB")
				return client, nil
			}
			_ = client.Disconnect(context.Background())
		}
		cancel()

		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to MongoDB, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}

// connectPostgres открывает пул pgx с повторными попытками
func connectPostgres(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool config: %w", err)
	}

	poolConfig.MaxConns = 25
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = 5 * time.Minute
	poolConfig.MaxConnIdleTime = 1 * time.Minute
	poolConfig.HealthCheckPeriod = 1 * time.Minute

	var pool *pgxpool.Pool
	for i := 0; i < 10; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, poolConfig)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				logger.Info().Str("database", cfg.DBName).Msg("Connected to PostgreSQL")
				return pool, nil
			}
			pool.Close()
		}
		logger.Warn().
			Int("attempt", i+1).
			Err(err).
			Msg("Failed to connect to database, retrying...")
		time.Sleep(3 * time.Second)
	}

	return nil, fmt.Errorf("failed to connect after 10 attempts: %w", err)
}
