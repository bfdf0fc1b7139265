package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все настройки Size Review Service
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Store     StoreConfig
	MongoDB   MongoDBConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Kafka     KafkaConfig
	Reconcile ReconcileConfig
	Log       LogConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8084)
}

// CatalogConfig - внешний каталог товаров (проверка productId и категории)
type CatalogConfig struct {
	URL     string
	Token   string // Bearer токен, пустой - без авторизации
	Timeout time.Duration
}

// StoreConfig - выбор хранилища журнала отзывов
type StoreConfig struct {
	Driver  string        // mongo | postgres | memory
	Timeout time.Duration // Таймаут одной операции хранилища
}

type MongoDBConfig struct {
	URI      string
	Database string
}

// DatabaseConfig - PostgreSQL, используется при STORE_DRIVER=postgres
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig - кеш агрегатов посадки. Пустой Host отключает кеш
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type KafkaConfig struct {
	Brokers []string // Пустой список отключает публикацию событий
	Topic   string   // Топик для событий SIZE_REVIEW_CREATED
}

type ReconcileConfig struct {
	Schedule string // Расписание сверки агрегатов, пустое - сверка выключена
}

type LogConfig struct {
	Level        string
	LogstashAddr string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	catalogTimeout, err := getEnvDuration("CATALOG_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}
	storeTimeout, err := getEnvDuration("STORE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getEnvDuration("AGGREGATE_CACHE_TTL", 24*time.Hour)
	if err != nil {
		return nil, err
	}

	driver := strings.ToLower(getEnv("STORE_DRIVER", "mongo"))
	switch driver {
	case "mongo", "postgres", "memory":
	default:
		return nil, fmt.Errorf("unknown STORE_DRIVER %q (expected mongo, postgres or memory)", driver)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8084"),
		},
		Catalog: CatalogConfig{
			URL:     getEnv("CATALOG_API_URL", "https://api.codeitmall.com"),
			Token:   os.Getenv("CATALOG_API_TOKEN"),
			Timeout: catalogTimeout,
		},
		Store: StoreConfig{
			Driver:  driver,
			Timeout: storeTimeout,
		},
		MongoDB: MongoDBConfig{
			URI:      getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database: getEnv("MONGODB_DATABASE", "sizereview_service"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "sizereview_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Host:     os.Getenv("REDIS_HOST"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 3),
			TTL:      cacheTTL,
		},
		Kafka: KafkaConfig{
			Brokers: splitList(os.Getenv("KAFKA_BROKERS")),
			Topic:   getEnv("KAFKA_TOPIC", "size_review_events"),
		},
		Reconcile: ReconcileConfig{
			Schedule: getEnv("RECONCILE_SCHEDULE", "@every 10m"),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: os.Getenv("LOGSTASH_ADDR"),
		},
	}, nil
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// DSN возвращает строку подключения к PostgreSQL в формате URL для pgx
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *RedisConfig) Enabled() bool {
	return c.Host != ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvDuration принимает "5s", "10m" или целое число секунд
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	if seconds, err := strconv.Atoi(value); err == nil {
		return time.Duration(seconds) * time.Second, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}
