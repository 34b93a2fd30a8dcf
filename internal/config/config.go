// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/vidstream/video-platform-go/internal/db"
)

// Config holds all configuration for the application.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Storage  StorageConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Worker   WorkerConfig
	Auth     AuthConfig
	Videos   VideosConfig
	Logging  LoggingConfig
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	Port            int
	ShutdownTimeout time.Duration
	RateLimitRPS    float64
	RateLimitBurst  int
	CORSOrigins     []string
	UploadDir       string
	MaxUploadSize   int64
}

// DatabaseConfig contains database connection configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type DatabaseConfig struct {
	Host           string
	Name           string
	User           string
	Password       string
	SSLMode        string
	Port           int
	MaxConnections int
	MinConnections int
	MaxIdleTime    time.Duration
	MaxLifetime    time.Duration
}

// PoolConfig converts the settings into a db.Config.
func (c DatabaseConfig) PoolConfig() *db.Config {
	return &db.Config{
		Host:            c.Host,
		Port:            c.Port,
		User:            c.User,
		Password:        c.Password,
		Database:        c.Name,
		SSLMode:         c.SSLMode,
		MaxConns:        int32(c.MaxConnections),
		MinConns:        int32(c.MinConnections),
		MaxConnLifetime: c.MaxLifetime,
		MaxConnIdleTime: c.MaxIdleTime,
	}
}

// ConnString builds the pgx connection string.
func (c DatabaseConfig) ConnString() string {
	return c.PoolConfig().ConnString()
}

// URL builds the postgres:// URL used by golang-migrate.
func (c DatabaseConfig) URL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Name, c.SSLMode)
}

// StorageConfig contains the media object store (MinIO/S3) configuration.
type StorageConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	UseSSL        bool
	PublicBaseURL string
}

// RabbitMQConfig contains RabbitMQ connection and exchange configuration.
//
//nolint:govet // fieldalignment: Accept minor memory overhead for better readability
type RabbitMQConfig struct {
	Host     string
	User     string
	Password string
	Exchange string
	Port     int
	Enabled  bool
}

// URL builds the AMQP connection URL.
func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Password, c.Host, c.Port)
}

// RedisConfig contains the Redis connection used by the task queue.
type RedisConfig struct {
	URL string
}

// WorkerConfig contains media worker settings.
type WorkerConfig struct {
	Concurrency int
}

// AuthConfig contains bearer token validation settings.
type AuthConfig struct {
	JWTSecret string
}

// VideosConfig contains video access and listing policy.
type VideosConfig struct {
	// OwnerOnlyPreview restricts unpublished video detail to the owner.
	OwnerOnlyPreview bool
	DefaultPageSize  int
	MaxPageSize      int
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level string
	File  string
}

// Load loads configuration from file and environment variables.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	setDefaults()

	// APP_DATABASE_HOST overrides database.host
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that have no usable default.
func (c *Config) Validate() error {
	if c.Videos.DefaultPageSize <= 0 || c.Videos.MaxPageSize < c.Videos.DefaultPageSize {
		return fmt.Errorf("invalid video page sizes: default=%d max=%d", c.Videos.DefaultPageSize, c.Videos.MaxPageSize)
	}
	if c.Storage.Bucket == "" {
		return fmt.Errorf("storage.bucket must be set")
	}
	return nil
}

func setDefaults() {
	// Server
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.shutdowntimeout", 30*time.Second)
	viper.SetDefault("server.ratelimitrps", 20.0)
	viper.SetDefault("server.ratelimitburst", 40)
	viper.SetDefault("server.corsorigins", []string{"*"})
	viper.SetDefault("server.uploaddir", "")
	viper.SetDefault("server.maxuploadsize", 512<<20)

	// Database
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "video_platform")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.maxconnections", 25)
	viper.SetDefault("database.minconnections", 5)
	viper.SetDefault("database.maxidletime", 30*time.Minute)
	viper.SetDefault("database.maxlifetime", 1*time.Hour)

	// Media storage
	viper.SetDefault("storage.endpoint", "localhost:9000")
	viper.SetDefault("storage.accesskey", "minioadmin")
	viper.SetDefault("storage.secretkey", "minioadmin")
	viper.SetDefault("storage.bucket", "media")
	viper.SetDefault("storage.usessl", false)
	viper.SetDefault("storage.publicbaseurl", "")

	// RabbitMQ
	viper.SetDefault("rabbitmq.enabled", true)
	viper.SetDefault("rabbitmq.host", "localhost")
	viper.SetDefault("rabbitmq.port", 5672)
	viper.SetDefault("rabbitmq.user", "guest")
	viper.SetDefault("rabbitmq.password", "guest")
	viper.SetDefault("rabbitmq.exchange", "video.events")

	// Redis
	viper.SetDefault("redis.url", "redis://localhost:6379/0")

	// Worker
	viper.SetDefault("worker.concurrency", 4)

	// Auth
	viper.SetDefault("auth.jwtsecret", "")

	// Videos
	viper.SetDefault("videos.owneronlypreview", true)
	viper.SetDefault("videos.defaultpagesize", 10)
	viper.SetDefault("videos.maxpagesize", 100)

	// Logging
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.file", "")
}
