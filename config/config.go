package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/GoSim-25-26J-441/product-catalog/internal/storage"
	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Storage StorageConfig
	Redis   RedisConfig
	SQLite  SQLiteConfig
	DB      DatabaseConfig
	S3      S3Config
	Backup  BackupConfig
	App     AppConfig
}

type ServerConfig struct {
	Port           string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
}

type StorageConfig struct {
	Driver storage.Driver
	Key    string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type SQLiteConfig struct {
	Path string
}

type DatabaseConfig struct {
	DSN      string
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	PathStyle       bool
}

type BackupConfig struct {
	Schedule string
	Dir      string
}

type AppConfig struct {
	Environment string
	LogLevel    string
	Version     string
	ServiceName string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error in production)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	driver, err := storage.ParseDriver(getEnv("STORAGE_DRIVER", string(storage.DriverSQLite)))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			AllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
			RateLimitRPS:   getEnvAsFloat("RATE_LIMIT_RPS", 20),
			RateLimitBurst: getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
		Storage: StorageConfig{
			Driver: driver,
			Key:    getEnv("SNAPSHOT_KEY", storage.DefaultKey),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		SQLite: SQLiteConfig{
			Path: getEnv("SQLITE_PATH", "catalog.db"),
		},
		DB: DatabaseConfig{
			DSN:      getEnv("DB_DSN", ""),
			Host:     getEnv("DB_HOST", ""),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "catalog"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		S3: S3Config{
			Bucket:          getEnv("S3_BUCKET", ""),
			Region:          getEnv("S3_REGION", "us-east-1"),
			Endpoint:        getEnv("S3_ENDPOINT", ""),
			AccessKeyID:     getEnv("S3_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("S3_SECRET_ACCESS_KEY", ""),
			PathStyle:       getEnvAsBool("S3_PATH_STYLE", false),
		},
		Backup: BackupConfig{
			Schedule: getEnv("BACKUP_SCHEDULE", ""),
			Dir:      getEnv("BACKUP_DIR", "backups"),
		},
		App: AppConfig{
			Environment: getEnv("APP_ENV", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			ServiceName: getEnv("SERVICE_NAME", "product-catalog"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return fmt.Errorf("SNAPSHOT_KEY is required")
	}

	switch c.Storage.Driver {
	case storage.DriverRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required for the redis driver")
		}
	case storage.DriverSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("SQLITE_PATH is required for the sqlite driver")
		}
	case storage.DriverPostgres:
		if c.DB.DSN == "" && c.DB.Host == "" {
			return fmt.Errorf("DB_DSN or DB_HOST is required for the postgres driver")
		}
	case storage.DriverS3:
		if c.S3.Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 driver")
		}
		if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
			return fmt.Errorf("S3_ACCESS_KEY_ID and S3_SECRET_ACCESS_KEY must be set together")
		}
	}

	if c.Backup.Schedule != "" && c.Backup.Dir == "" {
		return fmt.Errorf("BACKUP_DIR is required when BACKUP_SCHEDULE is set")
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid integer for %s, using default: %d", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		log.Printf("Warning: Invalid number for %s, using default: %g", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		log.Printf("Warning: Invalid boolean for %s, using default: %t", key, defaultValue)
		return defaultValue
	}

	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
