package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Notion   NotionConfig
	Make     MakeConfig
	Digest   DigestConfig
	Matching MatchingConfig
	Storage  StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type RedisConfig struct {
	URL        string
	CatalogTTL time.Duration
}

type NotionConfig struct {
	Token      string
	DatabaseID string
}

type MakeConfig struct {
	WebhookURL string
	APIKey     string
	TestEmail  string
	AdminEmail string
}

type DigestConfig struct {
	TimeZone string
	RunHour  int
	CronSpec string
}

type MatchingConfig struct {
	Threshold int
	Limit     int
}

type StorageConfig struct {
	UploadPath  string
	MaxFileSize int64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "scholarship_matcher"),
		},
		Redis: RedisConfig{
			URL:        getEnv("REDIS_URL", ""),
			CatalogTTL: getEnvAsDuration("CATALOG_CACHE_TTL", "10m"),
		},
		Notion: NotionConfig{
			Token:      getEnv("NOTION_TOKEN", ""),
			DatabaseID: getEnv("NOTION_DATABASE_ID", ""),
		},
		Make: MakeConfig{
			WebhookURL: getEnv("MAKE_WEBHOOK_URL", ""),
			APIKey:     getEnv("MAKE_WEBHOOK_API_KEY", ""),
			TestEmail:  getEnv("MAKE_TEST_EMAIL", "test@example.com"),
			AdminEmail: getEnv("ADMIN_EMAIL", ""),
		},
		Digest: DigestConfig{
			TimeZone: getEnv("DIGEST_TIMEZONE", "Asia/Jerusalem"),
			RunHour:  getEnvAsInt("DIGEST_RUN_HOUR", 16),
			CronSpec: getEnv("DIGEST_CRON_SPEC", "@every 1h"),
		},
		Matching: MatchingConfig{
			Threshold: getEnvAsInt("MATCH_THRESHOLD", 3),
			Limit:     getEnvAsInt("MATCH_LIMIT", 15),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 5242880),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
