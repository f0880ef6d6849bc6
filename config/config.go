package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr         string
	CORSOrigins      []string
	LogLevel         string
	LogFile          string
	JWTSecret        string
	JWTIssuer        string
	DBDriver         string
	SqlitePath       string
	DBHost           string
	DBPort           string
	DBUser           string
	DBPass           string
	DBName           string
	RedisHost        string
	RedisPort        string
	RedisPassword    string
	RedisDB          int
	RedisEnabled     bool
	CacheTTL         time.Duration
	LifecycleLockTTL time.Duration
	StorageDriver    string
	MinioHost        string
	MinioPort        string
	MinioUsername    string
	MinioPassword    string
	MinioUseSSL      bool
	MinioPublicURL   string
	BucketName       string
	PresignExpiry    time.Duration
	MaxFileSize      int64
	MaxUserStorage   int64
	RabbitMQURL      string
	RabbitMQHost     string
	RabbitMQPort     string
	RabbitMQUser     string
	RabbitMQPass     string
	RabbitMQVhost    string
	RabbitMQPrefetch int
	JobsEnabled      bool
	JobConcurrency   int
	JobRate          float64
	JobBurst         int
	JobRetryMax      int
	JobRetryDelays   []time.Duration
	SMTPHost         string
	SMTPPort         string
	SMTPUser         string
	SMTPPass         string
	SMTPFrom         string
	SMTPTLS          bool
	SMTPStartTLS     bool
	AppBaseURL       string
}

var AppConfig Config

// getEnv returns the environment value or a default.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvFloat(key string, defaultValue float64) float64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvBool(key string, defaultValue bool) bool {
	value := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	if value == "" {
		return defaultValue
	}
	switch value {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt64(key string, defaultValue int64) int64 {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return defaultValue
	}
	return parsed
}

func getEnvList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDurationList(key string, defaultValue []time.Duration) []time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parts := strings.Split(raw, ",")
	out := make([]time.Duration, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		parsed, err := time.ParseDuration(part)
		if err != nil {
			return defaultValue
		}
		out = append(out, parsed)
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// InitConfig loads configuration and initializes sub-configs.
// Values from a local .env file are applied first; real environment variables win.
func InitConfig() {
	_ = godotenv.Load()

	rabbitHost := getEnv("RABBITMQ_HOST", "localhost")
	rabbitPort := getEnv("RABBITMQ_PORT", "5672")
	rabbitUser := getEnv("RABBITMQ_USER", "guest")
	rabbitPass := getEnv("RABBITMQ_PASSWORD", "guest")
	rabbitVhost := getEnv("RABBITMQ_VHOST", "/")
	rabbitURL := getEnv("RABBITMQ_URL", "")
	if rabbitURL == "" {
		rabbitURL = fmt.Sprintf(
			"amqp://%s:%s@%s:%s/%s",
			url.PathEscape(rabbitUser),
			url.PathEscape(rabbitPass),
			rabbitHost,
			rabbitPort,
			url.PathEscape(rabbitVhost),
		)
	}
	minioHost := getEnv("MINIO_HOST", "localhost")
	minioPort := getEnv("MINIO_PORT", "9000")
	minioSSL := getEnvBool("MINIO_USE_SSL", false)
	publicURL := getEnv("MINIO_PUBLIC_URL", "")
	if publicURL == "" {
		scheme := "http"
		if minioSSL {
			scheme = "https"
		}
		publicURL = fmt.Sprintf("%s://%s:%s", scheme, minioHost, minioPort)
	}
	retryDelays := getEnvDurationList(
		"JOB_RETRY_DELAYS",
		[]time.Duration{10 * time.Second, 30 * time.Second, 2 * time.Minute, 10 * time.Minute, 30 * time.Minute},
	)
	AppConfig = Config{
		HTTPAddr:         getEnv("HTTP_ADDR", ":8000"),
		CORSOrigins:      getEnvList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		LogFile:          getEnv("LOG_FILE", ""),
		JWTSecret:        getEnv("JWT_SECRET", "l=ax+b"),
		JWTIssuer:        getEnv("JWT_ISSUER", ""),
		DBDriver:         strings.ToLower(getEnv("DB_DRIVER", "mysql")),
		SqlitePath:       getEnv("SQLITE_PATH", "assets.db"),
		DBHost:           getEnv("DB_HOST", "localhost"),
		DBPort:           getEnv("DB_PORT", "3306"),
		DBUser:           getEnv("DB_USER", "root"),
		DBPass:           getEnv("DB_PASS", "root"),
		DBName:           getEnv("DB_NAME", "Go_Assets"),
		RedisHost:        getEnv("REDIS_HOST", "localhost"),
		RedisPort:        getEnv("REDIS_PORT", "6379"),
		RedisPassword:    getEnv("REDIS_PASSWORD", ""),
		RedisDB:          getEnvInt("REDIS_DB", 0),
		RedisEnabled:     getEnvBool("REDIS_ENABLED", true),
		CacheTTL:         getEnvDuration("CACHE_TTL", 2*time.Minute),
		LifecycleLockTTL: getEnvDuration("LIFECYCLE_LOCK_TTL", 30*time.Second),
		StorageDriver:    strings.ToLower(getEnv("STORAGE_DRIVER", "minio")),
		MinioHost:        minioHost,
		MinioPort:        minioPort,
		MinioUsername:    getEnv("MINIO_USERNAME", "minioadmin"),
		MinioPassword:    getEnv("MINIO_PASSWORD", "minioadmin"),
		MinioUseSSL:      minioSSL,
		MinioPublicURL:   strings.TrimRight(publicURL, "/"),
		BucketName:       getEnv("BUCKET_NAME", "assets"),
		PresignExpiry:    getEnvDuration("PRESIGN_EXPIRY", 15*time.Minute),
		MaxFileSize:      getEnvInt64("MAX_FILE_SIZE", DefaultMaxFileSize),
		MaxUserStorage:   getEnvInt64("MAX_USER_STORAGE", DefaultMaxUserStorage),
		RabbitMQURL:      rabbitURL,
		RabbitMQHost:     rabbitHost,
		RabbitMQPort:     rabbitPort,
		RabbitMQUser:     rabbitUser,
		RabbitMQPass:     rabbitPass,
		RabbitMQVhost:    rabbitVhost,
		RabbitMQPrefetch: getEnvInt("RABBITMQ_PREFETCH", 8),
		JobsEnabled:      getEnvBool("JOBS_ENABLED", true),
		JobConcurrency:   getEnvInt("JOB_WORKER_CONCURRENCY", 4),
		JobRate:          getEnvFloat("JOB_RATE", 5),
		JobBurst:         getEnvInt("JOB_BURST", 10),
		JobRetryMax:      getEnvInt("JOB_RETRY_MAX", 5),
		JobRetryDelays:   retryDelays,
		SMTPHost:         getEnv("SMTP_HOST", ""),
		SMTPPort:         getEnv("SMTP_PORT", ""),
		SMTPUser:         getEnv("SMTP_USER", ""),
		SMTPPass:         getEnv("SMTP_PASS", ""),
		SMTPFrom:         getEnv("SMTP_FROM", ""),
		SMTPTLS:          getEnvBool("SMTP_TLS", false),
		SMTPStartTLS:     getEnvBool("SMTP_STARTTLS", false),
		AppBaseURL:       strings.TrimRight(getEnv("APP_BASE_URL", "http://localhost:3000"), "/"),
	}

	InitUploadPolicy()
}
