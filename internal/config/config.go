package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig
	DB      DBConfig
	S3      S3Config
	Log     LogConfig
	CORS    CORSConfig
	Batch   BatchConfig
	Preview PreviewConfig
	Email   EmailConfig
}

// EmailConfig holds batch completion email settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// BatchConfig holds spreadsheet batch and queue worker settings.
type BatchConfig struct {
	// Concurrency is the number of rows of one session rendered in parallel.
	Concurrency       int `mapstructure:"concurrency"`
	MaxRows           int `mapstructure:"max_rows"`
	PollIntervalSecs  int `mapstructure:"poll_interval_secs"`
	WorkerConcurrency int `mapstructure:"worker_concurrency"`
}

// PreviewConfig holds bulk preview settings.
type PreviewConfig struct {
	// ProbeConcurrency bounds parallel blob existence checks.
	ProbeConcurrency int `mapstructure:"probe_concurrency"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	KeyPrefix     string `mapstructure:"key_prefix"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// MaxFileSize returns the upload limit in bytes.
func (s *S3Config) MaxFileSize() int64 {
	return s.MaxFileSizeMB * 1024 * 1024
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the DOCGEN_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DOCGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "docgen")
	v.SetDefault("db.password", "docgen_secret")
	v.SetDefault("db.name", "docgen_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "docgen-files")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.key_prefix", "blobs/")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000")

	// Batch defaults
	v.SetDefault("batch.concurrency", 1)
	v.SetDefault("batch.max_rows", 1000)
	v.SetDefault("batch.poll_interval_secs", 10)
	v.SetDefault("batch.worker_concurrency", 2)

	// Preview defaults
	v.SetDefault("preview.probe_concurrency", 4)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@docgen.local")
	v.SetDefault("email.from_name", "Docgen")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":               "DOCGEN_SERVER_PORT",
		"server.read_timeout":       "DOCGEN_SERVER_READ_TIMEOUT",
		"server.write_timeout":      "DOCGEN_SERVER_WRITE_TIMEOUT",
		"server.environment":        "DOCGEN_SERVER_ENVIRONMENT",
		"db.host":                   "DOCGEN_DB_HOST",
		"db.port":                   "DOCGEN_DB_PORT",
		"db.user":                   "DOCGEN_DB_USER",
		"db.password":               "DOCGEN_DB_PASSWORD",
		"db.name":                   "DOCGEN_DB_NAME",
		"db.sslmode":                "DOCGEN_DB_SSLMODE",
		"db.max_open":               "DOCGEN_DB_MAX_OPEN",
		"db.max_idle":               "DOCGEN_DB_MAX_IDLE",
		"s3.region":                 "DOCGEN_S3_REGION",
		"s3.bucket":                 "DOCGEN_S3_BUCKET",
		"s3.endpoint":               "DOCGEN_S3_ENDPOINT",
		"s3.access_key":             "DOCGEN_S3_ACCESS_KEY",
		"s3.secret_key":             "DOCGEN_S3_SECRET_KEY",
		"s3.key_prefix":             "DOCGEN_S3_KEY_PREFIX",
		"s3.max_file_size_mb":       "DOCGEN_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":         "DOCGEN_S3_PRESIGN_EXPIRY",
		"log.level":                 "DOCGEN_LOG_LEVEL",
		"log.format":                "DOCGEN_LOG_FORMAT",
		"cors.allowed_origins":      "DOCGEN_CORS_ALLOWED_ORIGINS",
		"batch.concurrency":         "DOCGEN_BATCH_CONCURRENCY",
		"batch.max_rows":            "DOCGEN_BATCH_MAX_ROWS",
		"batch.poll_interval_secs":  "DOCGEN_BATCH_POLL_INTERVAL_SECS",
		"batch.worker_concurrency":  "DOCGEN_BATCH_WORKER_CONCURRENCY",
		"preview.probe_concurrency": "DOCGEN_PREVIEW_PROBE_CONCURRENCY",
		"email.provider":            "DOCGEN_EMAIL_PROVIDER",
		"email.region":              "DOCGEN_EMAIL_REGION",
		"email.from_address":        "DOCGEN_EMAIL_FROM_ADDRESS",
		"email.from_name":           "DOCGEN_EMAIL_FROM_NAME",
		"email.frontend_url":        "DOCGEN_EMAIL_FRONTEND_URL",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if DOCGEN_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("DOCGEN_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		KeyPrefix:     v.GetString("s3.key_prefix"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Batch = BatchConfig{
		Concurrency:       v.GetInt("batch.concurrency"),
		MaxRows:           v.GetInt("batch.max_rows"),
		PollIntervalSecs:  v.GetInt("batch.poll_interval_secs"),
		WorkerConcurrency: v.GetInt("batch.worker_concurrency"),
	}
	if cfg.Batch.Concurrency < 1 {
		cfg.Batch.Concurrency = 1
	}

	cfg.Preview = PreviewConfig{
		ProbeConcurrency: v.GetInt("preview.probe_concurrency"),
	}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}

	return cfg, nil
}
