package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env           string `env:"APP_ENV" env-default:"development"`
	AppPort       string `env:"APP_PORT" env-default:"8080"`
	DBDSN         string `env:"DB_DSN" env-required:"true"`
	JWTSecret     string `env:"JWT_SECRET" env-required:"true"`
	JWTExpiresMin int    `env:"JWT_EXPIRES_MIN" env-default:"10080"`
	CookieSecure  bool   `env:"COOKIE_SECURE" env-default:"false"`

	GoogleClientID  string `env:"GOOGLE_CLIENT_ID"`
	GoogleSecret    string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirect  string `env:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL string `env:"FRONTEND_BASE_URL" env-default:"http://localhost:3000"`
	// WebRoot is an optional directory with the built frontend, served behind the access gate.
	WebRoot string `env:"WEB_ROOT"`

	Redis   Redis
	Storage Storage
	SMTP    SMTP

	FirstAdminEmail    string `env:"FIRST_ADMIN_EMAIL"`
	FirstAdminPassword string `env:"FIRST_ADMIN_PASSWORD"`

	OTPTTL                    time.Duration `env:"OTP_TTL" env-default:"10m"`
	AnnouncementSweepInterval time.Duration `env:"ANNOUNCEMENT_SWEEP_INTERVAL" env-default:"15m"`
}

type Redis struct {
	Addr     string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB" env-default:"0"`
}

type Storage struct {
	Type          string `env:"STORAGE_TYPE" env-default:"local"` // local | s3
	UploadDir     string `env:"UPLOAD_DIR" env-default:"./uploads"`
	PublicBaseURL string `env:"PUBLIC_BASE_URL"`
	Bucket        string `env:"S3_BUCKET"`
	Region        string `env:"S3_REGION" env-default:"ap-south-1"`
	Endpoint      string `env:"S3_ENDPOINT"`
	AccessKey     string `env:"S3_ACCESS_KEY"`
	SecretKey     string `env:"S3_SECRET_KEY"`
}

type SMTP struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT" env-default:"587"`
	User     string `env:"SMTP_USER"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM" env-default:"no-reply@sthapati.in"`
}

// Load reads an optional .env file and then the process environment.
// A missing or blank DB_DSN or JWT_SECRET is an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if strings.TrimSpace(cfg.DBDSN) == "" {
		return nil, fmt.Errorf("config: DB_DSN is required")
	}
	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required")
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	return cfg
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c *Config) GoogleEnabled() bool {
	return c.GoogleClientID != "" && c.GoogleSecret != ""
}
