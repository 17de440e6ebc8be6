package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const DefaultPath = "config/config.yaml"

type ServerConfig struct {
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
	LogLevel       string        `yaml:"log_level"`
}

type DatabaseConfig struct {
	DSN          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type AuthConfig struct {
	JWTSecret     string        `yaml:"jwt_secret"`
	TokenTTL      time.Duration `yaml:"token_ttl"`
	ResetTokenTTL time.Duration `yaml:"reset_token_ttl"`
}

type EmailConfig struct {
	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUser     string `yaml:"smtp_user"`
	SMTPPassword string `yaml:"smtp_password"`
	FromEmail    string `yaml:"from_email"`
	FromName     string `yaml:"from_name"`
	FrontendURL  string `yaml:"frontend_url"`
	QueueSize    int    `yaml:"queue_size"`
}

// StorageConfig points at an S3-compatible bucket used for shared note
// exports. Leaving Bucket empty disables sharing.
type StorageConfig struct {
	Bucket          string        `yaml:"bucket"`
	Region          string        `yaml:"region"`
	Endpoint        string        `yaml:"endpoint"`
	AccessKeyID     string        `yaml:"access_key_id"`
	SecretAccessKey string        `yaml:"secret_access_key"`
	PresignTTL      time.Duration `yaml:"presign_ttl"`
}

func (s StorageConfig) Enabled() bool {
	return strings.TrimSpace(s.Bucket) != ""
}

type PDFConfig struct {
	// FontPath is an optional TTF file for non-Latin note exports.
	FontPath string `yaml:"font_path"`
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	Storage  StorageConfig  `yaml:"storage"`
	PDF      PDFConfig      `yaml:"pdf"`
}

// LoadDefaults fills in development defaults.
func (c *Config) LoadDefaults() {
	c.Server.Port = 8080
	c.Server.ReadTimeout = 5 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.AllowedOrigins = []string{"*"}
	c.Server.LogLevel = "info"
	c.Database.MaxOpenConns = 10
	c.Auth.TokenTTL = 24 * time.Hour
	c.Auth.ResetTokenTTL = 15 * time.Minute
	c.Email.SMTPPort = 587
	c.Email.FromEmail = "no-reply@carnet.com"
	c.Email.FromName = "Carnet"
	c.Email.FrontendURL = "http://localhost:3000"
	c.Email.QueueSize = 100
	c.Storage.Region = "us-east-1"
	c.Storage.PresignTTL = 15 * time.Minute
}

// LoadConfig applies defaults, then the YAML file at path (a missing file is
// not an error), then the optional .env file and environment overrides.
func LoadConfig(path string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if path == "" {
		path = DefaultPath
	}
	if err := cfg.loadYAML(path); err != nil {
		return nil, err
	}

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}
	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadYAML(path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() error {
	setString(&c.Database.DSN, "DATABASE_URL")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Email.FrontendURL, "FE_URL")
	setString(&c.Email.SMTPHost, "SMTP_HOST")
	setString(&c.Email.SMTPUser, "SMTP_USER")
	setString(&c.Email.SMTPPassword, "SMTP_PASSWORD")
	setString(&c.Email.FromEmail, "MAIL_FROM")
	setString(&c.Storage.Bucket, "S3_BUCKET")
	setString(&c.Storage.Region, "S3_REGION")
	setString(&c.Storage.Endpoint, "S3_ENDPOINT")
	setString(&c.Storage.AccessKeyID, "S3_ACCESS_KEY_ID")
	setString(&c.Storage.SecretAccessKey, "S3_SECRET_ACCESS_KEY")
	setString(&c.PDF.FontPath, "PDF_FONT_PATH")
	setString(&c.Server.LogLevel, "LOG_LEVEL")

	if err := setInt(&c.Server.Port, "PORT"); err != nil {
		return err
	}
	return setInt(&c.Email.SMTPPort, "SMTP_PORT")
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("database url is required (database.url or DATABASE_URL)")
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("jwt secret is required (auth.jwt_secret or JWT_SECRET)")
	}
	if c.Auth.TokenTTL <= 0 || c.Auth.ResetTokenTTL <= 0 {
		return errors.New("auth token lifetimes must be positive")
	}
	return nil
}

// String masks secrets.
func (c *Config) String() string {
	return fmt.Sprintf("Config{port: %d, smtp: %s:%d, storage: %t, auth: *** (masked) ***}",
		c.Server.Port, c.Email.SMTPHost, c.Email.SMTPPort, c.Storage.Enabled())
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok {
		*dst = v
	}
}

func setInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok {
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fmt.Errorf("invalid integer for %s: %w", key, err)
	}
	*dst = n
	return nil
}
