package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Supported storage drivers
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
	DriverRedis    = "redis"
)

// SubjectConfig is one entry of the curriculum taxonomy
type SubjectConfig struct {
	Name              string `yaml:"name"`
	ExerciseOrganized bool   `yaml:"exercise_organized"`
}

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string `yaml:"port" env:"SERVER_PORT"`
		Mode           string `yaml:"mode" env:"SERVER_MODE"`
		StoragePath    string `yaml:"storage_path" env:"SERVER_STORAGE_PATH"`
		MaxRequestSize int64  `yaml:"max_request_size" env:"SERVER_MAX_REQUEST_SIZE"`
	} `yaml:"server"`

	Database struct {
		Driver          string `yaml:"driver" env:"DB_DRIVER"`
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
		MongoURI        string `yaml:"mongo_uri" env:"MONGO_URI"`
		MongoDatabase   string `yaml:"mongo_database" env:"MONGO_DATABASE"`
	} `yaml:"database"`

	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
		DB       int    `yaml:"db" env:"REDIS_DB"`
	} `yaml:"redis"`

	Session struct {
		Store      string `yaml:"store" env:"SESSION_STORE"`
		CookieName string `yaml:"cookie_name" env:"SESSION_COOKIE_NAME"`
		TTL        string `yaml:"ttl" env:"SESSION_TTL"`
		Secure     bool   `yaml:"secure" env:"SESSION_SECURE"`
	} `yaml:"session"`

	Auth struct {
		BcryptCost        int    `yaml:"bcrypt_cost" env:"AUTH_BCRYPT_COST"`
		MinPasswordLength int    `yaml:"min_password_length" env:"AUTH_MIN_PASSWORD_LENGTH"`
		ResetTokenSecret  string `yaml:"reset_token_secret" env:"AUTH_RESET_TOKEN_SECRET"`
		ResetTokenTTL     string `yaml:"reset_token_ttl" env:"AUTH_RESET_TOKEN_TTL"`
		Issuer            string `yaml:"issuer" env:"AUTH_ISSUER"`
		AllowDOBReset     bool   `yaml:"allow_dob_reset" env:"AUTH_ALLOW_DOB_RESET"`
	} `yaml:"auth"`

	Upload struct {
		MaxFileSize  int64    `yaml:"max_file_size" env:"UPLOAD_MAX_FILE_SIZE"`
		AllowedTypes []string `yaml:"allowed_types" env:"UPLOAD_ALLOWED_TYPES"`
		// BaseURL prefixes stored image references, empty keeps them relative
		BaseURL      string   `yaml:"base_url" env:"UPLOAD_BASE_URL"`
	} `yaml:"upload"`

	Curriculum struct {
		Subjects []SubjectConfig `yaml:"subjects"`
	} `yaml:"curriculum"`

	Seed struct {
		Enabled         bool   `yaml:"enabled" env:"SEED_ENABLED"`
		AdminMobile     string `yaml:"admin_mobile" env:"SEED_ADMIN_MOBILE"`
		AdminPassword   string `yaml:"admin_password" env:"SEED_ADMIN_PASSWORD"`
		StudentMobile   string `yaml:"student_mobile" env:"SEED_STUDENT_MOBILE"`
		StudentPassword string `yaml:"student_password" env:"SEED_STUDENT_PASSWORD"`
	} `yaml:"seed"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`
}

// LoadConfig loads configuration from a file, a .env file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	// A missing .env file is fine, the real environment still applies
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	// The session store follows the database driver unless set explicitly
	if config.Session.Store == "" {
		config.Session.Store = config.Database.Driver
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.StoragePath = "uploads"
	config.Server.MaxRequestSize = 8 << 20

	// Database defaults
	config.Database.Driver = DriverPostgres
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "freesolutions"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 2
	config.Database.MaxOpenConns = 10
	config.Database.ConnMaxLifetime = "1h"
	config.Database.MongoURI = "mongodb://localhost:27017"
	config.Database.MongoDatabase = "freesolutions"

	config.Redis.Addr = "localhost:6379"

	// Session defaults
	config.Session.CookieName = "freesolutions.sid"
	config.Session.TTL = "336h"

	// Auth defaults
	config.Auth.BcryptCost = 10
	config.Auth.MinPasswordLength = 6
	config.Auth.ResetTokenTTL = "15m"
	config.Auth.Issuer = "freesolutions"
	config.Auth.AllowDOBReset = true

	// Upload defaults
	config.Upload.MaxFileSize = 2 << 20
	config.Upload.AllowedTypes = []string{"image/jpeg", "image/png"}

	config.Curriculum.Subjects = []SubjectConfig{
		{Name: "Mathematics", ExerciseOrganized: true},
		{Name: "Science"},
	}

	config.Seed.Enabled = true
	config.Seed.AdminMobile = "9999999999"
	config.Seed.AdminPassword = "admin123"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return processStructFields(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	switch config.Database.Driver {
	case DriverPostgres:
		if config.Database.Host == "" {
			return fmt.Errorf("database host is required")
		}
		if _, err := time.ParseDuration(config.Database.ConnMaxLifetime); err != nil {
			return fmt.Errorf("invalid connection max lifetime: %w", err)
		}
	case DriverMongo:
		if config.Database.MongoURI == "" {
			return fmt.Errorf("mongo uri is required")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("unsupported database driver %q", config.Database.Driver)
	}

	switch config.Session.Store {
	case DriverRedis, DriverMemory:
	case DriverPostgres, DriverMongo:
		if config.Session.Store != config.Database.Driver {
			return fmt.Errorf("session store %q requires database driver %q", config.Session.Store, config.Session.Store)
		}
	default:
		return fmt.Errorf("unsupported session store %q", config.Session.Store)
	}

	if config.Session.CookieName == "" {
		return fmt.Errorf("session cookie name is required")
	}
	if _, err := time.ParseDuration(config.Session.TTL); err != nil {
		return fmt.Errorf("invalid session ttl format: %w", err)
	}

	if config.Auth.ResetTokenSecret == "" {
		return fmt.Errorf("reset token secret is required")
	}
	if _, err := time.ParseDuration(config.Auth.ResetTokenTTL); err != nil {
		return fmt.Errorf("invalid reset token ttl format: %w", err)
	}

	if config.Upload.MaxFileSize <= 0 {
		return fmt.Errorf("upload max file size must be positive")
	}
	if config.Server.MaxRequestSize < config.Upload.MaxFileSize {
		return fmt.Errorf("server max request size must not be below the upload limit")
	}

	seen := make(map[string]bool, len(config.Curriculum.Subjects))
	for _, s := range config.Curriculum.Subjects {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			return fmt.Errorf("curriculum subject name is required")
		}
		if seen[name] {
			return fmt.Errorf("curriculum subject %q is listed twice", name)
		}
		seen[name] = true
	}

	return nil
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.DBName,
		sslMode,
	)
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.ToLower(c.Server.Mode) == "production"
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
