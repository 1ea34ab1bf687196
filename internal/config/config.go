package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/erpbridge/xml-erp-bridge/internal/mapper"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port           int           `validate:"min=1,max=65535"`
	ReadTimeout    time.Duration `validate:"min=0"`
	WriteTimeout   time.Duration `validate:"min=0"`
	AllowedOrigins []string
	MaxUploadBytes int64 `validate:"min=1"`

	// Logging configuration
	LogFormat string `validate:"oneof=json pretty"`
	LogLevel  string `validate:"oneof=trace debug info warn warning error fatal panic"`

	// ERP configuration
	ERPUser       string
	ERPPassword   string
	ERPJournalURL string        `validate:"required,url"`
	ERPSalesURL   string        `validate:"required,url"`
	ERPTimeout    time.Duration `validate:"min=0"`

	// Session configuration
	SessionTTL             time.Duration `validate:"gt=0"`
	SessionSweepInterval   time.Duration `validate:"gt=0"`
	SessionBackend         string        `validate:"oneof=memory redis"`
	SessionDeleteOnSuccess bool
	RedisAddr              string `validate:"required_if=SessionBackend redis"`
	RedisPassword          string
	RedisDB                int `validate:"min=0"`

	// Auth configuration
	AuthMode       string `validate:"oneof=google jwt none"`
	GoogleClientID string
	AuthJWTSecret  string
	AllowedEmails  []string

	// Optional infrastructure
	PostgresDBURL string
	ArchiveS3     S3Config

	// Mapping profile (deployment placeholders and bank table)
	MappingProfilePath string
	Mapping            mapper.Profile
}

// S3Config holds the upload archive settings
type S3Config struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	AccessKeySecret string
}

// Enabled reports whether archiving is configured
func (c S3Config) Enabled() bool {
	return c.Bucket != "" && c.AccessKeyID != "" && c.AccessKeySecret != ""
}

// LoadConfig loads the application configuration from environment variables
func LoadConfig() (*Config, error) {
	loadDotEnv()

	config := &Config{
		Port:           getEnvInt("PORT", 8080),
		ReadTimeout:    getEnvDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:   getEnvDuration("WRITE_TIMEOUT", 120*time.Second),
		AllowedOrigins: getEnvStringSlice("ALLOWED_ORIGINS", []string{"http://localhost:5173"}),
		MaxUploadBytes: int64(getEnvInt("MAX_UPLOAD_BYTES", 10*1024*1024)),

		LogFormat: getEnvString("LOG_FORMAT", "json"),
		LogLevel:  getEnvString("LOG_LEVEL", "info"),

		ERPUser:       os.Getenv("ERP_USER"),
		ERPPassword:   os.Getenv("ERP_PASSWORD"),
		ERPJournalURL: getEnvString("ERP_JOURNAL_URL", "http://localhost:9090/s4/JournalEntry"),
		ERPSalesURL:   getEnvString("ERP_SALES_URL", "http://localhost:9090/s4/CreateSalesOperation"),
		ERPTimeout:    getEnvDuration("ERP_TIMEOUT", 60*time.Second),

		SessionTTL:             getEnvDuration("SESSION_TTL", 30*time.Minute),
		SessionSweepInterval:   getEnvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		SessionBackend:         getEnvString("SESSION_BACKEND", "memory"),
		SessionDeleteOnSuccess: getEnvBool("SESSION_DELETE_ON_SUCCESS", false),
		RedisAddr:              os.Getenv("REDIS_ADDR"),
		RedisPassword:          os.Getenv("REDIS_PASSWORD"),
		RedisDB:                getEnvInt("REDIS_DB", 0),

		AuthMode:       getEnvString("AUTH_MODE", "google"),
		GoogleClientID: os.Getenv("GOOGLE_CLIENT_ID"),
		AuthJWTSecret:  strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")),
		AllowedEmails:  getEnvStringSlice("ALLOWED_EMAILS", nil),

		PostgresDBURL: os.Getenv("POSTGRES_DB_URL"),
		ArchiveS3: S3Config{
			Endpoint:        os.Getenv("ARCHIVE_S3_ENDPOINT"),
			Region:          getEnvString("ARCHIVE_S3_REGION", "us-east-1"),
			Bucket:          os.Getenv("ARCHIVE_S3_BUCKET"),
			AccessKeyID:     os.Getenv("ARCHIVE_S3_ACCESS_KEY_ID"),
			AccessKeySecret: os.Getenv("ARCHIVE_S3_SECRET_ACCESS_KEY"),
		},

		MappingProfilePath: os.Getenv("MAPPING_PROFILE"),
	}

	profile, err := LoadMappingProfile(config.MappingProfilePath)
	if err != nil {
		return nil, err
	}
	config.Mapping = profile

	if err := config.Validate(); err != nil {
		return nil, err
	}
	warnMissing(config)

	return config, nil
}

// loadDotEnv loads .env from the project root or, failing that, the working directory
func loadDotEnv() {
	execPath, err := os.Executable()
	if err != nil {
		log.Printf("Warning: Could not determine executable path: %v", err)
	}

	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(execPath)))
	envPath := filepath.Join(projectRoot, ".env")

	if err := godotenv.Load(envPath); err != nil {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found or error loading .env file. Using environment variables.")
		} else {
			log.Println("Loaded environment variables from current directory .env file")
		}
	} else {
		log.Printf("Loaded environment variables from %s", envPath)
	}
}

// LoadMappingProfile reads the YAML profile at path over the default profile.
// An empty path returns the defaults with env overrides applied.
func LoadMappingProfile(path string) (mapper.Profile, error) {
	profile := mapper.DefaultProfile()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return profile, fmt.Errorf("failed to read mapping profile: %w", err)
		}
		if err := yaml.Unmarshal(raw, &profile); err != nil {
			return profile, fmt.Errorf("failed to parse mapping profile %s: %w", path, err)
		}
	}

	profile.CompanyCode = getEnvString("ERP_COMPANY_CODE", profile.CompanyCode)
	profile.CreatedByUser = getEnvString("ERP_USER_ID", profile.CreatedByUser)
	return profile, nil
}

// Validate checks the configuration with struct tags
func (c *Config) Validate() error {
	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := validate.Struct(c.Mapping); err != nil {
		return fmt.Errorf("invalid mapping profile: %w", err)
	}
	return nil
}

// ValidateAuth checks the settings the HTTP server needs to verify callers
func (c *Config) ValidateAuth() error {
	switch {
	case c.AuthMode == "google" && c.GoogleClientID == "":
		return fmt.Errorf("invalid configuration: GOOGLE_CLIENT_ID is required when AUTH_MODE=google")
	case c.AuthMode == "jwt" && len(c.AuthJWTSecret) < 32:
		return fmt.Errorf("invalid configuration: AUTH_JWT_SECRET must be at least 32 characters when AUTH_MODE=jwt")
	}
	return nil
}

// warnMissing logs settings whose absence degrades the service without stopping it
func warnMissing(config *Config) {
	if config.ERPUser == "" || config.ERPPassword == "" {
		log.Println("Warning: ERP_USER/ERP_PASSWORD not set. Scans work, dispatches will fail.")
	}

	if config.AuthMode == "none" {
		log.Println("Warning: AUTH_MODE=none, API routes are not protected.")
	}
}

// Address returns the listen address
func (c *Config) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// getEnvInt gets an integer from an environment variable with a default value
func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid value for %s: %s, using default: %d", key, valueStr, defaultValue)
		return defaultValue
	}

	return value
}

// getEnvBool gets a boolean from an environment variable with a default value
func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	valueStr = strings.ToLower(valueStr)
	return valueStr == "true" || valueStr == "1" || valueStr == "yes"
}

// getEnvString gets a string from an environment variable with a default value
func getEnvString(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvDuration reads a Go duration ("30m") or a plain number of seconds
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	if d, err := time.ParseDuration(valueStr); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(valueStr); err == nil {
		return time.Duration(secs) * time.Second
	}

	log.Printf("Invalid value for %s: %s, using default: %s", key, valueStr, defaultValue)
	return defaultValue
}

// getEnvStringSlice gets a string slice from a comma-separated environment variable
func getEnvStringSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	parts := strings.Split(valueStr, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
