package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Processor ProcessorConfig
	Upload    UploadConfig
	Secondary SecondaryConfig
	S3        S3Config
	Progress  ProgressConfig
	Alert     AlertConfig
	Log       LogConfig
	CORS      CORSConfig
	Auth      AuthConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port" validate:"required"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// ProcessorConfig holds settings for the remote document processing endpoint.
type ProcessorConfig struct {
	// Endpoint may be empty only in mock mode.
	Endpoint     string        `mapstructure:"endpoint" validate:"required_unless=MockMode true"`
	MockMode     bool          `mapstructure:"mock_mode"`
	MockDelay    time.Duration `mapstructure:"mock_delay" validate:"gte=0"`
	Timeout      time.Duration `mapstructure:"timeout" validate:"gt=0"`
	DocumentType string        `mapstructure:"document_type" validate:"required"`
}

// UploadConfig holds pre-flight file limits.
type UploadConfig struct {
	MaxFileSizeMB int64 `mapstructure:"max_file_size_mb" validate:"gt=0"`
}

// SecondaryConfig selects how the presigned result link is retrieved.
type SecondaryConfig struct {
	Source  string        `mapstructure:"source" validate:"oneof=http s3"`
	Timeout time.Duration `mapstructure:"timeout" validate:"gt=0"`
}

// S3Config holds AWS S3 settings used when secondary.source is s3.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// ProgressConfig shapes the simulated upload progress.
type ProgressConfig struct {
	Cycle time.Duration `mapstructure:"cycle" validate:"gt=0"`
	Pause time.Duration `mapstructure:"pause" validate:"gte=0"`
}

// AlertConfig holds notification banner settings.
type AlertConfig struct {
	Display time.Duration `mapstructure:"display" validate:"gt=0"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// AuthConfig holds bearer-token verification settings. An empty secret
// disables authentication.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`
	Audience  string `mapstructure:"audience"`
}

// Enabled reports whether bearer tokens are required.
func (a AuthConfig) Enabled() bool {
	return a.JWTSecret != ""
}

var validate = validator.New()

// Load reads configuration from environment variables with the IDP_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("IDP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	// Covers the multipart body plus processor.timeout and secondary.timeout.
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// Processor defaults
	v.SetDefault("processor.endpoint", "")
	v.SetDefault("processor.mock_mode", false)
	v.SetDefault("processor.mock_delay", "2s")
	v.SetDefault("processor.timeout", "60s")
	v.SetDefault("processor.document_type", "Document")

	// Upload defaults
	v.SetDefault("upload.max_file_size_mb", 10)

	// Secondary fetch defaults
	v.SetDefault("secondary.source", "http")
	v.SetDefault("secondary.timeout", "30s")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "")
	v.SetDefault("s3.endpoint", "")

	// Progress and alert defaults
	v.SetDefault("progress.cycle", "15s")
	v.SetDefault("progress.pause", "2s")
	v.SetDefault("alert.display", "4s")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173,http://localhost:3000,http://127.0.0.1:3000")

	// Auth defaults
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":             "IDP_SERVER_PORT",
		"server.read_timeout":     "IDP_SERVER_READ_TIMEOUT",
		"server.write_timeout":    "IDP_SERVER_WRITE_TIMEOUT",
		"server.environment":      "IDP_SERVER_ENVIRONMENT",
		"processor.endpoint":      "IDP_PROCESSOR_ENDPOINT",
		"processor.mock_mode":     "IDP_PROCESSOR_MOCK_MODE",
		"processor.mock_delay":    "IDP_PROCESSOR_MOCK_DELAY",
		"processor.timeout":       "IDP_PROCESSOR_TIMEOUT",
		"processor.document_type": "IDP_PROCESSOR_DOCUMENT_TYPE",
		"upload.max_file_size_mb": "IDP_UPLOAD_MAX_FILE_SIZE_MB",
		"secondary.source":        "IDP_SECONDARY_SOURCE",
		"secondary.timeout":       "IDP_SECONDARY_TIMEOUT",
		"s3.region":               "IDP_S3_REGION",
		"s3.bucket":               "IDP_S3_BUCKET",
		"s3.endpoint":             "IDP_S3_ENDPOINT",
		"s3.access_key":           "IDP_S3_ACCESS_KEY",
		"s3.secret_key":           "IDP_S3_SECRET_KEY",
		"progress.cycle":          "IDP_PROGRESS_CYCLE",
		"progress.pause":          "IDP_PROGRESS_PAUSE",
		"alert.display":           "IDP_ALERT_DISPLAY",
		"log.level":               "IDP_LOG_LEVEL",
		"log.format":              "IDP_LOG_FORMAT",
		"cors.allowed_origins":    "IDP_CORS_ALLOWED_ORIGINS",
		"auth.jwt_secret":         "IDP_AUTH_JWT_SECRET",
		"auth.issuer":             "IDP_AUTH_ISSUER",
		"auth.audience":           "IDP_AUTH_AUDIENCE",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set PORT. Use it if IDP_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("IDP_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.Processor = ProcessorConfig{
		Endpoint:     v.GetString("processor.endpoint"),
		MockMode:     v.GetBool("processor.mock_mode"),
		MockDelay:    v.GetDuration("processor.mock_delay"),
		Timeout:      v.GetDuration("processor.timeout"),
		DocumentType: v.GetString("processor.document_type"),
	}
	cfg.Upload = UploadConfig{
		MaxFileSizeMB: v.GetInt64("upload.max_file_size_mb"),
	}
	cfg.Secondary = SecondaryConfig{
		Source:  strings.ToLower(v.GetString("secondary.source")),
		Timeout: v.GetDuration("secondary.timeout"),
	}
	cfg.S3 = S3Config{
		Region:    v.GetString("s3.region"),
		Bucket:    v.GetString("s3.bucket"),
		Endpoint:  v.GetString("s3.endpoint"),
		AccessKey: v.GetString("s3.access_key"),
		SecretKey: v.GetString("s3.secret_key"),
	}
	cfg.Progress = ProgressConfig{
		Cycle: v.GetDuration("progress.cycle"),
		Pause: v.GetDuration("progress.pause"),
	}
	cfg.Alert = AlertConfig{
		Display: v.GetDuration("alert.display"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: strings.ToLower(v.GetString("log.format")),
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
	cfg.Auth = AuthConfig{
		JWTSecret: v.GetString("auth.jwt_secret"),
		Issuer:    v.GetString("auth.issuer"),
		Audience:  v.GetString("auth.audience"),
	}

	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cfg for values the application cannot run with.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: %s", fe.Namespace(), formatValidationError(fe)))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "required_unless":
		return "this field is required unless " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	default:
		return "invalid value"
	}
}
