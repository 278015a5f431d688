package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultBaseURL is the parse service address used when none is configured.
const DefaultBaseURL = "http://127.0.0.1:8000"

// Config holds all application configuration.
type Config struct {
	Server ServerConfig
	API    APIConfig
	CORS   CORSConfig
}

// APIConfig holds settings for the remote parse service.
type APIConfig struct {
	BaseURL string `mapstructure:"base_url"`
	// TimeoutSecs bounds the transport; 0 leaves the request unbounded.
	TimeoutSecs int    `mapstructure:"timeout_secs"`
	MaxUploadMB int64  `mapstructure:"max_upload_mb"`
	FileField   string `mapstructure:"file_field"`
	ParsePath   string `mapstructure:"parse_path"`
	UserAgent   string `mapstructure:"user_agent"`
}

// Timeout returns the transport timeout as a duration.
func (a *APIConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutSecs) * time.Second
}

// ParseURL returns the full endpoint the statement is posted to.
func (a *APIConfig) ParseURL() string {
	return strings.TrimRight(a.BaseURL, "/") + "/" + strings.TrimLeft(a.ParsePath, "/")
}

// ServerConfig holds local HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from environment variables with the STMTVIEW_ prefix.
// A .env file in the working directory is loaded first when present.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: ignoring .env: %v", err)
	}

	v := viper.New()
	v.SetEnvPrefix("STMTVIEW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "0s")
	v.SetDefault("server.environment", "development")

	// Parse service defaults
	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.timeout_secs", 0)
	v.SetDefault("api.max_upload_mb", 25)
	v.SetDefault("api.file_field", "file")
	v.SetDefault("api.parse_path", "/parse")
	v.SetDefault("api.user_agent", "stmtview/1.0")

	// CORS defaults (vite dev server)
	v.SetDefault("cors.allowed_origins", "http://localhost:5173,http://127.0.0.1:5173")

	envBindings := map[string]string{
		"server.port":          "STMTVIEW_SERVER_PORT",
		"server.read_timeout":  "STMTVIEW_SERVER_READ_TIMEOUT",
		"server.write_timeout": "STMTVIEW_SERVER_WRITE_TIMEOUT",
		"server.environment":   "STMTVIEW_SERVER_ENVIRONMENT",
		"api.base_url":         "STMTVIEW_API_BASE_URL",
		"api.timeout_secs":     "STMTVIEW_API_TIMEOUT_SECS",
		"api.max_upload_mb":    "STMTVIEW_API_MAX_UPLOAD_MB",
		"api.file_field":       "STMTVIEW_API_FILE_FIELD",
		"api.parse_path":       "STMTVIEW_API_PARSE_PATH",
		"api.user_agent":       "STMTVIEW_API_USER_AGENT",
		"cors.allowed_origins": "STMTVIEW_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Frontends built against the old vite setup export VITE_API_BASE.
	baseURL := v.GetString("api.base_url")
	if legacy := os.Getenv("VITE_API_BASE"); legacy != "" && os.Getenv("STMTVIEW_API_BASE_URL") == "" {
		baseURL = legacy
	}

	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("STMTVIEW_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.API = APIConfig{
		BaseURL:     baseURL,
		TimeoutSecs: v.GetInt("api.timeout_secs"),
		MaxUploadMB: v.GetInt64("api.max_upload_mb"),
		FileField:   v.GetString("api.file_field"),
		ParsePath:   v.GetString("api.parse_path"),
		UserAgent:   v.GetString("api.user_agent"),
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

	return cfg, nil
}
