package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	BackendFile     = "file"
	BackendPostgres = "postgres"
	BackendSQLite   = "sqlite"
)

// R2Config holds the Cloudflare R2 bucket used for exports. An empty
// AccountID disables uploads to R2.
type R2Config struct {
	AccountID       string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

func (c R2Config) Enabled() bool { return c.AccountID != "" }

// Config хранит все конфигурационные параметры приложения.
type Config struct {
	ServerPort   int
	StateBackend string
	DatabaseURL  string
	SQLitePath   string
	StateFile    string
	// ExportDir receives exports when R2 is not configured.
	ExportDir string

	JWTSecretKey         string
	OperatorPasswordHash string

	R2 R2Config

	MaxGroupSize int
	RandomSeed   string

	LogLevel    string
	LogFormat   string
	CORSOrigins []string
}

// Load читает конфигурацию из окружения; .env подгружается, если он есть.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromLookup(os.LookupEnv)
}

// FromLookup builds the configuration from an arbitrary variable source.
func FromLookup(lookup func(string) (string, bool)) (*Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && v != "" {
			return v
		}
		return def
	}

	port, err := strconv.Atoi(get("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}

	maxGroup, err := strconv.Atoi(get("MAX_GROUP_SIZE", "8"))
	if err != nil {
		return nil, fmt.Errorf("invalid MAX_GROUP_SIZE environment variable: %w", err)
	}
	if maxGroup <= 0 {
		return nil, fmt.Errorf("MAX_GROUP_SIZE must be positive, got %d", maxGroup)
	}

	cfg := &Config{
		ServerPort:           port,
		StateBackend:         strings.ToLower(get("STATE_BACKEND", BackendFile)),
		DatabaseURL:          get("DATABASE_URL", ""),
		SQLitePath:           get("SQLITE_PATH", "bracket-manager.db"),
		StateFile:            get("STATE_FILE", "tournament.json"),
		ExportDir:            get("EXPORT_DIR", "exports"),
		JWTSecretKey:         get("JWT_SECRET_KEY", ""),
		OperatorPasswordHash: get("OPERATOR_PASSWORD_HASH", ""),
		R2: R2Config{
			AccountID:       get("R2_ACCOUNT_ID", ""),
			AccessKeyID:     get("R2_ACCESS_KEY_ID", ""),
			SecretAccessKey: get("R2_SECRET_ACCESS_KEY", ""),
			BucketName:      get("R2_BUCKET_NAME", ""),
			PublicBaseURL:   get("R2_PUBLIC_BASE_URL", ""),
		},
		MaxGroupSize: maxGroup,
		RandomSeed:   get("RANDOM_SEED", ""),
		LogLevel:     strings.ToLower(get("LOG_LEVEL", "info")),
		LogFormat:    strings.ToLower(get("LOG_FORMAT", "json")),
		CORSOrigins:  splitList(get("CORS_ORIGINS", "*")),
	}

	switch cfg.StateBackend {
	case BackendFile:
	case BackendPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is required for the postgres backend")
		}
	case BackendSQLite:
	default:
		return nil, fmt.Errorf("unknown STATE_BACKEND %q (want file, postgres or sqlite)", cfg.StateBackend)
	}

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("LOG_FORMAT must be json or text, got %q", cfg.LogFormat)
	}
	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
