package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"time"

	"github.com/joho/godotenv"

	"taskmanager/internal/util"
)

const (
	StorageGorm   = "gorm"
	StorageMemory = "memory"
)

// Config is the environment-supplied configuration shared by all commands.
type Config struct {
	Port        string
	FrontendURL string
	StaticDir   string

	Storage  string
	DBDriver string
	DBPath   string
	DBDSN    string
	DBDebug  bool

	LogLevel        slog.Level
	ShutdownTimeout time.Duration

	APIBaseURL  string
	PingTimeout time.Duration
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Load reads .env files (when present) and then the environment. Variables
// already set in the environment win over .env values.
func Load(files ...string) (Config, error) {
	if err := godotenv.Load(files...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		Port:        util.EnvOrDefault("PORT", "3001"),
		FrontendURL: util.EnvOrDefault("FRONTEND_URL", "http://localhost:5173"),
		StaticDir:   util.EnvOrDefault("STATIC_DIR", ""),
		Storage:     util.EnvOrDefault("STORAGE", StorageGorm),
		DBDriver:    util.EnvOrDefault("DB_DRIVER", "sqlite"),
		DBPath:      util.EnvOrDefault("DB_PATH", "data/tasks.db"),
		DBDSN:       util.EnvOrDefault("DB_DSN", ""),
		APIBaseURL:  util.EnvOrDefault("API_BASE_URL", "http://localhost:3001/api"),
	}

	var errs []error
	var err error
	if cfg.DBDebug, err = util.EnvBool("DB_DEBUG", false); err != nil {
		errs = append(errs, err)
	}
	if cfg.ShutdownTimeout, err = util.EnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.PingTimeout, err = util.EnvDuration("PING_TIMEOUT", 10*time.Second); err != nil {
		errs = append(errs, err)
	}
	if cfg.LogLevel, err = util.ParseLevel(util.EnvOrDefault("LOG_LEVEL", "info")); err != nil {
		errs = append(errs, fmt.Errorf("LOG_LEVEL: %w", err))
	}

	switch cfg.Storage {
	case StorageGorm, StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE: unknown storage %q (want gorm or memory)", cfg.Storage))
	}
	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.Storage == StorageGorm && cfg.DBDSN == "" {
			errs = append(errs, errors.New("DB_DSN is required when DB_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER: unknown driver %q (want sqlite or postgres)", cfg.DBDriver))
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}
