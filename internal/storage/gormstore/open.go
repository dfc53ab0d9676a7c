package gormstore

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures the database backend.
type Options struct {
	Driver string // sqlite (default) or postgres
	Path   string // sqlite database file
	DSN    string // postgres connection string
	Debug  bool   // log every SQL statement
	Logger *slog.Logger
}

// Store persists tasks through GORM.
type Store struct {
	db     *gorm.DB
	logger *slog.Logger
	lock   *flock.Flock
}

// Open connects to the configured database, applies migrations and returns a ready store.
func Open(ctx context.Context, opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	switch opts.Driver {
	case "", DriverSQLite:
		return openSQLite(ctx, opts)
	case DriverPostgres:
		return openPostgres(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", opts.Driver)
	}
}

func openSQLite(ctx context.Context, opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errors.New("empty database path")
	}
	if err := ensureDir(opts.Path); err != nil {
		return nil, err
	}

	lock := flock.New(opts.Path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("lock database: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("database %s is in use by another process", opts.Path)
	}

	conn, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?_busy_timeout=5000&_foreign_keys=ON", opts.Path))
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// SQLite allows a single writer.
	conn.SetMaxOpenConns(1)
	conn.SetConnMaxLifetime(0)

	fail := func(err error) (*Store, error) {
		_ = conn.Close()
		_ = lock.Unlock()
		return nil, err
	}

	if err := conn.PingContext(ctx); err != nil {
		return fail(fmt.Errorf("connect sqlite: %w", err))
	}
	if err := migrate(ctx, conn, "sqlite3", "migrations/sqlite", opts.Logger); err != nil {
		return fail(err)
	}

	db, err := gorm.Open(&sqlite.Dialector{Conn: conn}, gormConfig(opts))
	if err != nil {
		return fail(fmt.Errorf("open gorm: %w", err))
	}

	opts.Logger.Info("database ready", slog.String("driver", DriverSQLite), slog.String("path", opts.Path))
	return &Store{db: db, logger: opts.Logger, lock: lock}, nil
}

func openPostgres(ctx context.Context, opts Options) (*Store, error) {
	if opts.DSN == "" {
		return nil, errors.New("empty postgres dsn")
	}

	db, err := gorm.Open(postgres.Open(opts.DSN), gormConfig(opts))
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	conn, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("postgres pool: %w", err)
	}
	conn.SetMaxOpenConns(10)
	conn.SetConnMaxIdleTime(5 * time.Minute)

	if err := migrate(ctx, conn, "postgres", "migrations/postgres", opts.Logger); err != nil {
		_ = conn.Close()
		return nil, err
	}

	opts.Logger.Info("database ready", slog.String("driver", DriverPostgres))
	return &Store{db: db, logger: opts.Logger}, nil
}

// Close releases the connection pool and the database file lock.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	var errs []error
	if conn, err := s.db.DB(); err == nil {
		errs = append(errs, conn.Close())
	} else {
		errs = append(errs, err)
	}
	if s.lock != nil {
		errs = append(errs, s.lock.Unlock())
	}
	return errors.Join(errs...)
}

// Ping checks that the database still answers.
func (s *Store) Ping(ctx context.Context) error {
	conn, err := s.db.DB()
	if err != nil {
		return err
	}
	return conn.PingContext(ctx)
}

func ensureDir(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func migrate(ctx context.Context, conn *sql.DB, dialect, dir string, log *slog.Logger) error {
	goose.SetLogger(slog.NewLogLogger(log.Handler(), slog.LevelDebug))
	goose.SetBaseFS(migrations)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn, dir); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

func gormConfig(opts Options) *gorm.Config {
	level := logger.Warn
	if opts.Debug {
		level = logger.Info
	}
	return &gorm.Config{
		Logger: logger.New(slog.NewLogLogger(opts.Logger.Handler(), slog.LevelInfo), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  level,
			IgnoreRecordNotFoundError: true,
		}),
		NowFunc: func() time.Time { return time.Now().UTC() },
	}
}
