// Package store provides a SQLite-backed local data service and the
// persisted CLI session.
package store

import (
	"crypto/rand"
	"database/sql"
	"embed"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/theirongolddev/advisor/internal/backend"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // register sqlite driver
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	pragmas      = "?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=foreign_keys(on)&_pragma=busy_timeout(5000)"
	tokenTTL     = time.Hour
	jwtIssuer    = "advisor-local"
	secretKey    = "jwt_secret"
	secretLength = 32
)

// DB is the local sqlite database.
type DB struct {
	db     *sql.DB
	secret []byte
	now    func() time.Time
	log    *zap.Logger
}

var _ backend.Service = (*DB)(nil)

// Open opens or creates the database at the given path and applies migrations.
func Open(dbPath string, log *zap.Logger) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}
	if log == nil {
		log = zap.NewNop()
	}

	if err := runMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath+pragmas)
	if err != nil {
		return nil, fmt.Errorf("opening db: %w", err)
	}

	s := &DB{db: db, now: time.Now, log: log.Named("store")}
	if err := s.loadSecret(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// runMigrations applies the embedded migrations on a dedicated connection.
func runMigrations(dbPath string) error {
	migrateDB, err := sql.Open("sqlite", dbPath+pragmas)
	if err != nil {
		return fmt.Errorf("opening migration db: %w", err)
	}
	defer func() { _ = migrateDB.Close() }()

	driver, err := sqlite.WithInstance(migrateDB, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("creating sqlite driver: %w", err)
	}

	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("creating iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("creating migrate instance: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("running migrations: %w", err)
	}
	return nil
}

// loadSecret reads the token signing secret, creating one on first use.
func (s *DB) loadSecret() error {
	var encoded string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = ?", secretKey).Scan(&encoded)
	switch {
	case err == nil:
		secret, err := hex.DecodeString(encoded)
		if err != nil {
			return fmt.Errorf("decoding signing secret: %w", err)
		}
		s.secret = secret
		return nil
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("reading signing secret: %w", err)
	}

	secret := make([]byte, secretLength)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("generating signing secret: %w", err)
	}
	if _, err := s.db.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", secretKey, hex.EncodeToString(secret)); err != nil {
		return fmt.Errorf("storing signing secret: %w", err)
	}
	s.secret = secret
	return nil
}

// Name implements backend.Service.
func (s *DB) Name() string { return "local" }

// Close closes the database.
func (s *DB) Close() error {
	return s.db.Close()
}

func (s *DB) timestamp() string {
	return s.now().UTC().Format(time.RFC3339Nano)
}
