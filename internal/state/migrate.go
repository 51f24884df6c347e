package state

import (
	"embed"
	"fmt"
	"log/slog"
	"os"
	"path"
	"sync"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrations embed.FS

// goose keeps its configuration in package globals.
var gooseMu sync.Mutex

// Migrate runs all pending database migrations.
func (s *SQLStore) Migrate() error {
	if s.db == nil {
		return ErrNotOpen
	}

	return s.withGoose(func(dir string) error {
		if err := goose.Up(s.db, dir); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		return nil
	})
}

// MigrationStatus logs the applied state of every migration.
func (s *SQLStore) MigrationStatus() error {
	if s.db == nil {
		return ErrNotOpen
	}

	return s.withGoose(func(dir string) error {
		return goose.Status(s.db, dir)
	})
}

// GetMigrationVersion returns the current migration version.
func (s *SQLStore) GetMigrationVersion() (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}

	var version int64
	err := s.withGoose(func(string) error {
		var err error
		version, err = goose.GetDBVersion(s.db)
		return err
	})
	return version, err
}

func (s *SQLStore) withGoose(fn func(dir string) error) error {
	gooseMu.Lock()
	defer gooseMu.Unlock()

	goose.SetBaseFS(migrations)
	goose.SetLogger(gooseLogger{logger: s.logger})

	if err := goose.SetDialect(s.dialect.gooseDialect()); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	return fn(path.Join("migrations", string(s.dialect)))
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	logger *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, v...), "component", "goose")
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, v...), "component", "goose")
	os.Exit(1)
}
