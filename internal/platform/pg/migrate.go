package pg

import (
	"errors"
	"fmt"
	"io/fs"

	migrate "github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// MigrationInfo reports the outcome of an ApplyMigrations* call.
type MigrationInfo struct {
	Applied        bool // whether any new migration was applied
	CurrentVersion uint // version before applying
	FinalVersion   uint // version after applying
	Dirty          bool // whether the database is in a dirty (partially applied) state
}

// ApplyMigrations applies all pending migrations found at migrationsPath
// (e.g. "file://migrations"). Safe to call repeatedly: migrate.ErrNoChange
// is not treated as an error.
func ApplyMigrations(dsn, migrationsPath string) (MigrationInfo, error) {
	m, err := migrate.New(migrationsPath, dsn)
	if err != nil {
		return MigrationInfo{}, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		_, _ = sourceErr, dbErr
	}()

	return runMigrations(m)
}

// ApplyMigrationsFromFS applies migrations embedded in fsys under dirName,
// for binaries that embed their schema with embed.FS.
func ApplyMigrationsFromFS(dsn string, fsys fs.FS, dirName string) (MigrationInfo, error) {
	sourceDriver, err := iofs.New(fsys, dirName)
	if err != nil {
		return MigrationInfo{}, fmt.Errorf("failed to create iofs source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dsn)
	if err != nil {
		return MigrationInfo{}, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		_, _ = sourceErr, dbErr
	}()

	return runMigrations(m)
}

func runMigrations(m *migrate.Migrate) (MigrationInfo, error) {
	info := MigrationInfo{Applied: false, Dirty: false}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return MigrationInfo{}, fmt.Errorf("failed to get current version: %w", err)
	}
	info.CurrentVersion = currentVersion
	info.Dirty = dirty

	if dirty {
		return info, fmt.Errorf("database is in dirty state at version %d", currentVersion)
	}

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return info, nil
		}
		return info, fmt.Errorf("failed to apply migrations: %w", err)
	}

	info.Applied = true
	finalVersion, _, err := m.Version()
	if err == nil {
		info.FinalVersion = finalVersion
	}

	return info, nil
}

// GetMigrationVersion returns the currently applied migration version.
func GetMigrationVersion(dsn, migrationsPath string) (uint, bool, error) {
	m, err := migrate.New(migrationsPath, dsn)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		_, _ = sourceErr, dbErr
	}()

	return versionOf(m)
}

// GetMigrationVersionFromFS returns the currently applied migration version
// for migrations embedded in fsys.
func GetMigrationVersionFromFS(dsn string, fsys fs.FS, dirName string) (uint, bool, error) {
	sourceDriver, err := iofs.New(fsys, dirName)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create iofs source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", sourceDriver, dsn)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	defer func() {
		sourceErr, dbErr := m.Close()
		_, _ = sourceErr, dbErr
	}()

	return versionOf(m)
}

func versionOf(m *migrate.Migrate) (uint, bool, error) {
	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}
