package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"github.com/hpungsan/callsnap/internal/config"
)

// FileName is the SQLite database file inside the base directory.
const FileName = "callsnap.db"

// ExportsDir is the default export directory inside the base directory.
const ExportsDir = "exports"

// migration upgrades the schema from version-1 to version.
type migration struct {
	version int
	name    string
	stmts   []string
}

// migrations are applied in order; append only.
var migrations = []migration{
	{
		version: 1,
		name:    "meetings table",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS meetings (
			  id         TEXT PRIMARY KEY,
			  title      TEXT NOT NULL,
			  status     TEXT NOT NULL,
			  created_at INTEGER NOT NULL,
			  updated_at INTEGER NOT NULL,
			  version    INTEGER NOT NULL,
			  doc        TEXT NOT NULL
			)`,
			`CREATE INDEX IF NOT EXISTS idx_meetings_created ON meetings(created_at DESC, id DESC)`,
			`CREATE INDEX IF NOT EXISTS idx_meetings_status ON meetings(status)`,
		},
	},
}

// CurrentSchemaVersion is the version reached after all migrations.
var CurrentSchemaVersion = migrations[len(migrations)-1].version

// Init opens (creating if needed) baseDir/callsnap.db in WAL mode and brings
// the schema up to date. baseDir/exports is created alongside it.
func Init(baseDir string) (*sql.DB, error) {
	if err := prepareDirs(baseDir); err != nil {
		return nil, err
	}

	dbPath := filepath.Join(baseDir, FileName)
	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", dbPath, err)
	}

	if err := checkJournalMode(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	_ = os.Chmod(dbPath, 0600)
	return db, nil
}

// prepareDirs creates baseDir and its exports directory, owner-only.
func prepareDirs(baseDir string) error {
	for _, dir := range []string{baseDir, filepath.Join(baseDir, ExportsDir)} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
		_ = os.Chmod(dir, 0700)
	}
	return nil
}

// ConfigurePool applies the configured pool limits; zero keeps the driver default.
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate runs every migration above the stored user_version, each in its
// own transaction together with the version bump.
func migrate(db *sql.DB) error {
	current, err := GetUserVersion(db)
	if err != nil {
		return err
	}
	if current > CurrentSchemaVersion {
		return fmt.Errorf("database schema v%d is newer than this build (v%d)", current, CurrentSchemaVersion)
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := applyMigration(db, m); err != nil {
			return err
		}
	}
	return nil
}

func applyMigration(db *sql.DB, m migration) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
	}
	defer tx.Rollback()

	for _, stmt := range m.stmts {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("migration %d (%s): %w", m.version, m.name, err)
		}
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version=%d", m.version)); err != nil {
		return fmt.Errorf("migration %d (%s): set user_version: %w", m.version, m.name, err)
	}
	return tx.Commit()
}

// checkJournalMode confirms the DSN pragma switched the file to WAL.
func checkJournalMode(db *sql.DB) error {
	var mode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&mode); err != nil {
		return fmt.Errorf("read journal_mode: %w", err)
	}
	if mode != "wal" {
		return fmt.Errorf("journal_mode is %q, want wal", mode)
	}
	return nil
}

// GetUserVersion returns the schema version stored in the user_version pragma.
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("read user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion overwrites the user_version pragma.
func SetUserVersion(db *sql.DB, version int) error {
	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}
