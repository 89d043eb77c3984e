package sqlitemigrate

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"
)

const ledgerTable = "schema_migrations"

// ApplyMigrations runs every .sql file under dir in lexical order, once each.
// Applied files are recorded in a ledger table so reruns are no-ops. Each
// file may carry -- +migrate Up / -- +migrate Down markers; only the Up
// section executes.
func ApplyMigrations(sqlDB *sql.DB, fsys fs.FS, dir string) error {
	if sqlDB == nil {
		return fmt.Errorf("sql db is required")
	}
	if strings.TrimSpace(dir) == "" {
		dir = "."
	}

	files, err := listMigrations(fsys, dir)
	if err != nil {
		return err
	}

	if err := ensureLedger(sqlDB); err != nil {
		return err
	}

	for _, file := range files {
		if err := applyFile(sqlDB, fsys, dir, file); err != nil {
			return err
		}
	}
	return nil
}

func listMigrations(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read migrations dir: %w", err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

func ensureLedger(sqlDB *sql.DB) error {
	stmt := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
    name TEXT PRIMARY KEY,
    applied_at INTEGER NOT NULL
);
`, ledgerTable)
	if _, err := sqlDB.Exec(stmt); err != nil {
		return fmt.Errorf("ensure migration table: %w", err)
	}
	return nil
}

func applyFile(sqlDB *sql.DB, fsys fs.FS, dir, file string) error {
	key := file
	if dir != "." {
		key = path.Join(dir, file)
	}

	applied, err := isApplied(sqlDB, key)
	if err != nil {
		return fmt.Errorf("check migration %s: %w", file, err)
	}
	if applied {
		return nil
	}

	content, err := fs.ReadFile(fsys, path.Join(dir, file))
	if err != nil {
		return fmt.Errorf("read migration %s: %w", file, err)
	}
	upSQL := ExtractUpMigration(string(content))
	if strings.TrimSpace(upSQL) == "" {
		return nil
	}

	tx, err := sqlDB.BeginTx(context.Background(), nil)
	if err != nil {
		return fmt.Errorf("begin migration transaction %s: %w", file, err)
	}

	if _, err := tx.Exec(upSQL); err != nil && !IsAlreadyExistsError(err) {
		_ = tx.Rollback()
		return fmt.Errorf("exec migration %s: %w", file, err)
	}

	if _, err := tx.Exec(
		fmt.Sprintf("INSERT OR IGNORE INTO %s (name, applied_at) VALUES (?, ?)", ledgerTable),
		key,
		time.Now().UTC().UnixMilli(),
	); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("record migration %s: %w", file, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration %s: %w", file, err)
	}
	return nil
}

// ExtractUpMigration returns the SQL in the -- +migrate Up section.
// Content without markers is returned whole.
func ExtractUpMigration(content string) string {
	upIdx := strings.Index(content, "-- +migrate Up")
	if upIdx == -1 {
		return content
	}
	body := content[upIdx+len("-- +migrate Up"):]
	if downIdx := strings.Index(body, "-- +migrate Down"); downIdx != -1 {
		body = body[:downIdx]
	}
	return body
}

// IsAlreadyExistsError reports whether this error indicates idempotent DDL success.
func IsAlreadyExistsError(err error) bool {
	value := strings.ToLower(err.Error())
	return strings.Contains(value, "already exists") || strings.Contains(value, "duplicate column name")
}

func isApplied(sqlDB *sql.DB, name string) (bool, error) {
	var found int
	err := sqlDB.QueryRow("SELECT 1 FROM "+ledgerTable+" WHERE name = ?", name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
