package sqlitemigrate

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE objects(id TEXT PRIMARY KEY);"),
		},
	}

	if err := ApplyMigrations(db, migrations, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if rows := countMigrations(t, db); rows != 1 {
		t.Fatalf("expected 1 migration row, got %d", rows)
	}
	if !tableExists(t, db, "objects") {
		t.Fatal("expected applied table to exist")
	}
}

func TestApplyMigrationsIsIdempotent(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"001_create.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE objects(id TEXT PRIMARY KEY);"),
		},
	}

	for i := 0; i < 2; i++ {
		if err := ApplyMigrations(db, migrations, ""); err != nil {
			t.Fatalf("apply migrations pass %d: %v", i+1, err)
		}
	}

	if rows := countMigrations(t, db); rows != 1 {
		t.Fatalf("expected single migration row after replay, got %d", rows)
	}
}

func TestApplyMigrationsDoesNotRecordFailedMigration(t *testing.T) {
	db := openInMemoryDB(t)

	bad := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREAT table things(id INT);"),
		},
	}
	if err := ApplyMigrations(db, bad, ""); err == nil {
		t.Fatalf("expected bad migration to fail")
	}
	if rows := countMigrations(t, db); rows != 0 {
		t.Fatalf("expected failed migration to stay unrecorded, got %d rows", rows)
	}

	good := fstest.MapFS{
		"001_bad.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE things(id INTEGER PRIMARY KEY);"),
		},
	}
	if err := ApplyMigrations(db, good, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if rows := countMigrations(t, db); rows != 1 {
		t.Fatalf("expected fixed migration to be recorded, got %d rows", rows)
	}
}

func TestApplyMigrationsRespectsDir(t *testing.T) {
	db := openInMemoryDB(t)

	migrations := fstest.MapFS{
		"events/001_events.sql": &fstest.MapFile{
			Data: []byte("-- +migrate Up\nCREATE TABLE event_rows(id TEXT PRIMARY KEY);"),
		},
	}

	if err := ApplyMigrations(db, migrations, "events"); err != nil {
		t.Fatalf("apply migrations with dir: %v", err)
	}

	var key string
	if err := db.QueryRow("SELECT name FROM schema_migrations LIMIT 1").Scan(&key); err != nil {
		t.Fatalf("query migration key: %v", err)
	}
	if key != "events/001_events.sql" {
		t.Fatalf("expected dir-qualified migration key, got %q", key)
	}
	if !tableExists(t, db, "event_rows") {
		t.Fatal("expected migrated table from dir-based migration")
	}
}

func TestExtractUpMigration(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "up and down sections",
			content: "-- +migrate Up\nCREATE TABLE a(x);\n-- +migrate Down\nDROP TABLE a;",
			want:    "\nCREATE TABLE a(x);\n",
		},
		{
			name:    "up only",
			content: "-- +migrate Up\nCREATE TABLE b(x);",
			want:    "\nCREATE TABLE b(x);",
		},
		{
			name:    "no markers",
			content: "CREATE TABLE c(x);",
			want:    "CREATE TABLE c(x);",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ExtractUpMigration(tc.content); got != tc.want {
				t.Fatalf("extract up migration = %q, want %q", got, tc.want)
			}
		})
	}
}

func openInMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func countMigrations(t *testing.T, db *sql.DB) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&value); err != nil {
		t.Fatalf("count migrations: %v", err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
