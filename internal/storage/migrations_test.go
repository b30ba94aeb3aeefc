package storage

import (
	"context"
	"path/filepath"
	"testing"
)

func TestMigrate(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	defer func() { _ = store.Close() }()

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}

	var version int
	if err := store.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read user_version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Expected schema version %d, got %d", ExpectedSchemaVersion, version)
	}

	// Migrating an up-to-date database is a no-op.
	if err := store.Migrate(ctx); err != nil {
		t.Errorf("Second Migrate() error = %v", err)
	}

	// All tables the application touches must exist.
	for _, table := range []string{"wallets", "categories", "transactions", "budgets", "ai_advice"} {
		var name string
		err := store.db.QueryRowContext(ctx,
			"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
		).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %q to exist: %v", table, err)
		}
	}
}

func TestMigrate_DirectionColumn(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	rows, err := store.db.QueryContext(ctx, "PRAGMA table_info(transactions)")
	if err != nil {
		t.Fatalf("Failed to inspect transactions table: %v", err)
	}
	defer func() { _ = rows.Close() }()

	found := false
	for rows.Next() {
		var (
			cid        int
			name, typ  string
			notNull    int
			defaultVal any
			pk         int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			t.Fatalf("Failed to scan column info: %v", err)
		}
		if name == "direction" {
			found = true
		}
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("Error iterating columns: %v", err)
	}

	if !found {
		t.Error("Expected transactions table to have a direction column")
	}
}
