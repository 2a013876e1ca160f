package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/clinicalscribe/scribe-service/internal/store"
	"github.com/clinicalscribe/scribe-service/internal/store/storetest"
)

// makeStore connects to the database named by SCRIBE_TEST_POSTGRES_DSN.
// The compliance suite runs only when the variable points at a disposable
// database; without it the test skips.
func makeStore(t *testing.T) store.Store {
	t.Helper()
	dsn := os.Getenv("SCRIBE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("SCRIBE_TEST_POSTGRES_DSN not set")
	}
	db, err := Open(dsn)
	if err != nil {
		t.Fatalf("open postgres: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	ctx := context.Background()
	if err := EnsureSchema(ctx, db); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	// Isolate runs sharing one database.
	for _, table := range []string{"note_versions", "transcripts", "clients"} {
		if _, err := db.ExecContext(ctx, "TRUNCATE "+table+" CASCADE"); err != nil {
			t.Fatalf("truncate %s: %v", table, err)
		}
	}
	return NewWithDB(db)
}

func TestPostgresStore_Compliance(t *testing.T) {
	storetest.Run(t, makeStore)
}

func TestDDLStatements_NonEmpty(t *testing.T) {
	stmts := DDLStatements()
	if len(stmts) == 0 {
		t.Fatal("embedded schema produced no statements")
	}
	for i, s := range stmts {
		if s == "" {
			t.Fatalf("statement %d is empty", i)
		}
	}
}
