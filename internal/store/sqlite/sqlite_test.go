package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/clinicalscribe/scribe-service/internal/store"
	"github.com/clinicalscribe/scribe-service/internal/store/storetest"
)

func makeStore(t *testing.T) store.Store {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "scribe-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return NewWithDB(db)
}

func TestSQLiteStore_Compliance(t *testing.T) {
	storetest.Run(t, makeStore)
}

func TestTimestampFormat_OrdersLexicographically(t *testing.T) {
	a := time.Date(2026, 3, 1, 10, 0, 0, 5, time.UTC)
	b := time.Date(2026, 3, 1, 10, 0, 0, 500000000, time.UTC)
	c := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	if !(fmtTime(a) < fmtTime(b) && fmtTime(b) < fmtTime(c)) {
		t.Fatalf("timestamp encoding must preserve order: %q %q %q", fmtTime(a), fmtTime(b), fmtTime(c))
	}

	rt, err := parseTime(fmtTime(a))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if !rt.Equal(a) {
		t.Fatalf("round trip mismatch: %v != %v", rt, a)
	}
}
