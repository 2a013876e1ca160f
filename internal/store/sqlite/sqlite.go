package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlite "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/clinicalscribe/scribe-service/internal/model"
	"github.com/clinicalscribe/scribe-service/internal/store"
)

// tsFormat is a fixed-width UTC timestamp so that lexicographic TEXT ordering
// matches temporal ordering and the uniqueness constraint compares canonical
// values.
const tsFormat = "2006-01-02T15:04:05.000000000Z"

// Open opens or creates a SQLite database at the given path and applies the schema.
func Open(dbPath string) (*sql.DB, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create db dir: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return db, nil
}

// NewWithDB constructs a SQLite store from an existing connection.
func NewWithDB(db *sql.DB) store.Store { return &liteStore{db: db} }

func migrate(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS clients (
		client_id       TEXT PRIMARY KEY,
		owner_id        TEXT NOT NULL,
		name            TEXT NOT NULL,
		date_of_birth   TEXT NOT NULL,
		gender          TEXT NOT NULL DEFAULT '',
		insurance       TEXT NOT NULL DEFAULT '',
		chief_complaint TEXT NOT NULL DEFAULT '',
		diagnosis       TEXT NOT NULL DEFAULT '[]',
		medications     TEXT NOT NULL DEFAULT '',
		treatment_goals TEXT NOT NULL DEFAULT '',
		creation_time   TEXT NOT NULL,
		update_time     TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_clients_owner ON clients(owner_id);

	CREATE TABLE IF NOT EXISTS transcripts (
		transcript_id TEXT PRIMARY KEY,
		client_id     TEXT NOT NULL REFERENCES clients(client_id) ON DELETE CASCADE,
		session_time  TEXT NOT NULL,
		content       TEXT NOT NULL,
		creation_time TEXT NOT NULL,
		UNIQUE (client_id, session_time)
	);
	CREATE INDEX IF NOT EXISTS idx_transcripts_client_session ON transcripts(client_id, session_time DESC);

	CREATE TABLE IF NOT EXISTS note_versions (
		note_id       TEXT NOT NULL,
		owner_id      TEXT NOT NULL,
		title         TEXT NOT NULL,
		kind          TEXT NOT NULL,
		content       TEXT NOT NULL,
		creation_time TEXT NOT NULL,
		PRIMARY KEY (note_id, creation_time)
	);
	CREATE INDEX IF NOT EXISTS idx_note_versions_owner ON note_versions(owner_id, creation_time DESC);
	`
	_, err := db.Exec(schema)
	return err
}

type liteStore struct{ db *sql.DB }

func (s *liteStore) Clients() store.Clients         { return &clients{db: s.db} }
func (s *liteStore) Transcripts() store.Transcripts { return &transcripts{db: s.db} }
func (s *liteStore) Notes() store.Notes             { return &notes{db: s.db} }

// HealthPing implements store.HealthPinger for the SQLite-backed store.
func (s *liteStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	var se *sqlite.Error
	if errors.As(err, &se) {
		switch se.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %v", model.ErrConflict, err)
		}
	}
	return err
}

func fmtTime(t time.Time) string { return t.UTC().Format(tsFormat) }

func parseTime(s string) (time.Time, error) { return time.Parse(tsFormat, s) }

// --- Clients ---
type clients struct{ db *sql.DB }

func (c *clients) Create(ctx context.Context, m *model.Client) (*model.Client, error) {
	id := m.ClientID
	if id == "" {
		id = uuid.New().String()
	}
	diag, err := json.Marshal(m.Diagnosis)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err = c.db.ExecContext(ctx, `
        INSERT INTO clients (client_id, owner_id, name, date_of_birth, gender, insurance, chief_complaint, diagnosis, medications, treatment_goals, creation_time, update_time)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?)
    `, id, m.OwnerID, m.Name, m.DateOfBirth, m.Gender, m.Insurance, m.ChiefComplaint, string(diag), m.Medications, m.TreatmentGoals, fmtTime(now), fmtTime(now))
	if err != nil {
		return nil, mapErr(err)
	}
	out := *m
	out.ClientID = id
	out.CreationTime = now
	out.UpdateTime = now
	return &out, nil
}

func (c *clients) Get(ctx context.Context, clientID, ownerID string) (*model.Client, error) {
	row := c.db.QueryRowContext(ctx, `
        SELECT client_id, owner_id, name, date_of_birth, gender, insurance, chief_complaint, diagnosis, medications, treatment_goals, creation_time, update_time
        FROM clients WHERE client_id=? AND owner_id=?
    `, clientID, ownerID)
	return scanClient(row)
}

func (c *clients) List(ctx context.Context, ownerID string) ([]*model.Client, error) {
	rows, err := c.db.QueryContext(ctx, `
        SELECT client_id, owner_id, name, date_of_birth, gender, insurance, chief_complaint, diagnosis, medications, treatment_goals, creation_time, update_time
        FROM clients WHERE owner_id=? ORDER BY creation_time DESC
    `, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() { _ = rows.Close() }()
	var out []*model.Client
	for rows.Next() {
		m, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (c *clients) Update(ctx context.Context, m *model.Client) (*model.Client, error) {
	diag, err := json.Marshal(m.Diagnosis)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	res, err := c.db.ExecContext(ctx, `
        UPDATE clients
        SET name=?, date_of_birth=?, gender=?, insurance=?, chief_complaint=?, diagnosis=?, medications=?, treatment_goals=?, update_time=?
        WHERE client_id=? AND owner_id=?
    `, m.Name, m.DateOfBirth, m.Gender, m.Insurance, m.ChiefComplaint, string(diag), m.Medications, m.TreatmentGoals, fmtTime(now), m.ClientID, m.OwnerID)
	if err != nil {
		return nil, mapErr(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, model.ErrNotFound
	}
	out := *m
	out.UpdateTime = now
	return &out, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanClient(row rowScanner) (*model.Client, error) {
	var m model.Client
	var diag, created, updated string
	if err := row.Scan(&m.ClientID, &m.OwnerID, &m.Name, &m.DateOfBirth, &m.Gender, &m.Insurance, &m.ChiefComplaint, &diag, &m.Medications, &m.TreatmentGoals, &created, &updated); err != nil {
		return nil, mapErr(err)
	}
	if err := json.Unmarshal([]byte(diag), &m.Diagnosis); err != nil {
		return nil, err
	}
	var err error
	if m.CreationTime, err = parseTime(created); err != nil {
		return nil, err
	}
	if m.UpdateTime, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &m, nil
}

// --- Transcripts ---
type transcripts struct{ db *sql.DB }

func (t *transcripts) Create(ctx context.Context, m *model.Transcript) (*model.Transcript, error) {
	id := m.TranscriptID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err := t.db.ExecContext(ctx, `
        INSERT INTO transcripts (transcript_id, client_id, session_time, content, creation_time)
        VALUES (?,?,?,?,?)
    `, id, m.ClientID, fmtTime(m.SessionTime), m.Content, fmtTime(now))
	if err != nil {
		return nil, mapErr(err)
	}
	out := *m
	out.TranscriptID = id
	out.SessionTime = m.SessionTime.UTC()
	out.CreationTime = now
	return &out, nil
}

func (t *transcripts) ListRecent(ctx context.Context, req model.ListTranscriptsRequest) ([]*model.Transcript, error) {
	q := `
        SELECT transcript_id, client_id, session_time, content, creation_time
        FROM transcripts WHERE client_id=?`
	args := []any{req.ClientID}
	if req.Before != nil {
		q += ` AND session_time < ?`
		args = append(args, fmtTime(*req.Before))
	}
	q += ` ORDER BY session_time DESC`
	if req.Limit > 0 {
		q += fmt.Sprintf(` LIMIT %d`, req.Limit)
	}
	rows, err := t.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() { _ = rows.Close() }()
	return collectTranscripts(rows)
}

func (t *transcripts) Search(ctx context.Context, clientID, query string, limit int) ([]*model.Transcript, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + strings.ToLower(query) + "%"
	rows, err := t.db.QueryContext(ctx, `
        SELECT transcript_id, client_id, session_time, content, creation_time
        FROM transcripts WHERE client_id=? AND lower(content) LIKE ?
        ORDER BY session_time DESC LIMIT ?
    `, clientID, pattern, limit)
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() { _ = rows.Close() }()
	return collectTranscripts(rows)
}

func collectTranscripts(rows *sql.Rows) ([]*model.Transcript, error) {
	var out []*model.Transcript
	for rows.Next() {
		var m model.Transcript
		var session, created string
		if err := rows.Scan(&m.TranscriptID, &m.ClientID, &session, &m.Content, &created); err != nil {
			return nil, err
		}
		var err error
		if m.SessionTime, err = parseTime(session); err != nil {
			return nil, err
		}
		if m.CreationTime, err = parseTime(created); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// --- Notes ---
type notes struct{ db *sql.DB }

func (n *notes) Append(ctx context.Context, v *model.NoteVersion) (*model.NoteVersion, error) {
	created := time.Now().UTC()
	_, err := n.db.ExecContext(ctx, `
        INSERT INTO note_versions (note_id, owner_id, title, kind, content, creation_time)
        VALUES (?,?,?,?,?,?)
    `, v.NoteID, v.OwnerID, v.Title, v.Kind, v.Content, fmtTime(created))
	if err != nil {
		return nil, mapErr(err)
	}
	out := *v
	out.CreationTime = created
	return &out, nil
}

func (n *notes) Latest(ctx context.Context, noteID, ownerID string) (*model.NoteVersion, error) {
	row := n.db.QueryRowContext(ctx, `
        SELECT note_id, owner_id, title, kind, content, creation_time
        FROM note_versions WHERE note_id=? AND owner_id=?
        ORDER BY creation_time DESC LIMIT 1
    `, noteID, ownerID)
	return scanNote(row)
}

func (n *notes) ListVersions(ctx context.Context, noteID, ownerID string) ([]*model.NoteVersion, error) {
	rows, err := n.db.QueryContext(ctx, `
        SELECT note_id, owner_id, title, kind, content, creation_time
        FROM note_versions WHERE note_id=? AND owner_id=?
        ORDER BY creation_time DESC
    `, noteID, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() { _ = rows.Close() }()
	var out []*model.NoteVersion
	for rows.Next() {
		v, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func scanNote(row rowScanner) (*model.NoteVersion, error) {
	var v model.NoteVersion
	var created string
	if err := row.Scan(&v.NoteID, &v.OwnerID, &v.Title, &v.Kind, &v.Content, &created); err != nil {
		return nil, mapErr(err)
	}
	var err error
	if v.CreationTime, err = parseTime(created); err != nil {
		return nil, err
	}
	return &v, nil
}
