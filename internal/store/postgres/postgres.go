package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/clinicalscribe/scribe-service/internal/model"
	"github.com/clinicalscribe/scribe-service/internal/store"
)

// Open opens a PostgreSQL connection using the pgx stdlib driver and verifies connectivity.
func Open(dsn string) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// NewWithDB constructs a native Postgres store backed directly by database/sql.
func NewWithDB(db *sql.DB) store.Store { return &pgStore{db: db} }

type pgStore struct{ db *sql.DB }

func (s *pgStore) Clients() store.Clients         { return &clients{db: s.db} }
func (s *pgStore) Transcripts() store.Transcripts { return &transcripts{db: s.db} }
func (s *pgStore) Notes() store.Notes             { return &notes{db: s.db} }

// HealthPing implements store.HealthPinger for the Postgres-backed store.
func (s *pgStore) HealthPing(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

const uniqueViolation = "23505"

// mapErr converts driver failures onto the model sentinels.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return model.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", model.ErrConflict, pgErr.ConstraintName)
	}
	return err
}

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
	var created, updated time.Time
	row := c.db.QueryRowContext(ctx, `
        INSERT INTO clients (client_id, owner_id, name, date_of_birth, gender, insurance, chief_complaint, diagnosis, medications, treatment_goals)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
        RETURNING creation_time, update_time
    `, id, m.OwnerID, m.Name, m.DateOfBirth, m.Gender, m.Insurance, m.ChiefComplaint, diag, m.Medications, m.TreatmentGoals)
	if err := row.Scan(&created, &updated); err != nil {
		return nil, mapErr(err)
	}
	out := *m
	out.ClientID = id
	out.CreationTime = created
	out.UpdateTime = updated
	return &out, nil
}

func (c *clients) Get(ctx context.Context, clientID, ownerID string) (*model.Client, error) {
	row := c.db.QueryRowContext(ctx, `
        SELECT client_id, owner_id, name, date_of_birth, gender, insurance, chief_complaint, diagnosis, medications, treatment_goals, creation_time, update_time
        FROM clients WHERE client_id=$1 AND owner_id=$2
    `, clientID, ownerID)
	return scanClient(row)
}

func (c *clients) List(ctx context.Context, ownerID string) ([]*model.Client, error) {
	rows, err := c.db.QueryContext(ctx, `
        SELECT client_id, owner_id, name, date_of_birth, gender, insurance, chief_complaint, diagnosis, medications, treatment_goals, creation_time, update_time
        FROM clients WHERE owner_id=$1 ORDER BY creation_time DESC
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
	var updated time.Time
	row := c.db.QueryRowContext(ctx, `
        UPDATE clients
        SET name=$3, date_of_birth=$4, gender=$5, insurance=$6, chief_complaint=$7, diagnosis=$8, medications=$9, treatment_goals=$10, update_time=now()
        WHERE client_id=$1 AND owner_id=$2
        RETURNING update_time
    `, m.ClientID, m.OwnerID, m.Name, m.DateOfBirth, m.Gender, m.Insurance, m.ChiefComplaint, diag, m.Medications, m.TreatmentGoals)
	if err := row.Scan(&updated); err != nil {
		return nil, mapErr(err)
	}
	out := *m
	out.UpdateTime = updated
	return &out, nil
}

type rowScanner interface{ Scan(dest ...any) error }

func scanClient(row rowScanner) (*model.Client, error) {
	var m model.Client
	var diag []byte
	if err := row.Scan(&m.ClientID, &m.OwnerID, &m.Name, &m.DateOfBirth, &m.Gender, &m.Insurance, &m.ChiefComplaint, &diag, &m.Medications, &m.TreatmentGoals, &m.CreationTime, &m.UpdateTime); err != nil {
		return nil, mapErr(err)
	}
	if len(diag) > 0 {
		if err := json.Unmarshal(diag, &m.Diagnosis); err != nil {
			return nil, err
		}
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
	var created time.Time
	row := t.db.QueryRowContext(ctx, `
        INSERT INTO transcripts (transcript_id, client_id, session_time, content)
        VALUES ($1,$2,$3,$4)
        RETURNING creation_time
    `, id, m.ClientID, m.SessionTime, m.Content)
	if err := row.Scan(&created); err != nil {
		return nil, mapErr(err)
	}
	out := *m
	out.TranscriptID = id
	out.CreationTime = created
	return &out, nil
}

func (t *transcripts) ListRecent(ctx context.Context, req model.ListTranscriptsRequest) ([]*model.Transcript, error) {
	q := `
        SELECT transcript_id, client_id, session_time, content, creation_time
        FROM transcripts WHERE client_id=$1`
	args := []any{req.ClientID}
	if req.Before != nil {
		q += ` AND session_time < $2`
		args = append(args, *req.Before)
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
	rows, err := t.db.QueryContext(ctx, `
        SELECT transcript_id, client_id, session_time, content, creation_time
        FROM transcripts WHERE client_id=$1 AND content ILIKE '%' || $2 || '%'
        ORDER BY session_time DESC LIMIT $3
    `, clientID, query, limit)
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
		if err := rows.Scan(&m.TranscriptID, &m.ClientID, &m.SessionTime, &m.Content, &m.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	return out, rows.Err()
}

// --- Notes ---
type notes struct{ db *sql.DB }

func (n *notes) Append(ctx context.Context, v *model.NoteVersion) (*model.NoteVersion, error) {
	var created time.Time
	row := n.db.QueryRowContext(ctx, `
        INSERT INTO note_versions (note_id, owner_id, title, kind, content)
        VALUES ($1,$2,$3,$4,$5)
        RETURNING creation_time
    `, v.NoteID, v.OwnerID, v.Title, v.Kind, v.Content)
	if err := row.Scan(&created); err != nil {
		return nil, mapErr(err)
	}
	out := *v
	out.CreationTime = created
	return &out, nil
}

func (n *notes) Latest(ctx context.Context, noteID, ownerID string) (*model.NoteVersion, error) {
	var v model.NoteVersion
	row := n.db.QueryRowContext(ctx, `
        SELECT note_id, owner_id, title, kind, content, creation_time
        FROM note_versions WHERE note_id=$1 AND owner_id=$2
        ORDER BY creation_time DESC LIMIT 1
    `, noteID, ownerID)
	if err := row.Scan(&v.NoteID, &v.OwnerID, &v.Title, &v.Kind, &v.Content, &v.CreationTime); err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

func (n *notes) ListVersions(ctx context.Context, noteID, ownerID string) ([]*model.NoteVersion, error) {
	rows, err := n.db.QueryContext(ctx, `
        SELECT note_id, owner_id, title, kind, content, creation_time
        FROM note_versions WHERE note_id=$1 AND owner_id=$2
        ORDER BY creation_time DESC
    `, noteID, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer func() { _ = rows.Close() }()
	var out []*model.NoteVersion
	for rows.Next() {
		var v model.NoteVersion
		if err := rows.Scan(&v.NoteID, &v.OwnerID, &v.Title, &v.Kind, &v.Content, &v.CreationTime); err != nil {
			return nil, err
		}
		out = append(out, &v)
	}
	return out, rows.Err()
}
