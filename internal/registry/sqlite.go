package registry

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/venturelink/match-engine/internal/model"
)

// SQLite implements Registry using modernc.org/sqlite. Entities are stored
// as JSON payloads partitioned by kind.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLite{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS entities (
	id         TEXT NOT NULL,
	kind       TEXT NOT NULL,
	payload    TEXT NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now')),
	PRIMARY KEY (kind, id)
);

CREATE INDEX IF NOT EXISTS idx_entities_kind_created ON entities(kind, created_at);
`

func (s *SQLite) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLite) Close() error {
	return s.db.Close()
}

func (s *SQLite) put(ctx context.Context, kind Kind, id string, createdAt time.Time, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "sqlite: marshal %s", kind)
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO entities (id, kind, payload, created_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT (kind, id) DO UPDATE SET payload = excluded.payload`,
		id, string(kind), string(payload), createdAt.UTC(),
	)
	return eris.Wrapf(err, "sqlite: put %s %s", kind, id)
}

func sqliteGet[T any](ctx context.Context, s *SQLite, kind Kind, id string) (*T, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM entities WHERE kind = ? AND id = ?`,
		string(kind), id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "%s %q", kind, id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get %s %s", kind, id)
	}

	var out T
	if err := json.Unmarshal([]byte(payload), &out); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal %s %s", kind, id)
	}
	return &out, nil
}

func sqliteList[T any](ctx context.Context, s *SQLite, kind Kind) ([]T, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT payload FROM entities WHERE kind = ? ORDER BY created_at, id`,
		string(kind),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list %s", kind)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrapf(err, "sqlite: scan %s", kind)
		}
		var v T
		if err := json.Unmarshal([]byte(payload), &v); err != nil {
			return nil, eris.Wrapf(err, "sqlite: unmarshal %s", kind)
		}
		out = append(out, v)
	}
	return out, eris.Wrapf(rows.Err(), "sqlite: list %s iterate", kind)
}

func (s *SQLite) updateContact(ctx context.Context, kind Kind, id, email, phone string) error {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM entities WHERE kind = ? AND id = ?`,
		string(kind), id,
	).Scan(&payload)
	if err == sql.ErrNoRows {
		return eris.Wrapf(ErrNotFound, "%s %q", kind, id)
	}
	if err != nil {
		return eris.Wrapf(err, "sqlite: load %s %s", kind, id)
	}

	patched, err := patchContact([]byte(payload), email, phone)
	if err != nil {
		return eris.Wrapf(err, "sqlite: patch %s %s", kind, id)
	}

	_, err = s.db.ExecContext(ctx,
		`UPDATE entities SET payload = ? WHERE kind = ? AND id = ?`,
		string(patched), string(kind), id,
	)
	return eris.Wrapf(err, "sqlite: update %s %s", kind, id)
}

// patchContact rewrites only the contact fields of an entity payload.
func patchContact(payload []byte, email, phone string) ([]byte, error) {
	var m map[string]any
	if err := json.Unmarshal(payload, &m); err != nil {
		return nil, err
	}
	if email != "" {
		m["email"] = email
	}
	if phone != "" {
		m["phone"] = phone
	}
	return json.Marshal(m)
}

func (s *SQLite) PutPropertyOwner(ctx context.Context, o *model.PropertyOwner) error {
	return s.put(ctx, KindPropertyOwner, o.ID, o.CreatedAt, o)
}

func (s *SQLite) GetPropertyOwner(ctx context.Context, id string) (*model.PropertyOwner, error) {
	return sqliteGet[model.PropertyOwner](ctx, s, KindPropertyOwner, id)
}

func (s *SQLite) ListPropertyOwners(ctx context.Context) ([]model.PropertyOwner, error) {
	return sqliteList[model.PropertyOwner](ctx, s, KindPropertyOwner)
}

func (s *SQLite) UpdatePropertyOwnerContact(ctx context.Context, id, email, phone string) error {
	return s.updateContact(ctx, KindPropertyOwner, id, email, phone)
}

func (s *SQLite) PutFranchise(ctx context.Context, f *model.FranchiseCompany) error {
	return s.put(ctx, KindFranchise, f.ID, f.CreatedAt, f)
}

func (s *SQLite) GetFranchise(ctx context.Context, id string) (*model.FranchiseCompany, error) {
	return sqliteGet[model.FranchiseCompany](ctx, s, KindFranchise, id)
}

func (s *SQLite) ListFranchises(ctx context.Context) ([]model.FranchiseCompany, error) {
	return sqliteList[model.FranchiseCompany](ctx, s, KindFranchise)
}

func (s *SQLite) UpdateFranchiseContact(ctx context.Context, id, email, phone string) error {
	return s.updateContact(ctx, KindFranchise, id, email, phone)
}

func (s *SQLite) PutEntrepreneur(ctx context.Context, e *model.Entrepreneur) error {
	return s.put(ctx, KindEntrepreneur, e.ID, e.CreatedAt, e)
}

func (s *SQLite) GetEntrepreneur(ctx context.Context, id string) (*model.Entrepreneur, error) {
	return sqliteGet[model.Entrepreneur](ctx, s, KindEntrepreneur, id)
}

func (s *SQLite) ListEntrepreneurs(ctx context.Context) ([]model.Entrepreneur, error) {
	return sqliteList[model.Entrepreneur](ctx, s, KindEntrepreneur)
}

func (s *SQLite) UpdateEntrepreneurContact(ctx context.Context, id, email, phone string) error {
	return s.updateContact(ctx, KindEntrepreneur, id, email, phone)
}

func (s *SQLite) Counts(ctx context.Context) (Counts, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT kind, COUNT(*) FROM entities GROUP BY kind`)
	if err != nil {
		return Counts{}, eris.Wrap(err, "sqlite: counts")
	}
	defer rows.Close()

	var c Counts
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return Counts{}, eris.Wrap(err, "sqlite: scan counts")
		}
		switch Kind(kind) {
		case KindPropertyOwner:
			c.PropertyOwners = n
		case KindFranchise:
			c.Franchises = n
		case KindEntrepreneur:
			c.Entrepreneurs = n
		}
	}
	return c, eris.Wrap(rows.Err(), "sqlite: counts iterate")
}

func (s *SQLite) ClearAll(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM entities`)
	return eris.Wrap(err, "sqlite: clear all")
}
