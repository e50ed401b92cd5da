package registry

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/venturelink/match-engine/internal/model"
)

// Pool is the subset of pgxpool.Pool the registry uses; pgxmock satisfies it.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Ping(ctx context.Context) error
	Close()
}

// Postgres implements Registry using pgxpool. Entities are stored as JSONB
// payloads partitioned by kind.
type Postgres struct {
	pool Pool
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// NewPostgres creates a Postgres registry with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*Postgres, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &Postgres{pool: pool}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS entities (
	id         TEXT NOT NULL,
	kind       TEXT NOT NULL,
	payload    JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	PRIMARY KEY (kind, id)
);

CREATE INDEX IF NOT EXISTS idx_entities_kind_created ON entities(kind, created_at);
`

func (s *Postgres) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *Postgres) Close() error {
	s.pool.Close()
	return nil
}

func (s *Postgres) put(ctx context.Context, kind Kind, id string, createdAt time.Time, v any) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return eris.Wrapf(err, "postgres: marshal %s", kind)
	}
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err = s.pool.Exec(ctx,
		`INSERT INTO entities (id, kind, payload, created_at) VALUES ($1, $2, $3, $4)
		 ON CONFLICT (kind, id) DO UPDATE SET payload = EXCLUDED.payload`,
		id, string(kind), payload, createdAt.UTC(),
	)
	return eris.Wrapf(err, "postgres: put %s %s", kind, id)
}

func pgGet[T any](ctx context.Context, s *Postgres, kind Kind, id string) (*T, error) {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM entities WHERE kind = $1 AND id = $2`,
		string(kind), id,
	).Scan(&payload)
	if err == pgx.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "%s %q", kind, id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get %s %s", kind, id)
	}

	var out T
	if err := json.Unmarshal(payload, &out); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal %s %s", kind, id)
	}
	return &out, nil
}

func pgList[T any](ctx context.Context, s *Postgres, kind Kind) ([]T, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT payload FROM entities WHERE kind = $1 ORDER BY created_at, id`,
		string(kind),
	)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list %s", kind)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, eris.Wrapf(err, "postgres: scan %s", kind)
		}
		var v T
		if err := json.Unmarshal(payload, &v); err != nil {
			return nil, eris.Wrapf(err, "postgres: unmarshal %s", kind)
		}
		out = append(out, v)
	}
	return out, eris.Wrapf(rows.Err(), "postgres: list %s iterate", kind)
}

func (s *Postgres) updateContact(ctx context.Context, kind Kind, id, email, phone string) error {
	var payload []byte
	err := s.pool.QueryRow(ctx,
		`SELECT payload FROM entities WHERE kind = $1 AND id = $2`,
		string(kind), id,
	).Scan(&payload)
	if err == pgx.ErrNoRows {
		return eris.Wrapf(ErrNotFound, "%s %q", kind, id)
	}
	if err != nil {
		return eris.Wrapf(err, "postgres: load %s %s", kind, id)
	}

	patched, err := patchContact(payload, email, phone)
	if err != nil {
		return eris.Wrapf(err, "postgres: patch %s %s", kind, id)
	}

	_, err = s.pool.Exec(ctx,
		`UPDATE entities SET payload = $1 WHERE kind = $2 AND id = $3`,
		patched, string(kind), id,
	)
	return eris.Wrapf(err, "postgres: update %s %s", kind, id)
}

func (s *Postgres) PutPropertyOwner(ctx context.Context, o *model.PropertyOwner) error {
	return s.put(ctx, KindPropertyOwner, o.ID, o.CreatedAt, o)
}

func (s *Postgres) GetPropertyOwner(ctx context.Context, id string) (*model.PropertyOwner, error) {
	return pgGet[model.PropertyOwner](ctx, s, KindPropertyOwner, id)
}

func (s *Postgres) ListPropertyOwners(ctx context.Context) ([]model.PropertyOwner, error) {
	return pgList[model.PropertyOwner](ctx, s, KindPropertyOwner)
}

func (s *Postgres) UpdatePropertyOwnerContact(ctx context.Context, id, email, phone string) error {
	return s.updateContact(ctx, KindPropertyOwner, id, email, phone)
}

func (s *Postgres) PutFranchise(ctx context.Context, f *model.FranchiseCompany) error {
	return s.put(ctx, KindFranchise, f.ID, f.CreatedAt, f)
}

func (s *Postgres) GetFranchise(ctx context.Context, id string) (*model.FranchiseCompany, error) {
	return pgGet[model.FranchiseCompany](ctx, s, KindFranchise, id)
}

func (s *Postgres) ListFranchises(ctx context.Context) ([]model.FranchiseCompany, error) {
	return pgList[model.FranchiseCompany](ctx, s, KindFranchise)
}

func (s *Postgres) UpdateFranchiseContact(ctx context.Context, id, email, phone string) error {
	return s.updateContact(ctx, KindFranchise, id, email, phone)
}

func (s *Postgres) PutEntrepreneur(ctx context.Context, e *model.Entrepreneur) error {
	return s.put(ctx, KindEntrepreneur, e.ID, e.CreatedAt, e)
}

func (s *Postgres) GetEntrepreneur(ctx context.Context, id string) (*model.Entrepreneur, error) {
	return pgGet[model.Entrepreneur](ctx, s, KindEntrepreneur, id)
}

func (s *Postgres) ListEntrepreneurs(ctx context.Context) ([]model.Entrepreneur, error) {
	return pgList[model.Entrepreneur](ctx, s, KindEntrepreneur)
}

func (s *Postgres) UpdateEntrepreneurContact(ctx context.Context, id, email, phone string) error {
	return s.updateContact(ctx, KindEntrepreneur, id, email, phone)
}

func (s *Postgres) Counts(ctx context.Context) (Counts, error) {
	rows, err := s.pool.Query(ctx, `SELECT kind, COUNT(*) FROM entities GROUP BY kind`)
	if err != nil {
		return Counts{}, eris.Wrap(err, "postgres: counts")
	}
	defer rows.Close()

	var c Counts
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return Counts{}, eris.Wrap(err, "postgres: scan counts")
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
	return c, eris.Wrap(rows.Err(), "postgres: counts iterate")
}

func (s *Postgres) ClearAll(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM entities`)
	return eris.Wrap(err, "postgres: clear all")
}
