package registry

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/venturelink/match-engine/internal/model"
)

func newMockPostgres(t *testing.T) (*Postgres, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return &Postgres{pool: mock}, mock
}

func TestPostgresGetNotFound(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT payload FROM entities WHERE kind = \$1 AND id = \$2`).
		WithArgs("property_owner", "nope").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetPropertyOwner(context.Background(), "nope")
	assert.True(t, eris.Is(err, ErrNotFound))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresPutPropertyOwner(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(`INSERT INTO entities`).
		WithArgs("own-1", "property_owner", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err := s.PutPropertyOwner(context.Background(), &model.PropertyOwner{ID: "own-1", Name: "Ravi"})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresGetFranchise(t *testing.T) {
	s, mock := newMockPostgres(t)

	payload := []byte(`{"id":"fr-1","company_name":"ChaiCo","franchise_requirements":{"category":"food_beverage"}}`)
	mock.ExpectQuery(`SELECT payload FROM entities WHERE kind = \$1 AND id = \$2`).
		WithArgs("franchise", "fr-1").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).AddRow(payload))

	got, err := s.GetFranchise(context.Background(), "fr-1")
	require.NoError(t, err)
	assert.Equal(t, "ChaiCo", got.CompanyName)
	assert.Equal(t, "food_beverage", got.Requirements["category"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresListEntrepreneurs(t *testing.T) {
	s, mock := newMockPostgres(t)

	rows := pgxmock.NewRows([]string{"payload"}).
		AddRow([]byte(`{"id":"e1","entrepreneur_type":"investor","budget":500000}`)).
		AddRow([]byte(`{"id":"e2","entrepreneur_type":"idea_owner","budget":250000}`))
	mock.ExpectQuery(`SELECT payload FROM entities WHERE kind = \$1 ORDER BY created_at, id`).
		WithArgs("entrepreneur").
		WillReturnRows(rows)

	got, err := s.ListEntrepreneurs(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.TypeInvestor, got[0].Type)
	assert.Equal(t, 250000.0, got[1].Budget)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresUpdateContact(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT payload FROM entities WHERE kind = \$1 AND id = \$2`).
		WithArgs("entrepreneur", "e1").
		WillReturnRows(pgxmock.NewRows([]string{"payload"}).
			AddRow([]byte(`{"id":"e1","email":"old@x.in","phone":"123"}`)))
	mock.ExpectExec(`UPDATE entities SET payload = \$1 WHERE kind = \$2 AND id = \$3`).
		WithArgs(pgxmock.AnyArg(), "entrepreneur", "e1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.UpdateEntrepreneurContact(context.Background(), "e1", "new@x.in", "")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresCounts(t *testing.T) {
	s, mock := newMockPostgres(t)

	rows := pgxmock.NewRows([]string{"kind", "count"}).
		AddRow("property_owner", 3).
		AddRow("franchise", 2).
		AddRow("entrepreneur", 5)
	mock.ExpectQuery(`SELECT kind, COUNT\(\*\) FROM entities GROUP BY kind`).
		WillReturnRows(rows)

	c, err := s.Counts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Counts{PropertyOwners: 3, Franchises: 2, Entrepreneurs: 5}, c)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresClearAll(t *testing.T) {
	s, mock := newMockPostgres(t)

	mock.ExpectExec(`DELETE FROM entities`).
		WillReturnResult(pgxmock.NewResult("DELETE", 7))

	require.NoError(t, s.ClearAll(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
