package quote

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/roofing-site/internal/types"
)

var quoteRowColumns = []string{
	"id", "name", "phone", "email", "address", "location_slug",
	"service_slug", "message", "detected_services", "status", "created_at",
}

func newMockRepo(t *testing.T) (*PostgresRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mockPool.Close)
	return NewPostgresRepository(mockPool, newTestLogger()), mockPool
}

func TestPostgresRepository_Create(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	q := &types.QuoteRequest{
		ID:           uuid.New(),
		Name:         "Dana",
		Phone:        "7205550199",
		LocationSlug: "aurora",
		Status:       types.QuoteStatusNew,
		CreatedAt:    time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC),
	}

	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO quote_requests")).
		WithArgs(q.ID, "Dana", "7205550199", "", "", "aurora", "", "", []string{}, "new", q.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), q))
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_CreateError(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO quote_requests")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), &types.QuoteRequest{ID: uuid.New()})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection reset")
	assert.NotErrorIs(t, err, types.ErrConflict)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_CreateDuplicate(t *testing.T) {
	repo, mockPool := newMockRepo(t)

	mockPool.ExpectExec(regexp.QuoteMeta("INSERT INTO quote_requests")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(),
			pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &types.QuoteRequest{ID: uuid.New()})
	require.ErrorIs(t, err, types.ErrConflict)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_ListFilters(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	id := uuid.New()
	created := time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)

	rows := pgxmock.NewRows(quoteRowColumns).
		AddRow(id, "Dana", "7205550199", "", "", "aurora", "gutters", "bent gutters", []string{"gutters"}, "new", created)

	mockPool.ExpectQuery(`SELECT (.+) FROM quote_requests WHERE location_slug = \$1 AND status = \$2 ORDER BY created_at DESC LIMIT 10`).
		WithArgs("aurora", "new").
		WillReturnRows(rows)

	quotes, err := repo.List(context.Background(), types.QuoteFilter{
		LocationSlug: "aurora",
		Status:       types.QuoteStatusNew,
		Limit:        10,
	})
	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.Equal(t, id, quotes[0].ID)
	assert.Equal(t, types.QuoteStatusNew, quotes[0].Status)
	assert.Equal(t, []string{"gutters"}, quotes[0].DetectedServices)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_ListSince(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	since := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	mockPool.ExpectQuery(`SELECT (.+) FROM quote_requests WHERE created_at >= \$1 ORDER BY created_at DESC`).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows(quoteRowColumns))

	quotes, err := repo.List(context.Background(), types.QuoteFilter{Since: since})
	require.NoError(t, err)
	assert.Empty(t, quotes)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_GetNotFound(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	id := uuid.New()

	// squirrel renders driver.Valuer arguments, so the uuid arrives as a string.
	mockPool.ExpectQuery(`SELECT (.+) FROM quote_requests WHERE id = \$1`).
		WithArgs(id.String()).
		WillReturnRows(pgxmock.NewRows(quoteRowColumns))

	_, err := repo.Get(context.Background(), id)
	require.ErrorIs(t, err, types.ErrNotFound)
}

func TestPostgresRepository_UpdateStatus(t *testing.T) {
	repo, mockPool := newMockRepo(t)
	id := uuid.New()

	mockPool.ExpectExec(regexp.QuoteMeta("UPDATE quote_requests SET status = $1 WHERE id = $2")).
		WithArgs("contacted", id.String()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mockPool.ExpectExec(regexp.QuoteMeta("UPDATE quote_requests SET status = $1 WHERE id = $2")).
		WithArgs("closed", id.String()).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	require.NoError(t, repo.UpdateStatus(context.Background(), id, types.QuoteStatusContacted))
	require.ErrorIs(t, repo.UpdateStatus(context.Background(), id, types.QuoteStatusClosed), types.ErrNotFound)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestMemoryRepository(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()
	base := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)

	for i, slug := range []string{"denver", "aurora", "denver"} {
		require.NoError(t, repo.Create(ctx, &types.QuoteRequest{
			ID:           uuid.New(),
			Name:         slug,
			LocationSlug: slug,
			Status:       types.QuoteStatusNew,
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}))
	}

	all, err := repo.List(ctx, types.QuoteFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[2].CreatedAt))

	denver, err := repo.List(ctx, types.QuoteFilter{LocationSlug: "denver", Limit: 1})
	require.NoError(t, err)
	require.Len(t, denver, 1)
	assert.Equal(t, base.Add(2*time.Hour), denver[0].CreatedAt)

	recent, err := repo.List(ctx, types.QuoteFilter{Since: base.Add(time.Hour)})
	require.NoError(t, err)
	assert.Len(t, recent, 2)

	require.NoError(t, repo.UpdateStatus(ctx, all[0].ID, types.QuoteStatusClosed))
	got, err := repo.Get(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, types.QuoteStatusClosed, got.Status)

	closed, err := repo.List(ctx, types.QuoteFilter{Status: types.QuoteStatusClosed})
	require.NoError(t, err)
	assert.Len(t, closed, 1)

	err = repo.Create(ctx, got)
	require.ErrorIs(t, err, types.ErrConflict)

	_, err = repo.Get(ctx, uuid.New())
	require.ErrorIs(t, err, types.ErrNotFound)
	require.ErrorIs(t, repo.UpdateStatus(ctx, uuid.New(), types.QuoteStatusClosed), types.ErrNotFound)
}
