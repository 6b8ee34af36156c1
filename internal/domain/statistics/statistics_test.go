package statistics

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/roofing-site/internal/domain/quote"
	"github.com/FACorreiaa/roofing-site/internal/types"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CountByStatus(ctx context.Context, since time.Time) (map[types.QuoteStatus]int64, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[types.QuoteStatus]int64), args.Error(1)
}

func (m *MockRepository) CountByLocation(ctx context.Context, since time.Time) ([]types.LocationCount, error) {
	args := m.Called(ctx, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.LocationCount), args.Error(1)
}

func TestPostgresRepository_CountByStatus(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	since := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT status, COUNT(*) FROM quote_requests WHERE created_at >= $1 GROUP BY status")).
		WithArgs(since).
		WillReturnRows(pgxmock.NewRows([]string{"status", "count"}).
			AddRow("new", int64(3)).
			AddRow("contacted", int64(1)))

	repo := NewPostgresRepository(mockPool, newTestLogger())
	counts, err := repo.CountByStatus(context.Background(), since)
	require.NoError(t, err)
	assert.Equal(t, map[types.QuoteStatus]int64{types.QuoteStatusNew: 3, types.QuoteStatusContacted: 1}, counts)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_CountByLocation(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery(regexp.QuoteMeta("SELECT COALESCE(location_slug, ''), COUNT(*) FROM quote_requests GROUP BY COALESCE(location_slug, '') ORDER BY COUNT(*) DESC, 1")).
		WillReturnRows(pgxmock.NewRows([]string{"location_slug", "count"}).
			AddRow("denver", int64(5)).
			AddRow("", int64(2)))

	repo := NewPostgresRepository(mockPool, newTestLogger())
	counts, err := repo.CountByLocation(context.Background(), time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []types.LocationCount{{LocationSlug: "denver", Count: 5}, {LocationSlug: "", Count: 2}}, counts)
	require.NoError(t, mockPool.ExpectationsWereMet())
}

func TestPostgresRepository_QueryError(t *testing.T) {
	mockPool, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mockPool.Close()

	mockPool.ExpectQuery("SELECT status").WillReturnError(errors.New("connection reset"))

	_, err = NewPostgresRepository(mockPool, newTestLogger()).CountByStatus(context.Background(), time.Time{})
	require.ErrorContains(t, err, "connection reset")
}

func seededQuotes(t *testing.T) *quote.MemoryRepository {
	t.Helper()
	repo := quote.NewMemoryRepository()
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
	seed := []struct {
		slug   string
		status types.QuoteStatus
		age    time.Duration
	}{
		{"denver", types.QuoteStatusNew, 0},
		{"denver", types.QuoteStatusContacted, time.Hour},
		{"boulder", types.QuoteStatusNew, 2 * time.Hour},
		{"", types.QuoteStatusClosed, 72 * time.Hour},
	}
	for _, s := range seed {
		require.NoError(t, repo.Create(context.Background(), &types.QuoteRequest{
			ID:           uuid.New(),
			Name:         "Lead",
			LocationSlug: s.slug,
			Status:       s.status,
			CreatedAt:    base.Add(-s.age),
		}))
	}
	return repo
}

func TestListingRepository(t *testing.T) {
	repo := NewListingRepository(seededQuotes(t))
	ctx := context.Background()

	byStatus, err := repo.CountByStatus(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), byStatus[types.QuoteStatusNew])
	assert.Equal(t, int64(1), byStatus[types.QuoteStatusClosed])

	byLocation, err := repo.CountByLocation(ctx, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, []types.LocationCount{
		{LocationSlug: "denver", Count: 2},
		{LocationSlug: "", Count: 1},
		{LocationSlug: "boulder", Count: 1},
	}, byLocation)

	recent, err := repo.CountByLocation(ctx, time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, recent, 2)
}

func TestService_LeadStatistics(t *testing.T) {
	ctx := context.Background()
	since := time.Now().Add(-24 * time.Hour)

	t.Run("sums status counts", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountByStatus", mock.Anything, since).
			Return(map[types.QuoteStatus]int64{types.QuoteStatusNew: 4, types.QuoteStatusClosed: 2}, nil)
		repo.On("CountByLocation", mock.Anything, since).
			Return([]types.LocationCount{{LocationSlug: "aurora", Count: 6}}, nil)

		stats, err := NewService(repo, newTestLogger()).LeadStatistics(ctx, since)
		require.NoError(t, err)
		assert.Equal(t, int64(6), stats.Total)
		assert.Equal(t, since, stats.Since)
		assert.Len(t, stats.ByLocation, 1)
		repo.AssertExpectations(t)
	})

	t.Run("empty location list is not nil", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountByStatus", mock.Anything, mock.Anything).Return(map[types.QuoteStatus]int64{}, nil)
		repo.On("CountByLocation", mock.Anything, mock.Anything).Return(nil, nil)

		stats, err := NewService(repo, newTestLogger()).LeadStatistics(ctx, time.Time{})
		require.NoError(t, err)
		assert.NotNil(t, stats.ByLocation)
		assert.Zero(t, stats.Total)
	})

	t.Run("repository error", func(t *testing.T) {
		repo := new(MockRepository)
		repo.On("CountByStatus", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))
		repo.On("CountByLocation", mock.Anything, mock.Anything).Return([]types.LocationCount{}, nil).Maybe()

		_, err := NewService(repo, newTestLogger()).LeadStatistics(ctx, since)
		require.ErrorContains(t, err, "timeout")
	})

	t.Run("future since", func(t *testing.T) {
		_, err := NewService(new(MockRepository), newTestLogger()).LeadStatistics(ctx, time.Now().Add(time.Hour))
		require.ErrorIs(t, err, types.ErrBadRequest)
	})
}

func TestStatisticsE2E(t *testing.T) {
	logger := newTestLogger()
	svc := NewService(NewListingRepository(seededQuotes(t)), logger)

	mux := http.NewServeMux()
	mux.Handle(NewServiceHandler(NewHandler(svc, logger)))
	server := httptest.NewServer(mux)
	defer server.Close()

	client := NewClient(server.Client(), server.URL)
	resp, err := client.GetLeadStatistics(context.Background(), connect.NewRequest(&GetLeadStatisticsRequest{}))
	require.NoError(t, err)
	assert.Equal(t, int64(4), resp.Msg.Statistics.Total)
	assert.Equal(t, "denver", resp.Msg.Statistics.ByLocation[0].LocationSlug)

	future := time.Now().Add(time.Hour)
	_, err = client.GetLeadStatistics(context.Background(), connect.NewRequest(&GetLeadStatisticsRequest{Since: &future}))
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}
