package quote

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/roofing-site/internal/content"
	"github.com/FACorreiaa/roofing-site/internal/domain/location"
	"github.com/FACorreiaa/roofing-site/internal/types"
)

// --- Mocks for Dependencies ---

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, q *types.QuoteRequest) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockRepository) Get(ctx context.Context, id uuid.UUID) (*types.QuoteRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.QuoteRequest), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context, filter types.QuoteFilter) ([]types.QuoteRequest, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]types.QuoteRequest), args.Error(1)
}

func (m *MockRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status types.QuoteStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishSubmitted(ctx context.Context, q *types.QuoteRequest) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	return m.Called().Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func newCatalogService(t *testing.T) location.Service {
	t.Helper()
	catalog, err := content.Default()
	require.NoError(t, err)
	return location.NewLocationService(content.NewStore(catalog, nil, newTestLogger()), newTestLogger())
}

func validParams() types.CreateQuoteParams {
	return types.CreateQuoteParams{
		Name:         "  Dana Whitfield ",
		Phone:        "(720) 555-0199",
		Email:        "dana@example.com",
		Address:      "12 Elm St",
		LocationSlug: "aurora",
		ServiceSlug:  "storm-damage",
		Message:      "Hail last week, and the gutters are bent.",
	}
}

func TestSubmit_Success(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	svc := NewQuoteService(repo, newCatalogService(t), pub, newTestLogger())
	fixed := time.Date(2026, 4, 2, 15, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	repo.On("Create", mock.Anything, mock.MatchedBy(func(q *types.QuoteRequest) bool {
		return q.Name == "Dana Whitfield" && q.Status == types.QuoteStatusNew
	})).Return(nil).Once()
	pub.On("PublishSubmitted", mock.Anything, mock.AnythingOfType("*types.QuoteRequest")).Return(nil).Once()

	q, err := svc.Submit(context.Background(), validParams())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, q.ID)
	assert.Equal(t, fixed, q.CreatedAt)
	assert.Equal(t, []string{"storm-damage", "gutters"}, q.DetectedServices)
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestSubmit_PublishFailureDoesNotFail(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	svc := NewQuoteService(repo, newCatalogService(t), pub, newTestLogger())

	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()
	pub.On("PublishSubmitted", mock.Anything, mock.Anything).Return(errors.New("broker down")).Once()

	q, err := svc.Submit(context.Background(), validParams())
	require.NoError(t, err)
	assert.NotNil(t, q)
	pub.AssertExpectations(t)
}

func TestSubmit_RepositoryError(t *testing.T) {
	repo := new(MockRepository)
	pub := new(MockPublisher)
	svc := NewQuoteService(repo, newCatalogService(t), pub, newTestLogger())

	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down")).Once()

	_, err := svc.Submit(context.Background(), validParams())
	require.Error(t, err)
	assert.False(t, errors.Is(err, types.ErrBadRequest))
	pub.AssertNotCalled(t, "PublishSubmitted", mock.Anything, mock.Anything)
}

func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*types.CreateQuoteParams)
		field  string
	}{
		{"missing name", func(p *types.CreateQuoteParams) { p.Name = "   " }, "name"},
		{"no contact", func(p *types.CreateQuoteParams) { p.Phone, p.Email = "", "" }, "phone"},
		{"bad email", func(p *types.CreateQuoteParams) { p.Email = "dana@" }, "email"},
		{"short phone", func(p *types.CreateQuoteParams) { p.Phone = "555" }, "phone"},
		{"unknown location", func(p *types.CreateQuoteParams) { p.LocationSlug = "atlantis" }, "location"},
		{"unknown service", func(p *types.CreateQuoteParams) { p.ServiceSlug = "pool-cleaning" }, "service"},
		{"long message", func(p *types.CreateQuoteParams) { p.Message = strings.Repeat("a", maxMessageLength+1) }, "message"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepository)
			svc := NewQuoteService(repo, newCatalogService(t), nil, newTestLogger())

			params := validParams()
			tt.mutate(&params)

			_, err := svc.Submit(context.Background(), params)
			require.ErrorIs(t, err, types.ErrBadRequest)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestSubmit_EmailOnlyAndNoSlugs(t *testing.T) {
	repo := new(MockRepository)
	svc := NewQuoteService(repo, newCatalogService(t), nil, newTestLogger())
	repo.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	q, err := svc.Submit(context.Background(), types.CreateQuoteParams{Name: "Lee", Email: "lee@example.com"})
	require.NoError(t, err)
	assert.Empty(t, q.DetectedServices)
}

func TestList_Limits(t *testing.T) {
	repo := new(MockRepository)
	svc := NewQuoteService(repo, newCatalogService(t), nil, newTestLogger())

	repo.On("List", mock.Anything, types.QuoteFilter{Limit: defaultListLimit}).Return([]types.QuoteRequest{}, nil).Once()
	repo.On("List", mock.Anything, types.QuoteFilter{Limit: maxListLimit, Status: types.QuoteStatusNew}).Return([]types.QuoteRequest{{Name: "A"}}, nil).Once()

	_, err := svc.List(context.Background(), types.QuoteFilter{})
	require.NoError(t, err)

	got, err := svc.List(context.Background(), types.QuoteFilter{Limit: 10_000, Status: types.QuoteStatusNew})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	_, err = svc.List(context.Background(), types.QuoteFilter{Status: "archived"})
	require.ErrorIs(t, err, types.ErrBadRequest)

	repo.AssertExpectations(t)
}

func TestUpdateStatus(t *testing.T) {
	repo := new(MockRepository)
	svc := NewQuoteService(repo, newCatalogService(t), nil, newTestLogger())
	id := uuid.New()

	repo.On("UpdateStatus", mock.Anything, id, types.QuoteStatusContacted).Return(nil).Once()
	repo.On("Get", mock.Anything, id).Return(&types.QuoteRequest{ID: id, Status: types.QuoteStatusContacted}, nil).Once()

	q, err := svc.UpdateStatus(context.Background(), id, types.QuoteStatusContacted)
	require.NoError(t, err)
	assert.Equal(t, types.QuoteStatusContacted, q.Status)

	_, err = svc.UpdateStatus(context.Background(), id, "lost")
	require.ErrorIs(t, err, types.ErrBadRequest)

	_, err = svc.UpdateStatus(context.Background(), uuid.Nil, types.QuoteStatusClosed)
	require.ErrorIs(t, err, types.ErrBadRequest)

	repo.AssertExpectations(t)
}

func TestResetClassifier(t *testing.T) {
	svc := NewQuoteService(NewMemoryRepository(), newCatalogService(t), nil, newTestLogger())

	first, err := svc.currentClassifier(context.Background())
	require.NoError(t, err)
	again, err := svc.currentClassifier(context.Background())
	require.NoError(t, err)
	assert.Same(t, first, again)

	svc.ResetClassifier(nil)
	rebuilt, err := svc.currentClassifier(context.Background())
	require.NoError(t, err)
	assert.NotSame(t, first, rebuilt)
}
