package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yash031299/ReviewApplication-sub000/internal/domain"
	"github.com/yash031299/ReviewApplication-sub000/internal/event"
	apperrors "github.com/yash031299/ReviewApplication-sub000/pkg/errors"
	"github.com/yash031299/ReviewApplication-sub000/pkg/pagination"
)

// --- Mock ReviewStore ---

type mockReviewStore struct {
	mock.Mock
}

func (m *mockReviewStore) GetPage(ctx context.Context, page, pageSize int) ([]domain.Review, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewStore) GetFilteredPage(ctx context.Context, spec *domain.FilterSpec, page, pageSize int) ([]domain.Review, error) {
	args := m.Called(ctx, spec, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewStore) GetFilteredCount(ctx context.Context, spec *domain.FilterSpec) (int, error) {
	args := m.Called(ctx, spec)
	return args.Int(0), args.Error(1)
}

func (m *mockReviewStore) GetByKeywords(ctx context.Context, keywords []string) ([]domain.Review, error) {
	args := m.Called(ctx, keywords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewStore) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *mockReviewStore) GetAll(ctx context.Context) ([]domain.Review, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Review), args.Error(1)
}

func (m *mockReviewStore) Save(ctx context.Context, reviews []*domain.Review) error {
	args := m.Called(ctx, reviews)
	return args.Error(0)
}

func (m *mockReviewStore) AverageRating(ctx context.Context) (float64, error) {
	args := m.Called(ctx)
	return args.Get(0).(float64), args.Error(1)
}

func (m *mockReviewStore) RatingDistribution(ctx context.Context) (map[int]int, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int]int), args.Error(1)
}

func (m *mockReviewStore) MonthlyAverage(ctx context.Context) (map[string]float64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]float64), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(store *mockReviewStore) *ReviewService {
	logger := newTestLogger()
	// No Kafka producer configured; event publishing is a no-op.
	return NewReviewService(store, event.NewProducer(nil, logger), logger)
}

func intPtr(n int) *int { return &n }

// --- Tests ---

func TestReviewService_ListReviews(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	spec, err := domain.NewFilterBuilder().Rating(5).Build()
	require.NoError(t, err)
	params := pagination.Params{Page: 2, PageSize: 10}

	reviews := []domain.Review{{ID: 11}, {ID: 12}}
	store.On("GetFilteredPage", mock.Anything, spec, 2, 10).Return(reviews, nil)
	store.On("GetFilteredCount", mock.Anything, spec).Return(12, nil)

	result, err := svc.ListReviews(context.Background(), spec, params)
	require.NoError(t, err)
	assert.Equal(t, reviews, result.Data)
	assert.Equal(t, 12, result.TotalCount)
	assert.Equal(t, 2, result.Page)
	assert.Equal(t, 2, result.TotalPages)
	store.AssertExpectations(t)
}

func TestReviewService_ListReviews_StoreError(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	storeErr := errors.New("connection reset")
	store.On("GetFilteredPage", mock.Anything, (*domain.FilterSpec)(nil), 1, 20).Return(nil, storeErr)

	result, err := svc.ListReviews(context.Background(), nil, pagination.DefaultParams())
	assert.Nil(t, result)
	assert.ErrorIs(t, err, storeErr)
	store.AssertExpectations(t)
}

func TestReviewService_ListReviews_CountError(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	store.On("GetFilteredPage", mock.Anything, (*domain.FilterSpec)(nil), 1, 20).Return([]domain.Review{}, nil)
	store.On("GetFilteredCount", mock.Anything, (*domain.FilterSpec)(nil)).Return(0, errors.New("timeout"))

	result, err := svc.ListReviews(context.Background(), nil, pagination.DefaultParams())
	assert.Nil(t, result)
	require.Error(t, err)
	store.AssertExpectations(t)
}

func TestReviewService_SearchReviews(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	reviews := []domain.Review{{ID: 1}}
	store.On("GetByKeywords", mock.Anything, []string{"battery"}).Return(reviews, nil)

	got, err := svc.SearchReviews(context.Background(), []string{"battery"})
	require.NoError(t, err)
	assert.Equal(t, reviews, got)
	store.AssertExpectations(t)
}

func TestReviewService_GetReview(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	review := &domain.Review{ID: 7}
	store.On("GetByID", mock.Anything, int64(7)).Return(review, nil)

	got, err := svc.GetReview(context.Background(), 7)
	require.NoError(t, err)
	assert.Equal(t, review, got)
	store.AssertExpectations(t)
}

func TestReviewService_GetReview_NotFound(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	store.On("GetByID", mock.Anything, int64(99)).Return(nil, nil)

	got, err := svc.GetReview(context.Background(), 99)
	assert.Nil(t, got)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	store.AssertExpectations(t)
}

func TestReviewService_SaveReviews(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	reviews := []*domain.Review{
		{ID: 1, Rating: intPtr(5)},
		{ID: 2},
	}
	store.On("Save", mock.Anything, reviews).Return(nil)

	ids, err := svc.SaveReviews(context.Background(), reviews)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2}, ids)
	store.AssertExpectations(t)
}

func TestReviewService_SaveReviews_NilElement(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	ids, err := svc.SaveReviews(context.Background(), []*domain.Review{{ID: 1}, nil})
	assert.Nil(t, ids)
	assert.ErrorIs(t, err, apperrors.ErrNilReview)
	store.AssertNotCalled(t, "Save")
}

func TestReviewService_SaveReviews_SkipsInvalid(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	valid := &domain.Review{ID: 3, Rating: intPtr(4)}
	batch := []*domain.Review{
		{ID: 0},                       // missing id
		{ID: 1, Rating: intPtr(0)},    // rating below range
		{ID: 2, Rating: intPtr(6)},    // rating above range
		valid,
	}
	store.On("Save", mock.Anything, []*domain.Review{valid}).Return(nil)

	ids, err := svc.SaveReviews(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, []int64{3}, ids)
	store.AssertExpectations(t)
}

func TestReviewService_SaveReviews_StoreError(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	storeErr := errors.New("disk full")
	store.On("Save", mock.Anything, mock.Anything).Return(storeErr)

	ids, err := svc.SaveReviews(context.Background(), []*domain.Review{{ID: 1}})
	assert.Nil(t, ids)
	assert.ErrorIs(t, err, storeErr)
	store.AssertExpectations(t)
}

func TestReviewService_Stats(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	store.On("GetFilteredCount", mock.Anything, (*domain.FilterSpec)(nil)).Return(4, nil)
	store.On("AverageRating", mock.Anything).Return(3.5, nil)
	store.On("RatingDistribution", mock.Anything).Return(map[int]int{5: 2, 2: 2}, nil)
	store.On("MonthlyAverage", mock.Anything).Return(map[string]float64{"2024-01": 3.5}, nil)

	stats, err := svc.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, stats.TotalCount)
	assert.InDelta(t, 3.5, stats.AverageRating, 1e-9)
	assert.Equal(t, map[int]int{5: 2, 2: 2}, stats.Distribution)
	assert.Equal(t, map[string]float64{"2024-01": 3.5}, stats.MonthlyAverage)
	store.AssertExpectations(t)
}

func TestReviewService_Stats_Error(t *testing.T) {
	store := new(mockReviewStore)
	svc := newTestService(store)

	store.On("GetFilteredCount", mock.Anything, (*domain.FilterSpec)(nil)).Return(0, errors.New("timeout"))

	stats, err := svc.Stats(context.Background())
	assert.Nil(t, stats)
	require.Error(t, err)
	store.AssertExpectations(t)
}
