package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yash031299/ReviewApplication-sub000/internal/domain"
	"github.com/yash031299/ReviewApplication-sub000/internal/event"
	"github.com/yash031299/ReviewApplication-sub000/internal/repository"
	apperrors "github.com/yash031299/ReviewApplication-sub000/pkg/errors"
	"github.com/yash031299/ReviewApplication-sub000/pkg/pagination"
)

// ReviewService implements the business logic around the review store. The
// store itself never validates business rules; rating bounds are enforced
// here before a batch reaches either backend.
type ReviewService struct {
	store    repository.ReviewStore
	producer *event.Producer
	logger   *slog.Logger
}

// NewReviewService creates a new review service. producer may be nil when
// events are disabled.
func NewReviewService(store repository.ReviewStore, producer *event.Producer, logger *slog.Logger) *ReviewService {
	return &ReviewService{
		store:    store,
		producer: producer,
		logger:   logger,
	}
}

// ListReviews returns one page of reviews matching spec together with the
// unpaginated match count. A nil spec lists everything in id order.
func (s *ReviewService) ListReviews(ctx context.Context, spec *domain.FilterSpec, params pagination.Params) (*pagination.Result[domain.Review], error) {
	reviews, err := s.store.GetFilteredPage(ctx, spec, params.Page, params.PageSize)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	total, err := s.store.GetFilteredCount(ctx, spec)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	result := pagination.NewResult(reviews, total, params)
	return &result, nil
}

// SearchReviews returns reviews whose title or body contains any of the
// keywords.
func (s *ReviewService) SearchReviews(ctx context.Context, keywords []string) ([]domain.Review, error) {
	reviews, err := s.store.GetByKeywords(ctx, keywords)
	if err != nil {
		return nil, fmt.Errorf("search reviews: %w", err)
	}
	return reviews, nil
}

// GetReview returns a single review or a not-found error for the HTTP layer.
func (s *ReviewService) GetReview(ctx context.Context, id int64) (*domain.Review, error) {
	review, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get review: %w", err)
	}
	if review == nil {
		return nil, apperrors.NotFound("review", id)
	}
	return review, nil
}

// SaveReviews validates and upserts a batch. Reviews with an out-of-range
// rating or a missing id are skipped, not fatal; a nil element is a
// programmer error and fails the whole batch. Returns the ids actually
// handed to the store.
func (s *ReviewService) SaveReviews(ctx context.Context, reviews []*domain.Review) ([]int64, error) {
	for _, r := range reviews {
		if r == nil {
			return nil, apperrors.ErrNilReview
		}
	}

	accepted := make([]*domain.Review, 0, len(reviews))
	skipped := 0
	for _, r := range reviews {
		if !r.Valid() {
			skipped++
			continue
		}
		if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
			skipped++
			continue
		}
		accepted = append(accepted, r)
	}

	if err := s.store.Save(ctx, accepted); err != nil {
		return nil, fmt.Errorf("save reviews: %w", err)
	}

	ids := make([]int64, 0, len(accepted))
	for _, r := range accepted {
		ids = append(ids, r.ID)
	}

	if skipped > 0 {
		s.logger.WarnContext(ctx, "skipped invalid reviews in batch",
			slog.Int("skipped", skipped),
			slog.Int("saved", len(ids)),
		)
	}

	s.logger.InfoContext(ctx, "reviews saved",
		slog.Int("count", len(ids)),
	)

	if err := s.producer.PublishReviewsSaved(ctx, ids); err != nil {
		// Events are best effort; the write already succeeded.
		s.logger.WarnContext(ctx, "failed to publish reviews saved event",
			slog.String("error", err.Error()),
		)
	}

	return ids, nil
}

// Stats assembles the aggregate snapshot: total count, average rating,
// rating distribution, and monthly averages. Nothing is cached; every call
// reflects current store state.
func (s *ReviewService) Stats(ctx context.Context) (*domain.Stats, error) {
	total, err := s.store.GetFilteredCount(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	avg, err := s.store.AverageRating(ctx)
	if err != nil {
		return nil, fmt.Errorf("average rating: %w", err)
	}

	dist, err := s.store.RatingDistribution(ctx)
	if err != nil {
		return nil, fmt.Errorf("rating distribution: %w", err)
	}

	monthly, err := s.store.MonthlyAverage(ctx)
	if err != nil {
		return nil, fmt.Errorf("monthly average: %w", err)
	}

	return &domain.Stats{
		TotalCount:     total,
		AverageRating:  avg,
		Distribution:   dist,
		MonthlyAverage: monthly,
	}, nil
}
