package repository

import (
	"context"

	"github.com/yash031299/ReviewApplication-sub000/internal/domain"
)

// ReviewStore is the query engine contract implemented by both backends.
// For any dataset and any filter, the in-memory and PostgreSQL
// implementations return the same reviews in the same order.
//
// Lookup misses and out-of-range pages are not errors: they yield a nil
// review or an empty page. Errors are reserved for backing-store failures
// and programmer mistakes (a nil review inside a Save batch).
type ReviewStore interface {
	// GetPage returns one page of all reviews ordered by id ascending.
	// page is 1-based; page <= 0 reads page 1; pageSize <= 0 or a page
	// past the end yields an empty result.
	GetPage(ctx context.Context, page, pageSize int) ([]domain.Review, error)

	// GetFilteredPage returns one page of the reviews matching spec,
	// sorted per the spec's sort flags with id ascending as the final
	// tie-break. A nil spec matches everything. Pagination follows the
	// same rules as GetPage and is applied after filtering and sorting.
	GetFilteredPage(ctx context.Context, spec *domain.FilterSpec, page, pageSize int) ([]domain.Review, error)

	// GetFilteredCount returns how many reviews match spec, unpaginated.
	GetFilteredCount(ctx context.Context, spec *domain.FilterSpec) (int, error)

	// GetByKeywords returns reviews whose title+body contains any of the
	// non-blank keywords, case-insensitively, ordered by id ascending.
	// An empty or all-blank keyword list yields an empty result.
	GetByKeywords(ctx context.Context, keywords []string) ([]domain.Review, error)

	// GetByID returns the review with the given id, or nil when absent.
	GetByID(ctx context.Context, id int64) (*domain.Review, error)

	// GetAll returns every stored review. Callers must not rely on a
	// particular order from this call.
	GetAll(ctx context.Context) ([]domain.Review, error)

	// Save upserts reviews by id. Reviews without a positive id are
	// skipped silently; a nil element anywhere in the batch fails the
	// whole call with apperrors.ErrNilReview.
	Save(ctx context.Context, reviews []*domain.Review) error

	// AverageRating returns the mean of all present ratings, or 0 when
	// no review carries a rating.
	AverageRating(ctx context.Context) (float64, error)

	// RatingDistribution returns a sparse rating -> count map over the
	// ratings actually present in the store.
	RatingDistribution(ctx context.Context) (map[int]int, error)

	// MonthlyAverage returns the mean rating per "YYYY-MM" month key.
	// Reviews without a date land in the domain.MonthUnknown bucket;
	// reviews without a rating do not contribute to any bucket.
	MonthlyAverage(ctx context.Context) (map[string]float64, error)
}
