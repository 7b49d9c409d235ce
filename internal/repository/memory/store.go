// Package memory implements the review store over a mutex-guarded map.
// It is the reference implementation for filter semantics: the PostgreSQL
// backend must return identical results for identical inputs.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yash031299/ReviewApplication-sub000/internal/domain"
	apperrors "github.com/yash031299/ReviewApplication-sub000/pkg/errors"
)

// Store is an in-memory review store keyed by review id. Reads and writes
// copy records on the way in and out, so no caller ever observes a
// partially mutated review.
type Store struct {
	mu      sync.RWMutex
	reviews map[int64]domain.Review
}

// NewStore creates an empty in-memory review store.
func NewStore() *Store {
	return &Store{reviews: make(map[int64]domain.Review)}
}

// predicate decides whether a single review satisfies one criterion.
type predicate func(r *domain.Review) bool

// compile translates a filter spec into its conjunction of predicates.
// Absent criteria contribute nothing; an empty-string text criterion is a
// "don't care" and is dropped rather than compiled.
func compile(spec *domain.FilterSpec) []predicate {
	if spec == nil {
		return nil
	}

	var preds []predicate

	if n, ok := spec.Rating(); ok {
		preds = append(preds, func(r *domain.Review) bool {
			return r.Rating != nil && *r.Rating == n
		})
	}
	if n, ok := spec.MinRating(); ok {
		preds = append(preds, func(r *domain.Review) bool {
			return r.Rating != nil && *r.Rating >= n
		})
	}
	if n, ok := spec.MaxRating(); ok {
		preds = append(preds, func(r *domain.Review) bool {
			return r.Rating != nil && *r.Rating <= n
		})
	}

	// Date criteria compare calendar days, not instants, so a timestamp
	// carrying a zone offset still matches its own calendar day. DateOnly
	// strings order lexicographically.
	if d, ok := spec.ReviewDate(); ok {
		day := d.Format(time.DateOnly)
		preds = append(preds, func(r *domain.Review) bool {
			return r.ReviewedAt != nil && r.ReviewedAt.Format(time.DateOnly) == day
		})
	}
	if d, ok := spec.StartDate(); ok {
		day := d.Format(time.DateOnly)
		preds = append(preds, func(r *domain.Review) bool {
			return r.ReviewedAt != nil && r.ReviewedAt.Format(time.DateOnly) >= day
		})
	}
	if d, ok := spec.EndDate(); ok {
		day := d.Format(time.DateOnly)
		preds = append(preds, func(r *domain.Review) bool {
			return r.ReviewedAt != nil && r.ReviewedAt.Format(time.DateOnly) <= day
		})
	}

	// A review whose timestamp has no time-of-day component fails every
	// time bound, even when a bound would trivially hold.
	if t, ok := spec.StartTime(); ok {
		preds = append(preds, func(r *domain.Review) bool {
			return r.HasTime && r.ReviewedAt != nil && domain.TimeOfDay(*r.ReviewedAt) >= t
		})
	}
	if t, ok := spec.EndTime(); ok {
		preds = append(preds, func(r *domain.Review) bool {
			return r.HasTime && r.ReviewedAt != nil && domain.TimeOfDay(*r.ReviewedAt) <= t
		})
	}

	for _, tc := range []struct {
		criterion func() (string, bool)
		field     func(r *domain.Review) *string
	}{
		{spec.Author, func(r *domain.Review) *string { return r.Author }},
		{spec.Title, func(r *domain.Review) *string { return r.Title }},
		{spec.Product, func(r *domain.Review) *string { return r.Product }},
		{spec.Store, func(r *domain.Review) *string { return r.Store }},
	} {
		needle, ok := tc.criterion()
		if !ok || needle == "" {
			continue
		}
		lowered := strings.ToLower(needle)
		field := tc.field
		preds = append(preds, func(r *domain.Review) bool {
			v := field(r)
			return v != nil && strings.Contains(strings.ToLower(*v), lowered)
		})
	}

	return preds
}

func matches(r *domain.Review, preds []predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// comparator orders two reviews; negative means a sorts before b.
type comparator func(a, b *domain.Review) int

// compareID is the deterministic final tie-break everywhere.
func compareID(a, b *domain.Review) int {
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}

// compareRatingDesc orders by rating descending with absent ratings last.
func compareRatingDesc(a, b *domain.Review) int {
	switch {
	case a.Rating == nil && b.Rating == nil:
		return 0
	case a.Rating == nil:
		return 1
	case b.Rating == nil:
		return -1
	case *a.Rating > *b.Rating:
		return -1
	case *a.Rating < *b.Rating:
		return 1
	default:
		return 0
	}
}

// compareDateDesc orders by timestamp descending with absent dates last.
func compareDateDesc(a, b *domain.Review) int {
	switch {
	case a.ReviewedAt == nil && b.ReviewedAt == nil:
		return 0
	case a.ReviewedAt == nil:
		return 1
	case b.ReviewedAt == nil:
		return -1
	case a.ReviewedAt.After(*b.ReviewedAt):
		return -1
	case a.ReviewedAt.Before(*b.ReviewedAt):
		return 1
	default:
		return 0
	}
}

// order composes the comparator chain for the spec's sort flags. Rating
// wins over date when both flags are set; id ascending always breaks ties.
func order(spec *domain.FilterSpec) []comparator {
	var chain []comparator
	if spec != nil && spec.SortByRating() {
		chain = append(chain, compareRatingDesc)
	}
	if spec != nil && spec.SortByDate() {
		chain = append(chain, compareDateDesc)
	}
	return append(chain, compareID)
}

func sortReviews(reviews []domain.Review, chain []comparator) {
	sort.SliceStable(reviews, func(i, j int) bool {
		for _, cmp := range chain {
			if c := cmp(&reviews[i], &reviews[j]); c != 0 {
				return c < 0
			}
		}
		return false
	})
}

// paginate slices one 1-based page out of an already sorted result set.
func paginate(reviews []domain.Review, page, pageSize int) []domain.Review {
	if pageSize <= 0 {
		return []domain.Review{}
	}
	if page <= 0 {
		page = 1
	}
	start := (page - 1) * pageSize
	if start >= len(reviews) {
		return []domain.Review{}
	}
	end := start + pageSize
	if end > len(reviews) {
		end = len(reviews)
	}
	return reviews[start:end]
}

// snapshot copies every stored review under the read lock.
func (s *Store) snapshot() []domain.Review {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Review, 0, len(s.reviews))
	for _, r := range s.reviews {
		out = append(out, r.Clone())
	}
	return out
}

// GetPage returns one id-ordered page of all reviews.
func (s *Store) GetPage(ctx context.Context, page, pageSize int) ([]domain.Review, error) {
	return s.GetFilteredPage(ctx, nil, page, pageSize)
}

// GetFilteredPage filters, sorts, then paginates.
func (s *Store) GetFilteredPage(_ context.Context, spec *domain.FilterSpec, page, pageSize int) ([]domain.Review, error) {
	preds := compile(spec)
	all := s.snapshot()
	matched := all[:0]
	for i := range all {
		if matches(&all[i], preds) {
			matched = append(matched, all[i])
		}
	}
	sortReviews(matched, order(spec))
	return paginate(matched, page, pageSize), nil
}

// GetFilteredCount counts matching reviews without pagination.
func (s *Store) GetFilteredCount(_ context.Context, spec *domain.FilterSpec) (int, error) {
	preds := compile(spec)
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, r := range s.reviews {
		if matches(&r, preds) {
			count++
		}
	}
	return count, nil
}

// GetByKeywords returns reviews whose title+body contains any non-blank
// keyword, ordered by id ascending. Blank keywords are dropped; if nothing
// usable remains the result is empty, not "match all".
func (s *Store) GetByKeywords(_ context.Context, keywords []string) ([]domain.Review, error) {
	var needles []string
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		needles = append(needles, strings.ToLower(kw))
	}
	if len(needles) == 0 {
		return []domain.Review{}, nil
	}

	all := s.snapshot()
	matched := all[:0]
	for i := range all {
		haystack := all[i].SearchText()
		for _, needle := range needles {
			if strings.Contains(haystack, needle) {
				matched = append(matched, all[i])
				break
			}
		}
	}
	sortReviews(matched, []comparator{compareID})
	return matched, nil
}

// GetByID returns the stored review or nil when absent. Non-positive ids
// are absent by definition.
func (s *Store) GetByID(_ context.Context, id int64) (*domain.Review, error) {
	if id < 1 {
		return nil, nil
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reviews[id]
	if !ok {
		return nil, nil
	}
	c := r.Clone()
	return &c, nil
}

// GetAll returns every stored review in unspecified order.
func (s *Store) GetAll(_ context.Context) ([]domain.Review, error) {
	return s.snapshot(), nil
}

// Save upserts reviews by id. A nil element fails the whole batch before
// any write; reviews without a positive id are skipped. Timestamps are
// stored zone-stripped, the same loss a zoneless SQL column applies.
func (s *Store) Save(_ context.Context, reviews []*domain.Review) error {
	for _, r := range reviews {
		if r == nil {
			return apperrors.ErrNilReview
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range reviews {
		if !r.Valid() {
			continue
		}
		c := r.Clone()
		if c.ReviewedAt != nil {
			t := domain.WallClockUTC(*c.ReviewedAt)
			c.ReviewedAt = &t
		}
		s.reviews[c.ID] = c
	}
	return nil
}

// AverageRating returns the mean of present ratings, 0 when there are none.
func (s *Store) AverageRating(_ context.Context) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sum, n := 0, 0
	for _, r := range s.reviews {
		if r.Rating == nil {
			continue
		}
		sum += *r.Rating
		n++
	}
	if n == 0 {
		return 0, nil
	}
	return float64(sum) / float64(n), nil
}

// RatingDistribution counts reviews per present rating value.
func (s *Store) RatingDistribution(_ context.Context) (map[int]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	dist := make(map[int]int)
	for _, r := range s.reviews {
		if r.Rating == nil {
			continue
		}
		dist[*r.Rating]++
	}
	return dist, nil
}

// MonthlyAverage returns mean rating per month key; dateless reviews land
// in the domain.MonthUnknown bucket and ratingless reviews contribute to
// none.
func (s *Store) MonthlyAverage(_ context.Context) (map[string]float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sums := make(map[string]int)
	counts := make(map[string]int)
	for _, r := range s.reviews {
		if r.Rating == nil {
			continue
		}
		key := r.MonthKey()
		sums[key] += *r.Rating
		counts[key]++
	}
	averages := make(map[string]float64, len(counts))
	for key, n := range counts {
		averages[key] = float64(sums[key]) / float64(n)
	}
	return averages, nil
}
