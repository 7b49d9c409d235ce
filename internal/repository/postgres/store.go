// Package postgres implements the review store on PostgreSQL. Filter
// translation mirrors the in-memory engine clause for clause so both
// backends return identical results for identical inputs.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/yash031299/ReviewApplication-sub000/internal/domain"
	"github.com/yash031299/ReviewApplication-sub000/pkg/database"
	apperrors "github.com/yash031299/ReviewApplication-sub000/pkg/errors"
)

const reviewColumns = "id, author, title, body, product, store, rating, reviewed_at, has_time"

const schema = `
	CREATE TABLE IF NOT EXISTS reviews (
		id          BIGINT PRIMARY KEY,
		author      TEXT,
		title       TEXT,
		body        TEXT,
		product     TEXT,
		store       TEXT,
		rating      INT,
		reviewed_at TIMESTAMP,
		has_time    BOOLEAN NOT NULL DEFAULT FALSE
	)`

// Store is a PostgreSQL-backed review store.
type Store struct {
	db database.DBTX
}

// NewStore creates the store and the backing table when absent. The
// connection itself is validated by the pool constructor; a failing
// statement here surfaces immediately.
func NewStore(ctx context.Context, db database.DBTX) (*Store, error) {
	s := &Store{db: db}
	if _, err := db.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating reviews table: %w", err)
	}
	return s, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally, the
// same contract as the in-memory substring check.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// timeOfDayArg renders a time-of-day bound as a Postgres time literal with
// sub-second precision preserved.
func timeOfDayArg(d time.Duration) string {
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	sec := d / time.Second
	d -= sec * time.Second
	return fmt.Sprintf("%02d:%02d:%02d.%06d", h, m, sec, d/time.Microsecond)
}

// reviewedAtArg strips the zone before encoding. The column is a zoneless
// timestamp, so the stored value is the review's wall clock either way;
// stripping here keeps the bound argument equal to what the column holds.
func reviewedAtArg(r *domain.Review) any {
	if r.ReviewedAt == nil {
		return nil
	}
	return domain.WallClockUTC(*r.ReviewedAt)
}

// whereClause translates a filter spec into SQL conditions with numbered
// placeholders starting at argIndex. Empty text criteria compile to no
// condition at all, matching the in-memory engine's "don't care" rule;
// NULL columns fail comparisons and ILIKE the same way absent fields fail
// predicates.
func whereClause(spec *domain.FilterSpec, argIndex int) (string, []any, int) {
	if spec == nil {
		return "", nil, argIndex
	}

	var (
		conditions []string
		args       []any
	)

	if n, ok := spec.Rating(); ok {
		conditions = append(conditions, fmt.Sprintf("rating = $%d", argIndex))
		args = append(args, n)
		argIndex++
	}
	if n, ok := spec.MinRating(); ok {
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", argIndex))
		args = append(args, n)
		argIndex++
	}
	if n, ok := spec.MaxRating(); ok {
		conditions = append(conditions, fmt.Sprintf("rating <= $%d", argIndex))
		args = append(args, n)
		argIndex++
	}

	if d, ok := spec.ReviewDate(); ok {
		conditions = append(conditions, fmt.Sprintf("reviewed_at::date = $%d::date", argIndex))
		args = append(args, d.Format(time.DateOnly))
		argIndex++
	}
	if d, ok := spec.StartDate(); ok {
		conditions = append(conditions, fmt.Sprintf("reviewed_at::date >= $%d::date", argIndex))
		args = append(args, d.Format(time.DateOnly))
		argIndex++
	}
	if d, ok := spec.EndDate(); ok {
		conditions = append(conditions, fmt.Sprintf("reviewed_at::date <= $%d::date", argIndex))
		args = append(args, d.Format(time.DateOnly))
		argIndex++
	}

	if t, ok := spec.StartTime(); ok {
		conditions = append(conditions, fmt.Sprintf("has_time AND reviewed_at::time >= $%d::time", argIndex))
		args = append(args, timeOfDayArg(t))
		argIndex++
	}
	if t, ok := spec.EndTime(); ok {
		conditions = append(conditions, fmt.Sprintf("has_time AND reviewed_at::time <= $%d::time", argIndex))
		args = append(args, timeOfDayArg(t))
		argIndex++
	}

	for _, tc := range []struct {
		column    string
		criterion func() (string, bool)
	}{
		{"author", spec.Author},
		{"title", spec.Title},
		{"product", spec.Product},
		{"store", spec.Store},
	} {
		needle, ok := tc.criterion()
		if !ok || needle == "" {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("%s ILIKE $%d", tc.column, argIndex))
		args = append(args, "%"+escapeLike(needle)+"%")
		argIndex++
	}

	if len(conditions) == 0 {
		return "", nil, argIndex
	}
	return "WHERE " + strings.Join(conditions, " AND "), args, argIndex
}

// orderClause renders the sort flags. Rating wins over date when both are
// set; id ascending is the unconditional final tie-break so pagination is
// deterministic.
func orderClause(spec *domain.FilterSpec) string {
	var keys []string
	if spec != nil && spec.SortByRating() {
		keys = append(keys, "rating DESC NULLS LAST")
	}
	if spec != nil && spec.SortByDate() {
		keys = append(keys, "reviewed_at DESC NULLS LAST")
	}
	keys = append(keys, "id ASC")
	return "ORDER BY " + strings.Join(keys, ", ")
}

func (s *Store) queryReviews(ctx context.Context, op, query string, args ...any) ([]domain.Review, error) {
	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	reviews := []domain.Review{}
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(
			&r.ID,
			&r.Author,
			&r.Title,
			&r.Body,
			&r.Product,
			&r.Store,
			&r.Rating,
			&r.ReviewedAt,
			&r.HasTime,
		); err != nil {
			return nil, fmt.Errorf("%s: scan row: %w", op, err)
		}
		reviews = append(reviews, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return reviews, nil
}

// GetPage returns one id-ordered page of all reviews.
func (s *Store) GetPage(ctx context.Context, page, pageSize int) ([]domain.Review, error) {
	return s.GetFilteredPage(ctx, nil, page, pageSize)
}

// GetFilteredPage filters, sorts, then paginates in a single statement.
func (s *Store) GetFilteredPage(ctx context.Context, spec *domain.FilterSpec, page, pageSize int) ([]domain.Review, error) {
	if pageSize <= 0 {
		return []domain.Review{}, nil
	}
	if page <= 0 {
		page = 1
	}

	where, args, argIndex := whereClause(spec, 1)
	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		%s
		%s
		LIMIT $%d OFFSET $%d`,
		reviewColumns, where, orderClause(spec), argIndex, argIndex+1)
	args = append(args, pageSize, (page-1)*pageSize)

	return s.queryReviews(ctx, "loading paged reviews", query, args...)
}

// GetFilteredCount counts matching reviews without pagination.
func (s *Store) GetFilteredCount(ctx context.Context, spec *domain.FilterSpec) (int, error) {
	where, args, _ := whereClause(spec, 1)
	query := fmt.Sprintf("SELECT count(*) FROM reviews %s", where)

	var count int
	if err := s.db.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting filtered reviews: %w", err)
	}
	return count, nil
}

// GetByKeywords matches any non-blank keyword against title+body,
// case-insensitively, ordered by id ascending.
func (s *Store) GetByKeywords(ctx context.Context, keywords []string) ([]domain.Review, error) {
	var (
		conditions []string
		args       []any
	)
	for _, kw := range keywords {
		if kw == "" {
			continue
		}
		conditions = append(conditions, fmt.Sprintf("coalesce(title, '') || coalesce(body, '') ILIKE $%d", len(args)+1))
		args = append(args, "%"+escapeLike(kw)+"%")
	}
	if len(conditions) == 0 {
		return []domain.Review{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM reviews
		WHERE %s
		ORDER BY id ASC`,
		reviewColumns, strings.Join(conditions, " OR "))

	return s.queryReviews(ctx, "searching reviews by keyword", query, args...)
}

// GetByID returns the review with the given id, or nil when absent.
func (s *Store) GetByID(ctx context.Context, id int64) (*domain.Review, error) {
	if id < 1 {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT %s FROM reviews WHERE id = $1", reviewColumns)

	var r domain.Review
	err := s.db.QueryRow(ctx, query, id).Scan(
		&r.ID,
		&r.Author,
		&r.Title,
		&r.Body,
		&r.Product,
		&r.Store,
		&r.Rating,
		&r.ReviewedAt,
		&r.HasTime,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("loading review by id: %w", err)
	}
	return &r, nil
}

// GetAll returns every stored review without an ordering guarantee.
func (s *Store) GetAll(ctx context.Context) ([]domain.Review, error) {
	query := fmt.Sprintf("SELECT %s FROM reviews", reviewColumns)
	return s.queryReviews(ctx, "loading all reviews", query)
}

// Save upserts reviews by id inside one transaction, so a failing batch
// leaves no partial mutation visible. A nil element fails the batch before
// any write; reviews without a positive id are skipped.
func (s *Store) Save(ctx context.Context, reviews []*domain.Review) error {
	for _, r := range reviews {
		if r == nil {
			return apperrors.ErrNilReview
		}
	}
	if len(reviews) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("saving reviews: begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO reviews (id, author, title, body, product, store, rating, reviewed_at, has_time)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			author = EXCLUDED.author,
			title = EXCLUDED.title,
			body = EXCLUDED.body,
			product = EXCLUDED.product,
			store = EXCLUDED.store,
			rating = EXCLUDED.rating,
			reviewed_at = EXCLUDED.reviewed_at,
			has_time = EXCLUDED.has_time`

	for _, r := range reviews {
		if !r.Valid() {
			continue
		}
		if _, err := tx.Exec(ctx, query,
			r.ID,
			r.Author,
			r.Title,
			r.Body,
			r.Product,
			r.Store,
			r.Rating,
			reviewedAtArg(r),
			r.HasTime,
		); err != nil {
			return fmt.Errorf("saving reviews: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("saving reviews: commit: %w", err)
	}
	return nil
}

// AverageRating returns the mean of present ratings, 0 when there are none.
func (s *Store) AverageRating(ctx context.Context) (float64, error) {
	var avg float64
	err := s.db.QueryRow(ctx, "SELECT COALESCE(AVG(rating), 0)::float8 FROM reviews").Scan(&avg)
	if err != nil {
		return 0, fmt.Errorf("averaging ratings: %w", err)
	}
	return avg, nil
}

// RatingDistribution counts reviews per present rating value.
func (s *Store) RatingDistribution(ctx context.Context) (map[int]int, error) {
	query := `
		SELECT rating, count(*)
		FROM reviews
		WHERE rating IS NOT NULL
		GROUP BY rating`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading rating distribution: %w", err)
	}
	defer rows.Close()

	dist := make(map[int]int)
	for rows.Next() {
		var rating, count int
		if err := rows.Scan(&rating, &count); err != nil {
			return nil, fmt.Errorf("loading rating distribution: scan row: %w", err)
		}
		dist[rating] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading rating distribution: %w", err)
	}
	return dist, nil
}

// MonthlyAverage returns mean rating per "YYYY-MM" month key, with
// dateless reviews bucketed under domain.MonthUnknown.
func (s *Store) MonthlyAverage(ctx context.Context) (map[string]float64, error) {
	query := fmt.Sprintf(`
		SELECT COALESCE(to_char(reviewed_at, 'YYYY-MM'), '%s') AS month, AVG(rating)::float8
		FROM reviews
		WHERE rating IS NOT NULL
		GROUP BY month`, domain.MonthUnknown)

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("loading monthly averages: %w", err)
	}
	defer rows.Close()

	averages := make(map[string]float64)
	for rows.Next() {
		var month string
		var avg float64
		if err := rows.Scan(&month, &avg); err != nil {
			return nil, fmt.Errorf("loading monthly averages: scan row: %w", err)
		}
		averages[month] = avg
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("loading monthly averages: %w", err)
	}
	return averages, nil
}
