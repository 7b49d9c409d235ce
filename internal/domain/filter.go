package domain

import (
	"fmt"
	"time"

	apperrors "github.com/yash031299/ReviewApplication-sub000/pkg/errors"
)

// FilterSpec is an immutable bag of optional review query criteria. A nil
// or empty spec matches every review. Instances are only obtainable through
// NewFilterBuilder, which validates all cross-field invariants once at
// Build time; after that the spec never changes.
//
// Two specs with equal criteria are interchangeable; FilterSpec carries no
// identity of its own.
type FilterSpec struct {
	rating    *int
	minRating *int
	maxRating *int

	reviewDate *time.Time
	startDate  *time.Time
	endDate    *time.Time

	startTime *time.Duration
	endTime   *time.Duration

	author  *string
	title   *string
	product *string
	store   *string

	sortByDate   bool
	sortByRating bool
}

// Rating returns the exact-rating criterion.
func (f *FilterSpec) Rating() (int, bool) { return derefInt(f.rating) }

// MinRating returns the inclusive lower rating bound.
func (f *FilterSpec) MinRating() (int, bool) { return derefInt(f.minRating) }

// MaxRating returns the inclusive upper rating bound.
func (f *FilterSpec) MaxRating() (int, bool) { return derefInt(f.maxRating) }

// ReviewDate returns the exact-date criterion (day granularity).
func (f *FilterSpec) ReviewDate() (time.Time, bool) { return derefTime(f.reviewDate) }

// StartDate returns the inclusive start-date bound (day granularity).
func (f *FilterSpec) StartDate() (time.Time, bool) { return derefTime(f.startDate) }

// EndDate returns the inclusive end-date bound (day granularity).
func (f *FilterSpec) EndDate() (time.Time, bool) { return derefTime(f.endDate) }

// StartTime returns the inclusive time-of-day lower bound as an offset from
// midnight.
func (f *FilterSpec) StartTime() (time.Duration, bool) { return derefDuration(f.startTime) }

// EndTime returns the inclusive time-of-day upper bound as an offset from
// midnight.
func (f *FilterSpec) EndTime() (time.Duration, bool) { return derefDuration(f.endTime) }

// Author returns the author substring criterion. The boolean is true even
// for an empty string, which by contract matches every review.
func (f *FilterSpec) Author() (string, bool) { return derefString(f.author) }

// Title returns the title substring criterion.
func (f *FilterSpec) Title() (string, bool) { return derefString(f.title) }

// Product returns the product-name substring criterion.
func (f *FilterSpec) Product() (string, bool) { return derefString(f.product) }

// Store returns the store-name substring criterion.
func (f *FilterSpec) Store() (string, bool) { return derefString(f.store) }

// SortByDate reports whether results are ordered by date descending.
func (f *FilterSpec) SortByDate() bool { return f.sortByDate }

// SortByRating reports whether results are ordered by rating descending.
func (f *FilterSpec) SortByRating() bool { return f.sortByRating }

func derefInt(p *int) (int, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func derefTime(p *time.Time) (time.Time, bool) {
	if p == nil {
		return time.Time{}, false
	}
	return *p, true
}

func derefDuration(p *time.Duration) (time.Duration, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

func derefString(p *string) (string, bool) {
	if p == nil {
		return "", false
	}
	return *p, true
}

// FilterBuilder accumulates criteria for a FilterSpec. Setters are value
// stashes only; all validation happens once in Build. Build freezes the
// builder: any later setter call or second Build fails with
// apperrors.ErrFrozenBuilder.
type FilterBuilder struct {
	spec   FilterSpec
	frozen bool
	err    error
}

// NewFilterBuilder creates an empty filter builder.
func NewFilterBuilder() *FilterBuilder {
	return &FilterBuilder{}
}

func (b *FilterBuilder) guard() bool {
	if b.frozen {
		b.err = apperrors.ErrFrozenBuilder
		return false
	}
	return true
}

// Rating sets the exact-rating criterion.
func (b *FilterBuilder) Rating(n int) *FilterBuilder {
	if b.guard() {
		b.spec.rating = &n
	}
	return b
}

// MinRating sets the inclusive lower rating bound.
func (b *FilterBuilder) MinRating(n int) *FilterBuilder {
	if b.guard() {
		b.spec.minRating = &n
	}
	return b
}

// MaxRating sets the inclusive upper rating bound.
func (b *FilterBuilder) MaxRating(n int) *FilterBuilder {
	if b.guard() {
		b.spec.maxRating = &n
	}
	return b
}

// ReviewDate sets the exact-date criterion.
func (b *FilterBuilder) ReviewDate(t time.Time) *FilterBuilder {
	if b.guard() {
		b.spec.reviewDate = &t
	}
	return b
}

// StartDate sets the inclusive start-date bound.
func (b *FilterBuilder) StartDate(t time.Time) *FilterBuilder {
	if b.guard() {
		b.spec.startDate = &t
	}
	return b
}

// EndDate sets the inclusive end-date bound.
func (b *FilterBuilder) EndDate(t time.Time) *FilterBuilder {
	if b.guard() {
		b.spec.endDate = &t
	}
	return b
}

// StartTime sets the inclusive time-of-day lower bound.
func (b *FilterBuilder) StartTime(d time.Duration) *FilterBuilder {
	if b.guard() {
		b.spec.startTime = &d
	}
	return b
}

// EndTime sets the inclusive time-of-day upper bound.
func (b *FilterBuilder) EndTime(d time.Duration) *FilterBuilder {
	if b.guard() {
		b.spec.endTime = &d
	}
	return b
}

// Author sets the author substring criterion.
func (b *FilterBuilder) Author(s string) *FilterBuilder {
	if b.guard() {
		b.spec.author = &s
	}
	return b
}

// Title sets the title substring criterion.
func (b *FilterBuilder) Title(s string) *FilterBuilder {
	if b.guard() {
		b.spec.title = &s
	}
	return b
}

// Product sets the product-name substring criterion.
func (b *FilterBuilder) Product(s string) *FilterBuilder {
	if b.guard() {
		b.spec.product = &s
	}
	return b
}

// Store sets the store-name substring criterion.
func (b *FilterBuilder) Store(s string) *FilterBuilder {
	if b.guard() {
		b.spec.store = &s
	}
	return b
}

// SortByDate toggles date-descending ordering.
func (b *FilterBuilder) SortByDate(v bool) *FilterBuilder {
	if b.guard() {
		b.spec.sortByDate = v
	}
	return b
}

// SortByRating toggles rating-descending ordering.
func (b *FilterBuilder) SortByRating(v bool) *FilterBuilder {
	if b.guard() {
		b.spec.sortByRating = v
	}
	return b
}

const dayDuration = 24 * time.Hour

// Build validates every invariant and returns the immutable spec. The
// builder is frozen afterwards; further use fails.
func (b *FilterBuilder) Build() (*FilterSpec, error) {
	if b.frozen || b.err != nil {
		if b.err != nil {
			return nil, b.err
		}
		return nil, apperrors.ErrFrozenBuilder
	}

	for _, rc := range []struct {
		name string
		val  *int
	}{
		{"rating", b.spec.rating},
		{"min rating", b.spec.minRating},
		{"max rating", b.spec.maxRating},
	} {
		if rc.val != nil && (*rc.val < 1 || *rc.val > 5) {
			return nil, apperrors.InvalidFilter(fmt.Sprintf("%s must be between 1 and 5, got %d", rc.name, *rc.val))
		}
	}

	if b.spec.minRating != nil && b.spec.maxRating != nil && *b.spec.minRating > *b.spec.maxRating {
		return nil, apperrors.InvalidFilter(fmt.Sprintf("min rating %d exceeds max rating %d", *b.spec.minRating, *b.spec.maxRating))
	}

	if b.spec.startDate != nil && b.spec.endDate != nil &&
		b.spec.startDate.Format(time.DateOnly) > b.spec.endDate.Format(time.DateOnly) {
		return nil, apperrors.InvalidFilter(fmt.Sprintf("start date %s is after end date %s",
			b.spec.startDate.Format(time.DateOnly), b.spec.endDate.Format(time.DateOnly)))
	}

	for _, tc := range []struct {
		name string
		val  *time.Duration
	}{
		{"start time", b.spec.startTime},
		{"end time", b.spec.endTime},
	} {
		if tc.val != nil && (*tc.val < 0 || *tc.val >= dayDuration) {
			return nil, apperrors.InvalidFilter(fmt.Sprintf("%s must be a time of day, got %s", tc.name, *tc.val))
		}
	}

	if b.spec.startTime != nil && b.spec.endTime != nil && *b.spec.startTime > *b.spec.endTime {
		return nil, apperrors.InvalidFilter(fmt.Sprintf("start time %s is after end time %s", *b.spec.startTime, *b.spec.endTime))
	}

	b.frozen = true
	spec := b.spec
	return &spec, nil
}

// WallClockUTC keeps the calendar and clock fields of t and drops its zone.
// Stores normalize timestamps with it on write, matching how a zoneless
// SQL timestamp column discards the offset, so both backends compare and
// sort the same wall-clock values.
func WallClockUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}

// TimeOfDay returns the offset of t from its midnight.
func TimeOfDay(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}
