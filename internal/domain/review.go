package domain

import (
	"strings"
	"time"
)

// MonthUnknown is the monthly-average bucket for reviews without a date.
const MonthUnknown = "unknown"

// MonthKeyLayout is the time layout for monthly aggregation keys.
const MonthKeyLayout = "2006-01"

// Review represents a single product review. ID is the immutable primary
// key; every other attribute except the rating bounds is optional. Nil
// pointers model absent values, which filter semantics treat differently
// from empty strings.
type Review struct {
	ID         int64      `json:"id"`
	Author     *string    `json:"author,omitempty"`
	Title      *string    `json:"title,omitempty"`
	Body       *string    `json:"body,omitempty"`
	Product    *string    `json:"product,omitempty"`
	Store      *string    `json:"store,omitempty"`
	Rating     *int       `json:"rating,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`

	// HasTime reports whether ReviewedAt carries a meaningful time-of-day
	// component. Date-only reviews never satisfy a time-of-day criterion.
	HasTime bool `json:"has_time"`
}

// Valid reports whether the review can be stored. A review needs a positive
// id; everything else is optional.
func (r *Review) Valid() bool {
	return r.ID > 0
}

// MonthKey returns the "YYYY-MM" aggregation key for the review's date, or
// MonthUnknown when the date is absent.
func (r *Review) MonthKey() string {
	if r.ReviewedAt == nil {
		return MonthUnknown
	}
	return r.ReviewedAt.Format(MonthKeyLayout)
}

// SearchText returns the lowercased concatenation of title and body, the
// haystack for keyword search.
func (r *Review) SearchText() string {
	var title, body string
	if r.Title != nil {
		title = *r.Title
	}
	if r.Body != nil {
		body = *r.Body
	}
	return strings.ToLower(title + body)
}

// Clone returns a deep copy of the review. Stores hand out clones so no
// caller can mutate stored state through shared pointers.
func (r *Review) Clone() Review {
	c := Review{ID: r.ID, HasTime: r.HasTime}
	c.Author = cloneString(r.Author)
	c.Title = cloneString(r.Title)
	c.Body = cloneString(r.Body)
	c.Product = cloneString(r.Product)
	c.Store = cloneString(r.Store)
	if r.Rating != nil {
		v := *r.Rating
		c.Rating = &v
	}
	if r.ReviewedAt != nil {
		t := *r.ReviewedAt
		c.ReviewedAt = &t
	}
	return c
}

func cloneString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// Stats is an on-demand aggregate snapshot of the whole store. It is never
// cached; every snapshot reflects store state at call time.
type Stats struct {
	TotalCount     int                `json:"total_count"`
	AverageRating  float64            `json:"average_rating"`
	Distribution   map[int]int        `json:"rating_distribution"`
	MonthlyAverage map[string]float64 `json:"monthly_average"`
}
