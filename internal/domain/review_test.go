package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int { return &n }

func timePtr(t time.Time) *time.Time { return &t }

func TestReview_Valid(t *testing.T) {
	tests := []struct {
		name  string
		id    int64
		valid bool
	}{
		{name: "positive id", id: 1, valid: true},
		{name: "zero id", id: 0, valid: false},
		{name: "negative id", id: -3, valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Review{ID: tt.id}
			assert.Equal(t, tt.valid, r.Valid())
		})
	}
}

func TestReview_MonthKey(t *testing.T) {
	dated := Review{ID: 1, ReviewedAt: timePtr(time.Date(2024, 3, 7, 10, 30, 0, 0, time.UTC))}
	assert.Equal(t, "2024-03", dated.MonthKey())

	dateless := Review{ID: 2}
	assert.Equal(t, MonthUnknown, dateless.MonthKey())
}

func TestReview_SearchText(t *testing.T) {
	r := Review{ID: 1, Title: strPtr("Great Phone"), Body: strPtr(" Loved It")}
	assert.Equal(t, "great phone loved it", r.SearchText())

	titleOnly := Review{ID: 2, Title: strPtr("OK")}
	assert.Equal(t, "ok", titleOnly.SearchText())

	empty := Review{ID: 3}
	assert.Equal(t, "", empty.SearchText())
}

func TestReview_Clone_Independence(t *testing.T) {
	original := Review{
		ID:         1,
		Author:     strPtr("alice"),
		Title:      strPtr("title"),
		Body:       strPtr("body"),
		Product:    strPtr("phone"),
		Store:      strPtr("web"),
		Rating:     intPtr(4),
		ReviewedAt: timePtr(time.Date(2024, 1, 2, 15, 0, 0, 0, time.UTC)),
		HasTime:    true,
	}

	clone := original.Clone()
	require.Equal(t, original.ID, clone.ID)
	require.Equal(t, *original.Author, *clone.Author)
	require.Equal(t, *original.Rating, *clone.Rating)
	require.True(t, clone.HasTime)

	*clone.Author = "mallory"
	*clone.Rating = 1
	*clone.ReviewedAt = clone.ReviewedAt.AddDate(1, 0, 0)

	assert.Equal(t, "alice", *original.Author)
	assert.Equal(t, 4, *original.Rating)
	assert.Equal(t, 2024, original.ReviewedAt.Year())
}
