package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/yash031299/ReviewApplication-sub000/internal/domain"
	"github.com/yash031299/ReviewApplication-sub000/internal/service"
	apperrors "github.com/yash031299/ReviewApplication-sub000/pkg/errors"
	"github.com/yash031299/ReviewApplication-sub000/pkg/httputil"
	"github.com/yash031299/ReviewApplication-sub000/pkg/pagination"
	"github.com/yash031299/ReviewApplication-sub000/pkg/validator"
)

// ReviewHandler handles HTTP requests for review endpoints.
type ReviewHandler struct {
	service *service.ReviewService
	logger  *slog.Logger
}

// NewReviewHandler creates a new review HTTP handler.
func NewReviewHandler(svc *service.ReviewService, logger *slog.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// ReviewInput is one review in a batch upsert request. ReviewedAt accepts
// RFC 3339 timestamps or bare dates; a bare date stores a date-only review
// that never matches time-of-day filters.
type ReviewInput struct {
	ID         int64   `json:"id"`
	Author     *string `json:"author"`
	Title      *string `json:"title"`
	Body       *string `json:"body"`
	Product    *string `json:"product"`
	Store      *string `json:"store"`
	Rating     *int    `json:"rating"`
	ReviewedAt *string `json:"reviewed_at"`
}

// SaveReviewsRequest is the JSON request body for the batch upsert endpoint.
type SaveReviewsRequest struct {
	Reviews []ReviewInput `json:"reviews" validate:"required,min=1"`
}

func (in *ReviewInput) toDomain() (*domain.Review, error) {
	r := &domain.Review{
		ID:      in.ID,
		Author:  in.Author,
		Title:   in.Title,
		Body:    in.Body,
		Product: in.Product,
		Store:   in.Store,
		Rating:  in.Rating,
	}
	if in.ReviewedAt != nil && *in.ReviewedAt != "" {
		t, hasTime, err := parseReviewedAt(*in.ReviewedAt)
		if err != nil {
			return nil, err
		}
		r.ReviewedAt = &t
		r.HasTime = hasTime
	}
	return r, nil
}

func parseReviewedAt(s string) (time.Time, bool, error) {
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, false, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid reviewed_at %q, want YYYY-MM-DD or RFC 3339", s)
}

// parseTimeOfDay parses "HH:MM" or "HH:MM:SS" into an offset from midnight.
func parseTimeOfDay(s string) (time.Duration, error) {
	var layout string
	switch strings.Count(s, ":") {
	case 1:
		layout = "15:04"
	case 2:
		layout = "15:04:05"
	default:
		return 0, fmt.Errorf("invalid time of day %q, want HH:MM or HH:MM:SS", s)
	}
	t, err := time.Parse(layout, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time of day %q, want HH:MM or HH:MM:SS", s)
	}
	return domain.TimeOfDay(t), nil
}

// filterFromQuery builds a FilterSpec from list query parameters. Absent
// parameters impose no constraint; invariant violations surface as the
// builder's validation error.
func filterFromQuery(r *http.Request) (*domain.FilterSpec, error) {
	q := r.URL.Query()
	b := domain.NewFilterBuilder()

	for param, set := range map[string]func(int) *domain.FilterBuilder{
		"rating":     b.Rating,
		"min_rating": b.MinRating,
		"max_rating": b.MaxRating,
	} {
		if v := q.Get(param); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return nil, apperrors.InvalidInput(fmt.Sprintf("%s must be an integer", param))
			}
			set(n)
		}
	}

	for param, set := range map[string]func(time.Time) *domain.FilterBuilder{
		"review_date": b.ReviewDate,
		"start_date":  b.StartDate,
		"end_date":    b.EndDate,
	} {
		if v := q.Get(param); v != "" {
			t, err := time.Parse(time.DateOnly, v)
			if err != nil {
				return nil, apperrors.InvalidInput(fmt.Sprintf("%s must be YYYY-MM-DD", param))
			}
			set(t)
		}
	}

	for param, set := range map[string]func(time.Duration) *domain.FilterBuilder{
		"start_time": b.StartTime,
		"end_time":   b.EndTime,
	} {
		if v := q.Get(param); v != "" {
			d, err := parseTimeOfDay(v)
			if err != nil {
				return nil, apperrors.InvalidInput(err.Error())
			}
			set(d)
		}
	}

	if v, ok := q["author"]; ok && len(v) > 0 {
		b.Author(v[0])
	}
	if v, ok := q["title"]; ok && len(v) > 0 {
		b.Title(v[0])
	}
	if v, ok := q["product"]; ok && len(v) > 0 {
		b.Product(v[0])
	}
	if v, ok := q["store"]; ok && len(v) > 0 {
		b.Store(v[0])
	}

	b.SortByDate(q.Get("sort_by_date") == "true")
	b.SortByRating(q.Get("sort_by_rating") == "true")

	return b.Build()
}

// --- Handlers ---

// ListReviews handles GET /api/v1/reviews with optional filter, sort, and
// pagination query parameters.
func (h *ReviewHandler) ListReviews(w http.ResponseWriter, r *http.Request) {
	spec, err := filterFromQuery(r)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	params := pagination.FromRequest(r)

	result, err := h.service.ListReviews(r.Context(), spec, params)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, result)
}

// SearchReviews handles GET /api/v1/reviews/search?keyword=a&keyword=b.
func (h *ReviewHandler) SearchReviews(w http.ResponseWriter, r *http.Request) {
	keywords := r.URL.Query()["keyword"]

	reviews, err := h.service.SearchReviews(r.Context(), keywords)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: reviews})
}

// GetReview handles GET /api/v1/reviews/{id}.
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httputil.WriteError(w, r, apperrors.InvalidInput("review id must be an integer"), h.logger)
		return
	}

	review, err := h.service.GetReview(r.Context(), id)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: review})
}

// GetStats handles GET /api/v1/reviews/stats.
func (h *ReviewHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: stats})
}

// SaveReviews handles POST /api/v1/reviews with a batch of reviews to
// upsert by id.
func (h *ReviewHandler) SaveReviews(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req SaveReviewsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	reviews := make([]*domain.Review, 0, len(req.Reviews))
	for _, in := range req.Reviews {
		review, err := in.toDomain()
		if err != nil {
			httputil.WriteError(w, r, apperrors.InvalidInput(err.Error()), h.logger)
			return
		}
		reviews = append(reviews, review)
	}

	ids, err := h.service.SaveReviews(r.Context(), reviews)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"saved_ids": ids,
	}})
}
