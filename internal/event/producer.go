package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	pkgkafka "github.com/yash031299/ReviewApplication-sub000/pkg/kafka"
)

// TopicReviewsSaved is published after a review batch is upserted.
const TopicReviewsSaved = "reviews.batch.saved"

// AggregateTypeReview is the aggregate type carried on review events.
const AggregateTypeReview = "review"

// SourceReviewService identifies events originating from this service.
const SourceReviewService = "review-service"

// ReviewsSavedData is the payload for a reviews.batch.saved event.
type ReviewsSavedData struct {
	ReviewIDs []int64 `json:"review_ids"`
}

// Producer publishes review domain events to Kafka. A nil Producer is
// valid and publishes nothing, so the service runs without brokers.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer for the review service.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishReviewsSaved publishes a reviews.batch.saved event for the given ids.
func (p *Producer) PublishReviewsSaved(ctx context.Context, ids []int64) error {
	if p == nil || p.kafka == nil || len(ids) == 0 {
		return nil
	}

	data := ReviewsSavedData{ReviewIDs: ids}

	evt, err := pkgkafka.NewEvent(TopicReviewsSaved, strconv.FormatInt(ids[0], 10), AggregateTypeReview, SourceReviewService, data)
	if err != nil {
		return fmt.Errorf("create reviews.batch.saved event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicReviewsSaved, evt); err != nil {
		return fmt.Errorf("publish reviews.batch.saved event: %w", err)
	}

	p.logger.DebugContext(ctx, "published reviews.batch.saved event",
		slog.Int("review_count", len(ids)),
	)

	return nil
}
