package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/waosongs/storefront/internal/core/domain"
	"github.com/waosongs/storefront/internal/core/ports"
)

const collectionSubmissionEvents = "submission_events"

// AuditRepository implements ports.AuditRepository using MongoDB.
type AuditRepository struct {
	db *mongo.Database
}

// NewAuditRepository creates a new AuditRepository.
func NewAuditRepository(db *mongo.Database) ports.AuditRepository {
	return &AuditRepository{db: db}
}

// InsertEvent persists a submission event to the audit collection.
func (r *AuditRepository) InsertEvent(ctx context.Context, event *domain.SubmissionEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"visitor_id":  event.VisitorID,
		"state":       event.State,
		"timestamp":   event.Timestamp.UTC(),
		"recorded_at": time.Now().UTC(),
	}
	if event.OrderID != "" {
		doc["order_id"] = event.OrderID
	}
	if event.Message != "" {
		doc["message"] = event.Message
	}

	_, err := r.db.Collection(collectionSubmissionEvents).InsertOne(ctx, doc)
	return err
}
