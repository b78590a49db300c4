package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/michi-labs/catapi/internal/core/domain"
	"github.com/michi-labs/catapi/internal/core/ports"
)

const auditCollection = "auth_events"

// AuditRepository persists auth events to the auth_events collection.
type AuditRepository struct {
	coll *mongo.Collection
}

var _ ports.AuditRepository = (*AuditRepository)(nil)

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{coll: db.Collection(auditCollection)}
}

// Insert stores a single event. Optional fields are omitted when empty.
func (r *AuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.coll.InsertOne(ctx, auditDocument(event, time.Now().UTC()))
	return err
}

func auditDocument(event *domain.AuthEvent, recordedAt time.Time) bson.M {
	doc := bson.M{
		"_id":         event.ID,
		"kind":        string(event.Kind),
		"username":    event.Username,
		"occurred_at": event.OccurredAt.UTC(),
		"recorded_at": recordedAt,
	}
	if event.UserID != "" {
		doc["user_id"] = event.UserID
	}
	if event.RequestID != "" {
		doc["request_id"] = event.RequestID
	}
	return doc
}

// EnsureIndexes indexes events by username and time for audit queries.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "username", Value: 1}, {Key: "occurred_at", Value: -1}}},
	})
	return err
}
