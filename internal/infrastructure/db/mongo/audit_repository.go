package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/qfactory/mes-helper/internal/core/domain"
	"github.com/qfactory/mes-helper/internal/core/ports"
)

const collectionQueryAudit = "query_audit"

// AuditRepository implements ports.AuditRepository. Only query metadata is
// stored, never row data or credentials.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionQueryAudit)}
}

// InsertQuery appends one entry to the audit collection.
func (r *AuditRepository) InsertQuery(ctx context.Context, entry *domain.QueryAudit) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, auditDocument(entry))
	return err
}

// EnsureIndexes creates the lookup indexes of the audit collection.
func (r *AuditRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "user_key", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "operation", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: 1}}, Options: options.Index().SetName("created_at_1")},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}

func auditDocument(e *domain.QueryAudit) bson.M {
	criteria := bson.M{}
	for field, pattern := range e.Criteria {
		if pattern != "" {
			criteria[field] = pattern
		}
	}

	doc := bson.M{
		"operation":     e.Operation,
		"session_id":    e.SessionID,
		"user_key":      e.UserKey,
		"criteria":      criteria,
		"total_fetched": e.TotalFetched,
		"matched":       e.Matched,
		"truncated":     e.Truncated,
		"duration_ms":   e.Duration.Milliseconds(),
		"created_at":    e.CreatedAt.UTC(),
	}
	if e.DateFrom != "" || e.DateTo != "" {
		doc["date_from"] = e.DateFrom
		doc["date_to"] = e.DateTo
	}
	if e.Error != "" {
		doc["error"] = e.Error
	}
	return doc
}

var _ ports.AuditRepository = (*AuditRepository)(nil)
