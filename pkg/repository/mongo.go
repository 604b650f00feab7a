package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/example/agbado/pkg/config"
	"github.com/example/agbado/pkg/marketplace"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepository keeps the audit trail of completed transactions. It
// satisfies marketplace.AuditSink.
type MongoRepository struct {
	client  *mongo.Client
	entries *mongo.Collection
	process string
}

func NewMongoRepository(cfg *config.MongoDBConfig, process string) (*MongoRepository, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	return &MongoRepository{
		client:  client,
		entries: client.Database(cfg.Database).Collection(cfg.Collection),
		process: process,
	}, nil
}

func (m *MongoRepository) Ping(ctx context.Context) error {
	return m.client.Ping(ctx, nil)
}

func (m *MongoRepository) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// AuditEntry is one marketplace event as stored in mongo.
type AuditEntry struct {
	ID       string    `bson:"_id,omitempty"`
	Process  string    `bson:"process"`
	Kind     string    `bson:"kind"`
	UserID   string    `bson:"user_id"`
	EntityID string    `bson:"entity_id"`
	Amount   int       `bson:"amount"`
	At       time.Time `bson:"at"`
}

func (m *MongoRepository) Record(ctx context.Context, ev marketplace.Event) error {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := m.entries.InsertOne(ctx, AuditEntry{
		Process:  m.process,
		Kind:     string(ev.Kind),
		UserID:   ev.UserID,
		EntityID: ev.EntityID,
		Amount:   ev.Amount,
		At:       at,
	})
	if err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}
	return nil
}

// History returns a user's most recent entries, newest first.
func (m *MongoRepository) History(ctx context.Context, userID string, limit int64) ([]AuditEntry, error) {
	cur, err := m.entries.Find(ctx,
		bson.D{{Key: "user_id", Value: userID}},
		options.Find().SetSort(bson.D{{Key: "at", Value: -1}}).SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("find audit entries: %w", err)
	}
	defer cur.Close(ctx)

	entries := []AuditEntry{}
	if err := cur.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("decode audit entries: %w", err)
	}
	return entries, nil
}
