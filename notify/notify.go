// Package notify records workflow events as notification documents.
// Delivery is strictly best-effort: a Notifier never returns an error
// and never blocks the transition that triggered it.
package notify

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	models "github.com/MJG-MindSpire/demodonation/models"
)

// Notifier is the fire-and-forget contract. Implementations observe
// failures (log them) but must swallow them.
type Notifier interface {
	Notify(ctx context.Context, n models.Notification)
}

// MongoNotifier writes notifications into the notifications collection.
type MongoNotifier struct {
	col *mongo.Collection
}

func NewMongoNotifier(db *mongo.Database) *MongoNotifier {
	return &MongoNotifier{col: db.Collection("notifications")}
}

func (m *MongoNotifier) Notify(ctx context.Context, n models.Notification) {
	n.CreatedAt = time.Now()

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := m.col.InsertOne(ctx, n); err != nil {
		log.Printf("notify: dropping %s for %s: %v", n.Type, n.RecipientID.Hex(), err)
	}
}

// Discard ignores every notification. Used in tests and when the
// dispatcher is disabled.
type Discard struct{}

func (Discard) Notify(context.Context, models.Notification) {}
