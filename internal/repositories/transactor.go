package repositories

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"
)

// Transactor runs a unit of work atomically when the store supports it.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// MongoTransactor wraps fn in a MongoDB transaction. Transactions need a
// replica set; when disabled fn runs directly and a failure part way
// leaves what was already written.
type MongoTransactor struct {
	client  *mongo.Client
	enabled bool
}

func NewMongoTransactor(client *mongo.Client, enabled bool) *MongoTransactor {
	return &MongoTransactor{client: client, enabled: enabled}
}

func (t *MongoTransactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if t == nil || !t.enabled || t.client == nil {
		return fn(ctx)
	}

	sess, err := t.client.StartSession()
	if err != nil {
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}
