package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/platform/logging"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

var ErrNotFound = errors.New("mongo: not found")

const connectTimeout = 10 * time.Second

// DB wraps one connected database handle shared by all repositories.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
}

func Connect(ctx context.Context, uri, database string, logger *logging.Logger) (*DB, error) {
	if logger == nil {
		logger = logging.Default()
	}
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "connect to mongodb")
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongodb")
	}

	logger.InfoContext(ctx, "mongodb connected", "database", database)
	return &DB{client: client, database: client.Database(database)}, nil
}

func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

func (db *DB) Close(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}
