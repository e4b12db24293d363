package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/session"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sessionDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	FriendID  string    `bson:"friend_id"`
	MatchID   string    `bson:"match_id"`
	MatchName string    `bson:"match_name"`
	RuleSetID string    `bson:"rule_set_id"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d sessionDocument) toDomain() session.Session {
	return session.Session{
		ID:        d.ID,
		UserID:    d.UserID,
		FriendID:  d.FriendID,
		MatchID:   d.MatchID,
		MatchName: d.MatchName,
		RuleSetID: d.RuleSetID,
		CreatedAt: d.CreatedAt,
	}
}

type SessionRepository struct {
	collection *mongo.Collection
}

func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{collection: db.Collection("sessions")}
}

func (r *SessionRepository) GetByID(ctx context.Context, id string) (session.Session, error) {
	var doc sessionDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return session.Session{}, errors.Wrapf(ErrNotFound, "session %s", id)
	}
	if err != nil {
		return session.Session{}, errors.Wrapf(err, "find session %s", id)
	}
	return doc.toDomain(), nil
}

func (r *SessionRepository) ListCreatedSince(ctx context.Context, cutoff time.Time, limit int) ([]session.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts = opts.SetLimit(int64(limit))
	}

	cursor, err := r.collection.Find(ctx, bson.M{"created_at": bson.M{"$gte": cutoff}}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find recent sessions")
	}
	defer cursor.Close(ctx)

	var docs []sessionDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrap(err, "decode recent sessions")
	}

	out := make([]session.Session, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}
