package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/selection"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type selectionDocument struct {
	SessionID     string     `bson:"_id"`
	UserPlayers   []string   `bson:"user_players"`
	UserCaptain   string     `bson:"user_captain"`
	FriendPlayers []string   `bson:"friend_players"`
	FriendCaptain string     `bson:"friend_captain"`
	IsFrozen      bool       `bson:"is_frozen"`
	FrozenAt      *time.Time `bson:"frozen_at,omitempty"`
	UpdatedAt     time.Time  `bson:"updated_at"`
}

func selectionToDocument(sel selection.Selection) selectionDocument {
	return selectionDocument{
		SessionID:     sel.SessionID,
		UserPlayers:   sel.UserPlayers,
		UserCaptain:   sel.UserCaptain,
		FriendPlayers: sel.FriendPlayers,
		FriendCaptain: sel.FriendCaptain,
		IsFrozen:      sel.IsFrozen,
		FrozenAt:      sel.FrozenAt,
		UpdatedAt:     sel.UpdatedAt,
	}
}

func (d selectionDocument) toDomain() selection.Selection {
	return selection.Selection{
		SessionID:     d.SessionID,
		UserPlayers:   d.UserPlayers,
		UserCaptain:   d.UserCaptain,
		FriendPlayers: d.FriendPlayers,
		FriendCaptain: d.FriendCaptain,
		IsFrozen:      d.IsFrozen,
		FrozenAt:      d.FrozenAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

type SelectionRepository struct {
	collection *mongo.Collection
}

func NewSelectionRepository(db *DB) *SelectionRepository {
	return &SelectionRepository{collection: db.Collection("selections")}
}

func (r *SelectionRepository) GetBySessionID(ctx context.Context, sessionID string) (selection.Selection, error) {
	var doc selectionDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": sessionID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return selection.Selection{}, errors.Wrapf(ErrNotFound, "selection for session %s", sessionID)
	}
	if err != nil {
		return selection.Selection{}, errors.Wrapf(err, "find selection for session %s", sessionID)
	}
	return doc.toDomain(), nil
}

func (r *SelectionRepository) Save(ctx context.Context, sel selection.Selection) error {
	doc := selectionToDocument(sel)
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": doc.SessionID},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrapf(err, "upsert selection for session %s", doc.SessionID)
	}
	return nil
}
