package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/playerstats"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type sessionStatDocument struct {
	SessionID string    `bson:"session_id"`
	PlayerID  string    `bson:"player_id"`
	Runs      int       `bson:"runs"`
	Fours     int       `bson:"fours"`
	Sixes     int       `bson:"sixes"`
	Wickets   int       `bson:"wickets"`
	Catches   int       `bson:"catches"`
	Runouts   int       `bson:"runouts"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func statToDocument(stat playerstats.SessionStat) sessionStatDocument {
	return sessionStatDocument{
		SessionID: stat.SessionID,
		PlayerID:  stat.PlayerID,
		Runs:      stat.Stats.Runs,
		Fours:     stat.Stats.Fours,
		Sixes:     stat.Stats.Sixes,
		Wickets:   stat.Stats.Wickets,
		Catches:   stat.Stats.Catches,
		Runouts:   stat.Stats.Runouts,
		UpdatedAt: stat.UpdatedAt,
	}
}

func (d sessionStatDocument) toDomain() playerstats.SessionStat {
	return playerstats.SessionStat{
		SessionID: d.SessionID,
		PlayerID:  d.PlayerID,
		Stats: playerstats.Record{
			PlayerID: d.PlayerID,
			Runs:     d.Runs,
			Fours:    d.Fours,
			Sixes:    d.Sixes,
			Wickets:  d.Wickets,
			Catches:  d.Catches,
			Runouts:  d.Runouts,
		},
		UpdatedAt: d.UpdatedAt,
	}
}

type PlayerStatsRepository struct {
	collection *mongo.Collection
}

func NewPlayerStatsRepository(db *DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{collection: db.Collection("session_player_stats")}
}

func (r *PlayerStatsRepository) Upsert(ctx context.Context, stat playerstats.SessionStat) error {
	doc := statToDocument(stat)
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"session_id": doc.SessionID, "player_id": doc.PlayerID},
		bson.M{"$set": doc},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return errors.Wrapf(err, "upsert stats for player %s in session %s", doc.PlayerID, doc.SessionID)
	}
	return nil
}

func (r *PlayerStatsRepository) ListBySession(ctx context.Context, sessionID string) ([]playerstats.SessionStat, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"session_id": sessionID},
		options.Find().SetSort(bson.D{{Key: "player_id", Value: 1}}))
	if err != nil {
		return nil, errors.Wrapf(err, "find stats for session %s", sessionID)
	}
	defer cursor.Close(ctx)

	var docs []sessionStatDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrapf(err, "decode stats for session %s", sessionID)
	}

	out := make([]playerstats.SessionStat, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func (r *PlayerStatsRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"session_id": sessionID}); err != nil {
		return errors.Wrapf(err, "delete stats for session %s", sessionID)
	}
	return nil
}
