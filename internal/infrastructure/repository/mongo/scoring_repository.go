package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/scoring"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type contributionDocument struct {
	Event      string  `bson:"event"`
	Count      int     `bson:"count"`
	UnitPoints float64 `bson:"unit_points"`
	Points     float64 `bson:"points"`
	Multiplier float64 `bson:"multiplier,omitempty"`
	Before     float64 `bson:"before,omitempty"`
	After      float64 `bson:"after,omitempty"`
}

type breakdownRowDocument struct {
	SessionID   string                 `bson:"session_id"`
	Team        string                 `bson:"team"`
	PlayerID    string                 `bson:"player_id"`
	IsCaptain   bool                   `bson:"is_captain"`
	TotalPoints float64                `bson:"total_points"`
	RuleWise    []contributionDocument `bson:"rule_wise"`
	GeneratedAt time.Time              `bson:"generated_at"`
}

func rowToDocument(row scoring.BreakdownRow) breakdownRowDocument {
	contribs := make([]contributionDocument, 0, len(row.RuleWise))
	for _, c := range row.RuleWise {
		contribs = append(contribs, contributionDocument{
			Event:      c.Event,
			Count:      c.Count,
			UnitPoints: c.UnitPoints,
			Points:     c.Points,
			Multiplier: c.Multiplier,
			Before:     c.Before,
			After:      c.After,
		})
	}
	return breakdownRowDocument{
		SessionID:   row.SessionID,
		Team:        row.Team,
		PlayerID:    row.PlayerID,
		IsCaptain:   row.IsCaptain,
		TotalPoints: row.TotalPoints,
		RuleWise:    contribs,
		GeneratedAt: row.GeneratedAt,
	}
}

func (d breakdownRowDocument) toDomain() scoring.BreakdownRow {
	contribs := make([]scoring.Contribution, 0, len(d.RuleWise))
	for _, c := range d.RuleWise {
		contribs = append(contribs, scoring.Contribution{
			Event:      c.Event,
			Count:      c.Count,
			UnitPoints: c.UnitPoints,
			Points:     c.Points,
			Multiplier: c.Multiplier,
			Before:     c.Before,
			After:      c.After,
		})
	}
	return scoring.BreakdownRow{
		SessionID:   d.SessionID,
		Team:        d.Team,
		PlayerID:    d.PlayerID,
		IsCaptain:   d.IsCaptain,
		TotalPoints: d.TotalPoints,
		RuleWise:    contribs,
		GeneratedAt: d.GeneratedAt,
	}
}

type ScoringRepository struct {
	collection *mongo.Collection
}

func NewScoringRepository(db *DB) *ScoringRepository {
	return &ScoringRepository{collection: db.Collection("score_breakdowns")}
}

func (r *ScoringRepository) InsertMany(ctx context.Context, rows []scoring.BreakdownRow) error {
	if len(rows) == 0 {
		return nil
	}

	docs := make([]any, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, rowToDocument(row))
	}
	if _, err := r.collection.InsertMany(ctx, docs); err != nil {
		return errors.Wrapf(err, "insert breakdown rows for session %s", rows[0].SessionID)
	}
	return nil
}

func (r *ScoringRepository) ListBySession(ctx context.Context, sessionID string) ([]scoring.BreakdownRow, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"session_id": sessionID})
	if err != nil {
		return nil, errors.Wrapf(err, "find breakdown rows for session %s", sessionID)
	}
	defer cursor.Close(ctx)

	var docs []breakdownRowDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.Wrapf(err, "decode breakdown rows for session %s", sessionID)
	}

	out := make([]scoring.BreakdownRow, 0, len(docs))
	for _, doc := range docs {
		out = append(out, doc.toDomain())
	}
	return out, nil
}

func (r *ScoringRepository) DeleteBySession(ctx context.Context, sessionID string) error {
	if _, err := r.collection.DeleteMany(ctx, bson.M{"session_id": sessionID}); err != nil {
		return errors.Wrapf(err, "delete breakdown rows for session %s", sessionID)
	}
	return nil
}
