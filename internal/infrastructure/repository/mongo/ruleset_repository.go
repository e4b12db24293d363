package mongo

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ruleDocument struct {
	Event      string  `bson:"event"`
	Points     float64 `bson:"points"`
	Multiplier float64 `bson:"multiplier"`
	Enabled    bool    `bson:"enabled"`
}

type ruleSetDocument struct {
	ID         string         `bson:"_id"`
	OwnerID    string         `bson:"owner_id"`
	FriendID   string         `bson:"friend_id"`
	Name       string         `bson:"name"`
	IsTemplate bool           `bson:"is_template"`
	Rules      []ruleDocument `bson:"rules"`
	CreatedAt  time.Time      `bson:"created_at"`
}

func (d ruleSetDocument) toDomain() ruleset.RuleSet {
	rules := make([]ruleset.Rule, 0, len(d.Rules))
	for _, r := range d.Rules {
		rules = append(rules, ruleset.Rule{
			Event:      r.Event,
			Points:     r.Points,
			Multiplier: r.Multiplier,
			Enabled:    r.Enabled,
		})
	}
	return ruleset.RuleSet{
		ID:         d.ID,
		OwnerID:    d.OwnerID,
		FriendID:   d.FriendID,
		Name:       d.Name,
		IsTemplate: d.IsTemplate,
		Rules:      rules,
		CreatedAt:  d.CreatedAt,
	}
}

type RuleSetRepository struct {
	collection *mongo.Collection
}

func NewRuleSetRepository(db *DB) *RuleSetRepository {
	return &RuleSetRepository{collection: db.Collection("rule_sets")}
}

func (r *RuleSetRepository) GetByID(ctx context.Context, id string) (ruleset.RuleSet, error) {
	var doc ruleSetDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ruleset.RuleSet{}, errors.Wrapf(ErrNotFound, "rule set %s", id)
	}
	if err != nil {
		return ruleset.RuleSet{}, errors.Wrapf(err, "find rule set %s", id)
	}
	return doc.toDomain(), nil
}

// Upsert writes a rule set, replacing any existing document with the same id.
func (r *RuleSetRepository) Upsert(ctx context.Context, set ruleset.RuleSet) error {
	rules := make([]ruleDocument, 0, len(set.Rules))
	for _, rule := range set.Rules {
		rules = append(rules, ruleDocument{
			Event:      rule.Event,
			Points:     rule.Points,
			Multiplier: rule.Multiplier,
			Enabled:    rule.Enabled,
		})
	}
	doc := ruleSetDocument{
		ID:         set.ID,
		OwnerID:    set.OwnerID,
		FriendID:   set.FriendID,
		Name:       set.Name,
		IsTemplate: set.IsTemplate,
		Rules:      rules,
		CreatedAt:  set.CreatedAt,
	}

	opts := options.Replace().SetUpsert(true)
	if _, err := r.collection.ReplaceOne(ctx, bson.M{"_id": set.ID}, doc, opts); err != nil {
		return errors.Wrapf(err, "upsert rule set %s", set.ID)
	}
	return nil
}
