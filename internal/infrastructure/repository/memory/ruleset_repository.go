package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/ruleset"
)

type RuleSetRepository struct {
	mu    sync.RWMutex
	items map[string]ruleset.RuleSet
}

func NewRuleSetRepository(seed ...ruleset.RuleSet) *RuleSetRepository {
	r := &RuleSetRepository{items: make(map[string]ruleset.RuleSet, len(seed))}
	for _, item := range seed {
		r.items[item.ID] = item
	}
	return r
}

func (r *RuleSetRepository) GetByID(_ context.Context, id string) (ruleset.RuleSet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[id]
	if !ok {
		return ruleset.RuleSet{}, ErrNotFound
	}
	return cloneRuleSet(item), nil
}

func (r *RuleSetRepository) Put(item ruleset.RuleSet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items[item.ID] = cloneRuleSet(item)
}

func cloneRuleSet(item ruleset.RuleSet) ruleset.RuleSet {
	copied := item
	copied.Rules = append([]ruleset.Rule(nil), item.Rules...)
	return copied
}

// RuleSetIDStandard identifies the seeded standard template.
const RuleSetIDStandard = "ruleset-standard"

// SeedRuleSets returns the standard template used across tests and local runs.
// The rules go through the same ingest validation as user-supplied ones.
func SeedRuleSets() []ruleset.RuleSet {
	captain := 2.0
	inputs := []ruleset.RuleInput{
		{Event: ruleset.EventRun, Points: 1},
		{Event: ruleset.EventFour, Points: 1},
		{Event: ruleset.EventSix, Points: 2},
		{Event: ruleset.EventWicket, Points: 25},
		{Event: ruleset.EventCatch, Points: 8},
		{Event: ruleset.EventRunout, Points: 12},
		{Event: ruleset.EventFifty, Points: 8},
		{Event: ruleset.EventHundred, Points: 16},
		{Event: ruleset.EventThreeWicket, Points: 8},
		{Event: ruleset.EventFiveWicket, Points: 16},
		{Event: ruleset.EventCaptainMultiplier, Multiplier: &captain},
	}
	rules, err := ruleset.ParseRules(inputs)
	if err != nil {
		panic("memory: standard rule set is invalid: " + err.Error())
	}
	return []ruleset.RuleSet{
		{
			ID:         RuleSetIDStandard,
			Name:       "Standard",
			IsTemplate: true,
			Rules:      rules,
		},
	}
}
