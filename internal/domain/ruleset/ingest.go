package ruleset

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrDuplicateCaptainRule = errors.New("rule set declares captainMultiplier more than once")
	ErrNoRules              = errors.New("rule set has no rules")
)

var validate = validator.New()

// RuleInput is the boundary shape for ingesting rule configuration.
type RuleInput struct {
	Event      string   `json:"event" validate:"required,oneof=run four six wicket catch runout fifty hundred threeWicket fiveWicket captainMultiplier"`
	Points     float64  `json:"points"`
	Multiplier *float64 `json:"multiplier" validate:"omitempty,gt=0"`
	Enabled    *bool    `json:"enabled"`
}

// ParseRules validates boundary input and applies defaults (multiplier 1,
// enabled true). A second captainMultiplier rule is rejected here so the
// engine never has to disambiguate.
func ParseRules(inputs []RuleInput) ([]Rule, error) {
	if len(inputs) == 0 {
		return nil, ErrNoRules
	}

	rules := make([]Rule, 0, len(inputs))
	captainSeen := false
	for i, in := range inputs {
		if err := validate.Struct(in); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}

		if in.Event == EventCaptainMultiplier {
			if captainSeen {
				return nil, fmt.Errorf("%w: rule %d", ErrDuplicateCaptainRule, i)
			}
			captainSeen = true
		}

		rule := Rule{
			Event:      in.Event,
			Points:     in.Points,
			Multiplier: 1,
			Enabled:    true,
		}
		if in.Multiplier != nil {
			rule.Multiplier = *in.Multiplier
		}
		if in.Enabled != nil {
			rule.Enabled = *in.Enabled
		}
		rules = append(rules, rule)
	}

	return rules, nil
}
