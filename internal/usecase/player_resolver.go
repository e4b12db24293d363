package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/riskibarqy/fantasy-cricket/internal/domain/playerstats"
)

var (
	parentheticalRegex = regexp.MustCompile(`\([^)]*\)`)
	keyStripRegex      = regexp.MustCompile("[,†*]")
)

// normalizePlayerKey reduces a display name to a comparable key: keeper and
// captain tags, daggers and commas removed, whitespace collapsed, lowercase.
func normalizePlayerKey(name string) string {
	key := parentheticalRegex.ReplaceAllString(name, " ")
	key = keyStripRegex.ReplaceAllString(key, " ")
	key = strings.Join(strings.Fields(key), " ")
	return strings.ToLower(key)
}

// PlayerResolver maps user-selected player tokens onto scraped per-id stats.
// Tokens may be external numeric ids or free-text names as the user typed
// them, which rarely match the site's display form exactly.
type PlayerResolver struct {
	statsByID map[string]playerstats.Record
	idByKey   map[string]string
	keys      []string
}

func NewPlayerResolver(statsByID map[string]playerstats.Record, nameByID map[string]string) *PlayerResolver {
	r := &PlayerResolver{
		statsByID: statsByID,
		idByKey:   make(map[string]string, len(nameByID)),
	}
	for id, name := range nameByID {
		key := normalizePlayerKey(name)
		if key == "" {
			continue
		}
		if _, exists := r.idByKey[key]; !exists {
			r.idByKey[key] = id
		}
	}
	r.keys = make([]string, 0, len(r.idByKey))
	for key := range r.idByKey {
		r.keys = append(r.keys, key)
	}
	// Sorted keys keep substring resolution deterministic across runs.
	sort.Strings(r.keys)
	return r
}

// Resolve finds the scraped stats for a selected player token. Match order:
// exact external id, then normalized name equality, then bidirectional
// substring. A matched player who has not yet batted, bowled or fielded
// resolves to a zero record with ok still true.
func (r *PlayerResolver) Resolve(token string) (playerstats.Record, bool) {
	token = strings.TrimSpace(token)
	if token == "" {
		return playerstats.Record{}, false
	}

	if rec, ok := r.statsByID[token]; ok {
		return rec, true
	}

	key := normalizePlayerKey(token)
	if key == "" {
		return playerstats.Record{}, false
	}
	if id, ok := r.idByKey[key]; ok {
		return r.statsByID[id], true
	}

	// Substring matching needs a floor or initials like "RG" would match
	// half the scorecard.
	if len(key) < 3 {
		return playerstats.Record{}, false
	}
	for _, candidate := range r.keys {
		if strings.Contains(candidate, key) || (len(candidate) >= 3 && strings.Contains(key, candidate)) {
			return r.statsByID[r.idByKey[candidate]], true
		}
	}
	return playerstats.Record{}, false
}
