package cricbuzz

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/playerstats"
)

// harvestNodeCap bounds the generic id/name walk so a malformed blob cannot
// pin the worker.
const harvestNodeCap = 200000

// flexInt decodes JSON numbers that the site sometimes serializes as strings.
type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*f = 0
		return nil
	}
	s = strings.Trim(s, `"`)
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		// Overs like "4.2" show up in fields we never read as ints, but
		// tolerate them anyway instead of failing the whole innings.
		*f = 0
		return nil
	}
	*f = flexInt(n)
	return nil
}

type flexID string

func (f *flexID) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	s = strings.Trim(s, `"`)
	if s == "null" {
		s = ""
	}
	*f = flexID(s)
	return nil
}

type scorecardPayload struct {
	ScoreCard   []scorecardInnings `json:"scoreCard"`
	MatchHeader struct {
		State  string `json:"state"`
		Status string `json:"status"`
	} `json:"matchHeader"`
}

type scorecardInnings struct {
	BatTeamDetails struct {
		BatsmenData map[string]batsmanEntry `json:"batsmenData"`
	} `json:"batTeamDetails"`
	BowlTeamDetails struct {
		BowlersData map[string]bowlerEntry `json:"bowlersData"`
	} `json:"bowlTeamDetails"`
}

type batsmanEntry struct {
	BatID        flexID  `json:"batId"`
	BatName      string  `json:"batName"`
	BatShortName string  `json:"batShortName"`
	Runs         flexInt `json:"runs"`
	Fours        flexInt `json:"fours"`
	Sixes        flexInt `json:"sixes"`
	WicketCode   string  `json:"wicketCode"`
	FielderID1   flexID  `json:"fielderId1"`
	FielderID2   flexID  `json:"fielderId2"`
}

type bowlerEntry struct {
	BowlerID   flexID  `json:"bowlerId"`
	BowlName   string  `json:"bowlName"`
	BowlerName string  `json:"bowlerName"`
	Wickets    flexInt `json:"wickets"`
}

// StatsExtract is the per-match result of scorecard parsing: accumulated raw
// stats and a best-effort id to display-name index for later squad matching.
type StatsExtract struct {
	MatchID   string
	SourceURL string
	StatsByID map[string]playerstats.Record
	NameByID  map[string]string
	State     string
	Status    string
}

// parseScorecard decodes the page-embedded scorecard blob and accumulates
// batting, bowling and fielding stats per player id across all innings.
// A payload without a scoreCard array is treated as absent.
func parseScorecard(raw []byte) (*StatsExtract, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var payload scorecardPayload
	if err := sonic.Unmarshal(raw, &payload); err != nil {
		return nil, false
	}
	if payload.ScoreCard == nil {
		return nil, false
	}

	extract := &StatsExtract{
		StatsByID: make(map[string]playerstats.Record),
		NameByID:  make(map[string]string),
		State:     payload.MatchHeader.State,
		Status:    payload.MatchHeader.Status,
	}

	add := func(id string, delta playerstats.Record) {
		if id == "" {
			return
		}
		rec := extract.StatsByID[id]
		rec.PlayerID = id
		rec.Add(delta)
		extract.StatsByID[id] = rec
	}
	name := func(id, display string) {
		if id == "" || display == "" {
			return
		}
		if _, exists := extract.NameByID[id]; !exists {
			extract.NameByID[id] = display
		}
	}

	for _, innings := range payload.ScoreCard {
		for _, bat := range innings.BatTeamDetails.BatsmenData {
			id := string(bat.BatID)
			add(id, playerstats.Record{
				Runs:  int(bat.Runs),
				Fours: int(bat.Fours),
				Sixes: int(bat.Sixes),
			})
			name(id, firstNonEmpty(bat.BatName, bat.BatShortName))

			switch code := strings.ToUpper(bat.WicketCode); {
			case strings.Contains(code, "CAUGHT"):
				add(string(bat.FielderID1), playerstats.Record{Catches: 1})
			case strings.Contains(code, "RUNOUT"), strings.Contains(code, "RUN OUT"):
				f1 := string(bat.FielderID1)
				f2 := string(bat.FielderID2)
				add(f1, playerstats.Record{Runouts: 1})
				if f2 != "" && f2 != f1 {
					add(f2, playerstats.Record{Runouts: 1})
				}
			}
		}
		for _, bowl := range innings.BowlTeamDetails.BowlersData {
			id := string(bowl.BowlerID)
			add(id, playerstats.Record{Wickets: int(bowl.Wickets)})
			name(id, firstNonEmpty(bowl.BowlName, bowl.BowlerName))
		}
	}

	harvestIDNamePairs(raw, extract.NameByID)

	return extract, true
}

// harvestIDNamePairs walks the decoded blob generically and records every
// id/name shaped pair it can find, first occurrence winning. The scorecard
// blob carries many player references outside batsmenData, and the extra
// names improve squad matching for players who have not batted or bowled.
func harvestIDNamePairs(raw []byte, nameByID map[string]string) {
	var root any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return
	}

	visited := 0
	var walk func(node any)
	walk = func(node any) {
		if visited >= harvestNodeCap {
			return
		}
		visited++

		switch v := node.(type) {
		case map[string]any:
			for _, pair := range [][2]string{
				{"batId", "batName"},
				{"bowlerId", "bowlerName"},
				{"bowlerId", "bowlName"},
				{"playerId", "playerName"},
				{"id", "name"},
			} {
				id := stringishField(v, pair[0])
				display := stringishField(v, pair[1])
				if id != "" && display != "" {
					if _, exists := nameByID[id]; !exists {
						nameByID[id] = display
					}
				}
			}
			for _, child := range v {
				walk(child)
			}
		case []any:
			for _, child := range v {
				walk(child)
			}
		}
	}
	walk(root)
}

func stringishField(m map[string]any, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	switch v := raw.(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatInt(int64(v), 10)
	default:
		return ""
	}
}
