package match

import (
	"regexp"
	"strings"
	"time"
)

const (
	StatusLive      = "LIVE"
	StatusToday     = "TODAY"
	StatusUpcoming  = "UPCOMING"
	StatusCompleted = "COMPLETED"
	StatusUnknown   = "UNKNOWN"
)

const (
	FormatT20  = "T20"
	FormatODI  = "ODI"
	FormatTest = "TEST"
)

// TeamRef identifies one side of a real match.
type TeamRef struct {
	TeamID    string
	Name      string
	ShortName string
}

// Summary represents one discovered real match. Summaries are rebuilt on every
// cache-miss fetch and never persisted as system of record.
type Summary struct {
	MatchID     string
	MatchName   string
	Teams       []TeamRef
	MatchType   string
	MatchStatus string
	StartTime   string
	StartAt     *time.Time
	SourceURL   string
}

var fcPattern = regexp.MustCompile(`\bFC\b`)

// ParseFormat infers the match format from free text. Short formats are
// checked first because tournament names often contain more than one keyword.
func ParseFormat(text string) string {
	if text == "" {
		return ""
	}
	t := strings.ToUpper(text)
	switch {
	case strings.Contains(t, "TWENTY20"), strings.Contains(t, "T20"), strings.Contains(t, "T10"),
		strings.Contains(t, "100 BALL"), strings.Contains(t, "THE HUNDRED"):
		return FormatT20
	case strings.Contains(t, "LIST A"), strings.Contains(t, "ONE DAY"), strings.Contains(t, "ONE-DAY"),
		strings.Contains(t, "50 OVER"), strings.Contains(t, "50-OVER"), strings.Contains(t, "ODI"):
		return FormatODI
	case strings.Contains(t, "FIRST CLASS"), fcPattern.MatchString(t),
		strings.Contains(t, "4 DAY"), strings.Contains(t, "5 DAY"), strings.Contains(t, "TEST"):
		return FormatTest
	case strings.Contains(t, "INTERNATIONAL"):
		// Unlabelled internationals default to the 50-over format.
		return FormatODI
	default:
		return ""
	}
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusUnknown
	}
	return status
}

// HasStarted reports whether a match in the given status has play underway
// or finished. UPCOMING and UNKNOWN both gate scoring operations.
func HasStarted(status string) bool {
	switch NormalizeStatus(status) {
	case StatusLive, StatusToday, StatusCompleted:
		return true
	default:
		return false
	}
}
