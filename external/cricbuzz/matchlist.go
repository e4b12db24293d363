package cricbuzz

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/riskibarqy/fantasy-cricket/internal/domain/match"
)

type listingKind int

const (
	listingLiveToday listingKind = iota
	listingUpcoming
)

var (
	whitespaceRegex = regexp.MustCompile(`\s+`)
	matchHrefRegex  = regexp.MustCompile(`(?i)/(?:live-)?cricket-scores/\d+/`)
	matchIDRegex    = regexp.MustCompile(`(?i)/(?:live-)?cricket-scores/(\d+)/`)

	liveTokenRegex      = regexp.MustCompile(`(?i)\bLIVE\b`)
	inProgressRegex     = regexp.MustCompile(`(?i)opt to bat|stumps|innings|\b\d+/\d+\b|\bov\b`)
	startTimeLineRegex  = regexp.MustCompile(`(?i)match starts|starts in|\btoday\b|\btomorrow\b|\d{1,2}:\d{2}|\b(?:am|pm)\b|\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)\b`)
	startedOrDoneRegex  = regexp.MustCompile(`(?i)opt to bat|\bwon\b|\b\d+/\d+\b|stumps|innings|\bov\b`)
	looksUpcomingRegex  = regexp.MustCompile(`(?i)preview|match starts|starts in|\btoday\b|\btomorrow\b|\d{1,2}:\d{2}|\b(?:am|pm)\b`)
	notTeamLineRegex    = regexp.MustCompile(`(?i)\b(?:LIVE|TODAY|RESULT|SCORECARD|PREVIEW)\b`)
	scheduleVocabRegex  = regexp.MustCompile(`(?i)match starts|starts in|scheduled|today,|tomorrow,|mins|\bov\b|\d|see all`)
	teamSeparatorRegex  = regexp.MustCompile(`(?i)\s+vs\s+|\s+v/s\s+|\s+v\s+`)
	embeddedFormatRegex = regexp.MustCompile(`(?is)"matchId"\s*:\s*(\d+).{0,700}?"matchFormat"\s*:\s*"(T20I?|ODI|TEST)"`)
)

func normalizeWhitespace(text string) string {
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
}

func absoluteURL(baseURL, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return baseURL + href
}

func extractMatchID(url string) string {
	m := matchIDRegex.FindStringSubmatch(url)
	if m == nil {
		return ""
	}
	return m[1]
}

// scanEmbeddedFormats harvests per-matchId format fields from the JSON blobs
// embedded in a listing page, so most summaries need no extra request.
func scanEmbeddedFormats(html string) map[string]string {
	scan := strings.ReplaceAll(html, `\"`, `"`)
	out := make(map[string]string)
	for _, m := range embeddedFormatRegex.FindAllStringSubmatch(scan, -1) {
		if format := match.ParseFormat(m[2]); format != "" {
			if _, exists := out[m[1]]; !exists {
				out[m[1]] = format
			}
		}
	}
	return out
}

// selectMatchAnchors picks up the listing's match links. The class selector
// with the misspelled "higlight" is what the site actually ships; the
// corrected spelling and a plain href filter are fallbacks.
func selectMatchAnchors(doc *goquery.Document) *goquery.Selection {
	if s := doc.Find("a.ds-no-tap-higlight"); s.Length() > 0 {
		return s
	}
	if s := doc.Find("a.ds-no-tap-highlight"); s.Length() > 0 {
		return s
	}
	return doc.Find(`a[href*="/live-cricket-scores/"], a[href*="/cricket-scores/"]`)
}

func selectionText(s *goquery.Selection) string {
	clone := s.Clone()
	clone.Find("script,style,noscript").Remove()
	return clone.Text()
}

func extractLines(s *goquery.Selection) []string {
	raw := strings.Split(selectionText(s), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = normalizeWhitespace(line)
		if line == "" {
			continue
		}
		if len(lines) > 0 && lines[len(lines)-1] == line {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// pickCardContainer walks up from a match anchor until it finds an ancestor
// that looks like a single match card: bounded text (no runaway multi-match
// container) and exactly one match-link descendant.
func pickCardContainer(a *goquery.Selection) *goquery.Selection {
	current := a
	for i := 0; i < 6; i++ {
		parent := current.Parent()
		if parent.Length() == 0 {
			break
		}

		text := normalizeWhitespace(parent.Text())
		matchLinks := 0
		parent.Find(`a[href*="/live-cricket-scores/"], a[href*="/cricket-scores/"]`).Each(func(_ int, link *goquery.Selection) {
			if href, ok := link.Attr("href"); ok && matchHrefRegex.MatchString(href) {
				matchLinks++
			}
		})

		if len(text) > 0 && len(text) <= 600 && matchLinks == 1 {
			return parent
		}
		current = parent
	}
	return nil
}

func isLikelyTeamName(line string) bool {
	if len(line) < 2 || len(line) > 40 {
		return false
	}
	if !strings.ContainsFunc(line, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}) {
		return false
	}
	if notTeamLineRegex.MatchString(line) {
		return false
	}
	if scheduleVocabRegex.MatchString(line) {
		return false
	}
	return true
}

func cleanTeamName(value string) string {
	v := normalizeWhitespace(value)
	for _, sep := range []string{" - ", " – ", " — "} {
		v = strings.Split(v, sep)[0]
	}
	return strings.TrimSpace(v)
}

type matchCard struct {
	matchURL      string
	matchName     string
	team1         string
	team2         string
	status        string
	startTimeText string
	contextText   string
	rawText       string
}

func parseMatchCard(baseURL string, a *goquery.Selection) matchCard {
	href, _ := a.Attr("href")
	card := matchCard{
		matchURL: absoluteURL(baseURL, href),
		rawText:  normalizeWhitespace(a.Text()),
	}

	container := pickCardContainer(a)
	source := a
	card.contextText = card.rawText
	if container != nil {
		source = container
		card.contextText = normalizeWhitespace(container.Text())
	}
	lines := extractLines(source)

	card.status = match.StatusToday
	liveLine := false
	for _, line := range lines {
		if strings.EqualFold(line, "LIVE") {
			liveLine = true
			break
		}
	}
	if liveLine || liveTokenRegex.MatchString(card.contextText) || inProgressRegex.MatchString(card.contextText) {
		card.status = match.StatusLive
	}

	for _, line := range lines {
		if startTimeLineRegex.MatchString(line) {
			card.startTimeText = line
			break
		}
	}

	vsLine := ""
	for _, line := range append([]string{card.rawText}, lines...) {
		if teamSeparatorRegex.MatchString(line) {
			vsLine = line
			break
		}
	}
	if vsLine != "" {
		parts := teamSeparatorRegex.Split(vsLine, 3)
		if len(parts) >= 2 {
			card.team1 = cleanTeamName(parts[0])
			card.team2 = cleanTeamName(parts[1])
		}
	} else {
		candidates := make([]string, 0, 2)
		for _, line := range lines {
			if isLikelyTeamName(line) {
				candidates = append(candidates, line)
			}
			if len(candidates) == 2 {
				break
			}
		}
		if len(candidates) == 2 {
			card.team1 = candidates[0]
			card.team2 = candidates[1]
		}
	}

	for _, line := range lines {
		if line == card.team1 || line == card.team2 || line == "LIVE" || line == card.startTimeText {
			continue
		}
		if len(line) > 2 {
			card.matchName = line
			break
		}
	}
	if card.matchName == "" && card.team1 != "" && card.team2 != "" {
		card.matchName = card.team1 + " vs " + card.team2
	}
	if card.matchName == "" {
		card.matchName = card.rawText
	}

	return card
}

// parseListingPage turns a listing page into deduplicated match summaries.
// Entries without a resolvable match id are dropped. The upcoming listing
// forces UPCOMING and filters out cards that look started or finished.
func parseListingPage(baseURL, html string, kind listingKind) []match.Summary {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil
	}

	embeddedFormats := scanEmbeddedFormats(html)
	seen := make(map[string]struct{})
	out := make([]match.Summary, 0, 16)

	selectMatchAnchors(doc).Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !matchHrefRegex.MatchString(href) {
			return
		}

		card := parseMatchCard(baseURL, a)
		if card.matchURL == "" || len(card.rawText) < 3 {
			return
		}
		matchID := extractMatchID(card.matchURL)
		if matchID == "" {
			return
		}
		if _, dup := seen[matchID]; dup {
			return
		}

		status := card.status
		if kind == listingUpcoming {
			started := startedOrDoneRegex.MatchString(card.rawText)
			upcoming := looksUpcomingRegex.MatchString(card.rawText)
			if started && !upcoming {
				return
			}
			if !upcoming {
				return
			}
			status = match.StatusUpcoming
		}

		format := embeddedFormats[matchID]
		if format == "" {
			format = match.ParseFormat(firstNonEmpty(card.contextText, card.matchName, card.rawText))
		}
		if format == "" {
			format = match.ParseFormat(card.matchURL)
		}

		seen[matchID] = struct{}{}
		out = append(out, match.Summary{
			MatchID:     matchID,
			MatchName:   card.matchName,
			Teams:       []match.TeamRef{{Name: card.team1}, {Name: card.team2}},
			MatchType:   format,
			MatchStatus: status,
			StartTime:   card.startTimeText,
			SourceURL:   card.matchURL,
		})
	})

	return out
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
