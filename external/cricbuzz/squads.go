package cricbuzz

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	playingXIRegex   = regexp.MustCompile(`(?i)playing\s*xi`)
	playerSplitRegex = regexp.MustCompile(`[,•|\n]`)
	captainTagRegex  = regexp.MustCompile(`(?i)\((?:c|wk|c & wk|c&wk)\)`)
)

// SquadResult is the usable outcome of squad resolution for one match.
// Players is the union of Playing XI names and profile-link names, so bench
// players stay visible; PlayingXI holds the parsed lineup alone.
type SquadResult struct {
	MatchID   string
	Players   []string
	PlayingXI []string
	SourceURL string
}

// parseSquadNames pulls player display names out of a match, scorecard or
// squads page. Playing XI text blocks reflect the actual lineup; profile
// links add bench players. The first return is the deduplicated union with
// XI names first, the second the XI names alone.
func parseSquadNames(html string) (players, playingXI []string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, nil
	}

	playingXI = parsePlayingXIBlocks(doc)
	seen := make(map[string]struct{}, len(playingXI))
	for _, name := range playingXI {
		seen[strings.ToLower(name)] = struct{}{}
	}
	players = append(players, playingXI...)
	for _, name := range parseProfileLinks(doc) {
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		players = append(players, name)
	}
	return players, playingXI
}

// parsePlayingXIBlocks finds elements whose text mentions "Playing XI" and
// splits the block into names. A block only counts when it yields at least
// eight names, which filters out headings and nav fragments.
func parsePlayingXIBlocks(doc *goquery.Document) []string {
	var names []string
	seen := make(map[string]struct{})

	doc.Find("div,section,td,li,p").Each(func(_ int, s *goquery.Selection) {
		text := selectionText(s)
		if !playingXIRegex.MatchString(text) {
			return
		}
		// Keep the walk on leaf-ish blocks: a container whose child also
		// mentions Playing XI would double count every name.
		if s.Children().FilterFunction(func(_ int, c *goquery.Selection) bool {
			return playingXIRegex.MatchString(c.Text())
		}).Length() > 0 {
			return
		}

		block := playingXIRegex.Split(text, 2)
		if len(block) < 2 {
			return
		}
		candidates := splitPlayerList(block[1])
		if len(candidates) < 8 {
			return
		}
		for _, name := range candidates {
			key := strings.ToLower(name)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			names = append(names, name)
		}
	})

	return names
}

func parseProfileLinks(doc *goquery.Document) []string {
	var names []string
	seen := make(map[string]struct{})

	doc.Find(`a[href*="/profiles/"]`).Each(func(_ int, a *goquery.Selection) {
		name := cleanPlayerName(a.Text())
		if len(name) < 3 || len(name) > 40 {
			return
		}
		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			return
		}
		seen[key] = struct{}{}
		names = append(names, name)
	})

	return names
}

func splitPlayerList(block string) []string {
	parts := playerSplitRegex.Split(block, -1)
	names := make([]string, 0, len(parts))
	for _, part := range parts {
		name := cleanPlayerName(part)
		if len(name) < 3 || len(name) > 40 {
			continue
		}
		names = append(names, name)
	}
	return names
}

func cleanPlayerName(value string) string {
	v := normalizeWhitespace(value)
	v = captainTagRegex.ReplaceAllString(v, "")
	// Leading punctuation is left behind when a name follows the
	// "Playing XI:" label in the same text node.
	v = strings.TrimLeft(v, ":;-– ")
	return strings.TrimSpace(v)
}

// squadPageCandidates builds the ordered list of pages to try for a match's
// squad. A scorecard link discovered on an earlier page can be promoted to
// the front by the caller.
func squadPageCandidates(baseURL, matchID, matchURL string) []string {
	candidates := make([]string, 0, 6)
	push := func(url string) {
		if url == "" {
			return
		}
		for _, existing := range candidates {
			if existing == url {
				return
			}
		}
		candidates = append(candidates, url)
	}

	if matchURL != "" {
		push(matchURL)
		push(strings.Replace(matchURL, "/live-cricket-scores/", "/cricket-scores/", 1))
		push(strings.TrimRight(matchURL, "/") + "/scorecard")
		push(strings.Replace(strings.TrimRight(matchURL, "/"), "/live-cricket-scores/", "/cricket-match-squads/", 1))
	}
	push(baseURL + "/live-cricket-scorecard/" + matchID)
	push(baseURL + "/live-cricket-scores/" + matchID + "/scorecard")
	push(baseURL + "/cricket-scores/" + matchID + "/scorecard")

	return candidates
}

// findScorecardHref looks for an explicit scorecard link on a fetched page so
// the resolver can jump straight to the richest squad source.
func findScorecardHref(baseURL, html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return ""
	}
	href := ""
	doc.Find(`a[href*="scorecard"]`).EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if v, ok := a.Attr("href"); ok && matchHrefRegex.MatchString(v) {
			href = absoluteURL(baseURL, v)
			return false
		}
		return true
	})
	return href
}
