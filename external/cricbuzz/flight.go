package cricbuzz

import (
	"regexp"
	"strings"

	sonic "github.com/bytedance/sonic"
	"github.com/valyala/bytebufferpool"
)

// Cricbuzz pages stream their hydration data as numbered flight chunks:
// script fragments of the form self.__next_f.push([1,"..."]) where the pushed
// string is a JSON-escaped literal that may itself contain a large embedded
// JSON object under a known field name.
var flightPushRegex = regexp.MustCompile(`self\.__next_f\.push\(\[\s*\d+\s*,\s*"((?:\\[\s\S]|[^"\\])*)"\s*\]\)`)

// extractFlightStrings decodes every flight chunk literal in the page. A
// literal that fails JSON string decoding is kept raw rather than dropped;
// the embedded field may still be sliceable from the escaped text.
func extractFlightStrings(html string) []string {
	matches := flightPushRegex.FindAllStringSubmatch(html, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, unescapeFlightLiteral(m[1]))
	}
	return out
}

func unescapeFlightLiteral(raw string) string {
	if !strings.ContainsRune(raw, '\\') {
		return raw
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)
	_ = buf.WriteByte('"')
	_, _ = buf.WriteString(raw)
	_ = buf.WriteByte('"')

	var decoded string
	if err := sonic.Unmarshal(buf.Bytes(), &decoded); err != nil {
		return raw
	}
	return decoded
}

// sliceBalancedJSON returns the JSON value starting at or after startIndex,
// found by scanning to the first { or [ and tracking bracket depth while
// skipping quoted string contents, including escaped quotes. A naive regex
// cannot do this: it truncates on the first nested close bracket.
func sliceBalancedJSON(text string, startIndex int) (string, bool) {
	if startIndex < 0 || startIndex >= len(text) {
		return "", false
	}

	i := startIndex
	for i < len(text) && text[i] != '{' && text[i] != '[' {
		i++
	}
	if i >= len(text) {
		return "", false
	}

	open := text[i]
	var close byte = '}'
	if open == '[' {
		close = ']'
	}

	depth := 0
	inString := false
	escaped := false
	for j := i; j < len(text); j++ {
		ch := text[j]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
		}
		if depth == 0 && (ch == open || ch == close) {
			return text[i : j+1], true
		}
	}
	return "", false
}

// ExtractNamedJSON pulls the JSON value stored under fieldName out of a
// page's flight chunks. The field may appear in several chunks; the first
// slice that parses cleanly wins. Returns nil when no chunk yields a parse.
func ExtractNamedJSON(html, fieldName string) []byte {
	marker := `"` + fieldName + `":`
	for _, chunk := range extractFlightStrings(html) {
		idx := strings.Index(chunk, marker)
		if idx < 0 {
			continue
		}
		value, ok := sliceBalancedJSON(chunk, idx+len(marker))
		if !ok {
			continue
		}
		var probe any
		if err := sonic.UnmarshalString(value, &probe); err != nil {
			continue
		}
		return []byte(value)
	}
	return nil
}
