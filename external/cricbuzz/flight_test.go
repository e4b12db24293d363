package cricbuzz

import (
	"strings"
	"testing"

	sonic "github.com/bytedance/sonic"
)

func TestSliceBalancedJSON_NestedStructures(t *testing.T) {
	t.Parallel()

	text := `garbage before "scorecardApiData":{"a":{"b":1},"c":[1,2,{"d":3}]} trailing junk`
	start := strings.Index(text, `"scorecardApiData":`) + len(`"scorecardApiData":`)

	got, ok := sliceBalancedJSON(text, start)
	if !ok {
		t.Fatal("expected a balanced slice")
	}
	if got != `{"a":{"b":1},"c":[1,2,{"d":3}]}` {
		t.Fatalf("unexpected slice: %s", got)
	}
}

func TestSliceBalancedJSON_QuotedBracesAndEscapedQuotes(t *testing.T) {
	t.Parallel()

	text := `{"status":"innings break {not a brace}","note":"he said \"}\" loudly","n":1} tail`

	got, ok := sliceBalancedJSON(text, 0)
	if !ok {
		t.Fatal("expected a balanced slice")
	}
	if !strings.HasSuffix(got, `"n":1}`) {
		t.Fatalf("slice ended early: %s", got)
	}

	var decoded map[string]any
	if err := sonic.UnmarshalString(got, &decoded); err != nil {
		t.Fatalf("slice is not valid JSON: %v", err)
	}
	if decoded["n"].(float64) != 1 {
		t.Fatalf("unexpected decode: %+v", decoded)
	}
}

func TestSliceBalancedJSON_ArrayValue(t *testing.T) {
	t.Parallel()

	got, ok := sliceBalancedJSON(`: [1,[2,3],{"a":"]"}] rest`, 0)
	if !ok {
		t.Fatal("expected a balanced slice")
	}
	if got != `[1,[2,3],{"a":"]"}]` {
		t.Fatalf("unexpected slice: %s", got)
	}
}

func TestSliceBalancedJSON_Unterminated(t *testing.T) {
	t.Parallel()

	if _, ok := sliceBalancedJSON(`{"a":{"b":1}`, 0); ok {
		t.Fatal("unterminated object must not slice")
	}
	if _, ok := sliceBalancedJSON(`no json here`, 0); ok {
		t.Fatal("text without a value must not slice")
	}
}

func TestExtractFlightStrings_DecodesEscapedLiterals(t *testing.T) {
	t.Parallel()

	html := `<script>self.__next_f.push([1,"plain fragment"])</script>` +
		`<script>self.__next_f.push([2,"{\"key\":\"va\\\"lue\"}"])</script>`

	chunks := extractFlightStrings(html)
	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0] != "plain fragment" {
		t.Fatalf("unexpected first chunk: %q", chunks[0])
	}
	if chunks[1] != `{"key":"va\"lue"}` {
		t.Fatalf("unexpected second chunk: %q", chunks[1])
	}
}

func TestExtractNamedJSON_FirstParseableFragmentWins(t *testing.T) {
	t.Parallel()

	html := `<script>self.__next_f.push([0,"noise \"payload\": broken {"])</script>` +
		`<script>self.__next_f.push([1,"before \"payload\":{\"a\":{\"b\":1},\"c\":[1,2,{\"d\":3}]} after"])</script>`

	raw := ExtractNamedJSON(html, "payload")
	if raw == nil {
		t.Fatal("expected extraction to succeed")
	}

	var decoded struct {
		A struct {
			B int `json:"b"`
		} `json:"a"`
		C []any `json:"c"`
	}
	if err := sonic.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("decode extracted JSON: %v", err)
	}
	if decoded.A.B != 1 || len(decoded.C) != 3 {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}

func TestExtractNamedJSON_MissingField(t *testing.T) {
	t.Parallel()

	html := `<script>self.__next_f.push([1,"{\"other\":1}"])</script>`
	if raw := ExtractNamedJSON(html, "payload"); raw != nil {
		t.Fatalf("expected nil for missing field, got %s", raw)
	}
}
