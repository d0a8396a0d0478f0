package format

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestValidate(t *testing.T) {
	for in, want := range map[string]string{"": "json", "JSON": "json", " edn ": "edn"} {
		got, err := Validate(in)
		if err != nil || got != want {
			t.Fatalf("Validate(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := Validate("yaml"); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestWrite_JSONPassesRawBackendPayload(t *testing.T) {
	var buf bytes.Buffer
	raw := json.RawMessage(`[{"_id":"c1","name":"Acme"}]`)
	if err := Write(&buf, map[string]any{"data": raw}, "json", false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := buf.String(); got != `{"data":[{"_id":"c1","name":"Acme"}]}`+"\n" {
		t.Fatalf("unexpected json: %q", got)
	}
}

func TestWriteEDN_Compact(t *testing.T) {
	var buf bytes.Buffer
	v := map[string]any{
		"data": []any{map[string]any{"name": "Acme", "count": 12345678901234567, "ok": true, "eta": nil}},
	}
	if err := WriteEDN(&buf, v, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := `{:data [{:count 12345678901234567 :eta nil :name "Acme" :ok true}]}` + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestWriteEDN_PrettyAndEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteEDN(&buf, map[string]any{"data": []any{}, "meta": map[string]any{"a b": 1}}, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := strings.Join([]string{
		"{",
		"  :data []",
		"  :meta {",
		"    :a-b 1",
		"  }",
		"}",
	}, "\n") + "\n"
	if got := buf.String(); got != want {
		t.Fatalf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestEdnKeyword_NonKeywordKeysStayStrings(t *testing.T) {
	if got := ednKeyword("1st"); got != `"1st"` {
		t.Fatalf("got %q", got)
	}
	if got := ednKeyword("projectId"); got != ":projectId" {
		t.Fatalf("got %q", got)
	}
}
