package docs

import "testing"

func TestTopicsAreSortedAndReadable(t *testing.T) {
	topics := Topics()
	want := []string{"backend", "config", "session", "tui"}
	if len(topics) != len(want) {
		t.Fatalf("topics = %v, want %v", topics, want)
	}
	for i, topic := range want {
		if topics[i] != topic {
			t.Fatalf("topics = %v, want %v", topics, want)
		}
		body, ok := Get(topic)
		if !ok || body == "" {
			t.Fatalf("Get(%q) returned nothing", topic)
		}
	}
}

func TestGet_NormalizesAndRejectsPaths(t *testing.T) {
	if _, ok := Get("  TUI "); !ok {
		t.Fatalf("expected case-insensitive lookup")
	}
	for _, topic := range []string{"", "nope", "../docs", "content/tui"} {
		if _, ok := Get(topic); ok {
			t.Fatalf("expected %q to be unknown", topic)
		}
	}
}
