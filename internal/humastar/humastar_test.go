package humastar

import (
	"strings"
	"testing"

	"github.com/joeblew999/ngen-visualizer/internal/templates"
)

func TestParseSignals(t *testing.T) {
	s, err := ParseSignals([]byte(`{"layer": "nexus", "toid": "wb-1_2", "count": 3}`))
	if err != nil {
		t.Fatal(err)
	}
	if s.String("layer") != "nexus" || s.String("toid") != "wb-1_2" {
		t.Fatalf("unexpected signals %v", s)
	}
	if s.String("count") != "" {
		t.Fatal("non-string signal should read as empty string")
	}
	if !s.Has("count") || s.Has("missing") {
		t.Fatal("Has mismatch")
	}
}

func TestMustParseRejectsInvalidJSON(t *testing.T) {
	in := &SignalsInput{RawBody: []byte("{")}
	if _, err := in.MustParse(); err == nil {
		t.Fatal("expected error")
	}
}

func TestRenderListEmptyState(t *testing.T) {
	r, err := templates.Embedded()
	if err != nil {
		t.Fatal(err)
	}
	html := RenderList(r, "layer-group", nil, "No layers", "Check the workspace")
	if !strings.Contains(html, "No layers") {
		t.Fatalf("expected empty state, got %s", html)
	}

	html = RenderList(r, "missing-template", []any{1}, "", "")
	if !strings.Contains(html, "template error") {
		t.Fatalf("expected inline template error, got %s", html)
	}
}
