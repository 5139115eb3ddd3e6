package templates

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func render(r *Renderer, name string, data any) (string, error) {
	var buf bytes.Buffer
	err := r.RenderToBuffer(&buf, name, data)
	return buf.String(), err
}

func TestEmbeddedFragments(t *testing.T) {
	r, err := Embedded()
	if err != nil {
		t.Fatal(err)
	}

	html, err := render(r, "empty-state", map[string]string{"Title": "Nothing", "Message": "here"})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(html, "Nothing") || !strings.Contains(html, "here") {
		t.Fatalf("unexpected html: %s", html)
	}
}

func TestRenderUnknownTemplate(t *testing.T) {
	r, err := Embedded()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := render(r, "missing", nil); err == nil {
		t.Fatal("expected error for unknown template")
	}
}

func TestReloadFromDirectory(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write("fragments/a.html", `{{define "a"}}one{{end}}`)
	write("pages/p.html", `{{define "p"}}page{{end}}`)

	r, err := New(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got, _ := render(r, "a", nil); got != "one" {
		t.Fatalf("got %q, want one", got)
	}

	write("fragments/a.html", `{{define "a"}}two{{end}}`)
	if err := r.Reload(dir); err != nil {
		t.Fatal(err)
	}
	if got, _ := render(r, "a", nil); got != "two" {
		t.Fatalf("got %q, want two", got)
	}
}

func TestLayerGroupToggles(t *testing.T) {
	r, err := Embedded()
	if err != nil {
		t.Fatal(err)
	}

	group := map[string]any{
		"ID": "nextgen-features", "DisplayName": "NextGen Features", "LayerControl": "checkbox",
		"Layers": []map[string]any{
			{"Title": "Nexus", "Variable": "nexus", "Visible": true, "Features": 2},
			{"Title": "Catchments", "Variable": "catchments", "Visible": false, "Features": 1},
		},
	}
	html, err := render(r, "layer-group", group)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`type="checkbox"`,
		`data-layer="nexus"`,
		`data-bind="visible.nexus"`,
		`data-layer="catchments"`,
		"(2 features)",
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("layer group missing %q:\n%s", want, html)
		}
	}
	if strings.Count(html, " checked") != 1 {
		t.Fatalf("expected only the visible layer checked:\n%s", html)
	}
}

func TestViewerPageWiresLayerControls(t *testing.T) {
	r, err := Embedded()
	if err != nil {
		t.Fatal(err)
	}
	html, err := render(r, "viewer", map[string]any{
		"App":    map[string]any{"Name": "Ngen Visualizer", "Color": "#27ae60"},
		"Map":    map[string]any{"Title": "T", "Subtitle": "S", "Basemaps": []string{"OpenStreetMap", "ESRI", "Stamen"}},
		"Extent": []float64{-87.5, 33.5, -87, 34},
	})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		`data-effect="applyVisibility($visible)"`,
		"vectorLayers[layer.variable] = vl",
		"layer.setVisible(Boolean(visible))",
		`addEventListener("change", () => showBasemap(basemapSelect.value))`,
		`<option value="ESRI">ESRI</option>`,
		`"Stamen": new ol.source.XYZ`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("viewer page missing %q", want)
		}
	}
}
