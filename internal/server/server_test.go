package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeblew999/ngen-visualizer/internal/workspace"
)

func writeFixture(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func newTestServer(t *testing.T) (*httptest.Server, workspace.Workspace) {
	t.Helper()
	root := t.TempDir()
	ws := workspace.New(root)
	writeFixture(t, ws.NexusPath(), `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Point","coordinates":[-87.2,33.9]},"properties":{"toid":"wb-12_34"}}]}`)
	writeFixture(t, ws.CatchmentsPath(), `{"type":"FeatureCollection","features":[{"type":"Feature","geometry":{"type":"Polygon","coordinates":[[[-87.5,33.5],[-87.0,33.5],[-87.0,34.0],[-87.5,33.5]]]},"properties":{"toid":"nex_34"}}]}`)
	writeFixture(t, ws.NexusOutputPath("34"), "idx,time,flow\n0,2015-12-01 00:00:00,1.0\n1,2015-12-01 01:00:00,2.0\n")

	srv, err := New(Config{
		Host:      "localhost",
		Port:      "0",
		Workspace: root,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { srv.Close() })

	ts := httptest.NewServer(srv)
	t.Cleanup(ts.Close)
	return ts, ws
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	return string(b)
}

func TestHealthCarriesRequestID(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if resp.Header.Get(RequestIDHeader) == "" {
		t.Fatal("missing request id header")
	}

	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)
	if got := resp.Header.Get(RequestIDHeader); got != "abc-123" {
		t.Fatalf("request id=%q, want abc-123", got)
	}
}

func TestViewerPage(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/viewer")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	for _, want := range []string{"Next Gen in a Box Visualizer", "/api/v1/viewer/layers", "-87.5"} {
		if !strings.Contains(body, want) {
			t.Fatalf("viewer page missing %q", want)
		}
	}
}

func TestViewerLayersStream(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/viewer/layers")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("content-type=%q", ct)
	}
	for _, want := range []string{"datastar-patch-elements", "#layer-list", "NextGen Features", "layers-loaded", "ol.style.Style", `data-layer=\"nexus\"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("stream missing %q:\n%s", want, body)
		}
	}
}

func TestViewerPlotStream(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/v1/viewer/plot", "application/json",
		strings.NewReader(`{"layer":"nexus","toid":"wb-12_34"}`))
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	for _, want := range []string{"datastar-patch-signals", "plotTitle", `Streamflow at Nexus \"34\"`, "plot-loaded", "#plot-header"} {
		if !strings.Contains(body, want) {
			t.Fatalf("stream missing %q:\n%s", want, body)
		}
	}

	resp, err = http.Post(ts.URL+"/api/v1/viewer/plot", "application/json",
		strings.NewReader(`{"layer":"nexus"}`))
	if err != nil {
		t.Fatal(err)
	}
	body = readBody(t, resp)
	if !strings.Contains(body, "Selected feature has no toid") {
		t.Fatalf("expected error signal:\n%s", body)
	}
}

func TestCatalogAvailable(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/tables")
	if err != nil {
		t.Fatal(err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.StatusCode, body)
	}
	if !strings.Contains(body, "nexus_outputs") {
		t.Fatalf("expected nexus_outputs view: %s", body)
	}
}

func TestOpenAPIDocumentsRoutes(t *testing.T) {
	root := t.TempDir()
	srv, err := New(Config{Workspace: root, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err != nil {
		t.Fatal(err)
	}
	defer srv.Close()

	paths := srv.OpenAPI().Paths
	for _, p := range []string{"/api/v1/layers", "/api/v1/layers/{layer}/plot", "/api/v1/viewer/plot", "/api/v1/query"} {
		if _, ok := paths[p]; !ok {
			t.Fatalf("OpenAPI missing %s", p)
		}
	}
}

func TestLinkHeaders(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/api/v1/layers")
	if err != nil {
		t.Fatal(err)
	}
	readBody(t, resp)
	joined := strings.Join(resp.Header.Values("Link"), ",")
	if !strings.Contains(joined, `</api/v1/layers/styles>; rel="styles"`) {
		t.Fatalf("unexpected Link headers %q", joined)
	}
}
