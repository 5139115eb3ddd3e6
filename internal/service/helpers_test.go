package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joeblew999/ngen-visualizer/internal/workspace"
)

const nexusFixture = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "nex-34", "geometry": {"type": "Point", "coordinates": [-87.2, 33.9]}, "properties": {"toid": "wb-12_34"}},
    {"type": "Feature", "id": "nex-35", "geometry": {"type": "Point", "coordinates": [-86.4, 34.3]}, "properties": {"toid": "wb-13_35"}}
  ]
}`

const catchmentsFixture = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "id": "cat-34", "geometry": {"type": "MultiPolygon", "coordinates": [[[[-87.5, 33.5], [-87.0, 33.5], [-87.0, 34.0], [-87.5, 34.0], [-87.5, 33.5]]]]}, "properties": {"toid": "nex_34"}}
  ]
}`

// newTestWorkspace lays out a workspace with both GeoJSON inputs and an
// empty outputs directory.
func newTestWorkspace(t *testing.T) workspace.Workspace {
	t.Helper()
	ws := workspace.New(t.TempDir())
	for _, dir := range []string{ws.ConfigDir(), ws.OutputsDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, ws.NexusPath(), nexusFixture)
	writeFile(t, ws.CatchmentsPath(), catchmentsFixture)
	return ws
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}
