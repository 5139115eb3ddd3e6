package workspace

import (
	"os"
	"path/filepath"
	"testing"
)

func TestPathsFollowFixedLayout(t *testing.T) {
	w := New("/srv/app")

	cases := map[string]string{
		w.ConfigDir():               "/srv/app/ngen-data/config",
		w.OutputsDir():              "/srv/app/ngen-data/outputs",
		w.NexusPath():               "/srv/app/ngen-data/config/nexus.geojson",
		w.CatchmentsPath():          "/srv/app/ngen-data/config/catchments.geojson",
		w.NexusOutputPath("34"):     "/srv/app/ngen-data/outputs/catch_34.csv",
		w.CatchmentOutputPath("34"): "/srv/app/ngen-data/outputs/34.csv",
	}
	for got, want := range cases {
		if got != filepath.FromSlash(want) {
			t.Fatalf("got %q, want %q", got, want)
		}
	}
}

func TestCheck(t *testing.T) {
	dir := t.TempDir()
	if err := New(dir).Check(); err != nil {
		t.Fatalf("expected existing dir to pass, got %v", err)
	}

	if err := New(filepath.Join(dir, "missing")).Check(); err == nil {
		t.Fatal("expected error for missing root")
	}

	file := filepath.Join(dir, "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := New(file).Check(); err == nil {
		t.Fatal("expected error for non-directory root")
	}
}
