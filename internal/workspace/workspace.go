// Package workspace resolves the model output layout under an app workspace.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// FolderName is the subfolder the model pipeline writes into.
const FolderName = "ngen-data"

// Workspace is the filesystem root of one app instance.
type Workspace struct {
	root string
}

// New creates a workspace rooted at root.
func New(root string) Workspace {
	return Workspace{root: root}
}

// Root returns the workspace root path.
func (w Workspace) Root() string {
	return w.root
}

// ConfigDir returns the directory holding the GeoJSON inputs.
func (w Workspace) ConfigDir() string {
	return filepath.Join(w.root, FolderName, "config")
}

// OutputsDir returns the directory holding per-feature CSV outputs.
func (w Workspace) OutputsDir() string {
	return filepath.Join(w.root, FolderName, "outputs")
}

// NexusPath returns the nexus point collection path.
func (w Workspace) NexusPath() string {
	return filepath.Join(w.ConfigDir(), "nexus.geojson")
}

// CatchmentsPath returns the catchment polygon collection path.
func (w Workspace) CatchmentsPath() string {
	return filepath.Join(w.ConfigDir(), "catchments.geojson")
}

// NexusOutputPath returns the streamflow CSV for a nexus id.
func (w Workspace) NexusOutputPath(id string) string {
	return filepath.Join(w.OutputsDir(), "catch_"+id+".csv")
}

// CatchmentOutputPath returns the evapotranspiration CSV for a catchment id.
func (w Workspace) CatchmentOutputPath(id string) string {
	return filepath.Join(w.OutputsDir(), id+".csv")
}

// Check verifies the root exists and is a directory.
func (w Workspace) Check() error {
	info, err := os.Stat(w.root)
	if err != nil {
		return fmt.Errorf("workspace %s: %w", w.root, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("workspace %s: not a directory", w.root)
	}
	return nil
}
