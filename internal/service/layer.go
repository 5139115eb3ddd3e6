package service

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/joeblew999/ngen-visualizer/internal/workspace"
)

// Layer group and layer identifiers published to the map.
const (
	GroupID          = "nextgen-features"
	GroupDisplayName = "NextGen Features"

	NexusLayer      = "nexus"
	CatchmentsLayer = "catchments"
)

// ErrNoFeatures is returned by Extent when no feature has a geometry.
var ErrNoFeatures = errors.New("no features with geometry")

// LayerService composes the map layers from the workspace GeoJSON files.
type LayerService struct {
	ws workspace.Workspace
}

// NewLayerService creates a new layer service.
func NewLayerService(ws workspace.Workspace) *LayerService {
	return &LayerService{ws: ws}
}

// Compose reads the nexus and catchment collections and returns them as one
// checkbox-controlled layer group. The files are expected to exist; any read
// or parse failure fails the whole composition.
func (s *LayerService) Compose(ctx context.Context) ([]LayerGroup, error) {
	nexus, err := s.buildLayer(ctx, s.ws.NexusPath(), NexusLayer, "Nexus")
	if err != nil {
		return nil, err
	}

	catchments, err := s.buildLayer(ctx, s.ws.CatchmentsPath(), CatchmentsLayer, "Catchments")
	if err != nil {
		return nil, err
	}

	return []LayerGroup{
		{
			ID:           GroupID,
			DisplayName:  GroupDisplayName,
			LayerControl: "checkbox",
			Layers:       []Layer{nexus, catchments},
		},
	}, nil
}

// Extent returns the bounding box of every feature in the composed layers.
func (s *LayerService) Extent(ctx context.Context) (orb.Bound, error) {
	groups, err := s.Compose(ctx)
	if err != nil {
		return orb.Bound{}, err
	}

	var (
		bound orb.Bound
		found bool
	)
	for _, g := range groups {
		for _, l := range g.Layers {
			for _, f := range l.GeoJSON.Features {
				if f.Geometry == nil {
					continue
				}
				if !found {
					bound, found = f.Geometry.Bound(), true
					continue
				}
				bound = bound.Union(f.Geometry.Bound())
			}
		}
	}
	if !found {
		return orb.Bound{}, ErrNoFeatures
	}
	return bound, nil
}

func (s *LayerService) buildLayer(ctx context.Context, path, name, title string) (Layer, error) {
	if err := ctx.Err(); err != nil {
		return Layer{}, err
	}

	fc, err := readFeatureCollection(path)
	if err != nil {
		return Layer{}, err
	}

	return Layer{
		Name:       name,
		Title:      title,
		Variable:   name,
		Visible:    true,
		Selectable: true,
		Plottable:  true,
		GeoJSON:    fc,
	}, nil
}

func readFeatureCollection(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading geojson: %w", err)
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, fmt.Errorf("parsing geojson %s: %w", path, err)
	}
	return fc, nil
}
