package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeblew999/ngen-visualizer/internal/workspace"
)

// TOIDProperty is the feature property carrying the composite identifier.
const TOIDProperty = "toid"

var (
	// ErrMissingTOID is returned when a feature has no toid property.
	ErrMissingTOID = errors.New("feature has no toid property")
	// ErrInvalidTOID is returned when the toid property is not a string.
	ErrInvalidTOID = errors.New("feature toid is not a string")
)

// FeatureID extracts the trailing identifier of a feature's toid: the
// segment after the last underscore, or the whole value when it has none.
func FeatureID(props map[string]any) (string, error) {
	raw, ok := props[TOIDProperty]
	if !ok || raw == nil {
		return "", ErrMissingTOID
	}
	toid, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %T", ErrInvalidTOID, raw)
	}
	return toid[strings.LastIndex(toid, "_")+1:], nil
}

// validID reports whether id names a file directly inside the outputs
// directory.
func validID(id string) bool {
	return id == filepath.Base(id) && !strings.Contains(id, "..") && !strings.ContainsAny(id, `/\`)
}

// plotKind describes how one layer's outputs are located and drawn.
type plotKind struct {
	noun   string
	series string
	color  string
	axis   string
	factor float64
	path   func(workspace.Workspace, string) string
}

var (
	nexusPlot = plotKind{
		noun:   "Nexus",
		series: "Streamflow",
		color:  "blue",
		axis:   "Streamflow (cfs)",
		factor: CMSToCFS,
		path:   workspace.Workspace.NexusOutputPath,
	}
	catchmentPlot = plotKind{
		noun:   "Catchment",
		series: "Evapotranspiration",
		color:  "red",
		axis:   "Evapotranspiration (mm/hr)",
		factor: 1,
		path:   workspace.Workspace.CatchmentOutputPath,
	}
)

// kindFor maps a layer name to its plot kind. Every layer other than nexus
// plots as a catchment.
func kindFor(layerName string) plotKind {
	if layerName == NexusLayer {
		return nexusPlot
	}
	return catchmentPlot
}

// PlotService resolves clicked features to plot data.
type PlotService struct {
	ws     workspace.Workspace
	logger *slog.Logger
}

// NewPlotService creates a new plot service. A nil logger uses slog.Default.
func NewPlotService(ws workspace.Workspace, logger *slog.Logger) *PlotService {
	if logger == nil {
		logger = slog.Default()
	}
	return &PlotService{ws: ws, logger: logger}
}

// Resolve returns the plot for a feature of the named layer.
// A missing output file is not an error: it yields an empty plot with a
// "No Data Found" title. Malformed files are returned as errors.
func (s *PlotService) Resolve(ctx context.Context, layerName string, props map[string]any) (Plot, error) {
	id, err := FeatureID(props)
	if err != nil {
		return Plot{}, err
	}
	return s.ResolveID(ctx, layerName, id)
}

// ResolveID is Resolve for an already extracted feature identifier.
func (s *PlotService) ResolveID(ctx context.Context, layerName, id string) (Plot, error) {
	if err := ctx.Err(); err != nil {
		return Plot{}, err
	}

	kind := kindFor(layerName)
	layout := Layout{YAxis: Axis{Title: kind.axis}}
	noData := Plot{
		Title:  fmt.Sprintf(`No Data Found for %s "%s"`, kind.noun, id),
		Data:   []Series{},
		Layout: layout,
	}

	if !validID(id) {
		s.logger.Warn("rejected feature id", "layer", layerName, "id", id)
		return noData, nil
	}

	path := kind.path(s.ws, id)
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Plot{}, fmt.Errorf("checking output: %w", err)
		}
		s.logger.Warn("no such file", "path", path, "layer", layerName, "id", id)
		return noData, nil
	}

	ts, err := ReadSeries(path)
	if err != nil {
		return Plot{}, err
	}
	if kind.factor != 1 {
		ts = ts.Scale(kind.factor)
	}

	return Plot{
		Title: fmt.Sprintf(`%s at %s "%s"`, kind.series, kind.noun, id),
		Data: []Series{
			{
				Name: kind.series,
				Mode: "lines",
				X:    ts.X,
				Y:    ts.Y,
				Line: LineStyle{Width: 2, Color: kind.color},
			},
		},
		Layout: layout,
	}, nil
}
