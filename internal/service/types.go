// Package service contains the map and plot logic of the visualizer.
package service

import "github.com/paulmach/orb/geojson"

// Layer is a GeoJSON feature collection published to the map widget.
type Layer struct {
	Name       string                     `json:"name" doc:"Layer identifier, also the plot route key" example:"nexus"`
	Title      string                     `json:"title" doc:"Display title" example:"Nexus"`
	Variable   string                     `json:"variable" doc:"Client-side variable name" example:"nexus"`
	Visible    bool                       `json:"visible" doc:"Whether the layer is shown on load"`
	Selectable bool                       `json:"selectable" doc:"Whether features can be clicked"`
	Plottable  bool                       `json:"plottable" doc:"Whether clicking a feature requests a plot"`
	GeoJSON    *geojson.FeatureCollection `json:"geojson" doc:"Feature collection"`
}

// LayerGroup groups layers under one toggle control.
type LayerGroup struct {
	ID           string  `json:"id" doc:"Group identifier" example:"nextgen-features"`
	DisplayName  string  `json:"displayName" doc:"Group label" example:"NextGen Features"`
	LayerControl string  `json:"layerControl" enum:"checkbox,radio" doc:"Toggle style for member layers" example:"checkbox"`
	Layers       []Layer `json:"layers" doc:"Member layers in display order"`
}

// LineStyle is the trace styling of a plot series.
type LineStyle struct {
	Width int    `json:"width" doc:"Line width in pixels" example:"2"`
	Color string `json:"color" doc:"Line color (CSS)" example:"blue"`
}

// Series is one plot trace.
type Series struct {
	Name string    `json:"name" doc:"Trace name" example:"Streamflow"`
	Mode string    `json:"mode" doc:"Trace drawing mode" example:"lines"`
	X    []string  `json:"x" doc:"Timestamps"`
	Y    []float64 `json:"y" doc:"Values"`
	Line LineStyle `json:"line" doc:"Line styling"`
}

// Axis holds axis options.
type Axis struct {
	Title string `json:"title" doc:"Axis label" example:"Streamflow (cfs)"`
}

// Layout holds plot layout options.
type Layout struct {
	YAxis Axis `json:"yaxis" doc:"Y axis options"`
}

// Plot is the title, series and layout triple for a clicked feature.
type Plot struct {
	Title  string   `json:"title" doc:"Plot title" example:"Streamflow at Nexus \"34\""`
	Data   []Series `json:"data" doc:"Plot series, empty when no output exists"`
	Layout Layout   `json:"layout" doc:"Plot layout"`
}

// Empty reports whether the plot carries no series.
func (p Plot) Empty() bool {
	return len(p.Data) == 0
}
