package service

// VectorStyle is an OpenLayers style declaration keyed the way the map
// widget expects it.
type VectorStyle struct {
	Style StyleRule `json:"ol.style.Style"`
}

// StyleRule is the body of an ol.style.Style.
type StyleRule struct {
	Image  *ImageRule  `json:"image,omitempty"`
	Stroke *StrokeRule `json:"stroke,omitempty"`
	Fill   *FillRule   `json:"fill,omitempty"`
}

// ImageRule wraps the point symbol.
type ImageRule struct {
	Circle CircleStyle `json:"ol.style.Circle"`
}

// CircleStyle is a circle point symbol.
type CircleStyle struct {
	Radius int        `json:"radius"`
	Fill   FillRule   `json:"fill"`
	Stroke StrokeRule `json:"stroke"`
}

// FillRule wraps an ol.style.Fill.
type FillRule struct {
	Fill Fill `json:"ol.style.Fill"`
}

// Fill is a fill color.
type Fill struct {
	Color string `json:"color"`
}

// StrokeRule wraps an ol.style.Stroke.
type StrokeRule struct {
	Stroke Stroke `json:"ol.style.Stroke"`
}

// Stroke is an outline color and width.
type Stroke struct {
	Color string `json:"color"`
	Width int    `json:"width"`
}

const (
	pointRadius  = 5
	outlineWidth = 3
	polygonFill  = "rgba(0, 25, 128, 0.1)"
)

func pointStyle() VectorStyle {
	return VectorStyle{Style: StyleRule{
		Image: &ImageRule{Circle: CircleStyle{
			Radius: pointRadius,
			Fill:   FillRule{Fill: Fill{Color: "white"}},
			Stroke: StrokeRule{Stroke: Stroke{Color: "red", Width: outlineWidth}},
		}},
	}}
}

func polygonStyle() VectorStyle {
	return VectorStyle{Style: StyleRule{
		Stroke: &StrokeRule{Stroke: Stroke{Color: "navy", Width: outlineWidth}},
		Fill:   &FillRule{Fill: Fill{Color: polygonFill}},
	}}
}

// VectorStyleMap returns the style rules keyed by GeoJSON geometry type.
// The rules are fixed; callers get a fresh map each time.
func VectorStyleMap() map[string]VectorStyle {
	return map[string]VectorStyle{
		"Point":        pointStyle(),
		"Polygon":      polygonStyle(),
		"MultiPolygon": polygonStyle(),
	}
}

// StyleFor returns the rule for a geometry type.
func StyleFor(geomType string) (VectorStyle, bool) {
	s, ok := VectorStyleMap()[geomType]
	return s, ok
}
