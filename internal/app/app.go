// Package app holds the static descriptor the app registry reads.
package app

// App is the registry metadata for the visualizer.
type App struct {
	Name           string   `json:"name" doc:"Display name" example:"Ngen Visualizer"`
	Description    string   `json:"description" doc:"Short description"`
	Package        string   `json:"package" doc:"Package identifier" example:"ngen_visualizer"`
	Index          string   `json:"index" doc:"Name of the landing view" example:"home"`
	Icon           string   `json:"icon" doc:"Icon path relative to static assets"`
	RootURL        string   `json:"rootUrl" doc:"Root URL segment" example:"ngen-visualizer"`
	Color          string   `json:"color" doc:"Theme color (CSS)" example:"#27ae60"`
	Tags           string   `json:"tags" doc:"Comma separated tags"`
	EnableFeedback bool     `json:"enableFeedback" doc:"Whether the feedback form is shown"`
	FeedbackEmails []string `json:"feedbackEmails" doc:"Feedback recipients"`
}

// MapView describes how the home view presents the map.
type MapView struct {
	Title               string   `json:"title" doc:"Map title"`
	Subtitle            string   `json:"subtitle" doc:"Map subtitle"`
	Basemaps            []string `json:"basemaps" doc:"Selectable basemaps, first is the default"`
	ShowPropertiesPopup bool     `json:"showPropertiesPopup" doc:"Show feature properties on click"`
	PlotSlideSheet      bool     `json:"plotSlideSheet" doc:"Open plots in a slide-out sheet"`
}

const pkg = "ngen_visualizer"

// Descriptor returns the app metadata.
func Descriptor() App {
	return App{
		Name:           "Ngen Visualizer",
		Description:    "This application allows you to visualize the outputs of your model into tethys",
		Package:        pkg,
		Index:          "home",
		Icon:           pkg + "/images/icon.gif",
		RootURL:        "ngen-visualizer",
		Color:          "#27ae60",
		Tags:           "",
		EnableFeedback: false,
		FeedbackEmails: []string{},
	}
}

// DefaultMapView returns the home view presentation settings.
func DefaultMapView() MapView {
	return MapView{
		Title:               "Next Gen in a Box Visualizer",
		Subtitle:            "NOAA-OWP NextGen Model Outputs",
		Basemaps:            []string{"OpenStreetMap", "ESRI", "Stamen"},
		ShowPropertiesPopup: true,
		PlotSlideSheet:      true,
	}
}
