// Package api defines the Huma API routes and handlers.
package api

import (
	"bytes"
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/ngen-visualizer/internal/app"
	"github.com/joeblew999/ngen-visualizer/internal/service"
)

// Services holds the service dependencies for API handlers.
type Services struct {
	Layer *service.LayerService
	Plot  *service.PlotService
}

// Types

type LayerInput struct {
	Layer string `path:"layer" doc:"Layer name" example:"nexus"`
}

type LayersOutput struct {
	Body []service.LayerGroup
}

type StylesOutput struct {
	Body map[string]service.VectorStyle
}

type PlotRequestBody struct {
	FeatureID  string         `json:"featureId,omitempty" doc:"Clicked feature ID" example:"nex-34"`
	Properties map[string]any `json:"properties" doc:"Clicked feature properties, must contain toid"`
}

type PlotInput struct {
	LayerInput
	Body PlotRequestBody
}

type PlotOutput struct {
	Body service.Plot
}

type PlotImageInput struct {
	LayerInput
	TOID string `query:"toid" required:"true" doc:"Composite feature identifier" example:"wb-12_34"`
}

type PlotImageOutput struct {
	ContentType string `header:"Content-Type"`
	Body        []byte
}

type MapBody struct {
	app.MapView
	Extent []float64 `json:"extent,omitempty" doc:"Default extent as [minLon, minLat, maxLon, maxLat]"`
}

type HealthBody struct {
	Status  string `json:"status" doc:"Health status" example:"ok"`
	Version string `json:"version" doc:"API version" example:"1.0.0"`
}

// APIHandler holds all REST API handlers. Methods named Register* are
// auto-discovered by huma.AutoRegister.
type APIHandler struct {
	svc *Services
}

func NewAPIHandler(svc *Services) *APIHandler {
	return &APIHandler{svc: svc}
}

// RegisterRoutes registers every APIHandler route group.
func RegisterRoutes(api huma.API, svc *Services) {
	huma.AutoRegister(api, NewAPIHandler(svc))
}

// RegisterHealth registers health check routes.
func (h *APIHandler) RegisterHealth(api huma.API) {
	huma.Get(api, "/health", h.GetHealth, huma.OperationTags("health"))
}

// RegisterApp registers app descriptor routes.
func (h *APIHandler) RegisterApp(api huma.API) {
	huma.Get(api, "/api/v1/app", h.GetApp, huma.OperationTags("app"))
	huma.Get(api, "/api/v1/map", h.GetMap, huma.OperationTags("app"))
}

// RegisterLayers registers layer and plot routes.
func (h *APIHandler) RegisterLayers(api huma.API) {
	huma.Get(api, "/api/v1/layers", h.GetLayers, huma.OperationTags("layers"))
	huma.Get(api, "/api/v1/layers/styles", h.GetStyles, huma.OperationTags("layers"))
	huma.Post(api, "/api/v1/layers/{layer}/plot", h.GetPlot, huma.OperationTags("plots"))
	huma.Get(api, "/api/v1/layers/{layer}/plot.png", h.GetPlotImage, huma.OperationTags("plots"))
}

// Handlers

func (h *APIHandler) GetHealth(ctx context.Context, input *struct{}) (*struct{ Body HealthBody }, error) {
	return &struct{ Body HealthBody }{Body: HealthBody{Status: "ok", Version: "1.0.0"}}, nil
}

func (h *APIHandler) GetApp(ctx context.Context, input *struct{}) (*struct{ Body app.App }, error) {
	return &struct{ Body app.App }{Body: app.Descriptor()}, nil
}

func (h *APIHandler) GetMap(ctx context.Context, input *struct{}) (*struct{ Body MapBody }, error) {
	body := MapBody{MapView: app.DefaultMapView()}
	if h.svc == nil || h.svc.Layer == nil {
		return &struct{ Body MapBody }{Body: body}, nil
	}

	bound, err := h.svc.Layer.Extent(ctx)
	switch {
	case err == nil:
		body.Extent = []float64{bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()}
	case errors.Is(err, service.ErrNoFeatures):
	default:
		return nil, huma.Error500InternalServerError("Failed to load layers", err)
	}
	return &struct{ Body MapBody }{Body: body}, nil
}

func (h *APIHandler) GetLayers(ctx context.Context, input *struct{}) (*LayersOutput, error) {
	if h.svc == nil || h.svc.Layer == nil {
		return nil, huma.Error503ServiceUnavailable("layer service not available")
	}
	groups, err := h.svc.Layer.Compose(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("Failed to load layers", err)
	}
	return &LayersOutput{Body: groups}, nil
}

func (h *APIHandler) GetStyles(ctx context.Context, input *struct{}) (*StylesOutput, error) {
	return &StylesOutput{Body: service.VectorStyleMap()}, nil
}

func (h *APIHandler) GetPlot(ctx context.Context, input *PlotInput) (*PlotOutput, error) {
	if h.svc == nil || h.svc.Plot == nil {
		return nil, huma.Error503ServiceUnavailable("plot service not available")
	}
	plot, err := h.svc.Plot.Resolve(ctx, input.Layer, input.Body.Properties)
	if err != nil {
		return nil, plotError(err)
	}
	return &PlotOutput{Body: plot}, nil
}

func (h *APIHandler) GetPlotImage(ctx context.Context, input *PlotImageInput) (*PlotImageOutput, error) {
	if h.svc == nil || h.svc.Plot == nil {
		return nil, huma.Error503ServiceUnavailable("plot service not available")
	}
	plot, err := h.svc.Plot.Resolve(ctx, input.Layer, map[string]any{service.TOIDProperty: input.TOID})
	if err != nil {
		return nil, plotError(err)
	}
	if plot.Empty() {
		return nil, huma.Error404NotFound(plot.Title)
	}

	var buf bytes.Buffer
	if err := service.RenderPNG(&buf, plot); err != nil {
		return nil, huma.Error500InternalServerError("Failed to render plot", err)
	}
	return &PlotImageOutput{ContentType: "image/png", Body: buf.Bytes()}, nil
}

func plotError(err error) error {
	if errors.Is(err, service.ErrMissingTOID) || errors.Is(err, service.ErrInvalidTOID) {
		return huma.Error400BadRequest(err.Error())
	}
	return huma.Error500InternalServerError("Failed to load plot", err)
}
