// Package viewer contains Datastar SSE handlers for the map viewer page.
package viewer

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/ngen-visualizer/internal/humastar"
	"github.com/joeblew999/ngen-visualizer/internal/service"
	"github.com/joeblew999/ngen-visualizer/internal/templates"
)

type LayerHandler struct {
	humastar.Handler
	layerService *service.LayerService
}

func NewLayerHandler(layerService *service.LayerService, renderer *templates.Renderer) *LayerHandler {
	return &LayerHandler{
		Handler:      humastar.Handler{Renderer: renderer},
		layerService: layerService,
	}
}

func (h *LayerHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/viewer/layers", h.Layers, huma.OperationTags("viewer"))
}

// Layers patches the layer toggles into #layer-list and hands the feature
// collections and styles to the map through a layers-loaded event.
func (h *LayerHandler) Layers(ctx context.Context, input *humastar.EmptyInput) (*huma.StreamResponse, error) {
	return h.Stream(func(sse humastar.SSE) {
		groups, err := h.layerService.Compose(ctx)
		if err != nil {
			sse.Error("Failed to load layers: " + err.Error())
			return
		}

		sse.Patch(h.RenderList("layer-group", groupCards(groups),
			"No layers", "The workspace has no NextGen features"), "#layer-list")

		visible := make(map[string]bool)
		for _, g := range groups {
			for _, l := range g.Layers {
				visible[l.Variable] = l.Visible
			}
		}
		sse.Signals(map[string]any{"visible": visible, "error": ""})

		sse.DispatchCustomEvent("layers-loaded", map[string]any{
			"groups": groups,
			"styles": service.VectorStyleMap(),
		})
	}), nil
}

type LayerGroupCard struct {
	ID           string
	DisplayName  string
	LayerControl string
	Layers       []LayerCard
}

type LayerCard struct {
	Title    string
	Variable string
	Visible  bool
	Features int
}

func groupCards(groups []service.LayerGroup) []any {
	items := make([]any, 0, len(groups))
	for _, g := range groups {
		card := LayerGroupCard{ID: g.ID, DisplayName: g.DisplayName, LayerControl: g.LayerControl}
		for _, l := range g.Layers {
			n := 0
			if l.GeoJSON != nil {
				n = len(l.GeoJSON.Features)
			}
			card.Layers = append(card.Layers, LayerCard{
				Title: l.Title, Variable: l.Variable, Visible: l.Visible, Features: n,
			})
		}
		items = append(items, card)
	}
	return items
}
