package viewer

import (
	"bytes"
	"context"
	"errors"

	"github.com/danielgtaylor/huma/v2"

	"github.com/joeblew999/ngen-visualizer/internal/humastar"
	"github.com/joeblew999/ngen-visualizer/internal/service"
	"github.com/joeblew999/ngen-visualizer/internal/templates"
)

type PlotHandler struct {
	humastar.Handler
	plotService *service.PlotService
}

func NewPlotHandler(plotService *service.PlotService, renderer *templates.Renderer) *PlotHandler {
	return &PlotHandler{
		Handler:     humastar.Handler{Renderer: renderer},
		plotService: plotService,
	}
}

func (h *PlotHandler) RegisterRoutes(api huma.API) {
	huma.Post(api, "/api/v1/viewer/plot", h.Plot, huma.OperationTags("viewer"))
}

// Plot resolves the clicked feature from the layer and toid signals and
// sends the plot back as signals plus a plot-loaded event.
func (h *PlotHandler) Plot(ctx context.Context, input *humastar.SignalsInput) (*huma.StreamResponse, error) {
	signals, err := input.MustParse()
	if err != nil {
		return nil, err
	}
	layer := signals.String("layer")
	props := map[string]any{}
	if signals.Has(service.TOIDProperty) && signals.String(service.TOIDProperty) != "" {
		props[service.TOIDProperty] = signals[service.TOIDProperty]
	}

	return h.Stream(func(sse humastar.SSE) {
		plot, err := h.plotService.Resolve(ctx, layer, props)
		if err != nil {
			if errors.Is(err, service.ErrMissingTOID) || errors.Is(err, service.ErrInvalidTOID) {
				sse.Error("Selected feature has no toid")
				return
			}
			sse.Error("Failed to load plot: " + err.Error())
			return
		}

		sse.Signals(map[string]any{
			"plotTitle":  plot.Title,
			"plotData":   plot.Data,
			"plotLayout": plot.Layout,
			"plotEmpty":  plot.Empty(),
			"error":      "",
		})

		var buf bytes.Buffer
		if err := h.Renderer.RenderToBuffer(&buf, "plot-header", map[string]any{
			"Title": plot.Title, "Empty": plot.Empty(),
		}); err != nil {
			buf.WriteString("<!-- template error: " + err.Error() + " -->")
		}
		sse.Patch(buf.String(), "#plot-header")

		sse.DispatchCustomEvent("plot-loaded", map[string]any{
			"data":   plot.Data,
			"layout": plot.Layout,
		})
	}), nil
}
