package api

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
)

type InfoHandler struct {
	workspace string
	dbOK      bool
}

func NewInfoHandler(workspace string, dbOK bool) *InfoHandler {
	return &InfoHandler{workspace: workspace, dbOK: dbOK}
}

func (h *InfoHandler) RegisterRoutes(api huma.API) {
	huma.Get(api, "/api/v1/info", h.GetInfo, huma.OperationTags("health"))
}

type InfoBody struct {
	Name      string   `json:"name" doc:"Service name"`
	Version   string   `json:"version" doc:"Service version"`
	Workspace string   `json:"workspace" doc:"App workspace root"`
	DB        bool     `json:"db" doc:"Whether the output catalog is available"`
	Features  []string `json:"features" doc:"Available features"`
}

func (h *InfoHandler) GetInfo(ctx context.Context, input *struct{}) (*struct{ Body InfoBody }, error) {
	features := []string{"geojson", "plots", "plot-png", "viewer"}
	if h.dbOK {
		features = append(features, "duckdb")
	}
	return &struct{ Body InfoBody }{Body: InfoBody{
		Name:      "ngen-visualizer",
		Version:   "0.1.0",
		Workspace: h.workspace,
		DB:        h.dbOK,
		Features:  features,
	}}, nil
}
