// Package server wires the visualizer services, API and pages into one
// http.Handler.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/ngen-visualizer/internal/api"
	"github.com/joeblew999/ngen-visualizer/internal/api/viewer"
	"github.com/joeblew999/ngen-visualizer/internal/app"
	"github.com/joeblew999/ngen-visualizer/internal/db"
	"github.com/joeblew999/ngen-visualizer/internal/service"
	"github.com/joeblew999/ngen-visualizer/internal/templates"
	"github.com/joeblew999/ngen-visualizer/internal/workspace"
)

// Config holds the server configuration.
type Config struct {
	Host      string
	Port      string
	Workspace string // App workspace root containing ngen-data/
	DataDir   string // DuckDB file location; empty keeps the catalog in memory
	WebDir    string // Optional directory overriding the embedded templates and serving static/
	Logger    *slog.Logger
}

// Server is the visualizer HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	db       *sql.DB
	ws       workspace.Workspace
	services *api.Services
	renderer *templates.Renderer
	logger   *slog.Logger
}

// New creates a new visualizer server.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	mux := http.NewServeMux()

	humaConfig := huma.DefaultConfig("ngen-visualizer API", "1.0.0")
	humaConfig.Info.Description = "Map layers and time-series plots for NextGen hydrologic model outputs."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)
	humaAPI.UseMiddleware(RequestLogger(logger.With("component", "http")))

	ws := workspace.New(cfg.Workspace)
	services := &api.Services{
		Layer: service.NewLayerService(ws),
		Plot:  service.NewPlotService(ws, logger.With("component", "plot")),
	}

	renderer, err := loadRenderer(cfg.WebDir, logger)
	if err != nil {
		return nil, err
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		ws:       ws,
		services: services,
		renderer: renderer,
		logger:   logger,
	}
	s.openCatalog()

	s.routes()
	return s, nil
}

func loadRenderer(webDir string, logger *slog.Logger) (*templates.Renderer, error) {
	if webDir != "" {
		r, err := templates.New(webDir)
		if err == nil {
			logger.Info("loaded templates", "dir", webDir)
			return r, nil
		}
		logger.Warn("falling back to embedded templates", "dir", webDir, "error", err)
	}
	r, err := templates.Embedded()
	if err != nil {
		return nil, fmt.Errorf("loading embedded templates: %w", err)
	}
	return r, nil
}

// openCatalog opens DuckDB and registers the output views. Failures leave
// s.db nil; only the SQL endpoints depend on it.
func (s *Server) openCatalog() {
	cfg := db.Config{DataDir: s.config.DataDir}
	if s.config.DataDir != "" {
		cfg.DBName = "ngen"
	}
	conn, err := db.Open(cfg)
	if err != nil {
		s.logger.Warn("output catalog disabled", "error", err)
		return
	}
	views, err := db.RegisterOutputs(context.Background(), conn, s.ws.OutputsDir())
	if err != nil {
		s.logger.Warn("registering outputs failed", "dir", s.ws.OutputsDir(), "error", err)
	}
	s.logger.Debug("output catalog ready", "views", views)
	s.db = conn
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// Close closes server resources.
func (s *Server) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// OpenAPI returns the generated OpenAPI document.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

// Services exposes the services for CLI subcommands.
func (s *Server) Services() *api.Services {
	return s.services
}

func (s *Server) routes() {
	api.RegisterRoutes(s.humaAPI, s.services)
	api.NewInfoHandler(s.ws.Root(), s.db != nil).RegisterRoutes(s.humaAPI)
	api.NewDBHandler(s.db, s.ws.OutputsDir()).RegisterRoutes(s.humaAPI)

	viewer.NewLayerHandler(s.services.Layer, s.renderer).RegisterRoutes(s.humaAPI)
	viewer.NewPlotHandler(s.services.Plot, s.renderer).RegisterRoutes(s.humaAPI)

	if s.config.WebDir != "" {
		staticDir := filepath.Join(s.config.WebDir, "static")
		s.mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir))))
	}

	s.mux.HandleFunc("/viewer", s.handleViewer)
	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"service": "ngen-visualizer",
		"status":  "running",
	})
}

type viewerPage struct {
	App    app.App
	Map    app.MapView
	Extent []float64
}

func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	page := viewerPage{App: app.Descriptor(), Map: app.DefaultMapView()}
	if bound, err := s.services.Layer.Extent(r.Context()); err == nil {
		page.Extent = []float64{bound.Min.Lon(), bound.Min.Lat(), bound.Max.Lon(), bound.Max.Lat()}
	} else {
		s.logger.Debug("viewer without extent", "error", err)
	}

	if s.config.WebDir != "" {
		if err := s.renderer.Reload(s.config.WebDir); err != nil {
			s.logger.Debug("template reload skipped", "dir", s.config.WebDir, "error", err)
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.renderer.Execute(w, "viewer", page); err != nil {
		s.logger.Error("rendering viewer", "error", err)
		http.Error(w, "Failed to render viewer", http.StatusInternalServerError)
	}
}
