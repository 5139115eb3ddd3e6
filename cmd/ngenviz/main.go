package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joeblew999/ngen-visualizer/internal/server"
	"github.com/joeblew999/ngen-visualizer/internal/service"
	"github.com/joeblew999/ngen-visualizer/internal/workspace"
)

// Options defines all CLI flags and env vars for the visualizer.
// Flags: --host, --port, --workspace, --data-dir, --web-dir, --log-level
// Env vars: SERVICE_HOST, SERVICE_PORT, SERVICE_WORKSPACE, SERVICE_DATA_DIR, SERVICE_WEB_DIR, SERVICE_LOG_LEVEL
type Options struct {
	Host      string `doc:"Host to bind to" default:"0.0.0.0"`
	Port      int    `doc:"Port to listen on" short:"p" default:"8086"`
	Workspace string `doc:"App workspace root containing ngen-data/" short:"w" default:"."`
	DataDir   string `doc:"Directory for the DuckDB catalog, empty for in-memory" default:""`
	WebDir    string `doc:"Optional directory overriding the embedded templates" default:""`
	LogLevel  string `doc:"Log level (debug, info, warn, error)" default:"info"`
}

func newLogger(opts *Options, w io.Writer) *slog.Logger {
	logger := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: parseLogLevel(opts.LogLevel)}))
	slog.SetDefault(logger)
	return logger
}

func newServer(opts *Options, logger *slog.Logger) (*server.Server, error) {
	return server.New(server.Config{
		Host:      opts.Host,
		Port:      fmt.Sprintf("%d", opts.Port),
		Workspace: opts.Workspace,
		DataDir:   opts.DataDir,
		WebDir:    opts.WebDir,
		Logger:    logger,
	})
}

// cmdErr holds the error returned by a subcommand; humacli discards the
// cobra Execute result, so main turns it into the exit status.
var cmdErr error

// withOptionsE adapts a subcommand that returns an error to humacli.WithOptions.
func withOptionsE(f func(cmd *cobra.Command, args []string, opts *Options) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		humacli.WithOptions(func(cmd *cobra.Command, args []string, opts *Options) {
			cmdErr = f(cmd, args, opts)
		})(cmd, args)
		return cmdErr
	}
}

func main() {
	cli := humacli.New(func(hooks humacli.Hooks, opts *Options) {
		var (
			srv        *server.Server
			httpServer *http.Server
		)

		hooks.OnStart(func() {
			logger := newLogger(opts, os.Stdout)
			var err error
			srv, err = newServer(opts, logger)
			if err != nil {
				logger.Error("building server", "error", err)
				os.Exit(1)
			}

			addr := fmt.Sprintf("%s:%d", opts.Host, opts.Port)
			displayHost := opts.Host
			if displayHost == "0.0.0.0" {
				displayHost = "localhost"
			}
			baseURL := fmt.Sprintf("http://%s:%d", displayHost, opts.Port)

			if err := workspace.New(opts.Workspace).Check(); err != nil {
				logger.Warn("workspace not ready", "error", err)
			}

			logger.Info("starting ngen-visualizer",
				"addr", addr,
				"workspace", opts.Workspace,
				"viewer", baseURL+"/viewer",
				"docs", baseURL+"/docs",
				"logLevel", opts.LogLevel,
			)

			httpServer = &http.Server{Addr: addr, Handler: srv}
			if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server failed", "error", err)
				srv.Close()
				os.Exit(1)
			}
		})
		hooks.OnStop(func() {
			if httpServer != nil {
				httpServer.Shutdown(context.Background())
			}
			if srv != nil {
				srv.Close()
			}
		})
	})

	cli.Root().Use = "ngenviz"
	cli.Root().Short = "Map and plot viewer for NextGen model outputs"
	cli.Root().Version = "0.1.0"

	// spec subcommand: export OpenAPI spec
	specCmd := &cobra.Command{
		Use:          "spec",
		Short:        "Export OpenAPI spec (JSON by default, --yaml for YAML)",
		SilenceUsage: true,
		RunE: withOptionsE(func(cmd *cobra.Command, args []string, opts *Options) error {
			srv, err := subcommandServer(opts)
			if err != nil {
				return err
			}
			defer srv.Close()
			spec := srv.OpenAPI()

			useYAML, _ := cmd.Flags().GetBool("yaml")

			var output []byte
			if useYAML {
				output, err = yaml.Marshal(spec)
			} else {
				output, err = json.MarshalIndent(spec, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("marshaling spec: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(output))
			return nil
		}),
	}
	specCmd.Flags().BoolP("yaml", "y", false, "Output as YAML instead of JSON")
	cli.Root().AddCommand(specCmd)

	// layers subcommand: print the composed layer groups
	layersCmd := &cobra.Command{
		Use:          "layers",
		Short:        "Print the composed map layers as JSON",
		SilenceUsage: true,
		RunE: withOptionsE(func(cmd *cobra.Command, args []string, opts *Options) error {
			srv, err := subcommandServer(opts)
			if err != nil {
				return err
			}
			defer srv.Close()

			groups, err := srv.Services().Layer.Compose(cmd.Context())
			if err != nil {
				return fmt.Errorf("composing layers: %w", err)
			}
			return printJSON(cmd.OutOrStdout(), groups)
		}),
	}
	cli.Root().AddCommand(layersCmd)

	// plot subcommand: resolve one feature's plot
	plotCmd := &cobra.Command{
		Use:          "plot <layer> <toid>",
		Short:        "Print the plot for a feature, or write it as PNG with --png",
		Args:         cobra.ExactArgs(2),
		SilenceUsage: true,
		RunE: withOptionsE(func(cmd *cobra.Command, args []string, opts *Options) error {
			srv, err := subcommandServer(opts)
			if err != nil {
				return err
			}
			defer srv.Close()

			pngPath, _ := cmd.Flags().GetString("png")
			return runPlot(cmd.Context(), cmd.OutOrStdout(), srv.Services().Plot, args[0], args[1], pngPath)
		}),
	}
	plotCmd.Flags().String("png", "", "Write a PNG preview to this file")
	cli.Root().AddCommand(plotCmd)

	cli.Run()
	if cmdErr != nil {
		os.Exit(1)
	}
}

// subcommandServer builds a server for subcommands. Their output goes to
// stdout, so logs go to stderr.
func subcommandServer(opts *Options) (*server.Server, error) {
	srv, err := newServer(opts, newLogger(opts, os.Stderr))
	if err != nil {
		return nil, fmt.Errorf("building server: %w", err)
	}
	return srv, nil
}

// runPlot prints the plot as JSON, or renders it to pngPath. No file is
// created for a plot without data.
func runPlot(ctx context.Context, out io.Writer, plots *service.PlotService, layer, toid, pngPath string) error {
	plot, err := plots.Resolve(ctx, layer, map[string]any{service.TOIDProperty: toid})
	if err != nil {
		return fmt.Errorf("resolving plot: %w", err)
	}

	if pngPath == "" {
		return printJSON(out, plot)
	}
	if plot.Empty() {
		return fmt.Errorf("%s: %w", plot.Title, service.ErrEmptyPlot)
	}

	f, err := os.Create(pngPath)
	if err != nil {
		return fmt.Errorf("creating png: %w", err)
	}
	if err := service.RenderPNG(f, plot); err != nil {
		f.Close()
		os.Remove(pngPath)
		return fmt.Errorf("rendering png: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("writing png: %w", err)
	}
	fmt.Fprintf(out, "%s written to %s\n", plot.Title, pngPath)
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "error":
		return slog.LevelError
	case "warn":
		return slog.LevelWarn
	case "debug":
		return slog.LevelDebug
	default:
		return slog.LevelInfo
	}
}
