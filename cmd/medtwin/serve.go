package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/medtwin/medtwin/docs"
	"github.com/medtwin/medtwin/internal/extract"
	"github.com/medtwin/medtwin/internal/home"
	"github.com/medtwin/medtwin/internal/metrics"
	"github.com/medtwin/medtwin/internal/prompts"
	"github.com/medtwin/medtwin/internal/prompts/extraction"
	"github.com/medtwin/medtwin/internal/providers"
	"github.com/medtwin/medtwin/internal/regions"
	"github.com/medtwin/medtwin/internal/server"
	"github.com/medtwin/medtwin/internal/telemetry"
	"github.com/medtwin/medtwin/version"
)

var (
	serveHost string
	servePort string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MedTwin server",
	Long: `Start the MedTwin HTTP server.

Configuration is read once at startup. The selected provider must have an
API key (GOOGLE_API_KEY for gemini, OPENAI_API_KEY for openai), otherwise
the server refuses to start.

The server provides:
  - GET  /health            - Health check and default model
  - GET  /models            - Upstream models usable for analysis
  - POST /api/pdf/analyze   - Upload a PDF (multipart field "pdf")
  - POST /api/pdf/summary   - Summarize an extracted report by body region
  - GET  /metrics           - Prometheus metrics
  - GET  /swagger.json      - OpenAPI spec

Examples:
  medtwin serve                    # Start on default port 8000
  medtwin serve --port 3000        # Start on custom port
  medtwin serve --host 127.0.0.1   # Bind to loopback only`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Get home directory
		h, err := home.New(homeDir)
		if err != nil {
			return err
		}

		cfg, err := loadConfig(h)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("host") {
			cfg.Server.Host = serveHost
		}
		if cmd.Flags().Changed("port") {
			cfg.Server.Port = servePort
		}

		// Set up logger
		logger, err := newLogger(os.Stdout, cfg.Log)
		if err != nil {
			return err
		}

		if err := h.EnsureExists(); err != nil {
			return err
		}
		if n, err := h.CleanStaging(); err != nil {
			logger.Warn("failed to clean staging directory", "error", err)
		} else if n > 0 {
			logger.Info("removed stale staged documents", "count", n)
		}

		shutdownTracing, err := telemetry.InitTracing(ctx, cfg.Tracing.ServiceName, cfg.Tracing.JaegerEndpoint)
		if err != nil {
			return fmt.Errorf("failed to initialize tracing: %w", err)
		}
		defer func() {
			// ctx is already cancelled once Start returns
			flushCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(flushCtx); err != nil {
				logger.Warn("tracing shutdown error", "error", err)
			}
		}()

		registry, err := providers.NewRegistryFromConfig(ctx, cfg.ToProviderRegistryConfig(), logger)
		if err != nil {
			return err
		}
		generator, err := registry.Get(cfg.Defaults.LLMProvider)
		if err != nil {
			return err
		}

		catalog := prompts.NewCatalog()
		extraction.RegisterPrompts(catalog)
		m := metrics.New()

		gateway, err := extract.New(extract.Config{
			Generator:       generator,
			Prompts:         catalog,
			DefaultModel:    cfg.DefaultModel(),
			StagingDir:      h.StagingPath(),
			UpstreamTimeout: cfg.Server.UpstreamTimeout(),
			Metrics:         m,
			Logger:          logger,
		})
		if err != nil {
			return err
		}

		docs.SwaggerInfo.Version = version.GitRelease
		docs.SwaggerInfo.Host = net.JoinHostPort(displayHost(cfg.Server.Host), cfg.Server.Port)

		srv, err := server.New(server.Config{
			Host:           cfg.Server.Host,
			Port:           cfg.Server.Port,
			CORSOrigins:    cfg.Server.CORSOrigins,
			MaxUploadBytes: cfg.Server.MaxUploadBytes(),
			Gateway:        gateway,
			Regions:        regions.Default(),
			Prompts:        catalog,
			Metrics:        m,
			Logger:         logger,
		})
		if err != nil {
			return err
		}

		logger.Info("upstream model configured",
			"provider", cfg.Defaults.LLMProvider,
			"model", gateway.DefaultModel(),
			"version", version.GitRelease)

		// Start server (blocks until shutdown)
		return srv.Start(ctx)
	},
}

// displayHost turns a wildcard bind address into one a browser can reach.
func displayHost(host string) string {
	switch host {
	case "", "0.0.0.0", "::":
		return "localhost"
	default:
		return host
	}
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "0.0.0.0", "Host to bind to (overrides server.host)")
	serveCmd.Flags().StringVar(&servePort, "port", "8000", "Port to listen on (overrides server.port)")

	rootCmd.AddCommand(serveCmd)
}
