package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	_ "modernc.org/sqlite"

	"github.com/Ethan1812/pdf-edit-online/assemble"
	"github.com/Ethan1812/pdf-edit-online/dbopen"
	"github.com/Ethan1812/pdf-edit-online/docstore"
	"github.com/Ethan1812/pdf-edit-online/httpapi"
	"github.com/Ethan1812/pdf-edit-online/kit"
	"github.com/Ethan1812/pdf-edit-online/observability"
)

func main() {
	// Logging.
	var lvl slog.Level
	switch env("LOG_LEVEL", "info") {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Config: YAML file when CONFIG is set, defaults otherwise. The listen
	// address can still be overridden via PORT.
	cfg := httpapi.DefaultConfig()
	if path := os.Getenv("CONFIG"); path != "" {
		var err error
		cfg, err = httpapi.LoadConfig(path)
		if err != nil {
			slog.Error("config", "error", err)
			os.Exit(1)
		}
	}
	if port := os.Getenv("PORT"); port != "" {
		cfg.Listen = ":" + port
	}

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Observability DB.
	obsDB, err := dbopen.Open(cfg.ObsDBPath, dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("observability db", "error", err)
		os.Exit(1)
	}
	defer obsDB.Close()
	if err := observability.Init(obsDB); err != nil {
		slog.Error("observability init", "error", err)
		os.Exit(1)
	}
	events := observability.NewEventLogger(obsDB)

	// Document store. Uploaded bytes live in memory for the session; the
	// sweeper reclaims documents the client abandoned.
	store := docstore.New(docstore.WithTTL(cfg.DocTTL()), docstore.WithLogger(logger))
	if cfg.DocTTL() > 0 {
		store.StartSweeper(ctx, time.Minute)
	}

	// Assembly engine.
	engine := assemble.New(store, assemble.Config{
		PreviewWidth: cfg.PreviewWidth,
		Workers:      cfg.Workers,
		Logger:       logger,
	}, assemble.WithEvents(&assemblyEvents{events: events}))

	// Optional MCP over stdio.
	if env("MCP_TRANSPORT", "") == "stdio" {
		mcpSrv := mcp.NewServer(&mcp.Implementation{
			Name:    "pdfedit",
			Version: "1.0.0",
		}, nil)
		assemble.NewMCPTools(store, engine).RegisterMCP(mcpSrv)

		slog.Info("MCP stdio starting")
		if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
			slog.Error("MCP stdio", "error", err)
			os.Exit(1)
		}
		return
	}

	// Router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(httpapi.RequestLogger(logger, events))

	svc := httpapi.NewService(store, engine,
		httpapi.WithLogger(logger),
		httpapi.WithMaxUpload(cfg.MaxUploadBytes()))
	svc.Register(r)

	// HTTP server.
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("listening", "addr", cfg.Listen)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("serve", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// assemblyEvents adapts the engine's completion callback to the business
// event log.
type assemblyEvents struct {
	events *observability.EventLogger
}

func (a *assemblyEvents) AssemblyCompleted(ctx context.Context, op string, produced, skipped int, err error) {
	fields := map[string]any{
		"pages_produced": produced,
		"pages_skipped":  skipped,
		"transport":      kit.GetTransport(ctx),
	}
	if addr := kit.GetRemoteAddr(ctx); addr != "" {
		fields["remote_addr"] = addr
	}
	details, _ := json.Marshal(fields)
	a.events.LogEvent(ctx, observability.BusinessEvent{
		EventType:   "assembly",
		ServiceName: "pdfedit",
		EntityType:  "request",
		EntityID:    kit.GetRequestID(ctx),
		Action:      op,
		Details:     string(details),
		Success:     err == nil,
	})
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
