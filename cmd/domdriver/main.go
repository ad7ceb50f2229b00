// CLAUDE:SUMMARY CLI entry point for domdriver — MCP browser tool server over stdio with an HTTP artifact sidecar.
// Command domdriver serves browser interaction tools to an agent over
// MCP stdio.
//
// Usage:
//
//	domdriver                               # serve MCP on stdio, defaults
//	domdriver -config domdriver.yaml        # run with config file
//	domdriver -journal domdriver.db         # journal commands to SQLite
//	domdriver -http :9321                   # sidecar serving screenshots and health
//	domdriver -auth user:$2a$10$...         # Basic Auth (bcrypt hash) on the sidecar
package main

import (
	"context"
	"crypto/subtle"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/chrd/dbopen"
	"github.com/hazyhaar/chrd/domdriver"
	"github.com/hazyhaar/chrd/journal"
)

func main() {
	configPath := flag.String("config", "", "path to domdriver.yaml config file")
	journalPath := flag.String("journal", "", "path to SQLite command journal (overrides config)")
	httpAddr := flag.String("http", "", "sidecar HTTP listen address (health, screenshots); empty = disabled")
	authSpec := flag.String("auth", "", "sidecar Basic Auth as user:bcrypt-hash; empty = no auth")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	var level slog.Level
	switch *logLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}
	// Stdout carries the MCP protocol; logs go to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *configPath, *journalPath, *httpAddr, *authSpec); err != nil {
		logger.Error("domdriver: fatal", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configPath, journalPath, httpAddr, authSpec string) error {
	cfg, err := resolveConfig(configPath)
	if err != nil {
		return err
	}
	if journalPath != "" {
		cfg.JournalPath = journalPath
	}

	var store *journal.Store
	if cfg.JournalPath != "" {
		db, err := dbopen.Open(cfg.JournalPath,
			dbopen.WithSchema(journal.Schema),
			dbopen.WithMkdirAll(),
		)
		if err != nil {
			return fmt.Errorf("journal db: %w", err)
		}
		defer db.Close()
		store = journal.NewStore(db)
		logger.Info("domdriver: journaling enabled", "path", cfg.JournalPath)
	}

	eng := domdriver.New(*cfg, store, logger)
	defer eng.Close()

	if httpAddr != "" {
		srv, err := sidecar(httpAddr, authSpec, cfg.ScreenshotDir)
		if err != nil {
			return err
		}
		go func() {
			logger.Info("domdriver: sidecar listening", "addr", httpAddr)
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("domdriver: sidecar", "error", err)
			}
		}()
		defer func() {
			sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(sctx)
		}()
	}

	mcpSrv := mcp.NewServer(&mcp.Implementation{
		Name:    "domdriver",
		Version: "1.0.0",
	}, nil)
	eng.RegisterMCP(mcpSrv)

	logger.Info("domdriver: serving MCP on stdio")
	if err := mcpSrv.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return fmt.Errorf("mcp server: %w", err)
	}
	logger.Info("domdriver: shutting down")
	return nil
}

func resolveConfig(configPath string) (*domdriver.Config, error) {
	if configPath != "" {
		return domdriver.LoadConfigFile(configPath)
	}
	return &domdriver.Config{}, nil
}

// sidecar serves health and captured artifacts (screenshots, PDFs) over
// HTTP, so an operator can inspect what the agent saw.
func sidecar(addr, authSpec, screenshotDir string) (*http.Server, error) {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"status":"ok"}`)
	})

	files := http.StripPrefix("/screenshots/", http.FileServer(http.Dir(screenshotDir)))
	if authSpec != "" {
		mw, err := basicAuth(authSpec)
		if err != nil {
			return nil, err
		}
		r.Group(func(r chi.Router) {
			r.Use(mw)
			r.Handle("/screenshots/*", files)
		})
	} else {
		r.Handle("/screenshots/*", files)
	}
	return &http.Server{Addr: addr, Handler: r}, nil
}

// basicAuth builds a Basic Auth middleware from "user:bcrypt-hash".
func basicAuth(spec string) (func(http.Handler) http.Handler, error) {
	user, hash, ok := strings.Cut(spec, ":")
	if !ok || user == "" || hash == "" {
		return nil, fmt.Errorf("auth: expected user:bcrypt-hash, got %q", spec)
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, p, ok := r.BasicAuth()
			if !ok ||
				subtle.ConstantTimeCompare([]byte(u), []byte(user)) != 1 ||
				bcrypt.CompareHashAndPassword([]byte(hash), []byte(p)) != nil {
				w.Header().Set("WWW-Authenticate", `Basic realm="domdriver"`)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}, nil
}
