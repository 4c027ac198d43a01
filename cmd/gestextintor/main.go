package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/erazemk/gestextintor/internal/advice"
	"github.com/erazemk/gestextintor/internal/api"
	"github.com/erazemk/gestextintor/internal/config"
	"github.com/erazemk/gestextintor/internal/db"
	"github.com/erazemk/gestextintor/internal/metrics"
	"github.com/erazemk/gestextintor/internal/store"
	"github.com/erazemk/gestextintor/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. If logPath is non-empty, all
// levels are also written to that file. The returned cleanup may be nil.
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	var cleanup func()

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("gestextintor", flag.ContinueOnError)

	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "")
	fs.StringVar(&cfg.DBPath, "d", cfg.DBPath, "")

	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "")
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "")

	fs.StringVar(&cfg.LogPath, "log", cfg.LogPath, "")
	fs.StringVar(&cfg.LogPath, "l", cfg.LogPath, "")

	fs.StringVar(&cfg.Backend, "backend", cfg.Backend, "")
	fs.StringVar(&cfg.Backend, "b", cfg.Backend, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, `Usage: gestextintor [flags]

Flags:
  -d, -db <path>          storage file path (default: gestextintor.db)
  -a, -addr <host:port>   listen address (default: :8080)
  -b, -backend <name>     storage backend: sqlite, bolt or memory (default: sqlite)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

Environment:
  GESTEXTINTOR_ADVICE_API_KEY       Gemini API key for the safety assistant
  GESTEXTINTOR_ADVICE_MODEL         model name (default: gemini-3-flash-preview)
  GESTEXTINTOR_ADVICE_URL           API base URL
  GESTEXTINTOR_ADVICE_TIMEOUT       request timeout (default: 30s)
  GESTEXTINTOR_ADVICE_TEMPERATURE   sampling temperature (default: 0.7)
`)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() > 0 {
		fmt.Fprintf(os.Stderr, "unexpected argument: %s\n", fs.Arg(0))
		fs.Usage()
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.LogPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if closeLog != nil {
		defer closeLog()
	}

	s, jwtSecret, closeKV, err := openStore(context.Background(), cfg)
	if err != nil {
		slog.Error("failed to open storage", "backend", cfg.Backend, "error", err)
		os.Exit(1)
	}
	defer closeKV()

	slog.Info("storage ready", "backend", cfg.Backend, "path", cfg.DBPath)

	if cfg.Advice.APIKey == "" {
		slog.Warn("no advice API key configured, the safety assistant will answer with the fallback message")
	}
	assistants := advice.NewRegistry(advice.NewClient(cfg.Advice.ClientConfig()))

	apiRouter := api.NewRouter(s, jwtSecret, assistants)
	webRouter, err := web.NewRouter(s, jwtSecret, assistants)
	if err != nil {
		slog.Error("failed to set up web router", "error", err)
		os.Exit(1)
	}

	// Combine: API routes take priority, web routes handle the rest.
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	mux.Handle("/api/", apiRouter)
	mux.Handle("/", webRouter)

	handler := api.LoggingMiddleware(metrics.Middleware(mux))

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.Advice.Timeout + 30*time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped, closing storage")
}

// openStore opens the configured medium and loads the JWT secret, which is
// generated on first run. Users are never seeded: the first account comes
// from the register screen.
func openStore(ctx context.Context, cfg config.Config) (*store.Store, string, func(), error) {
	kv, closeKV, err := openStorage(cfg)
	if err != nil {
		return nil, "", nil, err
	}

	s := store.New(kv)
	jwtSecret, err := s.JWTSecret(ctx)
	if err != nil {
		closeKV()
		return nil, "", nil, fmt.Errorf("loading JWT secret: %w", err)
	}
	return s, jwtSecret, closeKV, nil
}

// openStorage opens the configured storage medium.
func openStorage(cfg config.Config) (db.KV, func(), error) {
	switch cfg.Backend {
	case config.BackendBolt:
		b, err := db.OpenBolt(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		return b, func() { b.Close() }, nil

	case config.BackendMemory:
		slog.Warn("using in-memory storage, nothing will survive a restart")
		return db.NewMemoryKV(), func() {}, nil

	default:
		database, err := db.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, err
		}
		// Ensure schema exists (idempotent).
		if err := db.EnsureSchema(database); err != nil {
			database.Close()
			return nil, nil, fmt.Errorf("ensuring schema: %w", err)
		}
		return db.NewSQLiteKV(database), func() { database.Close() }, nil
	}
}
