// Command partnerhub serves and administers the partner program store.
//
// Usage:
//
//	partnerhub <command> [flags]
//
// Commands: serve, seed, import, export, documents, drop-document, reset,
// summary, catalog, metrics, delete-program, expire-invitations.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"partnerhub/internal/config"
	"partnerhub/internal/core"
	"partnerhub/internal/programs"
)

var (
	exitFunc   = os.Exit
	envFiles   = []string{".env"}
	loadConfig = func() (config.Config, error) { return config.Load(envFiles...) }
)

// app carries what every command needs.
type app struct {
	cfg      config.Config
	log      *zap.Logger
	store    *core.Store
	svc      *programs.Service
	registry *prometheus.Registry
	stdout   io.Writer
}

type command struct {
	summary string
	run     func(ctx context.Context, a *app, args []string) error
	// metrics commands register a Prometheus recorder on the store.
	metrics bool
}

var commands = map[string]command{
	"serve":              {summary: "serve the HTTP API", run: runServe, metrics: true},
	"seed":               {summary: "load the demo dataset", run: runSeed},
	"import":             {summary: "load a YAML fixture", run: runImport},
	"export":             {summary: "write the stored document as JSON or a YAML fixture", run: runExport},
	"documents":          {summary: "list the documents stored in the backend", run: runDocuments},
	"drop-document":      {summary: "remove a document stored under another key", run: runDropDocument},
	"reset":              {summary: "replace the stored document with an empty one", run: runReset},
	"summary":            {summary: "print one program summary", run: runSummary},
	"catalog":            {summary: "print the program catalog", run: runCatalog},
	"metrics":            {summary: "print partner-wide program metrics", run: runMetrics},
	"delete-program":     {summary: "delete a program and every dependent record", run: runDeleteProgram},
	"expire-invitations": {summary: "expire open invitations past their expiry", run: runExpire},
}

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return 2
		}
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		_, _ = fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 2
	}

	cfg, err := loadConfig()
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "config: %v\n", err)
		return 1
	}
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "logger: %v\n", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{cfg: cfg, log: logger, stdout: stdout}
	err = a.open(ctx, cmd.metrics)
	if err == nil {
		defer func() { _ = a.store.Close() }()
		err = cmd.run(ctx, a, args[1:])
	}
	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", args[0], err)
		return 2
	default:
		_, _ = fmt.Fprintf(stderr, "%s: %v\n", args[0], err)
		return 1
	}
}

var errUsage = errors.New("usage")

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	_, _ = fmt.Fprintln(w, "usage: partnerhub <command> [flags]")
	_, _ = fmt.Fprintln(w, "commands:")
	for _, name := range names {
		_, _ = fmt.Fprintf(w, "  %-20s %s\n", name, commands[name].summary)
	}
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

func (a *app) open(ctx context.Context, withMetrics bool) error {
	logger := core.NewZapLogger(a.log)
	opts := []core.Option{core.WithLogger(logger)}
	if withMetrics {
		a.registry = newRegistry()
		rec, err := core.NewPrometheusMetricsRecorder(a.registry)
		if err != nil {
			return fmt.Errorf("register metrics: %w", err)
		}
		opts = append(opts, core.WithMetricsRecorder(rec))
	}
	store, err := core.OpenStore(ctx, a.cfg.Storage, opts...)
	if err != nil {
		return err
	}
	a.store = store
	a.svc = programs.NewService(store, programs.WithLogger(logger))
	a.log.Debug("store opened", zap.String("driver", string(store.Driver())), zap.String("key", store.Key()))
	return nil
}

func (a *app) printJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%w: unexpected arguments %v", errUsage, fs.Args())
	}
	return nil
}

func requireFlag(name, value string) error {
	if value == "" {
		return fmt.Errorf("%w: -%s is required", errUsage, name)
	}
	return nil
}
