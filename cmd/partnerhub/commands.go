package main

import (
	"context"
	"fmt"
	"os"
	"slices"

	"go.uber.org/zap"

	"partnerhub/internal/programs"
	"partnerhub/internal/seed"
)

func runSeed(ctx context.Context, a *app, args []string) error {
	fs := newFlags("seed")
	replace := fs.Bool("replace", false, "discard the current document first")
	if err := parse(fs, args); err != nil {
		return err
	}
	d := seed.Demo()
	if err := seed.Apply(ctx, a.store, d, seed.ApplyOptions{Replace: *replace}); err != nil {
		return err
	}
	a.log.Info("demo dataset loaded", zap.Int("records", d.Size()))
	_, err := fmt.Fprintf(a.stdout, "seeded %d records\n", d.Size())
	return err
}

func runImport(ctx context.Context, a *app, args []string) error {
	fs := newFlags("import")
	path := fs.String("file", "", "YAML fixture to load")
	replace := fs.Bool("replace", false, "discard the current document first")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlag("file", *path); err != nil {
		return err
	}
	d, err := seed.LoadFile(*path)
	if err != nil {
		return err
	}
	if err := seed.Apply(ctx, a.store, d, seed.ApplyOptions{Replace: *replace}); err != nil {
		return err
	}
	a.log.Info("fixture imported", zap.String("file", *path), zap.Int("records", d.Size()))
	_, err = fmt.Fprintf(a.stdout, "imported %d records\n", d.Size())
	return err
}

func runExport(ctx context.Context, a *app, args []string) error {
	fs := newFlags("export")
	out := fs.String("o", "", "write to file instead of stdout")
	format := fs.String("format", "json", "json (stored document) or yaml (importable fixture)")
	if err := parse(fs, args); err != nil {
		return err
	}
	var data []byte
	var err error
	switch *format {
	case "json":
		data, err = a.store.Export(ctx)
	case "yaml":
		data, err = seed.Marshal(seed.FromDatabase(a.store.LoadDatabase(ctx)))
	default:
		return fmt.Errorf("%w: unknown format %q", errUsage, *format)
	}
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = a.stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(*out, data, 0o600)
}

func runReset(ctx context.Context, a *app, args []string) error {
	if err := parse(newFlags("reset"), args); err != nil {
		return err
	}
	a.store.ResetDatabase(ctx)
	a.log.Warn("document reset", zap.String("key", a.store.Key()))
	_, err := fmt.Fprintln(a.stdout, "document reset")
	return err
}

func runSummary(ctx context.Context, a *app, args []string) error {
	fs := newFlags("summary")
	id := fs.String("program", "", "program id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlag("program", *id); err != nil {
		return err
	}
	s, ok := a.svc.Summary(ctx, *id)
	if !ok {
		return fmt.Errorf("program %s not found", *id)
	}
	return a.printJSON(s)
}

func runCatalog(ctx context.Context, a *app, args []string) error {
	fs := newFlags("catalog")
	private := fs.Bool("include-private", false, "include non-public programs")
	if err := parse(fs, args); err != nil {
		return err
	}
	return a.printJSON(a.svc.Catalog(ctx, programs.CatalogOptions{IncludePrivate: *private}))
}

func runMetrics(ctx context.Context, a *app, args []string) error {
	fs := newFlags("metrics")
	partner := fs.String("partner", "", "partner id")
	related := fs.Bool("include-related", false, "include programs linked through co-partner relationships")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlag("partner", *partner); err != nil {
		return err
	}
	return a.printJSON(a.svc.PartnerMetrics(ctx, *partner, programs.PartnerOptions{IncludeRelated: *related}))
}

func runDeleteProgram(ctx context.Context, a *app, args []string) error {
	fs := newFlags("delete-program")
	id := fs.String("program", "", "program id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlag("program", *id); err != nil {
		return err
	}
	removed, err := a.svc.DeleteProgram(ctx, *id)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("program %s not found", *id)
	}
	_, err = fmt.Fprintf(a.stdout, "deleted program %s\n", *id)
	return err
}

func runExpire(ctx context.Context, a *app, args []string) error {
	if err := parse(newFlags("expire-invitations"), args); err != nil {
		return err
	}
	n, err := a.svc.ExpireInvitations(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "expired %d invitations\n", n)
	return err
}

func runDocuments(ctx context.Context, a *app, args []string) error {
	if err := parse(newFlags("documents"), args); err != nil {
		return err
	}
	keys, err := a.store.Documents(ctx)
	if err != nil {
		return err
	}
	if keys == nil {
		keys = []string{}
	}
	return a.printJSON(map[string]any{
		"active":    a.store.Key(),
		"stored":    slices.Contains(keys, a.store.Key()),
		"documents": keys,
	})
}

func runDropDocument(ctx context.Context, a *app, args []string) error {
	fs := newFlags("drop-document")
	key := fs.String("key", "", "storage key of the document to remove")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireFlag("key", *key); err != nil {
		return err
	}
	removed, err := a.store.DropDocument(ctx, *key)
	if err != nil {
		return err
	}
	if !removed {
		return fmt.Errorf("no document stored under %s", *key)
	}
	a.log.Warn("document dropped", zap.String("key", *key))
	_, err = fmt.Fprintf(a.stdout, "dropped document %s\n", *key)
	return err
}
