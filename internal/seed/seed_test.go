package seed

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"partnerhub/internal/core"
	"partnerhub/internal/programs"
	"partnerhub/pkg/domain"
)

func fixedStore() *core.Store {
	now := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	return core.NewStore(nil, core.WithClock(core.ClockFunc(func() time.Time { return now })))
}

func TestDemoIsValidAndDeterministic(t *testing.T) {
	d := Demo()
	if err := d.Validate(); err != nil {
		t.Fatalf("demo dataset invalid: %v", err)
	}
	if Demo().Size() != d.Size() || d.Size() == 0 {
		t.Fatalf("expected a stable non-empty demo dataset")
	}
}

func TestApplyDemoStampsSeededAt(t *testing.T) {
	ctx := context.Background()
	s := fixedStore()
	if err := Apply(ctx, s, Demo(), ApplyOptions{}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	db := s.LoadDatabase(ctx)
	if db.Metadata.SeededAt == nil || !db.Metadata.SeededAt.Equal(s.Now()) {
		t.Fatalf("expected seededAt stamped, got %v", db.Metadata.SeededAt)
	}
	if len(db.Programs) != 3 || len(db.Institutions) != 4 {
		t.Fatalf("unexpected counts: %d programs, %d institutions", len(db.Programs), len(db.Institutions))
	}

	catalog := programs.BuildCatalog(&db, programs.CatalogOptions{})
	if len(catalog) != 2 {
		t.Fatalf("expected two public programs in the demo catalog, got %d", len(catalog))
	}
	summary, _ := programs.FindSummaryByID(&db, "program-climate")
	if summary.Metrics.StudentCount != 265 || len(summary.Metrics.Countries) != 3 {
		t.Fatalf("unexpected flagship metrics %+v", summary.Metrics)
	}
}

func TestApplyTwiceRejectsDuplicatesUnlessReplacing(t *testing.T) {
	ctx := context.Background()
	s := fixedStore()
	if err := Apply(ctx, s, Demo(), ApplyOptions{}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if err := Apply(ctx, s, Demo(), ApplyOptions{}); !errors.Is(err, core.ErrDuplicateID) {
		t.Fatalf("expected ErrDuplicateID, got %v", err)
	}
	if err := Apply(ctx, s, Demo(), ApplyOptions{Replace: true}); err != nil {
		t.Fatalf("replace: %v", err)
	}
	if n := len(core.GetAll(ctx, s, domain.Partners)); n != 3 {
		t.Fatalf("expected replace to leave one copy, got %d partners", n)
	}
}

func TestLoadFile(t *testing.T) {
	d, err := LoadFile(filepath.Join("testdata", "fixture.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(d.Programs) != 1 || d.Programs[0].Status != domain.ProgramStatusActive || len(d.Programs[0].CountriesInScope) != 2 {
		t.Fatalf("unexpected programs %+v", d.Programs)
	}
	ctx := context.Background()
	s := fixedStore()
	if err := Apply(ctx, s, d, ApplyOptions{}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	p, ok := core.GetByID(ctx, s, domain.Programs, "program-a")
	if !ok || !p.CreatedAt.Equal(s.Now()) {
		t.Fatalf("expected fixture program stamped at load time, got %+v", p.Meta)
	}
}

func TestLoadFileRejectsInvalidFixture(t *testing.T) {
	_, err := LoadFile(filepath.Join("testdata", "invalid.yaml"))
	if !errors.Is(err, ErrInvalidDataset) {
		t.Fatalf("expected ErrInvalidDataset, got %v", err)
	}
	if _, err := LoadFile(filepath.Join("testdata", "absent.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestParseRejectsUnknownKeysAndDanglingReferences(t *testing.T) {
	if _, err := Parse(strings.NewReader("partners:\n  - id: a\n    name: A\n    colour: red\n")); err == nil {
		t.Fatalf("expected unknown key to be rejected")
	}
	dangling := "programs:\n  - id: p\n    partnerId: nobody\n    name: P\n"
	if _, err := Parse(strings.NewReader(dangling)); !errors.Is(err, ErrInvalidDataset) {
		t.Fatalf("expected dangling partner reference rejected, got %v", err)
	}
	if d, err := Parse(strings.NewReader("")); err != nil || d.Size() != 0 {
		t.Fatalf("expected empty fixture to parse, got %v", err)
	}
}

func TestMarshalRoundTripsThroughParse(t *testing.T) {
	data, err := Marshal(Demo())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	d, err := Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Size() != Demo().Size() {
		t.Fatalf("expected %d records, got %d", Demo().Size(), d.Size())
	}
}

func TestStoredDocumentReloadsAsFixture(t *testing.T) {
	ctx := context.Background()
	src := fixedStore()
	if err := Apply(ctx, src, Demo(), ApplyOptions{}); err != nil {
		t.Fatalf("apply: %v", err)
	}
	data, err := Marshal(FromDatabase(src.LoadDatabase(ctx)))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	d, err := Parse(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	dst := fixedStore()
	if err := Apply(ctx, dst, d, ApplyOptions{}); err != nil {
		t.Fatalf("reload: %v", err)
	}
	db := dst.LoadDatabase(ctx)
	s, ok := programs.FindSummaryByID(&db, "program-climate")
	if !ok || s.Metrics.StudentCount != 265 {
		t.Fatalf("expected reloaded summary to match, got %+v %v", s.Metrics, ok)
	}
	if d.Size() != Demo().Size() {
		t.Fatalf("expected %d records, got %d", Demo().Size(), d.Size())
	}
}
