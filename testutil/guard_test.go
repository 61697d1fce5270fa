package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type recordingFatal struct{ msg string }

func (r *recordingFatal) Fatalf(format string, args ...any) { r.msg = fmt.Sprintf(format, args...) }

func TestPredicates(t *testing.T) {
	cases := []struct {
		name string
		pred func(string) bool
		in   string
		want bool
	}{
		{"internal", InternalImportForbidden, "partnerhub/internal/core", true},
		{"internal root", InternalImportForbidden, "partnerhub/internal", true},
		{"internal miss", InternalImportForbidden, "partnerhub/pkg/domain", false},
		{"infra", InfraImportForbidden, "partnerhub/internal/infra/persistence/sqlite", true},
		{"infra miss", InfraImportForbidden, "partnerhub/internal/core", false},
		{"codec", DocumentCodecForbidden, "encoding/json", true},
		{"codec miss", DocumentCodecForbidden, "encoding/csv", false},
		{"any of", AnyOf(InfraImportForbidden, DocumentCodecForbidden), "encoding/json", true},
		{"any of miss", AnyOf(InfraImportForbidden, DocumentCodecForbidden), "fmt", false},
	}
	for _, c := range cases {
		if got := c.pred(c.in); got != c.want {
			t.Errorf("%s: pred(%q)=%v want %v", c.name, c.in, got, c.want)
		}
	}
}

func writeSource(t *testing.T, dir, name, src string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(src), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestDirectImportViolations(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "main.go", "package tmp\nimport (\n\t\"fmt\"\n\t\"encoding/json\"\n)\nvar _ = fmt.Sprint\nvar _ = json.Marshal\n")
	writeSource(t, dir, "main_test.go", "package tmp\nimport \"partnerhub/internal/infra/blob/fs\"\n")
	writeSource(t, dir, "notes.txt", "import \"encoding/json\"")

	viols, err := directImportViolations(dir, AnyOf(DocumentCodecForbidden, InfraImportForbidden))
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if len(viols) != 1 || !strings.HasPrefix(viols[0], "encoding/json (in main.go)") {
		t.Fatalf("expected only the non-test json import, got %v", viols)
	}

	rec := &recordingFatal{}
	failIfViolations(rec, "forbidden direct imports", "codec", viols)
	if !strings.Contains(rec.msg, "codec") || !strings.Contains(rec.msg, "main.go") {
		t.Fatalf("unexpected failure message %q", rec.msg)
	}
}

func TestAssertNoDirectImportsPasses(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "x.go", "package tmp\nimport \"fmt\"\nfunc X() { fmt.Println(1) }\n")
	AssertNoDirectImports(t, dir, InternalImportForbidden, "none")
}

func TestDirectImportViolationsMissingDir(t *testing.T) {
	if _, err := directImportViolations(filepath.Join(t.TempDir(), "absent"), DocumentCodecForbidden); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}

func TestAssertNoTransitiveDependency(t *testing.T) {
	AssertNoTransitiveDependency(t, "partnerhub/pkg/domain", InternalImportForbidden, "domain stays free of internal packages")
}
