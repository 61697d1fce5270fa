package programs_test

import (
	"sort"
	"strings"
	"testing"

	"golang.org/x/tools/go/packages"

	"partnerhub/testutil"
)

// The program engine reaches the stored document only through the record
// store and never touches the codec.
func TestProgramsStayBehindRecordStore(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".",
		testutil.AnyOf(testutil.InfraImportForbidden, testutil.DocumentCodecForbidden),
		"programs must use the record store")
}

// Outer adapters may encode responses but never open storage drivers.
func TestAdaptersDoNotImportInfra(t *testing.T) {
	cfg := &packages.Config{Mode: packages.NeedName | packages.NeedImports}
	pkgs, err := packages.Load(cfg, "partnerhub/internal/adapters/...")
	if err != nil {
		t.Fatalf("load packages: %v", err)
	}
	var violations []string
	for _, pkg := range pkgs {
		for importPath := range pkg.Imports {
			if testutil.InfraImportForbidden(importPath) {
				violations = append(violations, pkg.PkgPath+" imports "+importPath)
			}
		}
	}
	sort.Strings(violations)
	if len(violations) > 0 {
		t.Fatalf("forbidden imports:\n%s", strings.Join(violations, "\n"))
	}
}
