package domain_test

import (
	"testing"

	"partnerhub/testutil"
)

// The domain package is the shared vocabulary; it must not reach into
// implementation packages.
func TestDomainDoesNotImportInternal(t *testing.T) {
	testutil.AssertNoDirectImports(t, ".", testutil.InternalImportForbidden, "domain must not import internal packages")
	testutil.AssertNoTransitiveDependency(t, "partnerhub/pkg/domain", testutil.InternalImportForbidden, "domain must not depend on internal packages")
}
