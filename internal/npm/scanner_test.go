// SPDX-License-Identifier: MPL-2.0

package npm

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"plugsync-cli/internal/testutil"
	"plugsync-cli/pkg/declaration"
)

// writeManifest writes a package.json declaring deps in the given order.
func writeManifest(t testing.TB, projectDir string, deps ...string) {
	t.Helper()
	entries := make([]string, 0, len(deps))
	for _, d := range deps {
		entries = append(entries, fmt.Sprintf("%q: \"^1.0.0\"", d))
	}
	testutil.MustWriteFile(t, filepath.Join(projectDir, ManifestName),
		fmt.Sprintf(`{"name": "fixture", "dependencies": {%s}}`, strings.Join(entries, ", ")))
}

// installDep creates node_modules/<name> with the given package version and
// optional declaration content.
func installDep(t testing.TB, projectDir, name, version, declJSON string) {
	t.Helper()
	pkgDir := filepath.Join(projectDir, "node_modules", name)
	testutil.MustMkdirAll(t, pkgDir)
	testutil.MustWriteFile(t, filepath.Join(pkgDir, ManifestName),
		fmt.Sprintf(`{"name": %q, "version": %q}`, name, version))
	if declJSON != "" {
		testutil.MustWriteFile(t, filepath.Join(pkgDir, declaration.DefaultFileName), declJSON)
	}
}

func singleDecl(name, version string) string {
	return fmt.Sprintf(`{"name": %q, "version": %q, "description": "d", "source": "./src"}`, name, version)
}

func TestScan_MissingManifest(t *testing.T) {
	t.Parallel()

	providers, err := NewScanner("", nil).Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(providers) != 0 {
		t.Errorf("got %d providers, want 0", len(providers))
	}
}

func TestScan_MalformedManifestIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, ManifestName), `{"dependencies": {`)

	_, err := NewScanner("", nil).Scan(dir)
	if err == nil {
		t.Fatal("Scan() succeeded on malformed manifest")
	}
	msg := strings.ToLower(err.Error())
	if !strings.Contains(msg, "parse") && !strings.Contains(msg, "json") {
		t.Errorf("error should mention parse/json: %v", err)
	}
}

func TestScan_EmptyDependencies(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	testutil.MustWriteFile(t, filepath.Join(dir, ManifestName), `{"name": "fixture"}`)

	providers, err := NewScanner("", nil).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(providers) != 0 {
		t.Errorf("got %d providers, want 0", len(providers))
	}
}

func TestScan_FindsProvidersInManifestOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// zeta before alpha: manifest order, not lexical order, must win.
	writeManifest(t, dir, "zeta-pkg", "plain-pkg", "alpha-pkg")
	installDep(t, dir, "zeta-pkg", "1.0.0", singleDecl("zeta", "1.0.0"))
	installDep(t, dir, "plain-pkg", "2.0.0", "") // no declaration
	installDep(t, dir, "alpha-pkg", "3.0.0", singleDecl("alpha", "3.0.0"))

	providers, err := NewScanner("", nil).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(providers) != 2 {
		t.Fatalf("got %d providers, want 2", len(providers))
	}
	if providers[0].PackageName != "zeta-pkg" || providers[1].PackageName != "alpha-pkg" {
		t.Errorf("providers out of manifest order: %s, %s",
			providers[0].PackageName, providers[1].PackageName)
	}
	if providers[0].Version != "1.0.0" {
		t.Errorf("Version = %q, want 1.0.0", providers[0].Version)
	}
	if !filepath.IsAbs(providers[0].Path) {
		t.Errorf("Path = %q, want absolute", providers[0].Path)
	}
}

func TestScan_ScopedDependency(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "@my-org/my-ai-plugin")
	installDep(t, dir, "@my-org/my-ai-plugin", "1.0.0", singleDecl("ai-helper", "1.0.0"))

	providers, err := NewScanner("", nil).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(providers) != 1 {
		t.Fatalf("got %d providers, want 1", len(providers))
	}
	if providers[0].PackageName != "@my-org/my-ai-plugin" {
		t.Errorf("PackageName = %q", providers[0].PackageName)
	}
}

func TestScan_MissingDependencyDirSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "installed", "not-installed")
	installDep(t, dir, "installed", "1.0.0", singleDecl("here", "1.0.0"))
	// "not-installed" never hits disk; partial installs are normal.

	providers, err := NewScanner("", nil).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(providers) != 1 || providers[0].PackageName != "installed" {
		t.Errorf("unexpected providers: %+v", providers)
	}
}

func TestScan_MalformedDeclarationIsolated(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "broken-pkg", "good-pkg")
	installDep(t, dir, "broken-pkg", "1.0.0", `{"name": "x"}`) // missing required fields
	installDep(t, dir, "good-pkg", "1.0.0", singleDecl("good", "1.0.0"))

	providers, err := NewScanner("", nil).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(providers) != 1 || providers[0].PackageName != "good-pkg" {
		t.Errorf("malformed declaration not isolated: %+v", providers)
	}
}

func TestScan_MarketplaceDeclaration(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "market-pkg")
	installDep(t, dir, "market-pkg", "1.0.0", `{
		"name": "Market", "owner": "acme",
		"plugins": [
			{"name": "one", "source": "./one", "version": "1.0.0", "description": "d"},
			{"name": "two", "source": "./two", "version": "1.1.0", "description": "d"}
		]
	}`)

	providers, err := NewScanner("", nil).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(providers) != 1 {
		t.Fatalf("got %d providers, want 1", len(providers))
	}
	if got := len(providers[0].Declaration.Plugins); got != 2 {
		t.Errorf("got %d plugin entries, want 2", got)
	}
}

func TestScan_SymlinkedPackageFollowed(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "linked-pkg")

	// Real package lives outside node_modules, linked in (npm link layout).
	realDir := filepath.Join(dir, "checkout", "linked-pkg")
	testutil.MustMkdirAll(t, realDir)
	testutil.MustWriteFile(t, filepath.Join(realDir, ManifestName), `{"name": "linked-pkg", "version": "9.0.0"}`)
	testutil.MustWriteFile(t, filepath.Join(realDir, declaration.DefaultFileName), singleDecl("linked", "9.0.0"))

	testutil.MustMkdirAll(t, filepath.Join(dir, "node_modules"))
	if err := os.Symlink(realDir, filepath.Join(dir, "node_modules", "linked-pkg")); err != nil {
		t.Skipf("symlinks not supported here: %v", err)
	}

	providers, err := NewScanner("", nil).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(providers) != 1 || providers[0].Version != "9.0.0" {
		t.Errorf("symlinked package not followed: %+v", providers)
	}
}

func TestScan_DanglingSymlinkSkipped(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "gone-pkg")
	testutil.MustMkdirAll(t, filepath.Join(dir, "node_modules"))
	if err := os.Symlink(filepath.Join(dir, "nowhere"), filepath.Join(dir, "node_modules", "gone-pkg")); err != nil {
		t.Skipf("symlinks not supported here: %v", err)
	}

	providers, err := NewScanner("", nil).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(providers) != 0 {
		t.Errorf("dangling symlink should degrade to no provider: %+v", providers)
	}
}

func TestScan_CustomDeclarationFilename(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeManifest(t, dir, "custom-pkg")
	pkgDir := filepath.Join(dir, "node_modules", "custom-pkg")
	testutil.MustMkdirAll(t, pkgDir)
	testutil.MustWriteFile(t, filepath.Join(pkgDir, ManifestName), `{"name": "custom-pkg", "version": "1.0.0"}`)
	testutil.MustWriteFile(t, filepath.Join(pkgDir, "other-decl.json"), singleDecl("custom", "1.0.0"))

	providers, err := NewScanner("other-decl.json", nil).Scan(dir)
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if len(providers) != 1 {
		t.Errorf("custom declaration filename not honored: %+v", providers)
	}
}

func TestDependencyNames_Order(t *testing.T) {
	t.Parallel()

	names, err := dependencyNames([]byte(`{"z": "1", "a": "2", "m": "3"}`))
	if err != nil {
		t.Fatalf("dependencyNames() returned error: %v", err)
	}
	want := []string{"z", "a", "m"}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("names = %v, want %v", names, want)
		}
	}
}

func TestDependencyNames_NullAndEmpty(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "null"} {
		names, err := dependencyNames([]byte(raw))
		if err != nil {
			t.Errorf("dependencyNames(%q) returned error: %v", raw, err)
		}
		if len(names) != 0 {
			t.Errorf("dependencyNames(%q) = %v, want empty", raw, names)
		}
	}
}

func TestDependencyNames_NotAnObject(t *testing.T) {
	t.Parallel()

	if _, err := dependencyNames([]byte(`["a"]`)); err == nil {
		t.Error("dependencyNames() accepted an array")
	}
}
