package acceptance_test

import (
	"path/filepath"
	"strings"
	"testing"
)

const directoryLibManifest = `[package]
name = "demo"

[lib]
path = "src"

[[bin]]
name = "tool"
path = "src/bin/tool.rs"
`

func TestCheck_CleanProjectExitsZero(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[package]\nname = \"demo\"\n\n[lib]\npath = \"src/lib.rs\"\n")
	writeFile(t, dir, "src/lib.rs", "")

	stdout := runTckSuccess(t, dir, "check")

	if stdout != "" {
		t.Errorf("expected no output, got %q", stdout)
	}
}

func TestCheck_DirectoryLibSuggestsLibRS(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", directoryLibManifest)
	writeFile(t, dir, "src/lib.rs", "")
	writeFile(t, dir, "src/bin/tool.rs", "")

	stdout, _ := runTckExit(t, dir, 2, "check")

	if !strings.Contains(stdout, "for lib `demo` is a directory, but a source file was expected.") {
		t.Errorf("missing directory diagnostic in %q", stdout)
	}
	wantHelp := "help: specify the path to the intended entrypoint file instead: `" + filepath.Join(dir, "src", "lib.rs") + "`"
	if !strings.Contains(stdout, wantHelp) {
		t.Errorf("missing %q in %q", wantHelp, stdout)
	}
	if !strings.Contains(stdout, "1 error(s), 0 warning(s)") {
		t.Errorf("missing summary in %q", stdout)
	}
}

func TestCheck_DirectoryWithoutEntrypointHasNoHelp(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[[bin]]\nname = \"tool\"\npath = \"tools\"\n")
	writeFile(t, dir, "tools/lib.rs", "")

	stdout, _ := runTckExit(t, dir, 2, "check")

	if !strings.Contains(stdout, "for bin `tool` is a directory") {
		t.Errorf("missing directory diagnostic in %q", stdout)
	}
	if strings.Contains(stdout, "help:") {
		t.Errorf("bin must not be offered lib.rs, got %q", stdout)
	}
}

func TestCheck_MissingSourceJSON(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[[test]]\nname = \"smoke\"\npath = \"tests/smoke.rs\"\n")

	result := checkJSON(t, dir, 2)

	findings := getFindings(t, result)
	if len(findings) != 1 {
		t.Fatalf("findings = %v, want 1", findings)
	}
	f := findings[0]
	if f["type"] != "missing_source" || f["kind"] != "test" || f["target"] != "smoke" {
		t.Errorf("finding = %v", f)
	}
	wantMsg := "can't find integration-test `smoke` at path `" + filepath.Join(dir, "tests", "smoke.rs") + "`"
	if f["message"] != wantMsg {
		t.Errorf("message = %v, want %q", f["message"], wantMsg)
	}
	summary := result["summary"].(map[string]interface{})
	if summary["errors"] != float64(1) {
		t.Errorf("summary = %v", summary)
	}
}

func TestCheck_DuplicateNames(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[[bin]]\nname = \"app\"\npath = \"a.rs\"\n\n[[bin]]\nname = \"app\"\npath = \"b.rs\"\n")
	writeFile(t, dir, "a.rs", "")
	writeFile(t, dir, "b.rs", "")

	result := checkJSON(t, dir, 2)

	findings := getFindings(t, result)
	if len(findings) != 1 || findings[0]["type"] != "duplicate_target_name" {
		t.Fatalf("findings = %v, want one duplicate_target_name", findings)
	}
}

func TestCheck_FailFastReportsOnlyFirst(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", "[[bin]]\nname = \"a\"\npath = \"a.rs\"\n\n[[bin]]\nname = \"b\"\npath = \"b.rs\"\n")

	result := checkJSON(t, dir, 2, "--fail-fast")

	findings := getFindings(t, result)
	if len(findings) != 1 || findings[0]["target"] != "a" {
		t.Errorf("findings = %v, want only target a", findings)
	}
}

func TestCheck_ManifestFoundFromSubdirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml", directoryLibManifest)
	writeFile(t, dir, "src/bin/tool.rs", "")

	stdout, _ := runTckExit(t, filepath.Join(dir, "src", "bin"), 2, "check")

	if !strings.Contains(stdout, "for lib `demo` is a directory") {
		t.Errorf("expected upward search to find the manifest, got %q", stdout)
	}
}

func TestCheck_ManifestFlag(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "crates/core/Cargo.toml", "[[bin]]\nname = \"x\"\npath = \"x.rs\"\n")
	writeFile(t, dir, "crates/core/x.rs", "")

	runTckSuccess(t, dir, "check", "--manifest", filepath.Join("crates", "core", "Cargo.toml"))
}

func TestCheck_OutsideProjectExitsOne(t *testing.T) {
	dir := t.TempDir()

	_, stderr := runTckExit(t, dir, 1, "check", "--manifest", filepath.Join(dir, "Missing.toml"))

	if !strings.HasPrefix(stderr, "tck: ") {
		t.Errorf("stderr = %q, want tck: prefix", stderr)
	}
}
