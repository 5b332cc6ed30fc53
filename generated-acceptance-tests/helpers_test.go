package acceptance_test

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// runTck executes the tck binary and returns stdout, stderr, and exit code.
func runTck(t *testing.T, dir string, args ...string) (string, string, int) {
	t.Helper()
	cmd := exec.Command(tckBinary, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	exitCode := 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run tck: %v", err)
		}
	}
	return stdout.String(), stderr.String(), exitCode
}

// runTckSuccess runs tck expecting exit code 0 and returns stdout.
func runTckSuccess(t *testing.T, dir string, args ...string) string {
	t.Helper()
	stdout, stderr, exitCode := runTck(t, dir, args...)
	if exitCode != 0 {
		t.Fatalf("expected exit 0, got %d\nargs: %v\nstdout: %s\nstderr: %s", exitCode, args, stdout, stderr)
	}
	return stdout
}

// runTckExit runs tck expecting the given exit code and returns stdout and stderr.
func runTckExit(t *testing.T, dir string, want int, args ...string) (string, string) {
	t.Helper()
	stdout, stderr, exitCode := runTck(t, dir, args...)
	if exitCode != want {
		t.Fatalf("expected exit %d, got %d\nargs: %v\nstdout: %s\nstderr: %s", want, exitCode, args, stdout, stderr)
	}
	return stdout, stderr
}

// checkJSON runs tck check --json and parses the result.
func checkJSON(t *testing.T, dir string, wantExit int, extraArgs ...string) map[string]interface{} {
	t.Helper()
	args := append([]string{"check", "--json"}, extraArgs...)
	stdout, _ := runTckExit(t, dir, wantExit, args...)
	var result map[string]interface{}
	if err := json.Unmarshal([]byte(stdout), &result); err != nil {
		t.Fatalf("failed to parse check JSON: %v\noutput: %s", err, stdout)
	}
	return result
}

// getFindings extracts the findings array from a check --json result.
func getFindings(t *testing.T, result map[string]interface{}) []map[string]interface{} {
	t.Helper()
	raw, ok := result["findings"].([]interface{})
	if !ok {
		t.Fatal("missing findings in result")
	}
	findings := make([]map[string]interface{}, len(raw))
	for i, f := range raw {
		findings[i] = f.(map[string]interface{})
	}
	return findings
}

// writeFile creates a file with the given content.
func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
}

// mkdir creates a directory and its parents.
func mkdir(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Join(dir, name), 0o755); err != nil {
		t.Fatalf("failed to create dir: %v", err)
	}
}

// readFile reads a file's content.
func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	content, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("failed to read file: %v", err)
	}
	return string(content)
}

// fileExists checks if a file exists.
func fileExists(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
