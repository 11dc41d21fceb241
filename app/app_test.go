package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/ludo-technologies/qscan/domain"
	"github.com/ludo-technologies/qscan/service"
)

func writeFile(t *testing.T, dir, rel, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

// writeProjectConfig disables cache persistence so tests do not write
// cache files into the working directory
func writeProjectConfig(t *testing.T, dir string) {
	writeFile(t, dir, "qscan.yaml", "cache:\n  persist: false\n")
}

func newCheckUseCase() *CheckUseCase {
	return NewCheckUseCase(service.NewOutputFormatter(), nil, nil)
}

func TestCheckUseCase_FailsOnDeniedCall(t *testing.T) {
	dir := t.TempDir()
	writeProjectConfig(t, dir)
	writeFile(t, dir, "auth_handler.js", "const out = eval(input);\n")
	writeFile(t, dir, "clean.js", "const x = 1;\n")

	var buf bytes.Buffer
	req := &domain.CheckRequest{
		Paths:        []string{dir},
		OutputFormat: domain.OutputFormatJSON,
		OutputWriter: &buf,
	}

	result, err := newCheckUseCase().Execute(context.Background(), req)
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if result.Passed {
		t.Error("expected gate to fail")
	}
	if result.ExitCode != 1 {
		t.Errorf("expected exit code 1, got %d", result.ExitCode)
	}
	if result.Summary.FilesSubmitted != 2 {
		t.Errorf("expected 2 submitted files, got %d", result.Summary.FilesSubmitted)
	}
	if result.Summary.DeepAnalyses == 0 {
		t.Error("expected the critical file to be analyzed in deep mode")
	}
	if result.Summary.TotalViolations == 0 {
		t.Error("expected violations in the summary")
	}

	var decoded domain.CheckResult
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Passed != result.Passed {
		t.Error("encoded result disagrees with returned result")
	}
}

func TestCheckUseCase_PassesCleanProject(t *testing.T) {
	dir := t.TempDir()
	writeProjectConfig(t, dir)
	writeFile(t, dir, "a.js", "const a = 1;\n")
	writeFile(t, dir, "b.js", "const b = 2;\n")

	result, err := newCheckUseCase().Execute(context.Background(), &domain.CheckRequest{
		Paths: []string{dir},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	if !result.Passed {
		t.Errorf("expected gate to pass, got %+v", result.Files)
	}
	if result.ExitCode != 0 {
		t.Errorf("expected exit code 0, got %d", result.ExitCode)
	}
}

func TestCheckUseCase_ReportsAreSortedByPath(t *testing.T) {
	dir := t.TempDir()
	writeProjectConfig(t, dir)
	for _, name := range []string{"zeta.js", "alpha.js", "mid.js"} {
		writeFile(t, dir, name, "const x = 1;\n")
	}

	result, err := newCheckUseCase().Execute(context.Background(), &domain.CheckRequest{
		Paths:   []string{dir},
		Workers: 4,
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}

	paths := make([]string, 0, len(result.Files))
	for _, f := range result.Files {
		paths = append(paths, f.Path)
	}
	if !sort.StringsAreSorted(paths) {
		t.Errorf("expected reports sorted by path, got %v", paths)
	}
}

func TestCheckUseCase_NoPathsRejected(t *testing.T) {
	_, err := newCheckUseCase().Execute(context.Background(), &domain.CheckRequest{})
	if err == nil {
		t.Error("expected an error for an empty path list")
	}
}

func TestCheckUseCase_MissingPathRejected(t *testing.T) {
	_, err := newCheckUseCase().Execute(context.Background(), &domain.CheckRequest{
		Paths: []string{filepath.Join(t.TempDir(), "missing")},
	})
	if err == nil {
		t.Error("expected an error for a missing path")
	}
}

func TestFileHelper_CollectsSourceFilesRecursively(t *testing.T) {
	dir := t.TempDir()
	want := map[string]bool{
		writeFile(t, dir, "a.js", "x"):         true,
		writeFile(t, dir, "nested/b.ts", "x"):  true,
		writeFile(t, dir, "nested/c.tsx", "x"): true,
	}
	writeFile(t, dir, "README.md", "docs")
	writeFile(t, dir, "node_modules/dep/index.js", "x")

	h := NewFileHelper([]string{".js", ".ts", ".tsx"}, false)
	files, err := h.CollectSourceFiles([]string{dir}, true, []string{"node_modules"})
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if len(files) != len(want) {
		t.Fatalf("expected %d files, got %v", len(want), files)
	}
	for _, f := range files {
		if !want[f] {
			t.Errorf("unexpected file collected: %s", f)
		}
	}
}

func TestFileHelper_NonRecursiveStaysShallow(t *testing.T) {
	dir := t.TempDir()
	top := writeFile(t, dir, "top.js", "x")
	writeFile(t, dir, "nested/deep.js", "x")

	h := NewFileHelper([]string{".js"}, false)
	files, err := h.CollectSourceFiles([]string{dir}, false, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if len(files) != 1 || files[0] != top {
		t.Errorf("expected only the top-level file, got %v", files)
	}
}

func TestFileHelper_RespectsGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "generated/\nskipme.js\n")
	kept := writeFile(t, dir, "kept.js", "x")
	writeFile(t, dir, "skipme.js", "x")
	writeFile(t, dir, "generated/out.js", "x")

	h := NewFileHelper([]string{".js"}, true)
	files, err := h.CollectSourceFiles([]string{dir}, true, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if len(files) != 1 || files[0] != kept {
		t.Errorf("expected only kept.js, got %v", files)
	}
}

func TestFileHelper_ExplicitFilePath(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "single.js", "x")

	h := NewFileHelper([]string{".js"}, false)
	files, err := h.CollectSourceFiles([]string{path}, true, nil)
	if err != nil {
		t.Fatalf("collect: %v", err)
	}

	if len(files) != 1 || files[0] != path {
		t.Errorf("expected the explicit file, got %v", files)
	}
}
