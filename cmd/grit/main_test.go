package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindManifest(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, "grit.yaml"), []byte("name: test\n"), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	child := filepath.Join(root, "src", "app")
	if err := os.MkdirAll(child, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	found, err := findManifest(child)
	if err != nil {
		t.Fatalf("findManifest returned error: %v", err)
	}
	want := filepath.Join(root, "grit.yaml")
	if found != want {
		t.Fatalf("findManifest = %q, want %q", found, want)
	}
}

func TestFindManifestMissing(t *testing.T) {
	_, err := findManifest(t.TempDir())
	if err == nil {
		t.Fatalf("expected error when no grit.yaml exists")
	}
}

func TestResolveGritHomeEnv(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "cache")
	t.Setenv("GRIT_HOME", target)

	got, err := resolveGritHome()
	if err != nil {
		t.Fatalf("resolveGritHome error: %v", err)
	}
	if got != target {
		t.Fatalf("resolveGritHome = %q, want %q", got, target)
	}
}

func TestResolveGritHomeDefault(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("GRIT_HOME", "")
	t.Setenv("HOME", tmp)

	got, err := resolveGritHome()
	if err != nil {
		t.Fatalf("resolveGritHome error: %v", err)
	}
	if want := filepath.Join(tmp, ".grit"); got != want {
		t.Fatalf("resolveGritHome = %q, want %q", got, want)
	}
}

func TestRunExitCodes(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want int
	}{
		{"no args", nil, 1},
		{"help", []string{"--help"}, 0},
		{"version", []string{"version"}, 0},
		{"unknown command", []string{"frobnicate"}, 1},
		{"parse without file", []string{"parse"}, 1},
		{"patterns without subcommand", []string{"patterns"}, 1},
		{"unknown patterns subcommand", []string{"patterns", "prune"}, 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := run(tc.args); got != tc.want {
				t.Fatalf("run(%v) = %d, want %d", tc.args, got, tc.want)
			}
		})
	}
}

func TestRunParse(t *testing.T) {
	dir := t.TempDir()
	source := filepath.Join(dir, "app.js")
	if err := os.WriteFile(source, []byte("let a = 1;\n"), 0o644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	if got := run([]string{"parse", source}); got != 0 {
		t.Fatalf("run(parse) = %d, want 0", got)
	}
	if got := run([]string{"parse", filepath.Join(dir, "missing.js")}); got != 1 {
		t.Fatalf("run(parse missing) = %d, want 1", got)
	}
}

func TestRunPatternsList(t *testing.T) {
	dir := t.TempDir()
	manifest := `name: lib
patterns:
  - name: p
    description: demo
    body: "x"
`
	if err := os.WriteFile(filepath.Join(dir, "grit.yaml"), []byte(manifest), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	t.Chdir(dir)

	if got := run([]string{"patterns", "list"}); got != 0 {
		t.Fatalf("run(patterns list) = %d, want 0", got)
	}
}
