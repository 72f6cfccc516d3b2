package driver

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeManifest(t *testing.T, dir, contents string) string {
	t.Helper()
	path := filepath.Join(dir, "grit.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(contents)+"\n"), 0o644); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	return path
}

func TestLoadManifest(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: sample-lib
version: 0.1.0
language: js
patterns:
  - name: no_console_log
    description: Flag console.log calls
    level: warn
    body: "`+"`console.log($args)`"+`"
  - name: prefer_const
    body: "`+"`let $x = $v`"+`"
dependencies:
  stdlib:
    git: https://example.com/grit/stdlib.git
    tag: v1.2.0
  local:
    path: ../local-lib
`)

	manifest, err := LoadManifest(path)
	if err != nil {
		t.Fatalf("LoadManifest returned error: %v", err)
	}

	want := &Manifest{
		Path:     path,
		Name:     "sample-lib",
		Version:  "0.1.0",
		Language: "js",
		Patterns: []*PatternSpec{
			{
				Name:        "no_console_log",
				Description: "Flag console.log calls",
				Level:       LevelWarn,
				Body:        "`console.log($args)`",
			},
			{
				Name: "prefer_const",
				Body: "`let $x = $v`",
			},
		},
		Dependencies: map[string]*DependencySpec{
			"stdlib": {Git: "https://example.com/grit/stdlib.git", Tag: "v1.2.0"},
			"local":  {Path: "../local-lib"},
		},
	}
	if diff := cmp.Diff(want, manifest); diff != "" {
		t.Fatalf("manifest mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadManifestRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: sample
colour: purple
`)
	if _, err := LoadManifest(path); err == nil {
		t.Fatalf("expected error for unknown field")
	}
}

func TestLoadManifestEmptyFile(t *testing.T) {
	path := writeManifest(t, t.TempDir(), "")
	_, err := LoadManifest(path)
	if err == nil || !strings.Contains(err.Error(), "empty") {
		t.Fatalf("expected empty-manifest error, got %v", err)
	}
}

func TestLoadManifestMissingFile(t *testing.T) {
	if _, err := LoadManifest(filepath.Join(t.TempDir(), "grit.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidationAggregatesIssues(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
patterns:
  - name: dup
    body: "`+"`x`"+`"
  - name: dup
    body: "`+"`y`"+`"
  - name: bad_level
    level: shout
    body: "`+"`z`"+`"
  - name: empty_body
dependencies:
  broken:
    git: https://example.com/a.git
    path: ../b
    rev: abc123
    tag: v1
`)
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}

	wantIssues := []string{
		"name must be provided",
		`pattern "dup" defined more than once`,
		`pattern "bad_level" has unsupported level "shout"`,
		`pattern "empty_body" has no body`,
		"dependencies.broken: git and path are mutually exclusive",
		"dependencies.broken: at most one of rev, tag or branch may be set",
		"dependencies.broken: path dependencies cannot be pinned",
	}
	for _, want := range wantIssues {
		found := false
		for _, issue := range verr.Issues {
			if issue == want {
				found = true
				break
			}
		}
		if !found {
			t.Fatalf("missing issue %q in %v", want, verr.Issues)
		}
	}
}

func TestValidationRequiresDependencySource(t *testing.T) {
	path := writeManifest(t, t.TempDir(), `
name: sample
dependencies:
  nowhere: {}
`)
	_, err := LoadManifest(path)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if !strings.Contains(err.Error(), "requires either git or path") {
		t.Fatalf("unexpected issues: %v", verr.Issues)
	}
}

func TestManifestPatternLookup(t *testing.T) {
	manifest := &Manifest{
		Patterns: []*PatternSpec{{Name: "a"}, {Name: "b"}},
	}
	if _, ok := manifest.Pattern("b"); !ok {
		t.Fatalf("expected to find pattern b")
	}
	if _, ok := manifest.Pattern("z"); ok {
		t.Fatalf("did not expect to find pattern z")
	}
}
