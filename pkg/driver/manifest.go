package driver

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Manifest represents the parsed contents of grit.yaml: a library of named
// query patterns plus the pattern libraries it depends on.
type Manifest struct {
	Path         string
	Name         string
	Version      string
	Language     string
	Patterns     []*PatternSpec
	Dependencies map[string]*DependencySpec
}

// PatternSpec describes one named pattern in the library.
type PatternSpec struct {
	Name        string
	Description string
	Level       string
	Body        string
	Tags        []string
}

// Pattern diagnostic levels.
const (
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// DependencySpec describes where a pattern-library dependency lives:
// a git remote (optionally pinned) or a local path.
type DependencySpec struct {
	Git    string
	Rev    string
	Tag    string
	Branch string
	Path   string
}

type manifestFile struct {
	Name         string                     `yaml:"name"`
	Version      string                     `yaml:"version"`
	Language     string                     `yaml:"language"`
	Patterns     []patternFile              `yaml:"patterns"`
	Dependencies map[string]*DependencySpec `yaml:"dependencies"`
}

type patternFile struct {
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Level       string   `yaml:"level"`
	Body        string   `yaml:"body"`
	Tags        []string `yaml:"tags"`
}

// ValidationError aggregates manifest validation failures.
type ValidationError struct {
	Issues []string
}

func (e *ValidationError) Error() string {
	if len(e.Issues) == 0 {
		return "manifest: invalid configuration"
	}
	var b strings.Builder
	b.WriteString("manifest validation failed:")
	for _, issue := range e.Issues {
		b.WriteString("\n- ")
		b.WriteString(issue)
	}
	return b.String()
}

// LoadManifest parses grit.yaml from disk, returning a validated manifest.
func LoadManifest(path string) (*Manifest, error) {
	if path == "" {
		return nil, fmt.Errorf("manifest: empty path")
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("manifest: resolve %s: %w", path, err)
	}
	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("manifest: open %s: %w", absPath, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var raw manifestFile
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("manifest: %s is empty", absPath)
		}
		return nil, fmt.Errorf("manifest: parse %s: %w", absPath, err)
	}

	manifest := raw.toManifest(absPath)
	if err := manifest.validate(); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (f manifestFile) toManifest(path string) *Manifest {
	manifest := &Manifest{
		Path:         path,
		Name:         f.Name,
		Version:      f.Version,
		Language:     f.Language,
		Dependencies: f.Dependencies,
	}
	for _, p := range f.Patterns {
		manifest.Patterns = append(manifest.Patterns, &PatternSpec{
			Name:        p.Name,
			Description: p.Description,
			Level:       p.Level,
			Body:        p.Body,
			Tags:        p.Tags,
		})
	}
	return manifest
}

func (m *Manifest) validate() error {
	var errs ValidationError
	if m.Name == "" {
		errs.Issues = append(errs.Issues, "name must be provided")
	}

	seen := make(map[string]struct{}, len(m.Patterns))
	for i, pattern := range m.Patterns {
		if pattern.Name == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("patterns[%d] must have a name", i))
			continue
		}
		if _, dup := seen[pattern.Name]; dup {
			errs.Issues = append(errs.Issues, fmt.Sprintf("pattern %q defined more than once", pattern.Name))
		}
		seen[pattern.Name] = struct{}{}
		if pattern.Body == "" {
			errs.Issues = append(errs.Issues, fmt.Sprintf("pattern %q has no body", pattern.Name))
		}
		switch pattern.Level {
		case "", LevelInfo, LevelWarn, LevelError:
		default:
			errs.Issues = append(errs.Issues, fmt.Sprintf("pattern %q has unsupported level %q", pattern.Name, pattern.Level))
		}
	}

	for name, dep := range m.Dependencies {
		if dep == nil {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s must not be empty", name))
			continue
		}
		for _, issue := range dep.validate() {
			errs.Issues = append(errs.Issues, fmt.Sprintf("dependencies.%s: %s", name, issue))
		}
	}

	if len(errs.Issues) > 0 {
		return &errs
	}
	return nil
}

func (d *DependencySpec) validate() []string {
	var issues []string
	if d.Git == "" && d.Path == "" {
		issues = append(issues, "requires either git or path")
	}
	if d.Git != "" && d.Path != "" {
		issues = append(issues, "git and path are mutually exclusive")
	}
	pins := 0
	for _, pin := range []string{d.Rev, d.Tag, d.Branch} {
		if pin != "" {
			pins++
		}
	}
	if pins > 1 {
		issues = append(issues, "at most one of rev, tag or branch may be set")
	}
	if d.Path != "" && pins > 0 {
		issues = append(issues, "path dependencies cannot be pinned")
	}
	return issues
}

// Pattern returns the named pattern spec, if present.
func (m *Manifest) Pattern(name string) (*PatternSpec, bool) {
	for _, pattern := range m.Patterns {
		if pattern.Name == name {
			return pattern, true
		}
	}
	return nil, false
}
