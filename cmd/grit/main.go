package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gritql/engine-go/pkg/driver"
	"gritql/engine-go/pkg/tree"
)

const cliToolVersion = "grit-engine 0.0.0-dev"

var errManifestNotFound = errors.New("grit.yaml not found")

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	if len(args) == 0 {
		printUsage()
		return 1
	}

	switch args[0] {
	case "--help", "-h":
		printUsage()
		return 0
	case "--version", "-V", "version":
		fmt.Fprintln(os.Stdout, cliToolVersion)
		return 0
	case "parse":
		return runParse(args[1:])
	case "patterns":
		return runPatterns(args[1:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n", args[0])
		printUsage()
		return 1
	}
}

func runParse(args []string) int {
	if len(args) != 1 {
		fmt.Fprintln(os.Stderr, "grit parse requires exactly one source file")
		return 1
	}
	path := args[0]
	lang := tree.ForPath(path)
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read %s: %v\n", path, err)
		return 1
	}
	parsed, err := lang.Parse(source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to parse %s: %v\n", path, err)
		return 1
	}
	defer parsed.Close()

	printNode(os.Stdout, parsed.RootNode(), 0)
	return 0
}

func printNode(w io.Writer, node tree.Node, depth int) {
	r := node.Range()
	fmt.Fprintf(w, "%s%s [%d:%d - %d:%d]\n",
		strings.Repeat("  ", depth), node.Kind(),
		r.Start.Line, r.Start.Column, r.End.Line, r.End.Column)
	for _, child := range node.NamedChildren() {
		printNode(w, child, depth+1)
	}
}

func runPatterns(args []string) int {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "grit patterns requires a subcommand (list, fetch)")
		return 1
	}
	switch args[0] {
	case "list":
		return runPatternsList()
	case "fetch":
		return runPatternsFetch()
	default:
		fmt.Fprintf(os.Stderr, "unknown patterns subcommand %q\n", args[0])
		return 1
	}
}

func runPatternsList() int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	fmt.Fprintf(os.Stdout, "Library: %s\n", manifest.Name)
	for _, pattern := range manifest.Patterns {
		level := pattern.Level
		if level == "" {
			level = driver.LevelInfo
		}
		fmt.Fprintf(os.Stdout, "  %s (%s)", pattern.Name, level)
		if pattern.Description != "" {
			fmt.Fprintf(os.Stdout, " - %s", pattern.Description)
		}
		fmt.Fprintln(os.Stdout)
	}
	return 0
}

func runPatternsFetch() int {
	manifest, err := loadManifestFrom(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load manifest: %v\n", err)
		return 1
	}
	cacheDir, err := resolveGritHome()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to resolve GRIT_HOME: %v\n", err)
		return 1
	}

	fmt.Fprintf(os.Stdout, "Manifest: %s\n", manifest.Path)
	fmt.Fprintf(os.Stdout, "Dependencies: %d\n", len(manifest.Dependencies))

	locations, err := driver.FetchDependencies(manifest, cacheDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to fetch dependencies: %v\n", err)
		return 1
	}
	for name, location := range locations {
		fmt.Fprintf(os.Stdout, "  %s => %s\n", name, location)
	}
	fmt.Fprintln(os.Stdout, "Dependencies fetched.")
	return 0
}

func loadManifestFrom(start string) (*driver.Manifest, error) {
	if start == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("resolve working directory: %w", err)
		}
		start = cwd
	}
	absStart, err := filepath.Abs(start)
	if err != nil {
		return nil, fmt.Errorf("resolve manifest search path %q: %w", start, err)
	}
	if info, statErr := os.Stat(absStart); statErr == nil && !info.IsDir() {
		absStart = filepath.Dir(absStart)
	}
	manifestPath, err := findManifest(absStart)
	if err != nil {
		return nil, err
	}
	return driver.LoadManifest(manifestPath)
}

func findManifest(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolve start directory %q: %w", start, err)
	}
	if info, statErr := os.Stat(dir); statErr == nil && !info.IsDir() {
		dir = filepath.Dir(dir)
	}
	origin := dir
	for {
		candidate := filepath.Join(dir, "grit.yaml")
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no grit.yaml found from %s upwards: %w", origin, errManifestNotFound)
		}
		dir = parent
	}
}

func resolveGritHome() (string, error) {
	if home := strings.TrimSpace(os.Getenv("GRIT_HOME")); home != "" {
		abs, err := filepath.Abs(home)
		if err != nil {
			return "", fmt.Errorf("resolve GRIT_HOME %q: %w", home, err)
		}
		return abs, nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve user home: %w", err)
	}
	return filepath.Join(userHome, ".grit"), nil
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  grit parse <file>")
	fmt.Fprintln(os.Stderr, "  grit patterns list")
	fmt.Fprintln(os.Stderr, "  grit patterns fetch")
	fmt.Fprintln(os.Stderr, "  grit version")
}
