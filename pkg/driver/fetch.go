package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	git "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// FetchDependencies materializes every dependency of the manifest under
// cacheDir. Git dependencies are cloned (or updated when already present)
// into cacheDir/<name>; path dependencies are only checked for existence.
// It returns the on-disk location of each dependency keyed by name.
func FetchDependencies(manifest *Manifest, cacheDir string) (map[string]string, error) {
	locations := make(map[string]string, len(manifest.Dependencies))
	for name, dep := range manifest.Dependencies {
		location, err := fetchDependency(name, dep, manifest.Path, cacheDir)
		if err != nil {
			return nil, fmt.Errorf("fetch %s: %w", name, err)
		}
		locations[name] = location
	}
	return locations, nil
}

func fetchDependency(name string, dep *DependencySpec, manifestPath, cacheDir string) (string, error) {
	if dep.Path != "" {
		location := dep.Path
		if !filepath.IsAbs(location) {
			location = filepath.Join(filepath.Dir(manifestPath), location)
		}
		if _, err := os.Stat(location); err != nil {
			return "", fmt.Errorf("path dependency: %w", err)
		}
		return location, nil
	}

	target := filepath.Join(cacheDir, name)
	repo, err := git.PlainOpen(target)
	switch {
	case err == nil:
		if err := updateClone(repo, dep); err != nil {
			return "", err
		}
	case errors.Is(err, git.ErrRepositoryNotExists):
		if err := os.MkdirAll(cacheDir, 0o755); err != nil {
			return "", err
		}
		repo, err = git.PlainClone(target, false, &git.CloneOptions{URL: dep.Git})
		if err != nil {
			return "", fmt.Errorf("clone %s: %w", dep.Git, err)
		}
	default:
		return "", err
	}

	if err := checkoutPin(repo, dep); err != nil {
		return "", err
	}
	return target, nil
}

func updateClone(repo *git.Repository, dep *DependencySpec) error {
	// A pinned checkout never changes; only moving refs need a pull.
	if dep.Rev != "" || dep.Tag != "" {
		return nil
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	err = worktree.Pull(&git.PullOptions{})
	if err != nil && !errors.Is(err, git.NoErrAlreadyUpToDate) {
		return fmt.Errorf("pull: %w", err)
	}
	return nil
}

func checkoutPin(repo *git.Repository, dep *DependencySpec) error {
	var opts git.CheckoutOptions
	switch {
	case dep.Rev != "":
		opts.Hash = plumbing.NewHash(dep.Rev)
	case dep.Tag != "":
		opts.Branch = plumbing.NewTagReferenceName(dep.Tag)
	case dep.Branch != "":
		opts.Branch = plumbing.NewBranchReferenceName(dep.Branch)
	default:
		return nil
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return err
	}
	if err := worktree.Checkout(&opts); err != nil {
		return fmt.Errorf("checkout: %w", err)
	}
	return nil
}
