package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
)

// revision returns the HEAD commit of the repository containing dir. dir
// does not need to exist yet.
func revision(dir string) (string, error) {
	start, err := existingParent(dir)
	if err != nil {
		return "", err
	}
	repo, err := git.PlainOpenWithOptions(start, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", fmt.Errorf("error opening git repository at %s: %w", start, err)
	}
	head, err := repo.Head()
	if err != nil {
		return "", fmt.Errorf("error resolving HEAD: %w", err)
	}
	return head.Hash().String(), nil
}

func existingParent(dir string) (string, error) {
	p, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	for {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", err
		}
		parent := filepath.Dir(p)
		if parent == p {
			return "", fmt.Errorf("no existing parent directory of %s", dir)
		}
		p = parent
	}
}
