// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package gitx

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/apivet/apivet/internal/log"
)

// runGit executes a git command in the given working tree and returns its
// trimmed stdout. Stderr is folded into the returned error.
func runGit(dir string, args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debugf("git %s (in %s)", strings.Join(args, " "), dir)

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("git %s failed: %w\nstderr: %s",
			strings.Join(args, " "), err, strings.TrimSpace(stderr.String()))
	}

	return strings.TrimSpace(stdout.String()), nil
}

// DiscoverRoot finds the repository root by walking up from cwd looking for
// a .git entry. .git can be a directory or a file (worktrees, submodules).
func DiscoverRoot(cwd string) (string, error) {
	absPath, err := filepath.Abs(cwd)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}

	current := absPath
	for {
		gitDir := filepath.Join(current, ".git")
		if info, err := os.Stat(gitDir); err == nil {
			if info.IsDir() || info.Mode().IsRegular() {
				return current, nil
			}
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", fmt.Errorf("no .git dir when starting from %s", absPath)
		}
		current = parent
	}
}

// CurrentBranch returns the name of the branch HEAD is on, or "" when HEAD
// is detached.
func CurrentBranch(dir string) (string, error) {
	cmd := exec.Command("git", "symbolic-ref", "--quiet", "--short", "HEAD")
	cmd.Dir = dir

	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		// symbolic-ref exits non-zero with --quiet when HEAD is detached.
		if _, isExit := err.(*exec.ExitError); isExit {
			return "", nil
		}
		return "", fmt.Errorf("failed to read current branch: %w", err)
	}

	return strings.TrimSpace(stdout.String()), nil
}

// CurrentCommit returns the commit id HEAD points at.
func CurrentCommit(dir string) (string, error) {
	return runGit(dir, "rev-parse", "HEAD")
}

// ResolveRef resolves any reference expression (branch, tag, commit id,
// HEAD~N) to a commit id. An unknown reference is an error, never a silent
// fallback.
func ResolveRef(dir, ref string) (string, error) {
	commit, err := runGit(dir, "rev-parse", "--verify", ref+"^{commit}")
	if err != nil {
		return "", fmt.Errorf("unknown git reference %q: %w", ref, err)
	}
	return commit, nil
}

// Checkout checks out the given reference. With force, local modifications
// are discarded; this is destructive and opt-in only.
func Checkout(dir, ref string, force bool) error {
	args := []string{"checkout", "--quiet"}
	if force {
		args = append(args, "--force")
	}
	args = append(args, ref, "--")

	if _, err := runGit(dir, args...); err != nil {
		return fmt.Errorf("failed to check out %q: %w", ref, err)
	}
	return nil
}

// ConflictingFiles returns the tracked files whose uncommitted local
// modifications a checkout of ref would overwrite: files dirty in the
// working tree or index that also differ between HEAD and ref.
func ConflictingFiles(dir, ref string) ([]string, error) {
	dirty := map[string]bool{}

	unstaged, err := runGit(dir, "diff", "--name-only")
	if err != nil {
		return nil, err
	}
	for _, f := range strings.Split(unstaged, "\n") {
		if f != "" {
			dirty[f] = true
		}
	}

	staged, err := runGit(dir, "diff", "--cached", "--name-only")
	if err != nil {
		return nil, err
	}
	for _, f := range strings.Split(staged, "\n") {
		if f != "" {
			dirty[f] = true
		}
	}

	if len(dirty) == 0 {
		return nil, nil
	}

	touched, err := runGit(dir, "diff", "--name-only", "HEAD", ref)
	if err != nil {
		return nil, err
	}

	var conflicts []string
	for _, f := range strings.Split(touched, "\n") {
		if f != "" && dirty[f] {
			conflicts = append(conflicts, f)
		}
	}

	return conflicts, nil
}
