// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package gitx

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo builds a throwaway repository with two tagged commits on
// branch main and returns its path.
func initTestRepo(t *testing.T) string {
	t.Helper()

	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}

	dir := t.TempDir()
	git := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=test", "GIT_AUTHOR_EMAIL=test@test",
			"GIT_COMMITTER_NAME=test", "GIT_COMMITTER_EMAIL=test@test",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v: %s", args, out)
	}

	git("init", "--quiet", "--initial-branch=main")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.txt"), []byte("v1\n"), 0600))
	git("add", "api.txt")
	git("commit", "--quiet", "-m", "v1")
	git("tag", "v0.1.0")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.txt"), []byte("v2\n"), 0600))
	git("commit", "--quiet", "-am", "v2")
	git("tag", "v0.2.0")

	return dir
}

func TestDiscoverRoot(t *testing.T) {
	dir := initTestRepo(t)

	sub := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(sub, 0755))

	root, err := DiscoverRoot(sub)
	require.NoError(t, err)
	// Resolve symlinks so macOS /private/var tempdirs compare equal.
	wantRoot, _ := filepath.EvalSymlinks(dir)
	gotRoot, _ := filepath.EvalSymlinks(root)
	assert.Equal(t, wantRoot, gotRoot)

	_, err = DiscoverRoot(string(os.PathSeparator))
	assert.ErrorContains(t, err, "no .git dir")
}

func TestCurrentBranchAndCommit(t *testing.T) {
	dir := initTestRepo(t)

	branch, err := CurrentBranch(dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)

	commit, err := CurrentCommit(dir)
	require.NoError(t, err)
	assert.Len(t, commit, 40)

	// Detach and check the branch reads as empty.
	require.NoError(t, Checkout(dir, "v0.1.0", false))
	branch, err = CurrentBranch(dir)
	require.NoError(t, err)
	assert.Empty(t, branch)
}

func TestResolveRef(t *testing.T) {
	dir := initTestRepo(t)

	head, err := ResolveRef(dir, "HEAD")
	require.NoError(t, err)
	tagged, err := ResolveRef(dir, "v0.2.0")
	require.NoError(t, err)
	assert.Equal(t, head, tagged)

	parent, err := ResolveRef(dir, "HEAD^")
	require.NoError(t, err)
	assert.NotEqual(t, head, parent)

	_, err = ResolveRef(dir, "no-such-ref")
	assert.ErrorContains(t, err, "unknown git reference")
}

func TestCaptureAndRestoreState(t *testing.T) {
	dir := initTestRepo(t)

	t.Run("on_branch", func(t *testing.T) {
		state, err := CaptureState(dir)
		require.NoError(t, err)
		assert.False(t, state.Detached())
		assert.Equal(t, "main", state.Branch)

		require.NoError(t, Checkout(dir, "v0.1.0", false))
		require.NoError(t, state.Restore(dir, false))

		branch, err := CurrentBranch(dir)
		require.NoError(t, err)
		assert.Equal(t, "main", branch)
	})

	t.Run("detached", func(t *testing.T) {
		require.NoError(t, Checkout(dir, "v0.1.0", false))
		before, err := CurrentCommit(dir)
		require.NoError(t, err)

		state, err := CaptureState(dir)
		require.NoError(t, err)
		assert.True(t, state.Detached())
		assert.Equal(t, before, state.Commit)

		require.NoError(t, Checkout(dir, "v0.2.0", false))
		require.NoError(t, state.Restore(dir, false))

		after, err := CurrentCommit(dir)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestConflictingFiles(t *testing.T) {
	dir := initTestRepo(t)

	conflicts, err := ConflictingFiles(dir, "v0.1.0")
	require.NoError(t, err)
	assert.Empty(t, conflicts)

	// Dirty a tracked file that differs between HEAD and v0.1.0.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "api.txt"), []byte("local edit\n"), 0600))

	conflicts, err = ConflictingFiles(dir, "v0.1.0")
	require.NoError(t, err)
	assert.Equal(t, []string{"api.txt"}, conflicts)
}
