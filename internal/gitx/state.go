// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package gitx

import "fmt"

// RepoState is a snapshot of how to return a working tree to its starting
// point: the branch HEAD was on, or the exact commit when HEAD was detached.
// Exactly one field is set. Captured once before any mutation and consumed
// exactly once during restoration.
type RepoState struct {
	Branch string
	Commit string
}

// Detached reports whether the snapshot was taken with no named branch.
func (s RepoState) Detached() bool {
	return s.Branch == ""
}

func (s RepoState) String() string {
	if s.Detached() {
		return "detached at " + s.Commit
	}
	return "branch " + s.Branch
}

// CaptureState records the current repository position.
func CaptureState(dir string) (RepoState, error) {
	branch, err := CurrentBranch(dir)
	if err != nil {
		return RepoState{}, err
	}
	if branch != "" {
		return RepoState{Branch: branch}, nil
	}

	commit, err := CurrentCommit(dir)
	if err != nil {
		return RepoState{}, err
	}
	return RepoState{Commit: commit}, nil
}

// Restore checks the working tree back out to the captured position.
func (s RepoState) Restore(dir string, force bool) error {
	ref := s.Branch
	if s.Detached() {
		ref = s.Commit
	}
	if ref == "" {
		return fmt.Errorf("empty repository state")
	}
	return Checkout(dir, ref, force)
}
