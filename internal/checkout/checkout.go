// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package checkout

import (
	"context"
	"fmt"
	"strings"

	"github.com/apivet/apivet/internal/gitx"
	"github.com/apivet/apivet/internal/log"
	"github.com/apivet/apivet/internal/public"
)

// ExtractFunc materializes the public items of the package currently checked
// out in the working tree. It is awaited to completion before the next
// checkout proceeds; the build reads the tree contents.
type ExtractFunc func(ctx context.Context) ([]public.Item, error)

// DirtyTreeError aborts the operation before any mutation when uncommitted
// local modifications would be overwritten by the first checkout.
type DirtyTreeError struct {
	Files []string
}

func (e *DirtyTreeError) Error() string {
	return fmt.Sprintf(
		"your local changes to the following files would be overwritten by checkout:\n  %s\nuse --force-checkouts to discard them",
		strings.Join(e.Files, "\n  "))
}

// RestoreError means the working tree could not be returned to its captured
// state and may be left checked out somewhere unexpected. It is reported
// distinctly from, and above, whatever failure it may be masking.
type RestoreError struct {
	State  gitx.RepoState
	Cause  error
	Masked error
}

func (e *RestoreError) Error() string {
	msg := fmt.Sprintf("failed to restore repository to %s, the working tree may be left in an unexpected state: %v", e.State, e.Cause)
	if e.Masked != nil {
		msg += fmt.Sprintf(" (while handling: %v)", e.Masked)
	}
	return msg
}

func (e *RestoreError) Unwrap() error {
	return e.Cause
}

// Orchestrator sequences checkouts of one working tree and guarantees the
// original repository state is restored on every exit path. It owns that one
// shared mutable resource and is not reentrant; comparisons across distinct
// working copies each need their own Orchestrator.
type Orchestrator struct {
	// RepoRoot is the working tree under version control.
	RepoRoot string

	// Force overrides the dirty-tree guard. The first checkout will then
	// destroy local modifications; explicitly destructive and opt-in only.
	Force bool

	// Extract is the external build+extract collaborator pair.
	Extract ExtractFunc
}

// ItemsAtRefs checks out each reference in order, extracting the public
// items of every one, and restores the captured repository state before
// returning, whether extraction succeeded or not.
//
// The protocol is strictly sequential: one checkout at a time, each
// extraction awaited before the next checkout. Restoration is attempted to
// completion once started; there is no cancellation for it.
func (o *Orchestrator) ItemsAtRefs(ctx context.Context, refs ...string) (collections [][]public.Item, err error) {
	if len(refs) == 0 {
		return nil, nil
	}

	// Resolve every reference up front so an unknown one fails before any
	// mutation.
	for _, ref := range refs {
		if _, resolveErr := gitx.ResolveRef(o.RepoRoot, ref); resolveErr != nil {
			return nil, resolveErr
		}
	}

	// Dirty-tree guard, before any mutation. Only the first checkout can
	// collide with uncommitted changes; after it the tree matches a known
	// commit.
	if !o.Force {
		conflicts, guardErr := gitx.ConflictingFiles(o.RepoRoot, refs[0])
		if guardErr != nil {
			return nil, guardErr
		}
		if len(conflicts) > 0 {
			return nil, &DirtyTreeError{Files: conflicts}
		}
	}

	state, err := gitx.CaptureState(o.RepoRoot)
	if err != nil {
		return nil, err
	}
	log.Debugf("captured repository state: %s", state)

	// Scoped acquisition: from the first checkout on, the deferred
	// restoration runs on every exit path. A failed restoration outranks
	// whatever error it may be masking.
	defer func() {
		if restoreErr := state.Restore(o.RepoRoot, o.Force); restoreErr != nil {
			err = &RestoreError{State: state, Cause: restoreErr, Masked: err}
			collections = nil
			return
		}
		log.Debugf("restored repository state: %s", state)
	}()

	for _, ref := range refs {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		if err = gitx.Checkout(o.RepoRoot, ref, o.Force); err != nil {
			return nil, err
		}
		log.Infof("checked out %s", ref)

		items, extractErr := o.Extract(ctx)
		if extractErr != nil {
			err = fmt.Errorf("extracting public API at %q: %w", ref, extractErr)
			return nil, err
		}
		collections = append(collections, items)
	}

	return collections, nil
}
