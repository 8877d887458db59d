// Package domain defines the core business entities and interfaces for regiongate.
// This package contains no external dependencies and represents the innermost layer
// of the CLEAN architecture.
package domain

import (
	"context"
	"errors"
)

// Domain errors for source resolution and changeset enumeration.
var (
	// ErrRepositoryNotFound indicates the source path is not a valid Git repository.
	ErrRepositoryNotFound = errors.New("git repository not found at specified path")

	// ErrOwnerUnresolved indicates the source's owner could not be determined.
	ErrOwnerUnresolved = errors.New("cannot resolve source owner")

	// ErrNoRemoteOrigin indicates no 'origin' remote is configured in the repository.
	ErrNoRemoteOrigin = errors.New("no 'origin' remote configured; cannot determine owner")

	// ErrInvalidRemoteURL indicates the remote URL could not be parsed to extract owner/repo.
	ErrInvalidRemoteURL = errors.New("could not parse owner from remote URL")

	// ErrFilesystemViewUnavailable indicates no filesystem view could be built
	// for the requested head and revision.
	ErrFilesystemViewUnavailable = errors.New("cannot build filesystem view for revision")

	// ErrRevisionNotFound indicates a revision does not exist in the repository.
	ErrRevisionNotFound = errors.New("revision not found in repository")

	// ErrBranchTipUnresolved indicates the excluded branch's tip revision
	// could not be resolved.
	ErrBranchTipUnresolved = errors.New("cannot resolve branch tip revision")

	// ErrForeignFilesystemView indicates a filesystem view was produced by a
	// different provider implementation than the one asked to use it.
	ErrForeignFilesystemView = errors.New("filesystem view belongs to a different provider")
)

// FilesystemView is an opaque snapshot of a source at a specific head and
// revision. Views are produced and consumed by the same ChangesetProvider;
// passing a view to a different provider implementation is an error.
type FilesystemView interface {
	// Revision returns the revision the view is pinned to.
	Revision() PlainRevision
}

// ChangesetProvider is the version-control collaborator the decision engine
// consumes. Implementations are expected to be safe for concurrent use with
// distinct sources.
type ChangesetProvider interface {
	// ResolveOwner determines who the source belongs to.
	// Returns ErrOwnerUnresolved (possibly wrapping a more specific error)
	// when the owner cannot be determined.
	ResolveOwner(ctx context.Context, source Source) (*Owner, error)

	// BuildFilesystemView pins a snapshot of the source at the given head
	// and revision. Returns ErrFilesystemViewUnavailable when no view can
	// be built.
	BuildFilesystemView(ctx context.Context, source Source, head Head, rev Revision, owner *Owner) (FilesystemView, error)

	// ChangesetsSince enumerates the changesets reachable from the view's
	// revision but not from since, newest first. A nil since enumerates
	// from the beginning of history. At most MaxChangesets are returned.
	ChangesetsSince(ctx context.Context, view FilesystemView, head Head, since Revision) ([]Changeset, error)

	// ResolveBranchTip resolves a branch name to its current tip revision.
	// Returns ErrBranchTipUnresolved when the branch does not exist.
	ResolveBranchTip(ctx context.Context, source Source, branch string) (Revision, error)

	// AffectedFiles extracts the file paths touched by one changeset.
	AffectedFiles(cs Changeset) []string
}

// BuildDecider yields the build trigger decision for one head update.
type BuildDecider interface {
	// IsAutomaticBuild reports whether the update from prev to curr on head
	// should trigger a build. prev may be nil when no previous build is
	// recorded. The decision is always a value, never an error: failures
	// during evaluation resolve to the engine's configured fail policy.
	IsAutomaticBuild(ctx context.Context, source Source, head Head, curr, prev Revision) bool
}

// DecisionWriter writes the build decision to an output destination.
type DecisionWriter interface {
	// WriteDecision writes the decision ("build" or "skip") to the output.
	WriteDecision(build bool) error
}
