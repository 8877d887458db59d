// Package git provides adapters for interacting with local Git repositories.
// This package implements the domain.ChangesetProvider interface using go-git/v5.
package git

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/buildgate/regiongate/internal/domain"
)

// Logger defines the logging interface for the git adapter.
// This interface enables dependency injection and testability.
type Logger interface {
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
}

// Provider implements domain.ChangesetProvider against local Git
// repositories using go-git/v5. The zero dependency on process state makes
// one Provider safe to share across concurrent decisions.
type Provider struct {
	logger Logger
}

// NewProvider creates a Provider with the given logger.
func NewProvider(log Logger) *Provider {
	return &Provider{logger: log}
}

// fsView pins a repository at a specific commit. It is only meaningful to
// the Provider that created it.
type fsView struct {
	repo *git.Repository
	head *object.Commit
}

// Revision returns the commit the view is pinned to.
func (v *fsView) Revision() domain.PlainRevision {
	return domain.PlainRevision{SHA: v.head.Hash.String()}
}

// ResolveOwner determines the owner of the source from its 'origin' remote
// URL, in owner/repo form.
func (p *Provider) ResolveOwner(ctx context.Context, source domain.Source) (*domain.Owner, error) {
	repo, err := git.PlainOpen(source.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrOwnerUnresolved, domain.ErrRepositoryNotFound, source.Path)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrOwnerUnresolved, domain.ErrNoRemoteOrigin)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, fmt.Errorf("%w: %w: origin remote has no URLs configured", domain.ErrOwnerUnresolved, domain.ErrNoRemoteOrigin)
	}

	name, err := parseOwnerFromURL(urls[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %w", domain.ErrOwnerUnresolved, domain.ErrInvalidRemoteURL, err)
	}

	p.logger.Debug(ctx, "resolved source owner", map[string]interface{}{
		"path":  source.Path,
		"owner": name,
	})

	return &domain.Owner{Name: name}, nil
}

// BuildFilesystemView pins a snapshot of the source at the given revision.
func (p *Provider) BuildFilesystemView(ctx context.Context, source domain.Source, head domain.Head, rev domain.Revision, _ *domain.Owner) (domain.FilesystemView, error) {
	repo, err := git.PlainOpen(source.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrFilesystemViewUnavailable, domain.ErrRepositoryNotFound, source.Path)
	}

	commit, err := repo.CommitObject(plumbing.NewHash(rev.Hash()))
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrFilesystemViewUnavailable, domain.ErrRevisionNotFound, rev.Hash())
	}

	p.logger.Debug(ctx, "built filesystem view", map[string]interface{}{
		"path":     source.Path,
		"head":     head.Name,
		"revision": rev.Hash(),
	})

	return &fsView{repo: repo, head: commit}, nil
}

// ChangesetsSince enumerates the changesets reachable from the view's
// revision but not from since, newest first by commit time. Each changeset
// carries the file paths it touches relative to its first parent. At most
// domain.MaxChangesets are returned.
func (p *Provider) ChangesetsSince(ctx context.Context, view domain.FilesystemView, head domain.Head, since domain.Revision) ([]domain.Changeset, error) {
	v, ok := view.(*fsView)
	if !ok {
		return nil, domain.ErrForeignFilesystemView
	}

	var ignore []plumbing.Hash
	if since != nil {
		ignore = append(ignore, plumbing.NewHash(since.Hash()))
	}

	var changesets []domain.Changeset
	iter := object.NewCommitIterCTime(v.head, nil, ignore)
	err := iter.ForEach(func(c *object.Commit) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if len(changesets) >= domain.MaxChangesets {
			return storer.ErrStop
		}

		files, err := commitFiles(ctx, c)
		if err != nil {
			return fmt.Errorf("diff commit %s: %w", c.Hash, err)
		}
		changesets = append(changesets, domain.Changeset{
			Revision: c.Hash.String(),
			Files:    files,
		})
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("walk commit history: %w", err)
	}

	sinceHash := ""
	if since != nil {
		sinceHash = since.Hash()
	}
	p.logger.Debug(ctx, "enumerated changesets", map[string]interface{}{
		"head":       head.Name,
		"revision":   v.head.Hash.String(),
		"since":      sinceHash,
		"changesets": len(changesets),
	})

	return changesets, nil
}

// ResolveBranchTip resolves a branch name to its current tip revision,
// trying the 'origin' remote-tracking ref first, then the local branch ref.
func (p *Provider) ResolveBranchTip(ctx context.Context, source domain.Source, branch string) (domain.Revision, error) {
	repo, err := git.PlainOpen(source.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w: %s", domain.ErrBranchTipUnresolved, domain.ErrRepositoryNotFound, source.Path)
	}

	names := []plumbing.ReferenceName{
		plumbing.NewRemoteReferenceName("origin", branch),
		plumbing.NewBranchReferenceName(branch),
	}
	for _, name := range names {
		ref, err := repo.Reference(name, true)
		if err != nil {
			continue
		}

		p.logger.Debug(ctx, "resolved branch tip", map[string]interface{}{
			"branch": branch,
			"ref":    name.String(),
			"tip":    ref.Hash().String(),
		})
		return domain.PlainRevision{SHA: ref.Hash().String()}, nil
	}

	return nil, fmt.Errorf("%w: %s", domain.ErrBranchTipUnresolved, branch)
}

// AffectedFiles extracts the file paths touched by one changeset.
func (p *Provider) AffectedFiles(cs domain.Changeset) []string {
	return cs.Files
}

// commitFiles returns the paths touched by a commit relative to its first
// parent. Root commits report every file in their tree.
func commitFiles(ctx context.Context, c *object.Commit) ([]string, error) {
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}

	if c.NumParents() == 0 {
		var files []string
		err := tree.Files().ForEach(func(f *object.File) error {
			files = append(files, f.Name)
			return nil
		})
		if err != nil {
			return nil, err
		}
		return files, nil
	}

	parent, err := c.Parent(0)
	if err != nil {
		return nil, err
	}
	parentTree, err := parent.Tree()
	if err != nil {
		return nil, err
	}

	changes, err := parentTree.DiffContext(ctx, tree)
	if err != nil {
		return nil, err
	}

	files := make([]string, 0, len(changes))
	for _, change := range changes {
		// Renames and deletions carry the path on the From side only.
		name := change.To.Name
		if name == "" {
			name = change.From.Name
		}
		files = append(files, name)
	}
	return files, nil
}

// Regular expressions for parsing Git remote URLs.
var (
	// httpsURLPattern matches HTTPS URLs like:
	// https://github.com/owner/repo.git
	// https://github.com/owner/repo
	httpsURLPattern = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/]+?)(?:\.git)?$`)

	// sshURLPattern matches SSH URLs like:
	// git@github.com:owner/repo.git
	// git@github.com:owner/repo
	sshURLPattern = regexp.MustCompile(`^git@[^:]+:([^/]+)/([^/]+?)(?:\.git)?$`)
)

// parseOwnerFromURL extracts owner/repo from a Git remote URL.
// Supports both HTTPS and SSH formats:
//   - https://github.com/owner/repo.git -> owner/repo
//   - git@github.com:owner/repo.git -> owner/repo
func parseOwnerFromURL(url string) (string, error) {
	url = strings.TrimSpace(url)

	if matches := httpsURLPattern.FindStringSubmatch(url); len(matches) == 3 {
		return matches[1] + "/" + matches[2], nil
	}

	if matches := sshURLPattern.FindStringSubmatch(url); len(matches) == 3 {
		return matches[1] + "/" + matches[2], nil
	}

	return "", fmt.Errorf("unrecognized URL format: %s", url)
}
