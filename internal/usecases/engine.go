// Package usecases contains the application business logic.
// This package orchestrates domain entities and interfaces to fulfill use cases.
package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/buildgate/regiongate/internal/cache"
	"github.com/buildgate/regiongate/internal/domain"
	"github.com/buildgate/regiongate/internal/match"
)

// Logger defines the logging interface required by the engine.
// This abstracts the logger dependency to avoid coupling to a specific implementation.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// ChangedFileCache memoizes changed-file computations between polling cycles.
// Implemented by cache.ChangedFiles.
type ChangedFileCache interface {
	GetOrCompute(key cache.Key, compute func() ([]string, error)) ([]string, error)
}

// EngineConfig is the configuration surface of the decision engine.
type EngineConfig struct {
	// IncludedRegions is a multi-line string of Ant-style glob patterns.
	// Entries are trimmed; blank lines are dropped. An engine with no
	// regions never triggers a build.
	IncludedRegions string

	// ExcludedBranch names a branch whose shared commits do not count
	// toward the trigger decision. Trimmed; empty disables exclusion.
	ExcludedBranch string

	// BuildOnError selects the fail policy applied when evaluation fails
	// for an infrastructure or unexpected reason: true fails open (build),
	// false fails closed (skip). It never applies to an empty region list,
	// which always resolves to skip.
	BuildOnError bool
}

// Engine decides whether a head update should trigger a build by checking
// whether the files changed since the previous build intersect the configured
// include regions. It implements domain.BuildDecider.
type Engine struct {
	provider       domain.ChangesetProvider
	files          ChangedFileCache
	regions        []string
	excludedBranch string
	buildOnError   bool
	logger         Logger
}

// NewEngine creates an Engine with the given dependencies and configuration.
// All dependencies are injected to support testing.
func NewEngine(provider domain.ChangesetProvider, files ChangedFileCache, cfg EngineConfig, log Logger) *Engine {
	return &Engine{
		provider:       provider,
		files:          files,
		regions:        ParseRegions(cfg.IncludedRegions),
		excludedBranch: strings.TrimSpace(cfg.ExcludedBranch),
		buildOnError:   cfg.BuildOnError,
		logger:         log,
	}
}

// ParseRegions splits a multi-line region string into a pattern list,
// trimming each entry and dropping entries that trim to empty.
func ParseRegions(regions string) []string {
	var parsed []string
	for _, line := range strings.Split(regions, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			parsed = append(parsed, line)
		}
	}
	return parsed
}

// IsAutomaticBuild reports whether the update from prev to curr on head
// should trigger a build.
//
// A nil prev means no previous build is recorded: pull requests substitute
// their pull/target revision pair so the diff runs against the merge target,
// while a brand-new branch always triggers its first build. With a previous
// revision in hand, the changed files between the two revisions (minus
// commits shared with the excluded branch) are matched against the include
// regions; the first matching (file, pattern) pair triggers the build.
//
// Evaluation failures resolve to the configured fail policy and never
// propagate as errors.
func (e *Engine) IsAutomaticBuild(ctx context.Context, source domain.Source, head domain.Head, curr, prev domain.Revision) bool {
	if prev == nil {
		switch rev := curr.(type) {
		case domain.PullRequestRevision:
			e.logger.Info(ctx, "new pull request detected, diffing against target", map[string]interface{}{
				"head":   head.Name,
				"pull":   rev.Pull.SHA,
				"target": rev.Target.SHA,
			})
			curr = rev.Pull
			prev = rev.Target
		default:
			e.logger.Info(ctx, "new branch detected, triggering initial build", map[string]interface{}{
				"head": head.Name,
			})
			return true
		}
	}

	if len(e.regions) == 0 {
		e.logger.Info(ctx, "no include regions configured, skipping build", map[string]interface{}{
			"head": head.Name,
		})
		return false
	}

	e.logger.Debug(ctx, "evaluating include regions", map[string]interface{}{
		"head":     head.Name,
		"regions":  e.regions,
		"current":  curr.String(),
		"previous": prev.String(),
	})

	key := cache.Key{
		Previous:       prev.Hash(),
		Current:        curr.Hash(),
		ExcludedBranch: e.excludedBranch,
	}
	changedFiles, err := e.files.GetOrCompute(key, func() ([]string, error) {
		return e.computeChangedFiles(ctx, source, head, curr, prev)
	})
	if err != nil {
		e.logger.Error(ctx, "changed file resolution failed, applying fail policy", err, map[string]interface{}{
			"head":           head.Name,
			"build_on_error": e.buildOnError,
		})
		return e.buildOnError
	}

	for _, path := range changedFiles {
		for _, region := range e.regions {
			if match.Matches(region, path) {
				e.logger.Info(ctx, "changed file matches include region, triggering build", map[string]interface{}{
					"head":   head.Name,
					"region": region,
					"path":   path,
				})
				return true
			}
			e.logger.Debug(ctx, "changed file does not match include region", map[string]interface{}{
				"region": region,
				"path":   path,
			})
		}
	}

	e.logger.Info(ctx, "no changed file matches any include region, skipping build", map[string]interface{}{
		"head":          head.Name,
		"changed_files": len(changedFiles),
	})
	return false
}

// computeChangedFiles resolves the set of files changed between prev and
// curr on head, with commits shared with the excluded branch subtracted.
func (e *Engine) computeChangedFiles(ctx context.Context, source domain.Source, head domain.Head, curr, prev domain.Revision) ([]string, error) {
	owner, err := e.provider.ResolveOwner(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("resolve source owner: %w", err)
	}

	view, err := e.provider.BuildFilesystemView(ctx, source, head, curr, owner)
	if err != nil {
		return nil, fmt.Errorf("build filesystem view: %w", err)
	}

	changesets, err := e.provider.ChangesetsSince(ctx, view, head, prev)
	if err != nil {
		return nil, fmt.Errorf("enumerate changesets: %w", err)
	}

	if e.excludedBranch != "" && e.excludedBranch != head.Name {
		changesets, err = e.applyExclusion(ctx, source, head, view, changesets)
		if err != nil {
			return nil, err
		}
	}

	seen := make(map[string]struct{})
	var files []string
	for _, cs := range changesets {
		for _, path := range e.provider.AffectedFiles(cs) {
			if _, ok := seen[path]; ok {
				continue
			}
			seen[path] = struct{}{}
			files = append(files, path)
		}
	}
	return files, nil
}

// applyExclusion drops changesets that are reachable from the excluded
// branch's tip. The second enumeration yields the commits novel to head
// relative to the excluded branch; intersecting with the base list keeps
// only the commits that are both since prev and not on the excluded branch.
func (e *Engine) applyExclusion(ctx context.Context, source domain.Source, head domain.Head, view domain.FilesystemView, changesets []domain.Changeset) ([]domain.Changeset, error) {
	e.logger.Info(ctx, "excluding commits shared with branch", map[string]interface{}{
		"head":            head.Name,
		"excluded_branch": e.excludedBranch,
	})

	tip, err := e.provider.ResolveBranchTip(ctx, source, e.excludedBranch)
	if err != nil {
		return nil, fmt.Errorf("resolve excluded branch tip: %w", err)
	}

	e.logger.Debug(ctx, "excluded branch tip resolved", map[string]interface{}{
		"excluded_branch": e.excludedBranch,
		"tip":             tip.String(),
	})

	novel, err := e.provider.ChangesetsSince(ctx, view, head, tip)
	if err != nil {
		return nil, fmt.Errorf("enumerate changesets since excluded tip: %w", err)
	}

	filtered := IntersectByRevision(changesets, novel)

	e.logger.Info(ctx, "exclusion applied", map[string]interface{}{
		"changesets_before": len(changesets),
		"changesets_novel":  len(novel),
		"changesets_after":  len(filtered),
	})

	return filtered, nil
}
