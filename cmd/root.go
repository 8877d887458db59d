// Package cmd provides the CLI commands for regiongate.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/buildgate/regiongate/internal/domain"
	"github.com/buildgate/regiongate/internal/infrastructure/config"
)

// Logger defines the logging interface used by the command.
type Logger interface {
	Info(ctx context.Context, msg string, fields map[string]interface{})
	Debug(ctx context.Context, msg string, fields map[string]interface{})
	Warn(ctx context.Context, msg string, fields map[string]interface{})
	Error(ctx context.Context, msg string, err error, fields map[string]interface{})
}

// Dependencies holds all injectable dependencies for the command.
// This enables testing by allowing mock implementations to be injected.
type Dependencies struct {
	// LoggerFactory creates a logger instance.
	LoggerFactory func() Logger

	// ConfigLoader loads application configuration.
	ConfigLoader func() (*config.Config, error)

	// ProviderFactory creates the version-control collaborator.
	ProviderFactory func(log Logger) domain.ChangesetProvider

	// EngineFactory creates the decision engine from its collaborators.
	EngineFactory func(provider domain.ChangesetProvider, cfg *config.Config, log Logger) domain.BuildDecider

	// DecisionWriterFactory creates the decision output writer.
	DecisionWriterFactory func() domain.DecisionWriter

	// Stdout is the writer for standard output (for the decision).
	Stdout io.Writer

	// Stderr is the writer for standard error (for warnings/errors).
	Stderr io.Writer
}

// Command-line flags.
var (
	headName    string
	currentSHA  string
	previousSHA string
	pullSHA     string
	targetSHA   string
	verbose     bool
)

// defaultDeps holds the production dependencies.
// This is set by the production wiring in main or via SetDefaultDependencies.
var defaultDeps *Dependencies

// SetDefaultDependencies sets the default dependencies for production use.
// This should be called from main() before Execute().
func SetDefaultDependencies(deps *Dependencies) {
	defaultDeps = deps
}

// NewRootCmd creates the root command for regiongate.
func NewRootCmd() *cobra.Command {
	return NewRootCmdWithDeps(defaultDeps)
}

// NewRootCmdWithDeps creates the root command with explicit dependencies.
// This is the primary constructor that enables testing via dependency injection.
func NewRootCmdWithDeps(deps *Dependencies) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "regiongate [path]",
		Short: "Decide whether a branch or pull request update should trigger a build",
		Long: `regiongate decides whether an incoming branch or pull-request update should
trigger a build, based on whether the files changed since the last built
revision fall inside the configured include regions.

Include regions are Ant-style glob patterns (REGIONGATE_INCLUDED_REGIONS,
one per line). Commits shared with a tracked integration branch can be
excluded from the decision (REGIONGATE_EXCLUDED_BRANCH) so fast-forward or
rebase noise does not spuriously trigger builds.

The decision is printed to stdout as "build" or "skip".

Examples:
  # Decide for a branch update in the current directory
  regiongate --head main --current 4f2a91c --previous 9d1b03e

  # First build of a brand-new branch (no previous revision)
  regiongate --head feature/login --current 4f2a91c

  # New pull request: diff against the merge target
  regiongate --head PR-42 --pull 4f2a91c --target 9d1b03e

  # Decide for a repository at a specific path
  regiongate /path/to/repo --head main --current 4f2a91c --previous 9d1b03e`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecide(cmd, args, deps)
		},
	}

	if deps != nil {
		if deps.Stdout != nil {
			rootCmd.SetOut(deps.Stdout)
		}
		if deps.Stderr != nil {
			rootCmd.SetErr(deps.Stderr)
		}
	}

	rootCmd.Flags().StringVar(&headName, "head", "",
		"Name of the branch or pull request being evaluated (required)")
	rootCmd.Flags().StringVar(&currentSHA, "current", "",
		"Current revision of the head")
	rootCmd.Flags().StringVar(&previousSHA, "previous", "",
		"Previously built revision; omit for the first build of a head")
	rootCmd.Flags().StringVar(&pullSHA, "pull", "",
		"Pull request head revision (use with --target instead of --current)")
	rootCmd.Flags().StringVar(&targetSHA, "target", "",
		"Pull request merge target revision (use with --pull)")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable verbose/debug logging")

	return rootCmd
}

// buildRevisions derives the current and previous revisions from the flags.
// A pull/target pair yields a PullRequestRevision with no previous revision,
// letting the engine substitute the target; otherwise --current is required
// and --previous is optional.
func buildRevisions() (curr, prev domain.Revision, err error) {
	switch {
	case pullSHA != "" || targetSHA != "":
		if pullSHA == "" || targetSHA == "" {
			return nil, nil, errors.New("--pull and --target must be used together")
		}
		if currentSHA != "" || previousSHA != "" {
			return nil, nil, errors.New("--pull/--target cannot be combined with --current/--previous")
		}
		return domain.PullRequestRevision{
			Pull:   domain.PlainRevision{SHA: pullSHA},
			Target: domain.PlainRevision{SHA: targetSHA},
		}, nil, nil

	case currentSHA != "":
		curr = domain.PlainRevision{SHA: currentSHA}
		if previousSHA != "" {
			prev = domain.PlainRevision{SHA: previousSHA}
		}
		return curr, prev, nil

	default:
		return nil, nil, errors.New("either --current or --pull/--target is required")
	}
}

// runDecide executes the build decision logic with injected dependencies.
func runDecide(cmd *cobra.Command, args []string, deps *Dependencies) error {
	if deps == nil {
		return errors.New("dependencies not configured")
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repoPath := "."
	if len(args) > 0 {
		repoPath = args[0]
	}

	stderr := deps.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	if headName == "" {
		return errors.New("--head is required")
	}

	curr, prev, err := buildRevisions()
	if err != nil {
		return err
	}

	// Set log level based on verbose flag (best-effort)
	if verbose {
		if err := os.Setenv(config.EnvLogLevel, "debug"); err != nil {
			writeWarningf(stderr, "warning: could not set log level: %v\n", err)
		}
	}

	log := deps.LoggerFactory()

	prevSHA := ""
	if prev != nil {
		prevSHA = prev.String()
	}
	log.Info(ctx, "starting regiongate", map[string]interface{}{
		"path":     repoPath,
		"head":     headName,
		"current":  curr.String(),
		"previous": prevSHA,
		"verbose":  verbose,
	})

	cfg, err := deps.ConfigLoader()
	if err != nil {
		log.Error(ctx, "failed to load configuration", err, nil)
		return fmt.Errorf("configuration error: %w", err)
	}

	provider := deps.ProviderFactory(log)
	engine := deps.EngineFactory(provider, cfg, log)

	decision := engine.IsAutomaticBuild(ctx,
		domain.Source{Path: repoPath},
		domain.Head{Name: headName},
		curr, prev,
	)

	writer := deps.DecisionWriterFactory()
	if err := writer.WriteDecision(decision); err != nil {
		log.Error(ctx, "failed to write output", err, nil)
		return fmt.Errorf("output error: %w", err)
	}

	log.Info(ctx, "decision complete", map[string]interface{}{
		"head":  headName,
		"build": decision,
	})

	return nil
}

// Execute runs the root command.
func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// writeWarningf writes a warning message to the given writer.
// This is a best-effort operation; errors are intentionally ignored
// because there is no recovery action if stderr writes fail.
func writeWarningf(w io.Writer, format string, args ...any) {
	_, err := fmt.Fprintf(w, format, args...)
	if err != nil {
		// Intentionally ignored: no recovery action for failed stderr writes
		return
	}
}
