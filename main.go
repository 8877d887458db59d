// regiongate decides whether a branch or pull request update should trigger
// a build, based on whether the files changed since the last built revision
// fall inside the configured include regions.
package main

import (
	"fmt"
	"os"

	"github.com/buildgate/regiongate/cmd"
	"github.com/buildgate/regiongate/internal/adapters/git"
	"github.com/buildgate/regiongate/internal/adapters/logger"
	"github.com/buildgate/regiongate/internal/adapters/output"
	"github.com/buildgate/regiongate/internal/cache"
	"github.com/buildgate/regiongate/internal/domain"
	"github.com/buildgate/regiongate/internal/infrastructure/config"
	"github.com/buildgate/regiongate/internal/usecases"
)

func main() {
	cmd.SetDefaultDependencies(&cmd.Dependencies{
		LoggerFactory: func() cmd.Logger {
			level := os.Getenv(config.EnvLogLevel)
			if level == "" {
				level = config.DefaultLogLevel
			}
			appName := os.Getenv(config.EnvLogAppName)
			if appName == "" {
				appName = config.DefaultLogAppName
			}

			log, err := logger.NewFromConfig(level, appName)
			if err != nil {
				fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
				os.Exit(1)
			}
			return log
		},
		ConfigLoader: config.Load,
		ProviderFactory: func(log cmd.Logger) domain.ChangesetProvider {
			return git.NewProvider(log)
		},
		EngineFactory: func(provider domain.ChangesetProvider, cfg *config.Config, log cmd.Logger) domain.BuildDecider {
			return usecases.NewEngine(provider, cache.New(cfg.CacheSize), usecases.EngineConfig{
				IncludedRegions: cfg.IncludedRegions,
				ExcludedBranch:  cfg.ExcludedBranch,
				BuildOnError:    cfg.BuildOnError(),
			}, log)
		},
		DecisionWriterFactory: func() domain.DecisionWriter {
			return output.NewWriter()
		},
		Stdout: os.Stdout,
		Stderr: os.Stderr,
	})

	cmd.Execute()
}
