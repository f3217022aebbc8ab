package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/portal-co/snipsync/pkg/errors"
	"github.com/portal-co/snipsync/pkg/github"
	"github.com/portal-co/snipsync/pkg/manifest"
	"github.com/portal-co/snipsync/pkg/observability"
	"github.com/portal-co/snipsync/pkg/store"
)

// Runner executes harvesting runs against a GitHub client.
//
// The Runner is stateless between runs - each Run builds its own store and
// registry. Multiple goroutines can safely share one Runner as long as their
// runs target different output directories.
type Runner struct {
	Client Fetcher
	Logger *log.Logger
}

// NewRunner creates a runner. If logger is nil, the default logger is used.
func NewRunner(client Fetcher, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Client: client, Logger: logger}
}

// Run harvests all Rust repositories of opts.Owner into opts.OutputDir.
//
// Per-repository fetch failures are counted in Stats.Failed and skipped.
// Run returns an error only when discovery fails, the output store cannot
// be written, or ctx is cancelled.
func (r *Runner) Run(ctx context.Context, opts Options) (*Stats, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	stats := &Stats{
		RunID:         uuid.NewString(),
		ReposWithDeps: []string{},
	}

	observability.Pipeline().OnDiscoverStart(ctx, opts.Owner)
	discoverStart := time.Now()
	repos, err := r.Client.DiscoverRepos(ctx, opts.Owner, opts.Refresh)
	observability.Pipeline().OnDiscoverComplete(ctx, opts.Owner, len(repos), time.Since(discoverStart), err)
	if err != nil {
		return nil, fmt.Errorf("discover repositories: %w", err)
	}
	stats.TotalRepos = len(repos)

	r.Logger.Info("discovered repositories", "owner", opts.Owner, "count", len(repos))

	st, err := store.New(opts.OutputDir, opts.Owner)
	if err != nil {
		return nil, fmt.Errorf("prepare output directories: %w", err)
	}
	reg := store.NewRegistry()

	for _, repo := range repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		observability.Pipeline().OnRepoStart(ctx, repo.Name)
		repoStart := time.Now()

		content, err := r.fetchManifest(ctx, opts, repo)
		if err != nil {
			stats.Failed++
			observability.Pipeline().OnRepoComplete(ctx, repo.Name, 0, 0, time.Since(repoStart), err)
			r.Logger.Warn("skipping repository", "repo", repo.Name, "err", err)
			continue
		}
		stats.Downloaded++

		sections, groups, err := r.harvest(st, reg, stats, repo.Name, content)
		observability.Pipeline().OnRepoComplete(ctx, repo.Name, sections, groups, time.Since(repoStart), err)
		if err != nil {
			return nil, fmt.Errorf("store snippets for %s: %w", repo.Name, err)
		}

		r.Logger.Debug("processed repository",
			"repo", repo.Name,
			"sections", sections,
			"groups", groups)
	}

	stats.UniqueHashes = reg.Len()
	stats.Duplicates = len(reg.Shared())
	stats.Duration = time.Since(start)

	info := store.SummaryInfo{
		RunID:         stats.RunID,
		ReposWithDeps: stats.ReposWithDeps,
		Downloaded:    stats.Downloaded,
		Sections:      stats.SectionsExtracted,
		Groups:        stats.GroupsExtracted,
	}
	if err := st.WriteSummaries(info, reg); err != nil {
		return nil, fmt.Errorf("write summaries: %w", err)
	}

	observability.Pipeline().OnRunComplete(ctx, stats.RunID, stats.Downloaded, stats.Failed, stats.Duration)

	r.Logger.Info("run complete",
		"run", stats.RunID,
		"downloaded", stats.Downloaded,
		"failed", stats.Failed,
		"sections", stats.SectionsExtracted,
		"groups", stats.GroupsExtracted,
		"unique", stats.UniqueHashes,
		"duration", stats.Duration)

	return stats, nil
}

func (r *Runner) fetchManifest(ctx context.Context, opts Options, repo github.Repo) (string, error) {
	if err := errors.ValidateRepoName(repo.Name); err != nil {
		return "", err
	}
	return r.Client.FetchManifest(ctx, opts.Owner, repo, opts.Refresh)
}

// harvest snapshots a downloaded manifest and files its dependency sections
// and groups into the store. Returns the per-repo section and group counts.
func (r *Runner) harvest(st *store.Store, reg store.Registry, stats *Stats, repo, content string) (sections, groups int, err error) {
	if err := st.WriteSnapshot(repo, content); err != nil {
		return 0, 0, err
	}

	extracted := manifest.ExtractSections(content)
	if len(extracted) == 0 {
		return 0, 0, nil
	}
	stats.ReposWithDeps = append(stats.ReposWithDeps, repo)

	// Iterate in declaration order so group numbering is deterministic.
	for _, name := range manifest.SectionNames {
		body, ok := extracted[name]
		if !ok {
			continue
		}

		if _, err := st.WriteSection(repo, name, body); err != nil {
			return sections, groups, err
		}
		sections++
		stats.SectionsExtracted++

		for i, group := range manifest.SplitGroups(body) {
			if _, err := st.AddGroup(repo, name, i+1, group, reg); err != nil {
				return sections, groups, err
			}
			groups++
			stats.GroupsExtracted++
		}
	}
	return sections, groups, nil
}
