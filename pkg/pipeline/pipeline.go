package pipeline

import (
	"context"
	"time"

	"github.com/portal-co/snipsync/pkg/errors"
	"github.com/portal-co/snipsync/pkg/github"
)

// Fetcher is the subset of the GitHub client the pipeline needs.
// Satisfied by [github.Client]; tests substitute a fake.
type Fetcher interface {
	DiscoverRepos(ctx context.Context, owner string, refresh bool) ([]github.Repo, error)
	FetchManifest(ctx context.Context, owner string, repo github.Repo, refresh bool) (string, error)
}

// Options configures a single run.
type Options struct {
	Owner     string // GitHub organization to harvest
	OutputDir string // root of the snippet store, defaults to "snippets"
	Refresh   bool   // bypass cached API responses
}

// ValidateAndSetDefaults checks required fields and fills in defaults.
func (o *Options) ValidateAndSetDefaults() error {
	if o.Owner == "" {
		return errors.New(errors.ErrCodeInvalidInput, "owner cannot be empty")
	}
	if o.OutputDir == "" {
		o.OutputDir = "snippets"
	}
	return nil
}

// Stats summarizes what a run did.
type Stats struct {
	RunID             string        // unique identifier for this run
	TotalRepos        int           // repositories reported by discovery
	Downloaded        int           // manifests fetched successfully
	Failed            int           // repositories skipped after a fetch failure
	SectionsExtracted int           // dependency sections written
	GroupsExtracted   int           // blank-line groups filed into the store
	UniqueHashes      int           // distinct content hashes seen
	Duplicates        int           // hashes shared by more than one source
	ReposWithDeps     []string      // repositories with at least one section
	Duration          time.Duration // wall-clock time of the whole run
}
