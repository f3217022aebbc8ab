package pipeline

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/portal-co/snipsync/pkg/github"
)

type fakeFetcher struct {
	repos       []github.Repo
	discoverErr error
	manifests   map[string]string
	fetchErrs   map[string]error
}

func (f *fakeFetcher) DiscoverRepos(ctx context.Context, owner string, refresh bool) ([]github.Repo, error) {
	return f.repos, f.discoverErr
}

func (f *fakeFetcher) FetchManifest(ctx context.Context, owner string, repo github.Repo, refresh bool) (string, error) {
	if err := f.fetchErrs[repo.Name]; err != nil {
		return "", err
	}
	m, ok := f.manifests[repo.Name]
	if !ok {
		return "", github.ErrNotFound
	}
	return m, nil
}

func quietLogger() *log.Logger {
	return log.New(io.Discard)
}

func TestRunHarvestsAndDeduplicates(t *testing.T) {
	client := &fakeFetcher{
		repos: []github.Repo{
			{Name: "alpha", DefaultBranch: "main"},
			{Name: "beta", DefaultBranch: "master"},
		},
		manifests: map[string]string{
			"alpha": "[package]\nname = \"alpha\"\n\n[dependencies]\nserde = \"1.0\"\n\ntokio = \"1.0\"\n\n[dev-dependencies]\nserde = \"1.0\"\n",
			"beta":  "[package]\nname = \"beta\"\n\n[dependencies]\nserde = \"1.0\"\n",
		},
	}

	out := t.TempDir()
	r := NewRunner(client, quietLogger())

	stats, err := r.Run(context.Background(), Options{Owner: "portal-co", OutputDir: out})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if stats.TotalRepos != 2 || stats.Downloaded != 2 || stats.Failed != 0 {
		t.Errorf("counts = %d/%d/%d, want 2/2/0", stats.TotalRepos, stats.Downloaded, stats.Failed)
	}
	if stats.SectionsExtracted != 3 {
		t.Errorf("SectionsExtracted = %d, want 3", stats.SectionsExtracted)
	}
	if stats.GroupsExtracted != 4 {
		t.Errorf("GroupsExtracted = %d, want 4", stats.GroupsExtracted)
	}
	// The serde group appears in three places but is one shared hash;
	// Duplicates counts shared hashes, not extra references.
	if stats.UniqueHashes != 2 || stats.Duplicates != 1 {
		t.Errorf("hashes = %d unique / %d shared, want 2/1", stats.UniqueHashes, stats.Duplicates)
	}
	if len(stats.ReposWithDeps) != 2 {
		t.Errorf("ReposWithDeps = %v, want both repos", stats.ReposWithDeps)
	}
	if stats.RunID == "" {
		t.Error("RunID is empty")
	}

	// Spot-check the store layout.
	mustExist(t, filepath.Join(out, "manifests", "alpha_Cargo.toml"))
	mustExist(t, filepath.Join(out, "sections", "alpha_dependencies.toml"))
	mustExist(t, filepath.Join(out, "sections", "alpha_dev-dependencies.toml"))
	mustExist(t, filepath.Join(out, "grouped", "alpha_dependencies_group01.toml"))
	mustExist(t, filepath.Join(out, "grouped", "alpha_dev-dependencies_group01.toml"))
	mustExist(t, filepath.Join(out, "grouped", "beta_dependencies_group01.toml"))
	for _, dir := range []string{"manifests", "sections", "grouped", "hashed"} {
		mustExist(t, filepath.Join(out, dir, "README.md"))
	}

	// The duplicate group resolves to the same hash entry as alpha's.
	alphaTarget, err := filepath.EvalSymlinks(filepath.Join(out, "grouped", "alpha_dependencies_group01.toml"))
	if err != nil {
		t.Fatal(err)
	}
	betaTarget, err := filepath.EvalSymlinks(filepath.Join(out, "grouped", "beta_dependencies_group01.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if alphaTarget != betaTarget {
		t.Errorf("duplicate groups point at different entries: %s vs %s", alphaTarget, betaTarget)
	}
}

func TestRunSkipsFailedRepos(t *testing.T) {
	client := &fakeFetcher{
		repos: []github.Repo{
			{Name: "good", DefaultBranch: "main"},
			{Name: "gone", DefaultBranch: "main"},
		},
		manifests: map[string]string{
			"good": "[dependencies]\nanyhow = \"1\"\n",
		},
		fetchErrs: map[string]error{
			"gone": github.ErrNotFound,
		},
	}

	r := NewRunner(client, quietLogger())

	stats, err := r.Run(context.Background(), Options{Owner: "portal-co", OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stats.Downloaded != 1 || stats.Failed != 1 {
		t.Errorf("downloaded/failed = %d/%d, want 1/1", stats.Downloaded, stats.Failed)
	}
	if stats.GroupsExtracted != 1 {
		t.Errorf("GroupsExtracted = %d, want 1", stats.GroupsExtracted)
	}
}

func TestRunSkipsInvalidRepoNames(t *testing.T) {
	client := &fakeFetcher{
		repos: []github.Repo{
			{Name: "../escape", DefaultBranch: "main"},
		},
		manifests: map[string]string{},
	}

	r := NewRunner(client, quietLogger())

	stats, err := r.Run(context.Background(), Options{Owner: "portal-co", OutputDir: t.TempDir()})
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if stats.Failed != 1 || stats.Downloaded != 0 {
		t.Errorf("downloaded/failed = %d/%d, want 0/1", stats.Downloaded, stats.Failed)
	}
}

func TestRunFailsWhenDiscoveryFails(t *testing.T) {
	client := &fakeFetcher{discoverErr: github.ErrNetwork}
	r := NewRunner(client, quietLogger())

	_, err := r.Run(context.Background(), Options{Owner: "portal-co", OutputDir: t.TempDir()})
	if !errors.Is(err, github.ErrNetwork) {
		t.Errorf("Run() error = %v, want ErrNetwork", err)
	}
}

func TestRunRequiresOwner(t *testing.T) {
	r := NewRunner(&fakeFetcher{}, quietLogger())

	_, err := r.Run(context.Background(), Options{OutputDir: t.TempDir()})
	if err == nil {
		t.Fatal("Run() with empty owner should fail")
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	client := &fakeFetcher{
		repos:     []github.Repo{{Name: "alpha", DefaultBranch: "main"}},
		manifests: map[string]string{"alpha": "[dependencies]\nserde = \"1\"\n"},
	}
	r := NewRunner(client, quietLogger())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := r.Run(ctx, Options{Owner: "portal-co", OutputDir: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunRerunIsIdempotent(t *testing.T) {
	client := &fakeFetcher{
		repos:     []github.Repo{{Name: "alpha", DefaultBranch: "main"}},
		manifests: map[string]string{"alpha": "[dependencies]\nserde = \"1.0\"\n"},
	}
	out := t.TempDir()
	r := NewRunner(client, quietLogger())

	for i := 0; i < 2; i++ {
		if _, err := r.Run(context.Background(), Options{Owner: "portal-co", OutputDir: out}); err != nil {
			t.Fatalf("Run() #%d error: %v", i+1, err)
		}
	}

	entries, err := os.ReadDir(filepath.Join(out, "hashed"))
	if err != nil {
		t.Fatal(err)
	}
	var hashFiles int
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".toml" {
			hashFiles++
		}
	}
	if hashFiles != 1 {
		t.Errorf("hashed dir has %d entries after rerun, want 1", hashFiles)
	}
}

func mustExist(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Lstat(path); err != nil {
		t.Errorf("expected %s to exist: %v", path, err)
	}
}
