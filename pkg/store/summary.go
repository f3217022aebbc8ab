package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// SummaryInfo carries the run-level counters the README writers need.
// The pipeline fills it in after the last repository is processed.
type SummaryInfo struct {
	RunID         string   // unique identifier for this run
	ReposWithDeps []string // repositories that had at least one section
	Downloaded    int      // manifests successfully fetched
	Sections      int      // section files written
	Groups        int      // grouped snippets created
}

// WriteSummaries generates a README.md in each output directory with
// counts, naming conventions, and (for the hashed directory) the list of
// hashes shared by more than one source. Summaries are rewritten every run.
func (s *Store) WriteSummaries(info SummaryInfo, reg Registry) error {
	writers := []struct {
		dir  string
		body func() string
	}{
		{s.ManifestsDir(), func() string { return s.manifestsSummary(info) }},
		{s.SectionsDir(), func() string { return s.sectionsSummary(info) }},
		{s.GroupedDir(), func() string { return s.groupedSummary(info, reg) }},
		{s.HashedDir(), func() string { return s.hashedSummary(info, reg) }},
	}
	for _, w := range writers {
		path := filepath.Join(w.dir, "README.md")
		if err := os.WriteFile(path, []byte(w.body()), 0o644); err != nil {
			return fmt.Errorf("write summary %s: %w", path, err)
		}
	}
	return nil
}

func (s *Store) manifestsSummary(info SummaryInfo) string {
	var b strings.Builder
	b.WriteString("# Cargo.toml Snapshots\n\n")
	fmt.Fprintf(&b, "Full Cargo.toml files fetched from the %s organization, one per\n", s.owner)
	b.WriteString("repository, each prefixed with a provenance comment.\n\n")
	fmt.Fprintf(&b, "Snapshots: %d\n", info.Downloaded)
	b.WriteString(s.footer(info))
	return b.String()
}

func (s *Store) sectionsSummary(info SummaryInfo) string {
	var b strings.Builder
	b.WriteString("# Cargo Dependency Snippets\n\n")
	fmt.Fprintf(&b, "This directory contains dependency sections extracted from Cargo.toml files\nacross the %s organization repositories.\n\n", s.owner)
	b.WriteString("## Usage\n\n")
	b.WriteString("These snippets can be used as templates for new Rust projects.\n")
	b.WriteString("Simply copy the relevant dependencies into your Cargo.toml file.\n\n")
	b.WriteString("For smaller, logically grouped snippets, see the `grouped/` directory.\n\n")
	b.WriteString("For deduplicated hash-based snippets, see the `hashed/` directory.\n\n")
	b.WriteString("## Repositories with Dependencies\n\n")
	repos := append([]string(nil), info.ReposWithDeps...)
	sort.Strings(repos)
	for _, repo := range repos {
		fmt.Fprintf(&b, "- [%s](https://github.com/%s/%s)\n", repo, s.owner, repo)
	}
	fmt.Fprintf(&b, "\nSections extracted: %d\n", info.Sections)
	b.WriteString(s.footer(info))
	return b.String()
}

func (s *Store) groupedSummary(info SummaryInfo, reg Registry) string {
	var b strings.Builder
	b.WriteString("# Cargo Dependency Snippets (Grouped)\n\n")
	b.WriteString("This directory contains symlinks to deduplicated dependency snippets.\n")
	b.WriteString("Each symlink points to a hash-based file in `hashed/`.\n\n")
	b.WriteString("## Naming Convention\n\n")
	b.WriteString("Symlinks are named: `{repo}_{section}_group{NN}.toml`\n\n")
	b.WriteString("Where:\n")
	b.WriteString("- `{repo}` is the repository name\n")
	b.WriteString("- `{section}` is the dependency section (e.g., `dependencies`, `workspace-dependencies`)\n")
	b.WriteString("- `{NN}` is the group number within that section\n\n")
	fmt.Fprintf(&b, "Total grouped snippets: %d\n", info.Groups)
	fmt.Fprintf(&b, "Unique content files: %d\n", reg.Len())
	b.WriteString(s.footer(info))
	return b.String()
}

func (s *Store) hashedSummary(info SummaryInfo, reg Registry) string {
	var b strings.Builder
	b.WriteString("# Cargo Dependency Snippets (Hash-Based)\n\n")
	b.WriteString("This directory contains deduplicated dependency snippets identified by SHA-256 hash.\n\n")
	b.WriteString("## Naming Convention\n\n")
	fmt.Fprintf(&b, "Files are named: `{hash}.toml` where `{hash}` is the first %d characters of the SHA-256 hash.\n\n", ShortHashLen)
	b.WriteString("## Deduplication\n\n")
	b.WriteString("Multiple repositories may share the same dependency groups.\n")
	b.WriteString("Each file contains a `# Sources:` comment listing all sources that share this content.\n\n")
	fmt.Fprintf(&b, "Total unique snippets: %d\n", reg.Len())

	if shared := reg.Shared(); len(shared) > 0 {
		b.WriteString("\n## Shared Snippets\n\n")
		b.WriteString("The following snippets are shared by multiple sources:\n\n")
		for _, hash := range shared {
			fmt.Fprintf(&b, "### `%s.toml`\n", hash)
			for _, source := range reg.Sources(hash) {
				fmt.Fprintf(&b, "- %s\n", source)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString(s.footer(info))
	return b.String()
}

func (s *Store) footer(info SummaryInfo) string {
	return fmt.Sprintf("\n*Generated automatically by snipsync (run %s)*\n", info.RunID)
}
