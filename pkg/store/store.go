package store

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/portal-co/snipsync/pkg/manifest"
)

// Directory names under the store root.
const (
	manifestsDirName = "manifests"
	sectionsDirName  = "sections"
	groupedDirName   = "grouped"
	hashedDirName    = "hashed"
)

// Store is a file-backed snippet store rooted at a single directory.
// It is written by one goroutine at a time; the only cross-run state is
// what lives on disk.
type Store struct {
	root  string
	owner string
}

// New creates a Store rooted at root, creating the four output
// directories if they do not exist. The owner (GitHub organization) is
// recorded in provenance headers.
func New(root, owner string) (*Store, error) {
	s := &Store{root: root, owner: owner}
	for _, dir := range []string{s.ManifestsDir(), s.SectionsDir(), s.GroupedDir(), s.HashedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}
	return s, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// ManifestsDir returns the directory holding full manifest snapshots.
func (s *Store) ManifestsDir() string { return filepath.Join(s.root, manifestsDirName) }

// SectionsDir returns the directory holding full-section snippets.
func (s *Store) SectionsDir() string { return filepath.Join(s.root, sectionsDirName) }

// GroupedDir returns the directory holding named symlinks.
func (s *Store) GroupedDir() string { return filepath.Join(s.root, groupedDirName) }

// HashedDir returns the directory holding deduplicated content files.
func (s *Store) HashedDir() string { return filepath.Join(s.root, hashedDirName) }

// WriteSnapshot saves the full manifest for repo, prefixed with a
// provenance header. Snapshots are overwritten on every run.
func (s *Store) WriteSnapshot(repo, content string) error {
	path := filepath.Join(s.ManifestsDir(), repo+"_Cargo.toml")
	full := fmt.Sprintf("# Source: %s/%s\n# Auto-generated - do not edit\n\n%s", s.owner, repo, content)
	if err := os.WriteFile(path, []byte(full), 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// WriteSection saves a full dependency section for repo and returns the
// filename it was written under. Section files are overwritten on every run.
func (s *Store) WriteSection(repo, section, content string) (string, error) {
	name := fmt.Sprintf("%s_%s.toml", repo, manifest.SafeSectionName(section))
	full := fmt.Sprintf("# Source: %s/%s\n# Section: [%s]\n# Auto-generated - do not edit\n\n%s\n",
		s.owner, repo, section, content)
	if err := os.WriteFile(filepath.Join(s.SectionsDir(), name), []byte(full), 0o644); err != nil {
		return "", fmt.Errorf("write section: %w", err)
	}
	return name, nil
}

// GroupRef describes where one snippet group ended up in the store.
type GroupRef struct {
	SourceID string // "{repo}/{section}/group{NN}"
	Hash     string // truncated storage key
	LinkName string // symlink filename in the grouped directory
}

// AddGroup stores one snippet group: the content goes to the hash entry
// (created on first sight, sources merged afterwards) and a named symlink
// in the grouped directory is (re)pointed at it. The registry records the
// hash/source pair for the run summary.
func (s *Store) AddGroup(repo, section string, index int, content string, reg Registry) (GroupRef, error) {
	safe := manifest.SafeSectionName(section)
	sourceID := fmt.Sprintf("%s/%s/group%02d", repo, safe, index)
	short := ShortHash(content)

	reg.Add(short, sourceID)

	target, err := s.writeHashEntry(content, sourceID)
	if err != nil {
		return GroupRef{}, err
	}

	linkName := fmt.Sprintf("%s_%s_group%02d.toml", repo, safe, index)
	if err := s.link(filepath.Join(s.GroupedDir(), linkName), target); err != nil {
		return GroupRef{}, err
	}

	return GroupRef{SourceID: sourceID, Hash: short, LinkName: linkName}, nil
}

// writeHashEntry persists content under its hash key and returns the entry
// path. First writer wins for content; later writers only merge source into
// the "# Sources:" line. Content equality is assumed from hash equality,
// so an existing entry's body is never touched.
func (s *Store) writeHashEntry(content, source string) (string, error) {
	full := ContentHash(content)
	path := filepath.Join(s.HashedDir(), full[:ShortHashLen]+".toml")

	if _, err := os.Stat(path); os.IsNotExist(err) {
		entry := fmt.Sprintf("# Hash: %s\n# Sources: %s\n# Auto-generated - do not edit\n\n%s\n",
			full, source, content)
		if err := os.WriteFile(path, []byte(entry), 0o644); err != nil {
			return "", fmt.Errorf("write hash entry: %w", err)
		}
		return path, nil
	}

	if err := mergeSources(path, source); err != nil {
		return "", err
	}
	return path, nil
}

// mergeSources rewrites only the "# Sources:" line of an existing hash
// entry, adding source to the deduplicated, sorted set.
func mergeSources(path, source string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read hash entry: %w", err)
	}

	lines := strings.Split(string(data), "\n")
	for i, line := range lines {
		if !strings.HasPrefix(line, "# Sources:") {
			continue
		}
		set := map[string]bool{source: true}
		for _, s := range strings.Split(strings.TrimPrefix(line, "# Sources:"), ",") {
			if s = strings.TrimSpace(s); s != "" {
				set[s] = true
			}
		}
		merged := make([]string, 0, len(set))
		for s := range set {
			merged = append(merged, s)
		}
		sort.Strings(merged)
		lines[i] = "# Sources: " + strings.Join(merged, ", ")
		break
	}

	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0o644); err != nil {
		return fmt.Errorf("update hash entry: %w", err)
	}
	return nil
}

// link replaces any existing file at linkPath with a relative symlink to
// target. Stale links from previous runs are always overwritten.
func (s *Store) link(linkPath, target string) error {
	_ = os.Remove(linkPath)

	rel, err := filepath.Rel(filepath.Dir(linkPath), target)
	if err != nil {
		return fmt.Errorf("relative link target: %w", err)
	}
	if err := os.Symlink(rel, linkPath); err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}
	return nil
}

// EntrySources reads back the source identifiers recorded in a hash entry
// file. Used by the summary writer and by callers inspecting the store.
func (s *Store) EntrySources(hash string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(s.HashedDir(), hash+".toml"))
	if err != nil {
		return nil, err
	}
	for _, line := range strings.Split(string(data), "\n") {
		if strings.HasPrefix(line, "# Sources:") {
			var sources []string
			for _, f := range strings.Split(strings.TrimPrefix(line, "# Sources:"), ",") {
				if f = strings.TrimSpace(f); f != "" {
					sources = append(sources, f)
				}
			}
			return sources, nil
		}
	}
	return nil, nil
}
