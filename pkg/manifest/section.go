package manifest

import (
	"regexp"
	"strings"
)

// Section names recognized by [ExtractSections].
const (
	SectionDependencies          = "dependencies"
	SectionDevDependencies       = "dev-dependencies"
	SectionBuildDependencies     = "build-dependencies"
	SectionWorkspaceDependencies = "workspace.dependencies"
)

// SectionNames lists the recognized section names in manifest order.
var SectionNames = []string{
	SectionDependencies,
	SectionDevDependencies,
	SectionBuildDependencies,
	SectionWorkspaceDependencies,
}

// sectionPatterns maps header regexes to canonical section names.
// Matching is case-insensitive and anchored at the start of the trimmed
// line, so "[dependencies]" matches but "[dependencies.serde]" does not.
var sectionPatterns = []struct {
	pattern *regexp.Regexp
	name    string
}{
	{regexp.MustCompile(`(?i)^\[dependencies\]`), SectionDependencies},
	{regexp.MustCompile(`(?i)^\[dev-dependencies\]`), SectionDevDependencies},
	{regexp.MustCompile(`(?i)^\[build-dependencies\]`), SectionBuildDependencies},
	{regexp.MustCompile(`(?i)^\[workspace\.dependencies\]`), SectionWorkspaceDependencies},
}

// headerPattern matches any bracketed table header, recognized or not.
var headerPattern = regexp.MustCompile(`^\[.*\]$`)

// ExtractSections scans manifest content and returns every recognized
// dependency section keyed by canonical name. The value is the verbatim
// line range starting at the section header and ending before the next
// table header. An unrecognized header closes the open section; lines
// between it and the next recognized header are discarded.
//
// A manifest with no recognized sections yields an empty map. If a section
// header appears twice, the later occurrence wins.
func ExtractSections(content string) map[string]string {
	sections := make(map[string]string)

	var current string
	var buf []string

	flush := func() {
		if current != "" && len(buf) > 0 {
			sections[current] = strings.Join(buf, "\n")
		}
		current = ""
		buf = nil
	}

	for _, line := range strings.Split(content, "\n") {
		stripped := strings.TrimSpace(line)

		name := matchSection(stripped)
		if name != "" {
			flush()
			current = name
			buf = []string{line}
			continue
		}

		if headerPattern.MatchString(stripped) {
			flush()
			continue
		}

		if current != "" {
			buf = append(buf, line)
		}
	}
	flush()

	return sections
}

// matchSection returns the canonical section name for a header line, or ""
// if the line opens no recognized section.
func matchSection(stripped string) string {
	for _, sp := range sectionPatterns {
		if sp.pattern.MatchString(stripped) {
			return sp.name
		}
	}
	return ""
}

// SafeSectionName converts a section name into a form usable in filenames,
// replacing "." and "/" with "-" (e.g. "workspace.dependencies" becomes
// "workspace-dependencies").
func SafeSectionName(name string) string {
	return strings.NewReplacer(".", "-", "/", "-").Replace(name)
}
