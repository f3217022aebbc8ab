package manifest

import "strings"

// SplitGroups splits a section's content into blank-line-delimited groups.
//
// A leading table header line (the section's own "[...]" header) is skipped.
// Brackets are counted per line across "[", "]", "{", and "}"; while the
// running depth is above zero the scan is inside a multi-line entry and
// blank lines are kept as part of the current group rather than treated as
// separators. Unmatched closers clamp the depth at zero so one malformed
// entry cannot disable splitting for the rest of the section.
//
// Bracket counting is plain character counting, not a tokenizer: a bracket
// inside a string literal is counted too. Dependency sections rarely contain
// such strings, and a structural TOML parse would defeat the verbatim-snippet
// goal, so this is a conscious simplification.
//
// Groups consisting only of comments or blank lines are dropped: a group is
// retained only if at least one trimmed line does not start with "#" and
// contains "=".
func SplitGroups(section string) []string {
	lines := strings.Split(section, "\n")

	// Skip the section's own header line if present.
	start := 0
	for i, line := range lines {
		if headerPattern.MatchString(strings.TrimSpace(line)) {
			start = i + 1
			break
		}
	}

	var groups []string
	var current []string
	depth := 0

	flush := func() {
		if hasAssignment(current) {
			groups = append(groups, strings.Join(current, "\n"))
		}
		current = nil
	}

	for _, line := range lines[start:] {
		opens := strings.Count(line, "[") + strings.Count(line, "{")
		closes := strings.Count(line, "]") + strings.Count(line, "}")
		depth += opens - closes
		if depth < 0 {
			depth = 0
		}

		if strings.TrimSpace(line) == "" && depth == 0 {
			if len(current) > 0 {
				flush()
			}
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		flush()
	}

	return groups
}

// hasAssignment reports whether any line in the group is a real entry:
// non-blank, not a comment, and containing an assignment.
func hasAssignment(group []string) bool {
	for _, line := range group {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") && strings.Contains(trimmed, "=") {
			return true
		}
	}
	return false
}
