// Package manifest extracts dependency sections and snippet groups from
// Cargo.toml manifests.
//
// # Overview
//
// The package works on raw manifest text, line by line. It deliberately does
// not parse TOML: the goal is to carve out verbatim snippets (comments,
// formatting, and ordering intact) that can be pasted into another manifest,
// and a structural parse would destroy exactly the texture worth keeping.
//
// Processing happens in two passes:
//
//  1. [ExtractSections] finds the dependency sections ([dependencies],
//     [dev-dependencies], [build-dependencies], [workspace.dependencies])
//     and returns their verbatim line ranges.
//  2. [SplitGroups] splits one section into blank-line-delimited groups,
//     keeping multi-line entries (inline tables, feature arrays) together by
//     tracking bracket depth.
//
// # Example
//
//	sections := manifest.ExtractSections(content)
//	for name, body := range sections {
//	    for i, group := range manifest.SplitGroups(body) {
//	        store.AddGroup(repo, name, i+1, group)
//	    }
//	}
package manifest
