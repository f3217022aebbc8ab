// Package pipeline orchestrates a full harvesting run.
//
// A run walks every Rust repository of the configured owner in sequence:
// download the root Cargo.toml, snapshot it, extract the dependency sections,
// split each section into blank-line groups and file them into the
// content-addressed store. Repositories that fail to download are counted and
// skipped; only a failed repository enumeration aborts the run.
//
// Processing is deliberately single-threaded. The output store relies on
// first-writer-wins hash entries and in-place symlink updates, and the
// per-repo work is dominated by one small HTTP request anyway.
package pipeline
