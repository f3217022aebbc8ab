// Package store persists harvested manifest snippets on disk.
//
// # Layout
//
// The store owns four directories under its root, created on demand:
//
//   - manifests/  full Cargo.toml snapshots, one per repository
//   - sections/   full dependency sections, one per (repository, section)
//   - grouped/    named symlinks, one per (repository, section, group)
//   - hashed/     deduplicated group content, one file per unique hash
//
// Snapshots, sections, and symlinks are overwritten on every run. Hash
// entries are append-only: the first writer creates the file and later
// writers only merge their source identifier into its "# Sources:" line,
// so repeated runs accumulate sources without ever rewriting content.
//
// # Addressing
//
// Group content is addressed by the first 16 hex characters of the SHA-256
// digest of its normalized text (metadata comment lines stripped, leading
// and trailing whitespace trimmed). Two different normalized texts that
// collide on the truncated prefix are treated as the same entry; at this
// corpus size the risk is accepted rather than handled.
package store
