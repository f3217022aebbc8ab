// Package github talks to the GitHub API and raw content host.
//
// The client covers the two requests the harvester needs: enumerating an
// organization's Rust repositories through the search API, and downloading a
// repository's root Cargo.toml from raw.githubusercontent.com. Responses are
// cached through a [cache.Cache] so repeated runs don't re-hit the network.
//
// Failed requests are not retried. The only fallback is a single alternate
// branch probe when a manifest download returns 404: repositories that report
// "main" as their default branch are retried on "master" and vice versa,
// because the default branch advertised by the search API is occasionally
// stale.
package github
