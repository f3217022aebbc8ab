package store

import "sort"

// Registry tracks which source identifiers produced each content hash
// within a single run. It is plain in-memory state handed from the
// grouping stage to the summary writer; nothing about it is persistent
// or goroutine-safe.
type Registry map[string][]string

// NewRegistry returns an empty registry.
func NewRegistry() Registry {
	return make(Registry)
}

// Add records that source produced the group stored under hash.
func (r Registry) Add(hash, source string) {
	r[hash] = append(r[hash], source)
}

// Sources returns the sorted source identifiers recorded for hash.
func (r Registry) Sources(hash string) []string {
	out := append([]string(nil), r[hash]...)
	sort.Strings(out)
	return out
}

// Shared returns the hashes recorded with more than one source, sorted.
func (r Registry) Shared() []string {
	var hashes []string
	for h, sources := range r {
		if len(sources) > 1 {
			hashes = append(hashes, h)
		}
	}
	sort.Strings(hashes)
	return hashes
}

// Len returns the number of unique hashes seen this run.
func (r Registry) Len() int { return len(r) }
