package timeline

import "fmt"

// SortScope selects which records are sorted together.
type SortScope string

const (
	// ScopeSource sorts each source on its own and keeps sources in caller order.
	ScopeSource SortScope = "source"
	// ScopeGlobal sorts all records of all sources together. Group headers are
	// never emitted in this scope because groups are interleaved.
	ScopeGlobal SortScope = "global"
)

// ParseSortScope maps a config string to a SortScope. Empty means ScopeSource.
func ParseSortScope(s string) (SortScope, error) {
	switch SortScope(s) {
	case "", ScopeSource:
		return ScopeSource, nil
	case ScopeGlobal:
		return ScopeGlobal, nil
	default:
		return "", fmt.Errorf("unknown sort scope %q (want %q or %q)", s, ScopeSource, ScopeGlobal)
	}
}

// Options controls normalization.
type Options struct {
	// Grouped appends one HeaderRow after each source's data rows.
	Grouped bool
	Scope   SortScope
}
