package model

import "sort"

// ColorToken is an opaque color identifier. It is used both to paint a row and
// as the key a HighlightSet matches against, so two groups sharing a token are
// indistinguishable when highlighting.
type ColorToken string

// HighlightSet is the set of colors rendered at full opacity.
type HighlightSet map[ColorToken]struct{}

// NewHighlightSet builds a set from the given tokens.
func NewHighlightSet(tokens ...ColorToken) HighlightSet {
	set := make(HighlightSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Contains reports whether c is highlighted. A nil set contains nothing.
func (h HighlightSet) Contains(c ColorToken) bool {
	_, ok := h[c]
	return ok
}

func (h HighlightSet) Len() int {
	return len(h)
}

// Tokens returns the members sorted for stable output.
func (h HighlightSet) Tokens() []ColorToken {
	tokens := make([]ColorToken, 0, len(h))
	for t := range h {
		tokens = append(tokens, t)
	}
	sort.Slice(tokens, func(i, j int) bool { return tokens[i] < tokens[j] })
	return tokens
}
