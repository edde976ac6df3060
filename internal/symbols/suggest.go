package symbols

import (
	"sort"

	"ember/internal/source"
)

// Suggest implements the undefined-name suggestion policy (§4.B): collect
// every name visible from useScope, keep those within edit distance 3 of
// target, sort ascending by distance, and return at most 3.
func Suggest(t *Table, interner *source.Interner, useScope ScopeID, target string) []string {
	type candidate struct {
		name     string
		distance int
	}

	var candidates []candidate
	for _, sym := range t.VisibleNames(useScope) {
		name, ok := interner.Lookup(sym)
		if !ok {
			continue
		}
		d := levenshteinDistance(target, name)
		if d <= 3 {
			candidates = append(candidates, candidate{name: name, distance: d})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].distance < candidates[j].distance
	})

	if len(candidates) > 3 {
		candidates = candidates[:3]
	}
	out := make([]string, len(candidates))
	for i, c := range candidates {
		out[i] = c.name
	}
	return out
}

// levenshteinDistance is the ordinary edit distance between two strings,
// counted in runes.
func levenshteinDistance(a, b string) int {
	sourceRunes := []rune(a)
	targetRunes := []rune(b)
	sourceLen := len(sourceRunes)
	targetLen := len(targetRunes)

	if sourceLen == 0 {
		return targetLen
	}
	if targetLen == 0 {
		return sourceLen
	}

	matrix := make([][]int, sourceLen+1)
	for i := range matrix {
		matrix[i] = make([]int, targetLen+1)
		matrix[i][0] = i
	}
	for j := 0; j <= targetLen; j++ {
		matrix[0][j] = j
	}

	for i, sc := range sourceRunes {
		for j, tc := range targetRunes {
			cost := 1
			if sc == tc {
				cost = 0
			}
			deletion := matrix[i][j+1] + 1
			insertion := matrix[i+1][j] + 1
			substitution := matrix[i][j] + cost
			matrix[i+1][j+1] = min3(deletion, insertion, substitution)
		}
	}
	return matrix[sourceLen][targetLen]
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
