package query

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/kailas-cloud/mediacat/internal/domain/record"
)

// DefaultFuzzyThreshold accepts roughly one edit per three query characters.
const DefaultFuzzyThreshold = 0.3

// normalizer folds case and strips diacritics so "Pokémon" and "pokemon" compare equal.
// Not safe for concurrent use: one per Execute call.
type normalizer struct {
	fold  cases.Caser
	strip transform.Transformer
}

func newNormalizer() *normalizer {
	return &normalizer{
		fold:  cases.Fold(),
		strip: transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC),
	}
}

func (n *normalizer) normalize(s string) []rune {
	stripped, _, err := transform.String(n.strip, s)
	if err != nil {
		stripped = s
	}
	folded := n.fold.String(stripped)
	return []rune(strings.Join(strings.Fields(folded), " "))
}

// scored is a search hit with its normalized distance.
type scored struct {
	rec   record.Record
	score float64
}

// fuzzySearch keeps records whose name scores within threshold, best match first.
// Ties keep input order.
func fuzzySearch(records []record.Record, q string, threshold float64) []record.Record {
	n := newNormalizer()
	pattern := n.normalize(q)
	if len(pattern) == 0 {
		return slices.Clone(records)
	}

	hits := make([]scored, 0, len(records))
	for _, r := range records {
		s := matchScore(pattern, n.normalize(r.Name()))
		if s <= threshold {
			hits = append(hits, scored{rec: r, score: s})
		}
	}

	slices.SortStableFunc(hits, func(a, b scored) int {
		switch {
		case a.score < b.score:
			return -1
		case a.score > b.score:
			return 1
		}
		return 0
	})

	out := make([]record.Record, len(hits))
	for i, h := range hits {
		out[i] = h.rec
	}
	return out
}

// matchScore is substringDistance normalized by pattern length: 0 is an exact
// substring match, 1 means nothing similar.
func matchScore(pattern, text []rune) float64 {
	if len(pattern) == 0 {
		return 0
	}
	d := substringDistance(pattern, text)
	if d >= len(pattern) {
		return 1
	}
	return float64(d) / float64(len(pattern))
}

// substringDistance returns the minimum optimal string alignment distance
// (insert, delete, substitute, swap adjacent) between pattern and any substring of text.
// Row 0 is all zeros so a match may start anywhere in text; the minimum of the last
// row lets it end anywhere.
func substringDistance(pattern, text []rune) int {
	m, n := len(pattern), len(text)
	if m == 0 {
		return 0
	}
	if n == 0 {
		return m
	}

	prev2 := make([]int, n+1)
	prev := make([]int, n+1)
	cur := make([]int, n+1)

	for i := 1; i <= m; i++ {
		cur[0] = i
		for j := 1; j <= n; j++ {
			cost := 1
			if pattern[i-1] == text[j-1] {
				cost = 0
			}
			d := min(prev[j]+1, cur[j-1]+1, prev[j-1]+cost)
			if i > 1 && j > 1 && pattern[i-1] == text[j-2] && pattern[i-2] == text[j-1] {
				d = min(d, prev2[j-2]+1)
			}
			cur[j] = d
		}
		prev2, prev, cur = prev, cur, prev2
	}

	return slices.Min(prev)
}
