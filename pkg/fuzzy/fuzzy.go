// Package fuzzy scores candidate strings against a query using the
// same tiered exact/prefix/substring/subsequence scheme the teacher's
// analysis package uses for ranking actionable issues: cheap,
// deterministic, no external dependency needed.
package fuzzy

import (
	"sort"
	"strings"
)

// Match scores text against query. Returns (score, true) on match,
// (0, false) if query's characters don't all appear in order in text.
// An empty query always matches with score 0.
func Match(text, query string) (int, bool) {
	if query == "" {
		return 0, true
	}

	textLower := strings.ToLower(text)
	queryLower := strings.ToLower(query)

	if textLower == queryLower {
		return 1000, true
	}

	if strings.HasPrefix(textLower, queryLower) {
		bonus := 100 - len([]rune(text))
		if bonus < 0 {
			bonus = 0
		}
		return 900 + bonus, true
	}

	if idx := strings.Index(textLower, queryLower); idx >= 0 {
		// idx is a byte offset; convert it to a rune position so the
		// bonus counts characters, not bytes.
		pos := len([]rune(textLower[:idx]))
		bonus := 50 - pos
		if bonus < 0 {
			bonus = 0
		}
		return 500 + bonus, true
	}

	textChars := []rune(textLower)
	queryChars := []rune(queryLower)

	textIdx, queryIdx := 0, 0
	score := 0
	prevMatched := false
	consecutiveBonus := 0

	for textIdx < len(textChars) && queryIdx < len(queryChars) {
		if textChars[textIdx] == queryChars[queryIdx] {
			base := 100 - textIdx
			if base < 1 {
				base = 1
			}
			score += base
			if prevMatched {
				consecutiveBonus += 20
			}

			if textIdx == 0 || isWordBoundary(textChars[textIdx-1]) {
				score += 30
			}

			prevMatched = true
			queryIdx++
		} else {
			prevMatched = false
		}
		textIdx++
	}

	if queryIdx == len(queryChars) {
		return score + consecutiveBonus, true
	}
	return 0, false
}

func isWordBoundary(r rune) bool {
	return r == ' ' || r == '_' || r == '-'
}

// Result describes one scored candidate, paired with its original
// index for stable sorting.
type Result struct {
	Index int
	Score int
}

// Rank scores every candidate against query and returns the matches in
// descending-score order, ties broken by case-folded text ascending.
func Rank(candidates []string, query string) []Result {
	results := make([]Result, 0, len(candidates))
	for i, c := range candidates {
		if score, ok := Match(c, query); ok {
			results = append(results, Result{Index: i, Score: score})
		}
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return strings.ToLower(candidates[results[i].Index]) < strings.ToLower(candidates[results[j].Index])
	})
	return results
}
