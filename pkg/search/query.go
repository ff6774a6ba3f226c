package search

import (
	"sort"
	"strings"
)

// SearchResult is one ranked, display-ready match.
type SearchResult struct {
	NoteIndex   int
	LineNum     int
	Preview     string
	MatchStart  int
	MatchEnd    int
	Score       int
}

const (
	maxInternalResults = 15000
	maxDeliveredResults = 500
	contextRadius       = 25
	prefixCapPerTerm    = 200
)

// NoteTitle is the minimal title lookup Search needs for the
// title-contains scoring bonus.
type NoteTitle func(noteIdx int) string

// Search runs the three-stage query algorithm from the spec: exact-term
// lookup, prefix lookup, and a substring line-scan fallback for content
// the tokenizer wouldn't have split into the same term (phrases,
// punctuation). Results are deduplicated by (note, line), scored, sorted
// by score desc then title/line asc, and truncated.
func (idx *Index) Search(query string, title NoteTitle) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	queryLower := strings.ToLower(query)
	seen := map[[2]int]bool{}
	var results []SearchResult

	addResult := func(noteIdx, lineNum, charPos int, matchLen int) {
		if len(results) >= maxInternalResults {
			return
		}
		key := [2]int{noteIdx, lineNum}
		if seen[key] {
			return
		}
		seen[key] = true

		var line string
		if noteIdx < len(idx.Lines) && lineNum < len(idx.Lines[noteIdx]) {
			line = idx.Lines[noteIdx][lineNum]
		}
		preview, previewStart := buildPreview(line, charPos, matchLen)

		score := 100
		if title != nil && strings.Contains(strings.ToLower(title(noteIdx)), queryLower) {
			score += 50
		}
		if charPos == 0 {
			score += 20
		}
		if isWordBoundaryAt(line, charPos) {
			score += 10
		}

		results = append(results, SearchResult{
			NoteIndex:  noteIdx,
			LineNum:    lineNum,
			Preview:    preview,
			MatchStart: previewStart,
			MatchEnd:   previewStart + matchLen,
			Score:      score,
		})
	}

	if postings, ok := idx.Terms[queryLower]; ok {
		for _, p := range postings {
			addResult(p.NoteIndex, p.LineNum, p.CharPos, len([]rune(queryLower)))
		}
	}

	termCount := 0
	for term, postings := range idx.Terms {
		if term == queryLower || !strings.HasPrefix(term, queryLower) {
			continue
		}
		termCount++
		if termCount > prefixCapPerTerm {
			break
		}
		for _, p := range postings {
			addResult(p.NoteIndex, p.LineNum, p.CharPos, len([]rune(term)))
		}
	}

	for noteIdx, lines := range idx.Lines {
		for lineNum, line := range lines {
			key := [2]int{noteIdx, lineNum}
			if seen[key] {
				continue
			}
			lineLower := strings.ToLower(line)
			if pos := strings.Index(lineLower, queryLower); pos >= 0 {
				charPos := len([]rune(lineLower[:pos]))
				addResult(noteIdx, lineNum, charPos, len([]rune(queryLower)))
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if titleAt(title, results[i].NoteIndex) != titleAt(title, results[j].NoteIndex) {
			return titleAt(title, results[i].NoteIndex) < titleAt(title, results[j].NoteIndex)
		}
		return results[i].LineNum < results[j].LineNum
	})

	if len(results) > maxDeliveredResults {
		results = results[:maxDeliveredResults]
	}
	return results
}

// Scan runs the substring line-scan stage alone over raw sources, for
// the pre-index live search that answers queries while a background
// index build hasn't delivered yet. Scoring matches Search's so results
// don't jump around once the real index swaps in.
func Scan(sources []NoteSource, query string, title NoteTitle) []SearchResult {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil
	}
	queryLower := strings.ToLower(query)
	queryLen := len([]rune(queryLower))

	var results []SearchResult
	for _, src := range sources {
		for lineNum, line := range strings.Split(src.Content, "\n") {
			if len(results) >= maxInternalResults {
				break
			}
			lineLower := strings.ToLower(line)
			pos := strings.Index(lineLower, queryLower)
			if pos < 0 {
				continue
			}
			charPos := len([]rune(lineLower[:pos]))
			preview, previewStart := buildPreview(line, charPos, queryLen)

			score := 100
			if title != nil && strings.Contains(strings.ToLower(title(src.NoteIndex)), queryLower) {
				score += 50
			}
			if charPos == 0 {
				score += 20
			}
			if isWordBoundaryAt(line, charPos) {
				score += 10
			}
			results = append(results, SearchResult{
				NoteIndex:  src.NoteIndex,
				LineNum:    lineNum,
				Preview:    preview,
				MatchStart: previewStart,
				MatchEnd:   previewStart + queryLen,
				Score:      score,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		if titleAt(title, results[i].NoteIndex) != titleAt(title, results[j].NoteIndex) {
			return titleAt(title, results[i].NoteIndex) < titleAt(title, results[j].NoteIndex)
		}
		return results[i].LineNum < results[j].LineNum
	})
	if len(results) > maxDeliveredResults {
		results = results[:maxDeliveredResults]
	}
	return results
}

func titleAt(title NoteTitle, noteIdx int) string {
	if title == nil {
		return ""
	}
	return title(noteIdx)
}

// buildPreview extracts a ±contextRadius-char window around [charPos,
// charPos+matchLen) from line, adding ellipses when truncated, and
// returns the preview plus the match's start offset within it.
func buildPreview(line string, charPos, matchLen int) (string, int) {
	chars := []rune(line)
	start := charPos - contextRadius
	if start < 0 {
		start = 0
	}
	truncatedStart := start > 0
	end := charPos + matchLen + contextRadius
	if end > len(chars) {
		end = len(chars)
	}
	truncatedEnd := end < len(chars)
	if start > len(chars) {
		start = len(chars)
	}
	if end < start {
		end = start
	}

	var sb strings.Builder
	matchStart := charPos - start
	if truncatedStart {
		sb.WriteString("...")
		matchStart += 3
	}
	sb.WriteString(string(chars[start:end]))
	if truncatedEnd {
		sb.WriteString("...")
	}
	return sb.String(), matchStart
}

func isWordBoundaryAt(line string, charPos int) bool {
	chars := []rune(line)
	if charPos <= 0 {
		return true
	}
	if charPos > len(chars) {
		return false
	}
	prev := chars[charPos-1]
	return prev == ' ' || prev == '\t' || prev == '\n' || isBoundaryPunct(prev)
}

func isBoundaryPunct(r rune) bool {
	switch r {
	case '-', '_', '.', ',', ';', ':', '(', ')', '[', ']', '{', '}':
		return true
	}
	return false
}
