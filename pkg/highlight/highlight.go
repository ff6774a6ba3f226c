// Package highlight implements per-line Markdown syntax-region
// detection and the background worker that runs it off the main
// thread. Grounded on the teacher's chroma-backed lexing (chroma
// tokenizes a whole buffer into typed ranges); here the lexer is
// hand-rolled per spec 4.4's line-oriented rule set, but the
// Range/Kind shape mirrors a chroma token: a half-open rune span plus a
// classification.
package highlight

import "strings"

// Kind classifies one highlighted rune range within a line.
type Kind int

const (
	KindHeading1 Kind = iota
	KindHeading2
	KindHeading3
	KindHeading4
	KindHeading5
	KindHeading6
	KindHorizontalRule
	KindBlockquote
	KindListMarker
	KindTaskBox
	KindHTMLTag
	KindInlineCode
	KindLink
	KindBold
	KindItalic
	KindCode
	KindFrontmatter
)

// Range is one classified rune span [Start, End) within a single line.
type Range struct {
	Start int
	End   int
	Kind  Kind
}

// WikiLinkRange is a wikilink span plus its target note name and
// whether it resolves. IsValid is always false as computed by the
// worker (it has no access to the live note set); the caller must
// re-evaluate it against its own Resolver before using the result.
type WikiLinkRange struct {
	Start   int
	End     int
	Target  string
	IsValid bool
}

// LineResult holds every highlighted range found on one line.
type LineResult struct {
	Ranges     []Range
	WikiLinks  []WikiLinkRange
}

// Highlight computes highlight ranges for every line of content. fence
// state and frontmatter detection run across the whole buffer in one
// forward pass; within a line, later rules never re-cover positions a
// higher-priority rule already claimed.
func Highlight(lines []string) []LineResult {
	results := make([]LineResult, len(lines))

	frontmatterEnd := detectFrontmatterEnd(lines)

	inCodeBlock := false
	for i, line := range lines {
		if i < frontmatterEnd {
			results[i] = LineResult{Ranges: []Range{{Start: 0, End: len([]rune(line)), Kind: KindFrontmatter}}}
			continue
		}

		trimmed := strings.TrimLeft(line, " \t")
		if strings.HasPrefix(trimmed, "```") {
			results[i] = LineResult{Ranges: []Range{{Start: 0, End: len([]rune(line)), Kind: KindCode}}}
			inCodeBlock = !inCodeBlock
			continue
		}
		if inCodeBlock {
			results[i] = LineResult{Ranges: []Range{{Start: 0, End: len([]rune(line)), Kind: KindCode}}}
			continue
		}

		results[i] = highlightLine(line)
	}

	return results
}

// detectFrontmatterEnd returns the line index one past the closing
// "---" delimiter, or 0 if there's no frontmatter block.
func detectFrontmatterEnd(lines []string) int {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return i + 1
		}
	}
	return 0
}

type claimed struct {
	ranges []Range
}

func (c *claimed) overlaps(start, end int) bool {
	for _, r := range c.ranges {
		if start < r.End && end > r.Start {
			return true
		}
	}
	return false
}

func (c *claimed) add(start, end int, kind Kind) {
	c.ranges = append(c.ranges, Range{Start: start, End: end, Kind: kind})
}

func highlightLine(line string) LineResult {
	chars := []rune(line)
	n := len(chars)
	var c claimed

	if level := headingLevel(chars); level > 0 {
		c.add(0, n, headingKind(level))
		return LineResult{Ranges: c.ranges}
	}

	if isHorizontalRule(chars) {
		c.add(0, n, KindHorizontalRule)
		return LineResult{Ranges: c.ranges}
	}

	trimmedLen := 0
	for trimmedLen < n && (chars[trimmedLen] == ' ' || chars[trimmedLen] == '\t') {
		trimmedLen++
	}
	if trimmedLen < n && chars[trimmedLen] == '>' {
		c.add(trimmedLen, trimmedLen+1, KindBlockquote)
	}

	if start, end, ok := listMarker(chars, trimmedLen); ok {
		c.add(start, end, KindListMarker)
	}
	if start, end, ok := taskBox(chars, trimmedLen); ok {
		c.add(start, end, KindTaskBox)
	}

	highlightHTMLTags(chars, &c)
	highlightInlineCode(chars, &c)
	highlightLinks(chars, &c)
	highlightEmphasis(chars, &c, true)
	highlightEmphasis(chars, &c, false)

	wikiSpans := extractWikiSpans(line)

	return LineResult{Ranges: c.ranges, WikiLinks: wikiSpans}
}

func headingLevel(chars []rune) int {
	level := 0
	for level < len(chars) && chars[level] == '#' {
		level++
	}
	if level == 0 || level > 6 {
		return 0
	}
	if level >= len(chars) || chars[level] != ' ' {
		return 0
	}
	return level
}

func headingKind(level int) Kind {
	switch level {
	case 1:
		return KindHeading1
	case 2:
		return KindHeading2
	case 3:
		return KindHeading3
	case 4:
		return KindHeading4
	case 5:
		return KindHeading5
	default:
		return KindHeading6
	}
}

func isHorizontalRule(chars []rune) bool {
	if len(chars) == 0 {
		return false
	}
	var marker rune
	count := 0
	for _, ch := range chars {
		switch ch {
		case '-', '*', '_':
			if count == 0 {
				marker = ch
			} else if ch != marker {
				return false
			}
			count++
		case ' ':
		default:
			return false
		}
	}
	return count >= 3
}

func listMarker(chars []rune, from int) (int, int, bool) {
	if from >= len(chars) {
		return 0, 0, false
	}
	if chars[from] == '-' || chars[from] == '*' || chars[from] == '+' {
		if from+1 < len(chars) && chars[from+1] == ' ' {
			return from, from + 1, true
		}
		return 0, 0, false
	}
	i := from
	for i < len(chars) && chars[i] >= '0' && chars[i] <= '9' {
		i++
	}
	if i > from && i+1 < len(chars) && chars[i] == '.' && chars[i+1] == ' ' {
		return from, i + 1, true
	}
	return 0, 0, false
}

func taskBox(chars []rune, from int) (int, int, bool) {
	start := from
	if start+1 < len(chars) && (chars[start] == '-' || chars[start] == '*') && chars[start+1] == ' ' {
		start += 2
	}
	if start+2 >= len(chars) || chars[start] != '[' {
		return 0, 0, false
	}
	mark := chars[start+1]
	if (mark != ' ' && mark != 'x' && mark != 'X') || chars[start+2] != ']' {
		return 0, 0, false
	}
	return start, start + 3, true
}

func highlightHTMLTags(chars []rune, c *claimed) {
	text := string(chars)
	for _, tag := range []string{"<details>", "</details>", "<summary>", "</summary>"} {
		searchFrom := 0
		for {
			idx := strings.Index(text[searchFrom:], tag)
			if idx < 0 {
				break
			}
			byteStart := searchFrom + idx
			start := len([]rune(text[:byteStart]))
			end := start + len([]rune(tag))
			if !c.overlaps(start, end) {
				c.add(start, end, KindHTMLTag)
			}
			searchFrom = byteStart + len(tag)
		}
	}
}

func highlightInlineCode(chars []rune, c *claimed) {
	i := 0
	for i < len(chars) {
		if chars[i] != '`' {
			i++
			continue
		}
		j := i + 1
		for j < len(chars) && chars[j] != '`' {
			j++
		}
		if j >= len(chars) {
			break
		}
		if !c.overlaps(i, j+1) {
			c.add(i, j+1, KindInlineCode)
		}
		i = j + 1
	}
}

func highlightLinks(chars []rune, c *claimed) {
	text := string(chars)
	i := 0
	for i < len(chars) {
		if chars[i] != '[' {
			i++
			continue
		}
		start := i
		depth := 1
		j := i + 1
		for j < len(chars) && depth > 0 {
			if chars[j] == '[' {
				depth++
			} else if chars[j] == ']' {
				depth--
			}
			if depth == 0 {
				break
			}
			j++
		}
		if depth != 0 {
			i++
			continue
		}
		closeBracket := j
		if closeBracket+1 >= len(chars) || chars[closeBracket+1] != '(' {
			i++
			continue
		}
		k := closeBracket + 2
		for k < len(chars) && chars[k] != ')' {
			k++
		}
		if k >= len(chars) {
			i++
			continue
		}
		if !c.overlaps(start, k+1) {
			c.add(start, k+1, KindLink)
		}
		i = k + 1
	}
	_ = text
}

func highlightEmphasis(chars []rune, c *claimed, bold bool) {
	markers := []string{"**", "__"}
	minLen := 2
	kind := KindBold
	if !bold {
		markers = []string{"*", "_"}
		minLen = 1
		kind = KindItalic
	}

	for _, marker := range markers {
		mr := []rune(marker)
		i := 0
		for i < len(chars) {
			if !matchesAt(chars, i, mr) {
				i++
				continue
			}
			if !bold && matchesAt(chars, i, []rune(marker+marker)) {
				i++
				continue
			}
			openEnd := i + minLen
			j := openEnd
			for j < len(chars) {
				if matchesAt(chars, j, mr) {
					if !bold && j+1 < len(chars) && matchesAt(chars, j, mr) && matchesAt(chars, j+1, mr) {
						j++
						continue
					}
					break
				}
				j++
			}
			if j >= len(chars) || j == openEnd {
				i++
				continue
			}
			closeEnd := j + minLen
			if !c.overlaps(i, closeEnd) {
				c.add(i, closeEnd, kind)
			}
			i = closeEnd
		}
	}
}

func matchesAt(chars []rune, pos int, pattern []rune) bool {
	if pos+len(pattern) > len(chars) {
		return false
	}
	for k, p := range pattern {
		if chars[pos+k] != p {
			return false
		}
	}
	return true
}

func extractWikiSpans(line string) []WikiLinkRange {
	var spans []WikiLinkRange
	searchStart := 0
	for searchStart < len(line) {
		remaining := line[searchStart:]
		if backtickPos := strings.IndexByte(remaining, '`'); backtickPos >= 0 {
			wikiPos := strings.Index(remaining, "[[")
			if wikiPos < 0 || backtickPos < wikiPos {
				absBacktick := searchStart + backtickPos
				after := line[absBacktick+1:]
				if closeBacktick := strings.IndexByte(after, '`'); closeBacktick >= 0 {
					searchStart = absBacktick + 1 + closeBacktick + 1
					continue
				}
				break
			}
		}
		start := strings.Index(remaining, "[[")
		if start < 0 {
			break
		}
		absStart := searchStart + start
		after := line[absStart+2:]
		end := strings.Index(after, "]]")
		if end < 0 {
			break
		}
		content := after[:end]
		if content != "" && !strings.ContainsAny(content, "[]") {
			rStart := len([]rune(line[:absStart]))
			rEnd := rStart + 4 + len([]rune(content))
			spans = append(spans, WikiLinkRange{Start: rStart, End: rEnd, Target: wikiTarget(content)})
		}
		searchStart = absStart + 2 + end + 2
	}
	return spans
}

// wikiTarget strips a "[[target#heading|alias]]" span's heading/alias
// suffix, leaving just the note target the caller resolves against.
func wikiTarget(content string) string {
	if hashPos := strings.IndexByte(content, '#'); hashPos >= 0 {
		content = content[:hashPos]
	}
	if pipePos := strings.IndexByte(content, '|'); pipePos >= 0 {
		content = content[:pipePos]
	}
	return content
}
