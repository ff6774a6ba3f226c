package content

import "strings"

// MarkdownLink is one "[text](url)" or image-style occurrence found in
// the rendered text of a content item.
type MarkdownLink struct {
	Display  string
	URL      string
	CharStart int
	CharEnd   int
}

// MarkdownLinks scans a TextLine/TaskItem item's rendered text for
// inline links: "[text](url)", "![alt](url)" (rendered as "[img: alt]"),
// and "!![alt](url)" which is left as plain text (no link produced).
func MarkdownLinks(item Item) []MarkdownLink {
	text := itemText(item)
	if text == "" {
		return nil
	}
	return markdownLinksInText(text)
}

func itemText(item Item) string {
	switch item.Kind {
	case KindTextLine, KindTaskItem:
		return item.Text
	default:
		return ""
	}
}

func markdownLinksInText(text string) []MarkdownLink {
	var links []MarkdownLink
	i := 0
	chars := []rune(text)

	for i < len(chars) {
		if chars[i] != '[' && chars[i] != '!' {
			i++
			continue
		}

		isImage := false
		start := i
		idx := i

		// "!![alt](url)" — double-bang images render as plain text, not a link.
		if idx+1 < len(chars) && chars[idx] == '!' && chars[idx+1] == '!' {
			bracketStart := idx + 2
			if closeIdx, urlEnd, ok := scanBracketedLink(chars, bracketStart); ok {
				i = urlEnd + 1
				_ = closeIdx
				continue
			}
			i++
			continue
		}

		if chars[idx] == '!' {
			if idx+1 >= len(chars) || chars[idx+1] != '[' {
				i++
				continue
			}
			isImage = true
			idx++
		}

		if chars[idx] != '[' {
			i++
			continue
		}

		closeBracket, urlEnd, ok := scanBracketedLink(chars, idx)
		if !ok {
			i++
			continue
		}

		display := string(chars[idx+1 : closeBracket])
		urlStart := closeBracket + 2
		url := string(chars[urlStart : urlEnd])

		renderedDisplay := display
		if isImage {
			renderedDisplay = "[img: " + display + "]"
		}

		links = append(links, MarkdownLink{
			Display:   renderedDisplay,
			URL:       url,
			CharStart: start,
			CharEnd:   start + len([]rune(renderedDisplay)),
		})
		i = urlEnd + 1
	}

	return links
}

// scanBracketedLink expects chars[open] == '[' and looks for the
// matching "](url)" immediately after the closing bracket. Returns the
// index of the closing ']' and the index of the closing ')'.
func scanBracketedLink(chars []rune, open int) (closeBracket, urlEnd int, ok bool) {
	if open >= len(chars) || chars[open] != '[' {
		return 0, 0, false
	}
	depth := 1
	i := open + 1
	for i < len(chars) && depth > 0 {
		switch chars[i] {
		case '[':
			depth++
		case ']':
			depth--
		}
		if depth == 0 {
			break
		}
		i++
	}
	if depth != 0 {
		return 0, 0, false
	}
	closeBracket = i
	if closeBracket+1 >= len(chars) || chars[closeBracket+1] != '(' {
		return 0, 0, false
	}
	j := closeBracket + 2
	for j < len(chars) && chars[j] != ')' {
		j++
	}
	if j >= len(chars) {
		return 0, 0, false
	}
	return closeBracket, j, true
}

// WikiLinkSpan mirrors the package-level helper used by pkg/wiki so
// content consumers that only have an Item (no Resolver) can still
// extract raw wikilink spans without validity information.
type WikiLinkSpan struct {
	Target      string
	Heading     string
	DisplayText string
	Start       int
	End         int
}

// WikiLinkSpans extracts "[[target#heading|display]]" spans from item's
// rendered text without resolving validity (callers needing IsValid
// should use pkg/wiki.Resolver.ExtractLinks against the same text).
func WikiLinkSpans(item Item) []WikiLinkSpan {
	text := itemText(item)
	if text == "" {
		return nil
	}
	var spans []WikiLinkSpan
	searchStart := 0

	for searchStart < len(text) {
		remaining := text[searchStart:]

		if backtickPos := strings.IndexByte(remaining, '`'); backtickPos >= 0 {
			wikiPos := strings.Index(remaining, "[[")
			if wikiPos < 0 || backtickPos < wikiPos {
				absBacktick := searchStart + backtickPos
				afterBacktick := text[absBacktick+1:]
				if closeBacktick := strings.IndexByte(afterBacktick, '`'); closeBacktick >= 0 {
					searchStart = absBacktick + 1 + closeBacktick + 1
					continue
				}
				break
			}
		}

		startPos := strings.Index(remaining, "[[")
		if startPos < 0 {
			break
		}
		absStart := searchStart + startPos
		afterBrackets := text[absStart+2:]

		endPos := strings.Index(afterBrackets, "]]")
		if endPos < 0 {
			break
		}

		rawContent := afterBrackets[:endPos]
		if rawContent != "" && !strings.ContainsAny(rawContent, "[]") {
			content := rawContent
			var displayText string
			if pipePos := strings.IndexByte(rawContent, '|'); pipePos >= 0 {
				content = rawContent[:pipePos]
				displayText = rawContent[pipePos+1:]
			}
			target := content
			var heading string
			if hashPos := strings.IndexByte(content, '#'); hashPos >= 0 {
				target = content[:hashPos]
				heading = content[hashPos+1:]
			}
			renderedStart := len([]rune(text[:absStart]))
			displayLen := len([]rune(rawContent))
			if displayText != "" {
				displayLen = len([]rune(displayText))
			}
			spans = append(spans, WikiLinkSpan{
				Target: target, Heading: heading, DisplayText: displayText,
				Start: renderedStart, End: renderedStart + displayLen,
			})
		}

		searchStart = absStart + 2 + endPos + 2
	}

	return spans
}
