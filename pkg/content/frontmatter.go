package content

import (
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Frontmatter holds the parsed YAML header of a note.
type Frontmatter struct {
	Title  string            `yaml:"title"`
	Tags   []string          `yaml:"tags"`
	Date   string            `yaml:"date"`
	Author string            `yaml:"author"`
	Extra  map[string]any    `yaml:",inline"`
}

// ParseFrontmatter looks for a leading "---" / "---" delimited YAML
// block and returns the parsed Frontmatter (nil if absent or invalid)
// along with the source line index where body content begins.
//
// When delimiters are found but the YAML between them fails to parse,
// Frontmatter is still nil but contentStartLine is still set to the
// line after the closing delimiter — content display must skip past
// the frontmatter block even if its fields couldn't be extracted.
func ParseFrontmatter(text string) (*Frontmatter, int) {
	lines := strings.Split(text, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return nil, 0
	}

	endIndex := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			endIndex = i
			break
		}
	}
	if endIndex == -1 {
		return nil, 0
	}

	yamlContent := strings.Join(lines[1:endIndex], "\n")
	contentStartLine := endIndex + 1

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(yamlContent), &raw); err != nil {
		return nil, contentStartLine
	}

	fm := &Frontmatter{Extra: map[string]any{}}
	for k, v := range raw {
		switch k {
		case "title":
			if s, ok := v.(string); ok {
				fm.Title = s
			}
		case "tags":
			fm.Tags = toStringSlice(v)
		case "date":
			fm.Date = toDateString(v)
		case "author":
			if s, ok := v.(string); ok {
				fm.Author = s
			}
		default:
			fm.Extra[k] = v
		}
	}
	return fm, contentStartLine
}

func toStringSlice(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

func toDateString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format("2006-01-02")
		}
		return t.Format(time.RFC3339)
	default:
		return ""
	}
}
