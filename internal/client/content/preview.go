package content

import (
	"html"
	"regexp"
	"strings"
)

var boldRe = regexp.MustCompile(`\*\*(.+?)\*\*`)

const bulletPrefix = "- "

// RenderPreview turns authored text into display markup. Only three things
// are recognised: **bold** spans, lines starting with "- " (grouped into a
// list) and line breaks. Everything else, including any markup in the input,
// is escaped and shown literally.
func RenderPreview(raw string) string {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	lines := strings.Split(raw, "\n")

	var b strings.Builder
	inList := false
	prevText := false
	for _, line := range lines {
		if item, ok := strings.CutPrefix(line, bulletPrefix); ok {
			if !inList {
				b.WriteString("<ul>")
				inList = true
			}
			b.WriteString("<li>")
			b.WriteString(inline(item))
			b.WriteString("</li>")
			prevText = false
			continue
		}

		if inList {
			b.WriteString("</ul>\n")
			inList = false
		}
		if prevText {
			b.WriteString("<br>\n")
		}
		b.WriteString(inline(line))
		prevText = true
	}
	if inList {
		b.WriteString("</ul>")
	}
	return b.String()
}

func inline(s string) string {
	return boldRe.ReplaceAllString(html.EscapeString(s), "<strong>$1</strong>")
}
