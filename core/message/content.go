package message

import (
	"html"
	"regexp"
	"strings"
)

var (
	scriptStyleRe = regexp.MustCompile(`(?is)<(script|style)[^>]*>.*?</(script|style)>`)
	tagRe         = regexp.MustCompile(`<[^>]*>`)
	blockSplitRe  = regexp.MustCompile(`\n\s*\n`)
)

// StripTags removes script and style blocks, strips the remaining HTML tags
// and unescapes entities. Used for the plain-text body variant.
func StripTags(s string) string {
	s = scriptStyleRe.ReplaceAllString(s, "")
	s = tagRe.ReplaceAllString(s, "")
	return strings.TrimSpace(html.UnescapeString(s))
}

// AutoParagraph wraps double-newline separated blocks in paragraph tags and
// turns remaining single newlines into line breaks. Used for the HTML body
// variant.
func AutoParagraph(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	var b strings.Builder
	for _, block := range blockSplitRe.Split(s, -1) {
		block = strings.TrimSpace(block)
		if block == "" {
			continue
		}
		// Blocks that are already block-level markup are left alone.
		if strings.HasPrefix(block, "<") && strings.HasSuffix(block, ">") {
			b.WriteString(block)
			b.WriteString("\n")
			continue
		}
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(block, "\n", "<br />\n"))
		b.WriteString("</p>\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}
