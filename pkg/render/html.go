// Package render turns model output into HTML for the result panel.
package render

import (
	"html/template"
	"strings"

	"github.com/russross/blackfriday"
)

const (
	htmlFlags = blackfriday.HTML_SKIP_HTML |
		blackfriday.HTML_SKIP_STYLE |
		blackfriday.HTML_SAFELINK |
		blackfriday.HTML_NOFOLLOW_LINKS |
		blackfriday.HTML_NOREFERRER_LINKS |
		blackfriday.HTML_HREF_TARGET_BLANK

	extensions = blackfriday.EXTENSION_NO_INTRA_EMPHASIS |
		blackfriday.EXTENSION_TABLES |
		blackfriday.EXTENSION_FENCED_CODE |
		blackfriday.EXTENSION_AUTOLINK |
		blackfriday.EXTENSION_STRIKETHROUGH |
		blackfriday.EXTENSION_SPACE_HEADERS
)

// ToHTML renders markdown with raw HTML in the source dropped, so the result is safe to embed.
func ToHTML(markdown string) template.HTML {
	if strings.TrimSpace(markdown) == "" {
		return ""
	}

	renderer := blackfriday.HtmlRenderer(htmlFlags, "", "")
	out := blackfriday.Markdown([]byte(markdown), renderer, extensions)

	return template.HTML(out)
}
