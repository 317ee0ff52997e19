// Package sanitizer reduces user supplied HTML to a fixed allow-list.
package sanitizer

import (
	"github.com/microcosm-cc/bluemonday"
)

// baseTags is the baseline safe tag set. img is added on top of it.
var baseTags = []string{
	"address", "article", "aside", "footer", "header",
	"h1", "h2", "h3", "h4", "h5", "h6", "hgroup", "main", "nav", "section",
	"blockquote", "dd", "div", "dl", "dt", "figcaption", "figure", "hr", "li", "ol", "p", "pre", "ul",
	"a", "abbr", "b", "bdi", "bdo", "br", "cite", "code", "data", "dfn", "em", "i", "kbd", "mark",
	"q", "rb", "rp", "rt", "rtc", "ruby", "s", "samp", "small", "span", "strong", "sub", "sup",
	"time", "u", "var", "wbr",
	"caption", "col", "colgroup", "table", "tbody", "td", "tfoot", "th", "thead", "tr",
}

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(baseTags...)
	p.AllowElements("img")

	p.AllowAttrs("href", "name", "target").OnElements("a")
	p.AllowAttrs("src", "alt").OnElements("img")

	p.AllowURLSchemes("http", "https", "ftp", "mailto", "tel")
	p.AllowRelativeURLs(true)
	return p
}

// Sanitize returns raw restricted to the allowed tags and attributes.
// Sanitizing already sanitized text returns it unchanged.
func Sanitize(raw string) string {
	return policy.Sanitize(raw)
}
