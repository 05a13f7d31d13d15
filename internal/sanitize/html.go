package sanitize

// Package sanitize reduces untrusted feed content to markup and URLs that are
// safe to hand to a renderer. Both entry points degrade to empty output on
// bad input; they never return an error.

import (
	"github.com/microcosm-cc/bluemonday"
)

// allowedTags is the exact tag allow-list for article content. Anything not
// listed here is stripped; script, style, iframe, object, embed, form, input
// and textarea never survive.
var allowedTags = []string{
	"p", "br", "b", "i", "em", "strong", "a", "ul", "ol", "li",
	"h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre", "code",
	"img", "figure", "figcaption", "hr", "span", "div", "table",
	"thead", "tbody", "tr", "th", "td", "caption", "sub", "sup",
}

// allowedAttrs is the attribute allow-list applied across all allowed tags.
// Event handlers (on*) are not listed and are therefore dropped.
var allowedAttrs = []string{
	"href", "src", "alt", "title", "width", "height", "class",
	"target", "rel", "loading",
}

var htmlPolicy = newHTMLPolicy()

func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements(allowedTags...)
	p.AllowAttrs(allowedAttrs...).Globally()
	// URI-bearing attributes must be http, https, mailto or relative;
	// javascript: and data: are removed with the attribute.
	p.AllowURLSchemes("http", "https", "mailto")
	p.AllowRelativeURLs(true)
	return p
}

// HTML returns raw reduced to the allow-listed tags and attributes. The
// operation is idempotent: sanitizing already-sanitized output yields the
// same output.
func HTML(raw string) string {
	if raw == "" {
		return ""
	}
	return htmlPolicy.Sanitize(raw)
}
