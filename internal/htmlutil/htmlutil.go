// Package htmlutil extracts translatable text from HTML documents.
package htmlutil

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/happyhackingspace/werger/internal/textutil"
)

// Load parses HTML into a goquery document.
func Load(r io.Reader) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(r)
}

// LoadString parses an HTML string into a goquery document.
func LoadString(htmlStr string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(htmlStr))
}

// Title returns the document title, whitespace normalized.
func Title(doc *goquery.Document) string {
	return strings.TrimSpace(textutil.NormalizeWhitespaces(doc.Find("title").First().Text()))
}

// blockTags start a new output line; everything else flows inline.
var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"body": true, "br": true, "caption": true, "dd": true, "div": true,
	"dl": true, "dt": true, "fieldset": true, "figcaption": true,
	"figure": true, "footer": true, "form": true, "h1": true, "h2": true,
	"h3": true, "h4": true, "h5": true, "h6": true, "header": true,
	"hr": true, "li": true, "main": true, "nav": true, "ol": true,
	"p": true, "pre": true, "section": true, "table": true, "td": true,
	"th": true, "title": true, "tr": true, "ul": true,
}

// skipTags hold no translatable text.
var skipTags = map[string]bool{
	"iframe": true, "noscript": true, "script": true, "style": true,
	"template": true,
}

// ExtractLines returns a document's translatable text in reading order:
// one line per block element, inline markup joined, whitespace
// normalized and exact duplicates dropped.
func ExtractLines(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var lines []string
	var buf []string

	flush := func() {
		text := strings.TrimSpace(textutil.NormalizeWhitespaces(strings.Join(buf, "")))
		buf = buf[:0]
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		lines = append(lines, text)
	}

	var visit func(n *html.Node)
	visit = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf = append(buf, n.Data)
			return
		case html.ElementNode:
			if skipTags[n.Data] {
				return
			}
			if blockTags[n.Data] {
				flush()
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
		if n.Type == html.ElementNode && blockTags[n.Data] {
			flush()
		}
	}
	for _, root := range doc.Nodes {
		visit(root)
	}
	flush()
	return lines
}
