// Package htmldoc wraps a parsed HTML tree with the small query surface the
// infobox extractor needs.
package htmldoc

import (
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// Document is a read-only, queryable HTML document
type Document interface {
	// FindAllWithClass returns every element with the given tag whose class
	// attribute contains class, in document order
	FindAllWithClass(tag, class string) []Element
}

// Element is a read-only view of one element
type Element interface {
	// FindAll returns every descendant element with the given tag, in document order
	FindAll(tag string) []Element

	// Text returns the visible text of the element, trimmed
	Text() string
}

// Page is a Document backed by goquery
type Page struct {
	doc *goquery.Document
}

// Parse parses HTML from r. Malformed markup is repaired by the HTML5 parser
// rather than rejected.
func Parse(r io.Reader) (*Page, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return FromNode(root), nil
}

// ParseString parses an HTML string
func ParseString(htmlContent string) (*Page, error) {
	return Parse(strings.NewReader(htmlContent))
}

// FromNode wraps an already parsed node tree
func FromNode(root *html.Node) *Page {
	return &Page{doc: goquery.NewDocumentFromNode(root)}
}

// FindAllWithClass implements Document
func (p *Page) FindAllWithClass(tag, class string) []Element {
	matches := p.doc.Find(tag).FilterFunction(func(_ int, s *goquery.Selection) bool {
		return s.HasClass(class)
	})
	return wrap(matches)
}

// Title returns the text of the page's <title> element
func (p *Page) Title() string {
	return strings.TrimSpace(p.doc.Find("title").First().Text())
}

// element is an Element backed by a single-node goquery selection
type element struct {
	sel *goquery.Selection
}

// FindAll implements Element
func (e *element) FindAll(tag string) []Element {
	return wrap(e.sel.Find(tag))
}

// Text implements Element
func (e *element) Text() string {
	var buf strings.Builder
	for _, n := range e.sel.Nodes {
		writeVisibleText(&buf, n)
	}
	return strings.TrimSpace(buf.String())
}

func wrap(sel *goquery.Selection) []Element {
	elements := make([]Element, 0, sel.Length())
	sel.Each(func(_ int, s *goquery.Selection) {
		elements = append(elements, &element{sel: s})
	})
	return elements
}

// writeVisibleText writes text nodes under n in document order, skipping
// subtrees that browsers never render as text
func writeVisibleText(buf *strings.Builder, n *html.Node) {
	if n.Type == html.ElementNode {
		switch n.Data {
		case "script", "style", "noscript":
			return
		}
	}

	if n.Type == html.TextNode {
		buf.WriteString(n.Data)
		return
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeVisibleText(buf, c)
	}
}
