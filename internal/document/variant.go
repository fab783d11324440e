// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package document

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/pdiddy/secedgartext/pkg/types"
)

// Variant supplies the format-specific behavior of a Document: how the
// raw body is normalized before searching, and which pattern dialect of
// the search terms applies to the normalized text.
type Variant interface {
	// Name is the extraction method recorded in metadata.
	Name() string

	// SearchTermsType is the key selecting this variant's candidate
	// pairs in types.SectionTerms.
	SearchTermsType() string

	// PrepareText normalizes the raw body for searching.
	PrepareText(raw string) (string, error)
}

// VariantFor picks the variant for a filing. MethodAuto decides by file
// extension: .htm and .html are HTML, anything else is plain text.
func VariantFor(method types.ExtractionMethod, path string) (Variant, error) {
	switch method {
	case types.MethodText:
		return TextVariant{}, nil
	case types.MethodHTML:
		return HTMLVariant{}, nil
	case types.MethodAuto, "":
		switch strings.ToLower(filepath.Ext(path)) {
		case ".htm", ".html", ".xhtml":
			return HTMLVariant{}, nil
		}
		return TextVariant{}, nil
	default:
		return nil, fmt.Errorf("unsupported extraction method %q: use auto, txt, or html", method)
	}
}

var (
	sgmlTableRe    = regexp.MustCompile(`(?is)<TABLE>.*?</TABLE>`)
	sgmlPageRe     = regexp.MustCompile(`(?im)^[ \t]*<PAGE>[ \t]*\d*[ \t]*$`)
	hyphenBreakRe  = regexp.MustCompile(`([a-z])-\n[ \t]*([a-z])`)
	spaceRunRe     = regexp.MustCompile(`[ \t\f\v]+`)
	trailingSpRe   = regexp.MustCompile(`(?m)[ \t]+$`)
	blankLineRunRe = regexp.MustCompile(`\n[ \t]*\n(?:[ \t]*\n)+`)
)

// TextVariant handles plain-text (SGML) filing bodies.
type TextVariant struct{}

func (TextVariant) Name() string            { return string(types.MethodText) }
func (TextVariant) SearchTermsType() string { return string(types.MethodText) }

// PrepareText replaces SGML <TABLE> blocks with the table placeholder,
// drops <PAGE> markers, joins words hyphenated across line breaks, and
// collapses runs of spaces.
func (TextVariant) PrepareText(raw string) (string, error) {
	text := normalizeNewlines(raw)
	text = sgmlTableRe.ReplaceAllString(text, "\n"+TableRemovedPlaceholder+"\n")
	text = sgmlPageRe.ReplaceAllString(text, "")
	return normalizeSpace(text), nil
}

// HTMLVariant handles HTML filing bodies. Markup is rendered to text with
// block elements on their own lines so that item headings start a line,
// and numeric data tables are replaced by the table placeholder.
type HTMLVariant struct{}

func (HTMLVariant) Name() string            { return string(types.MethodHTML) }
func (HTMLVariant) SearchTermsType() string { return string(types.MethodHTML) }

var blockElements = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Tr: true, atom.Li: true, atom.Table: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Center: true, atom.Pre: true, atom.Blockquote: true, atom.Section: true,
}

func (HTMLVariant) PrepareText(raw string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("parsing HTML: %w", err)
	}

	doc.Find("script, style, head, noscript").Remove()
	// Inline XBRL headers carry hidden facts that are not narrative text.
	doc.Find("ix\\:header").Remove()

	doc.Find("table").Each(func(_ int, s *goquery.Selection) {
		if isDataTable(s.Text()) {
			s.ReplaceWithNodes(placeholderNode())
		}
	})

	var b strings.Builder
	for _, n := range doc.Nodes {
		renderText(&b, n)
	}
	return normalizeSpace(normalizeNewlines(b.String())), nil
}

func placeholderNode() *html.Node {
	p := &html.Node{Type: html.ElementNode, Data: "p", DataAtom: atom.P}
	p.AppendChild(&html.Node{Type: html.TextNode, Data: TableRemovedPlaceholder})
	return p
}

// renderText writes the text under n, putting block elements on their own
// lines and separating table cells with a space.
func renderText(b *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		b.WriteString(n.Data)
		return
	case html.ElementNode:
		if n.DataAtom == atom.Br {
			b.WriteByte('\n')
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		b.WriteByte('\n')
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		renderText(b, c)
	}
	switch {
	case block:
		b.WriteByte('\n')
	case n.DataAtom == atom.Td || n.DataAtom == atom.Th:
		b.WriteByte(' ')
	}
}

// isDataTable reports whether a table's text is predominantly figures.
// Layout tables that only position headings or prose are kept.
func isDataTable(text string) bool {
	var letters, digits int
	for _, r := range text {
		switch {
		case unicode.IsDigit(r):
			digits++
		case unicode.IsLetter(r):
			letters++
		}
	}
	if digits == 0 {
		return false
	}
	return float64(digits)/float64(letters+digits) > 0.15
}

func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

func normalizeSpace(s string) string {
	s = strings.NewReplacer("\u00a0", " ", "\u2009", " ", "\u200b", "").Replace(s)
	s = hyphenBreakRe.ReplaceAllString(s, "$1$2")
	s = spaceRunRe.ReplaceAllString(s, " ")
	s = trailingSpRe.ReplaceAllString(s, "")
	return blankLineRunRe.ReplaceAllString(s, "\n\n")
}
