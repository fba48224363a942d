package pageinsight

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// Page holds the signals the rubric reads from one document.
type Page struct {
	Title          string
	HasTitle       bool
	Description    string
	HasDescription bool

	H1Count int
	H2Count int
	H3Count int
	FirstH1 string

	// Text is the visible text with script, style, noscript and template removed.
	Text      string
	WordCount int

	HasViewport  bool
	HasCanonical bool

	Images          int
	ImagesWithAlt   int
	Links           int
	ExternalScripts int

	JSONLDBlocks  int
	OpenGraphTags int
	TwitterTags   int

	// HTML is the decoded markup as received.
	HTML string
}

// TitleLength is the title length in characters.
func (p *Page) TitleLength() int {
	return utf8.RuneCountInString(p.Title)
}

// DescriptionLength is the meta description length in characters.
func (p *Page) DescriptionLength() int {
	return utf8.RuneCountInString(p.Description)
}

// Parse builds a Page from decoded HTML.
func Parse(body io.Reader) (*Page, error) {
	raw, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(raw)))
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	p := &Page{HTML: string(raw)}

	p.Title = strings.TrimSpace(doc.Find("title").First().Text())
	p.HasTitle = p.Title != ""

	if desc, ok := metaContent(doc, `meta[name="description"]`); ok {
		p.Description = desc
		p.HasDescription = true
	}

	h1 := doc.Find("h1")
	p.H1Count = h1.Length()
	p.FirstH1 = strings.TrimSpace(h1.First().Text())
	p.H2Count = doc.Find("h2").Length()
	p.H3Count = doc.Find("h3").Length()

	p.HasViewport = doc.Find(`meta[name="viewport"]`).Length() > 0
	p.HasCanonical = doc.Find(`link[rel~="canonical"]`).Length() > 0

	imgs := doc.Find("img")
	p.Images = imgs.Length()
	p.ImagesWithAlt = imgs.FilterFunction(func(_ int, s *goquery.Selection) bool {
		alt, _ := s.Attr("alt")
		return alt != ""
	}).Length()

	p.Links = doc.Find("a[href]").Length()
	p.ExternalScripts = doc.Find("script[src]").Length()
	p.JSONLDBlocks = doc.Find(`script[type="application/ld+json"]`).Length()
	p.OpenGraphTags = doc.Find(`meta[property^="og:"]`).Length()
	p.TwitterTags = doc.Find(`meta[name^="twitter:"]`).Length()

	// Remove last: the selectors above need script tags intact.
	doc.Find("script, style, noscript, template").Remove()
	p.Text = strings.Join(strings.Fields(doc.Text()), " ")
	p.WordCount = len(strings.Fields(p.Text))

	return p, nil
}

func metaContent(doc *goquery.Document, selector string) (string, bool) {
	content, ok := doc.Find(selector).First().Attr("content")
	if !ok {
		return "", false
	}
	content = strings.TrimSpace(content)
	return content, content != ""
}
