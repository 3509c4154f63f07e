
package parser

import (
	"bytes"
	"errors"
	"html"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html/charset"

	"fakenews-features/internal/dates"
	"fakenews-features/internal/models"
)

// ErrNoText is returned when a page has no readable body text.
var ErrNoText = errors.New("no article text found")

type Parser struct{}

func New() *Parser { return &Parser{} }

var whitespaceRe = regexp.MustCompile(`\s+`)

// Extract reads an HTML news page and returns it as an unlabelled Article:
// headline from og:title, the first h1 or <title>; body from the
// paragraphs inside <article> (or the whole page when there is none).
func (p *Parser) Extract(r io.Reader, contentType string) (models.Article, error) {
	doc, err := p.document(r, contentType)
	if err != nil {
		return models.Article{}, err
	}

	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("h1").First().Text())
	}
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	scope := doc.Find("article").First()
	if scope.Length() == 0 {
		scope = doc.Selection
	}
	var parts []string
	scope.Find("p").Each(func(i int, s *goquery.Selection) {
		t := strings.TrimSpace(s.Text())
		if t != "" {
			parts = append(parts, t)
		}
	})
	text := collapse(strings.Join(parts, " "))
	if text == "" {
		text = collapse(strings.TrimSpace(doc.Find(`meta[name="description"]`).AttrOr("content", "")))
	}
	if text == "" {
		return models.Article{}, ErrNoText
	}

	published := doc.Find(`meta[property="article:published_time"]`).AttrOr("content", "")
	if published == "" {
		published = doc.Find("time[datetime]").First().AttrOr("datetime", "")
	}

	return models.Article{
		Title:     collapse(title),
		Text:      text,
		Subject:   strings.TrimSpace(doc.Find(`meta[property="article:section"]`).AttrOr("content", "")),
		Published: dates.Parse(published),
	}, nil
}

// document decodes the body to UTF-8 and parses it with script and
// style elements removed.
func (p *Parser) document(r io.Reader, contentType string) (*goquery.Document, error) {
	buf := new(bytes.Buffer)
	if _, err := io.Copy(buf, r); err != nil {
		return nil, err
	}
	data := buf.Bytes()

	enc, _, _ := charset.DetermineEncoding(data, contentType)
	utf8data, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		// fallback: if already utf-8, continue
		if !utf8.Valid(data) {
			return nil, err
		}
		utf8data = data
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(utf8data))
	if err != nil {
		return nil, err
	}
	doc.Find("script,noscript,style").Each(func(i int, s *goquery.Selection) {
		s.Remove()
	})
	return doc, nil
}

// fragmentPolicy strips every tag, leaving a space where each one was
// so adjacent blocks do not run together.
var fragmentPolicy = func() *bluemonday.Policy {
	p := bluemonday.StrictPolicy()
	p.AddSpaceWhenStrippingTag(true)
	return p
}()

// PlainText strips markup from an HTML fragment such as a feed item body.
// Text without markup is returned with whitespace collapsed.
func PlainText(fragment string) string {
	if !strings.ContainsAny(fragment, "<&") {
		return collapse(fragment)
	}
	return collapse(html.UnescapeString(fragmentPolicy.Sanitize(fragment)))
}

func collapse(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
