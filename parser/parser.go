// Package parser reads review-listing pages: the paging control that tells
// how many pages a filter has, and the reviewer profile links in the review
// table.
package parser

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

const (
	pagingSelector      = "span.paging a"
	reviewTableSelector = "table#productReviews"

	// ProfileLinkText is the exact anchor text of a reviewer profile link.
	ProfileLinkText = "See all my reviews"
)

// Page is a parsed review-listing page.
type Page struct {
	doc *goquery.Document
}

// Parse builds a Page from a raw response body.
func Parse(body []byte) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, &ParseError{Element: "document", Err: err}
	}
	return &Page{doc: doc}, nil
}

// PageCount returns the highest page number offered by the paging control.
// The site lists it as the second link of the control; a page without the
// control is an error, not a single page.
func (p *Page) PageCount() (int, error) {
	links := p.doc.Find(pagingSelector)
	if links.Length() < 2 {
		return 0, &ParseError{
			Element: pagingSelector,
			Err:     fmt.Errorf("found %d paging links, need at least 2", links.Length()),
		}
	}

	text := strings.TrimSpace(links.Eq(1).Text())
	count, err := strconv.Atoi(text)
	if err != nil {
		return 0, &ParseError{Element: "page number", Err: err}
	}
	if count < 1 {
		return 0, &ParseError{Element: "page number", Err: fmt.Errorf("page count %d is not positive", count)}
	}
	return count, nil
}

// ReviewerLinks returns the href of every anchor in the review table whose
// only content is ProfileLinkText, in document order. A missing table yields
// no links.
func (p *Page) ReviewerLinks() ([]string, error) {
	links := []string{}
	var parseErr error

	p.doc.Find(reviewTableSelector).First().Find("a").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !isProfileAnchor(s) {
			return true
		}
		href, ok := s.Attr("href")
		if !ok {
			parseErr = &ParseError{Element: "reviewer link href", Err: fmt.Errorf("profile anchor has no href")}
			return false
		}
		links = append(links, href)
		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}
	return links, nil
}

// isProfileAnchor matches anchors holding exactly one text node equal to
// ProfileLinkText. Nested markup or surrounding whitespace does not match.
func isProfileAnchor(s *goquery.Selection) bool {
	if len(s.Nodes) == 0 {
		return false
	}
	child := s.Nodes[0].FirstChild
	if child == nil || child.NextSibling != nil {
		return false
	}
	return child.Type == html.TextNode && child.Data == ProfileLinkText
}
