// Package parsertest builds review-listing HTML for tests.
package parsertest

import (
	"fmt"
	"strings"
)

// ProfileURL is the href given to every generated reviewer profile link.
const ProfileURL = "http://data-you-want"

// PagingControl renders a paging widget whose second link reads maxPage.
func PagingControl(maxPage int) string {
	var builder strings.Builder
	builder.WriteString(`<span class="paging">`)
	builder.WriteString(`<a href="/product-reviews/B002ZG981E?pageNumber=1">1</a> `)
	fmt.Fprintf(&builder, `<a href="/product-reviews/B002ZG981E?pageNumber=%d">%d</a> `, maxPage, maxPage)
	builder.WriteString(`<a href="/product-reviews/B002ZG981E?pageNumber=2">Next &rsaquo;</a>`)
	builder.WriteString(`</span>`)
	return builder.String()
}

// ReviewTable renders the review table with profile anchors pointing at the
// given hrefs, interleaved with anchors that must not be picked up.
func ReviewTable(hrefs ...string) string {
	var builder strings.Builder
	builder.WriteString(`<table id="productReviews"><tr><td>`)
	for i, href := range hrefs {
		builder.WriteString(`<div style="margin-left:0.5em;">`)
		fmt.Fprintf(&builder, `<a href="/review/R%d">Was this review helpful?</a>`, i)
		fmt.Fprintf(&builder, `<a href="%s">See all my reviews</a>`, href)
		builder.WriteString(`<a href="/gp/pdp/profile/x">See all my reviews </a>`)
		builder.WriteString(`</div>`)
	}
	builder.WriteString(`</td></tr></table>`)
	return builder.String()
}

// Page wraps fragments in a minimal HTML document.
func Page(fragments ...string) string {
	return "<html><body>" + strings.Join(fragments, "\n") + "</body></html>"
}

// ListingPage renders a full listing page with a paging control reading
// maxPage and perPage profile links to ProfileURL.
func ListingPage(maxPage, perPage int) string {
	hrefs := make([]string, perPage)
	for i := range hrefs {
		hrefs[i] = ProfileURL
	}
	return Page(PagingControl(maxPage), ReviewTable(hrefs...))
}
