package parser

import (
	"errors"
	"testing"

	"github.com/aluiziolira/go-scrape-reviewers/parser/parsertest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageCount(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{name: "eleven pages", body: parsertest.Page(parsertest.PagingControl(11)), expected: 11},
		{name: "five pages", body: parsertest.Page(parsertest.PagingControl(5)), expected: 5},
		{
			name:     "nested paging links",
			body:     `<span class="paging"><b><a href="#">&lsaquo; Previous</a></b> | <span><a href="#"> 7 </a></span></span>`,
			expected: 7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Parse([]byte(tt.body))
			require.NoError(t, err)

			count, err := page.PageCount()
			require.NoError(t, err)
			assert.Equal(t, tt.expected, count)
		})
	}
}

func TestPageCountErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "no paging control", body: parsertest.Page(parsertest.ReviewTable(parsertest.ProfileURL))},
		{name: "single link", body: `<span class="paging"><a href="#">1</a></span>`},
		{name: "not a number", body: `<span class="paging"><a href="#">1</a><a href="#">Next</a></span>`},
		{name: "zero", body: `<span class="paging"><a href="#">1</a><a href="#">0</a></span>`},
		{name: "paging is not a span", body: `<div class="paging"><a href="#">1</a><a href="#">4</a></div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := Parse([]byte(tt.body))
			require.NoError(t, err)

			_, err = page.PageCount()
			var parseErr *ParseError
			assert.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
		})
	}
}

func TestReviewerLinks(t *testing.T) {
	body := parsertest.Page(parsertest.ReviewTable(parsertest.ProfileURL, parsertest.ProfileURL, parsertest.ProfileURL))
	page, err := Parse([]byte(body))
	require.NoError(t, err)

	links, err := page.ReviewerLinks()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://data-you-want", "http://data-you-want", "http://data-you-want"}, links)
}

func TestReviewerLinksDocumentOrder(t *testing.T) {
	body := parsertest.Page(parsertest.ReviewTable("/profile/a", "/profile/b", "/profile/a"))
	page, err := Parse([]byte(body))
	require.NoError(t, err)

	links, err := page.ReviewerLinks()
	require.NoError(t, err)
	assert.Equal(t, []string{"/profile/a", "/profile/b", "/profile/a"}, links)
}

func TestReviewerLinksExactText(t *testing.T) {
	body := `<table id="productReviews"><tr><td>
		<a href="/ok">See all my reviews</a>
		<a href="/case">see all my reviews</a>
		<a href="/space"> See all my reviews</a>
		<a href="/nested"><b>See all my reviews</b></a>
		<a href="/suffix">See all my reviews!</a>
	</td></tr></table>`
	page, err := Parse([]byte(body))
	require.NoError(t, err)

	links, err := page.ReviewerLinks()
	require.NoError(t, err)
	assert.Equal(t, []string{"/ok"}, links)
}

func TestReviewerLinksOutsideTableIgnored(t *testing.T) {
	body := parsertest.Page(
		`<a href="/outside">See all my reviews</a>`,
		parsertest.ReviewTable("/inside"),
	)
	page, err := Parse([]byte(body))
	require.NoError(t, err)

	links, err := page.ReviewerLinks()
	require.NoError(t, err)
	assert.Equal(t, []string{"/inside"}, links)
}

func TestReviewerLinksMissingTable(t *testing.T) {
	page, err := Parse([]byte(parsertest.Page(parsertest.PagingControl(3))))
	require.NoError(t, err)

	links, err := page.ReviewerLinks()
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestReviewerLinksMissingHref(t *testing.T) {
	body := `<table id="productReviews"><tr><td><a name="x">See all my reviews</a></td></tr></table>`
	page, err := Parse([]byte(body))
	require.NoError(t, err)

	_, err = page.ReviewerLinks()
	var parseErr *ParseError
	assert.True(t, errors.As(err, &parseErr), "expected ParseError, got %v", err)
}
