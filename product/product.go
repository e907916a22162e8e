// Package product turns a retail product page URL into the review-listing
// URLs the crawler fetches.
package product

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	detailSegment  = "/dp/"
	reviewsSegment = "/product-reviews/"
	referralToken  = "ref=cm_cr_pr_top_link_1?"
)

var referralPattern = regexp.MustCompile(`ref=[^?]+\?`)

// Product is a product listing identified by its source URL. The reviews URL
// is derived once at construction and never changes.
type Product struct {
	sourceURL  string
	reviewsURL *url.URL
}

// NewProduct validates rawURL and derives its review-listing URL.
func NewProduct(rawURL string) (*Product, error) {
	if strings.TrimSpace(rawURL) == "" {
		return nil, fmt.Errorf("product url cannot be empty")
	}
	if _, err := url.Parse(rawURL); err != nil {
		return nil, fmt.Errorf("parse product url: %w", err)
	}

	reviews, err := url.Parse(DeriveReviewsURL(rawURL))
	if err != nil {
		return nil, fmt.Errorf("parse reviews url: %w", err)
	}

	return &Product{
		sourceURL:  rawURL,
		reviewsURL: reviews,
	}, nil
}

// SourceURL returns the product page URL the listing was built from.
func (p *Product) SourceURL() string {
	return p.sourceURL
}

// ReviewsURL returns the canonical review-listing URL.
func (p *Product) ReviewsURL() string {
	return p.reviewsURL.String()
}

// QueryURL builds the filtered, paginated review-listing URL. Pages below 1
// are treated as page 1.
func (p *Product) QueryURL(stars Stars, page int) (string, error) {
	return BuildQueryURL(p.reviewsURL, stars, page)
}

// DeriveReviewsURL rewrites a product detail URL into its review-listing URL.
// It is a pure text rewrite: every "/dp/" segment becomes "/product-reviews/"
// and a "ref=<token>?" referral run is replaced with a fixed token.
func DeriveReviewsURL(productURL string) string {
	rewritten := strings.ReplaceAll(productURL, detailSegment, reviewsSegment)
	return referralPattern.ReplaceAllLiteralString(rewritten, referralToken)
}

// BuildQueryURL keeps the scheme, host and path of reviewsURL and replaces the
// query with the listing parameters. The encoded query is sorted by key.
func BuildQueryURL(reviewsURL *url.URL, stars Stars, page int) (string, error) {
	if reviewsURL == nil {
		return "", fmt.Errorf("reviews url is nil")
	}
	if err := stars.Validate(); err != nil {
		return "", err
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("showViewPoints", "0")
	params.Set("pageNumber", strconv.Itoa(page))
	if token, ok := stars.FilterToken(); ok {
		params.Set("filterBy", token)
	}

	query := url.URL{
		Scheme:   reviewsURL.Scheme,
		Host:     reviewsURL.Host,
		Path:     reviewsURL.Path,
		RawPath:  reviewsURL.RawPath,
		RawQuery: params.Encode(),
	}
	return query.String(), nil
}
