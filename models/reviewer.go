// Package models defines data structures for the reviewer crawler.
package models

import "time"

// PageBatch holds the reviewer profile links extracted from one listing page.
type PageBatch struct {
	Page  int
	Links []string
}

// Reviewer is one extracted profile link as written to output.
type Reviewer struct {
	ProfileURL string `csv:"profile_url" json:"profile_url"`
	Page       int    `csv:"page" json:"page"`
	Stars      string `csv:"stars" json:"stars"`
}

// CrawlResult holds the overall result of a crawl for one product and filter.
type CrawlResult struct {
	ID           string
	ProductURL   string
	ReviewsURL   string
	Stars        string
	PageCount    int
	Batches      []PageBatch
	StartTime    time.Time
	EndTime      time.Time
	RequestCount int
}

// Links concatenates the batches in page order.
func (r *CrawlResult) Links() []string {
	total := 0
	for _, batch := range r.Batches {
		total += len(batch.Links)
	}
	links := make([]string, 0, total)
	for _, batch := range r.Batches {
		links = append(links, batch.Links...)
	}
	return links
}

// Reviewers flattens the batches into output records, preserving order.
func (r *CrawlResult) Reviewers() []*Reviewer {
	var out []*Reviewer
	for _, batch := range r.Batches {
		for _, link := range batch.Links {
			out = append(out, &Reviewer{
				ProfileURL: link,
				Page:       batch.Page,
				Stars:      r.Stars,
			})
		}
	}
	return out
}
