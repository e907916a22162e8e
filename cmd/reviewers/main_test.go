package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aluiziolira/go-scrape-reviewers/models"
	"github.com/aluiziolira/go-scrape-reviewers/product"
)

func TestRootCmdRejectsInvalidStars(t *testing.T) {
	cmd, err := newRootCmd()
	if err != nil {
		t.Fatalf("new root cmd: %v", err)
	}
	cmd.SetArgs([]string{"http://www.amazon.com/inception/dp/ref=blah", "--stars", "9"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err = cmd.Execute()
	var invalid product.InvalidFilterError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFilterError, got %v", err)
	}
}

func TestRootCmdRejectsUnknownFormat(t *testing.T) {
	cmd, err := newRootCmd()
	if err != nil {
		t.Fatalf("new root cmd: %v", err)
	}
	cmd.SetArgs([]string{"http://www.amazon.com/inception/dp/ref=blah", "--format", "xml"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil || !strings.Contains(err.Error(), "output format") {
		t.Fatalf("expected output format error, got %v", err)
	}
}

func TestRootCmdRequiresURL(t *testing.T) {
	cmd, err := newRootCmd()
	if err != nil {
		t.Fatalf("new root cmd: %v", err)
	}
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	if err := cmd.Execute(); err == nil {
		t.Fatalf("expected missing argument error")
	}
}

func TestEnvDefaults(t *testing.T) {
	t.Setenv("REVIEWERS_PARALLEL", "3")
	t.Setenv("REVIEWERS_TIMEOUT", "2s")
	t.Setenv("REVIEWERS_FORMAT", "csv")

	cfg, err := envDefaults()
	if err != nil {
		t.Fatalf("env defaults: %v", err)
	}
	if cfg.Parallelism != 3 || cfg.Timeout != 2*time.Second || cfg.OutputFormat != "csv" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	t.Setenv("REVIEWERS_CACHE_SIZE", "lots")
	if _, err := envDefaults(); err == nil {
		t.Fatalf("expected error for invalid REVIEWERS_CACHE_SIZE")
	}
}

func TestPrintSummary(t *testing.T) {
	start := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	result := &models.CrawlResult{
		ID:           "crawl-1",
		ReviewsURL:   "http://www.amazon.com/inception/product-reviews/ref=blah",
		Stars:        "1",
		PageCount:    2,
		RequestCount: 3,
		Batches:      []models.PageBatch{{Page: 1, Links: []string{"/a", "/b"}}, {Page: 2, Links: []string{"/c"}}},
		StartTime:    start,
		EndTime:      start.Add(time.Second),
	}

	var buf bytes.Buffer
	printSummary(&buf, result)
	out := buf.String()
	for _, want := range []string{"Crawl ID:      crawl-1", "Pages:         2", "Reviewers:     3", "Duration:      1s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
}
