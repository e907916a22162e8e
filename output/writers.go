// Package output renders crawled reviewer links as text, CSV, or JSON lines.
package output

import (
	"bufio"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/aluiziolira/go-scrape-reviewers/models"
)

// Writer defines the interface for reviewer output.
type Writer interface {
	Write(reviewers []*models.Reviewer) error
	Close() error
}

// NewWriter returns the writer for format ("text", "csv" or "json").
func NewWriter(format string, w io.Writer) (Writer, error) {
	switch format {
	case "text":
		return NewTextWriter(w), nil
	case "csv":
		return NewCSVWriter(w)
	case "json":
		return NewJSONWriter(w), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}
}

// TextWriter writes one profile URL per line.
type TextWriter struct {
	writer *bufio.Writer
	mu     sync.Mutex
}

// NewTextWriter wraps w in a buffered line writer.
func NewTextWriter(w io.Writer) *TextWriter {
	return &TextWriter{writer: bufio.NewWriter(w)}
}

// Write appends the profile URLs.
func (tw *TextWriter) Write(reviewers []*models.Reviewer) error {
	tw.mu.Lock()
	defer tw.mu.Unlock()

	for _, reviewer := range reviewers {
		if _, err := fmt.Fprintln(tw.writer, reviewer.ProfileURL); err != nil {
			return fmt.Errorf("write text record: %w", err)
		}
	}
	if err := tw.writer.Flush(); err != nil {
		return fmt.Errorf("flush text writer: %w", err)
	}
	return nil
}

// Close flushes pending output. The underlying writer is left open.
func (tw *TextWriter) Close() error {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	return tw.writer.Flush()
}

// CSVWriter writes records to CSV.
type CSVWriter struct {
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter initialises a CSV writer and writes the header row.
func NewCSVWriter(w io.Writer) (*CSVWriter, error) {
	writer := csv.NewWriter(w)
	header := []string{"profile_url", "page", "stars"}
	if err := writer.Write(header); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv header: %w", err)
	}
	return &CSVWriter{writer: writer}, nil
}

// Write appends reviewers to the CSV output.
func (cw *CSVWriter) Write(reviewers []*models.Reviewer) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	for _, reviewer := range reviewers {
		record := []string{
			reviewer.ProfileURL,
			strconv.Itoa(reviewer.Page),
			reviewer.Stars,
		}
		if err := cw.writer.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv records: %w", err)
	}
	return nil
}

// Close flushes the CSV writer.
func (cw *CSVWriter) Close() error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return fmt.Errorf("flush csv writer: %w", err)
	}
	return nil
}

// JSONWriter writes newline-delimited JSON records.
type JSONWriter struct {
	writer  *bufio.Writer
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter initialises the JSON writer.
func NewJSONWriter(w io.Writer) *JSONWriter {
	buffer := bufio.NewWriter(w)
	return &JSONWriter{
		writer:  buffer,
		encoder: json.NewEncoder(buffer),
	}
}

// Write appends reviewers in JSONL format.
func (jw *JSONWriter) Write(reviewers []*models.Reviewer) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	for _, reviewer := range reviewers {
		if err := jw.encoder.Encode(reviewer); err != nil {
			return fmt.Errorf("encode json record: %w", err)
		}
	}

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}

// Close flushes buffered output.
func (jw *JSONWriter) Close() error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	if err := jw.writer.Flush(); err != nil {
		return fmt.Errorf("flush json writer: %w", err)
	}
	return nil
}
