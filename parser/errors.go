package parser

import "fmt"

// ParseError indicates an expected element was missing or malformed in a
// fetched page.
type ParseError struct {
	Element string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Errorf("parse %s: %w", e.Element, e.Err).Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
