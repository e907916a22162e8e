package product

import (
	"fmt"
	"strconv"
	"strings"
)

// Stars is an optional star-rating filter. AllStars means the listing is not
// filtered by rating.
type Stars int

// AllStars disables rating filtering.
const AllStars Stars = 0

var filterTokens = map[Stars]string{
	1: "addOneStar",
	2: "addTwoStar",
	3: "addThreeStar",
	4: "addFourStar",
	5: "addFiveStar",
}

var starNames = map[string]Stars{
	"":      AllStars,
	"all":   AllStars,
	"one":   1,
	"two":   2,
	"three": 3,
	"four":  4,
	"five":  5,
}

// InvalidFilterError reports a star filter outside 1..5.
type InvalidFilterError struct {
	Stars int
}

func (e InvalidFilterError) Error() string {
	return fmt.Sprintf("invalid star filter %d: must be between 1 and 5", e.Stars)
}

// Validate reports whether s is AllStars or a rating in 1..5.
func (s Stars) Validate() error {
	if s == AllStars {
		return nil
	}
	if _, ok := filterTokens[s]; !ok {
		return InvalidFilterError{Stars: int(s)}
	}
	return nil
}

// FilterToken returns the listing filter token for s. It returns false for
// AllStars and for invalid ratings.
func (s Stars) FilterToken() (string, bool) {
	token, ok := filterTokens[s]
	return token, ok
}

func (s Stars) String() string {
	if s == AllStars {
		return "all"
	}
	return strconv.Itoa(int(s))
}

// ParseStars converts user input ("", "all", "1".."5", "one".."five") into a
// filter.
func ParseStars(text string) (Stars, error) {
	text = strings.TrimSpace(text)
	if stars, ok := starNames[strings.ToLower(text)]; ok {
		return stars, nil
	}

	n, err := strconv.Atoi(text)
	if err != nil {
		return AllStars, fmt.Errorf("parse star filter %q: %w", text, err)
	}
	stars := Stars(n)
	if stars == AllStars {
		return AllStars, InvalidFilterError{Stars: n}
	}
	if err := stars.Validate(); err != nil {
		return AllStars, err
	}
	return stars, nil
}
