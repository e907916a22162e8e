package product

import (
	"errors"
	"testing"
)

func TestFilterTokenMapping(t *testing.T) {
	expected := map[Stars]string{
		1: "addOneStar",
		2: "addTwoStar",
		3: "addThreeStar",
		4: "addFourStar",
		5: "addFiveStar",
	}
	for stars, want := range expected {
		got, ok := stars.FilterToken()
		if !ok || got != want {
			t.Errorf("Stars(%d).FilterToken() = %q, %v; want %q", stars, got, ok, want)
		}
	}
	if _, ok := AllStars.FilterToken(); ok {
		t.Errorf("AllStars should not carry a filter token")
	}
}

func TestParseStars(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Stars
		wantErr  bool
	}{
		{name: "empty", input: "", expected: AllStars},
		{name: "all", input: "all", expected: AllStars},
		{name: "digit", input: "3", expected: 3},
		{name: "word", input: "Five", expected: 5},
		{name: "padded", input: " 1 ", expected: 1},
		{name: "zero", input: "0", wantErr: true},
		{name: "too high", input: "6", wantErr: true},
		{name: "negative", input: "-2", wantErr: true},
		{name: "garbage", input: "many", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseStars(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStars(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.expected {
				t.Fatalf("ParseStars(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestParseStarsOutOfRangeIsInvalidFilter(t *testing.T) {
	_, err := ParseStars("7")
	var invalid InvalidFilterError
	if !errors.As(err, &invalid) || invalid.Stars != 7 {
		t.Fatalf("expected InvalidFilterError{7}, got %v", err)
	}
}

func TestStarsString(t *testing.T) {
	if got := AllStars.String(); got != "all" {
		t.Fatalf("AllStars.String() = %q", got)
	}
	if got := Stars(4).String(); got != "4" {
		t.Fatalf("Stars(4).String() = %q", got)
	}
}
