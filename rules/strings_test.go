package rules

import (
	"testing"

	"fieldmerge/clock"
)

func TestLongestString(t *testing.T) {
	rule := LongestString()
	tests := []struct {
		name     string
		local    string
		remote   string
		expected string
	}{
		{"remote longer", "ab", "abcd", "abcd"},
		{"local longer", "abcd", "ab", "abcd"},
		{"tie keeps local", "abc", "xyz", "abc"},
		{"empty local loses", "", "x", "x"},
		{"both empty", "", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule.Merge(tt.local, tt.remote, clock.VectorClock{}, clock.VectorClock{}); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestShortestString(t *testing.T) {
	rule := ShortestString()
	tests := []struct {
		name     string
		local    string
		remote   string
		expected string
	}{
		{"remote shorter", "abcd", "ab", "ab"},
		{"local shorter", "ab", "abcd", "ab"},
		{"tie keeps local", "abc", "xyz", "abc"},
		{"empty remote wins", "x", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rule.Merge(tt.local, tt.remote, clock.VectorClock{}, clock.VectorClock{}); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestBoolean(t *testing.T) {
	or := Or()
	and := And()
	cases := []struct{ a, b bool }{{false, false}, {false, true}, {true, false}, {true, true}}
	for _, c := range cases {
		if got := or.Merge(c.a, c.b, nil, nil); got != (c.a || c.b) {
			t.Errorf("Or(%v,%v) expected %v, got %v", c.a, c.b, c.a || c.b, got)
		}
		if got := and.Merge(c.a, c.b, nil, nil); got != (c.a && c.b) {
			t.Errorf("And(%v,%v) expected %v, got %v", c.a, c.b, c.a && c.b, got)
		}
	}
}
