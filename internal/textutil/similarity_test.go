package textutil

import (
	"strings"
	"testing"
)

func TestEditSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a    string
		b    string
		want float64
	}{
		{"identical", "hello world", "hello world", 1},
		{"both empty", "", "", 1},
		{"one empty", "", "abc", 0},
		{"completely different", "abc", "xyz", 0},
		{"one substitution", "abcd", "abce", 0.75},
		{"insertion", "abc", "abcd", 0.75},
		{"multibyte", "héllo", "hello", 0.8},
		{"diacritics count per rune", "Ünïcödé", "Unicode", 3.0 / 7},
		{"trailing punctuation", "hello world", "hello world!", 11.0 / 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EditSimilarity(tt.a, tt.b)
			if got != tt.want {
				t.Errorf("EditSimilarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestEditSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{
		{"hello world", "hello there world"},
		{"kitten", "sitting"},
		{"thank you for watching", "thanks for watching"},
	}
	for _, p := range pairs {
		ab := EditSimilarity(p[0], p[1])
		ba := EditSimilarity(p[1], p[0])
		if ab != ba {
			t.Errorf("EditSimilarity not symmetric for %q/%q: (%v, %v)", p[0], p[1], ab, ba)
		}
		if ab < 0 || ab > 1 {
			t.Errorf("EditSimilarity(%q, %q) = %v out of range", p[0], p[1], ab)
		}
	}
}

func TestEditSimilarityExactThresholdValue(t *testing.T) {
	// Ten runes with three substitutions score exactly 0.7.
	got := EditSimilarity("aaaaaaaaaa", "aaaaaaabbb")
	if got != 0.7 {
		t.Fatalf("EditSimilarity = %v, want exactly 0.7", got)
	}

	// One hundred runes with twenty-nine substitutions score 0.71.
	a := strings.Repeat("a", 100)
	b := strings.Repeat("a", 71) + strings.Repeat("b", 29)
	if got := EditSimilarity(a, b); got != 0.71 {
		t.Fatalf("EditSimilarity = %v, want 0.71", got)
	}
}
