package board

import (
	"testing"
	"unicode/utf8"
)

func TestPad(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short padded", "Apex", 6, "Apex  "},
		{"exact kept", "Apex", 4, "Apex"},
		{"long cut", "Apex Plumbing Co", 8, "Apex Pl…"},
		{"multibyte cut", "££££££££", 5, "££££…"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := pad(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("pad(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("pad(%q, %d) produced invalid UTF-8", tt.in, tt.n)
			}
			if utf8.RuneCountInString(got) != tt.n {
				t.Errorf("pad(%q, %d) rune count = %d", tt.in, tt.n, utf8.RuneCountInString(got))
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short kept", "£75 today", 20, "£75 today"},
		{"long cut", "Available tomorrow, £85 call-out", 12, "Available t…"},
		{"multibyte cut", "€€€€€€", 4, "€€€…"},
		{"degenerate width", "anything", 1, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8", tt.in, tt.n)
			}
		})
	}
}
