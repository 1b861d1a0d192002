package urlutil

import "testing"

func TestClean(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"https://youtu.be/abc123?si=XyZ", "https://youtu.be/abc123"},
		{"https://www.youtube.com/watch?v=abc123&feature=share", "https://www.youtube.com/watch?v=abc123"},
		{"https://www.youtube.com/watch?v=abc123&t=42", "https://www.youtube.com/watch?t=42&v=abc123"},
		{"https://www.youtube.com/watch?v=abc123", "https://www.youtube.com/watch?v=abc123"},
	}
	for _, test := range tests {
		if got := Clean(test.in); got != test.expected {
			t.Errorf("Clean(%s) = %s, expected %s", test.in, got, test.expected)
		}
	}
}

func TestIsSupported(t *testing.T) {
	tests := []struct {
		in       string
		expected bool
	}{
		{"https://www.youtube.com/watch?v=abc", true},
		{"https://youtu.be/abc", true},
		{"https://vimeo.com/12345", false},
		{"not a link", false},
	}
	for _, test := range tests {
		if got := IsSupported(test.in); got != test.expected {
			t.Errorf("IsSupported(%s) = %v, expected %v", test.in, got, test.expected)
		}
	}
}
