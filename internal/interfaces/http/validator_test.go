package http

import "testing"

func TestValidSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"acme-bots-abc123def", true},
		{"a", true},
		{"", false},
		{"Acme-Bots", false},
		{"has space", false},
		{"semi;colon", false},
		{"under_score", false},
		{string(make([]byte, 70)), false},
	}

	for _, tt := range tests {
		if got := ValidSlug(tt.slug); got != tt.want {
			t.Errorf("ValidSlug(%q) = %v, want %v", tt.slug, got, tt.want)
		}
	}
}

func TestSanitizeString(t *testing.T) {
	if got := SanitizeString("hello\x00world"); got != "helloworld" {
		t.Errorf("null bytes not removed: %q", got)
	}
	if got := SanitizeString("  padded  "); got != "padded" {
		t.Errorf("whitespace not trimmed: %q", got)
	}
	if got := SanitizeString("olá çãé"); got != "olá çãé" {
		t.Errorf("valid UTF-8 mangled: %q", got)
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("abcdef", 3); got != "abc" {
		t.Errorf("TruncateString = %q", got)
	}
	if got := TruncateString("ab", 3); got != "ab" {
		t.Errorf("TruncateString should not pad: %q", got)
	}
}
