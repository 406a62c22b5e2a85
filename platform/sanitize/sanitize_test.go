package sanitize

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Tokyo Station", want: "Tokyo Station"},
		{in: "  Tokyo\n\tStation  ", want: "Tokyo Station"},
		{in: "<b>HQ</b>", want: "HQ"},
		{in: "&lt;script&gt;alert(1)&lt;/script&gt;Office", want: "alert(1)Office"},
		{in: "Smith &amp; Sons", want: "Smith & Sons"},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		if got := Label(tt.in); got != tt.want {
			t.Fatalf("Label(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestLabel_Truncates(t *testing.T) {
	got := Label(strings.Repeat("東", MaxLabelRunes+20))
	if n := utf8.RuneCountInString(got); n != MaxLabelRunes {
		t.Fatalf("expected %d runes, got %d", MaxLabelRunes, n)
	}
}
