package textutil_test

import (
	"testing"

	"crd/internal/textutil"
)

func TestSanitizeFileName(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Serie - Folge 1", "Serie - Folge 1"},
		{"Re:Zero", "Re-Zero"},
		{"A/B\\C", "A-B-C"},
		{`What? "Quotes" <here>|`, "What Quotes here"},
		{"  padded  ", "padded"},
		{"", "episode"},
		{"???", "episode"},
	}

	for _, tc := range cases {
		if got := textutil.SanitizeFileName(tc.input); got != tc.want {
			t.Errorf("SanitizeFileName(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}
