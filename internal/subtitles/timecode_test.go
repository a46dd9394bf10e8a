package subtitles_test

import (
	"testing"

	"crd/internal/subtitles"
)

func TestTimecode(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0.0, "00:00:00.00"},
		{3725.67, "01:02:05.67"},
		{1.5, "00:00:01.50"},
		{59.0, "00:00:59.00"},
		{61.25, "00:01:01.25"},
		{3599.99, "00:59:59.99"},
		{36000.0, "10:00:00.00"},
	}
	for _, tc := range cases {
		if got := subtitles.Timecode(tc.in); got != tc.want {
			t.Errorf("Timecode(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTimecodeCarriesCentisecondOverflow(t *testing.T) {
	// 59.999 rounds to 100 centiseconds; the carry must flow into the
	// minute component rather than emitting ".100".
	if got := subtitles.Timecode(59.999); got != "00:01:00.00" {
		t.Fatalf("Timecode(59.999) = %q, want 00:01:00.00", got)
	}
	if got := subtitles.Timecode(3599.999); got != "01:00:00.00" {
		t.Fatalf("Timecode(3599.999) = %q, want 01:00:00.00", got)
	}
}
