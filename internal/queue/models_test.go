package queue_test

import (
	"encoding/json"
	"testing"

	"crd/internal/queue"
)

func TestParseStatus(t *testing.T) {
	cases := []struct {
		input string
		want  queue.Status
		ok    bool
	}{
		{"waiting", queue.StatusWaiting, true},
		{"  Completed ", queue.StatusCompleted, true},
		{"merging video & audio", queue.StatusMergingVideoAudio, true},
		{"awaiting all dubs downloaded", queue.StatusAwaitingDubs, true},
		{"", "", false},
		{"paused", "", false},
	}

	for _, tc := range cases {
		got, ok := queue.ParseStatus(tc.input)
		if ok != tc.ok {
			t.Errorf("ParseStatus(%q) ok = %v, want %v", tc.input, ok, tc.ok)
			continue
		}
		if ok && got != tc.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCanTransitionLifecycle(t *testing.T) {
	allowed := [][2]queue.Status{
		{queue.StatusWaiting, queue.StatusPreparing},
		{queue.StatusPreparing, queue.StatusWaitingPlaylist},
		{queue.StatusWaitingSubPlaylist, queue.StatusDownloading},
		{queue.StatusDownloading, queue.StatusDownloadingVideo},
		{queue.StatusDownloadingVideo, queue.StatusAwaitingDubs},
		{queue.StatusMergingVideo, queue.StatusCompleted},
		{queue.StatusMergingVideoAudio, queue.StatusCompleted},
	}
	for _, pair := range allowed {
		if !queue.CanTransition(pair[0], pair[1]) {
			t.Errorf("CanTransition(%q, %q) = false, want true", pair[0], pair[1])
		}
	}

	denied := [][2]queue.Status{
		{queue.StatusWaiting, queue.StatusDownloading},
		{queue.StatusCompleted, queue.StatusWaiting},
		{queue.StatusDownloading, queue.StatusDownloading},
		{queue.StatusCompleted, queue.StatusFailed},
		{queue.StatusFailed, queue.StatusFailed},
	}
	for _, pair := range denied {
		if queue.CanTransition(pair[0], pair[1]) {
			t.Errorf("CanTransition(%q, %q) = true, want false", pair[0], pair[1])
		}
	}
}

func TestFailedReachableFromEveryNonTerminal(t *testing.T) {
	for _, status := range queue.AllStatuses() {
		want := !status.IsTerminal()
		if got := queue.CanTransition(status, queue.StatusFailed); got != want {
			t.Errorf("CanTransition(%q, failed) = %v, want %v", status, got, want)
		}
	}
}

func TestMediaRoundTrip(t *testing.T) {
	media := queue.Media{
		Service: queue.ServiceCrunchyroll,
		CR: &queue.CREpisode{
			ID:          "GRDKJZ81Y",
			Title:       "Der Pakt",
			SeriesTitle: "Beispielserie",
			Season:      2,
			Episode:     "5",
		},
	}

	data, err := json.Marshal(media)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded queue.Media
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.Service != queue.ServiceCrunchyroll {
		t.Fatalf("service = %q, want CR", decoded.Service)
	}
	if decoded.CR == nil || decoded.CR.ID != "GRDKJZ81Y" || decoded.CR.Season != 2 {
		t.Fatalf("CR payload mismatch: %+v", decoded.CR)
	}
	if decoded.ADN != nil {
		t.Fatal("ADN payload should be nil for a CR media")
	}
}

func TestMediaRejectsUnknownService(t *testing.T) {
	var media queue.Media
	err := json.Unmarshal([]byte(`{"service":"Netflix","data":{}}`), &media)
	if err == nil {
		t.Fatal("expected error for unknown service")
	}
}

func TestMediaValidate(t *testing.T) {
	bad := queue.Media{
		Service: queue.ServiceADN,
		CR:      &queue.CREpisode{ID: "x"},
		ADN:     &queue.ADNEpisode{ID: 1},
	}
	if err := bad.Validate(); err == nil {
		t.Fatal("expected error for mismatched tag and payload")
	}

	if _, err := json.Marshal(queue.Media{Service: queue.ServiceCrunchyroll}); err == nil {
		t.Fatal("expected marshal error for missing payload")
	}
}

func TestMediaTitle(t *testing.T) {
	media := queue.Media{
		Service: queue.ServiceADN,
		ADN:     &queue.ADNEpisode{ID: 23391, Title: "Folge 1", ShowTitle: "Testshow", Number: 1},
	}
	if got := media.Title(); got != "Testshow - Folge 1" {
		t.Errorf("Title() = %q", got)
	}
}
