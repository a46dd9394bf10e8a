package queue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a download job.
type Status string

const (
	StatusWaiting            Status = "waiting"
	StatusPreparing          Status = "preparing"
	StatusWaitingPlaylist    Status = "waiting for playlist"
	StatusWaitingSubPlaylist Status = "waiting for sub playlist"
	StatusWaitingDubPlaylist Status = "waiting for dub playlist"
	StatusDownloading        Status = "downloading"
	StatusDownloadingVideo   Status = "downloading video"
	StatusMergingVideo       Status = "merging video"
	StatusDecryptingVideo    Status = "decrypting video"
	StatusAwaitingDubs       Status = "awaiting all dubs downloaded"
	StatusMergingVideoAudio  Status = "merging video & audio"
	StatusCompleted          Status = "completed"
	StatusFailed             Status = "failed"
)

var allStatuses = []Status{
	StatusWaiting,
	StatusPreparing,
	StatusWaitingPlaylist,
	StatusWaitingSubPlaylist,
	StatusWaitingDubPlaylist,
	StatusDownloading,
	StatusDownloadingVideo,
	StatusMergingVideo,
	StatusDecryptingVideo,
	StatusAwaitingDubs,
	StatusMergingVideoAudio,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// transitions holds the forward edges of the lifecycle. failed is reachable
// from every non-terminal state and is handled in CanTransition directly.
var transitions = map[Status][]Status{
	StatusWaiting:   {StatusPreparing},
	StatusPreparing: {StatusWaitingPlaylist, StatusWaitingSubPlaylist, StatusWaitingDubPlaylist},

	StatusWaitingPlaylist:    {StatusDownloading},
	StatusWaitingSubPlaylist: {StatusDownloading},
	StatusWaitingDubPlaylist: {StatusDownloading},

	StatusDownloading:      {StatusDownloadingVideo},
	StatusDownloadingVideo: {StatusMergingVideo, StatusDecryptingVideo, StatusAwaitingDubs, StatusMergingVideoAudio},

	StatusMergingVideo:      {StatusCompleted, StatusMergingVideoAudio},
	StatusDecryptingVideo:   {StatusCompleted, StatusMergingVideoAudio},
	StatusAwaitingDubs:      {StatusCompleted, StatusMergingVideoAudio},
	StatusMergingVideoAudio: {StatusCompleted},
}

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status ends the lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another.
func CanTransition(from, to Status) bool {
	if from == to {
		return false
	}
	if to == StatusFailed {
		return !from.IsTerminal()
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Locale is one requested dub or sub language selection.
type Locale struct {
	Name   string `json:"name,omitempty"`
	Locale string `json:"locale"`
}

// Hardsub is an optional burned-in subtitle selection.
type Hardsub struct {
	Name   string `json:"name,omitempty"`
	Locale string `json:"locale"`
	Format string `json:"format"`
}

// Item represents a download job persisted in SQLite.
type Item struct {
	ID           int64
	Status       Status
	Media        Media
	Dubs         []Locale
	Subs         []Locale
	Hardsub      *Hardsub
	Quality      int
	AudioQuality int
	Dir          string
	InstallDir   string
	// FailedReason is set only while Status is failed.
	FailedReason string
	Format       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Service returns the source service the job's media belongs to.
func (i Item) Service() Service {
	return i.Media.Service
}
