// Package playlist assembles the user-facing queue view: persisted jobs
// joined with live download counters.
package playlist

import (
	"context"
	"fmt"

	"crd/internal/progress"
	"crd/internal/queue"
)

// Live carries the formatted download counters shown next to a job while it
// is downloading.
type Live struct {
	// PartsLeft is the registry's parts-to-download figure as reported by
	// the downloader, not a derived remainder.
	PartsLeft       int
	PartsDownloaded int
	// DownloadSpeed is rendered with two decimal places, in MB/s.
	DownloadSpeed string
}

// View is one row of the queue listing. Live is nil unless the job is in the
// downloading state and the registry has counters for it.
type View struct {
	Item *queue.Item
	Live *Live
}

// Lister is the slice of the queue store the view needs.
type Lister interface {
	List(ctx context.Context) ([]*queue.Item, error)
}

// Snapshot lists all jobs, most recently created first, augmenting
// downloading jobs with live counters from the registry.
func Snapshot(ctx context.Context, lister Lister, registry *progress.Registry) ([]View, error) {
	items, err := lister.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list queue: %w", err)
	}

	views := make([]View, 0, len(items))
	for _, item := range items {
		view := View{Item: item}
		if item.Status == queue.StatusDownloading && registry != nil {
			if snapshot, ok := registry.Get(item.ID); ok {
				view.Live = &Live{
					PartsLeft:       snapshot.PartsToDownload,
					PartsDownloaded: snapshot.DownloadedParts,
					DownloadSpeed:   fmt.Sprintf("%.2f", snapshot.DownloadSpeed),
				}
			}
		}
		views = append(views, view)
	}
	return views, nil
}
