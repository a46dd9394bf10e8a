package queue_test

import (
	"context"
	"errors"
	"testing"

	"crd/internal/queue"
	"crd/internal/testsupport"
)

func newCRJob(title string) queue.NewJobParams {
	return queue.NewJobParams{
		Media: queue.Media{
			Service: queue.ServiceCrunchyroll,
			CR:      &queue.CREpisode{ID: "GTEST0001", Title: title, SeriesTitle: "Serie", Season: 1, Episode: "1"},
		},
		Dubs:         []queue.Locale{{Locale: "ja-JP"}},
		Subs:         []queue.Locale{{Locale: "de-DE"}},
		Quality:      1080,
		AudioQuality: 2,
		Dir:          "Serie/S1E1",
		Format:       "mkv",
	}
}

func TestNewJobStartsWaiting(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item, err := store.NewJob(ctx, newCRJob("Pilot"))
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if item.Status != queue.StatusWaiting {
		t.Errorf("status = %q, want waiting", item.Status)
	}
	if item.ID == 0 {
		t.Error("expected non-zero id")
	}
	if item.Media.CR == nil || item.Media.CR.Title != "Pilot" {
		t.Errorf("media round trip failed: %+v", item.Media)
	}
	if len(item.Subs) != 1 || item.Subs[0].Locale != "de-DE" {
		t.Errorf("subs = %+v", item.Subs)
	}
	if item.CreatedAt.IsZero() || item.UpdatedAt.IsZero() {
		t.Error("timestamps not set")
	}
}

func TestListReverseCreationOrder(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	first, err := store.NewJob(ctx, newCRJob("first"))
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	second, err := store.NewJob(ctx, newCRJob("second"))
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}

	items, err := store.List(ctx)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d items, want 2", len(items))
	}
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Errorf("order = [%d, %d], want [%d, %d]", items[0].ID, items[1].ID, second.ID, first.ID)
	}
}

func TestSetStatusEnforcesLifecycle(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item, err := store.NewJob(ctx, newCRJob("lifecycle"))
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}

	if err := store.SetStatus(ctx, item.ID, queue.StatusDownloading); err == nil {
		t.Error("waiting -> downloading should be rejected")
	}

	for _, next := range []queue.Status{
		queue.StatusPreparing,
		queue.StatusWaitingPlaylist,
		queue.StatusDownloading,
		queue.StatusDownloadingVideo,
		queue.StatusMergingVideoAudio,
		queue.StatusCompleted,
	} {
		if err := store.SetStatus(ctx, item.ID, next); err != nil {
			t.Fatalf("SetStatus(%q): %v", next, err)
		}
	}

	if err := store.SetStatus(ctx, item.ID, queue.StatusWaiting); err == nil {
		t.Error("completed is terminal; no transition out should be allowed")
	}
}

func TestSetFailedRecordsReasonAndRetryClearsIt(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	item, err := store.NewJob(ctx, newCRJob("doomed"))
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}

	if err := store.SetFailed(ctx, item.ID, "playlist request timed out"); err != nil {
		t.Fatalf("SetFailed: %v", err)
	}

	failed, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if failed.Status != queue.StatusFailed {
		t.Errorf("status = %q, want failed", failed.Status)
	}
	if failed.FailedReason != "playlist request timed out" {
		t.Errorf("failed reason = %q", failed.FailedReason)
	}

	retried, err := store.RetryFailed(ctx)
	if err != nil {
		t.Fatalf("RetryFailed: %v", err)
	}
	if retried != 1 {
		t.Errorf("retried = %d, want 1", retried)
	}

	waiting, err := store.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if waiting.Status != queue.StatusWaiting {
		t.Errorf("status = %q, want waiting", waiting.Status)
	}
	if waiting.FailedReason != "" {
		t.Errorf("failed reason should be cleared, got %q", waiting.FailedReason)
	}
}

func TestRetryFailedSelectedIDs(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a, _ := store.NewJob(ctx, newCRJob("a"))
	b, _ := store.NewJob(ctx, newCRJob("b"))
	if err := store.SetFailed(ctx, a.ID, "boom"); err != nil {
		t.Fatalf("SetFailed: %v", err)
	}
	if err := store.SetFailed(ctx, b.ID, "boom"); err != nil {
		t.Fatalf("SetFailed: %v", err)
	}

	retried, err := store.RetryFailed(ctx, a.ID)
	if err != nil {
		t.Fatalf("RetryFailed: %v", err)
	}
	if retried != 1 {
		t.Errorf("retried = %d, want 1", retried)
	}

	stillFailed, _ := store.GetByID(ctx, b.ID)
	if stillFailed.Status != queue.StatusFailed {
		t.Errorf("job b status = %q, want failed", stillFailed.Status)
	}
}

func TestItemsByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a, _ := store.NewJob(ctx, newCRJob("a"))
	if _, err := store.NewJob(ctx, newCRJob("b")); err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if err := store.SetStatus(ctx, a.ID, queue.StatusPreparing); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}

	waiting, err := store.ItemsByStatus(ctx, queue.StatusWaiting)
	if err != nil {
		t.Fatalf("ItemsByStatus: %v", err)
	}
	if len(waiting) != 1 {
		t.Fatalf("waiting = %d items, want 1", len(waiting))
	}
}

func TestRemoveAndClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a, _ := store.NewJob(ctx, newCRJob("a"))
	b, _ := store.NewJob(ctx, newCRJob("b"))

	removed, err := store.Remove(ctx, a.ID)
	if err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !removed {
		t.Error("Remove reported no row deleted")
	}
	if removed, _ := store.Remove(ctx, a.ID); removed {
		t.Error("second Remove should report nothing deleted")
	}

	if err := store.SetFailed(ctx, b.ID, "x"); err != nil {
		t.Fatalf("SetFailed: %v", err)
	}
	cleared, err := store.ClearFailed(ctx)
	if err != nil {
		t.Fatalf("ClearFailed: %v", err)
	}
	if cleared != 1 {
		t.Errorf("cleared = %d, want 1", cleared)
	}

	items, _ := store.List(ctx)
	if len(items) != 0 {
		t.Errorf("queue should be empty, has %d items", len(items))
	}
}

func TestOpenRefusesSecondInstance(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.MustOpenStore(t, cfg)

	second, err := queue.Open(cfg)
	if err == nil {
		second.Close()
		t.Fatal("second Open should fail while the lock is held")
	}
	if !errors.Is(err, queue.ErrLocked) {
		t.Errorf("err = %v, want ErrLocked", err)
	}
}

func TestGetByIDMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	item, err := store.GetByID(context.Background(), 9999)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if item != nil {
		t.Errorf("expected nil item, got %+v", item)
	}
}

func TestHardsubPersists(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	params := newCRJob("hardsub")
	params.Hardsub = &queue.Hardsub{Name: "Deutsch", Locale: "de-DE", Format: "mp4"}
	item, err := store.NewJob(ctx, params)
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if item.Hardsub == nil || item.Hardsub.Locale != "de-DE" {
		t.Errorf("hardsub = %+v", item.Hardsub)
	}

	plain, err := store.NewJob(ctx, newCRJob("plain"))
	if err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if plain.Hardsub != nil {
		t.Errorf("expected nil hardsub, got %+v", plain.Hardsub)
	}
}

func TestStats(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	a, _ := store.NewJob(ctx, newCRJob("a"))
	if _, err := store.NewJob(ctx, newCRJob("b")); err != nil {
		t.Fatalf("NewJob: %v", err)
	}
	if err := store.SetFailed(ctx, a.ID, "x"); err != nil {
		t.Fatalf("SetFailed: %v", err)
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats[queue.StatusWaiting] != 1 || stats[queue.StatusFailed] != 1 {
		t.Errorf("stats = %+v", stats)
	}
}
