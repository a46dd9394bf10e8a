package queue

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"

	"crd/internal/config"
)

// ErrLocked indicates another crd process holds the queue database.
var ErrLocked = errors.New("queue database is locked by another process")

// Store manages job persistence backed by SQLite. A lock file next to the
// database keeps a second process from mutating the same queue.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open initializes or connects to the queue database.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	lock := flock.New(filepath.Join(cfg.Paths.DataDir, "queue.lock"))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire queue lock: %w", err)
	}
	if !locked {
		return nil, ErrLocked
	}

	dbPath := filepath.Join(cfg.Paths.DataDir, "queue.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			_ = lock.Unlock()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath, lock: lock}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return store, nil
}

// Close closes the database connection and releases the queue lock.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	var err error
	if s.db != nil {
		err = s.db.Close()
	}
	if s.lock != nil {
		if unlockErr := s.lock.Unlock(); err == nil {
			err = unlockErr
		}
	}
	return err
}

// NewJobParams describes a job to enqueue.
type NewJobParams struct {
	Media        Media
	Dubs         []Locale
	Subs         []Locale
	Hardsub      *Hardsub
	Quality      int
	AudioQuality int
	Dir          string
	Format       string
}

// NewJob inserts a job in the waiting state and returns the stored item.
func (s *Store) NewJob(ctx context.Context, params NewJobParams) (*Item, error) {
	if err := params.Media.Validate(); err != nil {
		return nil, err
	}
	if params.Dir == "" {
		return nil, errors.New("job dir is required")
	}

	mediaJSON, err := json.Marshal(params.Media)
	if err != nil {
		return nil, fmt.Errorf("marshal media: %w", err)
	}
	dubJSON, err := marshalLocales(params.Dubs)
	if err != nil {
		return nil, err
	}
	subJSON, err := marshalLocales(params.Subs)
	if err != nil {
		return nil, err
	}
	var hardsubJSON any
	if params.Hardsub != nil {
		data, err := json.Marshal(params.Hardsub)
		if err != nil {
			return nil, fmt.Errorf("marshal hardsub: %w", err)
		}
		hardsubJSON = string(data)
	}

	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO playlist_items (
            status, service, media_json, dub_json, sub_json, hardsub_json,
            quality, audio_quality, dir, format, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		StatusWaiting,
		params.Media.Service,
		string(mediaJSON),
		dubJSON,
		subJSON,
		hardsubJSON,
		params.Quality,
		params.AudioQuality,
		params.Dir,
		params.Format,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a job by identifier. A missing job returns (nil, nil).
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM playlist_items WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return item, nil
}

// List returns all jobs, most recently created first.
func (s *Store) List(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM playlist_items ORDER BY id DESC`)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// ItemsByStatus returns jobs matching a status, oldest first.
func (s *Store) ItemsByStatus(ctx context.Context, status Status) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+itemColumns+` FROM playlist_items WHERE status = ? ORDER BY id`, status)
	if err != nil {
		return nil, fmt.Errorf("query by status: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// SetStatus advances a job to a new status, enforcing lifecycle rules.
// Moving to failed requires SetFailed so the reason is recorded.
func (s *Store) SetStatus(ctx context.Context, id int64, to Status) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("job %d not found", id)
	}
	if !CanTransition(item.Status, to) {
		return fmt.Errorf("job %d: transition %q -> %q not allowed", id, item.Status, to)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(
		ctx,
		`UPDATE playlist_items SET status = ?, failed_reason = NULL, updated_at = ? WHERE id = ?`,
		to, now, id,
	); err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	return nil
}

// SetFailed moves a job to failed with the given reason.
func (s *Store) SetFailed(ctx context.Context, id int64, reason string) error {
	item, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("job %d not found", id)
	}
	if !CanTransition(item.Status, StatusFailed) {
		return fmt.Errorf("job %d: transition %q -> %q not allowed", id, item.Status, StatusFailed)
	}

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(
		ctx,
		`UPDATE playlist_items SET status = ?, failed_reason = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, nullableString(reason), now, id,
	); err != nil {
		return fmt.Errorf("update failed status: %w", err)
	}
	return nil
}

// Update persists changes to a job's mutable request fields. Status moves
// must go through SetStatus/SetFailed.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("item is nil")
	}
	if err := item.Media.Validate(); err != nil {
		return err
	}

	mediaJSON, err := json.Marshal(item.Media)
	if err != nil {
		return fmt.Errorf("marshal media: %w", err)
	}
	dubJSON, err := marshalLocales(item.Dubs)
	if err != nil {
		return err
	}
	subJSON, err := marshalLocales(item.Subs)
	if err != nil {
		return err
	}
	var hardsubJSON any
	if item.Hardsub != nil {
		data, err := json.Marshal(item.Hardsub)
		if err != nil {
			return fmt.Errorf("marshal hardsub: %w", err)
		}
		hardsubJSON = string(data)
	}

	item.UpdatedAt = time.Now().UTC()
	_, err = s.db.ExecContext(
		ctx,
		`UPDATE playlist_items
         SET service = ?, media_json = ?, dub_json = ?, sub_json = ?, hardsub_json = ?,
             quality = ?, audio_quality = ?, dir = ?, install_dir = ?, format = ?, updated_at = ?
         WHERE id = ?`,
		item.Media.Service,
		string(mediaJSON),
		dubJSON,
		subJSON,
		hardsubJSON,
		item.Quality,
		item.AudioQuality,
		item.Dir,
		nullableString(item.InstallDir),
		item.Format,
		item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update job: %w", err)
	}
	return nil
}

// RetryFailed moves failed jobs back to waiting for reprocessing. With no
// ids, every failed job is retried.
func (s *Store) RetryFailed(ctx context.Context, ids ...int64) (int64, error) {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if len(ids) == 0 {
		res, err := s.db.ExecContext(
			ctx,
			`UPDATE playlist_items SET status = ?, failed_reason = NULL, updated_at = ? WHERE status = ?`,
			StatusWaiting, now, StatusFailed,
		)
		if err != nil {
			return 0, fmt.Errorf("retry failed jobs: %w", err)
		}
		return res.RowsAffected()
	}

	placeholders := makePlaceholders(len(ids))
	args := make([]any, 0, len(ids)+3)
	args = append(args, StatusWaiting, now, StatusFailed)
	for _, id := range ids {
		args = append(args, id)
	}
	query := `UPDATE playlist_items SET status = ?, failed_reason = NULL, updated_at = ?
        WHERE status = ? AND id IN (` + placeholders + `)`
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("retry selected jobs: %w", err)
	}
	return res.RowsAffected()
}

// Remove deletes a job by identifier.
func (s *Store) Remove(ctx context.Context, id int64) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlist_items WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete job: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Clear removes all jobs from the queue.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlist_items`)
	if err != nil {
		return 0, fmt.Errorf("clear queue: %w", err)
	}
	return res.RowsAffected()
}

// ClearCompleted removes only completed jobs.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlist_items WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed: %w", err)
	}
	return res.RowsAffected()
}

// ClearFailed removes only failed jobs.
func (s *Store) ClearFailed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM playlist_items WHERE status = ?`, StatusFailed)
	if err != nil {
		return 0, fmt.Errorf("clear failed: %w", err)
	}
	return res.RowsAffected()
}

// Stats returns a count of jobs grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM playlist_items GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("queue stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

const itemColumns = "id, status, service, media_json, dub_json, sub_json, hardsub_json, quality, audio_quality, dir, install_dir, failed_reason, format, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id           int64
		statusStr    string
		serviceStr   string
		mediaJSON    string
		dubJSON      string
		subJSON      string
		hardsubJSON  sql.NullString
		quality      sql.NullInt64
		audioQuality sql.NullInt64
		dir          string
		installDir   sql.NullString
		failedReason sql.NullString
		format       sql.NullString
		createdRaw   string
		updatedRaw   string
	)

	if err := scanner.Scan(
		&id,
		&statusStr,
		&serviceStr,
		&mediaJSON,
		&dubJSON,
		&subJSON,
		&hardsubJSON,
		&quality,
		&audioQuality,
		&dir,
		&installDir,
		&failedReason,
		&format,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:           id,
		Status:       Status(statusStr),
		Quality:      int(quality.Int64),
		AudioQuality: int(audioQuality.Int64),
		Dir:          dir,
		InstallDir:   installDir.String,
		FailedReason: failedReason.String,
		Format:       format.String,
	}

	if err := json.Unmarshal([]byte(mediaJSON), &item.Media); err != nil {
		return nil, fmt.Errorf("decode media for job %d: %w", id, err)
	}
	if item.Media.Service != Service(serviceStr) {
		return nil, fmt.Errorf("job %d: service column %q disagrees with media tag %q", id, serviceStr, item.Media.Service)
	}
	if err := json.Unmarshal([]byte(dubJSON), &item.Dubs); err != nil {
		return nil, fmt.Errorf("decode dubs for job %d: %w", id, err)
	}
	if err := json.Unmarshal([]byte(subJSON), &item.Subs); err != nil {
		return nil, fmt.Errorf("decode subs for job %d: %w", id, err)
	}
	if hardsubJSON.Valid && hardsubJSON.String != "" {
		var hardsub Hardsub
		if err := json.Unmarshal([]byte(hardsubJSON.String), &hardsub); err != nil {
			return nil, fmt.Errorf("decode hardsub for job %d: %w", id, err)
		}
		item.Hardsub = &hardsub
	}

	if created, err := time.Parse(time.RFC3339Nano, createdRaw); err == nil {
		item.CreatedAt = created
	}
	if updated, err := time.Parse(time.RFC3339Nano, updatedRaw); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func marshalLocales(locales []Locale) (string, error) {
	if locales == nil {
		locales = []Locale{}
	}
	data, err := json.Marshal(locales)
	if err != nil {
		return "", fmt.Errorf("marshal locales: %w", err)
	}
	return string(data), nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
