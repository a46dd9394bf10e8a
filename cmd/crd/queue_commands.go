package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"crd/internal/playlist"
	"crd/internal/queue"
	"crd/internal/textutil"
)

func newQueueCommand(ctx *commandContext) *cobra.Command {
	queueCmd := &cobra.Command{
		Use:   "queue",
		Short: "Inspect and manage the download queue",
	}

	queueCmd.AddCommand(newQueueListCommand(ctx))
	queueCmd.AddCommand(newQueueStatusCommand(ctx))
	queueCmd.AddCommand(newQueueAddCommand(ctx))
	queueCmd.AddCommand(newQueueRemoveCommand(ctx))
	queueCmd.AddCommand(newQueueRetryCommand(ctx))
	queueCmd.AddCommand(newQueueClearCommand(ctx))

	return queueCmd
}

func newQueueListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List queued jobs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				// Live counters exist only inside a downloader process; a
				// one-shot CLI invocation has no registry to join.
				views, err := playlist.Snapshot(cmd.Context(), store, nil)
				if err != nil {
					return err
				}
				if len(views) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(views))
				for _, view := range views {
					rows = append(rows, queueListRow(view))
				}
				headers := []string{"ID", "Status", "Service", "Title", "Subs", "Quality", "Format", "Progress"}
				aligns := []columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignLeft, alignLeft}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(headers, rows, aligns))
				return nil
			})
		},
	}
}

func queueListRow(view playlist.View) []string {
	item := view.Item
	progressCell := ""
	switch {
	case view.Live != nil:
		progressCell = fmt.Sprintf("%d done, %d left @ %s MB/s",
			view.Live.PartsDownloaded, view.Live.PartsLeft, view.Live.DownloadSpeed)
	case item.Status == queue.StatusFailed && item.FailedReason != "":
		progressCell = item.FailedReason
	}
	return []string{
		strconv.FormatInt(item.ID, 10),
		string(item.Status),
		string(item.Service()),
		item.Media.Title(),
		localeNames(item.Subs),
		strconv.Itoa(item.Quality) + "p",
		item.Format,
		progressCell,
	}
}

// localeNames renders a locale list with each language named in itself, so
// "de-DE, ja-JP" shows as "Deutsch, 日本語". Unparseable locales fall back to
// the raw string.
func localeNames(locales []queue.Locale) string {
	names := make([]string, 0, len(locales))
	for _, locale := range locales {
		tag, err := language.Parse(locale.Locale)
		if err != nil {
			names = append(names, locale.Locale)
			continue
		}
		base, _ := tag.Base()
		if name := display.Self.Name(language.Make(base.String())); name != "" {
			names = append(names, name)
		} else {
			names = append(names, locale.Locale)
		}
	}
	return strings.Join(names, ", ")
}

func newQueueStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show a count of jobs per status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *queue.Store) error {
				stats, err := store.Stats(cmd.Context())
				if err != nil {
					return err
				}
				if len(stats) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Queue is empty")
					return nil
				}

				rows := make([][]string, 0, len(stats))
				for _, status := range queue.AllStatuses() {
					if count, ok := stats[status]; ok {
						rows = append(rows, []string{string(status), strconv.Itoa(count)})
					}
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Status", "Count"}, rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func newQueueAddCommand(ctx *commandContext) *cobra.Command {
	var (
		serviceFlag  string
		idFlag       string
		titleFlag    string
		seriesFlag   string
		seasonFlag   int
		episodeFlag  string
		dubFlags     []string
		subFlags     []string
		hardsubFlag  string
		qualityFlag  int
		audioFlag    int
		formatFlag   string
		dirFlag      string
		durationFlag int64
	)

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Enqueue an episode for download",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			media, err := buildMedia(serviceFlag, idFlag, titleFlag, seriesFlag, seasonFlag, episodeFlag, durationFlag)
			if err != nil {
				return err
			}

			params := queue.NewJobParams{
				Media:        media,
				Dubs:         parseLocales(dubFlags),
				Subs:         parseLocales(subFlags),
				Quality:      qualityFlag,
				AudioQuality: audioFlag,
				Format:       strings.ToLower(formatFlag),
				Dir:          dirFlag,
			}
			if params.Quality == 0 {
				params.Quality = cfg.Downloads.Quality
			}
			if params.AudioQuality == 0 {
				params.AudioQuality = cfg.Downloads.AudioQuality
			}
			if params.Format == "" {
				params.Format = cfg.Downloads.Format
			}
			if params.Dir == "" {
				params.Dir = filepath.Join(cfg.Paths.DownloadDir, textutil.SanitizeFileName(media.Title()))
			}
			if hardsubFlag != "" {
				params.Hardsub = &queue.Hardsub{Locale: hardsubFlag, Format: params.Format}
			}

			return ctx.withStore(func(store *queue.Store) error {
				item, err := store.NewJob(cmd.Context(), params)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Queued job %d: %s\n", item.ID, item.Media.Title())
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&serviceFlag, "service", "", "Source service: cr or adn (required)")
	cmd.Flags().StringVar(&idFlag, "id", "", "Episode identifier on the source service (required)")
	cmd.Flags().StringVar(&titleFlag, "title", "", "Episode title (required)")
	cmd.Flags().StringVar(&seriesFlag, "series", "", "Series or show title")
	cmd.Flags().IntVar(&seasonFlag, "season", 0, "Season number (Crunchyroll)")
	cmd.Flags().StringVar(&episodeFlag, "episode", "", "Episode number")
	cmd.Flags().StringSliceVar(&dubFlags, "dub", nil, "Dub locale, repeatable (e.g. ja-JP)")
	cmd.Flags().StringSliceVar(&subFlags, "sub", nil, "Sub locale, repeatable (e.g. de-DE)")
	cmd.Flags().StringVar(&hardsubFlag, "hardsub", "", "Burned-in subtitle locale")
	cmd.Flags().IntVar(&qualityFlag, "quality", 0, "Video quality (default from config)")
	cmd.Flags().IntVar(&audioFlag, "audio-quality", 0, "Audio quality (default from config)")
	cmd.Flags().StringVar(&formatFlag, "format", "", "Container format: mkv or mp4 (default from config)")
	cmd.Flags().StringVar(&dirFlag, "dir", "", "Target directory (default derived from the title)")
	cmd.Flags().Int64Var(&durationFlag, "duration-ms", 0, "Episode duration in milliseconds (Crunchyroll)")
	_ = cmd.MarkFlagRequired("service")
	_ = cmd.MarkFlagRequired("id")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func buildMedia(service, id, title, series string, season int, episode string, durationMS int64) (queue.Media, error) {
	switch strings.ToLower(strings.TrimSpace(service)) {
	case "cr", "crunchyroll":
		return queue.Media{
			Service: queue.ServiceCrunchyroll,
			CR: &queue.CREpisode{
				ID:          id,
				Title:       title,
				SeriesTitle: series,
				Season:      season,
				Episode:     episode,
				DurationMS:  durationMS,
			},
		}, nil
	case "adn":
		numericID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			return queue.Media{}, fmt.Errorf("adn episode id must be numeric, got %q", id)
		}
		number, _ := strconv.Atoi(episode)
		return queue.Media{
			Service: queue.ServiceADN,
			ADN: &queue.ADNEpisode{
				ID:        numericID,
				Title:     title,
				ShowTitle: series,
				Number:    number,
			},
		}, nil
	default:
		return queue.Media{}, fmt.Errorf("unknown service %q (expected cr or adn)", service)
	}
}

func parseLocales(values []string) []queue.Locale {
	locales := make([]queue.Locale, 0, len(values))
	for _, value := range values {
		value = strings.TrimSpace(value)
		if value == "" {
			continue
		}
		locales = append(locales, queue.Locale{Locale: value})
	}
	return locales
}

func newQueueRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a job from the queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid job id %q", args[0])
			}
			return ctx.withStore(func(store *queue.Store) error {
				removed, err := store.Remove(cmd.Context(), id)
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("job %d not found", id)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed job %d\n", id)
				return nil
			})
		},
	}
}

func newQueueRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [id...]",
		Short: "Move failed jobs back to waiting",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid job id %q", arg)
				}
				ids = append(ids, id)
			}
			return ctx.withStore(func(store *queue.Store) error {
				retried, err := store.RetryFailed(cmd.Context(), ids...)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Retrying %d job(s)\n", retried)
				return nil
			})
		},
	}
}

func newQueueClearCommand(ctx *commandContext) *cobra.Command {
	var clearAll, clearCompleted, clearFailed bool

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove jobs from the queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			selected := 0
			for _, flag := range []bool{clearAll, clearCompleted, clearFailed} {
				if flag {
					selected++
				}
			}
			if selected != 1 {
				return errors.New("pass exactly one of --all, --completed or --failed")
			}

			return ctx.withStore(func(store *queue.Store) error {
				var cleared int64
				var err error
				switch {
				case clearAll:
					cleared, err = store.Clear(cmd.Context())
				case clearCompleted:
					cleared, err = store.ClearCompleted(cmd.Context())
				case clearFailed:
					cleared, err = store.ClearFailed(cmd.Context())
				}
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d job(s)\n", cleared)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clearAll, "all", false, "Remove every job")
	cmd.Flags().BoolVar(&clearCompleted, "completed", false, "Remove completed jobs only")
	cmd.Flags().BoolVar(&clearFailed, "failed", false, "Remove failed jobs only")

	return cmd
}
