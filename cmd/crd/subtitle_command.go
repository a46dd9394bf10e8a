package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"crd/internal/subtitles"
)

func newSubtitleCommand(ctx *commandContext) *cobra.Command {
	subCmd := &cobra.Command{
		Use:   "sub",
		Short: "Download and normalize subtitle scripts",
	}

	subCmd.AddCommand(newSubtitleCRCommand(ctx))
	subCmd.AddCommand(newSubtitleADNCommand(ctx))

	return subCmd
}

func newSubtitleCRCommand(ctx *commandContext) *cobra.Command {
	var (
		urlFlag      string
		languageFlag string
		formatFlag   string
		dirFlag      string
		forcedFlag   bool
	)

	cmd := &cobra.Command{
		Use:   "cr",
		Short: "Fetch a Crunchyroll subtitle script and rescale it to the target canvas",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			dir := dirFlag
			if dir == "" {
				dir = cfg.Paths.DownloadDir
			}

			svc := subtitles.NewService(cfg, logger)
			path, err := svc.DownloadCrunchyroll(cmd.Context(), subtitles.TrackRequest{
				Format:   strings.ToLower(formatFlag),
				Language: languageFlag,
				URL:      urlFlag,
				IsDub:    forcedFlag,
			}, dir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Subtitle script URL (required)")
	cmd.Flags().StringVar(&languageFlag, "language", "", "Track language label, used in the file name (required)")
	cmd.Flags().StringVar(&formatFlag, "format", "ass", "Script format / output extension")
	cmd.Flags().StringVar(&dirFlag, "dir", "", "Output directory (default: download dir)")
	cmd.Flags().BoolVar(&forcedFlag, "forced", false, "Mark the track as forced for a dubbed stream")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("language")

	return cmd
}

func newSubtitleADNCommand(ctx *commandContext) *cobra.Command {
	var (
		urlFlag    string
		secretFlag string
		localeFlag string
		dirFlag    string
	)

	cmd := &cobra.Command{
		Use:   "adn",
		Short: "Fetch an encrypted ADN subtitle payload and synthesize an ASS script",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			dir := dirFlag
			if dir == "" {
				dir = cfg.Paths.DownloadDir
			}

			svc := subtitles.NewService(cfg, logger)
			path, err := svc.DownloadADN(cmd.Context(), urlFlag, dir, secretFlag, localeFlag)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().StringVar(&urlFlag, "url", "", "Subtitle location URL (required)")
	cmd.Flags().StringVar(&secretFlag, "secret", "", "Per-episode decryption secret (required)")
	cmd.Flags().StringVar(&localeFlag, "locale", "", "Output locale (default from config)")
	cmd.Flags().StringVar(&dirFlag, "dir", "", "Output directory (default: download dir)")
	_ = cmd.MarkFlagRequired("url")
	_ = cmd.MarkFlagRequired("secret")

	return cmd
}
