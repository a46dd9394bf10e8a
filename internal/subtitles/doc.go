// Package subtitles implements the subtitle acquisition pipeline.
//
// Two paths exist. The Crunchyroll path fetches a ready-made ASS script,
// rescales its inline positioning to the target canvas, normalizes recognized
// styles to the house style and writes the result. The ADN path fetches an
// encrypted timed-text payload through an indirection URL, decrypts it and
// synthesizes a complete ASS document from the recovered cue tracks.
//
// Every failure in this package is per-track: a missing or undecryptable
// subtitle never fails the surrounding download job. Callers inspect the
// sentinel errors in errors.go to decide how to degrade.
package subtitles
