// Package textutil provides filename sanitization for download directories.
package textutil

import "strings"

// pathCharReplacer replaces filesystem-unsafe characters in episode and
// series titles. Separators become dashes, the rest is dropped.
var pathCharReplacer = strings.NewReplacer(
	"/", "-",
	"\\", "-",
	":", "-",
	"*", "-",
	"?", "",
	"\"", "",
	"<", "",
	">", "",
	"|", "",
)

// SanitizeFileName makes an episode title safe to use as a directory or file
// name. An empty result falls back to "episode".
func SanitizeFileName(name string) string {
	cleaned := strings.TrimSpace(pathCharReplacer.Replace(strings.TrimSpace(name)))
	if cleaned == "" {
		return "episode"
	}
	return cleaned
}
