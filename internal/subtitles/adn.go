package subtitles

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"

	"crd/internal/ass"
	"crd/internal/fileutil"
)

// Cue is one timed caption entry recovered from a decrypted payload.
type Cue struct {
	StartTime float64 `json:"startTime"`
	EndTime   float64 `json:"endTime"`
	Text      string  `json:"text"`
}

// cueTracks is the decrypted payload shape: a dubbed-track stream and an
// original-with-subtitles stream, either of which may be absent.
type cueTracks struct {
	Dub      []Cue `json:"vde"`
	Original []Cue `json:"vostde"`
}

// cueEscaper rewrites literal markers into ASS escapes: newlines become hard
// line breaks and <i> pairs become italics toggles.
var cueEscaper = strings.NewReplacer(
	"\n", `\N`,
	"<i>", `{\i1}`,
	"</i>", `{\i0}`,
)

// DownloadADN fetches the indirection URL, follows it to the encrypted
// payload, decrypts it and synthesizes a complete ASS document from the
// recovered cue tracks, written to {dir}/{locale}.ass. An empty locale falls
// back to the configured default. A failed decrypt wraps ErrDecryption and
// means "skip this track", never "fail the job".
func (s *Service) DownloadADN(ctx context.Context, indirectionURL, dir, secret, locale string) (string, error) {
	if locale == "" {
		locale = s.locale
	}
	logger := s.logger.With(
		"request_id", uuid.NewString(),
		"locale", locale,
	)

	body, err := s.fetcher.Fetch(ctx, indirectionURL)
	if err != nil {
		logger.Warn("subtitle location fetch failed", "url", indirectionURL, "error", err)
		return "", wrap(ErrFetch, locale, indirectionURL, err)
	}

	var location struct {
		Location string `json:"location"`
	}
	if err := json.Unmarshal([]byte(body), &location); err != nil {
		logger.Warn("subtitle location parse failed", "url", indirectionURL, "error", err)
		return "", wrap(ErrPayload, locale, indirectionURL, err)
	}

	raw, err := s.fetcher.Fetch(ctx, location.Location)
	if err != nil {
		logger.Warn("subtitle payload fetch failed", "url", location.Location, "error", err)
		return "", wrap(ErrFetch, locale, location.Location, err)
	}

	plaintext, err := Decrypt(raw, secret)
	if err != nil {
		logger.Warn("subtitle decryption failed", "url", location.Location, "error", err)
		return "", wrap(err, locale, location.Location, nil)
	}

	var tracks cueTracks
	if err := json.Unmarshal([]byte(plaintext), &tracks); err != nil {
		logger.Warn("subtitle cue parse failed", "url", location.Location, "error", err)
		return "", wrap(ErrPayload, locale, location.Location, err)
	}

	doc := s.synthesizeDocument(locale, tracks)

	path := filepath.Join(dir, locale+".ass")
	if err := fileutil.WriteFileAtomic(path, []byte(ass.Stringify(doc)), 0o644); err != nil {
		return "", fmt.Errorf("write subtitle %s: %w", path, err)
	}

	logger.Info("subtitle downloaded",
		"path", path,
		"dub_cues", len(tracks.Dub),
		"original_cues", len(tracks.Original),
	)
	return path, nil
}

// synthesizeDocument builds an ASS script from scratch: fixed header, one
// default style carrying the house look, then one dialogue line per cue in
// source order, dub track first.
func (s *Service) synthesizeDocument(locale string, tracks cueTracks) *ass.Document {
	doc := &ass.Document{}
	doc.Info.Set("Title", localeDisplayName(locale))
	doc.Info.Set("Original Script", originalScriptTag)
	doc.Info.Set("ScriptType", "v4.00+")
	doc.Info.Set("PlayResX", strconv.Itoa(s.render.TargetWidth))
	doc.Info.Set("PlayResY", strconv.Itoa(s.render.TargetHeight))
	doc.Info.Set("Timer", "0.0000")
	doc.Info.Set("WrapStyle", "0")

	doc.Styles.Format = ass.DefaultStyleFormat
	doc.Styles.Styles = []ass.Style{s.defaultStyle()}

	doc.Events.Format = ass.DefaultEventFormat
	for _, track := range [][]Cue{tracks.Dub, tracks.Original} {
		for _, cue := range track {
			doc.Events.Events = append(doc.Events.Events, dialogueEvent(cue))
		}
	}
	return doc
}

func (s *Service) defaultStyle() ass.Style {
	style := ass.Style{}
	for field, value := range map[string]string{
		"Name":            "Default",
		"Fontname":        s.rules.LegacyFont,
		"Fontsize":        "56",
		"PrimaryColour":   "&H00FFFFFF",
		"SecondaryColour": "&H000000FF",
		"OutlineColour":   "&H00000000",
		"BackColour":      "&H00000000",
		"Bold":            "-1",
		"Italic":          "0",
		"Underline":       "0",
		"StrikeOut":       "0",
		"ScaleX":          "100",
		"ScaleY":          "100",
		"Spacing":         "0",
		"Angle":           "0",
		"BorderStyle":     "1",
		"Outline":         strconv.Itoa(s.rules.Outline),
		"Shadow":          "0",
		"Alignment":       "2",
		"MarginL":         "0",
		"MarginR":         "0",
		"MarginV":         "20",
		"Encoding":        "1",
	} {
		style.Set(field, value)
	}
	return style
}

func dialogueEvent(cue Cue) ass.Event {
	event := ass.Event{Kind: "Dialogue"}
	event.Set("Layer", "0")
	event.Set("Start", Timecode(cue.StartTime))
	event.Set("End", Timecode(cue.EndTime))
	event.Set("Style", "Default")
	event.Set("Name", "")
	event.Set("MarginL", "0")
	event.Set("MarginR", "0")
	event.Set("MarginV", "0")
	event.Set("Effect", "")
	event.Set("Text", cueEscaper.Replace(cue.Text))
	return event
}

// localeDisplayName renders a locale in its own language ("de-DE" becomes
// "Deutsch") for the document title, falling back to the raw locale string.
func localeDisplayName(locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		return locale
	}
	base, _ := tag.Base()
	name := display.Self.Name(language.Make(base.String()))
	if name == "" {
		return locale
	}
	return name
}
