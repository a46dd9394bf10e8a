package ass

import (
	"errors"
	"fmt"
	"strings"
)

type section int

const (
	sectionNone section = iota
	sectionInfo
	sectionStyles
	sectionEvents
	sectionRaw
)

// Parse converts script text into a Document. It requires the [Script Info],
// [V4+ Styles] and [Events] sections to be present and well formed; anything
// else is preserved as a raw section.
func Parse(text string) (*Document, error) {
	doc := &Document{}
	current := sectionNone
	var raw *RawSection
	sawInfo, sawStyles, sawEvents := false, false, false

	text = strings.TrimPrefix(text, "\ufeff")
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			name := trimmed[1 : len(trimmed)-1]
			raw = nil
			switch normalizeSectionName(name) {
			case "script info":
				current = sectionInfo
				sawInfo = true
			case "v4+ styles", "v4 styles":
				current = sectionStyles
				sawStyles = true
			case "events":
				current = sectionEvents
				sawEvents = true
			default:
				current = sectionRaw
				doc.Extra = append(doc.Extra, RawSection{Name: name})
				raw = &doc.Extra[len(doc.Extra)-1]
			}
			continue
		}

		switch current {
		case sectionInfo:
			if trimmed == "" {
				continue
			}
			if strings.HasPrefix(trimmed, ";") {
				doc.Info.Comments = append(doc.Info.Comments, trimmed)
				continue
			}
			key, value, ok := strings.Cut(trimmed, ":")
			if !ok {
				return nil, fmt.Errorf("script info: malformed line %q", trimmed)
			}
			doc.Info.Set(strings.TrimSpace(key), strings.TrimSpace(value))
		case sectionStyles:
			if trimmed == "" || strings.HasPrefix(trimmed, ";") {
				continue
			}
			if err := parseStyleLine(&doc.Styles, trimmed); err != nil {
				return nil, err
			}
		case sectionEvents:
			if trimmed == "" || strings.HasPrefix(trimmed, ";") {
				continue
			}
			if err := parseEventLine(&doc.Events, trimmed); err != nil {
				return nil, err
			}
		case sectionRaw:
			if raw != nil {
				raw.Lines = append(raw.Lines, line)
			}
		case sectionNone:
			// Blank lines and comments before the first section header are
			// tolerated; anything else is not a subtitle script.
			if trimmed != "" && !strings.HasPrefix(trimmed, ";") {
				return nil, fmt.Errorf("content before first section: %q", trimmed)
			}
		}
	}

	if !sawInfo {
		return nil, errors.New("missing [Script Info] section")
	}
	if !sawStyles {
		return nil, errors.New("missing [V4+ Styles] section")
	}
	if !sawEvents {
		return nil, errors.New("missing [Events] section")
	}
	trimTrailingBlankLines(doc)
	return doc, nil
}

func parseStyleLine(table *StyleTable, line string) error {
	descriptor, value, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("styles: malformed line %q", line)
	}
	value = strings.TrimSpace(value)

	switch strings.TrimSpace(descriptor) {
	case "Format":
		table.Format = splitFormat(value)
		return nil
	case "Style":
		if len(table.Format) == 0 {
			return errors.New("styles: Style line before Format")
		}
		parts := strings.SplitN(value, ",", len(table.Format))
		if len(parts) != len(table.Format) {
			return fmt.Errorf("styles: expected %d fields, got %d in %q", len(table.Format), len(parts), line)
		}
		style := Style{}
		for i, field := range table.Format {
			style.Set(field, strings.TrimSpace(parts[i]))
		}
		table.Styles = append(table.Styles, style)
		return nil
	default:
		// Unknown descriptors inside the style section are dropped, matching
		// lenient parsers.
		return nil
	}
}

func parseEventLine(table *EventTable, line string) error {
	descriptor, value, ok := strings.Cut(line, ":")
	if !ok {
		return fmt.Errorf("events: malformed line %q", line)
	}
	descriptor = strings.TrimSpace(descriptor)

	if descriptor == "Format" {
		table.Format = splitFormat(strings.TrimSpace(value))
		return nil
	}
	if len(table.Format) == 0 {
		return errors.New("events: event line before Format")
	}

	value = strings.TrimPrefix(value, " ")
	parts := strings.SplitN(value, ",", len(table.Format))
	if len(parts) != len(table.Format) {
		return fmt.Errorf("events: expected %d fields, got %d in %q", len(table.Format), len(parts), line)
	}
	event := Event{Kind: descriptor}
	for i, field := range table.Format {
		// The trailing field (normally Text) keeps embedded commas and
		// spacing; everything else is trimmed.
		if i == len(table.Format)-1 {
			event.Set(field, parts[i])
		} else {
			event.Set(field, strings.TrimSpace(parts[i]))
		}
	}
	table.Events = append(table.Events, event)
	return nil
}

func splitFormat(value string) []string {
	parts := strings.Split(value, ",")
	fields := make([]string, 0, len(parts))
	for _, part := range parts {
		fields = append(fields, strings.TrimSpace(part))
	}
	return fields
}

func normalizeSectionName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func trimTrailingBlankLines(doc *Document) {
	for i := range doc.Extra {
		lines := doc.Extra[i].Lines
		for len(lines) > 0 && strings.TrimSpace(lines[len(lines)-1]) == "" {
			lines = lines[:len(lines)-1]
		}
		doc.Extra[i].Lines = lines
	}
}
