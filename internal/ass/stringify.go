package ass

import "strings"

// Stringify serializes a Document back to script text. Section order is
// [Script Info], preserved raw sections, [V4+ Styles], [Events].
func Stringify(doc *Document) string {
	var b strings.Builder

	b.WriteString("[Script Info]\n")
	for _, comment := range doc.Info.Comments {
		b.WriteString(comment)
		b.WriteByte('\n')
	}
	for _, key := range doc.Info.Keys() {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(doc.Info.Get(key))
		b.WriteByte('\n')
	}
	b.WriteByte('\n')

	for _, section := range doc.Extra {
		b.WriteString("[")
		b.WriteString(section.Name)
		b.WriteString("]\n")
		for _, line := range section.Lines {
			b.WriteString(line)
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
	}

	b.WriteString("[V4+ Styles]\n")
	writeFormat(&b, doc.Styles.Format)
	for _, style := range doc.Styles.Styles {
		b.WriteString("Style: ")
		writeFields(&b, doc.Styles.Format, style.Fields)
	}
	b.WriteByte('\n')

	b.WriteString("[Events]\n")
	writeFormat(&b, doc.Events.Format)
	for _, event := range doc.Events.Events {
		b.WriteString(event.Kind)
		b.WriteString(": ")
		writeFields(&b, doc.Events.Format, event.Fields)
	}

	return b.String()
}

func writeFormat(b *strings.Builder, format []string) {
	if len(format) == 0 {
		return
	}
	b.WriteString("Format: ")
	b.WriteString(strings.Join(format, ", "))
	b.WriteByte('\n')
}

func writeFields(b *strings.Builder, format []string, fields map[string]string) {
	for i, field := range format {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(fields[field])
	}
	b.WriteByte('\n')
}
