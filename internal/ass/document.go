package ass

// DefaultStyleFormat is the standard V4+ style field list.
var DefaultStyleFormat = []string{
	"Name", "Fontname", "Fontsize", "PrimaryColour", "SecondaryColour",
	"OutlineColour", "BackColour", "Bold", "Italic", "Underline", "StrikeOut",
	"ScaleX", "ScaleY", "Spacing", "Angle", "BorderStyle", "Outline", "Shadow",
	"Alignment", "MarginL", "MarginR", "MarginV", "Encoding",
}

// DefaultEventFormat is the standard V4+ event field list.
var DefaultEventFormat = []string{
	"Layer", "Start", "End", "Style", "Name",
	"MarginL", "MarginR", "MarginV", "Effect", "Text",
}

// Document is a parsed subtitle script.
type Document struct {
	Info   Info
	Styles StyleTable
	Events EventTable
	// Extra holds sections the parser does not model, in original order.
	Extra []RawSection
}

// Info is the ordered [Script Info] block. Comment lines are preserved and
// emitted ahead of the key/value pairs.
type Info struct {
	Comments []string

	keys   []string
	values map[string]string
}

// Get returns the value for key, or "" when absent.
func (i *Info) Get(key string) string {
	return i.values[key]
}

// Set stores a value, appending the key to the emission order when new.
func (i *Info) Set(key, value string) {
	if i.values == nil {
		i.values = make(map[string]string)
	}
	if _, ok := i.values[key]; !ok {
		i.keys = append(i.keys, key)
	}
	i.values[key] = value
}

// Keys returns the key emission order.
func (i *Info) Keys() []string {
	cp := make([]string, len(i.keys))
	copy(cp, i.keys)
	return cp
}

// StyleTable is the ordered [V4+ Styles] section.
type StyleTable struct {
	Format []string
	Styles []Style
}

// Style is one style line, with values keyed by the table's format fields.
type Style struct {
	Fields map[string]string
}

// Name returns the style name.
func (s Style) Name() string {
	return s.Fields["Name"]
}

// Get returns the value of a format field, or "" when absent.
func (s Style) Get(field string) string {
	return s.Fields[field]
}

// Set stores a format field value.
func (s *Style) Set(field, value string) {
	if s.Fields == nil {
		s.Fields = make(map[string]string)
	}
	s.Fields[field] = value
}

// EventTable is the ordered [Events] section.
type EventTable struct {
	Format []string
	Events []Event
}

// Event is one event line (Dialogue, Comment, Picture...).
type Event struct {
	// Kind is the line descriptor, e.g. "Dialogue".
	Kind   string
	Fields map[string]string
}

// Get returns the value of a format field, or "" when absent.
func (e Event) Get(field string) string {
	return e.Fields[field]
}

// Set stores a format field value.
func (e *Event) Set(field, value string) {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = value
}

// RawSection preserves an unmodeled section verbatim.
type RawSection struct {
	Name  string
	Lines []string
}
