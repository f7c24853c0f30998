package roster

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/student"
)

// Marker introduces the student list inside a deal note.
const Marker = "alumnos del deal"

var (
	markerRegex   = regexp.MustCompile(`(?i)` + strings.ReplaceAll(Marker, " ", `\s+`))
	entrySepRegex = regexp.MustCompile(`\s*;\s*`)
	fieldSepRegex = regexp.MustCompile(`\s*\|\s*`)

	newlineReplacer = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")
)

// Entry is a student reference parsed from a note, not persisted yet.
type Entry struct {
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
	DNI      string `json:"dni"`
}

// Parse extracts the student list following the roster marker of a sanitized note.
// Records are separated by `;` and fields by `|`: nombre | apellido... | dni.
// Records with less than 3 fields or any empty value are skipped, and only the first record of a DNI is kept.
// Returns an empty list when the note has no roster.
func Parse(text string) []Entry {
	entries := make([]Entry, 0)

	loc := markerRegex.FindStringIndex(text)
	if loc == nil {
		return entries
	}
	body := strings.TrimLeftFunc(text[loc[1]:], func(r rune) bool {
		return r == ':' || r == '-' || isQuote(r) || unicode.IsSpace(r)
	})
	if strings.TrimSpace(body) == "" {
		return entries
	}

	body = newlineReplacer.Replace(body)
	body = entrySepRegex.ReplaceAllString(body, ";")
	body = fieldSepRegex.ReplaceAllString(body, "|")

	seen := make(map[string]bool)
	for _, record := range strings.Split(body, ";") {
		if strings.TrimSpace(record) == "" {
			continue
		}
		entry, ok := parseRecord(record)
		if !ok || seen[entry.DNI] {
			continue
		}
		seen[entry.DNI] = true
		entries = append(entries, entry)
	}
	return entries
}

func parseRecord(record string) (Entry, bool) {
	fields := make([]string, 0, 3)
	for _, f := range strings.Split(record, "|") {
		if f = strings.TrimSpace(stripQuotes(strings.TrimSpace(f))); f != "" {
			fields = append(fields, f)
		}
	}
	if len(fields) < 3 {
		return Entry{}, false
	}

	last := len(fields) - 1
	entry := Entry{
		Nombre:   core.CollapseSpaces(fields[0]),
		Apellido: core.CollapseSpaces(strings.Join(fields[1:last], " ")),
		DNI:      student.NormalizeDNI(fields[last]),
	}
	if entry.Nombre == "" || entry.Apellido == "" || entry.DNI == "" {
		return Entry{}, false
	}
	return entry, true
}

// Format writes entries back in the note syntax understood by Parse.
func Format(entries []Entry) string {
	records := make([]string, 0, len(entries))
	for _, e := range entries {
		records = append(records, e.Nombre+"|"+e.Apellido+"|"+e.DNI)
	}
	return "Alumnos del deal: " + strings.Join(records, "; ")
}
