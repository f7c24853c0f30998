package roster

import (
	"sort"
	"strings"

	"github.com/volatiletech/null/v8"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/trezcool/formacion/core"
)

const (
	unknownNoteID = "unknown"
	signatureSep  = "::"
	recordSep     = ";"
	fieldSep      = "|"
)

// Signature fingerprints a parsed roster and the note it came from.
// The result does not depend on the order of entries: two signatures are equal
// only if they share the note ID and the same (dni, nombre, apellido) tuples.
func Signature(noteID null.String, entries []Entry) string {
	normalized := make([]Entry, 0, len(entries))
	for _, e := range entries {
		normalized = append(normalized, Entry{
			Nombre:   core.CollapseSpaces(e.Nombre),
			Apellido: core.CollapseSpaces(e.Apellido),
			DNI:      strings.ToUpper(strings.TrimSpace(e.DNI)),
		})
	}

	coll := collate.New(language.Spanish)
	sort.Slice(normalized, func(i, j int) bool {
		return compareEntries(coll, normalized[i], normalized[j]) < 0
	})

	records := make([]string, 0, len(normalized))
	for _, e := range normalized {
		records = append(records, e.DNI+fieldSep+e.Nombre+fieldSep+e.Apellido)
	}

	prefix := unknownNoteID
	if noteID.Valid {
		prefix = noteID.String
	}
	return prefix + signatureSep + strings.Join(records, recordSep)
}

// compareEntries orders by DNI, then apellido and nombre as a Spanish reader would.
// Byte order settles what the collator considers equal.
func compareEntries(coll *collate.Collator, a, b Entry) int {
	if c := strings.Compare(a.DNI, b.DNI); c != 0 {
		return c
	}
	if c := coll.CompareString(a.Apellido, b.Apellido); c != 0 {
		return c
	}
	if c := coll.CompareString(a.Nombre, b.Nombre); c != 0 {
		return c
	}
	if c := strings.Compare(a.Apellido, b.Apellido); c != 0 {
		return c
	}
	return strings.Compare(a.Nombre, b.Nombre)
}
