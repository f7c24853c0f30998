package roster

import (
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/trezcool/formacion/core/deal"
)

// Extraction is the roster found in a deal's notes, if any.
type Extraction struct {
	NoteID    null.String `json:"note_id"`
	Signature null.String `json:"signature"`
	Students  []Entry     `json:"students"`
}

func (ext Extraction) HasRoster() bool {
	return ext.Signature.Valid && len(ext.Students) > 0
}

// Extract returns the roster of the first note, in the given order, holding a non-empty student list.
// Later notes are ignored even if they hold a roster too.
func Extract(notes []deal.Note) Extraction {
	for _, note := range notes {
		if !note.Content.Valid || strings.TrimSpace(note.Content.String) == "" {
			continue
		}
		entries := Parse(Sanitize(note.Content.String))
		if len(entries) == 0 {
			continue
		}
		return Extraction{
			NoteID:    note.ID,
			Signature: null.StringFrom(Signature(note.ID, entries)),
			Students:  entries,
		}
	}
	return Extraction{Students: []Entry{}}
}
