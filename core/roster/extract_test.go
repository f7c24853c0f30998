package roster

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/formacion/core/deal"
)

func note(id, content string) deal.Note {
	n := deal.Note{DealID: "d1", Content: null.StringFrom(content)}
	if id != "" {
		n.ID = null.StringFrom(id)
	}
	return n
}

func TestExtract(t *testing.T) {
	t.Run("no marker", func(t *testing.T) {
		got := Extract([]deal.Note{note("n1", strings.Repeat("Reunión con el cliente. ", 500))})
		assert.False(t, got.NoteID.Valid)
		assert.False(t, got.Signature.Valid)
		assert.Equal(t, []Entry{}, got.Students)
		assert.False(t, got.HasRoster())
	})

	t.Run("no notes", func(t *testing.T) {
		got := Extract(nil)
		assert.Equal(t, Extraction{Students: []Entry{}}, got)
	})

	t.Run("first roster note wins", func(t *testing.T) {
		notes := []deal.Note{
			{ID: null.StringFrom("n0"), DealID: "d1"},
			note("n1", "   "),
			note("n2", "Llamar mañana"),
			note("n3", "<p>Alumnos del deal: Ana|Gil|1</p>"),
			note("n4", "Alumnos del deal: Luis|Paz|2"),
		}
		got := Extract(notes)
		assert.Equal(t, null.StringFrom("n3"), got.NoteID)
		assert.Equal(t, []Entry{{Nombre: "Ana", Apellido: "Gil", DNI: "1"}}, got.Students)
		assert.Equal(t, null.StringFrom(Signature(null.StringFrom("n3"), got.Students)), got.Signature)
		assert.True(t, got.HasRoster())
	})

	t.Run("marker without valid records", func(t *testing.T) {
		notes := []deal.Note{
			note("n1", "Alumnos del deal: pendiente"),
			note("n2", "Alumnos del deal: Ana|Gil|1"),
		}
		got := Extract(notes)
		assert.Equal(t, null.StringFrom("n2"), got.NoteID)
	})

	t.Run("note without id", func(t *testing.T) {
		got := Extract([]deal.Note{note("", "Alumnos del deal: Ana|Gil|1")})
		assert.False(t, got.NoteID.Valid)
		assert.Equal(t, null.StringFrom("unknown::1|Ana|Gil"), got.Signature)
	})
}
