package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"
)

func TestSignature(t *testing.T) {
	ana := Entry{Nombre: "Ana", Apellido: "García López", DNI: "2"}
	luis := Entry{Nombre: "Luis", Apellido: "Pérez", DNI: "1"}

	t.Run("serialized sorted by dni", func(t *testing.T) {
		got := Signature(null.StringFrom("n1"), []Entry{ana, luis})
		assert.Equal(t, "n1::1|Luis|Pérez;2|Ana|García López", got)
	})

	t.Run("unknown note", func(t *testing.T) {
		got := Signature(null.String{}, []Entry{luis})
		assert.Equal(t, "unknown::1|Luis|Pérez", got)
	})

	t.Run("order independent", func(t *testing.T) {
		assert.Equal(t,
			Signature(null.StringFrom("n1"), []Entry{ana, luis}),
			Signature(null.StringFrom("n1"), []Entry{luis, ana}),
		)
	})

	t.Run("whitespace and dni case ignored", func(t *testing.T) {
		messy := Entry{Nombre: "  Ana ", Apellido: "García   López", DNI: " 2 "}
		lower := Entry{Nombre: "Luis", Apellido: "Pérez", DNI: "1"}
		assert.Equal(t,
			Signature(null.StringFrom("n1"), []Entry{ana, luis}),
			Signature(null.StringFrom("n1"), []Entry{lower, messy}),
		)
	})

	t.Run("differs by note", func(t *testing.T) {
		assert.NotEqual(t,
			Signature(null.StringFrom("n1"), []Entry{ana}),
			Signature(null.StringFrom("n2"), []Entry{ana}),
		)
	})

	t.Run("differs by content", func(t *testing.T) {
		renamed := ana
		renamed.Apellido = "García"
		assert.NotEqual(t,
			Signature(null.StringFrom("n1"), []Entry{ana, luis}),
			Signature(null.StringFrom("n1"), []Entry{renamed, luis}),
		)
	})

	t.Run("same dni sorted by names", func(t *testing.T) {
		a := Entry{Nombre: "Ana", Apellido: "Ñúñez", DNI: "7"}
		b := Entry{Nombre: "Ana", Apellido: "Nuñez", DNI: "7"}
		assert.Equal(t,
			Signature(null.StringFrom("n1"), []Entry{a, b}),
			Signature(null.StringFrom("n1"), []Entry{b, a}),
		)
	})
}
