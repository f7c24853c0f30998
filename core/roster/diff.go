package roster

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"

	"github.com/trezcool/formacion/core"
	"github.com/trezcool/formacion/core/student"
)

// Update renames an existing student after the roster.
type Update struct {
	ID       string `json:"id"`
	Nombre   string `json:"nombre"`
	Apellido string `json:"apellido"`
}

// Plan lists the changes needed for a session to match a roster.
type Plan struct {
	ToCreate []Entry  `json:"to_create"`
	ToUpdate []Update `json:"to_update"`
}

func (p Plan) IsEmpty() bool {
	return len(p.ToCreate) == 0 && len(p.ToUpdate) == 0
}

// Diff compares roster entries with the students already enrolled in the session, matching them by DNI.
// When several students share a DNI only the first one is considered.
// Names are compared ignoring case, accents and extra whitespace.
func Diff(entries []Entry, existing []student.Student) Plan {
	byDNI := make(map[string]student.Student, len(existing))
	for _, std := range existing {
		key := dniKey(std.DNI)
		if _, ok := byDNI[key]; key != "" && !ok {
			byDNI[key] = std
		}
	}

	plan := Plan{ToCreate: []Entry{}, ToUpdate: []Update{}}
	for _, e := range entries {
		key := dniKey(e.DNI)
		if key == "" {
			continue
		}
		std, ok := byDNI[key]
		if !ok {
			plan.ToCreate = append(plan.ToCreate, e)
			continue
		}
		if comparableName(std.Nombre) != comparableName(e.Nombre) ||
			comparableName(std.Apellido) != comparableName(e.Apellido) {
			plan.ToUpdate = append(plan.ToUpdate, Update{ID: std.ID, Nombre: e.Nombre, Apellido: e.Apellido})
		}
	}
	return plan
}

func dniKey(dni string) string {
	return strings.ToUpper(strings.TrimSpace(dni))
}

// comparableName uppercases, collapses whitespace and strips diacritics (NFD, then drop combining marks).
func comparableName(name string) string {
	var b strings.Builder
	for _, r := range norm.NFD.String(name) {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.ToUpper(core.CollapseSpaces(b.String()))
}
