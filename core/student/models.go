package student

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/formacion/core"
)

// OrderingFields maps the fields accepted in `ordering` query params to their columns.
var OrderingFields = map[string]string{
	"nombre":     "nombre",
	"apellido":   "apellido",
	"dni":        "dni",
	"created_at": "created_at",
	"updated_at": "updated_at",
}

// Student ("alumno") is a person enrolled in one session of a deal.
type Student struct {
	ID        string    `json:"id"`
	DealID    string    `json:"deal_id"`
	SessionID string    `json:"session_id"`
	Nombre    string    `json:"nombre"`
	Apellido  string    `json:"apellido"`
	DNI       string    `json:"dni"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// NormalizeDNI uppercases a national identity document number and drops anything outside [A-Z0-9].
func NormalizeDNI(dni string) string {
	return strings.Map(func(r rune) rune {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, strings.ToUpper(dni))
}

// NewStudent contains information needed to create a new Student.
type NewStudent struct {
	DealID    string `json:"deal_id" validate:"required,notblank"`
	SessionID string `json:"session_id" validate:"required,notblank"`
	Nombre    string `json:"nombre" validate:"required,notblank,max=120"`
	Apellido  string `json:"apellido" validate:"required,notblank,max=160"`
	DNI       string `json:"dni" validate:"required,dni"`
}

func (ns *NewStudent) Clean() {
	ns.DealID = core.CleanString(ns.DealID)
	ns.SessionID = core.CleanString(ns.SessionID)
	ns.Nombre = core.CollapseSpaces(ns.Nombre)
	ns.Apellido = core.CollapseSpaces(ns.Apellido)
	ns.DNI = NormalizeDNI(ns.DNI)
}

func (ns *NewStudent) Validate(validate *validator.Validate) error {
	ns.Clean()
	return validate.Struct(ns)
}

// UpdateStudent defines what information may be provided to modify an existing Student.
// Absent (null) fields are left untouched.
type UpdateStudent struct {
	Nombre   null.String `json:"nombre" validate:"omitempty,max=120"`
	Apellido null.String `json:"apellido" validate:"omitempty,max=160"`
}

func (uu *UpdateStudent) Clean() {
	if uu.Nombre.Valid {
		uu.Nombre.String = core.CollapseSpaces(uu.Nombre.String)
	}
	if uu.Apellido.Valid {
		uu.Apellido.String = core.CollapseSpaces(uu.Apellido.String)
	}
}

func (uu *UpdateStudent) Validate(validate *validator.Validate) error {
	uu.Clean()
	// omitempty cannot tell a blank value from an absent one
	var blank []core.FieldError
	if uu.Nombre.Valid && uu.Nombre.String == "" {
		blank = append(blank, core.FieldError{Field: "nombre", Error: errBlankText})
	}
	if uu.Apellido.Valid && uu.Apellido.String == "" {
		blank = append(blank, core.FieldError{Field: "apellido", Error: errBlankText})
	}
	if len(blank) > 0 {
		return core.NewValidationError(nil, blank...)
	}
	return validate.Struct(uu)
}

func (uu UpdateStudent) IsEmpty() bool {
	return !uu.Nombre.Valid && !uu.Apellido.Valid
}

type QueryFilter struct {
	DealID    string
	SessionID string
	DNI       string
}

func (qf *QueryFilter) Clean() {
	qf.DealID = core.CleanString(qf.DealID)
	qf.SessionID = core.CleanString(qf.SessionID)
	qf.DNI = NormalizeDNI(qf.DNI)
}
