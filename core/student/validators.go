package student

import (
	"reflect"
	"regexp"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/formacion/core"
)

var (
	dniTag   = "dni"
	dniText  = "invalid DNI: letters or digits expected"
	dniRegex = regexp.MustCompile(`^[A-Z0-9]+$`)

	errBlankText = "this field cannot be blank"
)

// InitValidators registers the student validators. core.InitValidators must run first.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterCustomTypeFunc(nullStringValue, null.String{})

	_ = validate.RegisterValidation(dniTag, dniValidation)
	core.RegisterCustomTranslation(validate, translator, dniTag, dniText)
}

// nullStringValue lets tags on null.String fields apply to the wrapped string.
func nullStringValue(field reflect.Value) interface{} {
	if ns, ok := field.Interface().(null.String); ok && ns.Valid {
		return ns.String
	}
	return nil
}

// Custom Validators

// dniValidation checks an already normalized DNI.
func dniValidation(fl validator.FieldLevel) bool {
	return dniRegex.MatchString(fl.Field().String())
}
