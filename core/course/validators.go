package course

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/chumcred/academy/core"
)

var (
	materialKindTag  = "materialkind"
	materialKindText = "must be 'file' or 'link'"
)

// InitValidators registers this package's custom validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(materialKindTag, materialKindValidation)
	core.RegisterCustomTranslation(validate, translator, materialKindTag, materialKindText)
}

func materialKindValidation(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	return val == KindFile || val == KindLink
}
