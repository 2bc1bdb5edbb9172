package profile

import (
	"regexp"

	"github.com/go-playground/validator/v10"
)

// dialString is a loose check for fallback codes. Curated tables include
// partial codes such as *611 and #BAL that the extraction grammars reject.
var dialString = regexp.MustCompile(`^[*#0-9A-Za-z]+$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Registration only fails for an empty tag or nil function
	_ = v.RegisterValidation("dialstring", func(fl validator.FieldLevel) bool {
		return dialString.MatchString(fl.Field().String())
	})

	return v
}
