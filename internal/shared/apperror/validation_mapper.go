package apperror

import (
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
)

// MapValidationError turns a gin binding error into an AppError with a
// message naming the first offending field.
func MapValidationError(err error) error {
	if errs, ok := err.(validator.ValidationErrors); ok && len(errs) > 0 {
		e := errs[0]
		field := strings.ReplaceAll(e.Field(), "_", " ")

		switch e.Tag() {
		case "required":
			return RequiredField(field)
		default:
			return InvalidField(field)
		}
	}

	return New(
		CodeInvalidInput,
		"Invalid input",
		http.StatusBadRequest,
	)
}
