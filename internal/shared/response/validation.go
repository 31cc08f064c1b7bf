package response

import (
	"sort"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// ValidationError renders a validation failure. ozzo errors carry per-field
// detail, anything else collapses into a plain 400.
func ValidationError(c *gin.Context, err error) {
	var verrs validation.Errors
	switch e := err.(type) {
	case validation.Errors:
		verrs = e
	default:
		BadRequest(c, err.Error())
		return
	}

	fields := make([]string, 0, len(verrs))
	for field := range verrs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	errs := make([]FieldError, 0, len(verrs))
	for _, field := range fields {
		errs = append(errs, FieldError{
			Field:   field,
			Message: verrs[field].Error(),
		})
	}
	ValidationFailed(c, errs)
}
