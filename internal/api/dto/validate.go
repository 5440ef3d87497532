package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/nexdesk/portal-service/pkg/util/errorutil"
)

var validate = validator.New()

// Validate checks struct tags and converts failures into the portal's
// validation-error envelope, keyed by the offending field.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	invalid, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	details := make(map[string]any, len(invalid))
	for _, fieldErr := range invalid {
		details[strings.ToLower(fieldErr.Field())] = fieldErr.Tag()
	}
	return apperrors.NewValidationError("missing or invalid fields", details)
}
