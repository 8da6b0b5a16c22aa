package dto

import (
	"fmt"

	"github.com/fincast/fincast/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks a request struct against its validate tags and maps
// failures onto apperrors.ErrValidation so callers can errors.Is them.
func Validate(req any) error {
	if err := validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", apperrors.ErrValidation, err)
	}
	return nil
}
