package user

import (
	"fmt"

	"github.com/go-playground/validator/v10"

	apperrors "user-crud-service/pkg/errors"
)

var validate = validator.New()

// ValidateName checks that a name is non-empty after trimming.
func ValidateName(name string) error {
	if NormalizeName(name) == "" {
		return apperrors.NewValidationError("name", "must not be empty")
	}
	return nil
}

// ValidateEmail checks that an email has a valid shape after normalization.
func ValidateEmail(email string) error {
	if err := validate.Var(NormalizeEmail(email), "required,email"); err != nil {
		return apperrors.NewValidationError("email", "must be a valid email address")
	}
	return nil
}

// ValidateAge checks that an age is within [MinAge, MaxAge].
func ValidateAge(age int) error {
	if age < MinAge || age > MaxAge {
		return apperrors.NewValidationError("age", fmt.Sprintf("must be between %d and %d", MinAge, MaxAge))
	}
	return nil
}
