package user

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"

	apperrors "user-resource-service/pkg/errors"
)

// validate backs the email pattern rule. Per-field checks are explicit
// functions so each rule stays composable and independent of storage.
var validate = validator.New()

// validateName requires at least 2 characters after trimming. Length is
// counted in characters, not bytes, so multibyte names are measured the same
// way a user would count them.
func validateName(name string) *apperrors.FieldError {
	if utf8.RuneCountInString(strings.TrimSpace(name)) < 2 {
		return &apperrors.FieldError{Field: "name", Message: "name must be at least 2 characters"}
	}
	return nil
}

// validateAge requires a present, non-negative age. Fractional values are
// accepted here and floored at write time. Values at or above MaxInt64 are
// rejected: the float to integer conversion would overflow and store a
// negative age.
func validateAge(age *float64) *apperrors.FieldError {
	if age == nil {
		return &apperrors.FieldError{Field: "age", Message: "age is required"}
	}
	if *age < 0 {
		return &apperrors.FieldError{Field: "age", Message: "age must be a number greater than or equal to 0"}
	}
	if *age >= math.MaxInt64 {
		return &apperrors.FieldError{Field: "age", Message: "age is too large"}
	}
	return nil
}

// validateEmail requires a present, well-formed email. The input is expected
// to be trimmed and lowercased already.
func validateEmail(email string) *apperrors.FieldError {
	if email == "" {
		return &apperrors.FieldError{Field: "email", Message: "email is required"}
	}
	if err := validate.Var(email, "email"); err != nil {
		return &apperrors.FieldError{Field: "email", Message: "email is invalid"}
	}
	return nil
}

// floorAge truncates a validated, non-negative age to a whole number.
func floorAge(age float64) int64 {
	return int64(math.Floor(age))
}

// normalizeEmail applies the canonical email form: trimmed and lowercased.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalize brings every field of a create request into canonical form.
func (in *CreateUserRequest) normalize() {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	if in.Address != nil {
		trimmed := strings.TrimSpace(*in.Address)
		in.Address = &trimmed
	}
}

// checkFields applies every field rule and collects all violations rather
// than stopping at the first one.
func (in *CreateUserRequest) checkFields() []apperrors.FieldError {
	var errs []apperrors.FieldError
	if fe := validateName(in.Name); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := validateAge(in.Age); fe != nil {
		errs = append(errs, *fe)
	}
	if fe := validateEmail(in.Email); fe != nil {
		errs = append(errs, *fe)
	}
	return errs
}

// normalize brings every provided field of an update request into canonical
// form; absent fields stay absent.
func (in *UpdateUserRequest) normalize() {
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		in.Name = &trimmed
	}
	if in.Email != nil {
		normalized := normalizeEmail(*in.Email)
		in.Email = &normalized
	}
	if in.Address != nil {
		trimmed := strings.TrimSpace(*in.Address)
		in.Address = &trimmed
	}
}

// checkFields applies each field rule only when the field is present,
// collecting all violations.
func (in *UpdateUserRequest) checkFields() []apperrors.FieldError {
	var errs []apperrors.FieldError
	if in.Name != nil {
		if fe := validateName(*in.Name); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if in.Age != nil {
		if fe := validateAge(in.Age); fe != nil {
			errs = append(errs, *fe)
		}
	}
	if in.Email != nil {
		if fe := validateEmail(*in.Email); fe != nil {
			errs = append(errs, *fe)
		}
	}
	return errs
}
