package auth

import (
	"errors"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// RegisterRequest payload
type RegisterRequest struct {
	Name            string `json:"name" form:"name"`
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirmpassword" form:"confirmpassword"`
}

// Validate checks fields in declaration order and reports the first failure
func (r RegisterRequest) Validate() error {
	return validateInOrder(
		fieldCheck{"name", strings.TrimSpace(r.Name), []validation.Rule{
			validation.Required.Error(MsgInvalidName),
		}},
		fieldCheck{"email", strings.TrimSpace(r.Email), []validation.Rule{
			validation.Required.Error(MsgInvalidEmail),
		}},
		fieldCheck{"password", r.Password, []validation.Rule{
			validation.Required.Error(MsgInvalidPassword),
		}},
		fieldCheck{"confirmpassword", r.ConfirmPassword, []validation.Rule{
			validation.By(equalTo(r.Password, MsgPasswordMismatch)),
		}},
	)
}

// LoginRequest payload
type LoginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// Validate will run validation rules
func (r LoginRequest) Validate() error {
	return validateInOrder(
		fieldCheck{"email", strings.TrimSpace(r.Email), []validation.Rule{
			validation.Required.Error(MsgInvalidEmail),
		}},
		fieldCheck{"password", r.Password, []validation.Rule{
			validation.Required.Error(MsgInvalidPassword),
		}},
	)
}

// UpdateEmailRequest payload
type UpdateEmailRequest struct {
	Email string `json:"email" form:"email"`
}

// Validate will run validation rules
func (r UpdateEmailRequest) Validate() error {
	return validateInOrder(
		fieldCheck{"email", strings.TrimSpace(r.Email), []validation.Rule{
			validation.Required.Error(MsgNewEmailRequired),
		}},
	)
}

type fieldCheck struct {
	field string
	value any
	rules []validation.Rule
}

func validateInOrder(checks ...fieldCheck) error {
	for _, check := range checks {
		if err := validation.Validate(check.value, check.rules...); err != nil {
			return invalidInput(check.field, err.Error())
		}
	}
	return nil
}

func equalTo(expected, message string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != expected {
			return errors.New(message)
		}
		return nil
	}
}
