package auth

import (
	"net/http"

	goerrors "github.com/goliatone/go-errors"
)

// Kind classifies an error for callers that translate it into a response
type Kind string

const (
	KindInvalidInput    Kind = "InvalidInput"
	KindConflict        Kind = "Conflict"
	KindNotFound        Kind = "NotFound"
	KindUnauthenticated Kind = "Unauthenticated"
	KindInvalidToken    Kind = "InvalidToken"
	KindForbidden       Kind = "Forbidden"
	KindInternal        Kind = "Internal"
)

const (
	TextCodeInvalidInput       = "INVALID_INPUT"
	TextCodeConflict           = "CONFLICT"
	TextCodeNotFound           = "NOT_FOUND"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeUnauthenticated    = "UNAUTHENTICATED"
	TextCodeInvalidToken       = "INVALID_TOKEN"
	TextCodeTokenExpired       = "TOKEN_EXPIRED"
	TextCodeForbidden          = "FORBIDDEN"
	TextCodeInternal           = "INTERNAL"
)

// Messages returned to callers
const (
	MsgInvalidName        = "Invalid name."
	MsgInvalidEmail       = "Invalid email."
	MsgInvalidPassword    = "Invalid password."
	MsgPasswordMismatch   = "The passwords do not match."
	MsgPasswordTooLong    = "Password is too long."
	MsgNewEmailRequired   = "New email required."
	MsgInvalidBody        = "Invalid request body."
	MsgEmailTaken         = "A user with this email already exists."
	MsgAccountNotFound    = "User not found."
	MsgInvalidCredentials = "Invalid credentials."
	MsgAccessDenied       = "Access denied."
	MsgInvalidToken       = "Invalid token."
	MsgForbidden          = "Access to this account is not allowed."
	MsgInternal           = "An error occurred on the server. Please try again later."
)

// ErrMissingSigningKey is returned when a token codec is built without a key
var ErrMissingSigningKey = goerrors.New("token signing key is required", goerrors.CategoryInternal).
	WithTextCode("MISSING_SIGNING_KEY")

// ErrEmailTaken is returned when the email already belongs to an account
var ErrEmailTaken = goerrors.New(MsgEmailTaken, goerrors.CategoryConflict).
	WithTextCode(TextCodeConflict).
	WithCode(http.StatusUnprocessableEntity)

// ErrAccountNotFound is returned when the referenced account does not exist
var ErrAccountNotFound = goerrors.New(MsgAccountNotFound, goerrors.CategoryNotFound).
	WithTextCode(TextCodeNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrInvalidCredentials covers both an unknown email and a wrong password.
var ErrInvalidCredentials = goerrors.New(MsgInvalidCredentials, goerrors.CategoryNotFound).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeNotFound)

// ErrMissingToken is returned when a request carries no bearer credential
var ErrMissingToken = goerrors.New(MsgAccessDenied, goerrors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(goerrors.CodeUnauthorized)

// ErrInvalidToken is returned when a token fails verification
var ErrInvalidToken = goerrors.New(MsgInvalidToken, goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(goerrors.CodeNotFound)

// ErrTokenExpired is returned when a token carries an exp claim in the past
var ErrTokenExpired = goerrors.New(MsgInvalidToken, goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeNotFound)

// ErrForbidden is returned when a verified caller targets another account
var ErrForbidden = goerrors.New(MsgForbidden, goerrors.CategoryAuthz).
	WithTextCode(TextCodeForbidden).
	WithCode(goerrors.CodeForbidden)

// KindOf classifies err. Errors that are not rich errors are Internal.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return KindInternal
	}

	switch richErr.Category {
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return KindInvalidInput
	case goerrors.CategoryConflict:
		return KindConflict
	case goerrors.CategoryNotFound:
		return KindNotFound
	case goerrors.CategoryAuth:
		if richErr.TextCode == TextCodeUnauthenticated {
			return KindUnauthenticated
		}
		return KindInvalidToken
	case goerrors.CategoryAuthz:
		return KindForbidden
	default:
		return KindInternal
	}
}

// IsKind reports whether err is classified as kind
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// PublicMessage returns the message that is safe to show to a caller.
// Internal errors never expose their detail.
func PublicMessage(err error) string {
	if err == nil {
		return ""
	}

	if KindOf(err) == KindInternal {
		return MsgInternal
	}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.Message
	}

	return MsgInternal
}

func invalidInput(field, message string) *goerrors.Error {
	return goerrors.NewValidation(message, goerrors.FieldError{
		Field:   field,
		Message: message,
	}).WithTextCode(TextCodeInvalidInput).
		WithCode(http.StatusUnprocessableEntity)
}

func internalError(err error, message string) *goerrors.Error {
	if err == nil {
		return goerrors.New(message, goerrors.CategoryInternal).
			WithTextCode(TextCodeInternal).
			WithCode(goerrors.CodeInternal)
	}

	// Wrap keeps the category of rich sources, internal is forced here
	richErr := goerrors.Wrap(err, goerrors.CategoryInternal, message)
	richErr.Category = goerrors.CategoryInternal
	return richErr.WithTextCode(TextCodeInternal).WithCode(goerrors.CodeInternal)
}
