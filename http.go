package auth

import (
	"net/http"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
)

// ErrorBody is the JSON body of every failed request
type ErrorBody struct {
	Msg    string                `json:"msg"`
	Errors []goerrors.FieldError `json:"errors,omitempty"`
}

// StatusFor maps an error kind to its HTTP status
func StatusFor(kind Kind) int {
	switch kind {
	case KindInvalidInput, KindConflict:
		return http.StatusUnprocessableEntity
	case KindNotFound, KindInvalidToken:
		return http.StatusNotFound
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorBody builds the response body for err. Internal errors carry the
// generic message only.
func NewErrorBody(err error) ErrorBody {
	body := ErrorBody{Msg: PublicMessage(err)}
	if KindOf(err) != KindInvalidInput {
		return body
	}
	if fields, ok := goerrors.GetValidationErrors(err); ok {
		body.Errors = make([]goerrors.FieldError, 0, len(fields))
		for _, field := range fields {
			body.Errors = append(body.Errors, goerrors.FieldError{
				Field:   field.Field,
				Message: field.Message,
			})
		}
	}
	return body
}

// WriteError answers the request with the status and body for err
func WriteError(c *fiber.Ctx, logger Logger, err error) error {
	return writeError(c, logger, err, StatusFor(KindOf(err)))
}

func writeError(c *fiber.Ctx, logger Logger, err error, status int) error {
	if KindOf(err) == KindInternal {
		normalizeLogger(logger).Error("request failed",
			"method", c.Method(),
			"path", c.Path(),
			"error", err,
		)
	}
	return c.Status(status).JSON(NewErrorBody(err))
}
