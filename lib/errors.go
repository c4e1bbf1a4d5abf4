package lib

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Taxonomy errors. Everything returned by a service wraps exactly one of these.
var (
	ErrDatabase      = errors.New("database error")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrBadRequest    = errors.New("bad request")
	ErrConflict      = errors.New("conflict")
	ErrEmailTaken    = errors.New("email already in use")
	ErrPhoneTaken    = errors.New("phone number already in use")
	ErrUsernameTaken = errors.New("username already in use")
	ErrInternal      = errors.New("internal server error")
)

// Auth errors, all of them are Unauthorized to the caller
var (
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrExpiredToken       = fmt.Errorf("%w: expired token", ErrUnauthorized)
	ErrMissingToken       = fmt.Errorf("%w: missing bearer token", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
	ErrNotAdmin           = fmt.Errorf("%w: admin role required", ErrUnauthorized)
)

// BadRequest wraps a human readable reason into ErrBadRequest
func BadRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrBadRequest, fmt.Sprintf(format, args...))
}

// Database wraps a storage failure, keeping the cause for logging
func Database(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrDatabase) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrDatabase, err)
}

// MapPgError converts driver errors into the taxonomy. Both pgdriver and pgx report SQLSTATE codes.
// Errors already in the taxonomy pass through unchanged.
func MapPgError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if inTaxonomy(err) {
		return err
	}

	code, constraint := sqlState(err)
	switch code {
	case "23505": // unique_violation
		return conflictFor(constraint)
	case "23503": // foreign_key_violation
		return fmt.Errorf("%w: referenced record does not exist", ErrBadRequest)
	case "P0002": // no_data_found
		return ErrNotFound
	}
	return Database(err)
}

func inTaxonomy(err error) bool {
	for _, target := range []error{ErrDatabase, ErrNotFound, ErrUnauthorized, ErrBadRequest, ErrConflict,
		ErrEmailTaken, ErrPhoneTaken, ErrUsernameTaken, ErrInternal} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func sqlState(err error) (string, string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	var drvErr pgdriver.Error
	if errors.As(err, &drvErr) {
		return drvErr.Field('C'), drvErr.Field('n')
	}
	return "", ""
}

func conflictFor(constraint string) error {
	switch {
	case strings.Contains(constraint, "email"):
		return ErrEmailTaken
	case strings.Contains(constraint, "phone"):
		return ErrPhoneTaken
	case strings.Contains(constraint, "username"):
		return ErrUsernameTaken
	}
	return ErrConflict
}

// HTTPStatus maps an error onto its status code and the message that may be shown to the client
func HTTPStatus(err error) (int, string) {
	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized, "Invalid or missing credentials"
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "The requested resource was not found"
	case errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest, badRequestMessage(err)
	case errors.Is(err, ErrEmailTaken):
		return http.StatusConflict, "This email is already registered"
	case errors.Is(err, ErrPhoneTaken):
		return http.StatusConflict, "This phone number is already registered"
	case errors.Is(err, ErrUsernameTaken):
		return http.StatusConflict, "This username is already taken"
	case errors.Is(err, ErrConflict):
		return http.StatusConflict, "The resource already exists"
	case errors.Is(err, ErrDatabase):
		return http.StatusInternalServerError, "A database error occurred"
	}
	return http.StatusInternalServerError, "Something went wrong"
}

// badRequestMessage keeps what follows the taxonomy prefix, that part was written for the client
func badRequestMessage(err error) string {
	msg := err.Error()
	prefix := ErrBadRequest.Error() + ": "
	i := strings.Index(msg, prefix)
	if i < 0 {
		return "The request is malformed"
	}
	return msg[i+len(prefix):]
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsUniqueViolation(err error) bool {
	return errors.Is(err, ErrConflict) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrPhoneTaken) ||
		errors.Is(err, ErrUsernameTaken)
}
