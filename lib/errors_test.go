package lib

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"nil", nil, http.StatusOK},
		{"expired token", ErrExpiredToken, http.StatusUnauthorized},
		{"not admin", ErrNotAdmin, http.StatusUnauthorized},
		{"not found", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load product: %w", ErrNotFound), http.StatusNotFound},
		{"bad request", BadRequest("position must be at least 1"), http.StatusBadRequest},
		{"email taken", ErrEmailTaken, http.StatusConflict},
		{"conflict", ErrConflict, http.StatusConflict},
		{"database", Database(errors.New("connection reset")), http.StatusInternalServerError},
		{"internal", ErrInternal, http.StatusInternalServerError},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _ := HTTPStatus(tt.err)
			assert.Equal(t, tt.code, code)
		})
	}
}

func TestHTTPStatus_BadRequestMessage(t *testing.T) {
	_, msg := HTTPStatus(BadRequest("item %d: quantity must be at least 1", 2))
	assert.Equal(t, "item 2: quantity must be at least 1", msg)

	// a foreign key violation inside a failed transaction is still the caller's fault
	wrapped := Database(fmt.Errorf("insert item 1: %w", MapPgError(&pgconn.PgError{Code: "23503"})))
	code, msg := HTTPStatus(wrapped)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "referenced record does not exist", msg)
}

func TestMapPgError(t *testing.T) {
	assert.Nil(t, MapPgError(nil))
	assert.ErrorIs(t, MapPgError(sql.ErrNoRows), ErrNotFound)
	assert.ErrorIs(t, MapPgError(fmt.Errorf("scan: %w", sql.ErrNoRows)), ErrNotFound)

	assert.ErrorIs(t, MapPgError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}), ErrEmailTaken)
	assert.ErrorIs(t, MapPgError(&pgconn.PgError{Code: "23505", ConstraintName: "users_phone_number_key"}), ErrPhoneTaken)
	assert.ErrorIs(t, MapPgError(&pgconn.PgError{Code: "23505", ConstraintName: "users_username_key"}), ErrUsernameTaken)
	assert.ErrorIs(t, MapPgError(&pgconn.PgError{Code: "23505", ConstraintName: "categories_name_key"}), ErrConflict)
	assert.ErrorIs(t, MapPgError(&pgconn.PgError{Code: "23503"}), ErrBadRequest)

	other := MapPgError(&pgconn.PgError{Code: "23514"})
	assert.ErrorIs(t, other, ErrDatabase)

	// already classified errors pass through
	assert.Equal(t, ErrNotAdmin, MapPgError(ErrNotAdmin))
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(ErrConflict))
	assert.True(t, IsUniqueViolation(ErrPhoneTaken))
	assert.False(t, IsUniqueViolation(ErrNotFound))
}
