package lib

import (
	"testing"
	"time"

	"storefront_server/structs"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test_access_secret"

func strPtr(s string) *string { return &s }

func TestIssueAndParseToken(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

	token, exp, err := IssueToken(7, strPtr("ADMIN"), testSecret, now, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	principal, err := ParseToken(token, testSecret, now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, 7, principal.UserID)
	require.NotNil(t, principal.Role)
	assert.Equal(t, "ADMIN", *principal.Role)
	assert.Equal(t, exp.Unix(), principal.ExpiresAt.Unix())
}

func TestParseToken_NilRole(t *testing.T) {
	now := time.Now()
	token, _, err := IssueToken(3, nil, testSecret, now, time.Hour)
	require.NoError(t, err)

	principal, err := ParseToken(token, testSecret, now)
	require.NoError(t, err)
	assert.Nil(t, principal.Role)
}

func TestParseToken_Expiry(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	token, exp, err := IssueToken(1, nil, testSecret, now, time.Hour)
	require.NoError(t, err)

	// exp equal to now is already expired
	_, err = ParseToken(token, testSecret, exp)
	assert.ErrorIs(t, err, ErrExpiredToken)
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = ParseToken(token, testSecret, exp.Add(time.Second))
	assert.ErrorIs(t, err, ErrExpiredToken)

	_, err = ParseToken(token, testSecret, exp.Add(-time.Second))
	assert.NoError(t, err)
}

func TestParseToken_WrongSecret(t *testing.T) {
	now := time.Now()
	token, _, err := IssueToken(1, nil, testSecret, now, time.Hour)
	require.NoError(t, err)

	_, err = ParseToken(token, "other_secret", now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_RejectsOtherAlgorithms(t *testing.T) {
	now := time.Now()
	claims := jwt.MapClaims{"sub": 1, "role": "ADMIN", "exp": now.Add(time.Hour).Unix()}

	hs256, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	_, err = ParseToken(hs256, testSecret, now)
	assert.ErrorIs(t, err, ErrInvalidToken)

	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)
	_, err = ParseToken(none, testSecret, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseToken_InvalidClaims(t *testing.T) {
	now := time.Now()
	exp := now.Add(time.Hour).Unix()

	tests := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"missing sub", jwt.MapClaims{"exp": exp}},
		{"string sub", jwt.MapClaims{"sub": "7", "exp": exp}},
		{"fractional sub", jwt.MapClaims{"sub": 1.5, "exp": exp}},
		{"zero sub", jwt.MapClaims{"sub": 0, "exp": exp}},
		{"numeric role", jwt.MapClaims{"sub": 1, "role": 5, "exp": exp}},
		{"missing exp", jwt.MapClaims{"sub": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, tt.claims).SignedString([]byte(testSecret))
			require.NoError(t, err)

			_, err = ParseToken(signed, testSecret, now)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := ParseToken("not.a.token", testSecret, time.Now())
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearerToken(t *testing.T) {
	token, err := ExtractBearerToken("Bearer abc.def.ghi")
	require.NoError(t, err)
	assert.Equal(t, "abc.def.ghi", token)

	for _, header := range []string{"", "abc.def.ghi", "Basic dXNlcjpwYXNz", "Bearer ", "bearer abc"} {
		_, err := ExtractBearerToken(header)
		assert.ErrorIs(t, err, ErrMissingToken, "header %q", header)
	}
}

func TestRegistrationToken(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	pending := &structs.PendingRegistration{
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$argon2id$v=19$m=65536,t=1,p=4$c2FsdA$aGFzaA",
		FirstName:    strPtr("Alice"),
	}

	token, err := IssueRegistrationToken(pending, "reg_secret", now, 5*time.Minute)
	require.NoError(t, err)

	got, err := ParseRegistrationToken(token, "reg_secret", now.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, pending.Username, got.Username)
	assert.Equal(t, pending.Email, got.Email)
	assert.Equal(t, pending.PasswordHash, got.PasswordHash)
	require.NotNil(t, got.FirstName)
	assert.Equal(t, "Alice", *got.FirstName)
	assert.Nil(t, got.LastName)
	assert.Nil(t, got.PhoneNumber)

	_, err = ParseRegistrationToken(token, "reg_secret", now.Add(10*time.Minute))
	assert.ErrorIs(t, err, ErrExpiredToken)

	// an access token secret does not open a registration token
	_, err = ParseRegistrationToken(token, testSecret, now)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
