package lib

import (
	"errors"
	"fmt"
	"math"
	"storefront_server/structs"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const bearerPrefix = "Bearer "

// ExtractBearerToken returns the token part of an Authorization header value
func ExtractBearerToken(header string) (string, error) {
	if header == "" {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrMissingToken
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

// IssueToken signs an HS512 access token with the {sub, role, exp} payload
func IssueToken(userID int, role *string, secret string, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": userID,
		"exp": exp.Unix(),
	}
	if role != nil {
		claims["role"] = *role
	} else {
		claims["role"] = nil
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(secret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// ParseToken verifies an HS512 token against secret and returns the principal it names.
// The role in the result is whatever the token claims and must not be used for authorization.
func ParseToken(tokenStr string, secret string, now time.Time) (*structs.Principal, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	// Safely extract and validate claims
	subNum, ok := claims["sub"].(float64)
	if !ok || subNum != math.Trunc(subNum) || subNum < 1 || subNum > math.MaxInt32 {
		return nil, fmt.Errorf("%w: invalid sub claim", ErrInvalidToken)
	}

	var role *string
	switch v := claims["role"].(type) {
	case nil:
	case string:
		role = &v
	default:
		return nil, fmt.Errorf("%w: invalid role claim", ErrInvalidToken)
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return nil, fmt.Errorf("%w: invalid exp claim", ErrInvalidToken)
	}
	// exp must lie strictly in the future
	if !exp.Time.After(now) {
		return nil, ErrExpiredToken
	}

	return &structs.Principal{
		UserID:    int(subNum),
		Role:      role,
		ExpiresAt: exp.Time,
	}, nil
}

// IssueRegistrationToken signs the pending account into a short lived HS256 token that is mailed
// to the user. Possession of the token proves control of the email address.
func IssueRegistrationToken(pending *structs.PendingRegistration, secret string, now time.Time, ttl time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"username":      pending.Username,
		"email":         pending.Email,
		"password_hash": pending.PasswordHash,
		"exp":           now.Add(ttl).Unix(),
	}
	if pending.PhoneNumber != nil {
		claims["phone_number"] = *pending.PhoneNumber
	}
	if pending.FirstName != nil {
		claims["first_name"] = *pending.FirstName
	}
	if pending.LastName != nil {
		claims["last_name"] = *pending.LastName
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseRegistrationToken is the inverse of IssueRegistrationToken
func ParseRegistrationToken(tokenStr string, secret string, now time.Time) (*structs.PendingRegistration, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	pending := &structs.PendingRegistration{}
	if pending.Username, ok = claims["username"].(string); !ok || pending.Username == "" {
		return nil, fmt.Errorf("%w: invalid username claim", ErrInvalidToken)
	}
	if pending.Email, ok = claims["email"].(string); !ok || pending.Email == "" {
		return nil, fmt.Errorf("%w: invalid email claim", ErrInvalidToken)
	}
	if pending.PasswordHash, ok = claims["password_hash"].(string); !ok || pending.PasswordHash == "" {
		return nil, fmt.Errorf("%w: invalid password claim", ErrInvalidToken)
	}
	pending.PhoneNumber = optionalString(claims, "phone_number")
	pending.FirstName = optionalString(claims, "first_name")
	pending.LastName = optionalString(claims, "last_name")

	return pending, nil
}

func optionalString(claims jwt.MapClaims, key string) *string {
	if v, ok := claims[key].(string); ok {
		return &v
	}
	return nil
}
