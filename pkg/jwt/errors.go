package jwt

import "errors"

var (
	// ErrMissingSigningKey is returned when a service is created without a key.
	ErrMissingSigningKey = errors.New("jwt: missing signing key")

	// ErrMissingClaims is returned when Generate is called with nil claims.
	ErrMissingClaims = errors.New("jwt: missing claims")

	// ErrInvalidToken is returned for malformed or temporally invalid tokens.
	ErrInvalidToken = errors.New("jwt: invalid token")

	// ErrExpiredToken is returned when the exp claim is in the past.
	ErrExpiredToken = errors.New("jwt: token expired")

	// ErrInvalidSignature is returned when signature verification fails.
	ErrInvalidSignature = errors.New("jwt: invalid signature")

	// ErrUnexpectedSigningMethod is returned when the alg header is not HS256.
	ErrUnexpectedSigningMethod = errors.New("jwt: unexpected signing method")
)
