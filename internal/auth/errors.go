package auth

import "errors"

var (
	// ErrDuplicateUser is returned when registering an email already on file.
	ErrDuplicateUser = errors.New("user with this email already exists")

	// ErrInvalidCredentials covers both an unknown email and a wrong password.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrInvalidRefreshToken is returned when a refresh token fails
	// verification, its user is gone, or it is no longer the stored one.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrInvalidToken is returned for bad signatures, malformed or expired tokens.
	ErrInvalidToken = errors.New("invalid token")

	// ErrNoToken is returned when a request carries no bearer token.
	ErrNoToken = errors.New("no token provided")

	// ErrMissingSecret is a configuration error: a signing secret is empty.
	ErrMissingSecret = errors.New("token secret is not defined")
)
