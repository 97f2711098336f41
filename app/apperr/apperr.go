// Package apperr defines the domain error sentinels the controllers map
// onto HTTP status codes.
package apperr

import "errors"

var (
	// ErrNotFound covers any missing record (404).
	ErrNotFound = errors.New("record not found")

	// ErrUnauthenticated signals a missing or invalid identity (401).
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrForbidden signals insufficient privileges (403).
	ErrForbidden = errors.New("forbidden")

	// ErrValidation covers semantically invalid input (422).
	ErrValidation = errors.New("validation failed")

	// ErrUserExists is returned by registration for duplicate
	// username/email (409).
	ErrUserExists = errors.New("user already exists")

	// ErrInvalidCredentials covers bad username/password pairs (401).
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrEmptyCart rejects checkout of an empty or missing cart (400).
	ErrEmptyCart = errors.New("cart is empty")

	// ErrInvalidOtp is returned for a wrong verification code (400).
	ErrInvalidOtp = errors.New("invalid otp")

	// ErrOtpExpired is returned for a correct but stale code (400).
	ErrOtpExpired = errors.New("otp expired")

	// ErrInvalidRating rejects ratings outside 1..5 (422).
	ErrInvalidRating = errors.New("rating must be between 1 and 5")
)

// Wrap annotates err with a domain sentinel so errors.Is works through
// the service boundary.
func Wrap(sentinel, err error) error {
	if err == nil {
		return sentinel
	}
	return errors.Join(sentinel, err)
}
