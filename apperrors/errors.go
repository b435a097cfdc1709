package apperrors

import "errors"

// Sentinel errors for the service boundary. Controllers map these to HTTP
// statuses with errors.Is; services wrap them with fmt.Errorf("%w: ...").
var (
	// ErrValidation is a malformed request body.
	ErrValidation = errors.New("invalid request body")

	// ErrStudentExists signals a duplicate matric number on create.
	ErrStudentExists = errors.New("student already exists")

	// ErrNotFound covers an unknown student or a missing credential/challenge.
	ErrNotFound = errors.New("not found")

	// ErrInvalidCredentials covers a wrong matric number or password.
	// Deliberately one error for both so the response does not leak which.
	ErrInvalidCredentials = errors.New("incorrect matric number or password")

	// ErrInvalidToken is the single failure mode for token validation:
	// bad signature, unsplittable claims or expiry all collapse into it.
	ErrInvalidToken = errors.New("could not validate credentials")

	// ErrCeremonyFailed is a WebAuthn verification failure: challenge, origin,
	// rp id, signature or sign counter mismatch.
	ErrCeremonyFailed = errors.New("ceremony verification failed")
)
