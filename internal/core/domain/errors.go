package domain

import "errors"

var (
	// ErrNotFound indicates the requested resource does not exist.
	ErrNotFound = errors.New("domain: not found")

	// ErrDecode indicates an input that could not be parsed as audio.
	ErrDecode = errors.New("domain: undecodable audio")

	// ErrFeatureExtraction indicates signal processing failed on a
	// signal that decoded successfully.
	ErrFeatureExtraction = errors.New("domain: feature extraction failed")

	// ErrDuplicateEmail indicates an account already exists for an email.
	ErrDuplicateEmail = errors.New("domain: email already registered")

	// ErrInvalidCredentials indicates a failed login attempt.
	ErrInvalidCredentials = errors.New("domain: invalid credentials")
)
