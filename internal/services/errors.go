package services

import "errors"

var (
	// ErrStudentNotFound is returned when no student matches the id or handle.
	ErrStudentNotFound = errors.New("student not found")
	// ErrHandleNotFound is returned when Codeforces has no profile for the handle.
	ErrHandleNotFound = errors.New("codeforces handle not found")
	// ErrFetchFailed wraps network or decode failures against the Codeforces API.
	ErrFetchFailed = errors.New("codeforces fetch failed")
	// ErrPersistenceFailed wraps a reconciliation transaction that could not commit.
	ErrPersistenceFailed = errors.New("reconciliation could not be persisted")

	ErrUserNotFound       = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDuplicateStudent = errors.New("student with this email or handle already exists")
	ErrValidationFailed = errors.New("validation failed")
)
