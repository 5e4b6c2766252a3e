package domain

import "errors"

// Common domain errors. Handlers map these onto the HTTP surface:
// validation 400, authentication 401, authorization/scope 403,
// not found 404, conflict 409, collaborator failure 502.
var (
	ErrNotFound           = errors.New("resource not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrDuplicateEntry     = errors.New("duplicate entry")
	ErrConflict           = errors.New("operation conflicts with current state")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrExternalService    = errors.New("external service failure")
)

// Account errors
var (
	ErrAccountNotFound      = errors.New("account not found")
	ErrAccountAlreadyExists = errors.New("account already exists")
	ErrAccountInactive      = errors.New("account is inactive")
)

// Workflow errors
var (
	ErrNoLongerPending = errors.New("application is no longer pending")
)
