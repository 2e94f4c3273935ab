package domain

import "errors"

// Sentinel errors shared across services. Controllers map these to HTTP
// status codes with errors.Is.
var (
	ErrNotFound              = errors.New("resource not found")
	ErrAlreadyExists         = errors.New("resource already exists")
	ErrForbidden             = errors.New("operation not allowed for this user")
	ErrInvalidInput          = errors.New("invalid input")
	ErrEventUnavailable      = errors.New("event is no longer available")
	ErrSelfJoinForbidden     = errors.New("event creator cannot join their own event")
	ErrSelfFriendForbidden   = errors.New("cannot send a friend request to yourself")
	ErrCapacityBelowApproved = errors.New("capacity cannot be less than the number of approved participants")
	ErrDuplicateEmail        = errors.New("email already in use")
	ErrInvalidCredentials    = errors.New("invalid email or password")
)
