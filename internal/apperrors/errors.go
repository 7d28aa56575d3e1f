package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrNotStable indicates that a weighing was attempted while the scale reading was unstable.
var ErrNotStable = errors.New("scale reading not stable")

// ErrNotPending indicates that a second weigh targeted a transaction that is no longer PENDING.
var ErrNotPending = errors.New("transaction not pending")

// ErrScaleConnection indicates that the serial link to the scale could not be opened or dropped.
// It is fatal for the current session; the source does not retry.
var ErrScaleConnection = errors.New("scale connection error")
