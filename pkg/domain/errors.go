package domain

import "errors"

// ErrSessionNotFound is returned when a conversation ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")
