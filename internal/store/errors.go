package store

import domainerrors "github.com/laneticket/atari-server/internal/errors"

// Sentinel errors. They carry domain error codes so the API maps them without translation.
var (
	ErrNotFound     = domainerrors.NotFound("resource not found")
	ErrInvalidInput = domainerrors.InvalidInput("invalid input")
)
