package service

import (
	"errors"

	"bistro/internal/repository"
)

var (
	// ErrForbidden means the caller's identity does not own the requested data.
	ErrForbidden = errors.New("forbidden access")
	// ErrInvalidID is returned for malformed ObjectIDs in paths or bodies.
	ErrInvalidID = repository.ErrInvalidID
	// ErrAmountOutOfRange is returned for charges the processor cannot represent.
	ErrAmountOutOfRange = errors.New("amount out of range")
)

// checkOwner enforces that actor owns email. An empty actor means the route is
// mounted without a token guard and no identity check applies.
func checkOwner(actor, email string) error {
	if actor != "" && actor != email {
		return ErrForbidden
	}
	return nil
}
