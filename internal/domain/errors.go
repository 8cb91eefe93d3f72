package domain

import "errors"

var (
	// Entry errors
	ErrEntryNotFound      = errors.New("entry not found")
	ErrSettlementConflict = errors.New("entry has settlement history, cascade required")

	// Settlement errors
	ErrInvalidPolarity  = errors.New("settlement polarity does not match entry polarity")
	ErrOverSettlement   = errors.New("settlement exceeds outstanding amount")
	ErrAlreadySettled   = errors.New("entry is already fully settled")
	ErrNothingToReverse = errors.New("entry has no settlement events to reverse")

	// Access errors
	ErrUnauthorized = errors.New("not authorized")

	// Facade errors
	ErrUnknownCommand = errors.New("unknown command")
)
