package domain

import "errors"

// Errors returned by the voting core. Callers compare with errors.Is.
var (
	ErrNotFound             = errors.New("vote not found")
	ErrVotingPeriodEnded    = errors.New("voting period ended")
	ErrVotingPeriodNotEnded = errors.New("voting period not ended")
	ErrInvalidStatus        = errors.New("invalid vote status")
	ErrInvalidChoice        = errors.New("invalid vote choice")
	ErrInsufficientBalance  = errors.New("insufficient balance")
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrTallyOverflow        = errors.New("vote tally overflow")
	ErrBalanceOverflow      = errors.New("balance overflow")
	ErrNotAuthorized        = errors.New("not authorized")
)
