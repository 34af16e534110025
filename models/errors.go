package models

import "errors"

// Engine error taxonomy. Validation and timing errors are returned to the
// caller and never logged as incidents; funds errors come from the wallet
// collaborator and are surfaced verbatim.
var (
	// Validation
	ErrInvalidStake       = errors.New("stake outside configured bounds")
	ErrInvalidAutoCashOut = errors.New("auto cash-out target must be greater than 1.0")
	ErrInvalidPlayer      = errors.New("player id must not be empty")

	// Timing
	ErrRoundNotAcceptingBets = errors.New("round is not accepting bets")
	ErrRoundAlreadyCrashed   = errors.New("round already crashed")
	ErrBetAlreadySettled     = errors.New("bet already settled")
	ErrBetNotFound           = errors.New("bet not found")

	// Funds
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Internal
	ErrEngineStopped = errors.New("engine stopped")
)
