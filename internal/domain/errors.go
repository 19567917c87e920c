package domain

import "errors"

var (
	// Period errors
	ErrPeriodNotFound       = errors.New("period not found")
	ErrPeriodExists         = errors.New("a period with that year and month already exists")
	ErrPeriodNotConsecutive = errors.New("only the month following the most recent open period can be created")
	ErrOpenPeriodsGap       = errors.New("open periods must be consecutive months")
	ErrPeriodClosed         = errors.New("a closed period cannot be modified")
	ErrPeriodAlreadyClosed  = errors.New("period is already closed")
	ErrPeriodAlreadyOpen    = errors.New("period is already open")
	ErrNoClosedPeriods      = errors.New("there are no closed periods to reopen")
	ErrPeriodHasDependents  = errors.New("cannot delete a record with related data")
	ErrClosedByRequired     = errors.New("closing user is required")

	// Closing errors
	ErrPeriodNotOpen      = errors.New("only an open period may be closed")
	ErrEarlierPeriodsOpen = errors.New("cannot close: earlier periods are still open")
	ErrClosingUnbalanced  = errors.New("closing does not balance")

	// Account errors
	ErrAccountNotFound = errors.New("account not found")
	ErrAccountExists   = errors.New("an account with that code already exists")

	// ErrTechnical replaces unexpected failures at the use-case boundary.
	ErrTechnical = errors.New("a technical error occurred while processing the request")
)
