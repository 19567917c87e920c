package usecase

import "time"

const (
	// OpenPeriodsCacheKey holds the JSON list served by ObtainOpenPeriods.
	OpenPeriodsCacheKey = "periods:open"

	// DefaultOpenPeriodsTTL bounds how stale a cached open-period list may be.
	DefaultOpenPeriodsTTL = 30 * time.Second
)

// Outcome labels reported to the Observer.
const (
	OutcomeSuccess    = "success"
	OutcomeRejected   = "rejected"
	OutcomeUnbalanced = "unbalanced"
	OutcomeError      = "error"
)
