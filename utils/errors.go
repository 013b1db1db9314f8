package utils

import "errors"

// Error taxonomy recovered at the controller boundary. Internal store and
// signature errors are translated into these once; raw causes go to the logs
// only.
var (
	// ErrTokenMissing: a table token was required but absent (401).
	ErrTokenMissing = errors.New("token required")

	// ErrTokenInvalid covers malformed, badly signed and expired tokens.
	// Guests get one message for all three; logs keep the distinction (401).
	ErrTokenInvalid = errors.New("this code is no longer valid")

	// ErrRestaurantScope: no restaurant scope could be resolved from either a
	// verified token or an authenticated staff session (400).
	ErrRestaurantScope = errors.New("restaurant required")

	// ErrUpstreamScoring: the popularity computation failed. Listings abort
	// rather than degrade to an unranked result (500).
	ErrUpstreamScoring = errors.New("failed to compute menu popularity")

	// ErrNotFound: the referenced row does not exist or belongs to another
	// restaurant (404).
	ErrNotFound = errors.New("resource not found")
)
