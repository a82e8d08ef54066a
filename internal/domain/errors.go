package domain

import "github.com/pkg/errors"

// ErrPairNotFound is reported by the exchange when a queried trading pair
// does not exist. It is a structural fact about the market, not a
// transient fault: callers must never retry it, the price resolver uses
// it to move on to the next quote asset.
var ErrPairNotFound = errors.New("trading pair not found")
