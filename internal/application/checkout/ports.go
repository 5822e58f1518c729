package checkout

import (
	"errors"
	"time"
)

var ErrSessionNotFound = errors.New("checkout: session not found")

// IDGenerator produces session and order identifiers.
type IDGenerator interface {
	NewID() string
}

// Clock is injected so finalize timestamps are deterministic under test.
type Clock func() time.Time

const (
	checkoutService = "checkout-service"
	spanPrefix      = "UC."
	publishPeer     = "outbox"
	publishTimeout  = 300 * time.Millisecond
)
