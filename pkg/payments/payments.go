// Package payments holds the funding step that precedes transaction creation.
// There is no real payment processor behind this marketplace; the step exists
// so the creation flow has the same shape it would with one.
package payments

import (
	"context"
	"time"
)

// Processor funds an escrow amount before the transaction is recorded.
type Processor interface {
	Process(ctx context.Context, amount int64) error
}

// Simulator is a Processor that waits a fixed delay and succeeds. It only
// fails when the caller's context is cancelled mid-wait.
type Simulator struct {
	Delay time.Duration
}

// Make sure we conform to the interface
var _ Processor = (*Simulator)(nil)

func (s *Simulator) Process(ctx context.Context, amount int64) error {
	if s.Delay <= 0 {
		return nil
	}

	timer := time.NewTimer(s.Delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
