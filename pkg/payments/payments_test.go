package payments

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSimulator(t *testing.T) {
	t.Run("Succeeds After Delay", func(t *testing.T) {
		sim := &Simulator{Delay: 10 * time.Millisecond}

		start := time.Now()
		err := sim.Process(context.Background(), 10000)

		assert.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 10*time.Millisecond)
	})

	t.Run("Zero Delay Returns Immediately", func(t *testing.T) {
		sim := &Simulator{}
		assert.NoError(t, sim.Process(context.Background(), 1))
	})

	t.Run("Cancelled Context Aborts The Wait", func(t *testing.T) {
		sim := &Simulator{Delay: time.Minute}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := sim.Process(ctx, 10000)

		assert.ErrorIs(t, err, context.Canceled)
	})
}
