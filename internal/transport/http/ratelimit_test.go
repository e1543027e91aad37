package http

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/light-bringer/procat-web/internal/pkg/clock"
)

func TestLocalLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("limits each key separately", func(t *testing.T) {
		l := newLocalLimiter(2, clock.NewMockClock(now))

		assert.True(t, l.Allow(ctx, "10.0.0.1"))
		assert.True(t, l.Allow(ctx, "10.0.0.1"))
		assert.False(t, l.Allow(ctx, "10.0.0.1"))
		assert.True(t, l.Allow(ctx, "10.0.0.2"))
	})

	t.Run("refills over a minute", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		l := newLocalLimiter(2, clk)

		assert.True(t, l.Allow(ctx, "ip"))
		assert.True(t, l.Allow(ctx, "ip"))
		assert.False(t, l.Allow(ctx, "ip"))

		clk.Advance(30 * time.Second)
		assert.True(t, l.Allow(ctx, "ip"))
	})

	t.Run("drops idle keys", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		l := newLocalLimiter(5, clk)

		for i := 0; i < 100; i++ {
			l.Allow(ctx, fmt.Sprintf("10.0.0.%d", i))
		}
		assert.Equal(t, 100, l.size())

		clk.Advance(localIdleTTL)
		assert.True(t, l.Allow(ctx, "10.0.1.1"))
		assert.Equal(t, 1, l.size())
	})

	t.Run("keeps recently used keys", func(t *testing.T) {
		clk := clock.NewMockClock(now)
		l := newLocalLimiter(1, clk)

		l.Allow(ctx, "busy")
		clk.Advance(localIdleTTL - time.Second)
		l.Allow(ctx, "other")
		clk.Advance(time.Second)

		assert.False(t, l.Allow(ctx, "other"), "other was seen a second ago and is still limited")
		assert.Equal(t, 1, l.size())
	})
}
