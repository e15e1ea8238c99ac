package notify

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWindowRateLimiter_CapsWindow(t *testing.T) {
	limiter := NewWindowRateLimiter(2, time.Hour)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow(), "third attempt in the window is suppressed")
	assert.False(t, limiter.Allow())
}

func TestWindowRateLimiter_WindowReset(t *testing.T) {
	limiter := NewWindowRateLimiter(2, 50*time.Millisecond)

	assert.True(t, limiter.Allow())
	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	time.Sleep(60 * time.Millisecond)

	assert.True(t, limiter.Allow(), "counter resets after the window elapses")
}

func TestWindowRateLimiter_ZeroMaxAlwaysDenies(t *testing.T) {
	limiter := NewWindowRateLimiter(0, 10*time.Millisecond)

	assert.False(t, limiter.Allow())
	time.Sleep(20 * time.Millisecond)
	assert.False(t, limiter.Allow())
}

func TestWindowRateLimiter_Reset(t *testing.T) {
	limiter := NewWindowRateLimiter(1, time.Hour)

	assert.True(t, limiter.Allow())
	assert.False(t, limiter.Allow())

	limiter.Reset()
	assert.True(t, limiter.Allow())
}

func TestWindowRateLimiter_ConcurrentCallers(t *testing.T) {
	limiter := NewWindowRateLimiter(10, time.Hour)

	var wg sync.WaitGroup
	allowed := make(chan bool, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			allowed <- limiter.Allow()
		}()
	}
	wg.Wait()
	close(allowed)

	count := 0
	for ok := range allowed {
		if ok {
			count++
		}
	}
	assert.Equal(t, 10, count, "exactly max slots granted under contention")
}
