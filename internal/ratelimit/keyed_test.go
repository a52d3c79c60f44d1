package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewInvalidArgs(t *testing.T) {
	assert.Nil(t, New(0, 10, time.Minute))
	assert.Nil(t, New(-1, 10, time.Minute))
	assert.Nil(t, New(5, 0, time.Minute))
	assert.NotNil(t, New(5, 10, time.Minute))
}

func TestNilLimiterAllowsEverything(t *testing.T) {
	var l *KeyLimiter
	now := time.Now()
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("10.0.0.1", now))
	}
}

func TestAllowBurstThenBlocks(t *testing.T) {
	l := New(1, 3, time.Minute)
	now := time.Now()

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1", now), "request %d within burst", i)
	}
	assert.False(t, l.Allow("10.0.0.1", now), "request past burst")
}

func TestAllowRefillsOverTime(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Now()

	assert.True(t, l.Allow("10.0.0.1", now))
	assert.False(t, l.Allow("10.0.0.1", now))
	assert.True(t, l.Allow("10.0.0.1", now.Add(time.Second)))
}

func TestKeysAreIndependent(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Now()

	assert.True(t, l.Allow("10.0.0.1", now))
	assert.False(t, l.Allow("10.0.0.1", now))
	assert.True(t, l.Allow("10.0.0.2", now))
}

func TestEmptyKeyAllowed(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Now()

	for i := 0; i < 10; i++ {
		assert.True(t, l.Allow("", now))
		assert.True(t, l.Allow("   ", now))
	}
}

func TestIdleEviction(t *testing.T) {
	l := New(1, 1, time.Minute)
	now := time.Now()

	assert.True(t, l.Allow("10.0.0.1", now))
	assert.False(t, l.Allow("10.0.0.1", now))

	// Drive enough hits on another key to cross the eviction sweep with
	// the first key idle past its TTL.
	later := now.Add(2 * time.Minute)
	for i := 0; i < evictEvery; i++ {
		l.Allow("10.0.0.2", later)
	}

	// The first key's bucket was evicted, so its burst is fresh again.
	assert.True(t, l.Allow("10.0.0.1", later))
}
