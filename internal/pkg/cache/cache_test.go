package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStore_SetGet(t *testing.T) {
	s := New[string, int](time.Minute)
	s.Set("all", 7)

	got, ok := s.Get("all")
	assert.True(t, ok)
	assert.Equal(t, 7, got)
}

func TestStore_MissOnUnknownKey(t *testing.T) {
	s := New[string, int](time.Minute)

	_, ok := s.Get("missing")
	assert.False(t, ok)
}

func TestStore_ExpiresAfterTTL(t *testing.T) {
	s := New[string, string](time.Minute)
	current := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return current }

	s.Set("all", "cached")

	current = current.Add(59 * time.Second)
	_, ok := s.Get("all")
	assert.True(t, ok)

	current = current.Add(2 * time.Second)
	_, ok = s.Get("all")
	assert.False(t, ok)
}

func TestStore_Invalidate(t *testing.T) {
	s := New[string, int](time.Minute)
	s.Set("all", 1)
	s.Invalidate("all")

	_, ok := s.Get("all")
	assert.False(t, ok)
}

func TestStore_InvalidateAll(t *testing.T) {
	s := New[string, int](time.Minute)
	s.Set("a", 1)
	s.Set("b", 2)
	s.InvalidateAll()

	_, okA := s.Get("a")
	_, okB := s.Get("b")
	assert.False(t, okA)
	assert.False(t, okB)
}
