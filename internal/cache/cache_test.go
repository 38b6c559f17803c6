package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLCache(t *testing.T) {
	c := New(time.Minute)

	_, ok := c.Get("https://example.com/api")
	assert.False(t, ok)

	c.Set("https://example.com/api", "LONDON", time.Minute)
	v, ok := c.Get("https://example.com/api")
	assert.True(t, ok)
	assert.Equal(t, "LONDON", v)

	c.Clear()
	_, ok = c.Get("https://example.com/api")
	assert.False(t, ok)
}

func TestTTLCache_Expiry(t *testing.T) {
	c := New(time.Minute)

	c.Set("base", "FRANKFURT", 10*time.Millisecond)
	time.Sleep(30 * time.Millisecond)

	_, ok := c.Get("base")
	assert.False(t, ok)
}
