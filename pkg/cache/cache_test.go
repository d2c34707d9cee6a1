package cache

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInsertThenGet(t *testing.T) {
	c := New()
	c.Insert("/a.rs", "fn a() {}")
	text, ok := c.Get("/a.rs")
	assert.True(t, ok)
	assert.Equal(t, "fn a() {}", text)
}

func TestGetMissing(t *testing.T) {
	c := New()
	_, ok := c.Get("/missing.rs")
	assert.False(t, ok)
}

func TestInsertReplaces(t *testing.T) {
	c := New()
	c.Insert("/a.rs", "v1")
	c.Insert("/a.rs", "v2")
	text, ok := c.Get("/a.rs")
	assert.True(t, ok)
	assert.Equal(t, "v2", text)
}

func TestInvalidate(t *testing.T) {
	c := New()
	c.Insert("/a.rs", "v1")
	c.Invalidate("/a.rs")
	_, ok := c.Get("/a.rs")
	assert.False(t, ok)
}

func TestConcurrentAccessNeverTorn(t *testing.T) {
	c := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Insert("/a.rs", "fn a() {}")
		}()
		go func() {
			defer wg.Done()
			if text, ok := c.Get("/a.rs"); ok {
				assert.Equal(t, "fn a() {}", text)
			}
		}()
	}
	wg.Wait()
}
