package game

import (
	"os"
	"sync"
	"time"
)

// Cache is a single-slot memoization of the parsed games collection.
// There is exactly one games file per deployment, so it holds at most one
// generation of data, validated against the file's modification time.
type Cache struct {
	mu    sync.Mutex
	games []Game
	mtime time.Time
	valid bool
}

func NewCache() *Cache {
	return &Cache{}
}

// Get returns the cached collection if the file at path has not been
// modified since it was stored. On a miss the slot is cleared.
func (c *Cache) Get(path string) ([]Game, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.valid {
		return nil, false
	}

	info, err := os.Stat(path)
	if err != nil || !info.ModTime().Equal(c.mtime) {
		c.games = nil
		c.valid = false
		return nil, false
	}
	return c.games, true
}

// Set stores games along with the file's current modification time. If
// the mtime cannot be read nothing is cached.
func (c *Cache) Set(path string, games []Game) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		c.games = nil
		c.valid = false
		return
	}
	c.games = games
	c.mtime = info.ModTime()
	c.valid = true
}

// Invalidate unconditionally clears the slot. Every save path must call
// it so the cache and the file never diverge.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.games = nil
	c.valid = false
}
