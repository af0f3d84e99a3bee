package game

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/floorstats/tracker/internal/storage"
)

var ErrNotFound = errors.New("game not found")

// Repository owns the games collection: one JSON array file holding every
// game, fronted by a single-slot cache. It is constructed once at startup
// and injected wherever games are read or written.
type Repository struct {
	path   string
	cache  *Cache
	logger *slog.Logger
}

func NewRepository(path string, logger *slog.Logger) *Repository {
	return &Repository{
		path:   path,
		cache:  NewCache(),
		logger: logger,
	}
}

// Load returns the full games collection, from cache when the underlying
// file is unchanged. An absent file is an empty collection; a corrupt one
// is an error; silently resetting it would destroy real data.
func (r *Repository) Load() ([]Game, error) {
	if games, ok := r.cache.Get(r.path); ok {
		return games, nil
	}

	var games []Game
	err := storage.ReadJSON(r.path, &games)
	switch {
	case errors.Is(err, os.ErrNotExist):
		r.logger.Debug("games file absent, starting empty", "path", r.path)
		games = []Game{}
	case err != nil:
		return nil, fmt.Errorf("loading games: %w", err)
	}
	if games == nil {
		games = []Game{}
	}

	r.cache.Set(r.path, games)
	return games, nil
}

// Save writes the whole collection atomically, then repopulates the cache
// with the same value so subsequent in-process reads skip the file.
func (r *Repository) Save(games []Game) error {
	if err := storage.WriteJSON(r.path, games); err != nil {
		return fmt.Errorf("saving games: %w", err)
	}
	r.cache.Invalidate()
	r.cache.Set(r.path, games)
	return nil
}

// Delete removes the game with the given id and persists the collection.
func (r *Repository) Delete(id int) error {
	games, err := r.Load()
	if err != nil {
		return err
	}
	if FindByID(games, id) == nil {
		return ErrNotFound
	}

	kept := make([]Game, 0, len(games)-1)
	for _, g := range games {
		if g.ID != id {
			kept = append(kept, g)
		}
	}
	return r.Save(kept)
}

// FindByID returns a pointer into games for the first game with the given
// id, or nil when absent.
func FindByID(games []Game, id int) *Game {
	for i := range games {
		if games[i].ID == id {
			return &games[i]
		}
	}
	return nil
}

// NextID returns the id for a newly created game: max existing id + 1,
// or 0 for an empty collection.
func NextID(games []Game) int {
	maxID := -1
	for _, g := range games {
		if g.ID > maxID {
			maxID = g.ID
		}
	}
	return maxID + 1
}

// EnsureIDs assigns a fresh id to every game whose id is missing (decoded
// as -1) or collides with one seen earlier in the list. Fresh ids continue
// from the running maximum, so the pass is idempotent: a second call
// changes nothing. Reports whether any game was touched.
func EnsureIDs(games []Game) bool {
	maxID := -1
	for _, g := range games {
		if g.ID > maxID {
			maxID = g.ID
		}
	}

	changed := false
	seen := make(map[int]struct{}, len(games))
	for i := range games {
		id := games[i].ID
		_, dup := seen[id]
		if id < 0 || dup {
			maxID++
			games[i].ID = maxID
			changed = true
		}
		seen[games[i].ID] = struct{}{}
	}
	return changed
}
