package stores

import (
	"sync"
	"time"

	"github.com/amaumene/marquee/internal/models"
)

// Watchlist is the in-memory saved-for-later list. At most one entry exists
// per media key and entries keep their insertion order. Every call is atomic;
// mutations return a snapshot of the list after the change.
type Watchlist struct {
	mu      sync.RWMutex
	entries []models.WatchlistEntry
	now     func() time.Time
}

// NewWatchlist creates an empty watchlist
func NewWatchlist() *Watchlist {
	return &Watchlist{now: time.Now}
}

// Add appends entry unless its key is already present
func (w *Watchlist) Add(entry models.WatchlistEntry) []models.WatchlistEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.add(entry)
	return w.snapshot(nil)
}

// Remove deletes the entry for (id, mediaType). Removing an absent entry is a no-op.
func (w *Watchlist) Remove(id int, mediaType models.MediaType) []models.WatchlistEntry {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.remove(models.NewMediaKey(id, mediaType))
	return w.snapshot(nil)
}

// Toggle adds entry when absent and removes it when present. It returns
// whether the entry is on the list afterwards.
func (w *Watchlist) Toggle(entry models.WatchlistEntry) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.remove(entry.Key()) {
		return false
	}
	w.add(entry)
	return true
}

// Contains reports whether (id, mediaType) is on the list
func (w *Watchlist) Contains(id int, mediaType models.MediaType) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.indexOf(models.NewMediaKey(id, mediaType)) >= 0
}

// List returns the entries in insertion order, optionally only those of one type
func (w *Watchlist) List(mediaType *models.MediaType) []models.WatchlistEntry {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return w.snapshot(mediaType)
}

// Len returns the number of entries
func (w *Watchlist) Len() int {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return len(w.entries)
}

func (w *Watchlist) add(entry models.WatchlistEntry) {
	if w.indexOf(entry.Key()) >= 0 {
		return
	}
	if entry.AddedAt.IsZero() {
		entry.AddedAt = w.now()
	}
	entry.GenreIDs = append([]int(nil), entry.GenreIDs...)
	entry.GenreNames = append([]string(nil), entry.GenreNames...)
	w.entries = append(w.entries, entry)
}

func (w *Watchlist) remove(key models.MediaKey) bool {
	i := w.indexOf(key)
	if i < 0 {
		return false
	}
	w.entries = append(w.entries[:i], w.entries[i+1:]...)
	return true
}

func (w *Watchlist) indexOf(key models.MediaKey) int {
	for i, e := range w.entries {
		if e.Key() == key {
			return i
		}
	}
	return -1
}

func (w *Watchlist) snapshot(mediaType *models.MediaType) []models.WatchlistEntry {
	out := make([]models.WatchlistEntry, 0, len(w.entries))
	for _, e := range w.entries {
		if mediaType != nil && e.MediaType != *mediaType {
			continue
		}
		out = append(out, e)
	}
	return out
}
