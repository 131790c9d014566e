package utils

import (
	"strings"
	"sync"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/cases"

	"github.com/amaumene/marquee/internal/models"
)

// maxGenreDistance is the largest edit distance accepted for a fuzzy genre match
const maxGenreDistance = 2

// GenreResolver maps free-text genre names to provider genre ids
type GenreResolver struct {
	mu     sync.RWMutex
	byName map[string]models.Genre
	byID   map[int]string
}

// NewGenreResolver creates a resolver seeded with genres
func NewGenreResolver(genres ...models.Genre) *GenreResolver {
	r := &GenreResolver{}
	r.Update(genres)
	return r
}

// Update merges genres into the resolver. Movie and TV genre lists share ids
// for the genres they have in common, so merging both is safe.
func (r *GenreResolver) Update(genres []models.Genre) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.byName == nil {
		r.byName = make(map[string]models.Genre)
		r.byID = make(map[int]string)
	}
	for _, g := range genres {
		r.byName[foldGenre(g.Name)] = g
		r.byID[g.ID] = g.Name
	}
}

// Len returns the number of known genres
func (r *GenreResolver) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}

// Resolve returns the genre matching name. Exact case-insensitive matches win;
// otherwise the closest name within a small edit distance is used.
func (r *GenreResolver) Resolve(name string) (models.Genre, bool) {
	folded := foldGenre(name)
	if folded == "" {
		return models.Genre{}, false
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if g, ok := r.byName[folded]; ok {
		return g, true
	}

	var (
		best     models.Genre
		bestDist = maxGenreDistance + 1
	)
	for key, g := range r.byName {
		d := levenshtein.ComputeDistance(folded, key)
		if d < bestDist || (d == bestDist && g.ID < best.ID) {
			best, bestDist = g, d
		}
	}
	if bestDist > maxGenreDistance {
		return models.Genre{}, false
	}
	return best, true
}

// Names returns the names of ids, skipping ids that are not known
func (r *GenreResolver) Names(ids []int) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if name, ok := r.byID[id]; ok {
			names = append(names, name)
		}
	}
	return names
}

func foldGenre(name string) string {
	// Casers keep state, so one is built per call
	return cases.Fold().String(strings.Join(strings.Fields(name), " "))
}
