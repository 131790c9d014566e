package stores

import (
	"context"
	"fmt"
	"sync"

	"github.com/amaumene/marquee/internal/models"
)

// FavoriteActorsKey is the preference key holding the favorite actors array
const FavoriteActorsKey = "favoriteActors"

// Preferences is a durable key to JSON value store
type Preferences interface {
	LoadPreference(ctx context.Context, key string, dst interface{}) (bool, error)
	SavePreference(ctx context.Context, key string, value interface{}) error
	DeletePreference(ctx context.Context, key string) error
}

// Favorites keeps the favorite actors in the preference store. Actors are
// unique by id and kept in the order they were added.
type Favorites struct {
	mu    sync.Mutex
	prefs Preferences
}

// NewFavorites creates a favorites store backed by prefs
func NewFavorites(prefs Preferences) *Favorites {
	return &Favorites{prefs: prefs}
}

// List returns every favorite actor
func (f *Favorites) List(ctx context.Context) ([]models.FavoriteActor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	return f.load(ctx)
}

// Contains reports whether the actor id is a favorite
func (f *Favorites) Contains(ctx context.Context, id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	actors, err := f.load(ctx)
	if err != nil {
		return false, err
	}
	return indexOfActor(actors, id) >= 0, nil
}

// Add stores actor unless its id is already present
func (f *Favorites) Add(ctx context.Context, actor models.FavoriteActor) ([]models.FavoriteActor, error) {
	if actor.ID <= 0 {
		return nil, fmt.Errorf("%w: actor id must be positive", models.ErrValidation)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	actors, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	if indexOfActor(actors, actor.ID) >= 0 {
		return actors, nil
	}
	if actor.ProfileURL == "" {
		actor.ProfileURL = models.PlaceholderProfile
	}

	actors = append(actors, actor)
	if err := f.save(ctx, actors); err != nil {
		return nil, err
	}
	return actors, nil
}

// Remove deletes the actor id; removing an unknown id is a no-op
func (f *Favorites) Remove(ctx context.Context, id int) ([]models.FavoriteActor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	actors, err := f.load(ctx)
	if err != nil {
		return nil, err
	}
	i := indexOfActor(actors, id)
	if i < 0 {
		return actors, nil
	}

	actors = append(actors[:i], actors[i+1:]...)
	if err := f.save(ctx, actors); err != nil {
		return nil, err
	}
	return actors, nil
}

// Clear removes every favorite actor
func (f *Favorites) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.prefs.DeletePreference(ctx, FavoriteActorsKey); err != nil {
		return fmt.Errorf("failed to clear favorite actors: %w", err)
	}
	return nil
}

// Toggle adds the actor when absent and removes it when present. It returns
// whether the actor is a favorite afterwards.
func (f *Favorites) Toggle(ctx context.Context, actor models.FavoriteActor) (bool, error) {
	if actor.ID <= 0 {
		return false, fmt.Errorf("%w: actor id must be positive", models.ErrValidation)
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	actors, err := f.load(ctx)
	if err != nil {
		return false, err
	}

	if i := indexOfActor(actors, actor.ID); i >= 0 {
		actors = append(actors[:i], actors[i+1:]...)
		return false, f.save(ctx, actors)
	}

	if actor.ProfileURL == "" {
		actor.ProfileURL = models.PlaceholderProfile
	}
	actors = append(actors, actor)
	return true, f.save(ctx, actors)
}

func (f *Favorites) load(ctx context.Context) ([]models.FavoriteActor, error) {
	var actors []models.FavoriteActor
	if _, err := f.prefs.LoadPreference(ctx, FavoriteActorsKey, &actors); err != nil {
		return nil, fmt.Errorf("failed to load favorite actors: %w", err)
	}
	if actors == nil {
		actors = []models.FavoriteActor{}
	}
	return actors, nil
}

func (f *Favorites) save(ctx context.Context, actors []models.FavoriteActor) error {
	if err := f.prefs.SavePreference(ctx, FavoriteActorsKey, actors); err != nil {
		return fmt.Errorf("failed to save favorite actors: %w", err)
	}
	return nil
}

func indexOfActor(actors []models.FavoriteActor, id int) int {
	for i, a := range actors {
		if a.ID == id {
			return i
		}
	}
	return -1
}
