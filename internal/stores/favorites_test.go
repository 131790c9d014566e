package stores

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/marquee/internal/models"
)

func boltPreferences(t *testing.T) Preferences {
	t.Helper()
	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "marquee.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func redisPreferences(t *testing.T) Preferences {
	t.Helper()
	srv := miniredis.RunT(t)
	prefs, err := models.NewRedisPreferences(context.Background(), srv.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { prefs.Close() })
	return prefs
}

func TestFavoritesBackends(t *testing.T) {
	backends := map[string]func(*testing.T) Preferences{
		"bolt":  boltPreferences,
		"redis": redisPreferences,
	}

	for name, open := range backends {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			favs := NewFavorites(open(t))

			list, err := favs.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)

			_, err = favs.Add(ctx, models.FavoriteActor{ID: 287, Name: "Brad Pitt", Department: "Acting"})
			require.NoError(t, err)
			list, err = favs.Add(ctx, models.FavoriteActor{ID: 287, Name: "Duplicate"})
			require.NoError(t, err)
			require.Len(t, list, 1)
			assert.Equal(t, "Brad Pitt", list[0].Name)
			assert.Equal(t, models.PlaceholderProfile, list[0].ProfileURL)

			ok, err := favs.Contains(ctx, 287)
			require.NoError(t, err)
			assert.True(t, ok)

			list, err = favs.Remove(ctx, 999)
			require.NoError(t, err)
			assert.Len(t, list, 1)

			list, err = favs.Remove(ctx, 287)
			require.NoError(t, err)
			assert.Empty(t, list)

			_, err = favs.Add(ctx, models.FavoriteActor{ID: 1136406, Name: "Tom Holland"})
			require.NoError(t, err)
			require.NoError(t, favs.Clear(ctx))
			list, err = favs.List(ctx)
			require.NoError(t, err)
			assert.Empty(t, list)
			require.NoError(t, favs.Clear(ctx))
		})
	}
}

func TestFavoritesPersistAcrossInstances(t *testing.T) {
	ctx := context.Background()
	prefs := boltPreferences(t)

	_, err := NewFavorites(prefs).Add(ctx, models.FavoriteActor{ID: 1, Name: "A"})
	require.NoError(t, err)

	list, err := NewFavorites(prefs).List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "A", list[0].Name)
}

func TestFavoritesToggle(t *testing.T) {
	ctx := context.Background()
	favs := NewFavorites(boltPreferences(t))
	actor := models.FavoriteActor{ID: 5, Name: "E"}

	on, err := favs.Toggle(ctx, actor)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = favs.Toggle(ctx, actor)
	require.NoError(t, err)
	assert.False(t, on)

	ok, err := favs.Contains(ctx, 5)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFavoritesRejectInvalidID(t *testing.T) {
	favs := NewFavorites(boltPreferences(t))

	_, err := favs.Add(context.Background(), models.FavoriteActor{Name: "No id"})
	assert.ErrorIs(t, err, models.ErrValidation)
}

type failingPreferences struct{}

func (failingPreferences) LoadPreference(context.Context, string, interface{}) (bool, error) {
	return false, nil
}

func (failingPreferences) SavePreference(context.Context, string, interface{}) error {
	return errors.New("disk full")
}

func (failingPreferences) DeletePreference(context.Context, string) error {
	return errors.New("disk full")
}

func TestFavoritesSurfaceSaveErrors(t *testing.T) {
	favs := NewFavorites(failingPreferences{})

	list, err := favs.Add(context.Background(), models.FavoriteActor{ID: 1, Name: "A"})
	assert.ErrorContains(t, err, "disk full")
	assert.Nil(t, list)

	assert.ErrorContains(t, favs.Clear(context.Background()), "disk full")
}
