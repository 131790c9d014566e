package models

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisPreferencesRoundTrip(t *testing.T) {
	srv := miniredis.RunT(t)
	ctx := context.Background()

	prefs, err := NewRedisPreferences(ctx, srv.Addr(), "", 0)
	require.NoError(t, err)
	defer prefs.Close()

	var out []FavoriteActor
	found, err := prefs.LoadPreference(ctx, "favoriteActors", &out)
	require.NoError(t, err)
	assert.False(t, found)

	in := []FavoriteActor{{ID: 3, Name: "Harrison Ford", Department: "Acting"}}
	require.NoError(t, prefs.SavePreference(ctx, "favoriteActors", in))
	assert.True(t, srv.Exists("marquee:pref:favoriteActors"))

	found, err = prefs.LoadPreference(ctx, "favoriteActors", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	require.NoError(t, prefs.DeletePreference(ctx, "favoriteActors"))
	assert.False(t, srv.Exists("marquee:pref:favoriteActors"))
}

func TestRedisPreferencesConnectFailure(t *testing.T) {
	srv := miniredis.RunT(t)
	addr := srv.Addr()
	srv.Close()

	_, err := NewRedisPreferences(context.Background(), addr, "", 0)
	assert.Error(t, err)
}
