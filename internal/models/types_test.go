package models

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMediaType(t *testing.T) {
	for in, want := range map[string]MediaType{
		"movie":  MediaTypeMovie,
		"Movies": MediaTypeMovie,
		"tv":     MediaTypeTV,
		" show ": MediaTypeTV,
	} {
		got, err := ParseMediaType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseMediaType("podcast")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestMediaKeyDistinguishesTypes(t *testing.T) {
	movie := NewMediaKey(550, MediaTypeMovie)
	show := NewMediaKey(550, MediaTypeTV)

	assert.NotEqual(t, movie, show)
	assert.Equal(t, "movie:550", movie.String())
	assert.Equal(t, "tv:550", show.String())
}

func TestParseSortCriterionAndVote(t *testing.T) {
	c, err := ParseSortCriterion("")
	require.NoError(t, err)
	assert.Equal(t, SortMostRecent, c)

	c, err = ParseSortCriterion("mostHelpful")
	require.NoError(t, err)
	assert.Equal(t, SortMostHelpful, c)

	_, err = ParseSortCriterion("oldest")
	assert.ErrorIs(t, err, ErrValidation)

	v, err := ParseVoteDirection("down")
	require.NoError(t, err)
	assert.Equal(t, VoteDown, v)

	_, err = ParseVoteDirection("sideways")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUserMessage(t *testing.T) {
	fetchErr := &FetchError{Op: "movie/1", Message: "Failed to fetch reviews.", Err: errors.New("boom")}
	assert.Equal(t, "Failed to fetch reviews.", UserMessage(fmt.Errorf("load: %w", fetchErr)))

	notFound := &NotFoundError{Key: NewMediaKey(1, MediaTypeTV)}
	assert.Equal(t, "This TV show could not be found.", UserMessage(notFound))

	assert.Equal(t, "Something went wrong. Please try again.", UserMessage(errors.New("x")))
}

func TestEntryFromRecordCopiesSlices(t *testing.T) {
	rec := MediaRecord{ID: 7, Type: MediaTypeMovie, Title: "Se7en", GenreIDs: []int{80, 53}}
	entry := EntryFromRecord(rec)
	rec.GenreIDs[0] = 1

	assert.Equal(t, []int{80, 53}, entry.GenreIDs)
	assert.Equal(t, rec.Key(), entry.Key())
}

func TestNavigationIntentPath(t *testing.T) {
	intent := DetailIntent(NewMediaKey(1399, MediaTypeTV))
	assert.Equal(t, NavigateDetail, intent.Kind)
	assert.Equal(t, "/api/tv/1399", intent.Path())
}
