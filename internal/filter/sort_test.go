package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/marquee/internal/models"
)

func TestSortByRatingIsStable(t *testing.T) {
	records := []models.MediaRecord{
		record(1, 7, 2000),
		record(2, 9, 2000),
		record(3, 7, 2000),
		record(4, 5, 2000),
	}

	got := Sort(records, SortRating, "")
	assert.Equal(t, []int{2, 1, 3, 4}, ids(got))

	got = Sort(records, SortRating, OrderAsc)
	assert.Equal(t, []int{4, 1, 3, 2}, ids(got))

	assert.Equal(t, []int{1, 2, 3, 4}, ids(records))
}

func TestSortByTitleAndYear(t *testing.T) {
	a := record(1, 0, 2001)
	a.Title = "alien"
	b := record(2, 0, 1999)
	b.Title = "Blade Runner"
	c := record(3, 0, 2010)
	c.Title = "Arrival"

	records := []models.MediaRecord{b, c, a}
	assert.Equal(t, []int{1, 3, 2}, ids(Sort(records, SortTitle, "")))
	assert.Equal(t, []int{3, 1, 2}, ids(Sort(records, SortReleaseYear, "")))
	assert.Equal(t, []int{2, 3, 1}, ids(Sort(records, SortNone, "")))
}

func TestSortByPopularity(t *testing.T) {
	a := record(1, 0, 0)
	a.Popularity = 10
	b := record(2, 0, 0)
	b.Popularity = 50

	assert.Equal(t, []int{2, 1}, ids(Sort([]models.MediaRecord{a, b}, SortPopularity, "")))
}

func TestParseSortKeyAndOrder(t *testing.T) {
	key, err := ParseSortKey(" Rating ")
	require.NoError(t, err)
	assert.Equal(t, SortRating, key)

	_, err = ParseSortKey("budget")
	assert.ErrorIs(t, err, models.ErrValidation)

	order, err := ParseOrder("DESC")
	require.NoError(t, err)
	assert.Equal(t, OrderDesc, order)

	_, err = ParseOrder("sideways")
	assert.ErrorIs(t, err, models.ErrValidation)
}
