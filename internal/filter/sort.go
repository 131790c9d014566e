package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/amaumene/marquee/internal/models"
)

// SortKey selects the field a listing is ordered by
type SortKey string

const (
	SortNone        SortKey = ""
	SortPopularity  SortKey = "popularity"
	SortRating      SortKey = "rating"
	SortReleaseYear SortKey = "release_year"
	SortTitle       SortKey = "title"
)

// Order is the direction of a sort
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ParseSortKey validates a sort key coming from user input
func ParseSortKey(s string) (SortKey, error) {
	switch key := SortKey(strings.ToLower(strings.TrimSpace(s))); key {
	case SortNone, SortPopularity, SortRating, SortReleaseYear, SortTitle:
		return key, nil
	default:
		return "", fmt.Errorf("%w: unknown sort key %q", models.ErrValidation, s)
	}
}

// ParseOrder validates a sort order; empty means the key's natural order
func ParseOrder(s string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(s))); o {
	case "", OrderAsc, OrderDesc:
		return o, nil
	default:
		return "", fmt.Errorf("%w: unknown order %q", models.ErrValidation, s)
	}
}

// defaultOrder is ascending for titles and descending for numeric keys
func (k SortKey) defaultOrder() Order {
	if k == SortTitle {
		return OrderAsc
	}
	return OrderDesc
}

// Sort returns a sorted copy of records. The sort is stable so equal records
// keep their input order. SortNone returns the records unchanged.
func Sort(records []models.MediaRecord, key SortKey, order Order) []models.MediaRecord {
	out := append([]models.MediaRecord(nil), records...)
	if key == SortNone {
		return out
	}
	if order == "" {
		order = key.defaultOrder()
	}

	less := lessFunc(key)
	sort.SliceStable(out, func(i, j int) bool {
		if order == OrderDesc {
			return less(out[j], out[i])
		}
		return less(out[i], out[j])
	})
	return out
}

func lessFunc(key SortKey) func(a, b models.MediaRecord) bool {
	switch key {
	case SortRating:
		return func(a, b models.MediaRecord) bool { return a.Rating < b.Rating }
	case SortReleaseYear:
		return func(a, b models.MediaRecord) bool { return a.ReleaseYear < b.ReleaseYear }
	case SortTitle:
		return func(a, b models.MediaRecord) bool {
			return strings.ToLower(a.Title) < strings.ToLower(b.Title)
		}
	default:
		return func(a, b models.MediaRecord) bool { return a.Popularity < b.Popularity }
	}
}
