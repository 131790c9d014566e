// Package filter narrows, orders and pages lists of media records. Every
// function here is pure: inputs are never modified and the same inputs
// always give the same output.
package filter

import (
	"fmt"
	"math"

	"github.com/amaumene/marquee/internal/models"
)

const (
	MinRating = 0.0
	MaxRating = 10.0
)

// RatingRange is an inclusive rating interval
type RatingRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Contains reports whether r lies in the range, bounds included
func (rr RatingRange) Contains(r float64) bool {
	return r >= rr.Min && r <= rr.Max
}

// Spec is the active genre, year and rating constraint of a list view.
// Nil Genre or Year means the predicate is not applied.
type Spec struct {
	Genre  *int        `json:"genre,omitempty"`
	Year   *int        `json:"year,omitempty"`
	Rating RatingRange `json:"rating_range"`
}

// DefaultSpec matches every record
func DefaultSpec() Spec {
	return Spec{Rating: RatingRange{Min: MinRating, Max: MaxRating}}
}

// WithGenre returns a copy of s filtering on genre id
func (s Spec) WithGenre(id int) Spec {
	s.Genre = &id
	return s
}

// WithYear returns a copy of s filtering on an exact release year
func (s Spec) WithYear(year int) Spec {
	s.Year = &year
	return s
}

// WithRating returns a copy of s with the rating range [min, max]
func (s Spec) WithRating(min, max float64) Spec {
	s.Rating = RatingRange{Min: min, Max: max}
	return s
}

// Normalize clamps both rating bounds to [0, 10]
func (s Spec) Normalize() Spec {
	s.Rating.Min = clamp(s.Rating.Min)
	s.Rating.Max = clamp(s.Rating.Max)
	return s
}

// Validate rejects non-numeric or inverted rating ranges and ids or years
// that cannot exist
func (s Spec) Validate() error {
	if !finite(s.Rating.Min) || !finite(s.Rating.Max) {
		return fmt.Errorf("%w: rating bounds must be numbers", models.ErrValidation)
	}
	if s.Rating.Min > s.Rating.Max {
		return fmt.Errorf("%w: min rating %.1f is above max rating %.1f", models.ErrValidation, s.Rating.Min, s.Rating.Max)
	}
	if s.Year != nil && *s.Year <= 0 {
		return fmt.Errorf("%w: year must be positive", models.ErrValidation)
	}
	if s.Genre != nil && *s.Genre <= 0 {
		return fmt.Errorf("%w: genre id must be positive", models.ErrValidation)
	}
	return nil
}

// Matches reports whether r satisfies every predicate of s
func (s Spec) Matches(r models.MediaRecord) bool {
	if s.Genre != nil && !r.HasGenre(*s.Genre) {
		return false
	}
	if s.Year != nil && r.ReleaseYear != *s.Year {
		return false
	}
	return s.Rating.Contains(r.Rating)
}

// Apply returns the records matching spec in their original order. An empty
// result is valid.
func Apply(records []models.MediaRecord, spec Spec) []models.MediaRecord {
	out := make([]models.MediaRecord, 0, len(records))
	for _, r := range records {
		if spec.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func finite(r float64) bool {
	return !math.IsNaN(r) && !math.IsInf(r, 0)
}

func clamp(r float64) float64 {
	if r < MinRating {
		return MinRating
	}
	if r > MaxRating {
		return MaxRating
	}
	return r
}
