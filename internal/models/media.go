package models

import "fmt"

const (
	PlaceholderImage   = "/placeholder-image.jpg"
	PlaceholderProfile = "/placeholder-profile.jpg"

	// UnknownYear marks a record without a usable release date
	UnknownYear = 0

	UnknownText    = "Unknown"
	NoDescription  = "No description available."
	NoBoxOffice    = "N/A"
	MaxCastMembers = 8
)

// MediaRecord is the normalized representation of a movie or TV show.
// Records are built fresh on every fetch and replaced whole, never patched.
type MediaRecord struct {
	ID          int       `json:"id"`
	Type        MediaType `json:"media_type"`
	Title       string    `json:"title"`
	PosterURL   string    `json:"poster_url"`
	BackdropURL string    `json:"backdrop_url"`
	Rating      float64   `json:"rating"` // 0..10
	Popularity  float64   `json:"popularity"`
	GenreIDs    []int     `json:"genre_ids"`
	GenreNames  []string  `json:"genres,omitempty"`
	ReleaseYear int       `json:"release_year"` // UnknownYear when absent
	ReleaseDate string    `json:"release_date"`
	Overview    string    `json:"overview"`

	// Detail-only fields, left zero on listing records
	Cast           []CastMember `json:"cast,omitempty"`
	TrailerKey     string       `json:"trailer_key,omitempty"`
	Director       string       `json:"director,omitempty"`
	RuntimeMinutes int          `json:"runtime_minutes"`
	Duration       string       `json:"duration,omitempty"`
	Language       string       `json:"language,omitempty"`
	Country        string       `json:"country,omitempty"`
	BoxOffice      string       `json:"box_office,omitempty"`
}

// Key returns the identity of the record
func (r MediaRecord) Key() MediaKey {
	return MediaKey{ID: r.ID, Type: r.Type}
}

// HasGenre reports whether the record is tagged with the genre id
func (r MediaRecord) HasGenre(id int) bool {
	for _, g := range r.GenreIDs {
		if g == id {
			return true
		}
	}
	return false
}

// CastMember is one credited actor of a media record
type CastMember struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Character  string `json:"character"`
	ProfileURL string `json:"profile_url"`
}

// Person is an entry of the popular people feed
type Person struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Department  string   `json:"known_for_department"`
	ProfileURL  string   `json:"profile_url"`
	ProfilePath string   `json:"profile_path,omitempty"`
	KnownFor    []string `json:"known_for,omitempty"`
}

// Favorite converts the person into the shape stored in favorites
func (p Person) Favorite() FavoriteActor {
	return FavoriteActor{
		ID:         p.ID,
		Name:       p.Name,
		Department: p.Department,
		ProfileURL: p.ProfileURL,
	}
}

// FavoriteActor is a cast member bookmarked by the user. Unique by ID.
type FavoriteActor struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Department string `json:"known_for_department"`
	ProfileURL string `json:"profile_path"`
}

// Genre is a provider genre
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// NavigationKind is the kind of navigation the core asks the routing layer for
type NavigationKind string

const (
	NavigateDetail NavigationKind = "detail"
)

// NavigationIntent is an abstract "go to" action; the routing layer owns URL syntax
type NavigationIntent struct {
	Kind NavigationKind `json:"kind"`
	Key  MediaKey       `json:"key"`
}

// DetailIntent asks the routing layer to open the detail view of key
func DetailIntent(key MediaKey) NavigationIntent {
	return NavigationIntent{Kind: NavigateDetail, Key: key}
}

// Path is the path of the HTTP resource backing the intent
func (n NavigationIntent) Path() string {
	return fmt.Sprintf("/api/%s/%d", n.Key.Type, n.Key.ID)
}
