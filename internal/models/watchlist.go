package models

import "time"

// WatchlistEntry is a saved-for-later item. It keeps a snapshot of the record
// taken when it was added so the watchlist page does not need to refetch.
type WatchlistEntry struct {
	MediaID     int       `json:"id"`
	MediaType   MediaType `json:"media_type"`
	Title       string    `json:"title"`
	PosterURL   string    `json:"poster_url"`
	Rating      float64   `json:"rating"`
	GenreIDs    []int     `json:"genre_ids"`
	GenreNames  []string  `json:"genres,omitempty"`
	ReleaseDate string    `json:"release_date"`
	AddedAt     time.Time `json:"added_at"`
}

// Key returns the identity of the entry
func (e WatchlistEntry) Key() MediaKey {
	return MediaKey{ID: e.MediaID, Type: e.MediaType}
}

// EntryFromRecord snapshots a media record into a watchlist entry
func EntryFromRecord(r MediaRecord) WatchlistEntry {
	return WatchlistEntry{
		MediaID:     r.ID,
		MediaType:   r.Type,
		Title:       r.Title,
		PosterURL:   r.PosterURL,
		Rating:      r.Rating,
		GenreIDs:    append([]int(nil), r.GenreIDs...),
		GenreNames:  append([]string(nil), r.GenreNames...),
		ReleaseDate: r.ReleaseDate,
	}
}
