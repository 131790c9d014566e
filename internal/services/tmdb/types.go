package tmdb

import "time"

// pagedResponse is the envelope of every paginated TMDB listing
type pagedResponse[T any] struct {
	Page         int `json:"page"`
	Results      []T `json:"results"`
	TotalPages   int `json:"total_pages"`
	TotalResults int `json:"total_results"`
}

// mediaResult covers both movie and TV payloads. Movies use title and
// release_date, shows use name and first_air_date.
type mediaResult struct {
	ID           int     `json:"id"`
	MediaType    string  `json:"media_type"`
	Title        string  `json:"title"`
	Name         string  `json:"name"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	Popularity   float64 `json:"popularity"`
	GenreIDs     []int   `json:"genre_ids"`
	Genres       []genre `json:"genres"`
	ReleaseDate  string  `json:"release_date"`
	FirstAirDate string  `json:"first_air_date"`
	Overview     string  `json:"overview"`

	// Detail-only fields
	Runtime             int       `json:"runtime"`
	EpisodeRunTime      []int     `json:"episode_run_time"`
	Revenue             int64     `json:"revenue"`
	OriginalLanguage    string    `json:"original_language"`
	ProductionCountries []country `json:"production_countries"`
	Credits             *credits  `json:"credits"`
	Videos              *videos   `json:"videos"`
}

type genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type genreList struct {
	Genres []genre `json:"genres"`
}

type country struct {
	ISO  string `json:"iso_3166_1"`
	Name string `json:"name"`
}

type credits struct {
	Cast []castCredit `json:"cast"`
	Crew []crewCredit `json:"crew"`
}

type castCredit struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Character   string `json:"character"`
	ProfilePath string `json:"profile_path"`
}

type crewCredit struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Job  string `json:"job"`
}

type videos struct {
	Results []video `json:"results"`
}

type video struct {
	Key  string `json:"key"`
	Site string `json:"site"`
	Type string `json:"type"`
}

type imagesResponse struct {
	Backdrops []image `json:"backdrops"`
}

type image struct {
	FilePath string `json:"file_path"`
}

type reviewResult struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type personResult struct {
	ID                 int           `json:"id"`
	Name               string        `json:"name"`
	KnownForDepartment string        `json:"known_for_department"`
	ProfilePath        string        `json:"profile_path"`
	KnownFor           []mediaResult `json:"known_for"`
}
