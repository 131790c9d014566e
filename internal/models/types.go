package models

import (
	"fmt"
	"strings"
)

// MediaType represents the type of media (movie or tv show)
type MediaType string

const (
	MediaTypeMovie MediaType = "movie"
	MediaTypeTV    MediaType = "tv"
)

// MediaTypes lists every supported media type in listing order (movies first)
var MediaTypes = []MediaType{MediaTypeMovie, MediaTypeTV}

// ParseMediaType validates a media type coming from user input
func ParseMediaType(s string) (MediaType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "movie", "movies":
		return MediaTypeMovie, nil
	case "tv", "show", "shows", "series":
		return MediaTypeTV, nil
	default:
		return "", fmt.Errorf("%w: unknown media type %q", ErrValidation, s)
	}
}

// MediaKey identifies a media item. Provider ids are only unique per type,
// so movie 550 and tv 550 are different keys.
type MediaKey struct {
	ID   int       `json:"id"`
	Type MediaType `json:"media_type"`
}

// NewMediaKey builds a key from its parts
func NewMediaKey(id int, mediaType MediaType) MediaKey {
	return MediaKey{ID: id, Type: mediaType}
}

func (k MediaKey) String() string {
	return fmt.Sprintf("%s:%d", k.Type, k.ID)
}

// ReviewKind tells remote (provider) reviews apart from locally written ones
type ReviewKind string

const (
	ReviewKindRemote ReviewKind = "remote"
	ReviewKindLocal  ReviewKind = "local"
)

// SortCriterion selects the review ordering
type SortCriterion string

const (
	SortMostRecent  SortCriterion = "most_recent"
	SortMostHelpful SortCriterion = "most_helpful"
)

// ParseSortCriterion accepts both snake_case and camelCase spellings.
// An empty string means most recent.
func ParseSortCriterion(s string) (SortCriterion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "most_recent", "mostrecent", "recent":
		return SortMostRecent, nil
	case "most_helpful", "mosthelpful", "helpful":
		return SortMostHelpful, nil
	default:
		return "", fmt.Errorf("%w: unknown sort criterion %q", ErrValidation, s)
	}
}

// VoteDirection is an upvote or a downvote
type VoteDirection string

const (
	VoteUp   VoteDirection = "upvote"
	VoteDown VoteDirection = "downvote"
)

// ParseVoteDirection validates a vote direction coming from user input
func ParseVoteDirection(s string) (VoteDirection, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "upvote", "up":
		return VoteUp, nil
	case "downvote", "down":
		return VoteDown, nil
	default:
		return "", fmt.Errorf("%w: unknown vote direction %q", ErrValidation, s)
	}
}

// Feed selects which provider listing a browse request reads from
type Feed string

const (
	FeedPopular  Feed = "popular"
	FeedTopRated Feed = "top_rated"
	FeedTrending Feed = "trending"
	FeedUpcoming Feed = "upcoming"
)

// ParseFeed validates a feed name; empty means popular
func ParseFeed(s string) (Feed, error) {
	switch Feed(strings.ToLower(strings.TrimSpace(s))) {
	case "", FeedPopular:
		return FeedPopular, nil
	case FeedTopRated:
		return FeedTopRated, nil
	case FeedTrending:
		return FeedTrending, nil
	case FeedUpcoming:
		return FeedUpcoming, nil
	default:
		return "", fmt.Errorf("%w: unknown feed %q", ErrValidation, s)
	}
}
