package models

import "time"

// Review is the unified shape of provider reviews and locally written ones.
// Vote counters only ever grow within a session.
type Review struct {
	ID        string     `json:"id"`
	Kind      ReviewKind `json:"kind"`
	Author    string     `json:"author"`
	Content   string     `json:"content"`
	CreatedAt time.Time  `json:"created_at"`
	Upvotes   int        `json:"upvotes"`
	Downvotes int        `json:"downvotes"`
	Editing   bool       `json:"is_editing"`
}

// Score is the helpfulness used by the most helpful ordering
func (r Review) Score() int {
	return r.Upvotes - r.Downvotes
}

// IsLocal reports whether the review was written in this session
func (r Review) IsLocal() bool {
	return r.Kind == ReviewKindLocal
}

// ReviewPage is one page of provider reviews
type ReviewPage struct {
	Page       int      `json:"page"`
	TotalPages int      `json:"total_pages"`
	Reviews    []Review `json:"reviews"`
}
