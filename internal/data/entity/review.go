package entity

import (
	"time"
)

// Review is one rating+comment a user left against a catalog item. The JSON
// tags match the documents in the remote review collection; ids are generated
// here before the write so the projection can be updated deterministically.
type Review struct {
	ID         string    `json:"id"`
	ItemID     string    `json:"itemId"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName"` // snapshot at creation, never re-synced
	Rating     int       `json:"rating"`     // 1-5
	Body       string    `json:"body"`
	AdminReply *string   `json:"adminReply,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}
