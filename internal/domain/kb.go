package domain

import "time"

// Article is a knowledge-base entry authored by staff.
type Article struct {
	ID        string
	AuthorID  string
	Title     string
	Body      string
	Category  string
	Tags      []string
	Published bool
	ViewCount int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
