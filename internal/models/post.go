package models

import "time"

// BlogPost is a published article. Title is unique across the blog.
type BlogPost struct {
	ID        string
	AuthorID  string
	Title     string
	Subtitle  string
	Body      string
	ImageURL  string
	Date      string // display date, e.g. "January 02, 2006"
	CreatedAt time.Time
	UpdatedAt time.Time

	// AuthorName is joined in on reads and never persisted on the post row.
	AuthorName string
}

type Comment struct {
	ID        string
	PostID    string
	AuthorID  string
	Text      string // sanitized before persisting
	CreatedAt time.Time

	AuthorName string
}
