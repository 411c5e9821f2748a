package posts

import "time"

// Post is a blog post. AuthorName/AuthorBio are populated only by the read
// queries that join the author row; they are never written.
type Post struct {
	ID         string
	Title      string
	Content    string
	AuthorID   string
	CoverKey   string
	CreatedAt  time.Time
	AuthorName string
	AuthorBio  string
}

// Page describes one page of the public listing.
type Page struct {
	Posts      []*Post
	Page       int
	Limit      int
	Total      int64
	TotalPages int64
}
