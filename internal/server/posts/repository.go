package posts

import (
	"context"

	"github.com/dmitrijs2005/postkeeper/internal/dbx"
)

// Repository is the posts table access layer. Methods that take a dbx.DBTX
// participate in the caller's transaction; the ownership check and the write
// it guards always share one.
type Repository interface {
	// Create inserts a post and returns it with the generated id.
	Create(ctx context.Context, post *Post) (*Post, error)

	// GetByID returns a post with its author's name joined in, or
	// common.ErrorNotFound.
	GetByID(ctx context.Context, id string) (*Post, error)

	// List returns one page of posts, newest first, with author name and bio
	// joined in, plus the total number of posts.
	List(ctx context.Context, offset, limit int) ([]*Post, int64, error)

	// ListByAuthor returns all posts owned by authorID, newest first.
	ListByAuthor(ctx context.Context, authorID string) ([]*Post, error)

	// GetAuthorID returns the owning user id of the post, or
	// common.ErrorNotFound.
	GetAuthorID(ctx context.Context, q dbx.DBTX, id string) (string, error)

	// Update rewrites title, content and cover key of the post.
	Update(ctx context.Context, q dbx.DBTX, post *Post) error

	// Delete removes the post.
	Delete(ctx context.Context, q dbx.DBTX, id string) error
}
