package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/dbx"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

type Service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) *Service {
	return &Service{db: db, repo: repo}
}

// authorize is the ownership guard: it loads the post's owner and compares
// it against the subject. The existence check runs first so a missing post
// is reported as common.ErrorNotFound, never as common.ErrorForbidden.
// It runs on the caller's transaction so the guarded write sees the same row.
func (s *Service) authorize(ctx context.Context, q dbx.DBTX, postID, subjectID string) error {
	authorID, err := s.repo.GetAuthorID(ctx, q, postID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return common.ErrorInternal
	}

	if authorID != subjectID {
		return common.ErrorForbidden
	}

	return nil
}

// Create stores a new post owned by subjectID.
func (s *Service) Create(ctx context.Context, subjectID, title, content, coverKey string) (*Post, error) {

	post := &Post{
		Title:    title,
		Content:  content,
		AuthorID: subjectID,
		CoverKey: coverKey,
	}

	post, err := s.repo.Create(ctx, post)
	if err != nil {
		return nil, fmt.Errorf("error creating post: %v", err)
	}

	return post, nil
}

// Get returns a single post with its author name.
func (s *Service) Get(ctx context.Context, id string) (*Post, error) {
	return s.repo.GetByID(ctx, id)
}

// List returns one page of the public listing. Page and limit are sanitized:
// non-positive values fall back to defaults and limit is capped.
func (s *Service) List(ctx context.Context, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	result, total, err := s.repo.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, common.ErrorInternal
	}

	totalPages := total / int64(limit)
	if total%int64(limit) != 0 {
		totalPages++
	}

	return &Page{
		Posts:      result,
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// ListByAuthor returns the subject's own posts, newest first.
func (s *Service) ListByAuthor(ctx context.Context, subjectID string) ([]*Post, error) {
	result, err := s.repo.ListByAuthor(ctx, subjectID)
	if err != nil {
		return nil, common.ErrorInternal
	}
	return result, nil
}

// Update rewrites a post after the ownership guard passes. The guard and the
// write run in one transaction.
func (s *Service) Update(ctx context.Context, subjectID string, post *Post) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.authorize(ctx, tx, post.ID, subjectID); err != nil {
			return err
		}
		if err := s.repo.Update(ctx, tx, post); err != nil {
			return common.ErrorInternal
		}
		return nil
	})
}

// Delete removes a post after the ownership guard passes. The guard and the
// write run in one transaction.
func (s *Service) Delete(ctx context.Context, subjectID, postID string) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.authorize(ctx, tx, postID, subjectID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, postID); err != nil {
			return common.ErrorInternal
		}
		return nil
	})
}
