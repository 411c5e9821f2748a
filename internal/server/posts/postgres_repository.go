package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/dmitrijs2005/postkeeper/internal/dbx"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, post *Post) (*Post, error) {

	query :=
		`INSERT INTO posts (title, content, author_id, cover_key)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.Title, post.Content, post.AuthorID, post.CoverKey).
		Scan(&post.ID, &post.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return post, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*Post, error) {
	query :=
		`SELECT p.id, p.title, p.content, p.author_id, COALESCE(p.cover_key, ''), p.created_at, u.name
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 WHERE p.id = $1
		 `

	post := &Post{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CoverKey, &post.CreatedAt, &post.AuthorName)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return post, nil
}

func (r *PostgresRepository) List(ctx context.Context, offset, limit int) ([]*Post, int64, error) {
	query :=
		`SELECT p.id, p.title, p.content, p.author_id, COALESCE(p.cover_key, ''), p.created_at, u.name, COALESCE(u.bio, '')
		 FROM posts p
		 JOIN users u ON u.id = p.author_id
		 ORDER BY p.created_at DESC
		 OFFSET $1 LIMIT $2
		 `

	rows, err := r.db.QueryContext(ctx, query, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []*Post
	for rows.Next() {
		post := &Post{}
		err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID,
			&post.CoverKey, &post.CreatedAt, &post.AuthorName, &post.AuthorBio)
		if err != nil {
			return nil, 0, fmt.Errorf("error scanning row: %v", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating rows: %v", err)
	}

	var total int64
	err = r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("error performing sql request: %v", err)
	}

	return result, total, nil
}

func (r *PostgresRepository) ListByAuthor(ctx context.Context, authorID string) ([]*Post, error) {
	query :=
		`SELECT id, title, content, author_id, COALESCE(cover_key, ''), created_at
		 FROM posts
		 WHERE author_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, authorID)
	if err != nil {
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}
	defer rows.Close()

	var result []*Post
	for rows.Next() {
		post := &Post{}
		err := rows.Scan(&post.ID, &post.Title, &post.Content, &post.AuthorID, &post.CoverKey, &post.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("error scanning row: %v", err)
		}
		result = append(result, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %v", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetAuthorID(ctx context.Context, q dbx.DBTX, id string) (string, error) {
	query := `SELECT author_id FROM posts WHERE id = $1`

	var authorID string
	err := q.QueryRowContext(ctx, query, id).Scan(&authorID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", common.ErrorNotFound
		}
		return "", fmt.Errorf("error performing sql request: %v", err)
	}

	return authorID, nil
}

func (r *PostgresRepository) Update(ctx context.Context, q dbx.DBTX, post *Post) error {
	query :=
		`UPDATE posts SET title = $2, content = $3, cover_key = $4
		 WHERE id = $1
		 `

	_, err := q.ExecContext(ctx, query, post.ID, post.Title, post.Content, post.CoverKey)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, q dbx.DBTX, id string) error {
	query := `DELETE FROM posts WHERE id = $1`

	_, err := q.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	return nil
}
