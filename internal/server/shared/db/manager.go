// Package db wires the relational store: it opens the pgx connection,
// applies embedded migrations, and hands out the per-domain repositories.
package db

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/postkeeper/internal/server/posts"
	"github.com/dmitrijs2005/postkeeper/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
	Posts() posts.Repository
}
