package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/postkeeper/internal/server/migrations"
	"github.com/dmitrijs2005/postkeeper/internal/server/posts"
	"github.com/dmitrijs2005/postkeeper/internal/server/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct {
	db    *sql.DB
	users users.Repository
	posts posts.Repository
}

func (m *PostgresRepositoryManager) Conn() *sql.DB {
	return m.db
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

func (m *PostgresRepositoryManager) Posts() posts.Repository {
	return m.posts
}

func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)

	if err := goose.UpContext(ctx, m.db, "."); err != nil {
		return err
	}

	return nil
}

func NewPostgresRepositoryManager(dsn string) (RepositoryManager, error) {

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}

	users, err := users.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("user repo creation error: %w", err)
	}

	posts, err := posts.NewPostgresRepository(db)
	if err != nil {
		return nil, fmt.Errorf("post repo creation error: %w", err)
	}

	m := &PostgresRepositoryManager{
		db:    db,
		users: users,
		posts: posts,
	}

	err = m.RunMigrations(context.Background())
	if err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	return m, nil
}
