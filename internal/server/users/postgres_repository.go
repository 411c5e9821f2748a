package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postkeeper/internal/common"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the postgres error code for unique constraint failures.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) (*PostgresRepository, error) {
	return &PostgresRepository{db: db}, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *User) (*User, error) {

	query :=
		`INSERT INTO users (email, name, bio, password_hash, salt)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		user.Email, user.Name, user.Bio, user.PasswordHash, user.Salt).
		Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*User, error) {
	query :=
		`SELECT id, email, name, COALESCE(bio, ''), password_hash, salt, created_at FROM users
		 WHERE email = $1
		 `

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&user.ID, &user.Email, &user.Name, &user.Bio, &user.PasswordHash, &user.Salt, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*User, error) {
	query :=
		`SELECT id, email, name, COALESCE(bio, ''), password_hash, salt, created_at FROM users
		 WHERE id = $1
		 `

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&user.ID, &user.Email, &user.Name, &user.Bio, &user.PasswordHash, &user.Salt, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*User, error) {
	query :=
		`UPDATE users
		 SET name = COALESCE($2, name), bio = COALESCE($3, bio)
		 WHERE id = $1
		 RETURNING id, email, name, COALESCE(bio, ''), password_hash, salt, created_at
		 `

	user := &User{}
	err := r.db.QueryRowContext(ctx, query, id, upd.Name, upd.Bio).
		Scan(&user.ID, &user.Email, &user.Name, &user.Bio, &user.PasswordHash, &user.Salt, &user.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("error performing sql request: %v", err)
	}

	return user, nil
}

func (r *PostgresRepository) UpdatePassword(ctx context.Context, id string, salt, hash []byte) error {
	query :=
		`UPDATE users SET salt = $2, password_hash = $3
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id, salt, hash)
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error performing sql request: %v", err)
	}
	if affected == 0 {
		return common.ErrorNotFound
	}

	return nil
}
