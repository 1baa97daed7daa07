package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/edukar/edukar-store/internal/domain/errors"
	"github.com/edukar/edukar-store/internal/domain/model"
)

type userRepository struct {
	storage *Storage
}

const userColumns = `id, login, password_hash, first_name, last_name, created_at`

func (r *userRepository) Create(ctx context.Context, user *model.User) (*model.User, error) {
	const query = `INSERT INTO users (login, password_hash, first_name, last_name) VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	u := *user
	err := r.storage.pool.QueryRow(ctx, query, u.Login, u.PasswordHash, u.FirstName, u.LastName).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByLogin(ctx context.Context, login string) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE login=$1`, login)
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return r.get(ctx, `SELECT `+userColumns+` FROM users WHERE id=$1`, id)
}

func (r *userRepository) get(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	err := r.storage.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Login, &u.PasswordHash, &u.FirstName, &u.LastName, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
