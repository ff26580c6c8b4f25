package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/khatahub/khata/internal/domain"
)

// UserRepository implements usecase.UserRepository on PostgreSQL.
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const pgErrUniqueViolation = "23505"

// Create inserts a new user. Mobile carries a unique constraint.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO users (id, name, mobile, hashed_password, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		user.ID,
		user.Name,
		user.Mobile,
		user.HashedPassword,
		user.Active,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgErrUniqueViolation {
			return domain.ErrUserAlreadyExists
		}

		return err
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.get(ctx, `WHERE id = $1`, id)
}

// GetByMobile retrieves a user by mobile number.
func (r *UserRepository) GetByMobile(ctx context.Context, mobile string) (*domain.User, error) {
	return r.get(ctx, `WHERE mobile = $1`, mobile)
}

func (r *UserRepository) get(ctx context.Context, where string, arg any) (*domain.User, error) {
	var user domain.User

	err := r.pool.QueryRow(ctx, `
		SELECT id, name, mobile, hashed_password, active, created_at, updated_at
		FROM users `+where,
		arg,
	).Scan(
		&user.ID,
		&user.Name,
		&user.Mobile,
		&user.HashedPassword,
		&user.Active,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}

		return nil, err
	}

	return &user, nil
}
