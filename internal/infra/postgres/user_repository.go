package postgres

import (
	"context"
	"errors"
	"fmt"

	"globetrotter-service/internal/domain"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

const userColumns = `username, referral_code, referred_by, correct, incorrect`

// UserRepository persists player records in Postgres.
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func (r *UserRepository) Create(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (username, referral_code, referred_by) VALUES ($1, $2, $3)`,
		user.Username, user.ReferralCode, user.ReferredBy)
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) ByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	return scanUser(row)
}

func (r *UserRepository) ByReferralCode(ctx context.Context, code string) (domain.User, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+userColumns+` FROM users WHERE referral_code = $1`, code)
	return scanUser(row)
}

// IncrementScore bumps the counter in a single UPDATE, so concurrent
// submissions for the same player cannot lose increments.
func (r *UserRepository) IncrementScore(ctx context.Context, username string, correct bool) (domain.User, error) {
	query := `UPDATE users SET correct = correct + 1 WHERE username = $1 RETURNING ` + userColumns
	if !correct {
		query = `UPDATE users SET incorrect = incorrect + 1 WHERE username = $1 RETURNING ` + userColumns
	}
	row := r.pool.QueryRow(ctx, query, username)
	return scanUser(row)
}

func scanUser(row pgx.Row) (domain.User, error) {
	var user domain.User
	err := row.Scan(&user.Username, &user.ReferralCode, &user.ReferredBy, &user.Correct, &user.Incorrect)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("scan user: %w", err)
	}
	return user, nil
}
