package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"user-api/internal/domain"
	"user-api/pkg/database"
	"user-api/pkg/errors"
)

// uniqueViolation is the Postgres error code for unique constraint violations
const uniqueViolation = "23505"

// userRepository handles user record operations with PostgreSQL
type userRepository struct {
	db *database.PostgresDB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.PostgresDB) UserRepository {
	return &userRepository{
		db: db,
	}
}

const userColumns = `
	id, cognito_sub, email, dob, street_line_1, street_line_2, city, state,
	postal_code, country, phone_country_code, phone_number, gender,
	created_at, updated_at
`

// Create creates a new user record
func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (
			id, cognito_sub, email, dob, street_line_1, street_line_2, city, state,
			postal_code, country, phone_country_code, phone_number, gender,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := r.db.Pool.Exec(ctx, query,
		user.ID,
		user.CognitoSub,
		user.Email,
		user.DOB,
		user.StreetLine1,
		user.StreetLine2,
		user.City,
		user.State,
		user.PostalCode,
		user.Country,
		user.PhoneCountryCode,
		user.PhoneNumber,
		user.Gender,
		user.CreatedAt,
		user.UpdatedAt,
	)
	if err != nil {
		// The unique constraints on email and cognito_sub are the
		// backstop against concurrent duplicate signups; the loser of
		// the race gets the same conflict error as the fast path.
		var pgErr *pgconn.PgError
		if stderrors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.NewAuthErrorWithMessage(errors.CodeUserExists, pgErr.Error())
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by local id
func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByEmail retrieves a user by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.getBy(ctx, "email", email)
}

// GetByCognitoSub retrieves a user by the provider-issued subject id
func (r *userRepository) GetByCognitoSub(ctx context.Context, sub string) (*domain.User, error) {
	return r.getBy(ctx, "cognito_sub", sub)
}

func (r *userRepository) getBy(ctx context.Context, column, value string) (*domain.User, error) {
	query := fmt.Sprintf("SELECT %s FROM users WHERE %s = $1", userColumns, column)

	user := &domain.User{}
	err := r.db.Pool.QueryRow(ctx, query, value).Scan(
		&user.ID,
		&user.CognitoSub,
		&user.Email,
		&user.DOB,
		&user.StreetLine1,
		&user.StreetLine2,
		&user.City,
		&user.State,
		&user.PostalCode,
		&user.Country,
		&user.PhoneCountryCode,
		&user.PhoneNumber,
		&user.Gender,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by %s: %w", column, err)
	}

	return user, nil
}

// Update persists profile changes to an existing user
func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	query := `
		UPDATE users SET
			dob = $2, street_line_1 = $3, street_line_2 = $4, city = $5,
			state = $6, postal_code = $7, country = $8,
			phone_country_code = $9, phone_number = $10, gender = $11,
			updated_at = $12
		WHERE id = $1
	`

	tag, err := r.db.Pool.Exec(ctx, query,
		user.ID,
		user.DOB,
		user.StreetLine1,
		user.StreetLine2,
		user.City,
		user.State,
		user.PostalCode,
		user.Country,
		user.PhoneCountryCode,
		user.PhoneNumber,
		user.Gender,
		user.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// List returns users ordered by creation time
func (r *userRepository) List(ctx context.Context, limit, offset int) ([]*domain.User, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, userColumns)

	rows, err := r.db.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(
			&user.ID,
			&user.CognitoSub,
			&user.Email,
			&user.DOB,
			&user.StreetLine1,
			&user.StreetLine2,
			&user.City,
			&user.State,
			&user.PostalCode,
			&user.Country,
			&user.PhoneCountryCode,
			&user.PhoneNumber,
			&user.Gender,
			&user.CreatedAt,
			&user.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read user rows: %w", err)
	}

	return users, nil
}

// Count returns the total number of users
func (r *userRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM users").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}
