package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"
	"yamdb/pkg/errs"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
	FindByUsername(ctx context.Context, username string) (*entity.User, error)
	FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error)
	CountAll(ctx context.Context, search string) (int64, error)
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error

	// MarkLoggedIn moves last_login_at from prev to at. It reports false when
	// another request changed last_login_at first.
	MarkLoggedIn(ctx context.Context, id uuid.UUID, prev *time.Time, at time.Time) (bool, error)
}

const userColumns = `id, username, email, role, is_superuser, bio, first_name, last_name,
		       last_login_at, created_at, updated_at, deleted_at`

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.Role,
		&user.IsSuperuser,
		&user.Bio,
		&user.FirstName,
		&user.LastName,
		&user.LastLoginAt,
		&user.CreatedAt,
		&user.UpdatedAt,
		&user.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// userConflict maps a unique violation on users to the matching domain error.
func userConflict(err error) error {
	constraint, ok := uniqueViolationOn(err)
	if !ok {
		return nil
	}
	switch constraint {
	case "users_email_key":
		return errs.ErrEmailTaken
	default:
		return errs.ErrUsernameTaken
	}
}

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, username, email, role, is_superuser, bio,
		                   first_name, last_name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.IsSuperuser,
		user.Bio,
		user.FirstName,
		user.LastName,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if conflict := userConflict(err); conflict != nil {
			return conflict
		}
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
			zap.String("username", user.Username),
		)
		return fmt.Errorf("create user %s: %w", user.Username, err)
	}

	return nil
}

func (ur *userRepository) findOne(ctx context.Context, where string, arg any) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL AND ` + where

	user, err := scanUser(ur.db.QueryRow(ctx, query, arg))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user",
			zap.Error(err),
			zap.String("where", where),
			zap.Any("arg", arg),
		)
		return nil, fmt.Errorf("find user where %s: %w", where, err)
	}

	return user, nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	return ur.findOne(ctx, "id = $1", id)
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	return ur.findOne(ctx, "email = $1", email)
}

func (ur *userRepository) FindByUsername(ctx context.Context, username string) (*entity.User, error) {
	return ur.findOne(ctx, "username = $1", username)
}

// FindAll lists users ordered by username. search matches a username
// substring, case-insensitively.
func (ur *userRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE deleted_at IS NULL AND ($1 = '' OR username ILIKE '%' || $1 || '%')
		ORDER BY username
		LIMIT $2 OFFSET $3
	`

	rows, err := ur.db.Query(ctx, query, search, limit, offset)
	if err != nil {
		ur.log.Error("Failed to get all users",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("find all users limit %d offset %d: %w", limit, offset, err)
	}
	defer rows.Close()

	var users []*entity.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			ur.log.Error("Failed to scan user row", zap.Error(err))
			return nil, fmt.Errorf("scan user row: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		ur.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate users rows: %w", err)
	}

	return users, nil
}

func (ur *userRepository) CountAll(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL AND ($1 = '' OR username ILIKE '%' || $1 || '%')`

	var count int64
	if err := ur.db.QueryRow(ctx, query, search).Scan(&count); err != nil {
		ur.log.Error("Database error counting users", zap.Error(err))
		return 0, fmt.Errorf("count all users: %w", err)
	}

	return count, nil
}

func (ur *userRepository) Update(ctx context.Context, user *entity.User) error {
	query := `
		UPDATE users
		SET username = $2, email = $3, role = $4, bio = $5,
		    first_name = $6, last_name = $7, updated_at = $8
		WHERE id = $1 AND deleted_at IS NULL
	`

	result, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		user.Bio,
		user.FirstName,
		user.LastName,
		user.UpdatedAt,
	)

	if err != nil {
		if conflict := userConflict(err); conflict != nil {
			return conflict
		}
		ur.log.Error("Failed to update user",
			zap.Error(err),
			zap.String("user_id", user.ID.String()),
		)
		return fmt.Errorf("update user %s: %w", user.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return errs.ErrUserNotFound
	}

	return nil
}

// Delete soft deletes the user. The username and email stay reserved and
// the user's reviews and comments are kept.
func (ur *userRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := ur.db.Exec(ctx, query, id)
	if err != nil {
		ur.log.Error("Failed to delete user",
			zap.Error(err),
			zap.String("id", id.String()),
		)
		return fmt.Errorf("delete user %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return errs.ErrUserNotFound
	}

	ur.log.Info("User deleted", zap.String("id", id.String()))
	return nil
}

func (ur *userRepository) MarkLoggedIn(ctx context.Context, id uuid.UUID, prev *time.Time, at time.Time) (bool, error) {
	query := `
		UPDATE users
		SET last_login_at = $3
		WHERE id = $1 AND deleted_at IS NULL AND last_login_at IS NOT DISTINCT FROM $2
	`

	result, err := ur.db.Exec(ctx, query, id, prev, at)
	if err != nil {
		ur.log.Error("Failed to mark user logged in",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return false, fmt.Errorf("mark user %s logged in: %w", id.String(), err)
	}

	return result.RowsAffected() == 1, nil
}
