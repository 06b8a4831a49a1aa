package repository

import (
	"context"
	"ctchen222/todo-api/internal/api/models"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines the interface for user data operations.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User, password string) error
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByToken(ctx context.Context, token string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	SetAuthToken(ctx context.Context, userID int64, token string) error
	VerifyPassword(user *models.User, password string) bool
	DeleteUser(ctx context.Context, username string) error
}

type sqliteUserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new SQLite-based UserRepository.
func NewUserRepository(db *sqlx.DB) UserRepository {
	return &sqliteUserRepository{db: db}
}

const userColumns = `id, username, first_name, last_name, email, password_hash, auth_token, date_joined`

// CreateUser hashes the password and inserts a new user into the database.
// On success user.ID, user.PasswordHash and user.DateJoined are filled in.
func (r *sqliteUserRepository) CreateUser(ctx context.Context, user *models.User, password string) error {
	ctx, span := tracer.Start(ctx, "UserRepository.CreateUser")
	defer span.End()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return ErrPasswordTooLong
	}
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = string(hashedPassword)
	user.DateJoined = time.Now().UTC()

	query := `INSERT INTO users (username, first_name, last_name, email, password_hash, auth_token, date_joined)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query,
		user.Username, user.FirstName, user.LastName, user.Email,
		user.PasswordHash, user.AuthToken, user.DateJoined)
	if err != nil {
		if isConstraintViolation(err) {
			return ErrDuplicateUsername
		}
		span.RecordError(err)
		return fmt.Errorf("failed to create user: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read new user id: %w", err)
	}
	user.ID = id
	span.SetAttributes(attribute.Int64("user.id", id))
	return nil
}

func (r *sqliteUserRepository) getUser(ctx context.Context, where string, arg any) (*models.User, error) {
	var user models.User
	query := `SELECT ` + userColumns + ` FROM users WHERE ` + where
	if err := r.db.GetContext(ctx, &user, query, arg); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// GetUserByUsername retrieves a user from the database by their username.
func (r *sqliteUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByUsername")
	defer span.End()

	user, err := r.getUser(ctx, "username = ?", username)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	return user, err
}

// GetUserByToken retrieves the user holding the exact auth token.
func (r *sqliteUserRepository) GetUserByToken(ctx context.Context, token string) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByToken")
	defer span.End()

	if token == "" {
		return nil, ErrNotFound
	}
	user, err := r.getUser(ctx, "auth_token = ?", token)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by token: %w", err)
	}
	return user, err
}

// GetUserByID retrieves a user by primary key.
func (r *sqliteUserRepository) GetUserByID(ctx context.Context, id int64) (*models.User, error) {
	ctx, span := tracer.Start(ctx, "UserRepository.GetUserByID")
	defer span.End()

	user, err := r.getUser(ctx, "id = ?", id)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}
	return user, err
}

// SetAuthToken stores a freshly issued auth token for the user.
func (r *sqliteUserRepository) SetAuthToken(ctx context.Context, userID int64, token string) error {
	ctx, span := tracer.Start(ctx, "UserRepository.SetAuthToken")
	defer span.End()

	res, err := r.db.ExecContext(ctx, `UPDATE users SET auth_token = ? WHERE id = ?`, token, userID)
	if err != nil {
		return fmt.Errorf("failed to set auth token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// VerifyPassword reports whether password matches the stored hash.
// bcrypt compares in constant time.
func (r *sqliteUserRepository) VerifyPassword(user *models.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) == nil
}

// DeleteUser removes a user and every task it owns in one transaction.
// Tasks are deleted explicitly instead of relying on ON DELETE CASCADE, which
// SQLite only honours when foreign keys are enabled on the connection.
func (r *sqliteUserRepository) DeleteUser(ctx context.Context, username string) error {
	ctx, span := tracer.Start(ctx, "UserRepository.DeleteUser")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var id int64
	if err := tx.GetContext(ctx, &id, `SELECT id FROM users WHERE username = ?`, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE user_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user tasks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return tx.Commit()
}
