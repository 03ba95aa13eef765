package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"bridgegen/internal/database"
	"bridgegen/internal/models"

	"go.uber.org/zap"
)

// userRepository implements UserRepository
type userRepository struct {
	*BaseRepository
}

// NewUserRepository creates a new instance of UserRepository
func NewUserRepository(db *database.Manager, logger *zap.Logger) UserRepository {
	return &userRepository{
		BaseRepository: NewBaseRepository(db, logger),
	}
}

// Create inserts a new account
func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (username, email, password_hash, role)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.QueryRowContext(
		ctx, query,
		user.Username, user.Email, user.PasswordHash, user.Role,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if !IsUniqueViolation(err) {
			r.GetLogger().Error("Failed to create user",
				zap.Error(err),
				zap.String("username", user.Username),
			)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	r.GetLogger().Info("User created",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)
	return nil
}

// GetByID retrieves an account by ID
func (r *userRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getBy(ctx, "id = $1", id)
}

// GetByUsername retrieves an account by username
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getBy(ctx, "username = $1", username)
}

// GetByEmail retrieves an account by email
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *userRepository) getBy(ctx context.Context, where string, arg interface{}) (*models.User, error) {
	query := fmt.Sprintf(`
		SELECT id, username, email, password_hash, role, created_at
		FROM users
		WHERE %s`, where)

	var user models.User
	err := r.QueryRowContext(ctx, query, arg).Scan(
		&user.ID, &user.Username, &user.Email,
		&user.PasswordHash, &user.Role, &user.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
