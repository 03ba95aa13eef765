package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bridgegen/internal/config"
	"bridgegen/internal/models"
	"bridgegen/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// authService implements AuthService
type authService struct {
	users     repositories.UserRepository
	validator *validator.Validate
	config    *config.AuthConfig
	logger    *zap.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(repos *repositories.Collection, cfg *config.AuthConfig, logger *zap.Logger) AuthService {
	return &authService{
		users:     repos.User,
		validator: validator.New(),
		config:    cfg,
		logger:    logger,
	}
}

type tokenClaims struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// Register creates a new account with a hashed password
func (s *authService) Register(ctx context.Context, req *RegisterRequest) (*models.User, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("invalid registration data", err)
	}
	if len(req.Password) < s.config.MinPasswordLength {
		return nil, NewValidationError(
			fmt.Sprintf("password must be at least %d characters", s.config.MinPasswordLength), nil)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.config.BCryptCost)
	if err != nil {
		return nil, WrapInternalError("failed to hash password", err)
	}

	user := &models.User{
		Username:     strings.TrimSpace(req.Username),
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: string(hash),
		Role:         models.RoleUser,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if repositories.IsUniqueViolation(err) {
			return nil, NewConflictError("username or email already taken", "DUPLICATE_ACCOUNT")
		}
		return nil, WrapInternalError("failed to create account", err)
	}
	return user, nil
}

// Login verifies credentials and issues a signed token
func (s *authService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, NewValidationError("invalid login data", err)
	}

	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		return nil, WrapInternalError("failed to load account", err)
	}
	if user == nil {
		return nil, NewUnauthorizedError("invalid username or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, NewUnauthorizedError("invalid username or password")
	}

	expiresAt := time.Now().Add(s.config.JWTExpiry)
	claims := &tokenClaims{
		Username: user.Username,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   fmt.Sprintf("%d", user.ID),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, WrapInternalError("failed to sign token", err)
	}

	s.logger.Info("User logged in",
		zap.Int64("user_id", user.ID),
		zap.String("username", user.Username),
	)

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// VerifyToken validates a signed token and extracts the identity
func (s *authService) VerifyToken(ctx context.Context, token string) (*TokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !parsed.Valid {
		return nil, NewUnauthorizedError("invalid or expired token")
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok {
		return nil, NewUnauthorizedError("invalid token claims")
	}

	var userID int64
	if _, err := fmt.Sscanf(claims.Subject, "%d", &userID); err != nil {
		return nil, NewUnauthorizedError("invalid token subject")
	}

	return &TokenClaims{
		UserID:   userID,
		Username: claims.Username,
		Role:     claims.Role,
	}, nil
}

// GetUser retrieves an account by ID
func (s *authService) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, WrapInternalError("failed to load account", err)
	}
	if user == nil {
		return nil, NewNotFoundError("user not found")
	}
	return user, nil
}
