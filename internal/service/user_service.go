package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"taxreturn/internal/model"
	"taxreturn/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// TokenTTL is the lifetime of an access token.
const TokenTTL = 24 * time.Hour

// DTOs for Request validation
type RegisterUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// CreateUserRequest lets an admin create staff accounts.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role" binding:"required,oneof=taxpayer accountant admin"`
}

type LoginUserRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token     string `json:"token"`
	ExpiresAt string `json:"expires_at"`
}

// DTO for returning User without exposing the password hash
type UserResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt string    `json:"created_at"`
}

type UserService interface {
	Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error)
	CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error)
	Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error)
	GetUserByID(ctx context.Context, id string) (*UserResponse, error)
}

type userService struct {
	repo   repository.UserRepository
	audit  repository.AuditRepository
	secret []byte
	log    *zap.Logger
	now    func() time.Time
}

func NewUserService(repo repository.UserRepository, audit repository.AuditRepository, secret []byte, log *zap.Logger) UserService {
	if log == nil {
		log = zap.NewNop()
	}
	return &userService{repo: repo, audit: audit, secret: secret, log: log, now: time.Now}
}

func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Role:      user.Role,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

// Register signs up a taxpayer. Staff accounts are created by an admin.
func (s *userService) Register(ctx context.Context, req RegisterUserRequest) (*UserResponse, error) {
	return s.CreateUser(ctx, CreateUserRequest{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		Role:     model.RoleTaxpayer,
	})
}

func (s *userService) CreateUser(ctx context.Context, req CreateUserRequest) (*UserResponse, error) {
	switch req.Role {
	case model.RoleTaxpayer, model.RoleAccountant, model.RoleAdmin:
	default:
		return nil, fmt.Errorf("invalid role %q", req.Role)
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.GetByUsername(ctx, req.Username); err == nil {
		return nil, ErrUserExists
	}
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, ErrUserExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Username: req.Username,
		Email:    email,
		Password: string(hashedPassword),
		Role:     req.Role,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	entry := model.AuditLog{
		UserID:     &user.ID,
		Action:     model.ActionRegisterUser,
		EntityID:   user.ID.String(),
		EntityName: user.Username,
		Details:    fmt.Sprintf(`{"role":%q}`, user.Role),
	}
	if err := s.audit.Log(ctx, &entry); err != nil {
		s.log.Warn("registration audit entry not written", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	return mapToResponse(user), nil
}

func (s *userService) Login(ctx context.Context, req LoginUserRequest) (*TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expires := s.now().Add(TokenTTL)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  user.ID.String(),
		"role": user.Role,
		"exp":  expires.Unix(),
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}

	return &TokenResponse{Token: tokenString, ExpiresAt: expires.UTC().Format(time.RFC3339)}, nil
}

func (s *userService) GetUserByID(ctx context.Context, id string) (*UserResponse, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return mapToResponse(user), nil
}
