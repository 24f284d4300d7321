package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"

	"github.com/emilythestrangee/bugai/backend/internal/auth"
	"github.com/emilythestrangee/bugai/backend/internal/database"
	apperrors "github.com/emilythestrangee/bugai/backend/internal/errors"
	"github.com/emilythestrangee/bugai/backend/internal/models"
	"github.com/emilythestrangee/bugai/backend/internal/validation"
)

type UserService struct {
	db     *gorm.DB
	tokens *auth.Manager
	logger *slog.Logger
}

func NewUserService(deps Deps, tokens *auth.Manager) *UserService {
	return &UserService{
		db:     deps.DB,
		tokens: tokens,
		logger: serviceLogger(deps.Logger, "users"),
	}
}

// Register creates an account and signs a token for it. Email is checked
// before username so the error names the first clash.
func (s *UserService) Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	db := s.db.WithContext(ctx)
	taken, err := exists(db.Model(&models.User{}).Where("email = ?", req.Email))
	if err != nil {
		return nil, dbError(err, "check email")
	}
	if taken {
		return nil, apperrors.Conflict("email already registered")
	}
	taken, err = exists(db.Model(&models.User{}).Where("username = ?", req.Username))
	if err != nil {
		return nil, dbError(err, "check username")
	}
	if taken {
		return nil, apperrors.Conflict("username already taken")
	}

	hash, err := s.tokens.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Avatar:   req.Avatar,
		Level:    1,
	}
	if err := db.Create(&user).Error; err != nil {
		// lost a race with a concurrent registration
		if database.IsUniqueViolation(err) {
			return nil, apperrors.Conflict("username or email already registered")
		}
		return nil, dbError(err, "create user")
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}

	s.logger.Info("user registered", slog.String("user_id", user.ID))
	return &models.AuthResponse{User: user, Token: token}, nil
}

// Login checks credentials. Unknown emails and wrong passwords look the same.
func (s *UserService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" || req.Password == "" {
		return nil, apperrors.Unauthorized("invalid credentials")
	}

	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, dbError(err, "look up user")
	}

	if err := s.tokens.CheckPassword(user.Password, req.Password); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		return nil, err
	}
	return &models.AuthResponse{User: user, Token: token}, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("user not found")
	}
	if err != nil {
		return nil, dbError(err, "get user")
	}
	return &user, nil
}

// Authenticate resolves a bearer token to a user id
func (s *UserService) Authenticate(token string) (string, error) {
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func exists(q *gorm.DB) (bool, error) {
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
