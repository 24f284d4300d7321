// Package services holds the case engagement and account business rules.
// Handlers call these; they never touch the database directly.
package services

import (
	"context"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/bugai/backend/internal/auth"
	"github.com/emilythestrangee/bugai/backend/internal/cache"
	"github.com/emilythestrangee/bugai/backend/internal/database"
	apperrors "github.com/emilythestrangee/bugai/backend/internal/errors"
	"github.com/emilythestrangee/bugai/backend/internal/logger"
	"github.com/emilythestrangee/bugai/backend/internal/metrics"
	"github.com/emilythestrangee/bugai/backend/internal/models"
)

// Deps are the collaborators shared by every service. Cache, Metrics and
// Logger are optional.
type Deps struct {
	DB            *gorm.DB
	Cache         cache.Store
	Metrics       *metrics.Metrics
	Logger        *slog.Logger
	StatisticsTTL time.Duration
}

// Services bundles the case and user services
type Services struct {
	Cases *CaseService
	Users *UserService
}

func New(deps Deps, tokens *auth.Manager) *Services {
	return &Services{
		Cases: NewCaseService(deps),
		Users: NewUserService(deps, tokens),
	}
}

// dbError converts a storage failure into an AppError
func dbError(err error, operation string) error {
	if database.IsUniqueViolation(err) {
		return apperrors.Conflict("%s: duplicate entry", operation)
	}
	return apperrors.Database(err, operation)
}

// requireUser fails with NotFound when a registered actor has no row
func requireUser(ctx context.Context, db *gorm.DB, actor models.Identity) error {
	if actor.IsAnonymous() {
		return nil
	}
	var count int64
	if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", *actor.UserID()).Count(&count).Error; err != nil {
		return dbError(err, "look up user")
	}
	if count == 0 {
		return apperrors.NotFound("user not found")
	}
	return nil
}

func requireCase(ctx context.Context, db *gorm.DB, caseID string) error {
	var count int64
	if err := db.WithContext(ctx).Model(&models.Case{}).Where("id = ?", caseID).Count(&count).Error; err != nil {
		return dbError(err, "look up case")
	}
	if count == 0 {
		return apperrors.NotFound("case not found")
	}
	return nil
}

func serviceLogger(log *slog.Logger, name string) *slog.Logger {
	if log == nil {
		log = logger.Discard()
	}
	return logger.Module(log, name)
}
