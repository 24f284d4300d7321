package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/emilythestrangee/bugai/backend/internal/cache"
	apperrors "github.com/emilythestrangee/bugai/backend/internal/errors"
	"github.com/emilythestrangee/bugai/backend/internal/metrics"
	"github.com/emilythestrangee/bugai/backend/internal/models"
)

const maxAINameLength = 100

type CaseService struct {
	db       *gorm.DB
	cache    cache.Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
	statsTTL time.Duration
}

func NewCaseService(deps Deps) *CaseService {
	ttl := deps.StatisticsTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &CaseService{
		db:       deps.DB,
		cache:    deps.Cache,
		metrics:  deps.Metrics,
		logger:   serviceLogger(deps.Logger, "cases"),
		statsTTL: ttl,
	}
}

// withDetails preloads the owner and the comment thread, newest comment first
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("User").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC, id DESC")
		}).
		Preload("Comments.User")
}

func validateCase(req *models.CreateCaseRequest) error {
	name := strings.TrimSpace(req.AIName)
	switch {
	case name == "":
		return apperrors.Validation("aiName is required")
	case len([]rune(name)) > maxAINameLength:
		return apperrors.Validation("aiName must be at most %d characters", maxAINameLength)
	}

	if req.AIProvider == "" {
		req.AIProvider = models.ProviderUnknown
	}
	if !req.AIProvider.Valid() {
		return apperrors.Validation("unknown aiProvider %q", req.AIProvider)
	}
	if req.ErrorType == "" {
		req.ErrorType = models.ErrorFactual
	}
	if !req.ErrorType.Valid() {
		return apperrors.Validation("unknown errorType %q", req.ErrorType)
	}

	if len(req.DialogMessages) == 0 {
		return apperrors.Validation("dialogMessages must contain at least one message")
	}
	for i, msg := range req.DialogMessages {
		if !msg.Role.Valid() {
			return apperrors.Validation("dialogMessages[%d].role must be user or assistant", i)
		}
		if strings.TrimSpace(msg.Content) == "" {
			return apperrors.Validation("dialogMessages[%d].content is required", i)
		}
	}

	if strings.TrimSpace(req.ErrorDescription) == "" {
		return apperrors.Validation("errorDescription is required")
	}
	return nil
}

// CreateCase stores a new case. Anonymous actors produce an ownerless case.
func (s *CaseService) CreateCase(ctx context.Context, req models.CreateCaseRequest, actor models.Identity) (*models.Case, error) {
	if err := validateCase(&req); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.db, actor); err != nil {
		return nil, err
	}

	dialog := make([]models.DialogMessage, len(req.DialogMessages))
	copy(dialog, req.DialogMessages)

	c := models.Case{
		UserID:            actor.UserID(),
		AIName:            strings.TrimSpace(req.AIName),
		AIProvider:        req.AIProvider,
		OriginalDialog:    dialog,
		ErrorType:         req.ErrorType,
		HighlightedText:   req.ErrorDescription,
		CorrectionSuggest: req.CorrectionSuggestion,
	}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, dbError(err, "create case")
	}

	s.invalidateStatistics(ctx)
	s.metrics.RecordAction(metrics.ActionCaseCreated)
	s.logger.Info("case created",
		slog.String("case_id", c.ID),
		slog.String("provider", string(c.AIProvider)),
		slog.Bool("anonymous", actor.IsAnonymous()))

	return s.GetCase(ctx, c.ID)
}

// ListCases returns every case newest first with owners and comment threads
func (s *CaseService) ListCases(ctx context.Context) ([]models.Case, error) {
	var cases []models.Case
	err := withDetails(s.db.WithContext(ctx)).
		Order("created_at DESC, id DESC").
		Find(&cases).Error
	if err != nil {
		return nil, dbError(err, "list cases")
	}
	return cases, nil
}

func (s *CaseService) GetCase(ctx context.Context, id string) (*models.Case, error) {
	var c models.Case
	err := withDetails(s.db.WithContext(ctx)).First(&c, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("case not found")
	}
	if err != nil {
		return nil, dbError(err, "get case")
	}
	return &c, nil
}

// ViewCase counts a view and then returns the case with its details
func (s *CaseService) ViewCase(ctx context.Context, id string) (*models.Case, error) {
	if _, err := s.increment(ctx, id, models.CounterViews, models.Anonymous("")); err != nil {
		return nil, err
	}
	return s.GetCase(ctx, id)
}

func (s *CaseService) IncrementViewCount(ctx context.Context, id string) (*models.Case, error) {
	return s.increment(ctx, id, models.CounterViews, models.Anonymous(""))
}

// IncrementWhipCount also adds to the registered actor's lifetime whip total
func (s *CaseService) IncrementWhipCount(ctx context.Context, id string, actor models.Identity) (*models.Case, error) {
	c, err := s.increment(ctx, id, models.CounterWhip, actor)
	if err != nil {
		return nil, err
	}
	s.invalidateStatistics(ctx)
	return c, nil
}

func (s *CaseService) VoteAngry(ctx context.Context, id string) (*models.Case, error) {
	return s.increment(ctx, id, models.CounterVoteAngry, models.Anonymous(""))
}

func (s *CaseService) VoteLearn(ctx context.Context, id string) (*models.Case, error) {
	return s.increment(ctx, id, models.CounterVoteLearn, models.Anonymous(""))
}

func (s *CaseService) ShareCase(ctx context.Context, id string) (*models.Case, error) {
	return s.increment(ctx, id, models.CounterShare, models.Anonymous(""))
}

var counterActions = map[models.Counter]string{
	models.CounterViews:     metrics.ActionView,
	models.CounterWhip:      metrics.ActionWhip,
	models.CounterVoteAngry: metrics.ActionVoteAngry,
	models.CounterVoteLearn: metrics.ActionVoteLearn,
	models.CounterShare:     metrics.ActionShare,
}

// increment adds one to a counter with a single UPDATE so concurrent
// requests never lose an increment
func (s *CaseService) increment(ctx context.Context, id string, counter models.Counter, actor models.Identity) (*models.Case, error) {
	column := counter.Column()
	if column == "" {
		return nil, fmt.Errorf("unknown counter %q", counter)
	}

	var updated models.Case
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Case{}).
			Where("id = ?", id).
			Update(column, gorm.Expr(column+" + ?", 1))
		if res.Error != nil {
			return dbError(res.Error, "update case")
		}
		if res.RowsAffected == 0 {
			return apperrors.NotFound("case not found")
		}

		if counter == models.CounterWhip && !actor.IsAnonymous() {
			res := tx.Model(&models.User{}).
				Where("id = ?", *actor.UserID()).
				Update("total_whip_count", gorm.Expr("total_whip_count + ?", 1))
			if res.Error != nil {
				return dbError(res.Error, "update user")
			}
			if res.RowsAffected == 0 {
				return apperrors.NotFound("user not found")
			}
		}

		if err := tx.Preload("User").First(&updated, "id = ?", id).Error; err != nil {
			return dbError(err, "reload case")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAction(counterActions[counter])
	return &updated, nil
}

// ListCasesByUser returns the cases a user submitted, newest first
func (s *CaseService) ListCasesByUser(ctx context.Context, userID string) ([]models.Case, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperrors.Validation("userId is required")
	}
	var cases []models.Case
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&cases).Error
	if err != nil {
		return nil, dbError(err, "list user cases")
	}
	return cases, nil
}
