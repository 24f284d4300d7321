package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	apperrors "github.com/emilythestrangee/bugai/backend/internal/errors"
	"github.com/emilythestrangee/bugai/backend/internal/metrics"
	"github.com/emilythestrangee/bugai/backend/internal/models"
)

// lockCase takes a row lock on the case for the rest of the transaction.
// SQLite has no FOR UPDATE; its single writer serializes instead.
func lockCase(tx *gorm.DB, caseID string) (*models.Case, error) {
	var c models.Case
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "like_count", "comment_count").
		First(&c, "id = ?", caseID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.NotFound("case not found")
	}
	if err != nil {
		return nil, dbError(err, "lock case")
	}
	return &c, nil
}

// CreateComment adds a comment and bumps the case's comment count in one
// transaction
func (s *CaseService) CreateComment(ctx context.Context, caseID string, actor models.Identity, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apperrors.Validation("comment content must not be empty")
	}
	if err := requireUser(ctx, s.db, actor); err != nil {
		return nil, err
	}

	comment := models.Comment{
		Content: content,
		CaseID:  caseID,
		UserID:  actor.UserID(),
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockCase(tx, caseID); err != nil {
			return err
		}
		if err := tx.Create(&comment).Error; err != nil {
			return dbError(err, "create comment")
		}
		err := tx.Model(&models.Case{}).
			Where("id = ?", caseID).
			Update("comment_count", gorm.Expr("comment_count + ?", 1)).Error
		if err != nil {
			return dbError(err, "update comment count")
		}
		return tx.Preload("User").First(&comment, "id = ?", comment.ID).Error
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordAction(metrics.ActionComment)
	s.logger.Debug("comment created", slog.String("case_id", caseID), slog.String("comment_id", comment.ID))
	return &comment, nil
}

// ListComments returns the case's comments newest first with their authors
func (s *CaseService) ListComments(ctx context.Context, caseID string) ([]models.Comment, error) {
	if err := requireCase(ctx, s.db, caseID); err != nil {
		return nil, err
	}
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("case_id = ?", caseID).
		Order("created_at DESC, id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, dbError(err, "list comments")
	}
	return comments, nil
}

// ToggleLike likes the case for actor, or removes the like if one exists.
// The case row stays locked for the whole read-then-write so a pair of
// concurrent toggles from one identity cannot both insert.
func (s *CaseService) ToggleLike(ctx context.Context, caseID string, actor models.Identity) (*models.LikeResult, error) {
	if err := requireUser(ctx, s.db, actor); err != nil {
		return nil, err
	}

	result := &models.LikeResult{}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := lockCase(tx, caseID); err != nil {
			return err
		}

		var existing models.Like
		err := tx.Where("case_id = ? AND identity = ?", caseID, actor.Key()).Take(&existing).Error
		switch {
		case err == nil:
			if err := tx.Delete(&existing).Error; err != nil {
				return dbError(err, "delete like")
			}
			err := tx.Model(&models.Case{}).
				Where("id = ? AND like_count > 0", caseID).
				Update("like_count", gorm.Expr("like_count - ?", 1)).Error
			if err != nil {
				return dbError(err, "update like count")
			}
			result.Like = &existing
			result.IsLiked = false
		case errors.Is(err, gorm.ErrRecordNotFound):
			like := models.Like{
				CaseID:   caseID,
				UserID:   actor.UserID(),
				Identity: actor.Key(),
			}
			if err := tx.Create(&like).Error; err != nil {
				return dbError(err, "create like")
			}
			err := tx.Model(&models.Case{}).
				Where("id = ?", caseID).
				Update("like_count", gorm.Expr("like_count + ?", 1)).Error
			if err != nil {
				return dbError(err, "update like count")
			}
			result.Like = &like
			result.IsLiked = true
		default:
			return dbError(err, "look up like")
		}

		return tx.Model(&models.Case{}).
			Select("like_count").
			Where("id = ?", caseID).
			Scan(&result.LikeCount).Error
	})
	if err != nil {
		return nil, err
	}

	if result.IsLiked {
		s.metrics.RecordAction(metrics.ActionLike)
	} else {
		s.metrics.RecordAction(metrics.ActionUnlike)
	}
	return result, nil
}
