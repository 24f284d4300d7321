package models

import (
	"time"

	"gorm.io/gorm"
)

// Like is unique per (case, identity key); see Identity.Key
type Like struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	CaseID    string    `gorm:"type:varchar(36);not null;uniqueIndex:idx_likes_case_identity" json:"caseId"`
	UserID    *string   `gorm:"type:varchar(36);index" json:"userId"`
	Identity  string    `gorm:"size:200;not null;uniqueIndex:idx_likes_case_identity" json:"identity"`
	CreatedAt time.Time `json:"createdAt"`
}

func (l *Like) BeforeCreate(_ *gorm.DB) error {
	return assignID(&l.ID)
}

type ToggleLikeRequest struct {
	CaseID     string `json:"caseId" binding:"required"`
	UserID     string `json:"userId"`
	SessionKey string `json:"sessionKey"`
}

// LikeResult is returned by a like toggle. After an un-like Like holds the
// removed row.
type LikeResult struct {
	Like      *Like `json:"like"`
	IsLiked   bool  `json:"isLiked"`
	LikeCount int64 `json:"likeCount"`
}
