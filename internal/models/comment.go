package models

import (
	"time"

	"gorm.io/gorm"
)

type Comment struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CaseID    string    `gorm:"type:varchar(36);not null;index" json:"caseId"`
	UserID    *string   `gorm:"type:varchar(36);index" json:"userId"`
	User      *User     `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	return assignID(&c.ID)
}

type CreateCommentRequest struct {
	CaseID     string `json:"caseId" binding:"required"`
	Content    string `json:"content" binding:"required,notblank"`
	UserID     string `json:"userId"`
	SessionKey string `json:"sessionKey"`
}
