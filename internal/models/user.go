package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID             string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Username       string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email          string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password       string    `gorm:"not null" json:"-"` // bcrypt hash
	Avatar         *string   `json:"avatar,omitempty"`
	Level          int       `gorm:"not null;default:1" json:"level"`
	Exp            int       `gorm:"not null;default:0" json:"exp"`
	TotalWhipCount int64     `gorm:"not null;default:0" json:"totalWhipCount"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`

	Cases    []Case    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Comments []Comment `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Likes    []Like    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	return assignID(&u.ID)
}

type RegisterRequest struct {
	Username string  `json:"username" binding:"required,min=3,max=50"`
	Email    string  `json:"email" binding:"required,email,max=100"`
	Password string  `json:"password" binding:"required,min=6"`
	Avatar   *string `json:"avatar"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

// assignID fills an empty primary key with a time-ordered UUID
func assignID(id *string) error {
	if *id != "" {
		return nil
	}
	v, err := uuid.NewV7()
	if err != nil {
		return err
	}
	*id = v.String()
	return nil
}
