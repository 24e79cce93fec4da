package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserId       *uuid.UUID `gorm:"type:uuid;index"`
	IsAnonymous  bool       `gorm:"not null;default:true"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	LastActivity time.Time  `gorm:"not null;index"`
}

func (Session) TableName() string {
	return "sessions"
}
