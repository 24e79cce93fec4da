package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is a conversation thread. Anonymous until linked to a user;
// IsAnonymous is false if and only if UserId is set.
type Session struct {
	Id           uuid.UUID
	UserId       *uuid.UUID
	IsAnonymous  bool
	CreatedAt    time.Time
	LastActivity time.Time
}
