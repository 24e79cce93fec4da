package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is immutable once written. Ordering within a session is
// CreatedAt, with the autoincrement Id breaking ties in insertion order.
type ChatMessage struct {
	Id        int64
	SessionId uuid.UUID
	Role      string
	Content   string
	CreatedAt time.Time
}
