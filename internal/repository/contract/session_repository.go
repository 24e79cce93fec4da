package contract

import (
	"context"
	"time"

	"fintech-assistant-be/internal/entity"
	"fintech-assistant-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	// Touch updates last_activity; returns false when no such session exists.
	Touch(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
	// LinkToUser atomically sets user_id and clears is_anonymous, guarded so it
	// only ever succeeds on a still-anonymous session. Returns false otherwise.
	LinkToUser(ctx context.Context, id uuid.UUID, userId uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
