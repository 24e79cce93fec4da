package unitofwork

import (
	"context"

	"fintech-assistant-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	ChatMessageRepository() contract.ChatMessageRepository
	FaqEmbeddingRepository() contract.FaqEmbeddingRepository
}
