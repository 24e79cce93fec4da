package service

import (
	"context"
	"time"

	"fintech-assistant-be/internal/constant"
	"fintech-assistant-be/internal/dto"
	"fintech-assistant-be/internal/entity"
	"fintech-assistant-be/internal/pkg/logger"
	"fintech-assistant-be/internal/repository/specification"
	"fintech-assistant-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// ISessionService is the conversation store: sessions and their ordered,
// immutable messages. Storage failures on the write paths are logged and
// reported as booleans so callers can decide whether to retry.
type ISessionService interface {
	CreateSession(ctx context.Context, owner *uuid.UUID) (string, error)
	ResolveOrCreateSession(ctx context.Context, hint string) (string, error)
	ResolveForUser(ctx context.Context, userId uuid.UUID) (string, error)
	SaveMessage(ctx context.Context, sessionId string, role string, content string) bool
	GetChatHistory(ctx context.Context, sessionId string, limit int) ([]*dto.ChatHistoryMessage, error)
	GetSessionInfo(ctx context.Context, sessionId string) (*dto.SessionInfoResponse, error)
	FindSession(ctx context.Context, sessionId string) (*entity.Session, error)
	LinkSessionToUser(ctx context.Context, sessionId string, userId uuid.UUID) bool
	DeleteSession(ctx context.Context, sessionId string) bool
	GetUserSessionsWithPreview(ctx context.Context, userId uuid.UUID) ([]*dto.SessionPreviewResponse, error)
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory, log logger.ILogger) ISessionService {
	return &sessionService{
		uowFactory: uowFactory,
		logger:     log,
	}
}

// CreateSession mints a new session; anonymous iff owner is absent.
func (s *sessionService) CreateSession(ctx context.Context, owner *uuid.UUID) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	now := time.Now()

	session := entity.Session{
		Id:           uuid.New(),
		UserId:       owner,
		IsAnonymous:  owner == nil,
		CreatedAt:    now,
		LastActivity: now,
	}

	if err := uow.SessionRepository().Create(ctx, &session); err != nil {
		return "", err
	}
	return session.Id.String(), nil
}

// ResolveOrCreateSession touches and returns an existing session named by the
// hint, and otherwise creates a fresh anonymous one. Absence is never an
// error; it always falls back to creation.
func (s *sessionService) ResolveOrCreateSession(ctx context.Context, hint string) (string, error) {
	if hint != "" {
		if id, err := uuid.Parse(hint); err == nil {
			uow := s.uowFactory.NewUnitOfWork(ctx)
			touched, err := uow.SessionRepository().Touch(ctx, id, time.Now())
			if err != nil {
				return "", err
			}
			if touched {
				return hint, nil
			}
		}
	}

	return s.CreateSession(ctx, nil)
}

// ResolveForUser reuses the user's most-recently-active session, creating one
// bound to the account when none exists yet.
func (s *sessionService) ResolveForUser(ctx context.Context, userId uuid.UUID) (string, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.SessionRepository().FindOne(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "last_activity", Desc: true},
	)
	if err != nil {
		return "", err
	}
	if existing != nil {
		if _, err := uow.SessionRepository().Touch(ctx, existing.Id, time.Now()); err != nil {
			return "", err
		}
		return existing.Id.String(), nil
	}

	return s.CreateSession(ctx, &userId)
}

// SaveMessage appends one immutable message. Each append is a single atomic
// insert; on failure prior state is untouched and false is returned.
func (s *sessionService) SaveMessage(ctx context.Context, sessionId string, role string, content string) bool {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		s.logger.Warn("session", "save message with invalid session id", map[string]interface{}{
			"session_id": sessionId,
		})
		return false
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	message := entity.ChatMessage{
		SessionId: id,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now(),
	}

	if err := uow.ChatMessageRepository().Create(ctx, &message); err != nil {
		s.logger.Error("session", "failed to save message", map[string]interface{}{
			"session_id": sessionId,
			"role":       role,
			"error":      err.Error(),
		})
		return false
	}
	return true
}

// GetChatHistory returns the oldest-first slice of up to limit messages.
func (s *sessionService) GetChatHistory(ctx context.Context, sessionId string, limit int) ([]*dto.ChatHistoryMessage, error) {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		return []*dto.ChatHistoryMessage{}, nil
	}
	if limit <= 0 {
		limit = constant.DefaultHistoryLimit
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	messages, err := uow.ChatMessageRepository().FindAll(ctx,
		specification.BySessionID{SessionID: id},
		specification.ChronologicalOrder{},
		specification.Limit{Limit: limit},
	)
	if err != nil {
		return nil, err
	}

	history := make([]*dto.ChatHistoryMessage, 0, len(messages))
	for _, msg := range messages {
		history = append(history, &dto.ChatHistoryMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.CreatedAt,
		})
	}
	return history, nil
}

func (s *sessionService) GetSessionInfo(ctx context.Context, sessionId string) (*dto.SessionInfoResponse, error) {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		return nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, nil
	}

	count, err := uow.ChatMessageRepository().Count(ctx, specification.BySessionID{SessionID: id})
	if err != nil {
		return nil, err
	}

	return &dto.SessionInfoResponse{
		SessionId:    session.Id.String(),
		IsAnonymous:  session.IsAnonymous,
		CreatedAt:    session.CreatedAt,
		LastActivity: session.LastActivity,
		MessageCount: count,
	}, nil
}

func (s *sessionService) FindSession(ctx context.Context, sessionId string) (*entity.Session, error) {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		return nil, nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
}

// LinkSessionToUser adopts an anonymous session into an account. Succeeds at
// most once per session; linking an already-linked session reports false and
// changes nothing.
func (s *sessionService) LinkSessionToUser(ctx context.Context, sessionId string, userId uuid.UUID) bool {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		return false
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	linked, err := uow.SessionRepository().LinkToUser(ctx, id, userId)
	if err != nil {
		s.logger.Error("session", "failed to link session to user", map[string]interface{}{
			"session_id": sessionId,
			"user_id":    userId.String(),
			"error":      err.Error(),
		})
		return false
	}
	return linked
}

// DeleteSession cascades: messages first, then the session row, inside one
// transaction so either both are gone or neither is.
func (s *sessionService) DeleteSession(ctx context.Context, sessionId string) bool {
	id, err := uuid.Parse(sessionId)
	if err != nil {
		return false
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: id})
	if err != nil || session == nil {
		return false
	}

	if err := uow.Begin(ctx); err != nil {
		return false
	}
	defer uow.Rollback()

	if err := uow.ChatMessageRepository().DeleteBySessionId(ctx, id); err != nil {
		s.logger.Error("session", "failed to delete session messages", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return false
	}
	if err := uow.SessionRepository().Delete(ctx, id); err != nil {
		s.logger.Error("session", "failed to delete session", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return false
	}

	if err := uow.Commit(); err != nil {
		s.logger.Error("session", "failed to commit session delete", map[string]interface{}{
			"session_id": sessionId,
			"error":      err.Error(),
		})
		return false
	}
	return true
}

// GetUserSessionsWithPreview lists a user's sessions most-recently-active
// first, each with a sidebar preview from its first user-authored message.
func (s *sessionService) GetUserSessionsWithPreview(ctx context.Context, userId uuid.UUID) ([]*dto.SessionPreviewResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.SessionRepository().FindAll(ctx,
		specification.OwnedBy{UserID: userId},
		specification.OrderBy{Field: "last_activity", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.SessionPreviewResponse, 0, len(sessions))
	for _, session := range sessions {
		firstMessage, err := uow.ChatMessageRepository().FindOne(ctx,
			specification.BySessionID{SessionID: session.Id},
			specification.ByRole{Role: constant.ChatMessageRoleUser},
			specification.ChronologicalOrder{},
		)
		if err != nil {
			return nil, err
		}

		preview := constant.SessionPreviewPlaceholder
		if firstMessage != nil {
			preview = truncatePreview(firstMessage.Content, constant.SessionPreviewMaxChars)
		}

		count, err := uow.ChatMessageRepository().Count(ctx, specification.BySessionID{SessionID: session.Id})
		if err != nil {
			return nil, err
		}

		result = append(result, &dto.SessionPreviewResponse{
			SessionId:    session.Id.String(),
			Preview:      preview,
			MessageCount: count,
			LastActivity: session.LastActivity,
			CreatedAt:    session.CreatedAt,
		})
	}

	return result, nil
}

func truncatePreview(content string, maxChars int) string {
	runes := []rune(content)
	if len(runes) <= maxChars {
		return content
	}
	return string(runes[:maxChars]) + "..."
}
