package service

import (
	"context"
	"errors"
	"strings"

	"fintech-assistant-be/internal/constant"
	"fintech-assistant-be/internal/dto"
	"fintech-assistant-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// ErrEmptyMessage is a client input error, rejected before any external
// system is touched.
var ErrEmptyMessage = errors.New("message cannot be empty")

// Answerer is the retrieval-augmented orchestrator boundary: one message in,
// one reply out, failures already degraded to a safe fallback inside.
type Answerer interface {
	Answer(ctx context.Context, userMessage string) string
}

// IChatbotService coordinates one chat turn: resolve the session, record the
// user turn, generate a reply, record it, and return the visible history.
type IChatbotService interface {
	SendChat(ctx context.Context, request *dto.ChatRequest, userId *uuid.UUID) (*dto.ChatResponse, error)
}

type chatbotService struct {
	sessions     ISessionService
	orchestrator Answerer
	logger       logger.ILogger
}

func NewChatbotService(sessions ISessionService, orchestrator Answerer, log logger.ILogger) IChatbotService {
	return &chatbotService{
		sessions:     sessions,
		orchestrator: orchestrator,
		logger:       log,
	}
}

func (cs *chatbotService) SendChat(ctx context.Context, request *dto.ChatRequest, userId *uuid.UUID) (*dto.ChatResponse, error) {
	if strings.TrimSpace(request.Message) == "" {
		return nil, ErrEmptyMessage
	}

	sessionId, err := cs.resolveSession(ctx, request.SessionId, userId)
	if err != nil {
		return nil, err
	}

	// Append failures are logged, not fatal: a degraded turn still answers.
	if ok := cs.sessions.SaveMessage(ctx, sessionId, constant.ChatMessageRoleUser, request.Message); !ok {
		cs.logger.Warn("chatbot", "user turn not persisted", map[string]interface{}{
			"session_id": sessionId,
		})
	}

	response := cs.orchestrator.Answer(ctx, request.Message)

	if ok := cs.sessions.SaveMessage(ctx, sessionId, constant.ChatMessageRoleAssistant, response); !ok {
		cs.logger.Warn("chatbot", "assistant turn not persisted", map[string]interface{}{
			"session_id": sessionId,
		})
	}

	history, err := cs.sessions.GetChatHistory(ctx, sessionId, constant.DefaultHistoryLimit)
	if err != nil {
		return nil, err
	}

	entries := make([]dto.HistoryEntry, 0, len(history))
	for _, msg := range history {
		entries = append(entries, dto.HistoryEntry{
			Role:  msg.Role,
			Parts: []dto.HistoryPart{{Text: msg.Content}},
		})
	}

	return &dto.ChatResponse{
		Response:  response,
		SessionId: sessionId,
		History:   entries,
	}, nil
}

// resolveSession picks the session for this turn: an explicit hint always
// wins; an authenticated caller without a hint reuses their most-recently-
// active session; everyone else gets a fresh anonymous session.
func (cs *chatbotService) resolveSession(ctx context.Context, hint string, userId *uuid.UUID) (string, error) {
	if hint != "" {
		return cs.sessions.ResolveOrCreateSession(ctx, hint)
	}
	if userId != nil {
		return cs.sessions.ResolveForUser(ctx, *userId)
	}
	return cs.sessions.ResolveOrCreateSession(ctx, "")
}
