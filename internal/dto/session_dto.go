package dto

import "time"

type SessionInfoResponse struct {
	SessionId    string    `json:"session_id"`
	IsAnonymous  bool      `json:"is_anonymous"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int64     `json:"message_count"`
}

type CreateSessionResponse struct {
	SessionId   string               `json:"session_id"`
	SessionInfo *SessionInfoResponse `json:"session_info"`
}

type ChatHistoryMessage struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

type ChatHistoryResponse struct {
	Messages    []*ChatHistoryMessage `json:"messages"`
	SessionInfo *SessionInfoResponse  `json:"session_info"`
}

type SessionPreviewResponse struct {
	SessionId    string    `json:"session_id"`
	Preview      string    `json:"preview"`
	MessageCount int64     `json:"message_count"`
	LastActivity time.Time `json:"last_activity"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserSessionsResponse struct {
	Sessions []*SessionPreviewResponse `json:"sessions"`
	Total    int                       `json:"total"`
}
