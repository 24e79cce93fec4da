package dto

type ChatRequest struct {
	Message   string `json:"message" validate:"required"`
	SessionId string `json:"session_id,omitempty"`
}

// HistoryPart / HistoryEntry mirror the role/parts structure the front end
// renders directly.
type HistoryPart struct {
	Text string `json:"text"`
}

type HistoryEntry struct {
	Role  string        `json:"role"`
	Parts []HistoryPart `json:"parts"`
}

type ChatResponse struct {
	Response  string         `json:"response"`
	SessionId string         `json:"session_id"`
	History   []HistoryEntry `json:"history"`
}
