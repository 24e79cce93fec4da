package constant

const (
	ChatMessageRoleUser      = "user"
	ChatMessageRoleAssistant = "assistant"
)

const (
	// Sidebar preview: first user message, truncated
	SessionPreviewPlaceholder = "New Chat"
	SessionPreviewMaxChars    = 50

	DefaultHistoryLimit = 50
)
