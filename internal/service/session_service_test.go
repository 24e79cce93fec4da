package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"fintech-assistant-be/internal/constant"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSessionServiceForTest() (ISessionService, *fakeStore) {
	factory, store := newFakeFactory()
	return NewSessionService(factory, noopLogger{}), store
}

func TestCreateSession(t *testing.T) {
	svc, store := newSessionServiceForTest()
	ctx := context.Background()

	t.Run("anonymous without owner", func(t *testing.T) {
		id, err := svc.CreateSession(ctx, nil)
		require.NoError(t, err)

		parsed, err := uuid.Parse(id)
		require.NoError(t, err)

		session := store.sessions[parsed]
		require.NotNil(t, session)
		assert.True(t, session.IsAnonymous)
		assert.Nil(t, session.UserId)
	})

	t.Run("owned when owner given", func(t *testing.T) {
		owner := uuid.New()
		id, err := svc.CreateSession(ctx, &owner)
		require.NoError(t, err)

		parsed, _ := uuid.Parse(id)
		session := store.sessions[parsed]
		require.NotNil(t, session)
		assert.False(t, session.IsAnonymous)
		require.NotNil(t, session.UserId)
		assert.Equal(t, owner, *session.UserId)
	})
}

func TestResolveOrCreateSession(t *testing.T) {
	ctx := context.Background()

	t.Run("reuses and touches an existing session", func(t *testing.T) {
		svc, store := newSessionServiceForTest()
		existing, err := svc.CreateSession(ctx, nil)
		require.NoError(t, err)

		parsed, _ := uuid.Parse(existing)
		before := store.sessions[parsed].LastActivity
		time.Sleep(time.Millisecond)

		got, err := svc.ResolveOrCreateSession(ctx, existing)
		require.NoError(t, err)
		assert.Equal(t, existing, got)
		assert.True(t, store.sessions[parsed].LastActivity.After(before))
		assert.Len(t, store.sessions, 1)
	})

	t.Run("unknown id falls back to a fresh session", func(t *testing.T) {
		svc, store := newSessionServiceForTest()
		got, err := svc.ResolveOrCreateSession(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.NotEmpty(t, got)
		assert.Len(t, store.sessions, 1)
	})

	t.Run("malformed id falls back to a fresh session", func(t *testing.T) {
		svc, _ := newSessionServiceForTest()
		got, err := svc.ResolveOrCreateSession(ctx, "not-a-uuid")
		require.NoError(t, err)
		_, err = uuid.Parse(got)
		assert.NoError(t, err)
	})

	t.Run("empty hint creates", func(t *testing.T) {
		svc, _ := newSessionServiceForTest()
		got, err := svc.ResolveOrCreateSession(ctx, "")
		require.NoError(t, err)
		assert.NotEmpty(t, got)
	})
}

func TestResolveForUser(t *testing.T) {
	ctx := context.Background()

	t.Run("reuses most recently active session", func(t *testing.T) {
		svc, store := newSessionServiceForTest()
		userId := uuid.New()

		older, err := svc.CreateSession(ctx, &userId)
		require.NoError(t, err)
		newer, err := svc.CreateSession(ctx, &userId)
		require.NoError(t, err)

		olderId, _ := uuid.Parse(older)
		newerId, _ := uuid.Parse(newer)
		store.sessions[olderId].LastActivity = time.Now().Add(-time.Hour)
		store.sessions[newerId].LastActivity = time.Now()

		got, err := svc.ResolveForUser(ctx, userId)
		require.NoError(t, err)
		assert.Equal(t, newer, got)
	})

	t.Run("creates owned session when user has none", func(t *testing.T) {
		svc, store := newSessionServiceForTest()
		userId := uuid.New()

		got, err := svc.ResolveForUser(ctx, userId)
		require.NoError(t, err)

		parsed, _ := uuid.Parse(got)
		session := store.sessions[parsed]
		require.NotNil(t, session)
		assert.False(t, session.IsAnonymous)
		assert.Equal(t, userId, *session.UserId)
	})
}

func TestSaveMessageAndHistory(t *testing.T) {
	ctx := context.Background()
	svc, store := newSessionServiceForTest()

	sessionId, err := svc.CreateSession(ctx, nil)
	require.NoError(t, err)

	assert.True(t, svc.SaveMessage(ctx, sessionId, constant.ChatMessageRoleUser, "hello"))
	assert.True(t, svc.SaveMessage(ctx, sessionId, constant.ChatMessageRoleAssistant, "hi there"))

	history, err := svc.GetChatHistory(ctx, sessionId, 50)
	require.NoError(t, err)
	require.Len(t, history, 2)

	// Oldest first, roles preserved
	assert.Equal(t, constant.ChatMessageRoleUser, history[0].Role)
	assert.Equal(t, "hello", history[0].Content)
	assert.Equal(t, constant.ChatMessageRoleAssistant, history[1].Role)
	assert.Equal(t, "hi there", history[1].Content)

	t.Run("limit caps the result", func(t *testing.T) {
		limited, err := svc.GetChatHistory(ctx, sessionId, 1)
		require.NoError(t, err)
		assert.Len(t, limited, 1)
	})

	t.Run("same-timestamp messages keep insertion order", func(t *testing.T) {
		at := time.Now()
		for _, m := range store.messages {
			m.CreatedAt = at
		}
		history, err := svc.GetChatHistory(ctx, sessionId, 50)
		require.NoError(t, err)
		require.Len(t, history, 2)
		assert.Equal(t, "hello", history[0].Content)
		assert.Equal(t, "hi there", history[1].Content)
	})

	t.Run("invalid session id saves nothing", func(t *testing.T) {
		assert.False(t, svc.SaveMessage(ctx, "garbage", constant.ChatMessageRoleUser, "x"))
	})

	t.Run("storage failure reports false and keeps prior state", func(t *testing.T) {
		store.failMessageCreate = true
		defer func() { store.failMessageCreate = false }()

		assert.False(t, svc.SaveMessage(ctx, sessionId, constant.ChatMessageRoleUser, "lost"))

		history, err := svc.GetChatHistory(ctx, sessionId, 50)
		require.NoError(t, err)
		assert.Len(t, history, 2)
	})
}

func TestGetSessionInfo(t *testing.T) {
	ctx := context.Background()
	svc, _ := newSessionServiceForTest()

	sessionId, err := svc.CreateSession(ctx, nil)
	require.NoError(t, err)
	svc.SaveMessage(ctx, sessionId, constant.ChatMessageRoleUser, "hello")

	info, err := svc.GetSessionInfo(ctx, sessionId)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, sessionId, info.SessionId)
	assert.True(t, info.IsAnonymous)
	assert.Equal(t, int64(1), info.MessageCount)

	t.Run("absent session yields nil, not error", func(t *testing.T) {
		info, err := svc.GetSessionInfo(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.Nil(t, info)
	})
}

func TestLinkSessionToUser(t *testing.T) {
	ctx := context.Background()
	svc, store := newSessionServiceForTest()
	userId := uuid.New()

	sessionId, err := svc.CreateSession(ctx, nil)
	require.NoError(t, err)
	parsed, _ := uuid.Parse(sessionId)

	t.Run("links an anonymous session once", func(t *testing.T) {
		assert.True(t, svc.LinkSessionToUser(ctx, sessionId, userId))

		session := store.sessions[parsed]
		assert.False(t, session.IsAnonymous)
		assert.Equal(t, userId, *session.UserId)
	})

	t.Run("second link is rejected and changes nothing", func(t *testing.T) {
		otherUser := uuid.New()
		assert.False(t, svc.LinkSessionToUser(ctx, sessionId, otherUser))
		assert.Equal(t, userId, *store.sessions[parsed].UserId)
	})

	t.Run("absent session reports false", func(t *testing.T) {
		assert.False(t, svc.LinkSessionToUser(ctx, uuid.New().String(), userId))
	})
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()

	t.Run("cascades messages with the session", func(t *testing.T) {
		svc, store := newSessionServiceForTest()
		doomed, _ := svc.CreateSession(ctx, nil)
		kept, _ := svc.CreateSession(ctx, nil)

		svc.SaveMessage(ctx, doomed, constant.ChatMessageRoleUser, "bye")
		svc.SaveMessage(ctx, kept, constant.ChatMessageRoleUser, "stay")

		assert.True(t, svc.DeleteSession(ctx, doomed))

		assert.Len(t, store.sessions, 1)
		require.Len(t, store.messages, 1)
		assert.Equal(t, "stay", store.messages[0].Content)
	})

	t.Run("absent session reports false", func(t *testing.T) {
		svc, _ := newSessionServiceForTest()
		assert.False(t, svc.DeleteSession(ctx, uuid.New().String()))
	})
}

func TestGetUserSessionsWithPreview(t *testing.T) {
	ctx := context.Background()
	svc, store := newSessionServiceForTest()
	userId := uuid.New()

	first, _ := svc.CreateSession(ctx, &userId)
	second, _ := svc.CreateSession(ctx, &userId)
	empty, _ := svc.CreateSession(ctx, &userId)

	long := strings.Repeat("a", 60)
	svc.SaveMessage(ctx, first, constant.ChatMessageRoleUser, long)
	svc.SaveMessage(ctx, second, constant.ChatMessageRoleAssistant, "assistant speaks first")
	svc.SaveMessage(ctx, second, constant.ChatMessageRoleUser, "short question")

	// Pin activity order: second, first, empty
	ids := map[string]time.Duration{second: 0, first: -time.Minute, empty: -time.Hour}
	for idStr, offset := range ids {
		parsed, _ := uuid.Parse(idStr)
		store.sessions[parsed].LastActivity = time.Now().Add(offset)
	}

	previews, err := svc.GetUserSessionsWithPreview(ctx, userId)
	require.NoError(t, err)
	require.Len(t, previews, 3)

	// Most recently active first
	assert.Equal(t, second, previews[0].SessionId)
	assert.Equal(t, first, previews[1].SessionId)
	assert.Equal(t, empty, previews[2].SessionId)

	// Preview comes from the first user message, not the assistant's
	assert.Equal(t, "short question", previews[0].Preview)

	// Long content is truncated with an ellipsis marker
	assert.Equal(t, strings.Repeat("a", 50)+"...", previews[1].Preview)
	assert.Equal(t, int64(1), previews[1].MessageCount)

	// Message-less session gets the placeholder
	assert.Equal(t, constant.SessionPreviewPlaceholder, previews[2].Preview)

	t.Run("user with no sessions gets empty list", func(t *testing.T) {
		previews, err := svc.GetUserSessionsWithPreview(ctx, uuid.New())
		require.NoError(t, err)
		assert.Empty(t, previews)
	})
}

func TestTruncatePreview(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"short stays intact", "hello", "hello"},
		{"exactly at limit stays intact", strings.Repeat("x", 50), strings.Repeat("x", 50)},
		{"over limit gets ellipsis", strings.Repeat("x", 51), strings.Repeat("x", 50) + "..."},
		{"multibyte counted in runes", strings.Repeat("é", 51), strings.Repeat("é", 50) + "..."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, truncatePreview(tt.content, constant.SessionPreviewMaxChars))
		})
	}
}
