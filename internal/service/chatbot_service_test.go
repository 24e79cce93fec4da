package service

import (
	"context"
	"testing"
	"time"

	"fintech-assistant-be/internal/constant"
	"fintech-assistant-be/internal/dto"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAnswerer struct {
	reply string
	got   string
	calls int
}

func (a *stubAnswerer) Answer(ctx context.Context, userMessage string) string {
	a.calls++
	a.got = userMessage
	return a.reply
}

func newChatbotForTest(reply string) (IChatbotService, ISessionService, *fakeStore, *stubAnswerer) {
	factory, store := newFakeFactory()
	sessions := NewSessionService(factory, noopLogger{})
	answerer := &stubAnswerer{reply: reply}
	return NewChatbotService(sessions, answerer, noopLogger{}), sessions, store, answerer
}

func TestSendChatFirstTurn(t *testing.T) {
	chatbot, _, store, answerer := newChatbotForTest("You can transfer up to $10,000 per day.")
	ctx := context.Background()

	res, err := chatbot.SendChat(ctx, &dto.ChatRequest{Message: "what are the transfer limits?"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "You can transfer up to $10,000 per day.", res.Response)
	assert.Equal(t, "what are the transfer limits?", answerer.got)
	require.NotEmpty(t, res.SessionId)

	// Both turns persisted and echoed back as role/parts history
	require.Len(t, res.History, 2)
	assert.Equal(t, constant.ChatMessageRoleUser, res.History[0].Role)
	require.Len(t, res.History[0].Parts, 1)
	assert.Equal(t, "what are the transfer limits?", res.History[0].Parts[0].Text)
	assert.Equal(t, constant.ChatMessageRoleAssistant, res.History[1].Role)
	assert.Equal(t, "You can transfer up to $10,000 per day.", res.History[1].Parts[0].Text)

	// A fresh anonymous session was minted
	parsed, err := uuid.Parse(res.SessionId)
	require.NoError(t, err)
	assert.True(t, store.sessions[parsed].IsAnonymous)
}

func TestSendChatSecondTurnGrowsHistory(t *testing.T) {
	chatbot, _, _, _ := newChatbotForTest("answer")
	ctx := context.Background()

	first, err := chatbot.SendChat(ctx, &dto.ChatRequest{Message: "turn one"}, nil)
	require.NoError(t, err)

	second, err := chatbot.SendChat(ctx, &dto.ChatRequest{
		Message:   "turn two",
		SessionId: first.SessionId,
	}, nil)
	require.NoError(t, err)

	assert.Equal(t, first.SessionId, second.SessionId)
	require.Len(t, second.History, 4)
	assert.Equal(t, "turn one", second.History[0].Parts[0].Text)
	assert.Equal(t, "turn two", second.History[2].Parts[0].Text)
}

func TestSendChatRejectsEmptyMessage(t *testing.T) {
	chatbot, _, store, answerer := newChatbotForTest("never")
	ctx := context.Background()

	for _, msg := range []string{"", "   ", "\n"} {
		_, err := chatbot.SendChat(ctx, &dto.ChatRequest{Message: msg}, nil)
		assert.ErrorIs(t, err, ErrEmptyMessage)
	}

	// Nothing was touched
	assert.Empty(t, store.sessions)
	assert.Empty(t, store.messages)
	assert.Equal(t, 0, answerer.calls)
}

func TestSendChatSessionPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("explicit hint wins over authenticated identity", func(t *testing.T) {
		chatbot, sessions, _, _ := newChatbotForTest("answer")
		userId := uuid.New()

		anonymous, err := sessions.CreateSession(ctx, nil)
		require.NoError(t, err)

		res, err := chatbot.SendChat(ctx, &dto.ChatRequest{
			Message:   "hello",
			SessionId: anonymous,
		}, &userId)
		require.NoError(t, err)
		assert.Equal(t, anonymous, res.SessionId)
	})

	t.Run("authenticated user without hint reuses latest session", func(t *testing.T) {
		chatbot, sessions, store, _ := newChatbotForTest("answer")
		userId := uuid.New()

		existing, err := sessions.CreateSession(ctx, &userId)
		require.NoError(t, err)
		parsed, _ := uuid.Parse(existing)
		store.sessions[parsed].LastActivity = time.Now().Add(-time.Minute)

		res, err := chatbot.SendChat(ctx, &dto.ChatRequest{Message: "hello"}, &userId)
		require.NoError(t, err)
		assert.Equal(t, existing, res.SessionId)
	})

	t.Run("stale hint falls back to a fresh session", func(t *testing.T) {
		chatbot, _, store, _ := newChatbotForTest("answer")

		res, err := chatbot.SendChat(ctx, &dto.ChatRequest{
			Message:   "hello",
			SessionId: uuid.New().String(),
		}, nil)
		require.NoError(t, err)
		assert.NotEmpty(t, res.SessionId)
		assert.Len(t, store.sessions, 1)
	})
}

func TestSendChatPersistsFallbackReply(t *testing.T) {
	// When generation degrades, the fallback is still a real assistant turn.
	fallback := "I'm having trouble generating a response right now. Please try again."
	chatbot, _, store, _ := newChatbotForTest(fallback)
	ctx := context.Background()

	res, err := chatbot.SendChat(ctx, &dto.ChatRequest{Message: "hello"}, nil)
	require.NoError(t, err)

	assert.Equal(t, fallback, res.Response)
	require.Len(t, store.messages, 2)
	assert.Equal(t, fallback, store.messages[1].Content)
}

func TestSendChatSurvivesUserMessageWriteFailure(t *testing.T) {
	// Losing the user turn is logged, not fatal: the caller still gets an
	// answer.
	chatbot, _, store, answerer := newChatbotForTest("still answered")
	ctx := context.Background()

	store.failMessageCreate = true
	res, err := chatbot.SendChat(ctx, &dto.ChatRequest{Message: "hello"}, nil)
	require.NoError(t, err)

	assert.Equal(t, "still answered", res.Response)
	assert.Equal(t, 1, answerer.calls)
	assert.Empty(t, store.messages)
	assert.Empty(t, res.History)
}
