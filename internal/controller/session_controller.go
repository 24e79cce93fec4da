package controller

import (
	"strconv"

	"fintech-assistant-be/internal/constant"
	"fintech-assistant-be/internal/dto"
	"fintech-assistant-be/internal/pkg/serverutils"
	"fintech-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Create(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
	History(ctx *fiber.Ctx) error
	MyChats(ctx *fiber.Ctx) error
}

type sessionController struct {
	sessionService service.ISessionService
}

func NewSessionController(sessionService service.ISessionService) ISessionController {
	return &sessionController{
		sessionService: sessionService,
	}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session", serverutils.OptionalJwtMiddleware)
	h.Post("/create", c.Create)
	h.Get("/:id", c.Show)
	h.Delete("/:id", c.Delete)
	h.Get("/:id/history", c.History)

	r.Get("/sessions/my-chats", serverutils.OptionalJwtMiddleware, c.MyChats)
}

func (c *sessionController) Create(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)

	sessionId, err := c.sessionService.CreateSession(ctx.Context(), userId)
	if err != nil {
		return err
	}

	info, err := c.sessionService.GetSessionInfo(ctx.Context(), sessionId)
	if err != nil {
		return err
	}

	return ctx.JSON(&dto.CreateSessionResponse{
		SessionId:   sessionId,
		SessionInfo: info,
	})
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	info, err := c.sessionService.GetSessionInfo(ctx.Context(), ctx.Params("id"))
	if err != nil {
		return err
	}
	if info == nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	return ctx.JSON(info)
}

func (c *sessionController) Delete(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")

	sess, err := c.sessionService.FindSession(ctx.Context(), sessionId)
	if err != nil {
		return err
	}
	if sess == nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	// A logged-in caller may only delete sessions they own
	if userId := currentUserId(ctx); userId != nil {
		if sess.UserId == nil || *sess.UserId != *userId {
			return fiber.NewError(fiber.StatusForbidden, "Not authorized to delete this session")
		}
	}

	if ok := c.sessionService.DeleteSession(ctx.Context(), sessionId); !ok {
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete session")
	}

	return ctx.JSON(serverutils.SuccessResponse("Session deleted", nil))
}

func (c *sessionController) History(ctx *fiber.Ctx) error {
	sessionId := ctx.Params("id")

	info, err := c.sessionService.GetSessionInfo(ctx.Context(), sessionId)
	if err != nil {
		return err
	}
	if info == nil {
		return fiber.NewError(fiber.StatusNotFound, "Session not found")
	}

	limit := constant.DefaultHistoryLimit
	if raw := ctx.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	messages, err := c.sessionService.GetChatHistory(ctx.Context(), sessionId, limit)
	if err != nil {
		return err
	}

	return ctx.JSON(&dto.ChatHistoryResponse{
		Messages:    messages,
		SessionInfo: info,
	})
}

func (c *sessionController) MyChats(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == nil {
		// Anonymous callers simply have no saved chats
		return ctx.JSON(&dto.UserSessionsResponse{
			Sessions: []*dto.SessionPreviewResponse{},
			Total:    0,
		})
	}

	sessions, err := c.sessionService.GetUserSessionsWithPreview(ctx.Context(), *userId)
	if err != nil {
		return err
	}

	return ctx.JSON(&dto.UserSessionsResponse{
		Sessions: sessions,
		Total:    len(sessions),
	})
}
