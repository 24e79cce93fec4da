package controller

import (
	"errors"

	"fintech-assistant-be/internal/dto"
	"fintech-assistant-be/internal/pkg/serverutils"
	"fintech-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IChatController interface {
	RegisterRoutes(r fiber.Router)
	Chat(ctx *fiber.Ctx) error
}

type chatController struct {
	chatbotService service.IChatbotService
}

func NewChatController(chatbotService service.IChatbotService) IChatController {
	return &chatController{
		chatbotService: chatbotService,
	}
}

func (c *chatController) RegisterRoutes(r fiber.Router) {
	// Anonymous and logged-in callers share the same endpoint
	r.Post("/chat", serverutils.OptionalJwtMiddleware, c.Chat)
}

func (c *chatController) Chat(ctx *fiber.Ctx) error {
	var req dto.ChatRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	// Body takes precedence; fall back to the header clients send on
	// subsequent turns.
	if req.SessionId == "" {
		req.SessionId = ctx.Get("X-Session-Id")
	}

	res, err := c.chatbotService.SendChat(ctx.Context(), &req, currentUserId(ctx))
	if err != nil {
		if errors.Is(err, service.ErrEmptyMessage) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return ctx.JSON(res)
}

// currentUserId reads the user id OptionalJwtMiddleware may have stashed.
// Returns nil for anonymous callers or unparseable claims.
func currentUserId(ctx *fiber.Ctx) *uuid.UUID {
	raw, ok := ctx.Locals("user_id").(string)
	if !ok {
		return nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &id
}
