package controller

import (
	"errors"

	"fintech-assistant-be/internal/dto"
	"fintech-assistant-be/internal/pkg/serverutils"
	"fintech-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IAuthController interface {
	RegisterRoutes(r fiber.Router)
	Register(ctx *fiber.Ctx) error
	Login(ctx *fiber.Ctx) error
	Me(ctx *fiber.Ctx) error
	LinkSession(ctx *fiber.Ctx) error
	Logout(ctx *fiber.Ctx) error
	VerifyToken(ctx *fiber.Ctx) error
}

type authController struct {
	authService    service.IAuthService
	sessionService service.ISessionService
}

func NewAuthController(authService service.IAuthService, sessionService service.ISessionService) IAuthController {
	return &authController{
		authService:    authService,
		sessionService: sessionService,
	}
}

func (c *authController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/auth")
	h.Post("/register", c.Register)
	h.Post("/login", c.Login)
	h.Get("/me", serverutils.JwtMiddleware, c.Me)
	h.Post("/link-session", serverutils.JwtMiddleware, c.LinkSession)
	h.Post("/logout", c.Logout)
	h.Post("/verify-token", serverutils.JwtMiddleware, c.VerifyToken)
}

func (c *authController) Register(ctx *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.Register(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		return err
	}

	return ctx.Status(fiber.StatusCreated).JSON(res)
}

func (c *authController) Login(ctx *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.authService.Login(ctx.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) || errors.Is(err, service.ErrAccountDisabled) {
			return fiber.NewError(fiber.StatusUnauthorized, err.Error())
		}
		return err
	}

	return ctx.JSON(res)
}

func (c *authController) Me(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	user, err := c.authService.GetUser(ctx.Context(), *userId)
	if err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			return fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		return err
	}

	return ctx.JSON(user)
}

// LinkSession adopts an anonymous session into the authenticated account.
// Linking is one-shot: a session that already belongs to a user stays put.
func (c *authController) LinkSession(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}

	var req dto.LinkSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request payload")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if ok := c.sessionService.LinkSessionToUser(ctx.Context(), req.SessionId, *userId); !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Session cannot be linked")
	}

	return ctx.JSON(serverutils.SuccessResponse("Session linked", nil))
}

// Logout is stateless: tokens are not tracked server side, the client just
// discards its copy.
func (c *authController) Logout(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Logged out", nil))
}

func (c *authController) VerifyToken(ctx *fiber.Ctx) error {
	userId := currentUserId(ctx)
	if userId == nil {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
	}
	return ctx.JSON(fiber.Map{"valid": true, "user_id": userId.String()})
}
