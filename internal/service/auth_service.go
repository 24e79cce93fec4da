package service

import (
	"context"
	"errors"
	"time"

	"fintech-assistant-be/internal/config"
	"fintech-assistant-be/internal/dto"
	"fintech-assistant-be/internal/entity"
	"fintech-assistant-be/internal/pkg/logger"
	"fintech-assistant-be/internal/repository/specification"
	"fintech-assistant-be/internal/repository/unitofwork"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken         = errors.New("user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountDisabled    = errors.New("account is disabled")
	ErrUserNotFound       = errors.New("user not found")
)

// IAuthService is the credential collaborator: the chat core only ever sees
// the authenticated user id it produces.
type IAuthService interface {
	Register(ctx context.Context, request *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, request *dto.LoginRequest) (*dto.AuthResponse, error)
	GetUser(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error)
}

type authService struct {
	uowFactory unitofwork.RepositoryFactory
	sessions   ISessionService
	cfg        config.AuthConfig
	logger     logger.ILogger
}

func NewAuthService(
	uowFactory unitofwork.RepositoryFactory,
	sessions ISessionService,
	cfg config.AuthConfig,
	log logger.ILogger,
) IAuthService {
	return &authService{
		uowFactory: uowFactory,
		sessions:   sessions,
		cfg:        cfg,
		logger:     log,
	}
}

func (s *authService) Register(ctx context.Context, request *dto.RegisterRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	existing, err := uow.UserRepository().FindOne(ctx, specification.Filter("email", request.Email))
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), s.cfg.BcryptCost)
	if err != nil {
		return nil, err
	}
	hashStr := string(hash)

	user := entity.User{
		Id:           uuid.New(),
		Email:        request.Email,
		PasswordHash: &hashStr,
		IsActive:     true,
		CreatedAt:    time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, &user); err != nil {
		return nil, err
	}

	// Adopt the caller's anonymous session into the new account, best effort.
	if request.SessionId != "" {
		if ok := s.sessions.LinkSessionToUser(ctx, request.SessionId, user.Id); !ok {
			s.logger.Warn("auth", "could not link session on register", map[string]interface{}{
				"session_id": request.SessionId,
				"user_id":    user.Id.String(),
			})
		}
	}

	return s.authResponse(&user)
}

func (s *authService) Login(ctx context.Context, request *dto.LoginRequest) (*dto.AuthResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.Filter("email", request.Email))
	if err != nil {
		return nil, err
	}
	if user == nil || user.PasswordHash == nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*user.PasswordHash), []byte(request.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResponse(user)
}

func (s *authService) GetUser(ctx context.Context, userId uuid.UUID) (*dto.UserResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userId})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return userResponse(user), nil
}

func (s *authService) authResponse(user *entity.User) (*dto.AuthResponse, error) {
	token, err := s.createAccessToken(user.Id)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        userResponse(user),
	}, nil
}

func (s *authService) createAccessToken(userId uuid.UUID) (string, error) {
	claims := jwt.MapClaims{
		"sub": userId.String(),
		"exp": time.Now().Add(time.Duration(s.cfg.TokenTTLHours) * time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func userResponse(user *entity.User) *dto.UserResponse {
	return &dto.UserResponse{
		Id:        user.Id.String(),
		Email:     user.Email,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
	}
}
