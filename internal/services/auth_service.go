package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ridelink/internal/models"
	"ridelink/internal/repositories/interfaces"
	"ridelink/internal/utils"
	"ridelink/internal/validators"
	"ridelink/pkg/logger"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type AuthService interface {
	Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error)
	UpdateNotificationToken(ctx context.Context, userID primitive.ObjectID, token string) error
	ToggleNotifications(ctx context.Context, userID primitive.ObjectID, enabled bool) error
	GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error)
}

type AuthResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// LoginLimiter throttles login attempts per identity. The production
// implementation is the Redis sliding-window limiter in pkg/cache.
type LoginLimiter interface {
	Allowed(ctx context.Context, identity string) (bool, time.Duration, error)
	Record(ctx context.Context, identity string) error
	Reset(ctx context.Context, identity string) error
}

type authService struct {
	userRepo     interfaces.UserRepository
	loginLimiter LoginLimiter
	jwtSecret    string
	tokenTTL     time.Duration
	logger       *logger.Logger
}

func NewAuthService(
	userRepo interfaces.UserRepository,
	loginLimiter LoginLimiter,
	jwtSecret string,
	tokenTTL time.Duration,
	log *logger.Logger,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		loginLimiter: loginLimiter,
		jwtSecret:    jwtSecret,
		tokenTTL:     tokenTTL,
		logger:       log,
	}
}

func (s *authService) Register(ctx context.Context, request *validators.RegisterRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.EmailExists(ctx, request.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(request.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	userType := models.UserTypeCustomer
	if request.UserType != "" {
		userType = models.UserType(request.UserType)
	}

	user := &models.User{
		Name:                request.Name,
		Email:               request.Email,
		Password:            string(hash),
		Phone:               request.Phone,
		UserType:            userType,
		NotificationEnabled: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, interfaces.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := utils.GenerateToken(user.ID, string(user.UserType), s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.WithUserID(user.ID).WithField("email", user.Email).Info("User registered")

	return &AuthResponse{User: user, Token: token}, nil
}

func (s *authService) Login(ctx context.Context, request *validators.LoginRequest) (*AuthResponse, error) {
	if err := utils.ValidateStruct(request); err != nil {
		return nil, err
	}

	allowed, retryAfter, err := s.loginLimiter.Allowed(ctx, request.Email)
	if err != nil {
		// The limiter must not take logins down with it.
		s.logger.WithError(err).Warn("Login rate limiter unavailable")
	} else if !allowed {
		return nil, &RateLimitedError{RetryAfter: retryAfter}
	}

	user, err := s.userRepo.GetByEmail(ctx, request.Email)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			s.recordFailedAttempt(ctx, request.Email)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(request.Password)); err != nil {
		s.recordFailedAttempt(ctx, request.Email)
		s.logger.WithField("email", request.Email).Warn("Login attempt with invalid credentials")
		return nil, ErrInvalidCredentials
	}

	if err := s.loginLimiter.Reset(ctx, request.Email); err != nil {
		s.logger.WithError(err).Warn("Failed to reset login attempt window")
	}

	token, err := utils.GenerateToken(user.ID, string(user.UserType), s.jwtSecret, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	s.logger.WithUserID(user.ID).Info("User logged in")

	return &AuthResponse{User: user, Token: token}, nil
}

func (s *authService) recordFailedAttempt(ctx context.Context, email string) {
	if err := s.loginLimiter.Record(ctx, email); err != nil {
		s.logger.WithError(err).Warn("Failed to record login attempt")
	}
}

func (s *authService) UpdateNotificationToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"onesignal_token": token,
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to update notification token: %w", err)
	}

	return nil
}

func (s *authService) ToggleNotifications(ctx context.Context, userID primitive.ObjectID, enabled bool) error {
	err := s.userRepo.Update(ctx, userID, map[string]interface{}{
		"notification_enabled": enabled,
	})
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to toggle notifications: %w", err)
	}

	return nil
}

func (s *authService) GetUser(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, interfaces.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}
