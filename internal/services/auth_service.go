package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/mindhaven/mindhaven-api/internal/auth"
	"github.com/mindhaven/mindhaven-api/internal/constants"
	"github.com/mindhaven/mindhaven-api/internal/models"
	"github.com/mindhaven/mindhaven-api/internal/repository"
	"gorm.io/gorm"
)

var (
	ErrUsernameTaken      = errors.New("username already registered")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrAccountLocked      = errors.New("account is temporarily locked due to multiple failed login attempts")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrUserNotFound       = errors.New("user not found")
	ErrCustomerAtCapacity = errors.New("customer has reached its user limit")
	ErrInvalidRefresh     = errors.New("invalid refresh token")
)

// TokenPair is the credential payload returned on login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
}

// AuthService handles registration, login, and token refresh.
type AuthService struct {
	userRepo     repository.UserRepository
	customerRepo repository.CustomerRepository
	tokens       *auth.TokenManager
	goals        *GoalService
}

// NewAuthService creates a new AuthService.
func NewAuthService(userRepo repository.UserRepository, customerRepo repository.CustomerRepository, tokens *auth.TokenManager, goals *GoalService) *AuthService {
	return &AuthService{
		userRepo:     userRepo,
		customerRepo: customerRepo,
		tokens:       tokens,
		goals:        goals,
	}
}

// RegisterInput represents the required information to create a new user.
type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
	Role     models.UserRole
}

// Register creates a new user inside the actor's customer and assigns their
// onboarding goals. Only admins and moderators may register users; the
// handler enforces that via middleware.
func (s *AuthService) Register(input RegisterInput, actor *models.User) (*models.User, error) {
	username := strings.TrimSpace(input.Username)
	if err := auth.ValidateUsername(username); err != nil {
		return nil, err
	}
	if err := auth.ValidateEmail(input.Email); err != nil {
		return nil, err
	}
	if input.FullName != "" {
		if err := auth.ValidateFullName(input.FullName); err != nil {
			return nil, err
		}
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByUsername(username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}
	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	customer, err := s.customerRepo.FindByID(actor.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load customer: %w", err)
	}
	userCount, err := s.customerRepo.CountUsers(customer.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to count customer users: %w", err)
	}
	if userCount >= int64(customer.MaxUsers) {
		return nil, ErrCustomerAtCapacity
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}

	user := &models.User{
		Username:     username,
		Email:        input.Email,
		FullName:     strings.TrimSpace(input.FullName),
		PasswordHash: hash,
		Role:         role,
		IsActive:     true,
		CustomerID:   actor.CustomerID,
	}

	if err := s.userRepo.Create(user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// Onboarding goals are best-effort: a thin catalog must not fail signup.
	if _, err := s.goals.AssignGoalsForNewUser(user.ID); err != nil {
		log.Printf("Failed to assign initial goals to user %d: %v", user.ID, err)
	}

	return user, nil
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Email    string
	Password string
}

// Login verifies credentials, applies the lockout policy, and returns the
// authenticated user with a fresh token pair.
func (s *AuthService) Login(input LoginInput) (*models.User, *TokenPair, error) {
	user, err := s.userRepo.FindByEmail(input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, fmt.Errorf("failed to find user: %w", err)
	}

	now := time.Now().UTC()
	if user.IsLocked(now) {
		return nil, nil, ErrAccountLocked
	}
	if !user.IsActive {
		return nil, nil, ErrAccountInactive
	}

	if !auth.CheckPassword(input.Password, user.PasswordHash) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= constants.MaxFailedLoginAttempts {
			lockedUntil := now.Add(constants.AccountLockMinutes * time.Minute)
			user.LockedUntil = &lockedUntil
		}
		if err := s.userRepo.Update(user); err != nil {
			log.Printf("Failed to record failed login for user %d: %v", user.ID, err)
		}
		return nil, nil, ErrInvalidCredentials
	}

	user.FailedLoginAttempts = 0
	user.LockedUntil = nil
	user.LastLogin = &now
	if err := s.userRepo.Update(user); err != nil {
		log.Printf("Failed to record login for user %d: %v", user.ID, err)
	}

	pair, err := s.issueTokens(user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := s.tokens.VerifyToken(refreshToken, auth.TokenTypeRefresh)
	if err != nil {
		return nil, ErrInvalidRefresh
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidRefresh
	}
	if !user.IsActive {
		return nil, ErrAccountInactive
	}

	return s.issueTokens(user)
}

// GetUser retrieves a user by ID.
func (s *AuthService) GetUser(id uint64) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := s.tokens.CreateAccessToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}
	refreshToken, err := s.tokens.CreateRefreshToken(user)
	if err != nil {
		return nil, fmt.Errorf("failed to create refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int(auth.AccessTokenTTL.Seconds()),
	}, nil
}
