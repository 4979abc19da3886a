package service

import (
	"errors"
	"strings"
	"time"

	"github.com/collabboard/collabboard-backend/internal/domain"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// tokenTTL is the lifetime of issued bearer tokens
const tokenTTL = 7 * 24 * time.Hour

// AuthService handles registration, login, and token issuing
type AuthService struct {
	userRepo  domain.UserRepository
	jwtSecret []byte
}

// NewAuthService creates a new AuthService
func NewAuthService(userRepo domain.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		jwtSecret: []byte(jwtSecret),
	}
}

// Register creates a new user and returns it with a signed bearer token
func (s *AuthService) Register(name, email, password string) (*domain.User, string, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return nil, "", domain.ErrNameRequired
	}
	if email == "" {
		return nil, "", domain.ErrEmailRequired
	}
	if len(password) < domain.MinPasswordLength {
		return nil, "", domain.ErrPasswordTooShort
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	user, err := s.userRepo.Create(&domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User registered")
	return user, token, nil
}

// Login verifies credentials and returns the user with a signed bearer token
func (s *AuthService) Login(email, password string) (*domain.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.userRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.issueToken(user.ID)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("User logged in")
	return user, token, nil
}

// GetUserByID retrieves a user by ID
func (s *AuthService) GetUserByID(id uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(id)
}

// issueToken signs an HS256 bearer token carrying the user ID as subject
func (s *AuthService) issueToken(userID uuid.UUID) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   userID.String(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenTTL)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
