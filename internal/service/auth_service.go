package service

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"fleet-service/internal/auth"
	"fleet-service/internal/model"
	"fleet-service/internal/repository"
)

type AuthService struct {
	users   *repository.UserRepository
	drivers *repository.DriverRepository
	tokens  *auth.Manager
}

func NewAuthService(
	users *repository.UserRepository,
	drivers *repository.DriverRepository,
	tokens *auth.Manager,
) *AuthService {
	return &AuthService{
		users:   users,
		drivers: drivers,
		tokens:  tokens,
	}
}

type AuthResult struct {
	Token     string          `json:"token"`
	Principal model.Principal `json:"user"`
}

// Register creates a manager credential. Driver credentials are only created
// through the create-account flow so they stay linked to a driver record.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*AuthResult, error) {
	username = strings.TrimSpace(username)
	email = strings.ToLower(strings.TrimSpace(email))
	if username == "" || email == "" || len(password) < 6 {
		return nil, ErrInvalidInput
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Role:         model.UserRoleManager,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, translateStoreError(err)
	}

	return s.issueFor(ctx, user)
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueFor(ctx, user)
}

// DriverLogin authenticates by account email and requires a matching driver
// record; an orphaned driver credential fails with ErrDriverProfileMissing.
func (s *AuthService) DriverLogin(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if user.Role != model.UserRoleDriver {
		return nil, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}

	driver, err := s.drivers.GetByEmail(ctx, user.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDriverProfileMissing
		}
		return nil, err
	}

	principal := model.Principal{
		UserID:     user.ID,
		Username:   user.Username,
		Email:      user.Email,
		Role:       user.Role,
		DriverID:   &driver.ID,
		DriverName: driver.Name,
	}
	return s.issue(principal)
}

func (s *AuthService) issueFor(ctx context.Context, user *model.User) (*AuthResult, error) {
	principal := model.Principal{
		UserID:   user.ID,
		Username: user.Username,
		Email:    user.Email,
		Role:     user.Role,
	}

	// A driver logging in by username still gets the linked driver embedded
	// when one exists; absence is only an error on the driver-login path.
	if user.Role == model.UserRoleDriver {
		driver, err := s.drivers.GetByEmail(ctx, user.Email)
		if err == nil {
			principal.DriverID = &driver.ID
			principal.DriverName = driver.Name
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}

	return s.issue(principal)
}

func (s *AuthService) issue(principal model.Principal) (*AuthResult, error) {
	token, err := s.tokens.Issue(principal)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, Principal: principal}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
