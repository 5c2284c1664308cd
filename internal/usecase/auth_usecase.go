package usecase

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"vira/internal/domain/entity"
	"vira/internal/domain/repository"
	"vira/pkg/errors"
	"vira/pkg/logger"
)

type AuthUseCase struct {
	userRepo repository.UserRepository
	tokens   TokenManager
}

func NewAuthUseCase(userRepo repository.UserRepository, tokens TokenManager) *AuthUseCase {
	return &AuthUseCase{
		userRepo: userRepo,
		tokens:   tokens,
	}
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

type AuthResult struct {
	User      *entity.User
	Token     string
	ExpiresAt time.Time
}

// Signup replaces whatever account the device held.
func (uc *AuthUseCase) Signup(ctx context.Context, device string, input SignupInput) (*AuthResult, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if utf8.RuneCountInString(username) < minUsernameLength {
		return nil, errors.BadRequest("Username must be at least 3 characters", nil)
	}
	if utf8.RuneCountInString(input.Password) < minPasswordLength {
		return nil, errors.BadRequest("Password must be at least 6 characters", nil)
	}

	credential, err := hashPassword(input.Password)
	if err != nil {
		return nil, errors.Internal("Failed to secure password", err)
	}

	now := time.Now().UnixMilli()
	user := &entity.User{
		Username:  username,
		Email:     email,
		Role:      entity.RoleBuyer,
		HasStore:  false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := uc.userRepo.Save(ctx, device, user); err != nil {
		return nil, err
	}
	if err := uc.userRepo.SavePassword(ctx, device, credential); err != nil {
		return nil, err
	}

	logger.Info("Account created: device=%s, username=%s", device, username)
	return uc.issue(device, user)
}

func (uc *AuthUseCase) Login(ctx context.Context, device, email, password string) (*AuthResult, error) {
	user, err := uc.userRepo.Get(ctx, device)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, errors.NotFoundMessage("No account found. Please sign up first.")
		}
		return nil, err
	}

	stored, err := uc.userRepo.GetPassword(ctx, device)
	if err != nil && !errors.Is(err, errors.CodeNotFound) {
		return nil, err
	}

	ok, legacy := passwordMatches(stored, password)
	if stored == "" || !ok || user.Email != strings.TrimSpace(email) {
		logger.Warn("Login rejected: device=%s", device)
		return nil, errors.Unauthorized("Invalid email or password.", nil)
	}

	if legacy {
		if credential, err := hashPassword(password); err == nil {
			if err := uc.userRepo.SavePassword(ctx, device, credential); err != nil {
				logger.Warn("Failed to rehash legacy password: device=%s, error=%v", device, err)
			}
		}
	}

	return uc.issue(device, user)
}

func (uc *AuthUseCase) Logout(ctx context.Context, session *entity.Session) error {
	if session == nil {
		return errors.Unauthorized("Not signed in", nil)
	}
	uc.tokens.Revoke(session)
	logger.Info("Signed out: device=%s", session.Device)
	return nil
}

// Authenticate resolves a bearer token presented by device into the
// account it belongs to.
func (uc *AuthUseCase) Authenticate(ctx context.Context, device, token string) (*entity.User, *entity.Session, error) {
	session, err := uc.tokens.Verify(token)
	if err != nil {
		return nil, nil, errors.Unauthorized("Invalid or expired token", err)
	}
	if session.Device != device {
		return nil, nil, errors.Unauthorized("Token was issued to another device", nil)
	}

	user, err := uc.userRepo.Get(ctx, device)
	if err != nil {
		if errors.Is(err, errors.CodeNotFound) {
			return nil, nil, errors.Unauthorized("Account no longer exists", nil)
		}
		return nil, nil, err
	}
	if user.Email != session.Email {
		return nil, nil, errors.Unauthorized("Account has changed, please sign in again", nil)
	}

	return user, session, nil
}

func (uc *AuthUseCase) issue(device string, user *entity.User) (*AuthResult, error) {
	token, session, err := uc.tokens.Issue(device, user.Email)
	if err != nil {
		return nil, errors.Internal("Failed to generate authentication token", err)
	}
	return &AuthResult{
		User:      user,
		Token:     token,
		ExpiresAt: session.ExpiresAt,
	}, nil
}
