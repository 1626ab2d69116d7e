package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/reliefbridge/relief-ui-api/internal/adapters/password"
	"github.com/reliefbridge/relief-ui-api/internal/domain/auth"
	"github.com/reliefbridge/relief-ui-api/internal/domain/model"
	apperrors "github.com/reliefbridge/relief-ui-api/internal/errors"
	"github.com/reliefbridge/relief-ui-api/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Users  ports.UserRepository
	Hasher ports.PasswordHasher
}

// AuthService implements the login capability: credential verification and
// the account flows the session layer depends on. It holds no session state;
// on success the handler feeds the returned payload to the session store.
type AuthService struct {
	users  ports.UserRepository
	hasher ports.PasswordHasher
}

// NewAuthService constructs a new AuthService.
func NewAuthService(opts AuthServiceOptions) *AuthService {
	return &AuthService{users: opts.Users, hasher: opts.Hasher}
}

// LoginResult is the identity payload returned on successful login. Its
// fields carry the account API wire names.
type LoginResult struct {
	UserID   string    `json:"user_id"`
	Username string    `json:"username"`
	Role     auth.Role `json:"role"`
}

// errBadCredentials keeps user-not-found and wrong-password responses
// indistinguishable to the caller.
func errBadCredentials() *apperrors.AppError {
	return apperrors.Unauthorized("invalid credentials")
}

// Login verifies credentials against the approved account set. Failures leave
// no partial identity anywhere; the caller decides what, if anything, to set
// on the session store.
func (s *AuthService) Login(ctx context.Context, username, secret string) (*LoginResult, error) {
	if username == "" || secret == "" {
		return nil, apperrors.Validation("username and password are required")
	}

	user, err := s.findApproved(ctx, username)
	if err != nil {
		return nil, err
	}

	if compareErr := s.hasher.Compare(user.PasswordHash, secret); compareErr != nil {
		if errors.Is(compareErr, password.ErrMismatch) {
			return nil, errBadCredentials()
		}
		return nil, fmt.Errorf("verify password: %w", compareErr)
	}

	return &LoginResult{UserID: user.UserID, Username: user.Username, Role: user.Role}, nil
}

// RequestAccountInput carries a public account request.
type RequestAccountInput struct {
	Username     string    `json:"username"`
	Password     string    `json:"password"`
	Role         auth.Role `json:"role"`
	Email        string    `json:"email"`
	ZipCode      string    `json:"zip_code"`
	AddressLine1 *string   `json:"address_line1,omitempty"`
	AddressLine2 *string   `json:"address_line2,omitempty"`
	City         *string   `json:"city,omitempty"`
	State        *string   `json:"state,omitempty"`
}

// RequestAccount creates an unapproved account from a public submission. The
// account cannot log in until approved.
func (s *AuthService) RequestAccount(ctx context.Context, in RequestAccountInput) (*model.User, error) {
	if in.Username == "" || in.Password == "" || in.Role == "" {
		return nil, apperrors.Validation("username, password, and role are required")
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.users.Create(ctx, &model.CreateUserRequest{
		Username:     in.Username,
		PasswordHash: hash,
		Role:         in.Role,
		Email:        in.Email,
		ZipCode:      in.ZipCode,
		AddressLine1: in.AddressLine1,
		AddressLine2: in.AddressLine2,
		City:         in.City,
		State:        in.State,
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePassword rotates a password after verifying the old one.
func (s *AuthService) ChangePassword(ctx context.Context, username, oldSecret, newSecret string) error {
	if username == "" || oldSecret == "" || newSecret == "" {
		return apperrors.Validation("username, old password, and new password are required")
	}

	user, err := s.findApproved(ctx, username)
	if err != nil {
		return err
	}
	if compareErr := s.hasher.Compare(user.PasswordHash, oldSecret); compareErr != nil {
		if errors.Is(compareErr, password.ErrMismatch) {
			return errBadCredentials()
		}
		return fmt.Errorf("verify password: %w", compareErr)
	}

	return s.setPassword(ctx, user.UserID, newSecret)
}

// ResetForgottenPassword replaces the password for an approved account
// without verifying the old one, mirroring the recovery flow of the account
// API.
func (s *AuthService) ResetForgottenPassword(ctx context.Context, username, newSecret string) error {
	if username == "" || newSecret == "" {
		return apperrors.Validation("username and new password are required")
	}

	user, err := s.findApproved(ctx, username)
	if err != nil {
		return err
	}
	return s.setPassword(ctx, user.UserID, newSecret)
}

// findApproved looks up an account and hides both "unknown username" and
// "not yet approved" behind the same unauthorized error.
func (s *AuthService) findApproved(ctx context.Context, username string) (*model.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if apperrors.CodeOf(err) == apperrors.ErrCodeNotFound {
			return nil, errBadCredentials()
		}
		return nil, err
	}
	if !user.Approved {
		return nil, errBadCredentials()
	}
	return user, nil
}

func (s *AuthService) setPassword(ctx context.Context, userID, newSecret string) error {
	hash, err := s.hasher.Hash(newSecret)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.users.UpdatePassword(ctx, userID, hash)
}
