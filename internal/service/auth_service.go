package service

import (
	"context"
	"time"

	"softdesk/internal/apperr"
	"softdesk/internal/model"
	"softdesk/internal/util"
)

type AuthService struct {
	users     UserStore
	jwtSecret string
}

func NewAuthService(users UserStore, jwtSecret string) *AuthService {
	return &AuthService{
		users:     users,
		jwtSecret: jwtSecret,
	}
}

type RegisterInput struct {
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Password        string    `json:"password"`
	DateOfBirth     time.Time `json:"date_of_birth"`
	CanBeContacted  bool      `json:"can_be_contacted"`
	CanDataBeShared bool      `json:"can_data_be_shared"`
}

// Register creates a new account and returns it with a bearer token. The
// age rule is validated here, the one write path for accounts, so no entry
// point can bypass it.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, string, error) {
	if len(in.Password) < 8 {
		return nil, "", apperr.Validation("password must be at least 8 characters")
	}

	u := &model.User{
		Username:        in.Username,
		Email:           in.Email,
		DateOfBirth:     in.DateOfBirth,
		CanBeContacted:  in.CanBeContacted,
		CanDataBeShared: in.CanDataBeShared,
	}
	if err := u.Validate(time.Now()); err != nil {
		return nil, "", err
	}

	hash, err := util.HashPassword(in.Password)
	if err != nil {
		return nil, "", apperr.Internal("register: hash password", err)
	}
	u.PasswordHash = hash

	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		return nil, "", apperr.Internal("register: sign token", err)
	}
	return u, token, nil
}

// Login checks credentials and returns a bearer token. The same error covers
// an unknown username and a wrong password.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return "", apperr.Forbidden("invalid username or password")
	}

	if !util.CheckPassword(password, u.PasswordHash) {
		return "", apperr.Forbidden("invalid username or password")
	}

	token, err := util.GenerateJWT(u.ID, s.jwtSecret)
	if err != nil {
		return "", apperr.Internal("login: sign token", err)
	}
	return token, nil
}

// Me returns the authenticated user's profile.
func (s *AuthService) Me(ctx context.Context, userID int64) (*model.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateConsents stores new consent choices for the user.
func (s *AuthService) UpdateConsents(ctx context.Context, userID int64, canBeContacted, canDataBeShared bool) error {
	return s.users.UpdateConsents(ctx, userID, canBeContacted, canDataBeShared)
}
