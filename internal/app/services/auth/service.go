package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"avtoelon/internal/domain/user"
)

// ErrInvalidCredentials covers both an unknown phone number and a wrong
// password, so login failures stay indistinguishable to the caller.
var ErrInvalidCredentials = errors.New("auth: invalid phone number or password")

// Store is the slice of the record-store client the auth flow needs.
type Store interface {
	Users(ctx context.Context) ([]user.User, error)
	CreateUser(ctx context.Context, u user.User) (user.User, error)
}

// Sessions persists the logged-in identity across restarts.
type Sessions interface {
	Save(u *user.User) error
}

// Service implements login and sign-up against the flat users collection.
// Credentials are matched by plain equality against the stored record, which
// is the store's wire contract.
type Service struct {
	Store    Store
	Sessions Sessions
	Logger   *slog.Logger
}

// Login fetches the users collection, matches phone and password by
// equality, and persists the matched record as the device session.
func (s *Service) Login(ctx context.Context, phone, password string) (*user.User, error) {
	if err := user.ValidatePhone(phone); err != nil {
		return nil, err
	}
	if err := user.ValidatePassword(password); err != nil {
		return nil, err
	}

	users, err := s.Store.Users(ctx)
	if err != nil {
		s.logError("login fetch failed", phone, err)
		return nil, fmt.Errorf("auth: login: %w", err)
	}
	for i := range users {
		if users[i].Phone != phone || users[i].Password != password {
			continue
		}
		match := users[i].Clone()
		if err := s.Sessions.Save(match); err != nil {
			s.logError("session persist failed", phone, err)
			return nil, fmt.Errorf("auth: persist session: %w", err)
		}
		if s.Logger != nil {
			s.Logger.Info("login succeeded", "phone", phone)
		}
		return match, nil
	}
	return nil, ErrInvalidCredentials
}

// SignUp creates a new account with a zero balance after checking the phone
// number is not taken. It does not log the new account in.
func (s *Service) SignUp(ctx context.Context, phone, password string) (*user.User, error) {
	if err := user.ValidatePhone(phone); err != nil {
		return nil, err
	}
	if err := user.ValidatePassword(password); err != nil {
		return nil, err
	}

	users, err := s.Store.Users(ctx)
	if err != nil {
		s.logError("signup fetch failed", phone, err)
		return nil, fmt.Errorf("auth: signup: %w", err)
	}
	for i := range users {
		if users[i].Phone == phone {
			return nil, user.ErrPhoneTaken
		}
	}

	created, err := s.Store.CreateUser(ctx, user.User{
		Phone:    phone,
		Password: password,
		Balance:  0,
	})
	if err != nil {
		s.logError("signup create failed", phone, err)
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("account created", "phone", phone)
	}
	return &created, nil
}

func (s *Service) logError(msg, phone string, err error) {
	if s.Logger == nil {
		return
	}
	s.Logger.Error(msg, "phone", phone, "error", err)
}
