package auth

import (
	"context"
	"errors"
	"testing"

	"avtoelon/internal/domain/user"
)

type fakeStore struct {
	users    []user.User
	created  []user.User
	fetchErr error
}

func (f *fakeStore) Users(ctx context.Context) ([]user.User, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]user.User(nil), f.users...), nil
}

func (f *fakeStore) CreateUser(ctx context.Context, u user.User) (user.User, error) {
	u.ID = "generated"
	f.created = append(f.created, u)
	return u, nil
}

type fakeSessions struct {
	saved *user.User
}

func (f *fakeSessions) Save(u *user.User) error {
	f.saved = u
	return nil
}

func TestLoginSuccessPersistsSession(t *testing.T) {
	store := &fakeStore{users: []user.User{
		{ID: "u1", Phone: "+998901234567", Password: "secret", Balance: 5000},
	}}
	sessions := &fakeSessions{}
	svc := &Service{Store: store, Sessions: sessions}

	u, err := svc.Login(context.Background(), "+998901234567", "secret")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if u.ID != "u1" {
		t.Fatalf("logged in wrong user: %s", u.ID)
	}
	if sessions.saved == nil || sessions.saved.ID != "u1" {
		t.Fatalf("session not persisted: %+v", sessions.saved)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	store := &fakeStore{users: []user.User{
		{ID: "u1", Phone: "+998901234567", Password: "secret"},
	}}
	sessions := &fakeSessions{}
	svc := &Service{Store: store, Sessions: sessions}

	_, err := svc.Login(context.Background(), "+998901234567", "wrong!")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
	if sessions.saved != nil {
		t.Fatalf("session persisted on failed login")
	}
}

func TestLoginUnknownPhone(t *testing.T) {
	store := &fakeStore{}
	svc := &Service{Store: store, Sessions: &fakeSessions{}}
	_, err := svc.Login(context.Background(), "+998901234567", "secret")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginValidatesBeforeFetch(t *testing.T) {
	store := &fakeStore{fetchErr: errors.New("must not be called")}
	svc := &Service{Store: store, Sessions: &fakeSessions{}}

	if _, err := svc.Login(context.Background(), "901234567", "secret"); !errors.Is(err, user.ErrInvalidPhone) {
		t.Fatalf("error = %v, want ErrInvalidPhone", err)
	}
	if _, err := svc.Login(context.Background(), "+998901234567", "abc"); !errors.Is(err, user.ErrPasswordTooShort) {
		t.Fatalf("error = %v, want ErrPasswordTooShort", err)
	}
}

func TestSignUpCreatesZeroBalanceAccount(t *testing.T) {
	store := &fakeStore{}
	svc := &Service{Store: store, Sessions: &fakeSessions{}}

	created, err := svc.SignUp(context.Background(), "+998901234567", "secret")
	if err != nil {
		t.Fatalf("SignUp failed: %v", err)
	}
	if created.Balance != 0 {
		t.Fatalf("balance = %d, want 0", created.Balance)
	}
	if len(store.created) != 1 || store.created[0].Phone != "+998901234567" {
		t.Fatalf("created = %+v", store.created)
	}
}

func TestSignUpRejectsTakenPhone(t *testing.T) {
	store := &fakeStore{users: []user.User{{Phone: "+998901234567"}}}
	svc := &Service{Store: store, Sessions: &fakeSessions{}}

	_, err := svc.SignUp(context.Background(), "+998901234567", "secret")
	if !errors.Is(err, user.ErrPhoneTaken) {
		t.Fatalf("error = %v, want ErrPhoneTaken", err)
	}
	if len(store.created) != 0 {
		t.Fatalf("account created despite taken phone")
	}
}
