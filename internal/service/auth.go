package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/game-topup-store/internal/model"
	"github.com/iliyamo/game-topup-store/internal/repository"
	"github.com/iliyamo/game-topup-store/internal/utils"
)

// SessionTTL is the fixed lifetime of a login session.  Sessions are not
// renewed on use.
const SessionTTL = 7 * 24 * time.Hour

// MinPasswordLength is the shortest password accepted at sign-up.
const MinPasswordLength = 6

// UserStore is the slice of the user repository the auth service needs.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// SessionStore is the slice of the session repository the auth service needs.
type SessionStore interface {
	Create(ctx context.Context, s *model.Session) error
	FindWithUser(ctx context.Context, token string) (*model.Session, *model.User, error)
	DeleteByToken(ctx context.Context, token string) error
}

// AuthResult is returned by a successful sign-up or sign-in.
type AuthResult struct {
	User    *model.User
	Session *model.Session
}

// AuthService signs users up and in, and resolves session tokens.
type AuthService struct {
	users      UserStore
	sessions   SessionStore
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(users UserStore, sessions SessionStore, bcryptCost int) *AuthService {
	return &AuthService{users: users, sessions: sessions, bcryptCost: bcryptCost, now: time.Now}
}

// SignUp registers a customer account and opens a session for it.
func (s *AuthService) SignUp(ctx context.Context, email, password, fullName string, phone *string) (*AuthResult, error) {
	email = normalizeEmail(email)
	fullName = strings.TrimSpace(fullName)

	var fe fieldErrors
	fe.check(validEmail(email), "email")
	fe.check(len(password) >= MinPasswordLength, "password")
	fe.check(fullName != "", "fullName")
	if err := fe.err(); err != nil {
		return nil, err
	}

	hash, err := utils.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	if phone != nil {
		if p := strings.TrimSpace(*phone); p != "" {
			phone = &p
		} else {
			phone = nil
		}
	}
	u := &model.User{Email: email, PasswordHash: hash, FullName: fullName, Phone: phone, Role: model.RoleUser}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}
	sess, err := s.openSession(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Session: sess}, nil
}

// SignIn checks credentials and opens a new session.  Unknown emails and
// wrong passwords both yield ErrInvalidCredentials.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*AuthResult, error) {
	email = normalizeEmail(email)
	var fe fieldErrors
	fe.check(email != "", "email")
	fe.check(password != "", "password")
	if err := fe.err(); err != nil {
		return nil, err
	}

	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.VerifyPassword(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	sess, err := s.openSession(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	return &AuthResult{User: u, Session: sess}, nil
}

// CurrentUser resolves a session token to its user.  Empty, unknown and
// expired tokens yield (nil, nil); an expired session row is removed on
// the way out.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, nil
	}
	sess, u, err := s.sessions.FindWithUser(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if sess.Expired(s.now()) {
		if err := s.sessions.DeleteByToken(ctx, token); err != nil {
			log.Printf("auth: purge expired session %d: %v", sess.ID, err)
		}
		return nil, nil
	}
	return u, nil
}

// Logout deletes the session behind token.  Unknown or empty tokens are
// not an error.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.sessions.DeleteByToken(ctx, token)
}

// RequireRole returns ErrUnauthenticated when u is nil and ErrForbidden
// when u does not carry role.
func RequireRole(u *model.User, role string) error {
	if u == nil {
		return ErrUnauthenticated
	}
	if u.Role != role {
		return ErrForbidden
	}
	return nil
}

func (s *AuthService) openSession(ctx context.Context, userID uint64) (*model.Session, error) {
	token, err := utils.NewSessionToken()
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	sess := &model.Session{
		UserID:    userID,
		Token:     token,
		ExpiresAt: now.Add(SessionTTL).Truncate(time.Second),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

var validate = validator.New()

func validEmail(email string) bool {
	return validate.Var(email, "required,email,max=255") == nil
}
