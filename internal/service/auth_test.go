package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/game-topup-store/internal/model"
)

const testCost = 4 // bcrypt.MinCost keeps the suite fast

func newTestAuth() (*AuthService, *fakeUsers, *fakeSessions) {
	users := newFakeUsers()
	sessions := newFakeSessions(users)
	return NewAuthService(users, sessions, testCost), users, sessions
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user and session", func(t *testing.T) {
		svc, _, sessions := newTestAuth()
		res, err := svc.SignUp(ctx, "  Player@Example.COM ", "secret1", "Sam Player", nil)
		require.NoError(t, err)

		assert.Equal(t, "player@example.com", res.User.Email)
		assert.Equal(t, model.RoleUser, res.User.Role)
		assert.NotEqual(t, "secret1", res.User.PasswordHash)
		assert.Len(t, res.Session.Token, 64)
		assert.WithinDuration(t, time.Now().Add(SessionTTL), res.Session.ExpiresAt, 5*time.Second)
		assert.Len(t, sessions.byToken, 1)
	})

	t.Run("duplicate email is a typed error and adds no row", func(t *testing.T) {
		svc, users, _ := newTestAuth()
		_, err := svc.SignUp(ctx, "dup@example.com", "secret1", "First", nil)
		require.NoError(t, err)

		_, err = svc.SignUp(ctx, "DUP@example.com", "secret2", "Second", nil)
		assert.ErrorIs(t, err, ErrDuplicateEmail)
		assert.Len(t, users.byEmail, 1)
	})

	t.Run("blank phone is stored as nil", func(t *testing.T) {
		svc, _, _ := newTestAuth()
		blank := "   "
		res, err := svc.SignUp(ctx, "p@example.com", "secret1", "P", &blank)
		require.NoError(t, err)
		assert.Nil(t, res.User.Phone)
	})

	t.Run("validation names every bad field without touching storage", func(t *testing.T) {
		svc, users, _ := newTestAuth()
		_, err := svc.SignUp(ctx, "not-an-email", "123", "  ", nil)

		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, []string{"email", "fullName", "password"}, ve.Fields)
		assert.Zero(t, users.calls)
	})
}

func TestAuthService_SignIn(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestAuth()
	_, err := svc.SignUp(ctx, "known@example.com", "correct-horse", "Known", nil)
	require.NoError(t, err)

	t.Run("valid credentials open a new session", func(t *testing.T) {
		res, err := svc.SignIn(ctx, "Known@Example.com", "correct-horse")
		require.NoError(t, err)
		assert.Equal(t, "known@example.com", res.User.Email)
		assert.NotEmpty(t, res.Session.Token)
	})

	t.Run("wrong password and unknown email look identical", func(t *testing.T) {
		_, errWrong := svc.SignIn(ctx, "known@example.com", "battery-staple")
		_, errUnknown := svc.SignIn(ctx, "ghost@example.com", "correct-horse")

		require.ErrorIs(t, errWrong, ErrInvalidCredentials)
		require.ErrorIs(t, errUnknown, ErrInvalidCredentials)
		assert.Equal(t, errWrong.Error(), errUnknown.Error())
	})

	t.Run("missing fields", func(t *testing.T) {
		_, err := svc.SignIn(ctx, "", "")
		assert.True(t, IsValidation(err))
	})
}

func TestAuthService_CurrentUser(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newTestAuth()
	res, err := svc.SignUp(ctx, "me@example.com", "secret1", "Me", nil)
	require.NoError(t, err)

	t.Run("live session resolves", func(t *testing.T) {
		u, err := svc.CurrentUser(ctx, res.Session.Token)
		require.NoError(t, err)
		require.NotNil(t, u)
		assert.Equal(t, res.User.ID, u.ID)
	})

	t.Run("empty and unknown tokens are anonymous", func(t *testing.T) {
		for _, tok := range []string{"", "deadbeef"} {
			u, err := svc.CurrentUser(ctx, tok)
			assert.NoError(t, err)
			assert.Nil(t, u)
		}
	})

	t.Run("expired session is anonymous and purged", func(t *testing.T) {
		svc.now = func() time.Time { return time.Now().Add(SessionTTL + time.Minute) }
		defer func() { svc.now = time.Now }()

		u, err := svc.CurrentUser(ctx, res.Session.Token)
		assert.NoError(t, err)
		assert.Nil(t, u)
		assert.Contains(t, sessions.deleted, res.Session.Token)
	})
}

func TestAuthService_Logout(t *testing.T) {
	ctx := context.Background()
	svc, _, sessions := newTestAuth()
	res, err := svc.SignUp(ctx, "bye@example.com", "secret1", "Bye", nil)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, res.Session.Token))
	assert.Empty(t, sessions.byToken)

	// repeated and empty logouts are not errors
	assert.NoError(t, svc.Logout(ctx, res.Session.Token))
	assert.NoError(t, svc.Logout(ctx, ""))

	u, err := svc.CurrentUser(ctx, res.Session.Token)
	assert.NoError(t, err)
	assert.Nil(t, u)
}

func TestRequireRole(t *testing.T) {
	admin := &model.User{ID: 1, Role: model.RoleAdmin}
	customer := &model.User{ID: 2, Role: model.RoleUser}

	assert.ErrorIs(t, RequireRole(nil, model.RoleAdmin), ErrUnauthenticated)
	assert.ErrorIs(t, RequireRole(customer, model.RoleAdmin), ErrForbidden)
	assert.NoError(t, RequireRole(admin, model.RoleAdmin))
	assert.NoError(t, RequireRole(customer, model.RoleUser))
}
