package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/game-topup-store/internal/model"
)

// SessionRepo persists login sessions keyed by their opaque token.
type SessionRepo struct{ db *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{db: db} }

var ErrSessionNotFound = errors.New("session not found")

// Create inserts a session row and fills in its ID.
func (r *SessionRepo) Create(ctx context.Context, s *model.Session) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO sessions (user_id, session_token, expires_at) VALUES (?, ?, ?)",
		s.UserID, s.Token, s.ExpiresAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// FindWithUser returns the session for token joined with its owner.  Expiry
// is not filtered here; callers compare ExpiresAt with their own clock.
func (r *SessionRepo) FindWithUser(ctx context.Context, token string) (*model.Session, *model.User, error) {
	const q = `SELECT s.id, s.user_id, s.session_token, s.expires_at, s.created_at,
	                  u.id, u.email, u.full_name, u.phone, u.role, u.created_at
	           FROM sessions s
	           JOIN users u ON u.id = s.user_id
	           WHERE s.session_token = ?
	           LIMIT 1`
	var (
		s     model.Session
		u     model.User
		phone sql.NullString
	)
	err := r.db.QueryRowContext(ctx, q, token).Scan(
		&s.ID, &s.UserID, &s.Token, &s.ExpiresAt, &s.CreatedAt,
		&u.ID, &u.Email, &u.FullName, &phone, &u.Role, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrSessionNotFound
		}
		return nil, nil, err
	}
	u.Phone = nullStr(phone)
	return &s, &u, nil
}

// DeleteByToken removes a session.  Deleting an unknown token is not an error.
func (r *SessionRepo) DeleteByToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE session_token = ?", token)
	return err
}

// DeleteExpired purges sessions that expired at or before now and returns
// how many rows were removed.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", now.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
