// Package repository contains data access logic separated from HTTP handlers.
// This file holds the games table: public reads filter on status, admin
// reads and writes see every row.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/game-topup-store/internal/database"
	"github.com/iliyamo/game-topup-store/internal/model"
)

var (
	ErrGameNotFound = errors.New("game not found")
	ErrSlugExists   = errors.New("slug already exists")
)

// GameRepo encapsulates all database queries related to games.
type GameRepo struct {
	db *sql.DB
}

func NewGameRepo(db *sql.DB) *GameRepo { return &GameRepo{db: db} }

// GameUpdate carries a partial update.  Nil fields keep the stored value.
type GameUpdate struct {
	Name         *string
	Slug         *string
	Description  *string
	ThumbnailURL *string
	Category     *string
	Status       *string
}

const gameColumns = "id, name, slug, description, thumbnail_url, category, status, created_at, updated_at"

// Create inserts g and reloads it so defaults (status, timestamps) are set.
func (r *GameRepo) Create(ctx context.Context, g *model.Game) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO games (name, slug, description, thumbnail_url, category) VALUES (?, ?, ?, ?, ?)",
		g.Name, g.Slug, g.Description, g.ThumbnailURL, g.Category)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrSlugExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*g = *created
	return nil
}

// GetByID fetches a game regardless of status.
func (r *GameRepo) GetByID(ctx context.Context, id uint64) (*model.Game, error) {
	return scanGame(r.db.QueryRowContext(ctx, "SELECT "+gameColumns+" FROM games WHERE id = ?", id))
}

// GetActiveBySlug fetches a customer-visible game by its URL key.
func (r *GameRepo) GetActiveBySlug(ctx context.Context, slug string) (*model.Game, error) {
	return scanGame(r.db.QueryRowContext(ctx,
		"SELECT "+gameColumns+" FROM games WHERE slug = ? AND status = 'active' LIMIT 1", slug))
}

// ListActive returns customer-visible games, newest first.
func (r *GameRepo) ListActive(ctx context.Context) ([]*model.Game, error) {
	return r.list(ctx, "SELECT "+gameColumns+" FROM games WHERE status = 'active' ORDER BY created_at DESC, id DESC")
}

// ListAll returns every game for the admin dashboard, newest first.
func (r *GameRepo) ListAll(ctx context.Context) ([]*model.Game, error) {
	return r.list(ctx, "SELECT "+gameColumns+" FROM games ORDER BY created_at DESC, id DESC")
}

// Update applies u to the game and returns the stored row.
func (r *GameRepo) Update(ctx context.Context, id uint64, u GameUpdate) (*model.Game, error) {
	const q = `UPDATE games
	           SET name = COALESCE(?, name),
	               slug = COALESCE(?, slug),
	               description = COALESCE(?, description),
	               thumbnail_url = COALESCE(?, thumbnail_url),
	               category = COALESCE(?, category),
	               status = COALESCE(?, status),
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, u.Name, u.Slug, u.Description, u.ThumbnailURL, u.Category, u.Status, id); err != nil {
		if database.IsDuplicateKey(err) {
			return nil, ErrSlugExists
		}
		return nil, err
	}
	// RowsAffected is 0 for an unchanged row under MySQL, so existence is
	// decided by the reload.
	return r.GetByID(ctx, id)
}

// Delete removes a game; products, offers and packs cascade.
func (r *GameRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM games WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrGameNotFound
	}
	return nil
}

func (r *GameRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Game, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Game{}
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanGame(s rowScanner) (*model.Game, error) {
	var (
		g                        model.Game
		desc, thumbnail, category sql.NullString
	)
	if err := s.Scan(&g.ID, &g.Name, &g.Slug, &desc, &thumbnail, &category, &g.Status, &g.CreatedAt, &g.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrGameNotFound
		}
		return nil, err
	}
	g.Description = nullStr(desc)
	g.ThumbnailURL = nullStr(thumbnail)
	g.Category = nullStr(category)
	return &g, nil
}
