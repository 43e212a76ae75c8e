package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-topup-store/internal/model"
)

var ErrPackNotFound = errors.New("pack not found")

// PackRepo stores special packs and their pack_products links.
type PackRepo struct {
	db *sql.DB
}

func NewPackRepo(db *sql.DB) *PackRepo { return &PackRepo{db: db} }

// PackUpdate carries a partial update.  DiscountPercentage is set by the
// caller only when both prices are supplied.  A non-nil ProductIDs replaces
// the bundle contents.
type PackUpdate struct {
	Name               *string
	Description        *string
	ImageURL           *string
	OriginalPrice      *decimal.Decimal
	PackPrice          *decimal.Decimal
	DiscountPercentage *decimal.Decimal
	Status             *string
	ProductIDs         []uint64
}

const packColumns = `sp.id, sp.game_id, g.name, sp.name, sp.description, sp.image_url, sp.original_price,
	sp.pack_price, sp.discount_percentage, sp.status, sp.created_at, sp.updated_at,
	(SELECT COUNT(*) FROM pack_products pp WHERE pp.pack_id = sp.id)`

const packFrom = " FROM special_packs sp JOIN games g ON g.id = sp.game_id"

// Create inserts the pack and its product links in one transaction.
func (r *PackRepo) Create(ctx context.Context, p *model.Pack, productIDs []uint64) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO special_packs (game_id, name, description, image_url, original_price, pack_price, discount_percentage)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.GameID, p.Name, p.Description, p.ImageURL, p.OriginalPrice, p.PackPrice, p.DiscountPercentage)
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		p.ID = uint64(id)
		return insertLinksTx(ctx, tx, "pack_products", "pack_id", p.ID, productIDs)
	})
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *created
	return nil
}

// GetByID fetches a pack with the products it bundles.
func (r *PackRepo) GetByID(ctx context.Context, id uint64) (*model.Pack, error) {
	p, err := scanPack(r.db.QueryRowContext(ctx, "SELECT "+packColumns+packFrom+" WHERE sp.id = ?", id))
	if err != nil {
		return nil, err
	}
	items, err := r.items(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Products = items
	return p, nil
}

// ListAll returns every pack with game name and product count, newest first.
func (r *PackRepo) ListAll(ctx context.Context) ([]*model.Pack, error) {
	return r.list(ctx, "SELECT "+packColumns+packFrom+" ORDER BY sp.created_at DESC, sp.id DESC")
}

// ListActiveByGame returns the packs shown on a game's public page.
func (r *PackRepo) ListActiveByGame(ctx context.Context, gameID uint64) ([]*model.Pack, error) {
	return r.list(ctx, "SELECT "+packColumns+packFrom+
		" WHERE sp.game_id = ? AND sp.status = 'active' ORDER BY sp.pack_price ASC, sp.id ASC", gameID)
}

// Update applies u; the row update and link replacement commit together.
func (r *PackRepo) Update(ctx context.Context, id uint64, u PackUpdate) (*model.Pack, error) {
	const q = `UPDATE special_packs
	           SET name = COALESCE(?, name),
	               description = COALESCE(?, description),
	               image_url = COALESCE(?, image_url),
	               original_price = COALESCE(?, original_price),
	               pack_price = COALESCE(?, pack_price),
	               discount_percentage = COALESCE(?, discount_percentage),
	               status = COALESCE(?, status),
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists uint64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM special_packs WHERE id = ? FOR UPDATE", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrPackNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, q, u.Name, u.Description, u.ImageURL, u.OriginalPrice, u.PackPrice,
			u.DiscountPercentage, u.Status, id); err != nil {
			return err
		}
		if u.ProductIDs != nil {
			return replaceLinksTx(ctx, tx, "pack_products", "pack_id", id, u.ProductIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a pack; its links cascade.
func (r *PackRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM special_packs WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrPackNotFound
	}
	return nil
}

func (r *PackRepo) items(ctx context.Context, packID uint64) ([]model.PackItem, error) {
	const q = `SELECT pp.product_id, p.name, p.base_price
	           FROM pack_products pp
	           JOIN products p ON p.id = pp.product_id
	           WHERE pp.pack_id = ?
	           ORDER BY pp.product_id`
	rows, err := r.db.QueryContext(ctx, q, packID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items := []model.PackItem{}
	for rows.Next() {
		var it model.PackItem
		if err := rows.Scan(&it.ProductID, &it.Name, &it.Price); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *PackRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Pack, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Pack{}
	for rows.Next() {
		p, err := scanPack(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPack(s rowScanner) (*model.Pack, error) {
	var (
		p           model.Pack
		desc, image sql.NullString
	)
	err := s.Scan(&p.ID, &p.GameID, &p.GameName, &p.Name, &desc, &image, &p.OriginalPrice,
		&p.PackPrice, &p.DiscountPercentage, &p.Status, &p.CreatedAt, &p.UpdatedAt, &p.ProductCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPackNotFound
		}
		return nil, err
	}
	p.Description = nullStr(desc)
	p.ImageURL = nullStr(image)
	return &p, nil
}
