package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-topup-store/internal/model"
)

var ErrProductNotFound = errors.New("product not found")

// ProductRepo provides CRUD operations for products and the stock counter
// consumed by checkout.
type ProductRepo struct {
	db *sql.DB
}

func NewProductRepo(db *sql.DB) *ProductRepo { return &ProductRepo{db: db} }

// ProductUpdate carries a partial update.  Nil fields keep the stored value.
type ProductUpdate struct {
	Name          *string
	Description   *string
	BasePrice     *decimal.Decimal
	DiscountPrice *decimal.Decimal
	Stock         *int
	Status        *string
}

// PriceAdjustment is one row changed by BulkAdjustPrices.
type PriceAdjustment struct {
	ProductID uint64          `json:"productId"`
	NewPrice  decimal.Decimal `json:"newPrice"`
}

const productColumns = `p.id, p.game_id, g.name, p.name, p.description, p.base_price, p.discount_price,
	p.stock, p.status, p.created_at, p.updated_at`

const productFrom = " FROM products p JOIN games g ON g.id = p.game_id"

// Create inserts p and reloads it.
func (r *ProductRepo) Create(ctx context.Context, p *model.Product) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO products (game_id, name, description, base_price, discount_price, stock)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		p.GameID, p.Name, p.Description, p.BasePrice, p.DiscountPrice, p.Stock)
	if err != nil {
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
	*p = *created
	return nil
}

// GetByID fetches a product with its game name.
func (r *ProductRepo) GetByID(ctx context.Context, id uint64) (*model.Product, error) {
	return scanProduct(r.db.QueryRowContext(ctx, "SELECT "+productColumns+productFrom+" WHERE p.id = ?", id))
}

// List returns products for the admin dashboard, newest first.  A zero
// gameID lists every game.
func (r *ProductRepo) List(ctx context.Context, gameID uint64) ([]*model.Product, error) {
	if gameID == 0 {
		return r.list(ctx, "SELECT "+productColumns+productFrom+" ORDER BY p.created_at DESC, p.id DESC")
	}
	return r.list(ctx, "SELECT "+productColumns+productFrom+" WHERE p.game_id = ? ORDER BY p.created_at DESC, p.id DESC", gameID)
}

// ListActiveByGame returns the packages a customer may buy, cheapest first.
func (r *ProductRepo) ListActiveByGame(ctx context.Context, gameID uint64) ([]*model.Product, error) {
	return r.list(ctx, "SELECT "+productColumns+productFrom+
		" WHERE p.game_id = ? AND p.status = 'active' ORDER BY p.base_price ASC, p.id ASC", gameID)
}

// Update applies u and returns the stored row.
func (r *ProductRepo) Update(ctx context.Context, id uint64, u ProductUpdate) (*model.Product, error) {
	const q = `UPDATE products
	           SET name = COALESCE(?, name),
	               description = COALESCE(?, description),
	               base_price = COALESCE(?, base_price),
	               discount_price = COALESCE(?, discount_price),
	               stock = COALESCE(?, stock),
	               status = COALESCE(?, status),
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, q, u.Name, u.Description, u.BasePrice, u.DiscountPrice, u.Stock, u.Status, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a product.
func (r *ProductRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProductNotFound
	}
	return nil
}

// BulkAdjustPrices moves the base price of every listed product by a
// percentage or a fixed amount, flooring at zero.  Unknown ids are skipped.
// All updates commit together or not at all.
func (r *ProductRepo) BulkAdjustPrices(ctx context.Context, ids []uint64, operation string, value decimal.Decimal) ([]PriceAdjustment, error) {
	ids = uniqueIDs(ids)
	out := []PriceAdjustment{}
	if len(ids) == 0 {
		return out, nil
	}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		args := make([]interface{}, len(ids))
		for i, id := range ids {
			args[i] = id
		}
		rows, err := tx.QueryContext(ctx,
			"SELECT id, base_price FROM products WHERE id IN ("+placeholders(len(ids))+") ORDER BY id FOR UPDATE", args...)
		if err != nil {
			return err
		}
		var current []PriceAdjustment
		for rows.Next() {
			var a PriceAdjustment
			if err := rows.Scan(&a.ProductID, &a.NewPrice); err != nil {
				rows.Close()
				return err
			}
			current = append(current, a)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()

		for _, a := range current {
			a.NewPrice = AdjustPrice(a.NewPrice, operation, value)
			if _, err := tx.ExecContext(ctx,
				"UPDATE products SET base_price = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?",
				a.NewPrice, a.ProductID); err != nil {
				return err
			}
			out = append(out, a)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AllInGame reports whether every id names a product of gameID.  Duplicate
// and zero ids are ignored; an empty list is trivially true.
func (r *ProductRepo) AllInGame(ctx context.Context, gameID uint64, ids []uint64) (bool, error) {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return true, nil
	}
	args := make([]interface{}, 0, len(ids)+1)
	args = append(args, gameID)
	for _, id := range ids {
		args = append(args, id)
	}
	var n int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM products WHERE game_id = ? AND id IN ("+placeholders(len(ids))+")", args...).Scan(&n)
	if err != nil {
		return false, err
	}
	return n == len(ids), nil
}

// AdjustPrice applies a bulk price operation to one base price.  A
// percentage raises (or, when negative, lowers) the price by that share of
// itself; a fixed value is added.  The result never drops below zero.
func AdjustPrice(price decimal.Decimal, operation string, value decimal.Decimal) decimal.Decimal {
	var next decimal.Decimal
	switch operation {
	case "percentage":
		next = price.Add(price.Mul(value).Div(decimal.NewFromInt(100)))
	case "fixed":
		next = price.Add(value)
	default:
		return price
	}
	if next.IsNegative() {
		return decimal.Zero
	}
	return next.Round(2)
}

func (r *ProductRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Product, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func scanProduct(s rowScanner) (*model.Product, error) {
	var (
		p        model.Product
		desc     sql.NullString
		discount decimal.NullDecimal
	)
	err := s.Scan(&p.ID, &p.GameID, &p.GameName, &p.Name, &desc, &p.BasePrice, &discount,
		&p.Stock, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	p.Description = nullStr(desc)
	if discount.Valid {
		d := discount.Decimal
		p.DiscountPrice = &d
	}
	return &p, nil
}
