package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-topup-store/internal/database"
	"github.com/iliyamo/game-topup-store/internal/model"
)

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrOrderNumberExists = errors.New("order number already exists")
)

// orderNumberIndex is the unique index guarding orders.order_number.
const orderNumberIndex = "uq_orders_number"

// OrderRepo persists checkouts.  Order rows are never deleted.
type OrderRepo struct {
	db *sql.DB
}

func NewOrderRepo(db *sql.DB) *OrderRepo { return &OrderRepo{db: db} }

const orderColumns = `o.id, o.user_id, o.order_number, o.game_id, o.game_name, o.package_id, o.package_name,
	o.package_price, o.player_id, o.account_name, o.payment_method, o.contact_email, o.status,
	o.created_at, o.updated_at`

// Create inserts o with status pending.  In the same transaction the
// product's stock counter is decremented unless it is unlimited (-1); a
// counter at zero aborts with ErrOutOfStock.  A clash on order_number is
// reported as ErrOrderNumberExists so the caller can retry with a new one.
func (r *OrderRepo) Create(ctx context.Context, o *model.Order) error {
	o.Status = model.OrderPending
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		var stock int
		err := tx.QueryRowContext(ctx, "SELECT stock FROM products WHERE id = ? FOR UPDATE", o.PackageID).Scan(&stock)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrProductNotFound
			}
			return err
		}
		switch {
		case stock == model.UnlimitedStock:
		case stock <= 0:
			return ErrOutOfStock
		default:
			if _, err := tx.ExecContext(ctx, "UPDATE products SET stock = stock - 1 WHERE id = ?", o.PackageID); err != nil {
				return err
			}
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO orders (user_id, order_number, game_id, game_name, package_id, package_name, package_price,
			                     player_id, account_name, payment_method, contact_email, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			o.UserID, o.OrderNumber, o.GameID, o.GameName, o.PackageID, o.PackageName, o.PackagePrice,
			o.PlayerID, o.AccountName, o.PaymentMethod, o.ContactEmail, o.Status)
		if err != nil {
			if database.IsDuplicateKeyOn(err, orderNumberIndex) {
				return ErrOrderNumberExists
			}
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		o.ID = uint64(id)
		return nil
	})
}

// GetByID fetches one order.
func (r *OrderRepo) GetByID(ctx context.Context, id uint64) (*model.Order, error) {
	return scanOrder(r.db.QueryRowContext(ctx, "SELECT "+orderColumns+", '', '' FROM orders o WHERE o.id = ?", id))
}

// ListByUser returns a customer's orders, newest first.
func (r *OrderRepo) ListByUser(ctx context.Context, userID uint64) ([]*model.Order, error) {
	return r.list(ctx, "SELECT "+orderColumns+", '', '' FROM orders o WHERE o.user_id = ? ORDER BY o.created_at DESC, o.id DESC", userID)
}

// ListAll returns every order with the buyer's email and name, newest first.
func (r *OrderRepo) ListAll(ctx context.Context) ([]*model.Order, error) {
	return r.list(ctx, "SELECT "+orderColumns+", u.email, u.full_name FROM orders o JOIN users u ON u.id = o.user_id ORDER BY o.created_at DESC, o.id DESC")
}

// TransitionStatus moves an order to status `to` when allowed(from, to)
// holds for its current status, returning the previous status.  The row is
// locked for the duration of the check.  A refused transition yields
// ErrConflict.
func (r *OrderRepo) TransitionStatus(ctx context.Context, id uint64, to string, allowed func(from, to string) bool) (string, error) {
	var from string
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, "SELECT status FROM orders WHERE id = ? FOR UPDATE", id).Scan(&from); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOrderNotFound
			}
			return err
		}
		if !allowed(from, to) {
			return ErrConflict
		}
		_, err := tx.ExecContext(ctx, "UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?", to, id)
		return err
	})
	return from, err
}

// Stats aggregates the admin dashboard figures.  Revenue counts completed
// orders only.
func (r *OrderRepo) Stats(ctx context.Context) (model.OrderStats, error) {
	const q = `SELECT COALESCE(SUM(CASE WHEN status = 'completed' THEN package_price ELSE 0 END), 0),
	                  COUNT(*),
	                  COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
	                  (SELECT COUNT(*) FROM users)
	           FROM orders`
	var s model.OrderStats
	var revenue decimal.Decimal
	if err := r.db.QueryRowContext(ctx, q).Scan(&revenue, &s.TotalOrders, &s.PendingOrders, &s.TotalUsers); err != nil {
		return model.OrderStats{}, err
	}
	s.TotalRevenue = model.RoundMoney(revenue)
	return s, nil
}

func (r *OrderRepo) list(ctx context.Context, q string, args ...interface{}) ([]*model.Order, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

func scanOrder(s rowScanner) (*model.Order, error) {
	var (
		o     model.Order
		email sql.NullString
	)
	err := s.Scan(&o.ID, &o.UserID, &o.OrderNumber, &o.GameID, &o.GameName, &o.PackageID, &o.PackageName,
		&o.PackagePrice, &o.PlayerID, &o.AccountName, &o.PaymentMethod, &email, &o.Status,
		&o.CreatedAt, &o.UpdatedAt, &o.UserEmail, &o.UserFullName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	o.ContactEmail = nullStr(email)
	return &o, nil
}
