package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iliyamo/game-topup-store/internal/model"
)

var ErrOfferNotFound = errors.New("offer not found")

// OfferRepo stores offers and their offer_products links.
type OfferRepo struct {
	db *sql.DB
}

func NewOfferRepo(db *sql.DB) *OfferRepo { return &OfferRepo{db: db} }

// OfferUpdate carries a partial update.  Nil fields keep the stored value;
// a nil ProductIDs keeps the links, a non-nil (even empty) slice replaces them.
type OfferUpdate struct {
	Name          *string
	Description   *string
	OfferType     *string
	DiscountValue *decimal.Decimal
	StartDate     *time.Time
	EndDate       *time.Time
	Status        *string
	ProductIDs    []uint64
}

const offerColumns = `o.id, o.game_id, g.name, o.name, o.description, o.offer_type, o.discount_value,
	o.start_date, o.end_date, o.status, o.created_at, o.updated_at,
	(SELECT COUNT(*) FROM offer_products op WHERE op.offer_id = o.id)`

const offerFrom = " FROM offers o JOIN games g ON g.id = o.game_id"

// Create inserts the offer and its product links in one transaction.
func (r *OfferRepo) Create(ctx context.Context, o *model.Offer) error {
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO offers (game_id, name, description, offer_type, discount_value, start_date, end_date)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			o.GameID, o.Name, o.Description, o.OfferType, o.DiscountValue, o.StartDate.UTC(), o.EndDate.UTC())
		if err != nil {
			return err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return err
		}
		o.ID = uint64(id)
		return insertLinksTx(ctx, tx, "offer_products", "offer_id", o.ID, o.ProductIDs)
	})
	if err != nil {
		return err
	}
	created, err := r.GetByID(ctx, o.ID)
	if err != nil {
		return err
	}
	*o = *created
	return nil
}

// GetByID fetches an offer with its product ids.
func (r *OfferRepo) GetByID(ctx context.Context, id uint64) (*model.Offer, error) {
	o, err := scanOffer(r.db.QueryRowContext(ctx, "SELECT "+offerColumns+offerFrom+" WHERE o.id = ?", id))
	if err != nil {
		return nil, err
	}
	ids, err := r.productIDs(ctx, id)
	if err != nil {
		return nil, err
	}
	o.ProductIDs = ids
	return o, nil
}

// ListAll returns every offer with game name and product count, newest first.
func (r *OfferRepo) ListAll(ctx context.Context) ([]*model.Offer, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+offerColumns+offerFrom+" ORDER BY o.created_at DESC, o.id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []*model.Offer{}
	for rows.Next() {
		o, err := scanOffer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// ListActiveForGame returns offers of the game that are active at now, each
// with the ids of the products it targets, ordered by offer id.
func (r *OfferRepo) ListActiveForGame(ctx context.Context, gameID uint64, now time.Time) ([]*model.Offer, error) {
	const q = `SELECT o.id, o.name, o.offer_type, o.discount_value, o.start_date, o.end_date, o.status, op.product_id
	           FROM offers o
	           JOIN offer_products op ON op.offer_id = o.id
	           WHERE o.game_id = ?
	             AND o.status = 'active'
	             AND o.start_date <= ?
	             AND o.end_date >= ?
	           ORDER BY o.id, op.product_id`
	now = now.UTC()
	rows, err := r.db.QueryContext(ctx, q, gameID, now, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []*model.Offer{}
	var cur *model.Offer
	for rows.Next() {
		var (
			o         model.Offer
			productID uint64
		)
		if err := rows.Scan(&o.ID, &o.Name, &o.OfferType, &o.DiscountValue, &o.StartDate, &o.EndDate, &o.Status, &productID); err != nil {
			return nil, err
		}
		if cur == nil || cur.ID != o.ID {
			o.GameID = gameID
			cur = &o
			out = append(out, cur)
		}
		cur.ProductIDs = append(cur.ProductIDs, productID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for _, o := range out {
		o.ProductCount = len(o.ProductIDs)
	}
	return out, nil
}

// Update applies u.  The row update and the product list replacement commit
// together.
func (r *OfferRepo) Update(ctx context.Context, id uint64, u OfferUpdate) (*model.Offer, error) {
	const q = `UPDATE offers
	           SET name = COALESCE(?, name),
	               description = COALESCE(?, description),
	               offer_type = COALESCE(?, offer_type),
	               discount_value = COALESCE(?, discount_value),
	               start_date = COALESCE(?, start_date),
	               end_date = COALESCE(?, end_date),
	               status = COALESCE(?, status),
	               updated_at = CURRENT_TIMESTAMP
	           WHERE id = ?`
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var exists uint64
		if err := tx.QueryRowContext(ctx, "SELECT id FROM offers WHERE id = ? FOR UPDATE", id).Scan(&exists); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrOfferNotFound
			}
			return err
		}
		if _, err := tx.ExecContext(ctx, q, u.Name, u.Description, u.OfferType, u.DiscountValue,
			utcPtr(u.StartDate), utcPtr(u.EndDate), u.Status, id); err != nil {
			return err
		}
		if u.ProductIDs != nil {
			return replaceLinksTx(ctx, tx, "offer_products", "offer_id", id, u.ProductIDs)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes an offer; its links cascade.
func (r *OfferRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM offers WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrOfferNotFound
	}
	return nil
}

func (r *OfferRepo) productIDs(ctx context.Context, offerID uint64) ([]uint64, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT product_id FROM offer_products WHERE offer_id = ? ORDER BY product_id", offerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	ids := []uint64{}
	for rows.Next() {
		var id uint64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func scanOffer(s rowScanner) (*model.Offer, error) {
	var (
		o    model.Offer
		desc sql.NullString
	)
	err := s.Scan(&o.ID, &o.GameID, &o.GameName, &o.Name, &desc, &o.OfferType, &o.DiscountValue,
		&o.StartDate, &o.EndDate, &o.Status, &o.CreatedAt, &o.UpdatedAt, &o.ProductCount)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	o.Description = nullStr(desc)
	return &o, nil
}

func utcPtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
