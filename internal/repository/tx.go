package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/iliyamo/game-topup-store/internal/database"
)

// withTx runs fn inside a transaction.  The transaction is committed when fn
// returns nil and rolled back on any error or panic.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback()
			return
		}
		err = tx.Commit()
	}()
	return fn(tx)
}

// replaceLinksTx swaps the rows of a join table owned by ownerID for ids.
// table and ownerCol are compile-time constants, never request input.
// Duplicate and zero ids are dropped.
func replaceLinksTx(ctx context.Context, tx *sql.Tx, table, ownerCol string, ownerID uint64, ids []uint64) error {
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, ownerCol), ownerID); err != nil {
		return err
	}
	return insertLinksTx(ctx, tx, table, ownerCol, ownerID, ids)
}

// insertLinksTx bulk inserts (ownerID, product_id) rows in one statement.
func insertLinksTx(ctx context.Context, tx *sql.Tx, table, ownerCol string, ownerID uint64, ids []uint64) error {
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "INSERT INTO %s (%s, product_id) VALUES ", table, ownerCol)
	args := make([]interface{}, 0, len(ids)*2)
	for i, id := range ids {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?)")
		args = append(args, ownerID, id)
	}
	if _, err := tx.ExecContext(ctx, b.String(), args...); err != nil {
		if database.IsForeignKeyViolation(err) {
			return ErrUnknownProduct
		}
		return err
	}
	return nil
}

func uniqueIDs(ids []uint64) []uint64 {
	out := make([]uint64, 0, len(ids))
	seen := make(map[uint64]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// placeholders returns "?, ?, ?" for n arguments.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
