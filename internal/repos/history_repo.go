package repos

import (
	"context"
	"time"

	"github.com/jimlawless/whereami"
	"github.com/jmoiron/sqlx"

	"stocktrack/internal/domain"
)

// HistoryRepo is the append-only stock change ledger.
type HistoryRepo struct {
	db  *sqlx.DB
	now func() time.Time
}

func NewHistoryRepo(db *sqlx.DB) *HistoryRepo { return &HistoryRepo{db: db, now: time.Now} }

// NewHistoryRepoWithClock lets tests control change_date.
func NewHistoryRepoWithClock(db *sqlx.DB, now func() time.Time) *HistoryRepo {
	return &HistoryRepo{db: db, now: now}
}

// Append writes one entry stamped with the current time. An empty actor is
// recorded as domain.SystemActor.
func (r *HistoryRepo) Append(ctx context.Context, productID int64, oldQty, newQty int, actor string) error {
	if actor == "" {
		actor = domain.SystemActor
	}
	ts := r.now().UTC().Format(domain.TimestampLayout)
	_, err := conn(ctx, r.db).ExecContext(ctx, `
		INSERT INTO inventory_history(product_id, old_quantity, new_quantity, change_date, user_info)
		VALUES (?, ?, ?, ?, ?)
	`, productID, oldQty, newQty, ts, actor)
	if err != nil {
		return storeErr(whereami.WhereAmI(), err)
	}
	return nil
}

// ListForProduct returns entries newest first.
func (r *HistoryRepo) ListForProduct(ctx context.Context, productID int64) ([]domain.HistoryEntry, error) {
	out := []domain.HistoryEntry{}
	err := conn(ctx, r.db).SelectContext(ctx, &out, `
		SELECT id, product_id, old_quantity, new_quantity, change_date, user_info
		FROM inventory_history
		WHERE product_id = ?
		ORDER BY change_date DESC, id DESC
	`, productID)
	if err != nil {
		return nil, storeErr(whereami.WhereAmI(), err)
	}
	return out, nil
}

func (r *HistoryRepo) RemoveForProduct(ctx context.Context, productID int64) error {
	if _, err := conn(ctx, r.db).ExecContext(ctx, `DELETE FROM inventory_history WHERE product_id = ?`, productID); err != nil {
		return storeErr(whereami.WhereAmI(), err)
	}
	return nil
}
