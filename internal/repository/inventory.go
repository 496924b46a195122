package repository

import (
	"context"
	"database/sql"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/booklend/lending-service/internal/errs"
	"github.com/booklend/lending-service/internal/model"
)

// The inventory row is the single contended resource. Reserving a copy
// is a conditional update so two approvals racing for the last copy
// resolve to exactly one winner; the loser sees zero affected rows.

func (r *repository) GetInventory(ctx context.Context, bookUid string) (model.InventoryRecord, error) {
	query, qargs, err := qb.Select("book_uid", "total_count", "available_count").
		From(inventoryTableName).
		Where(sq.Eq{"book_uid": bookUid}).
		ToSql()
	if err != nil {
		return model.InventoryRecord{}, err
	}

	rows, err := r.db.Query(ctx, query, qargs...)
	if err != nil {
		return model.InventoryRecord{}, err
	}
	defer rows.Close()

	rec, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.InventoryRecord])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return model.InventoryRecord{}, errs.ErrNotFound
		}
		return model.InventoryRecord{}, err
	}
	return rec, nil
}

// reserveCopy decrements available_count, never below zero. A missing
// inventory row counts as one default copy: the row is materialized as
// (total=1, available=0) on first reservation. Returns ErrNotAvailable
// when no copy could be claimed.
func reserveCopy(ctx context.Context, tx pgx.Tx, bookUid string) error {
	const decr = `
update book_inventory
    set available_count = available_count - 1
where book_uid = @book_uid and available_count > 0`
	args := pgx.NamedArgs{"book_uid": bookUid}

	ct, err := tx.Exec(ctx, decr, args)
	if err != nil {
		return errors.Wrap(err, "reserveCopy")
	}
	if ct.RowsAffected() > 0 {
		return nil
	}

	const ins = `
insert into book_inventory (book_uid, total_count, available_count)
values (@book_uid, 1, 0)
on conflict (book_uid) do nothing`
	ct, err = tx.Exec(ctx, ins, args)
	if err != nil {
		return errors.Wrap(err, "reserveCopy insert")
	}
	if ct.RowsAffected() > 0 {
		// the implicit single copy is now ours
		return nil
	}

	// the row appeared between the update and the insert, try once more
	ct, err = tx.Exec(ctx, decr, args)
	if err != nil {
		return errors.Wrap(err, "reserveCopy retry")
	}
	if ct.RowsAffected() == 0 {
		return errs.ErrNotAvailable
	}
	return nil
}

// releaseCopy returns a copy to the shelf, clamped to total_count.
func releaseCopy(ctx context.Context, tx pgx.Tx, bookUid string) error {
	const q = `
update book_inventory
    set available_count = least(available_count + 1, total_count)
where book_uid = @book_uid`
	_, err := tx.Exec(ctx, q, pgx.NamedArgs{"book_uid": bookUid})
	return errors.Wrap(err, "releaseCopy")
}
