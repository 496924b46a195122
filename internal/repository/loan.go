package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/booklend/lending-service/internal/errs"
	"github.com/booklend/lending-service/internal/model"
)

func newUid() string {
	return uuid.New().String()
}

func insertLoan(ctx context.Context, tx pgx.Tx, loan model.Loan) (model.Loan, error) {
	query, args, err := qb.Insert(loanTableName).
		Columns("loan_uid", "username", "book_uid", "request_id", "borrowed_at", "due_date", "status", "late_fee_per_day", "borrow_notes").
		Values(loan.LoanUid, loan.Username, loan.BookUid, loan.RequestID, loan.BorrowedAt, loan.DueDate, loan.Status, loan.LateFeePerDay, loan.BorrowNotes).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, err
	}
	defer rows.Close()

	return pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
}

// DirectCheckout opens a loan with no originating request: reserve the
// copy first, insert the loan only if the reservation held.
func (r *repository) DirectCheckout(ctx context.Context, loan model.Loan) (model.Loan, error) {
	var created model.Loan
	err := r.withinTx(ctx, func(tx pgx.Tx) error {
		if err := reserveCopy(ctx, tx, loan.BookUid); err != nil {
			return err
		}
		ins, err := insertLoan(ctx, tx, loan)
		if err != nil {
			return err
		}
		created = ins
		return nil
	})
	if err != nil {
		return model.Loan{}, err
	}
	return created, nil
}

func (r *repository) GetLoan(ctx context.Context, loanUid string) (model.Loan, error) {
	query, args, err := qb.Select("*").
		From(loanTableName).
		Where(sq.Eq{"loan_uid": loanUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.Loan{}, err
	}
	defer rows.Close()

	loan, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return model.Loan{}, errs.ErrNotFound
		}
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) ListLoans(ctx context.Context, filter LoanFilter) ([]model.Loan, error) {
	q := qb.Select("*").
		From(loanTableName).
		OrderBy("borrowed_at asc")

	if filter.Username != "" {
		q = q.Where(sq.Eq{"username": filter.Username})
	}
	if len(filter.Statuses) > 0 {
		q = q.Where(sq.Eq{"status": filter.Statuses})
	}

	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}
	r.log.Debug("ListLoans", zap.String("query", query), zap.Any("args", args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Loan])
}

// ListDueBefore feeds the overdue sweep, oldest due date first so an
// interrupted sweep has already corrected the most overdue loans.
// Already-overdue loans are included: their fee keeps accruing until
// the cap.
func (r *repository) ListDueBefore(ctx context.Context, deadline time.Time) ([]model.Loan, error) {
	query, args, err := qb.Select("*").
		From(loanTableName).
		Where(sq.Eq{"status": []model.LoanStatus{model.LoanStatusActive, model.LoanStatusOverdue}}).
		Where(sq.Lt{"due_date": deadline}).
		OrderBy("due_date asc").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.Loan])
}

// CloseLoan finalizes the loan and releases the copy in one
// transaction. The stored days_overdue/late_fee_amount are kept as the
// final record, so a sweep racing the return is not discarded.
func (r *repository) CloseLoan(ctx context.Context, loanUid string, returnedAt time.Time, returnNotes *string) (model.Loan, error) {
	var closed model.Loan
	err := r.withinTx(ctx, func(tx pgx.Tx) error {
		const q = `
update loan
    set status = 'RETURNED', returned_at = @returned_at, return_notes = @notes
where loan_uid = @loan_uid and status in ('ACTIVE', 'OVERDUE')
returning *`
		rows, err := tx.Query(ctx, q, pgx.NamedArgs{
			"returned_at": returnedAt,
			"notes":       returnNotes,
			"loan_uid":    loanUid,
		})
		if err != nil {
			return err
		}
		defer rows.Close()

		loan, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Loan])
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
				return r.classifyLoanMiss(ctx, loanUid)
			}
			return err
		}

		if err := releaseCopy(ctx, tx, loan.BookUid); err != nil {
			return err
		}
		closed = loan
		return nil
	})
	if err != nil {
		return model.Loan{}, err
	}
	return closed, nil
}

// MarkOverdue persists a fee computation; it never touches a returned
// loan.
func (r *repository) MarkOverdue(ctx context.Context, loanUid string, daysOverdue int, fee float64) error {
	const q = `
update loan
    set status = 'OVERDUE', days_overdue = @days_overdue, late_fee_amount = @fee
where loan_uid = @loan_uid and status in ('ACTIVE', 'OVERDUE')`
	ct, err := r.db.Exec(ctx, q, pgx.NamedArgs{
		"days_overdue": daysOverdue,
		"fee":          fee,
		"loan_uid":     loanUid,
	})
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return r.classifyLoanMiss(ctx, loanUid)
	}
	return nil
}

func (r *repository) classifyLoanMiss(ctx context.Context, loanUid string) error {
	if _, err := r.GetLoan(ctx, loanUid); err != nil {
		return err
	}
	return errs.ErrLoanClosed
}
