package repository

import (
	"context"
	"database/sql"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/booklend/lending-service/internal/errs"
	"github.com/booklend/lending-service/internal/model"
)

func (r *repository) CreateRequest(ctx context.Context, req model.BorrowRequest) (model.BorrowRequest, error) {
	query, args, err := qb.Insert(requestTableName).
		Columns("request_uid", "username", "book_uid", "status", "requested_days", "requested_at").
		Values(req.RequestUid, req.Username, req.BookUid, req.Status, req.RequestedDays, req.RequestedAt).
		Suffix("returning *").
		ToSql()
	if err != nil {
		return model.BorrowRequest{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.BorrowRequest{}, err
	}
	defer rows.Close()

	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BorrowRequest])
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return model.BorrowRequest{}, errs.ErrDuplicateRequest
		}
		r.log.Error("CreateRequest", zap.String("q", query), zap.Any("args", args))
		return model.BorrowRequest{}, err
	}
	return created, nil
}

func (r *repository) GetRequest(ctx context.Context, requestUid string) (model.BorrowRequest, error) {
	query, args, err := qb.Select("*").
		From(requestTableName).
		Where(sq.Eq{"request_uid": requestUid}).
		Limit(1).
		ToSql()
	if err != nil {
		return model.BorrowRequest{}, err
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return model.BorrowRequest{}, err
	}
	defer rows.Close()

	req, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BorrowRequest])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return model.BorrowRequest{}, errs.ErrNotFound
		}
		return model.BorrowRequest{}, err
	}
	return req, nil
}

func (r *repository) ListRequests(ctx context.Context, filter RequestFilter) ([]model.BorrowRequest, error) {
	q := qb.Select("*").
		From(requestTableName).
		OrderBy("requested_at asc")

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

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return pgx.CollectRows(rows, pgx.RowToStructByName[model.BorrowRequest])
}

// ApproveRequest is the correctness-critical sequence: the copy is
// reserved before the request flips to APPROVED, all in one
// transaction. A failed reservation rolls everything back and the
// request stays PENDING.
func (r *repository) ApproveRequest(ctx context.Context, p ApproveRequestParams) (model.Loan, error) {
	var loan model.Loan
	err := r.withinTx(ctx, func(tx pgx.Tx) error {
		const sel = `
select username, book_uid, id from borrow_request
where request_uid = @request_uid`
		var (
			username string
			bookUid  string
			reqID    int
		)
		if err := tx.QueryRow(ctx, sel, pgx.NamedArgs{"request_uid": p.RequestUid}).
			Scan(&username, &bookUid, &reqID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return errs.ErrNotFound
			}
			return err
		}

		if err := reserveCopy(ctx, tx, bookUid); err != nil {
			return err
		}

		const upd = `
update borrow_request
    set status = 'APPROVED', processed_by = @admin, processed_at = @processed_at
where request_uid = @request_uid and status = 'PENDING'`
		ct, err := tx.Exec(ctx, upd, pgx.NamedArgs{
			"admin":        p.AdminName,
			"processed_at": p.ProcessedAt,
			"request_uid":  p.RequestUid,
		})
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			// a concurrent decision won
			return errs.ErrAlreadyResolved
		}

		created, err := insertLoan(ctx, tx, model.Loan{
			LoanUid:       newUid(),
			Username:      username,
			BookUid:       bookUid,
			RequestID:     &reqID,
			BorrowedAt:    p.ProcessedAt,
			DueDate:       p.DueDate,
			Status:        model.LoanStatusActive,
			LateFeePerDay: p.LateFeePerDay,
		})
		if err != nil {
			return err
		}
		loan = created
		return nil
	})
	if err != nil {
		return model.Loan{}, err
	}
	return loan, nil
}

func (r *repository) RejectRequest(ctx context.Context, requestUid, adminName string, reason *string, processedAt time.Time) (model.BorrowRequest, error) {
	const q = `
update borrow_request
    set status = 'REJECTED', processed_by = @admin, processed_at = @processed_at, rejection_reason = @reason
where request_uid = @request_uid and status = 'PENDING'
returning *`
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"admin":        adminName,
		"reason":       reason,
		"processed_at": processedAt,
		"request_uid":  requestUid,
	})
	if err != nil {
		return model.BorrowRequest{}, err
	}
	defer rows.Close()

	req, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BorrowRequest])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return model.BorrowRequest{}, r.classifyRequestMiss(ctx, requestUid, "")
		}
		return model.BorrowRequest{}, err
	}
	return req, nil
}

func (r *repository) CancelRequest(ctx context.Context, requestUid, username string, processedAt time.Time) (model.BorrowRequest, error) {
	const q = `
update borrow_request
    set status = 'CANCELLED', processed_at = @processed_at
where request_uid = @request_uid and username = @username and status = 'PENDING'
returning *`
	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{
		"processed_at": processedAt,
		"request_uid":  requestUid,
		"username":     username,
	})
	if err != nil {
		return model.BorrowRequest{}, err
	}
	defer rows.Close()

	req, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.BorrowRequest])
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return model.BorrowRequest{}, r.classifyRequestMiss(ctx, requestUid, username)
		}
		return model.BorrowRequest{}, err
	}
	return req, nil
}

// classifyRequestMiss turns a zero-row guarded update into the precise
// business error: unknown id, foreign owner, or terminal state.
func (r *repository) classifyRequestMiss(ctx context.Context, requestUid, username string) error {
	req, err := r.GetRequest(ctx, requestUid)
	if err != nil {
		return err
	}
	if username != "" && req.Username != username {
		return errs.ErrNotOwner
	}
	return errs.ErrAlreadyResolved
}
