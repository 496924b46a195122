package repository

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/booklend/lending-service/internal/model"
)

type Repository interface {
	// request workflow
	CreateRequest(ctx context.Context, req model.BorrowRequest) (model.BorrowRequest, error)
	GetRequest(ctx context.Context, requestUid string) (model.BorrowRequest, error)
	ListRequests(ctx context.Context, filter RequestFilter) ([]model.BorrowRequest, error)
	ApproveRequest(ctx context.Context, req ApproveRequestParams) (model.Loan, error)
	RejectRequest(ctx context.Context, requestUid, adminName string, reason *string, processedAt time.Time) (model.BorrowRequest, error)
	CancelRequest(ctx context.Context, requestUid, username string, processedAt time.Time) (model.BorrowRequest, error)

	// loan state machine
	GetLoan(ctx context.Context, loanUid string) (model.Loan, error)
	ListLoans(ctx context.Context, filter LoanFilter) ([]model.Loan, error)
	ListDueBefore(ctx context.Context, deadline time.Time) ([]model.Loan, error)
	DirectCheckout(ctx context.Context, loan model.Loan) (model.Loan, error)
	CloseLoan(ctx context.Context, loanUid string, returnedAt time.Time, returnNotes *string) (model.Loan, error)
	MarkOverdue(ctx context.Context, loanUid string, daysOverdue int, fee float64) error

	// inventory ledger
	GetInventory(ctx context.Context, bookUid string) (model.InventoryRecord, error)
}

type RequestFilter struct {
	Username string
	Statuses []model.RequestStatus
}

type LoanFilter struct {
	Username string
	Statuses []model.LoanStatus
}

type ApproveRequestParams struct {
	RequestUid    string
	AdminName     string
	ProcessedAt   time.Time
	DueDate       time.Time
	LateFeePerDay float64
}

type repository struct {
	db  *pgxpool.Pool
	log *zap.Logger
}

func NewRepository(db *pgxpool.Pool, log *zap.Logger) (*repository, error) {
	return &repository{
		db:  db,
		log: log.Named("repo"),
	}, nil
}

const (
	requestTableName   = `borrow_request`
	loanTableName      = `loan`
	inventoryTableName = `book_inventory`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// withinTx runs fn inside a transaction; every multi-step mutation
// (reserve+open, close+release) goes through here.
func (r *repository) withinTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "db.Begin")
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
