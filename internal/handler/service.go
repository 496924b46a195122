package handler

import (
	"context"

	"github.com/booklend/lending-service/internal/model"
	"github.com/booklend/lending-service/internal/service"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LendingService interface {
	SubmitRequest(ctx context.Context, input model.CreateRequestInput) (model.BorrowRequest, error)
	ListPendingRequests(ctx context.Context) ([]model.RequestWithDetails, error)
	ListMyRequests(ctx context.Context, username string, includeResolved bool) ([]model.RequestWithDetails, error)
	DecideRequest(ctx context.Context, input model.DecideRequestInput) (model.BorrowRequest, *model.Loan, error)
	CancelRequest(ctx context.Context, username, requestUid string) (model.BorrowRequest, error)

	DirectCheckout(ctx context.Context, input model.CheckoutInput) (model.Loan, error)
	ReturnLoan(ctx context.Context, input model.ReturnInput) (model.Loan, error)
	SweepOverdue(ctx context.Context) (model.SweepResult, error)
	ListMyLoans(ctx context.Context, username string) ([]model.LoanWithDetails, error)
	ListMyHistory(ctx context.Context, username string) ([]model.LoanWithDetails, error)
	ListOverdue(ctx context.Context) ([]model.LoanWithDetails, error)

	IsAvailable(ctx context.Context, bookUid string) (model.Availability, error)
}

var _ LendingService = (*service.Service)(nil)
