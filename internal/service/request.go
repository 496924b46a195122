package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/booklend/lending-service/internal/errs"
	"github.com/booklend/lending-service/internal/model"
	"github.com/booklend/lending-service/internal/repository"
)

// SubmitRequest records a student's non-binding intent to borrow. No
// copy is reserved here; availability is re-checked at decision time.
func (s *Service) SubmitRequest(ctx context.Context, input model.CreateRequestInput) (model.BorrowRequest, error) {
	days := input.RequestedDays
	if days == 0 {
		days = s.policy.DefaultDays
	}
	if days < s.policy.MinDays || days > s.policy.MaxDays {
		return model.BorrowRequest{}, errors.Wrapf(errs.ErrValidation,
			"requestedDays must be within [%d, %d]", s.policy.MinDays, s.policy.MaxDays)
	}
	if _, err := uuid.Parse(input.BookUid); err != nil {
		return model.BorrowRequest{}, errors.Wrap(errs.ErrValidation, "malformed bookUid")
	}

	return s.repo.CreateRequest(ctx, model.BorrowRequest{
		RequestUid:    uuid.New().String(),
		Username:      input.Username,
		BookUid:       input.BookUid,
		Status:        model.RequestStatusPending,
		RequestedDays: days,
		RequestedAt:   s.now().UTC(),
	})
}

func (s *Service) ListPendingRequests(ctx context.Context) ([]model.RequestWithDetails, error) {
	requests, err := s.repo.ListRequests(ctx, repository.RequestFilter{
		Statuses: []model.RequestStatus{model.RequestStatusPending},
	})
	if err != nil {
		return nil, err
	}
	return s.requestsWithDetails(ctx, requests), nil
}

func (s *Service) ListMyRequests(ctx context.Context, username string, includeResolved bool) ([]model.RequestWithDetails, error) {
	filter := repository.RequestFilter{Username: username}
	if !includeResolved {
		filter.Statuses = []model.RequestStatus{model.RequestStatusPending}
	}
	requests, err := s.repo.ListRequests(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.requestsWithDetails(ctx, requests), nil
}

// DecideRequest resolves a pending request. An approval reserves the
// copy before the status flips; when no copy is left the request stays
// pending and the admin gets a conflict.
func (s *Service) DecideRequest(ctx context.Context, input model.DecideRequestInput) (model.BorrowRequest, *model.Loan, error) {
	switch input.Action {
	case model.RequestStatusApproved, model.RequestStatusRejected:
	default:
		return model.BorrowRequest{}, nil, errors.Wrapf(errs.ErrValidation, "unknown action %q", input.Action)
	}

	req, err := s.repo.GetRequest(ctx, input.RequestUid)
	if err != nil {
		return model.BorrowRequest{}, nil, err
	}
	if !req.Status.CanTransition(input.Action) {
		return model.BorrowRequest{}, nil, errs.ErrAlreadyResolved
	}

	now := s.now().UTC()
	if input.Action == model.RequestStatusRejected {
		rejected, err := s.repo.RejectRequest(ctx, input.RequestUid, input.AdminName, input.RejectionReason, now)
		if err != nil {
			return model.BorrowRequest{}, nil, err
		}
		return rejected, nil, nil
	}

	loan, err := s.repo.ApproveRequest(ctx, repository.ApproveRequestParams{
		RequestUid:    input.RequestUid,
		AdminName:     input.AdminName,
		ProcessedAt:   now,
		DueDate:       now.Add(time.Duration(req.RequestedDays) * 24 * time.Hour),
		LateFeePerDay: s.policy.LateFeePerDay,
	})
	if err != nil {
		return model.BorrowRequest{}, nil, err
	}

	approved, err := s.repo.GetRequest(ctx, input.RequestUid)
	if err != nil {
		return model.BorrowRequest{}, nil, err
	}

	s.publish(ctx, model.LoanEvent{
		Kind:     model.EventLoanOpened,
		LoanUid:  loan.LoanUid,
		BookUid:  loan.BookUid,
		Username: loan.Username,
		At:       now,
	})
	return approved, &loan, nil
}

func (s *Service) CancelRequest(ctx context.Context, username, requestUid string) (model.BorrowRequest, error) {
	if _, err := uuid.Parse(requestUid); err != nil {
		return model.BorrowRequest{}, errors.Wrap(errs.ErrValidation, "malformed requestUid")
	}
	return s.repo.CancelRequest(ctx, requestUid, username, s.now().UTC())
}

func (s *Service) requestsWithDetails(ctx context.Context, requests []model.BorrowRequest) []model.RequestWithDetails {
	uids := make([]string, 0, len(requests))
	for _, req := range requests {
		uids = append(uids, req.BookUid)
	}
	books := s.bookSummaries(ctx, uids)

	out := make([]model.RequestWithDetails, 0, len(requests))
	for _, req := range requests {
		out = append(out, model.RequestWithDetails{
			BorrowRequest: req,
			Book:          books[req.BookUid],
			Requester:     s.userSummary(ctx, req.Username),
		})
	}
	return out
}
