package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/booklend/lending-service/internal/errs"
	"github.com/booklend/lending-service/internal/model"
	"github.com/booklend/lending-service/internal/repository"
)

// DirectCheckout opens a loan without a prior request (admin desk
// checkout). Same reservation discipline as an approval.
func (s *Service) DirectCheckout(ctx context.Context, input model.CheckoutInput) (model.Loan, error) {
	days := input.Days
	if days == 0 {
		days = s.policy.DefaultDays
	}
	if days < s.policy.MinDays || days > s.policy.MaxDays {
		return model.Loan{}, errors.Wrapf(errs.ErrValidation,
			"days must be within [%d, %d]", s.policy.MinDays, s.policy.MaxDays)
	}
	if _, err := uuid.Parse(input.BookUid); err != nil {
		return model.Loan{}, errors.Wrap(errs.ErrValidation, "malformed bookUid")
	}

	now := s.now().UTC()
	loan, err := s.repo.DirectCheckout(ctx, model.Loan{
		LoanUid:       uuid.New().String(),
		Username:      input.Username,
		BookUid:       input.BookUid,
		BorrowedAt:    now,
		DueDate:       now.Add(time.Duration(days) * 24 * time.Hour),
		Status:        model.LoanStatusActive,
		LateFeePerDay: s.policy.LateFeePerDay,
		BorrowNotes:   input.Notes,
	})
	if err != nil {
		return model.Loan{}, err
	}

	s.publish(ctx, model.LoanEvent{
		Kind:     model.EventLoanOpened,
		LoanUid:  loan.LoanUid,
		BookUid:  loan.BookUid,
		Username: loan.Username,
		At:       now,
	})
	return loan, nil
}

// ReturnLoan finalizes the loan with the last computed fee and puts
// the copy back on the shelf.
func (s *Service) ReturnLoan(ctx context.Context, input model.ReturnInput) (model.Loan, error) {
	if _, err := uuid.Parse(input.LoanUid); err != nil {
		return model.Loan{}, errors.Wrap(errs.ErrValidation, "malformed loanUid")
	}

	now := s.now().UTC()
	loan, err := s.repo.CloseLoan(ctx, input.LoanUid, now, input.ReturnNotes)
	if err != nil {
		return model.Loan{}, err
	}

	s.publish(ctx, model.LoanEvent{
		Kind:     model.EventLoanReturned,
		LoanUid:  loan.LoanUid,
		BookUid:  loan.BookUid,
		Username: loan.Username,
		Fee:      loan.LateFeeAmount,
		At:       now,
	})
	return loan, nil
}

// ComputeLateFee reclassifies a single loan against the current time
// and persists the result. A loan that is not past due is untouched.
func (s *Service) ComputeLateFee(ctx context.Context, loanUid string) (model.Loan, error) {
	loan, err := s.repo.GetLoan(ctx, loanUid)
	if err != nil {
		return model.Loan{}, err
	}
	if !loan.Status.Open() {
		return model.Loan{}, errs.ErrLoanClosed
	}

	daysOverdue, fee := s.lateFee(loan.DueDate, loan.LateFeePerDay)
	if daysOverdue == 0 {
		return loan, nil
	}

	if err := s.repo.MarkOverdue(ctx, loanUid, daysOverdue, fee); err != nil {
		return model.Loan{}, err
	}
	loan.Status = model.LoanStatusOverdue
	loan.DaysOverdue = daysOverdue
	loan.LateFeeAmount = fee
	return loan, nil
}

// lateFee: full days are charged from the moment the due date passes,
// so one hour late already counts as one day. The fee is capped.
func (s *Service) lateFee(dueDate time.Time, perDay float64) (int, float64) {
	now := s.now().UTC()
	if !now.After(dueDate) {
		return 0, 0
	}
	daysOverdue := int(math.Ceil(now.Sub(dueDate).Hours() / 24))
	fee := math.Min(float64(daysOverdue)*perDay, s.policy.LateFeeCap)
	return daysOverdue, math.Round(fee*100) / 100
}

// SweepOverdue reclassifies all active loans past due, oldest first.
// A per-loan failure is counted and the sweep moves on.
func (s *Service) SweepOverdue(ctx context.Context) (model.SweepResult, error) {
	loans, err := s.repo.ListDueBefore(ctx, s.now().UTC())
	if err != nil {
		return model.SweepResult{}, err
	}

	var res model.SweepResult
	for _, loan := range loans {
		daysOverdue, fee := s.lateFee(loan.DueDate, loan.LateFeePerDay)
		if daysOverdue == 0 {
			continue
		}
		if err := s.repo.MarkOverdue(ctx, loan.LoanUid, daysOverdue, fee); err != nil {
			s.log.Error("sweep: MarkOverdue", zap.String("loanUid", loan.LoanUid), zap.Error(err))
			res.Failed++
			continue
		}
		res.Updated++
		s.publish(ctx, model.LoanEvent{
			Kind:     model.EventLoanOverdue,
			LoanUid:  loan.LoanUid,
			BookUid:  loan.BookUid,
			Username: loan.Username,
			Fee:      fee,
			At:       s.now().UTC(),
		})
	}
	return res, nil
}

func (s *Service) ListMyLoans(ctx context.Context, username string) ([]model.LoanWithDetails, error) {
	loans, err := s.repo.ListLoans(ctx, repository.LoanFilter{
		Username: username,
		Statuses: []model.LoanStatus{model.LoanStatusActive, model.LoanStatusOverdue},
	})
	if err != nil {
		return nil, err
	}
	return s.loansWithDetails(ctx, loans), nil
}

func (s *Service) ListMyHistory(ctx context.Context, username string) ([]model.LoanWithDetails, error) {
	loans, err := s.repo.ListLoans(ctx, repository.LoanFilter{Username: username})
	if err != nil {
		return nil, err
	}
	return s.loansWithDetails(ctx, loans), nil
}

func (s *Service) ListOverdue(ctx context.Context) ([]model.LoanWithDetails, error) {
	loans, err := s.repo.ListLoans(ctx, repository.LoanFilter{
		Statuses: []model.LoanStatus{model.LoanStatusOverdue},
	})
	if err != nil {
		return nil, err
	}
	return s.loansWithDetails(ctx, loans), nil
}

func (s *Service) IsAvailable(ctx context.Context, bookUid string) (model.Availability, error) {
	if _, err := uuid.Parse(bookUid); err != nil {
		return model.Availability{}, errors.Wrap(errs.ErrValidation, "malformed bookUid")
	}
	rec, err := s.repo.GetInventory(ctx, bookUid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			// no ledger row yet: the implicit single shelf copy
			return model.Availability{BookUid: bookUid, Available: true, TotalCount: 1, AvailableCount: 1}, nil
		}
		return model.Availability{}, err
	}
	return model.Availability{
		BookUid:        bookUid,
		Available:      rec.AvailableCount > 0,
		TotalCount:     rec.TotalCount,
		AvailableCount: rec.AvailableCount,
	}, nil
}

func (s *Service) loansWithDetails(ctx context.Context, loans []model.Loan) []model.LoanWithDetails {
	uids := make([]string, 0, len(loans))
	for _, loan := range loans {
		uids = append(uids, loan.BookUid)
	}
	books := s.bookSummaries(ctx, uids)

	out := make([]model.LoanWithDetails, 0, len(loans))
	for _, loan := range loans {
		out = append(out, model.LoanWithDetails{
			Loan: loan,
			Book: books[loan.BookUid],
		})
	}
	return out
}
