package service_test

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/booklend/lending-service/internal/errs"
	"github.com/booklend/lending-service/internal/model"
	"github.com/booklend/lending-service/internal/repository"
	"github.com/google/uuid"
)

// fakeRepo mirrors the repository's conditional-update semantics in
// memory: guarded status flips, the non-negative decrement, the
// bounded increment, and the single-copy default for absent rows.
type fakeRepo struct {
	mu        sync.Mutex
	nextID    int
	requests  map[string]*model.BorrowRequest
	loans     map[string]*model.Loan
	inventory map[string]*model.InventoryRecord

	markOverdueErr map[string]error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		requests:       make(map[string]*model.BorrowRequest),
		loans:          make(map[string]*model.Loan),
		inventory:      make(map[string]*model.InventoryRecord),
		markOverdueErr: make(map[string]error),
	}
}

func (f *fakeRepo) seedInventory(bookUid string, total, available int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inventory[bookUid] = &model.InventoryRecord{BookUid: bookUid, TotalCount: total, AvailableCount: available}
}

func (f *fakeRepo) CreateRequest(_ context.Context, req model.BorrowRequest) (model.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.requests {
		if existing.Username == req.Username && existing.BookUid == req.BookUid &&
			existing.Status == model.RequestStatusPending {
			return model.BorrowRequest{}, errs.ErrDuplicateRequest
		}
	}
	f.nextID++
	req.ID = f.nextID
	f.requests[req.RequestUid] = &req
	return req, nil
}

func (f *fakeRepo) GetRequest(_ context.Context, requestUid string) (model.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[requestUid]
	if !ok {
		return model.BorrowRequest{}, errs.ErrNotFound
	}
	return *req, nil
}

func (f *fakeRepo) ListRequests(_ context.Context, filter repository.RequestFilter) ([]model.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.BorrowRequest
	for _, req := range f.requests {
		if filter.Username != "" && req.Username != filter.Username {
			continue
		}
		if len(filter.Statuses) > 0 && !containsRequestStatus(filter.Statuses, req.Status) {
			continue
		}
		out = append(out, *req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RequestedAt.Before(out[j].RequestedAt) })
	return out, nil
}

func (f *fakeRepo) reserveCopyLocked(bookUid string) error {
	rec, ok := f.inventory[bookUid]
	if !ok {
		f.inventory[bookUid] = &model.InventoryRecord{BookUid: bookUid, TotalCount: 1, AvailableCount: 0}
		return nil
	}
	if rec.AvailableCount <= 0 {
		return errs.ErrNotAvailable
	}
	rec.AvailableCount--
	return nil
}

func (f *fakeRepo) releaseCopyLocked(bookUid string) {
	rec, ok := f.inventory[bookUid]
	if !ok {
		return
	}
	if rec.AvailableCount < rec.TotalCount {
		rec.AvailableCount++
	}
}

func (f *fakeRepo) ApproveRequest(_ context.Context, p repository.ApproveRequestParams) (model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[p.RequestUid]
	if !ok {
		return model.Loan{}, errs.ErrNotFound
	}
	if err := f.reserveCopyLocked(req.BookUid); err != nil {
		return model.Loan{}, err
	}
	if req.Status != model.RequestStatusPending {
		// roll the reservation back, as the tx would
		f.releaseCopyLocked(req.BookUid)
		return model.Loan{}, errs.ErrAlreadyResolved
	}
	req.Status = model.RequestStatusApproved
	req.ProcessedBy = &p.AdminName
	processedAt := p.ProcessedAt
	req.ProcessedAt = &processedAt

	f.nextID++
	loan := model.Loan{
		ID:            f.nextID,
		LoanUid:       uuid.New().String(),
		Username:      req.Username,
		BookUid:       req.BookUid,
		RequestID:     &req.ID,
		BorrowedAt:    p.ProcessedAt,
		DueDate:       p.DueDate,
		Status:        model.LoanStatusActive,
		LateFeePerDay: p.LateFeePerDay,
	}
	f.loans[loan.LoanUid] = &loan
	return loan, nil
}

func (f *fakeRepo) RejectRequest(_ context.Context, requestUid, adminName string, reason *string, processedAt time.Time) (model.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[requestUid]
	if !ok {
		return model.BorrowRequest{}, errs.ErrNotFound
	}
	if req.Status != model.RequestStatusPending {
		return model.BorrowRequest{}, errs.ErrAlreadyResolved
	}
	req.Status = model.RequestStatusRejected
	req.ProcessedBy = &adminName
	req.ProcessedAt = &processedAt
	req.RejectionReason = reason
	return *req, nil
}

func (f *fakeRepo) CancelRequest(_ context.Context, requestUid, username string, processedAt time.Time) (model.BorrowRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	req, ok := f.requests[requestUid]
	if !ok {
		return model.BorrowRequest{}, errs.ErrNotFound
	}
	if req.Username != username {
		return model.BorrowRequest{}, errs.ErrNotOwner
	}
	if req.Status != model.RequestStatusPending {
		return model.BorrowRequest{}, errs.ErrAlreadyResolved
	}
	req.Status = model.RequestStatusCancelled
	req.ProcessedAt = &processedAt
	return *req, nil
}

func (f *fakeRepo) GetLoan(_ context.Context, loanUid string) (model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	loan, ok := f.loans[loanUid]
	if !ok {
		return model.Loan{}, errs.ErrNotFound
	}
	return *loan, nil
}

func (f *fakeRepo) ListLoans(_ context.Context, filter repository.LoanFilter) ([]model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Loan
	for _, loan := range f.loans {
		if filter.Username != "" && loan.Username != filter.Username {
			continue
		}
		if len(filter.Statuses) > 0 && !containsLoanStatus(filter.Statuses, loan.Status) {
			continue
		}
		out = append(out, *loan)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BorrowedAt.Before(out[j].BorrowedAt) })
	return out, nil
}

func (f *fakeRepo) ListDueBefore(_ context.Context, deadline time.Time) ([]model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.Loan
	for _, loan := range f.loans {
		if loan.Status.Open() && loan.DueDate.Before(deadline) {
			out = append(out, *loan)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

func (f *fakeRepo) DirectCheckout(_ context.Context, loan model.Loan) (model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.reserveCopyLocked(loan.BookUid); err != nil {
		return model.Loan{}, err
	}
	f.nextID++
	loan.ID = f.nextID
	f.loans[loan.LoanUid] = &loan
	return loan, nil
}

func (f *fakeRepo) CloseLoan(_ context.Context, loanUid string, returnedAt time.Time, returnNotes *string) (model.Loan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	loan, ok := f.loans[loanUid]
	if !ok {
		return model.Loan{}, errs.ErrNotFound
	}
	if !loan.Status.Open() {
		return model.Loan{}, errs.ErrLoanClosed
	}
	loan.Status = model.LoanStatusReturned
	loan.ReturnedAt = &returnedAt
	loan.ReturnNotes = returnNotes
	f.releaseCopyLocked(loan.BookUid)
	return *loan, nil
}

func (f *fakeRepo) MarkOverdue(_ context.Context, loanUid string, daysOverdue int, fee float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.markOverdueErr[loanUid]; err != nil {
		return err
	}
	loan, ok := f.loans[loanUid]
	if !ok {
		return errs.ErrNotFound
	}
	if !loan.Status.Open() {
		return errs.ErrLoanClosed
	}
	loan.Status = model.LoanStatusOverdue
	loan.DaysOverdue = daysOverdue
	loan.LateFeeAmount = fee
	return nil
}

func (f *fakeRepo) GetInventory(_ context.Context, bookUid string) (model.InventoryRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.inventory[bookUid]
	if !ok {
		return model.InventoryRecord{}, errs.ErrNotFound
	}
	return *rec, nil
}

// fakeClock feeds the service a controllable time through WithClock.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock(t time.Time) *fakeClock {
	return &fakeClock{t: t}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func containsRequestStatus(statuses []model.RequestStatus, s model.RequestStatus) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}

func containsLoanStatus(statuses []model.LoanStatus, s model.LoanStatus) bool {
	for _, status := range statuses {
		if status == s {
			return true
		}
	}
	return false
}
