package model

import (
	"time"
)

type RequestStatus string

const (
	RequestStatusPending   RequestStatus = "PENDING"
	RequestStatusApproved  RequestStatus = "APPROVED"
	RequestStatusRejected  RequestStatus = "REJECTED"
	RequestStatusCancelled RequestStatus = "CANCELLED"
)

// requestTransitions is the closed transition table: only a pending
// request moves, and only to a terminal state.
var requestTransitions = map[RequestStatus]map[RequestStatus]struct{}{
	RequestStatusPending: {
		RequestStatusApproved:  {},
		RequestStatusRejected:  {},
		RequestStatusCancelled: {},
	},
}

func (s RequestStatus) CanTransition(to RequestStatus) bool {
	_, ok := requestTransitions[s][to]
	return ok
}

type LoanStatus string

const (
	LoanStatusActive   LoanStatus = "ACTIVE"
	LoanStatusOverdue  LoanStatus = "OVERDUE"
	LoanStatusReturned LoanStatus = "RETURNED"
)

var loanTransitions = map[LoanStatus]map[LoanStatus]struct{}{
	LoanStatusActive: {
		LoanStatusOverdue:  {},
		LoanStatusReturned: {},
	},
	LoanStatusOverdue: {
		// overdue is a cached classification, recomputable while open
		LoanStatusOverdue:  {},
		LoanStatusReturned: {},
	},
}

func (s LoanStatus) CanTransition(to LoanStatus) bool {
	_, ok := loanTransitions[s][to]
	return ok
}

// Open reports whether the loan still holds a copy.
func (s LoanStatus) Open() bool {
	return s == LoanStatusActive || s == LoanStatusOverdue
}

type BorrowRequest struct {
	ID              int           `json:"-" db:"id"`
	RequestUid      string        `json:"requestUid" db:"request_uid"`
	Username        string        `json:"username" db:"username"`
	BookUid         string        `json:"bookUid" db:"book_uid"`
	Status          RequestStatus `json:"status" db:"status"`
	RequestedDays   int           `json:"requestedDays" db:"requested_days"`
	RequestedAt     time.Time     `json:"requestedAt" db:"requested_at"`
	ProcessedBy     *string       `json:"processedBy,omitempty" db:"processed_by"`
	ProcessedAt     *time.Time    `json:"processedAt,omitempty" db:"processed_at"`
	RejectionReason *string       `json:"rejectionReason,omitempty" db:"rejection_reason"`
}

type Loan struct {
	ID            int        `json:"-" db:"id"`
	LoanUid       string     `json:"loanUid" db:"loan_uid"`
	Username      string     `json:"username" db:"username"`
	BookUid       string     `json:"bookUid" db:"book_uid"`
	RequestID     *int       `json:"-" db:"request_id"`
	BorrowedAt    time.Time  `json:"borrowedAt" db:"borrowed_at"`
	DueDate       time.Time  `json:"dueDate" db:"due_date"`
	ReturnedAt    *time.Time `json:"returnedAt,omitempty" db:"returned_at"`
	Status        LoanStatus `json:"status" db:"status"`
	DaysOverdue   int        `json:"daysOverdue" db:"days_overdue"`
	LateFeeAmount float64    `json:"lateFeeAmount" db:"late_fee_amount"`
	LateFeePerDay float64    `json:"lateFeePerDay" db:"late_fee_per_day"`
	BorrowNotes   *string    `json:"borrowNotes,omitempty" db:"borrow_notes"`
	ReturnNotes   *string    `json:"returnNotes,omitempty" db:"return_notes"`
}

type InventoryRecord struct {
	BookUid        string `json:"bookUid" db:"book_uid"`
	TotalCount     int    `json:"totalCount" db:"total_count"`
	AvailableCount int    `json:"availableCount" db:"available_count"`
}

type CreateRequestInput struct {
	BookUid       string `json:"bookUid" validate:"required"`
	RequestedDays int    `json:"requestedDays"`
	Username      string `json:"-"`
}

type DecideRequestInput struct {
	Action          RequestStatus `json:"action" validate:"required,oneof=APPROVED REJECTED"`
	RejectionReason *string       `json:"rejectionReason,omitempty" validate:"omitempty,max=500"`
	RequestUid      string        `json:"-"`
	AdminName       string        `json:"-"`
}

type CheckoutInput struct {
	Username string  `json:"username" validate:"required"`
	BookUid  string  `json:"bookUid" validate:"required"`
	Days     int     `json:"days"`
	Notes    *string `json:"notes,omitempty"`
}

type ReturnInput struct {
	LoanUid     string  `json:"-"`
	AdminName   string  `json:"-"`
	ReturnNotes *string `json:"returnNotes,omitempty" validate:"omitempty,max=500"`
}

// BookSummary comes from the book catalog collaborator, display only.
type BookSummary struct {
	BookUid string `json:"bookUid"`
	Title   string `json:"title"`
	Author  string `json:"author"`
	Isbn    string `json:"isbn"`
}

// UserSummary comes from the user directory collaborator, display only.
type UserSummary struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

type RequestWithDetails struct {
	BorrowRequest `json:",inline"`
	Book          *BookSummary `json:"book,omitempty"`
	Requester     *UserSummary `json:"requester,omitempty"`
}

type LoanWithDetails struct {
	Loan `json:",inline"`
	Book *BookSummary `json:"book,omitempty"`
}

type Availability struct {
	BookUid        string `json:"bookUid"`
	Available      bool   `json:"available"`
	TotalCount     int    `json:"totalCount"`
	AvailableCount int    `json:"availableCount"`
}

type SweepResult struct {
	Updated int `json:"updated"`
	Failed  int `json:"failed"`
}

// LoanEvent is published to the loan-events topic after a lifecycle
// transition has been committed.
type LoanEvent struct {
	Kind     string    `json:"kind"`
	LoanUid  string    `json:"loanUid"`
	BookUid  string    `json:"bookUid"`
	Username string    `json:"username"`
	Fee      float64   `json:"fee"`
	At       time.Time `json:"at"`
}

const (
	EventLoanOpened   = "LOAN_OPENED"
	EventLoanReturned = "LOAN_RETURNED"
	EventLoanOverdue  = "LOAN_OVERDUE"
)
