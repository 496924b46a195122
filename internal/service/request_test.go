package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/booklend/lending-service/internal/errs"
	"github.com/booklend/lending-service/internal/model"
	"github.com/booklend/lending-service/internal/service"
)

type recordPublisher struct {
	events []model.LoanEvent
}

func (p *recordPublisher) Publish(_ context.Context, event model.LoanEvent) error {
	p.events = append(p.events, event)
	return nil
}

func TestService_SubmitRequest(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	bookUid := uuid.New().String()

	tests := []struct {
		name     string
		input    model.CreateRequestInput
		wantDays int
		wantErr  error
	}{
		{
			name:     "ok",
			input:    model.CreateRequestInput{BookUid: bookUid, RequestedDays: 21, Username: "amina"},
			wantDays: 21,
		},
		{
			name:     "zero days takes the default",
			input:    model.CreateRequestInput{BookUid: bookUid, Username: "amina"},
			wantDays: 14,
		},
		{
			name:    "below minimum",
			input:   model.CreateRequestInput{BookUid: bookUid, RequestedDays: 3, Username: "amina"},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "above maximum",
			input:   model.CreateRequestInput{BookUid: bookUid, RequestedDays: 120, Username: "amina"},
			wantErr: errs.ErrValidation,
		},
		{
			name:    "malformed bookUid",
			input:   model.CreateRequestInput{BookUid: "not-a-uuid", RequestedDays: 14, Username: "amina"},
			wantErr: errs.ErrValidation,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			repo := newFakeRepo()
			clock := newFakeClock(start)
			svc := service.NewService(repo, service.DefaultPolicy(), zap.NewNop(), service.WithClock(clock.Now))

			req, err := svc.SubmitRequest(context.Background(), tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, model.RequestStatusPending, req.Status)
			require.Equal(t, tt.wantDays, req.RequestedDays)
			require.Equal(t, start, req.RequestedAt)
			require.NotEmpty(t, req.RequestUid)
		})
	}
}

func TestService_SubmitRequest_DuplicatePending(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := service.NewService(repo, service.DefaultPolicy(), zap.NewNop())
	bookUid := uuid.New().String()

	_, err := svc.SubmitRequest(context.Background(), model.CreateRequestInput{BookUid: bookUid, Username: "amina"})
	require.NoError(t, err)

	_, err = svc.SubmitRequest(context.Background(), model.CreateRequestInput{BookUid: bookUid, Username: "amina"})
	require.ErrorIs(t, err, errs.ErrDuplicateRequest)

	// same book, different student is fine
	_, err = svc.SubmitRequest(context.Background(), model.CreateRequestInput{BookUid: bookUid, Username: "bjorn"})
	require.NoError(t, err)
}

func TestService_DecideRequest_Approve(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	clock := newFakeClock(start)
	pub := &recordPublisher{}
	svc := service.NewService(repo, service.DefaultPolicy(), zap.NewNop(),
		service.WithClock(clock.Now), service.WithPublisher(pub))

	bookUid := uuid.New().String()
	repo.seedInventory(bookUid, 1, 1)

	req, err := svc.SubmitRequest(context.Background(), model.CreateRequestInput{
		BookUid: bookUid, RequestedDays: 10, Username: "amina",
	})
	require.NoError(t, err)

	approved, loan, err := svc.DecideRequest(context.Background(), model.DecideRequestInput{
		Action: model.RequestStatusApproved, RequestUid: req.RequestUid, AdminName: "librarian",
	})
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusApproved, approved.Status)
	require.NotNil(t, approved.ProcessedBy)
	require.Equal(t, "librarian", *approved.ProcessedBy)

	require.NotNil(t, loan)
	require.Equal(t, model.LoanStatusActive, loan.Status)
	require.Equal(t, "amina", loan.Username)
	require.Equal(t, start.Add(10*24*time.Hour), loan.DueDate)

	inv, err := repo.GetInventory(context.Background(), bookUid)
	require.NoError(t, err)
	require.Equal(t, 0, inv.AvailableCount)

	require.Len(t, pub.events, 1)
	require.Equal(t, model.EventLoanOpened, pub.events[0].Kind)
	require.Equal(t, loan.LoanUid, pub.events[0].LoanUid)
}

func TestService_DecideRequest_NoCopiesLeft(t *testing.T) {
	t.Parallel()

	repo := newFakeRepo()
	svc := service.NewService(repo, service.DefaultPolicy(), zap.NewNop())

	bookUid := uuid.New().String()
	repo.seedInventory(bookUid, 1, 0)

	req, err := svc.SubmitRequest(context.Background(), model.CreateRequestInput{BookUid: bookUid, Username: "amina"})
	require.NoError(t, err)

	_, _, err = svc.DecideRequest(context.Background(), model.DecideRequestInput{
		Action: model.RequestStatusApproved, RequestUid: req.RequestUid, AdminName: "librarian",
	})
	require.ErrorIs(t, err, errs.ErrNotAvailable)

	// the request survives the failed approval and can be retried later
	got, err := repo.GetRequest(context.Background(), req.RequestUid)
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusPending, got.Status)
}

func TestService_DecideRequest_Terminal(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	clock := newFakeClock(start)
	svc := service.NewService(repo, service.DefaultPolicy(), zap.NewNop(), service.WithClock(clock.Now))

	bookUid := uuid.New().String()
	repo.seedInventory(bookUid, 2, 2)

	req, err := svc.SubmitRequest(context.Background(), model.CreateRequestInput{BookUid: bookUid, Username: "amina"})
	require.NoError(t, err)

	clock.Advance(time.Hour)
	reason := "damaged copy"
	rejected, loan, err := svc.DecideRequest(context.Background(), model.DecideRequestInput{
		Action: model.RequestStatusRejected, RejectionReason: &reason,
		RequestUid: req.RequestUid, AdminName: "librarian",
	})
	require.NoError(t, err)
	require.Nil(t, loan)
	require.Equal(t, model.RequestStatusRejected, rejected.Status)
	require.Equal(t, &reason, rejected.RejectionReason)

	// decision time comes from the engine clock
	require.NotNil(t, rejected.ProcessedAt)
	require.Equal(t, start.Add(time.Hour), *rejected.ProcessedAt)

	// resolved requests do not flip again
	_, _, err = svc.DecideRequest(context.Background(), model.DecideRequestInput{
		Action: model.RequestStatusApproved, RequestUid: req.RequestUid, AdminName: "librarian",
	})
	require.ErrorIs(t, err, errs.ErrAlreadyResolved)

	// no copy was touched by the reject
	inv, err := repo.GetInventory(context.Background(), bookUid)
	require.NoError(t, err)
	require.Equal(t, 2, inv.AvailableCount)

	_, _, err = svc.DecideRequest(context.Background(), model.DecideRequestInput{
		Action: "SHREDDED", RequestUid: req.RequestUid, AdminName: "librarian",
	})
	require.ErrorIs(t, err, errs.ErrValidation)
}

func TestService_CancelRequest(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := newFakeRepo()
	clock := newFakeClock(start)
	svc := service.NewService(repo, service.DefaultPolicy(), zap.NewNop(), service.WithClock(clock.Now))

	req, err := svc.SubmitRequest(context.Background(), model.CreateRequestInput{
		BookUid: uuid.New().String(), Username: "amina",
	})
	require.NoError(t, err)

	_, err = svc.CancelRequest(context.Background(), "bjorn", req.RequestUid)
	require.ErrorIs(t, err, errs.ErrNotOwner)

	clock.Advance(time.Hour)
	cancelled, err := svc.CancelRequest(context.Background(), "amina", req.RequestUid)
	require.NoError(t, err)
	require.Equal(t, model.RequestStatusCancelled, cancelled.Status)
	require.NotNil(t, cancelled.ProcessedAt)
	require.Equal(t, start.Add(time.Hour), *cancelled.ProcessedAt)

	_, err = svc.CancelRequest(context.Background(), "amina", req.RequestUid)
	require.ErrorIs(t, err, errs.ErrAlreadyResolved)

	_, err = svc.CancelRequest(context.Background(), "amina", "nope")
	require.ErrorIs(t, err, errs.ErrValidation)
}
