package allocate_booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	storageAccount "github.com/m04kA/SMC-AllocationService/internal/infra/storage/account"
	storageSlot "github.com/m04kA/SMC-AllocationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AllocationService/internal/integrations/notifier"
	"github.com/m04kA/SMC-AllocationService/pkg/ptr"
)

type pointsCall struct {
	slotID int64
	delta  int
}

type fakeSlotRepo struct {
	slots       map[int64]*domain.Slot
	pointsCalls []pointsCall
}

func (f *fakeSlotRepo) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, storageSlot.ErrSlotNotFound
	}
	return slot, nil
}

func (f *fakeSlotRepo) AddBookedPoints(ctx context.Context, id int64, delta int) error {
	f.pointsCalls = append(f.pointsCalls, pointsCall{slotID: id, delta: delta})
	return nil
}

type fakeBookingRepo struct {
	sumBySlot           int
	countByAccount      int
	employeeBookedToday bool
	subscriberHasSlot   bool

	created *domain.Booking
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	stored := *b
	stored.ID = 100
	f.created = &stored
	return &stored, nil
}

func (f *fakeBookingRepo) SumActivePointsBySlot(ctx context.Context, slotID int64) (int, error) {
	return f.sumBySlot, nil
}

func (f *fakeBookingRepo) CountActiveByAccountAndDate(ctx context.Context, accountID int64, date time.Time) (int, error) {
	return f.countByAccount, nil
}

func (f *fakeBookingRepo) ExistsActiveByEmployeeAndDate(ctx context.Context, employeeID int64, date time.Time) (bool, error) {
	return f.employeeBookedToday, nil
}

func (f *fakeBookingRepo) ExistsActiveBySubscriberAndSlot(ctx context.Context, subscriberID, slotID int64) (bool, error) {
	return f.subscriberHasSlot, nil
}

type fakeAccountRepo struct {
	accounts    map[int64]*domain.BusinessAccount
	employees   map[int64]*domain.Employee
	subscribers map[int64]*domain.IndividualSubscriber

	debitCalls []int64
	debitErr   error
}

func (f *fakeAccountRepo) GetBusinessAccount(ctx context.Context, id int64) (*domain.BusinessAccount, error) {
	if a, ok := f.accounts[id]; ok {
		return a, nil
	}
	return nil, storageAccount.ErrAccountNotFound
}

func (f *fakeAccountRepo) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	if e, ok := f.employees[id]; ok {
		return e, nil
	}
	return nil, storageAccount.ErrEmployeeNotFound
}

func (f *fakeAccountRepo) GetSubscriber(ctx context.Context, id int64) (*domain.IndividualSubscriber, error) {
	if s, ok := f.subscribers[id]; ok {
		return s, nil
	}
	return nil, storageAccount.ErrSubscriberNotFound
}

func (f *fakeAccountRepo) DebitCredit(ctx context.Context, subscriberID int64) error {
	if f.debitErr != nil {
		return f.debitErr
	}
	f.debitCalls = append(f.debitCalls, subscriberID)
	return nil
}

type fakeTxManager struct{}

func (fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fakeNotifier struct {
	events chan notifier.BookingConfirmedEvent
	err    error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{events: make(chan notifier.BookingConfirmedEvent, 1)}
}

func (f *fakeNotifier) SendBookingConfirmed(ctx context.Context, event notifier.BookingConfirmedEvent) error {
	f.events <- event
	return f.err
}

type nopLogger struct{}

func (nopLogger) Info(format string, v ...interface{})  {}
func (nopLogger) Warn(format string, v ...interface{})  {}
func (nopLogger) Error(format string, v ...interface{}) {}

func testSlot(id int64) *domain.Slot {
	return &domain.Slot{
		ID:             id,
		Date:           time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC),
		StartTime:      "10:00",
		EndTime:        "10:10",
		CapacityPoints: 6,
		Type:           domain.SlotRegular,
	}
}

type fixture struct {
	slots    *fakeSlotRepo
	bookings *fakeBookingRepo
	accounts *fakeAccountRepo
	notifier *fakeNotifier
	uc       *UseCase
}

func newFixture() *fixture {
	f := &fixture{
		slots: &fakeSlotRepo{slots: map[int64]*domain.Slot{1: testSlot(1)}},
		bookings: &fakeBookingRepo{},
		accounts: &fakeAccountRepo{
			accounts: map[int64]*domain.BusinessAccount{
				10: {ID: 10, DailyQuotaPoints: 3, IsActive: true},
			},
			employees: map[int64]*domain.Employee{
				20: {ID: 20, AccountID: 10, Email: "employee@corp.example"},
			},
			subscribers: map[int64]*domain.IndividualSubscriber{
				30: {ID: 30, Email: "subscriber@mail.example", CreditBalance: 2, IsActive: true},
			},
		},
		notifier: newFakeNotifier(),
	}
	f.uc = NewUseCase(f.slots, f.bookings, f.accounts, fakeTxManager{}, f.notifier, nopLogger{})
	return f
}

func (f *fixture) waitEvent(t *testing.T) notifier.BookingConfirmedEvent {
	t.Helper()
	select {
	case e := <-f.notifier.events:
		return e
	case <-time.After(time.Second):
		t.Fatal("notification was not sent")
		return notifier.BookingConfirmedEvent{}
	}
}

func TestExecute_EmployeeBooking(t *testing.T) {
	f := newFixture()

	resp, err := f.uc.Execute(context.Background(), Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20))})
	require.NoError(t, err)

	require.NotNil(t, resp.Booking)
	assert.Equal(t, domain.RequesterEmployee, resp.Booking.Kind)
	assert.Equal(t, int64(10), *resp.Booking.AccountID)
	assert.Equal(t, domain.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, domain.DefaultPointCost, resp.Booking.PointCost)
	assert.False(t, resp.CreditDebited)

	require.Len(t, f.slots.pointsCalls, 1)
	assert.Equal(t, pointsCall{slotID: 1, delta: 1}, f.slots.pointsCalls[0])

	event := f.waitEvent(t)
	assert.Equal(t, "employee@corp.example", event.RecipientEmail)
	assert.Equal(t, "2025-10-15", event.Date)
	assert.Equal(t, "10:00", event.StartTime)
	assert.NotEmpty(t, event.EventID)
}

func TestExecute_CapacityCheck(t *testing.T) {
	t.Run("fits exactly", func(t *testing.T) {
		f := newFixture()
		f.bookings.sumBySlot = 4

		_, err := f.uc.Execute(context.Background(), Request{
			SlotID:     1,
			EmployeeID: ptr.Ptr(int64(20)),
			PointCost:  2,
		})
		require.NoError(t, err)
	})

	t.Run("exceeds by one", func(t *testing.T) {
		f := newFixture()
		f.bookings.sumBySlot = 6

		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20))})
		require.ErrorIs(t, err, ErrCapacityExceeded)
		assert.Empty(t, f.slots.pointsCalls)
	})
}

func TestExecute_SlotChecks(t *testing.T) {
	t.Run("slot not found", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.Execute(context.Background(), Request{SlotID: 99, EmployeeID: ptr.Ptr(int64(20))})
		require.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("slot blocked", func(t *testing.T) {
		f := newFixture()
		f.slots.slots[1].IsBlocked = true
		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20))})
		require.ErrorIs(t, err, ErrSlotBlocked)
	})

	t.Run("regular slot rejects analysis purpose", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.Execute(context.Background(), Request{
			SlotID:     1,
			EmployeeID: ptr.Ptr(int64(20)),
			Purpose:    domain.PurposeAnalysis,
		})
		require.ErrorIs(t, err, ErrPurposeNotAllowed)
	})

	t.Run("exclusive slot requires analysis purpose", func(t *testing.T) {
		f := newFixture()
		f.slots.slots[1].Type = domain.SlotExclusive
		f.slots.slots[1].CapacityPoints = 1

		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20))})
		require.ErrorIs(t, err, ErrPurposeNotAllowed)

		_, err = f.uc.Execute(context.Background(), Request{
			SlotID:     1,
			EmployeeID: ptr.Ptr(int64(20)),
			Purpose:    domain.PurposeAnalysis,
		})
		require.NoError(t, err)
	})
}

func TestExecute_EmployeeChecks(t *testing.T) {
	t.Run("unknown employee", func(t *testing.T) {
		f := newFixture()
		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(99))})
		require.ErrorIs(t, err, ErrRequesterNotFound)
	})

	t.Run("inactive account", func(t *testing.T) {
		f := newFixture()
		f.accounts.accounts[10].IsActive = false
		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20))})
		require.ErrorIs(t, err, ErrRequesterInactive)
	})

	t.Run("one booking per day", func(t *testing.T) {
		f := newFixture()
		f.bookings.employeeBookedToday = true
		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20))})
		require.ErrorIs(t, err, ErrAlreadyBookedToday)
	})

	t.Run("account daily quota exhausted", func(t *testing.T) {
		f := newFixture()
		f.accounts.accounts[10].DailyQuotaPoints = 1
		f.bookings.countByAccount = 1
		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20))})
		require.ErrorIs(t, err, ErrQuotaExceeded)
	})
}

func TestExecute_SubscriberCredits(t *testing.T) {
	t.Run("credit debited without subscription", func(t *testing.T) {
		f := newFixture()

		resp, err := f.uc.Execute(context.Background(), Request{SlotID: 1, SubscriberID: ptr.Ptr(int64(30))})
		require.NoError(t, err)

		assert.True(t, resp.CreditDebited)
		assert.True(t, resp.Booking.CreditDebited)
		assert.Equal(t, []int64{30}, f.accounts.debitCalls)
	})

	t.Run("subscription covers slot date, no debit", func(t *testing.T) {
		f := newFixture()
		until := time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC)
		f.accounts.subscribers[30].CreditBalance = 0
		f.accounts.subscribers[30].SubscriptionActiveUntil = &until

		resp, err := f.uc.Execute(context.Background(), Request{SlotID: 1, SubscriberID: ptr.Ptr(int64(30))})
		require.NoError(t, err)

		assert.False(t, resp.CreditDebited)
		assert.Empty(t, f.accounts.debitCalls)
	})

	t.Run("no credits and no subscription", func(t *testing.T) {
		f := newFixture()
		f.accounts.subscribers[30].CreditBalance = 0

		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, SubscriberID: ptr.Ptr(int64(30))})
		require.ErrorIs(t, err, ErrInsufficientCredits)
	})

	t.Run("expired subscription does not cover", func(t *testing.T) {
		f := newFixture()
		until := time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC)
		f.accounts.subscribers[30].CreditBalance = 0
		f.accounts.subscribers[30].SubscriptionActiveUntil = &until

		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, SubscriberID: ptr.Ptr(int64(30))})
		require.ErrorIs(t, err, ErrInsufficientCredits)
	})

	t.Run("inactive subscriber", func(t *testing.T) {
		f := newFixture()
		f.accounts.subscribers[30].IsActive = false
		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, SubscriberID: ptr.Ptr(int64(30))})
		require.ErrorIs(t, err, ErrRequesterInactive)
	})

	t.Run("duplicate booking on same slot", func(t *testing.T) {
		f := newFixture()
		f.bookings.subscriberHasSlot = true
		_, err := f.uc.Execute(context.Background(), Request{SlotID: 1, SubscriberID: ptr.Ptr(int64(30))})
		require.ErrorIs(t, err, ErrDuplicateBooking)
	})
}

func TestExecute_NotifierFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture()
	f.notifier.err = context.DeadlineExceeded

	resp, err := f.uc.Execute(context.Background(), Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20))})
	require.NoError(t, err)
	require.NotNil(t, resp.Booking)

	f.waitEvent(t)
}

func TestExecute_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  Request
	}{
		{"no slot id", Request{EmployeeID: ptr.Ptr(int64(20))}},
		{"no requester", Request{SlotID: 1}},
		{"both requesters", Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20)), SubscriberID: ptr.Ptr(int64(30))}},
		{"unknown purpose", Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20)), Purpose: "vip"}},
		{"negative point cost", Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20)), PointCost: -1}},
		{"point cost above max", Request{SlotID: 1, EmployeeID: ptr.Ptr(int64(20)), PointCost: domain.MaxPointCost + 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			_, err := f.uc.Execute(context.Background(), tt.req)
			require.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
