package evaluate_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	storageAccount "github.com/m04kA/SMC-AllocationService/internal/infra/storage/account"
	storageSlot "github.com/m04kA/SMC-AllocationService/internal/infra/storage/slot"
)

// UseCase проверка возможности бронирования без записи
// Выполняет те же проверки, что и создание бронирования, но без транзакции
// и блокировок, поэтому результат может устареть к моменту записи
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	accountRepo AccountRepository
	logger      Logger
}

func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	accountRepo AccountRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		accountRepo: accountRepo,
		logger:      logger,
	}
}

// Execute проверяет возможность бронирования и возвращает код отказа
// Отказы не являются ошибками: error возвращается только при сбоях хранилища
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if req.SlotID <= 0 {
		return nil, fmt.Errorf("%w: slot_id must be positive", ErrInvalidInput)
	}
	if err := req.Requester().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	purpose := req.Purpose
	if purpose == "" {
		purpose = domain.PurposeRegular
	}
	pointCost := req.PointCost
	if pointCost == 0 {
		pointCost = domain.DefaultPointCost
	}
	if pointCost < domain.MinPointCost || pointCost > domain.MaxPointCost {
		return nil, fmt.Errorf("%w: point_cost must be between %d and %d",
			ErrInvalidInput, domain.MinPointCost, domain.MaxPointCost)
	}

	slot, err := uc.slotRepo.GetByID(ctx, req.SlotID)
	if err != nil {
		if errors.Is(err, storageSlot.ErrSlotNotFound) {
			return rejected(ReasonSlotInvalid), nil
		}
		return nil, fmt.Errorf("%w: Execute - get slot: %v", ErrInternal, err)
	}

	if slot.IsBlocked {
		return rejected(ReasonSlotBlocked), nil
	}
	if !slot.AllowsPurpose(purpose) {
		return rejected(ReasonSlotInvalid), nil
	}

	booked, err := uc.bookingRepo.SumActivePointsBySlot(ctx, slot.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: Execute - sum booked points: %v", ErrInternal, err)
	}
	if booked+pointCost > slot.CapacityPoints {
		return rejected(ReasonCapacityFull), nil
	}

	if req.EmployeeID != nil {
		return uc.evaluateEmployee(ctx, *req.EmployeeID, slot)
	}
	return uc.evaluateSubscriber(ctx, *req.SubscriberID, slot)
}

func (uc *UseCase) evaluateEmployee(ctx context.Context, employeeID int64, slot *domain.Slot) (*Response, error) {
	employee, err := uc.accountRepo.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, storageAccount.ErrEmployeeNotFound) {
			return rejected(ReasonCustomerInvalid), nil
		}
		return nil, fmt.Errorf("%w: Execute - get employee: %v", ErrInternal, err)
	}

	account, err := uc.accountRepo.GetBusinessAccount(ctx, employee.AccountID)
	if err != nil {
		if errors.Is(err, storageAccount.ErrAccountNotFound) {
			return rejected(ReasonCustomerInvalid), nil
		}
		return nil, fmt.Errorf("%w: Execute - get account: %v", ErrInternal, err)
	}
	if !account.IsActive {
		return rejected(ReasonCustomerInactive), nil
	}

	alreadyBooked, err := uc.bookingRepo.ExistsActiveByEmployeeAndDate(ctx, employeeID, slot.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: Execute - check employee bookings: %v", ErrInternal, err)
	}
	if alreadyBooked {
		return rejected(ReasonUserAlreadyBooked), nil
	}

	accountBookings, err := uc.bookingRepo.CountActiveByAccountAndDate(ctx, employee.AccountID, slot.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: Execute - count account bookings: %v", ErrInternal, err)
	}
	if accountBookings >= account.DailyQuotaPoints {
		return rejected(ReasonQuotaExceeded), nil
	}

	return &Response{Eligible: true}, nil
}

func (uc *UseCase) evaluateSubscriber(ctx context.Context, subscriberID int64, slot *domain.Slot) (*Response, error) {
	subscriber, err := uc.accountRepo.GetSubscriber(ctx, subscriberID)
	if err != nil {
		if errors.Is(err, storageAccount.ErrSubscriberNotFound) {
			return rejected(ReasonCustomerInvalid), nil
		}
		return nil, fmt.Errorf("%w: Execute - get subscriber: %v", ErrInternal, err)
	}

	if !subscriber.IsActive {
		return rejected(ReasonCustomerInactive), nil
	}

	if subscriber.CreditBalance < 1 && !subscriber.HasActiveSubscription(slot.Date) {
		return rejected(ReasonInsufficientCredit), nil
	}

	duplicate, err := uc.bookingRepo.ExistsActiveBySubscriberAndSlot(ctx, subscriberID, slot.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: Execute - check duplicate booking: %v", ErrInternal, err)
	}
	if duplicate {
		return rejected(ReasonDuplicateBooking), nil
	}

	return &Response{Eligible: true}, nil
}
