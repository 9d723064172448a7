package allocate_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	storageAccount "github.com/m04kA/SMC-AllocationService/internal/infra/storage/account"
	storageSlot "github.com/m04kA/SMC-AllocationService/internal/infra/storage/slot"
	"github.com/m04kA/SMC-AllocationService/internal/integrations/notifier"
)

const notifyTimeout = 5 * time.Second

// UseCase создание бронирования: проверки вместимости, квоты и баланса
// выполняются в одной serializable транзакции с записью бронирования
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	accountRepo AccountRepository
	txManager   TransactionManager
	notifier    NotificationClient
	logger      Logger
}

func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	accountRepo AccountRepository,
	txManager TransactionManager,
	notificationClient NotificationClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		accountRepo: accountRepo,
		txManager:   txManager,
		notifier:    notificationClient,
		logger:      logger,
	}
}

// Execute создает бронирование слота
// Ошибки уведомления не откатывают бронирование
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	purpose := req.Purpose
	if purpose == "" {
		purpose = domain.PurposeRegular
	}
	pointCost := req.PointCost
	if pointCost == 0 {
		pointCost = domain.DefaultPointCost
	}

	var (
		created        *domain.Booking
		creditDebited  bool
		recipientEmail string
	)

	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		slot, err := uc.checkSlot(ctx, req.SlotID, purpose, pointCost)
		if err != nil {
			return err
		}

		booking := &domain.Booking{
			SlotID:    slot.ID,
			SlotDate:  slot.Date,
			StartTime: slot.StartTime,
			EndTime:   slot.EndTime,
			Purpose:   purpose,
			Status:    domain.StatusConfirmed,
			PointCost: pointCost,
		}

		switch {
		case req.EmployeeID != nil:
			employee, err := uc.checkEmployee(ctx, *req.EmployeeID, slot.Date)
			if err != nil {
				return err
			}
			booking.Kind = domain.RequesterEmployee
			booking.EmployeeID = &employee.ID
			booking.AccountID = &employee.AccountID
			recipientEmail = employee.Email

		default:
			subscriber, err := uc.checkSubscriber(ctx, *req.SubscriberID, slot)
			if err != nil {
				return err
			}
			booking.Kind = domain.RequesterSubscriber
			booking.SubscriberID = &subscriber.ID
			recipientEmail = subscriber.Email

			// Кредит списывается, только если дата не покрыта подпиской
			if !subscriber.HasActiveSubscription(slot.Date) {
				if err := uc.accountRepo.DebitCredit(ctx, subscriber.ID); err != nil {
					if errors.Is(err, storageAccount.ErrInsufficientCredits) {
						return fmt.Errorf("%w: Execute - subscriber %d", ErrInsufficientCredits, subscriber.ID)
					}
					return fmt.Errorf("%w: Execute - debit credit: %v", ErrInternal, err)
				}
				booking.CreditDebited = true
				creditDebited = true
			}
		}

		created, err = uc.bookingRepo.Create(ctx, booking)
		if err != nil {
			return fmt.Errorf("%w: Execute - create booking: %v", ErrInternal, err)
		}

		// Денормализованный счётчик, только для отображения
		if err := uc.slotRepo.AddBookedPoints(ctx, slot.ID, pointCost); err != nil {
			return fmt.Errorf("%w: Execute - update slot counter: %v", ErrInternal, err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Booking created: id=%d, slot=%d, kind=%s, point_cost=%d",
		created.ID, created.SlotID, created.Kind, created.PointCost)

	uc.sendNotification(created, recipientEmail)

	return &Response{Booking: created, CreditDebited: creditDebited}, nil
}

// checkSlot проверяет существование, блокировку, тип и вместимость слота.
// Внутри транзакции слот читается с блокировкой FOR UPDATE
func (uc *UseCase) checkSlot(ctx context.Context, slotID int64, purpose domain.BookingPurpose, pointCost int) (*domain.Slot, error) {
	slot, err := uc.slotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, storageSlot.ErrSlotNotFound) {
			return nil, fmt.Errorf("%w: Execute - slot %d", ErrSlotNotFound, slotID)
		}
		return nil, fmt.Errorf("%w: Execute - get slot: %v", ErrInternal, err)
	}

	if slot.IsBlocked {
		return nil, fmt.Errorf("%w: Execute - slot %d", ErrSlotBlocked, slotID)
	}

	if !slot.AllowsPurpose(purpose) {
		return nil, fmt.Errorf("%w: Execute - slot %d is %s, purpose %s", ErrPurposeNotAllowed, slotID, slot.Type, purpose)
	}

	// Проверка всегда пересчитывает сумму по таблице bookings, не по счётчику слота
	booked, err := uc.bookingRepo.SumActivePointsBySlot(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("%w: Execute - sum booked points: %v", ErrInternal, err)
	}
	if booked+pointCost > slot.CapacityPoints {
		return nil, fmt.Errorf("%w: Execute - slot %d: booked %d + requested %d > capacity %d",
			ErrCapacityExceeded, slotID, booked, pointCost, slot.CapacityPoints)
	}

	return slot, nil
}

// checkEmployee проверяет сотрудника: существование, активность аккаунта,
// правило "одно бронирование в день" и дневную квоту аккаунта
func (uc *UseCase) checkEmployee(ctx context.Context, employeeID int64, slotDate time.Time) (*domain.Employee, error) {
	employee, err := uc.accountRepo.GetEmployee(ctx, employeeID)
	if err != nil {
		if errors.Is(err, storageAccount.ErrEmployeeNotFound) {
			return nil, fmt.Errorf("%w: Execute - employee %d", ErrRequesterNotFound, employeeID)
		}
		return nil, fmt.Errorf("%w: Execute - get employee: %v", ErrInternal, err)
	}

	account, err := uc.accountRepo.GetBusinessAccount(ctx, employee.AccountID)
	if err != nil {
		if errors.Is(err, storageAccount.ErrAccountNotFound) {
			return nil, fmt.Errorf("%w: Execute - account %d", ErrRequesterNotFound, employee.AccountID)
		}
		return nil, fmt.Errorf("%w: Execute - get account: %v", ErrInternal, err)
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: Execute - account %d", ErrRequesterInactive, account.ID)
	}

	alreadyBooked, err := uc.bookingRepo.ExistsActiveByEmployeeAndDate(ctx, employeeID, slotDate)
	if err != nil {
		return nil, fmt.Errorf("%w: Execute - check employee bookings: %v", ErrInternal, err)
	}
	if alreadyBooked {
		return nil, fmt.Errorf("%w: Execute - employee %d, date %s",
			ErrAlreadyBookedToday, employeeID, slotDate.Format(domain.DateFormat))
	}

	accountBookings, err := uc.bookingRepo.CountActiveByAccountAndDate(ctx, employee.AccountID, slotDate)
	if err != nil {
		return nil, fmt.Errorf("%w: Execute - count account bookings: %v", ErrInternal, err)
	}
	if accountBookings >= account.DailyQuotaPoints {
		return nil, fmt.Errorf("%w: Execute - account %d: %d of %d used",
			ErrQuotaExceeded, account.ID, accountBookings, account.DailyQuotaPoints)
	}

	return employee, nil
}

// checkSubscriber проверяет подписчика: существование, активность,
// покрытие кредитами или подпиской и отсутствие дубля на этот слот
func (uc *UseCase) checkSubscriber(ctx context.Context, subscriberID int64, slot *domain.Slot) (*domain.IndividualSubscriber, error) {
	subscriber, err := uc.accountRepo.GetSubscriber(ctx, subscriberID)
	if err != nil {
		if errors.Is(err, storageAccount.ErrSubscriberNotFound) {
			return nil, fmt.Errorf("%w: Execute - subscriber %d", ErrRequesterNotFound, subscriberID)
		}
		return nil, fmt.Errorf("%w: Execute - get subscriber: %v", ErrInternal, err)
	}

	if !subscriber.IsActive {
		return nil, fmt.Errorf("%w: Execute - subscriber %d", ErrRequesterInactive, subscriberID)
	}

	if subscriber.CreditBalance < 1 && !subscriber.HasActiveSubscription(slot.Date) {
		return nil, fmt.Errorf("%w: Execute - subscriber %d", ErrInsufficientCredits, subscriberID)
	}

	duplicate, err := uc.bookingRepo.ExistsActiveBySubscriberAndSlot(ctx, subscriberID, slot.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: Execute - check duplicate booking: %v", ErrInternal, err)
	}
	if duplicate {
		return nil, fmt.Errorf("%w: Execute - subscriber %d, slot %d", ErrDuplicateBooking, subscriberID, slot.ID)
	}

	return subscriber, nil
}

// sendNotification отправляет событие "бронирование подтверждено" fire-and-forget
func (uc *UseCase) sendNotification(booking *domain.Booking, recipientEmail string) {
	if recipientEmail == "" {
		return
	}

	event := notifier.BookingConfirmedEvent{
		EventID:        uuid.NewString(),
		RecipientEmail: recipientEmail,
		Date:           booking.SlotDate.Format(domain.DateFormat),
		StartTime:      booking.StartTime.String(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()

		if err := uc.notifier.SendBookingConfirmed(ctx, event); err != nil {
			uc.logger.Warn("Failed to send booking confirmation: booking=%d: %v", booking.ID, err)
		}
	}()
}
