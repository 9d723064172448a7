package move_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
	storageBooking "github.com/m04kA/SMC-AllocationService/internal/infra/storage/booking"
	storageSlot "github.com/m04kA/SMC-AllocationService/internal/infra/storage/slot"
)

// UseCase перенос бронирования в другой слот
// Стоимость в points сохраняется как была зафиксирована при создании
type UseCase struct {
	slotRepo    SlotRepository
	bookingRepo BookingRepository
	txManager   TransactionManager
	logger      Logger
}

func NewUseCase(
	slotRepo SlotRepository,
	bookingRepo BookingRepository,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		slotRepo:    slotRepo,
		bookingRepo: bookingRepo,
		txManager:   txManager,
		logger:      logger,
	}
}

// Execute переносит бронирование в целевой слот
// Проверка вместимости и перенос выполняются в одной serializable транзакции
func (uc *UseCase) Execute(ctx context.Context, req Request) (*Response, error) {
	if req.BookingID <= 0 {
		return nil, fmt.Errorf("%w: booking_id must be positive", ErrInvalidInput)
	}
	if req.TargetSlotID <= 0 {
		return nil, fmt.Errorf("%w: target_slot_id must be positive", ErrInvalidInput)
	}

	var moved *domain.Booking

	err := uc.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		booking, err := uc.bookingRepo.GetByID(ctx, req.BookingID)
		if err != nil {
			if errors.Is(err, storageBooking.ErrBookingNotFound) {
				return fmt.Errorf("%w: Execute - booking %d", ErrBookingNotFound, req.BookingID)
			}
			return fmt.Errorf("%w: Execute - get booking: %v", ErrInternal, err)
		}

		if !booking.CanBeMoved() {
			return fmt.Errorf("%w: Execute - booking %d has status %s", ErrNotMovable, booking.ID, booking.Status)
		}
		if booking.SlotID == req.TargetSlotID {
			return fmt.Errorf("%w: target slot is the same as current", ErrInvalidInput)
		}

		target, err := uc.slotRepo.GetByID(ctx, req.TargetSlotID)
		if err != nil {
			if errors.Is(err, storageSlot.ErrSlotNotFound) {
				return fmt.Errorf("%w: Execute - slot %d", ErrSlotNotFound, req.TargetSlotID)
			}
			return fmt.Errorf("%w: Execute - get target slot: %v", ErrInternal, err)
		}

		if target.IsBlocked {
			return fmt.Errorf("%w: Execute - slot %d", ErrSlotBlocked, target.ID)
		}
		if !target.AllowsPurpose(booking.Purpose) {
			return fmt.Errorf("%w: Execute - booking purpose %s, target slot type %s",
				ErrSlotTypeMismatch, booking.Purpose, target.Type)
		}

		booked, err := uc.bookingRepo.SumActivePointsBySlot(ctx, target.ID)
		if err != nil {
			return fmt.Errorf("%w: Execute - sum booked points: %v", ErrInternal, err)
		}
		if booked+booking.PointCost > target.CapacityPoints {
			return fmt.Errorf("%w: Execute - slot %d: booked %d + moving %d > capacity %d",
				ErrCapacityExceeded, target.ID, booked, booking.PointCost, target.CapacityPoints)
		}

		if err := uc.bookingRepo.MoveToSlot(ctx, booking.ID, target); err != nil {
			return fmt.Errorf("%w: Execute - move booking: %v", ErrInternal, err)
		}

		// Денормализованные счётчики обоих слотов, только для отображения
		if err := uc.slotRepo.AddBookedPoints(ctx, booking.SlotID, -booking.PointCost); err != nil {
			return fmt.Errorf("%w: Execute - update source slot counter: %v", ErrInternal, err)
		}
		if err := uc.slotRepo.AddBookedPoints(ctx, target.ID, booking.PointCost); err != nil {
			return fmt.Errorf("%w: Execute - update target slot counter: %v", ErrInternal, err)
		}

		moved, err = uc.bookingRepo.GetByID(ctx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: Execute - reload booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Booking moved: id=%d, target_slot=%d", moved.ID, moved.SlotID)

	return &Response{Booking: moved}, nil
}
