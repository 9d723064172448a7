package allocate_booking

import (
	"fmt"

	"github.com/m04kA/SMC-AllocationService/internal/domain"
)

// validateRequest проверяет структурную корректность запроса
func validateRequest(req Request) error {
	if req.SlotID <= 0 {
		return fmt.Errorf("%w: slot_id must be positive", ErrInvalidInput)
	}

	if err := req.Requester().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	switch req.Purpose {
	case "", domain.PurposeRegular, domain.PurposeAnalysis:
	default:
		return fmt.Errorf("%w: unknown purpose %q", ErrInvalidInput, req.Purpose)
	}

	if req.PointCost != 0 && (req.PointCost < domain.MinPointCost || req.PointCost > domain.MaxPointCost) {
		return fmt.Errorf("%w: point_cost must be between %d and %d",
			ErrInvalidInput, domain.MinPointCost, domain.MaxPointCost)
	}

	return nil
}
