package reassign_tables

import (
	"fmt"
	"slices"

	"github.com/m04kA/SMC-TableBooking/internal/domain"
)

// validateRequest проверяет запрос и возвращает отсортированные ID столов без дублей
func validateRequest(req *Request) ([]int64, error) {
	if req.ReservationID <= 0 {
		return nil, fmt.Errorf("%w: reservation id must be positive", ErrInvalidInput)
	}
	if len(req.TableIDs) == 0 {
		return nil, fmt.Errorf("%w: at least one table is required", ErrInvalidInput)
	}
	if len(req.TableIDs) > domain.MaxTablesPerReservation {
		return nil, fmt.Errorf("%w: at most %d tables are allowed", ErrInvalidInput, domain.MaxTablesPerReservation)
	}

	ids := slices.Clone(req.TableIDs)
	slices.Sort(ids)
	for i, id := range ids {
		if id <= 0 {
			return nil, fmt.Errorf("%w: table id must be positive", ErrInvalidInput)
		}
		if i > 0 && ids[i-1] == id {
			return nil, fmt.Errorf("%w: duplicate table id %d", ErrInvalidInput, id)
		}
	}
	return ids, nil
}
