package get_lot_occupancy

import "fmt"

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req == nil {
		return fmt.Errorf("%w: request is required", ErrInvalidInput)
	}

	if req.LotID <= 0 {
		return fmt.Errorf("%w: lotID must be positive", ErrInvalidInput)
	}

	if req.Date != nil && req.Date.IsZero() {
		return fmt.Errorf("%w: date is malformed", ErrInvalidInput)
	}

	return nil
}
