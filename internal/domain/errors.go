package domain

import "errors"

// Errors shared by every slot/booking data source
var (
	ErrLotNotFound  = errors.New("lot not found")
	ErrSlotNotFound = errors.New("slot not found")
)
