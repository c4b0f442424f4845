package ledger

import "errors"

// Validation and lifecycle errors surfaced by ledger operations. Storage
// failures are wrapped with context instead and carry the underlying cause.
var (
	ErrInvalidPlate        = errors.New("invalid plate format")
	ErrInvalidVehicleClass = errors.New("invalid vehicle class")
	ErrDuplicateActiveStay = errors.New("vehicle is already in the facility")
	ErrStayNotFound        = errors.New("no active stay for this plate")
	ErrInvalidEntryTime    = errors.New("invalid entry timestamp")
	ErrInvalidExitTime     = errors.New("invalid exit timestamp")
)
