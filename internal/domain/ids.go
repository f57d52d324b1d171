package domain

import "github.com/google/uuid"

// ID aliases name the identifier each entity uses in signatures and
// storage, all backed by uuid.UUID.
type (
	EmployeeID              = uuid.UUID
	TeamID                  = uuid.UUID
	ShiftTemplateID         = uuid.UUID
	ShiftID                 = uuid.UUID
	LeaveRequestID          = uuid.UUID
	RecurringLeavePatternID = uuid.UUID
	HolidayID               = uuid.UUID
	RunID                   = uuid.UUID
	ConstraintEventID       = uuid.UUID
)

// NewID generates a fresh random identifier for entities the engine
// itself creates (shifts, runs, constraint events).
func NewID() uuid.UUID {
	return uuid.New()
}
