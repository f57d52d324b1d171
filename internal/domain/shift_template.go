package domain

import "time"

// ShiftTemplate is the read-only definition a team uses to generate
// shift windows for a product: default duration, the skills required
// to staff it, and (for business-hours products) the daily window.
type ShiftTemplate struct {
	ID                 ShiftTemplateID
	TeamID             TeamID
	Product            Product
	DefaultDuration    time.Duration
	RequiredSkills     []Skill
	BusinessHoursStart time.Duration // offset from local midnight, e.g. 8h
	BusinessHoursEnd   time.Duration // offset from local midnight, e.g. 17h
}
