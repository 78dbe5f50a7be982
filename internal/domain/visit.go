package domain

import (
	"cloud.google.com/go/civil"
)

// Visit records a student's time at a location such as a testing center.
// A visit with no end time is still in progress.
type Visit struct {
	StuID       string         `validate:"required,max=9"`
	WhenStarted civil.DateTime `validate:"required"`
	WhenEnded   *civil.DateTime
	Location    *string `validate:"omitempty,max=20"`
	Seat        *string `validate:"omitempty,max=8"`
}

// InProgress reports whether the visit has not been ended.
func (v Visit) InProgress() bool {
	return v.WhenEnded == nil
}
