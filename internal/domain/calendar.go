package domain

import (
	"cloud.google.com/go/civil"
)

// Campus calendar date descriptions.
const (
	CalendarStartDate1 = "start_dt1"
	CalendarStartDate2 = "start_dt2"
	CalendarEndDate1   = "end_dt1"
	CalendarEndDate2   = "end_dt2"
	CalendarHoliday    = "holiday"
	CalendarBookstore  = "bookstore"
	CalendarTutStart   = "tut_start"
	CalendarTutEnd     = "tut_end"
	CalendarTutInfo    = "tut_info"
	CalendarWalkIn     = "walk_in"
)

// CampusCalendar is a dated entry in the campus calendar such as a holiday or
// a special opening-hours day. Up to three sets of open/close times may be
// recorded, each with the weekdays it applies to.
type CampusCalendar struct {
	CampusDt civil.Date `validate:"required"`
	DtDesc   string     `validate:"required,max=20"`

	OpenTime1  *string `validate:"omitempty,max=10"`
	OpenTime2  *string `validate:"omitempty,max=10"`
	OpenTime3  *string `validate:"omitempty,max=10"`
	CloseTime1 *string `validate:"omitempty,max=10"`
	CloseTime2 *string `validate:"omitempty,max=10"`
	CloseTime3 *string `validate:"omitempty,max=10"`
	Weekdays1  *string `validate:"omitempty,max=20"`
	Weekdays2  *string `validate:"omitempty,max=20"`
	Weekdays3  *string `validate:"omitempty,max=20"`
}

// Parameters holds the ten free-form parameter values configured for a
// named program. The tenth parameter is a date.
type Parameters struct {
	PgmName string `validate:"required,max=20"`
	Parm1   *string
	Parm2   *string
	Parm3   *string
	Parm4   *string
	Parm5   *string
	Parm6   *string
	Parm7   *string
	Parm8   *string
	Parm9   *string
	Parm10  *civil.Date
}

// NumParameters is the number of parameter columns on a Parameters row.
const NumParameters = 10

// Facility is a physical location (office, testing center, lab) where
// services are offered.
type Facility struct {
	// FacilityID is the unique facility identifier.
	FacilityID string `validate:"required,max=10"`
	// Name is the display name of the facility.
	Name string `validate:"required,max=100"`
	// BuildingName is the building that houses the facility, if any.
	BuildingName *string `validate:"omitempty,max=40"`
	// RoomNbr is the room number within the building, if any.
	RoomNbr *string `validate:"omitempty,max=20"`
}
