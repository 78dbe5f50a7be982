package domain

import (
	"cloud.google.com/go/civil"
)

// Milestone is a pacing deadline for every student on a given pace and pace
// track in a term.
type Milestone struct {
	Term           TermKey    `validate:"required"`
	Pace           int32      `validate:"min=1"`
	PaceTrack      string     `validate:"required,max=2"`
	MsNbr          int32      `validate:"min=1"`
	MsType         string     `validate:"required,max=8"`
	MsDate         civil.Date `validate:"required"`
	NbrAtmptsAllow *int32
}

// StudentMilestone overrides a Milestone deadline for one student.
type StudentMilestone struct {
	StuID          string     `validate:"required,max=9"`
	Term           TermKey    `validate:"required"`
	PaceTrack      string     `validate:"required,max=2"`
	MsNbr          int32      `validate:"min=1"`
	MsType         string     `validate:"required,max=8"`
	MsDate         civil.Date `validate:"required"`
	NbrAtmptsAllow *int32
}

// CourseUnit describes one unit of a course offered in a term.
type CourseUnit struct {
	Term          TermKey `validate:"required"`
	Course        string  `validate:"required,max=6"`
	Unit          int32   `validate:"min=0"`
	UnitExamWgt   *float64
	UnitDesc      *string `validate:"omitempty,max=50"`
	UnitTimelimit *int32
	PossibleScore *int32
	NbrQuestions  *int32
	UnitType      *string `validate:"omitempty,max=4"`
}
