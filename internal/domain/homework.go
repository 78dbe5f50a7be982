package domain

import (
	"cloud.google.com/go/civil"
)

// HomeworkAttempt is one submitted homework assignment.
type HomeworkAttempt struct {
	SerialNbr     int64      `validate:"required"`
	Version       string     `validate:"required,max=5"`
	StuID         string     `validate:"required,max=9"`
	HwDt          civil.Date `validate:"required"`
	HwScore       *int32
	StartTime     *int32  `validate:"omitempty,min=0"`
	FinishTime    *int32  `validate:"omitempty,min=0"`
	TimeOK        *string `validate:"omitempty,len=1"`
	Passed        string  `validate:"required,len=1"`
	HwType        *string `validate:"omitempty,max=2"`
	Course        string  `validate:"required,max=6"`
	Sect          *string `validate:"omitempty,max=4"`
	Unit          int32
	Objective     *int32
	HwCoupon      *string `validate:"omitempty,len=1"`
	UsedDt        *civil.Date
	UsedSerialNbr *int64
}

// IsLegal reports whether the attempt counts toward the student's history.
func (h HomeworkAttempt) IsLegal() bool {
	return h.Passed == FlagYes || h.Passed == FlagNo
}

// HomeworkAnswer is one answer on a homework attempt, linked to the attempt
// by serial number.
type HomeworkAnswer struct {
	SerialNbr   int64 `validate:"required"`
	QuestionNbr int32
	AnswerNbr   int32
	Objective   *string `validate:"omitempty,max=6"`
	StuAnswer   *string `validate:"omitempty,max=100"`
	StuID       string  `validate:"required,max=9"`
	Version     string  `validate:"required,max=5"`
	AnsCorrect  *string `validate:"omitempty,len=1"`
	HwDt        *civil.Date
	FinishTime  *int32 `validate:"omitempty,min=0"`
}
