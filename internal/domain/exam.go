package domain

import (
	"cloud.google.com/go/civil"
)

// Exam types recorded in stexam.exam_type.
const (
	ExamTypeUnit       = "U"
	ExamTypeFinal      = "F"
	ExamTypeReview     = "R"
	ExamTypeQualifying = "Q"
)

// AllExamTypes lists the exam types that make up a student's course history.
var AllExamTypes = []string{ExamTypeUnit, ExamTypeFinal, ExamTypeReview}

// Flag values shared by the legacy Y/N columns.
const (
	FlagYes = "Y"
	FlagNo  = "N"
	// FlagIgnored marks an attempt that was voided and must not count.
	FlagIgnored = "G"
)

// LegalFlags are the passed/placed values that mark an attempt as legal.
var LegalFlags = []string{FlagYes, FlagNo}

// MinutesPerDay is the number of minutes in a day. Start and finish times
// are stored as minutes since midnight of the attempt date.
const MinutesPerDay = 24 * 60

// pastMidnightWindow is how far past midnight a finish may fall and still be
// attributed to the previous day.
const pastMidnightWindow = 10

// StudentExam is one attempt on a course exam.
type StudentExam struct {
	SerialNbr     int64      `validate:"required"`
	Version       string     `validate:"required,max=5"`
	StuID         string     `validate:"required,max=9"`
	ExamDt        civil.Date `validate:"required"`
	ExamScore     *int32
	MasteryScore  *int32
	StartTime     *int32  `validate:"omitempty,min=0"`
	FinishTime    *int32  `validate:"omitempty,min=0"`
	TimeOK        *string `validate:"omitempty,len=1"`
	Passed        string  `validate:"required,len=1"`
	SeqNbr        *int32
	Course        string `validate:"required,max=6"`
	Unit          int32
	ExamType      string  `validate:"required,max=2"`
	IsFirstPassed *string `validate:"omitempty,len=1"`
	ExamSource    *string `validate:"omitempty,max=2"`
	CalcNbr       *string `validate:"omitempty,max=7"`
}

// IsLegal reports whether the attempt counts toward the student's history.
func (e StudentExam) IsLegal() bool {
	return e.Passed == FlagYes || e.Passed == FlagNo
}

// IsPassed reports whether the attempt was passed.
func (e StudentExam) IsPassed() bool {
	return e.Passed == FlagYes
}

// FinishDateTime returns the moment the attempt was submitted, or false if
// no finish time was recorded. Finish times of 1440 or more roll into the
// following day.
func (e StudentExam) FinishDateTime() (civil.DateTime, bool) {
	if e.FinishTime == nil {
		return civil.DateTime{}, false
	}
	return minutesToDateTime(e.ExamDt, *e.FinishTime), true
}

// FinishesBefore orders exams by finish date/time. Exams with no finish time
// sort before those that have one.
func (e StudentExam) FinishesBefore(o StudentExam) bool {
	a, aok := e.FinishDateTime()
	b, bok := o.FinishDateTime()
	switch {
	case !aok && !bok:
		return e.ExamDt.Before(o.ExamDt)
	case !aok:
		return true
	case !bok:
		return false
	}
	return a.Before(b)
}

// AdjustPastMidnight moves attempts that finished within a few minutes after
// midnight back to the day they were started. The returned times are
// expressed relative to the new date, so they exceed MinutesPerDay.
func AdjustPastMidnight(date civil.Date, start, finish *int32) (civil.Date, *int32, *int32) {
	if finish == nil || *finish >= pastMidnightWindow {
		return date, start, finish
	}
	newFinish := *finish + MinutesPerDay
	var newStart *int32
	if start != nil {
		s := *start + MinutesPerDay
		newStart = &s
	}
	return date.AddDays(-1), newStart, &newFinish
}

func minutesToDateTime(d civil.Date, minutes int32) civil.DateTime {
	days := int(minutes) / MinutesPerDay
	rem := int(minutes) % MinutesPerDay
	return civil.DateTime{
		Date: d.AddDays(days),
		Time: civil.Time{Hour: rem / 60, Minute: rem % 60},
	}
}
