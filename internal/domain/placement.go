package domain

import (
	"cloud.google.com/go/civil"
)

// How a placement attempt was validated. Attempts validated by a proctor or
// in a testing center count against the proctored limit; everything else
// counts as an online attempt.
const (
	ValidatedProctored = "P"
	ValidatedCenter    = "C"
)

// PlacementAttempt is one attempt on the math placement exam, with the
// subtest scores earned on it.
type PlacementAttempt struct {
	StuID         string     `validate:"required,max=9"`
	Version       string     `validate:"required,max=5"`
	AcademicYr    *string    `validate:"omitempty,max=4"`
	ExamDt        civil.Date `validate:"required"`
	StartTime     *int32     `validate:"omitempty,min=0"`
	FinishTime    int32      `validate:"min=0"`
	LastName      *string    `validate:"omitempty,max=30"`
	FirstName     *string    `validate:"omitempty,max=30"`
	MiddleInitial *string    `validate:"omitempty,max=1"`
	SeqNbr        *int32
	SerialNbr     *int64
	StsA          *int32
	Sts117        *int32
	Sts118        *int32
	Sts124        *int32
	Sts125        *int32
	Sts126        *int32
	Placed        *string `validate:"omitempty,len=1"`
	HowValidated  *string `validate:"omitempty,len=1"`
}

// IsLegal reports whether the attempt counts toward the student's placement
// attempt limits.
func (p PlacementAttempt) IsLegal() bool {
	if p.Placed == nil {
		return false
	}
	return *p.Placed == FlagYes || *p.Placed == FlagNo
}

// IsProctored reports whether the attempt was validated by a proctor or a
// testing center.
func (p PlacementAttempt) IsProctored() bool {
	if p.HowValidated == nil {
		return false
	}
	return *p.HowValidated == ValidatedProctored || *p.HowValidated == ValidatedCenter
}

// PlacementAnswer is one answer on a placement attempt. Answers are tied to
// their attempt by student, version, exam date and finish time.
type PlacementAnswer struct {
	StuID       string     `validate:"required,max=9"`
	Version     string     `validate:"required,max=5"`
	ExamDt      civil.Date `validate:"required"`
	FinishTime  int32      `validate:"min=0"`
	QuestionNbr int32      `validate:"min=1"`
	StuAnswer   *string    `validate:"omitempty,max=5"`
	AnsCorrect  *string    `validate:"omitempty,len=1"`
	Subtest     *string    `validate:"omitempty,max=4"`
	TreeRef     *string    `validate:"omitempty,max=40"`
}

// AttemptCounts totals a student's legal placement attempts by how they were
// delivered.
type AttemptCounts struct {
	Online    int `json:"online"`
	Proctored int `json:"proctored"`
}

// CountAttempts tallies legal attempts into online and proctored counts.
func CountAttempts(attempts []PlacementAttempt) AttemptCounts {
	var c AttemptCounts
	for _, a := range attempts {
		if !a.IsLegal() {
			continue
		}
		if a.IsProctored() {
			c.Proctored++
		} else {
			c.Online++
		}
	}
	return c
}
