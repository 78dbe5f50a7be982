package domain

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int32Ptr(v int32) *int32 { return &v }
func strPtr(v string) *string { return &v }

func TestStudentExam_IsLegal(t *testing.T) {
	for flag, want := range map[string]bool{"Y": true, "N": true, "G": false, "P": false, "": false} {
		e := StudentExam{Passed: flag}
		assert.Equal(t, want, e.IsLegal(), "passed=%q", flag)
	}
	assert.True(t, StudentExam{Passed: "Y"}.IsPassed())
	assert.False(t, StudentExam{Passed: "N"}.IsPassed())
}

func TestStudentExam_FinishDateTime(t *testing.T) {
	d := civil.Date{Year: 2023, Month: 9, Day: 14}

	_, ok := StudentExam{ExamDt: d}.FinishDateTime()
	assert.False(t, ok)

	dt, ok := StudentExam{ExamDt: d, FinishTime: int32Ptr(13*60 + 5)}.FinishDateTime()
	require.True(t, ok)
	assert.Equal(t, civil.DateTime{Date: d, Time: civil.Time{Hour: 13, Minute: 5}}, dt)

	dt, ok = StudentExam{ExamDt: d, FinishTime: int32Ptr(MinutesPerDay + 3)}.FinishDateTime()
	require.True(t, ok)
	assert.Equal(t, civil.DateTime{Date: d.AddDays(1), Time: civil.Time{Minute: 3}}, dt)
}

func TestStudentExam_FinishesBefore(t *testing.T) {
	d := civil.Date{Year: 2023, Month: 9, Day: 14}
	early := StudentExam{ExamDt: d, FinishTime: int32Ptr(600)}
	late := StudentExam{ExamDt: d, FinishTime: int32Ptr(700)}
	nextDay := StudentExam{ExamDt: d.AddDays(1), FinishTime: int32Ptr(10)}
	noTime := StudentExam{ExamDt: d.AddDays(5)}

	assert.True(t, early.FinishesBefore(late))
	assert.False(t, late.FinishesBefore(early))
	assert.True(t, late.FinishesBefore(nextDay))
	assert.True(t, noTime.FinishesBefore(early))
	assert.False(t, early.FinishesBefore(noTime))
}

func TestAdjustPastMidnight(t *testing.T) {
	d := civil.Date{Year: 2023, Month: 3, Day: 1}

	t.Run("finish shortly after midnight moves to previous day", func(t *testing.T) {
		date, start, finish := AdjustPastMidnight(d, int32Ptr(5), int32Ptr(7))
		assert.Equal(t, civil.Date{Year: 2023, Month: 2, Day: 28}, date)
		assert.Equal(t, int32(MinutesPerDay+5), *start)
		assert.Equal(t, int32(MinutesPerDay+7), *finish)
	})

	t.Run("nil start is preserved", func(t *testing.T) {
		date, start, finish := AdjustPastMidnight(d, nil, int32Ptr(0))
		assert.Equal(t, d.AddDays(-1), date)
		assert.Nil(t, start)
		assert.Equal(t, int32(MinutesPerDay), *finish)
	})

	t.Run("finish at ten minutes is unchanged", func(t *testing.T) {
		start, finish := int32Ptr(1), int32Ptr(10)
		date, gotStart, gotFinish := AdjustPastMidnight(d, start, finish)
		assert.Equal(t, d, date)
		assert.Same(t, start, gotStart)
		assert.Same(t, finish, gotFinish)
	})

	t.Run("no finish time is unchanged", func(t *testing.T) {
		date, _, finish := AdjustPastMidnight(d, int32Ptr(3), nil)
		assert.Equal(t, d, date)
		assert.Nil(t, finish)
	})
}

func TestCountAttempts(t *testing.T) {
	attempts := []PlacementAttempt{
		{Placed: strPtr("Y"), HowValidated: strPtr("P")},
		{Placed: strPtr("N"), HowValidated: strPtr("C")},
		{Placed: strPtr("Y"), HowValidated: strPtr("W")},
		{Placed: strPtr("N")},
		{Placed: strPtr("G"), HowValidated: strPtr("P")},
		{HowValidated: strPtr("P")},
	}

	assert.Equal(t, AttemptCounts{Online: 2, Proctored: 2}, CountAttempts(attempts))
	assert.Equal(t, AttemptCounts{}, CountAttempts(nil))
}
