package domain

import (
	"testing"

	"cloud.google.com/go/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func examOn(d civil.Date, stuID string) StudentExam {
	return StudentExam{SerialNbr: 1, Version: "171UE", StuID: stuID, ExamDt: d, Passed: FlagYes, Course: "M 117", ExamType: ExamTypeUnit}
}

func examDate(e StudentExam) civil.Date { return e.ExamDt }

func TestBucketByDay(t *testing.T) {
	ref := civil.Date{Year: 2021, Month: 1, Day: 10}

	t.Run("two attempts six days back and one seven days back", func(t *testing.T) {
		records := []StudentExam{
			examOn(ref.AddDays(-6), "111111111"),
			examOn(ref.AddDays(-6), "222222222"),
			examOn(ref.AddDays(-7), "333333333"),
		}

		buckets := BucketByDay(records, examDate, ref, 10)

		require.Len(t, buckets, 10)
		assert.Equal(t, []int{0, 0, 1, 2, 0, 0, 0, 0, 0, 0}, BucketSizes(buckets))
		assert.Equal(t, "111111111", buckets[3][0].StuID)
		assert.Equal(t, "222222222", buckets[3][1].StuID)
		assert.Equal(t, "333333333", buckets[2][0].StuID)
	})

	t.Run("oldest first with reference date last", func(t *testing.T) {
		records := []StudentExam{
			examOn(civil.Date{Year: 2021, Month: 1, Day: 8}, "a"),
			examOn(civil.Date{Year: 2021, Month: 1, Day: 3}, "b"),
			examOn(civil.Date{Year: 2021, Month: 1, Day: 2}, "c"),
		}

		buckets := BucketByDay(records, examDate, ref, 10)

		assert.Equal(t, []int{0, 1, 1, 0, 0, 0, 0, 1, 0, 0}, BucketSizes(buckets))
	})

	t.Run("reference date lands in last bucket", func(t *testing.T) {
		buckets := BucketByDay([]StudentExam{examOn(ref, "a")}, examDate, ref, 3)
		assert.Equal(t, []int{0, 0, 1}, BucketSizes(buckets))
	})

	t.Run("records outside the window are discarded", func(t *testing.T) {
		records := []StudentExam{
			examOn(ref.AddDays(1), "future"),
			examOn(ref.AddDays(-10), "too old"),
			examOn(ref.AddDays(-9), "oldest kept"),
		}

		buckets := BucketByDay(records, examDate, ref, 10)

		assert.Equal(t, []int{1, 0, 0, 0, 0, 0, 0, 0, 0, 0}, BucketSizes(buckets))
		assert.Equal(t, "oldest kept", buckets[0][0].StuID)
	})

	t.Run("empty buckets are present and non-nil", func(t *testing.T) {
		buckets := BucketByDay(nil, examDate, ref, 4)
		require.Len(t, buckets, 4)
		for _, b := range buckets {
			assert.NotNil(t, b)
			assert.Empty(t, b)
		}
	})

	t.Run("non-positive window", func(t *testing.T) {
		assert.Empty(t, BucketByDay([]StudentExam{examOn(ref, "a")}, examDate, ref, 0))
		assert.Empty(t, BucketByDay([]StudentExam{examOn(ref, "a")}, examDate, ref, -3))
	})

	t.Run("window crossing a month boundary", func(t *testing.T) {
		mar2 := civil.Date{Year: 2024, Month: 3, Day: 2}
		records := []StudentExam{
			examOn(civil.Date{Year: 2024, Month: 2, Day: 29}, "leap"),
			examOn(civil.Date{Year: 2024, Month: 3, Day: 1}, "first"),
		}

		buckets := BucketByDay(records, examDate, mar2, 4)

		assert.Equal(t, []int{0, 1, 1, 0}, BucketSizes(buckets))
	})
}

func TestWindowStart(t *testing.T) {
	ref := civil.Date{Year: 2021, Month: 1, Day: 10}
	assert.Equal(t, civil.Date{Year: 2021, Month: 1, Day: 1}, WindowStart(ref, 10))
	assert.Equal(t, ref, WindowStart(ref, 1))
	assert.Equal(t, ref, WindowStart(ref, 0))
}
