package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/schema"
)

// byFinish orders attempts by exam date, then finish time.
var byFinish = []string{"exam_dt", "finish_time"}

// legalPassed keeps attempts whose passed flag is Y or N.
func legalPassed() Filter {
	return InStrings("passed", domain.LegalFlags)
}

var studentExamTable = NewTable(Table[domain.StudentExam]{
	Name: schema.Table(schema.Legacy, "stexam"),
	Columns: []Column{
		Required("serial_nbr", ColLong),
		Required("version", ColString),
		Required("stu_id", ColString),
		Required("exam_dt", ColDate),
		Optional("exam_score", ColInteger),
		Optional("mastery_score", ColInteger),
		Optional("start_time", ColInteger),
		Optional("finish_time", ColInteger),
		Optional("time_ok", ColString),
		Required("passed", ColString),
		Optional("seq_nbr", ColInteger),
		Required("course", ColString),
		Required("unit", ColInteger),
		Required("exam_type", ColString),
		Optional("is_first_passed", ColString),
		Optional("exam_source", ColString),
		Optional("calc_nbr", ColString),
	},
	Key: []string{"serial_nbr", "version", "stu_id"},
	FromRow: func(row Row) (domain.StudentExam, error) {
		rd := row.Reader()
		e := domain.StudentExam{
			SerialNbr:     rd.RequireLong("serial_nbr"),
			Version:       rd.RequireString("version"),
			StuID:         rd.RequireString("stu_id"),
			ExamDt:        rd.RequireDate("exam_dt"),
			ExamScore:     rd.Int("exam_score"),
			MasteryScore:  rd.Int("mastery_score"),
			StartTime:     rd.Int("start_time"),
			FinishTime:    rd.Int("finish_time"),
			TimeOK:        rd.String("time_ok"),
			Passed:        rd.RequireString("passed"),
			SeqNbr:        rd.Int("seq_nbr"),
			Course:        rd.RequireString("course"),
			Unit:          rd.RequireInt("unit"),
			ExamType:      rd.RequireString("exam_type"),
			IsFirstPassed: rd.String("is_first_passed"),
			ExamSource:    rd.String("exam_source"),
			CalcNbr:       rd.String("calc_nbr"),
		}
		return e, rd.Err()
	},
	Values: func(e domain.StudentExam) []interface{} {
		return []interface{}{
			e.SerialNbr, e.Version, e.StuID, e.ExamDt,
			e.ExamScore, e.MasteryScore, e.StartTime, e.FinishTime, e.TimeOK,
			e.Passed, e.SeqNbr, e.Course, e.Unit, e.ExamType,
			e.IsFirstPassed, e.ExamSource, e.CalcNbr,
		}
	},
})

// StudentExamRepository accesses the stexam table.
type StudentExamRepository struct {
	*Repository[domain.StudentExam]
}

// NewStudentExamRepository creates a student exam repository.
func NewStudentExamRepository(s *Store) *StudentExamRepository {
	return &StudentExamRepository{NewRepository(s, studentExamTable)}
}

// byFilters returns matching exams ordered by exam date and finish time,
// keeping only legal attempts unless all is set.
func (r *StudentExamRepository) byFilters(ctx context.Context, all bool, filters ...Filter) ([]domain.StudentExam, error) {
	if !all {
		filters = append(filters, legalPassed())
	}
	return r.Find(ctx, Query{Where: filters, OrderBy: byFinish})
}

// QueryByStudent returns a student's exams. Without all, only legal attempts
// are returned.
func (r *StudentExamRepository) QueryByStudent(ctx context.Context, stuID string, all bool) ([]domain.StudentExam, error) {
	return r.byFilters(ctx, all, Eq("stu_id", stuID))
}

// QueryByStudentCourse returns a student's exams in one course.
func (r *StudentExamRepository) QueryByStudentCourse(ctx context.Context, stuID, course string, all bool) ([]domain.StudentExam, error) {
	return r.byFilters(ctx, all, Eq("stu_id", stuID), Eq("course", course))
}

// QueryByCourse returns every student's exams in one course.
func (r *StudentExamRepository) QueryByCourse(ctx context.Context, course string, all bool) ([]domain.StudentExam, error) {
	return r.byFilters(ctx, all, Eq("course", course))
}

// examFilters builds the passed and exam type predicates shared by the
// GetExams family. No types means any type.
func examFilters(passedOnly bool, examTypes []string) []Filter {
	var filters []Filter
	if passedOnly {
		filters = append(filters, Eq("passed", domain.FlagYes))
	} else {
		filters = append(filters, legalPassed())
	}
	if len(examTypes) > 0 {
		filters = append(filters, InStrings("exam_type", examTypes))
	}
	return filters
}

// GetExams returns a student's legal exams in a course, restricted to passed
// attempts when passedOnly is set and to examTypes when any are given.
func (r *StudentExamRepository) GetExams(ctx context.Context, stuID, course string, passedOnly bool, examTypes ...string) ([]domain.StudentExam, error) {
	filters := append([]Filter{Eq("stu_id", stuID), Eq("course", course)}, examFilters(passedOnly, examTypes)...)
	return r.Find(ctx, Query{Where: filters, OrderBy: byFinish})
}

// GetUnitExams is GetExams restricted to one unit.
func (r *StudentExamRepository) GetUnitExams(ctx context.Context, stuID, course string, unit int32, passedOnly bool, examTypes ...string) ([]domain.StudentExam, error) {
	filters := append([]Filter{Eq("stu_id", stuID), Eq("course", course), Eq("unit", unit)}, examFilters(passedOnly, examTypes)...)
	return r.Find(ctx, Query{Where: filters, OrderBy: byFinish})
}

// GetExamsByVersion returns a student's legal exams on one exam version.
func (r *StudentExamRepository) GetExamsByVersion(ctx context.Context, stuID, version string, passedOnly bool) ([]domain.StudentExam, error) {
	filters := append([]Filter{Eq("stu_id", stuID), Eq("version", version)}, examFilters(passedOnly, nil)...)
	return r.Find(ctx, Query{Where: filters, OrderBy: byFinish})
}

// GetFirstPassing returns the attempt flagged as the student's first pass of
// an exam, or nil.
func (r *StudentExamRepository) GetFirstPassing(ctx context.Context, stuID, course string, unit int32, examType string) (*domain.StudentExam, error) {
	return r.FindOne(ctx, Query{Where: []Filter{
		Eq("stu_id", stuID),
		Eq("course", course),
		Eq("unit", unit),
		Eq("exam_type", examType),
		Eq("is_first_passed", domain.FlagYes),
	}})
}

// GetHistory returns numDays daily buckets of exams in the given courses,
// ending on today. Bucket 0 is the earliest day; each bucket is ordered by
// finish date and time.
func (r *StudentExamRepository) GetHistory(ctx context.Context, numDays int, today civil.Date, courses ...string) ([][]domain.StudentExam, error) {
	if numDays <= 0 || len(courses) == 0 {
		return domain.BucketByDay[domain.StudentExam](nil, examDate, today, numDays), nil
	}

	exams, err := r.Find(ctx, Query{
		Where: []Filter{
			InStrings("course", courses),
			Gte("exam_dt", domain.WindowStart(today, numDays)),
			Lte("exam_dt", today),
		},
		OrderBy: byFinish,
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(exams, func(i, j int) bool { return exams[i].FinishesBefore(exams[j]) })
	return domain.BucketByDay(exams, examDate, today, numDays), nil
}

func examDate(e domain.StudentExam) civil.Date {
	return e.ExamDt
}

// CountUnitSinceLastPassedReview counts the unit exam attempts a student has
// made in a course unit since the most recent passed review exam.
func (r *StudentExamRepository) CountUnitSinceLastPassedReview(ctx context.Context, stuID, course string, unit int32) (int, error) {
	exams, err := r.GetUnitExams(ctx, stuID, course, unit, false, domain.AllExamTypes...)
	if err != nil {
		return 0, err
	}

	tries := 0
	for i := len(exams) - 1; i >= 0; i-- {
		e := exams[i]
		if e.ExamType == domain.ExamTypeUnit {
			tries++
		}
		if e.ExamType == domain.ExamTypeReview && e.IsPassed() {
			break
		}
	}
	return tries, nil
}

// UpdatePassed sets the passed flag.
func (r *StudentExamRepository) UpdatePassed(ctx context.Context, e domain.StudentExam, passed string) (bool, error) {
	return r.UpdateColumn(ctx, e, "passed", passed)
}

// UpdateScoreAndPassed sets the exam score and passed flag in one statement.
func (r *StudentExamRepository) UpdateScoreAndPassed(ctx context.Context, e domain.StudentExam, score *int32, passed string) (bool, error) {
	return r.UpdateColumns(ctx, e, Set("exam_score", score), Set("passed", passed))
}

// UpdateMasteryScore sets the mastery score.
func (r *StudentExamRepository) UpdateMasteryScore(ctx context.Context, e domain.StudentExam, mastery *int32) (bool, error) {
	return r.UpdateColumn(ctx, e, "mastery_score", mastery)
}

// UpdateWhenFinished moves the exam date and finish time. The start time is
// left as recorded.
func (r *StudentExamRepository) UpdateWhenFinished(ctx context.Context, e domain.StudentExam, examDt civil.Date, finishTime *int32) (bool, error) {
	return r.UpdateColumns(ctx, e, Set("exam_dt", examDt), Set("finish_time", finishTime))
}

// UpdateFirstPassed sets the is_first_passed flag.
func (r *StudentExamRepository) UpdateFirstPassed(ctx context.Context, e domain.StudentExam, firstPassed string) (bool, error) {
	return r.UpdateColumn(ctx, e, "is_first_passed", firstPassed)
}

// UpdateCalcNbr records the calculator issued for the exam.
func (r *StudentExamRepository) UpdateCalcNbr(ctx context.Context, e domain.StudentExam, calcNbr *string) (bool, error) {
	return r.UpdateColumn(ctx, e, "calc_nbr", calcNbr)
}

// RecalculateFirstPassed finds the earliest passed attempt of one exam for a
// student and fixes the is_first_passed flags: that attempt is flagged Y and
// every other attempt flagged Y is set to N. Attempts with no flag are left
// alone. Run it inside a transaction to apply the changes together.
func (r *StudentExamRepository) RecalculateFirstPassed(ctx context.Context, stuID, course string, unit int32, examType string) error {
	exams, err := r.QueryByStudentCourse(ctx, stuID, course, false)
	if err != nil {
		return err
	}

	match := make([]domain.StudentExam, 0, len(exams))
	for _, e := range exams {
		if e.Unit == unit && e.ExamType == examType {
			match = append(match, e)
		}
	}
	sort.SliceStable(match, func(i, j int) bool { return match[i].FinishesBefore(match[j]) })

	foundFirst := false
	for _, e := range match {
		flag := ""
		if e.IsFirstPassed != nil {
			flag = *e.IsFirstPassed
		}

		if !e.IsPassed() || foundFirst {
			if flag == domain.FlagYes {
				if _, err := r.UpdateFirstPassed(ctx, e, domain.FlagNo); err != nil {
					return err
				}
			}
			continue
		}

		foundFirst = true
		if flag == domain.FlagNo {
			if _, err := r.UpdateFirstPassed(ctx, e, domain.FlagYes); err != nil {
				return err
			}
		}
	}
	return nil
}
