package repository

import (
	"context"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/schema"
)

var byHomeworkFinish = []string{"hw_dt", "finish_time"}

var homeworkAttemptTable = NewTable(Table[domain.HomeworkAttempt]{
	Name: schema.Table(schema.Legacy, "sthomework"),
	Columns: []Column{
		Required("serial_nbr", ColLong),
		Required("version", ColString),
		Required("stu_id", ColString),
		Required("hw_dt", ColDate),
		Optional("hw_score", ColInteger),
		Optional("start_time", ColInteger),
		Optional("finish_time", ColInteger),
		Optional("time_ok", ColString),
		Required("passed", ColString),
		Optional("hw_type", ColString),
		Required("course", ColString),
		Optional("sect", ColString),
		Required("unit", ColInteger),
		Optional("objective", ColInteger),
		Optional("hw_coupon", ColString),
		Optional("used_dt", ColDate),
		Optional("used_serial_nbr", ColLong),
	},
	Key: []string{"serial_nbr", "version", "stu_id"},
	FromRow: func(row Row) (domain.HomeworkAttempt, error) {
		rd := row.Reader()
		h := domain.HomeworkAttempt{
			SerialNbr:     rd.RequireLong("serial_nbr"),
			Version:       rd.RequireString("version"),
			StuID:         rd.RequireString("stu_id"),
			HwDt:          rd.RequireDate("hw_dt"),
			HwScore:       rd.Int("hw_score"),
			StartTime:     rd.Int("start_time"),
			FinishTime:    rd.Int("finish_time"),
			TimeOK:        rd.String("time_ok"),
			Passed:        rd.RequireString("passed"),
			HwType:        rd.String("hw_type"),
			Course:        rd.RequireString("course"),
			Sect:          rd.String("sect"),
			Unit:          rd.RequireInt("unit"),
			Objective:     rd.Int("objective"),
			HwCoupon:      rd.String("hw_coupon"),
			UsedDt:        rd.Date("used_dt"),
			UsedSerialNbr: rd.Long("used_serial_nbr"),
		}
		return h, rd.Err()
	},
	Values: func(h domain.HomeworkAttempt) []interface{} {
		return []interface{}{
			h.SerialNbr, h.Version, h.StuID, h.HwDt, h.HwScore,
			h.StartTime, h.FinishTime, h.TimeOK, h.Passed, h.HwType,
			h.Course, h.Sect, h.Unit, h.Objective, h.HwCoupon,
			h.UsedDt, h.UsedSerialNbr,
		}
	},
})

// HomeworkAttemptRepository accesses the sthomework table.
type HomeworkAttemptRepository struct {
	*Repository[domain.HomeworkAttempt]
}

// NewHomeworkAttemptRepository creates a homework attempt repository.
func NewHomeworkAttemptRepository(s *Store) *HomeworkAttemptRepository {
	return &HomeworkAttemptRepository{NewRepository(s, homeworkAttemptTable)}
}

func (r *HomeworkAttemptRepository) byFilters(ctx context.Context, all bool, filters ...Filter) ([]domain.HomeworkAttempt, error) {
	if !all {
		filters = append(filters, legalPassed())
	}
	return r.Find(ctx, Query{Where: filters, OrderBy: byHomeworkFinish})
}

// QueryByStudent returns a student's homework, legal attempts only unless
// all is set, ordered by date and finish time.
func (r *HomeworkAttemptRepository) QueryByStudent(ctx context.Context, stuID string, all bool) ([]domain.HomeworkAttempt, error) {
	return r.byFilters(ctx, all, Eq("stu_id", stuID))
}

// QueryByStudentCourse returns a student's homework in one course.
func (r *HomeworkAttemptRepository) QueryByStudentCourse(ctx context.Context, stuID, course string, all bool) ([]domain.HomeworkAttempt, error) {
	return r.byFilters(ctx, all, Eq("stu_id", stuID), Eq("course", course))
}

// QueryByStudentCourseUnit returns a student's homework in one course unit.
func (r *HomeworkAttemptRepository) QueryByStudentCourseUnit(ctx context.Context, stuID, course string, unit int32, all bool) ([]domain.HomeworkAttempt, error) {
	return r.byFilters(ctx, all, Eq("stu_id", stuID), Eq("course", course), Eq("unit", unit))
}

// UpdatePassed sets the passed flag.
func (r *HomeworkAttemptRepository) UpdatePassed(ctx context.Context, h domain.HomeworkAttempt, passed string) (bool, error) {
	return r.UpdateColumn(ctx, h, "passed", passed)
}

var homeworkAnswerTable = NewTable(Table[domain.HomeworkAnswer]{
	Name: schema.Table(schema.Legacy, "sthwqa"),
	Columns: []Column{
		Required("serial_nbr", ColLong),
		Required("question_nbr", ColInteger),
		Required("answer_nbr", ColInteger),
		Optional("objective", ColString),
		Optional("stu_answer", ColString),
		Required("stu_id", ColString),
		Required("version", ColString),
		Optional("ans_correct", ColString),
		Optional("hw_dt", ColDate),
		Optional("finish_time", ColInteger),
	},
	Key: []string{"serial_nbr", "question_nbr", "answer_nbr"},
	FromRow: func(row Row) (domain.HomeworkAnswer, error) {
		rd := row.Reader()
		a := domain.HomeworkAnswer{
			SerialNbr:   rd.RequireLong("serial_nbr"),
			QuestionNbr: rd.RequireInt("question_nbr"),
			AnswerNbr:   rd.RequireInt("answer_nbr"),
			Objective:   rd.String("objective"),
			StuAnswer:   rd.String("stu_answer"),
			StuID:       rd.RequireString("stu_id"),
			Version:     rd.RequireString("version"),
			AnsCorrect:  rd.String("ans_correct"),
			HwDt:        rd.Date("hw_dt"),
			FinishTime:  rd.Int("finish_time"),
		}
		return a, rd.Err()
	},
	Values: func(a domain.HomeworkAnswer) []interface{} {
		return []interface{}{
			a.SerialNbr, a.QuestionNbr, a.AnswerNbr, a.Objective, a.StuAnswer,
			a.StuID, a.Version, a.AnsCorrect, a.HwDt, a.FinishTime,
		}
	},
})

// HomeworkAnswerRepository accesses the sthwqa table.
type HomeworkAnswerRepository struct {
	*Repository[domain.HomeworkAnswer]
}

// NewHomeworkAnswerRepository creates a homework answer repository.
func NewHomeworkAnswerRepository(s *Store) *HomeworkAnswerRepository {
	return &HomeworkAnswerRepository{NewRepository(s, homeworkAnswerTable)}
}

// QueryByStudent returns every homework answer recorded for a student.
func (r *HomeworkAnswerRepository) QueryByStudent(ctx context.Context, stuID string) ([]domain.HomeworkAnswer, error) {
	return r.QueryWhere(ctx, Eq("stu_id", stuID))
}

// QueryBySerial returns the answers on one homework attempt, by question and
// answer number.
func (r *HomeworkAnswerRepository) QueryBySerial(ctx context.Context, serialNbr int64) ([]domain.HomeworkAnswer, error) {
	return r.Find(ctx, Query{
		Where:   []Filter{Eq("serial_nbr", serialNbr)},
		OrderBy: []string{"question_nbr", "answer_nbr"},
	})
}

// DeleteAllForAttempt deletes every answer on the homework attempt.
func (r *HomeworkAnswerRepository) DeleteAllForAttempt(ctx context.Context, h domain.HomeworkAttempt) (bool, error) {
	return r.DeleteAllForSerial(ctx, h.SerialNbr)
}

// DeleteAllForSerial deletes every answer with the given serial number. It
// returns true once the statement has run, even if there were no answers.
func (r *HomeworkAnswerRepository) DeleteAllForSerial(ctx context.Context, serialNbr int64) (bool, error) {
	return r.DeleteWhere(ctx, Eq("serial_nbr", serialNbr))
}
