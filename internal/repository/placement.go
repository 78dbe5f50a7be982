package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/civil"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/schema"
)

var placementAttemptTable = NewTable(Table[domain.PlacementAttempt]{
	Name: schema.Table(schema.Legacy, "stmpe"),
	Columns: []Column{
		Required("stu_id", ColString),
		Required("version", ColString),
		Optional("academic_yr", ColString),
		Required("exam_dt", ColDate),
		Optional("start_time", ColInteger),
		Required("finish_time", ColInteger),
		Optional("last_name", ColString),
		Optional("first_name", ColString),
		Optional("middle_initial", ColString),
		Optional("seq_nbr", ColInteger),
		Optional("serial_nbr", ColLong),
		Optional("sts_a", ColInteger),
		Optional("sts_117", ColInteger),
		Optional("sts_118", ColInteger),
		Optional("sts_124", ColInteger),
		Optional("sts_125", ColInteger),
		Optional("sts_126", ColInteger),
		Optional("placed", ColString),
		Optional("how_validated", ColString),
	},
	Key: []string{"version", "stu_id", "exam_dt", "finish_time"},
	FromRow: func(row Row) (domain.PlacementAttempt, error) {
		rd := row.Reader()
		p := domain.PlacementAttempt{
			StuID:         rd.RequireString("stu_id"),
			Version:       rd.RequireString("version"),
			AcademicYr:    rd.String("academic_yr"),
			ExamDt:        rd.RequireDate("exam_dt"),
			StartTime:     rd.Int("start_time"),
			FinishTime:    rd.RequireInt("finish_time"),
			LastName:      rd.String("last_name"),
			FirstName:     rd.String("first_name"),
			MiddleInitial: rd.String("middle_initial"),
			SeqNbr:        rd.Int("seq_nbr"),
			SerialNbr:     rd.Long("serial_nbr"),
			StsA:          rd.Int("sts_a"),
			Sts117:        rd.Int("sts_117"),
			Sts118:        rd.Int("sts_118"),
			Sts124:        rd.Int("sts_124"),
			Sts125:        rd.Int("sts_125"),
			Sts126:        rd.Int("sts_126"),
			Placed:        rd.String("placed"),
			HowValidated:  rd.String("how_validated"),
		}
		return p, rd.Err()
	},
	Values: func(p domain.PlacementAttempt) []interface{} {
		return []interface{}{
			p.StuID, p.Version, p.AcademicYr, p.ExamDt, p.StartTime, p.FinishTime,
			p.LastName, p.FirstName, p.MiddleInitial, p.SeqNbr, p.SerialNbr,
			p.StsA, p.Sts117, p.Sts118, p.Sts124, p.Sts125, p.Sts126,
			p.Placed, p.HowValidated,
		}
	},
})

// legalPlaced keeps attempts whose placed flag is Y or N.
func legalPlaced() Filter {
	return InStrings("placed", domain.LegalFlags)
}

// PlacementAttemptRepository accesses the stmpe table.
type PlacementAttemptRepository struct {
	*Repository[domain.PlacementAttempt]
	answers *PlacementAnswerRepository
}

// NewPlacementAttemptRepository creates a placement attempt repository.
func NewPlacementAttemptRepository(s *Store) *PlacementAttemptRepository {
	return &PlacementAttemptRepository{
		Repository: NewRepository(s, placementAttemptTable),
		answers:    NewPlacementAnswerRepository(s),
	}
}

// QueryByStudent returns every placement attempt by a student.
func (r *PlacementAttemptRepository) QueryByStudent(ctx context.Context, stuID string) ([]domain.PlacementAttempt, error) {
	return r.Find(ctx, Query{
		Where:   []Filter{Eq("stu_id", stuID)},
		OrderBy: byFinish,
	})
}

// QueryLegalByStudent returns a student's legal placement attempts.
func (r *PlacementAttemptRepository) QueryLegalByStudent(ctx context.Context, stuID string) ([]domain.PlacementAttempt, error) {
	return r.Find(ctx, Query{
		Where:   []Filter{Eq("stu_id", stuID), legalPlaced()},
		OrderBy: byFinish,
	})
}

// QueryOnOrAfter returns every legal attempt dated on or after earliest.
func (r *PlacementAttemptRepository) QueryOnOrAfter(ctx context.Context, earliest civil.Date) ([]domain.PlacementAttempt, error) {
	return r.Find(ctx, Query{
		Where:   []Filter{Gte("exam_dt", earliest), legalPlaced()},
		OrderBy: byFinish,
	})
}

// GetHistory returns numDays daily buckets of legal attempts ending on today.
func (r *PlacementAttemptRepository) GetHistory(ctx context.Context, numDays int, today civil.Date) ([][]domain.PlacementAttempt, error) {
	if numDays <= 0 {
		return [][]domain.PlacementAttempt{}, nil
	}

	attempts, err := r.QueryOnOrAfter(ctx, domain.WindowStart(today, numDays))
	if err != nil {
		return nil, err
	}

	sort.SliceStable(attempts, func(i, j int) bool {
		a, b := attempts[i], attempts[j]
		if a.ExamDt != b.ExamDt {
			return a.ExamDt.Before(b.ExamDt)
		}
		return a.FinishTime < b.FinishTime
	})
	return domain.BucketByDay(attempts, func(p domain.PlacementAttempt) civil.Date { return p.ExamDt }, today, numDays), nil
}

// CountLegalAttempts counts a student's legal attempts on one exam version,
// split into online and proctored attempts.
func (r *PlacementAttemptRepository) CountLegalAttempts(ctx context.Context, stuID, version string) (domain.AttemptCounts, error) {
	attempts, err := r.QueryWhere(ctx, Eq("stu_id", stuID), Eq("version", version), legalPlaced())
	if err != nil {
		return domain.AttemptCounts{}, err
	}
	return domain.CountAttempts(attempts), nil
}

// DeleteExamAndAnswers deletes an attempt and all of its answers. The answers
// are deleted even when the attempt row is already gone; the result reports
// only whether the attempt row was deleted. Both statements run on the
// store's DBTX, so pass a transaction-bound store to apply them together.
func (r *PlacementAttemptRepository) DeleteExamAndAnswers(ctx context.Context, p domain.PlacementAttempt) (bool, error) {
	deleted, err := r.Delete(ctx, p)
	if err != nil {
		return false, err
	}
	if _, err := r.answers.DeleteAllForExam(ctx, p); err != nil {
		return false, err
	}
	return deleted, nil
}

var placementAnswerTable = NewTable(Table[domain.PlacementAnswer]{
	Name: schema.Table(schema.Legacy, "stmpeqa"),
	Columns: []Column{
		Required("stu_id", ColString),
		Required("version", ColString),
		Required("exam_dt", ColDate),
		Required("finish_time", ColInteger),
		Required("question_nbr", ColInteger),
		Optional("stu_answer", ColString),
		Optional("ans_correct", ColString),
		Optional("subtest", ColString),
		Optional("tree_ref", ColString),
	},
	Key: []string{"stu_id", "version", "exam_dt", "finish_time", "question_nbr"},
	FromRow: func(row Row) (domain.PlacementAnswer, error) {
		rd := row.Reader()
		a := domain.PlacementAnswer{
			StuID:       rd.RequireString("stu_id"),
			Version:     rd.RequireString("version"),
			ExamDt:      rd.RequireDate("exam_dt"),
			FinishTime:  rd.RequireInt("finish_time"),
			QuestionNbr: rd.RequireInt("question_nbr"),
			StuAnswer:   rd.String("stu_answer"),
			AnsCorrect:  rd.String("ans_correct"),
			Subtest:     rd.String("subtest"),
			TreeRef:     rd.String("tree_ref"),
		}
		return a, rd.Err()
	},
	Values: func(a domain.PlacementAnswer) []interface{} {
		return []interface{}{
			a.StuID, a.Version, a.ExamDt, a.FinishTime, a.QuestionNbr,
			a.StuAnswer, a.AnsCorrect, a.Subtest, a.TreeRef,
		}
	},
})

// PlacementAnswerRepository accesses the stmpeqa table.
type PlacementAnswerRepository struct {
	*Repository[domain.PlacementAnswer]
}

// NewPlacementAnswerRepository creates a placement answer repository.
func NewPlacementAnswerRepository(s *Store) *PlacementAnswerRepository {
	return &PlacementAnswerRepository{NewRepository(s, placementAnswerTable)}
}

// QueryByStudent returns every placement answer recorded for a student.
func (r *PlacementAnswerRepository) QueryByStudent(ctx context.Context, stuID string) ([]domain.PlacementAnswer, error) {
	return r.Find(ctx, Query{
		Where:   []Filter{Eq("stu_id", stuID)},
		OrderBy: []string{"exam_dt", "finish_time", "question_nbr"},
	})
}

// DeleteAllForExam deletes every answer on the attempt. It returns true once
// the statement has run, even if there were no answers.
func (r *PlacementAnswerRepository) DeleteAllForExam(ctx context.Context, p domain.PlacementAttempt) (bool, error) {
	return r.DeleteWhere(ctx,
		Eq("stu_id", p.StuID),
		Eq("version", p.Version),
		Eq("exam_dt", p.ExamDt),
		Eq("finish_time", p.FinishTime),
	)
}
