package repository

import (
	"context"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/schema"
)

var courseUnitTable = NewTable(Table[domain.CourseUnit]{
	Name: schema.Table(schema.Legacy, "cunit"),
	Columns: []Column{
		Required("term", ColString),
		Required("term_yr", ColInteger),
		Required("course", ColString),
		Required("unit", ColInteger),
		Optional("unit_exam_wgt", ColFloat),
		Optional("unit_desc", ColString),
		Optional("unit_timelimit", ColInteger),
		Optional("possible_score", ColInteger),
		Optional("nbr_questions", ColInteger),
		Optional("unit_type", ColString),
	},
	Key: []string{"term", "term_yr", "course", "unit"},
	FromRow: func(row Row) (domain.CourseUnit, error) {
		rd := row.Reader()
		u := domain.CourseUnit{
			Term:          domain.TermKeyFromColumns(rd.RequireString("term"), rd.RequireInt("term_yr")),
			Course:        rd.RequireString("course"),
			Unit:          rd.RequireInt("unit"),
			UnitExamWgt:   rd.Float("unit_exam_wgt"),
			UnitDesc:      rd.String("unit_desc"),
			UnitTimelimit: rd.Int("unit_timelimit"),
			PossibleScore: rd.Int("possible_score"),
			NbrQuestions:  rd.Int("nbr_questions"),
			UnitType:      rd.String("unit_type"),
		}
		return u, rd.Err()
	},
	Values: func(u domain.CourseUnit) []interface{} {
		return []interface{}{
			string(u.Term.Name), u.Term.ShortYear(), u.Course, u.Unit,
			u.UnitExamWgt, u.UnitDesc, u.UnitTimelimit, u.PossibleScore,
			u.NbrQuestions, u.UnitType,
		}
	},
})

// CourseUnitRepository accesses the cunit table.
type CourseUnitRepository struct {
	*Repository[domain.CourseUnit]
}

// NewCourseUnitRepository creates a course unit repository.
func NewCourseUnitRepository(s *Store) *CourseUnitRepository {
	return &CourseUnitRepository{NewRepository(s, courseUnitTable)}
}

// QueryByCourse returns the units of a course in a term, ordered by unit.
func (r *CourseUnitRepository) QueryByCourse(ctx context.Context, course string, term domain.TermKey) ([]domain.CourseUnit, error) {
	return r.Find(ctx, Query{
		Where:   append(termFilters(term), Eq("course", course)),
		OrderBy: []string{"unit"},
	})
}
