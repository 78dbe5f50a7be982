package repository

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/schema"
)

// termFilters matches the term and two-digit term year columns.
func termFilters(term domain.TermKey) []Filter {
	return []Filter{
		Eq("term", string(term.Name)),
		Eq("term_yr", term.ShortYear()),
	}
}

var milestoneTable = NewTable(Table[domain.Milestone]{
	Name: schema.Table(schema.Legacy, "milestone"),
	Columns: []Column{
		Required("term", ColString),
		Required("term_yr", ColInteger),
		Required("pace", ColInteger),
		Required("pace_track", ColString),
		Required("ms_nbr", ColInteger),
		Required("ms_type", ColString),
		Required("ms_date", ColDate),
		Optional("nbr_atmpts_allow", ColInteger),
	},
	Key: []string{"term", "term_yr", "pace", "pace_track", "ms_nbr", "ms_type"},
	FromRow: func(row Row) (domain.Milestone, error) {
		rd := row.Reader()
		m := domain.Milestone{
			Term:           domain.TermKeyFromColumns(rd.RequireString("term"), rd.RequireInt("term_yr")),
			Pace:           rd.RequireInt("pace"),
			PaceTrack:      rd.RequireString("pace_track"),
			MsNbr:          rd.RequireInt("ms_nbr"),
			MsType:         rd.RequireString("ms_type"),
			MsDate:         rd.RequireDate("ms_date"),
			NbrAtmptsAllow: rd.Int("nbr_atmpts_allow"),
		}
		return m, rd.Err()
	},
	Values: func(m domain.Milestone) []interface{} {
		return []interface{}{
			string(m.Term.Name), m.Term.ShortYear(), m.Pace, m.PaceTrack,
			m.MsNbr, m.MsType, m.MsDate, m.NbrAtmptsAllow,
		}
	},
})

// MilestoneRepository accesses the milestone table.
type MilestoneRepository struct {
	*Repository[domain.Milestone]
}

// NewMilestoneRepository creates a milestone repository.
func NewMilestoneRepository(s *Store) *MilestoneRepository {
	return &MilestoneRepository{NewRepository(s, milestoneTable)}
}

// GetAllMilestones returns every milestone of a term.
func (r *MilestoneRepository) GetAllMilestones(ctx context.Context, term domain.TermKey) ([]domain.Milestone, error) {
	return r.QueryWhere(ctx, termFilters(term)...)
}

// GetMilestones returns the milestones of one pace and pace track in a term.
func (r *MilestoneRepository) GetMilestones(ctx context.Context, term domain.TermKey, pace int32, paceTrack string) ([]domain.Milestone, error) {
	filters := append(termFilters(term), Eq("pace", pace), Eq("pace_track", paceTrack))
	return r.QueryWhere(ctx, filters...)
}

// UpdateMsDate moves the milestone deadline.
func (r *MilestoneRepository) UpdateMsDate(ctx context.Context, m domain.Milestone, msDate civil.Date) (bool, error) {
	return r.UpdateColumn(ctx, m, "ms_date", msDate)
}

var studentMilestoneTable = NewTable(Table[domain.StudentMilestone]{
	Name: schema.Table(schema.Legacy, "stmilestone"),
	Columns: []Column{
		Required("stu_id", ColString),
		Required("term", ColString),
		Required("term_yr", ColInteger),
		Required("pace_track", ColString),
		Required("ms_nbr", ColInteger),
		Required("ms_type", ColString),
		Required("ms_date", ColDate),
		Optional("nbr_atmpts_allow", ColInteger),
	},
	Key: []string{"stu_id", "term", "term_yr", "pace_track", "ms_nbr", "ms_type"},
	FromRow: func(row Row) (domain.StudentMilestone, error) {
		rd := row.Reader()
		m := domain.StudentMilestone{
			StuID:          rd.RequireString("stu_id"),
			Term:           domain.TermKeyFromColumns(rd.RequireString("term"), rd.RequireInt("term_yr")),
			PaceTrack:      rd.RequireString("pace_track"),
			MsNbr:          rd.RequireInt("ms_nbr"),
			MsType:         rd.RequireString("ms_type"),
			MsDate:         rd.RequireDate("ms_date"),
			NbrAtmptsAllow: rd.Int("nbr_atmpts_allow"),
		}
		return m, rd.Err()
	},
	Values: func(m domain.StudentMilestone) []interface{} {
		return []interface{}{
			m.StuID, string(m.Term.Name), m.Term.ShortYear(), m.PaceTrack,
			m.MsNbr, m.MsType, m.MsDate, m.NbrAtmptsAllow,
		}
	},
})

// StudentMilestoneRepository accesses the stmilestone table.
type StudentMilestoneRepository struct {
	*Repository[domain.StudentMilestone]
}

// NewStudentMilestoneRepository creates a student milestone repository.
func NewStudentMilestoneRepository(s *Store) *StudentMilestoneRepository {
	return &StudentMilestoneRepository{NewRepository(s, studentMilestoneTable)}
}

// QueryByStudent returns every milestone override for a student.
func (r *StudentMilestoneRepository) QueryByStudent(ctx context.Context, stuID string) ([]domain.StudentMilestone, error) {
	return r.QueryWhere(ctx, Eq("stu_id", stuID))
}

// GetStudentMilestones returns a student's overrides for one term and pace
// track, ordered by milestone number then date.
func (r *StudentMilestoneRepository) GetStudentMilestones(ctx context.Context, stuID string, term domain.TermKey, paceTrack string) ([]domain.StudentMilestone, error) {
	where := append([]Filter{Eq("stu_id", stuID)}, termFilters(term)...)
	return r.Find(ctx, Query{
		Where:   append(where, Eq("pace_track", paceTrack)),
		OrderBy: []string{"ms_nbr", "ms_date"},
	})
}

// UpdateMsDate moves the student's milestone deadline.
func (r *StudentMilestoneRepository) UpdateMsDate(ctx context.Context, m domain.StudentMilestone, msDate civil.Date) (bool, error) {
	return r.UpdateColumn(ctx, m, "ms_date", msDate)
}
