package repository

import (
	"context"

	"cloud.google.com/go/civil"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/schema"
)

var visitTable = NewTable(Table[domain.Visit]{
	Name: schema.Table(schema.Legacy, "stvisit"),
	Columns: []Column{
		Required("stu_id", ColString),
		Required("when_started", ColDateTime),
		Optional("when_ended", ColDateTime),
		Optional("location", ColString),
		Optional("seat", ColString),
	},
	Key: []string{"stu_id", "when_started"},
	FromRow: func(row Row) (domain.Visit, error) {
		rd := row.Reader()
		v := domain.Visit{
			StuID:       rd.RequireString("stu_id"),
			WhenStarted: rd.RequireDateTime("when_started"),
			WhenEnded:   rd.DateTime("when_ended"),
			Location:    rd.String("location"),
			Seat:        rd.String("seat"),
		}
		return v, rd.Err()
	},
	Values: func(v domain.Visit) []interface{} {
		return []interface{}{v.StuID, v.WhenStarted, v.WhenEnded, v.Location, v.Seat}
	},
})

// VisitRepository accesses the stvisit table.
type VisitRepository struct {
	*Repository[domain.Visit]
}

// NewVisitRepository creates a visit repository.
func NewVisitRepository(s *Store) *VisitRepository {
	return &VisitRepository{NewRepository(s, visitTable)}
}

// QueryByStudent returns every visit by a student, oldest first.
func (r *VisitRepository) QueryByStudent(ctx context.Context, stuID string) ([]domain.Visit, error) {
	return r.Find(ctx, Query{
		Where:   []Filter{Eq("stu_id", stuID)},
		OrderBy: []string{"when_started"},
	})
}

// GetInProgress returns the student's visits that have not been ended.
func (r *VisitRepository) GetInProgress(ctx context.Context, stuID string) ([]domain.Visit, error) {
	return r.Find(ctx, Query{
		Where:   []Filter{Eq("stu_id", stuID), IsNull("when_ended")},
		OrderBy: []string{"when_started"},
	})
}

// EndInProgress ends every open visit of the student at when. It reports
// false if any of the updates matched no row; the updates that did match
// are not undone.
func (r *VisitRepository) EndInProgress(ctx context.Context, stuID string, when civil.DateTime) (bool, error) {
	open, err := r.GetInProgress(ctx, stuID)
	if err != nil {
		return false, err
	}

	ok := true
	for _, v := range open {
		updated, err := r.UpdateColumn(ctx, v, "when_ended", when)
		if err != nil {
			return false, err
		}
		ok = ok && updated
	}
	return ok, nil
}

// StartNewVisit records the start of a visit.
func (r *VisitRepository) StartNewVisit(ctx context.Context, stuID string, when civil.DateTime, location, seat *string) (bool, error) {
	return r.Insert(ctx, domain.Visit{
		StuID:       stuID,
		WhenStarted: when,
		Location:    location,
		Seat:        seat,
	})
}
