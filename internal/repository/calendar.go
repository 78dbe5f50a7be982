package repository

import (
	"context"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/schema"
)

var campusCalendarTable = NewTable(Table[domain.CampusCalendar]{
	Name: schema.Table(schema.Legacy, "campus_calendar"),
	Columns: []Column{
		Required("campus_dt", ColDate),
		Required("dt_desc", ColString),
		Optional("open_time1", ColString),
		Optional("open_time2", ColString),
		Optional("open_time3", ColString),
		Optional("close_time1", ColString),
		Optional("close_time2", ColString),
		Optional("close_time3", ColString),
		Optional("weekdays_1", ColString),
		Optional("weekdays_2", ColString),
		Optional("weekdays_3", ColString),
	},
	Key: []string{"campus_dt", "dt_desc"},
	FromRow: func(row Row) (domain.CampusCalendar, error) {
		rd := row.Reader()
		c := domain.CampusCalendar{
			CampusDt:   rd.RequireDate("campus_dt"),
			DtDesc:     rd.RequireString("dt_desc"),
			OpenTime1:  rd.String("open_time1"),
			OpenTime2:  rd.String("open_time2"),
			OpenTime3:  rd.String("open_time3"),
			CloseTime1: rd.String("close_time1"),
			CloseTime2: rd.String("close_time2"),
			CloseTime3: rd.String("close_time3"),
			Weekdays1:  rd.String("weekdays_1"),
			Weekdays2:  rd.String("weekdays_2"),
			Weekdays3:  rd.String("weekdays_3"),
		}
		return c, rd.Err()
	},
	Values: func(c domain.CampusCalendar) []interface{} {
		return []interface{}{
			c.CampusDt, c.DtDesc,
			c.OpenTime1, c.OpenTime2, c.OpenTime3,
			c.CloseTime1, c.CloseTime2, c.CloseTime3,
			c.Weekdays1, c.Weekdays2, c.Weekdays3,
		}
	},
})

// CampusCalendarRepository accesses the campus_calendar table.
type CampusCalendarRepository struct {
	*Repository[domain.CampusCalendar]
}

// NewCampusCalendarRepository creates a campus calendar repository.
func NewCampusCalendarRepository(s *Store) *CampusCalendarRepository {
	return &CampusCalendarRepository{NewRepository(s, campusCalendarTable)}
}

// QueryByType returns the entries with the given description (one of the
// domain.Calendar* constants), ordered by date.
func (r *CampusCalendarRepository) QueryByType(ctx context.Context, dtDesc string) ([]domain.CampusCalendar, error) {
	return r.Find(ctx, Query{
		Where:   []Filter{Eq("dt_desc", dtDesc)},
		OrderBy: []string{"campus_dt"},
	})
}
