package repository

import (
	"context"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/schema"
)

var facilityTable = NewTable(Table[domain.Facility]{
	Name: schema.Table(schema.Main, "facility"),
	Columns: []Column{
		Required("facility_id", ColString),
		Required("name", ColString),
		Optional("building_name", ColString),
		Optional("room_nbr", ColString),
	},
	Key: []string{"facility_id"},
	FromRow: func(row Row) (domain.Facility, error) {
		rd := row.Reader()
		f := domain.Facility{
			FacilityID:   rd.RequireString("facility_id"),
			Name:         rd.RequireString("name"),
			BuildingName: rd.String("building_name"),
			RoomNbr:      rd.String("room_nbr"),
		}
		return f, rd.Err()
	},
	Values: func(f domain.Facility) []interface{} {
		return []interface{}{f.FacilityID, f.Name, f.BuildingName, f.RoomNbr}
	},
})

// FacilityRepository accesses the facility table in the main schema.
type FacilityRepository struct {
	*Repository[domain.Facility]
}

// NewFacilityRepository creates a facility repository.
func NewFacilityRepository(s *Store) *FacilityRepository {
	return &FacilityRepository{NewRepository(s, facilityTable)}
}

// Query returns the facility with the given id, or nil.
func (r *FacilityRepository) Query(ctx context.Context, facilityID string) (*domain.Facility, error) {
	return r.FindOne(ctx, Query{Where: []Filter{Eq("facility_id", facilityID)}})
}

// Update rewrites every non-key column of the facility.
func (r *FacilityRepository) Update(ctx context.Context, f domain.Facility) (bool, error) {
	if err := domain.ValidateRecord(f); err != nil {
		return false, r.storageError(opUpdate, err)
	}
	return r.UpdateColumns(ctx, f,
		Set("name", f.Name),
		Set("building_name", f.BuildingName),
		Set("room_nbr", f.RoomNbr),
	)
}
