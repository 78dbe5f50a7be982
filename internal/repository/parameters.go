package repository

import (
	"context"
	"fmt"

	"cloud.google.com/go/civil"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/schema"
)

var parametersTable = NewTable(Table[domain.Parameters]{
	Name: schema.Table(schema.Legacy, "parameters"),
	Columns: []Column{
		Required("pgm_name", ColString),
		Optional("parm1", ColString),
		Optional("parm2", ColString),
		Optional("parm3", ColString),
		Optional("parm4", ColString),
		Optional("parm5", ColString),
		Optional("parm6", ColString),
		Optional("parm7", ColString),
		Optional("parm8", ColString),
		Optional("parm9", ColString),
		Optional("parm10", ColDate),
	},
	Key: []string{"pgm_name"},
	FromRow: func(row Row) (domain.Parameters, error) {
		rd := row.Reader()
		p := domain.Parameters{
			PgmName: rd.RequireString("pgm_name"),
			Parm1:   rd.String("parm1"),
			Parm2:   rd.String("parm2"),
			Parm3:   rd.String("parm3"),
			Parm4:   rd.String("parm4"),
			Parm5:   rd.String("parm5"),
			Parm6:   rd.String("parm6"),
			Parm7:   rd.String("parm7"),
			Parm8:   rd.String("parm8"),
			Parm9:   rd.String("parm9"),
			Parm10:  rd.Date("parm10"),
		}
		return p, rd.Err()
	},
	Values: func(p domain.Parameters) []interface{} {
		return []interface{}{
			p.PgmName,
			p.Parm1, p.Parm2, p.Parm3, p.Parm4, p.Parm5,
			p.Parm6, p.Parm7, p.Parm8, p.Parm9, p.Parm10,
		}
	},
})

// ParametersRepository accesses the parameters table.
type ParametersRepository struct {
	*Repository[domain.Parameters]
}

// NewParametersRepository creates a parameters repository.
func NewParametersRepository(s *Store) *ParametersRepository {
	return &ParametersRepository{NewRepository(s, parametersTable)}
}

// Query returns the parameters for a program, or nil if none are configured.
func (r *ParametersRepository) Query(ctx context.Context, pgmName string) (*domain.Parameters, error) {
	return r.FindOne(ctx, Query{Where: []Filter{Eq("pgm_name", pgmName)}})
}

// ParmColumn returns the column holding parameter n.
func ParmColumn(n int) (string, error) {
	if n < 1 || n > domain.NumParameters {
		return "", domain.NewValidationError("parm", fmt.Sprintf("parameter number %d out of range 1..%d", n, domain.NumParameters))
	}
	return fmt.Sprintf("parm%d", n), nil
}

// UpdateParm sets parameter n of rec's program. Parameters 1 to 9 take a
// string (or *string) and parameter 10 a civil.Date (or *civil.Date); nil
// clears the value.
func (r *ParametersRepository) UpdateParm(ctx context.Context, rec domain.Parameters, n int, value interface{}) (bool, error) {
	col, err := ParmColumn(n)
	if err != nil {
		return false, r.storageError(opUpdate, err)
	}
	return r.UpdateColumn(ctx, rec, col, value)
}

// UpdateParm1 sets parm1 on rec's row. A nil value clears it.
func (r *ParametersRepository) UpdateParm1(ctx context.Context, rec domain.Parameters, v *string) (bool, error) {
	return r.UpdateParm(ctx, rec, 1, v)
}

// UpdateParm2 sets parm2 on rec's row. A nil value clears it.
func (r *ParametersRepository) UpdateParm2(ctx context.Context, rec domain.Parameters, v *string) (bool, error) {
	return r.UpdateParm(ctx, rec, 2, v)
}

// UpdateParm3 sets parm3 on rec's row. A nil value clears it.
func (r *ParametersRepository) UpdateParm3(ctx context.Context, rec domain.Parameters, v *string) (bool, error) {
	return r.UpdateParm(ctx, rec, 3, v)
}

// UpdateParm4 sets parm4 on rec's row. A nil value clears it.
func (r *ParametersRepository) UpdateParm4(ctx context.Context, rec domain.Parameters, v *string) (bool, error) {
	return r.UpdateParm(ctx, rec, 4, v)
}

// UpdateParm5 sets parm5 on rec's row. A nil value clears it.
func (r *ParametersRepository) UpdateParm5(ctx context.Context, rec domain.Parameters, v *string) (bool, error) {
	return r.UpdateParm(ctx, rec, 5, v)
}

// UpdateParm6 sets parm6 on rec's row. A nil value clears it.
func (r *ParametersRepository) UpdateParm6(ctx context.Context, rec domain.Parameters, v *string) (bool, error) {
	return r.UpdateParm(ctx, rec, 6, v)
}

// UpdateParm7 sets parm7 on rec's row. A nil value clears it.
func (r *ParametersRepository) UpdateParm7(ctx context.Context, rec domain.Parameters, v *string) (bool, error) {
	return r.UpdateParm(ctx, rec, 7, v)
}

// UpdateParm8 sets parm8 on rec's row. A nil value clears it.
func (r *ParametersRepository) UpdateParm8(ctx context.Context, rec domain.Parameters, v *string) (bool, error) {
	return r.UpdateParm(ctx, rec, 8, v)
}

// UpdateParm9 sets parm9 on rec's row. A nil value clears it.
func (r *ParametersRepository) UpdateParm9(ctx context.Context, rec domain.Parameters, v *string) (bool, error) {
	return r.UpdateParm(ctx, rec, 9, v)
}

// UpdateParm10 sets the parm10 date on rec's row. A nil value clears it.
func (r *ParametersRepository) UpdateParm10(ctx context.Context, rec domain.Parameters, v *civil.Date) (bool, error) {
	return r.UpdateParm(ctx, rec, 10, v)
}
