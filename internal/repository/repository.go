// Package repository provides typed access to the student-records tables.
//
// # Overview
//
// Every table is described once by a Table descriptor: its logical name,
// ordered columns with their storage types and nullability, its natural key,
// and the two mapping functions between a result Row and the record type.
// A generic Repository built from the descriptor supplies insert, delete,
// query and single-column update operations; the typed repositories in this
// package (StudentExamRepository, VisitRepository, ...) add the
// table-specific lookups on top.
//
// # Statements
//
// Statements are built once per descriptor (or once per filter shape) and
// only the physical table name, obtained from the schema.Resolver for every
// call, varies between executions. Values are always bound as parameters.
// Every call executes exactly one statement and never commits.
//
// # Results and Errors
//
// Write operations report whether exactly one row was affected:
//
//   - true, nil: the row was written
//   - false, nil: no row matched the natural key
//   - false, *domain.ConstraintViolationError: insert rejected by a unique key
//   - false, *domain.StorageError: anything else, including values that do
//     not fit the column types
//
// Bulk deletes (DeleteWhere and the DeleteAllFor* helpers) return true
// whenever the statement executes, since having no dependent rows is normal.
//
// # Transactions
//
// A Store runs statements on a DBTX. Use Store.WithTx with the transaction
// from database.DB.WithTransaction to batch several calls into one commit:
//
//	err := db.WithTransaction(ctx, func(tx pgx.Tx) error {
//	    repos := store.WithTx(tx).Repositories()
//	    _, err := repos.PlacementAttempts.DeleteExamAndAnswers(ctx, attempt)
//	    return err
//	})
package repository

import (
	"github.com/mathops/records-service/internal/database"
	"github.com/mathops/records-service/internal/observability"
	"github.com/mathops/records-service/internal/schema"
)

// DBTX is the database interface supporting both pool and transaction contexts.
type DBTX = database.DBTX

// Store carries what every repository call needs: where to run statements,
// how to name tables and where to record metrics. A Store is safe for
// concurrent use when its DBTX is; a Store bound to a transaction is not.
type Store struct {
	db       DBTX
	resolver schema.Resolver
	metrics  *observability.Metrics
}

// NewStore creates a Store. metrics may be nil.
func NewStore(db DBTX, resolver schema.Resolver, metrics *observability.Metrics) *Store {
	return &Store{db: db, resolver: resolver, metrics: metrics}
}

// WithTx returns a Store that runs statements on tx.
func (s *Store) WithTx(tx DBTX) *Store {
	return &Store{db: tx, resolver: s.resolver, metrics: s.metrics}
}

// Repositories groups one repository per table.
type Repositories struct {
	Calendar          *CampusCalendarRepository
	Parameters        *ParametersRepository
	CourseUnits       *CourseUnitRepository
	StudentExams      *StudentExamRepository
	PlacementAttempts *PlacementAttemptRepository
	PlacementAnswers  *PlacementAnswerRepository
	HomeworkAttempts  *HomeworkAttemptRepository
	HomeworkAnswers   *HomeworkAnswerRepository
	Milestones        *MilestoneRepository
	StudentMilestones *StudentMilestoneRepository
	Visits            *VisitRepository
	Facilities        *FacilityRepository
}

// Repositories returns every table repository bound to s.
func (s *Store) Repositories() *Repositories {
	return &Repositories{
		Calendar:          NewCampusCalendarRepository(s),
		Parameters:        NewParametersRepository(s),
		CourseUnits:       NewCourseUnitRepository(s),
		StudentExams:      NewStudentExamRepository(s),
		PlacementAttempts: NewPlacementAttemptRepository(s),
		PlacementAnswers:  NewPlacementAnswerRepository(s),
		HomeworkAttempts:  NewHomeworkAttemptRepository(s),
		HomeworkAnswers:   NewHomeworkAnswerRepository(s),
		Milestones:        NewMilestoneRepository(s),
		StudentMilestones: NewStudentMilestoneRepository(s),
		Visits:            NewVisitRepository(s),
		Facilities:        NewFacilityRepository(s),
	}
}
