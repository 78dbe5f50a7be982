package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathops/records-service/internal/domain"
)

const placementSelectSQL = `SELECT stu_id, version, academic_yr, exam_dt, start_time, finish_time, last_name, ` +
	`first_name, middle_initial, seq_nbr, serial_nbr, sts_a, sts_117, sts_118, sts_124, sts_125, sts_126, ` +
	`placed, how_validated FROM "stmpe"`

var placementColumns = []string{
	"stu_id", "version", "academic_yr", "exam_dt", "start_time", "finish_time", "last_name",
	"first_name", "middle_initial", "seq_nbr", "serial_nbr", "sts_a", "sts_117", "sts_118",
	"sts_124", "sts_125", "sts_126", "placed", "how_validated",
}

func placementRows(rows ...[3]interface{}) *pgxmock.Rows {
	out := pgxmock.NewRows(placementColumns)
	for i, r := range rows {
		out.AddRow(testStudent, "MPTUN", "2425", r[0], int32(480), int32(540+i), "DOE", "JANE", nil,
			nil, int64(1000+i), int32(5), nil, nil, nil, nil, nil, r[1], r[2])
	}
	return out
}

func TestPlacementAttemptRepository_CountLegalAttempts(t *testing.T) {
	mock, store, _ := newMockStore(t)
	repo := NewPlacementAttemptRepository(store)

	mock.ExpectQuery(exactSQL(placementSelectSQL+` WHERE stu_id = $1 AND version = $2 AND placed IN ($3, $4)`)).
		WithArgs(testStudent, "MPTUN", "Y", "N").
		WillReturnRows(placementRows(
			[3]interface{}{dbDate(2024, time.June, 1), "Y", "P"},
			[3]interface{}{dbDate(2024, time.June, 2), "N", "C"},
			[3]interface{}{dbDate(2024, time.June, 3), "N", "W"},
			[3]interface{}{dbDate(2024, time.June, 4), "Y", nil},
		))

	counts, err := repo.CountLegalAttempts(context.Background(), testStudent, "MPTUN")
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptCounts{Online: 2, Proctored: 2}, counts)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementAttemptRepository_GetHistory(t *testing.T) {
	mock, store, _ := newMockStore(t)
	repo := NewPlacementAttemptRepository(store)

	mock.ExpectQuery(exactSQL(placementSelectSQL+` WHERE exam_dt >= $1 AND placed IN ($2, $3) ORDER BY exam_dt, finish_time`)).
		WithArgs(dbDate(2024, time.June, 3), "Y", "N").
		WillReturnRows(placementRows(
			[3]interface{}{dbDate(2024, time.June, 4), "Y", nil},
			[3]interface{}{dbDate(2024, time.June, 4), "N", nil},
			[3]interface{}{dbDate(2024, time.June, 9), "N", nil},
		))

	history, err := repo.GetHistory(context.Background(), 5, date(2024, time.June, 7))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 0, 0, 0}, domain.BucketSizes(history))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlacementAttemptRepository_DeleteExamAndAnswers(t *testing.T) {
	attempt := domain.PlacementAttempt{
		StuID:      testStudent,
		Version:    "MPTUN",
		ExamDt:     date(2024, time.June, 4),
		FinishTime: 555,
	}
	deleteAttempt := exactSQL(`DELETE FROM "stmpe" WHERE version = $1 AND stu_id = $2 AND exam_dt = $3 AND finish_time = $4`)
	deleteAnswers := exactSQL(`DELETE FROM "stmpeqa" WHERE stu_id = $1 AND version = $2 AND exam_dt = $3 AND finish_time = $4`)

	t.Run("deletes attempt and answers in one transaction", func(t *testing.T) {
		mock, store, _ := newMockStore(t)
		ctx := context.Background()

		mock.ExpectBegin()
		mock.ExpectExec(deleteAttempt).
			WithArgs("MPTUN", testStudent, dbDate(2024, time.June, 4), int32(555)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(deleteAnswers).
			WithArgs(testStudent, "MPTUN", dbDate(2024, time.June, 4), int32(555)).
			WillReturnResult(pgxmock.NewResult("DELETE", 30))
		mock.ExpectCommit()

		tx, err := mock.Begin(ctx)
		require.NoError(t, err)
		ok, err := store.WithTx(tx).Repositories().PlacementAttempts.DeleteExamAndAnswers(ctx, attempt)
		require.NoError(t, err)
		assert.True(t, ok)
		require.NoError(t, tx.Commit(ctx))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("orphaned answers are still removed", func(t *testing.T) {
		mock, store, _ := newMockStore(t)
		repo := NewPlacementAttemptRepository(store)

		mock.ExpectExec(deleteAttempt).
			WithArgs("MPTUN", testStudent, dbDate(2024, time.June, 4), int32(555)).
			WillReturnResult(pgxmock.NewResult("DELETE", 0))
		mock.ExpectExec(deleteAnswers).
			WithArgs(testStudent, "MPTUN", dbDate(2024, time.June, 4), int32(555)).
			WillReturnResult(pgxmock.NewResult("DELETE", 4))

		ok, err := repo.DeleteExamAndAnswers(context.Background(), attempt)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("answer delete failure is returned", func(t *testing.T) {
		mock, store, _ := newMockStore(t)
		repo := NewPlacementAttemptRepository(store)

		mock.ExpectExec(deleteAttempt).
			WithArgs("MPTUN", testStudent, dbDate(2024, time.June, 4), int32(555)).
			WillReturnResult(pgxmock.NewResult("DELETE", 1))
		mock.ExpectExec(deleteAnswers).
			WithArgs(testStudent, "MPTUN", dbDate(2024, time.June, 4), int32(555)).
			WillReturnError(errors.New("lock timeout"))

		ok, err := repo.DeleteExamAndAnswers(context.Background(), attempt)
		assert.False(t, ok)
		assert.True(t, errors.Is(err, domain.ErrStorage))
	})
}

func TestPlacementAnswerRepository_Insert(t *testing.T) {
	mock, store, _ := newMockStore(t)
	repo := NewPlacementAnswerRepository(store)

	mock.ExpectExec(exactSQL(`INSERT INTO "stmpeqa" (stu_id, version, exam_dt, finish_time, question_nbr, stu_answer, ans_correct, subtest, tree_ref) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`)).
		WithArgs(testStudent, "MPTUN", dbDate(2024, time.June, 4), int32(555), int32(3), "B", "Y", nil, nil).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	ok, err := repo.Insert(context.Background(), domain.PlacementAnswer{
		StuID:       testStudent,
		Version:     "MPTUN",
		ExamDt:      date(2024, time.June, 4),
		FinishTime:  555,
		QuestionNbr: 3,
		StuAnswer:   strPtr("B"),
		AnsCorrect:  strPtr("Y"),
	})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}
