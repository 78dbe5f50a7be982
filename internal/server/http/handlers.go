package httpserver

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5"

	"github.com/mathops/records-service/internal/database"
	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/observability"
)

// Validation constants.
const (
	defaultHistoryDays = 7
	maxHistoryDays     = 366
	maxHistoryCourses  = 20
	maxRequestBodySize = 1 << 16 // 64 KB limit for request bodies
)

// updateParmRequest is the JSON request body for a parameter update. A
// null value clears the parameter.
type updateParmRequest struct {
	Value *string `json:"value"`
}

// listStudentExams handles GET /students/{stuID}/exams.
func (s *Server) listStudentExams(w http.ResponseWriter, r *http.Request) {
	stuID := chi.URLParam(r, "stuID")
	ctx := observability.WithStudentID(r.Context(), stuID)
	logger := observability.LoggerFromContext(ctx, s.logger)

	all, err := parseBool(r.URL.Query().Get("all"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "all must be a boolean")
		return
	}

	var exams []domain.StudentExam
	if course := r.URL.Query().Get("course"); course != "" {
		exams, err = s.repos.StudentExams.QueryByStudentCourse(ctx, stuID, course, all)
	} else {
		exams, err = s.repos.StudentExams.QueryByStudent(ctx, stuID, all)
	}
	if err != nil {
		writeRepositoryError(w, logger, err)
		return
	}

	writeJSON(w, http.StatusOK, listExamsResponse{
		Exams:      domainExamsToResponse(exams),
		TotalCount: len(exams),
	})
}

// examHistory handles GET /exams/history. The response carries one bucket
// per day, oldest first, ending on today.
func (s *Server) examHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx, s.logger)
	q := r.URL.Query()

	days := defaultHistoryDays
	if v := q.Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxHistoryDays {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("days must be between 1 and %d", maxHistoryDays))
			return
		}
		days = n
	}

	today := civil.DateOf(time.Now())
	if v := q.Get("today"); v != "" {
		d, err := civil.ParseDate(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid today format: expected YYYY-MM-DD")
			return
		}
		today = d
	}

	courses := q["course"]
	if len(courses) == 0 {
		writeError(w, http.StatusBadRequest, "at least one course is required")
		return
	}
	if len(courses) > maxHistoryCourses {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("at most %d courses may be requested", maxHistoryCourses))
		return
	}

	history, err := s.repos.StudentExams.GetHistory(ctx, days, today, courses...)
	if err != nil {
		writeRepositoryError(w, logger, err)
		return
	}

	buckets := make([][]examResponse, len(history))
	for i, b := range history {
		buckets[i] = domainExamsToResponse(b)
	}
	writeJSON(w, http.StatusOK, historyResponse{
		Days:    days,
		Today:   today,
		Courses: courses,
		Sizes:   domain.BucketSizes(history),
		Buckets: buckets,
	})
}

// countPlacementAttempts handles GET /students/{stuID}/placement/attempts.
func (s *Server) countPlacementAttempts(w http.ResponseWriter, r *http.Request) {
	stuID := chi.URLParam(r, "stuID")
	ctx := observability.WithStudentID(r.Context(), stuID)
	logger := observability.LoggerFromContext(ctx, s.logger)

	version := r.URL.Query().Get("version")
	if version == "" {
		writeError(w, http.StatusBadRequest, "version is required")
		return
	}

	counts, err := s.repos.PlacementAttempts.CountLegalAttempts(ctx, stuID, version)
	if err != nil {
		writeRepositoryError(w, logger, err)
		return
	}

	writeJSON(w, http.StatusOK, placementCountsResponse{
		StuID:     stuID,
		Version:   version,
		Online:    counts.Online,
		Proctored: counts.Proctored,
	})
}

// getParameters handles GET /parameters/{pgmName}.
func (s *Server) getParameters(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx, s.logger)
	pgmName := chi.URLParam(r, "pgmName")

	p, err := s.repos.Parameters.Query(ctx, pgmName)
	if err != nil {
		writeRepositoryError(w, logger, err)
		return
	}
	if p == nil {
		writeError(w, http.StatusNotFound, "parameters not found")
		return
	}

	writeJSON(w, http.StatusOK, domainParametersToResponse(*p))
}

// updateParameter handles PUT /parameters/{pgmName}/parm/{n}. The program
// row is read and the single column rewritten in one transaction.
func (s *Server) updateParameter(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx, s.logger)
	pgmName := chi.URLParam(r, "pgmName")

	n, err := strconv.Atoi(chi.URLParam(r, "n"))
	if err != nil || n < 1 || n > domain.NumParameters {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("parameter number must be between 1 and %d", domain.NumParameters))
		return
	}

	defer r.Body.Close()
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBodySize))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	var req updateParmRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}

	var value interface{} = req.Value
	if n == domain.NumParameters && req.Value != nil {
		d, err := civil.ParseDate(*req.Value)
		if err != nil {
			writeError(w, http.StatusBadRequest, "parm10 must be a date: expected YYYY-MM-DD")
			return
		}
		value = d
	}

	var updated bool
	err = database.RunInTx(ctx, s.pool, pgx.TxOptions{}, logger, func(tx pgx.Tx) error {
		repo := s.store.WithTx(tx).Repositories().Parameters
		p, err := repo.Query(ctx, pgmName)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewNotFoundError("parameters", pgmName)
		}
		updated, err = repo.UpdateParm(ctx, *p, n, value)
		return err
	})
	if err != nil {
		writeRepositoryError(w, logger, err)
		return
	}

	logger.Info().Str("pgm_name", pgmName).Int("parm", n).Bool("updated", updated).Msg("parameter updated")
	writeJSON(w, http.StatusOK, updatedResponse{Updated: updated})
}

// listCalendar handles GET /calendar. Without a type every entry is returned.
func (s *Server) listCalendar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx, s.logger)

	var (
		days []domain.CampusCalendar
		err  error
	)
	if dtDesc := strings.TrimSpace(r.URL.Query().Get("type")); dtDesc != "" {
		days, err = s.repos.Calendar.QueryByType(ctx, dtDesc)
	} else {
		days, err = s.repos.Calendar.QueryAll(ctx)
	}
	if err != nil {
		writeRepositoryError(w, logger, err)
		return
	}

	out := make([]calendarResponse, len(days))
	for i, d := range days {
		out[i] = domainCalendarToResponse(d)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"days":        out,
		"total_count": len(out),
	})
}

// deleteHomeworkAnswers handles DELETE /homework/{serial}/answers.
func (s *Server) deleteHomeworkAnswers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := observability.LoggerFromContext(ctx, s.logger)

	serial, err := strconv.ParseInt(chi.URLParam(r, "serial"), 10, 64)
	if err != nil || serial <= 0 {
		writeError(w, http.StatusBadRequest, "serial must be a positive integer")
		return
	}

	var deleted bool
	err = database.RunInTx(ctx, s.pool, pgx.TxOptions{}, logger, func(tx pgx.Tx) error {
		var err error
		deleted, err = s.store.WithTx(tx).Repositories().HomeworkAnswers.DeleteAllForSerial(ctx, serial)
		return err
	})
	if err != nil {
		writeRepositoryError(w, logger, err)
		return
	}

	logger.Info().Int64("serial_nbr", serial).Msg("homework answers deleted")
	writeJSON(w, http.StatusOK, deletedResponse{Deleted: deleted})
}

func parseBool(s string) (bool, error) {
	if s == "" {
		return false, nil
	}
	return strconv.ParseBool(s)
}
