package httpserver

import (
	"errors"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/schema"
)

// Response types for JSON serialization.

type examResponse struct {
	SerialNbr     int64      `json:"serial_nbr"`
	Version       string     `json:"version"`
	StuID         string     `json:"stu_id"`
	ExamDt        civil.Date `json:"exam_dt"`
	ExamScore     *int32     `json:"exam_score,omitempty"`
	MasteryScore  *int32     `json:"mastery_score,omitempty"`
	StartTime     *int32     `json:"start_time,omitempty"`
	FinishTime    *int32     `json:"finish_time,omitempty"`
	Passed        string     `json:"passed"`
	Course        string     `json:"course"`
	Unit          int32      `json:"unit"`
	ExamType      string     `json:"exam_type"`
	IsFirstPassed *string    `json:"is_first_passed,omitempty"`
}

type listExamsResponse struct {
	Exams      []examResponse `json:"exams"`
	TotalCount int            `json:"total_count"`
}

type historyResponse struct {
	Days    int              `json:"days"`
	Today   civil.Date       `json:"today"`
	Courses []string         `json:"courses"`
	Sizes   []int            `json:"sizes"`
	Buckets [][]examResponse `json:"buckets"`
}

type placementCountsResponse struct {
	StuID     string `json:"stu_id"`
	Version   string `json:"version"`
	Online    int    `json:"online"`
	Proctored int    `json:"proctored"`
}

type parametersResponse struct {
	PgmName string      `json:"pgm_name"`
	Parm1   *string     `json:"parm1"`
	Parm2   *string     `json:"parm2"`
	Parm3   *string     `json:"parm3"`
	Parm4   *string     `json:"parm4"`
	Parm5   *string     `json:"parm5"`
	Parm6   *string     `json:"parm6"`
	Parm7   *string     `json:"parm7"`
	Parm8   *string     `json:"parm8"`
	Parm9   *string     `json:"parm9"`
	Parm10  *civil.Date `json:"parm10"`
}

type calendarResponse struct {
	CampusDt   civil.Date `json:"campus_dt"`
	DtDesc     string     `json:"dt_desc"`
	OpenTime1  *string    `json:"open_time1,omitempty"`
	OpenTime2  *string    `json:"open_time2,omitempty"`
	OpenTime3  *string    `json:"open_time3,omitempty"`
	CloseTime1 *string    `json:"close_time1,omitempty"`
	CloseTime2 *string    `json:"close_time2,omitempty"`
	CloseTime3 *string    `json:"close_time3,omitempty"`
	Weekdays1  *string    `json:"weekdays_1,omitempty"`
	Weekdays2  *string    `json:"weekdays_2,omitempty"`
	Weekdays3  *string    `json:"weekdays_3,omitempty"`
}

type updatedResponse struct {
	Updated bool `json:"updated"`
}

type deletedResponse struct {
	Deleted bool `json:"deleted"`
}

// Converter functions

func domainExamToResponse(e domain.StudentExam) examResponse {
	return examResponse{
		SerialNbr:     e.SerialNbr,
		Version:       e.Version,
		StuID:         e.StuID,
		ExamDt:        e.ExamDt,
		ExamScore:     e.ExamScore,
		MasteryScore:  e.MasteryScore,
		StartTime:     e.StartTime,
		FinishTime:    e.FinishTime,
		Passed:        e.Passed,
		Course:        e.Course,
		Unit:          e.Unit,
		ExamType:      e.ExamType,
		IsFirstPassed: e.IsFirstPassed,
	}
}

func domainExamsToResponse(exams []domain.StudentExam) []examResponse {
	out := make([]examResponse, len(exams))
	for i, e := range exams {
		out[i] = domainExamToResponse(e)
	}
	return out
}

func domainParametersToResponse(p domain.Parameters) parametersResponse {
	return parametersResponse{
		PgmName: p.PgmName,
		Parm1:   p.Parm1,
		Parm2:   p.Parm2,
		Parm3:   p.Parm3,
		Parm4:   p.Parm4,
		Parm5:   p.Parm5,
		Parm6:   p.Parm6,
		Parm7:   p.Parm7,
		Parm8:   p.Parm8,
		Parm9:   p.Parm9,
		Parm10:  p.Parm10,
	}
}

func domainCalendarToResponse(c domain.CampusCalendar) calendarResponse {
	return calendarResponse{
		CampusDt:   c.CampusDt,
		DtDesc:     c.DtDesc,
		OpenTime1:  c.OpenTime1,
		OpenTime2:  c.OpenTime2,
		OpenTime3:  c.OpenTime3,
		CloseTime1: c.CloseTime1,
		CloseTime2: c.CloseTime2,
		CloseTime3: c.CloseTime3,
		Weekdays1:  c.Weekdays1,
		Weekdays2:  c.Weekdays2,
		Weekdays3:  c.Weekdays3,
	}
}

// writeRepositoryError maps a repository error onto an HTTP status.
func writeRepositoryError(w http.ResponseWriter, logger zerolog.Logger, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, schema.ErrSchemaUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, domain.ErrConstraintViolation):
		writeError(w, http.StatusConflict, err.Error())
	default:
		logger.Error().Err(err).Msg("repository operation failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
