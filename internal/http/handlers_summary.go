package http

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"ledger/internal/log"
	"ledger/internal/report"
)

func (s *Server) handleTotals(w http.ResponseWriter, r *http.Request) {
	from, to, err := ParseRange(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	NewJSONResponse().JSON(s.app.Totals(from, to)).Write(w)
}

func (s *Server) handleMonths(w http.ResponseWriter, r *http.Request) {
	from, to, err := ParseRange(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	NewJSONResponse().JSON(s.app.Months(from, to)).Write(w)
}

func (s *Server) handleDays(w http.ResponseWriter, r *http.Request) {
	from, to, err := ParseRange(r.URL.Query())
	if err != nil {
		BadRequestError(err.Error()).Write(w)
		return
	}
	NewJSONResponse().JSON(s.app.Days(from, to)).Write(w)
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	NewJSONResponse().JSON(s.app.Years()).Write(w)
}

// handleReport serves the XLSX workbook of ?year= (default: current year).
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	year := time.Now().Year()
	if v := strings.TrimSpace(r.URL.Query().Get("year")); v != "" {
		y, err := parseYear(v)
		if err != nil {
			BadRequestError(err.Error()).Write(w)
			return
		}
		year = y
	}

	b, err := s.app.YearReport(year)
	if err != nil {
		log.LogError(r.Context(), log.FromContext(r.Context()), "Report generation failed", err, log.ErrorTypeInternal, log.OpReport)
		InternalServerError("report generation failed").Write(w)
		return
	}
	NewJSONResponse().
		Header("Content-Disposition", `attachment; filename="`+report.FileName(year)+`"`).
		Header("Content-Length", strconv.Itoa(len(b))).
		Bytes("application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", b).
		Write(w)
}
