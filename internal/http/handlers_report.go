package http

import (
	"bytes"
	"net/http"

	"expenses/internal/cache"
	"expenses/internal/report"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(report.RenderSummary(s.svc.Summary(), s.symbol)))
}

func (s *Server) handleSummaryExport(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="summary.txt"`)
	_, _ = w.Write([]byte(report.RenderSummary(s.svc.Summary(), s.symbol) + "\n"))
}

// rendered returns the cached bytes of view for the current ledger revision.
func (s *Server) rendered(view string, render func(*bytes.Buffer) error) ([]byte, error) {
	key := cache.ViewKey{View: view, Revision: s.svc.Ledger().Revision()}
	return s.renders.GetOrCompute(key, func() ([]byte, error) {
		var buf bytes.Buffer
		if err := render(&buf); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	})
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	body, err := s.rendered("chart.svg", func(buf *bytes.Buffer) error {
		return renderPieSVG(buf, report.NewPieChart(s.svc.Summary(), s.symbol))
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "Chart render failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to render chart")
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(body)
}

func (s *Server) handleXLSX(w http.ResponseWriter, r *http.Request) {
	body, err := s.rendered("export.xlsx", func(buf *bytes.Buffer) error {
		l := s.svc.Ledger()
		return report.WriteXLSX(buf, l.AllSortedByDateDescending(), l.Summary())
	})
	if err != nil {
		s.logger.ErrorContext(r.Context(), "XLSX export failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "failed to export workbook")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="expenses.xlsx"`)
	_, _ = w.Write(body)
}
