package http

import (
	"errors"
	"net/http"
	"sort"

	"expenses/internal/core"
	"expenses/internal/ledger"
	"expenses/internal/report"
)

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	l := s.svc.Ledger()

	var list []core.Expense
	if category := sanitizeInput(r.URL.Query().Get("category")); category != "" {
		var err error
		list, err = l.ByCategorySortedByDateDescending(category)
		if errors.Is(err, ledger.ErrCategoryNotFound) {
			writeError(w, r, http.StatusNotFound, err.Error())
			return
		}
	} else {
		list = l.AllSortedByDateDescending()
	}

	writeJSON(w, r, http.StatusOK, report.Rows(list, s.symbol))
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	in, err := parseExpenseInput(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	e, err := s.svc.AddFromInput(r.Context(), in.Amount, in.Category, in.Description, in.Date)
	switch {
	case errors.Is(err, core.ErrInvalidAmount):
		writeError(w, r, http.StatusUnprocessableEntity, "Please enter a valid positive amount")
		return
	case errors.Is(err, core.ErrEmptyCategory):
		writeError(w, r, http.StatusUnprocessableEntity, "Please select a category")
		return
	case errors.Is(err, core.ErrTextTooLong):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())
		return
	case errors.Is(err, core.ErrInvalidDate):
		writeError(w, r, http.StatusUnprocessableEntity, "Please enter a date as YYYY-MM-DD")
		return
	case err != nil:
		writeError(w, r, http.StatusInternalServerError, "failed to add expense")
		return
	}

	writeJSON(w, r, http.StatusCreated, report.Rows([]core.Expense{e}, s.symbol)[0])
}

func (s *Server) handleDeleteMatching(w http.ResponseWriter, r *http.Request) {
	in, err := parseExpenseInput(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}

	removed, err := s.svc.DeleteMatching(r.Context(), in.Category, in.Description, in.Date)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	if !removed {
		writeError(w, r, http.StatusNotFound, "no matching expense")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteByID(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.svc.DeleteByID(r.Context(), r.PathValue("id")); !ok {
		writeError(w, r, http.StatusNotFound, "expense not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type categoriesResponse struct {
	Present   []string `json:"present"`
	Suggested []string `json:"suggested"`
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	present := s.svc.Ledger().Categories()
	sort.Strings(present)
	writeJSON(w, r, http.StatusOK, categoriesResponse{
		Present:   present,
		Suggested: core.SuggestedCategories,
	})
}
