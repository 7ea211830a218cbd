package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"lancamentos/internal/core"
)

type entryPayload struct {
	ID            int64  `json:"id"`
	OccurredOn    string `json:"occurred_on"`
	Kind          string `json:"kind"`
	Label         string `json:"label"`
	Amount        string `json:"amount"`
	AmountDisplay string `json:"amount_display"`
	Period        string `json:"period"`
}

type createEntryRequest struct {
	OccurredOn string `json:"occurred_on"`
	Kind       string `json:"kind"`
	Label      string `json:"label"`
	Amount     string `json:"amount"`
	Period     string `json:"period"`
}

type deleteEntriesRequest struct {
	IDs []int64 `json:"ids"`
}

type summaryPayload struct {
	Period         string `json:"period"`
	OpeningBalance string `json:"opening_balance"`
	IncomeTotal    string `json:"income_total"`
	ExpenseTotal   string `json:"expense_total"`
	ClosingBalance string `json:"closing_balance"`
}

func toEntryPayload(e core.Entry) entryPayload {
	return entryPayload{
		ID:            e.ID,
		OccurredOn:    e.OccurredOn.ISO(),
		Kind:          string(e.Kind),
		Label:         e.Label,
		Amount:        e.Amount.Decimal(),
		AmountDisplay: core.FormatReais(e.Amount.Cents),
		Period:        e.Period.String(),
	}
}

// handlePeriods returns the twelve period keys of the requested year, the
// list the month selector is built from.
func (s *Server) handlePeriods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	year, err := parseYearParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	periods := core.MonthsOfYear(year)
	keys := make([]string, len(periods))
	for i, p := range periods {
		keys[i] = p.String()
	}
	writeJSON(w, http.StatusOK, map[string]any{"year": year, "periods": keys})
}

func (s *Server) handleEntries(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListEntries(w, r)
	case http.MethodPost:
		s.handleCreateEntry(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleListEntries(w http.ResponseWriter, r *http.Request) {
	period, err := parsePeriodParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period: use YYYY-MM")
		return
	}

	entries, err := s.svc.EntriesFor(r.Context(), period)
	if err != nil {
		slog.ErrorContext(r.Context(), "List entries error", "error", err, "period", period.String())
		writeError(w, http.StatusInternalServerError, "failed to load entries")
		return
	}

	payload := make([]entryPayload, len(entries))
	for i, e := range entries {
		payload[i] = toEntryPayload(e)
	}
	writeJSON(w, http.StatusOK, map[string]any{"period": period.String(), "entries": payload})
}

func (s *Server) handleCreateEntry(w http.ResponseWriter, r *http.Request) {
	var req createEntryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	occurredOn := core.Date{Time: time.Now().UTC().Truncate(24 * time.Hour)}
	if v := strings.TrimSpace(req.OccurredOn); v != "" {
		var err error
		if occurredOn, err = core.ParseDate(v); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid occurred_on: use YYYY-MM-DD")
			return
		}
	}

	period := core.CurrentPeriod()
	if v := strings.TrimSpace(req.Period); v != "" {
		var err error
		if period, err = core.ParsePeriod(v); err != nil {
			writeError(w, http.StatusUnprocessableEntity, "invalid period: use YYYY-MM")
			return
		}
	}

	cents, err := core.ParseDecimalToCents(req.Amount)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid amount: must be a positive decimal")
		return
	}

	draft := core.Draft{
		OccurredOn: occurredOn,
		Kind:       core.EntryKind(sanitizeInput(req.Kind)),
		Label:      sanitizeInput(req.Label),
		Amount:     core.Money{Cents: cents},
		Period:     period,
	}

	id, err := s.svc.AddEntry(r.Context(), draft)
	if err != nil {
		if isValidationError(err) {
			writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Create entry error", "error", err, "label", draft.Label)
		writeError(w, http.StatusInternalServerError, "failed to save entry")
		return
	}

	e := core.Entry{
		ID:         id,
		OccurredOn: draft.OccurredOn,
		Kind:       draft.Kind,
		Label:      draft.Label,
		Amount:     draft.Amount,
		Period:     draft.Period,
	}
	writeJSON(w, http.StatusCreated, toEntryPayload(e))
}

func (s *Server) handleDeleteEntries(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost && r.Method != http.MethodDelete {
		w.Header().Set("Allow", "POST, DELETE")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var req deleteEntriesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if err := s.svc.Remove(r.Context(), req.IDs); err != nil {
		slog.ErrorContext(r.Context(), "Delete entries error", "error", err, "ids", req.IDs)
		writeError(w, http.StatusInternalServerError, "failed to delete entries")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"deleted": req.IDs})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	period, err := parsePeriodParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid period: use YYYY-MM")
		return
	}

	sum, err := s.svc.SummaryFor(r.Context(), period)
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary error", "error", err, "period", period.String())
		writeError(w, http.StatusInternalServerError, "failed to compute summary")
		return
	}

	writeJSON(w, http.StatusOK, summaryPayload{
		Period:         sum.Period.String(),
		OpeningBalance: core.Money{Cents: sum.OpeningCents}.Decimal(),
		IncomeTotal:    core.Money{Cents: sum.IncomeCents}.Decimal(),
		ExpenseTotal:   core.Money{Cents: sum.ExpenseCents}.Decimal(),
		ClosingBalance: core.Money{Cents: sum.ClosingCents}.Decimal(),
	})
}

func isValidationError(err error) bool {
	return errors.Is(err, core.ErrEmptyLabel) ||
		errors.Is(err, core.ErrInvalidAmount) ||
		errors.Is(err, core.ErrInvalidKind) ||
		errors.Is(err, core.ErrInvalidPeriod) ||
		errors.Is(err, core.ErrInvalidDate)
}
