package handlers

import (
	"net/http"

	"finance-tracker/internal/finance"
)

// Dashboard returns the caller's goal and all of their transactions.
func (h *Handlers) Dashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := h.finance.GetDashboard(r.Context(), IdentityFromContext(r))
	if err != nil {
		writeError(w, "GetDashboard", err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

// GetGoal returns the caller's goal.
func (h *Handlers) GetGoal(w http.ResponseWriter, r *http.Request) {
	goal, err := h.finance.GetGoal(r.Context(), IdentityFromContext(r))
	if err != nil {
		writeError(w, "GetGoal", err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// SaveGoal creates or replaces the caller's goal.
func (h *Handlers) SaveGoal(w http.ResponseWriter, r *http.Request) {
	var in finance.GoalInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	goal, err := h.finance.SaveGoal(r.Context(), IdentityFromContext(r), in)
	if err != nil {
		writeError(w, "SaveGoal", err)
		return
	}
	writeJSON(w, http.StatusOK, goal)
}

// DeleteGoal removes the caller's goal and every transaction they own.
func (h *Handlers) DeleteGoal(w http.ResponseWriter, r *http.Request) {
	if err := h.finance.DeleteGoal(r.Context(), IdentityFromContext(r)); err != nil {
		writeError(w, "DeleteGoal", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RecordTransaction stores a new transaction dated today.
func (h *Handlers) RecordTransaction(w http.ResponseWriter, r *http.Request) {
	var in finance.TransactionInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Invalid request body"})
		return
	}

	t, err := h.finance.RecordTransaction(r.Context(), IdentityFromContext(r), in)
	if err != nil {
		writeError(w, "RecordTransaction", err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

// TodayTransactions lists the caller's transactions dated today.
func (h *Handlers) TodayTransactions(w http.ResponseWriter, r *http.Request) {
	transactions, err := h.finance.ListToday(r.Context(), IdentityFromContext(r))
	if err != nil {
		writeError(w, "ListToday", err)
		return
	}
	writeJSON(w, http.StatusOK, transactions)
}

// Summary returns income and expense totals, spending per category and
// progress towards the goal.
func (h *Handlers) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.finance.GetSummary(r.Context(), IdentityFromContext(r))
	if err != nil {
		writeError(w, "GetSummary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
