package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Veraticus/spice-ledger/internal/common"
	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

const maxBodyBytes = 1 << 16

type createRequest struct {
	Category string          `json:"category"`
	Amount   json.RawMessage `json:"amount"`
}

type createResponse struct {
	Message string `json:"message"`
	ID      int64  `json:"id"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.store.ListExpenses(r.Context())
	if err != nil {
		common.LogError(s.logger, err, "Failed to list expenses", nil)
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidBody)
		return
	}

	category := strings.TrimSpace(req.Category)
	amount, present, err := decodeAmount(req.Amount)
	if category == "" || !present {
		writeError(w, http.StatusBadRequest, MsgMissingFields)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidAmount)
		return
	}

	id, err := s.store.CreateExpense(r.Context(), category, amount)
	if err != nil {
		common.LogError(s.logger, err, "Failed to create expense", common.Fields{"category": category})
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}

	s.logger.Info("Expense created", "id", id, "category", category, "amount", amount.String())
	writeJSON(w, http.StatusCreated, createResponse{Message: MsgAdded, ID: id})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	expense, err := s.store.GetExpense(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, MsgNotFound)
			return
		}
		common.LogError(s.logger, err, "Failed to get expense", common.Fields{"id": id})
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}
	writeJSON(w, http.StatusOK, expense)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := expenseID(w, r)
	if !ok {
		return
	}

	if err := s.store.DeleteExpense(r.Context(), id); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, MsgNotFound)
			return
		}
		common.LogError(s.logger, err, "Failed to delete expense", common.Fields{"id": id})
		writeError(w, http.StatusInternalServerError, MsgInternal)
		return
	}

	s.logger.Info("Expense deleted", "id", id)
	writeJSON(w, http.StatusOK, messageResponse{Message: MsgDeleted})
}

// expenseID reads the {id} path variable, writing a 400 when it is not an
// integer.
func expenseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, MsgInvalidID)
		return 0, false
	}
	return id, true
}

// decodeAmount accepts the amount as a JSON string or number. present is
// false for a missing, null or blank amount.
func decodeAmount(raw json.RawMessage) (amount decimal.Decimal, present bool, err error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, false, nil
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return decimal.Zero, true, err
		}
		if strings.TrimSpace(text) == "" {
			return decimal.Zero, false, nil
		}
	} else {
		text = string(raw)
	}

	amount, err = model.ParseAmount(text)
	return amount, true, err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
