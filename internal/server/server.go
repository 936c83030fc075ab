// Package server is a reference implementation of the expense HTTP API,
// backed by SQL storage. It exists so the client can be run end to end.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/spice-ledger/internal/model"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

// Response messages. Clients show the error strings verbatim.
const (
	MsgMissingFields = "Missing required fields: category and amount"
	MsgInvalidAmount = "Amount must be a non-negative number"
	MsgInvalidBody   = "Request body must be a JSON object"
	MsgInvalidID     = "Invalid expense id"
	MsgNotFound      = "Expense not found"
	MsgAdded         = "Expense added successfully"
	MsgDeleted       = "Expense deleted successfully"
	MsgInternal      = "Internal server error"

	MsgMethodNotAllowed = "Method not allowed"
	MsgNoRoute          = "Not found"
)

const (
	readTimeout     = 10 * time.Second
	writeTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// ExpenseStore is the persistence the server needs.
type ExpenseStore interface {
	ListExpenses(ctx context.Context) ([]model.Expense, error)
	GetExpense(ctx context.Context, id int64) (*model.Expense, error)
	CreateExpense(ctx context.Context, category string, amount decimal.Decimal) (int64, error)
	DeleteExpense(ctx context.Context, id int64) error
}

// Server serves /api/expenses.
type Server struct {
	store  ExpenseStore
	logger *slog.Logger
	router *mux.Router
}

// New creates a server over store.
func New(store ExpenseStore, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		store:  store,
		logger: logger,
		router: mux.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(requestLogger(s.logger))

	s.router.HandleFunc("/api/expenses", s.handleList).Methods(http.MethodGet)
	s.router.HandleFunc("/api/expenses", s.handleCreate).Methods(http.MethodPost)
	s.router.HandleFunc("/api/expenses/{id}", s.handleGet).Methods(http.MethodGet)
	s.router.HandleFunc("/api/expenses/{id}", s.handleDelete).Methods(http.MethodDelete)

	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, MsgMethodNotAllowed)
	})
	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, MsgNoRoute)
	})
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
