// Package backend implements the generic REST-style data service the portal
// delegates all persistence to. It serves four verbs over fixed resource
// collections, json-server style: list endpoints accept equality filters as
// query parameters, creates return the stored record with its assigned id.
package backend

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"

	"github.com/wicaksana/paket-portal/internal/storage/postgres"
)

// Server exposes the resource collections over HTTP.
type Server struct {
	packages     *postgres.PackageStore
	customers    *postgres.CustomerStore
	transactions *postgres.TransactionStore
	users        *postgres.UserStore
}

// NewServer constructs a Server over the given stores.
func NewServer(
	packages *postgres.PackageStore,
	customers *postgres.CustomerStore,
	transactions *postgres.TransactionStore,
	users *postgres.UserStore,
) *Server {
	return &Server{
		packages:     packages,
		customers:    customers,
		transactions: transactions,
		users:        users,
	}
}

// Register mounts all collection routes on mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /packages", s.listPackages)
	mux.HandleFunc("POST /packages", s.createPackage)
	mux.HandleFunc("PUT /packages/{id}", s.updatePackage)
	mux.HandleFunc("DELETE /packages/{id}", s.deletePackage)

	mux.HandleFunc("GET /customers", s.listCustomers)
	mux.HandleFunc("POST /customers", s.createCustomer)

	mux.HandleFunc("GET /transactions", s.listTransactions)
	mux.HandleFunc("POST /transactions", s.createTransaction)

	mux.HandleFunc("GET /users", s.listUsers)
}

func (s *Server) listPackages(w http.ResponseWriter, r *http.Request) {
	id, ok := queryInt64(w, r, "id")
	if !ok {
		return
	}
	rows, err := s.packages.List(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}

func (s *Server) createPackage(w http.ResponseWriter, r *http.Request) {
	var row postgres.PackageRow
	if !decodeRecord(w, r, &row) {
		return
	}
	created, err := s.packages.Insert(r.Context(), row)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) updatePackage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		badRequest(w, r, "invalid id")
		return
	}
	var row postgres.PackageRow
	if !decodeRecord(w, r, &row) {
		return
	}
	row.ID = id
	updated, err := s.packages.Update(r.Context(), row)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, updated)
}

func (s *Server) deletePackage(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		badRequest(w, r, "invalid id")
		return
	}
	if err := s.packages.Delete(r.Context(), id); err != nil {
		s.storeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listCustomers(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(w, r, "userId")
	if !ok {
		return
	}
	email := queryString(r, "email")
	rows, err := s.customers.List(r.Context(), userID, email)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}

func (s *Server) createCustomer(w http.ResponseWriter, r *http.Request) {
	var row postgres.CustomerRow
	if !decodeRecord(w, r, &row) {
		return
	}
	created, err := s.customers.Insert(r.Context(), row)
	if err != nil {
		// The unique index on user_id backs the one-customer-per-user
		// invariant; surface races as a conflict rather than a 500.
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			writeJSON(w, r, http.StatusConflict, map[string]string{
				"error": "customer already exists for this user",
			})
			return
		}
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) listTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryInt64(w, r, "userId")
	if !ok {
		return
	}
	rows, err := s.transactions.List(r.Context(), userID)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}

func (s *Server) createTransaction(w http.ResponseWriter, r *http.Request) {
	var row postgres.TransactionRow
	if !decodeRecord(w, r, &row) {
		return
	}
	created, err := s.transactions.Insert(r.Context(), row)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) listUsers(w http.ResponseWriter, r *http.Request) {
	email := queryString(r, "email")
	password := queryString(r, "password")
	rows, err := s.users.List(r.Context(), email, password)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, rows)
}

func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, postgres.ErrNoRecord) {
		writeJSON(w, r, http.StatusNotFound, map[string]string{"error": "record not found"})
		return
	}
	zctx.From(r.Context()).Error("storage error", zap.Error(err))
	writeJSON(w, r, http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func decodeRecord(w http.ResponseWriter, r *http.Request, out any) bool {
	defer r.Body.Close()
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20)).Decode(out); err != nil {
		badRequest(w, r, "invalid JSON body")
		return false
	}
	return true
}

func badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	writeJSON(w, r, http.StatusBadRequest, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Error("encode response", zap.Error(err))
	}
}

// queryInt64 parses an optional int64 query parameter, writing a 400 on a
// malformed value.
func queryInt64(w http.ResponseWriter, r *http.Request, key string) (*int64, bool) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		badRequest(w, r, "invalid "+key+" filter")
		return nil, false
	}
	return &v, true
}

func queryString(r *http.Request, key string) *string {
	if !r.URL.Query().Has(key) {
		return nil
	}
	v := r.URL.Query().Get(key)
	return &v
}
