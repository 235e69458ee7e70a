// Package api exposes the portal's HTTP surface: authentication, the
// package catalog, the per-session cart with discount application, checkout,
// and the customer/transaction views. Domain notices raised while handling
// a request are collected and returned in the response body for the UI to
// render.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/wicaksana/paket-portal/internal/domain/cart"
	"github.com/wicaksana/paket-portal/internal/domain/catalog"
	"github.com/wicaksana/paket-portal/internal/domain/checkout"
	"github.com/wicaksana/paket-portal/internal/domain/customer"
	"github.com/wicaksana/paket-portal/internal/domain/transaction"
	"github.com/wicaksana/paket-portal/internal/domain/user"
	"github.com/wicaksana/paket-portal/internal/notify"
	"github.com/wicaksana/paket-portal/internal/session"
)

// CustomerDirectory lists customer profiles for the admin view.
type CustomerDirectory interface {
	List(ctx context.Context) ([]customer.Customer, error)
}

// Handler wires the domain services to HTTP routes.
type Handler struct {
	sessions     *session.Store
	packages     catalog.Repository
	customers    CustomerDirectory
	transactions transaction.Repository
	carts        *cart.Hub
	checkout     *checkout.Service
}

// NewHandler constructs a Handler with the required dependencies.
func NewHandler(
	sessions *session.Store,
	packages catalog.Repository,
	customers CustomerDirectory,
	transactions transaction.Repository,
	carts *cart.Hub,
	checkoutSvc *checkout.Service,
) *Handler {
	return &Handler{
		sessions:     sessions,
		packages:     packages,
		customers:    customers,
		transactions: transactions,
		carts:        carts,
		checkout:     checkoutSvc,
	}
}

// Register mounts all portal routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/auth/login", h.handleLogin)
	mux.HandleFunc("POST /api/auth/logout", h.handleLogout)

	mux.HandleFunc("GET /api/packages", h.handleListPackages)
	mux.HandleFunc("POST /api/packages", h.handleCreatePackage)
	mux.HandleFunc("PUT /api/packages/{id}", h.handleUpdatePackage)
	mux.HandleFunc("DELETE /api/packages/{id}", h.handleDeletePackage)

	mux.HandleFunc("GET /api/cart", h.handleGetCart)
	mux.HandleFunc("POST /api/cart/items", h.handleAddToCart)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.handleRemoveFromCart)
	mux.HandleFunc("DELETE /api/cart", h.handleClearCart)
	mux.HandleFunc("POST /api/cart/discount", h.handleApplyDiscount)

	mux.HandleFunc("POST /api/checkout", h.handleCheckout)

	mux.HandleFunc("GET /api/transactions", h.handleListTransactions)
	mux.HandleFunc("GET /api/customers", h.handleListCustomers)
}

// envelope is the uniform response body: payload plus collected notices.
type envelope struct {
	Data    any             `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Notices []notify.Notice `json:"notices,omitempty"`
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		zctx.From(r.Context()).Error("encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string, sink *notify.Collector) {
	body := envelope{Error: msg}
	if sink != nil {
		body.Notices = sink.Notices()
	}
	writeJSON(w, r, status, body)
}

func decodeBody(w http.ResponseWriter, r *http.Request, out any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(out)
}

// bearerToken extracts the session token from the Authorization header.
func bearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(auth, prefix) {
		return ""
	}
	return strings.TrimSpace(auth[len(prefix):])
}

// currentUser resolves the authenticated user, writing a 401 on failure.
func (h *Handler) currentUser(w http.ResponseWriter, r *http.Request) (user.User, bool) {
	token := bearerToken(r)
	if token == "" {
		writeError(w, r, http.StatusUnauthorized, "authentication required", nil)
		return user.User{}, false
	}
	u, err := h.sessions.Resolve(token)
	if err != nil {
		writeError(w, r, http.StatusUnauthorized, "session expired or invalid", nil)
		return user.User{}, false
	}
	return u, true
}

// requireAdmin resolves the authenticated user and enforces the admin role.
func (h *Handler) requireAdmin(w http.ResponseWriter, r *http.Request) (user.User, bool) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return user.User{}, false
	}
	if u.Role != user.RoleAdmin {
		writeError(w, r, http.StatusForbidden, "admin access required", nil)
		return user.User{}, false
	}
	return u, true
}
