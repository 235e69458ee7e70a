package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/wicaksana/paket-portal/internal/domain/customer"
	"github.com/wicaksana/paket-portal/internal/domain/transaction"
	"github.com/wicaksana/paket-portal/internal/domain/user"
)

// handleListTransactions serves the customer dashboard (own transactions)
// and the admin transactions table (all, or filtered by userId).
func (h *Handler) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}

	var (
		txs []transaction.Transaction
		err error
	)
	switch {
	case u.Role == user.RoleAdmin:
		if raw := r.URL.Query().Get("userId"); raw != "" {
			uid, perr := strconv.ParseInt(raw, 10, 64)
			if perr != nil {
				writeError(w, r, http.StatusBadRequest, "invalid userId filter", nil)
				return
			}
			txs, err = h.transactions.ListByUser(r.Context(), uid)
		} else {
			txs, err = h.transactions.List(r.Context())
		}
	default:
		txs, err = h.transactions.ListByUser(r.Context(), u.ID)
	}
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "failed to load transactions", nil)
		return
	}

	views := make([]transactionView, len(txs))
	for i, tx := range txs {
		views[i] = toTransactionView(tx)
	}
	writeJSON(w, r, http.StatusOK, envelope{Data: views})
}

type customerView struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"userId"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

func (h *Handler) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	customers, err := h.customers.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "failed to load customers", nil)
		return
	}
	views := make([]customerView, len(customers))
	for i, c := range customers {
		views[i] = toCustomerView(c)
	}
	writeJSON(w, r, http.StatusOK, envelope{Data: views})
}

func toCustomerView(c customer.Customer) customerView {
	return customerView{
		ID:        c.ID,
		UserID:    c.UserID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		CreatedAt: c.CreatedAt,
	}
}
