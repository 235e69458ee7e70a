package api

import (
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/wicaksana/paket-portal/internal/domain/checkout"
	"github.com/wicaksana/paket-portal/internal/domain/transaction"
	"github.com/wicaksana/paket-portal/internal/notify"
)

type checkoutRequest struct {
	PaymentMethod string `json:"paymentMethod"`
}

type checkoutResponse struct {
	Transactions []transactionView `json:"transactions"`
	Failed       []lineFailureView `json:"failed,omitempty"`
}

type lineFailureView struct {
	PackageID int64  `json:"packageId"`
	Reason    string `json:"reason"`
}

func (h *Handler) handleCheckout(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req checkoutRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if req.PaymentMethod == "" {
		sink := notify.NewCollector()
		sink.Error("Please select a payment method.")
		writeError(w, r, http.StatusUnprocessableEntity, "payment method is required", sink)
		return
	}

	sink := notify.NewCollector()
	crt := h.carts.Get(u.ID)
	res, err := h.checkout.Checkout(r.Context(), u, crt, req.PaymentMethod)
	switch {
	case err == nil:
		sink.Success("Checkout successful!")
		writeJSON(w, r, http.StatusOK, envelope{
			Data:    toCheckoutResponse(res),
			Notices: sink.Notices(),
		})
	case errors.Is(err, checkout.ErrInvalidPaymentMethod):
		sink.Error("Please select a payment method.")
		writeError(w, r, http.StatusUnprocessableEntity, "invalid payment method", sink)
	case errors.Is(err, checkout.ErrEmptyCart):
		writeError(w, r, http.StatusUnprocessableEntity, "cart is empty", sink)
	case errors.Is(err, checkout.ErrIncomplete):
		// The single generic notice matches the original portal; the body
		// carries the partial-success detail the UI may choose to use.
		sink.Error("Checkout failed. Please try again.")
		writeJSON(w, r, http.StatusBadGateway, envelope{
			Data:    toCheckoutResponse(res),
			Error:   "checkout incomplete",
			Notices: sink.Notices(),
		})
	default:
		sink.Error("Checkout failed. Please try again.")
		writeError(w, r, http.StatusBadGateway, "checkout failed", sink)
	}
}

type transactionView struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"userId"`
	PackageID     int64           `json:"packageId"`
	Amount        decimal.Decimal `json:"amount"`
	Status        string          `json:"status"`
	Date          time.Time       `json:"date"`
	PaymentMethod string          `json:"paymentMethod"`
}

func toCheckoutResponse(res *checkout.Result) checkoutResponse {
	out := checkoutResponse{
		Transactions: make([]transactionView, len(res.Succeeded)),
	}
	for i, tx := range res.Succeeded {
		out.Transactions[i] = toTransactionView(tx)
	}
	for _, f := range res.Failed {
		out.Failed = append(out.Failed, lineFailureView{
			PackageID: f.PackageID,
			Reason:    f.Err.Error(),
		})
	}
	return out
}

func toTransactionView(t transaction.Transaction) transactionView {
	return transactionView{
		ID:            t.ID,
		UserID:        t.UserID,
		PackageID:     t.PackageID,
		Amount:        t.Amount,
		Status:        string(t.Status),
		Date:          t.Date,
		PaymentMethod: t.PaymentMethod,
	}
}
