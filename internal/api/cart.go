package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/wicaksana/paket-portal/internal/domain/cart"
	"github.com/wicaksana/paket-portal/internal/domain/catalog"
	"github.com/wicaksana/paket-portal/internal/notify"
)

type cartView struct {
	Items        []cartItemView  `json:"items"`
	Subtotal     decimal.Decimal `json:"subtotal"`
	DiscountCode string          `json:"discountCode,omitempty"`
	Discount     decimal.Decimal `json:"discount"`
	Total        decimal.Decimal `json:"total"`
}

type cartItemView struct {
	Package  packageView `json:"package"`
	Quantity int         `json:"quantity"`
}

func (h *Handler) handleGetCart(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	crt := h.carts.Get(u.ID)
	writeJSON(w, r, http.StatusOK, envelope{Data: toCartView(crt)})
}

type addToCartRequest struct {
	PackageID int64 `json:"packageId"`
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req addToCartRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	pkg, err := h.packages.GetByID(r.Context(), req.PackageID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "package not found", nil)
			return
		}
		writeError(w, r, http.StatusBadGateway, "failed to load package", nil)
		return
	}

	sink := notify.NewCollector()
	crt := h.carts.Get(u.ID)
	crt.Add(*pkg, sink)
	writeJSON(w, r, http.StatusOK, envelope{Data: toCartView(crt), Notices: sink.Notices()})
}

func (h *Handler) handleRemoveFromCart(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid package id", nil)
		return
	}

	sink := notify.NewCollector()
	crt := h.carts.Get(u.ID)
	crt.Remove(id, sink)
	writeJSON(w, r, http.StatusOK, envelope{Data: toCartView(crt), Notices: sink.Notices()})
}

func (h *Handler) handleClearCart(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	crt := h.carts.Get(u.ID)
	crt.Clear()
	writeJSON(w, r, http.StatusOK, envelope{Data: toCartView(crt)})
}

type applyDiscountRequest struct {
	Code string `json:"code"`
}

func (h *Handler) handleApplyDiscount(w http.ResponseWriter, r *http.Request) {
	u, ok := h.currentUser(w, r)
	if !ok {
		return
	}
	var req applyDiscountRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", nil)
		return
	}

	sink := notify.NewCollector()
	crt := h.carts.Get(u.ID)
	if err := crt.ApplyDiscount(req.Code, sink); err != nil {
		// The notices already carry the user-facing explanation.
		writeJSON(w, r, http.StatusUnprocessableEntity, envelope{
			Data:    toCartView(crt),
			Error:   err.Error(),
			Notices: sink.Notices(),
		})
		return
	}
	writeJSON(w, r, http.StatusOK, envelope{Data: toCartView(crt), Notices: sink.Notices()})
}

func toCartView(crt *cart.Cart) cartView {
	lines := crt.Lines()
	items := make([]cartItemView, len(lines))
	for i, l := range lines {
		items[i] = cartItemView{
			Package:  toPackageView(l.Package),
			Quantity: l.Quantity,
		}
	}
	disc := crt.Discount()
	return cartView{
		Items:        items,
		Subtotal:     crt.Subtotal(),
		DiscountCode: disc.Code,
		Discount:     disc.Amount,
		Total:        crt.Total(),
	}
}
