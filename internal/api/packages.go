package api

import (
	"net/http"
	"strconv"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/wicaksana/paket-portal/internal/domain/catalog"
)

type packageView struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	Category    string          `json:"category"`
}

type packageRequest struct {
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
	Duration    string          `json:"duration"`
	Category    string          `json:"category"`
}

func (req *packageRequest) validate() error {
	if req.Name == "" {
		return errors.New("name is required")
	}
	if req.Price.IsNegative() {
		return errors.New("price must not be negative")
	}
	return nil
}

func (h *Handler) handleListPackages(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.currentUser(w, r); !ok {
		return
	}
	packages, err := h.packages.List(r.Context())
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "failed to load packages", nil)
		return
	}
	views := make([]packageView, len(packages))
	for i, p := range packages {
		views[i] = toPackageView(p)
	}
	writeJSON(w, r, http.StatusOK, envelope{Data: views})
}

func (h *Handler) handleCreatePackage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	var req packageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	created, err := h.packages.Create(r.Context(), &catalog.Package{
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Duration:    req.Duration,
		Category:    req.Category,
	})
	if err != nil {
		writeError(w, r, http.StatusBadGateway, "failed to create package", nil)
		return
	}
	writeJSON(w, r, http.StatusCreated, envelope{Data: toPackageView(*created)})
}

func (h *Handler) handleUpdatePackage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid package id", nil)
		return
	}
	var req packageRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body", nil)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, r, http.StatusUnprocessableEntity, err.Error(), nil)
		return
	}

	updated, err := h.packages.Update(r.Context(), &catalog.Package{
		ID:          id,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		Duration:    req.Duration,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "package not found", nil)
			return
		}
		writeError(w, r, http.StatusBadGateway, "failed to update package", nil)
		return
	}
	writeJSON(w, r, http.StatusOK, envelope{Data: toPackageView(*updated)})
}

func (h *Handler) handleDeletePackage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.requireAdmin(w, r); !ok {
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid package id", nil)
		return
	}
	if err := h.packages.Delete(r.Context(), id); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "package not found", nil)
			return
		}
		writeError(w, r, http.StatusBadGateway, "failed to delete package", nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

func toPackageView(p catalog.Package) packageView {
	return packageView{
		ID:          p.ID,
		Name:        p.Name,
		Price:       p.Price,
		Description: p.Description,
		Duration:    p.Duration,
		Category:    p.Category,
	}
}
