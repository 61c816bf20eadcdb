package product

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"mcanlodge/internal/api"
)

type Handlers struct {
	Repo *Repository
}

func (h Handlers) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListActive(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) ListAll(w http.ResponseWriter, r *http.Request) {
	items, err := h.Repo.ListAll(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "product not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, p)
}

type UpsertRequest struct {
	Name        string `json:"name" validate:"required,min=2"`
	Description string `json:"description"`
	Price       string `json:"price" validate:"required"`
	Category    string `json:"category"`
	Stock       int    `json:"stock" validate:"min=0"`
	IsActive    *bool  `json:"isActive"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	h.upsert(w, r, "")
}

func (h Handlers) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "missing id")
		return
	}
	h.upsert(w, r, id)
}

func (h Handlers) upsert(w http.ResponseWriter, r *http.Request, id string) {
	var req UpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := api.ValidateStruct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "price must be a positive amount")
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	p, err := h.Repo.Upsert(r.Context(), Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Price:       price.StringFixed(2),
		Category:    req.Category,
		Stock:       req.Stock,
		IsActive:    active,
	})
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to save product")
		return
	}

	status := http.StatusOK
	if id == "" {
		status = http.StatusCreated
	}
	api.WriteJSON(w, status, p)
}
