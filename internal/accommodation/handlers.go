package accommodation

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
	items, err := h.Repo.List(r.Context())
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "internal error")
		return
	}
	api.WriteJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h Handlers) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "missing id")
		return
	}
	a, err := h.Repo.GetByID(r.Context(), id)
	if err != nil {
		api.WriteError(w, http.StatusNotFound, api.CodeNotFound, "accommodation not found")
		return
	}
	api.WriteJSON(w, http.StatusOK, a)
}

type CreateRequest struct {
	Name          string `json:"name" validate:"required,min=2"`
	Description   string `json:"description"`
	Location      string `json:"location"`
	PricePerNight string `json:"pricePerNight" validate:"required"`
	Capacity      int    `json:"capacity" validate:"required,min=1"`
}

func (h Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "invalid json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := api.ValidateStruct(req); err != nil {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, err.Error())
		return
	}

	price, err := decimal.NewFromString(req.PricePerNight)
	if err != nil || price.LessThanOrEqual(decimal.Zero) {
		api.WriteError(w, http.StatusBadRequest, api.CodeValidationFailed, "pricePerNight must be a positive amount")
		return
	}

	a, err := h.Repo.Create(r.Context(), req.Name, req.Description, req.Location, price.StringFixed(2), req.Capacity)
	if err != nil {
		api.WriteError(w, http.StatusInternalServerError, api.CodeInternal, "failed to create accommodation")
		return
	}
	api.WriteJSON(w, http.StatusCreated, a)
}
