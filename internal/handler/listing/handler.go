package listing

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	listingModel "github.com/ridelink/backend/internal/model/listing"
	"github.com/ridelink/backend/pkg/utils"
)

// Handler serves listing CRUD.
type Handler struct {
	listings listingModel.Store
}

// New creates the listing handler.
func New(listings listingModel.Store) *Handler {
	return &Handler{listings: listings}
}

// RegisterRoutes mounts listing routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/listings", h.handleSearch)
	r.Post("/listings", h.handleCreate)
	r.Get("/listings/{listingID}", h.handleGet)
	r.Post("/listings/{listingID}/sold", h.handleMarkSold)
}

func (h *Handler) handleSearch(w http.ResponseWriter, r *http.Request) {
	f := listingModel.Filter{
		City:    r.URL.Query().Get("city"),
		ZipCode: r.URL.Query().Get("zip"),
		Query:   r.URL.Query().Get("q"),
	}
	listings, err := h.listings.Search(r.Context(), f)
	if err != nil {
		utils.RespondError(w, http.StatusInternalServerError, "failed to search listings")
		return
	}
	if listings == nil {
		listings = []listingModel.Listing{}
	}
	utils.RespondJSON(w, http.StatusOK, listings)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Title       string  `json:"title"`
		Make        string  `json:"make"`
		Model       string  `json:"model"`
		Year        int     `json:"year"`
		Price       float64 `json:"price"`
		City        string  `json:"city"`
		ZipCode     string  `json:"zipCode"`
		SellerID    string  `json:"sellerId"`
		Description string  `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SellerID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sellerId is required")
		return
	}

	created, err := h.listings.Create(r.Context(), listingModel.Listing{
		Title:       payload.Title,
		Make:        payload.Make,
		Model:       payload.Model,
		Year:        payload.Year,
		Price:       payload.Price,
		City:        payload.City,
		ZipCode:     payload.ZipCode,
		SellerID:    payload.SellerID,
		Description: payload.Description,
	})
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, created)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listingID")
	l, err := h.listings.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, listingModel.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "listing not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load listing")
		return
	}
	utils.RespondJSON(w, http.StatusOK, l)
}

func (h *Handler) handleMarkSold(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "listingID")
	if err := h.listings.MarkSold(r.Context(), id); err != nil {
		if errors.Is(err, listingModel.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "listing not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to update listing")
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]string{"status": "sold"})
}
