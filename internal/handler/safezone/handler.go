package safezone

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	safezoneModel "github.com/ridelink/backend/internal/model/safezone"
	"github.com/ridelink/backend/pkg/utils"
)

// Handler serves the read-only safe-zone catalog.
type Handler struct {
	zones safezoneModel.Store
}

// New creates the safe-zone handler.
func New(zones safezoneModel.Store) *Handler {
	return &Handler{zones: zones}
}

// RegisterRoutes mounts catalog routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/safezones", h.handleList)
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")
	zip := r.URL.Query().Get("zip")
	utils.RespondJSON(w, http.StatusOK, h.zones.FindByArea(city, zip))
}
