package deal

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	dealService "github.com/ridelink/backend/internal/service/deal"
	"github.com/ridelink/backend/pkg/utils"
)

// Handler exposes the shared deal record: a GET for pollers and an SSE
// stream for clients that prefer push.
type Handler struct {
	deals *dealService.Service
}

// New creates the deal handler.
func New(deals *dealService.Service) *Handler {
	return &Handler{deals: deals}
}

// RegisterRoutes mounts deal routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/deals/{conversationID}", h.handleGet)
	r.Get("/deals/{conversationID}/watch", h.handleWatch)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")
	rec, ok := h.deals.Get(r.Context(), id)
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "no deal agreement for conversation")
		return
	}
	utils.RespondJSON(w, http.StatusOK, rec)
}

// handleWatch streams deal-record updates as SSE until the client
// disconnects.
func (h *Handler) handleWatch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	ch, cancel := h.deals.Watch(id)
	defer cancel()

	utils.SetupSSEHeaders(w)
	slog.Debug("opening deal watch stream", "conversation", id)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			slog.Debug("closing deal watch stream", "conversation", id)
			return
		case rec, ok := <-ch:
			if !ok {
				return
			}
			utils.SendSSEChunk(w, flusher, map[string]any{
				"event": "deal",
				"deal":  rec,
			})
		}
	}
}
