package negotiation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ridelink/backend/internal/agreement"
	listingModel "github.com/ridelink/backend/internal/model/listing"
	safezoneModel "github.com/ridelink/backend/internal/model/safezone"
	negotiationService "github.com/ridelink/backend/internal/service/negotiation"
	"github.com/ridelink/backend/pkg/utils"
)

// Handler drives meeting-agreement sessions over HTTP. Each request applies
// one wizard event; the response mirrors what the frontend needs to render
// the current step.
type Handler struct {
	negotiations *negotiationService.Service
	listings     listingModel.Store
	zones        safezoneModel.Store
}

// New creates the negotiation handler.
func New(negotiations *negotiationService.Service, listings listingModel.Store, zones safezoneModel.Store) *Handler {
	return &Handler{negotiations: negotiations, listings: listings, zones: zones}
}

// RegisterRoutes mounts negotiation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/negotiations", h.handleStart)
	r.Get("/negotiations/{sessionID}", h.handleGet)
	r.Post("/negotiations/{sessionID}/events", h.handleEvent)
}

// view is the session as rendered to clients: the raw session plus the
// derived values the UI used to recompute every render.
type view struct {
	ID              string             `json:"id"`
	Session         agreement.Session  `json:"session"`
	PriceDeviation  string             `json:"priceDeviation,omitempty"`
	CanConfirmPrice bool               `json:"canConfirmPrice"`
	CanContinue     bool               `json:"canContinue"`
	MinMeetingDate  string             `json:"minMeetingDate"`
	TimeSlots       []string           `json:"timeSlots"`
	Result          *agreement.Result  `json:"result,omitempty"`
	Payload         *agreement.Payload `json:"payload,omitempty"`
}

func (h *Handler) render(neg negotiationService.Negotiation) view {
	m := h.negotiations.Machine()
	v := view{
		ID:              neg.ID,
		Session:         neg.Session,
		CanConfirmPrice: m.CanConfirmPrice(neg.Session),
		CanContinue:     m.CanContinue(neg.Session),
		MinMeetingDate:  agreement.MinMeetingDate(m.Now()).Format(agreement.DateLayout),
		TimeSlots:       m.Slots,
		Result:          neg.Result,
		Payload:         neg.Payload,
	}
	if p, ok := neg.Session.ProposedPrice(); ok {
		v.PriceDeviation = agreement.DeviationFrom(p, neg.Session.OriginalPrice).String()
	}
	return v
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ListingID      string `json:"listingId"`
		ConversationID string `json:"conversationId"`
		Role           string `json:"role"`
		Bilateral      bool   `json:"bilateral"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	l, err := h.listings.GetByID(r.Context(), payload.ListingID)
	if err != nil {
		if errors.Is(err, listingModel.ErrNotFound) {
			utils.RespondError(w, http.StatusNotFound, "listing not found")
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "failed to load listing")
		return
	}

	neg, err := h.negotiations.Start(r.Context(), negotiationService.StartParams{
		ListingID:      l.ID,
		ConversationID: payload.ConversationID,
		ListingTitle:   l.Title,
		Role:           agreement.Role(payload.Role),
		OriginalPrice:  l.Price,
		Bilateral:      payload.Bilateral,
	})
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, h.render(neg))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")
	neg, err := h.negotiations.Get(r.Context(), id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.render(neg))
}

// eventPayload is the wire form of a wizard event. Price arrives as a string
// because it mirrors a text field: "" is a cleared field, not zero.
type eventPayload struct {
	Type           string `json:"type"`
	Price          string `json:"price"`
	SafeZoneID     string `json:"safeZoneId"`
	CustomLocation string `json:"customLocation"`
	Date           string `json:"date"`
	Time           string `json:"time"`
}

func (h *Handler) handleEvent(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "sessionID")

	var payload eventPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	ev, err := h.decodeEvent(payload)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	neg, err := h.negotiations.Apply(r.Context(), id, ev)
	if err != nil {
		switch {
		case errors.Is(err, negotiationService.ErrSessionNotFound):
			utils.RespondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, agreement.ErrInvalidEvent):
			utils.RespondError(w, http.StatusConflict, err.Error())
		default:
			// Guard failures: the session stays put and the client shows
			// the message inline.
			utils.RespondError(w, http.StatusUnprocessableEntity, err.Error())
		}
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.render(neg))
}

func (h *Handler) decodeEvent(p eventPayload) (agreement.Event, error) {
	switch p.Type {
	case "proceed":
		return agreement.EventProceed{}, nil
	case "cancel":
		return agreement.EventCancel{}, nil
	case "back":
		return agreement.EventBack{}, nil
	case "enterPrice":
		return agreement.EventEnterPrice{Input: p.Price}, nil
	case "confirmPrice":
		return agreement.EventConfirmPrice{}, nil
	case "pickSafeZone":
		zone, ok := h.zones.FindByID(p.SafeZoneID)
		if !ok {
			return nil, errors.New("safe zone not found")
		}
		return agreement.EventPickSafeZone{ID: zone.ID, Name: zone.Name}, nil
	case "pickCustomLocation":
		return agreement.EventPickCustomLocation{Text: p.CustomLocation}, nil
	case "pickDate":
		return agreement.EventPickDate{Date: p.Date}, nil
	case "pickTime":
		return agreement.EventPickTime{Slot: p.Time}, nil
	case "continue":
		return agreement.EventContinue{}, nil
	case "confirmMeeting":
		return agreement.EventConfirmMeeting{}, nil
	default:
		return nil, errors.New("unknown event type")
	}
}
