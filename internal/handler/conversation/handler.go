package conversation

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	conversationModel "github.com/ridelink/backend/internal/model/conversation"
	"github.com/ridelink/backend/internal/service/messaging"
	"github.com/ridelink/backend/pkg/utils"
)

// Handler serves conversations and messages, including the live websocket
// feed.
type Handler struct {
	messages *messaging.Service
	upgrader websocket.Upgrader
}

// New creates the conversation handler.
func New(messages *messaging.Service) *Handler {
	return &Handler{
		messages: messages,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes mounts conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/conversations", h.handleStart)
	r.Get("/conversations/{conversationID}/messages", h.handleTranscript)
	r.Post("/messages", h.handleSend)
	r.Get("/ws/conversations/{conversationID}", h.handleWebSocket)
}

func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ListingID string `json:"listingId"`
		BuyerID   string `json:"buyerId"`
		SellerID  string `json:"sellerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	conv, err := h.messages.StartConversation(r.Context(), payload.ListingID, payload.BuyerID, payload.SellerID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, conv)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")
	msgs, err := h.messages.Transcript(r.Context(), id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, msgs)
}

func (h *Handler) handleSend(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		ConversationID string `json:"conversationId"`
		SenderID       string `json:"senderId"`
		Body           string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msg, err := h.messages.SendMessage(r.Context(), conversationModel.Message{
		ConversationID: payload.ConversationID,
		SenderID:       payload.SenderID,
		Body:           payload.Body,
	})
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, messaging.ErrConversationNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusCreated, msg)
}

// handleWebSocket streams new messages for one conversation until the client
// disconnects.
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "conversationID")

	ch, cancel, err := h.messages.Subscribe(id)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	defer cancel()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", "conversation", id, "error", err)
		return
	}
	defer conn.Close()

	// Reader goroutine: its only job is to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				slog.Debug("websocket write failed", "conversation", id, "error", err)
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
