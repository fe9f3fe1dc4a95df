package conversation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	conversationModel "github.com/ridelink/backend/internal/model/conversation"
	"github.com/ridelink/backend/internal/service/messaging"
)

func setupRouter() (*chi.Mux, *messaging.Service) {
	svc := messaging.NewService()
	handler := New(svc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, svc
}

func TestStartConversation(t *testing.T) {
	r, _ := setupRouter()
	body := map[string]string{"listingId": "listing-1", "buyerId": "buyer-1", "sellerId": "seller-1"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	var conv conversationModel.Conversation
	if err := json.Unmarshal(resp.Body.Bytes(), &conv); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if conv.ID == "" {
		t.Fatal("no conversation id assigned")
	}
}

func TestStartConversationMissingParties(t *testing.T) {
	r, _ := setupRouter()
	payload := []byte(`{"listingId":"listing-1"}`)

	req := httptest.NewRequest(http.MethodPost, "/conversations", bytes.NewReader(payload))
	resp := httptest.NewRecorder()

	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestSendAndReadMessages(t *testing.T) {
	r, svc := setupRouter()
	conv, _ := svc.StartConversation(context.Background(), "listing-1", "buyer-1", "seller-1")

	body := map[string]string{"conversationId": conv.ID, "senderId": "buyer-1", "body": "Is it still available?"}
	payload, _ := json.Marshal(body)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/conversations/"+conv.ID+"/messages", nil)
	resp = httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var msgs []conversationModel.Message
	if err := json.Unmarshal(resp.Body.Bytes(), &msgs); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Body != "Is it still available?" {
		t.Fatalf("unexpected transcript: %+v", msgs)
	}
}

func TestSendMessageUnknownConversation(t *testing.T) {
	r, _ := setupRouter()
	payload := []byte(`{"conversationId":"missing","senderId":"x","body":"hi"}`)

	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader(payload))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
