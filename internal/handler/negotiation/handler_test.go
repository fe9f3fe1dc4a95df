package negotiation

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ridelink/backend/internal/agreement"
	listingModel "github.com/ridelink/backend/internal/model/listing"
	safezoneModel "github.com/ridelink/backend/internal/model/safezone"
	"github.com/ridelink/backend/internal/service/deal"
	negotiationService "github.com/ridelink/backend/internal/service/negotiation"
)

var testNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T) (*chi.Mux, string) {
	t.Helper()

	machine := agreement.NewMachine()
	machine.Now = func() time.Time { return testNow }

	listings := listingModel.NewMemoryStore()
	created, err := listings.Create(context.Background(), listingModel.Listing{
		Title:    "2019 Triumph Street Triple RS",
		Price:    10000,
		City:     "Springfield",
		ZipCode:  "45501",
		SellerID: "seller-1",
	})
	if err != nil {
		t.Fatalf("seed listing: %v", err)
	}

	zones := safezoneModel.NewMemoryStore(safezoneModel.Seed())
	negotiations := negotiationService.NewService(machine, deal.NewService(), nil)
	handler := New(negotiations, listings, zones)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r, created.ID
}

func post(t *testing.T, r *chi.Mux, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func decodeView(t *testing.T, resp *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var v map[string]any
	if err := json.Unmarshal(resp.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	return v
}

func startSession(t *testing.T, r *chi.Mux, listingID string) string {
	t.Helper()
	resp := post(t, r, "/negotiations", map[string]any{
		"listingId":      listingID,
		"conversationId": "conv-1",
		"role":           "buyer",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("start: expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	v := decodeView(t, resp)
	id, _ := v["id"].(string)
	if id == "" {
		t.Fatal("no session id in start response")
	}
	return id
}

func sendEvent(t *testing.T, r *chi.Mux, id string, body map[string]any) *httptest.ResponseRecorder {
	t.Helper()
	return post(t, r, "/negotiations/"+id+"/events", body)
}

func TestStartSeedsPriceFromListing(t *testing.T) {
	r, listingID := setupRouter(t)
	resp := post(t, r, "/negotiations", map[string]any{
		"listingId":      listingID,
		"conversationId": "conv-1",
		"role":           "buyer",
	})
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", resp.Code, resp.Body.String())
	}
	v := decodeView(t, resp)
	session := v["session"].(map[string]any)
	if session["priceInput"] != "10000" {
		t.Fatalf("price field not seeded from listing: %v", session["priceInput"])
	}
	if session["step"] != "agreement" {
		t.Fatalf("expected agreement step, got %v", session["step"])
	}
}

func TestStartUnknownListing(t *testing.T) {
	r, _ := setupRouter(t)
	resp := post(t, r, "/negotiations", map[string]any{
		"listingId":      "missing",
		"conversationId": "conv-1",
		"role":           "buyer",
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestPriceDeviationInView(t *testing.T) {
	r, listingID := setupRouter(t)
	id := startSession(t, r, listingID)

	sendEvent(t, r, id, map[string]any{"type": "proceed"})
	resp := sendEvent(t, r, id, map[string]any{"type": "enterPrice", "price": "9500"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	v := decodeView(t, resp)
	if v["priceDeviation"] != "-$500 below asking price" {
		t.Fatalf("unexpected deviation: %v", v["priceDeviation"])
	}
	if v["canConfirmPrice"] != true {
		t.Fatal("expected confirm enabled for 9500")
	}
}

func TestEmptyPriceDisablesConfirm(t *testing.T) {
	r, listingID := setupRouter(t)
	id := startSession(t, r, listingID)

	sendEvent(t, r, id, map[string]any{"type": "proceed"})
	resp := sendEvent(t, r, id, map[string]any{"type": "enterPrice", "price": ""})
	v := decodeView(t, resp)
	if v["canConfirmPrice"] != false {
		t.Fatal("expected confirm disabled for empty price")
	}

	resp = sendEvent(t, r, id, map[string]any{"type": "confirmPrice"})
	if resp.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.Code)
	}
}

func TestFullAgreementOverHTTP(t *testing.T) {
	r, listingID := setupRouter(t)
	id := startSession(t, r, listingID)
	tomorrow := agreement.MinMeetingDate(testNow).Format(agreement.DateLayout)

	steps := []map[string]any{
		{"type": "proceed"},
		{"type": "confirmPrice"},
		{"type": "pickSafeZone", "safeZoneId": "sz-pd-central"},
		{"type": "pickDate", "date": tomorrow},
		{"type": "pickTime", "time": "2:00 PM"},
		{"type": "continue"},
		{"type": "confirmMeeting"},
	}
	var last *httptest.ResponseRecorder
	for _, s := range steps {
		last = sendEvent(t, r, id, s)
		if last.Code != http.StatusOK {
			t.Fatalf("event %v: expected 200, got %d: %s", s["type"], last.Code, last.Body.String())
		}
	}

	v := decodeView(t, last)
	session := v["session"].(map[string]any)
	if session["step"] != "done" {
		t.Fatalf("expected done, got %v", session["step"])
	}
	result := v["result"].(map[string]any)
	if result["finalPrice"].(float64) != 10000 {
		t.Fatalf("unexpected final price: %v", result["finalPrice"])
	}
	if !strings.Contains(result["scheduleSummary"].(string), "at 2:00 PM") {
		t.Fatalf("schedule summary missing time contract: %v", result["scheduleSummary"])
	}
	if result["locationDescriptor"] == "" {
		t.Fatal("missing location descriptor")
	}
	payload := v["payload"].(map[string]any)
	if payload["privacyRevealed"] != true {
		t.Fatal("expected privacyRevealed true")
	}
}

func TestUnknownSafeZoneRejected(t *testing.T) {
	r, listingID := setupRouter(t)
	id := startSession(t, r, listingID)
	sendEvent(t, r, id, map[string]any{"type": "proceed"})
	sendEvent(t, r, id, map[string]any{"type": "confirmPrice"})

	resp := sendEvent(t, r, id, map[string]any{"type": "pickSafeZone", "safeZoneId": "bogus"})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestInvalidEdgeConflicts(t *testing.T) {
	r, listingID := setupRouter(t)
	id := startSession(t, r, listingID)

	resp := sendEvent(t, r, id, map[string]any{"type": "confirmMeeting"})
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}
}

func TestEventOnUnknownSession(t *testing.T) {
	r, _ := setupRouter(t)
	resp := post(t, r, "/negotiations/missing/events", map[string]any{"type": "proceed"})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}
