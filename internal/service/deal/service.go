// Package deal hosts the shared "deal agreement" record both parties consult
// during bilateral negotiation. It is best-effort coordination state, not an
// escrow or a server-verified contract.
package deal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/ridelink/backend/internal/agreement"
)

var ErrConversationRequired = errors.New("conversation id is required")

// Record is the deal agreement resource keyed by conversation. The snake_case
// field names are the wire shape the frontend already consumes.
type Record struct {
	ConversationID        string    `json:"conversationId"`
	BuyerAgreed           bool      `json:"buyer_agreed"`
	SellerAgreed          bool      `json:"seller_agreed"`
	AgreedPrice           float64   `json:"agreed_price"`
	SafeZone              string    `json:"safe_zone,omitempty"`
	CustomMeetingLocation string    `json:"custom_meeting_location,omitempty"`
	MeetingDatetime       string    `json:"meeting_datetime,omitempty"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// Service stores records in memory and pushes updates to watchers, so
// callers can subscribe instead of polling.
type Service struct {
	mu       sync.RWMutex
	records  map[string]Record
	watchers map[string]map[uint64]chan Record
	nextID   uint64
}

// NewService bootstraps the in-memory deal store.
func NewService() *Service {
	return &Service{
		records:  make(map[string]Record),
		watchers: make(map[string]map[uint64]chan Record),
	}
}

// Get returns the record for a conversation, if any.
func (s *Service) Get(_ context.Context, conversationID string) (Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[conversationID]
	return rec, ok
}

// SubmitAgreement marks one side's agreement at the given price and notifies
// watchers.
func (s *Service) SubmitAgreement(_ context.Context, conversationID string, role agreement.Role, price float64) (Record, error) {
	if conversationID == "" {
		return Record{}, ErrConversationRequired
	}

	s.mu.Lock()
	rec := s.records[conversationID]
	rec.ConversationID = conversationID
	if role == agreement.RoleBuyer {
		rec.BuyerAgreed = true
	} else {
		rec.SellerAgreed = true
	}
	rec.AgreedPrice = price
	rec.UpdatedAt = time.Now().UTC()
	s.records[conversationID] = rec
	s.notifyLocked(conversationID, rec)
	s.mu.Unlock()

	return rec, nil
}

// Retract withdraws one side's agreement, e.g. when cancelling out of the
// waiting step.
func (s *Service) Retract(_ context.Context, conversationID string, role agreement.Role) (Record, error) {
	if conversationID == "" {
		return Record{}, ErrConversationRequired
	}

	s.mu.Lock()
	rec, ok := s.records[conversationID]
	if ok {
		if role == agreement.RoleBuyer {
			rec.BuyerAgreed = false
		} else {
			rec.SellerAgreed = false
		}
		rec.UpdatedAt = time.Now().UTC()
		s.records[conversationID] = rec
		s.notifyLocked(conversationID, rec)
	}
	s.mu.Unlock()

	return rec, nil
}

// RecordMeeting writes the final meeting details onto the record once an
// agreement completes.
func (s *Service) RecordMeeting(_ context.Context, conversationID, safeZone, customLocation, datetime string, price float64) (Record, error) {
	if conversationID == "" {
		return Record{}, ErrConversationRequired
	}

	s.mu.Lock()
	rec := s.records[conversationID]
	rec.ConversationID = conversationID
	rec.AgreedPrice = price
	rec.SafeZone = safeZone
	rec.CustomMeetingLocation = customLocation
	rec.MeetingDatetime = datetime
	rec.UpdatedAt = time.Now().UTC()
	s.records[conversationID] = rec
	s.notifyLocked(conversationID, rec)
	s.mu.Unlock()

	return rec, nil
}

// Watch subscribes to record updates for a conversation. The current record,
// if one exists, is delivered immediately so late watchers do not miss an
// already-agreed state.
func (s *Service) Watch(conversationID string) (<-chan Record, func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	ch := make(chan Record, 8)
	if s.watchers[conversationID] == nil {
		s.watchers[conversationID] = make(map[uint64]chan Record)
	}
	s.watchers[conversationID][id] = ch
	if rec, ok := s.records[conversationID]; ok {
		ch <- rec
	}
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if ws, ok := s.watchers[conversationID]; ok {
			if _, ok := ws[id]; ok {
				delete(ws, id)
				close(ch)
			}
		}
	}
	return ch, cancel
}

func (s *Service) notifyLocked(conversationID string, rec Record) {
	for _, ch := range s.watchers[conversationID] {
		select {
		case ch <- rec:
		default:
		}
	}
}
