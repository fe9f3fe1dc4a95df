package messaging

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ridelink/backend/internal/model/conversation"
)

var (
	ErrListingRequired      = errors.New("listing id is required")
	ErrPartiesRequired      = errors.New("buyer and seller ids are required")
	ErrConversationNotFound = errors.New("conversation not found")
	ErrEmptyMessage         = errors.New("message body is empty")
)

// Service encapsulates conversation state and live delivery. Transport and
// durable persistence belong to the hosting layer; this keeps everything
// in memory.
type Service struct {
	mu            sync.RWMutex
	conversations map[string]conversation.Conversation
	byPair        map[string]string // listingID|buyerID -> conversation id
	messages      map[string][]conversation.Message
	subscribers   map[string]map[uint64]chan conversation.Message
	nextSub       uint64
}

// NewService bootstraps the in-memory messaging service.
func NewService() *Service {
	return &Service{
		conversations: make(map[string]conversation.Conversation),
		byPair:        make(map[string]string),
		messages:      make(map[string][]conversation.Message),
		subscribers:   make(map[string]map[uint64]chan conversation.Message),
	}
}

// StartConversation provisions (or returns the existing) conversation
// between a buyer and a listing's seller.
func (s *Service) StartConversation(_ context.Context, listingID, buyerID, sellerID string) (conversation.Conversation, error) {
	if listingID == "" {
		return conversation.Conversation{}, ErrListingRequired
	}
	if buyerID == "" || sellerID == "" {
		return conversation.Conversation{}, ErrPartiesRequired
	}

	key := listingID + "|" + buyerID

	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.byPair[key]; ok {
		return s.conversations[id], nil
	}

	conv := conversation.Conversation{
		ID:        uuid.NewString(),
		ListingID: listingID,
		BuyerID:   buyerID,
		SellerID:  sellerID,
		CreatedAt: time.Now().UTC(),
	}
	s.conversations[conv.ID] = conv
	s.byPair[key] = conv.ID
	s.messages[conv.ID] = make([]conversation.Message, 0, 16)
	return conv, nil
}

// GetConversation retrieves a conversation by identifier.
func (s *Service) GetConversation(_ context.Context, id string) (conversation.Conversation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	conv, ok := s.conversations[id]
	if !ok {
		return conversation.Conversation{}, ErrConversationNotFound
	}
	return conv, nil
}

// SendMessage appends a message and fans it out to live subscribers.
func (s *Service) SendMessage(_ context.Context, msg conversation.Message) (conversation.Message, error) {
	if strings.TrimSpace(msg.Body) == "" {
		return conversation.Message{}, ErrEmptyMessage
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[msg.ConversationID]; !ok {
		return conversation.Message{}, ErrConversationNotFound
	}

	msg.ID = uuid.NewString()
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	s.messages[msg.ConversationID] = append(s.messages[msg.ConversationID], msg)

	for _, ch := range s.subscribers[msg.ConversationID] {
		select {
		case ch <- msg:
		default: // slow subscriber, drop rather than block the sender
		}
	}
	return msg, nil
}

// Transcript returns stored messages for the conversation.
func (s *Service) Transcript(_ context.Context, conversationID string) ([]conversation.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs, ok := s.messages[conversationID]
	if !ok {
		return nil, ErrConversationNotFound
	}
	copied := make([]conversation.Message, len(msgs))
	copy(copied, msgs)
	return copied, nil
}

// Subscribe registers for live messages on a conversation. The returned
// cancel func must be called to release the channel.
func (s *Service) Subscribe(conversationID string) (<-chan conversation.Message, func(), error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.conversations[conversationID]; !ok {
		return nil, nil, ErrConversationNotFound
	}

	s.nextSub++
	id := s.nextSub
	ch := make(chan conversation.Message, 16)
	if s.subscribers[conversationID] == nil {
		s.subscribers[conversationID] = make(map[uint64]chan conversation.Message)
	}
	s.subscribers[conversationID][id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if subs, ok := s.subscribers[conversationID]; ok {
			if _, ok := subs[id]; ok {
				delete(subs, id)
				close(ch)
			}
		}
	}
	return ch, cancel, nil
}
