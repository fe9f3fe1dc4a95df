// Package negotiation owns live meeting-agreement sessions and bridges the
// pure state machine to the shared deal record.
package negotiation

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/ridelink/backend/internal/agreement"
	"github.com/ridelink/backend/internal/service/deal"
)

var (
	ErrSessionNotFound      = errors.New("negotiation session not found")
	ErrConversationRequired = errors.New("conversation id is required")
	ErrListingRequired      = errors.New("listing id is required")
	ErrInvalidRole          = errors.New("role must be buyer or seller")
	ErrInvalidPrice         = errors.New("listing price must be greater than zero")
)

// Negotiation is one registry entry: a session plus its terminal outputs
// once the wizard completes.
type Negotiation struct {
	ID        string             `json:"id"`
	CreatedAt time.Time          `json:"createdAt"`
	Session   agreement.Session  `json:"session"`
	Result    *agreement.Result  `json:"result,omitempty"`
	Payload   *agreement.Payload `json:"payload,omitempty"`
}

// StartParams describes a session to open. OriginalPrice is the listing's
// asking price.
type StartParams struct {
	ListingID      string
	ConversationID string
	ListingTitle   string
	Role           agreement.Role
	OriginalPrice  float64
	Bilateral      bool
}

type entry struct {
	neg       Negotiation
	stopWatch func()
}

// Service is the session registry. All effect handling lives here so the
// machine stays pure.
type Service struct {
	mu       sync.RWMutex
	machine  *agreement.Machine
	deals    *deal.Service
	sessions map[string]*entry

	tracer    trace.Tracer
	started   metric.Int64Counter
	completed metric.Int64Counter
	cancelled metric.Int64Counter
}

// NewService wires the registry. meter may be nil; the global (noop by
// default) meter is used instead.
func NewService(machine *agreement.Machine, deals *deal.Service, meter metric.Meter) *Service {
	if meter == nil {
		meter = otel.Meter("ridelink/negotiation")
	}
	s := &Service{
		machine:  machine,
		deals:    deals,
		sessions: make(map[string]*entry),
		tracer:   otel.Tracer("ridelink/negotiation"),
	}
	var err error
	if s.started, err = meter.Int64Counter("negotiation.sessions.started"); err != nil {
		slog.Warn("failed to create counter", "name", "negotiation.sessions.started", "error", err)
	}
	if s.completed, err = meter.Int64Counter("negotiation.agreements.completed"); err != nil {
		slog.Warn("failed to create counter", "name", "negotiation.agreements.completed", "error", err)
	}
	if s.cancelled, err = meter.Int64Counter("negotiation.sessions.cancelled"); err != nil {
		slog.Warn("failed to create counter", "name", "negotiation.sessions.cancelled", "error", err)
	}
	return s
}

// Machine exposes the underlying machine so handlers can report guard state.
func (s *Service) Machine() *agreement.Machine { return s.machine }

// Start opens a session at the intent step.
func (s *Service) Start(ctx context.Context, p StartParams) (Negotiation, error) {
	if p.ListingID == "" {
		return Negotiation{}, ErrListingRequired
	}
	if p.ConversationID == "" {
		return Negotiation{}, ErrConversationRequired
	}
	if p.Role != agreement.RoleBuyer && p.Role != agreement.RoleSeller {
		return Negotiation{}, ErrInvalidRole
	}
	if p.OriginalPrice <= 0 {
		return Negotiation{}, ErrInvalidPrice
	}

	neg := Negotiation{
		ID:        uuid.NewString(),
		CreatedAt: time.Now().UTC(),
		Session:   s.machine.NewSession(p.ListingID, p.ConversationID, p.ListingTitle, p.Role, p.OriginalPrice, p.Bilateral),
	}

	s.mu.Lock()
	s.sessions[neg.ID] = &entry{neg: neg}
	s.mu.Unlock()

	if s.started != nil {
		s.started.Add(ctx, 1, metric.WithAttributes(attribute.String("role", string(p.Role))))
	}
	return neg, nil
}

// Get retrieves a session by identifier.
func (s *Service) Get(_ context.Context, id string) (Negotiation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sessions[id]
	if !ok {
		return Negotiation{}, ErrSessionNotFound
	}
	return e.neg, nil
}

// Apply runs one machine transition and executes its effects. Guard and
// edge failures come back as the machine's errors with the session
// unchanged.
func (s *Service) Apply(ctx context.Context, id string, ev agreement.Event) (Negotiation, error) {
	ctx, span := s.tracer.Start(ctx, "negotiation.apply")
	defer span.End()

	s.mu.Lock()
	e, ok := s.sessions[id]
	if !ok {
		s.mu.Unlock()
		return Negotiation{}, ErrSessionNotFound
	}

	next, effects, err := s.machine.Apply(e.neg.Session, ev)
	if err != nil {
		neg := e.neg
		s.mu.Unlock()
		return neg, err
	}

	leftWaiting := e.neg.Session.Step == agreement.StepWaiting && next.Step != agreement.StepWaiting
	e.neg.Session = next
	stop := e.stopWatch
	if leftWaiting {
		e.stopWatch = nil
	}
	neg := e.neg
	s.mu.Unlock()

	if leftWaiting && stop != nil {
		stop()
	}

	for _, eff := range effects {
		neg = s.runEffect(ctx, id, neg, eff)
	}
	return neg, nil
}

func (s *Service) runEffect(ctx context.Context, id string, neg Negotiation, eff agreement.Effect) Negotiation {
	switch eff := eff.(type) {
	case agreement.EffectSubmitAgreement:
		sess := neg.Session
		if _, err := s.deals.SubmitAgreement(ctx, sess.ConversationID, sess.Role, eff.Price); err != nil {
			slog.Error("failed to submit agreement", "conversation", sess.ConversationID, "error", err)
			return neg
		}
		s.watchCounterpart(id, sess.ConversationID)

	case agreement.EffectCancelled:
		sess := neg.Session
		if sess.Bilateral {
			if _, err := s.deals.Retract(ctx, sess.ConversationID, sess.Role); err != nil {
				slog.Error("failed to retract agreement", "conversation", sess.ConversationID, "error", err)
			}
		}
		if s.cancelled != nil {
			s.cancelled.Add(ctx, 1)
		}
		slog.Info("negotiation cancelled", "session", id, "conversation", sess.ConversationID)

	case agreement.EffectCompleted:
		sess := neg.Session
		if sess.Bilateral {
			_, err := s.deals.RecordMeeting(ctx, sess.ConversationID,
				eff.Payload.SafeZoneID, eff.Payload.CustomLocation, eff.Payload.Datetime, eff.Payload.AgreedPrice)
			if err != nil {
				slog.Error("failed to record meeting", "conversation", sess.ConversationID, "error", err)
			}
		}

		result := eff.Result
		payload := eff.Payload
		s.mu.Lock()
		if e, ok := s.sessions[id]; ok {
			e.neg.Result = &result
			e.neg.Payload = &payload
			neg = e.neg
		}
		s.mu.Unlock()

		if s.completed != nil {
			s.completed.Add(ctx, 1)
		}
		slog.Info("meeting agreed",
			"session", id,
			"conversation", sess.ConversationID,
			"price", eff.Result.FinalPrice,
			"location", eff.Result.LocationDescriptor)
	}
	return neg
}

// watchCounterpart feeds deal-record updates back into a waiting session as
// counterpart events until both sides have agreed.
func (s *Service) watchCounterpart(id, conversationID string) {
	ch, cancel := s.deals.Watch(conversationID)

	s.mu.Lock()
	if e, ok := s.sessions[id]; ok {
		e.stopWatch = cancel
	} else {
		s.mu.Unlock()
		cancel()
		return
	}
	s.mu.Unlock()

	go func() {
		for rec := range ch {
			if !(rec.BuyerAgreed && rec.SellerAgreed) {
				continue
			}
			ev := agreement.EventCounterpartUpdate{BuyerAgreed: rec.BuyerAgreed, SellerAgreed: rec.SellerAgreed}
			if _, err := s.Apply(context.Background(), id, ev); err != nil {
				slog.Error("failed to deliver counterpart update", "session", id, "error", err)
			}
			return
		}
	}()
}
