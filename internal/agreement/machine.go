package agreement

import (
	"errors"
	"time"
)

var (
	// ErrInvalidEvent rejects an event the current step has no edge for.
	ErrInvalidEvent = errors.New("event not valid in current step")

	// ErrPriceInvalid gates price confirmation: the field must parse to a
	// number strictly greater than zero.
	ErrPriceInvalid = errors.New("price must be a positive number")

	// ErrLocationMissing gates the location step: a safe zone or a non-empty
	// custom meeting place is required.
	ErrLocationMissing = errors.New("choose a safe zone or describe a meeting place")

	// ErrDateInvalid gates the location step: the meeting date must be
	// tomorrow or later.
	ErrDateInvalid = errors.New("meeting date must be tomorrow or later")

	// ErrTimeMissing gates the location step: a meeting time is required.
	ErrTimeMissing = errors.New("choose a meeting time")

	// ErrUnknownSlot rejects a time outside the fixed slot list.
	ErrUnknownSlot = errors.New("unknown time slot")
)

// Machine applies events to sessions. It is stateless and safe to share;
// all mutable state lives in the Session values it is handed.
type Machine struct {
	// Now supplies the wall clock for the date floor. Defaults to time.Now.
	Now func() time.Time

	// Slots is the selectable time-of-day list.
	Slots []string
}

// NewMachine returns a machine with the real clock and default slots.
func NewMachine() *Machine {
	return &Machine{Now: time.Now, Slots: DefaultTimeSlots()}
}

// NewSession starts a session at the intent step with the price field
// seeded from the asking price.
func (m *Machine) NewSession(listingID, conversationID, title string, role Role, originalPrice float64, bilateral bool) Session {
	return Session{
		ListingID:      listingID,
		ConversationID: conversationID,
		ListingTitle:   title,
		Role:           role,
		OriginalPrice:  originalPrice,
		Bilateral:      bilateral,
		Step:           StepAgreement,
		PriceInput:     formatAmount(originalPrice),
	}
}

// CanConfirmPrice reports whether the price guard passes.
func (m *Machine) CanConfirmPrice(s Session) bool {
	p, ok := s.ProposedPrice()
	return ok && p > 0
}

// CanContinue reports whether the location-step guard passes: a location is
// chosen, the date is tomorrow or later right now, and a time is picked.
func (m *Machine) CanContinue(s Session) bool {
	return s.HasLocation() && dateValid(s.MeetingDate, m.now()) && s.TimeSlot != ""
}

// Apply runs one transition. On a guard or edge failure the returned session
// equals the input and the error describes the failure; the caller surfaces
// it inline and stays put, mirroring a disabled control.
func (m *Machine) Apply(s Session, ev Event) (Session, []Effect, error) {
	switch e := ev.(type) {
	case EventCounterpartUpdate:
		// Asynchronous signal; only waiting reacts, everywhere else it is
		// dropped rather than erroring.
		if s.Step == StepWaiting && e.BuyerAgreed && e.SellerAgreed {
			s.Step = StepLocation
		}
		return s, nil, nil

	case EventCancel:
		switch s.Step {
		case StepAgreement, StepWaiting:
			s.Step = StepCancelled
			return s, []Effect{EffectCancelled{}}, nil
		}
		return s, nil, ErrInvalidEvent
	}

	switch s.Step {
	case StepAgreement:
		if _, ok := ev.(EventProceed); ok {
			s.Step = StepPrice
			return s, nil, nil
		}

	case StepPrice:
		switch e := ev.(type) {
		case EventEnterPrice:
			s.PriceInput = e.Input
			return s, nil, nil
		case EventBack:
			s.Step = StepAgreement
			return s, nil, nil
		case EventConfirmPrice:
			if !m.CanConfirmPrice(s) {
				return s, nil, ErrPriceInvalid
			}
			price, _ := s.ProposedPrice()
			if s.Bilateral {
				s.Step = StepWaiting
				return s, []Effect{EffectSubmitAgreement{Price: price}}, nil
			}
			s.Step = StepLocation
			return s, nil, nil
		}

	case StepWaiting:
		// Only cancel and the counterpart signal, both handled above.

	case StepLocation:
		switch e := ev.(type) {
		case EventPickSafeZone:
			s.SafeZoneID = e.ID
			s.SafeZoneName = e.Name
			s.CustomLocation = ""
			return s, nil, nil
		case EventPickCustomLocation:
			s.CustomLocation = e.Text
			s.SafeZoneID = ""
			s.SafeZoneName = ""
			return s, nil, nil
		case EventPickDate:
			s.MeetingDate = e.Date
			return s, nil, nil
		case EventPickTime:
			if !slotKnown(m.Slots, e.Slot) {
				return s, nil, ErrUnknownSlot
			}
			s.TimeSlot = e.Slot
			return s, nil, nil
		case EventBack:
			s.Step = StepPrice
			return s, nil, nil
		case EventContinue:
			if err := m.continueErr(s); err != nil {
				return s, nil, err
			}
			s.Step = StepConfirm
			return s, nil, nil
		}

	case StepConfirm:
		switch ev.(type) {
		case EventBack:
			s.Step = StepLocation
			return s, nil, nil
		case EventConfirmMeeting:
			price, _ := s.ProposedPrice()
			done := s
			done.Step = StepDone
			eff := EffectCompleted{
				Result: Result{
					LocationDescriptor: s.LocationDescriptor(),
					ScheduleSummary:    ScheduleSummary(s.MeetingDate, s.TimeSlot),
					FinalPrice:         price,
				},
				Payload: Payload{
					AgreedPrice:     price,
					SafeZoneID:      s.SafeZoneID,
					CustomLocation:  trimmed(s.CustomLocation),
					Datetime:        meetingDatetime(s.MeetingDate, s.TimeSlot),
					PrivacyRevealed: true,
				},
			}
			return done, []Effect{eff}, nil
		}
	}

	return s, nil, ErrInvalidEvent
}

// continueErr names the first failing location-step guard.
func (m *Machine) continueErr(s Session) error {
	if !s.HasLocation() {
		return ErrLocationMissing
	}
	if !dateValid(s.MeetingDate, m.now()) {
		return ErrDateInvalid
	}
	if s.TimeSlot == "" {
		return ErrTimeMissing
	}
	return nil
}

func (m *Machine) now() time.Time {
	if m.Now != nil {
		return m.Now()
	}
	return time.Now()
}
