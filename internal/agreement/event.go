package agreement

// Event is the tagged union of everything a session can react to: user
// actions plus the counterpart-update signal from the shared deal record.
type Event interface{ isEvent() }

// EventProceed leaves the intent step for price negotiation.
type EventProceed struct{}

// EventCancel abandons the negotiation. Valid from the intent step and, for
// bilateral sessions, from the waiting step.
type EventCancel struct{}

// EventBack returns to the previous step. Entered values are retained.
type EventBack struct{}

// EventEnterPrice replaces the price field contents with raw user input.
type EventEnterPrice struct {
	Input string
}

// EventConfirmPrice locks the proposed price in. Unilateral sessions move to
// location selection; bilateral sessions move to waiting and emit a
// SubmitAgreement effect.
type EventConfirmPrice struct{}

// EventPickSafeZone selects a curated meeting location, clearing any custom
// location text.
type EventPickSafeZone struct {
	ID   string
	Name string
}

// EventPickCustomLocation enters a free-text meeting place, clearing any
// selected safe zone.
type EventPickCustomLocation struct {
	Text string
}

// EventPickDate sets the meeting date as YYYY-MM-DD.
type EventPickDate struct {
	Date string
}

// EventPickTime selects one of the machine's fixed time slots.
type EventPickTime struct {
	Slot string
}

// EventContinue leaves location selection for the confirmation step, guarded
// by location, date and time validation.
type EventContinue struct{}

// EventConfirmMeeting finalizes the agreement and emits the Completed effect.
type EventConfirmMeeting struct{}

// EventCounterpartUpdate carries the shared deal record's agreement flags.
// It only matters during waiting; elsewhere it is ignored.
type EventCounterpartUpdate struct {
	BuyerAgreed  bool
	SellerAgreed bool
}

func (EventProceed) isEvent()            {}
func (EventCancel) isEvent()             {}
func (EventBack) isEvent()               {}
func (EventEnterPrice) isEvent()         {}
func (EventConfirmPrice) isEvent()       {}
func (EventPickSafeZone) isEvent()       {}
func (EventPickCustomLocation) isEvent() {}
func (EventPickDate) isEvent()           {}
func (EventPickTime) isEvent()           {}
func (EventContinue) isEvent()           {}
func (EventConfirmMeeting) isEvent()     {}
func (EventCounterpartUpdate) isEvent()  {}
