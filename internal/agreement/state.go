// Package agreement implements the safe-zone meeting negotiation as an
// explicit state machine. It holds no I/O: callers feed Events into Apply
// and act on the returned Effects.
package agreement

// Role identifies which side of the listing drives a session.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
)

// Step is the wizard's current position.
type Step string

const (
	StepAgreement Step = "agreement"
	StepPrice     Step = "price"
	StepWaiting   Step = "waiting"
	StepLocation  Step = "location"
	StepConfirm   Step = "confirm"
	StepDone      Step = "done"
	StepCancelled Step = "cancelled"
)

// Session is one party's local negotiation state. Buyer and seller each run
// an independent Session; the only shared state is the external deal record
// consulted during the bilateral waiting step.
type Session struct {
	ListingID      string  `json:"listingId"`
	ConversationID string  `json:"conversationId"`
	ListingTitle   string  `json:"listingTitle"`
	Role           Role    `json:"role"`
	OriginalPrice  float64 `json:"originalPrice"`

	// Bilateral inserts the waiting step: both parties must submit their
	// agreement to the shared deal record before location selection unlocks.
	Bilateral bool `json:"bilateral"`

	Step Step `json:"step"`

	// PriceInput mirrors the editable price field, seeded with the asking
	// price. Kept as entered so back-navigation restores it exactly.
	PriceInput string `json:"priceInput"`

	SafeZoneID     string `json:"safeZoneId,omitempty"`
	SafeZoneName   string `json:"safeZoneName,omitempty"`
	CustomLocation string `json:"customLocation,omitempty"`
	MeetingDate    string `json:"meetingDate,omitempty"` // YYYY-MM-DD
	TimeSlot       string `json:"timeSlot,omitempty"`
}

// ProposedPrice parses the price field. ok is false when the field is empty
// or does not parse; a parsed value may still fail the positivity guard.
func (s Session) ProposedPrice() (float64, bool) {
	return ParsePrice(s.PriceInput)
}

// HasLocation reports whether exactly one location variant is populated.
func (s Session) HasLocation() bool {
	return s.SafeZoneID != "" || trimmed(s.CustomLocation) != ""
}

// LocationDescriptor is the string handed to the completion callback: the
// safe zone's name when one is chosen, otherwise the custom text.
func (s Session) LocationDescriptor() string {
	if s.SafeZoneID != "" {
		if s.SafeZoneName != "" {
			return s.SafeZoneName
		}
		return s.SafeZoneID
	}
	return trimmed(s.CustomLocation)
}
