package agreement

// Effect is a side effect requested by a transition. The machine never
// performs effects itself; the caller does.
type Effect interface{ isEffect() }

// EffectCancelled signals the negotiation was abandoned.
type EffectCancelled struct{}

// EffectSubmitAgreement asks the caller to record this party's agreement at
// the given price on the shared deal record.
type EffectSubmitAgreement struct {
	Price float64
}

// EffectCompleted signals a finished agreement and carries both callback
// shapes the frontend contract expects.
type EffectCompleted struct {
	Result  Result
	Payload Payload
}

func (EffectCancelled) isEffect()       {}
func (EffectSubmitAgreement) isEffect() {}
func (EffectCompleted) isEffect()       {}

// Result is the onSelectMeetingLocation tuple. ScheduleSummary always
// contains "at <slot>" with the slot's exact display text; downstream code
// pattern-matches on it.
type Result struct {
	LocationDescriptor string  `json:"locationDescriptor"`
	ScheduleSummary    string  `json:"scheduleSummary"`
	FinalPrice         float64 `json:"finalPrice"`
}

// Payload is the onAgreementComplete object.
type Payload struct {
	AgreedPrice     float64 `json:"agreedPrice"`
	SafeZoneID      string  `json:"safeZoneId,omitempty"`
	CustomLocation  string  `json:"customLocation,omitempty"`
	Datetime        string  `json:"datetime"`
	PrivacyRevealed bool    `json:"privacyRevealed"`
}
