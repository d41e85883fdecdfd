package purchase

// Fraud recommendation severities.
const (
	SeverityAllow = "allow"
	SeverityBlock = "block"
)

// Fraud recommendation codes the gating logic treats specially.
const (
	// CodeDefault is returned when the scoring pipeline has no opinion.
	CodeDefault = 1000
	// CodeCaptcha asks for a captcha challenge; a soft block.
	CodeCaptcha = 200
	// Force-3DS code range; soft blocks mitigated by 3DS authentication.
	CodeForceThreeD        = 300
	codeForceThreeDRangeLo = 311
	codeForceThreeDRangeHi = 317
)

// FraudRecommendation is one scored entry from the fraud-decision pipeline.
type FraudRecommendation struct {
	Code     int    `json:"code"`
	Severity string `json:"severity"`
	Message  string `json:"message"`
}

// DefaultFraudRecommendation is the allow-everything recommendation used when
// scoring is unavailable.
func DefaultFraudRecommendation() FraudRecommendation {
	return FraudRecommendation{Code: CodeDefault, Severity: SeverityAllow, Message: "Allow_Transaction"}
}

// IsSoftBlockCode reports whether the code is mitigated by a user action
// (captcha or 3DS) instead of rejecting the purchase outright.
func IsSoftBlockCode(code int) bool {
	if code == CodeCaptcha || code == CodeForceThreeD {
		return true
	}
	return code >= codeForceThreeDRangeLo && code <= codeForceThreeDRangeHi
}

// IsHardBlock reports whether this single recommendation rejects the purchase
// unconditionally.
func (r FraudRecommendation) IsHardBlock() bool {
	return r.Severity == SeverityBlock && !IsSoftBlockCode(r.Code)
}

// IsSoftBlock reports whether this recommendation blocks pending a user
// mitigation.
func (r FraudRecommendation) IsSoftBlock() bool {
	return r.Severity == SeverityBlock && IsSoftBlockCode(r.Code)
}

// FraudRecommendationCollection is the ordered list of scored recommendations.
// The first entry is authoritative for block classification.
type FraudRecommendationCollection struct {
	items []FraudRecommendation
}

// NewFraudRecommendationCollection creates a collection from scored entries.
func NewFraudRecommendationCollection(items ...FraudRecommendation) *FraudRecommendationCollection {
	return &FraudRecommendationCollection{items: items}
}

// Items returns the recommendations in scored order.
func (c *FraudRecommendationCollection) Items() []FraudRecommendation {
	return c.items
}

// IsEmpty reports whether no recommendations were scored.
func (c *FraudRecommendationCollection) IsEmpty() bool {
	return len(c.items) == 0
}

// First returns the authoritative recommendation, defaulting when empty.
func (c *FraudRecommendationCollection) First() FraudRecommendation {
	if len(c.items) == 0 {
		return DefaultFraudRecommendation()
	}
	return c.items[0]
}

// HasHardBlock reports whether any member rejects the purchase
// unconditionally.
func (c *FraudRecommendationCollection) HasHardBlock() bool {
	for _, r := range c.items {
		if r.IsHardBlock() {
			return true
		}
	}
	return false
}

// IsHardBlock classifies the collection by its authoritative first entry.
func (c *FraudRecommendationCollection) IsHardBlock() bool {
	return c.First().IsHardBlock()
}

// IsSoftBlock classifies the collection by its authoritative first entry.
func (c *FraudRecommendationCollection) IsSoftBlock() bool {
	return c.First().IsSoftBlock()
}
