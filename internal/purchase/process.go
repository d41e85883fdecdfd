package purchase

import (
	"github.com/google/uuid"

	"github.com/meridianlabs/purchase-engine/internal/values"
)

// PurchaseProcess is the aggregate root of one purchase session. It owns the
// state machine, the biller cascade, the fraud advice, and the line items with
// their settlement attempts. All mutation goes through named commands; an
// illegal command leaves the aggregate untouched.
type PurchaseProcess struct {
	sessionID      values.SessionID
	state          State
	atlasFields    AtlasFields
	publicKeyIndex int
	userInfo       UserInfo
	paymentInfo    PaymentInfo
	items          *ItemCollection

	memberID          string
	memberIDGenerated bool
	purchaseID        string

	entrySiteID    string
	existingMember bool
	currency       values.CurrencyCode

	cascade              *Cascade
	fraudAdvice          *FraudAdvice
	fraudRecommendations *FraudRecommendationCollection
	paymentTemplates     *PaymentTemplateCollection

	gatewaySubmitNumber      int
	skipVoid                 bool
	creditCardWasBlacklisted bool

	redirectURL   string
	postbackURL   string
	trafficSource string
	nuData        NuDataSettings
}

// CreateData is the input for a fresh checkout session.
type CreateData struct {
	SessionID            values.SessionID
	AtlasFields          AtlasFields
	PublicKeyIndex       int
	UserInfo             UserInfo
	PaymentInfo          PaymentInfo
	Items                []*InitializedItem
	MemberID             string
	EntrySiteID          string
	ExistingMember       bool
	Currency             values.CurrencyCode
	Cascade              *Cascade
	FraudAdvice          *FraudAdvice
	FraudRecommendations *FraudRecommendationCollection
	PaymentTemplates     *PaymentTemplateCollection
	RedirectURL          string
	PostbackURL          string
	TrafficSource        string
	NuData               NuDataSettings
	SkipVoid             bool
}

// Create starts a fresh purchase session in the Created state.
func Create(d CreateData) (*PurchaseProcess, error) {
	items, err := NewItemCollection(d.Items)
	if err != nil {
		return nil, err
	}

	sessionID := d.SessionID
	if sessionID.IsZero() {
		sessionID = values.NewSessionID()
	}
	advice := d.FraudAdvice
	if advice == nil {
		advice = NewFraudAdvice(d.UserInfo.IP, d.UserInfo.Email, d.UserInfo.Zip, values.Bin{})
	}
	recommendations := d.FraudRecommendations
	if recommendations == nil {
		recommendations = NewFraudRecommendationCollection()
	}
	templates := d.PaymentTemplates
	if templates == nil {
		templates = NewPaymentTemplateCollection()
	}

	return &PurchaseProcess{
		sessionID:            sessionID,
		state:                StateCreated,
		atlasFields:          d.AtlasFields,
		publicKeyIndex:       d.PublicKeyIndex,
		userInfo:             d.UserInfo,
		paymentInfo:          d.PaymentInfo,
		items:                items,
		memberID:             d.MemberID,
		entrySiteID:          d.EntrySiteID,
		existingMember:       d.ExistingMember,
		currency:             d.Currency,
		cascade:              d.Cascade,
		fraudAdvice:          advice,
		fraudRecommendations: recommendations,
		paymentTemplates:     templates,
		redirectURL:          d.RedirectURL,
		postbackURL:          d.PostbackURL,
		trafficSource:        d.TrafficSource,
		nuData:               d.NuData,
		skipVoid:             d.SkipVoid,
	}, nil
}

// apply runs one command against the transition table.
func (p *PurchaseProcess) apply(command Command) error {
	next, err := Next(p.state, command)
	if err != nil {
		return err
	}
	p.state = next
	return nil
}

// Validate marks the session ready for a settlement attempt.
func (p *PurchaseProcess) Validate() error {
	return p.apply(CommandValidate)
}

// StartProcessing moves the session into a settlement attempt without fraud
// gating. Callers outside post-3DS resumption should use Process.
func (p *PurchaseProcess) StartProcessing() error {
	return p.apply(CommandStartProcessing)
}

// Process begins a settlement attempt. An outstanding captcha advisory blocks
// the command before any state change.
func (p *PurchaseProcess) Process() error {
	if !p.fraudAdvice.IsCaptchaValidated() {
		return ErrCaptchaNotValidated
	}
	return p.apply(CommandStartProcessing)
}

// StartPending parks the session on a pending third-party settlement.
func (p *PurchaseProcess) StartPending() error {
	return p.apply(CommandStartPending)
}

// Redirect hands the shopper to a third-party biller page.
func (p *PurchaseProcess) Redirect(url string) error {
	if err := p.apply(CommandRedirect); err != nil {
		return err
	}
	p.redirectURL = url
	return nil
}

// PerformThreeDLookup records a 3DS enrollment lookup.
func (p *PurchaseProcess) PerformThreeDLookup() error {
	return p.apply(CommandPerformThreeDLookup)
}

// AuthenticateThreeD records a completed 3DS authentication.
func (p *PurchaseProcess) AuthenticateThreeD() error {
	return p.apply(CommandAuthenticateThreeD)
}

// FinishProcessing closes the session; Processed is terminal.
func (p *PurchaseProcess) FinishProcessing() error {
	return p.apply(CommandFinishProcessing)
}

// BlockDueToFraudAdvice blocks the session on fraud advice.
func (p *PurchaseProcess) BlockDueToFraudAdvice() error {
	return p.apply(CommandBlockDueToFraud)
}

// NoMoreBillersAvailable closes the session when the cascade is exhausted.
func (p *PurchaseProcess) NoMoreBillersAvailable() error {
	return p.apply(CommandFinishProcessing)
}

// PostProcessing encodes the decision tree after a settlement attempt: park on
// pending, stop on NSF, stop when done or exhausted, otherwise go back to
// Valid for the next cascade attempt.
func (p *PurchaseProcess) PostProcessing() error {
	main := p.items.MainItem()

	if last := main.LastTransaction(); last != nil && last.IsPending() {
		return p.apply(CommandStartPending)
	}
	if main.WasItemNsfPurchase() {
		return p.apply(CommandFinishProcessing)
	}
	if p.cascade == nil || !p.cascade.HasSubmitsLeft() || main.WasItemPurchaseSuccessful() {
		return p.apply(CommandFinishProcessing)
	}

	if err := p.apply(CommandValidate); err != nil {
		return err
	}
	if !p.cascade.HasSubmitsLeft() {
		return p.apply(CommandFinishProcessing)
	}
	return nil
}

// IncrementGatewaySubmitNumber counts one attempt against the current cascade
// position. It is a no-op once the session is processed, blocked, or pending,
// and auto-finishes when the cascade has nothing left.
func (p *PurchaseProcess) IncrementGatewaySubmitNumber() error {
	switch p.state {
	case StateProcessed, StateBlockedDueToFraud, StatePending:
		return nil
	}
	p.gatewaySubmitNumber++
	if p.cascade != nil && !p.cascade.HasSubmitsLeft() {
		return p.apply(CommandFinishProcessing)
	}
	return nil
}

// ValidateInitCaptcha lowers the init captcha gate and unblocks the session
// when blacklisting does not also apply.
func (p *PurchaseProcess) ValidateInitCaptcha() error {
	if err := p.fraudAdvice.ValidateInitCaptcha(); err != nil {
		return err
	}
	return p.afterCaptchaValidated()
}

// ValidateProcessCaptcha lowers the process captcha gate and unblocks the
// session when blacklisting does not also apply.
func (p *PurchaseProcess) ValidateProcessCaptcha() error {
	if err := p.fraudAdvice.ValidateProcessCaptcha(); err != nil {
		return err
	}
	return p.afterCaptchaValidated()
}

func (p *PurchaseProcess) afterCaptchaValidated() error {
	p.resetGeneratedMemberID()
	if p.state == StateBlockedDueToFraud && !p.fraudAdvice.IsBlacklisted() {
		return p.apply(CommandValidate)
	}
	return nil
}

// resetGeneratedMemberID discards a lazily issued member id so a fresh one is
// generated for the retried attempt. Ids supplied by the caller are kept.
func (p *PurchaseProcess) resetGeneratedMemberID() {
	if p.memberIDGenerated && !p.existingMember {
		p.memberID = ""
		p.memberIDGenerated = false
	}
}

// MarkCreditCardBlacklisted records that the card was blacklisted during this
// session.
func (p *PurchaseProcess) MarkCreditCardBlacklisted() {
	p.creditCardWasBlacklisted = true
}

// RecordTransaction appends a settlement attempt to the item that carries it.
func (p *PurchaseProcess) RecordTransaction(itemID values.ItemID, t *Transaction) error {
	item := p.items.ByItemID(itemID)
	if item == nil {
		return ErrMainItemMissing
	}
	item.AddTransaction(t)
	return nil
}

// FilterBillersForForcedThreeD drops non-3DS billers from the cascade when
// fraud advice forces 3DS.
func (p *PurchaseProcess) FilterBillersForForcedThreeD() error {
	if p.cascade == nil || !p.fraudAdvice.IsForceThreeD() {
		return nil
	}
	return p.cascade.RemoveNonThreeDSBillers()
}

// Accessors.

// SessionID returns the aggregate identity.
func (p *PurchaseProcess) SessionID() values.SessionID { return p.sessionID }

// State returns the current lifecycle state.
func (p *PurchaseProcess) State() State { return p.state }

// AtlasFields returns the opaque tracking codes.
func (p *PurchaseProcess) AtlasFields() AtlasFields { return p.atlasFields }

// PublicKeyIndex returns the public key rotation index.
func (p *PurchaseProcess) PublicKeyIndex() int { return p.publicKeyIndex }

// UserInfo returns the shopper identity.
func (p *PurchaseProcess) UserInfo() UserInfo { return p.userInfo }

// SetUserInfo replaces the shopper identity before processing.
func (p *PurchaseProcess) SetUserInfo(info UserInfo) { p.userInfo = info }

// PaymentInfo returns the payment selection.
func (p *PurchaseProcess) PaymentInfo() PaymentInfo { return p.paymentInfo }

// Items returns the line-item collection.
func (p *PurchaseProcess) Items() *ItemCollection { return p.items }

// MainItem returns the single non-cross-sale item.
func (p *PurchaseProcess) MainItem() *InitializedItem { return p.items.MainItem() }

// MemberID returns the member id, generating and memoizing one on first use.
func (p *PurchaseProcess) MemberID() string {
	if p.memberID == "" {
		p.memberID = uuid.NewString()
		p.memberIDGenerated = true
	}
	return p.memberID
}

// HasMemberID reports whether a member id exists without generating one.
func (p *PurchaseProcess) HasMemberID() bool { return p.memberID != "" }

// PurchaseID returns the purchase id, generating and memoizing one on first
// use.
func (p *PurchaseProcess) PurchaseID() string {
	if p.purchaseID == "" {
		p.purchaseID = uuid.NewString()
	}
	return p.purchaseID
}

// HasPurchaseID reports whether a purchase id exists without generating one.
func (p *PurchaseProcess) HasPurchaseID() bool { return p.purchaseID != "" }

// EntrySiteID returns the entry site attribution.
func (p *PurchaseProcess) EntrySiteID() string { return p.entrySiteID }

// IsExistingMember reports a returning member.
func (p *PurchaseProcess) IsExistingMember() bool { return p.existingMember }

// Currency returns the settlement currency.
func (p *PurchaseProcess) Currency() values.CurrencyCode { return p.currency }

// Cascade returns the owned biller cascade, nil for third-party-only flows
// initialized without one.
func (p *PurchaseProcess) Cascade() *Cascade { return p.cascade }

// FraudAdvice returns the owned fraud advice.
func (p *PurchaseProcess) FraudAdvice() *FraudAdvice { return p.fraudAdvice }

// FraudRecommendations returns the scored recommendation collection.
func (p *PurchaseProcess) FraudRecommendations() *FraudRecommendationCollection {
	return p.fraudRecommendations
}

// SetFraudRecommendations replaces the recommendation collection after a
// re-scoring pass.
func (p *PurchaseProcess) SetFraudRecommendations(c *FraudRecommendationCollection) {
	p.fraudRecommendations = c
}

// PaymentTemplates returns the stored templates offered for this session.
func (p *PurchaseProcess) PaymentTemplates() *PaymentTemplateCollection {
	return p.paymentTemplates
}

// GatewaySubmitNumber returns the attempt counter.
func (p *PurchaseProcess) GatewaySubmitNumber() int { return p.gatewaySubmitNumber }

// SkipVoid reports whether void-on-decline is skipped.
func (p *PurchaseProcess) SkipVoid() bool { return p.skipVoid }

// CreditCardWasBlacklisted reports a card blacklist hit during this session.
func (p *PurchaseProcess) CreditCardWasBlacklisted() bool { return p.creditCardWasBlacklisted }

// RedirectURL returns the third-party redirect url.
func (p *PurchaseProcess) RedirectURL() string { return p.redirectURL }

// PostbackURL returns the pending-settlement postback url.
func (p *PurchaseProcess) PostbackURL() string { return p.postbackURL }

// TrafficSource returns the traffic segmentation tag.
func (p *PurchaseProcess) TrafficSource() string { return p.trafficSource }

// NuData returns the device fingerprint collection settings.
func (p *PurchaseProcess) NuData() NuDataSettings { return p.nuData }

// IsProcessed reports the terminal state.
func (p *PurchaseProcess) IsProcessed() bool { return p.state == StateProcessed }

// IsPending reports a session awaiting third-party settlement.
func (p *PurchaseProcess) IsPending() bool { return p.state == StatePending }

// IsBlockedDueToFraudAdvice reports a fraud-blocked session.
func (p *PurchaseProcess) IsBlockedDueToFraudAdvice() bool {
	return p.state == StateBlockedDueToFraud
}

// IsValid reports a session ready for a settlement attempt.
func (p *PurchaseProcess) IsValid() bool { return p.state == StateValid }

// WasMainItemPurchaseSuccessful reports whether the main item settled.
func (p *PurchaseProcess) WasMainItemPurchaseSuccessful() bool {
	return p.items.MainItem().WasItemPurchaseSuccessful()
}
