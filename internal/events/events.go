// Package events defines the BI events the engine emits and the publishers
// that deliver them. Delivery is at-least-once; consumers deduplicate on
// session id plus event type.
package events

import "time"

// Event types.
const (
	TypeFraudCaptchaValidated    = "fraud.captcha_validated"
	TypeFraudPurchaseBlacklisted = "fraud.purchase_blacklisted"
	TypePurchaseProcessed        = "purchase.processed"
	TypePurchasePending          = "purchase.pending"
	TypeThreeDLookup             = "purchase.threed_lookup"
)

// CaptchaValidated is emitted when a shopper passes a captcha gate.
type CaptchaValidated struct {
	SessionID  string    `json:"sessionId"`
	Step       string    `json:"step"` // init or process
	OccurredAt time.Time `json:"occurredAt"`
}

// PurchaseBlacklisted is emitted when fraud advice blacklists a session.
type PurchaseBlacklisted struct {
	SessionID  string    `json:"sessionId"`
	Step       string    `json:"step"`
	Bin        string    `json:"bin,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
}

// PurchaseProcessed is emitted when a session reaches its terminal state.
type PurchaseProcessed struct {
	SessionID     string    `json:"sessionId"`
	PurchaseID    string    `json:"purchaseId,omitempty"`
	MemberID      string    `json:"memberId,omitempty"`
	Success       bool      `json:"success"`
	BillerName    string    `json:"billerName,omitempty"`
	SubmitNumber  int       `json:"submitNumber"`
	TrafficSource string    `json:"trafficSource,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// PurchasePending is emitted when a session parks on a third-party
// settlement.
type PurchasePending struct {
	SessionID  string    `json:"sessionId"`
	BillerName string    `json:"billerName"`
	OccurredAt time.Time `json:"occurredAt"`
}

// ThreeDLookup is emitted when a 3DS enrollment lookup is performed.
type ThreeDLookup struct {
	SessionID  string    `json:"sessionId"`
	BillerName string    `json:"billerName"`
	Version    int       `json:"version"`
	OccurredAt time.Time `json:"occurredAt"`
}
