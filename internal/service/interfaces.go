// Package service defines the interfaces for all collaborators the purchase
// engine consumes. The engine treats every collaborator as a synchronous,
// blocking call with no retry policy of its own.
package service

import (
	"context"
	"time"

	"github.com/meridianlabs/purchase-engine/internal/purchase"
	"github.com/meridianlabs/purchase-engine/internal/session"
)

// SessionStore is the key-value persistence contract for session payloads.
// Stored payloads may be at any historical schema version; callers run
// session.Convert before purchase.Restore.
type SessionStore interface {
	Load(ctx context.Context, sessionID string) (session.Payload, error)
	Save(ctx context.Context, sessionID string, payload session.Payload) error
	Delete(ctx context.Context, sessionID string) error
}

// ProcessingGuard serializes mutation per session id. Acquire fails when
// another request is already processing the same session; the engine relies
// on this to reject concurrent process calls.
type ProcessingGuard interface {
	Acquire(ctx context.Context, sessionID string) (release func(), err error)
}

// EventPublisher delivers BI events. Delivery is at-least-once; subscribers
// must deduplicate.
type EventPublisher interface {
	Publish(ctx context.Context, eventType string, event any) error
}

// CustomerFields carries the fraud-relevant identity fields for scoring.
type CustomerFields struct {
	IP    string
	Email string
	Zip   string
	Bin   string
}

// FraudRecommendationProvider scores a session against the fraud-decision
// pipeline.
type FraudRecommendationProvider interface {
	Recommend(ctx context.Context, sessionID string, fields CustomerFields) (*purchase.FraudRecommendationCollection, error)
}

// BinRouter resolves the biller cascade for a card bin.
type BinRouter interface {
	CascadeFor(ctx context.Context, bin, siteID, currency string) (*purchase.Cascade, error)
}

// PaymentTemplateStore fetches the stored card templates of a member.
type PaymentTemplateStore interface {
	TemplatesFor(ctx context.Context, memberID string) (*purchase.PaymentTemplateCollection, error)
}

// RetryOptions configures backoff for collaborator adapters.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
