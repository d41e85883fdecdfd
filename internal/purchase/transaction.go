package purchase

import (
	"fmt"

	"github.com/meridianlabs/purchase-engine/internal/biller"
)

// TransactionState is the settlement outcome of one biller attempt.
type TransactionState string

// Transaction states.
const (
	TransactionApproved TransactionState = "approved"
	TransactionDeclined TransactionState = "declined"
	TransactionAborted  TransactionState = "aborted"
	TransactionPending  TransactionState = "pending"
)

// ParseTransactionState validates a persisted transaction state.
func ParseTransactionState(value string) (TransactionState, error) {
	switch TransactionState(value) {
	case TransactionApproved, TransactionDeclined, TransactionAborted, TransactionPending:
		return TransactionState(value), nil
	}
	return "", fmt.Errorf("unknown transaction state %q", value)
}

// ErrorClassification describes a decline for retry and messaging decisions.
type ErrorClassification struct {
	GroupDecline      string `json:"groupDecline"`
	ErrorType         string `json:"errorType"`
	GroupMessage      string `json:"groupMessage"`
	RecommendedAction string `json:"recommendedAction"`
}

// ThreeDInfo holds the 3DS authentication artifacts a biller returned.
type ThreeDInfo struct {
	Acs                 string `json:"acs"`
	Pareq               string `json:"pareq"`
	StepUpURL           string `json:"stepUpUrl"`
	StepUpJwt           string `json:"stepUpJwt"`
	DeviceCollectionURL string `json:"deviceCollectionUrl"`
	DeviceCollectionJwt string `json:"deviceCollectionJwt"`
	Frictionless        bool   `json:"frictionless"`
	Version             int    `json:"version"`
}

// TransactionData is the constructor input for a Transaction.
type TransactionData struct {
	TransactionID       string
	State               TransactionState
	BillerName          string
	NewCardUsed         bool
	RedirectURL         string
	IsNsf               bool
	ThreeD              *ThreeDInfo
	ErrorClassification *ErrorClassification
}

// Transaction is one settlement attempt against one biller. Transactions are
// appended to an item's collection and never mutated afterward.
type Transaction struct {
	transactionID       string
	state               TransactionState
	billerName          string
	newCardUsed         bool
	redirectURL         string
	isNsf               bool
	threeD              *ThreeDInfo
	errorClassification *ErrorClassification
}

// NewTransaction validates and creates a Transaction. The transaction id may
// be empty until the biller assigns one.
func NewTransaction(d TransactionData) (*Transaction, error) {
	if _, err := ParseTransactionState(string(d.State)); err != nil {
		return nil, err
	}
	if !biller.IsKnown(d.BillerName) {
		return nil, fmt.Errorf("unknown biller %q on transaction", d.BillerName)
	}
	if d.ThreeD != nil && d.ThreeD.Version != 1 && d.ThreeD.Version != 2 {
		return nil, fmt.Errorf("unsupported threeD version %d", d.ThreeD.Version)
	}
	return &Transaction{
		transactionID:       d.TransactionID,
		state:               d.State,
		billerName:          d.BillerName,
		newCardUsed:         d.NewCardUsed,
		redirectURL:         d.RedirectURL,
		isNsf:               d.IsNsf,
		threeD:              d.ThreeD,
		errorClassification: d.ErrorClassification,
	}, nil
}

// TransactionID returns the biller-assigned id, empty if not yet assigned.
func (t *Transaction) TransactionID() string { return t.transactionID }

// State returns the settlement outcome.
func (t *Transaction) State() TransactionState { return t.state }

// BillerName returns the biller that handled the attempt.
func (t *Transaction) BillerName() string { return t.billerName }

// NewCardUsed reports whether a newly entered card was used.
func (t *Transaction) NewCardUsed() bool { return t.newCardUsed }

// RedirectURL returns the third-party redirect url, if any.
func (t *Transaction) RedirectURL() string { return t.redirectURL }

// IsNsf reports a non-sufficient-funds decline, exempt from cascade retry.
func (t *Transaction) IsNsf() bool { return t.isNsf }

// ThreeD returns the 3DS artifacts, nil when 3DS was not involved.
func (t *Transaction) ThreeD() *ThreeDInfo { return t.threeD }

// ErrorClassification returns the decline classification, nil when approved.
func (t *Transaction) ErrorClassification() *ErrorClassification { return t.errorClassification }

// IsApproved reports an approved settlement.
func (t *Transaction) IsApproved() bool { return t.state == TransactionApproved }

// IsPending reports an attempt awaiting third-party completion.
func (t *Transaction) IsPending() bool { return t.state == TransactionPending }

// IsDeclined reports a declined settlement.
func (t *Transaction) IsDeclined() bool { return t.state == TransactionDeclined }

// IsAborted reports an aborted attempt.
func (t *Transaction) IsAborted() bool { return t.state == TransactionAborted }

// TransactionCollection is the ordered, append-only list of attempts for one
// item. The last entry decides the item's derived state.
type TransactionCollection struct {
	items []*Transaction
}

// Add appends a transaction. Entries are never removed or reordered.
func (c *TransactionCollection) Add(t *Transaction) {
	c.items = append(c.items, t)
}

// Last returns the most recent transaction, nil when no attempt was made.
func (c *TransactionCollection) Last() *Transaction {
	if len(c.items) == 0 {
		return nil
	}
	return c.items[len(c.items)-1]
}

// LastState returns the most recent transaction state, empty when none.
func (c *TransactionCollection) LastState() TransactionState {
	last := c.Last()
	if last == nil {
		return ""
	}
	return last.State()
}

// Count returns the number of attempts.
func (c *TransactionCollection) Count() int {
	return len(c.items)
}

// Items returns the attempts in order.
func (c *TransactionCollection) Items() []*Transaction {
	return c.items
}
