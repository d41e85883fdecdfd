package purchase

import "fmt"

// PaymentKind is the closed set of payment info variants.
type PaymentKind string

// Payment info variants.
const (
	PaymentNewCard      PaymentKind = "newCard"
	PaymentTemplateKind PaymentKind = "paymentTemplate"
	PaymentCheque       PaymentKind = "cheque"
	PaymentOther        PaymentKind = "other"
)

// Payment type discriminants as they appear on the wire.
const (
	PaymentTypeCard   = "cc"
	PaymentTypeCheque = "checks"
)

// PaymentInfo is the polymorphic payment selection of a session: a newly
// entered card, a stored payment template, a cheque, or another payment type.
// The variant is resolved once at construction from the discriminant fields.
type PaymentInfo struct {
	kind          PaymentKind
	paymentType   string
	paymentMethod string
	templateID    string
}

// NewCardPaymentInfo selects payment by a newly entered card.
func NewCardPaymentInfo(paymentMethod string) PaymentInfo {
	return PaymentInfo{kind: PaymentNewCard, paymentType: PaymentTypeCard, paymentMethod: paymentMethod}
}

// NewTemplatePaymentInfo selects payment by a stored card template.
func NewTemplatePaymentInfo(templateID string) (PaymentInfo, error) {
	if templateID == "" {
		return PaymentInfo{}, fmt.Errorf("payment template id must not be empty")
	}
	return PaymentInfo{kind: PaymentTemplateKind, paymentType: PaymentTypeCard, templateID: templateID}, nil
}

// NewChequePaymentInfo selects payment by cheque.
func NewChequePaymentInfo() PaymentInfo {
	return PaymentInfo{kind: PaymentCheque, paymentType: PaymentTypeCheque}
}

// NewOtherPaymentInfo selects an alternative payment type such as a wallet.
func NewOtherPaymentInfo(paymentType, paymentMethod string) (PaymentInfo, error) {
	if paymentType == "" {
		return PaymentInfo{}, fmt.Errorf("payment type must not be empty")
	}
	return PaymentInfo{kind: PaymentOther, paymentType: paymentType, paymentMethod: paymentMethod}, nil
}

// RestorePaymentInfo resolves the variant from persisted discriminant fields.
func RestorePaymentInfo(paymentType, paymentMethod, templateID string) (PaymentInfo, error) {
	switch {
	case templateID != "":
		return PaymentInfo{kind: PaymentTemplateKind, paymentType: paymentType, paymentMethod: paymentMethod, templateID: templateID}, nil
	case paymentType == PaymentTypeCard:
		return PaymentInfo{kind: PaymentNewCard, paymentType: paymentType, paymentMethod: paymentMethod}, nil
	case paymentType == PaymentTypeCheque:
		return PaymentInfo{kind: PaymentCheque, paymentType: paymentType, paymentMethod: paymentMethod}, nil
	case paymentType != "":
		return PaymentInfo{kind: PaymentOther, paymentType: paymentType, paymentMethod: paymentMethod}, nil
	default:
		return PaymentInfo{}, fmt.Errorf("payment type must not be empty")
	}
}

// Kind returns the resolved variant.
func (p PaymentInfo) Kind() PaymentKind { return p.kind }

// PaymentType returns the wire discriminant.
func (p PaymentInfo) PaymentType() string { return p.paymentType }

// PaymentMethod returns the method within the type (e.g. card brand).
func (p PaymentInfo) PaymentMethod() string { return p.paymentMethod }

// TemplateID returns the stored template id; empty unless Kind is
// PaymentTemplate.
func (p PaymentInfo) TemplateID() string { return p.templateID }

// UsesExistingTemplate reports whether payment uses a stored template.
func (p PaymentInfo) UsesExistingTemplate() bool { return p.kind == PaymentTemplateKind }

// UsesNewCard reports whether payment uses a newly entered card.
func (p PaymentInfo) UsesNewCard() bool { return p.kind == PaymentNewCard }
