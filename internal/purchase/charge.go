package purchase

import (
	"fmt"

	"github.com/meridianlabs/purchase-engine/internal/values"
)

// Charge schedule discriminants.
const (
	ChargeSingle    = "single"
	ChargeRecurring = "recurring"
)

// TaxBreakdown splits one charge into pre-tax, tax, and post-tax amounts.
type TaxBreakdown struct {
	BeforeTaxes values.Amount
	Taxes       values.Amount
	AfterTaxes  values.Amount
}

// Validate checks the breakdown adds up.
func (b TaxBreakdown) Validate() error {
	if !b.BeforeTaxes.Add(b.Taxes).Equals(b.AfterTaxes) {
		return fmt.Errorf("tax breakdown does not add up: %s + %s != %s",
			b.BeforeTaxes, b.Taxes, b.AfterTaxes)
	}
	return nil
}

// ChargeInformation is the single or recurring charge schedule of one item.
// The schedule kind is fixed at construction.
type ChargeInformation struct {
	chargeType    string
	initialAmount values.Amount
	validFor      values.Duration
	rebillAmount  values.Amount
	rebillEvery   values.Duration
	initialTax    *TaxBreakdown
	rebillTax     *TaxBreakdown
}

// NewSingleCharge creates a one-time charge schedule.
func NewSingleCharge(amount values.Amount, validFor values.Duration, tax *TaxBreakdown) (*ChargeInformation, error) {
	if tax != nil {
		if err := tax.Validate(); err != nil {
			return nil, err
		}
	}
	return &ChargeInformation{
		chargeType:    ChargeSingle,
		initialAmount: amount,
		validFor:      validFor,
		initialTax:    tax,
	}, nil
}

// NewRecurringCharge creates an initial-plus-rebill charge schedule.
func NewRecurringCharge(initial values.Amount, validFor values.Duration, rebill values.Amount, rebillEvery values.Duration, initialTax, rebillTax *TaxBreakdown) (*ChargeInformation, error) {
	for _, tax := range []*TaxBreakdown{initialTax, rebillTax} {
		if tax != nil {
			if err := tax.Validate(); err != nil {
				return nil, err
			}
		}
	}
	return &ChargeInformation{
		chargeType:    ChargeRecurring,
		initialAmount: initial,
		validFor:      validFor,
		rebillAmount:  rebill,
		rebillEvery:   rebillEvery,
		initialTax:    initialTax,
		rebillTax:     rebillTax,
	}, nil
}

// IsRecurring reports whether the schedule rebills.
func (c *ChargeInformation) IsRecurring() bool {
	return c.chargeType == ChargeRecurring
}

// InitialAmount returns the first charge amount.
func (c *ChargeInformation) InitialAmount() values.Amount { return c.initialAmount }

// ValidFor returns the period covered by the initial charge.
func (c *ChargeInformation) ValidFor() values.Duration { return c.validFor }

// RebillAmount returns the recurring charge amount; zero for single charges.
func (c *ChargeInformation) RebillAmount() values.Amount { return c.rebillAmount }

// RebillEvery returns the rebill period; zero for single charges.
func (c *ChargeInformation) RebillEvery() values.Duration { return c.rebillEvery }

// InitialTax returns the initial charge tax breakdown, nil when untaxed.
func (c *ChargeInformation) InitialTax() *TaxBreakdown { return c.initialTax }

// RebillTax returns the rebill tax breakdown, nil when untaxed.
func (c *ChargeInformation) RebillTax() *TaxBreakdown { return c.rebillTax }

// TaxInformation describes the tax regime applied to an item's charges.
type TaxInformation struct {
	TaxName          string  `json:"taxName"`
	TaxRate          float64 `json:"taxRate"`
	TaxApplicationID string  `json:"taxApplicationId"`
	TaxCustom        string  `json:"taxCustom"`
	TaxType          string  `json:"taxType"`
}
