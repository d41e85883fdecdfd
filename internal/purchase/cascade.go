package purchase

import (
	"fmt"

	"github.com/meridianlabs/purchase-engine/internal/biller"
)

// Cascade is the live biller-retry cursor for one purchase session. Billers
// are attempted strictly in order; only one biller is ever current, and the
// cursor only moves forward.
type Cascade struct {
	billers               []biller.Biller
	currentBillerSubmit   int
	currentBillerPosition int
	removedBillersFor3DS  []string
}

// NewCascade creates a cascade positioned at the first biller.
func NewCascade(billers []biller.Biller) (*Cascade, error) {
	if len(billers) == 0 {
		return nil, ErrNoBillersInCascade
	}
	return &Cascade{billers: billers}, nil
}

// RestoreCascade rebuilds a cascade from persisted cursor data.
func RestoreCascade(billerNames []string, currentBiller string, submit, position int, removedFor3DS []string) (*Cascade, error) {
	if len(billerNames) == 0 {
		return nil, ErrNoBillersInCascade
	}
	billers := make([]biller.Biller, 0, len(billerNames))
	for _, name := range billerNames {
		b, err := biller.ByName(name)
		if err != nil {
			return nil, err
		}
		billers = append(billers, b)
	}
	if position < 0 || position >= len(billers) {
		return nil, fmt.Errorf("cascade position %d out of range for %d billers", position, len(billers))
	}
	if submit < 0 {
		return nil, fmt.Errorf("cascade submit count must not be negative, got %d", submit)
	}
	if currentBiller != "" && billers[position].Name() != currentBiller {
		return nil, fmt.Errorf("cascade cursor mismatch: position %d holds %s, payload says %s",
			position, billers[position].Name(), currentBiller)
	}
	return &Cascade{
		billers:               billers,
		currentBillerSubmit:   submit,
		currentBillerPosition: position,
		removedBillersFor3DS:  removedFor3DS,
	}, nil
}

// CurrentBiller returns the biller the cursor points at.
func (c *Cascade) CurrentBiller() biller.Biller {
	return c.billers[c.currentBillerPosition]
}

// CurrentBillerSubmit returns the attempts made against the current biller.
func (c *Cascade) CurrentBillerSubmit() int {
	return c.currentBillerSubmit
}

// CurrentBillerPosition returns the cursor index.
func (c *Cascade) CurrentBillerPosition() int {
	return c.currentBillerPosition
}

// Billers returns the ordered biller list.
func (c *Cascade) Billers() []biller.Biller {
	return c.billers
}

// BillerNames returns the ordered biller names.
func (c *Cascade) BillerNames() []string {
	names := make([]string, len(c.billers))
	for i, b := range c.billers {
		names[i] = b.Name()
	}
	return names
}

// RemovedBillersFor3DS returns the names removed because 3DS was forced.
func (c *Cascade) RemovedBillersFor3DS() []string {
	return c.removedBillersFor3DS
}

func (c *Cascade) isLastBiller() bool {
	return c.currentBillerPosition == len(c.billers)-1
}

func (c *Cascade) currentBillerHasSubmitsLeft() bool {
	return c.currentBillerSubmit < c.CurrentBiller().MaxSubmits()
}

// HasSubmitsLeft reports whether another settlement attempt is possible. It is
// false exactly when the cursor sits on the last biller and that biller has no
// attempts remaining.
func (c *Cascade) HasSubmitsLeft() bool {
	return !(c.isLastBiller() && !c.currentBillerHasSubmitsLeft())
}

// retrieveBiller selects the biller for the next attempt, advancing the cursor
// when the current biller is out of submits.
func (c *Cascade) retrieveBiller() biller.Biller {
	if c.currentBillerHasSubmitsLeft() {
		return c.CurrentBiller()
	}
	c.currentBillerPosition++
	c.currentBillerSubmit = 0
	return c.CurrentBiller()
}

// NextBiller returns the biller for the next settlement attempt and counts the
// attempt against it.
func (c *Cascade) NextBiller() (biller.Biller, error) {
	if !c.HasSubmitsLeft() {
		return nil, ErrInvalidNextBiller
	}
	b := c.retrieveBiller()
	c.currentBillerSubmit++
	return b, nil
}

// IsTheNextBillerThirdParty simulates one NextBiller step without mutating the
// cursor.
func (c *Cascade) IsTheNextBillerThirdParty() bool {
	if !c.HasSubmitsLeft() {
		return false
	}
	if c.currentBillerHasSubmitsLeft() {
		return c.CurrentBiller().IsThirdParty()
	}
	return c.billers[c.currentBillerPosition+1].IsThirdParty()
}

// RemoveNonThreeDSBillers drops billers that cannot do 3DS when 3DS is forced.
// It is a no-op once a direct-biller attempt is already underway. The cursor
// resets to the front of the filtered list.
func (c *Cascade) RemoveNonThreeDSBillers() error {
	current := c.CurrentBiller()
	if !current.IsThirdParty() && (c.currentBillerSubmit != 0 || c.currentBillerPosition != 0) {
		return nil
	}

	kept := make([]biller.Biller, 0, len(c.billers))
	for _, b := range c.billers {
		if b.IsThreeDSupported() {
			kept = append(kept, b)
			continue
		}
		if b.Name() == current.Name() {
			c.removedBillersFor3DS = append(c.removedBillersFor3DS, b.Name())
		}
	}
	if len(kept) == 0 {
		return ErrNoBillersInCascade
	}

	c.billers = kept
	c.currentBillerPosition = 0
	c.currentBillerSubmit = 0
	return nil
}

// RemoveEpochBiller excludes epoch from the cascade. The cursor stays on the
// current biller when it survives the filter, otherwise it resets.
func (c *Cascade) RemoveEpochBiller() error {
	current := c.CurrentBiller().Name()

	kept := make([]biller.Biller, 0, len(c.billers))
	for _, b := range c.billers {
		if b.Name() != biller.EpochName {
			kept = append(kept, b)
		}
	}
	if len(kept) == 0 {
		return ErrNoBillersInCascade
	}

	c.billers = kept
	c.currentBillerPosition = 0
	for i, b := range c.billers {
		if b.Name() == current {
			c.currentBillerPosition = i
			return nil
		}
	}
	c.currentBillerSubmit = 0
	return nil
}
