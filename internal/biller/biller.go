// Package biller defines the closed catalog of payment processors the cascade
// can settle against. Adding a biller means extending this catalog; billers
// are never registered at runtime.
package biller

import "fmt"

// Catalog names.
const (
	RocketgateName = "rocketgate"
	NetbillingName = "netbilling"
	EpochName      = "epoch"
	QyssoName      = "qysso"
)

// Biller is a static capability descriptor for one payment processor.
type Biller interface {
	ID() string
	Name() string
	// MaxSubmits is the number of settlement attempts allowed against this
	// biller for one purchase session.
	MaxSubmits() int
	// IsThirdParty reports whether settlement completes off-session via
	// redirect rather than direct card processing.
	IsThirdParty() bool
	IsThreeDSupported() bool
}

type descriptor struct {
	id            string
	name          string
	maxSubmits    int
	thirdParty    bool
	threeDSupport bool
}

func (d descriptor) ID() string              { return d.id }
func (d descriptor) Name() string            { return d.name }
func (d descriptor) MaxSubmits() int         { return d.maxSubmits }
func (d descriptor) IsThirdParty() bool      { return d.thirdParty }
func (d descriptor) IsThreeDSupported() bool { return d.threeDSupport }

var (
	// Rocketgate is the primary direct card processor.
	Rocketgate Biller = descriptor{id: "23423", name: RocketgateName, maxSubmits: 2, threeDSupport: true}
	// Netbilling is the secondary direct card processor.
	Netbilling Biller = descriptor{id: "23424", name: NetbillingName, maxSubmits: 2}
	// Epoch is a redirect-based third-party processor.
	Epoch Biller = descriptor{id: "23425", name: EpochName, maxSubmits: 1, thirdParty: true}
	// Qysso is a redirect-based third-party processor with 3DS support.
	Qysso Biller = descriptor{id: "23426", name: QyssoName, maxSubmits: 1, thirdParty: true, threeDSupport: true}
)

var catalog = map[string]Biller{
	RocketgateName: Rocketgate,
	NetbillingName: Netbilling,
	EpochName:      Epoch,
	QyssoName:      Qysso,
}

// ByName resolves a biller from its discriminant name.
func ByName(name string) (Biller, error) {
	b, ok := catalog[name]
	if !ok {
		return nil, fmt.Errorf("unknown biller %q", name)
	}
	return b, nil
}

// IsKnown reports whether the name belongs to the catalog.
func IsKnown(name string) bool {
	_, ok := catalog[name]
	return ok
}

// Names returns the catalog names in cascade-default order.
func Names() []string {
	return []string{RocketgateName, NetbillingName, EpochName, QyssoName}
}
