package values

import (
	"fmt"

	"github.com/google/uuid"
)

// ID is a UUID-backed identifier. Domain identifiers (session, site, bundle,
// addon, item, member, purchase, subscription) are all distinct named types
// over the same representation so they cannot be mixed up at call sites.
type ID struct {
	value uuid.UUID
}

func parseID(kind, value string) (ID, error) {
	u, err := uuid.Parse(value)
	if err != nil {
		return ID{}, fmt.Errorf("invalid %s id %q: %w", kind, value, err)
	}
	return ID{value: u}, nil
}

func newID() ID {
	return ID{value: uuid.New()}
}

func (id ID) String() string {
	return id.value.String()
}

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool {
	return id.value == uuid.Nil
}

// SessionID identifies one purchase session.
type SessionID struct{ ID }

// NewSessionID generates a fresh session id.
func NewSessionID() SessionID {
	return SessionID{newID()}
}

// ParseSessionID validates and creates a SessionID from its string form.
func ParseSessionID(value string) (SessionID, error) {
	id, err := parseID("session", value)
	if err != nil {
		return SessionID{}, err
	}
	return SessionID{id}, nil
}

// SiteID identifies the site a purchase originates from.
type SiteID struct{ ID }

// ParseSiteID validates and creates a SiteID from its string form.
func ParseSiteID(value string) (SiteID, error) {
	id, err := parseID("site", value)
	if err != nil {
		return SiteID{}, err
	}
	return SiteID{id}, nil
}

// BundleID identifies a purchasable bundle.
type BundleID struct{ ID }

// ParseBundleID validates and creates a BundleID from its string form.
func ParseBundleID(value string) (BundleID, error) {
	id, err := parseID("bundle", value)
	if err != nil {
		return BundleID{}, err
	}
	return BundleID{id}, nil
}

// AddonID identifies an addon within a bundle.
type AddonID struct{ ID }

// ParseAddonID validates and creates an AddonID from its string form.
func ParseAddonID(value string) (AddonID, error) {
	id, err := parseID("addon", value)
	if err != nil {
		return AddonID{}, err
	}
	return AddonID{id}, nil
}

// ItemID identifies one initialized line item.
type ItemID struct{ ID }

// NewItemID generates a fresh item id.
func NewItemID() ItemID {
	return ItemID{newID()}
}

// ParseItemID validates and creates an ItemID from its string form.
func ParseItemID(value string) (ItemID, error) {
	id, err := parseID("item", value)
	if err != nil {
		return ItemID{}, err
	}
	return ItemID{id}, nil
}
