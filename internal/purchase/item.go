package purchase

import (
	"github.com/google/uuid"

	"github.com/meridianlabs/purchase-engine/internal/values"
)

// InitializedItem is one line item of a purchase session: the main bundle or
// a cross-sale offered alongside it. Its derived purchase outcome is always
// computed from the last transaction in its append-only collection.
type InitializedItem struct {
	itemID              values.ItemID
	siteID              values.SiteID
	bundleID            values.BundleID
	addonID             values.AddonID
	charge              *ChargeInformation
	tax                 *TaxInformation
	isCrossSale         bool
	isCrossSaleSelected bool
	isTrial             bool
	subscriptionID      string
	transactions        TransactionCollection
}

// ItemData is the constructor input for an InitializedItem.
type ItemData struct {
	ItemID              values.ItemID
	SiteID              values.SiteID
	BundleID            values.BundleID
	AddonID             values.AddonID
	Charge              *ChargeInformation
	Tax                 *TaxInformation
	IsCrossSale         bool
	IsCrossSaleSelected bool
	IsTrial             bool
	SubscriptionID      string
}

// NewInitializedItem creates an item. A zero ItemID gets a fresh one.
func NewInitializedItem(d ItemData) *InitializedItem {
	itemID := d.ItemID
	if itemID.IsZero() {
		itemID = values.NewItemID()
	}
	return &InitializedItem{
		itemID:              itemID,
		siteID:              d.SiteID,
		bundleID:            d.BundleID,
		addonID:             d.AddonID,
		charge:              d.Charge,
		tax:                 d.Tax,
		isCrossSale:         d.IsCrossSale,
		isCrossSaleSelected: d.IsCrossSaleSelected,
		isTrial:             d.IsTrial,
		subscriptionID:      d.SubscriptionID,
	}
}

// ItemID returns the item identity.
func (i *InitializedItem) ItemID() values.ItemID { return i.itemID }

// SiteID returns the originating site.
func (i *InitializedItem) SiteID() values.SiteID { return i.siteID }

// BundleID returns the purchased bundle.
func (i *InitializedItem) BundleID() values.BundleID { return i.bundleID }

// AddonID returns the bundle addon.
func (i *InitializedItem) AddonID() values.AddonID { return i.addonID }

// Charge returns the charge schedule.
func (i *InitializedItem) Charge() *ChargeInformation { return i.charge }

// Tax returns the tax regime, nil when untaxed.
func (i *InitializedItem) Tax() *TaxInformation { return i.tax }

// IsCrossSale reports whether this is a cross-sale offer.
func (i *InitializedItem) IsCrossSale() bool { return i.isCrossSale }

// IsCrossSaleSelected reports whether the shopper accepted the cross-sale.
func (i *InitializedItem) IsCrossSaleSelected() bool { return i.isCrossSaleSelected }

// MarkCrossSaleSelected records the shopper accepting the cross-sale.
func (i *InitializedItem) MarkCrossSaleSelected() { i.isCrossSaleSelected = true }

// IsTrial reports a trial-priced item.
func (i *InitializedItem) IsTrial() bool { return i.isTrial }

// SubscriptionID returns the subscription id, generating and memoizing it on
// first use.
func (i *InitializedItem) SubscriptionID() string {
	if i.subscriptionID == "" {
		i.subscriptionID = uuid.NewString()
	}
	return i.subscriptionID
}

// HasSubscriptionID reports whether a subscription id was already issued.
func (i *InitializedItem) HasSubscriptionID() bool { return i.subscriptionID != "" }

// Transactions returns the item's append-only attempt collection.
func (i *InitializedItem) Transactions() *TransactionCollection { return &i.transactions }

// AddTransaction appends a settlement attempt.
func (i *InitializedItem) AddTransaction(t *Transaction) {
	i.transactions.Add(t)
}

// LastTransaction returns the most recent attempt, nil when none.
func (i *InitializedItem) LastTransaction() *Transaction {
	return i.transactions.Last()
}

// WasItemPurchaseSuccessful reports whether the last attempt was approved.
func (i *InitializedItem) WasItemPurchaseSuccessful() bool {
	last := i.transactions.Last()
	return last != nil && last.IsApproved()
}

// WasItemPurchaseSuccessfulOrPending reports whether the last attempt was
// approved or is awaiting third-party completion.
func (i *InitializedItem) WasItemPurchaseSuccessfulOrPending() bool {
	last := i.transactions.Last()
	return last != nil && (last.IsApproved() || last.IsPending())
}

// WasItemNsfPurchase reports whether the last attempt was an NSF decline.
func (i *InitializedItem) WasItemNsfPurchase() bool {
	last := i.transactions.Last()
	return last != nil && last.IsDeclined() && last.IsNsf()
}

// ItemCollection holds exactly one main item plus zero or more cross-sales.
type ItemCollection struct {
	items []*InitializedItem
}

// NewItemCollection validates the exactly-one-main-item invariant.
func NewItemCollection(items []*InitializedItem) (*ItemCollection, error) {
	mainCount := 0
	for _, item := range items {
		if !item.IsCrossSale() {
			mainCount++
		}
	}
	if mainCount == 0 {
		return nil, ErrMainItemMissing
	}
	if mainCount > 1 {
		return nil, ErrMainItemDuplicated
	}
	return &ItemCollection{items: items}, nil
}

// Items returns all items in order.
func (c *ItemCollection) Items() []*InitializedItem { return c.items }

// MainItem returns the single non-cross-sale item.
func (c *ItemCollection) MainItem() *InitializedItem {
	for _, item := range c.items {
		if !item.IsCrossSale() {
			return item
		}
	}
	// NewItemCollection guarantees one exists.
	return nil
}

// CrossSaleItems returns the cross-sale items in order.
func (c *ItemCollection) CrossSaleItems() []*InitializedItem {
	var crossSales []*InitializedItem
	for _, item := range c.items {
		if item.IsCrossSale() {
			crossSales = append(crossSales, item)
		}
	}
	return crossSales
}

// ByItemID finds an item by id, nil when absent.
func (c *ItemCollection) ByItemID(id values.ItemID) *InitializedItem {
	for _, item := range c.items {
		if item.ItemID().String() == id.String() {
			return item
		}
	}
	return nil
}
