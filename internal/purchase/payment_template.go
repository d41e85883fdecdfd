package purchase

// PaymentTemplate is a stored card reference offered to a returning member.
// Card data lives in the template service; only display fields are kept here.
type PaymentTemplate struct {
	TemplateID      string `json:"templateId"`
	FirstSix        string `json:"firstSix"`
	LastFour        string `json:"lastFour"`
	ExpirationYear  string `json:"expirationYear"`
	ExpirationMonth string `json:"expirationMonth"`
	LastUsedDate    string `json:"lastUsedDate"`
	CreatedAt       string `json:"createdAt"`
	BillerName      string `json:"billerName"`
	IsSelected      bool   `json:"isSelected"`
}

// PaymentTemplateCollection is the ordered list of templates offered for one
// session.
type PaymentTemplateCollection struct {
	items []PaymentTemplate
}

// NewPaymentTemplateCollection creates a collection.
func NewPaymentTemplateCollection(items ...PaymentTemplate) *PaymentTemplateCollection {
	return &PaymentTemplateCollection{items: items}
}

// Items returns the templates in order.
func (c *PaymentTemplateCollection) Items() []PaymentTemplate {
	return c.items
}

// IsEmpty reports whether no templates are available.
func (c *PaymentTemplateCollection) IsEmpty() bool {
	return len(c.items) == 0
}

// Select marks the template with the given id as selected and clears any
// previous selection. It reports whether the id was found.
func (c *PaymentTemplateCollection) Select(templateID string) bool {
	found := false
	for i := range c.items {
		c.items[i].IsSelected = c.items[i].TemplateID == templateID
		if c.items[i].IsSelected {
			found = true
		}
	}
	return found
}

// Selected returns the selected template, nil when none.
func (c *PaymentTemplateCollection) Selected() *PaymentTemplate {
	for i := range c.items {
		if c.items[i].IsSelected {
			return &c.items[i]
		}
	}
	return nil
}
