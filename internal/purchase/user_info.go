package purchase

import "github.com/meridianlabs/purchase-engine/internal/values"

// UserInfo is the shopper identity attached to a session. All fields are
// optional at init time and filled in as the checkout progresses.
type UserInfo struct {
	Email       values.Email
	IP          values.IP
	Zip         values.Zip
	Country     values.CountryCode
	FirstName   string
	LastName    string
	Address     string
	City        string
	PhoneNumber string
	Username    string
}

// AtlasFields are the opaque affiliate tracking codes forwarded untouched to
// the BI pipeline.
type AtlasFields struct {
	AtlasCode string `json:"atlasCode"`
	AtlasData string `json:"atlasData"`
}

// NuDataSettings configures client-side device fingerprint collection.
type NuDataSettings struct {
	ClientID string `json:"clientId"`
	URL      string `json:"url"`
	Enabled  bool   `json:"enabled"`
}
