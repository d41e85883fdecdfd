package values

import (
	"fmt"
	"net"
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	zipPattern   = regexp.MustCompile(`^[a-zA-Z0-9\- ]{2,10}$`)
	binPattern   = regexp.MustCompile(`^\d{6}$`)
)

// Email is a syntactically valid email address.
type Email struct {
	value string
}

// NewEmail validates and creates an Email.
func NewEmail(value string) (Email, error) {
	if !emailPattern.MatchString(value) {
		return Email{}, fmt.Errorf("invalid email %q", value)
	}
	return Email{value: value}, nil
}

func (e Email) String() string {
	return e.value
}

// IsEmpty reports whether the email is the zero value.
func (e Email) IsEmpty() bool {
	return e.value == ""
}

// Zip is a postal code.
type Zip struct {
	value string
}

// NewZip validates and creates a Zip.
func NewZip(value string) (Zip, error) {
	if !zipPattern.MatchString(value) {
		return Zip{}, fmt.Errorf("invalid zip code %q", value)
	}
	return Zip{value: value}, nil
}

func (z Zip) String() string {
	return z.value
}

// IsEmpty reports whether the zip is the zero value.
func (z Zip) IsEmpty() bool {
	return z.value == ""
}

// Bin is the first six digits of a card number.
type Bin struct {
	value string
}

// NewBin validates and creates a Bin.
func NewBin(value string) (Bin, error) {
	if !binPattern.MatchString(value) {
		return Bin{}, fmt.Errorf("invalid bin %q: must be exactly six digits", value)
	}
	return Bin{value: value}, nil
}

func (b Bin) String() string {
	return b.value
}

// IsEmpty reports whether the bin is the zero value.
func (b Bin) IsEmpty() bool {
	return b.value == ""
}

// IP is a valid IPv4 or IPv6 address.
type IP struct {
	value string
}

// NewIP validates and creates an IP.
func NewIP(value string) (IP, error) {
	if net.ParseIP(value) == nil {
		return IP{}, fmt.Errorf("invalid ip address %q", value)
	}
	return IP{value: value}, nil
}

func (ip IP) String() string {
	return ip.value
}

// IsEmpty reports whether the ip is the zero value.
func (ip IP) IsEmpty() bool {
	return ip.value == ""
}

// CountryCode is an ISO 3166-1 alpha-2 country code.
type CountryCode struct {
	value string
}

// NewCountryCode validates and creates a CountryCode.
func NewCountryCode(value string) (CountryCode, error) {
	v := strings.ToUpper(value)
	if len(v) != 2 || !isAlpha(v) {
		return CountryCode{}, fmt.Errorf("invalid country code %q", value)
	}
	return CountryCode{value: v}, nil
}

func (c CountryCode) String() string {
	return c.value
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}
