package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAmountExactArithmetic(t *testing.T) {
	a, err := NewAmount(0.1)
	require.NoError(t, err)
	b, err := NewAmount(0.2)
	require.NoError(t, err)
	sum, err := NewAmount(0.3)
	require.NoError(t, err)

	assert.True(t, a.Add(b).Equals(sum), "decimal arithmetic must not drift")
}

func TestAmountValidation(t *testing.T) {
	_, err := NewAmount(-0.01)
	assert.Error(t, err)

	zero, err := NewAmount(0)
	require.NoError(t, err)
	assert.True(t, zero.IsZero())

	a, err := NewAmountFromString("19.99")
	require.NoError(t, err)
	assert.Equal(t, "19.99", a.String())
	assert.Equal(t, 19.99, a.Float64())

	_, err = NewAmountFromString("-5")
	assert.Error(t, err)
	_, err = NewAmountFromString("abc")
	assert.Error(t, err)
}

func TestAmountStringIsFixedWidth(t *testing.T) {
	a, err := NewAmount(5)
	require.NoError(t, err)
	assert.Equal(t, "5.00", a.String())
}

func TestEmailValidation(t *testing.T) {
	cases := map[string]bool{
		"shopper@example.com":     true,
		"first.last@sub.host.org": true,
		"no-at-sign":              false,
		"two@@example.com":        false,
		"spaces in@example.com":   false,
		"":                        false,
	}
	for input, valid := range cases {
		_, err := NewEmail(input)
		if valid {
			assert.NoError(t, err, input)
		} else {
			assert.Error(t, err, input)
		}
	}
}

func TestZipValidation(t *testing.T) {
	for _, input := range []string{"90210", "SW1A 1AA", "K1A-0B1", "10"} {
		_, err := NewZip(input)
		assert.NoError(t, err, input)
	}
	for _, input := range []string{"", "X", "way-too-long-for-a-zip", "bad!zip"} {
		_, err := NewZip(input)
		assert.Error(t, err, input)
	}
}

func TestBinValidation(t *testing.T) {
	bin, err := NewBin("411111")
	require.NoError(t, err)
	assert.Equal(t, "411111", bin.String())

	for _, input := range []string{"", "41111", "4111111", "41111a"} {
		_, err := NewBin(input)
		assert.Error(t, err, input)
	}
}

func TestIPValidation(t *testing.T) {
	for _, input := range []string{"203.0.113.7", "::1", "2001:db8::42"} {
		_, err := NewIP(input)
		assert.NoError(t, err, input)
	}
	for _, input := range []string{"", "999.0.0.1", "not-an-ip"} {
		_, err := NewIP(input)
		assert.Error(t, err, input)
	}
}

func TestCountryCodeNormalizesCase(t *testing.T) {
	c, err := NewCountryCode("us")
	require.NoError(t, err)
	assert.Equal(t, "US", c.String())

	for _, input := range []string{"", "U", "USA", "1A"} {
		_, err := NewCountryCode(input)
		assert.Error(t, err, input)
	}
}

func TestCurrencyCode(t *testing.T) {
	c, err := NewCurrencyCode("usd")
	require.NoError(t, err)
	assert.Equal(t, "USD", c.String())

	other, err := NewCurrencyCode("USD")
	require.NoError(t, err)
	assert.True(t, c.Equals(other))

	_, err = NewCurrencyCode("XXX")
	assert.Error(t, err)
	assert.True(t, CurrencyCode{}.IsEmpty())
}

func TestDuration(t *testing.T) {
	d, err := NewDuration(30)
	require.NoError(t, err)
	assert.Equal(t, 30, d.Days())
	assert.Equal(t, "30d", d.String())

	_, err = NewDuration(0)
	assert.Error(t, err)
	_, err = NewDuration(-7)
	assert.Error(t, err)
}

func TestSessionIDRoundTrip(t *testing.T) {
	id := NewSessionID()
	assert.False(t, id.IsZero())

	parsed, err := ParseSessionID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id.String(), parsed.String())

	_, err = ParseSessionID("not-a-uuid")
	assert.Error(t, err)
	assert.True(t, SessionID{}.IsZero())
}

func TestItemIDsAreUnique(t *testing.T) {
	a := NewItemID()
	b := NewItemID()
	assert.NotEqual(t, a.String(), b.String())
}
