package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterContactInfoMasks(t *testing.T) {
	cases := []struct {
		name  string
		input string
	}{
		{"email", "reach me at seller123@gmail.com for details"},
		{"egyptian mobile", "call 01012345678 tonight"},
		{"mobile with country code", "my number is +201154443322"},
		{"mobile with separators", "text 010 1234 5678"},
		{"link", "check https://example.com/my-shop"},
		{"www link", "go to www.myshop.net"},
		{"whatsapp handle", "add me on whatsapp: seller_99"},
		{"telegram handle", "telegram @fastseller"},
		{"bare handle", "dm @seller_account now"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			filtered, changed := FilterContactInfo(tc.input)
			assert.True(t, changed, "expected masking for %q", tc.input)
			assert.Contains(t, filtered, maskedText)
		})
	}
}

func TestFilterContactInfoLeavesCleanTextAlone(t *testing.T) {
	cases := []string{
		"is the account still available?",
		"price is 1500 EGP, final",
		"the account has 3 skins and rank gold 2",
		"I can deliver tonight after 9",
	}

	for _, input := range cases {
		filtered, changed := FilterContactInfo(input)
		assert.False(t, changed, "unexpected masking for %q", input)
		assert.Equal(t, input, filtered)
	}
}

func TestFilterContactInfoMasksOnlyTheMatch(t *testing.T) {
	filtered, changed := FilterContactInfo("ok deal, email me at buyer@mail.com please")
	assert.True(t, changed)
	assert.Equal(t, "ok deal, email me at [hidden] please", filtered)
}
