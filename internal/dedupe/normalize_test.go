package dedupe

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDomain(t *testing.T) {
	cases := map[string]string{
		"https://www.acmeplumbing.com.au/contact": "acmeplumbing.com.au",
		"http://Example.COM":                      "example.com",
		"acmeplumbing.com.au":                     "acmeplumbing.com.au",
		"www.acme.io":                             "acme.io",
		"":                                        "",
		"https://":                                "",
		"not a url":                               "",
		"localhost":                               "",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeDomain(in), "input %q", in)
	}
}

func TestIsDirectoryDomain(t *testing.T) {
	assert.True(t, IsDirectoryDomain("yelp.com"))
	assert.True(t, IsDirectoryDomain("m.facebook.com"))
	assert.True(t, IsDirectoryDomain("hipages.com.au"))
	assert.False(t, IsDirectoryDomain("acmeplumbing.com.au"))
	assert.False(t, IsDirectoryDomain("notyelp.com.fake"))
}

func TestNormalizeName(t *testing.T) {
	assert.Equal(t, "acme plumbing", NormalizeName("ACME Plumbing Pty Ltd"))
	assert.Equal(t, "acme plumbing", NormalizeName("Acme Plumbing Pty. Ltd."))
	assert.Equal(t, "joe s electrics", NormalizeName("Joe's Electrics"))
	assert.Equal(t, "smith co plumbing", NormalizeName("Smith & Co Plumbing"))
	assert.Equal(t, "", NormalizeName("  "))
}

func TestNormalizePhone(t *testing.T) {
	t.Run("country code folds into local form", func(t *testing.T) {
		assert.Equal(t, NormalizePhone("(02) 9555 0100"), NormalizePhone("+61 2 9555 0100"))
		assert.Equal(t, "0295550100", NormalizePhone("+61 2 9555 0100"))
	})

	t.Run("too short is rejected", func(t *testing.T) {
		assert.Equal(t, "", NormalizePhone("12345"))
		assert.Equal(t, "", NormalizePhone(""))
	})
}

func TestCandidateID(t *testing.T) {
	a := CandidateID("domain:acme.com.au")
	b := CandidateID("domain:acme.com.au")
	c := CandidateID("domain:other.com.au")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 16)
}
