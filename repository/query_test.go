package repository

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePageDefaults(t *testing.T) {
	page := ParsePage(url.Values{})
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultLimit, page.Limit)
}

func TestParsePageMalformedFallsBack(t *testing.T) {
	values := url.Values{"page": {"abc"}, "limit": {"-5"}}
	page := ParsePage(values)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, DefaultLimit, page.Limit)
}

func TestParsePageExplicit(t *testing.T) {
	values := url.Values{"page": {"3"}, "limit": {"7"}}
	page := ParsePage(values)
	assert.Equal(t, 3, page.Page)
	assert.Equal(t, 7, page.Limit)
	assert.Equal(t, 14, page.Offset())
}

func TestParsePageZeroPageFallsBack(t *testing.T) {
	values := url.Values{"page": {"0"}}
	page := ParsePage(values)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 0, page.Offset())
}
