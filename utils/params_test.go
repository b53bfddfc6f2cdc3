package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseQueryOptionsDefaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products", nil)
	opts := ParseQueryOptions(r)

	assert.Equal(t, 1, opts.Page)
	assert.Equal(t, 20, opts.Limit)
	assert.Empty(t, opts.Search)
	assert.Empty(t, opts.Category)
}

func TestParseQueryOptionsClampsLimit(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products?page=3&limit=500&search=go&category=tech&sort=price_asc", nil)
	opts := ParseQueryOptions(r)

	assert.Equal(t, 3, opts.Page)
	assert.Equal(t, 100, opts.Limit)
	assert.Equal(t, "go", opts.Search)
	assert.Equal(t, "tech", opts.Category)
	assert.Equal(t, "price_asc", opts.Sort)
}

func TestParsePagination(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products?page=4&limit=10", nil)
	skip, limit := ParsePagination(r, 10, 100)
	assert.Equal(t, int64(30), skip)
	assert.Equal(t, int64(10), limit)
}

func TestParsePaginationBadInput(t *testing.T) {
	r := httptest.NewRequest("GET", "/api/products?page=-2&limit=abc", nil)
	skip, limit := ParsePagination(r, 10, 100)
	assert.Equal(t, int64(0), skip)
	assert.Equal(t, int64(10), limit)
}

func TestContainsIgnoreCase(t *testing.T) {
	assert.True(t, ContainsIgnoreCase("The Go Programming Language", "go program"))
	assert.True(t, ContainsIgnoreCase("VUNG TRO TAN", "tro"))
	assert.False(t, ContainsIgnoreCase("Clean Code", "go"))
}
