// Package entity defines the domain models for the catalog feature.
package entity

import (
	"net/url"
)

// Catalog collections.
const (
	CollectionProducts = "products"
	CollectionBrands   = "brands"
)

// Product fields the service filters on. Their values are stored and matched as strings.
const (
	FieldID        = "_id"
	FieldProductID = "productId"
	FieldRatings   = "ratings"
	FieldFlashSale = "flashSale"
)

// Document is a schemaless catalog entry (a product or a brand) exactly as the client sent it,
// plus the store-assigned "_id".
type Document map[string]any

// StringField returns the value of field when it is a string.
func (d Document) StringField(field string) (string, bool) {
	v, ok := d[field]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Filter is a conjunction of exact string-equality conditions.
// A numeric 5 does not satisfy {"ratings": "5"}.
type Filter map[string]string

// Matches reports whether every condition holds for d.
func (f Filter) Matches(d Document) bool {
	for field, want := range f {
		got, ok := d.StringField(field)
		if !ok || got != want {
			return false
		}
	}
	return true
}

// Key renders the filter canonically (sorted by field) for use in cache keys.
func (f Filter) Key() string {
	if len(f) == 0 {
		return "all"
	}
	v := url.Values{}
	for field, want := range f {
		v.Set(field, want)
	}
	return v.Encode()
}
