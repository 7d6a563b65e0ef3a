package domain

import (
	"fmt"
	"strings"
)

// SearchBy selects which text fields a product search inspects.
type SearchBy string

const (
	SearchAll      SearchBy = "all"
	SearchName     SearchBy = "name"
	SearchTags     SearchBy = "tags"
	SearchLocation SearchBy = "location"
)

// SearchFields lists the accepted SearchBy values.
var SearchFields = []SearchBy{SearchAll, SearchName, SearchTags, SearchLocation}

// ParseSearchBy maps user input to a SearchBy. Empty input means SearchAll.
func ParseSearchBy(s string) (SearchBy, error) {
	if s == "" {
		return SearchAll, nil
	}
	for _, f := range SearchFields {
		if strings.EqualFold(s, string(f)) {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: search_by must be one of all, name, tags, location, got %q", ErrInvalidRequest, s)
}

// Matches reports whether p matches query on the fields selected by by.
// SearchAll is an OR across name, tags and location.
func (by SearchBy) Matches(p Product, query string) bool {
	switch by {
	case SearchName:
		return p.NameContains(query)
	case SearchTags:
		return p.TagsContain(query)
	case SearchLocation:
		return p.LocationContains(query)
	default:
		return p.NameContains(query) || p.TagsContain(query) || p.LocationContains(query)
	}
}

// PackagingTypes are the fixed buckets reported by packaging analysis.
var PackagingTypes = []string{"plastic", "glass", "carton"}

// OrganicTag marks organic products in the tags field.
const OrganicTag = "organic"
