// Package places turns raw search-provider responses into Business records.
package places

import "strings"

// Query describes a local-business search.
type Query struct {
	Location string
	Category string
}

// String renders the provider query text: "<category> in <location>", or
// "Businesses in <location>" when no category is given.
func (q Query) String() string {
	category := strings.TrimSpace(q.Category)
	if category == "" {
		category = "Businesses"
	}
	return category + " in " + q.Location
}
