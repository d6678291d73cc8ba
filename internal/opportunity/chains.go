package opportunity

import (
	"strings"

	"golang.org/x/text/cases"

	"github.com/sells-group/bizscout/internal/model"
)

// DefaultChainIndicators are brand tokens that mark a business as part of a
// chain or franchise.
var DefaultChainIndicators = []string{
	"mcdonalds", "walmart", "starbucks", "subway", "7-eleven",
	"tim hortons", "canadian tire", "home depot", "best buy", "costco",
	"safeway", "save-on-foods", "shoppers drug mart", "pizza hut", "wendys",
	"burger king", "boston pizza", "red lobster", "kfc", "a&w",
	"dairy queen", "dollarama", "shell", "petro-canada", "esso",
	"the brick", "staples", "dominos", "papa johns", "taco bell",
	"harveys",
}

// ChainFilter drops businesses whose name contains a chain indicator,
// ignoring case.
type ChainFilter struct {
	indicators []string
}

// NewChainFilter builds a filter from the given indicators. An empty list
// falls back to DefaultChainIndicators.
func NewChainFilter(indicators []string) *ChainFilter {
	if len(indicators) == 0 {
		indicators = DefaultChainIndicators
	}
	f := &ChainFilter{}
	fold := cases.Fold()
	seen := make(map[string]bool, len(indicators))
	for _, ind := range indicators {
		folded := fold.String(strings.TrimSpace(ind))
		if folded == "" || seen[folded] {
			continue
		}
		seen[folded] = true
		f.indicators = append(f.indicators, folded)
	}
	return f
}

// IsChain reports whether name matches any indicator.
func (f *ChainFilter) IsChain(name string) bool {
	// Casers carry state, so each call gets its own.
	folded := cases.Fold().String(name)
	for _, ind := range f.indicators {
		if strings.Contains(folded, ind) {
			return true
		}
	}
	return false
}

// Filter returns the businesses that are not chains, in their original order.
func (f *ChainFilter) Filter(businesses []model.Business) []model.Business {
	kept := make([]model.Business, 0, len(businesses))
	for _, b := range businesses {
		if !f.IsChain(b.Name) {
			kept = append(kept, b)
		}
	}
	return kept
}

// FilterChains removes chain businesses using DefaultChainIndicators.
func FilterChains(businesses []model.Business) []model.Business {
	return NewChainFilter(nil).Filter(businesses)
}
