package generate

import (
	"strings"

	"github.com/sells-group/bizscout/pkg/gemini"
)

// DefaultModel is used when the model list is unavailable or empty.
const DefaultModel = "models/gemini-1.5-flash"

// Matcher picks a model from the provider's list, reporting whether it matched.
type Matcher func(names []string) (string, bool)

// Exact matches a model name exactly.
func Exact(name string) Matcher {
	return func(names []string) (string, bool) {
		for _, n := range names {
			if n == name {
				return n, true
			}
		}
		return "", false
	}
}

// Containing matches the first name containing sub and none of the excluded
// substrings.
func Containing(sub string, exclude ...string) Matcher {
	return func(names []string) (string, bool) {
		if sub == "" {
			return "", false
		}
	next:
		for _, n := range names {
			if !strings.Contains(n, sub) {
				continue
			}
			for _, x := range exclude {
				if strings.Contains(n, x) {
					continue next
				}
			}
			return n, true
		}
		return "", false
	}
}

// First matches the first listed model.
func First() Matcher {
	return func(names []string) (string, bool) {
		if len(names) == 0 {
			return "", false
		}
		return names[0], true
	}
}

// Resolve evaluates matchers in order and returns the first match, or
// fallback when nothing matches.
func Resolve(names []string, fallback string, chain ...Matcher) string {
	for _, m := range chain {
		if name, ok := m(names); ok {
			return name
		}
	}
	return fallback
}

// GenerationChain prefers the requested model, then Gemini 2.0, then the
// 1.5 flash model, then any Gemini model.
func GenerationChain(requested string) []Matcher {
	return []Matcher{
		Exact(gemini.ModelPath(requested)),
		Containing(strings.TrimPrefix(requested, "models/")),
		Containing("gemini-2.0", "vision"),
		Exact("models/gemini-1.5-flash"),
		Containing("models/gemini", "vision"),
		First(),
	}
}

// ValidationChain prefers small, widely available models for the key check.
func ValidationChain() []Matcher {
	return []Matcher{
		Exact("models/gemini-1.5-flash"),
		Exact("models/gemini-pro"),
		Containing("gemini-2.0", "vision"),
		Containing("models/gemini", "vision"),
		First(),
	}
}
