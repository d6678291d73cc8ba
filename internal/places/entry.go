package places

import (
	"math"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// entry is one provider place object. Values are read leniently: a field of
// the wrong type reads as absent instead of failing the whole document.
type entry struct {
	gjson.Result
}

func (e entry) get(key string) (gjson.Result, bool) {
	r := e.Get(key)
	if !r.Exists() || r.Type == gjson.Null {
		return r, false
	}
	return r, true
}

// str reads a string value. Numbers are returned in their JSON text form.
func (e entry) str(key string) (string, bool) {
	r, ok := e.get(key)
	if !ok {
		return "", false
	}
	switch r.Type {
	case gjson.String:
		return r.Str, true
	case gjson.Number:
		return r.Raw, true
	default:
		return "", false
	}
}

// float reads a finite number or numeric string.
func (e entry) float(key string) (float64, bool) {
	r, ok := e.get(key)
	if !ok {
		return 0, false
	}

	var f float64
	switch r.Type {
	case gjson.Number:
		f = r.Num
	case gjson.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(r.Str), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// count reads a non-negative whole number.
func (e entry) count(key string) (int, bool) {
	f, ok := e.float(key)
	if !ok || f < 0 || f > math.MaxInt32 || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// object reads a nested object value.
func (e entry) object(key string) (entry, bool) {
	r, ok := e.get(key)
	if !ok || !r.IsObject() {
		return entry{}, false
	}
	return entry{r}, true
}

type pair struct {
	Key   string
	Value string
}

// stringPairs returns the string-valued members of an object value in the
// order the provider sent them. Non-string members are skipped.
func (e entry) stringPairs(key string) []pair {
	obj, ok := e.object(key)
	if !ok {
		return nil
	}

	var pairs []pair
	obj.ForEach(func(k, v gjson.Result) bool {
		if v.Type == gjson.String {
			pairs = append(pairs, pair{Key: k.Str, Value: v.Str})
		}
		return true
	})
	return pairs
}
