// Package urlsync maps FacetState to and from its shareable query-string
// representation. Parse applies defaults for absent keys; Serialize omits
// keys whose value equals the default, keeping URLs minimal and stable.
// The round-trip Parse(Serialize(s)) == s holds for every normalized state.
package urlsync

import (
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"ad-query-service/internal/domain"
)

// Query-string keys. Short and stable: these end up in bookmarks.
const (
	keyText     = "q"
	keyCategory = "cat"
	keyMain     = "mcat"
	keyAttr     = "attr"
	keyLocation = "loc"
	keyMinPrice = "min"
	keyMaxPrice = "max"
	keyCond     = "cond"
	keyFeatured = "feat"
	keySort     = "sort"
	keyOrder    = "order"
	keyPage     = "page"
	keySize     = "size"
	keyOwner    = "owner"
)

const orderAsc = "asc"

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

// form is the flat shape gorilla/schema decodes into. Attribute values use
// packed attr=<id>:<value> params and are parsed by hand.
type form struct {
	Text     string   `schema:"q"`
	Category string   `schema:"cat"`
	Main     string   `schema:"mcat"`
	Location string   `schema:"loc"`
	MinPrice *float64 `schema:"min"`
	MaxPrice *float64 `schema:"max"`
	Cond     string   `schema:"cond"`
	Featured *bool    `schema:"feat"`
	Sort     string   `schema:"sort"`
	Order    string   `schema:"order"`
	Page     int      `schema:"page"`
	Size     int      `schema:"size"`
	Owner    string   `schema:"owner"`
}

// Parse builds a FacetState from a raw query string. Every absent key falls
// back to its default; unknown keys and malformed attr params are ignored
// rather than rejected, since shared URLs outlive schema changes.
func Parse(rawQuery string) (domain.FacetState, error) {
	state := domain.DefaultFacetState()

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return state, fmt.Errorf("parsing query string: %w", err)
	}

	var f form
	if err := decoder.Decode(&f, values); err != nil {
		return state, fmt.Errorf("decoding query parameters: %w", err)
	}

	state.FreeText = f.Text
	state.CategoryID = f.Category
	state.MainCategoryID = f.Main
	state.LocationID = f.Location
	state.MinPrice = f.MinPrice
	state.MaxPrice = f.MaxPrice
	state.Featured = f.Featured
	state.OwnerScopeID = f.Owner

	switch f.Cond {
	case domain.ConditionNew:
		v := true
		state.Condition = &v
	case domain.ConditionUsed:
		v := false
		state.Condition = &v
	}

	if f.Sort != "" {
		state.SortField = domain.SortField(f.Sort)
	}
	if f.Order == orderAsc {
		state.SortDescending = false
	}
	if f.Page > 0 {
		state.Page = f.Page
	}
	if f.Size > 0 {
		state.PageSize = f.Size
	}

	state.SubCategoryValues = parseAttrs(values[keyAttr])
	state.Normalize()

	return state, nil
}

// parseAttrs decodes packed attr=<id>:<value> params. Malformed entries are
// skipped.
func parseAttrs(packed []string) map[string]string {
	if len(packed) == 0 {
		return nil
	}
	out := map[string]string{}
	for _, p := range packed {
		id, value, ok := strings.Cut(p, ":")
		id = strings.TrimSpace(id)
		value = strings.TrimSpace(value)
		if !ok || id == "" || value == "" {
			continue
		}
		out[id] = value
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Serialize renders a state as its minimal query string. Keys whose value
// equals the default are omitted. Attribute params are emitted in sorted id
// order so the same state always yields the same URL.
func Serialize(s domain.FacetState) string {
	s.Normalize()

	values := url.Values{}
	setIf := func(key, val string) {
		if val != "" {
			values.Set(key, val)
		}
	}

	setIf(keyText, s.FreeText)
	setIf(keyCategory, s.CategoryID)
	setIf(keyMain, s.MainCategoryID)
	setIf(keyLocation, s.LocationID)
	setIf(keyOwner, s.OwnerScopeID)

	if s.MinPrice != nil {
		values.Set(keyMinPrice, formatPrice(*s.MinPrice))
	}
	if s.MaxPrice != nil {
		values.Set(keyMaxPrice, formatPrice(*s.MaxPrice))
	}
	if s.Condition != nil {
		if *s.Condition {
			values.Set(keyCond, domain.ConditionNew)
		} else {
			values.Set(keyCond, domain.ConditionUsed)
		}
	}
	if s.Featured != nil {
		values.Set(keyFeatured, strconv.FormatBool(*s.Featured))
	}
	if s.SortField != domain.SortFieldCreatedAt {
		values.Set(keySort, string(s.SortField))
	}
	if !s.SortDescending {
		values.Set(keyOrder, orderAsc)
	}
	if s.Page > 1 {
		values.Set(keyPage, strconv.Itoa(s.Page))
	}
	if s.PageSize != domain.DefaultPageSize {
		values.Set(keySize, strconv.Itoa(s.PageSize))
	}

	for _, id := range sortedKeys(s.SubCategoryValues) {
		values.Add(keyAttr, id+":"+s.SubCategoryValues[id])
	}

	return values.Encode()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func sortedKeys(m map[string]string) []string {
	if len(m) == 0 {
		return nil
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
