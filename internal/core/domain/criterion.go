package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// MatchMode selects how a filter value is compared with a listing field.
type MatchMode int

const (
	MatchExact MatchMode = iota
	MatchContains
)

// FilterValue is either a single scalar or a list of scalars. Values are kept
// trimmed; blank entries are dropped.
type FilterValue struct {
	items []string
	list  bool
}

func Scalar(v string) FilterValue {
	return FilterValue{items: compactStrings([]string{v})}
}

func List(vs ...string) FilterValue {
	return FilterValue{items: compactStrings(vs), list: true}
}

func compactStrings(vs []string) []string {
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func (v FilterValue) IsList() bool { return v.list }

// IsEmpty is true for "", [] and lists of blanks. Empty values constrain nothing.
func (v FilterValue) IsEmpty() bool { return len(v.items) == 0 }

func (v FilterValue) Values() []string {
	out := make([]string, len(v.items))
	copy(out, v.items)
	return out
}

// Matches reports whether any of the listing values satisfies any wanted
// value under mode. Comparison is case-insensitive. An empty FilterValue
// matches everything.
func (v FilterValue) Matches(got []string, mode MatchMode) bool {
	if v.IsEmpty() {
		return true
	}
	for _, want := range v.items {
		want = strings.ToLower(want)
		for _, g := range got {
			g = strings.ToLower(strings.TrimSpace(g))
			switch mode {
			case MatchContains:
				if strings.Contains(g, want) {
					return true
				}
			default:
				if g == want {
					return true
				}
			}
		}
	}
	return false
}

func (v FilterValue) MarshalJSON() ([]byte, error) {
	if v.list {
		return json.Marshal(v.items)
	}
	if len(v.items) == 0 {
		return []byte(`""`), nil
	}
	return json.Marshal(v.items[0])
}

// UnmarshalJSON accepts a string, number, boolean, null or an array of those.
// Objects and nested arrays carry no usable value and decode as empty.
func (v *FilterValue) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw any
	if err := dec.Decode(&raw); err != nil {
		return fmt.Errorf("filter value: %w", err)
	}

	switch t := raw.(type) {
	case []any:
		items := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := ScalarString(item); ok {
				items = append(items, s)
			}
		}
		*v = List(items...)
	default:
		s, _ := ScalarString(t)
		*v = Scalar(s)
	}
	return nil
}

// MatchCriterion is the persisted form of a saved search or wanted request.
type MatchCriterion struct {
	Category     Category               `json:"category,omitempty"`
	Locations    []string               `json:"locations,omitempty"`
	PriceMin     *float64               `json:"price_min,omitempty"`
	PriceMax     *float64               `json:"price_max,omitempty"`
	PriceIgnored bool                   `json:"price_not_matter,omitempty"`
	Models       []string               `json:"models,omitempty"`
	YearMin      *int                   `json:"year_min,omitempty"`
	YearMax      *int                   `json:"year_max,omitempty"`
	Filters      map[string]FilterValue `json:"filters,omitempty"`
}

// UnmarshalJSON also accepts a single "location" string, which older wanted
// requests were stored with.
func (c *MatchCriterion) UnmarshalJSON(data []byte) error {
	type plain MatchCriterion
	var aux struct {
		plain
		Location string `json:"location"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("match criterion: %w", err)
	}
	*c = MatchCriterion(aux.plain)
	if loc := strings.TrimSpace(aux.Location); loc != "" {
		c.Locations = append(c.Locations, loc)
	}
	return nil
}

// Validate rejects criteria no listing could meaningfully be checked against.
func (c MatchCriterion) Validate() error {
	if c.Category != "" && !c.Category.IsValid() {
		return fmt.Errorf("%w: unknown category %q", ErrInvalidCriterion, c.Category)
	}
	if c.YearMin != nil && !ValidManufactureYear(*c.YearMin) {
		return fmt.Errorf("%w: year_min must be within %d-%d", ErrInvalidCriterion, MinManufactureYear, MaxManufactureYear)
	}
	if c.YearMax != nil && !ValidManufactureYear(*c.YearMax) {
		return fmt.Errorf("%w: year_max must be within %d-%d", ErrInvalidCriterion, MinManufactureYear, MaxManufactureYear)
	}
	if c.YearMin != nil && c.YearMax != nil && *c.YearMin > *c.YearMax {
		return fmt.Errorf("%w: year_min is greater than year_max", ErrInvalidCriterion)
	}
	if (c.PriceMin != nil && *c.PriceMin < 0) || (c.PriceMax != nil && *c.PriceMax < 0) {
		return fmt.Errorf("%w: price bounds must not be negative", ErrInvalidCriterion)
	}
	if c.PriceMin != nil && c.PriceMax != nil && *c.PriceMin > *c.PriceMax {
		return fmt.Errorf("%w: price_min is greater than price_max", ErrInvalidCriterion)
	}
	return nil
}
