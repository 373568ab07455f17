package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// Edibility is the boolean edibility filter.
type Edibility int

const (
	EdibilityAny Edibility = iota
	EdibilityEdible
	EdibilityInedible
)

// UI keys for the edibility filter.
const (
	EdibleKey   = "comestiveis"
	InedibleKey = "nao-comestiveis"
)

// ParseEdibility maps a UI key to an Edibility. Unknown keys report false.
func ParseEdibility(key string) (Edibility, bool) {
	switch key {
	case EdibleKey:
		return EdibilityEdible, true
	case InedibleKey:
		return EdibilityInedible, true
	default:
		return EdibilityAny, false
	}
}

// Filter narrows a list of plant views. Empty fields match everything.
type Filter struct {
	Category  string `json:"category,omitempty"`
	Type      string `json:"type,omitempty"`
	Edibility string `json:"edibility,omitempty"`
}

// Apply filters by category, then type, then edibility. Category and type
// are case-insensitive substring matches. Apply never modifies views.
func (f Filter) Apply(views []PlantView) []PlantView {
	fold := cases.Fold()
	category := fold.String(f.Category)
	typ := fold.String(f.Type)
	edibility, hasEdibility := ParseEdibility(f.Edibility)

	out := make([]PlantView, 0, len(views))
	for _, v := range views {
		if category != "" && !strings.Contains(fold.String(v.CategoryName), category) {
			continue
		}
		if typ != "" && !strings.Contains(fold.String(v.TypeName), typ) {
			continue
		}
		if hasEdibility && v.Edible != (edibility == EdibilityEdible) {
			continue
		}
		out = append(out, v)
	}
	return out
}
