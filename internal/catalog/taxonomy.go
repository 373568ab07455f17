package catalog

import (
	"slices"
	"strconv"
)

// TaxonKind identifies one of the three taxonomy entity kinds.
type TaxonKind string

const (
	KindCategory       TaxonKind = "category"
	KindClassification TaxonKind = "classification"
	KindOrigin         TaxonKind = "origin"
)

// Taxon is implemented by Category, Classification, and Origin.
type Taxon interface {
	TaxonKind() TaxonKind
	TaxonID() string
	Label() string
}

func (Category) TaxonKind() TaxonKind { return KindCategory }
func (c Category) TaxonID() string    { return strconv.Itoa(c.ID) }
func (c Category) Label() string      { return c.Name }

func (Classification) TaxonKind() TaxonKind { return KindClassification }
func (c Classification) TaxonID() string    { return strconv.Itoa(c.ID) }
func (c Classification) Label() string      { return c.Name }

func (Origin) TaxonKind() TaxonKind { return KindOrigin }
func (o Origin) TaxonID() string    { return string(o.ID) }
func (o Origin) Label() string      { return o.Kind }

// Option is the display form of a taxon in a picker.
type Option struct {
	Kind     TaxonKind `json:"kind"`
	ID       string    `json:"id"`
	Label    string    `json:"label"`
	Selected bool      `json:"selected,omitempty"`
}

// Picker is a selection list over one taxon kind.
type Picker[T Taxon] struct {
	items    []T
	selected int // index into items, -1 when nothing is selected
}

// NewPicker creates a picker with nothing selected.
func NewPicker[T Taxon](items []T) *Picker[T] {
	return &Picker[T]{items: items, selected: -1}
}

// Options returns the entries as display options, marking the selection.
func (p *Picker[T]) Options() []Option {
	opts := make([]Option, 0, len(p.items))
	for i, it := range p.items {
		opts = append(opts, Option{
			Kind:     it.TaxonKind(),
			ID:       it.TaxonID(),
			Label:    it.Label(),
			Selected: i == p.selected,
		})
	}
	return opts
}

// SelectByLabel selects the first entry whose label equals label exactly. It
// reports false and leaves the selection unchanged if no entry matches.
func (p *Picker[T]) SelectByLabel(label string) bool {
	i := slices.IndexFunc(p.items, func(it T) bool { return it.Label() == label })
	if i < 0 {
		return false
	}
	p.selected = i
	return true
}

// Selected returns the current selection.
func (p *Picker[T]) Selected() (T, bool) {
	if p.selected < 0 || p.selected >= len(p.items) {
		var zero T
		return zero, false
	}
	return p.items[p.selected], true
}
