package catalog

import (
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
)

// SelectionMode defines how many options of an add-on group a guest may pick.
type SelectionMode string

const (
	SelectionSingle SelectionMode = "single"
	SelectionMulti  SelectionMode = "multi"
)

// ErrSelectionContract is returned when a selection violates the add-on's
// selection mode (wrong mode, or zero/multiple picks on a single-select
// group). Callers are expected to have validated before asking for a price,
// so this is reported rather than coerced.
var ErrSelectionContract = errors.New("selection violates add-on contract")

// ErrUnknownOption is returned when a selection names an option the add-on
// does not define.
var ErrUnknownOption = errors.New("unknown add-on option")

// AddonOption is a single priced choice within an add-on group.
type AddonOption struct {
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	UnitLabel string  `json:"unit_label,omitempty"`
}

// Addon is a reusable priced option group attachable to one or more items,
// e.g. topping choices. The same add-on ID may be referenced by many items.
type Addon struct {
	ID            uuid.UUID     `json:"id"`
	Name          string        `json:"name"`
	Description   string        `json:"description,omitempty"`
	SelectionMode SelectionMode `json:"selection_mode"`
	Options       []AddonOption `json:"options"`
}

// EnsureID generates a new UUID if ID is nil
func (a *Addon) EnsureID() {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
}

// GetID returns the add-on ID
func (a *Addon) GetID() uuid.UUID {
	return a.ID
}

// ResourceType returns the resource type for URL generation
func (a *Addon) ResourceType() string {
	return "catalog/addon"
}

// Validate checks the structural invariants of an add-on definition:
// a known selection mode, at least one option, finite non-negative unit
// prices, and option names unique within the group.
func (a *Addon) Validate() error {
	if a.SelectionMode != SelectionSingle && a.SelectionMode != SelectionMulti {
		return fmt.Errorf("invalid selection mode %q", a.SelectionMode)
	}
	if len(a.Options) == 0 {
		return errors.New("add-on must define at least one option")
	}
	seen := make(map[string]bool, len(a.Options))
	for i, opt := range a.Options {
		if opt.Name == "" {
			return fmt.Errorf("option %d has no name", i)
		}
		if seen[opt.Name] {
			return fmt.Errorf("duplicate option name %q", opt.Name)
		}
		seen[opt.Name] = true
		if math.IsNaN(opt.UnitPrice) || math.IsInf(opt.UnitPrice, 0) || opt.UnitPrice < 0 {
			return fmt.Errorf("option %q has invalid unit price", opt.Name)
		}
	}
	return nil
}

// Option returns the option with the given name.
func (a *Addon) Option(name string) (AddonOption, bool) {
	for _, opt := range a.Options {
		if opt.Name == name {
			return opt, true
		}
	}
	return AddonOption{}, false
}

// Selection is a guest's pick within an add-on group. It is a closed union:
// construct values with Single or Multi so selection-mode mismatches are
// caught by TotalPrice instead of surfacing as arbitrary map lookups.
type Selection interface {
	mode() SelectionMode
	optionNames() []string
}

type singleSelection struct {
	option string
}

func (s singleSelection) mode() SelectionMode   { return SelectionSingle }
func (s singleSelection) optionNames() []string { return []string{s.option} }

type multiSelection struct {
	options []string
}

func (s multiSelection) mode() SelectionMode   { return SelectionMulti }
func (s multiSelection) optionNames() []string { return s.options }

// Single builds a selection of exactly one option for a single-select group.
func Single(option string) Selection {
	return singleSelection{option: option}
}

// Multi builds a set-valued selection for a multi-select group. Duplicate
// names collapse to one pick.
func Multi(options ...string) Selection {
	seen := make(map[string]bool, len(options))
	deduped := make([]string, 0, len(options))
	for _, o := range options {
		if seen[o] {
			continue
		}
		seen[o] = true
		deduped = append(deduped, o)
	}
	return multiSelection{options: deduped}
}

// TotalPrice computes the price contribution of a selection against this
// add-on. It is pure: the same definition and selection always yield the
// same total.
//
// Single-select groups require exactly one named option. Multi-select
// groups sum unit prices over the picked options; an empty pick is valid
// and totals zero (required/optional enforcement belongs to the form
// layer, not here).
func (a *Addon) TotalPrice(sel Selection) (float64, error) {
	if err := a.Validate(); err != nil {
		return 0, fmt.Errorf("invalid add-on %s: %w", a.ID, err)
	}
	if sel == nil {
		return 0, fmt.Errorf("%w: nil selection", ErrSelectionContract)
	}
	if sel.mode() != a.SelectionMode {
		return 0, fmt.Errorf("%w: %s selection for %s add-on", ErrSelectionContract, sel.mode(), a.SelectionMode)
	}

	names := sel.optionNames()
	switch a.SelectionMode {
	case SelectionSingle:
		if len(names) != 1 || names[0] == "" {
			return 0, fmt.Errorf("%w: single-select requires exactly one option", ErrSelectionContract)
		}
		opt, ok := a.Option(names[0])
		if !ok {
			return 0, fmt.Errorf("%w: %q", ErrUnknownOption, names[0])
		}
		return opt.UnitPrice, nil
	case SelectionMulti:
		var total float64
		for _, name := range names {
			opt, ok := a.Option(name)
			if !ok {
				return 0, fmt.Errorf("%w: %q", ErrUnknownOption, name)
			}
			total += opt.UnitPrice
		}
		return total, nil
	}

	return 0, fmt.Errorf("invalid selection mode %q", a.SelectionMode)
}
