package model

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Extra is one kind of extra a delivery can carry.
type Extra uint8

const (
	Wide Extra = 1 << iota
	NoBall
	Bye
	LegBye
)

var extraOrder = [...]Extra{Wide, NoBall, Bye, LegBye}

func (e Extra) String() string {
	switch e {
	case Wide:
		return "Wide"
	case NoBall:
		return "No Ball"
	case Bye:
		return "Bye"
	case LegBye:
		return "Leg Bye"
	}
	return fmt.Sprintf("Extra(%d)", uint8(e))
}

// ParseExtra maps a display label to an extra.
func ParseExtra(s string) (Extra, error) {
	for _, e := range extraOrder {
		if strings.EqualFold(e.String(), s) {
			return e, nil
		}
	}
	return 0, fmt.Errorf("%q: %w", s, ErrUnknownExtra)
}

// Extras is a set of extras. The zero value is the empty set.
type Extras uint8

// NewExtras builds a set from xs.
func NewExtras(xs ...Extra) Extras {
	var s Extras
	for _, x := range xs {
		s = s.With(x)
	}
	return s
}

// Has reports whether x is in the set.
func (s Extras) Has(x Extra) bool { return uint8(s)&uint8(x) != 0 }

// With returns the set plus x.
func (s Extras) With(x Extra) Extras { return Extras(uint8(s) | uint8(x)) }

// Without returns the set minus x.
func (s Extras) Without(x Extra) Extras { return Extras(uint8(s) &^ uint8(x)) }

// Empty reports whether no extra is set.
func (s Extras) Empty() bool { return s == 0 }

// List returns the members in canonical order.
func (s Extras) List() []Extra {
	out := make([]Extra, 0, len(extraOrder))
	for _, e := range extraOrder {
		if s.Has(e) {
			out = append(out, e)
		}
	}
	return out
}

func (s Extras) String() string {
	parts := make([]string, 0, len(extraOrder))
	for _, e := range s.List() {
		parts = append(parts, e.String())
	}
	return strings.Join(parts, ",")
}

// MarshalJSON encodes the set as an ordered list of labels.
func (s Extras) MarshalJSON() ([]byte, error) {
	labels := make([]string, 0, len(extraOrder))
	for _, e := range s.List() {
		labels = append(labels, e.String())
	}
	return json.Marshal(labels)
}

// UnmarshalJSON decodes a list of labels. Duplicates collapse.
func (s *Extras) UnmarshalJSON(b []byte) error {
	var labels []string
	if err := json.Unmarshal(b, &labels); err != nil {
		return err
	}
	set, err := ParseExtras(labels)
	if err != nil {
		return err
	}
	*s = set
	return nil
}

// ParseExtras builds a set from display labels.
func ParseExtras(labels []string) (Extras, error) {
	var set Extras
	for _, l := range labels {
		e, err := ParseExtra(l)
		if err != nil {
			return 0, err
		}
		set = set.With(e)
	}
	return set, nil
}
