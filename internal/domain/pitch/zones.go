package pitch

import "fmt"

// LengthZone classifies how far down the pitch the ball bounced. Zones are
// ordered from the far (bowling) end of the drawn pitch to the near end.
type LengthZone int

// Length zones in index order.
const (
	FullToss LengthZone = iota
	Yorker
	Full
	Good
	Short
	Bouncer
)

// ZoneCount is the number of length zones.
const ZoneCount = 6

var zoneLabels = [ZoneCount]string{"Full Toss", "Yorker", "Full", "Good", "Short", "Bouncer"}

// Zones returns all length zones in index order.
func Zones() []LengthZone {
	return []LengthZone{FullToss, Yorker, Full, Good, Short, Bouncer}
}

// Valid reports whether z is one of the defined zones.
func (z LengthZone) Valid() bool { return z >= 0 && int(z) < ZoneCount }

func (z LengthZone) String() string {
	if !z.Valid() {
		return fmt.Sprintf("LengthZone(%d)", int(z))
	}
	return zoneLabels[z]
}

// MarshalText encodes the zone as its display label.
func (z LengthZone) MarshalText() ([]byte, error) {
	if !z.Valid() {
		return nil, fmt.Errorf("length zone %d: %w", int(z), ErrUnknownCategory)
	}
	return []byte(zoneLabels[z]), nil
}

// UnmarshalText decodes a display label.
func (z *LengthZone) UnmarshalText(b []byte) error {
	v, err := ParseLengthZone(string(b))
	if err != nil {
		return err
	}
	*z = v
	return nil
}

// ParseLengthZone maps a display label back to its zone.
func ParseLengthZone(s string) (LengthZone, error) {
	for i, l := range zoneLabels {
		if l == s {
			return LengthZone(i), nil
		}
	}
	return 0, fmt.Errorf("length zone %q: %w", s, ErrUnknownCategory)
}

// LineColumn classifies the lateral line of the ball relative to the stumps.
type LineColumn int

// Line columns in index order, left to right across the drawn pitch.
const (
	WideOutsideOff LineColumn = iota
	OutsideOff
	Middle
	OutsideLeg
	WideDownLeg
)

// ColumnCount is the number of line columns.
const ColumnCount = 5

var columnLabels = [ColumnCount]string{"Wide Outside Off", "Outside Off", "Middle", "Outside Leg", "Wide Down Leg"}

// Columns returns all line columns in index order.
func Columns() []LineColumn {
	return []LineColumn{WideOutsideOff, OutsideOff, Middle, OutsideLeg, WideDownLeg}
}

// Valid reports whether c is one of the defined columns.
func (c LineColumn) Valid() bool { return c >= 0 && int(c) < ColumnCount }

func (c LineColumn) String() string {
	if !c.Valid() {
		return fmt.Sprintf("LineColumn(%d)", int(c))
	}
	return columnLabels[c]
}

// MarshalText encodes the column as its display label.
func (c LineColumn) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("line column %d: %w", int(c), ErrUnknownCategory)
	}
	return []byte(columnLabels[c]), nil
}

// UnmarshalText decodes a display label.
func (c *LineColumn) UnmarshalText(b []byte) error {
	v, err := ParseLineColumn(string(b))
	if err != nil {
		return err
	}
	*c = v
	return nil
}

// ParseLineColumn maps a display label back to its column.
func ParseLineColumn(s string) (LineColumn, error) {
	for i, l := range columnLabels {
		if l == s {
			return LineColumn(i), nil
		}
	}
	return 0, fmt.Errorf("line column %q: %w", s, ErrUnknownCategory)
}
