package field

import "fmt"

// Sector is one of eight radial wedges of the field, numbered clockwise from
// north (straight up on the wagon wheel).
type Sector int

// Sectors in index order.
const (
	FineLeg Sector = iota
	SquareLeg
	MidWicket
	LongOn
	LongOff
	Covers
	Point
	ThirdMan
)

// SectorCount is the number of field sectors.
const SectorCount = 8

var sectorLabels = [SectorCount]string{
	"Fine Leg", "Square Leg", "Mid Wicket", "Long On", "Long Off", "Covers", "Point", "Third Man",
}

// Sectors returns all sectors in index order.
func Sectors() []Sector {
	return []Sector{FineLeg, SquareLeg, MidWicket, LongOn, LongOff, Covers, Point, ThirdMan}
}

// Valid reports whether s is one of the defined sectors.
func (s Sector) Valid() bool { return s >= 0 && int(s) < SectorCount }

func (s Sector) String() string {
	if !s.Valid() {
		return fmt.Sprintf("Sector(%d)", int(s))
	}
	return sectorLabels[s]
}

// MarshalText encodes the sector as its display label.
func (s Sector) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("sector %d: %w", int(s), ErrUnknownCategory)
	}
	return []byte(sectorLabels[s]), nil
}

// UnmarshalText decodes a display label.
func (s *Sector) UnmarshalText(b []byte) error {
	v, err := ParseSector(string(b))
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// ParseSector maps a display label back to its sector.
func ParseSector(label string) (Sector, error) {
	for i, l := range sectorLabels {
		if l == label {
			return Sector(i), nil
		}
	}
	return 0, fmt.Errorf("sector %q: %w", label, ErrUnknownCategory)
}

// Ring splits the field into the area inside the fielding circle and the
// area beyond it.
type Ring int

const (
	Infield Ring = iota
	Outfield
)

func (r Ring) String() string {
	switch r {
	case Infield:
		return "Infield"
	case Outfield:
		return "Outfield"
	}
	return fmt.Sprintf("Ring(%d)", int(r))
}

// MarshalText encodes the ring as its display label.
func (r Ring) MarshalText() ([]byte, error) {
	if r != Infield && r != Outfield {
		return nil, fmt.Errorf("ring %d: %w", int(r), ErrUnknownCategory)
	}
	return []byte(r.String()), nil
}

// UnmarshalText decodes a display label.
func (r *Ring) UnmarshalText(b []byte) error {
	switch string(b) {
	case "Infield":
		*r = Infield
	case "Outfield":
		*r = Outfield
	default:
		return fmt.Errorf("ring %q: %w", string(b), ErrUnknownCategory)
	}
	return nil
}
