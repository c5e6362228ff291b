// Package reference supplies the selection lists the scorer picks from:
// teams, players, venues and the shot, ball and dismissal vocabularies.
package reference

import (
	"fmt"
	"slices"
	"strings"
)

// Kind names a reference list.
type Kind string

const (
	Teams       Kind = "teams"
	Players     Kind = "players"
	Venues      Kind = "venues"
	ShotTypes   Kind = "shot-types"
	BallTypes   Kind = "ball-types"
	WicketTypes Kind = "wicket-types"
)

// Kinds returns every reference kind.
func Kinds() []Kind {
	return []Kind{Teams, Players, Venues, ShotTypes, BallTypes, WicketTypes}
}

// ParseKind validates a kind name.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(Kinds(), k) {
		return k, nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrUnknownKind)
}

// Entry is one selectable item. Group is the secondary attribute the UI
// filters by: a player's team, a shot's category, a ball's bowler type.
type Entry struct {
	Name  string `json:"name"`
	Group string `json:"group,omitempty"`
}

// Provider is the read side of the reference data.
type Provider interface {
	List(kind Kind) ([]Entry, error)
	Has(kind Kind, name string) bool
}

// Team is a side.
type Team struct {
	Name    string `toml:"name"`
	Code    string `toml:"code"`
	Country string `toml:"country"`
}

// Player is a squad member.
type Player struct {
	Name         string `toml:"name"`
	ShortName    string `toml:"short_name"`
	Team         string `toml:"team"`
	Role         string `toml:"role"`
	BattingStyle string `toml:"batting_style"`
	BowlingStyle string `toml:"bowling_style"`
}

// Venue is a ground.
type Venue struct {
	Name    string `toml:"name"`
	City    string `toml:"city"`
	Country string `toml:"country"`
}

// ShotType is a named stroke, either Aggressive or Defensive.
type ShotType struct {
	Name     string `toml:"name"`
	Category string `toml:"category"`
}

// BallType is a named delivery variation for a Fast or Spin bowler.
type BallType struct {
	Name       string `toml:"name"`
	BowlerType string `toml:"bowler_type"`
}

// Roster is the full set of reference lists.
type Roster struct {
	Teams       []Team     `toml:"teams"`
	Players     []Player   `toml:"players"`
	Venues      []Venue    `toml:"venues"`
	ShotTypes   []ShotType `toml:"shot_types"`
	BallTypes   []BallType `toml:"ball_types"`
	WicketTypes []string   `toml:"wicket_types"`
}

var _ Provider = (*Roster)(nil)

// List returns the entries of kind in roster order.
func (r *Roster) List(kind Kind) ([]Entry, error) {
	var out []Entry
	switch kind {
	case Teams:
		for _, t := range r.Teams {
			out = append(out, Entry{Name: t.Name, Group: t.Country})
		}
	case Players:
		for _, p := range r.Players {
			out = append(out, Entry{Name: p.Name, Group: p.Team})
		}
	case Venues:
		for _, v := range r.Venues {
			out = append(out, Entry{Name: v.Name, Group: v.City})
		}
	case ShotTypes:
		for _, s := range r.ShotTypes {
			out = append(out, Entry{Name: s.Name, Group: s.Category})
		}
	case BallTypes:
		for _, b := range r.BallTypes {
			out = append(out, Entry{Name: b.Name, Group: b.BowlerType})
		}
	case WicketTypes:
		for _, w := range r.WicketTypes {
			out = append(out, Entry{Name: w})
		}
	default:
		return nil, fmt.Errorf("%q: %w", kind, ErrUnknownKind)
	}
	if out == nil {
		out = []Entry{}
	}
	return out, nil
}

// Has reports whether name is listed under kind. Names compare case-insensitively.
func (r *Roster) Has(kind Kind, name string) bool {
	entries, err := r.List(kind)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return true
		}
	}
	return false
}

// PlayersOf returns the players of team.
func (r *Roster) PlayersOf(team string) []Player {
	var out []Player
	for _, p := range r.Players {
		if strings.EqualFold(p.Team, team) {
			out = append(out, p)
		}
	}
	return out
}

// Validate rejects blank and duplicate names within a list.
func (r *Roster) Validate() error {
	for _, k := range Kinds() {
		entries, _ := r.List(k)
		seen := make(map[string]struct{}, len(entries))
		for i, e := range entries {
			name := strings.ToLower(strings.TrimSpace(e.Name))
			if name == "" {
				return fmt.Errorf("%w: %s entry %d has no name", ErrInvalidRoster, k, i)
			}
			if _, dup := seen[name]; dup {
				return fmt.Errorf("%w: duplicate %s entry %q", ErrInvalidRoster, k, e.Name)
			}
			seen[name] = struct{}{}
		}
	}
	return nil
}
