package reference

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// LoadRoster reads a TOML roster from path. An empty path or a missing file
// yields the built-in roster.
func LoadRoster(path string) (*Roster, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to stat roster: %w", err)
	}
	var r Roster
	if _, err := toml.DecodeFile(path, &r); err != nil {
		return nil, fmt.Errorf("failed to decode roster: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return &r, nil
}

// Default is a small roster for trying the service without a roster file.
func Default() *Roster {
	return &Roster{
		Teams: []Team{
			{Name: "Chennai Super Kings", Code: "CSK", Country: "India"},
			{Name: "Mumbai Indians", Code: "MI", Country: "India"},
		},
		Players: []Player{
			{Name: "Ruturaj Gaikwad", ShortName: "Gaikwad", Team: "Chennai Super Kings", Role: "Batter", BattingStyle: "Right-hand bat"},
			{Name: "Ravindra Jadeja", ShortName: "Jadeja", Team: "Chennai Super Kings", Role: "All-rounder", BattingStyle: "Left-hand bat", BowlingStyle: "Slow left-arm orthodox"},
			{Name: "Rohit Sharma", ShortName: "Rohit", Team: "Mumbai Indians", Role: "Batter", BattingStyle: "Right-hand bat"},
			{Name: "Jasprit Bumrah", ShortName: "Bumrah", Team: "Mumbai Indians", Role: "Bowler", BattingStyle: "Right-hand bat", BowlingStyle: "Right-arm fast"},
		},
		Venues: []Venue{
			{Name: "M. A. Chidambaram Stadium", City: "Chennai", Country: "India"},
			{Name: "Wankhede Stadium", City: "Mumbai", Country: "India"},
		},
		ShotTypes: []ShotType{
			{Name: "Cover Drive", Category: "Aggressive"},
			{Name: "Flick", Category: "Aggressive"},
			{Name: "Cut", Category: "Defensive"},
		},
		BallTypes: []BallType{
			{Name: "Inswinger", BowlerType: "Fast"},
			{Name: "Outswinger", BowlerType: "Fast"},
			{Name: "Leg Cutter", BowlerType: "Spin"},
		},
		WicketTypes: []string{"Bowled", "Caught", "LBW", "Run Out", "Stumped", "Hit Wicket"},
	}
}
