package simulate

import (
	"context"
	"net/http"

	"github.com/okian/cricscore/internal/domain/reference"
)

type referenceList struct {
	Entries []reference.Entry `json:"entries"`
}

// rosterKinds are the lists a simulated innings draws from.
var rosterKinds = []reference.Kind{reference.Players, reference.ShotTypes, reference.BallTypes, reference.WicketTypes}

// RosterFrom reads the simulation roster out of a local provider.
func RosterFrom(p reference.Provider) (Roster, error) {
	return buildRoster(func(k reference.Kind) ([]reference.Entry, error) { return p.List(k) })
}

// fetchRoster reads the simulation roster from the server.
func fetchRoster(ctx context.Context, c *HTTPClient) (Roster, error) {
	return buildRoster(func(k reference.Kind) ([]reference.Entry, error) {
		var list referenceList
		if _, err := c.Do(ctx, http.MethodGet, "/reference/"+string(k), nil, &list, http.StatusOK); err != nil {
			return nil, err
		}
		return list.Entries, nil
	})
}

func buildRoster(list func(reference.Kind) ([]reference.Entry, error)) (Roster, error) {
	var r Roster
	for _, k := range rosterKinds {
		entries, err := list(k)
		if err != nil {
			return Roster{}, err
		}
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name)
		}
		switch k {
		case reference.Players:
			r.Players = names
		case reference.ShotTypes:
			r.ShotTypes = names
		case reference.BallTypes:
			r.BallTypes = names
		case reference.WicketTypes:
			r.WicketTypes = names
		}
	}
	return r, nil
}
